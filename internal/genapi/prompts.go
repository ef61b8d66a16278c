package genapi

import "blogsmith/internal/prompt"

var topicPromptSpec = prompt.Spec{
	Purpose:    "Discover one timely blog topic for the client's website.",
	Background: "The topic seeds a full article pipeline; it must fit the client's business and not repeat recently covered topics.",
	OutputFields: []prompt.Field{
		{Name: "topic", Type: "string", Required: true, Description: "One concrete, searchable blog topic."},
		{Name: "sources", Type: "[]{uri,title}", Required: true, Description: "Citations supporting the topic's relevance."},
	},
	Constraints: []string{
		"Avoid every topic listed under recent_topics.",
		"Prefer topics with clear search intent over news commentary.",
	},
	OutputFormat: "JSON only.",
	Language:     "English",
}

var planPromptSpec = prompt.Spec{
	Purpose:    "Turn a topic into a content plan: title, angle, target keywords.",
	Background: "The plan drives outline, content, and image generation downstream.",
	OutputFields: []prompt.Field{
		{Name: "title", Type: "string", Required: true, Description: "Publishable post title."},
		{Name: "angle", Type: "string", Required: true, Description: "The perspective the article takes."},
		{Name: "keywords", Type: "[]string", Required: true, Description: "Ordered target keywords, most important first."},
	},
	Constraints: []string{
		"When the input already fixes a title, keep it verbatim.",
		"Keywords must be lowercase phrases, no hashtags.",
	},
	OutputFormat: "JSON only.",
	Language:     "English",
}

var outlinePromptSpec = prompt.Spec{
	Purpose:    "Draft a heading-delimited outline for the planned article.",
	Background: "Headings use Markdown hash markers; the outline is later used to extract section headings for image generation.",
	OutputFields: []prompt.Field{
		{Name: "outline", Type: "string", Required: true, Description: "Markdown outline, one heading per line prefixed with #/##."},
		{Name: "estimated_word_count", Type: "int", Required: true, Description: "Realistic word count for the finished article."},
		{Name: "seo_score", Type: "int", Required: true, Description: "Self-assessed SEO strength, 0-100."},
	},
	OutputFormat: "JSON only.",
	Language:     "English",
}

var contentPromptSpec = prompt.Spec{
	Purpose:    "Write the full article following the outline.",
	Background: "Output is published to WordPress as-is; the body must be valid HTML without <html> or <body> wrappers.",
	OutputFields: []prompt.Field{
		{Name: "content", Type: "string", Required: true, Description: "Full HTML article body."},
		{Name: "meta_description", Type: "string", Required: true, Description: "Meta description, at most 160 characters."},
		{Name: "word_count", Type: "int", Required: true, Description: "Word count of the article body."},
		{Name: "faq", Type: "[]{question,answer}", Required: false, Description: "Optional FAQ entries derived from the content."},
	},
	Constraints: []string{
		"Cover every outline heading in order.",
		"Use <h2>/<h3> for section headings, <p> for prose.",
	},
	OutputFormat: "JSON only.",
	Language:     "English",
}

var imagesPromptSpec = prompt.Spec{
	Purpose:    "Describe a featured image and per-section images for the article.",
	Background: "Descriptions are used as alt text and, when the model supports it, to synthesize the images themselves.",
	OutputFields: []prompt.Field{
		{Name: "featured_image", Type: "{description,data}", Required: true, Description: "Hero image; data is an optional base64 data URI."},
		{Name: "in_body_images", Type: "[]{heading,image}", Required: true, Description: "One image per provided heading, same order."},
	},
	OutputFormat: "JSON only.",
	Language:     "English",
}

var titlesPromptSpec = prompt.Spec{
	Purpose:    "Propose supporting article titles related to a primary post.",
	Background: "Supporting posts are scheduled after the primary one and interlink with it.",
	OutputFields: []prompt.Field{
		{Name: "titles", Type: "[]string", Required: true, Description: "Exactly count titles, distinct from the primary title."},
	},
	OutputFormat: "JSON only.",
	Language:     "English",
}

var extendPromptSpec = prompt.Spec{
	Purpose:    "Continue an already-published article that came out too short.",
	Background: "The continuation is appended verbatim after the existing body of the live post.",
	OutputFields: []prompt.Field{
		{Name: "content", Type: "string", Required: true, Description: "Additional HTML sections; no repetition of existing text."},
	},
	Constraints: []string{
		"Match the tone and heading structure of the existing body.",
	},
	OutputFormat: "JSON only.",
	Language:     "English",
}
