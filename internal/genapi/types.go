package genapi

// Site identifies the client a generation call runs for.
type Site struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	WebsiteURL string `json:"website_url"`
	SitemapURL string `json:"sitemap_url,omitempty"`
}

// Source is one citation backing a discovered topic.
type Source struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// TopicResult is the output of topic discovery. Immutable once set.
type TopicResult struct {
	Topic   string   `json:"topic"`
	Sources []Source `json:"sources"`
}

// Plan is the content plan derived from a topic.
type Plan struct {
	Title    string   `json:"title"`
	Angle    string   `json:"angle"`
	Keywords []string `json:"keywords"`
}

// Outline is a heading-delimited article skeleton.
type Outline struct {
	Outline            string `json:"outline"`
	EstimatedWordCount int    `json:"estimated_word_count"`
	SEOScore           int    `json:"seo_score"`
}

type FAQItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Content is the full article body.
type Content struct {
	HTML            string    `json:"content"`
	MetaDescription string    `json:"meta_description"`
	WordCount       int       `json:"word_count"`
	FAQ             []FAQItem `json:"faq,omitempty"`
}

// Image is a generated image: a description always, a payload when the
// backing model produced one.
type Image struct {
	Description string `json:"description"`
	Data        string `json:"data,omitempty"` // base64 data URI
}

// SectionImage pairs an in-body image with the heading it illustrates.
type SectionImage struct {
	Heading string `json:"heading"`
	Image   Image  `json:"image"`
}

type Images struct {
	Featured Image          `json:"featured_image"`
	InBody   []SectionImage `json:"in_body_images"`
}
