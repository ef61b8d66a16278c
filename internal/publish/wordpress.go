// Package publish talks to the WordPress REST API: immediate, draft, and
// future-dated posts, plus in-place updates of published posts.
package publish

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// WordPress implements Publisher against one site's wp-json API using
// application-password auth.
type WordPress struct {
	baseURL     string
	user        string
	appPassword string
	httpClient  *http.Client
}

var _ Publisher = (*WordPress)(nil)

func NewWordPress(baseURL, user, appPassword string) *WordPress {
	return &WordPress{
		baseURL:     strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		user:        user,
		appPassword: appPassword,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type wpPostPayload struct {
	Title         string  `json:"title"`
	Content       string  `json:"content"`
	Excerpt       string  `json:"excerpt,omitempty"`
	Status        string  `json:"status"`
	DateGMT       string  `json:"date_gmt,omitempty"`
	Tags          []int64 `json:"tags,omitempty"`
	Categories    []int64 `json:"categories,omitempty"`
	FeaturedMedia int64   `json:"featured_media,omitempty"`
}

type wpPostResponse struct {
	ID     int64  `json:"id"`
	Link   string `json:"link"`
	Status string `json:"status"`
}

// Publish creates a post. Tags and categories are resolved to term ids,
// creating missing terms on the fly; a featured image data URI is
// uploaded to the media library first.
func (w *WordPress) Publish(ctx context.Context, req Request) (Result, error) {
	if w == nil || w.baseURL == "" {
		return Result{}, fmt.Errorf("wordpress client misconfigured")
	}

	payload := wpPostPayload{
		Title:   req.Title,
		Content: req.HTML,
		Excerpt: req.MetaDescription,
		Status:  "draft",
	}
	switch {
	case req.ScheduleAt != nil:
		payload.Status = "future"
		payload.DateGMT = req.ScheduleAt.UTC().Format("2006-01-02T15:04:05")
	case req.PublishNow:
		payload.Status = "publish"
	}

	tagIDs, err := w.resolveTerms(ctx, "tags", req.Tags)
	if err != nil {
		return Result{}, fmt.Errorf("resolve tags: %w", err)
	}
	payload.Tags = tagIDs

	catIDs, err := w.resolveTerms(ctx, "categories", req.Categories)
	if err != nil {
		return Result{}, fmt.Errorf("resolve categories: %w", err)
	}
	payload.Categories = catIDs

	if strings.TrimSpace(req.FeaturedImageData) != "" {
		mediaID, err := w.uploadMedia(ctx, req.Title, req.FeaturedImageData)
		if err != nil {
			return Result{}, fmt.Errorf("upload featured image: %w", err)
		}
		payload.FeaturedMedia = mediaID
	}

	var resp wpPostResponse
	if err := w.doJSON(ctx, http.MethodPost, "/wp-json/wp/v2/posts", payload, &resp); err != nil {
		return Result{}, err
	}

	res := Result{
		Success: true,
		Status:  statusFromWP(resp.Status),
		PostID:  resp.ID,
		PostURL: resp.Link,
		EditURL: fmt.Sprintf("%s/wp-admin/post.php?post=%d&action=edit", w.baseURL, resp.ID),
	}
	res.Message = fmt.Sprintf("post %d %s", resp.ID, res.Status)
	return res, nil
}

// UpdatePost rewrites the body and excerpt of an existing post.
func (w *WordPress) UpdatePost(ctx context.Context, postID int64, upd Update) error {
	if postID <= 0 {
		return fmt.Errorf("post id is required")
	}
	payload := map[string]string{
		"content": upd.HTML,
	}
	if upd.MetaDescription != "" {
		payload["excerpt"] = upd.MetaDescription
	}
	path := fmt.Sprintf("/wp-json/wp/v2/posts/%d", postID)
	return w.doJSON(ctx, http.MethodPost, path, payload, &wpPostResponse{})
}

func statusFromWP(s string) Status {
	switch s {
	case "publish":
		return StatusPublished
	case "future":
		return StatusScheduled
	default:
		return StatusDraft
	}
}

type wpTerm struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// resolveTerms maps term names to ids for the given taxonomy endpoint
// ("tags" or "categories"), creating terms that do not exist yet.
func (w *WordPress) resolveTerms(ctx context.Context, taxonomy string, names []string) ([]int64, error) {
	var ids []int64
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		id, err := w.findTerm(ctx, taxonomy, name)
		if err != nil {
			return nil, err
		}
		if id == 0 {
			var created wpTerm
			err := w.doJSON(ctx, http.MethodPost, "/wp-json/wp/v2/"+taxonomy, map[string]string{"name": name}, &created)
			if err != nil {
				return nil, err
			}
			id = created.ID
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (w *WordPress) findTerm(ctx context.Context, taxonomy, name string) (int64, error) {
	path := "/wp-json/wp/v2/" + taxonomy + "?search=" + url.QueryEscape(name)
	var terms []wpTerm
	if err := w.doJSON(ctx, http.MethodGet, path, nil, &terms); err != nil {
		return 0, err
	}
	for _, t := range terms {
		if strings.EqualFold(t.Name, name) {
			return t.ID, nil
		}
	}
	return 0, nil
}

// uploadMedia decodes a base64 data URI and posts it to the media library.
func (w *WordPress) uploadMedia(ctx context.Context, title, dataURI string) (int64, error) {
	contentType, data, err := DecodeDataURI(dataURI)
	if err != nil {
		return 0, err
	}
	ext := "png"
	if parts := strings.SplitN(contentType, "/", 2); len(parts) == 2 && parts[1] != "" {
		ext = parts[1]
	}
	filename := slugify(title) + "." + ext

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.baseURL+"/wp-json/wp/v2/media", bytes.NewReader(data))
	if err != nil {
		return 0, err
	}
	req.SetBasicAuth(w.user, w.appPassword)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return 0, httpError(resp)
	}
	var media struct {
		ID int64 `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&media); err != nil {
		return 0, fmt.Errorf("decode media response: %w", err)
	}
	return media.ID, nil
}

func (w *WordPress) doJSON(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, w.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.SetBasicAuth(w.user, w.appPassword)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return httpError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func httpError(resp *http.Response) error {
	payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	return fmt.Errorf("wordpress error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
}

// DecodeDataURI splits "data:<type>;base64,<payload>" into content type
// and raw bytes.
func DecodeDataURI(s string) (string, []byte, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "data:") {
		return "", nil, fmt.Errorf("not a data uri")
	}
	meta, payload, ok := strings.Cut(s[len("data:"):], ",")
	if !ok {
		return "", nil, fmt.Errorf("malformed data uri")
	}
	contentType := strings.TrimSuffix(meta, ";base64")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decode data uri: %w", err)
	}
	return contentType, data, nil
}

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	lastDash := true
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		return "image"
	}
	return out
}
