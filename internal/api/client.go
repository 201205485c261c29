// Package api talks to the backend that stores longreads.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/henvic/httpretty"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"github.com/idilsaglam/longread/internal/document"
	"github.com/idilsaglam/longread/internal/log"
	"github.com/idilsaglam/longread/internal/model"
)

const longreadsPath = "/backend/admin/api/lesson_resources/longreads"

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithDebug dumps every request and response to out.
func WithDebug(out io.Writer) Option {
	return func(c *Client) {
		logger := &httpretty.Logger{
			Time:            true,
			TLS:             false,
			Colors:          isTerminal(out),
			RequestHeader:   true,
			RequestBody:     true,
			ResponseHeader:  true,
			ResponseBody:    true,
			Formatters:      []httpretty.Formatter{&httpretty.JSONFormatter{}},
			MaxResponseBody: 50000,
		}
		logger.SetOutput(out)
		next := c.http.Transport
		if next == nil {
			next = http.DefaultTransport
		}
		hc := *c.http
		hc.Transport = logger.RoundTripper(next)
		c.http = &hc
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch reads an existing longread by backend id.
func (c *Client) Fetch(ctx context.Context, id int) (model.Document, error) {
	var resp Response
	if err := c.do(ctx, http.MethodGet, longreadsPath+"/"+strconv.Itoa(id), nil, &resp); err != nil {
		return model.Document{}, err
	}
	doc := resp.Longread.Document()
	doc.RemoteID = id
	return doc, nil
}

// Create posts a new longread, optionally attached to a lesson.
func (c *Client) Create(ctx context.Context, lessonID *int, doc model.Document) (Response, error) {
	body := struct {
		Longread Longread `json:"longread"`
		LessonID *int     `json:"lesson_id"`
	}{Longread: fromDocument(doc), LessonID: lessonID}

	var resp Response
	err := c.do(ctx, http.MethodPost, longreadsPath, body, &resp)
	return resp, err
}

// Update patches the longread stored under id.
func (c *Client) Update(ctx context.Context, id int, doc model.Document) (Response, error) {
	body := struct {
		Longread Longread `json:"longread"`
	}{Longread: fromDocument(doc)}

	var resp Response
	err := c.do(ctx, http.MethodPatch, longreadsPath+"/"+strconv.Itoa(id), body, &resp)
	return resp, err
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("json marshal: %w", err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	log.Get().Debug("api request", zap.String("method", method), zap.String("path", path))
	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	log.Get().Debug("api response", zap.Int("status", res.StatusCode), zap.Int("bytes", len(raw)))

	if res.StatusCode < 200 || res.StatusCode > 299 {
		apiErr := &APIError{Status: res.StatusCode, Body: string(raw)}
		_ = json.Unmarshal(raw, &apiErr.Data)
		return apiErr
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("json unmarshal: %w", err)
	}
	if r, ok := out.(*Response); ok && r.HasErrors() {
		return &ResponseError{Errors: r.Errors}
	}
	return nil
}

// Longread is the backend's wire shape of a document.
type Longread struct {
	ID                      int     `json:"id,omitempty"`
	Title                   string  `json:"title"`
	Description             string  `json:"description"`
	ApproximateProgressTime *int    `json:"approximate_progress_time"`
	Reusable                bool    `json:"reusable"`
	IsGoogleLinkUpdated     bool    `json:"is_google_link_updated"`
	Content                 Content `json:"content"`
	ImageIDs                []int   `json:"image_ids"`
}

type Content struct {
	Version  int             `json:"version"`
	Elements []model.Element `json:"elements"`
}

type ImageInfo struct {
	ID               int    `json:"id"`
	OriginalFilename string `json:"original_filename"`
	FileURL          string `json:"file_url"`
}

type Response struct {
	Longread Longread        `json:"longread"`
	Images   []ImageInfo     `json:"images"`
	Errors   json.RawMessage `json:"errors,omitempty"`
}

func (r Response) HasErrors() bool {
	s := strings.TrimSpace(string(r.Errors))
	return s != "" && s != "null" && s != "[]" && s != "{}"
}

func fromDocument(doc model.Document) Longread {
	elements := doc.Elements
	if elements == nil {
		elements = []model.Element{}
	}
	return Longread{
		Title:                   doc.Title,
		Description:             doc.InternalDescription,
		ApproximateProgressTime: doc.ApproximateProgressTime,
		Reusable:                doc.ReusableContentEnabled,
		IsGoogleLinkUpdated:     doc.IsGoogleLinkUpdated,
		Content:                 Content{Version: doc.Version, Elements: elements},
		ImageIDs:                document.ImageIDs(doc),
	}
}

// Document maps the wire shape back to the editor's form values.
func (l Longread) Document() model.Document {
	return model.Document{
		Title:                   l.Title,
		Version:                 l.Content.Version,
		InternalDescription:     l.Description,
		ApproximateProgressTime: l.ApproximateProgressTime,
		ReusableContentEnabled:  l.Reusable,
		IsGoogleLinkUpdated:     l.IsGoogleLinkUpdated,
		Elements:                l.Content.Elements,
		RemoteID:                l.ID,
	}
}
