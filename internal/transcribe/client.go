// Package transcribe submits audio clips to a remote transcription and
// summarization endpoint.
//
// The endpoint accepts a multipart POST with one file field and answers
// with either {"transcript": ..., "summary": ...} or {"error": ...}.
package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/chaz8081/voicesum/internal/audio"
)

// Path is the endpoint path appended to the server URL.
const Path = "/transcribe"

// ErrTooLarge is returned when a clip exceeds the configured upload limit.
var ErrTooLarge = errors.New("transcribe: audio exceeds upload limit")

// Result is a successful transcription.
type Result struct {
	Transcript string `json:"transcript"`
	Summary    string `json:"summary"`
}

// ServerError is an error reported by the server in the response body.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return e.Message
}

// response is the wire shape of both success and error bodies.
type response struct {
	Transcript string `json:"transcript"`
	Summary    string `json:"summary"`
	Error      string `json:"error"`
}

// Options configures a Client.
type Options struct {
	FieldName      string        // multipart field name (default "audio")
	Timeout        time.Duration // 0 = no timeout
	MaxUploadBytes int64         // 0 = no limit
	HTTPClient     *http.Client  // overrides Timeout when set
}

// Client posts clips to the transcription endpoint.
type Client struct {
	endpoint  string
	fieldName string
	maxBytes  int64
	http      *http.Client
}

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string, opts Options) *Client {
	if opts.FieldName == "" {
		opts.FieldName = "audio"
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	return &Client{
		endpoint:  strings.TrimRight(baseURL, "/") + Path,
		fieldName: opts.FieldName,
		maxBytes:  opts.MaxUploadBytes,
		http:      hc,
	}
}

// Endpoint returns the full URL requests are sent to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Transcribe uploads clip and returns the server's transcript and summary.
// A body carrying an error field yields a *ServerError, whatever the
// HTTP status.
func (c *Client) Transcribe(ctx context.Context, clip *audio.Clip) (*Result, error) {
	if clip == nil {
		return nil, fmt.Errorf("transcribe: no audio")
	}
	if c.maxBytes > 0 && clip.Size() > c.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes > %d", ErrTooLarge, clip.Size(), c.maxBytes)
	}

	body, contentType, err := c.encode(clip)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("transcribe: build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("transcribe: post %s: %w", c.endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("transcribe: read response: %w", err)
	}

	var r *response
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("transcribe: decode response (HTTP %d): %w", resp.StatusCode, err)
	}
	if r == nil {
		return nil, fmt.Errorf("transcribe: decode response (HTTP %d): not a JSON object", resp.StatusCode)
	}

	if r.Error != "" {
		return nil, &ServerError{StatusCode: resp.StatusCode, Message: r.Error}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ServerError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("HTTP %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))}
	}

	return &Result{Transcript: r.Transcript, Summary: r.Summary}, nil
}

// encode builds the multipart body with the clip under the file field.
func (c *Client) encode(clip *audio.Clip) (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(c.fieldName), quoteEscaper.Replace(clip.Name)))
	ct := clip.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h.Set("Content-Type", ct)

	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("transcribe: create form part: %w", err)
	}
	if _, err := part.Write(clip.Data); err != nil {
		return nil, "", fmt.Errorf("transcribe: write form part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("transcribe: close form: %w", err)
	}

	return &buf, mw.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")
