// Package api is the HTTP wrapper for the to-do REST service. Every request
// picks up the bearer token from the session store at send time, so a token
// obtained after the client was built is still honored.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/todoterm/todoterm/internal/logging"
	"github.com/todoterm/todoterm/internal/session"
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Code, e.Body)
}

// Client performs authenticated requests against a configured base endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      session.Store // nil means every request goes out unauthenticated
	log        logging.Logger
}

// NewClient builds a client. store may be nil.
func NewClient(baseURL string, timeout time.Duration, store session.Store, log logging.Logger) *Client {
	if log == nil {
		log = logging.NewNop()
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		store:      store,
		log:        log,
	}
}

// Get issues a GET and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build GET %s: %w", path, err)
	}
	return c.do(req, out)
}

// Post issues a POST with a JSON body and decodes the response into out.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.send(ctx, http.MethodPost, path, body, out)
}

// Put issues a PUT with a JSON body and decodes the response into out.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.send(ctx, http.MethodPut, path, body, out)
}

// Delete issues a DELETE and decodes the response into out when there is one.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build DELETE %s: %w", path, err)
	}
	return c.do(req, out)
}

// PostMultipart issues a POST carrying form fields plus a file part named
// "file". PutMultipart is the same for PUT.
func (c *Client) PostMultipart(ctx context.Context, path string, fields map[string]string, fileName string, file []byte, out any) error {
	return c.sendMultipart(ctx, http.MethodPost, path, fields, fileName, file, out)
}

func (c *Client) PutMultipart(ctx context.Context, path string, fields map[string]string, fileName string, file []byte, out any) error {
	return c.sendMultipart(ctx, http.MethodPut, path, fields, fileName, file, out)
}

func (c *Client) send(ctx context.Context, method, path string, body, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal %s %s body: %w", method, path, err)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) sendMultipart(ctx context.Context, method, path string, fields map[string]string, fileName string, file []byte, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return fmt.Errorf("write field %s: %w", k, err)
		}
	}
	part, err := w.CreateFormFile("file", fileName)
	if err != nil {
		return fmt.Errorf("create file part: %w", err)
	}
	if _, err := part.Write(file); err != nil {
		return fmt.Errorf("write file part: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return c.do(req, out)
}

// do attaches the bearer token, executes the request, and decodes the
// response. Errors are logged and returned to the caller unchanged; there is
// no retry and no backoff.
func (c *Client) do(req *http.Request, out any) error {
	c.attachToken(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		err = fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
		c.log.Errorf(req.Context(), "request failed: %v", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		serr := &StatusError{Code: resp.StatusCode, Body: string(raw)}
		c.log.Errorf(req.Context(), "%s %s: %v", req.Method, req.URL.Path, serr)
		return serr
	}

	if out == nil {
		return nil
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s %s response: %w", req.Method, req.URL.Path, err)
	}
	// Some endpoints (DELETE in particular) answer 2xx with an empty body.
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		err = fmt.Errorf("decode %s %s response: %w", req.Method, req.URL.Path, err)
		c.log.Errorf(req.Context(), "%v", err)
		return err
	}
	return nil
}

// attachToken looks the token up per request. A nil store or an empty token
// yields an unauthenticated request, never an error.
func (c *Client) attachToken(req *http.Request) {
	if c.store == nil {
		return
	}
	token := session.StripBearer(c.store.Get(session.KeyAccessToken))
	if token == "" {
		return
	}
	req.Header.Set("Authorization", "Bearer "+token)
}
