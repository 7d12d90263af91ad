package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/google/uuid"
)

const (
	headerAuthorization = "Authorization"
	headerContentType   = "Content-Type"
	headerAccept        = "Accept"
	headerUserAgent     = "User-Agent"
	headerRequestID     = "X-Request-ID"
	contentTypeJSON     = "application/json"
)

// call is one logical API operation. The body is kept as bytes so the call
// can be replayed after a refresh.
type call struct {
	method  string
	path    string
	query   url.Values
	body    []byte
	id      string
	retried bool
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// newRequest builds the HTTP request for cl carrying token as the bearer
// credential. An empty token leaves the request unauthenticated.
func (c *Client) newRequest(ctx context.Context, cl *call, token string) (*http.Request, error) {
	var body io.Reader
	if cl.body != nil {
		body = bytes.NewReader(cl.body)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, c.endpoint(cl.path, cl.query), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set(headerAccept, contentTypeJSON)
	req.Header.Set(headerContentType, contentTypeJSON)
	req.Header.Set(headerUserAgent, c.userAgent)
	req.Header.Set(headerRequestID, cl.id)
	if token != "" {
		req.Header.Set(headerAuthorization, "Bearer "+token)
	}
	return req, nil
}

// dispatch sends cl once. Transport failures are reported as ErrUnavailable
// unless the context ended first.
func (c *Client) dispatch(ctx context.Context, cl *call, token string) (*http.Response, error) {
	req, err := c.newRequest(ctx, cl, token)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	c.log.Debug(ctx, "api request", "method", cl.method, "path", cl.path,
		"status", resp.StatusCode, "request_id", cl.id, "retried", cl.retried)
	return resp, nil
}

// roundTrip is the authenticated pipeline: attach the access token, and on
// the first 401 reauthenticate and replay exactly once.
func (c *Client) roundTrip(ctx context.Context, cl *call) (*http.Response, error) {
	token := c.store.AccessToken()

	resp, err := c.dispatch(ctx, cl, token)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized || cl.retried {
		return resp, nil
	}

	cl.retried = true
	unauthorized := readError(resp)

	fresh, err := c.reauthenticate(ctx, token)
	if err != nil {
		if errors.Is(err, errNoRefreshToken) {
			return nil, unauthorized
		}
		return nil, err
	}

	c.log.Debug(ctx, "replaying request with refreshed token", "path", cl.path, "request_id", cl.id)
	return c.dispatch(ctx, cl, fresh)
}

// do runs one call through the pipeline and decodes a 2xx body into out.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	cl := &call{method: method, path: path, query: query, id: uuid.NewString()}
	if in != nil {
		b, err := jsonBody(in)
		if err != nil {
			return err
		}
		cl.body = b
	}

	resp, err := c.roundTrip(ctx, cl)
	if err != nil {
		return err
	}
	return decodeResponse(resp, out)
}

func jsonBody(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	return b, nil
}

func decodeResponse(resp *http.Response, out any) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return parseError(resp.StatusCode, body)
	}

	if out != nil && len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}

// readError consumes an error response into an *APIError.
func readError(resp *http.Response) error {
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return parseError(resp.StatusCode, body)
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, in, out)
}

func (c *Client) put(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, in, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}
