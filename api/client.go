// Package api is the REST client for the VirtualPet backend: auth,
// products and orders endpoints. Responses are plain JSON; errors are
// mapped to the taxonomy the views display (field errors, a general
// detail message, "cannot reach the server", and authorization errors).
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// TokenSource supplies the bearer credential for protected calls. An
// empty string means "not authenticated" and no header is sent.
type TokenSource interface {
	AccessToken() string
}

// Client talks to the VirtualPet API.
type Client struct {
	baseURL string
	httpc   *http.Client
	tokens  TokenSource
	log     zerolog.Logger
}

// NewClient creates a client for the API at baseURL (e.g.
// "http://127.0.0.1:8000/api").
func NewClient(baseURL string, timeout time.Duration, tokens TokenSource, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
		tokens:  tokens,
		log:     log.With().Str("component", "api").Logger(),
	}
}

// do performs one JSON round trip. Every request carries a generated
// request id so callers can correlate log lines and discard responses
// that arrive after the triggering view moved on.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return errors.Wrapf(err, "[api.do] encode %s %s", method, path)
		}
		reqBody = bytes.NewReader(raw)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return errors.Wrapf(err, "[api.do] build %s %s", method, path)
	}
	req.Header.Set("Content-Type", "application/json")

	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	if token := c.tokens.AccessToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	log := c.log.With().Str("request_id", requestID).Str("method", method).Str("path", path).Logger()

	resp, err := c.httpc.Do(req)
	if err != nil {
		log.Warn().Err(err).Msg("transport failure")
		return errors.Wrap(ErrUnreachable, err.Error())
	}
	defer resp.Body.Close()

	log.Debug().Int("status", resp.StatusCode).Msg("response")

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return errors.Wrapf(ErrUnauthorized, "status %d", resp.StatusCode)
	case resp.StatusCode >= 400:
		return decodeRequestError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return errors.Wrapf(err, "[api.do] decode %s %s", method, path)
		}
	}
	return nil
}

// decodeRequestError turns a failure body into a RequestError. The
// backend shape is a JSON object whose fields map to per-field messages,
// with "detail" reserved for the general message.
func decodeRequestError(resp *http.Response) error {
	reqErr := &RequestError{StatusCode: resp.StatusCode}

	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return reqErr
	}

	for field, value := range payload {
		if field == "detail" {
			if s, ok := value.(string); ok {
				reqErr.Detail = s
			}
			continue
		}
		switch v := value.(type) {
		case string:
			reqErr.addField(field, v)
		case []any:
			for _, item := range v {
				reqErr.addField(field, fmt.Sprint(item))
			}
		default:
			reqErr.addField(field, fmt.Sprint(v))
		}
	}
	return reqErr
}

func (e *RequestError) addField(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], message)
}
