// Package practicum talks to the homework review API.
package practicum

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrTransport marks every fetch failure: network errors, non-200 replies and
// bodies that are not JSON.
var ErrTransport = errors.New("review api transport failure")

// StatusError is returned (wrapped in ErrTransport) for non-200 replies.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected http status %d", e.Code)
	}
	return fmt.Sprintf("unexpected http status %d: %s", e.Code, e.Body)
}

const (
	maxErrorBody = 512
	maxBody      = 4 << 20
)

type Client struct {
	Endpoint string
	Token    string
	HTTP     *http.Client
}

func NewClient(endpoint, token string, timeout time.Duration) *Client {
	return &Client{
		Endpoint: endpoint,
		Token:    token,
		HTTP:     &http.Client{Timeout: timeout},
	}
}

// Fetch requests homework statuses changed since fromDate (Unix seconds).
//
// The body is decoded into a generic JSON value (numbers as json.Number) and
// returned without shape checks.
func (c *Client) Fetch(ctx context.Context, fromDate int64) (any, error) {
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: endpoint: %w", ErrTransport, err)
	}
	q := u.Query()
	q.Set("from_date", strconv.FormatInt(fromDate, 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	req.Header.Set("Authorization", "OAuth "+c.Token)
	req.Header.Set("Accept", "application/json")

	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrTransport, err)
	}
	if len(body) > maxBody {
		return nil, fmt.Errorf("%w: body exceeds %d bytes", ErrTransport, maxBody)
	}
	if resp.StatusCode != http.StatusOK {
		snippet := strings.TrimSpace(string(body))
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		return nil, fmt.Errorf("%w: %w", ErrTransport, &StatusError{Code: resp.StatusCode, Body: snippet})
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode body: %w", ErrTransport, err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after JSON body", ErrTransport)
	}
	return out, nil
}
