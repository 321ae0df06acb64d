package libhttp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

var client = &http.Client{Timeout: 30 * time.Second}

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d: %s", e.Code, e.Body)
}

// Call sends body as JSON (when non-nil) and decodes the JSON response into T.
func Call[T any](
	ctx context.Context,
	method, target string,
	headers map[string]string,
	body any,
	query map[string]string,
) (T, error) {
	var zero T

	u, err := url.Parse(target)
	if err != nil {
		return zero, fmt.Errorf("failed to parse url: %w", err)
	}
	if len(query) > 0 {
		q := u.Query()
		for k, v := range query {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, er := json.Marshal(body)
		if er != nil {
			return zero, fmt.Errorf("failed to marshal body: %w", er)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return zero, fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	res, err := client.Do(req)
	if err != nil {
		return zero, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = res.Body.Close()
	}()

	raw, err := io.ReadAll(io.LimitReader(res.Body, 10<<20))
	if err != nil {
		return zero, fmt.Errorf("failed to read response: %w", err)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return zero, &StatusError{Code: res.StatusCode, Body: string(raw)}
	}

	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return zero, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return out, nil
}
