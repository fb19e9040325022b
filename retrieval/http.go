package retrieval

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// maxResponseBytes caps how much of a provider response is read.
const maxResponseBytes = 4 << 20

// fetchJSON performs one request built by newRequest and decodes the JSON
// body into out, classifying failures as transient or permanent.
func (b *base) fetchJSON(ctx context.Context, newRequest func(ctx context.Context) (*http.Request, error), out any) error {
	body, err := b.fetch(ctx, newRequest)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &PermanentError{Provider: b.name, Err: fmt.Errorf("malformed response: %w", err)}
	}
	return nil
}

// fetch performs one request with retries and returns the response body.
func (b *base) fetch(ctx context.Context, newRequest func(ctx context.Context) (*http.Request, error)) ([]byte, error) {
	var body []byte
	err := Retry(ctx, b.retry, func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, b.timeout)
		defer cancel()

		req, err := newRequest(ctx)
		if err != nil {
			return &PermanentError{Provider: b.name, Err: err}
		}
		resp, err := b.client.Do(req)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			return &TransientError{Provider: b.name, Err: err}
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		if err != nil {
			return &TransientError{Provider: b.name, Err: err}
		}
		switch {
		case resp.StatusCode == http.StatusOK:
			body = data
			return nil
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			return &TransientError{Provider: b.name, Err: fmt.Errorf("HTTP %d", resp.StatusCode)}
		default:
			return &PermanentError{Provider: b.name, Err: fmt.Errorf("HTTP %d: %s", resp.StatusCode, truncate(string(data), 200))}
		}
	})
	return body, err
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
