// Package netx contains small HTTP helpers shared by the client.
package netx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
)

// UploadToPresignedURL PUTs body to a presigned object-storage URL.
// Any status other than 200 is an error. Connection failures and 5xx
// responses are retried twice with a short constant backoff.
func UploadToPresignedURL(ctx context.Context, url string, body []byte) error {
	return retry.Do(ctx, retry.WithMaxRetries(2, retry.NewConstant(500*time.Millisecond)), func(ctx context.Context) error {
		return putOnce(ctx, url, body)
	})
}

func putOnce(ctx context.Context, url string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return retry.RetryableError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		err := fmt.Errorf("upload failed: %s; body: %s", resp.Status, string(b))
		if resp.StatusCode >= http.StatusInternalServerError {
			return retry.RetryableError(err)
		}
		return err
	}
	return nil
}
