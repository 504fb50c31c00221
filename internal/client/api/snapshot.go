package api

import (
	"context"
	"net/http"

	"github.com/antonnoe/dossierfrankrijk/internal/netx"
)

// UploadSnapshot archives a copy of an item: it asks the server for a
// presigned upload URL, puts the content there directly, then confirms the
// upload so the snapshot becomes downloadable.
func (c *Client) UploadSnapshot(ctx context.Context, itemID string, content []byte) error {
	var resp struct {
		UploadURL string `json:"upload_url"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/items/"+itemID+"/snapshot", nil, &resp); err != nil {
		return err
	}

	if err := netx.UploadToPresignedURL(ctx, resp.UploadURL, content); err != nil {
		return err
	}

	return c.do(ctx, http.MethodPatch, "/api/items/"+itemID+"/snapshot", nil, nil)
}

// SnapshotDownloadURL returns a presigned download URL for an item's
// archived copy.
func (c *Client) SnapshotDownloadURL(ctx context.Context, itemID string) (string, error) {
	var resp struct {
		DownloadURL string `json:"download_url"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/items/"+itemID+"/snapshot", nil, &resp); err != nil {
		return "", err
	}
	return resp.DownloadURL, nil
}
