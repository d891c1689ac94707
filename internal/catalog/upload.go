package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// UploadImage uploads a single staged file for the given owner identity and
// returns the public URL the backend assigned to it.
func (c *Client) UploadImage(ctx context.Context, filePath, ownerKey string) (string, error) {
	var env envelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetFile("image", filePath).
		SetFormData(map[string]string{"owner": ownerKey}).
		SetResult(&env).
		SetError(&env).
		Post("/media/image")

	if err := checkEnvelope(resp, err, &env); err != nil {
		return "", err
	}

	var uploaded struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(env.Data, &uploaded); err != nil {
		return "", fmt.Errorf("catalog: decode upload result: %w", err)
	}
	return uploaded.URL, nil
}

// UploadImages uploads a batch of staged files in one request. The backend
// either accepts the whole batch or rejects it; per-slot independence is the
// coordinator's concern, not this call's.
func (c *Client) UploadImages(ctx context.Context, filePaths []string, ownerKey string) ([]string, error) {
	req := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{"owner": ownerKey})

	handles := make([]*os.File, 0, len(filePaths))
	defer func() {
		for _, f := range handles {
			f.Close()
		}
	}()

	for _, p := range filePaths {
		f, err := os.Open(filepath.Clean(p))
		if err != nil {
			return nil, fmt.Errorf("catalog: open staged file: %w", err)
		}
		handles = append(handles, f)
		req.SetFileReader("images", filepath.Base(p), f)
	}

	var env envelope
	resp, err := req.
		SetResult(&env).
		SetError(&env).
		Post("/media/images")

	if err := checkEnvelope(resp, err, &env); err != nil {
		return nil, err
	}

	var uploaded struct {
		URLs []string `json:"urls"`
	}
	if err := json.Unmarshal(env.Data, &uploaded); err != nil {
		return nil, fmt.Errorf("catalog: decode upload result: %w", err)
	}
	return uploaded.URLs, nil
}
