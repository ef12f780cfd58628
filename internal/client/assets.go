package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

const maxAssetBytes = 100 << 20 // API cap for asset uploads

// AssetOptions tunes an asset upload.
type AssetOptions struct {
	// MimeType forces the content type instead of deriving it from the
	// file extension or content sniffing.
	MimeType string
}

// UploadAsset uploads an image asset from a local file path or an
// http(s) URL and returns the created asset document.
//
// POST /assets/images/<dataset>
func (c *Client) UploadAsset(ctx context.Context, source string, opts AssetOptions) (json.RawMessage, error) {
	data, err := c.readAsset(ctx, source)
	if err != nil {
		return nil, err
	}

	mimeType := opts.MimeType
	if mimeType == "" {
		mimeType = mime.TypeByExtension(filepath.Ext(source))
	}
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}

	path := "/assets/images/" + c.dataset
	raw, err := c.do(ctx, http.MethodPost, path, nil, bytes.NewReader(data), mimeType)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(raw), nil
}

// readAsset loads the asset bytes from disk or from a remote URL.
func (c *Client) readAsset(ctx context.Context, source string) ([]byte, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, fmt.Errorf("client: build asset fetch: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("client: fetch asset %s: %w", source, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("client: fetch asset %s: unexpected status %d", source, resp.StatusCode)
		}

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxAssetBytes))
		if err != nil {
			return nil, fmt.Errorf("client: read asset %s: %w", source, err)
		}
		return data, nil
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("client: read asset file: %w", err)
	}
	return data, nil
}
