package apiclient

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// Blob is a downloaded binary resource.
type Blob struct {
	Data        []byte
	ContentType string
	Filename    string
}

// Download fetches path as raw bytes. Error bodies are not parsed: a non-2xx
// response yields an error wrapping ErrDownloadFailed.
func (c *Client) Download(ctx context.Context, path string) (*Blob, error) {
	resp, err := c.execute(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		return nil, fmt.Errorf("%w: %d %s", ErrDownloadFailed, resp.status, http.StatusText(resp.status))
	}

	return &Blob{
		Data:        resp.body,
		ContentType: resp.header.Get("Content-Type"),
		Filename:    blobFilename(resp.header.Get("Content-Disposition"), path),
	}, nil
}

// DownloadAndOpen downloads path into a temporary file and opens it with the
// system viewer. The file is removed after the configured TTL or by Close,
// whichever comes first.
func (c *Client) DownloadAndOpen(ctx context.Context, path string) error {
	blob, err := c.Download(ctx, path)
	if err != nil {
		return err
	}

	name, err := writeTemp(blob)
	if err != nil {
		return err
	}

	if err := c.opener.Open(name); err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("failed to open %s: %w", blob.Filename, err)
	}

	c.scheduleRemoval(name)
	return nil
}

func (c *Client) scheduleRemoval(name string) {
	c.tempMu.Lock()
	defer c.tempMu.Unlock()

	c.temps[name] = time.AfterFunc(c.objectURLTTL, func() {
		c.tempMu.Lock()
		delete(c.temps, name)
		c.tempMu.Unlock()

		if err := os.Remove(name); err != nil && !os.IsNotExist(err) {
			c.log.Warn(context.Background(), "failed to remove temporary file", "file", name, "error", err)
		}
	})
}

func writeTemp(blob *Blob) (string, error) {
	ext := filepath.Ext(blob.Filename)
	if ext == "" && blob.ContentType != "" {
		if exts, _ := mime.ExtensionsByType(blob.ContentType); len(exts) > 0 {
			ext = exts[0]
		}
	}

	f, err := os.CreateTemp("", "icho-*"+ext)
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}
	if _, err := f.Write(blob.Data); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("failed to write temporary file: %w", err)
	}
	return f.Name(), nil
}

// blobFilename prefers the Content-Disposition filename and falls back to the
// last segment of the request path.
func blobFilename(disposition, reqPath string) string {
	if disposition != "" {
		if _, params, err := mime.ParseMediaType(disposition); err == nil {
			if name := filepath.Base(params["filename"]); params["filename"] != "" && name != "." && name != "/" {
				return name
			}
		}
	}

	if i := strings.IndexAny(reqPath, "?#"); i >= 0 {
		reqPath = reqPath[:i]
	}
	name := path.Base(strings.TrimRight(reqPath, "/"))
	if name == "." || name == "/" || name == "" {
		return "download"
	}
	return name
}
