package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
)

type formPart struct {
	field    string
	value    string
	filename string
	data     []byte
	isFile   bool
}

// Form is a multipart/form-data body. It is encoded anew for every attempt,
// so a retried upload sends the same payload.
type Form struct {
	parts []formPart
}

func NewForm() *Form {
	return &Form{}
}

func (f *Form) AddField(name, value string) *Form {
	f.parts = append(f.parts, formPart{field: name, value: value})
	return f
}

func (f *Form) AddFile(field, filename string, data []byte) *Form {
	f.parts = append(f.parts, formPart{field: field, filename: filename, data: data, isFile: true})
	return f
}

// AddFileFromPath attaches the file at path under its base name.
func (f *Form) AddFileFromPath(field, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	f.AddFile(field, filepath.Base(path), data)
	return nil
}

func (f *Form) open() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, p := range f.parts {
		if !p.isFile {
			if err := w.WriteField(p.field, p.value); err != nil {
				return nil, "", fmt.Errorf("failed to encode field %s: %w", p.field, err)
			}
			continue
		}
		part, err := w.CreateFormFile(p.field, p.filename)
		if err != nil {
			return nil, "", fmt.Errorf("failed to encode file %s: %w", p.filename, err)
		}
		if _, err := part.Write(p.data); err != nil {
			return nil, "", fmt.Errorf("failed to encode file %s: %w", p.filename, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish form: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

// Upload POSTs the form and decodes a JSON response into out.
func (c *Client) Upload(ctx context.Context, path string, form *Form, out any) error {
	return c.do(ctx, http.MethodPost, path, formOrEmpty(form), out)
}

// UploadPatch is Upload with PATCH.
func (c *Client) UploadPatch(ctx context.Context, path string, form *Form, out any) error {
	return c.do(ctx, http.MethodPatch, path, formOrEmpty(form), out)
}

func formOrEmpty(f *Form) *Form {
	if f == nil {
		return NewForm()
	}
	return f
}
