package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/OkiljonDadakhanov/icho-platform/internal/client/apiclient"
)

// Upload sends a multipart form. args are the path followed by form fields;
// without fields they are read from the prompt.
func (a *App) Upload(ctx context.Context, method string, args []string) error {
	cmd := "upload"
	if method == http.MethodPatch {
		cmd = "uploadpatch"
	}
	if len(args) == 0 {
		return usage("%s <path> [name=value | name=@file ...]", cmd)
	}

	specs := args[1:]
	if len(specs) == 0 {
		var err error
		if specs, err = GetFormFields(a.reader, a.out); err != nil {
			return err
		}
	}

	form, err := buildForm(specs)
	if err != nil {
		return err
	}

	var out json.RawMessage
	if method == http.MethodPatch {
		err = a.api.UploadPatch(ctx, args[0], form, &out)
	} else {
		err = a.api.Upload(ctx, args[0], form, &out)
	}
	if err != nil {
		return err
	}

	printJSON(out)
	return nil
}

func buildForm(specs []string) (*apiclient.Form, error) {
	form := apiclient.NewForm()
	for _, spec := range specs {
		name, value, ok := strings.Cut(spec, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid form field %q: want name=value or name=@file", spec)
		}
		if file, isFile := strings.CutPrefix(value, "@"); isFile {
			if err := form.AddFileFromPath(name, file); err != nil {
				return nil, err
			}
			continue
		}
		form.AddField(name, value)
	}
	return form, nil
}

// Download saves the file at path. dest defaults to the server-provided file
// name in the working directory; a directory dest keeps that name inside it.
func (a *App) Download(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usage("download <path> [dest]")
	}

	blob, err := a.api.Download(ctx, args[0])
	if err != nil {
		return err
	}

	dest := blob.Filename
	if len(args) > 1 {
		dest = args[1]
		if info, err := os.Stat(dest); err == nil && info.IsDir() {
			dest = filepath.Join(dest, blob.Filename)
		}
	}

	if err := os.WriteFile(dest, blob.Data, 0o600); err != nil {
		return fmt.Errorf("failed to save %s: %w", dest, err)
	}
	printlnFn(fmt.Sprintf("Saved %d bytes to %s", len(blob.Data), dest))
	return nil
}

func (a *App) Open(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usage("open <path>")
	}
	if err := a.api.DownloadAndOpen(ctx, args[0]); err != nil {
		return err
	}
	printlnFn("Opened", args[0])
	return nil
}
