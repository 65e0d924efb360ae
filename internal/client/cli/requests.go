package cli

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

var errInvalidJSON = errors.New("request body is not valid JSON")

// Request issues a JSON call. args are the path and, for methods with a
// body, optional inline JSON. Without inline JSON the body is read from the
// prompt; an empty answer sends no body.
func (a *App) Request(ctx context.Context, method string, args []string) error {
	if len(args) == 0 {
		if hasBody(method) {
			return usage("%s <path> [json]", strings.ToLower(method))
		}
		return usage("%s <path>", strings.ToLower(method))
	}
	path := args[0]

	var in any
	if hasBody(method) {
		text := strings.TrimSpace(strings.Join(args[1:], " "))
		if text == "" {
			var err error
			if text, err = GetMultiline(a.reader, "Enter JSON body (optional)", a.out); err != nil {
				return err
			}
		}
		if text != "" {
			if !json.Valid([]byte(text)) {
				return errInvalidJSON
			}
			in = json.RawMessage(text)
		}
	}

	var out json.RawMessage
	var err error
	switch method {
	case http.MethodGet:
		err = a.api.Get(ctx, path, &out)
	case http.MethodDelete:
		err = a.api.Delete(ctx, path, &out)
	case http.MethodPost:
		err = a.api.Post(ctx, path, in, &out)
	case http.MethodPut:
		err = a.api.Put(ctx, path, in, &out)
	case http.MethodPatch:
		err = a.api.Patch(ctx, path, in, &out)
	default:
		return usage("unsupported method %s", method)
	}
	if err != nil {
		return err
	}

	printJSON(out)
	return nil
}

func hasBody(method string) bool {
	return method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch
}
