package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/OkiljonDadakhanov/icho-platform/internal/client/apiclient"
)

var errUsage = errors.New("usage")

func usage(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errUsage, fmt.Sprintf(format, args...))
}

// report prints a command failure. Normalized API errors show their message
// and, when present, one line per invalid field.
func report(err error) {
	var apiErr *apiclient.APIError
	switch {
	case errors.Is(err, errUsage):
		printlnFn(strings.Replace(err.Error(), "usage:", "Usage:", 1))

	case errors.As(err, &apiErr):
		printlnFn("Error:", apiErr.Message)
		fields := make([]string, 0, len(apiErr.Errors))
		for f := range apiErr.Errors {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		for _, f := range fields {
			printlnFn(fmt.Sprintf("  %s: %s", f, strings.Join(apiErr.Errors[f], "; ")))
		}

	default:
		printlnFn("Error:", err.Error())
	}
}

// printJSON pretty-prints a response body; an empty one prints "OK".
func printJSON(body json.RawMessage) {
	if len(bytes.TrimSpace(body)) == 0 {
		printlnFn("OK")
		return
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		printlnFn(string(body))
		return
	}
	printlnFn(buf.String())
}
