package apiclient

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"
)

type field struct {
	name  string
	value json.RawMessage
}

// extractMessage derives a human-readable message from an error body.
// Precedence: "detail", then "message", then every field's messages joined
// with ", " and fields joined with ". " in body order. Field-level messages are
// returned only for the last form. A top-level list is read like the values of
// such an object.
func extractMessage(body []byte) (string, map[string][]string) {
	fields, err := objectFields(body)
	if err != nil {
		return listMessage(body), nil
	}
	if len(fields) == 0 {
		return genericMessage, nil
	}

	for _, key := range []string{"detail", "message"} {
		for _, f := range fields {
			if f.name != key {
				continue
			}
			var s string
			if json.Unmarshal(f.value, &s) == nil && s != "" {
				return s, nil
			}
		}
	}

	errs := make(map[string][]string, len(fields))
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs := fieldMessages(f.value)
		errs[f.name] = msgs
		if joined := strings.Join(msgs, ", "); joined != "" {
			parts = append(parts, joined)
		}
	}
	if len(parts) == 0 {
		return genericMessage, errs
	}
	return strings.Join(parts, ". "), errs
}

func listMessage(body []byte) string {
	var items []json.RawMessage
	if json.Unmarshal(body, &items) != nil {
		return genericMessage
	}
	parts := make([]string, 0, len(items))
	for _, item := range items {
		if joined := strings.Join(fieldMessages(item), ", "); joined != "" {
			parts = append(parts, joined)
		}
	}
	if len(parts) == 0 {
		return genericMessage
	}
	return strings.Join(parts, ". ")
}

// objectFields decodes a top-level JSON object keeping key order.
func objectFields(body []byte) ([]field, error) {
	dec := json.NewDecoder(bytes.NewReader(body))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New("error body is not an object")
	}

	var fields []field
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, ok := tok.(string)
		if !ok {
			return nil, errors.New("unexpected object key")
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		fields = append(fields, field{name: name, value: raw})
	}

	if _, err := dec.Token(); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return fields, nil
}

// fieldMessages flattens a field value: a list yields one message per element,
// anything else a single message.
func fieldMessages(raw json.RawMessage) []string {
	var list []json.RawMessage
	if json.Unmarshal(raw, &list) == nil {
		out := make([]string, 0, len(list))
		for _, item := range list {
			out = append(out, valueText(item))
		}
		return out
	}
	return []string{valueText(raw)}
}

func valueText(raw json.RawMessage) string {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var buf bytes.Buffer
	if json.Compact(&buf, raw) == nil {
		return buf.String()
	}
	return string(raw)
}
