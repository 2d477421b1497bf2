package syllabus

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Validate checks a decoded request body against the expected shape:
// a list of objects, each with a non-empty string 'subject' field.
// Every violation is reported, named by item index, so callers can
// surface all defects at once. An empty slice means the body is valid.
func Validate(raw json.RawMessage) []string {
	var errs []string

	// json.Unmarshal accepts null for a slice, so the shape check
	// cannot rely on it alone
	if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) {
		return []string{"Request body must be a list of objects"}
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return []string{"Request body must be a list of objects"}
	}

	for idx, item := range items {
		if !bytes.HasPrefix(bytes.TrimSpace(item), []byte("{")) {
			errs = append(errs, fmt.Sprintf("Item at index %d must be an object", idx))
			continue
		}

		var obj map[string]json.RawMessage
		if err := json.Unmarshal(item, &obj); err != nil {
			errs = append(errs, fmt.Sprintf("Item at index %d must be an object", idx))
			continue
		}

		subjRaw, ok := obj["subject"]
		if !ok {
			errs = append(errs, fmt.Sprintf("Missing 'subject' field in item at index %d", idx))
			continue
		}

		var subject string
		if err := json.Unmarshal(subjRaw, &subject); err != nil {
			errs = append(errs, fmt.Sprintf("'subject' must be a string in item at index %d", idx))
			continue
		}

		if strings.TrimSpace(subject) == "" {
			errs = append(errs, fmt.Sprintf("'subject' cannot be empty in item at index %d", idx))
		}
	}

	return errs
}

// Subjects extracts the subject strings from a validated request body,
// preserving input order.
func Subjects(raw json.RawMessage) ([]string, error) {
	var items []struct {
		Subject string `json:"subject"`
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}

	subjects := make([]string, 0, len(items))
	for _, item := range items {
		subjects = append(subjects, item.Subject)
	}
	return subjects, nil
}
