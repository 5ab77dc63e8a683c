package builtin

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// CheckJSON parses each file as JSON, rejecting duplicate object keys at
// any nesting depth. encoding/json's own Decoder silently keeps the last
// value for a repeated key, so duplicates are caught by hand walking the
// token stream instead of unmarshaling into a map.
func CheckJSON(files []string) (exitCode int, output string) {
	var problems []string

	for _, file := range files {
		if err := checkJSONFile(file); err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", file, err))
		}
	}

	if len(problems) > 0 {
		return 1, strings.Join(problems, "\n")
	}
	return 0, ""
}

func checkJSONFile(path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the hook's own file selection
	if err != nil {
		return fmt.Errorf("failed to read: %w", err)
	}

	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()

	if err := checkJSONValue(dec); err != nil {
		return err
	}

	// A trailing non-EOF token means there's junk after the top-level value.
	if _, err := dec.Token(); err == nil {
		return fmt.Errorf("unexpected trailing content")
	}

	return nil
}

// checkJSONValue consumes exactly one JSON value from dec, recursing into
// objects and arrays and reporting the first duplicate key it finds.
func checkJSONValue(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		// Scalar: string, number, bool, or nil. Nothing more to do.
		return nil
	}

	switch delim {
	case '{':
		return checkJSONObject(dec)
	case '[':
		return checkJSONArray(dec)
	default:
		// '}' or ']' here means the stream desynced from Token()'s own
		// bookkeeping, which shouldn't happen for a value we just opened.
		return fmt.Errorf("unexpected token %v", delim)
	}
}

func checkJSONObject(dec *json.Decoder) error {
	seen := make(map[string]bool)

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("invalid JSON: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", keyTok)
		}
		if seen[key] {
			return fmt.Errorf("duplicate key %q", key)
		}
		seen[key] = true

		if err := checkJSONValue(dec); err != nil {
			return err
		}
	}

	// Consume the closing '}'.
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

func checkJSONArray(dec *json.Decoder) error {
	for dec.More() {
		if err := checkJSONValue(dec); err != nil {
			return err
		}
	}

	// Consume the closing ']'.
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}
