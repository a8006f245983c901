// Package input turns edited form values into typed problem inputs.
//
// Malformed text never reaches an adapter: a field that fails to parse keeps
// its current value, and lenient array fields drop the entries they cannot read.
package input

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// Apply parses values (keyed by field key) according to fields and merges the
// results over current. Keys without a matching field are ignored.
// It returns the merged input and the keys that were rejected as malformed.
func Apply[I any](fields []domain.InputField, values map[string]string, current I) (I, []string, error) {
	base := map[string]any{}
	if err := mapstructure.Decode(current, &base); err != nil {
		return current, nil, fmt.Errorf("failed to encode current input: %w", err)
	}

	var rejected []string
	for _, field := range fields {
		raw, ok := values[field.Key]
		if !ok {
			continue
		}
		parsed, ok := ParseField(field, raw)
		if !ok {
			rejected = append(rejected, field.Key)
			continue
		}
		base[field.Key] = parsed
	}

	var out I
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &out,
		TagName: "mapstructure",
	})
	if err != nil {
		return current, rejected, fmt.Errorf("failed to build input decoder: %w", err)
	}
	if err := dec.Decode(base); err != nil {
		return current, rejected, fmt.Errorf("failed to decode input: %w", err)
	}
	return out, rejected, nil
}

// ParseField parses one raw text value. It reports false when the text is malformed.
func ParseField(field domain.InputField, raw string) (any, bool) {
	switch field.Type {
	case domain.FieldArray:
		return ParseInts(raw, field.Lenient)
	case domain.FieldNumber:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, false
		}
		return n, true
	case domain.FieldString:
		return raw, true
	}
	return nil, false
}

// ParseInts reads a comma separated list of integers, optionally wrapped in brackets.
// In strict mode any malformed entry rejects the list; in lenient mode it is dropped.
func ParseInts(raw string, lenient bool) ([]int, bool) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "[")
	raw = strings.TrimSuffix(raw, "]")

	out := []int{}
	if strings.TrimSpace(raw) == "" {
		return out, true
	}
	for _, part := range strings.Split(raw, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			if lenient {
				continue
			}
			return nil, false
		}
		out = append(out, n)
	}
	return out, true
}

// Format renders a typed value back to the text shown in an edit field.
func Format(value any) string {
	switch v := value.(type) {
	case []int:
		parts := make([]string, len(v))
		for i, n := range v {
			parts[i] = strconv.Itoa(n)
		}
		return strings.Join(parts, ",")
	case nil:
		return ""
	}
	return fmt.Sprint(value)
}

// Values renders every field of input as edit-field text.
func Values[I any](fields []domain.InputField, input I) map[string]string {
	base := map[string]any{}
	if err := mapstructure.Decode(input, &base); err != nil {
		return map[string]string{}
	}
	out := make(map[string]string, len(fields))
	for _, f := range fields {
		out[f.Key] = Format(base[f.Key])
	}
	return out
}
