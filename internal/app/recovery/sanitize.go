// Package recovery turns unreliable free-text generator output into
// validated structured data: question sets, follow-up text and scored
// feedback. Everything here is pure and deterministic; callers absorb
// ErrRecovery with deterministic fallbacks instead of surfacing it.
package recovery

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/jobjitsu/interview-api/internal/domain"
)

var (
	fenceMarker = regexp.MustCompile("```[a-zA-Z0-9_-]*")

	// A closing quote followed only by line breaks/whitespace and an
	// opening quote: the generator dropped the separator between two
	// fields.
	missingComma = regexp.MustCompile(`"(\s*\r?\n\s*)"`)

	// A closing quote immediately followed by a known continuation key
	// on the same line, again with no separator.
	continuationKey = regexp.MustCompile(`"([ \t]*)"((?:question|answer|score|description|follow)[a-zA-Z0-9_]*"\s*:)`)
)

// Sanitize extracts a single JSON object from arbitrary generator
// text. It tolerates markdown fences, surrounding prose, missing
// separators between fields and double-encoded payloads. Fails with
// domain.ErrRecovery when no usable structure can be extracted.
func Sanitize(raw string) (map[string]any, error) {
	obj, err := sanitize(raw, true)
	if err != nil {
		return nil, err
	}
	promoteNested(obj)
	return obj, nil
}

func sanitize(raw string, allowUnquote bool) (map[string]any, error) {
	text := stripFences(raw)
	candidate := objectSpan(text)
	if candidate == "" {
		candidate = strings.TrimSpace(text)
	}

	if obj, ok := parseObject(candidate); ok {
		return obj, nil
	}

	// Targeted repairs for generators that omit separators.
	repaired := missingComma.ReplaceAllString(candidate, `",${1}"`)
	repaired = continuationKey.ReplaceAllString(repaired, `",${1}"${2}`)
	if obj, ok := parseObject(repaired); ok {
		return obj, nil
	}

	// The payload may itself be a JSON-encoded string (double
	// encoding). Decode one layer and start over.
	if allowUnquote {
		if inner, ok := decodeStringPayload(strings.TrimSpace(text)); ok {
			if obj, err := sanitize(inner, false); err == nil {
				return obj, nil
			}
		}
		if strings.Contains(candidate, `\"`) {
			unescaped := strings.ReplaceAll(candidate, `\"`, `"`)
			if obj, err := sanitize(unescaped, false); err == nil {
				return obj, nil
			}
		}
	}

	return nil, fmt.Errorf("sanitize: %w", domain.ErrRecovery)
}

// stripFences removes markdown code-fence markers (with an optional
// language tag) anywhere in the text, keeping the fenced content.
func stripFences(s string) string {
	return fenceMarker.ReplaceAllString(s, "")
}

// objectSpan returns the substring bounded by the first '{' and the
// last '}', or "" when no such span exists. Greedy on purpose: it
// tolerates prose before and after the object.
func objectSpan(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}

func parseObject(candidate string) (map[string]any, bool) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(candidate), &obj); err != nil {
		return nil, false
	}
	return obj, true
}

func decodeStringPayload(candidate string) (string, bool) {
	var inner string
	if err := json.Unmarshal([]byte(candidate), &inner); err != nil {
		return "", false
	}
	return inner, true
}

// promoteNested handles generators that wrap the real payload inside a
// string field: when a string value embeds an object span, its
// description/score sub-fields are promoted to the top level wherever
// the outer field is absent or non-numeric. Fields are visited in
// sorted key order so identical input always promotes the same values.
func promoteNested(obj map[string]any) {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		s, ok := obj[k].(string)
		if !ok {
			continue
		}
		span := objectSpan(s)
		if span == "" {
			continue
		}
		nested, ok := parseObject(span)
		if !ok {
			continue
		}
		if _, isNum := numericValue(obj["score"]); !isNum {
			if nv, ok := numericValue(nested["score"]); ok {
				obj["score"] = nv
			}
		}
		if str, _ := obj["description"].(string); strings.TrimSpace(str) == "" {
			if nstr, _ := nested["description"].(string); strings.TrimSpace(nstr) != "" {
				obj["description"] = nstr
			}
		}
	}
}
