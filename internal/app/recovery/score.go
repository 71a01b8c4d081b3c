package recovery

import (
	"regexp"
	"strconv"
)

// DefaultScore is substituted when neither structured parsing nor
// pattern matching yields a score.
const DefaultScore = 5.0

// Ordered score patterns, first match wins: "N/10", "Score: N" /
// "score N", "N out of 10". N may be an integer or a decimal.
var scorePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*/\s*10`),
	regexp.MustCompile(`(?i)\bscore[:\s]\s*(\d+(?:\.\d+)?)`),
	regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s+out\s+of\s+10`),
}

// ExtractScore pulls a numeric score out of free text. Reports false
// when no pattern matches; the caller applies DefaultScore.
func ExtractScore(text string) (float64, bool) {
	for _, p := range scorePatterns {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		return v, true
	}
	return 0, false
}

// ClampScore forces a score into [0,10]. Out-of-range or non-numeric
// scores are never persisted.
func ClampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}

// numericValue coerces a sanitized JSON value into a float64. JSON
// numbers decode as float64; generators also emit scores as quoted
// strings.
func numericValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
