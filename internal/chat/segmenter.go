package chat

import (
	"regexp"
	"strings"
)

const (
	// BubbleDelimiter splits one model turn into display segments. The prompt
	// instructs the model to place it wherever a pause is wanted; it is the
	// sole split signal, so long sentences without it stay in one bubble.
	BubbleDelimiter = "==="

	maxSegments    = 5
	maxSuggestions = 3
)

var (
	markerPattern    = regexp.MustCompile(`<<<(.+?)>>>`)
	markerTagPattern = regexp.MustCompile(`^\[[^\]]+\]\s*`)
)

// Segment splits one raw model turn into at most five display segments and at
// most three quick-reply suggestions, in order of appearance.
//
// Suggestion spans are delimited by <<< and >>>; an optional leading bracketed
// tag inside a span is stripped from the visible value. A marker with no
// closing counterpart is left in the text untouched. After markers are removed
// the remaining text is split on the literal delimiter, each part trimmed and
// empty parts discarded. Parts beyond the cap are dropped without error.
func Segment(raw string) ([]string, []Suggestion) {
	var suggestions []Suggestion
	for _, m := range markerPattern.FindAllStringSubmatch(raw, -1) {
		if len(suggestions) == maxSuggestions {
			break
		}
		value := strings.TrimSpace(m[1])
		value = markerTagPattern.ReplaceAllString(value, "")
		if value == "" {
			continue
		}
		suggestions = append(suggestions, Suggestion{Label: value, Value: value})
	}

	clean := strings.TrimSpace(markerPattern.ReplaceAllString(raw, ""))

	var segments []string
	for _, part := range strings.Split(clean, BubbleDelimiter) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		segments = append(segments, part)
		if len(segments) == maxSegments {
			break
		}
	}

	return segments, suggestions
}
