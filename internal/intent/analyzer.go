// Package intent extracts matching signals from free-text user requests:
// a single representative keyword for fast-path example matching and the
// numeric parameters mentioned in the request.
package intent

import (
	"regexp"
	"strings"
)

// filenamePattern recognises a bare word followed by a script extension,
// e.g. "run block.py with 100 100 50".
var filenamePattern = regexp.MustCompile(`(?i)\b([a-z0-9_\-]+)\.(py|java|cs|vb)\b`)

// shapeVocabulary is the ordered domain vocabulary scanned for known CAD
// shape and operation names. Order encodes matching priority.
var shapeVocabulary = []string{
	"block", "cylinder", "cone", "sphere", "fillet", "chamfer",
	"extrude", "revolve", "sweep", "boss", "hole", "pocket",
	"pattern", "mirror", "unite", "subtract", "intersect",
	"extract", "sketch", "datum", "thread", "shell",
}

var (
	firstWordPattern = regexp.MustCompile(`[a-z]{3,}`)
	numberPattern    = regexp.MustCompile(`\d+(?:\.\d+)?`)
)

// ExtractKeyword returns the most reliable single token describing the
// request's intent, trying signals from most to least precise:
//
//  1. a filename-like token ("block.py" yields "block")
//  2. the first known shape/operation word found in the request
//  3. the first alphabetic word of length >= 3
//  4. the lowercased request itself (degenerate input, possibly empty)
//
// It never fails and always returns a string.
func ExtractKeyword(request string) string {
	lower := strings.ToLower(request)

	if m := filenamePattern.FindStringSubmatch(request); m != nil {
		return strings.ToLower(m[1])
	}

	for _, word := range shapeVocabulary {
		if strings.Contains(lower, word) {
			return word
		}
	}

	if w := firstWordPattern.FindString(lower); w != "" {
		return w
	}

	return lower
}

// ExtractNumbers returns every numeric token in the request, in order of
// appearance. Returns nil when the request mentions no numbers.
func ExtractNumbers(request string) []string {
	return numberPattern.FindAllString(request, -1)
}

// operationDefaults maps a keyword to fallback parameter values used when the
// request names an operation but omits its dimensions.
var operationDefaults = map[string][]string{
	"block":    {"100", "100", "50"},
	"cylinder": {"50", "100"},
	"extrude":  {"50", "10"},
	"fillet":   {"5"},
	"hole":     {"10", "25"},
}

// Params combines extracted numbers with per-operation defaults: numbers from
// the request win; when none are present the keyword's conventional defaults
// apply; otherwise nil.
func Params(request string) []string {
	if nums := ExtractNumbers(request); len(nums) > 0 {
		return nums
	}
	if defaults, ok := operationDefaults[ExtractKeyword(request)]; ok {
		return defaults
	}
	return nil
}
