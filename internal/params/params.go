// Package params substitutes user-supplied values into {paramN} placeholder
// tokens in example and generated code.
package params

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// missingValue replaces placeholders with no corresponding user value.
const missingValue = "0"

var placeholderPattern = regexp.MustCompile(`\{param(\d+)\}`)

// Replace substitutes each {paramN} token (N = 1, 2, 3, ...) with the N-th
// value, or with "0" when the value list is too short. A final cleanup pass
// replaces any placeholder left over, so the returned text never contains an
// unresolved token. Text without placeholders is returned unchanged, which
// makes Replace idempotent on fully-resolved input.
func Replace(code string, values []string) string {
	maxParam := 0
	for _, m := range placeholderPattern.FindAllStringSubmatch(code, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil && n > maxParam {
			maxParam = n
		}
	}

	for i := 1; i <= maxParam; i++ {
		value := missingValue
		if i <= len(values) {
			value = values[i-1]
		}
		code = strings.ReplaceAll(code, fmt.Sprintf("{param%d}", i), value)
	}

	// Cleanup pass: substitution of one token can surface another (a value
	// containing a placeholder); nothing unresolved may survive.
	return placeholderPattern.ReplaceAllString(code, missingValue)
}
