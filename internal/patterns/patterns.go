// Package patterns summarises the idiomatic shape of an NXOpen example
// script: its imports, session initialization, builder usage, the
// commit/destroy idiom, and parameter placeholders.
package patterns

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	importPattern  = regexp.MustCompile(`(?m)^\s*(?:import\s+\S.*|from\s+\S+\s+import\s+\S.*)$`)
	sessionPattern = regexp.MustCompile(`(?m)^.*\bSession\.GetSession\(\).*$`)
	builderPattern = regexp.MustCompile(`(?m)^\s*\w*[Bb]uilder\d*\s*=\s*\w+(?:\.\w+)*\.Create\w*Builder\(.*$`)
	// Commit call through the eventual Destroy call, captured as one snippet.
	commitDestroyPattern = regexp.MustCompile(`(?s)\w+\.Commit\w*\(\).*?\w+\.Destroy\(\)`)
	placeholderPattern   = regexp.MustCompile(`\{param(\d+)\}`)
)

// Summary describes the structural markers found in one example's text.
// Absent markers are empty strings or empty slices; extraction never fails.
type Summary struct {
	ImportLines          []string
	SessionInitLine      string
	BuilderCreationLine  string
	CommitDestroySnippet string
	PlaceholderTokens    []string
}

// Extract scans text with independent pattern matchers. A missing marker
// never prevents the other scans from succeeding.
func Extract(text string) Summary {
	var s Summary

	for _, line := range importPattern.FindAllString(text, -1) {
		s.ImportLines = append(s.ImportLines, strings.TrimSpace(line))
	}
	if line := sessionPattern.FindString(text); line != "" {
		s.SessionInitLine = strings.TrimSpace(line)
	}
	if line := builderPattern.FindString(text); line != "" {
		s.BuilderCreationLine = strings.TrimSpace(line)
	}
	if snippet := commitDestroyPattern.FindString(text); snippet != "" {
		s.CommitDestroySnippet = snippet
	}
	s.PlaceholderTokens = placeholders(text)

	return s
}

// placeholders returns the distinct {paramN} tokens in text, ordered by
// parameter number.
func placeholders(text string) []string {
	seen := make(map[int]struct{})
	var nums []int
	for _, m := range placeholderPattern.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		nums = append(nums, n)
	}
	if len(nums) == 0 {
		return nil
	}
	sort.Ints(nums)
	tokens := make([]string, len(nums))
	for i, n := range nums {
		tokens[i] = "{param" + strconv.Itoa(n) + "}"
	}
	return tokens
}
