// Package extract recovers a usable code block from unstructured LLM
// response text, tolerating format drift with ordered fallback strategies.
package extract

import (
	"regexp"
	"strings"
)

// MinCodeLength rejects accidental empty or near-empty fenced blocks.
const MinCodeLength = 50

var (
	taggedFencePattern  = regexp.MustCompile("(?is)```python[ \t]*\n(.*?)```")
	anyFencePattern     = regexp.MustCompile("(?s)```[a-zA-Z]*[ \t]*\n(.*?)```")
	labeledSectionStart = regexp.MustCompile(`(?im)^.*(?:GENERATED CODE|CODE:).*$`)
	codeMarkerPattern   = regexp.MustCompile(`(?m)^\s*(?:import NXOpen\b|.*\bSession\.GetSession\(\)).*$`)
)

// Extract parses response text and returns the first code candidate longer
// than MinCodeLength, trying strategies from most to least structured:
// a python-tagged fence, any fence, a fence under a "GENERATED CODE"/"CODE:"
// label, and finally a raw scan from the first unmistakable code marker.
// The boolean is false when no strategy yields a long-enough candidate;
// callers must treat that as a hard generation failure.
func Extract(responseText string) (string, bool) {
	if responseText == "" {
		return "", false
	}
	for _, strategy := range []func(string) (string, bool){
		fromTaggedFence,
		fromAnyFence,
		fromLabeledSection,
		fromCodeMarkers,
	} {
		if code, ok := strategy(responseText); ok {
			return code, true
		}
	}
	return "", false
}

// fromTaggedFence extracts the first fenced block explicitly tagged python.
func fromTaggedFence(text string) (string, bool) {
	return accept(firstGroup(taggedFencePattern, text))
}

// fromAnyFence extracts the first fenced block regardless of tag.
func fromAnyFence(text string) (string, bool) {
	return accept(firstGroup(anyFencePattern, text))
}

// fromLabeledSection looks for a "GENERATED CODE" / "CODE:" heading and
// extracts a fenced block from the text that follows it.
func fromLabeledSection(text string) (string, bool) {
	loc := labeledSectionStart.FindStringIndex(text)
	if loc == nil {
		return "", false
	}
	return accept(firstGroup(anyFencePattern, text[loc[1]:]))
}

// fromCodeMarkers collects everything from the first unmistakable code marker
// (an NXOpen import or session acquisition) to the end of the response.
func fromCodeMarkers(text string) (string, bool) {
	loc := codeMarkerPattern.FindStringIndex(text)
	if loc == nil {
		return "", false
	}
	return accept(text[loc[0]:])
}

func firstGroup(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}

// accept trims a candidate and applies the minimum-length threshold.
func accept(candidate string) (string, bool) {
	code := strings.TrimSpace(candidate)
	if len(code) < MinCodeLength {
		return "", false
	}
	return code, true
}
