// Package quality applies a fixed structural rubric to generated code and
// produces a deterministic score without executing anything.
package quality

import "strings"

// Score thresholds for the category message.
const (
	productionThreshold = 90
	goodThreshold       = 70
)

// Category messages.
const (
	MessageProduction = "High quality - production ready"
	MessageGood       = "Good quality - may need minor adjustments"
	MessageBelow      = "Below quality standard - review required"
	MessageNoCode     = "No code generated"
)

// check is one rubric entry: a named case-insensitive substring test with a
// fixed weight. The weights sum to 100.
type check struct {
	Name   string
	Marker string
	Weight int
}

var rubric = []check{
	{Name: "import", Marker: "import ", Weight: 20},
	{Name: "main_function", Marker: "def main(", Weight: 20},
	{Name: "session", Marker: "getsession(", Weight: 15},
	{Name: "builder", Marker: "builder", Weight: 15},
	{Name: "commit", Marker: ".commit", Weight: 15},
	{Name: "destroy", Marker: ".destroy(", Weight: 15},
}

// Report is the scoring result: each named check's outcome, the weighted sum,
// and the category message.
type Report struct {
	Checklist map[string]bool
	Score     int
	Message   string
}

// Score runs the rubric against code. Empty code short-circuits to a zero
// score with an explicit no-code message; the substring checks never run on
// absent input.
func Score(code string) Report {
	if strings.TrimSpace(code) == "" {
		return Report{Checklist: map[string]bool{}, Score: 0, Message: MessageNoCode}
	}

	lower := strings.ToLower(code)
	checklist := make(map[string]bool, len(rubric))
	total := 0
	for _, c := range rubric {
		passed := strings.Contains(lower, c.Marker)
		checklist[c.Name] = passed
		if passed {
			total += c.Weight
		}
	}

	return Report{
		Checklist: checklist,
		Score:     total,
		Message:   message(total),
	}
}

func message(score int) string {
	switch {
	case score >= productionThreshold:
		return MessageProduction
	case score >= goodThreshold:
		return MessageGood
	default:
		return MessageBelow
	}
}
