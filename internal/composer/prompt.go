// Package composer assembles the generation prompt sent to the LLM from the
// matched example, its extracted patterns, and the user request.
package composer

import (
	"fmt"
	"strings"

	"github.com/msmohankumar/nx-codebot/internal/corpus"
	"github.com/msmohankumar/nx-codebot/internal/patterns"
)

// maxDigestImports caps how many import lines the pattern digest repeats;
// the full example already carries the rest.
const maxDigestImports = 3

// systemDirective enumerates the mandatory code-generation requirements.
const systemDirective = `You are an expert Siemens NXOpen Python developer. Generate a complete, runnable NXOpen Python journal script.

Requirements:
1. The script must be complete: imports, a main() function, and the __main__ guard.
2. Acquire the session with NXOpen.Session.GetSession() and use the work part.
3. Use the builder idiom: create a builder, configure it, call Commit(), then Destroy() the builder.
4. Parameterize all user-supplied dimensions with {param1}, {param2}, ... placeholder tokens.
5. Handle missing geometry gracefully (report via the listing window and return).
6. All dimensions are in millimeters.`

// Composer produces deterministic generation prompts. The zero value is
// ready to use.
type Composer struct{}

// New returns a Composer.
func New() *Composer {
	return &Composer{}
}

// ComposeWithExample builds the few-shot prompt: the system directive, the
// full matched example labeled as the reference to replicate, a condensed
// digest of its extracted patterns, the verbatim user request, and a closing
// instruction. Pure string composition; safe for any input including empty
// strings.
func (c *Composer) ComposeWithExample(userRequest string, doc *corpus.Document, summary patterns.Summary) string {
	var sb strings.Builder

	sb.WriteString(systemDirective)

	fmt.Fprintf(&sb, "\n\n### Reference example (%s) — replicate its structure:\n```python\n%s\n```\n", doc.Name, doc.Text)

	if digest := patternDigest(summary); digest != "" {
		sb.WriteString("\n### Key patterns from the reference:\n")
		sb.WriteString(digest)
	}

	fmt.Fprintf(&sb, "\n### User request:\n%s\n", userRequest)

	sb.WriteString("\nRespond with only the Python code, matching the reference's structure exactly. No explanations.")

	return sb.String()
}

// ComposeWithoutExample builds the fallback prompt used when no example is
// available to anchor the generation (empty corpus or no match).
func (c *Composer) ComposeWithoutExample(userRequest string) string {
	var sb strings.Builder

	sb.WriteString(systemDirective)
	fmt.Fprintf(&sb, "\n\n### User request:\n%s\n", userRequest)
	sb.WriteString("\nRespond with only the Python code in a fenced code block. No explanations.")

	return sb.String()
}

// patternDigest condenses a pattern summary to the first few import lines,
// the session-init line, and the placeholder tokens.
func patternDigest(s patterns.Summary) string {
	var sb strings.Builder

	imports := s.ImportLines
	if len(imports) > maxDigestImports {
		imports = imports[:maxDigestImports]
	}
	for _, line := range imports {
		fmt.Fprintf(&sb, "- %s\n", line)
	}
	if s.SessionInitLine != "" {
		fmt.Fprintf(&sb, "- %s\n", s.SessionInitLine)
	}
	if len(s.PlaceholderTokens) > 0 {
		fmt.Fprintf(&sb, "- placeholders: %s\n", strings.Join(s.PlaceholderTokens, ", "))
	}

	return sb.String()
}
