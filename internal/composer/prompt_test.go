package composer

import (
	"strings"
	"testing"

	"github.com/msmohankumar/nx-codebot/internal/corpus"
	"github.com/msmohankumar/nx-codebot/internal/patterns"
)

func TestComposeWithExample(t *testing.T) {
	doc := &corpus.Document{
		Name: "block.py",
		Text: "import NXOpen\n\ndef main():\n    the_session = NXOpen.Session.GetSession()\n    length = \"{param1}\"\n",
	}
	summary := patterns.Extract(doc.Text)

	prompt := New().ComposeWithExample("create a block 100 100 50", doc, summary)

	for _, want := range []string{
		"Reference example (block.py)",
		doc.Text,
		"import NXOpen",
		"the_session = NXOpen.Session.GetSession()",
		"placeholders: {param1}",
		"create a block 100 100 50",
		"matching the reference's structure exactly",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestComposeWithExample_Deterministic(t *testing.T) {
	doc := &corpus.Document{Name: "fillet.py", Text: "import NXOpen\nradius = \"{param1}\"\n"}
	summary := patterns.Extract(doc.Text)
	c := New()

	first := c.ComposeWithExample("fillet the edges", doc, summary)
	second := c.ComposeWithExample("fillet the edges", doc, summary)
	if first != second {
		t.Error("ComposeWithExample is not deterministic")
	}
}

func TestComposeWithoutExample(t *testing.T) {
	prompt := New().ComposeWithoutExample("make a cylinder")

	if !strings.Contains(prompt, "make a cylinder") {
		t.Error("prompt missing the user request")
	}
	if !strings.Contains(prompt, "fenced code block") {
		t.Error("prompt missing the fenced-block instruction")
	}
	// The no-example variant must not pretend a reference exists.
	if strings.Contains(prompt, "Reference example") {
		t.Error("no-example prompt contains example labeling")
	}
}

func TestCompose_EmptyInputs(t *testing.T) {
	c := New()
	doc := &corpus.Document{}

	if got := c.ComposeWithExample("", doc, patterns.Summary{}); got == "" {
		t.Error("ComposeWithExample returned empty prompt")
	}
	if got := c.ComposeWithoutExample(""); got == "" {
		t.Error("ComposeWithoutExample returned empty prompt")
	}
}
