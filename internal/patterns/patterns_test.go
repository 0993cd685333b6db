package patterns

import (
	"reflect"
	"strings"
	"testing"
)

const exampleText = `# block.py
import NXOpen
import math
from NXOpen import Features

def main():
    the_session = NXOpen.Session.GetSession()
    work_part = the_session.Parts.Work

    length = "{param1}"
    width = "{param2}"

    block_builder = work_part.Features.CreateBlockFeatureBuilder(None)
    block_builder.SetOriginAndLengths(origin, length, width, "{param3}")

    block_feature = block_builder.CommitFeature()
    block_builder.Destroy()
`

func TestExtract_AllMarkers(t *testing.T) {
	s := Extract(exampleText)

	wantImports := []string{"import NXOpen", "import math", "from NXOpen import Features"}
	if !reflect.DeepEqual(s.ImportLines, wantImports) {
		t.Errorf("ImportLines = %v, want %v", s.ImportLines, wantImports)
	}
	if want := "the_session = NXOpen.Session.GetSession()"; s.SessionInitLine != want {
		t.Errorf("SessionInitLine = %q, want %q", s.SessionInitLine, want)
	}
	if want := "block_builder = work_part.Features.CreateBlockFeatureBuilder(None)"; s.BuilderCreationLine != want {
		t.Errorf("BuilderCreationLine = %q, want %q", s.BuilderCreationLine, want)
	}
	if !strings.HasPrefix(s.CommitDestroySnippet, "block_builder.CommitFeature()") {
		t.Errorf("CommitDestroySnippet = %q, want prefix block_builder.CommitFeature()", s.CommitDestroySnippet)
	}
	if !strings.HasSuffix(s.CommitDestroySnippet, "block_builder.Destroy()") {
		t.Errorf("CommitDestroySnippet = %q, want suffix block_builder.Destroy()", s.CommitDestroySnippet)
	}
	wantTokens := []string{"{param1}", "{param2}", "{param3}"}
	if !reflect.DeepEqual(s.PlaceholderTokens, wantTokens) {
		t.Errorf("PlaceholderTokens = %v, want %v", s.PlaceholderTokens, wantTokens)
	}
}

// A marker missing from the text must not prevent the other scans from
// succeeding.
func TestExtract_IndependentScans(t *testing.T) {
	s := Extract("import NXOpen\nprint('no session, no builder')\nx = \"{param2}\" \"{param2}\"")

	if len(s.ImportLines) != 1 {
		t.Errorf("ImportLines = %v, want one entry", s.ImportLines)
	}
	if s.SessionInitLine != "" || s.BuilderCreationLine != "" || s.CommitDestroySnippet != "" {
		t.Errorf("expected absent markers, got %+v", s)
	}
	if want := []string{"{param2}"}; !reflect.DeepEqual(s.PlaceholderTokens, want) {
		t.Errorf("PlaceholderTokens = %v, want %v", s.PlaceholderTokens, want)
	}
}

func TestExtract_EmptyText(t *testing.T) {
	s := Extract("")
	if len(s.ImportLines) != 0 || s.SessionInitLine != "" ||
		s.BuilderCreationLine != "" || s.CommitDestroySnippet != "" ||
		len(s.PlaceholderTokens) != 0 {
		t.Errorf("Extract(\"\") = %+v, want zero summary", s)
	}
}
