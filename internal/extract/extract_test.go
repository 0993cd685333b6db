package extract

import (
	"strings"
	"testing"
)

const sampleCode = "import NXOpen\n\ndef main():\n    the_session = NXOpen.Session.GetSession()\n    print('ok')"

func TestExtract_TaggedFence(t *testing.T) {
	response := "Here you go:\n```python\n" + sampleCode + "\n```\nEnjoy!"
	code, ok := Extract(response)
	if !ok {
		t.Fatal("Extract() failed")
	}
	if code != sampleCode {
		t.Errorf("Extract() = %q, want %q", code, sampleCode)
	}
}

func TestExtract_UntaggedFence(t *testing.T) {
	body := "import Foo\ndef main():\n    pass  # padded to pass the length check"
	response := "Sure! Here's your code:\n```\n" + body + "\n```\nLet me know if you need anything else."
	code, ok := Extract(response)
	if !ok {
		t.Fatal("Extract() failed")
	}
	if code != body {
		t.Errorf("Extract() = %q, want %q", code, body)
	}
}

func TestExtract_LabeledSection(t *testing.T) {
	response := "Analysis of the request follows.\n\nGENERATED CODE\n```\n" + sampleCode + "\n```"
	code, ok := Extract(response)
	if !ok {
		t.Fatal("Extract() failed")
	}
	if code != sampleCode {
		t.Errorf("Extract() = %q, want %q", code, sampleCode)
	}
}

func TestExtract_CodeMarkerScan(t *testing.T) {
	response := "No fences at all, sorry.\n" + sampleCode
	code, ok := Extract(response)
	if !ok {
		t.Fatal("Extract() failed")
	}
	if !strings.HasPrefix(code, "import NXOpen") {
		t.Errorf("Extract() = %q, want import NXOpen prefix", code)
	}
	if !strings.Contains(code, "print('ok')") {
		t.Errorf("Extract() = %q, want trailing lines retained", code)
	}
}

func TestExtract_Failures(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"empty", ""},
		{"prose only", "I cannot generate that code for you."},
		{"short fence", "```python\nx = 1\n```"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code, ok := Extract(tt.response); ok {
				t.Errorf("Extract(%q) = %q, want failure", tt.response, code)
			}
		})
	}
}

func TestExtract_PrefersTaggedFence(t *testing.T) {
	other := "this is not code but it is long enough to pass the threshold check"
	response := "```\n" + other + "\n```\n```python\n" + sampleCode + "\n```"
	code, ok := Extract(response)
	if !ok {
		t.Fatal("Extract() failed")
	}
	if code != sampleCode {
		t.Errorf("Extract() = %q, want the python-tagged block", code)
	}
}
