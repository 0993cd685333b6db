package params

import (
	"strings"
	"testing"
)

func TestReplace(t *testing.T) {
	tests := []struct {
		name   string
		code   string
		values []string
		want   string
	}{
		{
			name:   "all values provided",
			code:   `length = "{param1}"; width = "{param2}"; height = "{param3}"`,
			values: []string{"100", "100", "50"},
			want:   `length = "100"; width = "100"; height = "50"`,
		},
		{
			name:   "missing values default to zero",
			code:   `a = {param1}; b = {param2}`,
			values: []string{"7"},
			want:   `a = 7; b = 0`,
		},
		{
			name:   "no values at all",
			code:   `r = {param1}`,
			values: nil,
			want:   `r = 0`,
		},
		{
			name:   "repeated token",
			code:   `{param1} + {param1}`,
			values: []string{"5"},
			want:   `5 + 5`,
		},
		{
			name:   "no placeholders",
			code:   `x = 42`,
			values: []string{"1", "2"},
			want:   `x = 42`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Replace(tt.code, tt.values); got != tt.want {
				t.Errorf("Replace() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReplace_NeverLeavesTokens(t *testing.T) {
	codes := []string{
		`{param1} {param2} {param3}`,
		`{param5} only, with a gap`,
		`nested value case`,
	}
	valueSets := [][]string{nil, {"1"}, {"1", "2"}, {"{param2}", "x"}}

	for _, code := range codes {
		for _, values := range valueSets {
			got := Replace(code, values)
			if placeholderPattern.MatchString(got) {
				t.Errorf("Replace(%q, %v) = %q, contains unresolved token", code, values, got)
			}
		}
	}
}

func TestReplace_IdempotentOnResolvedText(t *testing.T) {
	resolved := Replace(`length = "{param1}"`, []string{"100"})
	if !strings.Contains(resolved, "100") {
		t.Fatalf("unexpected resolved text %q", resolved)
	}
	if again := Replace(resolved, []string{"999"}); again != resolved {
		t.Errorf("Replace not idempotent: %q vs %q", again, resolved)
	}
}
