package ai

import (
	"testing"
)

func TestExtractJSONStripsFences(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", `{"a": 1}`, `{"a": 1}`},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"surrounding whitespace", "  \n{\"a\": 1}\n  ", `{"a": 1}`},
		{"stray backticks", "`{\"a\": 1}`", `{"a": 1}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractJSON(tc.input); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestFirstJSONObject(t *testing.T) {
	raw := `Here is the result: {"score": 75, "nested": {"ok": true}} hope it helps`
	got, ok := FirstJSONObject(raw)
	if !ok {
		t.Fatal("expected to find an object")
	}
	if got != `{"score": 75, "nested": {"ok": true}}` {
		t.Fatalf("unexpected extraction: %q", got)
	}

	if _, ok := FirstJSONObject("no braces here"); ok {
		t.Fatal("expected no object")
	}

	if _, ok := FirstJSONObject(`{"unterminated": tru`); ok {
		t.Fatal("expected unbalanced braces to fail")
	}
}

func TestFirstJSONObjectIgnoresBracesInStrings(t *testing.T) {
	raw := `{"reason": "uses {curly} braces and a \" quote"}`
	got, ok := FirstJSONObject(raw)
	if !ok {
		t.Fatal("expected to find an object")
	}
	if got != raw {
		t.Fatalf("unexpected extraction: %q", got)
	}
}

func TestParseObject(t *testing.T) {
	data, err := ParseObject("```json\n{\"match_score\": 80}\n```")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if CoerceInt(data["match_score"]) != 80 {
		t.Fatalf("unexpected data: %v", data)
	}

	data, err = ParseObject(`The assessment follows. {"match_score": "65"} Regards.`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if CoerceInt(data["match_score"]) != 65 {
		t.Fatalf("unexpected data: %v", data)
	}

	if _, err := ParseObject("nothing useful"); err == nil {
		t.Fatal("expected error for non-JSON response")
	}
}

func TestCoercions(t *testing.T) {
	if !CoerceBool("Yes") || !CoerceBool(true) || CoerceBool(nil) || CoerceBool("no") {
		t.Fatal("unexpected bool coercion")
	}

	if CoerceInt(float64(75.9)) != 75 {
		t.Fatal("expected float truncation")
	}
	if CoerceInt("80") != 80 {
		t.Fatal("expected numeric string coercion")
	}
	if CoerceInt("n/a") != 0 || CoerceInt(nil) != 0 {
		t.Fatal("expected unusable values to coerce to 0")
	}

	if CoerceString("  hi  ") != "hi" {
		t.Fatal("expected trimmed string")
	}

	list := CoerceStringSlice([]any{"a", "", 7})
	if len(list) != 2 || list[0] != "a" || list[1] != "7" {
		t.Fatalf("unexpected slice coercion: %v", list)
	}
	single := CoerceStringSlice("solo")
	if len(single) != 1 || single[0] != "solo" {
		t.Fatalf("unexpected single coercion: %v", single)
	}
	if CoerceStringSlice(nil) != nil {
		t.Fatal("expected nil for nil input")
	}
}
