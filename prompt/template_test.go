package prompt

import (
	"errors"
	"testing"
)

func TestFillSubstitutesPlaceholders(t *testing.T) {
	filled, err := Fill("Hello {name}", Plain, map[string]string{"name": "Ada"})
	if err != nil {
		t.Fatalf("Fill returned error: %v", err)
	}
	if filled.Text != "Hello Ada" {
		t.Errorf("got %q, want %q", filled.Text, "Hello Ada")
	}
	if filled.Turns != nil {
		t.Errorf("plain shape should not produce turns, got %v", filled.Turns)
	}
}

func TestFillMissingVariable(t *testing.T) {
	_, err := Fill("Hello {name}", Plain, map[string]string{})
	var missing *MissingVariableError
	if !errors.As(err, &missing) {
		t.Fatalf("expected *MissingVariableError, got %v", err)
	}
	if missing.Name != "name" {
		t.Errorf("error names %q, want %q", missing.Name, "name")
	}
}

func TestFillIgnoresExtraVariables(t *testing.T) {
	filled, err := Fill("Hello {name}", Plain, map[string]string{
		"name":   "Ada",
		"unused": "ignored",
	})
	if err != nil {
		t.Fatalf("Fill returned error: %v", err)
	}
	if filled.Text != "Hello Ada" {
		t.Errorf("got %q, want %q", filled.Text, "Hello Ada")
	}
}

func TestFillBraceEscapes(t *testing.T) {
	filled, err := Fill(`{{"x": {value}}}`, Plain, map[string]string{"value": "1"})
	if err != nil {
		t.Fatalf("Fill returned error: %v", err)
	}
	if filled.Text != `{"x": 1}` {
		t.Errorf("got %q, want %q", filled.Text, `{"x": 1}`)
	}
}

func TestFillRepeatedPlaceholder(t *testing.T) {
	filled, err := Fill("{a} and {a}", Plain, map[string]string{"a": "x"})
	if err != nil {
		t.Fatalf("Fill returned error: %v", err)
	}
	if filled.Text != "x and x" {
		t.Errorf("got %q", filled.Text)
	}
}

func TestFillSyntaxErrors(t *testing.T) {
	cases := []struct {
		name     string
		template string
	}{
		{"unclosed placeholder", "Hello {name"},
		{"empty placeholder", "Hello {}"},
		{"unmatched closing brace", "Hello } there"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Fill(tc.template, Plain, map[string]string{"name": "Ada"})
			var syntax *SyntaxError
			if !errors.As(err, &syntax) {
				t.Fatalf("expected *SyntaxError, got %v", err)
			}
		})
	}
}

func TestFillChatShapeProducesUserTurn(t *testing.T) {
	filled, err := Fill("Advise {name}", Chat, map[string]string{"name": "Ada"})
	if err != nil {
		t.Fatalf("Fill returned error: %v", err)
	}
	if len(filled.Turns) != 1 {
		t.Fatalf("got %d turns, want 1", len(filled.Turns))
	}
	if filled.Turns[0].Role != RoleUser || filled.Turns[0].Content != "Advise Ada" {
		t.Errorf("unexpected turn %+v", filled.Turns[0])
	}
}

func TestPlaceholders(t *testing.T) {
	names, err := Placeholders("{a} then {b}, {a} again, {{literal}}")
	if err != nil {
		t.Fatalf("Placeholders returned error: %v", err)
	}
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("got %v, want [a b]", names)
	}
}

func TestPlaceholdersTrimsWhitespace(t *testing.T) {
	names, err := Placeholders("{ padded }")
	if err != nil {
		t.Fatalf("Placeholders returned error: %v", err)
	}
	if len(names) != 1 || names[0] != "padded" {
		t.Errorf("got %v, want [padded]", names)
	}
}
