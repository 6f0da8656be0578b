// Package prompt fills textual templates with named values. Templates use
// {name} placeholders with {{ and }} as literal brace escapes; filling is
// pure string interpolation and never executes template text.
package prompt

import (
	"fmt"
	"strings"
)

// Shape selects how a filled template is delivered to a provider.
type Shape string

// Template shapes.
const (
	// Plain produces a single text block.
	Plain Shape = "plain"
	// Chat produces role-tagged turns; a filled template becomes one user
	// turn.
	Chat Shape = "chat"
)

// Turn is a role-tagged message produced by the chat shape.
type Turn struct {
	Role    string
	Content string
}

// Chat turn roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Filled is a template after placeholder substitution, ready to send.
// Text is always set; Turns is populated for the chat shape.
type Filled struct {
	Shape Shape
	Text  string
	Turns []Turn
}

// MissingVariableError reports a placeholder with no matching variable.
type MissingVariableError struct {
	Name string
}

func (e *MissingVariableError) Error() string {
	return fmt.Sprintf("template references %q but no such variable was supplied", e.Name)
}

// SyntaxError reports malformed placeholder syntax.
type SyntaxError struct {
	Detail string
}

func (e *SyntaxError) Error() string {
	return "malformed template: " + e.Detail
}

// Fill substitutes every {name} placeholder in template with its value from
// vars. Unused variables are ignored; a referenced-but-missing variable is a
// *MissingVariableError. Unbalanced braces are a *SyntaxError.
func Fill(template string, shape Shape, vars map[string]string) (Filled, error) {
	text, err := interpolate(template, vars)
	if err != nil {
		return Filled{}, err
	}

	filled := Filled{Shape: shape, Text: text}
	if shape == Chat {
		filled.Turns = []Turn{{Role: RoleUser, Content: text}}
	}
	return filled, nil
}

// Placeholders returns the distinct placeholder names referenced by template,
// in order of first appearance. Malformed templates yield a *SyntaxError.
func Placeholders(template string) ([]string, error) {
	var names []string
	seen := make(map[string]struct{})
	err := scan(template, nil, func(name string) (string, error) {
		if _, dup := seen[name]; !dup {
			seen[name] = struct{}{}
			names = append(names, name)
		}
		return "", nil
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

func interpolate(template string, vars map[string]string) (string, error) {
	var sb strings.Builder
	sb.Grow(len(template))
	err := scan(template, &sb, func(name string) (string, error) {
		v, ok := vars[name]
		if !ok {
			return "", &MissingVariableError{Name: name}
		}
		return v, nil
	})
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}

// scan walks the template, writing literal text to out (when non-nil) and
// calling resolve for each placeholder.
func scan(template string, out *strings.Builder, resolve func(name string) (string, error)) error {
	for i := 0; i < len(template); {
		ch := template[i]
		switch ch {
		case '{':
			if i+1 < len(template) && template[i+1] == '{' {
				if out != nil {
					out.WriteByte('{')
				}
				i += 2
				continue
			}
			end := strings.IndexByte(template[i+1:], '}')
			if end < 0 {
				return &SyntaxError{Detail: "unclosed placeholder"}
			}
			name := strings.TrimSpace(template[i+1 : i+1+end])
			if name == "" {
				return &SyntaxError{Detail: "empty placeholder name"}
			}
			value, err := resolve(name)
			if err != nil {
				return err
			}
			if out != nil {
				out.WriteString(value)
			}
			i += end + 2
		case '}':
			if i+1 < len(template) && template[i+1] == '}' {
				if out != nil {
					out.WriteByte('}')
				}
				i += 2
				continue
			}
			return &SyntaxError{Detail: "unmatched closing brace"}
		default:
			if out != nil {
				out.WriteByte(ch)
			}
			i++
		}
	}
	return nil
}
