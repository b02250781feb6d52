package layout

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-sdf/engine/style"
	"github.com/aymerick/douceur/parser"
)

// ParseDeclarations parses a CSS declaration block such as "background-color: rgb(255, 0, 0); --kd: 0.8"
// into a property map. Later declarations win.
//
// Parameters:
//   - block: the declaration block, without braces
//
// Returns:
//   - map[string]string: property name to raw value
//   - error: style.ErrMalformedStyleValue if the block cannot be parsed
func ParseDeclarations(block string) (map[string]string, error) {
	out := make(map[string]string)
	block = strings.TrimSpace(block)
	if block == "" {
		return out, nil
	}
	// the parser drops a numeric value on an unterminated final declaration
	if !strings.HasSuffix(block, ";") {
		block += ";"
	}
	decls, err := parser.ParseDeclarations(block)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", style.ErrMalformedStyleValue, err)
	}
	for _, d := range decls {
		out[strings.TrimSpace(d.Property)] = strings.TrimSpace(d.Value)
	}
	return out, nil
}
