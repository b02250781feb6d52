// package style parses the computed style values the packer reads from the layout provider: CSS functional
// notation, colours and scalar lengths.
package style

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// ErrMalformedStyleValue is returned for any style value that cannot be parsed.
var ErrMalformedStyleValue = errors.New("style: malformed style value")

// Arg is one numeric argument of a CSS function or a bare scalar.
// Unit is "" for plain numbers, "%" for percentages and the lower-case unit name for dimensions.
type Arg struct {
	Value float64
	Unit  string
}

// ParseFunction tokenizes CSS functional notation such as "rgba(0, 128, 255, 0.5)" or "matrix(1 0 0 1 5 5)".
// Arguments may be separated by commas, whitespace or a slash.
//
// Parameters:
//   - s: the style value
//
// Returns:
//   - string: the lower-case function name without the parenthesis
//   - []Arg: the numeric arguments in order
//   - error: ErrMalformedStyleValue if s is not a single function of numeric arguments
func ParseFunction(s string) (string, []Arg, error) {
	l := css.NewLexer(parse.NewInputString(s))

	tt, data := nextSignificant(l)
	if tt != css.FunctionToken {
		return "", nil, malformed(s, "expected function")
	}
	name := strings.ToLower(strings.TrimSuffix(string(data), "("))

	var args []Arg
	closed := false
	for !closed {
		tt, data = l.Next()
		switch tt {
		case css.WhitespaceToken, css.CommaToken:
		case css.DelimToken:
			if string(data) != "/" {
				return "", nil, malformed(s, "unexpected "+string(data))
			}
		case css.NumberToken, css.PercentageToken, css.DimensionToken:
			arg, err := parseArg(tt, data)
			if err != nil {
				return "", nil, malformed(s, err.Error())
			}
			args = append(args, arg)
		case css.RightParenthesisToken:
			closed = true
		case css.ErrorToken:
			return "", nil, malformed(s, "unterminated function")
		default:
			return "", nil, malformed(s, "unexpected "+tt.String())
		}
	}

	if tt, _ := nextSignificant(l); tt != css.ErrorToken || l.Err() != io.EOF {
		return "", nil, malformed(s, "trailing input")
	}
	return name, args, nil
}

// ParseScalar parses a single number, percentage or dimension such as "0.5", "50%" or "12px".
//
// Parameters:
//   - s: the style value
//
// Returns:
//   - Arg: the parsed value and unit
//   - error: ErrMalformedStyleValue if s is not exactly one scalar
func ParseScalar(s string) (Arg, error) {
	l := css.NewLexer(parse.NewInputString(s))

	tt, data := nextSignificant(l)
	switch tt {
	case css.NumberToken, css.PercentageToken, css.DimensionToken:
	default:
		return Arg{}, malformed(s, "expected number")
	}
	arg, err := parseArg(tt, data)
	if err != nil {
		return Arg{}, malformed(s, err.Error())
	}
	if tt, _ := nextSignificant(l); tt != css.ErrorToken || l.Err() != io.EOF {
		return Arg{}, malformed(s, "trailing input")
	}
	return arg, nil
}

func nextSignificant(l *css.Lexer) (css.TokenType, []byte) {
	for {
		tt, data := l.Next()
		if tt != css.WhitespaceToken {
			return tt, data
		}
	}
}

func parseArg(tt css.TokenType, data []byte) (Arg, error) {
	text := string(data)
	unit := ""
	switch tt {
	case css.PercentageToken:
		text, unit = strings.TrimSuffix(text, "%"), "%"
	case css.DimensionToken:
		i := numberPrefix(text)
		text, unit = text[:i], strings.ToLower(text[i:])
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Arg{}, err
	}
	return Arg{Value: v, Unit: unit}, nil
}

// numberPrefix returns the length of the numeric part of a dimension token such as "1.5e2px".
func numberPrefix(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	for i < len(s) && (isDigit(s[i]) || s[i] == '.') {
		i++
	}
	if i+1 < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if s[j] == '+' || s[j] == '-' {
			j++
		}
		if j < len(s) && isDigit(s[j]) {
			for j < len(s) && isDigit(s[j]) {
				j++
			}
			i = j
		}
	}
	return i
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func malformed(s, reason string) error {
	return fmt.Errorf("%w: %q: %s", ErrMalformedStyleValue, s, reason)
}
