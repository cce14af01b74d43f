// SPDX-License-Identifier: MPL-2.0

// Package argv splits a startup-flags string into shell-style arguments
// and renders argument vectors back into such a string.
//
// The grammar is deliberately small: blanks (space, tab) separate
// arguments, single or double quotes group text without nesting, and a
// backslash takes the next character literally, inside quotes or not.
// There is no variable, glob or command expansion.
package argv

import (
	"errors"
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// MaxLen bounds the flags string: Tokenize only accepts input shorter than
// MaxLen bytes.
const MaxLen = 1000

const (
	// ReasonUnterminatedQuote means the input ended inside a quoted region.
	ReasonUnterminatedQuote Reason = "unterminated quote"
	// ReasonTrailingEscape means the input ended right after a backslash.
	ReasonTrailingEscape Reason = "trailing escape"
)

var (
	// ErrParse is the sentinel wrapped by ParseError.
	ErrParse = errors.New("argument parse error")
	// ErrOverflow is the sentinel wrapped by OverflowError.
	ErrOverflow = errors.New("argument string too long")
)

type (
	// Reason distinguishes the ways Tokenize can reject its input.
	Reason string

	// ParseError is returned for malformed input. It wraps ErrParse.
	ParseError struct {
		Reason Reason
		// Offset is the byte offset where the offending construct starts.
		Offset int
	}

	// OverflowError is returned when the input is MaxLen bytes or longer.
	// It wraps ErrOverflow.
	OverflowError struct {
		Len int
		Max int
	}
)

// Tokenize splits s into arguments. Empty or blank-only input yields no
// arguments and no error. The returned slice is owned by the caller.
func Tokenize(s string) ([]string, error) {
	if len(s) >= MaxLen {
		return nil, &OverflowError{Len: len(s), Max: MaxLen}
	}

	var (
		args []string
		cur  strings.Builder
	)
	i := 0
	for {
		for i < len(s) && isBlank(s[i]) {
			i++
		}
		if i >= len(s) {
			return args, nil
		}

		cur.Reset()
		var (
			quote     byte
			quoteFrom int
		)
	scan:
		for i < len(s) {
			ch := s[i]
			switch {
			case isBlank(ch) && quote == 0:
				break scan
			case ch == '\\':
				if i+1 >= len(s) {
					return nil, &ParseError{Reason: ReasonTrailingEscape, Offset: i}
				}
				cur.WriteByte(s[i+1])
				i += 2
				continue
			case quote != 0 && ch == quote:
				quote = 0
			case quote == 0 && (ch == '\'' || ch == '"'):
				quote, quoteFrom = ch, i
			default:
				cur.WriteByte(ch)
			}
			i++
		}
		if quote != 0 {
			return nil, &ParseError{Reason: ReasonUnterminatedQuote, Offset: quoteFrom}
		}
		args = append(args, cur.String())
	}
}

// Join renders args as one string that Tokenize splits back into args.
// Arguments that need it are quoted with POSIX shell rules. Backslashes
// are doubled first because Tokenize honors escapes inside quotes too.
// Arguments holding non-printable characters cannot be represented.
func Join(args []string) (string, error) {
	quoted := make([]string, 0, len(args))
	for _, arg := range args {
		q, err := syntax.Quote(strings.ReplaceAll(arg, `\`, `\\`), syntax.LangPOSIX)
		if err != nil {
			return "", fmt.Errorf("quoting argument %q: %w", arg, err)
		}
		quoted = append(quoted, q)
	}
	return strings.Join(quoted, " "), nil
}

func isBlank(ch byte) bool {
	return ch == ' ' || ch == '\t'
}

// Error implements the error interface for ParseError.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse flags: %s at offset %d", e.Reason, e.Offset)
}

// Unwrap returns ErrParse for errors.Is() compatibility.
func (e *ParseError) Unwrap() error { return ErrParse }

// Error implements the error interface for OverflowError.
func (e *OverflowError) Error() string {
	return fmt.Sprintf("flags string is %d bytes, must be under %d", e.Len, e.Max)
}

// Unwrap returns ErrOverflow for errors.Is() compatibility.
func (e *OverflowError) Unwrap() error { return ErrOverflow }
