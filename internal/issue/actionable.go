// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
)

type (
	// ActionableError is an error carrying what was attempted, on which
	// resource, and what the user can try next.
	//
	//	err := issue.NewErrorContext().
	//		WithOperation("resolve resource").
	//		WithResource("zexy.pd_linux").
	//		WithSuggestion("Add the directory with 'respath list append searchpath.main DIR'").
	//		Wrap(resolver.ErrNotFound).
	//		BuildError()
	ActionableError struct {
		// Operation is a verb phrase ("resolve resource", "parse startup flags").
		Operation string
		// Resource names the file, list key or string involved (optional).
		Resource string
		// Probes are the locations tried before giving up, in order.
		Probes []Probe
		// Suggestions are remediation hints (optional).
		Suggestions []string
		// Cause is the underlying error (optional).
		Cause error
	}

	// Probe is one candidate path tried while searching a tier.
	Probe struct {
		Tier    string
		Path    string
		Outcome string
	}

	// ErrorContext builds an ActionableError incrementally.
	ErrorContext struct {
		operation   string
		resource    string
		probes      []Probe
		suggestions []string
		cause       error
	}
)

// maxProbes caps the probes shown by a non-verbose Format.
const maxProbes = 6

// NewErrorContext creates an empty builder.
func NewErrorContext() *ErrorContext {
	return &ErrorContext{}
}

// WrapWithOperation wraps err with operation context. A nil err stays nil.
func WrapWithOperation(err error, operation string) *ActionableError {
	if err == nil {
		return nil
	}
	return &ActionableError{Operation: operation, Cause: err}
}

// WrapWithContext wraps err with operation and resource context.
func WrapWithContext(err error, operation, resource string) *ActionableError {
	if err == nil {
		return nil
	}
	return &ActionableError{Operation: operation, Resource: resource, Cause: err}
}

// Error implements the error interface.
func (e *ActionableError) Error() string {
	var msg strings.Builder
	msg.WriteString("failed to ")
	msg.WriteString(e.Operation)
	if e.Resource != "" {
		msg.WriteString(": ")
		msg.WriteString(e.Resource)
	}
	if e.Cause != nil {
		msg.WriteString(": ")
		msg.WriteString(e.Cause.Error())
	}
	return msg.String()
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *ActionableError) Unwrap() error {
	return e.Cause
}

// Format renders the error followed by the probes made and the
// suggestions as bullets. Without verbose only the first probes are
// listed; with it the numbered error chain is appended too.
func (e *ActionableError) Format(verbose bool) string {
	var msg strings.Builder
	msg.WriteString(e.Error())

	if len(e.Probes) > 0 {
		shown := e.Probes
		if !verbose && len(shown) > maxProbes {
			shown = shown[:maxProbes]
		}
		msg.WriteString("\n\nSearched:")
		for _, p := range shown {
			fmt.Fprintf(&msg, "\n  %-18s %s", p.Tier, p.Path)
			if p.Outcome != "" {
				fmt.Fprintf(&msg, " (%s)", p.Outcome)
			}
		}
		if hidden := len(e.Probes) - len(shown); hidden > 0 {
			fmt.Fprintf(&msg, "\n  ... %d more, rerun with --verbose to list them", hidden)
		}
	}

	if len(e.Suggestions) > 0 {
		msg.WriteString("\n")
		for _, suggestion := range e.Suggestions {
			msg.WriteString("\n  • ")
			msg.WriteString(suggestion)
		}
	}

	if verbose && e.Cause != nil {
		msg.WriteString("\n\nError chain:")
		depth := 1
		for err := e.Cause; err != nil; err = errors.Unwrap(err) {
			fmt.Fprintf(&msg, "\n  %d. %s", depth, err.Error())
			depth++
		}
	}

	return msg.String()
}

// WithOperation sets the operation being performed.
func (c *ErrorContext) WithOperation(op string) *ErrorContext {
	c.operation = op
	return c
}

// WithResource sets the resource involved.
func (c *ErrorContext) WithResource(res string) *ErrorContext {
	c.resource = res
	return c
}

// WithProbe records one candidate path tried in tier.
func (c *ErrorContext) WithProbe(tier, path, outcome string) *ErrorContext {
	c.probes = append(c.probes, Probe{Tier: tier, Path: path, Outcome: outcome})
	return c
}

// WithSuggestion appends one suggestion.
func (c *ErrorContext) WithSuggestion(sug string) *ErrorContext {
	c.suggestions = append(c.suggestions, sug)
	return c
}

// WithSuggestions appends several suggestions.
func (c *ErrorContext) WithSuggestions(sugs ...string) *ErrorContext {
	c.suggestions = append(c.suggestions, sugs...)
	return c
}

// Wrap sets the underlying cause.
func (c *ErrorContext) Wrap(err error) *ErrorContext {
	c.cause = err
	return c
}

// Build creates the ActionableError, or nil when no operation was set.
func (c *ErrorContext) Build() *ActionableError {
	if c.operation == "" {
		return nil
	}
	return &ActionableError{
		Operation:   c.operation,
		Resource:    c.resource,
		Probes:      c.probes,
		Suggestions: c.suggestions,
		Cause:       c.cause,
	}
}

// BuildError is Build returned as an error; nil when no operation was set.
func (c *ErrorContext) BuildError() error {
	ae := c.Build()
	if ae == nil {
		return nil
	}
	return ae
}
