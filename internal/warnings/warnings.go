// Package warnings accumulates the non-fatal diagnostics raised during one
// dispatch. Warnings are collected in order and flushed once into the output
// document's systemMessage; the dispatcher never fails because of them.
package warnings

import (
	"fmt"
	"strings"
)

// List is an ordered warning accumulator. The zero value is ready to use.
// A List lives for exactly one dispatch and is carried explicitly through the
// pipeline rather than held in package state, so hosting several dispatches
// in one process (tests) cannot leak warnings between them.
type List struct {
	msgs []string
}

// Add appends a warning message.
func (l *List) Add(msg string) {
	l.msgs = append(l.msgs, msg)
}

// Addf appends a formatted warning message.
func (l *List) Addf(format string, args ...any) {
	l.msgs = append(l.msgs, fmt.Sprintf(format, args...))
}

// Messages returns the accumulated warnings in the order they were raised.
func (l *List) Messages() []string {
	return l.msgs
}

// Empty reports whether no warnings have been raised.
func (l *List) Empty() bool {
	return len(l.msgs) == 0
}

// Join renders all warnings as a single systemMessage string.
func (l *List) Join() string {
	return strings.Join(l.msgs, " | ")
}

// Drain returns the accumulated warnings and clears the list. The CLI uses
// this to surface engine warnings between display sections.
func (l *List) Drain() []string {
	msgs := l.msgs
	l.msgs = nil
	return msgs
}
