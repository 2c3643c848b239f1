// Package replacement resolves identifiers against ordered replacement maps.
package replacement

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidSelector is returned when a pattern selector does not compile.
var ErrInvalidSelector = errors.New("invalid selector")

// Selector chooses which inner mapping applies to a subject. It is either a
// literal subject or a /pattern/ matched against the whole subject.
type Selector struct {
	raw     string
	literal string
	pattern *regexp.Regexp
}

// ParseSelector compiles a selector. Strings of the form /body/ become
// patterns anchored at both ends; everything else is a literal.
func ParseSelector(raw string) (Selector, error) {
	if !isPattern(raw) {
		return Selector{raw: raw, literal: raw}, nil
	}

	body := raw[1 : len(raw)-1]

	re, err := regexp.Compile(`^(?:` + body + `)$`)
	if err != nil {
		return Selector{}, fmt.Errorf("%w %q: %w", ErrInvalidSelector, raw, err)
	}

	return Selector{raw: raw, pattern: re}, nil
}

func isPattern(raw string) bool {
	return len(raw) >= 2 && strings.HasPrefix(raw, "/") && strings.HasSuffix(raw, "/")
}

// Matches reports whether the selector applies to subject.
func (s Selector) Matches(subject string) bool {
	if s.pattern != nil {
		return s.pattern.MatchString(subject)
	}

	return s.literal == subject
}

// IsPattern reports whether the selector was written as /pattern/.
func (s Selector) IsPattern() bool {
	return s.pattern != nil
}

func (s Selector) String() string {
	return s.raw
}

// Entry pairs a selector with its old -> new mapping.
type Entry struct {
	Selector     Selector
	Replacements map[string]string
}

// Map is an ordered list of entries. The first entry whose selector matches
// the subject decides the outcome. A Map is immutable once built and safe for
// concurrent use.
type Map struct {
	entries []Entry
}

// RawEntry is the uncompiled form of an Entry.
type RawEntry struct {
	Selector     string
	Replacements map[string]string
}

// New compiles raw entries, preserving their order.
func New(raw ...RawEntry) (*Map, error) {
	entries := make([]Entry, 0, len(raw))

	for _, r := range raw {
		sel, err := ParseSelector(r.Selector)
		if err != nil {
			return nil, err
		}

		replacements := make(map[string]string, len(r.Replacements))
		for k, v := range r.Replacements {
			replacements[k] = v
		}

		entries = append(entries, Entry{Selector: sel, Replacements: replacements})
	}

	return &Map{entries: entries}, nil
}

// MustNew is New for package-level tables that are known to be valid.
func MustNew(raw ...RawEntry) *Map {
	m, err := New(raw...)
	if err != nil {
		panic(err)
	}

	return m
}

// Entries returns the entries in declaration order.
func (m *Map) Entries() []Entry {
	if m == nil {
		return nil
	}

	return append([]Entry(nil), m.entries...)
}

// Select returns the first entry whose selector matches subject.
func (m *Map) Select(subject string) (Entry, bool) {
	if m == nil {
		return Entry{}, false
	}

	for _, e := range m.entries {
		if e.Selector.Matches(subject) {
			return e, true
		}
	}

	return Entry{}, false
}

// Resolve looks up oldValue under the first selector matching subject. Lookup
// never falls through to later selectors.
func (m *Map) Resolve(subject, oldValue string) (string, bool) {
	entry, ok := m.Select(subject)
	if !ok {
		return "", false
	}

	newValue, ok := entry.Replacements[oldValue]

	return newValue, ok
}

// Resolve is the function form of (*Map).Resolve.
func Resolve(m *Map, subject, oldValue string) (string, bool) {
	return m.Resolve(subject, oldValue)
}

// Hazard describes a replacement value that is also a key of the same
// entry, which would make a second run rewrite it again.
type Hazard struct {
	Selector string
	From     string
	To       string
}

func (h Hazard) String() string {
	return fmt.Sprintf("%s: %s -> %s is itself replaced", h.Selector, h.From, h.To)
}

// Chains reports replacement chains that break idempotence.
func (m *Map) Chains() []Hazard {
	var hazards []Hazard

	for _, e := range m.Entries() {
		for from, to := range e.Replacements {
			if _, ok := e.Replacements[to]; ok && to != from {
				hazards = append(hazards, Hazard{Selector: e.Selector.String(), From: from, To: to})
			}
		}
	}

	return hazards
}
