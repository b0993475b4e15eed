package midi

import (
	"fmt"
	"regexp"

	"github.com/kiro-audio/midi/pkg/ump"
)

// SourceMatch selects source endpoints for an input, either by a
// regular expression over the endpoint name or by exact endpoint ID.
type SourceMatch struct {
	re *regexp.Regexp
	id SourceID
}

// MatchName returns a match that accepts sources whose name matches the
// regular expression pattern. It panics if the pattern does not
// compile; use CompileName for user-supplied patterns.
func MatchName(pattern string) SourceMatch {
	return SourceMatch{re: regexp.MustCompile(pattern)}
}

// CompileName returns a match that accepts sources whose name matches
// the regular expression pattern.
func CompileName(pattern string) (SourceMatch, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return SourceMatch{}, fmt.Errorf("midi: compile source match: %w", err)
	}
	return SourceMatch{re: re}, nil
}

// MatchID returns a match that accepts exactly one source by ID.
func MatchID(id SourceID) SourceMatch {
	return SourceMatch{id: id}
}

// Matches reports whether the match accepts the given source.
func (m SourceMatch) Matches(id SourceID, name string) bool {
	if m.re != nil {
		return m.re.MatchString(name)
	}
	return m.id == id
}

func (m SourceMatch) String() string {
	if m.re != nil {
		return fmt.Sprintf("name~%q", m.re.String())
	}
	return fmt.Sprintf("id=%08x", m.id)
}

// SourceMatches is an ordered list of source matches, each carrying the
// filter applied to traffic from the sources it selects.
type SourceMatches struct {
	matches []matchFilter
}

type matchFilter struct {
	match  SourceMatch
	filter ump.Filter
}

// WithSource returns a copy with one more (match, filter) pair
// appended.
func (s SourceMatches) WithSource(match SourceMatch, filter ump.Filter) SourceMatches {
	matches := make([]matchFilter, len(s.matches), len(s.matches)+1)
	copy(matches, s.matches)
	return SourceMatches{
		matches: append(matches, matchFilter{match: match, filter: filter}),
	}
}

// AddSource appends a (match, filter) pair in place.
func (s *SourceMatches) AddSource(match SourceMatch, filter ump.Filter) {
	s.matches = append(s.matches, matchFilter{match: match, filter: filter})
}

// MatchFilter returns the filter of the first match accepting the
// source, and whether any match accepted it.
func (s SourceMatches) MatchFilter(id SourceID, name string) (ump.Filter, bool) {
	for _, mf := range s.matches {
		if mf.match.Matches(id, name) {
			return mf.filter, true
		}
	}
	return ump.Filter{}, false
}

// Len returns the number of (match, filter) pairs.
func (s SourceMatches) Len() int { return len(s.matches) }

func (s SourceMatches) String() string {
	out := "["
	for i, mf := range s.matches {
		if i > 0 {
			out += " "
		}
		out += mf.match.String()
	}
	return out + "]"
}
