// =============================================================================
// Quiz Grade Reconciler - Roster Index
// =============================================================================
//
// The roster index answers "which section is this student in?" for a data
// row. It is built once per session from the roster entries and never
// mutated afterwards.
//
// LOOKUP PRECEDENCE:
//   1. Email, after domain-marker stripping
//   2. Name, after "Last, First" normalization
//   3. Otherwise the record is unmatched
//
// When two roster rows share a key, the first one in roster order wins.
//
// =============================================================================

package roster

import (
	"github.com/ginjaninja78/quiz-grade-reconciler/internal/config"
	"github.com/ginjaninja78/quiz-grade-reconciler/internal/types"
)

// MatchKind tells how a record was resolved against the roster.
type MatchKind int

const (
	MatchNone MatchKind = iota
	MatchEmail
	MatchName
)

func (m MatchKind) String() string {
	switch m {
	case MatchEmail:
		return "email"
	case MatchName:
		return "name"
	default:
		return "none"
	}
}

// Index is an immutable lookup structure over roster entries.
type Index struct {
	entries []types.RosterEntry
	byEmail map[string]int
	byName  map[string]int
	marker  string
}

// Build indexes entries by normalized email and normalized name.
func Build(entries []types.RosterEntry, cfg config.SessionConfig) *Index {
	idx := &Index{
		entries: make([]types.RosterEntry, 0, len(entries)),
		byEmail: make(map[string]int, len(entries)),
		byName:  make(map[string]int, len(entries)),
		marker:  cfg.EmailDomainMarker,
	}

	for _, e := range entries {
		entry := types.RosterEntry{
			Name:    NormalizeName(e.Name),
			Email:   NormalizeEmail(e.Email, cfg.EmailDomainMarker),
			Section: e.Section,
		}
		pos := len(idx.entries)
		idx.entries = append(idx.entries, entry)

		if entry.Email != "" {
			if _, exists := idx.byEmail[entry.Email]; !exists {
				idx.byEmail[entry.Email] = pos
			}
		}
		if entry.Name != "" {
			if _, exists := idx.byName[entry.Name]; !exists {
				idx.byName[entry.Name] = pos
			}
		}
	}

	return idx
}

// Len returns the number of roster entries.
func (x *Index) Len() int {
	if x == nil {
		return 0
	}
	return len(x.entries)
}

// Entries returns a copy of the entries in roster order.
func (x *Index) Entries() []types.RosterEntry {
	out := make([]types.RosterEntry, len(x.entries))
	copy(out, x.entries)
	return out
}

// LookupByEmail returns the section for an email, normalizing it first.
func (x *Index) LookupByEmail(email string) (string, bool) {
	key := NormalizeEmail(email, x.marker)
	if key == "" {
		return "", false
	}
	pos, ok := x.byEmail[key]
	if !ok {
		return "", false
	}
	return x.entries[pos].Section, true
}

// LookupByName returns the section for a name, normalizing it first.
func (x *Index) LookupByName(name string) (string, bool) {
	key := NormalizeName(name)
	if key == "" {
		return "", false
	}
	pos, ok := x.byName[key]
	if !ok {
		return "", false
	}
	return x.entries[pos].Section, true
}

// Resolve applies the lookup precedence: email first, then name.
func (x *Index) Resolve(email, name string) (string, MatchKind) {
	if section, ok := x.LookupByEmail(email); ok {
		return section, MatchEmail
	}
	if section, ok := x.LookupByName(name); ok {
		return section, MatchName
	}
	return "", MatchNone
}
