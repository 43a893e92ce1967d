// Package resolver maps free-text destination queries onto the city table.
//
// Matching is tiered: exact name, exact code, exact alias, name prefix, alias
// prefix, then substring of name or alias. Everything is case-insensitive and
// nothing here returns an error; a miss is reported as ok == false or as an
// empty sequence.
package resolver

import (
	"iter"
	"slices"
	"strings"

	"staybook/internal/domain"
)

type entry struct {
	rec     domain.CityRecord
	name    string
	code    string
	aliases []string
}

type Resolver struct{ entries []entry }

// New builds a resolver over cities. The slice is copied; later changes to it
// are not observed.
func New(cities []domain.CityRecord) *Resolver {
	es := make([]entry, 0, len(cities))
	for _, c := range cities {
		c.Aliases = slices.Clone(c.Aliases)
		if c.Coordinates != nil {
			co := *c.Coordinates
			c.Coordinates = &co
		}
		e := entry{rec: c, name: fold(c.Name), code: fold(c.Code)}
		for _, a := range c.Aliases {
			e.aliases = append(e.aliases, fold(a))
		}
		es = append(es, e)
	}
	return &Resolver{entries: es}
}

// Default returns a resolver over the built-in table.
func Default() *Resolver { return New(Cities) }

func fold(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

type matcher func(e *entry, q string) bool

func nameEq(e *entry, q string) bool  { return e.name == q }
func codeEq(e *entry, q string) bool  { return e.code == q }
func aliasEq(e *entry, q string) bool { return slices.Contains(e.aliases, q) }

func namePrefix(e *entry, q string) bool { return strings.HasPrefix(e.name, q) }

func aliasPrefix(e *entry, q string) bool {
	return slices.ContainsFunc(e.aliases, func(a string) bool { return strings.HasPrefix(a, q) })
}

func contains(e *entry, q string) bool {
	return strings.Contains(e.name, q) ||
		slices.ContainsFunc(e.aliases, func(a string) bool { return strings.Contains(a, q) })
}

func exact(e *entry, q string) bool  { return nameEq(e, q) || codeEq(e, q) || aliasEq(e, q) }
func prefix(e *entry, q string) bool { return namePrefix(e, q) || aliasPrefix(e, q) }

var (
	bestMatchTiers = []matcher{nameEq, codeEq, aliasEq, namePrefix, aliasPrefix, contains}
	suggestTiers   = []matcher{exact, prefix, contains}
)

// FindBestMatch returns the first city hit by the earliest matching tier.
func (r *Resolver) FindBestMatch(query string) (domain.CityRecord, bool) {
	q := fold(query)
	if q == "" {
		return domain.CityRecord{}, false
	}
	for _, match := range bestMatchTiers {
		for i := range r.entries {
			if match(&r.entries[i], q) {
				return r.entries[i].record(), true
			}
		}
	}
	return domain.CityRecord{}, false
}

// Suggest yields up to limit distinct cities, exact hits first, then prefix
// hits, then substring hits. The sequence is recomputed on every range.
func (r *Resolver) Suggest(query string, limit int) iter.Seq[domain.CityRecord] {
	return func(yield func(domain.CityRecord) bool) {
		q := fold(query)
		if q == "" || limit <= 0 {
			return
		}
		seen := make([]bool, len(r.entries))
		n := 0
		for _, match := range suggestTiers {
			for i := range r.entries {
				if seen[i] || !match(&r.entries[i], q) {
					continue
				}
				seen[i] = true
				if !yield(r.entries[i].record()) {
					return
				}
				if n++; n >= limit {
					return
				}
			}
		}
	}
}

// SuggestList is Suggest collected into a slice.
func (r *Resolver) SuggestList(query string, limit int) []domain.CityRecord {
	out := slices.Collect(r.Suggest(query, limit))
	if out == nil {
		out = []domain.CityRecord{}
	}
	return out
}

// All returns the table in declaration order.
func (r *Resolver) All() []domain.CityRecord {
	out := make([]domain.CityRecord, 0, len(r.entries))
	for i := range r.entries {
		out = append(out, r.entries[i].record())
	}
	return out
}

// record hands out a copy so callers can't mutate the table.
func (e *entry) record() domain.CityRecord {
	rec := e.rec
	rec.Aliases = slices.Clone(e.rec.Aliases)
	if e.rec.Coordinates != nil {
		co := *e.rec.Coordinates
		rec.Coordinates = &co
	}
	return rec
}
