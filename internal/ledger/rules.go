package ledger

import (
	"cmp"
	"slices"
	"strings"

	"github.com/gofrs/uuid/v5"
)

// Matches reports whether tx satisfies the rule predicate. Patterns are
// case-sensitive substrings; an empty pattern matches anything.
func (r CategoryRule) Matches(tx Transaction) bool {
	return strings.Contains(tx.Description, r.DescriptionPattern) &&
		strings.Contains(tx.CounterpartyIBAN, r.IBANPattern) &&
		tx.Type == r.Type
}

// MatchCategory returns the category of the oldest rule matching tx. Rules
// whose category no longer exists are skipped.
func MatchCategory(tx Transaction, rules []CategoryRule, categoryExists func(uuid.UUID) bool) (uuid.UUID, bool) {
	ordered := slices.Clone(rules)
	slices.SortStableFunc(ordered, func(a, b CategoryRule) int {
		return cmp.Compare(a.Sequence, b.Sequence)
	})

	for _, rule := range ordered {
		if !rule.Matches(tx) {
			continue
		}
		if !categoryExists(rule.CategoryID) {
			continue
		}
		return rule.CategoryID, true
	}
	return uuid.Nil, false
}

// CategorySet builds a membership check over categories.
func CategorySet(categories []Category) func(uuid.UUID) bool {
	set := make(map[uuid.UUID]struct{}, len(categories))
	for _, c := range categories {
		set[c.ID] = struct{}{}
	}
	return func(id uuid.UUID) bool {
		_, ok := set[id]
		return ok
	}
}
