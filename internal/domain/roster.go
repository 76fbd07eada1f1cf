package domain

import "strings"

// RosterSize is the number of slots in a standard team.
const RosterSize = 6

// Roster slot sentinels. SlotNotFound means the document was readable but the
// slot could not be matched to a known Pokémon; SlotFetchError means the
// document itself could not be retrieved. A full fetch-error roster is
// retryable and must never be cached.
const (
	SlotNotFound   = "NOT_FOUND"
	SlotFetchError = "FETCH_ERROR"
)

// Roster is the ordered list of up to six Pokémon names extracted from a
// paste document. Slots that could not be resolved hold a sentinel.
type Roster [RosterSize]string

// NotFoundRoster returns a roster with every slot unmatched.
func NotFoundRoster() Roster {
	var r Roster
	for i := range r {
		r[i] = SlotNotFound
	}
	return r
}

// FetchErrorRoster returns the sentinel roster for a failed document fetch.
func FetchErrorRoster() Roster {
	var r Roster
	for i := range r {
		r[i] = SlotFetchError
	}
	return r
}

// IsFetchError reports whether this roster came from a failed fetch.
func (r Roster) IsFetchError() bool {
	return r[0] == SlotFetchError
}

// Complete reports whether every slot holds a real Pokémon name.
func (r Roster) Complete() bool {
	for _, slot := range r {
		if slot == SlotNotFound || slot == SlotFetchError {
			return false
		}
	}
	return true
}

// Names returns the real Pokémon names in roster order, sentinels skipped.
func (r Roster) Names() []string {
	names := make([]string, 0, RosterSize)
	for _, slot := range r {
		if slot != SlotNotFound && slot != SlotFetchError {
			names = append(names, slot)
		}
	}
	return names
}

// Contains reports whether name matches any roster slot, case-insensitively
// and with hyphens and spaces treated as the same separator.
func (r Roster) Contains(name string) bool {
	want := foldName(name)
	if want == "" {
		return false
	}
	for _, slot := range r {
		if slot == SlotNotFound || slot == SlotFetchError {
			continue
		}
		if foldName(slot) == want {
			return true
		}
	}
	return false
}

func foldName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", " ")
	return strings.Join(strings.Fields(s), " ")
}
