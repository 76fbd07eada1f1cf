package paste

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kapu/poketeam-kakao-bot-go/internal/domain"
	"github.com/kapu/poketeam-kakao-bot-go/internal/pokedex"
)

// Extract scans a flattened paste document for known Pokémon names and
// returns them in document order, padded with NOT_FOUND slots up to six.
//
// The scan runs over a normalized copy of the text (lowercase, hyphens as
// spaces) and claims word-boundary occurrences of each dictionary name. A
// text position claimed by one name cannot be claimed by another, and the
// dictionary's longest-first iteration order decides such overlaps. Claimed
// positions are sorted ascending at the end, which is what encodes team order
// without depending on the page's markup.
func Extract(text string, dex *pokedex.Pokedex) domain.Roster {
	roster := domain.NotFoundRoster()
	if text == "" || dex == nil || dex.Len() == 0 {
		return roster
	}

	normalized := normalizeText(text)

	type match struct {
		pos  int
		name string // display form
	}

	claimed := make(map[int]struct{}, domain.RosterSize)
	matches := make([]match, 0, domain.RosterSize)

scan:
	for _, entry := range dex.Entries() {
		from := 0
		for {
			rel := strings.Index(normalized[from:], entry.Normalized)
			if rel < 0 {
				break
			}
			pos := from + rel
			end := pos + len(entry.Normalized)
			from = end

			if !boundaryBefore(normalized, pos) || !boundaryAfter(normalized, end) {
				continue
			}
			if _, taken := claimed[pos]; taken {
				continue
			}

			claimed[pos] = struct{}{}
			matches = append(matches, match{pos: pos, name: entry.Display})
			if len(matches) == domain.RosterSize {
				break scan
			}
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].pos < matches[j].pos
	})

	for i, m := range matches {
		roster[i] = m.name
	}
	return roster
}

// normalizeText lowercases the document and folds hyphens into spaces so
// "Tapu-Koko" and "tapu koko" scan identically.
func normalizeText(text string) string {
	return strings.Map(func(r rune) rune {
		if r == '-' || unicode.IsSpace(r) {
			return ' '
		}
		return unicode.ToLower(r)
	}, text)
}

func boundaryBefore(s string, pos int) bool {
	if pos == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:pos])
	return !isWordRune(r)
}

func boundaryAfter(s string, end int) bool {
	if end >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[end:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
