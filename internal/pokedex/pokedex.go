package pokedex

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/kapu/poketeam-kakao-bot-go/internal/util"
)

// Entry is one known Pokémon: the display form from the source file plus its
// normalized form used for matching.
type Entry struct {
	Display    string
	Normalized string
}

// Pokedex is the read-only dictionary of known Pokémon names, loaded once at
// startup and never mutated. Iteration order is fixed: longest normalized
// name first, then lexicographic, so that when two names could claim
// overlapping text spans the resolution is deterministic.
type Pokedex struct {
	entries []Entry
	byNorm  map[string]string
}

type pokedexFile struct {
	Pokemon []string `json:"pokemon"`
}

// LoadFile reads a {"pokemon": [...]} JSON file.
func LoadFile(path string) (*Pokedex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pokedex file: %w", err)
	}

	var file pokedexFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse pokedex file %s: %w", path, err)
	}
	if len(file.Pokemon) == 0 {
		return nil, fmt.Errorf("pokedex file %s contains no names", path)
	}

	return New(file.Pokemon), nil
}

// New builds a Pokedex from display names. Duplicate names (after
// normalization) keep the first display form seen.
func New(names []string) *Pokedex {
	byNorm := make(map[string]string, len(names))
	entries := make([]Entry, 0, len(names))

	for _, name := range names {
		norm := util.NormalizeName(name)
		if norm == "" {
			continue
		}
		if _, seen := byNorm[norm]; seen {
			continue
		}
		byNorm[norm] = name
		entries = append(entries, Entry{Display: name, Normalized: norm})
	}

	sort.Slice(entries, func(i, j int) bool {
		if len(entries[i].Normalized) != len(entries[j].Normalized) {
			return len(entries[i].Normalized) > len(entries[j].Normalized)
		}
		return entries[i].Normalized < entries[j].Normalized
	})

	return &Pokedex{entries: entries, byNorm: byNorm}
}

// Entries returns the dictionary in its fixed iteration order. Callers must
// not modify the returned slice.
func (d *Pokedex) Entries() []Entry {
	return d.entries
}

// Display resolves a normalized name back to its canonical display form.
func (d *Pokedex) Display(normalized string) (string, bool) {
	display, ok := d.byNorm[normalized]
	return display, ok
}

func (d *Pokedex) Len() int {
	return len(d.entries)
}
