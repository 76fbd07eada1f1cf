package pager

import "github.com/kapu/poketeam-kakao-bot-go/internal/domain"

// DefaultPageSize is how many teams one rendered page lists.
const DefaultPageSize = 5

// Paginate slices teams into fixed-size pages. Concatenating the pages in
// order reproduces the input exactly; the last page holds the remainder.
func Paginate(teams []domain.Team, size int) [][]domain.Team {
	if size <= 0 {
		size = DefaultPageSize
	}

	pages := make([][]domain.Team, 0, (len(teams)+size-1)/size)
	for start := 0; start < len(teams); start += size {
		end := start + size
		if end > len(teams) {
			end = len(teams)
		}
		pages = append(pages, teams[start:end])
	}
	return pages
}
