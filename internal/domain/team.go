package domain

// Team is a stored team record. URL is the logical key: update and delete
// operations address records by it, though the store does not enforce
// uniqueness. Style is optional free text attached by administrators.
type Team struct {
	ID         int     `json:"id"`
	Generation string  `json:"generation"`
	Style      *string `json:"style,omitempty"`
	URL        string  `json:"url"`
}

// StyleOrDefault returns the style label or the given fallback when no style
// was set.
func (t *Team) StyleOrDefault(fallback string) string {
	if t.Style == nil || *t.Style == "" {
		return fallback
	}
	return *t.Style
}
