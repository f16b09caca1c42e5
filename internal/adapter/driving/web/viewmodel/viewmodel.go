// Package viewmodel defines presentation-ready structs for templ components.
// View models decouple template rendering from domain model types.
package viewmodel

// BinCardViewModel holds presentation-ready data for a bin card in the list.
type BinCardViewModel struct {
	ID           string
	Title        string
	Preview      string // content truncated for the card
	CreatedAt    string // human-readable, UTC
	CreatedAtISO string // machine-readable, for <time datetime>
	DetailPath   string
}

// BinDetailViewModel holds presentation-ready data for the single-bin page.
type BinDetailViewModel struct {
	BinCardViewModel

	Content string
	// RenderedContent is sanitized HTML produced from Content by the markdown
	// renderer. It is the only field templates may write without escaping.
	RenderedContent string
}

// IndexViewModel holds data for the landing page.
type IndexViewModel struct {
	Backend string
	Bins    []BinCardViewModel
}
