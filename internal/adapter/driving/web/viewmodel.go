package web

import (
	"net/url"
	"unicode/utf8"

	vm "github.com/ericfisherdev/binvault/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/binvault/internal/domain/model"
)

// previewLength is the number of characters of content shown on a card.
const previewLength = 120

const displayLayout = "Jan 2, 2006 15:04 UTC"

// toBinCardViewModel converts a domain Bin to a BinCardViewModel.
func toBinCardViewModel(b model.Bin) vm.BinCardViewModel {
	created := b.CreatedAt.UTC()

	return vm.BinCardViewModel{
		ID:           b.ID,
		Title:        b.Title,
		Preview:      truncate(b.Content, previewLength),
		CreatedAt:    created.Format(displayLayout),
		CreatedAtISO: created.Format(model.TimestampLayout),
		DetailPath:   "/bin/" + url.PathEscape(b.ID),
	}
}

// toBinCardViewModels converts bins to cards ordered newest first.
func toBinCardViewModels(bins []model.Bin) []vm.BinCardViewModel {
	cards := make([]vm.BinCardViewModel, 0, len(bins))
	for i := len(bins) - 1; i >= 0; i-- {
		cards = append(cards, toBinCardViewModel(bins[i]))
	}
	return cards
}

// toBinDetailViewModel converts a domain Bin to a BinDetailViewModel with its
// content rendered as sanitized markdown.
func toBinDetailViewModel(b model.Bin) vm.BinDetailViewModel {
	return vm.BinDetailViewModel{
		BinCardViewModel: toBinCardViewModel(b),
		Content:          b.Content,
		RenderedContent:  RenderMarkdown(b.Content),
	}
}

// truncate shortens s to at most n runes, appending an ellipsis when cut.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "…"
}
