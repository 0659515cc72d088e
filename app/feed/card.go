package feed

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

const (
	MaxCardCategories = 3
	CardDateLayout    = "January 2, 2006"
)

// Card is the presentation projection of an entry.
type Card struct {
	GUID       string   `json:"guid"`
	Title      string   `json:"title"`
	Link       string   `json:"link"`
	ImageURL   string   `json:"image_url,omitempty"`
	Date       string   `json:"date"`
	Author     string   `json:"author"`
	Preview    string   `json:"preview"`
	Categories []string `json:"categories"`
}

// HasImage reports whether the card shows an image instead of the placeholder icon.
func (c Card) HasImage() bool {
	return c.ImageURL != ""
}

// BuildCards maps entries to cards in feed order. Entries repeating an
// already seen GUID are dropped so the GUID stays a stable key.
func BuildCards(entries []Entry, previews map[string]string) []Card {
	cards := make([]Card, 0, len(entries))
	seen := make(map[string]bool, len(entries))

	for _, entry := range entries {
		if entry.GUID != "" {
			if seen[entry.GUID] {
				continue
			}
			seen[entry.GUID] = true
		}
		cards = append(cards, NewCard(entry, previews[entry.GUID]))
	}

	return cards
}

// NewCard builds a card. backfill is used only when the description yields no preview.
func NewCard(entry Entry, backfill string) Card {
	preview := PreviewText(entry.Description)
	if preview == "" {
		preview = backfill
	}

	categories := entry.Categories
	if len(categories) > MaxCardCategories {
		categories = categories[:MaxCardCategories]
	}

	return Card{
		GUID:       entry.GUID,
		Title:      entry.Title,
		Link:       entry.Link,
		ImageURL:   CardImage(entry),
		Date:       FormatDate(entry.PubDate),
		Author:     entry.Author,
		Preview:    preview,
		Categories: append([]string{}, categories...),
	}
}

// CardImage applies the fallback chain: thumbnail, then the first image of
// the description. An empty result means the placeholder icon.
func CardImage(entry Entry) string {
	if thumb := strings.TrimSpace(entry.Thumbnail); thumb != "" {
		return thumb
	}
	if src, ok := FirstImageURL(entry.Description); ok {
		return src
	}
	return ""
}

// FormatDate renders a publication timestamp as "January 2, 2006".
// Unparseable values are returned unchanged.
func FormatDate(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}

	t, err := parseDate(value)
	if err != nil {
		return value
	}
	return t.Format(CardDateLayout)
}

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(PubDateLayout, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return dateparse.ParseIn(value, time.UTC)
}
