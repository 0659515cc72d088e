package feed

import (
	"reflect"
	"strings"
	"testing"
)

func TestCardImage(t *testing.T) {
	testCases := []struct {
		name     string
		entry    Entry
		expected string
	}{
		{
			name:     "thumbnail wins",
			entry:    Entry{Thumbnail: "https://cdn.example.com/thumb.png", Description: `<img src="https://cdn.example.com/body.png">`},
			expected: "https://cdn.example.com/thumb.png",
		},
		{
			name:     "blank thumbnail falls back to description",
			entry:    Entry{Thumbnail: "  ", Description: `<p>x</p><img src="https://cdn.example.com/body.png">`},
			expected: "https://cdn.example.com/body.png",
		},
		{
			name:     "placeholder when nothing found",
			entry:    Entry{Description: "<p>No pictures here</p>"},
			expected: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CardImage(tc.entry); got != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestFormatDate(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"2024-03-05 10:00:00", "March 5, 2024"},
		{"2023-12-31T23:30:00Z", "December 31, 2023"},
		{"Tue, 05 Mar 2024 10:00:00 GMT", "March 5, 2024"},
		{"", ""},
		{"sometime soon", "sometime soon"},
	}

	for _, tc := range testCases {
		if got := FormatDate(tc.input); got != tc.expected {
			t.Errorf("FormatDate(%q) = %q, expected %q", tc.input, got, tc.expected)
		}
	}
}

func TestNewCard(t *testing.T) {
	entry := Entry{
		Title:       "Shipping Go services",
		PubDate:     "2024-01-15 08:00:00",
		Link:        "https://medium.com/p/go",
		GUID:        "https://medium.com/p/go",
		Author:      "Someone",
		Description: `<figure><img src="https://cdn.example.com/go.png"></figure><p>Build, ship, repeat.</p>`,
		Categories:  []string{"go", "devops", "docker", "kubernetes"},
	}

	card := NewCard(entry, "ignored backfill")

	if card.Title != "Shipping Go services" {
		t.Errorf("Unexpected title: %s", card.Title)
	}
	if card.Date != "January 15, 2024" {
		t.Errorf("Unexpected date: %s", card.Date)
	}
	if card.Preview != "Build, ship, repeat." {
		t.Errorf("Unexpected preview: %s", card.Preview)
	}
	if !card.HasImage() || card.ImageURL != "https://cdn.example.com/go.png" {
		t.Errorf("Unexpected image: %q", card.ImageURL)
	}
	if !reflect.DeepEqual(card.Categories, []string{"go", "devops", "docker"}) {
		t.Errorf("Expected first %d categories, got %v", MaxCardCategories, card.Categories)
	}
	if len(entry.Categories) != 4 {
		t.Error("Expected entry categories to be left untouched")
	}
}

func TestNewCardUsesBackfillForImageOnlyDescription(t *testing.T) {
	entry := Entry{
		GUID:        "a",
		Description: `<img src="https://cdn.example.com/a.png">`,
	}

	card := NewCard(entry, "Text pulled from the article page")
	if card.Preview != "Text pulled from the article page" {
		t.Errorf("Expected backfilled preview, got %q", card.Preview)
	}

	card = NewCard(entry, "")
	if card.Preview != "" {
		t.Errorf("Expected empty preview, got %q", card.Preview)
	}
	if card.Categories == nil {
		t.Error("Expected non-nil categories")
	}
}

func TestBuildCards(t *testing.T) {
	entries := []Entry{
		{GUID: "1", Title: "First"},
		{GUID: "2", Title: "Second", Description: "<img src=\"https://cdn.example.com/2.png\">"},
		{GUID: "1", Title: "First again"},
		{GUID: "", Title: "No guid"},
		{GUID: "", Title: "No guid either"},
	}

	cards := BuildCards(entries, map[string]string{"2": "Backfilled"})

	titles := make([]string, 0, len(cards))
	for _, c := range cards {
		titles = append(titles, c.Title)
	}
	expected := []string{"First", "Second", "No guid", "No guid either"}
	if !reflect.DeepEqual(titles, expected) {
		t.Errorf("Expected %v, got %v", expected, titles)
	}
	if cards[1].Preview != "Backfilled" {
		t.Errorf("Expected backfilled preview, got %q", cards[1].Preview)
	}
}

func TestBuildCardsEmpty(t *testing.T) {
	cards := BuildCards(nil, nil)
	if cards == nil || len(cards) != 0 {
		t.Errorf("Expected empty non-nil slice, got %v", cards)
	}
}

func TestSanitizeHTML(t *testing.T) {
	got := SanitizeHTML(`<p onclick="steal()">Hi <a href="https://example.com">there</a></p><script>alert(1)</script>`)

	for _, banned := range []string{"onclick", "<script", "alert(1)"} {
		if strings.Contains(got, banned) {
			t.Errorf("Expected %q to be stripped, got %s", banned, got)
		}
	}
	if !strings.Contains(got, `target="_blank"`) {
		t.Errorf("Expected links to open in a new tab, got %s", got)
	}
}
