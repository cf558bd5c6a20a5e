package menu

import (
	"testing"

	"tableside/pkg/menubot"
)

func catalog() []menubot.MenuItem {
	return []menubot.MenuItem{
		{ID: "1", NameOfItem: "Masala Dosa", Description: "Crisp rice crepe with potato filling", Cost: 120, Category: "South Indian", VegOrNonVeg: "veg"},
		{ID: "2", NameOfItem: "Butter Chicken", Description: "Creamy tomato gravy", Cost: 320, Category: "North Indian", VegOrNonVeg: "non-veg"},
		{ID: "3", NameOfItem: "Filter Coffee", Description: "", Cost: 40, Category: "Beverages", VegOrNonVeg: "veg"},
	}
}

func TestLoadIsIdempotent(t *testing.T) {
	idx := NewIndex()

	if !idx.Load(catalog()) {
		t.Fatal("first Load() = false, want true")
	}
	if idx.Load([]menubot.MenuItem{{ID: "9", NameOfItem: "Other"}}) {
		t.Error("second Load() = true, want no-op")
	}

	items := idx.Items()
	if len(items) != 3 {
		t.Fatalf("Items() len = %d, want 3", len(items))
	}
	if items[0].ID != "1" {
		t.Errorf("catalog was replaced by the second load")
	}
}

func TestClearAllowsReload(t *testing.T) {
	idx := NewIndex()
	idx.Load(catalog())
	idx.Clear()

	if idx.Loaded() {
		t.Error("Loaded() = true after Clear()")
	}
	if !idx.Load(catalog()[:1]) {
		t.Error("Load() after Clear() = false, want true")
	}
}

func TestSearch(t *testing.T) {
	idx := NewIndex()
	idx.Load(catalog())

	tests := []struct {
		name    string
		query   string
		wantIDs []string
	}{
		{name: "emptyQueryMatchesNothing", query: "", wantIDs: []string{}},
		{name: "whitespaceQueryMatchesNothing", query: "   ", wantIDs: []string{}},
		{name: "noMatch", query: "sushi", wantIDs: []string{}},
		{name: "nameSubstring", query: "dosa", wantIDs: []string{"1"}},
		{name: "caseInsensitive", query: "BUTTER", wantIDs: []string{"2"}},
		{name: "descriptionSubstring", query: "gravy", wantIDs: []string{"2"}},
		{name: "categoryOnlyMatch", query: "beverages", wantIDs: []string{"3"}},
		{name: "sharedCategorySubstring", query: "indian", wantIDs: []string{"1", "2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := idx.Search(tt.query)
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("Search(%q) returned %d items, want %d", tt.query, len(got), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if got[i].ID != id {
					t.Errorf("Search(%q)[%d].ID = %q, want %q", tt.query, i, got[i].ID, id)
				}
			}
		})
	}
}

func TestSearchEmptyIndex(t *testing.T) {
	idx := NewIndex()
	if got := idx.Search("dosa"); len(got) != 0 {
		t.Errorf("Search() on empty index returned %d items, want 0", len(got))
	}
}
