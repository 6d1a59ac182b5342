package domain_test

import (
	"testing"

	"github.com/aibbs/aibbs-web/internal/domain"
)

func TestCategorySlugRoundTrip(t *testing.T) {
	for _, c := range domain.Categories {
		got := domain.CategoryBySlug(c.Slug)
		if got != c {
			t.Errorf("CategoryBySlug(%q) = %+v, want %+v", c.Slug, got, c)
		}
		got = domain.CategoryByLabel(c.Label)
		if got != c {
			t.Errorf("CategoryByLabel(%q) = %+v, want %+v", c.Label, got, c)
		}
	}
}

func TestCategoryUnknownSlugIsAll(t *testing.T) {
	got := domain.CategoryBySlug("does-not-exist")
	if !got.IsAll() {
		t.Fatalf("unknown slug should map to the all category, got %+v", got)
	}
	if !domain.CategoryBySlug("").IsAll() {
		t.Fatal("empty slug should map to the all category")
	}
}

func TestCategoriesAreStable(t *testing.T) {
	// The slugs are the external URL contract.
	want := []string{"complex", "tech", "review", "report", "promotion", "trade"}
	if len(domain.Categories) != len(want) {
		t.Fatalf("expected %d categories, got %d", len(want), len(domain.Categories))
	}
	for i, slug := range want {
		if domain.Categories[i].Slug != slug {
			t.Errorf("category %d slug = %q, want %q", i, domain.Categories[i].Slug, slug)
		}
	}
}
