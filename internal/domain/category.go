package domain

// Category is one of the six fixed forum sections. The zero value means
// "all categories". Slugs are part of the bookmarkable URL contract and
// must never change.
type Category struct {
	Label string
	Slug  string
}

// Categories lists every section in display order.
var Categories = []Category{
	{Label: "General", Slug: "complex"},
	{Label: "Tech", Slug: "tech"},
	{Label: "Reviews", Slug: "review"},
	{Label: "Deals", Slug: "report"},
	{Label: "Promotion", Slug: "promotion"},
	{Label: "Marketplace", Slug: "trade"},
}

// IsAll reports whether the category means "no filter".
func (c Category) IsAll() bool { return c.Slug == "" }

// CategoryBySlug resolves a URL slug. Unknown slugs map to the zero
// category, which renders and filters as "all".
func CategoryBySlug(slug string) Category {
	for _, c := range Categories {
		if c.Slug == slug {
			return c
		}
	}
	return Category{}
}

// CategoryByLabel resolves a backend category value.
func CategoryByLabel(label string) Category {
	for _, c := range Categories {
		if c.Label == label {
			return c
		}
	}
	return Category{}
}
