package facet

import "harshagw/fleetsearch/internal/filter"

// Panel is the full facet state of a search page.
type Panel struct {
	Categories []Node                      `json:"categories"`
	Chassis    []Node                      `json:"chassis"`
	Bodies     []Node                      `json:"bodies"`
	Flat       map[filter.Dimension][]Node `json:"flat"`
}

// BuildPanel computes every facet for a query and filter state. Each facet
// is counted in its own context so its selected values do not narrow it.
func BuildPanel(c *Contexts, query string, f filter.Filters) Panel {
	p := Panel{
		Categories: Hierarchical(c.Get(query, f, ExcludeCategory),
			Fields[filter.DimCategory], Fields[filter.DimSubcategory], f.Categories, f.Subcategories),
		Chassis: Hierarchical(c.Get(query, f, ExcludeChassis),
			Fields[filter.DimChassisManufacturer], Fields[filter.DimChassisModel], f.Chassis.Manufacturers, f.Chassis.Models),
		Bodies: Hierarchical(c.Get(query, f, ExcludeBody),
			Fields[filter.DimBodyManufacturer], Fields[filter.DimBodyModel], f.Chassis.BodyManufacturers, f.Chassis.BodyModels),
		Flat: make(map[filter.Dimension][]Node, len(FlatDimensions)),
	}

	for _, dim := range FlatDimensions {
		ctx := c.Get(query, f, ExcludeField(dim))
		p.Flat[dim] = Flat(Counts(ctx, Fields[dim]), f.Values(dim))
	}
	return p
}
