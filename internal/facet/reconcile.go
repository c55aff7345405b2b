package facet

import (
	"harshagw/fleetsearch/internal/analysis"
	"harshagw/fleetsearch/internal/filter"
	"harshagw/fleetsearch/internal/vehicle"
)

// hierarchy pairs a parent dimension with its child dimension.
type hierarchy struct {
	parent filter.Dimension
	child  filter.Dimension
}

var hierarchies = []hierarchy{
	{filter.DimCategory, filter.DimSubcategory},
	{filter.DimChassisManufacturer, filter.DimChassisModel},
	{filter.DimBodyManufacturer, filter.DimBodyModel},
}

// Reconcile drops selected child values (subcategories, chassis models, body
// models) that no vehicle under the selected parents carries. Hierarchies
// without a selected parent are left alone. The result is f itself when
// nothing is dropped.
func Reconcile(vehicles []vehicle.Vehicle, f filter.Filters) filter.Filters {
	for _, h := range hierarchies {
		parents := f.Values(h.parent)
		children := f.Values(h.child)
		if len(parents) == 0 || len(children) == 0 {
			continue
		}

		selected := selectedSet(parents)
		parentOf, childOf := Fields[h.parent], Fields[h.child]
		reachable := make(map[string]bool)
		for _, v := range vehicles {
			if selected[analysis.Fold(parentOf(v))] {
				reachable[analysis.Fold(childOf(v))] = true
			}
		}

		kept := make([]string, 0, len(children))
		for _, c := range children {
			if reachable[analysis.Fold(c)] {
				kept = append(kept, c)
			}
		}
		if len(kept) != len(children) {
			f = filter.WithValues(f, h.child, kept...)
		}
	}
	return f
}
