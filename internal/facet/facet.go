// Package facet computes facet trees and value counts over a vehicle list.
package facet

import (
	"slices"
	"strconv"
	"strings"

	"harshagw/fleetsearch/internal/analysis"
	"harshagw/fleetsearch/internal/filter"
	"harshagw/fleetsearch/internal/vehicle"
)

// Node is one facet value. Children are only set on hierarchical facets.
type Node struct {
	Name     string `json:"name"`
	Value    string `json:"value"`
	Count    int    `json:"count"`
	Selected bool   `json:"selected"`
	Children []Node `json:"children,omitempty"`
}

// Field extracts the facet value of a vehicle. "" means no value.
type Field func(v vehicle.Vehicle) string

func display(s string) string {
	s = strings.TrimSpace(s)
	if s == vehicle.Sentinel {
		return ""
	}
	return s
}

// Fields maps each filter dimension to the vehicle value it facets on.
var Fields = map[filter.Dimension]Field{
	filter.DimCategory:            func(v vehicle.Vehicle) string { return display(v.Category) },
	filter.DimSubcategory:         func(v vehicle.Vehicle) string { return display(v.Subcategory) },
	filter.DimCity:                func(v vehicle.Vehicle) string { return display(v.City) },
	filter.DimState:               func(v vehicle.Vehicle) string { return display(v.State) },
	filter.DimStatus:              func(v vehicle.Vehicle) string { return display(v.Status) },
	filter.DimDrivetrain:          func(v vehicle.Vehicle) string { return analysis.Compact(display(v.DriveSystem)) },
	filter.DimEngineLocation:      func(v vehicle.Vehicle) string { return display(v.EnginePosition) },
	filter.DimChassisManufacturer: func(v vehicle.Vehicle) string { return display(v.ChassisManufacturer) },
	filter.DimChassisModel:        func(v vehicle.Vehicle) string { return display(v.ChassisModel) },
	filter.DimBodyManufacturer:    func(v vehicle.Vehicle) string { return display(v.BodyManufacturer) },
	filter.DimBodyModel:           func(v vehicle.Vehicle) string { return display(v.BodyModel) },
	filter.DimRetarder:            func(v vehicle.Vehicle) string { return display(string(v.Chassis().Retarder)) },
	filter.DimSuspension:          func(v vehicle.Vehicle) string { return vehicle.SuspensionCategory(string(v.Chassis().Suspension)) },
	filter.DimEngine:              func(v vehicle.Vehicle) string { return display(string(v.Chassis().EngineName)) },
	filter.DimAxles: func(v vehicle.Vehicle) string {
		if n := v.Axles(); n > 0 {
			return strconv.Itoa(n)
		}
		return ""
	},
}

// FlatDimensions are the dimensions shown as flat counts.
var FlatDimensions = []filter.Dimension{
	filter.DimCity, filter.DimState, filter.DimStatus,
	filter.DimDrivetrain, filter.DimAxles, filter.DimEngineLocation,
}

// Counts returns how many vehicles carry each value of field. Vehicles
// without a value are not counted.
func Counts(vehicles []vehicle.Vehicle, field Field) map[string]int {
	counts := make(map[string]int)
	for _, v := range vehicles {
		if value := field(v); value != "" {
			counts[value]++
		}
	}
	return counts
}

// Flat turns counts into nodes ordered by descending count, then name.
func Flat(counts map[string]int, selected []string) []Node {
	sel := selectedSet(selected)
	nodes := make([]Node, 0, len(counts))
	for name, count := range counts {
		nodes = append(nodes, Node{Name: name, Value: name, Count: count, Selected: sel[analysis.Fold(name)]})
	}
	sortNodes(nodes)
	return nodes
}

// Hierarchical groups vehicles by parent value, then by child value within
// each parent. A parent counts every vehicle in its group, including those
// without a child value.
func Hierarchical(vehicles []vehicle.Vehicle, parent, child Field, selectedParents, selectedChildren []string) []Node {
	type group struct {
		count    int
		children map[string]int
	}
	groups := make(map[string]*group)
	for _, v := range vehicles {
		p := parent(v)
		if p == "" {
			continue
		}
		g, ok := groups[p]
		if !ok {
			g = &group{children: make(map[string]int)}
			groups[p] = g
		}
		g.count++
		if c := child(v); c != "" {
			g.children[c]++
		}
	}

	selParents := selectedSet(selectedParents)
	nodes := make([]Node, 0, len(groups))
	for name, g := range groups {
		nodes = append(nodes, Node{
			Name:     name,
			Value:    name,
			Count:    g.count,
			Selected: selParents[analysis.Fold(name)],
			Children: Flat(g.children, selectedChildren),
		})
	}
	sortNodes(nodes)
	return nodes
}

func sortNodes(nodes []Node) {
	slices.SortStableFunc(nodes, func(a, b Node) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		return strings.Compare(a.Name, b.Name)
	})
}

func selectedSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[analysis.Fold(v)] = true
	}
	return set
}
