package facet

import (
	"reflect"
	"testing"

	"harshagw/fleetsearch/internal/filter"
	"harshagw/fleetsearch/internal/vehicle"
)

func testFleet() []vehicle.Vehicle {
	mk := func(id, cat, sub, chassis, model, body, bodyModel, city string) vehicle.Vehicle {
		return vehicle.Vehicle{
			ID: id, Title: chassis + " " + model, Category: cat, Subcategory: sub,
			ChassisManufacturer: chassis, ChassisModel: model,
			BodyManufacturer: body, BodyModel: bodyModel, City: city,
			DriveSystem: vehicle.Sentinel, EnginePosition: vehicle.Sentinel,
		}
	}
	return []vehicle.Vehicle{
		mk("1", "Urbano", "Convencional", "Mercedes-Benz", "OF 1721", "Caio", "Apache", "Curitiba"),
		mk("2", "Urbano", "Articulado", "Volvo", "B340M", "Caio", "Millennium", "Curitiba"),
		mk("3", "Urbano", "Convencional", "Volvo", "B270F", "Marcopolo", "Torino", "São Paulo"),
		mk("4", "Rodoviário", "Double Deck", "Scania", "K440", "Marcopolo", "Paradiso", "São Paulo"),
		mk("5", "Rodoviário", "Executivo", "Volvo", "B450R", "Irizar", "i8", "Recife"),
		mk("6", "Micro", "", "Mercedes-Benz", "LO 916", "Marcopolo", "Senior", ""),
	}
}

type summary struct {
	name     string
	count    int
	selected bool
}

func summarize(nodes []Node) []summary {
	out := make([]summary, len(nodes))
	for i, n := range nodes {
		out[i] = summary{n.Name, n.Count, n.Selected}
	}
	return out
}

func TestHierarchical(t *testing.T) {
	fleet := testFleet()
	nodes := Hierarchical(fleet, Fields[filter.DimCategory], Fields[filter.DimSubcategory],
		[]string{"urbano"}, []string{"Articulado"})

	want := []summary{{"Urbano", 3, true}, {"Rodoviário", 2, false}, {"Micro", 1, false}}
	if got := summarize(nodes); !reflect.DeepEqual(got, want) {
		t.Fatalf("parents = %v, want %v", got, want)
	}

	wantChildren := []summary{{"Convencional", 2, false}, {"Articulado", 1, true}}
	if got := summarize(nodes[0].Children); !reflect.DeepEqual(got, wantChildren) {
		t.Errorf("Urbano children = %v, want %v", got, wantChildren)
	}
	if got := summarize(nodes[1].Children); !reflect.DeepEqual(got, []summary{{"Double Deck", 1, false}, {"Executivo", 1, false}}) {
		t.Errorf("Rodoviário children = %v", got)
	}
	if len(nodes[2].Children) != 0 {
		t.Errorf("Micro children = %v, want none", nodes[2].Children)
	}
}

var hierarchyPairs = [][2]filter.Dimension{
	{filter.DimCategory, filter.DimSubcategory},
	{filter.DimChassisManufacturer, filter.DimChassisModel},
	{filter.DimBodyManufacturer, filter.DimBodyModel},
}

func TestHierarchical_Conservation(t *testing.T) {
	fleet := testFleet()
	for _, p := range hierarchyPairs {
		nodes := Hierarchical(fleet, Fields[p[0]], Fields[p[1]], nil, nil)
		total := 0
		for _, n := range nodes {
			total += n.Count
			childTotal := 0
			for _, c := range n.Children {
				childTotal += c.Count
			}
			if childTotal > n.Count {
				t.Errorf("%s/%s: children of %s sum to %d > %d", p[0], p[1], n.Name, childTotal, n.Count)
			}
		}
		if total != len(fleet) {
			t.Errorf("%s: parent counts sum to %d, want %d", p[0], total, len(fleet))
		}
	}
}

func TestHierarchical_ConservationFullData(t *testing.T) {
	fleet := testFleet()
	fleet[5].Subcategory = "Micro Urbano"

	for _, p := range hierarchyPairs {
		for _, n := range Hierarchical(fleet, Fields[p[0]], Fields[p[1]], nil, nil) {
			childTotal := 0
			for _, c := range n.Children {
				childTotal += c.Count
			}
			if childTotal != n.Count {
				t.Errorf("%s/%s: children of %s sum to %d, want %d", p[0], p[1], n.Name, childTotal, n.Count)
			}
		}
	}
}

func TestCountsAndFlat(t *testing.T) {
	counts := Counts(testFleet(), Fields[filter.DimCity])
	if !reflect.DeepEqual(counts, map[string]int{"Curitiba": 2, "São Paulo": 2, "Recife": 1}) {
		t.Fatalf("Counts = %v", counts)
	}
	got := summarize(Flat(counts, []string{"recife"}))
	want := []summary{{"Curitiba", 2, false}, {"São Paulo", 2, false}, {"Recife", 1, true}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Flat = %v, want %v", got, want)
	}
}

func TestContext_Exclusion(t *testing.T) {
	fleet := testFleet()
	f := filter.WithCategories(filter.Default(), "Urbano")
	f = filter.WithChassisManufacturers(f, "Volvo")

	categoryCtx := Context(fleet, "", f, ExcludeCategory, nil)
	if got := ids(categoryCtx); got != "235" {
		t.Errorf("category context = %s, want 235", got)
	}
	chassisCtx := Context(fleet, "", f, ExcludeChassis, nil)
	if got := ids(chassisCtx); got != "123" {
		t.Errorf("chassis context = %s, want 123", got)
	}

	// Every count equals the size of the result obtained by selecting only
	// that value in the excluded dimension.
	nodes := Hierarchical(categoryCtx, Fields[filter.DimCategory], Fields[filter.DimSubcategory], f.Categories, nil)
	for _, n := range nodes {
		selected := filter.WithCategories(ExcludeCategory.Reduce(f), n.Value)
		if got := len(filter.Apply(fleet, selected)); got != n.Count {
			t.Errorf("category %s: count %d, selecting it yields %d", n.Name, n.Count, got)
		}
	}
}

func TestContext_Query(t *testing.T) {
	fleet := testFleet()
	got := Context(fleet, "volvo", filter.WithCategories(filter.Default(), "Urbano"), ExcludeCategory, nil)
	if ids(got) != "235" {
		t.Errorf("context = %s, want 235", ids(got))
	}
}

func ids(vehicles []vehicle.Vehicle) string {
	var s string
	for _, v := range vehicles {
		s += v.ID
	}
	return s
}

func TestContexts_Memo(t *testing.T) {
	fleet := testFleet()
	c := NewContexts(fleet, nil)

	f := filter.WithCategories(filter.Default(), "Urbano")
	first := c.Get("", f, ExcludeChassis)
	second := c.Get("", f, ExcludeChassis)
	if ids(first) != ids(second) {
		t.Fatalf("memo returned a different context")
	}
	if hits, misses := c.Stats(); hits != 1 || misses != 1 {
		t.Errorf("stats = %d hits / %d misses, want 1/1", hits, misses)
	}

	// Chassis selections are excluded from the chassis context, so changing
	// them reuses it; the category context must be recomputed.
	_ = c.Get("", f, ExcludeCategory)
	g := filter.WithChassisManufacturers(f, "Volvo")
	_ = c.Get("", g, ExcludeChassis)
	catCtx := c.Get("", g, ExcludeCategory)
	if hits, misses := c.Stats(); hits != 2 || misses != 3 {
		t.Errorf("stats = %d hits / %d misses, want 2/3", hits, misses)
	}
	if ids(catCtx) != "235" {
		t.Errorf("category context = %s, want 235", ids(catCtx))
	}

	if got := ids(c.Get("volvo", g, ExcludeChassis)); got != "23" {
		t.Errorf("query context = %s, want 23", got)
	}
}

func TestFingerprint(t *testing.T) {
	f := filter.WithCities(filter.Default(), "Curitiba")
	if Fingerprint("volvo", f) != Fingerprint("volvo", filter.WithCities(filter.Default(), "Curitiba")) {
		t.Error("equal inputs hash differently")
	}
	if Fingerprint("volvo", f) == Fingerprint("scania", f) {
		t.Error("query not part of the fingerprint")
	}
	if Fingerprint("volvo", f) == Fingerprint("volvo", filter.Default()) {
		t.Error("filters not part of the fingerprint")
	}
}

func TestReconcile(t *testing.T) {
	fleet := testFleet()

	f := filter.WithCategories(filter.Default(), "Rodoviário")
	f = filter.WithSubcategories(f, "Convencional", "Executivo")
	f = filter.WithChassisManufacturers(f, "Scania")
	f = filter.WithChassisModels(f, "B340M")
	f = filter.WithBodyModels(f, "Torino")

	got := Reconcile(fleet, f)
	if !reflect.DeepEqual(got.Subcategories, []string{"Executivo"}) {
		t.Errorf("Subcategories = %v, want [Executivo]", got.Subcategories)
	}
	if len(got.Chassis.Models) != 0 {
		t.Errorf("Models = %v, want none", got.Chassis.Models)
	}
	if !reflect.DeepEqual(got.Chassis.BodyModels, []string{"Torino"}) {
		t.Errorf("BodyModels = %v, want [Torino] (no body manufacturer selected)", got.Chassis.BodyModels)
	}
	if !reflect.DeepEqual(f.Subcategories, []string{"Convencional", "Executivo"}) {
		t.Errorf("input mutated: %v", f.Subcategories)
	}
}

func TestBuildPanel(t *testing.T) {
	fleet := testFleet()
	f := filter.WithCategories(filter.Default(), "Urbano")
	f = filter.WithCities(f, "Curitiba")

	p := BuildPanel(NewContexts(fleet, nil), "", f)

	// category facet ignores the category selection but keeps the city one
	if got := summarize(p.Categories); !reflect.DeepEqual(got, []summary{{"Urbano", 2, true}}) {
		t.Errorf("Categories = %v", got)
	}
	if got := summarize(p.Flat[filter.DimCity]); !reflect.DeepEqual(got, []summary{{"Curitiba", 2, true}, {"São Paulo", 1, false}}) {
		t.Errorf("cities = %v", got)
	}
	if got := summarize(p.Chassis); !reflect.DeepEqual(got, []summary{{"Mercedes-Benz", 1, false}, {"Volvo", 1, false}}) {
		t.Errorf("Chassis = %v", got)
	}
	if len(p.Flat[filter.DimDrivetrain]) != 0 {
		t.Errorf("drivetrain facet should skip unknown values: %v", p.Flat[filter.DimDrivetrain])
	}
}
