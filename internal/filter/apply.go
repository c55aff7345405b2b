package filter

import (
	"slices"

	"harshagw/fleetsearch/internal/analysis"
	"harshagw/fleetsearch/internal/vehicle"
)

// predicate reports whether a vehicle passes one filter dimension.
type predicate func(v vehicle.Vehicle) bool

// Apply returns the vehicles that pass every active dimension of f, in input
// order. With no active dimension the input slice is returned as is.
func Apply(vehicles []vehicle.Vehicle, f Filters) []vehicle.Vehicle {
	preds := predicates(f)
	if len(preds) == 0 {
		return vehicles
	}
	out := make([]vehicle.Vehicle, 0, len(vehicles))
	for _, v := range vehicles {
		if matchAll(v, preds) {
			out = append(out, v)
		}
	}
	return out
}

// Match reports whether a single vehicle passes f.
func Match(v vehicle.Vehicle, f Filters) bool {
	return matchAll(v, predicates(f))
}

func matchAll(v vehicle.Vehicle, preds []predicate) bool {
	for _, p := range preds {
		if !p(v) {
			return false
		}
	}
	return true
}

// predicates builds one predicate per active dimension.
func predicates(f Filters) []predicate {
	var preds []predicate

	addSet := func(values []string, key func(string) string, field func(v vehicle.Vehicle) string) {
		if len(values) == 0 {
			return
		}
		set := keySet(values, key)
		preds = append(preds, func(v vehicle.Vehicle) bool {
			return set[key(field(v))]
		})
	}

	addSet(f.Categories, analysis.Fold, func(v vehicle.Vehicle) string { return v.Category })
	addSet(f.Subcategories, analysis.Fold, func(v vehicle.Vehicle) string { return v.Subcategory })
	addSet(f.Cities, analysis.Fold, func(v vehicle.Vehicle) string { return v.City })
	addSet(f.States, analysis.Fold, func(v vehicle.Vehicle) string { return v.State })
	addSet(f.Statuses, analysis.Fold, func(v vehicle.Vehicle) string { return v.Status })
	addSet(f.Chassis.Drivetrains, analysis.Compact, func(v vehicle.Vehicle) string { return v.DriveSystem })
	addSet(f.Chassis.EngineLocations, analysis.Fold, func(v vehicle.Vehicle) string { return v.EnginePosition })
	addSet(f.Chassis.Manufacturers, analysis.Fold, func(v vehicle.Vehicle) string { return v.ChassisManufacturer })
	addSet(f.Chassis.Models, analysis.Fold, func(v vehicle.Vehicle) string { return v.ChassisModel })
	addSet(f.Chassis.BodyManufacturers, analysis.Fold, func(v vehicle.Vehicle) string { return v.BodyManufacturer })
	addSet(f.Chassis.BodyModels, analysis.Fold, func(v vehicle.Vehicle) string { return v.BodyModel })
	addSet(f.Equipment.Retarders, analysis.Fold, func(v vehicle.Vehicle) string { return string(v.Chassis().Retarder) })
	addSet(f.Motor.Engines, analysis.Compact, func(v vehicle.Vehicle) string { return string(v.Chassis().EngineName) })

	if len(f.Chassis.Axles) > 0 {
		axles := slices.Clone(f.Chassis.Axles)
		preds = append(preds, func(v vehicle.Vehicle) bool {
			return slices.Contains(axles, v.Axles())
		})
	}

	if len(f.Equipment.Suspensions) > 0 {
		set := keySet(f.Equipment.Suspensions, analysis.Fold)
		preds = append(preds, func(v vehicle.Vehicle) bool {
			raw := string(v.Chassis().Suspension)
			return set[analysis.Fold(raw)] || set[vehicle.SuspensionCategory(raw)]
		})
	}

	if len(f.Seats.Types) > 0 {
		set := keySet(f.Seats.Types, func(s string) string { return analysis.Fold(vehicle.SeatLabel(s)) })
		preds = append(preds, func(v vehicle.Vehicle) bool {
			for _, label := range v.SeatTypes() {
				if set[analysis.Fold(label)] {
					return true
				}
			}
			return false
		})
	}

	if f.Equipment.EngineBrake != nil {
		want := *f.Equipment.EngineBrake
		preds = append(preds, func(v vehicle.Vehicle) bool {
			has, _ := v.HasEngineBrake()
			return has == want
		})
	}

	for _, dim := range RangeDimensions {
		if !f.RangeActive(dim) {
			continue
		}
		r := f.RangeOf(dim)
		value := rangeField(dim)
		preds = append(preds, func(v vehicle.Vehicle) bool {
			return r.Contains(value(v))
		})
	}

	if len(f.Optionals) > 0 {
		want := make(map[vehicle.Optional]bool, len(f.Optionals))
		for k, b := range f.Optionals {
			want[k] = b
		}
		preds = append(preds, func(v vehicle.Vehicle) bool {
			for opt, b := range want {
				if got, _ := v.Equipment.Has(opt); got != b {
					return false
				}
			}
			return true
		})
	}

	return preds
}

// rangeField returns the vehicle value a range dimension constrains. Unknown
// values read as 0.
func rangeField(dim RangeDimension) func(v vehicle.Vehicle) float64 {
	switch dim {
	case RangeYear:
		return func(v vehicle.Vehicle) float64 { return float64(v.FabricationYear) }
	case RangeModelYear:
		return func(v vehicle.Vehicle) float64 { return float64(v.ModelYear) }
	case RangePrice:
		return func(v vehicle.Vehicle) float64 { return v.Price }
	case RangePower:
		return func(v vehicle.Vehicle) float64 {
			hp, _ := v.PowerHP()
			return hp
		}
	case RangeCapacity:
		return func(v vehicle.Vehicle) float64 { return float64(v.SeatCapacity()) }
	case RangeQuantity:
		return func(v vehicle.Vehicle) float64 { return float64(v.Quantity) }
	case RangeDoors:
		return func(v vehicle.Vehicle) float64 { return float64(v.Doors()) }
	case RangeTotalSeats:
		return func(v vehicle.Vehicle) float64 { return float64(v.TotalSeats()) }
	}
	return func(vehicle.Vehicle) float64 { return 0 }
}

func keySet(values []string, key func(string) string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[key(v)] = true
	}
	return set
}
