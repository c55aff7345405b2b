// Package filter holds the structured filter state of an inventory search
// and the engine that applies it.
//
// Filters is a value type. Every With*/Toggle/Clear function returns a new
// value and leaves its argument untouched, so callers can keep snapshots of
// previous states.
package filter

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"

	"harshagw/fleetsearch/internal/analysis"
	"harshagw/fleetsearch/internal/vehicle"
)

// Range is an inclusive numeric interval.
type Range struct {
	Min float64
	Max float64
}

var (
	// YearRange is the unconstrained default for year dimensions.
	YearRange = Range{Min: 0, Max: 9999}
	// Unbounded is the unconstrained default for every other range.
	Unbounded = Range{Min: 0, Max: math.Inf(1)}
)

// Contains reports whether x lies within the range.
func (r Range) Contains(x float64) bool {
	return x >= r.Min && x <= r.Max
}

func (r Range) String() string {
	if math.IsInf(r.Max, 1) {
		return fmt.Sprintf("%g..", r.Min)
	}
	return fmt.Sprintf("%g..%g", r.Min, r.Max)
}

// MarshalJSON encodes the range as [min, max] with null for an open end.
func (r Range) MarshalJSON() ([]byte, error) {
	bound := func(x float64) any {
		if math.IsInf(x, 0) || math.IsNaN(x) {
			return nil
		}
		return x
	}
	return json.Marshal([2]any{bound(r.Min), bound(r.Max)})
}

func (r *Range) UnmarshalJSON(data []byte) error {
	var bounds [2]*float64
	if err := json.Unmarshal(data, &bounds); err != nil {
		return err
	}
	r.Min, r.Max = 0, math.Inf(1)
	if bounds[0] != nil {
		r.Min = *bounds[0]
	}
	if bounds[1] != nil {
		r.Max = *bounds[1]
	}
	return nil
}

// Filters is the complete filter state. Empty sets and ranges equal to
// their defaults leave a dimension unconstrained.
type Filters struct {
	Categories    []string `json:"categories,omitempty"`
	Subcategories []string `json:"subcategories,omitempty"`
	Year          Range    `json:"year"`
	ModelYear     Range    `json:"modelYear"`
	Price         Range    `json:"price"`
	Cities        []string `json:"cities,omitempty"`
	States        []string `json:"states,omitempty"`
	Statuses      []string `json:"statuses,omitempty"`

	Chassis   ChassisFilters   `json:"chassis"`
	Equipment EquipmentFilters `json:"equipment"`
	Motor     MotorFilters     `json:"motor"`
	Seats     SeatFilters      `json:"seats"`

	Quantity   Range `json:"quantity"`
	Doors      Range `json:"doors"`
	TotalSeats Range `json:"totalSeats"`

	Optionals map[vehicle.Optional]bool `json:"optionals,omitempty"`
}

// ChassisFilters groups the chassis and bodywork attributes.
type ChassisFilters struct {
	Drivetrains       []string `json:"drivetrains,omitempty"`
	Axles             []int    `json:"axles,omitempty"`
	EngineLocations   []string `json:"engineLocations,omitempty"`
	Manufacturers     []string `json:"manufacturers,omitempty"`
	Models            []string `json:"models,omitempty"`
	BodyManufacturers []string `json:"bodyManufacturers,omitempty"`
	BodyModels        []string `json:"bodyModels,omitempty"`
	Power             Range    `json:"power"`
}

// EquipmentFilters groups the brake and suspension equipment. EngineBrake
// nil means unconstrained.
type EquipmentFilters struct {
	EngineBrake *bool    `json:"engineBrake,omitempty"`
	Retarders   []string `json:"retarders,omitempty"`
	Suspensions []string `json:"suspensions,omitempty"`
}

type MotorFilters struct {
	Engines []string `json:"engines,omitempty"`
}

type SeatFilters struct {
	Types    []string `json:"types,omitempty"`
	Capacity Range    `json:"capacity"`
}

// Default returns filters with every dimension unconstrained.
func Default() Filters {
	return Filters{
		Year:       YearRange,
		ModelYear:  YearRange,
		Price:      Unbounded,
		Chassis:    ChassisFilters{Power: Unbounded},
		Seats:      SeatFilters{Capacity: Unbounded},
		Quantity:   Unbounded,
		Doors:      Unbounded,
		TotalSeats: Unbounded,
	}
}

// UnmarshalJSON decodes onto Default, so ranges missing from the document
// stay unconstrained.
func (f *Filters) UnmarshalJSON(data []byte) error {
	type plain Filters
	decoded := plain(Default())
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*f = Filters(decoded)
	return nil
}

// Clone returns a deep copy.
func (f Filters) Clone() Filters {
	c := f
	c.Categories = slices.Clone(f.Categories)
	c.Subcategories = slices.Clone(f.Subcategories)
	c.Cities = slices.Clone(f.Cities)
	c.States = slices.Clone(f.States)
	c.Statuses = slices.Clone(f.Statuses)
	c.Chassis.Drivetrains = slices.Clone(f.Chassis.Drivetrains)
	c.Chassis.Axles = slices.Clone(f.Chassis.Axles)
	c.Chassis.EngineLocations = slices.Clone(f.Chassis.EngineLocations)
	c.Chassis.Manufacturers = slices.Clone(f.Chassis.Manufacturers)
	c.Chassis.Models = slices.Clone(f.Chassis.Models)
	c.Chassis.BodyManufacturers = slices.Clone(f.Chassis.BodyManufacturers)
	c.Chassis.BodyModels = slices.Clone(f.Chassis.BodyModels)
	if f.Equipment.EngineBrake != nil {
		v := *f.Equipment.EngineBrake
		c.Equipment.EngineBrake = &v
	}
	c.Equipment.Retarders = slices.Clone(f.Equipment.Retarders)
	c.Equipment.Suspensions = slices.Clone(f.Equipment.Suspensions)
	c.Motor.Engines = slices.Clone(f.Motor.Engines)
	c.Seats.Types = slices.Clone(f.Seats.Types)
	if f.Optionals != nil {
		c.Optionals = make(map[vehicle.Optional]bool, len(f.Optionals))
		for k, v := range f.Optionals {
			c.Optionals[k] = v
		}
	}
	return c
}

// Dimension names a set-valued filter dimension.
type Dimension string

const (
	DimCategory            Dimension = "categoria"
	DimSubcategory         Dimension = "subcategoria"
	DimCity                Dimension = "cidade"
	DimState               Dimension = "estado"
	DimStatus              Dimension = "status"
	DimDrivetrain          Dimension = "tracao"
	DimAxles               Dimension = "eixos"
	DimEngineLocation      Dimension = "motorPosicao"
	DimChassisManufacturer Dimension = "chassi"
	DimChassisModel        Dimension = "chassiModelo"
	DimBodyManufacturer    Dimension = "carroceria"
	DimBodyModel           Dimension = "carroceriaModelo"
	DimRetarder            Dimension = "retarder"
	DimSuspension          Dimension = "suspensao"
	DimEngine              Dimension = "motor"
	DimSeatType            Dimension = "poltrona"
)

// Dimensions lists every set-valued dimension.
var Dimensions = []Dimension{
	DimCategory, DimSubcategory, DimCity, DimState, DimStatus,
	DimDrivetrain, DimAxles, DimEngineLocation,
	DimChassisManufacturer, DimChassisModel, DimBodyManufacturer, DimBodyModel,
	DimRetarder, DimSuspension, DimEngine, DimSeatType,
}

// Values returns the selected values of a dimension.
func (f Filters) Values(dim Dimension) []string {
	switch dim {
	case DimCategory:
		return f.Categories
	case DimSubcategory:
		return f.Subcategories
	case DimCity:
		return f.Cities
	case DimState:
		return f.States
	case DimStatus:
		return f.Statuses
	case DimDrivetrain:
		return f.Chassis.Drivetrains
	case DimAxles:
		values := make([]string, len(f.Chassis.Axles))
		for i, n := range f.Chassis.Axles {
			values[i] = strconv.Itoa(n)
		}
		return values
	case DimEngineLocation:
		return f.Chassis.EngineLocations
	case DimChassisManufacturer:
		return f.Chassis.Manufacturers
	case DimChassisModel:
		return f.Chassis.Models
	case DimBodyManufacturer:
		return f.Chassis.BodyManufacturers
	case DimBodyModel:
		return f.Chassis.BodyModels
	case DimRetarder:
		return f.Equipment.Retarders
	case DimSuspension:
		return f.Equipment.Suspensions
	case DimEngine:
		return f.Motor.Engines
	case DimSeatType:
		return f.Seats.Types
	}
	return nil
}

// WithValues replaces the selection of a dimension. Axle values that are not
// integers are dropped.
func WithValues(f Filters, dim Dimension, values ...string) Filters {
	c := f.Clone()
	values = dedupe(values)
	switch dim {
	case DimCategory:
		c.Categories = values
	case DimSubcategory:
		c.Subcategories = values
	case DimCity:
		c.Cities = values
	case DimState:
		c.States = values
	case DimStatus:
		c.Statuses = values
	case DimDrivetrain:
		c.Chassis.Drivetrains = values
	case DimAxles:
		var axles []int
		for _, v := range values {
			if n, err := strconv.Atoi(v); err == nil {
				axles = append(axles, n)
			}
		}
		c.Chassis.Axles = axles
	case DimEngineLocation:
		c.Chassis.EngineLocations = values
	case DimChassisManufacturer:
		c.Chassis.Manufacturers = values
	case DimChassisModel:
		c.Chassis.Models = values
	case DimBodyManufacturer:
		c.Chassis.BodyManufacturers = values
	case DimBodyModel:
		c.Chassis.BodyModels = values
	case DimRetarder:
		c.Equipment.Retarders = values
	case DimSuspension:
		c.Equipment.Suspensions = values
	case DimEngine:
		c.Motor.Engines = values
	case DimSeatType:
		c.Seats.Types = values
	}
	return c
}

// Toggle adds value to a dimension's selection, or removes it when present.
// Presence is checked on folded values.
func Toggle(f Filters, dim Dimension, value string) Filters {
	current := f.Values(dim)
	key := analysis.Fold(value)
	if i := slices.IndexFunc(current, func(v string) bool { return analysis.Fold(v) == key }); i >= 0 {
		return WithValues(f, dim, slices.Delete(slices.Clone(current), i, i+1)...)
	}
	return WithValues(f, dim, append(slices.Clone(current), value)...)
}

// Clear empties the given dimensions.
func Clear(f Filters, dims ...Dimension) Filters {
	for _, dim := range dims {
		f = WithValues(f, dim)
	}
	return f
}

func dedupe(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}

func WithCategories(f Filters, values ...string) Filters {
	return WithValues(f, DimCategory, values...)
}

func WithSubcategories(f Filters, values ...string) Filters {
	return WithValues(f, DimSubcategory, values...)
}

func WithCities(f Filters, values ...string) Filters {
	return WithValues(f, DimCity, values...)
}

func WithStates(f Filters, values ...string) Filters {
	return WithValues(f, DimState, values...)
}

func WithStatuses(f Filters, values ...string) Filters {
	return WithValues(f, DimStatus, values...)
}

func WithDrivetrains(f Filters, values ...string) Filters {
	return WithValues(f, DimDrivetrain, values...)
}

func WithAxles(f Filters, axles ...int) Filters {
	c := f.Clone()
	c.Chassis.Axles = slices.Compact(slices.Sorted(slices.Values(axles)))
	if len(c.Chassis.Axles) == 0 {
		c.Chassis.Axles = nil
	}
	return c
}

func WithEngineLocations(f Filters, values ...string) Filters {
	return WithValues(f, DimEngineLocation, values...)
}

func WithChassisManufacturers(f Filters, values ...string) Filters {
	return WithValues(f, DimChassisManufacturer, values...)
}

func WithChassisModels(f Filters, values ...string) Filters {
	return WithValues(f, DimChassisModel, values...)
}

func WithBodyManufacturers(f Filters, values ...string) Filters {
	return WithValues(f, DimBodyManufacturer, values...)
}

func WithBodyModels(f Filters, values ...string) Filters {
	return WithValues(f, DimBodyModel, values...)
}

func WithRetarders(f Filters, values ...string) Filters {
	return WithValues(f, DimRetarder, values...)
}

func WithSuspensions(f Filters, values ...string) Filters {
	return WithValues(f, DimSuspension, values...)
}

func WithEngines(f Filters, values ...string) Filters {
	return WithValues(f, DimEngine, values...)
}

func WithSeatTypes(f Filters, values ...string) Filters {
	return WithValues(f, DimSeatType, values...)
}

// WithEngineBrake requires (or excludes) an engine brake. Pass nil to clear.
func WithEngineBrake(f Filters, required *bool) Filters {
	c := f.Clone()
	if required == nil {
		c.Equipment.EngineBrake = nil
	} else {
		v := *required
		c.Equipment.EngineBrake = &v
	}
	return c
}

// WithOptional constrains one equipment flag. Pass nil to clear it.
func WithOptional(f Filters, opt vehicle.Optional, value *bool) Filters {
	c := f.Clone()
	if value == nil {
		delete(c.Optionals, opt)
		if len(c.Optionals) == 0 {
			c.Optionals = nil
		}
		return c
	}
	if c.Optionals == nil {
		c.Optionals = make(map[vehicle.Optional]bool)
	}
	c.Optionals[opt] = *value
	return c
}

// RangeDimension names a range-valued filter dimension.
type RangeDimension string

const (
	RangeYear       RangeDimension = "ano"
	RangeModelYear  RangeDimension = "anoModelo"
	RangePrice      RangeDimension = "preco"
	RangePower      RangeDimension = "potencia"
	RangeCapacity   RangeDimension = "capacidade"
	RangeQuantity   RangeDimension = "quantidade"
	RangeDoors      RangeDimension = "portas"
	RangeTotalSeats RangeDimension = "lugares"
)

// RangeDimensions lists every range-valued dimension.
var RangeDimensions = []RangeDimension{
	RangeYear, RangeModelYear, RangePrice, RangePower,
	RangeCapacity, RangeQuantity, RangeDoors, RangeTotalSeats,
}

// DefaultRange returns the unconstrained value of a range dimension.
func DefaultRange(dim RangeDimension) Range {
	if dim == RangeYear || dim == RangeModelYear {
		return YearRange
	}
	return Unbounded
}

// RangeOf returns the current value of a range dimension.
func (f Filters) RangeOf(dim RangeDimension) Range {
	switch dim {
	case RangeYear:
		return f.Year
	case RangeModelYear:
		return f.ModelYear
	case RangePrice:
		return f.Price
	case RangePower:
		return f.Chassis.Power
	case RangeCapacity:
		return f.Seats.Capacity
	case RangeQuantity:
		return f.Quantity
	case RangeDoors:
		return f.Doors
	case RangeTotalSeats:
		return f.TotalSeats
	}
	return Unbounded
}

// WithRange sets a range dimension.
func WithRange(f Filters, dim RangeDimension, r Range) Filters {
	c := f.Clone()
	switch dim {
	case RangeYear:
		c.Year = r
	case RangeModelYear:
		c.ModelYear = r
	case RangePrice:
		c.Price = r
	case RangePower:
		c.Chassis.Power = r
	case RangeCapacity:
		c.Seats.Capacity = r
	case RangeQuantity:
		c.Quantity = r
	case RangeDoors:
		c.Doors = r
	case RangeTotalSeats:
		c.TotalSeats = r
	}
	return c
}

// ResetRange returns a range dimension to its default.
func ResetRange(f Filters, dim RangeDimension) Filters {
	return WithRange(f, dim, DefaultRange(dim))
}

func WithYear(f Filters, min, max float64) Filters {
	return WithRange(f, RangeYear, Range{Min: min, Max: max})
}

func WithModelYear(f Filters, min, max float64) Filters {
	return WithRange(f, RangeModelYear, Range{Min: min, Max: max})
}

func WithPrice(f Filters, min, max float64) Filters {
	return WithRange(f, RangePrice, Range{Min: min, Max: max})
}

func WithPower(f Filters, min, max float64) Filters {
	return WithRange(f, RangePower, Range{Min: min, Max: max})
}

func WithCapacity(f Filters, min, max float64) Filters {
	return WithRange(f, RangeCapacity, Range{Min: min, Max: max})
}

func WithQuantity(f Filters, min, max float64) Filters {
	return WithRange(f, RangeQuantity, Range{Min: min, Max: max})
}

func WithDoors(f Filters, min, max float64) Filters {
	return WithRange(f, RangeDoors, Range{Min: min, Max: max})
}

func WithTotalSeats(f Filters, min, max float64) Filters {
	return WithRange(f, RangeTotalSeats, Range{Min: min, Max: max})
}

// RangeActive reports whether a range dimension constrains results. Only the
// dimension's default bounds are inactive; an explicit [0,0] still filters.
func (f Filters) RangeActive(dim RangeDimension) bool {
	return f.RangeOf(dim) != DefaultRange(dim)
}

// Active reports whether any dimension constrains results.
func (f Filters) Active() bool {
	for _, dim := range Dimensions {
		if len(f.Values(dim)) > 0 {
			return true
		}
	}
	for _, dim := range RangeDimensions {
		if f.RangeActive(dim) {
			return true
		}
	}
	return f.Equipment.EngineBrake != nil || len(f.Optionals) > 0
}
