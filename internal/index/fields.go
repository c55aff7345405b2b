package index

import "harshagw/fleetsearch/internal/vehicle"

// Indexed field names.
const (
	FieldSKU                 = "sku"
	FieldTitle               = "title"
	FieldCity                = "city"
	FieldState               = "state"
	FieldCategory            = "category"
	FieldSubcategory         = "subcategory"
	FieldChassisManufacturer = "chassisManufacturer"
	FieldChassisModel        = "chassisModel"
	FieldSupplierName        = "supplierName"
	FieldSupplierContact     = "supplierContact"
	FieldSupplierPhone       = "supplierPhone"
)

// Field is an indexed vehicle attribute and its default weight.
type Field struct {
	Name   string
	Weight float64
	Value  func(v vehicle.Vehicle) string
}

// Fields is the searchable field set. The substring matcher scans the same
// fields.
var Fields = []Field{
	{FieldSKU, 3, func(v vehicle.Vehicle) string { return v.SKU }},
	{FieldTitle, 3, func(v vehicle.Vehicle) string { return v.Title }},
	{FieldCity, 1, func(v vehicle.Vehicle) string { return v.City }},
	{FieldState, 1, func(v vehicle.Vehicle) string { return v.State }},
	{FieldCategory, 1.5, func(v vehicle.Vehicle) string { return v.Category }},
	{FieldSubcategory, 1.5, func(v vehicle.Vehicle) string { return v.Subcategory }},
	{FieldChassisManufacturer, 2, func(v vehicle.Vehicle) string { return v.ChassisManufacturer }},
	{FieldChassisModel, 2, func(v vehicle.Vehicle) string { return v.ChassisModel }},
	{FieldSupplierName, 1, func(v vehicle.Vehicle) string { return v.SupplierName }},
	{FieldSupplierContact, 1, func(v vehicle.Vehicle) string { return v.SupplierContact }},
	{FieldSupplierPhone, 1, func(v vehicle.Vehicle) string { return v.SupplierPhone }},
}

// FieldValues returns the searchable text of a vehicle, one entry per field.
func FieldValues(v vehicle.Vehicle) []string {
	values := make([]string, len(Fields))
	for i, f := range Fields {
		values[i] = f.Value(v)
	}
	return values
}
