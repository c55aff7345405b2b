package vehicle

import (
	"slices"
	"time"

	"github.com/araddon/dateparse"
)

// Normalize converts a raw inventory record into its canonical form. It never
// fails: missing or malformed values fall back to 0, "", Sentinel or false.
func Normalize(raw RawVehicle) Vehicle {
	rec := raw
	price := ParsePrice(raw.Data.Price)

	images := raw.Media.TreatedPhotos
	if len(images) == 0 {
		images = raw.Media.OriginalPhotos
	}

	id := text(raw.ID)
	if id == "" {
		id = text(raw.Identification.SKU)
	}

	description := string(raw.Description)

	return Vehicle{
		ID:                  id,
		SKU:                 text(raw.Identification.SKU),
		Title:               text(raw.Identification.Title),
		Status:              text(raw.Status),
		Price:               price,
		PriceFormatted:      FormatPrice(price),
		City:                text(raw.Location.City),
		State:               text(raw.Location.State),
		Quantity:            int(numberValue(raw.Data.Quantity)),
		SupplierName:        text(raw.Supplier.Name),
		SupplierContact:     text(raw.Supplier.Contact),
		SupplierPhone:       text(raw.Supplier.Phone),
		SupplierCompany:     text(raw.Supplier.Company),
		FabricationYear:     int(numberValue(raw.Data.FabricationYear)),
		ModelYear:           int(numberValue(raw.Data.ModelYear)),
		ChassisManufacturer: text(raw.Chassis.Manufacturer),
		ChassisModel:        text(raw.Chassis.Model),
		BodyManufacturer:    text(raw.Body.Manufacturer),
		BodyModel:           text(raw.Body.Model),
		Category:            text(raw.Category),
		Subcategory:         text(raw.Subcategory),
		DriveSystem:         driveSystem(raw.Chassis),
		EnginePosition:      enginePosition(string(raw.Chassis.EngineLocation)),
		OptionalsSummary:    optionalsSummary(raw.Optionals),
		ImageURL:            primaryImage(raw.Media),
		ExternalLink:        externalLink(description),
		Equipment: Equipment{
			AirConditioning: bool(raw.Optionals.AirConditioning),
			Bathroom:        bool(raw.Optionals.Bathroom),
			Wifi:            bool(raw.Optionals.Wifi),
			Refrigerator:    bool(raw.Optionals.Refrigerator),
			USBPorts:        bool(raw.Optionals.USBPorts),
			Curtains:        bool(raw.Optionals.Curtains),
			Television:      bool(raw.Optionals.Television),
			SoundSystem:     bool(raw.Optionals.SoundSystem),
			WheelchairLift:  bool(raw.Optionals.WheelchairLift),
			ReverseCamera:   bool(raw.Optionals.ReverseCamera),
			ABSBrakes:       bool(raw.Optionals.ABSBrakes),
			Tachograph:      bool(raw.Optionals.Tachograph),
			RecliningSeats:  hasRecliningSeats(description),
		},
		Description: description,
		Images:      slices.Clone(images),
		UpdatedAt:   parseTimestamp(raw.UpdatedAt),
		Raw:         &rec,
	}
}

// NormalizeAll normalizes a batch, preserving its order.
func NormalizeAll(raws []RawVehicle) []Vehicle {
	vehicles := make([]Vehicle, len(raws))
	for i, raw := range raws {
		vehicles[i] = Normalize(raw)
	}
	return vehicles
}

func parseTimestamp(ts Timestamp) time.Time {
	if ts.Millis != 0 {
		return time.UnixMilli(ts.Millis).UTC()
	}
	if ts.Text == "" {
		return time.Time{}
	}
	t, err := dateparse.ParseIn(ts.Text, time.UTC)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
