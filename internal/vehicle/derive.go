package vehicle

import (
	"path"
	"regexp"
	"strconv"
	"strings"

	"harshagw/fleetsearch/internal/analysis"
)

// KWToHP converts kilowatts into the horsepower unit used for power filters.
const KWToHP = 1.341

// designExtensions are photo entries that cannot be displayed as images.
var designExtensions = map[string]bool{
	".psd":  true,
	".ai":   true,
	".cdr":  true,
	".eps":  true,
	".indd": true,
	".svg":  true,
	".tif":  true,
	".tiff": true,
	".pdf":  true,
}

var (
	externalLinkPattern = regexp.MustCompile(`(?i)(?:link(?:\s+externo)?|v[ií]deo)\s*:\s*(https?://[^\s<>"]+)`)
	modelDrivePattern   = regexp.MustCompile(`(?i)\b([246])\s*x\s*([24])\b`)
	powerPattern        = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(cv|hp|kw)?`)
)

func fold(s string) string {
	return analysis.Fold(strings.TrimSpace(s))
}

func text(t Text) string {
	return strings.TrimSpace(string(t))
}

// primaryImage picks the first displayable photo, preferring treated photos.
func primaryImage(media RawMedia) string {
	photos := media.TreatedPhotos
	if len(photos) == 0 {
		photos = media.OriginalPhotos
	}
	if len(photos) == 0 {
		return ""
	}
	for _, p := range photos {
		name := p
		if i := strings.IndexAny(name, "?#"); i >= 0 {
			name = name[:i]
		}
		if !designExtensions[strings.ToLower(path.Ext(name))] {
			return p
		}
	}
	return photos[0]
}

// externalLink extracts the URL following a "Link:" or "Vídeo:" label.
func externalLink(description string) string {
	m := externalLinkPattern.FindStringSubmatch(description)
	if m == nil {
		return ""
	}
	return strings.TrimRight(m[1], ".,;)")
}

// driveSystem prefers the declared drivetrain and falls back to an NxM code
// in the chassis model name.
func driveSystem(chassis RawChassis) string {
	if declared := text(chassis.Drivetrain); declared != "" {
		return declared
	}
	if m := modelDrivePattern.FindStringSubmatch(string(chassis.Model)); m != nil {
		return m[1] + "x" + m[2]
	}
	return Sentinel
}

// enginePosition classifies a free-text engine location. Unrecognized text
// is returned unchanged.
func enginePosition(location string) string {
	location = strings.TrimSpace(location)
	if location == "" {
		return Sentinel
	}
	if category := EnginePositionCategory(location); category != "" {
		return category
	}
	return location
}

// Engine position categories.
const (
	PositionRear    = "Traseiro"
	PositionFront   = "Dianteiro"
	PositionCentral = "Central"
)

var positionKeywords = []struct {
	category string
	keywords []string
}{
	{PositionRear, []string{"tras", "rear", "atras"}},
	{PositionFront, []string{"diant", "front", "frente"}},
	{PositionCentral, []string{"central", "entre eixos", "entre-eixos", "mid"}},
}

// EnginePositionCategory returns the category a location text belongs to,
// or "" when no keyword matches.
func EnginePositionCategory(location string) string {
	folded := fold(location)
	for _, pk := range positionKeywords {
		for _, kw := range pk.keywords {
			if strings.Contains(folded, kw) {
				return pk.category
			}
		}
	}
	return ""
}

var airConditioningLabels = map[string]string{
	"digital":      "Ar-condicionado digital",
	"convencional": "Ar-condicionado",
	"sim":          "Ar-condicionado",
	"teto":         "Ar-condicionado de teto",
}

// optionalsSummary lists equipment labels in a fixed order without repeats.
func optionalsSummary(o RawOptionals) string {
	var labels []string
	seen := make(map[string]bool)
	add := func(cond bool, label string) {
		if !cond || label == "" || seen[label] {
			return
		}
		seen[label] = true
		labels = append(labels, label)
	}

	add(bool(o.AirConditioning), "Ar-condicionado")
	if acType := fold(string(o.AirConditioningType)); acType != "" && acType != "nao" {
		label, ok := airConditioningLabels[acType]
		if !ok {
			label = "Ar-condicionado " + acType
		}
		add(true, label)
	}
	add(bool(o.Bathroom), "Banheiro")
	add(bool(o.Wifi), "Wi-Fi")
	add(bool(o.Refrigerator), "Geladeira")
	add(bool(o.USBPorts), "Tomadas USB")
	add(bool(o.Curtains), "Cortinas")
	add(bool(o.Television), "TV")
	add(bool(o.SoundSystem), "Som")
	add(bool(o.WheelchairLift), "Elevador para cadeirantes")

	if len(labels) == 0 {
		return NoOptionals
	}
	return strings.Join(labels, ", ")
}

var recliningPhrases = []string{
	"poltronas reclinaveis",
	"poltrona reclinavel",
	"bancos reclinaveis",
	"banco reclinavel",
	"encosto reclinavel",
}

// hasRecliningSeats detects reclining seats from the description text.
func hasRecliningSeats(description string) bool {
	folded := fold(description)
	for _, phrase := range recliningPhrases {
		if strings.Contains(folded, phrase) {
			return true
		}
	}
	return false
}

// ParsePower reads a power value such as "360", "360 cv" or "250kW" and
// returns it in horsepower. Values without a unit are taken as cv.
func ParsePower(s string) (float64, bool) {
	m := powerPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	value, err := strconv.ParseFloat(strings.Replace(m[1], ",", ".", 1), 64)
	if err != nil || value <= 0 {
		return 0, false
	}
	if strings.EqualFold(m[2], "kw") {
		value *= KWToHP
	}
	return value, true
}

// PowerHP returns the chassis power of a vehicle in horsepower.
func (v Vehicle) PowerHP() (float64, bool) {
	if v.Raw == nil {
		return 0, false
	}
	return ParsePower(string(v.Raw.Chassis.Power))
}

// Axles returns the declared axle count, or 0 when unknown.
func (v Vehicle) Axles() int {
	if v.Raw == nil {
		return 0
	}
	return int(numberValue(v.Raw.Chassis.Axles))
}

// Doors returns the declared door count, or 0 when unknown.
func (v Vehicle) Doors() int {
	if v.Raw == nil {
		return 0
	}
	return int(numberValue(v.Raw.Body.Doors))
}

// SeatCapacity returns the passenger capacity, or 0 when unknown.
func (v Vehicle) SeatCapacity() int {
	if v.Raw == nil {
		return 0
	}
	return int(numberValue(v.Raw.Seats.Capacity))
}

// TotalSeats returns the declared number of seats, or 0 when unknown.
func (v Vehicle) TotalSeats() int {
	if v.Raw == nil {
		return 0
	}
	return int(numberValue(v.Raw.Seats.TotalSeats))
}

// SeatTypes returns the display labels of the seat composition.
func (v Vehicle) SeatTypes() []string {
	if v.Raw == nil {
		return nil
	}
	labels := make([]string, 0, len(v.Raw.Seats.Types))
	for _, code := range v.Raw.Seats.Types {
		labels = append(labels, SeatLabel(code))
	}
	return labels
}

// Chassis returns the raw chassis attributes, or the zero group when the
// vehicle has no back-reference.
func (v Vehicle) Chassis() RawChassis {
	if v.Raw == nil {
		return RawChassis{}
	}
	return v.Raw.Chassis
}
