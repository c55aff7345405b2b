package vehicle

import "time"

// Sentinel marks a display field whose source value is unknown.
const Sentinel = "—"

// PriceUnavailable is shown instead of a currency amount when the price is
// zero or could not be parsed.
const PriceUnavailable = "Consulte"

// NoOptionals is the optionals summary of a vehicle without equipment.
const NoOptionals = "Nenhum opcional informado"

// Vehicle is the canonical, flat form of an inventory record. Values are
// never mutated after Normalize returns them.
type Vehicle struct {
	ID                  string    `json:"id"`
	SKU                 string    `json:"sku"`
	Title               string    `json:"title"`
	Status              string    `json:"status"`
	Price               float64   `json:"price"`
	PriceFormatted      string    `json:"priceFormatted"`
	City                string    `json:"city"`
	State               string    `json:"state"`
	Quantity            int       `json:"quantity"`
	SupplierName        string    `json:"supplierName"`
	SupplierContact     string    `json:"supplierContact"`
	SupplierPhone       string    `json:"supplierPhone"`
	SupplierCompany     string    `json:"supplierCompany"`
	FabricationYear     int       `json:"fabricationYear"`
	ModelYear           int       `json:"modelYear"`
	ChassisManufacturer string    `json:"chassisManufacturer"`
	ChassisModel        string    `json:"chassisModel"`
	BodyManufacturer    string    `json:"bodyManufacturer"`
	BodyModel           string    `json:"bodyModel"`
	Category            string    `json:"category"`
	Subcategory         string    `json:"subcategory"`
	DriveSystem         string    `json:"driveSystem"`
	EnginePosition      string    `json:"enginePosition"`
	OptionalsSummary    string    `json:"optionalsSummary"`
	ImageURL            string    `json:"imageUrl"`
	ExternalLink        string    `json:"externalLink"`
	Equipment           Equipment `json:"equipment"`
	Description         string    `json:"description"`
	Images              []string  `json:"images"`
	UpdatedAt           time.Time `json:"updatedAt"`

	// Raw is the record the vehicle was normalized from. Signal matching and
	// the seat filters read chassis and seat attributes from it.
	Raw *RawVehicle `json:"-"`
}

// Equipment holds the boolean equipment flags. RecliningSeats is detected
// from the description text and is not authoritative.
type Equipment struct {
	AirConditioning bool `json:"airConditioning"`
	Bathroom        bool `json:"bathroom"`
	Wifi            bool `json:"wifi"`
	Refrigerator    bool `json:"refrigerator"`
	USBPorts        bool `json:"usbPorts"`
	Curtains        bool `json:"curtains"`
	Television      bool `json:"television"`
	SoundSystem     bool `json:"soundSystem"`
	WheelchairLift  bool `json:"wheelchairLift"`
	ReverseCamera   bool `json:"reverseCamera"`
	ABSBrakes       bool `json:"absBrakes"`
	Tachograph      bool `json:"tachograph"`
	RecliningSeats  bool `json:"recliningSeats"`
}

// Optional names an equipment flag. The names double as keys of the
// optionals filter map.
type Optional string

const (
	OptAirConditioning Optional = "arCondicionado"
	OptBathroom        Optional = "banheiro"
	OptWifi            Optional = "wifi"
	OptRefrigerator    Optional = "geladeira"
	OptUSBPorts        Optional = "tomadasUsb"
	OptCurtains        Optional = "cortinas"
	OptTelevision      Optional = "tv"
	OptSoundSystem     Optional = "som"
	OptWheelchairLift  Optional = "elevador"
	OptReverseCamera   Optional = "cameraRe"
	OptABSBrakes       Optional = "freioAbs"
	OptTachograph      Optional = "tacografo"
	OptRecliningSeats  Optional = "poltronasReclinaveis"
)

// Optionals lists every flag in display order.
var Optionals = []Optional{
	OptAirConditioning, OptBathroom, OptWifi, OptRefrigerator, OptUSBPorts,
	OptCurtains, OptTelevision, OptSoundSystem, OptWheelchairLift,
	OptReverseCamera, OptABSBrakes, OptTachograph, OptRecliningSeats,
}

// Has reports the value of the named flag. Unknown names report false, ok=false.
func (e Equipment) Has(opt Optional) (value bool, ok bool) {
	switch opt {
	case OptAirConditioning:
		return e.AirConditioning, true
	case OptBathroom:
		return e.Bathroom, true
	case OptWifi:
		return e.Wifi, true
	case OptRefrigerator:
		return e.Refrigerator, true
	case OptUSBPorts:
		return e.USBPorts, true
	case OptCurtains:
		return e.Curtains, true
	case OptTelevision:
		return e.Television, true
	case OptSoundSystem:
		return e.SoundSystem, true
	case OptWheelchairLift:
		return e.WheelchairLift, true
	case OptReverseCamera:
		return e.ReverseCamera, true
	case OptABSBrakes:
		return e.ABSBrakes, true
	case OptTachograph:
		return e.Tachograph, true
	case OptRecliningSeats:
		return e.RecliningSeats, true
	}
	return false, false
}

// SeatLabels maps the seat type codes of the inventory source to display labels.
var SeatLabels = map[string]string{
	"convencional": "Convencional",
	"executivo":    "Executivo",
	"semi-leito":   "Semi-leito",
	"semileito":    "Semi-leito",
	"leito":        "Leito",
	"leito-cama":   "Leito-cama",
	"leitocama":    "Leito-cama",
	"urbano":       "Urbano",
}

// SeatLabel returns the display label of a seat type code, or the code
// itself when it is not known.
func SeatLabel(code string) string {
	if label, ok := SeatLabels[fold(code)]; ok {
		return label
	}
	return code
}
