package vehicle

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// RawVehicle is an inventory record as returned by the inventory source.
// Every group may be absent and most leaves tolerate the wrong JSON type.
type RawVehicle struct {
	ID             Text              `json:"_id"`
	Identification RawIdentification `json:"identificacao"`
	Media          RawMedia          `json:"midia"`
	Location       RawLocation       `json:"localizacao"`
	Supplier       RawSupplier       `json:"fornecedor"`
	Category       Text              `json:"categoria"`
	Subcategory    Text              `json:"subcategoria"`
	Chassis        RawChassis        `json:"chassiInfo"`
	Body           RawBody           `json:"carroceriaInfo"`
	Data           RawVehicleData    `json:"dadosVeiculo"`
	Optionals      RawOptionals      `json:"opcionais"`
	Seats          RawSeats          `json:"poltronas"`
	Description    Text              `json:"descricao"`
	Status         Text              `json:"status"`
	UpdatedAt      Timestamp         `json:"updatedAt"`
}

type RawIdentification struct {
	SKU   Text `json:"sku"`
	Title Text `json:"titulo"`
}

type RawMedia struct {
	TreatedPhotos  []string `json:"fotosTratadas"`
	OriginalPhotos []string `json:"fotosOriginais"`
}

type RawLocation struct {
	City  Text `json:"cidade"`
	State Text `json:"estado"`
}

type RawSupplier struct {
	Name    Text `json:"nome"`
	Contact Text `json:"contato"`
	Phone   Text `json:"telefone"`
	Company Text `json:"empresa"`
}

// RawChassis carries the chassis attributes that query signals are matched
// against.
type RawChassis struct {
	Manufacturer   Text   `json:"fabricante"`
	Model          Text   `json:"modelo"`
	Drivetrain     Text   `json:"tracao"`
	Axles          Number `json:"eixos"`
	Power          Text   `json:"potencia"`
	EngineLocation Text   `json:"localizacaoMotor"`
	EngineName     Text   `json:"motor"`
	EngineBrake    Text   `json:"freioMotor"`
	Retarder       Text   `json:"retarder"`
	Suspension     Text   `json:"suspensao"`
}

type RawBody struct {
	Manufacturer Text   `json:"fabricante"`
	Model        Text   `json:"modelo"`
	Doors        Number `json:"portas"`
}

type RawVehicleData struct {
	FabricationYear Number `json:"anoFabricacao"`
	ModelYear       Number `json:"anoModelo"`
	Quantity        Number `json:"quantidade"`
	Price           Number `json:"valor"`
}

// RawOptionals is the equipment group. AirConditioningType is an enum
// ("digital", "convencional", ...) that complements the AirConditioning flag.
type RawOptionals struct {
	AirConditioning     Flag `json:"arCondicionado"`
	AirConditioningType Text `json:"tipoArCondicionado"`
	Bathroom            Flag `json:"banheiro"`
	Wifi                Flag `json:"wifi"`
	Refrigerator        Flag `json:"geladeira"`
	USBPorts            Flag `json:"tomadasUsb"`
	Curtains            Flag `json:"cortinas"`
	Television          Flag `json:"tv"`
	SoundSystem         Flag `json:"som"`
	WheelchairLift      Flag `json:"elevador"`
	ReverseCamera       Flag `json:"cameraRe"`
	ABSBrakes           Flag `json:"freioAbs"`
	Tachograph          Flag `json:"tacografo"`
}

type RawSeats struct {
	Types      []string `json:"tipos"`
	Capacity   Number   `json:"capacidade"`
	TotalSeats Number   `json:"total"`
}

// Text is a string that also accepts JSON numbers and booleans. Objects and
// arrays decode to the empty string.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		*t = Text(s)
	case 't', 'f':
		*t = Text(data)
	case 'n', '{', '[':
		*t = ""
	default:
		*t = Text(data)
	}
	return nil
}

func (t Text) String() string { return string(t) }

// Number keeps whatever numeric representation the source sent: a JSON
// number, a display string such as "R$ 1.250,00", or a decimal wrapper such
// as {"$numberDecimal": "1250.00"}. Parsing happens during normalization.
type Number struct {
	Value   float64
	Text    string
	Present bool
}

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*n = Number{}
	if len(data) == 0 {
		return nil
	}
	switch data[0] {
	case 'n', '[', 't', 'f':
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		n.Text = s
		n.Present = true
	case '{':
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return nil
		}
		for _, key := range []string{"$numberDecimal", "$numberDouble", "$numberInt", "$numberLong", "value"} {
			if raw, ok := wrapper[key]; ok {
				return n.UnmarshalJSON(raw)
			}
		}
	default:
		f, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return nil
		}
		n.Value = f
		n.Present = true
	}
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Present {
		return []byte("null"), nil
	}
	if n.Text != "" {
		return json.Marshal(n.Text)
	}
	return json.Marshal(n.Value)
}

// Flag is a boolean that also accepts "sim"/"não", "true"/"false" and 1/0.
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*f = false
	if len(data) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	switch x := v.(type) {
	case bool:
		*f = Flag(x)
	case float64:
		*f = x != 0
	case string:
		switch fold(x) {
		case "sim", "s", "true", "1", "yes", "y":
			*f = true
		}
	}
	return nil
}

// Timestamp accepts an ISO/loose date string, epoch milliseconds, or a
// {"$date": ...} wrapper.
type Timestamp struct {
	Text   string
	Millis int64
}

func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*ts = Timestamp{}
	if len(data) == 0 {
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		ts.Text = s
	case '{':
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return nil
		}
		if raw, ok := wrapper["$date"]; ok {
			return ts.UnmarshalJSON(raw)
		}
	case 'n', '[', 't', 'f':
		return nil
	default:
		f, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return nil
		}
		ts.Millis = int64(f)
	}
	return nil
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.Text != "" {
		return json.Marshal(ts.Text)
	}
	if ts.Millis != 0 {
		return json.Marshal(ts.Millis)
	}
	return []byte("null"), nil
}
