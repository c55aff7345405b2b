package vehicle

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

const sampleJSON = `{
	"_id": "v-1",
	"identificacao": {"sku": 1042, "titulo": "Scania K 360 Marcopolo Paradiso"},
	"midia": {
		"fotosTratadas": ["https://cdn/x/arte.psd", "https://cdn/x/frente.jpg?w=800"],
		"fotosOriginais": ["https://cdn/x/orig.jpg"]
	},
	"localizacao": {"cidade": "Caxias do Sul", "estado": "RS"},
	"fornecedor": {"nome": "Rodobens", "contato": "Ana", "telefone": "54 3333-0000", "empresa": "Rodobens SA"},
	"categoria": "Rodoviário",
	"subcategoria": "Double Deck",
	"chassiInfo": {
		"fabricante": "Scania",
		"modelo": "K 360 6x2",
		"eixos": "3",
		"potencia": "360 cv",
		"localizacaoMotor": "Motor traseiro",
		"motor": "DC13",
		"freioMotor": "sim",
		"retarder": "Scania",
		"suspensao": "Pneumática"
	},
	"carroceriaInfo": {"fabricante": "Marcopolo", "modelo": "Paradiso 1800 DD", "portas": 2},
	"dadosVeiculo": {"anoFabricacao": "2019", "anoModelo": 2020, "quantidade": 2, "valor": {"$numberDecimal": "850000.50"}},
	"opcionais": {"arCondicionado": true, "tipoArCondicionado": "convencional", "banheiro": "sim", "wifi": 1, "geladeira": false},
	"poltronas": {"tipos": ["leito", "semi-leito"], "capacidade": 56, "total": "56"},
	"descricao": "Poltronas reclináveis, revisado. Vídeo: https://youtu.be/abc123.",
	"status": "Disponível",
	"updatedAt": "2024-03-05T10:00:00Z"
}`

func decodeSample(t *testing.T) RawVehicle {
	t.Helper()
	var raw RawVehicle
	if err := json.Unmarshal([]byte(sampleJSON), &raw); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	return raw
}

func TestNormalize_Sample(t *testing.T) {
	v := Normalize(decodeSample(t))

	checks := []struct {
		name      string
		got, want any
	}{
		{"ID", v.ID, "v-1"},
		{"SKU", v.SKU, "1042"},
		{"Price", v.Price, 850000.50},
		{"PriceFormatted", v.PriceFormatted, "R$ 850.000,50"},
		{"FabricationYear", v.FabricationYear, 2019},
		{"ModelYear", v.ModelYear, 2020},
		{"Quantity", v.Quantity, 2},
		{"DriveSystem", v.DriveSystem, "6x2"},
		{"EnginePosition", v.EnginePosition, PositionRear},
		{"ImageURL", v.ImageURL, "https://cdn/x/frente.jpg?w=800"},
		{"ExternalLink", v.ExternalLink, "https://youtu.be/abc123"},
		{"OptionalsSummary", v.OptionalsSummary, "Ar-condicionado, Banheiro, Wi-Fi"},
		{"Bathroom", v.Equipment.Bathroom, true},
		{"Refrigerator", v.Equipment.Refrigerator, false},
		{"RecliningSeats", v.Equipment.RecliningSeats, true},
		{"UpdatedAt", v.UpdatedAt, time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)},
		{"Axles", v.Axles(), 3},
		{"Doors", v.Doors(), 2},
		{"TotalSeats", v.TotalSeats(), 56},
	}
	for _, c := range checks {
		if !reflect.DeepEqual(c.got, c.want) {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}

	if hp, ok := v.PowerHP(); !ok || hp != 360 {
		t.Errorf("PowerHP = %v,%v, want 360,true", hp, ok)
	}
	if got := v.SeatTypes(); !reflect.DeepEqual(got, []string{"Leito", "Semi-leito"}) {
		t.Errorf("SeatTypes = %v", got)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	raw := decodeSample(t)
	a := Normalize(raw)
	b := Normalize(raw)

	ja, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	jb, _ := json.Marshal(b)
	if string(ja) != string(jb) {
		t.Errorf("normalize is not idempotent:\n%s\n%s", ja, jb)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("normalized records differ")
	}
}

func TestNormalize_EmptyRecord(t *testing.T) {
	var raw RawVehicle
	if err := json.Unmarshal([]byte(`{"dadosVeiculo": {"valor": "sob consulta"}, "chassiInfo": null}`), &raw); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	v := Normalize(raw)

	if v.Price != 0 || v.PriceFormatted != PriceUnavailable {
		t.Errorf("price = %v %q, want 0 %q", v.Price, v.PriceFormatted, PriceUnavailable)
	}
	if v.DriveSystem != Sentinel || v.EnginePosition != Sentinel {
		t.Errorf("derived = %q %q, want sentinels", v.DriveSystem, v.EnginePosition)
	}
	if v.OptionalsSummary != NoOptionals {
		t.Errorf("OptionalsSummary = %q", v.OptionalsSummary)
	}
	if v.ImageURL != "" || v.ExternalLink != "" {
		t.Errorf("expected empty image/link, got %q %q", v.ImageURL, v.ExternalLink)
	}
	if !v.UpdatedAt.IsZero() {
		t.Errorf("UpdatedAt = %v, want zero", v.UpdatedAt)
	}
	if v.Raw == nil {
		t.Error("Raw back-reference missing")
	}
}

func TestNormalize_WrongTypesDoNotFailDecoding(t *testing.T) {
	data := `{"categoria": 12, "status": true, "dadosVeiculo": {"anoModelo": [2020], "valor": false},
		"opcionais": {"wifi": {"x": 1}}, "updatedAt": 1709632800000}`
	var raw RawVehicle
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	v := Normalize(raw)
	if v.Category != "12" || v.Status != "true" {
		t.Errorf("Category/Status = %q/%q", v.Category, v.Status)
	}
	if v.ModelYear != 0 || v.Price != 0 || v.Equipment.Wifi {
		t.Errorf("unexpected values: %+v", v)
	}
	if want := time.UnixMilli(1709632800000).UTC(); !v.UpdatedAt.Equal(want) {
		t.Errorf("UpdatedAt = %v, want %v", v.UpdatedAt, want)
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name     string
		input    Number
		expected float64
	}{
		{"absent", Number{}, 0},
		{"number", Number{Value: 1250.5, Present: true}, 1250.5},
		{"brazilian display", Number{Text: "R$ 350.000,00", Present: true}, 350000},
		{"plain decimal", Number{Text: "350000.00", Present: true}, 350000},
		{"comma decimal", Number{Text: "350,5", Present: true}, 350.5},
		{"thousands dot", Number{Text: "1.250", Present: true}, 1250},
		{"us display", Number{Text: "$1,250,000", Present: true}, 1250000},
		{"garbage", Number{Text: "a combinar", Present: true}, 0},
		{"broken sign", Number{Text: "12-3", Present: true}, 0},
	}
	for _, tt := range tests {
		if got := ParsePrice(tt.input); got != tt.expected {
			t.Errorf("%s: ParsePrice = %v, want %v", tt.name, got, tt.expected)
		}
	}
}

func TestNumber_DecimalWrapper(t *testing.T) {
	var n Number
	if err := json.Unmarshal([]byte(`{"$numberDecimal": "1999.90"}`), &n); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if got := ParsePrice(n); got != 1999.90 {
		t.Errorf("ParsePrice = %v, want 1999.90", got)
	}
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{0, PriceUnavailable},
		{-10, PriceUnavailable},
		{1250, "R$ 1.250,00"},
		{350000.5, "R$ 350.000,50"},
	}
	for _, tt := range tests {
		if got := FormatPrice(tt.input); got != tt.expected {
			t.Errorf("FormatPrice(%v) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestPrimaryImage(t *testing.T) {
	tests := []struct {
		name     string
		media    RawMedia
		expected string
	}{
		{"none", RawMedia{}, ""},
		{"fallback to originals", RawMedia{OriginalPhotos: []string{"a.jpg"}}, "a.jpg"},
		{"skips design files", RawMedia{TreatedPhotos: []string{"a.PSD", "b.cdr", "c.png"}}, "c.png"},
		{"only design files", RawMedia{TreatedPhotos: []string{"a.psd", "b.ai"}}, "a.psd"},
	}
	for _, tt := range tests {
		if got := primaryImage(tt.media); got != tt.expected {
			t.Errorf("%s: primaryImage = %q, want %q", tt.name, got, tt.expected)
		}
	}
}

func TestDriveSystem(t *testing.T) {
	tests := []struct {
		chassis  RawChassis
		expected string
	}{
		{RawChassis{Drivetrain: "4x2", Model: "K 360 6x2"}, "4x2"},
		{RawChassis{Model: "Volksbus 17.230 4X2"}, "4x2"},
		{RawChassis{Model: "O500 RSD"}, Sentinel},
		{RawChassis{Model: "16x4"}, Sentinel},
	}
	for _, tt := range tests {
		if got := driveSystem(tt.chassis); got != tt.expected {
			t.Errorf("driveSystem(%+v) = %q, want %q", tt.chassis, got, tt.expected)
		}
	}
}

func TestEnginePosition(t *testing.T) {
	tests := []struct {
		input, expected string
	}{
		{"", Sentinel},
		{"Traseira", PositionRear},
		{"rear engine", PositionRear},
		{"Dianteiro", PositionFront},
		{"Entre eixos", PositionCentral},
		{"Lateral", "Lateral"},
	}
	for _, tt := range tests {
		if got := enginePosition(tt.input); got != tt.expected {
			t.Errorf("enginePosition(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestOptionalsSummary(t *testing.T) {
	o := RawOptionals{
		AirConditioning:     true,
		AirConditioningType: "Digital",
		Television:          true,
		WheelchairLift:      true,
	}
	want := "Ar-condicionado, Ar-condicionado digital, TV, Elevador para cadeirantes"
	if got := optionalsSummary(o); got != want {
		t.Errorf("optionalsSummary = %q, want %q", got, want)
	}
	if got := optionalsSummary(RawOptionals{}); got != NoOptionals {
		t.Errorf("empty summary = %q", got)
	}
}

func TestParsePower(t *testing.T) {
	tests := []struct {
		input string
		hp    float64
		ok    bool
	}{
		{"360", 360, true},
		{"360 CV", 360, true},
		{"100kw", 134.1, true},
		{"", 0, false},
		{"n/d", 0, false},
	}
	for _, tt := range tests {
		hp, ok := ParsePower(tt.input)
		if ok != tt.ok || (ok && (hp < tt.hp-0.001 || hp > tt.hp+0.001)) {
			t.Errorf("ParsePower(%q) = %v,%v, want %v,%v", tt.input, hp, ok, tt.hp, tt.ok)
		}
	}
}
