// Package catalog generates synthetic bus inventories for benchmarks, demos
// and the generate command.
package catalog

import (
	"fmt"
	"math/rand/v2"
	"time"

	"harshagw/fleetsearch/internal/vehicle"
)

type chassisSpec struct {
	manufacturer string
	model        string
	drivetrain   string
	axles        int
	power        string
	engine       string
	location     string
}

var chassisSpecs = []chassisSpec{
	{"Mercedes-Benz", "OF 1721", "4x2", 2, "208 cv", "OM 924", "Dianteiro"},
	{"Mercedes-Benz", "O 500 U", "4x2", 2, "260 cv", "OM 926", "Traseiro"},
	{"Mercedes-Benz", "O 500 RSD", "6x2", 3, "360 cv", "OM 457", "Traseiro"},
	{"Mercedes-Benz", "LO 916", "4x2", 2, "156 cv", "OM 924", "Dianteiro"},
	{"Volvo", "B270F", "4x2", 2, "270 cv", "D8C", "Dianteiro"},
	{"Volvo", "B340M", "6x2", 3, "340 cv", "D9B", "Central"},
	{"Volvo", "B450R", "6x2", 3, "450 cv", "D13", "Traseiro"},
	{"Scania", "K 310", "4x2", 2, "310 cv", "DC09", "Traseiro"},
	{"Scania", "K 440", "6x2", 3, "440 cv", "DC13", "Traseiro"},
	{"Scania", "K 360", "6x4", 3, "360 cv", "DC13", "Traseiro"},
	{"Volkswagen", "17.230 OD", "4x2", 2, "230 cv", "MAN D08", "Dianteiro"},
	{"Volkswagen", "9.160 OD", "4x2", 2, "160 cv", "Cummins ISF", "Dianteiro"},
	{"Agrale", "MA 10.0", "4x2", 2, "156 cv", "MWM 4.12", "Dianteiro"},
}

type bodySpec struct {
	manufacturer string
	model        string
	category     string
	subcategory  string
	doors        int
	seats        int
	seatTypes    []string
}

var bodySpecs = []bodySpec{
	{"Caio", "Apache Vip", "Urbano", "Convencional", 3, 40, []string{"urbano"}},
	{"Caio", "Millennium", "Urbano", "Articulado", 4, 50, []string{"urbano"}},
	{"Marcopolo", "Torino", "Urbano", "Convencional", 3, 42, []string{"urbano"}},
	{"Marcopolo", "Paradiso 1200", "Rodoviário", "Executivo", 1, 46, []string{"executivo"}},
	{"Marcopolo", "Paradiso 1800 DD", "Rodoviário", "Double Deck", 2, 60, []string{"leito", "semi-leito"}},
	{"Comil", "Campione", "Rodoviário", "Convencional", 1, 44, []string{"convencional"}},
	{"Irizar", "i8", "Rodoviário", "Executivo", 1, 44, []string{"executivo", "leito-cama"}},
	{"Neobus", "Thunder", "Micro", "Escolar", 1, 28, []string{"convencional"}},
	{"Mascarello", "Gran Micro", "Micro", "Executivo", 1, 30, []string{"executivo"}},
}

var locations = [][2]string{
	{"Curitiba", "PR"}, {"São Paulo", "SP"}, {"Campinas", "SP"}, {"Recife", "PE"},
	{"Caxias do Sul", "RS"}, {"Porto Alegre", "RS"}, {"Belo Horizonte", "MG"},
	{"Goiânia", "GO"}, {"Salvador", "BA"}, {"Fortaleza", "CE"},
}

var (
	statuses    = []string{"Disponível", "Disponível", "Disponível", "Reservado", "Vendido"}
	retarders   = []string{"", "", "Voith", "ZF Intarder", "Telma", "não"}
	suspensions = []string{"Pneumática", "Feixe de molas", "Mista", ""}
	brakes      = []string{"sim", "não", "Top Brake", ""}
	suppliers   = [][3]string{
		{"Rodobens", "Ana", "54 3333-0000"},
		{"Auto Viação Sul", "Carlos", "41 3232-1010"},
		{"Frota Nordeste", "Maria", "81 3030-2020"},
	}
)

// Generate returns n raw records. The same seed always yields the same
// records. About one record in twenty carries a malformed price and one in
// ten lacks chassis details, as real inventories do.
func Generate(n int, seed uint64) []vehicle.RawVehicle {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	raws := make([]vehicle.RawVehicle, n)
	for i := range raws {
		c := chassisSpecs[r.IntN(len(chassisSpecs))]
		b := bodySpecs[r.IntN(len(bodySpecs))]
		loc := locations[r.IntN(len(locations))]
		sup := suppliers[r.IntN(len(suppliers))]
		year := 2008 + r.IntN(17)

		raw := vehicle.RawVehicle{
			ID: vehicle.Text(fmt.Sprintf("v%05d", i+1)),
			Identification: vehicle.RawIdentification{
				SKU:   vehicle.Text(fmt.Sprintf("%d", 1000+i)),
				Title: vehicle.Text(fmt.Sprintf("%s %s %s %s", c.manufacturer, c.model, b.manufacturer, b.model)),
			},
			Location:    vehicle.RawLocation{City: vehicle.Text(loc[0]), State: vehicle.Text(loc[1])},
			Supplier:    vehicle.RawSupplier{Name: vehicle.Text(sup[0]), Contact: vehicle.Text(sup[1]), Phone: vehicle.Text(sup[2])},
			Category:    vehicle.Text(b.category),
			Subcategory: vehicle.Text(b.subcategory),
			Chassis: vehicle.RawChassis{
				Manufacturer:   vehicle.Text(c.manufacturer),
				Model:          vehicle.Text(c.model),
				Drivetrain:     vehicle.Text(c.drivetrain),
				Axles:          number(float64(c.axles)),
				Power:          vehicle.Text(c.power),
				EngineLocation: vehicle.Text(c.location),
				EngineName:     vehicle.Text(c.engine),
				EngineBrake:    vehicle.Text(pick(r, brakes)),
				Retarder:       vehicle.Text(pick(r, retarders)),
				Suspension:     vehicle.Text(pick(r, suspensions)),
			},
			Body: vehicle.RawBody{
				Manufacturer: vehicle.Text(b.manufacturer),
				Model:        vehicle.Text(b.model),
				Doors:        number(float64(b.doors)),
			},
			Data: vehicle.RawVehicleData{
				FabricationYear: number(float64(year)),
				ModelYear:       number(float64(year + r.IntN(2))),
				Quantity:        number(float64(1 + r.IntN(3))),
				Price:           number(float64(80000 + r.IntN(120)*10000)),
			},
			Optionals: vehicle.RawOptionals{
				AirConditioning: vehicle.Flag(r.IntN(3) > 0),
				Bathroom:        vehicle.Flag(b.category == "Rodoviário" && r.IntN(4) > 0),
				Wifi:            vehicle.Flag(r.IntN(3) == 0),
				USBPorts:        vehicle.Flag(r.IntN(2) == 0),
				ReverseCamera:   vehicle.Flag(r.IntN(2) == 0),
				ABSBrakes:       vehicle.Flag(year >= 2014),
				Tachograph:      vehicle.Flag(r.IntN(5) > 0),
				WheelchairLift:  vehicle.Flag(b.category == "Urbano" && r.IntN(2) == 0),
			},
			Seats: vehicle.RawSeats{
				Types:      b.seatTypes,
				Capacity:   number(float64(b.seats)),
				TotalSeats: number(float64(b.seats + r.IntN(3))),
			},
			Description: vehicle.Text(fmt.Sprintf("%s %s, revisado.", b.model, c.model)),
			Status:      vehicle.Text(pick(r, statuses)),
			UpdatedAt:   vehicle.Timestamp{Text: base.Add(time.Duration(r.IntN(300*24)) * time.Hour).Format(time.RFC3339)},
		}

		switch {
		case r.IntN(20) == 0:
			raw.Data.Price = vehicle.Number{Text: "a combinar", Present: true}
		case r.IntN(10) == 0:
			raw.Chassis.Drivetrain = ""
			raw.Chassis.Power = ""
			raw.Chassis.EngineLocation = ""
		}
		raws[i] = raw
	}
	return raws
}

func number(v float64) vehicle.Number {
	return vehicle.Number{Value: v, Present: true}
}

func pick(r *rand.Rand, values []string) string {
	return values[r.IntN(len(values))]
}
