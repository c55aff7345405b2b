package search

import (
	"encoding/json"
	"errors"
	"reflect"
	"slices"
	"testing"

	"harshagw/fleetsearch/internal/index"
	"harshagw/fleetsearch/internal/signal"
	"harshagw/fleetsearch/internal/vehicle"
)

const fleetJSON = `[
	{"_id": "a", "identificacao": {"titulo": "Volksbus 15.190 OD Urbano"}, "categoria": "Urbano",
	 "chassiInfo": {"fabricante": "Volkswagen", "modelo": "15.190 OD 4x2", "localizacaoMotor": "Dianteiro",
	                "potencia": "190cv", "eixos": 2, "motor": "MAN D08", "freioMotor": "sim"},
	 "dadosVeiculo": {"anoModelo": 2015, "valor": 200000}, "updatedAt": "2024-01-01T00:00:00Z"},
	{"_id": "b", "identificacao": {"titulo": "Mercedes O500U Urbano"}, "categoria": "Urbano",
	 "chassiInfo": {"fabricante": "Mercedes-Benz", "modelo": "O500U", "tracao": "4x2", "localizacaoMotor": "Traseiro",
	                "potencia": "260 cv", "eixos": 2, "motor": "OM 926", "suspensao": "Pneumática"},
	 "dadosVeiculo": {"anoModelo": 2018, "valor": 350000}, "updatedAt": "2024-02-01T00:00:00Z"},
	{"_id": "c", "identificacao": {"titulo": "Scania K310 Urbano"}, "categoria": "Urbano",
	 "chassiInfo": {"fabricante": "Scania", "modelo": "K310 6x2", "localizacaoMotor": "Traseira",
	                "potencia": "310cv", "eixos": 3, "motor": "DC09", "retarder": "Voith", "suspensao": "a ar",
	                "freioMotor": "não"},
	 "dadosVeiculo": {"anoModelo": 2018, "valor": "sob consulta"}},
	{"_id": "d", "identificacao": {"titulo": "Volvo B270F Rodoviário"}, "categoria": "Rodoviário",
	 "chassiInfo": {"fabricante": "Volvo", "modelo": "B270F"},
	 "dadosVeiculo": {"anoModelo": 2012, "valor": 300000}, "updatedAt": "2023-05-01T00:00:00Z"}
]`

func testFleet(t *testing.T) []vehicle.Vehicle {
	t.Helper()
	var raws []vehicle.RawVehicle
	if err := json.Unmarshal([]byte(fleetJSON), &raws); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	return vehicle.NormalizeAll(raws)
}

func ids(vehicles []vehicle.Vehicle) []string {
	out := make([]string, len(vehicles))
	for i, v := range vehicles {
		out[i] = v.ID
	}
	return out
}

func buildIndex(t *testing.T, vehicles []vehicle.Vehicle) *index.Index {
	t.Helper()
	idx, err := index.Build(vehicles, index.DefaultConfig())
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	return idx
}

func TestSearch_BlankQueryIsIdentity(t *testing.T) {
	fleet := testFleet(t)
	for _, q := range []string{"", "   "} {
		if got := ids(Search(fleet, q, nil)); !reflect.DeepEqual(got, []string{"a", "b", "c", "d"}) {
			t.Errorf("Search(%q) = %v", q, got)
		}
	}
}

func TestSearch_SignalOnlyQueryNeedsTextHit(t *testing.T) {
	fleet := testFleet(t)
	// b is 4x2 too, but "4x2" only appears in a's chassis model text.
	if got := ids(Search(fleet, "4x2", nil)); !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("Search(4x2) = %v, want [a]", got)
	}
}

func TestSearch_SignalsFilterTextMatches(t *testing.T) {
	fleet := testFleet(t)
	// signal words are still text tokens and must match some field
	got := ids(Search(fleet, "urbano 3 eixos", nil))
	if len(got) != 0 {
		t.Errorf("Search(urbano 3 eixos) = %v, want none (eixos has no text hit)", got)
	}
	got = ids(Search(fleet, "scania voith", nil))
	if len(got) != 0 {
		t.Errorf("Search(scania voith) = %v, want none", got)
	}
	got = ids(Search(fleet, "scania", nil))
	if !reflect.DeepEqual(got, []string{"c"}) {
		t.Errorf("Search(scania) = %v", got)
	}
}

func TestMatchers_AgreeOnSingleExactTokens(t *testing.T) {
	fleet := testFleet(t)
	idx := buildIndex(t, fleet)

	for _, q := range []string{"urbano", "scania", "volvo", "rodoviario", "mercedes"} {
		indexed := ids(Search(fleet, q, idx))
		substring := ids(Search(fleet, q, nil))
		slices.Sort(indexed)
		slices.Sort(substring)
		if !reflect.DeepEqual(indexed, substring) {
			t.Errorf("%q: index %v, substring %v", q, indexed, substring)
		}
	}
}

func TestIndexMatcher_Subset(t *testing.T) {
	fleet := testFleet(t)
	idx := buildIndex(t, fleet)

	got, err := NewIndexMatcher(idx).Match(fleet[2:], "urbano")
	if err != nil {
		t.Fatalf("Match error: %v", err)
	}
	if !reflect.DeepEqual(ids(got), []string{"c"}) {
		t.Errorf("Match = %v, want [c]", ids(got))
	}
}

func TestIndexMatcher_ReorderedCatalog(t *testing.T) {
	fleet := testFleet(t)
	idx := buildIndex(t, fleet)

	// same length as the index, different order
	sorted := Sort(fleet, SortPriceDesc, "")
	for q, want := range map[string][]string{"volvo": {"d"}, "scania": {"c"}, "mercedes": {"b"}} {
		if got := ids(Search(sorted, q, idx)); !reflect.DeepEqual(got, want) {
			t.Errorf("Search(%s) over sorted catalog = %v, want %v", q, got, want)
		}
	}
}

func TestIndexMatcher_FuzzyRecall(t *testing.T) {
	fleet := testFleet(t)
	idx := buildIndex(t, fleet)

	if got := ids(Search(fleet, "mercedez", idx)); !reflect.DeepEqual(got, []string{"b"}) {
		t.Errorf("Search(mercedez) = %v, want [b]", got)
	}
	if got := ids(Search(fleet, "mercedez", nil)); len(got) != 0 {
		t.Errorf("substring Search(mercedez) = %v, want none", got)
	}
}

type failingMatcher struct{}

func (failingMatcher) Match([]vehicle.Vehicle, string) ([]vehicle.Vehicle, error) {
	return nil, errors.New("boom")
}

func TestSearchWith_FallsBackOnError(t *testing.T) {
	fleet := testFleet(t)
	got := ids(SearchWith(fleet, "urbano", failingMatcher{}))
	if !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("SearchWith = %v, want [a b c]", got)
	}
}

func TestMatchesSignals(t *testing.T) {
	fleet := testFleet(t)

	tests := []struct {
		query    string
		expected []string
	}{
		{"300cv", []string{"c", "d"}},
		{"freio motor", []string{"a", "b", "d"}},
		{"retarder voith", []string{"a", "b", "c", "d"}},
		{"retarder zf", []string{"a", "b", "d"}},
		{"com retarder", []string{"a", "b", "c", "d"}},
		{"suspensao pneumatica", []string{"a", "b", "c", "d"}},
		{"motor om 926", []string{"b", "d"}},
		{"traseiro", []string{"b", "c", "d"}},
		{"6x2", []string{"c", "d"}},
		{"3 eixos", []string{"c", "d"}},
		{"6x2 traseiro 300cv", []string{"c", "d"}},
	}

	for _, tt := range tests {
		s := signal.Parse(tt.query)
		var got []string
		for _, v := range fleet {
			if MatchesSignals(v, s) {
				got = append(got, v.ID)
			}
		}
		if !reflect.DeepEqual(got, tt.expected) {
			t.Errorf("%q (%s): got %v, want %v", tt.query, s, got, tt.expected)
		}
	}
}

func TestScore_DrivetrainMatchScoresHigher(t *testing.T) {
	fleet := testFleet(t)
	query := "traseiro 4x2"
	s := signal.Parse(query)

	b := fleet[1]
	raw := *b.Raw
	raw.Chassis.Drivetrain = "6x2"
	b6x2 := vehicle.Normalize(raw)

	if Score(b, query, s) <= Score(b6x2, query, s) {
		t.Errorf("4x2 score %v not above 6x2 score %v", Score(b, query, s), Score(b6x2, query, s))
	}
	if got := Score(b, query, s); got != 14 {
		t.Errorf("Score(b) = %v, want 14 (drivetrain 8 + position 6)", got)
	}
}

func TestScore_Tokens(t *testing.T) {
	fleet := testFleet(t)
	// title 6 + category 3; "od" is too short to count
	if got := Score(fleet[0], "od urbano", signal.Signals{}); got != 9 {
		t.Errorf("Score = %v, want 9", got)
	}
	if got := Score(fleet[3], "urbano", signal.Signals{}); got != 0 {
		t.Errorf("Score = %v, want 0", got)
	}
}

func TestExplain(t *testing.T) {
	fleet := testFleet(t)
	query := "urbano 4x2"
	got := Explain(fleet[1], query, signal.Parse(query))
	want := []Contribution{
		{"title:urbano", 6},
		{"category:urbano", 3},
		{"signal:drivetrain", 8},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Explain = %+v, want %+v", got, want)
	}
}
