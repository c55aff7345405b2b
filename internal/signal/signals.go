// Package signal extracts structured constraints from free-text vehicle
// queries using a fixed table of lexical rules.
package signal

import (
	"fmt"
	"strings"

	"harshagw/fleetsearch/internal/vehicle"
)

// Power units recorded on Signals.PowerUnit.
const (
	UnitCV = "cv"
	UnitHP = "hp"
	UnitKW = "kw"
)

// Suspension categories.
const (
	SuspensionPneumatic  = vehicle.SuspensionPneumatic
	SuspensionMechanical = vehicle.SuspensionMechanical
)

// GenericRetarder is the retarder type set when a retarder is mentioned
// without a known brand.
const GenericRetarder = "retarder"

// Signals holds the constraints found in a query. A nil field means the
// query says nothing about that dimension.
type Signals struct {
	Drivetrain     *string  `json:"drivetrain,omitempty"`
	Axles          *int     `json:"axles,omitempty"`
	MinPowerHP     *float64 `json:"minPowerHp,omitempty"`
	PowerUnit      string   `json:"powerUnit,omitempty"`
	EnginePosition *string  `json:"enginePosition,omitempty"`
	EngineBrake    bool     `json:"engineBrake,omitempty"`
	RetarderType   *string  `json:"retarderType,omitempty"`
	Suspension     *string  `json:"suspension,omitempty"`
	EngineName     *string  `json:"engineName,omitempty"`
}

// Empty reports whether no signal was extracted.
func (s Signals) Empty() bool {
	return s.Drivetrain == nil &&
		s.Axles == nil &&
		s.MinPowerHP == nil &&
		s.EnginePosition == nil &&
		!s.EngineBrake &&
		s.RetarderType == nil &&
		s.Suspension == nil &&
		s.EngineName == nil
}

func (s Signals) String() string {
	var parts []string
	if s.Drivetrain != nil {
		parts = append(parts, "drivetrain="+*s.Drivetrain)
	}
	if s.Axles != nil {
		parts = append(parts, fmt.Sprintf("axles=%d", *s.Axles))
	}
	if s.MinPowerHP != nil {
		parts = append(parts, fmt.Sprintf("power>=%.0fhp(%s)", *s.MinPowerHP, s.PowerUnit))
	}
	if s.EnginePosition != nil {
		parts = append(parts, "position="+*s.EnginePosition)
	}
	if s.EngineBrake {
		parts = append(parts, "engineBrake")
	}
	if s.RetarderType != nil {
		parts = append(parts, "retarder="+*s.RetarderType)
	}
	if s.Suspension != nil {
		parts = append(parts, "suspension="+*s.Suspension)
	}
	if s.EngineName != nil {
		parts = append(parts, "engine="+*s.EngineName)
	}
	if len(parts) == 0 {
		return "signals(none)"
	}
	return fmt.Sprintf("signals(%s)", strings.Join(parts, ", "))
}

// Parse extracts every signal the query carries. Rules are independent; a
// single query may yield several signals.
func Parse(query string) Signals {
	var s Signals
	folded := normalizeQuery(query)
	if folded == "" {
		return s
	}
	for _, r := range rules {
		r.extract(folded, &s)
	}
	return s
}

func ptr[T any](v T) *T {
	return &v
}
