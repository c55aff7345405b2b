package search

import (
	"strings"

	"harshagw/fleetsearch/internal/analysis"
	"harshagw/fleetsearch/internal/signal"
	"harshagw/fleetsearch/internal/vehicle"
)

// check is the outcome of comparing one signal with a vehicle. known is
// false when the vehicle carries no data for the signal.
type check struct {
	present bool
	match   bool
	known   bool
}

// signalCheck pairs a signal with its relevance bonus.
type signalCheck struct {
	name  string
	bonus float64
	eval  func(v vehicle.Vehicle, s signal.Signals) check
}

// signalChecks is evaluated by both MatchesSignals and Score.
var signalChecks = []signalCheck{
	{"drivetrain", 8, checkDrivetrain},
	{"axles", 5, checkAxles},
	{"engine_position", 6, checkEnginePosition},
	{"engine_name", 5, checkEngineName},
	{"engine_brake", 4, checkEngineBrake},
	{"retarder", 4, checkRetarder},
	{"suspension", 3, checkSuspension},
	{"power", 6, checkPower},
}

// MatchesSignals reports whether a vehicle satisfies every present signal.
// A vehicle without data for a signal is not excluded by it.
func MatchesSignals(v vehicle.Vehicle, s signal.Signals) bool {
	for _, c := range signalChecks {
		r := c.eval(v, s)
		if r.present && r.known && !r.match {
			return false
		}
	}
	return true
}

func unknown(s string) bool {
	return s == "" || s == vehicle.Sentinel
}

func checkDrivetrain(v vehicle.Vehicle, s signal.Signals) check {
	if s.Drivetrain == nil {
		return check{}
	}
	if unknown(v.DriveSystem) {
		return check{present: true}
	}
	return check{present: true, known: true, match: analysis.Compact(v.DriveSystem) == analysis.Compact(*s.Drivetrain)}
}

func checkAxles(v vehicle.Vehicle, s signal.Signals) check {
	if s.Axles == nil {
		return check{}
	}
	axles := v.Axles()
	if axles == 0 {
		return check{present: true}
	}
	return check{present: true, known: true, match: axles == *s.Axles}
}

func checkPower(v vehicle.Vehicle, s signal.Signals) check {
	if s.MinPowerHP == nil {
		return check{}
	}
	hp, ok := v.PowerHP()
	if !ok {
		return check{present: true}
	}
	return check{present: true, known: true, match: hp >= *s.MinPowerHP}
}

func checkEnginePosition(v vehicle.Vehicle, s signal.Signals) check {
	if s.EnginePosition == nil {
		return check{}
	}
	location := strings.TrimSpace(string(v.Chassis().EngineLocation))
	if unknown(v.EnginePosition) && location == "" {
		return check{present: true}
	}
	want := *s.EnginePosition
	match := v.EnginePosition == want ||
		vehicle.EnginePositionCategory(location) == want ||
		strings.Contains(analysis.Fold(location), analysis.Fold(want))
	return check{present: true, known: true, match: match}
}

func checkEngineBrake(v vehicle.Vehicle, s signal.Signals) check {
	if !s.EngineBrake {
		return check{}
	}
	has, known := v.HasEngineBrake()
	return check{present: true, known: known, match: has}
}

func checkRetarder(v vehicle.Vehicle, s signal.Signals) check {
	if s.RetarderType == nil {
		return check{}
	}
	retarder := strings.TrimSpace(string(v.Chassis().Retarder))
	if retarder == "" {
		return check{present: true}
	}
	if vehicle.IsNegative(retarder) {
		return check{present: true, known: true}
	}
	if *s.RetarderType == signal.GenericRetarder {
		return check{present: true, known: true, match: true}
	}
	return check{present: true, known: true, match: strings.Contains(analysis.Fold(retarder), *s.RetarderType)}
}

func checkSuspension(v vehicle.Vehicle, s signal.Signals) check {
	if s.Suspension == nil {
		return check{}
	}
	suspension := strings.TrimSpace(string(v.Chassis().Suspension))
	if suspension == "" {
		return check{present: true}
	}
	match := vehicle.SuspensionCategory(suspension) == *s.Suspension ||
		strings.Contains(analysis.Fold(suspension), *s.Suspension)
	return check{present: true, known: true, match: match}
}

func checkEngineName(v vehicle.Vehicle, s signal.Signals) check {
	if s.EngineName == nil {
		return check{}
	}
	engine := analysis.Compact(string(v.Chassis().EngineName))
	if engine == "" {
		return check{present: true}
	}
	return check{present: true, known: true, match: strings.Contains(engine, *s.EngineName)}
}
