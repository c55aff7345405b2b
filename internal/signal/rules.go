package signal

import (
	"regexp"
	"strconv"
	"strings"

	"harshagw/fleetsearch/internal/analysis"
	"harshagw/fleetsearch/internal/vehicle"
)

// rule extracts one kind of signal from a folded query.
type rule struct {
	name    string
	extract func(query string, s *Signals)
}

// rules is evaluated in order; each rule only writes its own fields.
var rules = []rule{
	{"drivetrain", extractDrivetrain},
	{"axles", extractAxles},
	{"power", extractPower},
	{"engine_position", extractEnginePosition},
	{"engine_brake", extractEngineBrake},
	{"retarder", extractRetarder},
	{"suspension", extractSuspension},
	{"engine_name", extractEngineName},
}

// RuleNames lists the rule table in evaluation order.
func RuleNames() []string {
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.name
	}
	return names
}

var whitespace = regexp.MustCompile(`\s+`)

func normalizeQuery(query string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(analysis.Fold(query), " "))
}

var (
	drivetrainPattern = regexp.MustCompile(`\b([468]x[24])\b`)
	axlesPattern      = regexp.MustCompile(`\b(\d)\s*eixos?\b`)
	powerPattern      = regexp.MustCompile(`\b(\d{2,4})\s*(cv|hp|kw)\b`)
)

func extractDrivetrain(q string, s *Signals) {
	if m := drivetrainPattern.FindStringSubmatch(q); m != nil {
		s.Drivetrain = ptr(m[1])
	}
}

func extractAxles(q string, s *Signals) {
	if m := axlesPattern.FindStringSubmatch(q); m != nil {
		n, _ := strconv.Atoi(m[1])
		s.Axles = ptr(n)
	}
}

func extractPower(q string, s *Signals) {
	m := powerPattern.FindStringSubmatch(q)
	if m == nil {
		return
	}
	value, _ := strconv.ParseFloat(m[1], 64)
	if m[2] == UnitKW {
		value *= vehicle.KWToHP
	}
	s.MinPowerHP = ptr(value)
	s.PowerUnit = m[2]
}

// wordsPattern builds a whole-word alternation over folded phrases.
func wordsPattern(phrases ...string) *regexp.Regexp {
	quoted := make([]string, len(phrases))
	for i, p := range phrases {
		quoted[i] = regexp.QuoteMeta(p)
	}
	return regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

// positionSynonyms is checked in order: rear, front, central.
var positionSynonyms = []struct {
	category string
	pattern  *regexp.Regexp
}{
	{vehicle.PositionRear, wordsPattern("traseiro", "traseira", "motor atras", "rear", "rear engine")},
	{vehicle.PositionFront, wordsPattern("dianteiro", "dianteira", "motor na frente", "front", "front engine")},
	{vehicle.PositionCentral, wordsPattern("central", "entre eixos", "entre-eixos", "mid engine", "mid-engine")},
}

func extractEnginePosition(q string, s *Signals) {
	for _, ps := range positionSynonyms {
		if ps.pattern.MatchString(q) {
			s.EnginePosition = ptr(ps.category)
			return
		}
	}
}

var engineBrakePattern = wordsPattern("freio motor", "freio-motor", "freio de motor", "engine brake", "top brake", "jake brake")

func extractEngineBrake(q string, s *Signals) {
	if engineBrakePattern.MatchString(q) {
		s.EngineBrake = true
	}
}

// retarderBrands is checked in priority order.
var retarderBrands = []string{"voith", "zf", "telma"}

var (
	retarderBrandPatterns = func() []*regexp.Regexp {
		ps := make([]*regexp.Regexp, len(retarderBrands))
		for i, b := range retarderBrands {
			ps[i] = wordsPattern(b)
		}
		return ps
	}()
	retarderMention = wordsPattern("retarder", "intarder", "retardador")
)

func extractRetarder(q string, s *Signals) {
	for i, p := range retarderBrandPatterns {
		if p.MatchString(q) {
			s.RetarderType = ptr(retarderBrands[i])
			return
		}
	}
	if retarderMention.MatchString(q) {
		s.RetarderType = ptr(GenericRetarder)
	}
}

var (
	pneumaticPattern  = wordsPattern("pneumatica", "pneumatico", "suspensao a ar", "colchao de ar", "bolsas de ar", "air suspension")
	mechanicalPattern = wordsPattern("mecanica", "mecanico", "feixe de molas", "molas", "leaf spring")
)

func extractSuspension(q string, s *Signals) {
	switch {
	case pneumaticPattern.MatchString(q):
		s.Suspension = ptr(SuspensionPneumatic)
	case mechanicalPattern.MatchString(q):
		s.Suspension = ptr(SuspensionMechanical)
	}
}

// enginePatterns are tried in order; manufacturer-prefixed codes come before
// bare codes. The first capture group is the engine token.
var enginePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bmercedes(?:[ -]?benz)?\s*(om\s*-?\s*\d{3})\b`),
	regexp.MustCompile(`\bcummins\s*(is[bcflg]e?)\b`),
	regexp.MustCompile(`\bscania\s*(dc\s*\d{2})\b`),
	regexp.MustCompile(`\bvolvo\s*(d\s*\d{1,2}[a-z]?)\b`),
	regexp.MustCompile(`\bman\s*(d\s*\d{4})\b`),
	regexp.MustCompile(`\b(mwm\s*\d\.\d{2})\b`),
	regexp.MustCompile(`\b(om\s*-?\s*\d{3})\b`),
	regexp.MustCompile(`\b(is[bcflg]e?)\b`),
	regexp.MustCompile(`\b(dc\s*\d{2})\b`),
	regexp.MustCompile(`\b(d\d{4})\b`),
	regexp.MustCompile(`\b(d\d{2}[a-z]?)\b`),
}

func extractEngineName(q string, s *Signals) {
	for _, p := range enginePatterns {
		if m := p.FindStringSubmatch(q); m != nil {
			s.EngineName = ptr(analysis.Compact(m[1]))
			return
		}
	}
}
