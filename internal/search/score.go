package search

import (
	"strings"
	"unicode/utf8"

	"harshagw/fleetsearch/internal/analysis"
	"harshagw/fleetsearch/internal/signal"
	"harshagw/fleetsearch/internal/vehicle"
)

// Token bonuses.
const (
	titleBonus       = 6
	categoryBonus    = 3
	subcategoryBonus = 3
)

// minScoredToken is the shortest query token that earns a text bonus.
const minScoredToken = 3

// Score computes the relevance of a vehicle for a query. Each query token of
// three or more characters earns a bonus per field it occurs in, and every
// present signal the vehicle verifiably matches adds its bonus once.
func Score(v vehicle.Vehicle, query string, s signal.Signals) float64 {
	var score float64
	for _, c := range Explain(v, query, s) {
		score += c.Points
	}
	return score
}

// Contribution is one term of a relevance score.
type Contribution struct {
	Reason string
	Points float64
}

// Explain breaks Score down into its contributions, in scoring order.
func Explain(v vehicle.Vehicle, query string, s signal.Signals) []Contribution {
	var out []Contribution

	fields := []struct {
		name  string
		value string
		bonus float64
	}{
		{"title", analysis.Fold(v.Title), titleBonus},
		{"category", analysis.Fold(v.Category), categoryBonus},
		{"subcategory", analysis.Fold(v.Subcategory), subcategoryBonus},
	}
	for _, token := range strings.Fields(analysis.Fold(query)) {
		if utf8.RuneCountInString(token) < minScoredToken {
			continue
		}
		for _, f := range fields {
			if strings.Contains(f.value, token) {
				out = append(out, Contribution{Reason: f.name + ":" + token, Points: f.bonus})
			}
		}
	}

	for _, c := range signalChecks {
		if r := c.eval(v, s); r.present && r.known && r.match {
			out = append(out, Contribution{Reason: "signal:" + c.name, Points: c.bonus})
		}
	}
	return out
}
