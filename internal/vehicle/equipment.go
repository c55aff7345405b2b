package vehicle

import "strings"

// Suspension categories.
const (
	SuspensionPneumatic  = "pneumatica"
	SuspensionMechanical = "mecanica"
)

var suspensionKeywords = []struct {
	category string
	keywords []string
}{
	{SuspensionPneumatic, []string{"pneumat", "a ar", "colchao de ar", "bolsa", "air"}},
	{SuspensionMechanical, []string{"mecanic", "mola", "feixe", "leaf", "parabolic"}},
}

// SuspensionCategory classifies a free-text suspension description. Pneumatic
// keywords win over mechanical ones; "" means unrecognized.
func SuspensionCategory(description string) string {
	folded := fold(description)
	if folded == "" {
		return ""
	}
	for _, sk := range suspensionKeywords {
		for _, kw := range sk.keywords {
			if strings.Contains(folded, kw) {
				return sk.category
			}
		}
	}
	return ""
}

var negativeAnswers = map[string]bool{
	"nao": true, "n": true, "sem": true, "false": true, "0": true, "no": true, "-": true, "nenhum": true,
}

// IsNegative reports whether a free-text equipment answer means "no".
func IsNegative(answer string) bool {
	return negativeAnswers[fold(answer)]
}

// HasEngineBrake reports whether the chassis declares an engine brake. known
// is false when the record says nothing about it.
func (v Vehicle) HasEngineBrake() (has bool, known bool) {
	answer := text(v.Chassis().EngineBrake)
	if answer == "" {
		return false, false
	}
	return !IsNegative(answer), true
}
