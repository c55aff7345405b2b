package vehicle

import (
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// ParsePrice converts any price representation the source sends into a
// number. Unparseable or absent input yields 0.
func ParsePrice(n Number) float64 {
	return sanitize(numberValue(n))
}

// FormatPrice renders a price as Brazilian currency, or PriceUnavailable
// when there is no usable amount.
func FormatPrice(price float64) string {
	if price <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return PriceUnavailable
	}
	return "R$ " + humanize.FormatFloat("#.###,##", price)
}

func numberValue(n Number) float64 {
	if !n.Present {
		return 0
	}
	if n.Text == "" {
		return n.Value
	}
	return parseNumericText(n.Text)
}

func sanitize(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// parseNumericText keeps digits, separators and a sign, then decides which
// separator is the decimal one. "R$ 350.000,00", "350000.00", "350,5" and
// "1.250" are all understood.
func parseNumericText(text string) float64 {
	var b strings.Builder
	for _, r := range text {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' || r == '-' {
			b.WriteRune(r)
		}
	}
	s := b.String()
	if s == "" {
		return 0
	}

	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")
	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(s, ",") > 1 {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.Replace(s, ",", ".", 1)
		}
	case lastDot >= 0:
		if strings.Count(s, ".") > 1 || len(s)-lastDot-1 == 3 {
			s = strings.ReplaceAll(s, ".", "")
		}
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return sanitize(f)
}
