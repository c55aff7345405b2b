package query

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"harshagw/fleetsearch/internal/analysis"
	"harshagw/fleetsearch/internal/filter"
	"harshagw/fleetsearch/internal/search"
	"harshagw/fleetsearch/internal/vehicle"
)

// Field names besides the filter dimensions.
const (
	FieldEngineBrake = "freioMotor"
	FieldOptional    = "opcional"
	FieldSort        = "ordem"
	FieldPage        = "pagina"
)

// Result is an expression applied over a base filter state.
type Result struct {
	Query   string
	Filters filter.Filters
	Sort    search.SortMode
	Page    int
}

// Compile parses input and applies it over base. Set clauses add to the
// base selection, negated ones remove from it. Range clauses replace the
// base range.
func Compile(input string, base filter.Filters) (Result, error) {
	expr, err := Parse(input)
	if err != nil {
		return Result{}, err
	}
	return Execute(expr, base)
}

// Execute applies a parsed expression over base.
func Execute(expr *Expression, base filter.Filters) (Result, error) {
	res := Result{Query: expr.Query(), Filters: base}

	for _, c := range expr.Clauses {
		var err error
		switch {
		case lookupDimension(c.Field) != "":
			res.Filters, err = applySet(res.Filters, lookupDimension(c.Field), c)
		case lookupRange(c.Field) != "":
			res.Filters, err = applyRange(res.Filters, lookupRange(c.Field), c)
		case sameField(c.Field, FieldEngineBrake):
			res.Filters, err = applyEngineBrake(res.Filters, c)
		case sameField(c.Field, FieldOptional):
			res.Filters, err = applyOptionals(res.Filters, c)
		case sameField(c.Field, FieldSort):
			res.Sort, err = parseSort(c)
		case sameField(c.Field, FieldPage):
			res.Page, err = parsePage(c)
		default:
			err = &SyntaxError{Pos: c.Pos, Msg: fmt.Sprintf("unknown field %q", c.Field)}
		}
		if err != nil {
			return Result{}, err
		}
	}
	return res, nil
}

func sameField(a, b string) bool {
	return strings.EqualFold(a, b)
}

func lookupDimension(name string) filter.Dimension {
	for _, dim := range filter.Dimensions {
		if sameField(name, string(dim)) {
			return dim
		}
	}
	return ""
}

func lookupRange(name string) filter.RangeDimension {
	for _, dim := range filter.RangeDimensions {
		if sameField(name, string(dim)) {
			return dim
		}
	}
	return ""
}

func clauseError(c Clause, format string, args ...any) error {
	return &SyntaxError{Pos: c.Pos, Msg: fmt.Sprintf("%s: ", c.Field) + fmt.Sprintf(format, args...)}
}

func single(c Clause) (string, error) {
	if len(c.Values) != 1 {
		return "", clauseError(c, "expected a single value, got %d", len(c.Values))
	}
	return c.Values[0], nil
}

func applySet(f filter.Filters, dim filter.Dimension, c Clause) (filter.Filters, error) {
	if dim == filter.DimAxles {
		for _, v := range c.Values {
			if _, err := strconv.Atoi(v); err != nil {
				return f, clauseError(c, "invalid axle count %q", v)
			}
		}
	}

	current := f.Values(dim)
	if !c.Negated {
		return filter.WithValues(f, dim, append(slices.Clone(current), c.Values...)...), nil
	}

	kept := make([]string, 0, len(current))
	for _, v := range current {
		if !slices.ContainsFunc(c.Values, func(x string) bool { return analysis.Fold(x) == analysis.Fold(v) }) {
			kept = append(kept, v)
		}
	}
	return filter.WithValues(f, dim, kept...), nil
}

// applyRange accepts "a..b", "a..", "..b" or a single number meaning a..a.
func applyRange(f filter.Filters, dim filter.RangeDimension, c Clause) (filter.Filters, error) {
	if c.Negated {
		return f, clauseError(c, "ranges cannot be negated")
	}
	value, err := single(c)
	if err != nil {
		return f, err
	}

	r := filter.DefaultRange(dim)
	lo, hi, isRange := strings.Cut(value, "..")
	if !isRange {
		hi = lo
	}
	if lo != "" {
		if r.Min, err = parseBound(lo); err != nil {
			return f, clauseError(c, "invalid bound %q", lo)
		}
	}
	if hi != "" {
		if r.Max, err = parseBound(hi); err != nil {
			return f, clauseError(c, "invalid bound %q", hi)
		}
	}
	if r.Min > r.Max {
		return f, clauseError(c, "empty range %s", r)
	}
	return filter.WithRange(f, dim, r), nil
}

func parseBound(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not finite")
	}
	return v, nil
}

func parseAnswer(s string) (value *bool, ok bool) {
	yes, no := true, false
	switch analysis.Fold(s) {
	case "sim", "s", "true", "1", "yes", "y", "com":
		return &yes, true
	case "nao", "n", "false", "0", "no", "sem":
		return &no, true
	case "qualquer", "any", "*":
		return nil, true
	}
	return nil, false
}

func applyEngineBrake(f filter.Filters, c Clause) (filter.Filters, error) {
	value, err := single(c)
	if err != nil {
		return f, err
	}
	required, ok := parseAnswer(value)
	if !ok {
		return f, clauseError(c, "expected sim or nao, got %q", value)
	}
	if required != nil && c.Negated {
		inverted := !*required
		required = &inverted
	}
	return filter.WithEngineBrake(f, required), nil
}

// applyOptionals requires each named flag, or its absence when negated.
func applyOptionals(f filter.Filters, c Clause) (filter.Filters, error) {
	want := !c.Negated
	for _, name := range c.Values {
		opt, ok := lookupOptional(name)
		if !ok {
			return f, clauseError(c, "unknown optional %q", name)
		}
		f = filter.WithOptional(f, opt, &want)
	}
	return f, nil
}

func lookupOptional(name string) (vehicle.Optional, bool) {
	for _, opt := range vehicle.Optionals {
		if sameField(name, string(opt)) {
			return opt, true
		}
	}
	return "", false
}

func parseSort(c Clause) (search.SortMode, error) {
	value, err := single(c)
	if err != nil {
		return "", err
	}
	mode, err := search.ParseSortMode(value)
	if err != nil {
		return "", clauseError(c, "%v", err)
	}
	return mode, nil
}

func parsePage(c Clause) (int, error) {
	value, err := single(c)
	if err != nil {
		return 0, err
	}
	page, err := strconv.Atoi(value)
	if err != nil || page < 1 {
		return 0, clauseError(c, "invalid page %q", value)
	}
	return page, nil
}
