package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/c-bata/go-prompt"

	"harshagw/fleetsearch/internal/engine"
	"harshagw/fleetsearch/internal/filter"
	"harshagw/fleetsearch/internal/index"
	"harshagw/fleetsearch/internal/query"
	"harshagw/fleetsearch/internal/search"
	"harshagw/fleetsearch/internal/vehicle"
)

// shell is the interactive search session. It keeps one query and filter
// state that each command refines.
type shell struct {
	engine *engine.Engine
	out    io.Writer
	reload func() ([]vehicle.RawVehicle, error)

	query   string
	filters filter.Filters
	sort    search.SortMode
	page    int
	done    bool
}

func newShell(e *engine.Engine, out io.Writer, reload func() ([]vehicle.RawVehicle, error)) *shell {
	return &shell{
		engine:  e,
		out:     out,
		reload:  reload,
		filters: filter.Default(),
		page:    1,
	}
}

func runShell(s *shell) error {
	fmt.Fprintln(s.out, "Fleet Search Shell")
	fmt.Fprintln(s.out)
	s.printHelp()
	fmt.Fprintln(s.out)

	stats := s.engine.Stats()
	fmt.Fprintf(s.out, "Catalog loaded (%d vehicles, indexed: %v)\n\n", stats.Vehicles, stats.Indexed)

	p := prompt.New(
		func(in string) { s.execute(in) },
		s.complete,
		prompt.OptionPrefix("fleet >> "),
		prompt.OptionTitle("fleetsearch"),
		prompt.OptionSetExitCheckerOnInput(func(in string, breakline bool) bool {
			return breakline && s.done
		}),
	)
	p.Run()
	return nil
}

func (s *shell) printHelp() {
	fmt.Fprintln(s.out, "Commands:")
	fmt.Fprintln(s.out, "  search <expression>         - Set the query text and add filters")
	fmt.Fprintln(s.out, "  filter <expression>         - Add filters, keep the query text")
	fmt.Fprintln(s.out, "  toggle <dimension> <value>  - Select or unselect one facet value")
	fmt.Fprintln(s.out, "  clear [dimension...]        - Clear all filters or the named ones")
	fmt.Fprintln(s.out, "  sort <mode>                 - Change the sort mode")
	fmt.Fprintln(s.out, "  page <n> | next | prev      - Move between pages")
	fmt.Fprintln(s.out, "  facets                      - Show facet counts")
	fmt.Fprintln(s.out, "  state                       - Show the current query and filters")
	fmt.Fprintln(s.out, "  show <id>                   - Print one vehicle")
	fmt.Fprintln(s.out, "  explain <id>                - Break down a vehicle's relevance score")
	fmt.Fprintln(s.out, "  terms <field> [regex]       - List index terms of a field")
	fmt.Fprintln(s.out, "  postings <field> <term>     - List vehicles holding an index term")
	fmt.Fprintln(s.out, "  stats                       - Show catalog statistics")
	fmt.Fprintln(s.out, "  reload                      - Reload the catalog")
	fmt.Fprintln(s.out, "  help                        - Show this help")
	fmt.Fprintln(s.out, "  quit                        - Exit")
}

// execute runs one input line.
func (s *shell) execute(input string) {
	input = strings.TrimSpace(input)
	if input == "" {
		return
	}

	cmd, rest, _ := strings.Cut(input, " ")
	rest = strings.TrimSpace(rest)
	args := strings.Fields(rest)

	switch cmd {
	case "search", "s":
		s.cmdSearch(rest, true)
	case "filter", "f":
		s.cmdSearch(rest, false)
	case "toggle":
		s.cmdToggle(args)
	case "clear":
		s.cmdClear(args)
	case "sort":
		s.cmdSort(args)
	case "page":
		s.cmdPage(args)
	case "next":
		s.page++
		s.run()
	case "prev":
		if s.page > 1 {
			s.page--
		}
		s.run()
	case "facets":
		renderPanel(s.out, s.engine.Facets(s.query, s.filters))
	case "state":
		s.cmdState()
	case "show":
		s.cmdShow(args)
	case "explain":
		s.cmdExplain(args)
	case "terms":
		s.cmdTerms(args)
	case "postings":
		s.cmdPostings(args)
	case "stats":
		s.cmdStats()
	case "reload":
		s.cmdReload()
	case "help":
		s.printHelp()
	case "quit", "exit":
		fmt.Fprintln(s.out, "Goodbye!")
		s.done = true
	default:
		fmt.Fprintf(s.out, "Unknown command: %s\n", cmd)
	}
}

// run searches with the current state and prints the page.
func (s *shell) run() {
	resp := s.engine.Search(engine.Request{
		Query:   s.query,
		Filters: s.filters,
		Sort:    s.sort,
		Page:    s.page,
	})
	s.filters = resp.Filters
	renderResults(s.out, resp)
}

func (s *shell) cmdSearch(expr string, replaceQuery bool) {
	res, err := query.Compile(expr, s.filters)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	if replaceQuery {
		s.query = res.Query
	} else if res.Query != "" {
		fmt.Fprintf(s.out, "Error: filter takes field clauses only; use search for text\n")
		return
	}
	s.filters = res.Filters
	if res.Sort != "" {
		s.sort = res.Sort
	}
	s.page = max(res.Page, 1)
	s.run()
}

func (s *shell) cmdToggle(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(s.out, "Usage: toggle <dimension> <value>")
		return
	}
	dim, ok := dimensionNamed(args[0])
	if !ok {
		fmt.Fprintf(s.out, "Unknown dimension: %s\n", args[0])
		return
	}
	s.filters = filter.Toggle(s.filters, dim, strings.Join(args[1:], " "))
	s.page = 1
	s.run()
}

func (s *shell) cmdClear(args []string) {
	if len(args) == 0 {
		s.filters = filter.Default()
		s.page = 1
		s.run()
		return
	}
	for _, name := range args {
		switch {
		case strings.EqualFold(name, query.FieldEngineBrake):
			s.filters = filter.WithEngineBrake(s.filters, nil)
		case strings.EqualFold(name, query.FieldOptional):
			for _, opt := range vehicle.Optionals {
				s.filters = filter.WithOptional(s.filters, opt, nil)
			}
		default:
			if dim, ok := dimensionNamed(name); ok {
				s.filters = filter.Clear(s.filters, dim)
			} else if rdim, ok := rangeNamed(name); ok {
				s.filters = filter.ResetRange(s.filters, rdim)
			} else {
				fmt.Fprintf(s.out, "Unknown dimension: %s\n", name)
				return
			}
		}
	}
	s.page = 1
	s.run()
}

func (s *shell) cmdSort(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "Usage: sort <mode>")
		return
	}
	mode, err := search.ParseSortMode(args[0])
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	s.sort = mode
	s.page = 1
	s.run()
}

func (s *shell) cmdPage(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "Usage: page <n>")
		return
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		fmt.Fprintf(s.out, "Invalid page: %s\n", args[0])
		return
	}
	s.page = n
	s.run()
}

func (s *shell) cmdState() {
	fmt.Fprintf(s.out, "Query:   %q\n", s.query)
	desc := describeFilters(s.filters)
	if desc == "" {
		desc = "(none)"
	}
	fmt.Fprintf(s.out, "Filters: %s\n", desc)
	sort := s.sort
	if sort == "" {
		sort = search.SortRelevance
	}
	fmt.Fprintf(s.out, "Sort:    %s\n", sort)
	fmt.Fprintf(s.out, "Page:    %d\n", s.page)
}

func (s *shell) cmdShow(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "Usage: show <id>")
		return
	}
	v, ok := s.engine.Get(args[0])
	if !ok {
		fmt.Fprintf(s.out, "No vehicle %s\n", args[0])
		return
	}
	if err := writeJSON(s.out, v); err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
	}
}

func (s *shell) cmdExplain(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "Usage: explain <id>")
		return
	}
	contributions, ok := s.engine.Explain(args[0], s.query)
	if !ok {
		fmt.Fprintf(s.out, "No vehicle %s\n", args[0])
		return
	}
	var total float64
	for _, c := range contributions {
		fmt.Fprintf(s.out, "  %-28s %+.0f\n", c.Reason, c.Points)
		total += c.Points
	}
	fmt.Fprintf(s.out, "  %-28s %.0f\n", "total", total)
}

func (s *shell) index() *index.Index {
	idx := s.engine.Index()
	if idx == nil {
		fmt.Fprintln(s.out, "Text index is disabled")
	}
	return idx
}

func (s *shell) cmdTerms(args []string) {
	if len(args) < 1 || len(args) > 2 {
		fmt.Fprintln(s.out, "Usage: terms <field> [regex]")
		return
	}
	idx := s.index()
	if idx == nil {
		return
	}
	pattern := ""
	if len(args) == 2 {
		pattern = args[1]
	}
	terms, err := idx.Terms(args[0], pattern)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	if len(terms) == 0 {
		fmt.Fprintf(s.out, "No terms in %s\n", args[0])
		return
	}
	fmt.Fprintf(s.out, "%d terms in %s:\n", len(terms), args[0])
	for _, t := range terms {
		fmt.Fprintf(s.out, "  %s (%d)\n", t.Term, t.Docs)
	}
}

func (s *shell) cmdPostings(args []string) {
	if len(args) != 2 {
		fmt.Fprintln(s.out, "Usage: postings <field> <term>")
		return
	}
	idx := s.index()
	if idx == nil {
		return
	}
	ids, err := idx.Postings(args[0], args[1])
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	if len(ids) == 0 {
		fmt.Fprintf(s.out, "No postings for %s:%s\n", args[0], args[1])
		return
	}
	fmt.Fprintf(s.out, "Postings for %s:%s (%d vehicles): %s\n", args[0], args[1], len(ids), strings.Join(ids, " "))
}

func (s *shell) cmdStats() {
	stats := s.engine.Stats()
	fmt.Fprintf(s.out, "Epoch:    %d\n", stats.Epoch)
	fmt.Fprintf(s.out, "Vehicles: %d\n", stats.Vehicles)
	fmt.Fprintf(s.out, "Indexed:  %v\n", stats.Indexed)
	for _, f := range stats.Fields {
		fmt.Fprintf(s.out, "  %-20s weight %.1f, %d terms\n", f.Name, f.Weight, f.Terms)
	}
}

func (s *shell) cmdReload() {
	if s.reload == nil {
		fmt.Fprintln(s.out, "Nothing to reload from")
		return
	}
	raws, err := s.reload()
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	s.engine.Load(raws)
	fmt.Fprintf(s.out, "Reloaded %d vehicles\n", s.engine.Stats().Vehicles)
}

func dimensionNamed(name string) (filter.Dimension, bool) {
	for _, dim := range filter.Dimensions {
		if strings.EqualFold(name, string(dim)) {
			return dim, true
		}
	}
	return "", false
}

func rangeNamed(name string) (filter.RangeDimension, bool) {
	for _, dim := range filter.RangeDimensions {
		if strings.EqualFold(name, string(dim)) {
			return dim, true
		}
	}
	return "", false
}

var commandSuggestions = []prompt.Suggest{
	{Text: "search", Description: "Set the query text and add filters"},
	{Text: "filter", Description: "Add filters"},
	{Text: "toggle", Description: "Select or unselect a facet value"},
	{Text: "clear", Description: "Clear filters"},
	{Text: "sort", Description: "Change the sort mode"},
	{Text: "page", Description: "Go to a page"},
	{Text: "next", Description: "Next page"},
	{Text: "prev", Description: "Previous page"},
	{Text: "facets", Description: "Show facet counts"},
	{Text: "state", Description: "Show the current state"},
	{Text: "show", Description: "Print one vehicle"},
	{Text: "explain", Description: "Break down a relevance score"},
	{Text: "terms", Description: "List index terms"},
	{Text: "postings", Description: "List vehicles holding a term"},
	{Text: "stats", Description: "Catalog statistics"},
	{Text: "reload", Description: "Reload the catalog"},
	{Text: "help", Description: "Show help"},
	{Text: "quit", Description: "Exit"},
}

func fieldSuggestions() []prompt.Suggest {
	var out []prompt.Suggest
	for _, dim := range filter.Dimensions {
		out = append(out, prompt.Suggest{Text: string(dim) + ":"})
	}
	for _, dim := range filter.RangeDimensions {
		out = append(out, prompt.Suggest{Text: string(dim) + ":", Description: "range a..b"})
	}
	for _, name := range []string{query.FieldEngineBrake, query.FieldOptional, query.FieldSort, query.FieldPage} {
		out = append(out, prompt.Suggest{Text: name + ":"})
	}
	return out
}

func (s *shell) complete(d prompt.Document) []prompt.Suggest {
	before := d.TextBeforeCursor()
	word := d.GetWordBeforeCursor()
	if !strings.Contains(before, " ") {
		return prompt.FilterHasPrefix(commandSuggestions, word, true)
	}

	cmd, _, _ := strings.Cut(before, " ")
	switch cmd {
	case "search", "s", "filter", "f":
		return prompt.FilterHasPrefix(fieldSuggestions(), strings.TrimPrefix(word, "-"), true)
	case "sort":
		var modes []prompt.Suggest
		for _, m := range search.SortModes {
			modes = append(modes, prompt.Suggest{Text: string(m)})
		}
		return prompt.FilterHasPrefix(modes, word, true)
	case "terms", "postings":
		var fields []prompt.Suggest
		for _, f := range index.Fields {
			fields = append(fields, prompt.Suggest{Text: f.Name})
		}
		return prompt.FilterHasPrefix(fields, word, true)
	}
	return nil
}
