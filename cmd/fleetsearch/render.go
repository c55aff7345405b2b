package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"harshagw/fleetsearch/internal/engine"
	"harshagw/fleetsearch/internal/facet"
	"harshagw/fleetsearch/internal/filter"
	"harshagw/fleetsearch/internal/store"
	"harshagw/fleetsearch/internal/vehicle"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func renderResults(w io.Writer, resp engine.Response) {
	if desc := describeFilters(resp.Filters); desc != "" {
		fmt.Fprintf(w, "Filters: %s\n", desc)
	}
	if resp.Total == 0 {
		fmt.Fprintln(w, "No vehicles found")
		return
	}
	fmt.Fprintf(w, "Found %s vehicles (page %d of %d, sort %s)\n\n",
		humanize.Comma(int64(resp.Total)), resp.Page, max(resp.Pages, 1), resp.Sort)
	renderVehicles(w, resp.Items)
}

func renderVehicles(w io.Writer, vehicles []vehicle.Vehicle) {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tTITLE\tYEAR\tCITY\tPRICE\tSTATUS")
	for _, v := range vehicles {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			v.ID, truncate(v.Title, 48), year(v), place(v), v.PriceFormatted, orDash(v.Status))
	}
	tw.Flush()
}

func year(v vehicle.Vehicle) string {
	switch {
	case v.FabricationYear > 0 && v.ModelYear > 0:
		return fmt.Sprintf("%d/%d", v.FabricationYear, v.ModelYear)
	case v.ModelYear > 0:
		return strconv.Itoa(v.ModelYear)
	case v.FabricationYear > 0:
		return strconv.Itoa(v.FabricationYear)
	}
	return vehicle.Sentinel
}

func place(v vehicle.Vehicle) string {
	switch {
	case v.City != "" && v.State != "":
		return v.City + "/" + v.State
	case v.City != "":
		return v.City
	}
	return orDash(v.State)
}

func orDash(s string) string {
	if s == "" {
		return vehicle.Sentinel
	}
	return s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// describeFilters renders the active dimensions of f in expression syntax.
func describeFilters(f filter.Filters) string {
	var parts []string
	for _, dim := range filter.Dimensions {
		if values := f.Values(dim); len(values) > 0 {
			parts = append(parts, string(dim)+":"+strings.Join(quoteAll(values), ","))
		}
	}
	for _, dim := range filter.RangeDimensions {
		if f.RangeActive(dim) {
			parts = append(parts, string(dim)+":"+f.RangeOf(dim).String())
		}
	}
	if b := f.Equipment.EngineBrake; b != nil {
		parts = append(parts, "freioMotor:"+answer(*b))
	}
	for _, opt := range vehicle.Optionals {
		if want, ok := f.Optionals[opt]; ok {
			prefix := ""
			if !want {
				prefix = "-"
			}
			parts = append(parts, prefix+"opcional:"+string(opt))
		}
	}
	return strings.Join(parts, " ")
}

func quoteAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		if strings.ContainsAny(v, " \t,") {
			v = strconv.Quote(v)
		}
		out[i] = v
	}
	return out
}

func answer(b bool) string {
	if b {
		return "sim"
	}
	return "nao"
}

var panelTitles = map[filter.Dimension]string{
	filter.DimCity:           "Cidade",
	filter.DimState:          "Estado",
	filter.DimStatus:         "Status",
	filter.DimDrivetrain:     "Tração",
	filter.DimAxles:          "Eixos",
	filter.DimEngineLocation: "Posição do motor",
}

func renderPanel(w io.Writer, p facet.Panel) {
	renderTree(w, "Categoria", p.Categories)
	renderTree(w, "Chassi", p.Chassis)
	renderTree(w, "Carroceria", p.Bodies)
	for _, dim := range facet.FlatDimensions {
		renderTree(w, panelTitles[dim], p.Flat[dim])
	}
}

func renderTree(w io.Writer, title string, nodes []facet.Node) {
	if len(nodes) == 0 {
		return
	}
	fmt.Fprintf(w, "%s\n", title)
	tw := newTable(w)
	for _, n := range nodes {
		fmt.Fprintf(tw, "  %s %s\t%d\n", mark(n), n.Name, n.Count)
		for _, child := range n.Children {
			fmt.Fprintf(tw, "      %s %s\t%d\n", mark(child), child.Name, child.Count)
		}
	}
	tw.Flush()
	fmt.Fprintln(w)
}

func mark(n facet.Node) string {
	if n.Selected {
		return "[x]"
	}
	return "[ ]"
}

func renderSnapshots(w io.Writer, snaps []store.Snapshot) {
	tw := newTable(w)
	fmt.Fprintln(tw, "EPOCH\tVEHICLES\tSIZE\tSAVED")
	for _, s := range snaps {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n",
			s.Epoch, humanize.Comma(int64(s.Count)), humanize.Bytes(uint64(s.Bytes)), humanize.Time(s.SavedAt))
	}
	tw.Flush()
}
