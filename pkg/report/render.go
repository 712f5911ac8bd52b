package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/praetorian-inc/sift/pkg/sarif"
	"github.com/praetorian-inc/sift/pkg/types"
	"golang.org/x/term"
)

// Output formats.
const (
	FormatHuman = "human"
	FormatJSON  = "json"
	FormatTable = "table"
	FormatSARIF = "sarif"
)

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Formats lists the accepted output formats.
var Formats = []string{FormatHuman, FormatJSON, FormatTable, FormatSARIF}

// ColorModes lists the accepted color modes.
var ColorModes = []string{ColorAuto, ColorAlways, ColorNever}

// RenderOptions controls presentation.
type RenderOptions struct {
	Format string // human (default), json, table or sarif
	Color  string // auto (default), always or never

	// Source and ToolVersion label SARIF output. An empty Source means stdin.
	Source      string
	ToolVersion string
}

// styles holds color formatters for human output.
type styles struct {
	heading  *color.Color
	match    *color.Color
	count    *color.Color
	metadata *color.Color
}

func newStyles(enabled bool) *styles {
	s := &styles{
		heading:  color.New(color.Bold, color.FgHiBlue),
		match:    color.New(color.FgYellow),
		count:    color.New(color.FgHiGreen),
		metadata: color.New(color.Faint),
	}
	for _, c := range []*color.Color{s.heading, s.match, s.count, s.metadata} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return s
}

// ColorEnabled decides whether output to w is colored. Auto mode colors only
// terminals, and NO_COLOR disables it.
func ColorEnabled(mode string, w io.Writer) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Render writes r to w in the requested format.
func Render(w io.Writer, r *Report, opts RenderOptions) error {
	switch opts.Format {
	case "", FormatHuman:
		return renderHuman(w, r, newStyles(ColorEnabled(opts.Color, w)))
	case FormatJSON:
		return renderJSON(w, r)
	case FormatTable:
		return renderTable(w, r)
	case FormatSARIF:
		return renderSARIF(w, r, opts)
	default:
		return fmt.Errorf("unknown output format: %s", opts.Format)
	}
}

// renderHuman prints one block per type. Listing blocks carry one
// "type: text" line per item; analyze blocks are a single "type: N" line.
func renderHuman(w io.Writer, r *Report, s *styles) error {
	for i, sec := range r.Sections {
		name := s.heading.Sprint(sec.Type.String() + ":")
		if r.Mode == Analyze {
			if _, err := fmt.Fprintf(w, "%s %s\n", name, s.count.Sprint(sec.Count)); err != nil {
				return err
			}
			continue
		}

		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		for _, it := range sec.Items {
			if _, err := fmt.Fprintf(w, "%s %s\n", name, s.match.Sprint(it.Text)); err != nil {
				return err
			}
		}
		if sec.Dropped > 0 {
			if _, err := fmt.Fprintln(w, s.metadata.Sprintf("(%d more %s matches not shown)", sec.Dropped, sec.Type)); err != nil {
				return err
			}
		}
	}
	return nil
}

func renderJSON(w io.Writer, r *Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}

func renderTable(w io.Writer, r *Report) error {
	if r.Empty() {
		_, err := fmt.Fprintln(w, "(no matches)")
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	if r.Mode == Analyze {
		t.AppendHeader(table.Row{"Type", "Category", "Matches"})
		for _, sec := range r.Sections {
			t.AppendRow(table.Row{sec.Type.String(), string(sec.Type.Category()), sec.Count})
		}
		t.AppendFooter(table.Row{"", "Total", r.Total()})
		t.Render()
		return nil
	}

	t.AppendHeader(table.Row{"Type", "Line", "Text"})
	for _, sec := range r.Sections {
		for _, it := range sec.Items {
			t.AppendRow(table.Row{sec.Type.String(), it.Line + 1, it.Text})
		}
		if sec.Dropped > 0 {
			t.AppendRow(table.Row{sec.Type.String(), "", fmt.Sprintf("(%d more)", sec.Dropped)})
		}
	}
	t.Render()
	return nil
}

// renderSARIF emits one SARIF rule per reported type and one result per
// listed item. Analyze reports carry their totals in rule properties only.
func renderSARIF(w io.Writer, r *Report, opts RenderOptions) error {
	doc := sarif.NewReport(opts.ToolVersion)
	for _, sec := range r.Sections {
		name := sec.Type.String()
		doc.AddRule(name, string(sec.Type.Category()), sec.Count, sec.Dropped)
		for _, it := range sec.Items {
			doc.AddResult(name, it.Text, it.Line, it.Offset, opts.Source)
		}
	}
	data, err := doc.ToJSON()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

// TypeInfo describes one classification type for listings.
type TypeInfo struct {
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Default  bool     `json:"default"` // active without directives
	Groups   []string `json:"groups,omitempty"`
}

// GroupInfo describes one group for listings.
type GroupInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Members     []string `json:"members"`
}

// Catalog is the full type and group listing.
type Catalog struct {
	Types  []TypeInfo  `json:"types"`
	Groups []GroupInfo `json:"groups"`
}

// NewCatalog describes every type and group in canonical order.
func NewCatalog() Catalog {
	groups := types.AllGroups()
	memberOf := make(map[types.Type][]string)
	c := Catalog{}
	for _, g := range groups {
		gi := GroupInfo{Name: g.Name, Description: g.Description}
		for _, m := range g.Members {
			gi.Members = append(gi.Members, m.String())
			memberOf[m] = append(memberOf[m], g.Name)
		}
		c.Groups = append(c.Groups, gi)
	}
	for _, t := range types.AllTypes() {
		c.Types = append(c.Types, TypeInfo{
			Name:     t.String(),
			Category: string(t.Category()),
			Default:  !types.IsDefaultHidden(t),
			Groups:   memberOf[t],
		})
	}
	return c
}

// RenderCatalog writes the type and group listing as a table or JSON.
func RenderCatalog(w io.Writer, c Catalog, format string) error {
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(c)
	case "", FormatTable:
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Type", "Category", "Default", "Groups"})
	for _, ti := range c.Types {
		t.AppendRow(table.Row{ti.Name, ti.Category, strconv.FormatBool(ti.Default), strings.Join(ti.Groups, ", ")})
	}
	t.Render()

	g := table.NewWriter()
	g.SetOutputMirror(w)
	g.SetStyle(table.StyleLight)
	g.AppendHeader(table.Row{"Group", "Members", "Description"})
	for _, gi := range c.Groups {
		g.AppendRow(table.Row{gi.Name, strings.Join(gi.Members, ", "), gi.Description})
	}
	g.Render()
	return nil
}
