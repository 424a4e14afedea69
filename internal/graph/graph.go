// Package graph builds the county / water district / city relationship
// diagram. A single Build function places nodes according to a Layout.
package graph

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/water-intel/internal/model"
)

// Title is the diagram heading.
const Title = "North Texas Water Infrastructure Relationships"

// Kind identifies what a node stands for.
type Kind string

const (
	KindCounty   Kind = "county"
	KindDistrict Kind = "district"
	KindCity     Kind = "city"
)

// Node colours that are not data driven.
const (
	ColorDistrict = "purple"
	ColorFallback = "gray"
)

// Node is one placed marker.
type Node struct {
	ID    string  `json:"id"`
	Kind  Kind    `json:"kind"`
	Label string  `json:"label"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Color string  `json:"color"`
	Hover string  `json:"hover"`
}

// Edge connects two nodes by ID, parent first.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// LegendEntry explains one node colour.
type LegendEntry struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// Graph is a laid-out relationship diagram.
type Graph struct {
	Title  string        `json:"title"`
	Layout string        `json:"layout"`
	Nodes  []Node        `json:"nodes"`
	Edges  []Edge        `json:"edges"`
	Legend []LegendEntry `json:"legend,omitempty"`
}

// Input is the data behind a diagram. Cities are usually the filtered
// dashboard rows; districts and counties are the full tables.
type Input struct {
	Counties  []model.County
	Districts []model.WaterDistrict
	Cities    []model.CityRecord
}

// Layout places the input's entities onto a graph.
type Layout interface {
	Name() string
	place(in Input, g *Graph)
}

// Build lays out in with layout.
func Build(in Input, layout Layout) *Graph {
	g := &Graph{
		Title:  Title,
		Layout: layout.Name(),
		Nodes:  []Node{},
		Edges:  []Edge{},
	}
	layout.place(in, g)
	return g
}

// ParseLayout maps a layout name to a Layout. The empty name is hierarchical.
func ParseLayout(name string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "hierarchical":
		return HierarchicalLayout{}, nil
	case "flat":
		return FlatLayout{}, nil
	default:
		return nil, eris.Errorf("graph: unknown layout %q", name)
	}
}

func countyID(name string) string   { return "county:" + name }
func districtID(name string) string { return "district:" + name }
func cityID(name string) string     { return "city:" + name }

func countyColors(counties []model.County) map[string]string {
	m := make(map[string]string, len(counties))
	for _, c := range counties {
		m[c.Name] = c.ColorCode
	}
	return m
}

func colorOr(m map[string]string, key string) string {
	if c, ok := m[key]; ok && c != "" {
		return c
	}
	return ColorFallback
}

func cityHover(c model.CityRecord, apl string) string {
	return fmt.Sprintf("%s\nCounty: %s\nDistrict: %s\nAPL: %s", c.Name, c.CountyName, c.DistrictName(), apl)
}

func millions(dollars int64) string {
	return fmt.Sprintf("$%.1fM", float64(dollars)/1_000_000)
}
