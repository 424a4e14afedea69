package graph

import (
	"fmt"

	"github.com/sells-group/water-intel/internal/model"
)

// FlatLayout puts every district on one row and every city on a row below,
// coloured by county.
type FlatLayout struct{}

func (FlatLayout) Name() string { return "flat" }

const (
	flatDistrictY = 5
	flatCityY     = 1
)

func (FlatLayout) place(in Input, g *Graph) {
	colors := countyColors(in.Counties)

	position := make(map[string]float64, len(in.Districts))
	for i, d := range in.Districts {
		x := float64(i) * 2
		if _, dup := position[d.Name]; !dup {
			position[d.Name] = x
		}
		g.Nodes = append(g.Nodes, Node{
			ID:    districtID(d.Name),
			Kind:  KindDistrict,
			Label: d.Name,
			X:     x,
			Y:     flatDistrictY,
			Color: ColorDistrict,
			Hover: d.Name,
		})
	}

	for i, c := range in.Cities {
		g.Nodes = append(g.Nodes, Node{
			ID:    cityID(c.Name),
			Kind:  KindCity,
			Label: c.Name,
			X:     float64(i) * 0.5,
			Y:     flatCityY,
			Color: colorOr(colors, c.CountyName),
			Hover: cityHover(c, string(c.APLStatus)),
		})
		if _, ok := position[c.DistrictName()]; ok {
			g.Edges = append(g.Edges, Edge{From: districtID(c.DistrictName()), To: cityID(c.Name)})
		}
	}
}

// HierarchicalLayout stacks counties over their districts over their cities.
// A district sits under the county of the cities it serves; districts with no
// such city and cities of unplaced districts are left out.
type HierarchicalLayout struct{}

func (HierarchicalLayout) Name() string { return "hierarchical" }

const (
	countyRowY   = 10
	districtRowY = 7
	cityRowY     = 4
)

// Alignment colours for city nodes.
var alignmentColors = map[model.APLAlignment]string{
	model.APLStrong:   "green",
	model.APLModerate: "orange",
	model.APLUnknown:  "blue",
}

func (HierarchicalLayout) place(in Input, g *Graph) {
	colors := countyColors(in.Counties)

	countyX := make(map[string]float64, len(in.Counties))
	for i, c := range in.Counties {
		x := float64(i) * 5
		countyX[c.Name] = x
		g.Nodes = append(g.Nodes, Node{
			ID:    countyID(c.Name),
			Kind:  KindCounty,
			Label: c.Name,
			X:     x,
			Y:     countyRowY,
			Color: colorOr(colors, c.Name),
			Hover: c.Name,
		})
	}

	// Last city wins when a district serves several counties.
	districtCounty := make(map[string]string)
	for _, c := range in.Cities {
		if c.DistrictName() != "" && c.CountyName != "" {
			districtCounty[c.DistrictName()] = c.CountyName
		}
	}

	districtX := make(map[string]float64)
	perCounty := make(map[string]int)
	for _, d := range in.Districts {
		county, ok := districtCounty[d.Name]
		if !ok {
			continue
		}
		cx, ok := countyX[county]
		if !ok {
			continue
		}
		x := cx - 2 + float64(perCounty[county])*1.5
		perCounty[county]++
		districtX[d.Name] = x

		g.Edges = append(g.Edges, Edge{From: countyID(county), To: districtID(d.Name)})
		g.Nodes = append(g.Nodes, Node{
			ID:    districtID(d.Name),
			Kind:  KindDistrict,
			Label: d.Name,
			X:     x,
			Y:     districtRowY,
			Color: ColorDistrict,
			Hover: fmt.Sprintf("%s\nBudget: %s\nCities Served: %d", d.Name, millions(d.Budget), d.CitiesServed),
		})
	}

	perDistrict := make(map[string]int)
	for _, c := range in.Cities {
		name := c.DistrictName()
		dx, ok := districtX[name]
		if !ok {
			continue
		}
		x := dx - 1 + float64(perDistrict[name])*0.7
		perDistrict[name]++

		var alignment model.APLAlignment
		if c.District != nil {
			alignment = c.District.APLAlignment
		}
		color, ok := alignmentColors[alignment]
		if !ok {
			color = ColorFallback
		}

		g.Edges = append(g.Edges, Edge{From: districtID(name), To: cityID(c.Name)})
		g.Nodes = append(g.Nodes, Node{
			ID:    cityID(c.Name),
			Kind:  KindCity,
			Label: c.Name,
			X:     x,
			Y:     cityRowY,
			Color: color,
			Hover: cityHover(c, string(alignment)),
		})
	}

	g.Legend = []LegendEntry{
		{Label: "APL Strong", Color: alignmentColors[model.APLStrong]},
		{Label: "APL Moderate", Color: alignmentColors[model.APLModerate]},
		{Label: "APL Unknown", Color: alignmentColors[model.APLUnknown]},
	}
}
