package importer

// DefaultCountyColor is used for counties missing from countyColors.
const DefaultCountyColor = "#CCCCCC"

var countyColors = map[string]string{
	"Collin":   "#FF6B6B",
	"Dallas":   "#4ECDC4",
	"Denton":   "#45B7D1",
	"Tarrant":  "#96CEB4",
	"Ellis":    "#FECA57",
	"Fannin":   "#FF9FF3",
	"Grayson":  "#54A0FF",
	"Kaufman":  "#5F27CD",
	"Parker":   "#00D2D3",
	"Rockwall": "#FF9F43",
	"Walker":   "#A3CB38",
	"Wise":     "#C44569",
}

// CountyColor returns the display colour for a county.
func CountyColor(name string) string {
	if c, ok := countyColors[name]; ok {
		return c
	}
	return DefaultCountyColor
}
