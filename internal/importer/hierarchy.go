package importer

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"go.uber.org/zap"
)

// CountySection is one "County:" heading of the hierarchy document.
type CountySection struct {
	Name      string
	Districts []DistrictSection
}

// DistrictSection is one "Water District:" entry under a county.
type DistrictSection struct {
	Name   string
	Cities []CityEntry
}

// CityEntry is one "City: Name (service type)" list item.
type CityEntry struct {
	Name        string
	ServiceType string
}

var (
	countyLabel   = regexp.MustCompile(`^County:\s*(.+?)\s*$`)
	districtLabel = regexp.MustCompile(`^Water District:\s*(.+?)\s*$`)
	cityLabel     = regexp.MustCompile(`^City:\s*(.+?)\s*(?:\((.*?)\))?\s*$`)
)

// ParseHierarchy reads the verified county → district → city markdown.
// Districts outside a county and cities outside a district are dropped.
func ParseHierarchy(src []byte) []CountySection {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var (
		counties []CountySection
		county   *CountySection
		district *DistrictSection
	)

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case ast.KindHeading, ast.KindParagraph, ast.KindTextBlock:
		default:
			return ast.WalkContinue, nil
		}

		label := strings.TrimSpace(nodeText(n, src))
		switch {
		case countyLabel.MatchString(label):
			counties = append(counties, CountySection{Name: countyLabel.FindStringSubmatch(label)[1]})
			county = &counties[len(counties)-1]
			district = nil
		case districtLabel.MatchString(label):
			if county == nil {
				zap.L().Warn("importer: district outside a county", zap.String("district", label))
				break
			}
			county.Districts = append(county.Districts, DistrictSection{Name: districtLabel.FindStringSubmatch(label)[1]})
			district = &county.Districts[len(county.Districts)-1]
		case cityLabel.MatchString(label):
			if district == nil {
				zap.L().Warn("importer: city outside a district", zap.String("city", label))
				break
			}
			m := cityLabel.FindStringSubmatch(label)
			district.Cities = append(district.Cities, CityEntry{Name: m[1], ServiceType: strings.TrimSpace(m[2])})
		}
		return ast.WalkSkipChildren, nil
	})
	return counties
}

// nodeText concatenates the inline text under n, turning line breaks into
// spaces.
func nodeText(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if t, ok := c.(*ast.Text); ok {
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}
