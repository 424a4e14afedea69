// Package importer loads the district ranking report and the county/district/city
// hierarchy into the store.
package importer

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/water-intel/internal/model"
)

var (
	districtSplit  = regexp.MustCompile(`Water District:`)
	budgetPattern  = regexp.MustCompile(`\$\s*([\d.,]+)\s*([BMK]?)`)
	servedPattern  = regexp.MustCompile(`(?is)Cities Served\D*?(\d+)`)
	cityLine       = regexp.MustCompile(`(?m)^\s*-\s*City:`)
	alignPattern   = regexp.MustCompile(`(?is)APL/Spec Alignment.*?(STRONG|MODERATE|UNKNOWN)`)
	projectPattern = regexp.MustCompile(`(?is)Active Projects\D*?(\d+)`)
	supportPattern = regexp.MustCompile(`(?i)Internal Support:?[ \t]*([^\n]+)`)
)

// ParseReport extracts one district per "Water District:" section of the
// ranking report. Sections without a name are skipped.
func ParseReport(text string) []model.WaterDistrict {
	sections := districtSplit.Split(text, -1)
	if len(sections) < 2 {
		return nil
	}

	var out []model.WaterDistrict
	for _, section := range sections[1:] {
		d, ok := parseSection(section)
		if ok {
			out = append(out, d)
		}
	}
	return out
}

func parseSection(section string) (model.WaterDistrict, bool) {
	name, _, _ := strings.Cut(strings.TrimLeft(section, " \t\r\n"), "\n")
	name = strings.Trim(strings.TrimSpace(name), "*")
	name = strings.TrimSpace(name)
	if name == "" {
		return model.WaterDistrict{}, false
	}

	d := model.WaterDistrict{Name: name, APLAlignment: model.APLUnknown}

	if m := budgetPattern.FindStringSubmatch(section); m != nil {
		if budget, err := ParseBudget(m[1] + m[2]); err == nil {
			d.Budget = budget
		}
	}

	if m := servedPattern.FindStringSubmatch(section); m != nil {
		d.CitiesServed, _ = strconv.Atoi(m[1])
	} else {
		d.CitiesServed = len(cityLine.FindAllStringIndex(section, -1))
	}

	if m := alignPattern.FindStringSubmatch(section); m != nil {
		d.APLAlignment = model.ParseAPLAlignment(m[1])
	}
	if m := projectPattern.FindStringSubmatch(section); m != nil {
		d.ProjectActivity, _ = strconv.Atoi(m[1])
	}
	if m := supportPattern.FindStringSubmatch(section); m != nil {
		d.InternalSupport = strings.TrimSpace(m[1])
	}
	return d, true
}

// ParseBudget converts a report amount such as "1.2B", "$350M" or "40" to
// whole dollars. A bare number is in millions.
func ParseBudget(s string) (int64, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, eris.New("importer: empty budget")
	}

	mult := 1e6
	switch strings.ToUpper(s[len(s)-1:]) {
	case "B":
		mult = 1e9
		s = s[:len(s)-1]
	case "M":
		s = s[:len(s)-1]
	case "K":
		mult = 1e3
		s = s[:len(s)-1]
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, eris.Wrapf(err, "importer: parse budget %q", s)
	}
	if v < 0 {
		return 0, eris.Errorf("importer: negative budget %q", s)
	}
	return int64(v*mult + 0.5), nil
}
