package importer

import (
	"context"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/water-intel/internal/model"
	"github.com/sells-group/water-intel/internal/ocr"
	"github.com/sells-group/water-intel/internal/store"
)

// Sources names the two input documents of an import.
type Sources struct {
	ReportPath    string // ranking report, PDF or pre-extracted text
	HierarchyPath string // verified county/district/city markdown
}

// Summary counts the rows written by one import.
type Summary struct {
	ReportDistricts  int `json:"report_districts"`
	Counties         int `json:"counties"`
	MatchedDistricts int `json:"matched_districts"`
	NewDistricts     int `json:"new_districts"`
	Cities           int `json:"cities"`
}

// Importer writes the report and hierarchy into a store. Every write is an
// upsert by name, so running it twice leaves the same rows.
type Importer struct {
	store     store.Store
	extractor ocr.Extractor
}

// New creates an Importer.
func New(s store.Store, extractor ocr.Extractor) *Importer {
	return &Importer{store: s, extractor: extractor}
}

// Run imports both sources. Either path may be empty to skip that half.
func (im *Importer) Run(ctx context.Context, src Sources) (*Summary, error) {
	sum := &Summary{}
	log := zap.L().With(zap.String("report", src.ReportPath), zap.String("hierarchy", src.HierarchyPath))

	var report []model.WaterDistrict
	if src.ReportPath != "" {
		text, err := im.extractor.ExtractText(ctx, src.ReportPath)
		if err != nil {
			return nil, eris.Wrap(err, "importer: extract report")
		}
		report = ParseReport(text)
		if _, err := im.store.UpsertDistricts(ctx, report); err != nil {
			return nil, eris.Wrap(err, "importer: write report districts")
		}
		sum.ReportDistricts = len(report)
		log.Info("importer: report districts written", zap.Int("districts", len(report)))
	}

	if src.HierarchyPath == "" {
		return sum, nil
	}

	raw, err := os.ReadFile(src.HierarchyPath)
	if err != nil {
		return nil, eris.Wrapf(err, "importer: read hierarchy %s", src.HierarchyPath)
	}

	for _, county := range ParseHierarchy(raw) {
		if err := im.importCounty(ctx, county, report, sum); err != nil {
			return nil, err
		}
	}

	log.Info("importer: hierarchy written",
		zap.Int("counties", sum.Counties),
		zap.Int("matched_districts", sum.MatchedDistricts),
		zap.Int("new_districts", sum.NewDistricts),
		zap.Int("cities", sum.Cities),
	)
	return sum, nil
}

func (im *Importer) importCounty(ctx context.Context, county CountySection, report []model.WaterDistrict, sum *Summary) error {
	countyID, err := im.store.UpsertCounty(ctx, model.County{Name: county.Name, ColorCode: CountyColor(county.Name)})
	if err != nil {
		return eris.Wrapf(err, "importer: county %s", county.Name)
	}
	sum.Counties++

	for _, ds := range county.Districts {
		d := model.WaterDistrict{Name: ds.Name}
		if match, ok := MatchReportDistrict(ds.Name, report); ok {
			d = match
			sum.MatchedDistricts++
		} else {
			sum.NewDistricts++
		}
		d.CountyID = countyID

		districtID, err := im.store.UpsertDistrict(ctx, d)
		if err != nil {
			return eris.Wrapf(err, "importer: district %s", ds.Name)
		}

		for _, c := range ds.Cities {
			_, err := im.store.UpsertCity(ctx, model.City{
				Name:        c.Name,
				CountyID:    countyID,
				DistrictID:  districtID,
				APLStatus:   model.APLStatusNotSubmitted,
				ServiceType: c.ServiceType,
			})
			if err != nil {
				return eris.Wrapf(err, "importer: city %s", c.Name)
			}
			sum.Cities++
		}
	}
	return nil
}

// MatchReportDistrict finds the report district whose name is contained in
// the hierarchy's district name. The longest contained name wins so that
// "Upper Trinity" is not claimed by "Trinity".
func MatchReportDistrict(name string, report []model.WaterDistrict) (model.WaterDistrict, bool) {
	var (
		best  model.WaterDistrict
		found bool
	)
	for _, d := range report {
		if d.Name == "" || !strings.Contains(name, d.Name) {
			continue
		}
		if !found || len(d.Name) > len(best.Name) {
			best, found = d, true
		}
	}
	return best, found
}
