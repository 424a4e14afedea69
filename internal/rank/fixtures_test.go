package rank

import "github.com/sells-group/water-intel/internal/model"

var (
	tra = &model.WaterDistrict{ID: 1, Name: "Trinity River Authority", Budget: 4_000_000_000, CitiesServed: 40,
		APLAlignment: model.APLStrong, ProjectActivity: 12, InternalSupport: "yes"}
	ntmwd = &model.WaterDistrict{ID: 2, Name: "NTMWD", Budget: 1_200_000_000, CitiesServed: 13,
		APLAlignment: model.APLModerate, ProjectActivity: 6, InternalSupport: "N/A"}
	small = &model.WaterDistrict{ID: 3, Name: "Small WSD", Budget: 40_000_000, CitiesServed: 2,
		APLAlignment: model.APLUnknown}
)

func city(id int64, name, county string, d *model.WaterDistrict, status model.APLStatus) model.CityRecord {
	return model.CityRecord{
		City:       model.City{ID: id, Name: name, APLStatus: status, CIPBudget: 25_500_000, SewerBudget: 3_000_000},
		CountyName: county,
		District:   d,
	}
}

func sampleCities() []model.CityRecord {
	return []model.CityRecord{
		city(1, "Arlington", "Tarrant", tra, model.APLStatusApproved),
		city(2, "Plano", "Collin", ntmwd, model.APLStatusVerified),
		city(3, "Frisco", "Collin", ntmwd, model.APLStatusPending),
		city(4, "Decatur", "Wise", small, model.APLStatusNotSubmitted),
		city(5, "Orphan", "", nil, model.APLStatusApproved),
		city(6, "Ennis", "Ellis", tra, model.APLStatusNeedsSubmission),
	}
}

func names(rows []model.CityRecord) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Name
	}
	return out
}

func rowNames(rows []Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Name
	}
	return out
}
