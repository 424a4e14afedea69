package model

// APLStatus is a city's Approved Products List submission status.
type APLStatus string

const (
	APLStatusApproved        APLStatus = "Approved"
	APLStatusVerified        APLStatus = "Verified"
	APLStatusPending         APLStatus = "Pending"
	APLStatusNeedsSubmission APLStatus = "Needs Submission"
	APLStatusNotSubmitted    APLStatus = "Not Submitted"
)

// APLStatuses lists every known status in display order.
var APLStatuses = []APLStatus{
	APLStatusApproved,
	APLStatusVerified,
	APLStatusPending,
	APLStatusNeedsSubmission,
	APLStatusNotSubmitted,
}

// City is owned by exactly one county and one water district.
type City struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	CountyID    int64     `json:"county_id"`
	DistrictID  int64     `json:"district_id"`
	APLStatus   APLStatus `json:"apl_status"`
	CIPBudget   int64     `json:"cip_budget"`
	SewerBudget int64     `json:"sewer_budget"`
	ServiceType string    `json:"service_type"`
}

// CityRecord is a city joined at read time with its county name and owning
// district. A failed county lookup leaves CountyName empty; a failed district
// lookup leaves District nil.
type CityRecord struct {
	City
	CountyName string         `json:"county"`
	District   *WaterDistrict `json:"district,omitempty"`
}

// DistrictName returns the joined district name, or "" when the lookup failed.
func (r CityRecord) DistrictName() string {
	if r.District == nil {
		return ""
	}
	return r.District.Name
}

// Tables is the full read-only dataset behind one dashboard render.
type Tables struct {
	Cities    []CityRecord
	Districts []WaterDistrict
	Counties  []County
}
