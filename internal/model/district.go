// Package model defines the county, water district and city entities
// read by the ranking dashboard.
package model

import (
	"strings"
)

// APLAlignment is a district's alignment with the Approved Products List.
type APLAlignment string

const (
	APLStrong   APLAlignment = "STRONG"
	APLModerate APLAlignment = "MODERATE"
	APLUnknown  APLAlignment = "UNKNOWN"
)

// ParseAPLAlignment normalizes a free-form alignment label. Anything that is
// not STRONG or MODERATE is UNKNOWN.
func ParseAPLAlignment(s string) APLAlignment {
	switch APLAlignment(strings.ToUpper(strings.TrimSpace(s))) {
	case APLStrong:
		return APLStrong
	case APLModerate:
		return APLModerate
	default:
		return APLUnknown
	}
}

// County is immutable reference data created by the import step.
type County struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ColorCode string `json:"color_code"`
}

// WaterDistrict is the unit being scored.
type WaterDistrict struct {
	ID              int64        `json:"id"`
	Name            string       `json:"name"`
	CountyID        int64        `json:"county_id,omitempty"`
	Budget          int64        `json:"budget"` // whole dollars
	CitiesServed    int          `json:"cities_served"`
	APLAlignment    APLAlignment `json:"apl_alignment"`
	ProjectActivity int          `json:"project_activity"`
	InternalSupport string       `json:"internal_support"`
}

// Attributes returns the attribute bundle sent to the scorer.
func (d WaterDistrict) Attributes() DistrictAttributes {
	return DistrictAttributes{
		Name:            d.Name,
		Budget:          d.Budget,
		CitiesServed:    d.CitiesServed,
		APLAlignment:    d.APLAlignment,
		ProjectActivity: d.ProjectActivity,
		InternalSupport: d.InternalSupport,
	}
}

// DistrictAttributes is the input bundle for a single scoring call.
type DistrictAttributes struct {
	Name            string       `json:"name"`
	Budget          int64        `json:"budget"`
	CitiesServed    int          `json:"cities_served"`
	APLAlignment    APLAlignment `json:"apl_alignment"`
	ProjectActivity int          `json:"project_activity"`
	InternalSupport string       `json:"internal_support"`
}

// WithDefaults fills missing values: empty alignment becomes UNKNOWN and
// empty internal support becomes "N/A". Numeric fields already default to zero.
func (a DistrictAttributes) WithDefaults() DistrictAttributes {
	if a.APLAlignment == "" {
		a.APLAlignment = APLUnknown
	}
	if strings.TrimSpace(a.InternalSupport) == "" {
		a.InternalSupport = "N/A"
	}
	return a
}
