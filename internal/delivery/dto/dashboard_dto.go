package dto

type DashboardResponse struct {
	Profile       *ProfileResponse `json:"profile"`
	RecentVitals  []VitalResponse  `json:"recent_vitals"`
	DocumentCount int64            `json:"document_count"`
}
