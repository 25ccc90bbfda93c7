package dto

import "time"

type SelectRequest struct {
	HospitalID string `json:"hospital_id"`
}

type StateResponse struct {
	SelectedHospital *HospitalResponse `json:"selected_hospital"`
	LastRefreshedAt  *time.Time        `json:"last_refreshed_at"`
	Freshness        string            `json:"freshness"`
	Source           string            `json:"source"`
	Route            *RouteResponse    `json:"route"`
}
