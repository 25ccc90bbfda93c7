package dto

import "time"

type RouteRequest struct {
	Origin     string `json:"origin"`
	HospitalID string `json:"hospital_id"`
	Mode       string `json:"mode"`
}

type RouteOptionResponse struct {
	Name                   string      `json:"name"`
	DistanceMeters         int         `json:"distance_meters"`
	DurationSeconds        int         `json:"duration_seconds"`
	TypicalDurationSeconds int         `json:"typical_duration_seconds"`
	TrafficDelaySeconds    int         `json:"traffic_delay_seconds"`
	Traffic                string      `json:"traffic"`
	Geometry               [][]float64 `json:"geometry"`
}

type RouteResponse struct {
	Origin       string                `json:"origin"`
	OriginLat    float64               `json:"origin_lat"`
	OriginLon    float64               `json:"origin_lon"`
	HospitalID   string                `json:"hospital_id"`
	HospitalName string                `json:"hospital_name"`
	Mode         string                `json:"mode"`
	Route        RouteOptionResponse   `json:"route"`
	Alternatives []RouteOptionResponse `json:"alternatives"`
	RequestedAt  time.Time             `json:"requested_at"`
}

type NearbyHospitalResponse struct {
	Hospital       HospitalResponse  `json:"hospital"`
	DistanceMeters int               `json:"distance_meters"`
	WaitTime       *WaitTimeResponse `json:"wait_time"`
}

type NearbyResponse struct {
	Origin    string                   `json:"origin"`
	OriginLat float64                  `json:"origin_lat"`
	OriginLon float64                  `json:"origin_lon"`
	Hospitals []NearbyHospitalResponse `json:"hospitals"`
}
