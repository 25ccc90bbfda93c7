package dto

import "time"

type WaitTimeResponse struct {
	HospitalID   string    `json:"hospital_id"`
	HospitalName string    `json:"hospital_name"`
	District     string    `json:"district"`
	Region       string    `json:"region"`
	Lat          float64   `json:"lat"`
	Lon          float64   `json:"lon"`
	WaitText     string    `json:"wait_text"`
	WaitMinutes  int       `json:"wait_minutes"`
	Severity     string    `json:"severity"`
	Source       string    `json:"source"`
	FetchedAt    time.Time `json:"fetched_at"`
}

type StatsResponse struct {
	Count           int            `json:"count"`
	AverageMinutes  float64        `json:"average_minutes"`
	MedianMinutes   float64        `json:"median_minutes"`
	ShortestMinutes int            `json:"shortest_minutes"`
	LongestMinutes  int            `json:"longest_minutes"`
	WithinHour      int            `json:"within_hour"`
	OverThreeHours  int            `json:"over_three_hours"`
	BySeverity      map[string]int `json:"by_severity"`
}

type WaitTimesResponse struct {
	Source    string             `json:"source"`
	FetchedAt time.Time          `json:"fetched_at"`
	UpdatedAt string             `json:"updated_at"`
	Freshness string             `json:"freshness"`
	Sort      string             `json:"sort"`
	Entries   []WaitTimeResponse `json:"entries"`
	Best      []WaitTimeResponse `json:"best"`
	Stats     StatsResponse      `json:"stats"`
	Dropped   []string           `json:"dropped"`
}
