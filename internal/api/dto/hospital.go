package dto

type HospitalResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Address  string  `json:"address"`
	Phone    string  `json:"phone"`
	Fax      string  `json:"fax"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	District string  `json:"district"`
	Region   string  `json:"region"`
	Cluster  string  `json:"cluster"`
}

type ListHospitalResponse struct {
	Query     string             `json:"query"`
	Hospitals []HospitalResponse `json:"hospitals"`
}

type HospitalDetailResponse struct {
	Hospital HospitalResponse  `json:"hospital"`
	WaitTime *WaitTimeResponse `json:"wait_time"`
	Selected bool              `json:"selected"`
}
