package domain

// Represents a public hospital with an Accident & Emergency department.
// Hospitals are reference data: loaded once at startup and never mutated.
type Hospital struct {
	ID          string
	Name        string
	Address     string
	Phone       string
	Fax         string
	Coordinates Coordinates
	// Hong Kong Island, Kowloon or New Territories.
	District string
	// Area within the district, e.g. "Southern".
	Region string
	// Hospital Authority cluster, e.g. "Hong Kong West".
	Cluster string
}
