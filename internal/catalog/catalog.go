package catalog

import (
	"ae-dashboard-service/internal/domain"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/cases"
)

//go:embed hospitals.json
var bundledHospitals []byte

// HospitalSeed is the on-disk shape of one catalog entry.
type HospitalSeed struct {
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

// Catalog is the immutable set of known hospitals.
// It is safe for concurrent use because nothing mutates it after Load.
type Catalog struct {
	hospitals []domain.Hospital
	byID      map[string]int
	byName    map[string]int
}

// Default returns the catalog bundled with the binary.
func Default() (*Catalog, error) {
	return Load(bundledHospitals)
}

// LoadFile reads a catalog from a JSON file with the bundled format.
func LoadFile(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load catalog: read %q: %w", path, err)
	}
	return Load(b)
}

// Load parses and validates catalog JSON.
func Load(data []byte) (*Catalog, error) {
	var seeds []HospitalSeed
	if err := json.Unmarshal(data, &seeds); err != nil {
		return nil, fmt.Errorf("load catalog: parse json: %w", err)
	}

	if len(seeds) == 0 {
		return nil, fmt.Errorf("load catalog: no hospitals")
	}

	c := &Catalog{
		hospitals: make([]domain.Hospital, 0, len(seeds)),
		byID:      make(map[string]int, len(seeds)),
		byName:    make(map[string]int, len(seeds)),
	}

	for i, s := range seeds {
		id := strings.ToUpper(strings.TrimSpace(s.ID))
		if id == "" {
			return nil, fmt.Errorf("load catalog: item at index %d: id cannot be empty", i+1)
		}

		name := strings.Join(strings.Fields(s.Name), " ")
		if name == "" {
			return nil, fmt.Errorf("load catalog: item %s: name cannot be empty", id)
		}

		coords := domain.Coordinates{Lat: s.Lat, Lon: s.Lon}
		if !coords.Valid() || (s.Lat == 0 && s.Lon == 0) {
			return nil, fmt.Errorf("load catalog: item %s: invalid coordinates (%v, %v)", id, s.Lat, s.Lon)
		}

		if _, dup := c.byID[id]; dup {
			return nil, fmt.Errorf("load catalog: duplicate id %s", id)
		}
		key := fold(name)
		if _, dup := c.byName[key]; dup {
			return nil, fmt.Errorf("load catalog: duplicate name %q", name)
		}

		c.byID[id] = len(c.hospitals)
		c.byName[key] = len(c.hospitals)
		c.hospitals = append(c.hospitals, domain.Hospital{
			ID:          id,
			Name:        name,
			Address:     strings.TrimSpace(s.Address),
			Phone:       strings.TrimSpace(s.Phone),
			Fax:         strings.TrimSpace(s.Fax),
			Coordinates: coords,
			District:    strings.TrimSpace(s.District),
			Region:      strings.TrimSpace(s.Region),
			Cluster:     strings.TrimSpace(s.Cluster),
		})
	}

	return c, nil
}

func (c *Catalog) Len() int { return len(c.hospitals) }

// All returns the hospitals in load order.
func (c *Catalog) All() []domain.Hospital {
	return append([]domain.Hospital(nil), c.hospitals...)
}

func (c *Catalog) Get(id string) (domain.Hospital, bool) {
	i, ok := c.byID[strings.ToUpper(strings.TrimSpace(id))]
	if !ok {
		return domain.Hospital{}, false
	}
	return c.hospitals[i], true
}

// Lookup resolves an upstream hospital name (or an id) to a catalog entry.
// Matching ignores case and repeated whitespace.
func (c *Catalog) Lookup(name string) (domain.Hospital, bool) {
	if i, ok := c.byName[fold(name)]; ok {
		return c.hospitals[i], true
	}
	return c.Get(name)
}

// Search matches a free-text term against hospital names and addresses.
//
// An empty term matches everything. Otherwise a hospital matches when the
// term equals its id, the whole phrase occurs in its name or address, or
// every word of three or more characters occurs in one of them.
// A miss returns an empty slice.
func (c *Catalog) Search(term string) []domain.Hospital {
	q := fold(term)
	if q == "" {
		return c.All()
	}

	words := make([]string, 0, 4)
	for _, w := range strings.Fields(q) {
		if len([]rune(w)) >= 3 {
			words = append(words, w)
		}
	}

	out := make([]domain.Hospital, 0)
	for _, h := range c.hospitals {
		if strings.EqualFold(h.ID, strings.TrimSpace(term)) {
			out = append(out, h)
			continue
		}

		name := fold(h.Name)
		addr := fold(h.Address)
		if strings.Contains(name, q) || strings.Contains(addr, q) {
			out = append(out, h)
			continue
		}

		if len(words) == 0 {
			continue
		}
		all := true
		for _, w := range words {
			if !strings.Contains(name, w) && !strings.Contains(addr, w) {
				all = false
				break
			}
		}
		if all {
			out = append(out, h)
		}
	}

	return out
}

// fold normalizes text for comparisons. A Caser is stateful, so one is
// created per call.
func fold(s string) string {
	return cases.Fold().String(strings.Join(strings.Fields(s), " "))
}
