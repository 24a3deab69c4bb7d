package models

// Coordinate is a latitude/longitude pair in degrees
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Region is a map viewport: a center plus zoom deltas
type Region struct {
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	LatitudeDelta  float64 `json:"latitudeDelta"`
	LongitudeDelta float64 `json:"longitudeDelta"`
}

// Center returns the region's center point
func (r Region) Center() Coordinate {
	return Coordinate{Latitude: r.Latitude, Longitude: r.Longitude}
}

// SiteType tells drivers whether a site takes or supplies material
type SiteType string

const (
	SiteTypeDump   SiteType = "DUMP"   // Pit accepting material
	SiteTypePickup SiteType = "PICKUP" // Buyer site
)

// Site is a pit or pickup location shown on the map
type Site struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Coordinate Coordinate `json:"coordinate"`
	Materials  []string   `json:"materials"`
	Price      string     `json:"price"` // Display only, e.g. "$12/ton"
	Phone      string     `json:"phone"`
	Hours      string     `json:"hours"` // e.g. "M-F 8am-5pm"
	Type       SiteType   `json:"type,omitempty"`
}

// MaterialTypes is the fixed list drivers pick from when picking up
var MaterialTypes = []string{
	"Red Pit",
	"Sand Pit",
	"Fill Sand",
	"Topsoil",
	"Gravel",
	"Crushed Concrete",
}

// IsMaterialType reports whether m is one of MaterialTypes
func IsMaterialType(m string) bool {
	for _, mt := range MaterialTypes {
		if mt == m {
			return true
		}
	}
	return false
}

// MockSites is the static catalogue kept as fallback data.
// The map itself renders the catalogue generated from the city directory.
func MockSites() []Site {
	return []Site{
		{
			ID:         "1",
			Name:       "Valley Red Pit",
			Coordinate: Coordinate{Latitude: 37.78825, Longitude: -122.4324},
			Materials:  []string{"Red Pit", "Topsoil"},
			Price:      "$15/ton",
			Phone:      "(555) 123-4567",
			Hours:      "M-F 7:00 AM - 5:00 PM",
		},
		{
			ID:         "2",
			Name:       "Bayside Sand & Fill",
			Coordinate: Coordinate{Latitude: 37.75825, Longitude: -122.4624},
			Materials:  []string{"Sand Pit", "Fill Sand", "Gravel"},
			Price:      "$12/ton",
			Phone:      "(555) 987-6543",
			Hours:      "M-Sat 6:00 AM - 4:00 PM",
		},
		{
			ID:         "3",
			Name:       "Downtown Crushing",
			Coordinate: Coordinate{Latitude: 37.77825, Longitude: -122.4124},
			Materials:  []string{"Crushed Concrete", "Gravel"},
			Price:      "$20/ton",
			Phone:      "(555) 555-5555",
			Hours:      "M-F 8:00 AM - 4:00 PM",
		},
		{
			ID:         "4",
			Name:       "Westside Soil",
			Coordinate: Coordinate{Latitude: 37.76825, Longitude: -122.4824},
			Materials:  []string{"Red Pit", "Fill Sand"},
			Price:      "$10/ton",
			Phone:      "(555) 222-3333",
			Hours:      "M-F 7:30 AM - 3:30 PM",
		},
		{
			ID:         "5",
			Name:       "North Bay Aggregates",
			Coordinate: Coordinate{Latitude: 37.80825, Longitude: -122.4224},
			Materials:  []string{"Sand Pit", "Topsoil"},
			Price:      "$18/ton",
			Phone:      "(555) 444-4444",
			Hours:      "M-F 7:00 AM - 5:00 PM",
		},
	}
}
