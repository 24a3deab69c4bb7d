package models

// Mode is the map screen's interaction state
type Mode string

const (
	ModeIdle              Mode = "IDLE"               // Nothing in progress
	ModeSelectingAction   Mode = "SELECTING_ACTION"   // Driver picks Dump or Pick Up
	ModeSelectingMaterial Mode = "SELECTING_MATERIAL" // Driver picks a material
	ModeShowingPits       Mode = "SHOWING_PITS"       // Results on the map
	ModeLocationSaved     Mode = "LOCATION_SAVED"     // Pit/Buyer saved their site
)

// DriverAction is what a driver chooses in the action prompt
type DriverAction string

const (
	ActionDump   DriverAction = "DUMP"
	ActionPickup DriverAction = "PICKUP"
)

// Marker is a site as handed to the map surface
type Marker struct {
	ID         string     `json:"id"`
	Coordinate Coordinate `json:"coordinate"`
	Color      string     `json:"color"`
	Fill       string     `json:"fill"`
	Label      string     `json:"label"`
	Site       Site       `json:"site"`
}

// Notice is a user-visible alert raised by the map screen
type Notice struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// LegendEntry explains one marker color to drivers
type LegendEntry struct {
	Color string `json:"color"`
	Label string `json:"label"`
}

// MapView is a snapshot of everything the map screen renders
type MapView struct {
	Loading          bool          `json:"loading"`
	Role             *Role         `json:"role"`
	Language         Language      `json:"language"`
	Mode             Mode          `json:"mode"`
	Region           Region        `json:"region"`
	UserLocation     *Coordinate   `json:"user_location,omitempty"`
	LocationError    *string       `json:"location_error,omitempty"`
	SearchQuery      string        `json:"search_query"`
	IsSearching      bool          `json:"is_searching"`
	Suggestions      []string      `json:"suggestions"`
	SearchedCity     *string       `json:"searched_city"`
	SelectedMaterial *string       `json:"selected_material"`
	SelectedSite     *Site         `json:"selected_site"`
	Markers          []Marker      `json:"markers"`
	Legend           []LegendEntry `json:"legend,omitempty"`
	Notices          []Notice      `json:"notices,omitempty"`
}
