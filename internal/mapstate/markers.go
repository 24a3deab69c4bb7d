package mapstate

import (
	"pitfinder-backend/internal/i18n"
	"pitfinder-backend/internal/models"
	"pitfinder-backend/internal/services/cities"
)

// SelfMarkerID is the id of the Pit/Buyer "my site" marker
const SelfMarkerID = "user-self-location"

// Marker palette
const (
	ColorRed        = "#EF4444"
	ColorRedFill    = "#FECACA"
	ColorOrange     = "#F97316"
	ColorOrangeFill = "#FFEDD5"
)

// Placeholder contact details on the self-marker
const (
	selfPrice = "N/A"
	selfHours = "9am - 5pm"
	selfPhone = "My Phone"
)

// DeriveMarkers computes the marker set from role, mode and the searched
// city. Drivers always see the whole catalogue; pit operators and
// buyers see only their own saved site, and only while idle or right
// after saving it.
//
// The selected material is not an input; it does not filter the
// catalogue.
func DeriveMarkers(role *models.Role, mode models.Mode, searchedCity *string, dir *cities.Directory, catalogue []models.Site, lang models.Language) []models.Marker {
	markers := []models.Marker{}
	if role == nil {
		return markers
	}

	if *role == models.RoleDriver {
		for _, site := range catalogue {
			markers = append(markers, toMarker(role, site))
		}
		return markers
	}

	if searchedCity == nil {
		return markers
	}
	if mode != models.ModeLocationSaved && mode != models.ModeIdle {
		return markers
	}

	region, ok := dir.Lookup(*searchedCity)
	if !ok {
		return markers
	}

	t := i18n.MapText(lang)
	name := t.BuyerSelf
	if *role == models.RolePit {
		name = t.PitSelf
	}

	self := models.Site{
		ID:         SelfMarkerID,
		Name:       name,
		Coordinate: region.Center(),
		Materials:  []string{},
		Price:      selfPrice,
		Phone:      selfPhone,
		Hours:      selfHours,
	}
	return append(markers, toMarker(role, self))
}

// MarkerColors returns the pin stroke and fill for a site. Drivers see
// dump sites red and pickup sites orange; a pit operator's own pin is
// red and a buyer's is orange whatever the site type.
func MarkerColors(role *models.Role, siteType models.SiteType) (color, fill string) {
	if role == nil {
		return ColorRed, ColorRedFill
	}

	switch *role {
	case models.RoleDriver:
		if siteType == models.SiteTypePickup {
			return ColorOrange, ColorOrangeFill
		}
		return ColorRed, ColorRedFill
	case models.RoleBuyer:
		return ColorOrange, ColorOrangeFill
	default:
		return ColorRed, ColorRedFill
	}
}

// Legend explains driver marker colors; other roles get none
func Legend(role *models.Role, lang models.Language) []models.LegendEntry {
	if role == nil || *role != models.RoleDriver {
		return nil
	}
	t := i18n.MapText(lang)
	return []models.LegendEntry{
		{Color: ColorRed, Label: t.DumpSite},
		{Color: ColorOrange, Label: t.PickupSite},
	}
}

func toMarker(role *models.Role, site models.Site) models.Marker {
	color, fill := MarkerColors(role, site.Type)
	return models.Marker{
		ID:         site.ID,
		Coordinate: site.Coordinate,
		Color:      color,
		Fill:       fill,
		Label:      site.Name,
		Site:       site,
	}
}
