package cities

import (
	"fmt"
	"strings"

	"pitfinder-backend/internal/models"
)

// Placeholder contact details carried by every generated site
const (
	generatedPrice = "$249.99"
	generatedHours = "8am - 6pm"
	generatedPhone = "555-0123"
)

// GenerateSites builds one site per suffixed city in directory order,
// alternating DUMP (even index) and PICKUP (odd index)
func GenerateSites(d *Directory) []models.Site {
	names := d.SuffixedNames()
	sites := make([]models.Site, 0, len(names))
	for i, name := range names {
		region, _ := d.Lookup(name)

		siteType := models.SiteTypeDump
		if i%2 != 0 {
			siteType = models.SiteTypePickup
		}

		materials := make([]string, len(models.MaterialTypes))
		copy(materials, models.MaterialTypes)

		sites = append(sites, models.Site{
			ID:         fmt.Sprintf("generated-%d", i),
			Name:       strings.ToUpper(name),
			Coordinate: region.Center(),
			Materials:  materials,
			Price:      generatedPrice,
			Phone:      generatedPhone,
			Hours:      generatedHours,
			Type:       siteType,
		})
	}
	return sites
}
