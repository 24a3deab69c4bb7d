package cities

import "pitfinder-backend/internal/models"

const cityDelta = 0.1

var oklahoma = []struct {
	name     string
	lat, lng float64
}{
	{"oklahoma city", 35.4676, -97.5164},
	{"tulsa", 36.1540, -95.9928},
	{"norman", 35.2226, -97.4395},
	{"edmond", 35.6528, -97.4781},
	{"broken arrow", 36.0526, -95.7908},
	{"lawton", 34.6036, -98.3960},
	{"moore", 35.3395, -97.4867},
	{"midwest city", 35.4495, -97.3967},
	{"stillwater", 36.1156, -97.0584},
	{"enid", 36.3956, -97.8784},
	{"muskogee", 35.7479, -95.3697},
	{"bartlesville", 36.7473, -95.9708},
	{"shawnee", 35.3276, -96.9253},
	{"owasso", 36.2695, -95.8547},
	{"yukon", 35.5006, -97.7428},
}

// Default returns the built-in Oklahoma directory. Each city appears
// as "<city>, ok" followed by "<city>".
func Default() *Directory {
	entries := make([]Entry, 0, len(oklahoma)*2)
	for _, c := range oklahoma {
		region := models.Region{
			Latitude:       c.lat,
			Longitude:      c.lng,
			LatitudeDelta:  cityDelta,
			LongitudeDelta: cityDelta,
		}
		entries = append(entries,
			Entry{Name: c.name + ", ok", Region: region},
			Entry{Name: c.name, Region: region},
		)
	}

	d, err := New(entries)
	if err != nil {
		panic(err)
	}
	return d
}
