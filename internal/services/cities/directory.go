package cities

import (
	"fmt"
	"strings"

	"pitfinder-backend/internal/models"
)

// MaxSuggestions caps the autocomplete list
const MaxSuggestions = 5

// Entry is one name in the directory
type Entry struct {
	Name   string
	Region models.Region
}

// Directory maps lowercase city names to map regions.
// Entries keep insertion order; suggestions and the generated
// catalogue both depend on it.
type Directory struct {
	entries []Entry
	index   map[string]int
}

// New builds a directory from entries, rejecting duplicate names
func New(entries []Entry) (*Directory, error) {
	d := &Directory{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		name := strings.ToLower(e.Name)
		if _, dup := d.index[name]; dup {
			return nil, fmt.Errorf("duplicate city %q", name)
		}
		d.index[name] = len(d.entries)
		d.entries = append(d.entries, Entry{Name: name, Region: e.Region})
	}
	return d, nil
}

// Lookup finds a region by exact (already normalized) name
func (d *Directory) Lookup(name string) (models.Region, bool) {
	i, ok := d.index[name]
	if !ok {
		return models.Region{}, false
	}
	return d.entries[i].Region, true
}

// Resolve normalizes free text (trim, lowercase) and looks it up.
// It returns the normalized key alongside the region.
func (d *Directory) Resolve(text string) (string, models.Region, bool) {
	key := Normalize(text)
	region, ok := d.Lookup(key)
	return key, region, ok
}

// Names returns every key in directory order
func (d *Directory) Names() []string {
	names := make([]string, len(d.entries))
	for i, e := range d.entries {
		names[i] = e.Name
	}
	return names
}

// SuffixedNames returns the "<city>, <state>" keys in directory order
func (d *Directory) SuffixedNames() []string {
	var names []string
	for _, e := range d.entries {
		if IsSuffixed(e.Name) {
			names = append(names, e.Name)
		}
	}
	return names
}

// Suggest filters suffixed names by case-insensitive substring match.
// A blank query yields no suggestions.
func (d *Directory) Suggest(query string) []string {
	suggestions := []string{}
	if strings.TrimSpace(query) == "" {
		return suggestions
	}

	q := strings.ToLower(query)
	for _, e := range d.entries {
		if !IsSuffixed(e.Name) {
			continue
		}
		if strings.Contains(e.Name, q) {
			suggestions = append(suggestions, e.Name)
			if len(suggestions) == MaxSuggestions {
				break
			}
		}
	}
	return suggestions
}

// Validate checks that every suffixed entry has an unsuffixed twin
// with the same region
func (d *Directory) Validate() error {
	for _, e := range d.entries {
		if !IsSuffixed(e.Name) {
			continue
		}
		bare := e.Name[:strings.Index(e.Name, ", ")]
		region, ok := d.Lookup(bare)
		if !ok {
			return fmt.Errorf("city %q has no entry for %q", e.Name, bare)
		}
		if region != e.Region {
			return fmt.Errorf("city %q and %q map to different regions", e.Name, bare)
		}
	}
	return nil
}

// Normalize trims and lowercases a search query
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// IsSuffixed reports whether a key carries a ", <state>" suffix
func IsSuffixed(name string) bool {
	return strings.Contains(name, ", ")
}
