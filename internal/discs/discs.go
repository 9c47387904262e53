// internal/discs/discs.go
//
// The disc catalog: the fixed, ordered list of discs players guess from.
//
// Responsibilities:
//   - Load the catalog from a DISCS_FILE-provided JSON file, or fall back to
//     the embedded default in assets/discs.json.
//   - Validate entries (non-empty id/brand/name, unique ids, known profile).
//   - Lookups by id, by brand, by "brand name" free text, and brand listing.
//
// Order matters: the daily answer is picked by index, so two servers with the
// same file always agree on the day's disc.
package discs

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/robalobadob/discdle/assets"
)

// Profile is the rim profile of a disc as seen from the side.
type Profile string

const (
	ProfileFlat     Profile = "flat"
	ProfileModerate Profile = "moderate"
	ProfileDomey    Profile = "domey"
)

// Disc is a single catalog entry. Immutable once loaded.
type Disc struct {
	ID      string  `json:"id"`
	Brand   string  `json:"brand"`
	Name    string  `json:"name"`
	Type    string  `json:"type"`
	Speed   float64 `json:"speed"`
	Glide   float64 `json:"glide"`
	Turn    float64 `json:"turn"`
	Fade    float64 `json:"fade"`
	Profile Profile `json:"profile"`
}

// FullName is the "Brand Name" form typed in hardcore mode.
func (d Disc) FullName() string { return d.Brand + " " + d.Name }

// Catalog is an ordered, read-only disc list with lookup indexes.
type Catalog struct {
	discs  []Disc
	byID   map[string]int
	brands []string
}

// New validates list and builds a Catalog over a copy of it.
func New(list []Disc) (*Catalog, error) {
	if len(list) == 0 {
		return nil, errors.New("discs: catalog is empty")
	}
	c := &Catalog{
		discs: append([]Disc(nil), list...),
		byID:  make(map[string]int, len(list)),
	}
	seen := make(map[string]struct{})
	for i, d := range c.discs {
		if d.ID == "" || d.Brand == "" || d.Name == "" {
			return nil, fmt.Errorf("discs: entry %d is missing id, brand or name", i)
		}
		if _, dup := c.byID[d.ID]; dup {
			return nil, fmt.Errorf("discs: duplicate id %q", d.ID)
		}
		switch d.Profile {
		case ProfileFlat, ProfileModerate, ProfileDomey:
		default:
			return nil, fmt.Errorf("discs: %s has unknown profile %q", d.ID, d.Profile)
		}
		c.byID[d.ID] = i
		if _, ok := seen[d.Brand]; !ok {
			seen[d.Brand] = struct{}{}
			c.brands = append(c.brands, d.Brand)
		}
	}
	sort.Strings(c.brands)
	return c, nil
}

// Parse decodes a JSON array of discs.
func Parse(data []byte) (*Catalog, error) {
	var list []Disc
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("discs: decode: %w", err)
	}
	return New(list)
}

// Load reads the catalog from path, or the embedded default when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		data, err := assets.DiscsJSON()
		if err != nil {
			return nil, fmt.Errorf("discs: embedded catalog: %w", err)
		}
		return Parse(data)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("discs: read %s: %w", path, err)
	}
	return Parse(data)
}

// Len reports the number of discs.
func (c *Catalog) Len() int { return len(c.discs) }

// At returns the disc at index i. Callers keep i in [0, Len()).
func (c *Catalog) At(i int) Disc { return c.discs[i] }

// All returns a copy of the ordered list.
func (c *Catalog) All() []Disc { return append([]Disc(nil), c.discs...) }

// ByID looks up a disc by its id.
func (c *Catalog) ByID(id string) (Disc, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Disc{}, false
	}
	return c.discs[i], true
}

// ByBrand returns the discs of one brand, in catalog order.
func (c *Catalog) ByBrand(brand string) []Disc {
	var out []Disc
	for _, d := range c.discs {
		if d.Brand == brand {
			out = append(out, d)
		}
	}
	return out
}

// Brands lists every brand once, sorted.
func (c *Catalog) Brands() []string { return append([]string(nil), c.brands...) }

// ByFullName matches "Brand Name" case-insensitively after trimming.
// The first catalog entry wins if several share a full name.
func (c *Catalog) ByFullName(text string) (Disc, bool) {
	want := strings.ToLower(strings.TrimSpace(text))
	if want == "" {
		return Disc{}, false
	}
	for _, d := range c.discs {
		if strings.ToLower(d.FullName()) == want {
			return d, true
		}
	}
	return Disc{}, false
}
