// internal/powerup/powerup.go
//
// Powerups: optional hints a player unlocks after missing.
//
// A session offers two choices after the 2nd miss and two more after the 4th.
// In daily mode the offered pairs come from a seeded stream so everyone sees
// the same pair on the same UTC day; the second pair is additionally keyed by
// what the player already chose, so it is stable across reloads.
//
// Effects:
//   - hint:      text-only clue rendered from the answer (profile, speed bucket...)
//   - direction: higher/lower arrows for one flight number on every row
//   - value:     the flight number is shown next to every disc in the picker
//   - full scan: every flight number gets arrows, starting with the next guess
package powerup

import (
	"sort"
	"strings"

	"github.com/robalobadob/discdle/internal/discs"
	"github.com/robalobadob/discdle/internal/prng"
)

// Rarity controls how often a powerup is offered. Rare ones are half as likely.
type Rarity string

const (
	Common Rarity = "common"
	Rare   Rarity = "rare"
)

// Effect is what choosing a powerup does to the board.
type Effect string

const (
	EffectHint      Effect = "hint"
	EffectDirection Effect = "direction"
	EffectValue     Effect = "value"
	EffectFullScan  Effect = "full_scan"
)

// Powerup is a static definition. Presentation (icons, markup) lives in the client.
type Powerup struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Rarity      Rarity          `json:"rarity"`
	Effect      Effect          `json:"effect"`
	Stat        discs.Attribute `json:"stat,omitempty"`

	hint func(answer discs.Disc) string
}

// Hint renders the clue text shown once the powerup is chosen.
func (p Powerup) Hint(answer discs.Disc) string {
	if p.hint == nil {
		return ""
	}
	return p.hint(answer)
}

const (
	FullScanID = "full-scan"
)

var defs = []Powerup{
	{ID: "rim-scan", Name: "Rim Scan", Description: "Reveal the disc side profile.", Rarity: Common, Effect: EffectHint,
		hint: func(a discs.Disc) string { return ProfileLabel(a.Profile) }},
	{ID: "flight-trace", Name: "Flight Trace", Description: "Reveal a stability flight arc.", Rarity: Common, Effect: EffectHint,
		hint: func(a discs.Disc) string { return StabilityOf(a).Label() }},
	{ID: "speedometer", Name: "Speedometer", Description: "Reveal a speed range bucket.", Rarity: Common, Effect: EffectHint,
		hint: SpeedHint},
	{ID: "glide-gauge", Name: "Glide Gauge", Description: "Reveal a glide range bucket.", Rarity: Common, Effect: EffectHint,
		hint: GlideHint},
	{ID: "mold-id", Name: "Mold ID", Description: "Reveal the disc category.", Rarity: Common, Effect: EffectHint,
		hint: func(a discs.Disc) string { return a.Type }},

	direction("velocity-radar", "Velocity Radar", discs.AttrSpeed),
	direction("lift-meter", "Lift Meter", discs.AttrGlide),
	direction("torque-compass", "Torque Compass", discs.AttrTurn),
	direction("fade-finder", "Fade Finder", discs.AttrFade),

	scanner("speed-scanner", "Speed Scanner", discs.AttrSpeed),
	scanner("glide-scanner", "Glide Scanner", discs.AttrGlide),
	scanner("turn-scanner", "Turn Scanner", discs.AttrTurn),
	scanner("fade-scanner", "Fade Scanner", discs.AttrFade),

	{ID: FullScanID, Name: "Full Scan", Description: "Next guess reveals all numbers.", Rarity: Rare, Effect: EffectFullScan,
		hint: func(discs.Disc) string { return "All numbers revealed on next guess" }},
}

func direction(id, name string, stat discs.Attribute) Powerup {
	return Powerup{
		ID: id, Name: name, Description: "Show higher/lower for " + string(stat) + ".",
		Rarity: Common, Effect: EffectDirection, Stat: stat,
		hint: func(discs.Disc) string { return title(stat) + " direction enabled" },
	}
}

func scanner(id, name string, stat discs.Attribute) Powerup {
	return Powerup{
		ID: id, Name: name, Description: "See " + string(stat) + " of all options.",
		Rarity: Rare, Effect: EffectValue, Stat: stat,
		hint: func(discs.Disc) string { return title(stat) + " values revealed" },
	}
}

func title(a discs.Attribute) string {
	s := string(a)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

var byID = func() map[string]Powerup {
	m := make(map[string]Powerup, len(defs))
	for _, p := range defs {
		m[p.ID] = p
	}
	return m
}()

// All returns every powerup in definition order.
func All() []Powerup { return append([]Powerup(nil), defs...) }

// ByID looks up a powerup definition.
func ByID(id string) (Powerup, bool) {
	p, ok := byID[id]
	return p, ok
}

// PickChoices offers up to two distinct powerups not in exclude.
//
// Common powerups enter the pool twice and rare ones once. The pool is
// shuffled with src (Fisher-Yates) and the first two distinct ids win.
func PickChoices(exclude []string, src prng.Source) []string {
	skip := make(map[string]struct{}, len(exclude))
	for _, id := range exclude {
		skip[id] = struct{}{}
	}
	var pool []string
	for _, p := range defs {
		if _, ok := skip[p.ID]; ok {
			continue
		}
		pool = append(pool, p.ID)
		if p.Rarity != Rare {
			pool = append(pool, p.ID)
		}
	}

	for i := len(pool) - 1; i > 0; i-- {
		j := int(src() * float64(i+1))
		if j > i {
			j = i
		}
		pool[i], pool[j] = pool[j], pool[i]
	}

	out := make([]string, 0, 2)
	seen := make(map[string]struct{}, 2)
	for _, id := range pool {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
		if len(out) == 2 {
			break
		}
	}
	return out
}

// OfferKey is the seed key of a daily offer. The first offer depends only on
// the date; the second also on the sorted ids already chosen.
func OfferKey(dateKey string, second bool, chosen []string) string {
	if !second {
		return dateKey + "-powerups-first"
	}
	ids := append([]string(nil), chosen...)
	sort.Strings(ids)
	return dateKey + "-powerups-second-" + strings.Join(ids, ",")
}

// OfferSource returns the random source for an offer: seeded for daily games,
// unseeded otherwise.
func OfferSource(seeded bool, dateKey string, second bool, chosen []string) prng.Source {
	if !seeded {
		return prng.Unseeded()
	}
	return prng.Seeded(OfferKey(dateKey, second, chosen))
}
