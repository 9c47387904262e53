package powerup

import (
	"github.com/robalobadob/discdle/internal/discs"
)

// NotApplied marks a session where full scan was never chosen.
const NotApplied = -1

// RevealState is the combined effect of every chosen powerup. It is derived
// on demand and never stored.
type RevealState struct {
	Directions discs.AttrSet `json:"-"`
	Values     discs.AttrSet `json:"-"`
	FullScan   bool          `json:"fullScan"`
	// FullScanAfter is the guess count when full scan was chosen.
	FullScanAfter int `json:"fullScanAfter"`
}

// Reveal folds chosen powerups into a RevealState. Unknown ids are ignored.
func Reveal(chosen []string, fullScanAfter int) RevealState {
	r := RevealState{
		Directions:    discs.AttrSet{},
		Values:        discs.AttrSet{},
		FullScanAfter: fullScanAfter,
	}
	for _, id := range chosen {
		p, ok := ByID(id)
		if !ok {
			continue
		}
		switch p.Effect {
		case EffectDirection:
			r.Directions[p.Stat] = struct{}{}
		case EffectValue:
			r.Values[p.Stat] = struct{}{}
		case EffectFullScan:
			r.FullScan = true
		}
	}
	return r
}

// FullScanApplies reports whether the guess with 1-based sequence number seq
// shows arrows on every flight number. Only guesses submitted after the
// powerup was chosen qualify.
func (r RevealState) FullScanApplies(seq int) bool {
	return r.FullScan && r.FullScanAfter != NotApplied && seq > r.FullScanAfter
}

// Label is the picker text for a disc with value-revealed stats appended.
func Label(d discs.Disc, values discs.AttrSet) string {
	label := d.Name
	for _, a := range []discs.Attribute{discs.AttrTurn, discs.AttrSpeed, discs.AttrGlide, discs.AttrFade} {
		if values.Has(a) {
			label += " - " + title(a) + ": " + d.Value(a)
		}
	}
	return label
}
