package powerup

import "github.com/robalobadob/discdle/internal/discs"

// SpeedHint buckets the answer's speed.
func SpeedHint(a discs.Disc) string {
	switch {
	case a.Speed <= 4:
		return "Speed 4 or lower"
	case a.Speed <= 7:
		return "Speed 5-7"
	case a.Speed <= 9:
		return "Speed 8-9"
	case a.Speed <= 12:
		return "Speed 10-12"
	}
	return "Speed 13+"
}

// GlideHint buckets the answer's glide.
func GlideHint(a discs.Disc) string {
	switch {
	case a.Glide <= 3:
		return "Glide 3 or lower"
	case a.Glide <= 5:
		return "Glide 4-5"
	case a.Glide <= 6:
		return "Glide 6"
	}
	return "Glide 7+"
}

// ProfileLabel is the display name of a rim profile.
func ProfileLabel(p discs.Profile) string {
	switch p {
	case discs.ProfileFlat:
		return "Flat"
	case discs.ProfileModerate:
		return "Moderate"
	case discs.ProfileDomey:
		return "Domey"
	}
	return string(p)
}

// Stability is the flight-arc bucket drawn by Flight Trace.
type Stability string

const (
	Understable Stability = "understable"
	Stable      Stability = "stable"
	Overstable  Stability = "overstable"
)

// StabilityOf buckets turn+fade. The thresholds are a presentation rule.
func StabilityOf(a discs.Disc) Stability {
	score := a.Turn + a.Fade
	switch {
	case score <= -1.5:
		return Understable
	case score >= 2.5:
		return Overstable
	}
	return Stable
}

func (s Stability) Label() string {
	switch s {
	case Understable:
		return "Understable"
	case Overstable:
		return "Overstable"
	}
	return "Stable"
}
