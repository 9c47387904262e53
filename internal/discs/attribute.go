package discs

import "strconv"

// Attribute names one tracked column of the guess grid.
type Attribute string

const (
	AttrBrand Attribute = "brand"
	AttrName  Attribute = "name"
	AttrType  Attribute = "type"
	AttrSpeed Attribute = "speed"
	AttrGlide Attribute = "glide"
	AttrTurn  Attribute = "turn"
	AttrFade  Attribute = "fade"
)

// Attributes is the fixed column order used for feedback and share rows.
var Attributes = []Attribute{AttrBrand, AttrName, AttrType, AttrSpeed, AttrGlide, AttrTurn, AttrFade}

// NumericAttributes are the flight numbers, in label order.
var NumericAttributes = []Attribute{AttrSpeed, AttrGlide, AttrTurn, AttrFade}

// Numeric reports whether a is a flight number.
func (a Attribute) Numeric() bool {
	switch a {
	case AttrSpeed, AttrGlide, AttrTurn, AttrFade:
		return true
	}
	return false
}

// Number returns the flight number for a; ok is false for text attributes.
func (d Disc) Number(a Attribute) (v float64, ok bool) {
	switch a {
	case AttrSpeed:
		return d.Speed, true
	case AttrGlide:
		return d.Glide, true
	case AttrTurn:
		return d.Turn, true
	case AttrFade:
		return d.Fade, true
	}
	return 0, false
}

// Value returns the attribute rendered as text.
func (d Disc) Value(a Attribute) string {
	switch a {
	case AttrBrand:
		return d.Brand
	case AttrName:
		return d.Name
	case AttrType:
		return d.Type
	}
	if v, ok := d.Number(a); ok {
		return FormatNumber(v)
	}
	return ""
}

// FormatNumber prints flight numbers the way they are printed on discs:
// 2, -1.5, 0.5.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// AttrSet is a small set of attributes.
type AttrSet map[Attribute]struct{}

// NewAttrSet builds a set from attrs.
func NewAttrSet(attrs ...Attribute) AttrSet {
	s := make(AttrSet, len(attrs))
	for _, a := range attrs {
		s[a] = struct{}{}
	}
	return s
}

// Has reports membership; a nil set has no members.
func (s AttrSet) Has(a Attribute) bool {
	_, ok := s[a]
	return ok
}

// Sorted lists members in column order.
func (s AttrSet) Sorted() []Attribute {
	var out []Attribute
	for _, a := range Attributes {
		if s.Has(a) {
			out = append(out, a)
		}
	}
	return out
}
