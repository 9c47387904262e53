package game

import "github.com/robalobadob/discdle/internal/discs"

// Score compares a guess against the answer attribute by attribute.
// Numbers are compared by exact value.
func Score(guess, answer discs.Disc) Feedback {
	fb := make(Feedback, len(discs.Attributes))
	for _, a := range discs.Attributes {
		fb[a] = MarkWrong
		if equal(guess, answer, a) {
			fb[a] = MarkExact
		}
	}
	return fb
}

func equal(g, ans discs.Disc, a discs.Attribute) bool {
	if gv, ok := g.Number(a); ok {
		av, _ := ans.Number(a)
		return gv == av
	}
	return g.Value(a) == ans.Value(a)
}

// DisplayStatus is what a cell shows. Raw exact always wins; a wrong flight
// number shows a direction when its stat is direction-revealed, or when
// the row is rendered live with full scan applying to it. Share text passes
// live=false so full scan never leaks into it.
func DisplayStatus(rec GuessRecord, a discs.Attribute, answer discs.Disc, directions discs.AttrSet, live, allNumbers bool) Mark {
	if rec.Feedback[a] == MarkExact {
		return MarkExact
	}
	if !a.Numeric() {
		return MarkWrong
	}
	if (live && allNumbers) || directions.Has(a) {
		gv, _ := rec.Disc.Number(a)
		av, _ := answer.Number(a)
		if gv < av {
			return MarkHigher
		}
		return MarkLower
	}
	return MarkWrong
}
