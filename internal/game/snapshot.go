package game

import (
	"github.com/robalobadob/discdle/internal/discs"
	"github.com/robalobadob/discdle/internal/powerup"
)

// Cell is one rendered attribute of a guess row.
type Cell struct {
	Attr  discs.Attribute `json:"attr"`
	Value string          `json:"value"`
	Mark  Mark            `json:"mark"`
}

// Row is one rendered guess.
type Row struct {
	Seq    int    `json:"seq"`
	DiscID string `json:"discId"`
	Cells  []Cell `json:"cells"`
}

// HintView is a chosen powerup with its rendered clue.
type HintView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Text string `json:"text"`
}

// Snapshot is the client-facing view of a session. The answer is only
// included once the game is over.
type Snapshot struct {
	ID           string            `json:"id"`
	Mode         Mode              `json:"mode"`
	Date         string            `json:"date"`
	Theme        string            `json:"theme,omitempty"`
	Status       Status            `json:"status"`
	MaxGuesses   int               `json:"maxGuesses"`
	Misses       int               `json:"misses"`
	Rows         []Row             `json:"rows"`
	Offer        []powerup.Powerup `json:"offer"`
	Chosen       []HintView        `json:"chosen"`
	ValueReveals []discs.Attribute `json:"valueReveals"`
	Timer        *TimerState       `json:"timer,omitempty"`
	Answer       *discs.Disc       `json:"answer,omitempty"`
}

// NewSnapshot renders s with the live board statuses.
func NewSnapshot(s *Session) Snapshot {
	answer := s.Answer()
	snap := Snapshot{
		ID:           s.ID(),
		Mode:         s.Mode(),
		Date:         s.Date(),
		Theme:        s.Mode().Theme(),
		Status:       s.Status(),
		MaxGuesses:   MaxGuesses,
		Misses:       s.Misses(),
		Rows:         []Row{},
		Offer:        []powerup.Powerup{},
		Chosen:       []HintView{},
		ValueReveals: s.Reveal().Values.Sorted(),
	}
	for i, g := range s.Guesses() {
		row := Row{Seq: g.Seq, DiscID: g.Disc.ID}
		for _, a := range discs.Attributes {
			row.Cells = append(row.Cells, Cell{Attr: a, Value: g.Disc.Value(a), Mark: s.CellStatus(i, a)})
		}
		snap.Rows = append(snap.Rows, row)
	}
	for _, id := range s.PendingOffer() {
		if p, ok := powerup.ByID(id); ok {
			snap.Offer = append(snap.Offer, p)
		}
	}
	for _, id := range s.Chosen() {
		if p, ok := powerup.ByID(id); ok {
			snap.Chosen = append(snap.Chosen, HintView{ID: p.ID, Name: p.Name, Text: p.Hint(answer)})
		}
	}
	if s.Mode() == ModeHardcore {
		t := s.Timer()
		snap.Timer = &t
	}
	if s.Status().Terminal() {
		snap.Answer = &answer
	}
	return snap
}
