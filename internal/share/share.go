// internal/share/share.go
//
// Share text for a finished game and the share attempt itself.
//
//	Discdle 5/6
//	⬛⬛⬛🟨⬛🟨🟩
//	🟩🟩🟩🟩🟩🟩🟩
//
// Rows use the same cell logic as the board, except that full scan never
// shows: it is a one-guess effect and the grid must look the same no matter
// when it is rebuilt.
package share

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/discdle/internal/discs"
	"github.com/robalobadob/discdle/internal/game"
)

// DefaultTitle heads the share text.
const DefaultTitle = "Discdle"

var emoji = map[game.Mark]string{
	game.MarkExact:  "🟩",
	game.MarkWrong:  "⬛",
	game.MarkHigher: "🟨",
	game.MarkLower:  "🟨",
}

// Build renders the score line and one emoji row per guess.
// An empty history renders as "".
func Build(title string, guesses []game.GuessRecord, won bool, answer discs.Disc, directions discs.AttrSet) string {
	if len(guesses) == 0 {
		return ""
	}
	score := "X"
	if won {
		score = fmt.Sprint(len(guesses))
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s/%d", title, score, game.MaxGuesses)
	for _, g := range guesses {
		b.WriteByte('\n')
		for _, a := range discs.Attributes {
			b.WriteString(emoji[game.DisplayStatus(g, a, answer, directions, false, false)])
		}
	}
	return b.String()
}

// FromSession builds the share text for a session.
func FromSession(title string, s *game.Session) string {
	return Build(title, s.Guesses(), s.Won(), s.Answer(), s.Reveal().Directions)
}

// Outcome is the user-visible result of a share attempt.
type Outcome string

const (
	Shared      Outcome = "shared"
	Copied      Outcome = "copied"
	Unsupported Outcome = "unsupported"
	Failed      Outcome = "failed"
)

// Message is the status line shown to the player.
func (o Outcome) Message() string {
	switch o {
	case Shared:
		return "Shared successfully."
	case Copied:
		return "Copied to clipboard. Paste it anywhere to share."
	case Unsupported:
		return "Sharing is not supported in this browser. Copy the text manually."
	case Failed:
		return "Share failed. Try copying the text manually."
	}
	return ""
}

// Sharer hands text to a native share sheet.
type Sharer interface {
	Share(ctx context.Context, title, text string) error
}

// Copier puts text on a clipboard.
type Copier interface {
	Copy(ctx context.Context, text string) error
}

// ErrUnavailable is returned by a sink that exists but cannot be used
// right now; Attempt falls through to the next sink.
var ErrUnavailable = errors.New("share: sink unavailable")

// Attempt tries the native sharer, then the clipboard. Nil sinks are
// skipped. It never fails; errors become the Failed outcome.
func Attempt(ctx context.Context, native Sharer, clip Copier, title, text string) Outcome {
	if text == "" {
		return Unsupported
	}
	if native != nil {
		err := native.Share(ctx, title, text)
		switch {
		case err == nil:
			return Shared
		case !errors.Is(err, ErrUnavailable):
			log.Warn().Err(err).Msg("native share")
			return Failed
		}
	}
	if clip != nil {
		err := clip.Copy(ctx, text)
		switch {
		case err == nil:
			return Copied
		case !errors.Is(err, ErrUnavailable):
			log.Warn().Err(err).Msg("clipboard copy")
			return Failed
		}
	}
	return Unsupported
}
