package daily

import (
	"strconv"
	"time"

	"github.com/robalobadob/discdle/internal/discs"
	"github.com/robalobadob/discdle/internal/prng"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Seed returns the UTC calendar date as the integer YYYYMMDD.
func Seed(t time.Time) uint32 {
	n, _ := strconv.ParseUint(t.UTC().Format("20060102"), 10, 32)
	return uint32(n)
}

// Index returns the catalog index of the daily answer for a catalog of n discs.
func Index(t time.Time, n int) int {
	if n <= 0 {
		return 0
	}
	return int(Seed(t) % uint32(n))
}

// SelectDaily picks the day's answer. Every player worldwide gets the same
// disc for the same UTC date.
func SelectDaily(c *discs.Catalog, t time.Time) discs.Disc {
	return c.At(Index(t, c.Len()))
}

// SelectRandom picks a uniformly random disc for casual and hardcore games.
func SelectRandom(c *discs.Catalog, src prng.Source) discs.Disc {
	i := int(src() * float64(c.Len()))
	// the LCG can emit exactly 1.0
	if i >= c.Len() {
		i = c.Len() - 1
	}
	if i < 0 {
		i = 0
	}
	return c.At(i)
}
