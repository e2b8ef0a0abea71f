package history

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"moviesearch/internal/domain"
)

// FormatDate renders a createdDate relative to now, e.g. "3 minutes ago".
// Unparsable values are returned unchanged.
func FormatDate(createdDate string, now time.Time) string {
	t, err := domain.ParseCreatedDate(createdDate)
	if err != nil {
		return createdDate
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// FormatList renders entries one per line as name, createdDate and the
// relative date, with the name column padded to the widest name.
func FormatList(entries []domain.HistoryEntry, now time.Time) string {
	width := 0
	for _, e := range entries {
		if w := runewidth.StringWidth(e.Name); w > width {
			width = w
		}
	}

	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "%s  %s  %s\n", runewidth.FillRight(e.Name, width), e.CreatedDate, FormatDate(e.CreatedDate, now))
	}
	return b.String()
}
