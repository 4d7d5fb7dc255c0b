package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/nissyi-gh/habits/internal/store"
)

// HeaderDateFormat renders dates like "Saturday, March 14, 2026".
const HeaderDateFormat = "Monday, January 2, 2006"

// Summary returns a plain-text progress report for the given snapshot,
// suitable for pasting into a chat or note.
func Summary(snap store.Snapshot, now time.Time) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Daily Habits - %s\n", now.Format(HeaderDateFormat)))

	if len(snap.Habits) == 0 {
		sb.WriteString("No habits yet.\n")
		return sb.String()
	}

	st := snap.Stats
	sb.WriteString(fmt.Sprintf("Progress: %d/%d completed (%d%%)\n", st.Completed, st.Total, st.CompletionRate))
	if st.AllDone() {
		sb.WriteString("All done!\n")
	}

	sb.WriteString("\n")
	for _, h := range snap.Habits {
		check := "[ ]"
		if h.CompletedToday {
			check = "[x]"
		}
		sb.WriteString(fmt.Sprintf("- %s %s\n", check, h.Name))
	}

	return sb.String()
}
