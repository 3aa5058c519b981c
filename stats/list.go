package stats

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"

	"github.com/ayoisaiah/focusflow/internal/engine"
	"github.com/ayoisaiah/focusflow/internal/ui"
)

const noSessionsMsg = "No sessions found for the specified time range"

func printSessionsTable(w io.Writer, sessions []engine.SessionRecord) {
	data := [][]string{
		{"#", "PHASE", "MINUTES", "COMPLETED AT"},
	}

	for i, sess := range sessions {
		phase := ui.Green(sess.Phase)
		if sess.Phase == engine.Break {
			phase = ui.Cyan(sess.Phase)
		}

		data = append(data, []string{
			fmt.Sprintf("%d", i+1),
			phase,
			fmt.Sprintf("%d", sess.DurationMinutes),
			sess.CompletedAt.Local().Format("January 02, 2006 03:04 PM"),
		})
	}

	ui.PrintTable(data, w)
}

// List prints a table of the sessions in the given window.
func List(w io.Writer, sessions []engine.SessionRecord) {
	if len(sessions) == 0 {
		pterm.Info.Println(noSessionsMsg)
		return
	}

	printSessionsTable(w, sessions)
}
