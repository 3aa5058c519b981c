package stats

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pterm/pterm"
)

// Delete removes the sessions completed within [start, end] after the user
// confirms the listing. It returns the number of deleted sessions.
func Delete(
	ctx context.Context,
	src Source,
	p Pruner,
	start, end time.Time,
	in io.Reader,
	out io.Writer,
) (int, error) {
	sessions, err := src.Sessions(ctx, start, end)
	if err != nil {
		return 0, err
	}

	if len(sessions) == 0 {
		pterm.Info.Println(noSessionsMsg)
		return 0, nil
	}

	printSessionsTable(out, sessions)

	fmt.Fprint(out, pterm.Warning.Sprint(
		"The above sessions will be deleted permanently. Type 'yes' to proceed: ",
	))

	answer, _ := bufio.NewReader(in).ReadString('\n')
	if !strings.EqualFold(strings.TrimSpace(answer), "yes") {
		return 0, nil
	}

	return p.DeleteSessions(ctx, start, end)
}
