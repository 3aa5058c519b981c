package stats

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"

	"github.com/ayoisaiah/focusflow/internal/timeutil"
	"github.com/ayoisaiah/focusflow/internal/ui"
)

// Format is an output format for summaries.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

const barChartChar = "▇"

// Print writes the summary to w in the given format.
func Print(w io.Writer, s *Summary, format Format) error {
	switch format {
	case FormatJSON:
		b, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(w, string(b))

		return err
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		err := enc.Encode(s)
		if err != nil {
			return err
		}

		return enc.Close()
	default:
		_, err := fmt.Fprintln(w, strings.TrimSpace(renderText(s)))
		return err
	}
}

func renderText(s *Summary) string {
	var period string

	if s.Start.IsZero() {
		period = "Reporting period: all time"
	} else {
		period = fmt.Sprintf(
			"Reporting period: %s - %s",
			s.Start.Format("January 02, 2006"),
			s.End.Format("January 02, 2006"),
		)
	}

	header := pterm.DefaultHeader.WithBackgroundStyle(pterm.NewStyle(pterm.BgYellow)).
		WithTextStyle(pterm.NewStyle(pterm.FgBlack)).
		Sprintln(period)

	return fmt.Sprint(
		header,
		summaryText(s),
		countsText(s),
		weekChart(s),
	)
}

func summaryText(s *Summary) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s\n", ui.Blue("Summary")))
	b.WriteString(fmt.Sprintln("Sessions:", ui.Green(s.TotalSessions)))
	b.WriteString(fmt.Sprintln("Focus sessions:", ui.Green(s.FocusSessions)))
	b.WriteString(fmt.Sprintln("Break sessions:", ui.Green(s.BreakSessions)))
	b.WriteString(fmt.Sprintln("Focus time:", ui.Green(formatMinutes(s.TotalFocusMinutes))))
	b.WriteString(fmt.Sprintln("Break time:", ui.Green(formatMinutes(s.TotalBreakMinutes))))
	b.WriteString(fmt.Sprintln("Average focus session:", ui.Green(formatMinutes(s.AverageSessionLength))))
	b.WriteString(fmt.Sprintln("Current streak:", ui.Green(fmt.Sprintf("%d days", s.Streak))))

	return b.String()
}

func countsText(s *Summary) string {
	data := [][]string{
		{"TODAY", "THIS WEEK", "THIS MONTH", "6 MONTHS", "THIS YEAR"},
		{
			fmt.Sprint(s.TodaySessions),
			fmt.Sprint(s.WeekSessions),
			fmt.Sprint(s.MonthSessions),
			fmt.Sprint(s.SixMonthSessions),
			fmt.Sprint(s.YearSessions),
		},
	}

	var b strings.Builder

	b.WriteString(fmt.Sprintf("\n%s\n", ui.Blue("Sessions by period")))
	ui.PrintTable(data, &b)

	return b.String()
}

func weekChart(s *Summary) string {
	bars := make(pterm.Bars, 0, len(s.LastSevenDays))

	var total int

	for _, d := range s.LastSevenDays {
		total += d.FocusMinutes

		bars = append(bars, pterm.Bar{
			Label: d.Weekday + " " + d.Date[len("2006-01-"):],
			Value: d.FocusMinutes,
		})
	}

	if total == 0 {
		return ""
	}

	chart, err := pterm.DefaultBarChart.WithHorizontalBarCharacter(barChartChar).
		WithHorizontal().
		WithShowValue().
		WithBars(bars).
		Srender()
	if err != nil {
		pterm.Error.Println(err)
		return ""
	}

	return ui.Blue("\nFocus minutes, last 7 days\n") + chart
}

func formatMinutes(total int) string {
	hrs, mins := timeutil.MinsToHoursAndMins(total)

	if hrs == 0 {
		return fmt.Sprintf("%dm", mins)
	}

	return fmt.Sprintf("%dh %dm", hrs, mins)
}
