package printers

import (
	"fmt"
	"io"
	"time"

	"github.com/borgmon/fast-alarm/pkg/models"
	"github.com/borgmon/fast-alarm/pkg/planner"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"
)

// PrettyPrint renders plans and timetables for the terminal
type PrettyPrint struct {
	Out io.Writer // defaults to color.Output
}

// AlarmRow is one line of a plan table
type AlarmRow struct {
	Kind      models.AlarmKind
	Instant   time.Time
	Triggered bool
}

// RowsFrom converts planned alarms into table rows
func RowsFrom(alarms []models.PlannedAlarm) []AlarmRow {
	rows := make([]AlarmRow, 0, len(alarms))
	for _, a := range alarms {
		rows = append(rows, AlarmRow{Kind: a.Kind, Instant: a.Instant, Triggered: a.Triggered})
	}
	return rows
}

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out != nil {
		return pp.Out
	}
	return color.Output
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) Settings(s models.AlarmSettings) {
	c := color.New(color.Faint)
	state := color.New(color.FgRed).Sprint("disabled")
	if s.Enabled {
		state = color.New(color.FgGreen).Sprint("enabled")
	}
	_, _ = fmt.Fprintf(pp.out(), "Alarms %s", state)
	_, _ = c.Fprintf(pp.out(), " - sahur %d min, iftar %d min\n", s.SaharMinutes, s.IftarMinutes)
}

// Plan prints the alarms for one date, marking the ones already delivered
func (pp *PrettyPrint) Plan(date string, rows []AlarmRow) {
	pp.Title(fmt.Sprintf("Alarms for %s", date))

	if len(rows) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprint(pp.out(), " none\n\n")
		return
	}

	done := color.New(color.Faint, color.CrossedOut)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 40
	for _, r := range rows {
		label, clock := planner.Label(r.Kind), models.FormatClock(r.Instant)
		if r.Triggered {
			tbl.AddRow(done.Sprint(clock), done.Sprint(label), "done")
			continue
		}
		tbl.AddRow(clock, label, "")
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

// Days prints a timetable
func (pp *PrettyPrint) Days(days []models.DayEventTimes) {
	pp.Title("Timetable")

	if len(days) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprint(pp.out(), " empty\n\n")
		return
	}

	h := color.New(color.Faint)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(h.Sprint("DATE"), h.Sprint("IMSAK"), h.Sprint("IFTAR"), h.Sprint("CALENDAR"))
	for _, d := range days {
		tbl.AddRow(d.Date, d.Sahar, d.Iftar, d.CalendarID)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
}
