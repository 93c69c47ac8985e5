package render

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"calgrid/internal/calendar"
	"calgrid/internal/layout"
)

// Styles used by the terminal agenda.
type Styles struct {
	Title  lipgloss.Style
	Day    lipgloss.Style
	Today  lipgloss.Style
	Event  lipgloss.Style
	Band   lipgloss.Style
	Now    lipgloss.Style
	Detail lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Title:  lipgloss.NewStyle().Bold(true).Underline(true),
		Day:    lipgloss.NewStyle().Bold(true),
		Today:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Event:  lipgloss.NewStyle(),
		Band:   lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		Now:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		Detail: lipgloss.NewStyle().Faint(true),
	}
}

// Agenda renders res as a text agenda no wider than width columns.
func Agenda(res calendar.Result, st Styles, width int) string {
	if width < 40 {
		width = 40
	}

	lines := []string{st.Title.Render(Title(res.View, res.Date, res.Window)), ""}

	if res.View == calendar.ViewMonth {
		lines = append(lines, monthAgenda(res.Month, st)...)
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, row := range res.Bands {
		for _, b := range row {
			text := fmt.Sprintf("▌ %s  (%s)", BandLabel(b), RangeLabel(b.Event.Start, b.Event.End))
			lines = append(lines, st.Band.Render(truncate(text, width)))
		}
	}
	if len(res.Bands) > 0 {
		lines = append(lines, "")
	}

	for i, d := range res.Days {
		var now *layout.NowMarker
		if res.Now != nil && res.Now.DayIndex == i {
			now = res.Now
		}
		lines = append(lines, dayAgenda(d, now, st, width)...)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func dayAgenda(d layout.DayLayout, now *layout.NowMarker, st Styles, width int) []string {
	head := st.Day
	if now != nil {
		head = st.Today
	}
	lines := []string{head.Render(d.Day.Format("Mon Jan 02"))}

	slots := slices.Clone(d.Slots)
	slices.SortStableFunc(slots, func(a, b layout.PlacedSlot) int {
		return a.Start.Compare(b.Start)
	})

	nowShown := now == nil
	for _, s := range slots {
		startMin := int(minutesIntoDay(d.Day, s.Start))
		if !nowShown && now.Minutes < startMin {
			lines = append(lines, nowLine(now, st))
			nowShown = true
		}

		text := fmt.Sprintf("  %s-%s  %s", s.Start.Format("15:04"), s.End.Format("15:04"), s.Event.Title)
		if s.ColumnCount > 1 {
			text += fmt.Sprintf("  [%d/%d]", s.Column+1, s.ColumnCount)
		}
		lines = append(lines, st.Event.Render(truncate(text, width)))

		if desc := strings.TrimSpace(s.Event.Description); desc != "" {
			for _, l := range strings.Split(wordwrap.String(desc, width-8), "\n") {
				if l != "" {
					lines = append(lines, st.Detail.Render("        "+l))
				}
			}
		}
	}
	if !nowShown {
		lines = append(lines, nowLine(now, st))
	}
	if len(slots) == 0 {
		lines = append(lines, st.Detail.Render("  (no events)"))
	}
	return append(lines, "")
}

func nowLine(m *layout.NowMarker, st Styles) string {
	return st.Now.Render(fmt.Sprintf("  ── now %02d:%02d ──", m.Minutes/60, m.Minutes%60))
}

func monthAgenda(cells []layout.MonthCell, st Styles) []string {
	var lines []string
	for _, c := range cells {
		if !c.InMonth || (len(c.Events) == 0 && c.Hidden == 0) {
			continue
		}
		head := st.Day
		if c.Today {
			head = st.Today
		}
		lines = append(lines, head.Render(c.Day.Format("Mon Jan 02")))
		for _, ev := range c.Events {
			lines = append(lines, st.Event.Render(fmt.Sprintf("  %s  %s", ev.Start.Format("15:04"), ev.Title)))
		}
		if c.Hidden > 0 {
			lines = append(lines, st.Detail.Render(fmt.Sprintf("  +%d more", c.Hidden)))
		}
	}
	if len(lines) == 0 {
		lines = append(lines, st.Detail.Render("(no events this month)"))
	}
	return lines
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}
