package formatter

import (
	"fmt"
	"strings"

	"trama/internal/analytics"
)

// RenderDashboard renders the full analytics report for terminal output.
func RenderDashboard(r *analytics.Report) string {
	sections := []string{
		renderKPIs(r),
		renderWorkload(r),
		renderTeam(r.Team),
		renderDeadlines(r.UpcomingDeadlines),
		renderSeries("This week", r.Weekly),
		renderSeries("Last 4 weeks", r.Monthly),
		renderActivity(r.RecentActivities),
	}

	var out []string
	for _, s := range sections {
		if s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, "\n\n")
}

func renderKPIs(r *analytics.Report) string {
	rate := fmt.Sprintf("%d%%", r.CompletionRate)
	lines := []string{
		fmt.Sprintf("%s  %s %s", Bold(rate), Dim("complete"), trendNote(r.CompletionRate, r.CompletionRateWeekAgo, "pp")),
		fmt.Sprintf("%s tasks, %s done, %s in progress",
			Bold(fmt.Sprintf("%d", r.Totals.Total)),
			StyleGreen.Render(fmt.Sprintf("%d", r.Totals.Done)),
			StyleBlue.Render(fmt.Sprintf("%d", r.Totals.InProgress))),
		fmt.Sprintf("%s day streak %s", Bold(fmt.Sprintf("%d", r.CompletionStreak)),
			trendNote(r.CompletionStreak, r.CompletionStreakPrevWeek, "")),
	}
	if r.OverdueTasks > 0 {
		lines = append(lines, StyleRed.Render(fmt.Sprintf("▲ %d overdue", r.OverdueTasks))+" "+
			trendNote(r.OverdueTasks, r.OverdueTasksPrevWeek, ""))
	} else {
		lines = append(lines, StyleGreen.Render("✔ nothing overdue"))
	}
	return RenderBox("Overview", strings.Join(lines, "\n"))
}

func renderWorkload(r *analytics.Report) string {
	rows := [][]string{
		{"Total", FormatHours(r.PlannedHoursTotal)},
		{"This week", FormatHours(r.PlannedHoursThisWeek) + " " + Dim("(prev "+FormatHours(r.PlannedHoursPrevWeek)+")")},
		{"This month", FormatHours(r.PlannedHoursThisMonth) + " " + Dim("(prev "+FormatHours(r.PlannedHoursPrevMonth)+")")},
		{"Done this month", fmt.Sprintf("%d %s", r.TasksDoneThisMonth, Dim(fmt.Sprintf("(prev %d)", r.TasksDonePrevMonth)))},
	}
	return Header("Planned hours") + "\n" + RenderTable([]string{"Period", "Hours"}, rows)
}

func renderTeam(team []analytics.MemberStats) string {
	if len(team) == 0 {
		return ""
	}
	rows := make([][]string, 0, len(team))
	for _, m := range team {
		rows = append(rows, []string{
			m.Name,
			fmt.Sprintf("%d/%d", m.Done, m.Total),
			RenderProgress(m.Percent, 10),
		})
	}
	return Header("Team") + "\n" + RenderTable([]string{"Member", "Done", "Progress"}, rows)
}

func renderDeadlines(items []analytics.Deadline) string {
	if len(items) == 0 {
		return ""
	}
	var lines []string
	for _, d := range items {
		due := RelativeDateStyled(d.Due)
		line := fmt.Sprintf("%s %s %s", due, d.Title, PriorityPill(string(d.Priority)))
		if d.ProjectName != "" {
			line += " " + Dim(d.ProjectName)
		}
		if d.Late {
			line = StyleRed.Render("▲ ") + line
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	return Header("Upcoming deadlines") + "\n" + strings.Join(lines, "\n")
}

func renderSeries(title string, s analytics.Series) string {
	if len(s.Points) == 0 {
		return ""
	}
	rows := make([][]string, 0, len(s.Points))
	for _, p := range s.Points {
		rows = append(rows, []string{
			p.Label,
			fmt.Sprintf("%d", p.Created),
			StyleGreen.Render(fmt.Sprintf("%d", p.Completed)),
		})
	}
	head := fmt.Sprintf("%s  %s", title, Dim(fmt.Sprintf("efficiency %d%%", s.Efficiency)))
	return Header(head) + "\n" + RenderTable([]string{"Bucket", "Created", "Done"}, rows)
}

func renderActivity(items []analytics.Activity) string {
	if len(items) == 0 {
		return ""
	}
	var lines []string
	for _, a := range items {
		verb := "updated"
		switch a.Kind {
		case analytics.ActivityComment:
			verb = "commented"
		case analytics.ActivityCreated:
			verb = "created"
		}
		line := fmt.Sprintf("%s %s %s %s",
			Dim(HumanTimestamp(a.Timestamp)),
			Bold(a.Author),
			verb,
			a.Title)
		if a.Body != "" {
			line += " " + Dim("“"+a.Body+"”")
		}
		lines = append(lines, line)
	}
	return Header("Recent activity") + "\n" + strings.Join(lines, "\n")
}

// trendNote renders a small up/down delta against a previous value.
func trendNote(current, previous int, unit string) string {
	delta := current - previous
	switch {
	case delta > 0:
		return StyleGreen.Render(fmt.Sprintf("↑%d%s", delta, unit))
	case delta < 0:
		return StyleRed.Render(fmt.Sprintf("↓%d%s", -delta, unit))
	default:
		return Dim("=")
	}
}
