package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/BradSavary/Habit-Tracker/internal/backup"
	"github.com/BradSavary/Habit-Tracker/internal/constants"
	"github.com/BradSavary/Habit-Tracker/internal/models"
	"github.com/BradSavary/Habit-Tracker/internal/service"
	"github.com/BradSavary/Habit-Tracker/internal/tracker"
)

const (
	progressBarWidth = 20
	historyLimit     = 10
)

// Printer renders command results. Colors are only emitted when the writer is a
// terminal.
type Printer struct {
	w       io.Writer
	title   lipgloss.Style
	muted   lipgloss.Style
	success lipgloss.Style
	warn    lipgloss.Style
}

func NewPrinter(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:       w,
		title:   r.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
		muted:   r.NewStyle().Foreground(lipgloss.Color("240")),
		success: r.NewStyle().Foreground(lipgloss.Color("42")),
		warn:    r.NewStyle().Foreground(lipgloss.Color("214")),
	}
}

func (p *Printer) line(format string, args ...any) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *Printer) heading(s string) {
	p.line("%s", p.title.Render(s))
}

func formatProgress(pr tracker.Progress) string {
	return fmt.Sprintf("%d/%d (%.0f%%)", pr.Current, pr.Goal, pr.Percentage)
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

// habitLine is the one-line summary used in dashboards.
func (p *Printer) habitLine(v service.HabitView) string {
	parts := []string{
		fmt.Sprintf("%s %s %s", checkbox(v.CompletedToday), v.Habit.Emoji, v.Habit.Name),
		FormatSchedule(v.Habit.Schedule),
	}
	if v.Streak > 0 {
		parts = append(parts, fmt.Sprintf("streak %d", v.Streak))
	}
	if v.Progress.Goal > 0 {
		parts = append(parts, formatProgress(v.Progress))
	}
	return "  " + strings.Join(parts, p.muted.Render(" · "))
}

// Dashboard prints today's habits grouped by status.
func (p *Printer) Dashboard(d service.Dashboard) {
	p.heading("Habits for " + d.Date)
	total := len(d.DueToday) + len(d.NotDueToday) + len(d.FullyCompleted)
	if total == 0 {
		p.line("No habits yet. Add one with 'habits habit add'.")
		return
	}

	groups := []struct {
		name  string
		views []service.HabitView
	}{
		{"Due today", d.DueToday},
		{"Not due today", d.NotDueToday},
		{"Completed for the period", d.FullyCompleted},
	}
	for _, g := range groups {
		if len(g.views) == 0 {
			continue
		}
		p.line("")
		p.line("%s (%d)", g.name, len(g.views))
		for _, v := range g.views {
			p.line("%s", p.habitLine(v))
		}
	}
}

// HabitList prints habits with their IDs.
func (p *Printer) HabitList(habits []models.Habit) {
	if len(habits) == 0 {
		p.line("No habits found.")
		return
	}
	for _, h := range habits {
		p.line("  %s %s %s", h.Emoji, h.Name, p.muted.Render("("+h.ID+") · "+FormatSchedule(h.Schedule)))
	}
}

// Habit prints one habit with its figures and recent history.
func (p *Printer) Habit(v service.HabitView) {
	h := v.Habit
	p.heading(h.Emoji + " " + h.Name)
	if h.Description != "" {
		p.line("  %s", h.Description)
	}
	p.line("  id:        %s", h.ID)
	p.line("  schedule:  %s", FormatSchedule(h.Schedule))
	p.line("  category:  %s", h.Category)
	p.line("  color:     %s", h.Color)
	if h.EndDate != nil {
		p.line("  ends:      %s", h.EndDate.Format(constants.DateFormat))
	}
	p.line("  streak:    %d", v.Streak)
	if v.Progress.Goal > 0 {
		p.line("  progress:  %s", formatProgress(v.Progress))
	}

	status := "not due"
	switch {
	case v.CompletedToday:
		status = p.success.Render("done")
	case v.DueToday:
		status = p.warn.Render("due")
	}
	p.line("  today:     %s", status)

	if len(v.Completions) == 0 {
		p.line("  history:   none")
		return
	}
	recent := v.Completions
	if len(recent) > historyLimit {
		recent = recent[len(recent)-historyLimit:]
	}
	days := make([]string, 0, len(recent))
	for i := len(recent) - 1; i >= 0; i-- {
		days = append(days, recent[i].Day.Format(constants.DateFormat))
	}
	p.line("  history:   %s (%d total)", strings.Join(days, ", "), len(v.Completions))
}

// Toggle prints the outcome of a toggle.
func (p *Printer) Toggle(name string, r service.ToggleResult) {
	if !r.Completed {
		p.line("Unmarked %s", name)
		return
	}
	if r.XPGained > 0 {
		p.line("%s %s (+%d XP)", p.success.Render("✓ Completed"), name, r.XPGained)
	} else {
		p.line("%s %s", p.success.Render("✓ Completed"), name)
	}
	if r.LevelUp != nil {
		p.line("%s %d → %d", p.title.Render("Level up!"), r.LevelUp.PreviousLevel, r.LevelUp.NewLevel)
		if r.LevelUp.Reward != nil {
			p.line("  Unlocked %s %s", r.LevelUp.Reward.Emoji, r.LevelUp.Reward.Name)
		}
	}
}

func progressBar(pct int) string {
	pct = max(0, min(pct, 100))
	filled := pct * progressBarWidth / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", progressBarWidth-filled)
}

// Progress prints a user's level, XP and upcoming rewards.
func (p *Printer) Progress(prof service.Profile) {
	st := prof.Progression
	p.heading(fmt.Sprintf("%s · level %d", prof.User.Name, st.Level))
	if st.IsMaxLevel {
		p.line("  %d XP, maximum level reached", st.XP)
	} else {
		p.line("  %s %d%%", progressBar(st.ProgressPercentage), st.ProgressPercentage)
		p.line("  %d XP total, %d/%d XP into this level, %d to go", st.XP, st.CurrentLevelXP, st.XPForNextLevel, st.XPRemaining)
	}
	p.line("  rewards:   %d/%d unlocked (%d%%)", prof.Unlocked.Unlocked, prof.Unlocked.Total, prof.Unlocked.Percentage)
	if len(prof.NextRewards) > 0 {
		next := make([]string, len(prof.NextRewards))
		for i, r := range prof.NextRewards {
			next[i] = fmt.Sprintf("%s %s (level %d)", r.Emoji, r.Name, r.Level)
		}
		p.line("  next:      %s", strings.Join(next, ", "))
	}
}

// Stats prints a user's statistics.
func (p *Printer) Stats(s tracker.UserStats) {
	p.heading("Statistics")
	p.line("  habits:           %d (%d active)", s.TotalHabits, s.ActiveHabits)
	p.line("  this month:       %d completions (%+d%% vs last month)", s.CompletionsThisMonth, s.MonthComparison)
	p.line("  completion rate:  %d%%", s.CompletionRate)
	p.line("  longest streak:   %d", s.LongestStreak)
	p.line("  consecutive days: %d", s.ConsecutiveDays)
	if s.BestDay.Completions > 0 {
		p.line("  best day:         %s (%d)", s.BestDay.Label, s.BestDay.Completions)
	}

	if len(s.Weekly) > 0 {
		p.line("")
		p.line("Last 7 days")
		for _, d := range s.Weekly {
			p.line("  %-4s %s %d", d.Label, strings.Repeat("▇", d.Completions), d.Completions)
		}
	}

	if len(s.ByFrequency) > 0 {
		counts := make([]string, len(s.ByFrequency))
		for i, f := range s.ByFrequency {
			counts[i] = fmt.Sprintf("%s %d", f.Name, f.Count)
		}
		p.line("")
		p.line("By frequency: %s", strings.Join(counts, ", "))
	}

	if len(s.TopHabits) > 0 {
		p.line("")
		p.line("Top habits this month")
		for i, h := range s.TopHabits {
			p.line("  %d. %s %s %d%% (%d)", i+1, h.Emoji, h.Name, h.Rate, h.Completions)
		}
	}
}

// Moods prints mood journal entries.
func (p *Printer) Moods(entries []models.MoodEntry) {
	if len(entries) == 0 {
		p.line("No mood entries.")
		return
	}
	for _, m := range entries {
		line := fmt.Sprintf("  %s %s", m.Day.Format(constants.DateFormat), m.Emoji)
		if m.Notes != "" {
			line += " " + m.Notes
		}
		p.line("%s %s", line, p.muted.Render("("+m.ID+")"))
	}
}

// Backups prints the available backups, newest first.
func (p *Printer) Backups(dir string, backups []backup.BackupInfo, keep int) {
	if len(backups) == 0 {
		p.line("No backups found.")
		p.line("Backups are stored in: %s", dir)
		return
	}
	p.line("Available backups (%d total, keeping most recent %d):", len(backups), keep)
	p.line("")
	for _, b := range backups {
		p.line("  %s  %s  (%.1f KB)", b.Timestamp.Format("2006-01-02 15:04:05"), b.Name(), float64(b.Size)/1024.0)
	}
	p.line("")
	p.line("Backup directory: %s", dir)
}
