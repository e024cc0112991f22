package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"

	"github.com/BradSavary/Habit-Tracker/internal/backup"
	"github.com/BradSavary/Habit-Tracker/internal/models"
	"github.com/BradSavary/Habit-Tracker/internal/progression"
	"github.com/BradSavary/Habit-Tracker/internal/service"
	"github.com/BradSavary/Habit-Tracker/internal/tracker"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func render(fn func(p *Printer)) []byte {
	var buf bytes.Buffer
	fn(NewPrinter(&buf))
	return buf.Bytes()
}

func swimView() service.HabitView {
	end := day("2026-06-30")
	return service.HabitView{
		Habit: models.Habit{
			ID:          "h3",
			Name:        "Swim",
			Emoji:       "🏊",
			Category:    "sport",
			Color:       "#3366ff",
			Description: "Pool laps",
			Schedule:    models.WeeklyCount{Goal: 2},
			EndDate:     &end,
		},
		Streak:         1,
		Progress:       tracker.Progress{Current: 2, Goal: 2, Percentage: 100},
		CompletedToday: true,
		DueToday:       true,
		Completions: []models.Completion{
			{ID: "c1", HabitID: "h3", Day: day("2026-03-02")},
			{ID: "c2", HabitID: "h3", Day: day("2026-03-09")},
			{ID: "c3", HabitID: "h3", Day: day("2026-03-10")},
		},
	}
}

func TestPrinterGolden(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata"),
		goldie.WithNameSuffix(".golden"),
	)

	t.Run("dashboard", func(t *testing.T) {
		d := service.Dashboard{
			Date: "2026-03-10",
			DueToday: []service.HabitView{{
				Habit:    models.Habit{ID: "h1", Name: "Read", Emoji: "📚", Schedule: models.Daily{}},
				Streak:   3,
				DueToday: true,
			}},
			NotDueToday: []service.HabitView{{
				Habit: models.Habit{ID: "h2", Name: "Run", Emoji: "🏃", Schedule: models.WeeklyOnDays{Days: []time.Weekday{time.Monday, time.Wednesday}}},
			}},
			FullyCompleted: []service.HabitView{swimView()},
		}
		g.Assert(t, "dashboard", render(func(p *Printer) { p.Dashboard(d) }))
	})

	t.Run("habit", func(t *testing.T) {
		g.Assert(t, "habit", render(func(p *Printer) { p.Habit(swimView()) }))
	})

	t.Run("progress", func(t *testing.T) {
		prof := service.Profile{
			User: models.User{Name: "Ada"},
			Progression: progression.Stats{
				Level:              2,
				XP:                 130,
				CurrentLevelXP:     30,
				XPForNextLevel:     115,
				ProgressPercentage: 26,
				XPRemaining:        85,
			},
			Unlocked: progression.UnlockCount{Unlocked: 9, Total: 58, Percentage: 16},
			NextRewards: []progression.Reward{
				{Emoji: "🔥", Level: 3, Name: "Flamme"},
				{Emoji: "⭐", Level: 4, Name: "Étoile"},
			},
		}
		g.Assert(t, "progress", render(func(p *Printer) { p.Progress(prof) }))
	})

	t.Run("stats", func(t *testing.T) {
		s := tracker.UserStats{
			TotalHabits:          3,
			ActiveHabits:         2,
			CompletionsThisMonth: 12,
			MonthComparison:      20,
			CompletionRate:       57,
			LongestStreak:        5,
			ConsecutiveDays:      3,
			BestDay:              tracker.DayCount{Label: "mardi", Completions: 4},
			Weekly: []tracker.DayCount{
				{Label: "lun", Completions: 2},
				{Label: "mar", Completions: 0},
				{Label: "mer", Completions: 3},
			},
			ByFrequency: []tracker.FrequencyCount{
				{Frequency: "daily", Name: "Quotidien", Count: 2},
				{Frequency: "weekly", Name: "Hebdomadaire", Count: 1},
			},
			TopHabits: []tracker.HabitRate{
				{ID: "h1", Name: "Read", Emoji: "📚", Completions: 8, Rate: 80},
			},
		}
		g.Assert(t, "stats", render(func(p *Printer) { p.Stats(s) }))
	})
}

func TestPrinterDashboardEmpty(t *testing.T) {
	out := string(render(func(p *Printer) { p.Dashboard(service.Dashboard{Date: "2026-03-10"}) }))
	assert.Equal(t, "Habits for 2026-03-10\nNo habits yet. Add one with 'habits habit add'.\n", out)
}

func TestPrinterHabitWithoutHistory(t *testing.T) {
	v := service.HabitView{Habit: models.Habit{ID: "h1", Name: "Read", Emoji: "📚", Schedule: models.Daily{}}, DueToday: true}
	out := string(render(func(p *Printer) { p.Habit(v) }))
	assert.Contains(t, out, "  today:     due\n")
	assert.Contains(t, out, "  history:   none\n")
	assert.NotContains(t, out, "progress:")
	assert.NotContains(t, out, "ends:")
}

func TestPrinterHabitHistoryIsCapped(t *testing.T) {
	v := service.HabitView{Habit: models.Habit{ID: "h1", Name: "Read", Schedule: models.Daily{}}}
	start := day("2026-03-01")
	for i := range 12 {
		v.Completions = append(v.Completions, models.Completion{Day: start.AddDate(0, 0, i)})
	}
	out := string(render(func(p *Printer) { p.Habit(v) }))
	assert.Contains(t, out, "  history:   2026-03-12, 2026-03-11,")
	assert.Contains(t, out, "2026-03-03 (12 total)\n")
	assert.NotContains(t, out, "2026-03-02")
}

func TestPrinterToggle(t *testing.T) {
	tests := []struct {
		name   string
		result service.ToggleResult
		want   string
	}{
		{
			name:   "unmarked",
			result: service.ToggleResult{},
			want:   "Unmarked Read\n",
		},
		{
			name:   "completed with XP",
			result: service.ToggleResult{Completed: true, XPGained: 10},
			want:   "✓ Completed Read (+10 XP)\n",
		},
		{
			name:   "completed again the same day",
			result: service.ToggleResult{Completed: true},
			want:   "✓ Completed Read\n",
		},
		{
			name: "level up with reward",
			result: service.ToggleResult{
				Completed: true,
				XPGained:  10,
				LevelUp: &service.LevelUpInfo{
					PreviousLevel: 1,
					NewLevel:      2,
					Reward:        &progression.Reward{Emoji: "🌱", Level: 2, Name: "Pousse"},
				},
			},
			want: "✓ Completed Read (+10 XP)\nLevel up! 1 → 2\n  Unlocked 🌱 Pousse\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := string(render(func(p *Printer) { p.Toggle("Read", tt.result) }))
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestPrinterHabitList(t *testing.T) {
	out := string(render(func(p *Printer) {
		p.HabitList([]models.Habit{{ID: "h1", Name: "Read", Emoji: "📚", Schedule: models.MonthlyOnDays{Days: []int{1, 15}}}})
	}))
	assert.Equal(t, "  📚 Read (h1) · monthly on 1,15\n", out)

	out = string(render(func(p *Printer) { p.HabitList(nil) }))
	assert.Equal(t, "No habits found.\n", out)
}

func TestPrinterMoods(t *testing.T) {
	out := string(render(func(p *Printer) {
		p.Moods([]models.MoodEntry{
			{ID: "m2", Day: day("2026-03-10"), Emoji: "😊", Notes: "good day"},
			{ID: "m1", Day: day("2026-03-09"), Emoji: "😐"},
		})
	}))
	assert.Equal(t, "  2026-03-10 😊 good day (m2)\n  2026-03-09 😐 (m1)\n", out)

	out = string(render(func(p *Printer) { p.Moods(nil) }))
	assert.Equal(t, "No mood entries.\n", out)
}

func TestPrinterBackups(t *testing.T) {
	dir := filepath.Join("home", "backups")
	out := string(render(func(p *Printer) { p.Backups(dir, nil, 14) }))
	assert.Equal(t, "No backups found.\nBackups are stored in: "+dir+"\n", out)

	backups := []backup.BackupInfo{{
		Path:      filepath.Join(dir, "habits-20260310-093000.db"),
		Timestamp: time.Date(2026, time.March, 10, 9, 30, 0, 0, time.Local),
		Size:      2048,
	}}
	out = string(render(func(p *Printer) { p.Backups(dir, backups, 14) }))
	lines := strings.Split(out, "\n")
	assert.Equal(t, "Available backups (1 total, keeping most recent 14):", lines[0])
	assert.Equal(t, "  2026-03-10 09:30:00  habits-20260310-093000.db  (2.0 KB)", lines[2])
	assert.Equal(t, "Backup directory: "+dir, lines[4])
}
