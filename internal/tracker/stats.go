package tracker

import (
	"math"
	"sort"
	"time"

	"github.com/BradSavary/Habit-Tracker/internal/constants"
	"github.com/BradSavary/Habit-Tracker/internal/models"
	"github.com/BradSavary/Habit-Tracker/internal/utils"
)

var (
	shortDayNames = [7]string{"Dim", "Lun", "Mar", "Mer", "Jeu", "Ven", "Sam"}
	longDayNames  = [7]string{"Dimanche", "Lundi", "Mardi", "Mercredi", "Jeudi", "Vendredi", "Samedi"}
)

// DayCount is one point of a completion chart.
type DayCount struct {
	Label       string `json:"label"`
	Completions int    `json:"completions"`
}

// FrequencyCount is the number of habits sharing a frequency.
type FrequencyCount struct {
	Frequency constants.Frequency `json:"frequency"`
	Name      string              `json:"name"`
	Count     int                 `json:"count"`
}

// HabitRate is a habit's completion rate for the current month.
type HabitRate struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Emoji       string `json:"emoji"`
	Color       string `json:"color"`
	Completions int    `json:"completions"`
	Rate        int    `json:"rate"`
}

// UserStats aggregates a user's activity as of a given day.
type UserStats struct {
	TotalHabits          int              `json:"total_habits"`
	ActiveHabits         int              `json:"active_habits"`
	CompletionsThisMonth int              `json:"completions_this_month"`
	CompletionsLastMonth int              `json:"completions_last_month"`
	CompletionRate       int              `json:"completion_rate"`
	MonthComparison      int              `json:"month_comparison"`
	LongestStreak        int              `json:"longest_streak"`
	ConsecutiveDays      int              `json:"consecutive_days"`
	Weekly               []DayCount       `json:"weekly"`
	MonthlyTrend         []DayCount       `json:"monthly_trend"`
	ByFrequency          []FrequencyCount `json:"by_frequency"`
	TopHabits            []HabitRate      `json:"top_habits"`
	BestDay              DayCount         `json:"best_day"`
}

// ComputeUserStats builds the statistics page for habits as of now. Percentages are
// rounded to the nearest integer.
func ComputeUserStats(habits []models.HabitHistory, now time.Time) UserStats {
	today := utils.NormalizeDay(now)
	monthStart := utils.MonthStart(today)
	lastMonthStart := monthStart.AddDate(0, -1, 0)
	thisMonth := dayKey(monthStart)
	lastMonth := dayKey(lastMonthStart)
	elapsed := today.Day()

	stats := UserStats{TotalHabits: len(habits)}

	counts := make(map[string]int)
	for _, hh := range habits {
		if !IsPastEnd(hh.Habit, today) {
			stats.ActiveHabits++
		}
		for _, c := range hh.Completions {
			counts[dayKey(c.Day)]++
			switch dayKey(utils.MonthStart(c.Day)) {
			case thisMonth:
				stats.CompletionsThisMonth++
			case lastMonth:
				stats.CompletionsLastMonth++
			}
		}
		stats.LongestStreak = max(stats.LongestStreak, dailyRun(hh.Completions, today))
	}

	if expected := stats.ActiveHabits * elapsed; expected > 0 {
		stats.CompletionRate = percent(stats.CompletionsThisMonth, expected)
	}
	if stats.CompletionsLastMonth > 0 {
		stats.MonthComparison = percent(stats.CompletionsThisMonth-stats.CompletionsLastMonth, stats.CompletionsLastMonth)
	}

	for cursor := today; counts[dayKey(cursor)] > 0 && dayKey(utils.MonthStart(cursor)) == thisMonth; cursor = cursor.AddDate(0, 0, -1) {
		stats.ConsecutiveDays++
	}

	week := utils.WeekStart(today)
	for i := range 7 {
		day := week.AddDate(0, 0, i)
		stats.Weekly = append(stats.Weekly, DayCount{Label: shortDayNames[day.Weekday()], Completions: counts[dayKey(day)]})
	}

	for d := 1; d <= utils.DaysInMonth(today); d++ {
		day := monthStart.AddDate(0, 0, d-1)
		stats.MonthlyTrend = append(stats.MonthlyTrend, DayCount{Label: day.Format("2"), Completions: counts[dayKey(day)]})
	}

	stats.ByFrequency = frequencyCounts(habits)
	stats.TopHabits = topHabits(habits, thisMonth, elapsed, 3)
	stats.BestDay = bestDay(habits, today.AddDate(0, -1, 0))
	return stats
}

// dailyRun counts consecutive days with a completion ending on today.
func dailyRun(completions []models.Completion, today time.Time) int {
	return countBackward(completions, today, utils.NormalizeDay,
		func(t time.Time) time.Time { return t.AddDate(0, 0, -1) })
}

func percent(part, whole int) int {
	return int(math.Round(float64(part) / float64(whole) * 100))
}

func frequencyCounts(habits []models.HabitHistory) []FrequencyCount {
	out := []FrequencyCount{
		{Frequency: constants.FrequencyDaily, Name: "Quotidiennes"},
		{Frequency: constants.FrequencyWeekly, Name: "Hebdomadaires"},
		{Frequency: constants.FrequencyMonthly, Name: "Mensuelles"},
	}
	for _, hh := range habits {
		for i := range out {
			if out[i].Frequency == hh.Habit.Frequency() {
				out[i].Count++
			}
		}
	}
	return out
}

func topHabits(habits []models.HabitHistory, month string, elapsed, n int) []HabitRate {
	rates := make([]HabitRate, 0, len(habits))
	for _, hh := range habits {
		completions := 0
		for _, c := range hh.Completions {
			if dayKey(utils.MonthStart(c.Day)) == month {
				completions++
			}
		}
		rate := 0
		if elapsed > 0 {
			rate = min(percent(completions, elapsed), 100)
		}
		emoji := hh.Habit.Emoji
		if emoji == "" {
			emoji = constants.DefaultHabitEmoji
		}
		rates = append(rates, HabitRate{
			ID:          hh.Habit.ID,
			Name:        hh.Habit.Name,
			Emoji:       emoji,
			Color:       hh.Habit.Color,
			Completions: completions,
			Rate:        rate,
		})
	}

	sort.SliceStable(rates, func(i, j int) bool { return rates[i].Rate > rates[j].Rate })
	if len(rates) > n {
		rates = rates[:n]
	}
	return rates
}

// bestDay returns the weekday with the most completions since from. Ties go to the
// earliest weekday, Sunday first.
func bestDay(habits []models.HabitHistory, from time.Time) DayCount {
	var byWeekday [7]int
	since := dayKey(from)
	for _, hh := range habits {
		for _, c := range hh.Completions {
			if dayKey(c.Day) >= since {
				byWeekday[c.Day.Weekday()]++
			}
		}
	}

	best := 0
	for wd := 1; wd < 7; wd++ {
		if byWeekday[wd] > byWeekday[best] {
			best = wd
		}
	}
	return DayCount{Label: longDayNames[best], Completions: byWeekday[best]}
}
