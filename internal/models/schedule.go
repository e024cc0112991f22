package models

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/BradSavary/Habit-Tracker/internal/constants"
)

// Schedule describes when a habit is expected to be performed.
// It is implemented by Daily, WeeklyOnDays, WeeklyCount, MonthlyOnDays and MonthlyCount.
type Schedule interface {
	Frequency() constants.Frequency
	isSchedule()
}

// Daily habits are due every day.
type Daily struct{}

// WeeklyOnDays habits are due on a fixed set of weekdays.
type WeeklyOnDays struct {
	Days []time.Weekday
}

// WeeklyCount habits must be performed Goal times per Monday-started week, on any days.
// A zero Goal means no goal was configured.
type WeeklyCount struct {
	Goal int
}

// MonthlyOnDays habits are due on a fixed set of days of the month (1-31).
type MonthlyOnDays struct {
	Days []int
}

// MonthlyCount habits must be performed Goal times per calendar month.
// A zero Goal means no goal was configured.
type MonthlyCount struct {
	Goal int
}

func (Daily) Frequency() constants.Frequency         { return constants.FrequencyDaily }
func (WeeklyOnDays) Frequency() constants.Frequency  { return constants.FrequencyWeekly }
func (WeeklyCount) Frequency() constants.Frequency   { return constants.FrequencyWeekly }
func (MonthlyOnDays) Frequency() constants.Frequency { return constants.FrequencyMonthly }
func (MonthlyCount) Frequency() constants.Frequency  { return constants.FrequencyMonthly }

func (Daily) isSchedule()         {}
func (WeeklyOnDays) isSchedule()  {}
func (WeeklyCount) isSchedule()   {}
func (MonthlyOnDays) isSchedule() {}
func (MonthlyCount) isSchedule()  {}

// HasWeekday reports whether wd is one of the configured weekdays.
func (s WeeklyOnDays) HasWeekday(wd time.Weekday) bool {
	return slices.Contains(s.Days, wd)
}

// HasDay reports whether day is one of the configured days of the month.
func (s MonthlyOnDays) HasDay(day int) bool {
	return slices.Contains(s.Days, day)
}

// ScheduleColumns is the flat storage representation of a Schedule.
type ScheduleColumns struct {
	Frequency   constants.Frequency
	WeekDays    []int
	WeeklyGoal  int
	MonthDays   []int
	MonthlyGoal int
}

// Columns flattens a schedule for storage.
func Columns(s Schedule) ScheduleColumns {
	switch v := s.(type) {
	case WeeklyOnDays:
		days := make([]int, 0, len(v.Days))
		for _, wd := range v.Days {
			days = append(days, int(wd))
		}
		return ScheduleColumns{Frequency: constants.FrequencyWeekly, WeekDays: days}
	case WeeklyCount:
		return ScheduleColumns{Frequency: constants.FrequencyWeekly, WeeklyGoal: v.Goal}
	case MonthlyOnDays:
		return ScheduleColumns{Frequency: constants.FrequencyMonthly, MonthDays: slices.Clone(v.Days)}
	case MonthlyCount:
		return ScheduleColumns{Frequency: constants.FrequencyMonthly, MonthlyGoal: v.Goal}
	default:
		return ScheduleColumns{Frequency: constants.FrequencyDaily}
	}
}

// ScheduleFromColumns rebuilds a Schedule from its flat storage form.
// When both a day set and a goal are present the day set wins; when neither is
// present the count variant with a zero goal is returned.
func ScheduleFromColumns(c ScheduleColumns) (Schedule, error) {
	switch c.Frequency {
	case constants.FrequencyDaily:
		return Daily{}, nil
	case constants.FrequencyWeekly:
		if len(c.WeekDays) > 0 {
			days := make([]time.Weekday, 0, len(c.WeekDays))
			for _, d := range c.WeekDays {
				if d < 0 || d > 6 {
					return nil, fmt.Errorf("invalid weekday %d", d)
				}
				days = append(days, time.Weekday(d))
			}
			slices.Sort(days)
			return WeeklyOnDays{Days: slices.Compact(days)}, nil
		}
		return WeeklyCount{Goal: c.WeeklyGoal}, nil
	case constants.FrequencyMonthly:
		if len(c.MonthDays) > 0 {
			days := slices.Clone(c.MonthDays)
			for _, d := range days {
				if d < 1 || d > 31 {
					return nil, fmt.Errorf("invalid day of month %d", d)
				}
			}
			slices.Sort(days)
			return MonthlyOnDays{Days: slices.Compact(days)}, nil
		}
		return MonthlyCount{Goal: c.MonthlyGoal}, nil
	default:
		return nil, fmt.Errorf("unknown frequency %q", c.Frequency)
	}
}

// EncodeDays serializes a day list for a TEXT column. Empty lists encode to "".
func EncodeDays(days []int) string {
	if len(days) == 0 {
		return ""
	}
	b, _ := json.Marshal(days)
	return string(b)
}

// DecodeDays parses a day list written by EncodeDays.
func DecodeDays(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	var days []int
	if err := json.Unmarshal([]byte(s), &days); err != nil {
		return nil, fmt.Errorf("failed to parse day list %q: %w", s, err)
	}
	return days, nil
}
