package habits

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/BradSavary/Habit-Tracker/internal/cli"
	"github.com/BradSavary/Habit-Tracker/internal/constants"
	"github.com/BradSavary/Habit-Tracker/internal/models"
	"github.com/BradSavary/Habit-Tracker/internal/service"
	"github.com/BradSavary/Habit-Tracker/internal/utils"
	"github.com/BradSavary/Habit-Tracker/internal/validation"
)

type HabitCmd struct {
	Add    HabitAddCmd    `cmd:"" help:"Add a new habit."`
	List   HabitListCmd   `cmd:"" help:"List habits."`
	Today  HabitTodayCmd  `cmd:"" help:"Show today's habits grouped by status." default:"1"`
	Show   HabitShowCmd   `cmd:"" help:"Show a habit with its streak, progress and history."`
	Edit   HabitEditCmd   `cmd:"" help:"Edit a habit."`
	Toggle HabitToggleCmd `cmd:"" help:"Mark or unmark a habit as done today."`
	Delete HabitDeleteCmd `cmd:"" help:"Delete a habit and its completions."`
}

type HabitAddCmd struct {
	Name        string `arg:"" help:"Habit name."`
	Emoji       string `short:"e" help:"Emoji (must be unlocked at your level)."`
	Category    string `short:"c" help:"Category: Santé, Productivité, Sport, Créativité, Social, Apprentissage or Autre."`
	Color       string `help:"Color: purple, blue, green, orange, pink or teal."`
	Description string `help:"Description."`
	Frequency   string `short:"f" enum:"daily,weekly,monthly" default:"daily" help:"Frequency (daily|weekly|monthly)."`
	Days        string `short:"d" help:"Weekdays for weekly habits (mon,wed,fri) or days of the month for monthly habits (1,15)."`
	Goal        int    `short:"g" help:"Times per week or month, for habits without fixed days."`
	End         string `help:"Last day of the habit (YYYY-MM-DD)."`
}

func (c *HabitAddCmd) Run(app *cli.Context, ctx context.Context) error {
	user, err := app.CurrentUser(ctx)
	if err != nil {
		return err
	}

	in := validation.HabitInput{
		Name:        c.Name,
		Emoji:       c.Emoji,
		Category:    c.Category,
		Color:       c.Color,
		Description: c.Description,
		Frequency:   constants.Frequency(c.Frequency),
		EndDate:     c.End,
	}
	if err := applySchedule(&in, c.Days, c.Goal); err != nil {
		return err
	}

	h, err := app.Service.CreateHabit(ctx, user.ID, in)
	if err != nil {
		return cli.ValidationReport(err)
	}
	app.Printf("Added habit: %s %s (%s, ID: %s)\n", h.Emoji, h.Name, cli.FormatSchedule(h.Schedule), h.ID)
	return nil
}

// applySchedule parses days for the input's frequency. Days and goal are
// exclusive: setting days clears the goal and a positive goal clears the days.
func applySchedule(in *validation.HabitInput, days string, goal int) error {
	switch in.Frequency {
	case constants.FrequencyWeekly:
		if days != "" {
			parsed, err := cli.ParseWeekdays(days)
			if err != nil {
				return err
			}
			in.WeekDays, in.WeeklyGoal = parsed, 0
		}
		if goal > 0 {
			in.WeekDays, in.WeeklyGoal = nil, goal
		}
	case constants.FrequencyMonthly:
		if days != "" {
			parsed, err := cli.ParseMonthDays(days)
			if err != nil {
				return err
			}
			in.MonthDays, in.MonthlyGoal = parsed, 0
		}
		if goal > 0 {
			in.MonthDays, in.MonthlyGoal = nil, goal
		}
	default:
		if days != "" || goal > 0 {
			return fmt.Errorf("--days and --goal only apply to weekly and monthly habits")
		}
	}
	return nil
}

type HabitListCmd struct{}

func (c *HabitListCmd) Run(app *cli.Context, ctx context.Context) error {
	user, err := app.CurrentUser(ctx)
	if err != nil {
		return err
	}
	histories, err := app.Service.Histories(ctx, user.ID)
	if err != nil {
		return err
	}
	habits := make([]models.Habit, len(histories))
	for i, hh := range histories {
		habits[i] = hh.Habit
	}
	app.Printer().HabitList(habits)
	return nil
}

type HabitTodayCmd struct{}

func (c *HabitTodayCmd) Run(app *cli.Context, ctx context.Context) error {
	user, err := app.CurrentUser(ctx)
	if err != nil {
		return err
	}
	d, err := app.Service.Dashboard(ctx, user.ID)
	if err != nil {
		return err
	}
	app.Printer().Dashboard(d)
	return nil
}

type HabitShowCmd struct {
	Habit string `arg:"" help:"Habit ID or name."`
}

func (c *HabitShowCmd) Run(app *cli.Context, ctx context.Context) error {
	user, h, err := resolveHabit(ctx, app, c.Habit)
	if err != nil {
		return err
	}
	v, err := app.Service.GetHabit(ctx, h.ID, user.ID)
	if err != nil {
		return err
	}
	app.Printer().Habit(v)
	return nil
}

type HabitEditCmd struct {
	Habit       string `arg:"" help:"Habit ID or name."`
	Name        string `help:"New name."`
	Emoji       string `short:"e" help:"New emoji."`
	Category    string `short:"c" help:"New category."`
	Color       string `help:"New color."`
	Description string `help:"New description."`
	Days        string `short:"d" help:"New weekdays or days of the month."`
	Goal        int    `short:"g" help:"New times per week or month."`
	End         string `help:"New last day (YYYY-MM-DD)."`
	NoEnd       bool   `help:"Remove the last day."`
}

func (c *HabitEditCmd) Run(app *cli.Context, ctx context.Context) error {
	user, h, err := resolveHabit(ctx, app, c.Habit)
	if err != nil {
		return err
	}

	in := inputFromHabit(h)
	override(&in.Name, c.Name)
	override(&in.Emoji, c.Emoji)
	override(&in.Category, c.Category)
	override(&in.Color, c.Color)
	override(&in.Description, c.Description)
	override(&in.EndDate, c.End)
	if c.NoEnd {
		in.EndDate = ""
	}
	if err := applySchedule(&in, c.Days, c.Goal); err != nil {
		return err
	}

	updated, err := app.Service.UpdateHabit(ctx, h.ID, user.ID, in)
	if err != nil {
		return cli.ValidationReport(err)
	}
	app.Printf("Updated habit: %s %s (%s)\n", updated.Emoji, updated.Name, cli.FormatSchedule(updated.Schedule))
	return nil
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// inputFromHabit returns the input that would recreate h.
func inputFromHabit(h models.Habit) validation.HabitInput {
	cols := models.Columns(h.Schedule)
	in := validation.HabitInput{
		Name:        h.Name,
		Emoji:       h.Emoji,
		Category:    h.Category,
		Color:       h.Color,
		Description: h.Description,
		Frequency:   cols.Frequency,
		WeekDays:    cols.WeekDays,
		WeeklyGoal:  cols.WeeklyGoal,
		MonthDays:   cols.MonthDays,
		MonthlyGoal: cols.MonthlyGoal,
	}
	if h.EndDate != nil {
		in.EndDate = h.EndDate.Format(constants.DateFormat)
	}
	return in
}

type HabitToggleCmd struct {
	Habit string `arg:"" help:"Habit ID or name."`
	Date  string `help:"Day to toggle (YYYY-MM-DD). Only today is accepted."`
}

func (c *HabitToggleCmd) Run(app *cli.Context, ctx context.Context) error {
	user, h, err := resolveHabit(ctx, app, c.Habit)
	if err != nil {
		return err
	}

	var date time.Time
	if c.Date != "" {
		date, err = utils.ParseDayInLocation(c.Date, app.Service.Location())
		if err != nil {
			return fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", c.Date)
		}
	}

	result, err := app.Service.Toggle(ctx, h.ID, user.ID, date)
	if err != nil {
		return err
	}
	app.Printer().Toggle(h.Name, result)
	return nil
}

type HabitDeleteCmd struct {
	Habit string `arg:"" help:"Habit ID or name."`
	Yes   bool   `short:"y" help:"Do not ask for confirmation."`
}

func (c *HabitDeleteCmd) Run(app *cli.Context, ctx context.Context) error {
	user, h, err := resolveHabit(ctx, app, c.Habit)
	if err != nil {
		return err
	}

	if !c.Yes {
		ok, err := app.Confirm(fmt.Sprintf("Delete %s %s and all its completions?", h.Emoji, h.Name))
		if err != nil {
			return err
		}
		if !ok {
			app.Println("Deletion cancelled.")
			return nil
		}
	}

	app.PerformAutomaticBackup(ctx)
	if err := app.Service.DeleteHabit(ctx, h.ID, user.ID); err != nil {
		return err
	}
	app.Printf("Deleted habit: %s\n", h.Name)
	return nil
}

// resolveHabit finds one of the current user's habits by ID or, failing that,
// by case-insensitive name.
func resolveHabit(ctx context.Context, app *cli.Context, ref string) (models.User, models.Habit, error) {
	user, err := app.CurrentUser(ctx)
	if err != nil {
		return models.User{}, models.Habit{}, err
	}
	histories, err := app.Service.Histories(ctx, user.ID)
	if err != nil {
		return models.User{}, models.Habit{}, err
	}

	var matches []models.Habit
	for _, hh := range histories {
		if hh.Habit.ID == ref {
			return user, hh.Habit, nil
		}
		if strings.EqualFold(hh.Habit.Name, strings.TrimSpace(ref)) {
			matches = append(matches, hh.Habit)
		}
	}
	switch len(matches) {
	case 0:
		return models.User{}, models.Habit{}, fmt.Errorf("habit %q: %w", ref, service.ErrNotFound)
	case 1:
		return user, matches[0], nil
	default:
		return models.User{}, models.Habit{}, fmt.Errorf("%d habits are named %q, use the ID instead", len(matches), ref)
	}
}
