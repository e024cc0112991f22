package moods

import (
	"context"
	"fmt"
	"time"

	"github.com/BradSavary/Habit-Tracker/internal/cli"
	"github.com/BradSavary/Habit-Tracker/internal/constants"
	"github.com/BradSavary/Habit-Tracker/internal/utils"
	"github.com/BradSavary/Habit-Tracker/internal/validation"
)

type MoodCmd struct {
	Set    MoodSetCmd    `cmd:"" help:"Record how you feel today or on another day."`
	List   MoodListCmd   `cmd:"" help:"List mood entries, newest first." default:"1"`
	Delete MoodDeleteCmd `cmd:"" help:"Delete a mood entry."`
}

type MoodSetCmd struct {
	Emoji string `arg:"" help:"Mood emoji."`
	Day   string `help:"Day (YYYY-MM-DD), today when omitted."`
	Notes string `short:"n" help:"Free-form notes."`
}

func (c *MoodSetCmd) Run(app *cli.Context, ctx context.Context) error {
	user, err := app.CurrentUser(ctx)
	if err != nil {
		return err
	}
	m, isNew, err := app.Service.SetMood(ctx, user.ID, validation.MoodInput{
		Day:   c.Day,
		Emoji: c.Emoji,
		Notes: c.Notes,
	})
	if err != nil {
		return cli.ValidationReport(err)
	}
	verb := "Updated"
	if isNew {
		verb = "Recorded"
	}
	app.Printf("%s mood for %s: %s\n", verb, m.Day.Format(constants.DateFormat), m.Emoji)
	return nil
}

type MoodListCmd struct {
	From string `help:"First day (YYYY-MM-DD)."`
	To   string `help:"Last day (YYYY-MM-DD)."`
}

func (c *MoodListCmd) Run(app *cli.Context, ctx context.Context) error {
	user, err := app.CurrentUser(ctx)
	if err != nil {
		return err
	}
	from, err := parseBound(app, c.From)
	if err != nil {
		return err
	}
	to, err := parseBound(app, c.To)
	if err != nil {
		return err
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return fmt.Errorf("--to %s is before --from %s", c.To, c.From)
	}

	entries, err := app.Service.ListMoods(ctx, user.ID, from, to)
	if err != nil {
		return err
	}
	app.Printer().Moods(entries)
	return nil
}

// parseBound returns the zero time for an empty value, leaving the range open.
func parseBound(app *cli.Context, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	day, err := utils.ParseDayInLocation(value, app.Service.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", value)
	}
	return day, nil
}

type MoodDeleteCmd struct {
	ID string `arg:"" help:"Mood entry ID."`
}

func (c *MoodDeleteCmd) Run(app *cli.Context, ctx context.Context) error {
	user, err := app.CurrentUser(ctx)
	if err != nil {
		return err
	}
	if err := app.Service.DeleteMood(ctx, c.ID, user.ID); err != nil {
		return fmt.Errorf("mood %s: %w", c.ID, err)
	}
	app.Printf("Deleted mood entry %s\n", c.ID)
	return nil
}
