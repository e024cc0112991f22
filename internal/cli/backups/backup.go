package backups

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BradSavary/Habit-Tracker/internal/backup"
	"github.com/BradSavary/Habit-Tracker/internal/cli"
	"github.com/BradSavary/Habit-Tracker/internal/constants"
	"github.com/BradSavary/Habit-Tracker/internal/logger"
)

var errNotSQLite = errors.New("backups are only supported for SQLite databases, use pg_dump for PostgreSQL")

type BackupCmd struct {
	Create  BackupCreateCmd  `cmd:"" help:"Create a backup of the database." default:"1"`
	List    BackupListCmd    `cmd:"" help:"List available backups."`
	Restore BackupRestoreCmd `cmd:"" help:"Restore the database from a backup."`
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(app *cli.Context, ctx context.Context) error {
	mgr := app.BackupManager()
	if mgr == nil {
		return errNotSQLite
	}
	backupPath, err := mgr.CreateBackup(ctx)
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}
	app.Printf("✓ Backup created: %s\n", filepath.Base(backupPath))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(app *cli.Context) error {
	mgr := app.BackupManager()
	if mgr == nil {
		return errNotSQLite
	}
	list, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	app.Printer().Backups(mgr.GetBackupDir(), list, constants.MaxBackups)
	return nil
}

type BackupRestoreCmd struct {
	BackupFile string `arg:"" help:"Path or filename of the backup to restore."`
	Yes        bool   `short:"y" help:"Do not ask for confirmation."`
}

func (c *BackupRestoreCmd) Run(app *cli.Context, ctx context.Context) error {
	mgr := app.BackupManager()
	if mgr == nil {
		return errNotSQLite
	}

	backupPath := mgr.Resolve(c.BackupFile)
	if _, err := os.Stat(backupPath); errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", backup.ErrBackupNotFound, backupPath)
	}

	if !c.Yes {
		app.Println("⚠️  WARNING: This will replace your current database with the backup.")
		app.Println("A backup of your current database will be created before restoring.")
		app.Printf("\nRestore from: %s\n", filepath.Base(backupPath))
		ok, err := app.Confirm("Continue?")
		if err != nil {
			return err
		}
		if !ok {
			app.Println("Restore cancelled.")
			return nil
		}
	}

	if err := app.Store.Close(); err != nil {
		logger.Warn("Failed to close database connection", "error", err)
	}

	safety, err := mgr.RestoreBackup(ctx, backupPath)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}

	app.Println("✓ Database restored successfully!")
	if safety != "" {
		app.Printf("  Previous database saved as %s\n", filepath.Base(safety))
	}
	app.Println("Restart any running 'habits serve' processes to use the restored database.")
	return nil
}
