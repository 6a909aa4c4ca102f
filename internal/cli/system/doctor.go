package system

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iamhollywoodpro/strivetrack/internal/backup"
	"github.com/iamhollywoodpro/strivetrack/internal/cli"
	"github.com/iamhollywoodpro/strivetrack/internal/keyring"
	"github.com/iamhollywoodpro/strivetrack/internal/migration"
	"github.com/iamhollywoodpro/strivetrack/internal/storage"
	"github.com/iamhollywoodpro/strivetrack/internal/utils"
	"github.com/iamhollywoodpro/strivetrack/internal/validation"
)

type DoctorCmd struct{}

// migrator is implemented by the SQL-backed stores.
type migrator interface {
	Runner() (*migration.Runner, error)
}

type check struct {
	name string
	run  func(*cli.Context) error
	// warnOnly checks never fail the command.
	warnOnly bool
	// needsDB checks are skipped when the database is unreachable.
	needsDB bool
}

var checks = []check{
	{name: "Schema version", run: checkSchemaVersion, needsDB: true},
	{name: "Migrations complete", run: checkMigrationsComplete, needsDB: true},
	{name: "Backups present", run: checkBackupsPresent, warnOnly: true},
	{name: "Clock/timezone", run: checkClockTimezone},
	{name: "OS keyring", run: checkKeyring, warnOnly: true},
	{name: "Session", run: checkSession, warnOnly: true, needsDB: true},
	{name: "Data validation", run: checkRecords, needsDB: true},
	{name: "Storage tiers", run: checkStorageTiers, warnOnly: true, needsDB: true},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	dbReachable := true
	if err := checkDBReachable(ctx); err != nil {
		fmt.Printf("❌ Database reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
		dbReachable = false
	} else {
		fmt.Printf("✓ Database reachable: OK\n")
	}

	for _, c := range checks {
		if c.needsDB && !dbReachable {
			fmt.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", c.name)
		case c.warnOnly:
			fmt.Printf("⚠ %s: WARNING\n", c.name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("❌ %s: FAIL\n", c.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	fmt.Println()
	if hasError {
		return errors.New("diagnostics found problems")
	}
	fmt.Println("All checks passed.")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if ctx.Store == nil {
		return errors.New("no store configured")
	}
	if _, err := ctx.Store.Keys(storage.KeySession); err != nil {
		return fmt.Errorf("failed to query store: %w", err)
	}
	return nil
}

func runnerFor(ctx *cli.Context) (*migration.Runner, bool, error) {
	m, ok := ctx.Store.(migrator)
	if !ok {
		return nil, false, nil
	}
	r, err := m.Runner()
	return r, true, err
}

func checkSchemaVersion(ctx *cli.Context) error {
	runner, ok, err := runnerFor(ctx)
	if !ok || err != nil {
		return err
	}
	return runner.ValidateVersion()
}

func checkMigrationsComplete(ctx *cli.Context) error {
	runner, ok, err := runnerFor(ctx)
	if !ok || err != nil {
		return err
	}
	pending, err := runner.Pending()
	if err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}
	if len(pending) > 0 {
		return fmt.Errorf("migrations incomplete: %d pending, run 'strivetrack init'", len(pending))
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'strivetrack backup create'")
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	tz := "Local"
	if ctx.Config != nil && ctx.Config.Timezone != "" {
		tz = ctx.Config.Timezone
	}
	now, err := utils.NowInTimezone(tz)
	if err != nil {
		return err
	}
	if now.Year() < 2020 {
		return fmt.Errorf("system clock looks wrong: %s", now.Format(time.RFC3339))
	}
	return nil
}

func checkKeyring(*cli.Context) error {
	if !keyring.IsAvailable() {
		return keyring.ErrKeyringUnavailable
	}
	return nil
}

func checkSession(ctx *cli.Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return err
	}
	if !sess.Online {
		return errors.New("signed in offline; cloud storage is unavailable")
	}
	return nil
}

func checkRecords(ctx *cli.Context) error {
	sess, err := ctx.Session()
	if err != nil {
		// Nothing to audit without a user.
		return nil
	}
	records, err := loadRecords(storage.NewRepository(ctx.Store, sess.UserID()))
	if err != nil {
		return err
	}
	result := validation.New().ValidateRecords(records)
	if result.HasConflicts() {
		return fmt.Errorf("%d conflict(s) found, run 'strivetrack validate' for details", len(result.Conflicts))
	}
	return nil
}

func checkStorageTiers(ctx *cli.Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return nil
	}
	bg, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	sel := ctx.Selector(bg, sess.UserID(), sess.BackendToken, storage.NewRepository(ctx.Store, sess.UserID()))
	var down []string
	for _, st := range sel.Status() {
		if !st.Ready {
			down = append(down, fmt.Sprintf("%s (%s)", st.Tier, st.Error))
		}
	}
	if len(down) > 0 {
		return fmt.Errorf("unavailable tiers: %v", down)
	}
	return nil
}
