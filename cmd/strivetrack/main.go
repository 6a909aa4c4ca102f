package main

import (
	"os"

	"github.com/alecthomas/kong"

	"github.com/iamhollywoodpro/strivetrack/internal/cli"
	"github.com/iamhollywoodpro/strivetrack/internal/cli/account"
	"github.com/iamhollywoodpro/strivetrack/internal/cli/backups"
	"github.com/iamhollywoodpro/strivetrack/internal/cli/food"
	"github.com/iamhollywoodpro/strivetrack/internal/cli/goals"
	"github.com/iamhollywoodpro/strivetrack/internal/cli/habits"
	"github.com/iamhollywoodpro/strivetrack/internal/cli/stats"
	"github.com/iamhollywoodpro/strivetrack/internal/cli/system"
	"github.com/iamhollywoodpro/strivetrack/internal/cli/uploads"
	"github.com/iamhollywoodpro/strivetrack/internal/config"
	"github.com/iamhollywoodpro/strivetrack/internal/constants"
	apperrors "github.com/iamhollywoodpro/strivetrack/internal/errors"
	"github.com/iamhollywoodpro/strivetrack/internal/logger"
	"github.com/iamhollywoodpro/strivetrack/internal/notifier"
	"github.com/iamhollywoodpro/strivetrack/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	DataDir string `help:"Directory holding config.yaml, the database, backups and logs." type:"string" default:"~/.config/strivetrack" env:"STRIVETRACK_DATA_DIR"`
	Debug   bool   `help:"Log debug output to stderr."`

	Init     system.InitCmd     `cmd:"" help:"Initialize strivetrack storage."`
	Doctor   system.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Validate system.ValidateCmd `cmd:"" help:"Check stored records for inconsistencies."`
	Serve    system.ServeCmd    `cmd:"" help:"Serve the JSON API."`
	Keyring  system.KeyringCmd  `cmd:"" help:"Manage secrets in the OS keyring."`

	Login         account.LoginCmd         `cmd:"" help:"Sign in."`
	Register      account.RegisterCmd      `cmd:"" help:"Create an account."`
	Logout        account.LogoutCmd        `cmd:"" help:"Sign out."`
	ResetPassword account.ResetPasswordCmd `cmd:"" help:"Send a password reset email."`
	Whoami        account.WhoamiCmd        `cmd:"" help:"Show the signed-in user."`

	Dashboard    stats.DashboardCmd    `cmd:"" help:"Show today's overview." default:"1"`
	Points       stats.PointsCmd       `cmd:"" help:"Show points and their breakdown."`
	Achievements stats.AchievementsCmd `cmd:"" help:"Show achievements and progress."`
	Storage      stats.StorageCmd      `cmd:"" help:"Show media storage usage."`

	Habit  habits.HabitCmd   `cmd:"" help:"Manage habits and habit tracking."`
	Goal   goals.GoalCmd     `cmd:"" help:"Manage goals."`
	Food   food.FoodCmd      `cmd:"" help:"Log food and review nutrition."`
	Media  uploads.MediaCmd  `cmd:"" help:"Manage progress photos and videos."`
	Backup backups.BackupCmd `cmd:"" help:"Manage database backups."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Habit, goal, nutrition and progress-photo tracker"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	cfg, err := config.Load(CLI.DataDir)
	if err != nil {
		apperrors.Fatal(err)
	}
	if err := logger.Init(logger.Config{Debug: CLI.Debug || cfg.Log.Debug, DataDir: cfg.DataDir, Level: cfg.Log.Level}); err != nil {
		apperrors.Fatal(err)
	}

	store, err := storage.Open(cfg.Store.Backend, cfg.StoreLocation())
	if err != nil {
		apperrors.Fatal(err)
	}

	// Only build the webhook sink when configured; a nil *WebhookSink is
	// not a nil Sink.
	sinks := []notifier.Sink{notifier.NewConsoleSink(os.Stdout)}
	if hook := notifier.NewWebhookSink(cfg.Notify.Webhook, cfg.Notify.Secret); hook != nil {
		sinks = append(sinks, hook)
	}

	appCtx := &cli.Context{
		Store:    store,
		Config:   cfg,
		Notifier: notifier.New(cfg.Notify.Stagger, sinks...),
	}
	if cfg.SessionSecret != "" {
		appCtx.Secret = []byte(cfg.SessionSecret)
	}

	// Load the store before running the command (Init command will handle its own loading)
	if ctx.Selected() != nil && ctx.Selected().Name != "init" {
		if err := store.Load(); err != nil {
			apperrors.Fatal(err)
		}
	}
	defer store.Close()

	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		apperrors.Fatal(err)
	}
}
