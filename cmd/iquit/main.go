package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/pichane/iquit-cli/internal/auth"
	"github.com/pichane/iquit-cli/internal/cli"
	"github.com/pichane/iquit-cli/internal/constants"
	"github.com/pichane/iquit-cli/internal/credentials"
	apperrors "github.com/pichane/iquit-cli/internal/errors"
	"github.com/pichane/iquit-cli/internal/logger"
	"github.com/pichane/iquit-cli/internal/session"
	"github.com/pichane/iquit-cli/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path, SQLite database path (.db), or PostgreSQL connection string. For PostgreSQL, credentials must NOT be embedded in the connection string." type:"string" env:"IQUIT_CONFIG" default:"~/.config/iquit/iquit.json"`
	Verbose bool   `short:"v" help:"Enable verbose logging."`

	Login  cli.LoginCmd  `cmd:"" help:"Log in or create an account."`
	Logout cli.LogoutCmd `cmd:"" help:"Log out and clear the session."`
	Log    cli.LogCmd    `cmd:"" help:"Log a consumption."`
	Today  cli.TodayCmd  `cmd:"" help:"Show today's consumption count."`
	Stats  cli.StatsCmd  `cmd:"" help:"Show weekly statistics."`
	Prefs  cli.PrefsCmd  `cmd:"" help:"Manage preferences."`
	Doctor cli.DoctorCmd `cmd:"" help:"Run health checks and diagnostics."`
	Tui    cli.TuiCmd    `cmd:"" help:"Launch the interactive TUI." default:"1"`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Habit-quitting tracker and session companion"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{"version": "v0.1.0"},
	)

	// Optional .env for local development (IQUIT_API_URL and friends).
	_ = godotenv.Load()

	configPath := expandHome(CLI.Config)

	// Select the storage backend from the config format.
	var store storage.Provider
	switch {
	case strings.HasPrefix(CLI.Config, "postgres://") || strings.HasPrefix(CLI.Config, "postgresql://"):
		if storage.HasEmbeddedCredentials(CLI.Config) {
			fmt.Fprintf(os.Stderr, "Error: PostgreSQL connection strings with embedded credentials are not allowed.\n")
			fmt.Fprintf(os.Stderr, "       Use environment variables or a .pgpass file instead.\n")
			os.Exit(1)
		}
		store = storage.NewPostgresStore(CLI.Config)
	case strings.HasSuffix(configPath, ".db"):
		store = storage.NewSQLiteStore(configPath)
	default:
		store = storage.NewJSONStore(configPath)
	}

	if err := logger.Init(logger.Config{
		Verbose:   CLI.Verbose,
		ConfigDir: filepath.Dir(configPath),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := storage.Open(store); err != nil {
		apperrors.Fatal(err)
	}
	defer store.Close()

	baseURL := os.Getenv("IQUIT_API_URL")
	if baseURL == "" {
		baseURL = constants.DefaultBaseURL
	}

	creds := credentials.NewStore(store)
	authSvc := auth.NewService(creds, baseURL, nil)

	appCtx := &cli.Context{
		Session: session.New(authSvc, store),
		Creds:   creds,
		Store:   store,
		BaseURL: baseURL,
	}

	if err := ctx.Run(appCtx); err != nil {
		apperrors.Fatal(err)
	}
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
