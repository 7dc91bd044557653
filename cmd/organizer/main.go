package main

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	flag "github.com/spf13/pflag"

	"github.com/alvaro-cozano/organizer-cli/internal/api"
	"github.com/alvaro-cozano/organizer-cli/internal/config"
	"github.com/alvaro-cozano/organizer-cli/internal/localstore"
	"github.com/alvaro-cozano/organizer-cli/internal/store"
	appsync "github.com/alvaro-cozano/organizer-cli/internal/sync"
	"github.com/alvaro-cozano/organizer-cli/internal/ui"
	"github.com/alvaro-cozano/organizer-cli/internal/ui/keys"
	"github.com/alvaro-cozano/organizer-cli/internal/ui/styles"
	"github.com/alvaro-cozano/organizer-cli/internal/ui/views"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	configPath := flag.StringP("config", "c", "", "path to the config file")
	showVersion := flag.BoolP("version", "v", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("organizer %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)

	local, err := localstore.Open()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening local store: %v\n", err)
		os.Exit(1)
	}
	defer local.Close()

	client, err := api.NewClient(api.ClientConfig{
		BaseURL: cfg.API.BaseURL,
		Tokens:  local,
		Logger:  logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error configuring API client: %v\n", err)
		os.Exit(1)
	}

	chatURL := cfg.Chat.URL
	if chatURL == "" {
		chatURL = cfg.API.BaseURL
	}

	st := store.New()
	cards := appsync.NewCards(client, st, logger)
	ctx := &views.Ctx{
		API:        client,
		Store:      st,
		Auth:       appsync.NewAuth(client, st, local, logger),
		Boards:     appsync.NewBoards(client, st, logger),
		Cards:      cards,
		Checklists: appsync.NewChecklists(client, st, cards, logger),
		Statuses:   appsync.NewStatuses(client, st, logger),
		Labels:     appsync.NewLabels(client, st, logger),
		Positions:  appsync.NewPositions(client, st, logger),
		Billing:    appsync.NewBilling(client, logger),
		Local:      local,
		ChatURL:    chatURL,
		Styles:     styles.NewStyles(),
		Keys:       keys.Default(),
		Logger:     logger,
	}

	app := ui.NewApp(ctx)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running application: %v\n", err)
		os.Exit(1)
	}
}

// newLogger writes structured logs to stderr; the terminal itself
// belongs to bubbletea.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
