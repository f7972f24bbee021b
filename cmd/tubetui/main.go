package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/mvickers/tubetui/internal/api"
	"github.com/mvickers/tubetui/internal/config"
	"github.com/mvickers/tubetui/internal/log"
	"github.com/mvickers/tubetui/internal/search"
	"github.com/mvickers/tubetui/internal/service"
	"github.com/mvickers/tubetui/internal/store"
	"github.com/mvickers/tubetui/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	// Handle version flag
	var showVersion bool
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.Parse()

	if showVersion {
		fmt.Printf("tubetui %s\n", Version)
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tubetui must be run in a terminal")
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting tubetui", "version", Version)

	// Check if configured
	if !cfg.IsConfigured() {
		return runSetupFlow(cfg)
	}

	// Create API client
	client := api.NewClient(cfg.Server.URL, cfg.Server.Token, logger)

	// Open the local first-page cache (memory-only if it fails)
	cache, err := store.NewFeedCache(config.GetCachePath(), cfg.Server.URL)
	if err != nil {
		logger.Warn("feed cache unavailable, running without persistence", "error", err)
		cache, _ = store.NewFeedCache("", "")
	}
	defer cache.Close()

	pageSize := cfg.Feed.PageSize

	// Create services
	svc := tui.Services{
		Session:   service.NewSessionService(client, cache, logger),
		Videos:    service.NewVideoFeedService(client, cache, pageSize, logger),
		Watch:     service.NewWatchService(client, client, pageSize, logger),
		Comments:  service.NewCommentService(client, pageSize, logger),
		Playlists: service.NewPlaylistService(client, cache, pageSize, logger),
		History:   service.NewHistoryService(client, cache, pageSize, logger),
		Posts:     service.NewPostService(client, cache, pageSize, logger),
		Subs:      service.NewSubscriptionService(client, cache, pageSize, logger),
		Search:    search.NewService(logger),
	}

	// Create TUI model
	model := tui.NewModel(svc, cfg, cfg.IsLoggedIn())

	// Run the TUI
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

// runSetupFlow handles the initial setup when no server URL is stored
func runSetupFlow(cfg *config.Config) error {
	fmt.Println()
	fmt.Println("Welcome to tubetui!")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("Enter your server URL (e.g., http://localhost:8000): ")
		input, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		serverURL := strings.TrimSpace(input)

		if serverURL == "" {
			fmt.Println("Server URL cannot be empty. Please try again.")
			continue
		}

		fmt.Print("Checking server... ")
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		err = api.NewClient(serverURL, "", log.NullLogger()).Ping(ctx)
		cancel()
		if err != nil {
			fmt.Printf("\n✗ Could not reach the server: %v\n", err)
			fmt.Println("Please check the URL and try again.")
			fmt.Println()
			continue
		}
		fmt.Println("✓")

		cfg.Server.URL = serverURL
		break
	}

	if err := config.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("✓ Configuration saved!")
	fmt.Println()
	fmt.Println("Run tubetui again to sign in and start browsing.")

	return nil
}
