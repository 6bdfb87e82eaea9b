package app

import (
	"context"
	"fmt"
	"syscall"

	"golang.org/x/term"

	"github.com/mara/opsdesk/internal/cache"
	"github.com/mara/opsdesk/internal/config"
	"github.com/mara/opsdesk/internal/crypto"
	"github.com/mara/opsdesk/internal/remote"
	"github.com/mara/opsdesk/internal/service"
)

// App is the dependency injection container for all application components
type App struct {
	Config *config.Config
	Remote remote.Service
	Caches *cache.Caches

	// Services
	TimerService     service.TimerService
	LedgerService    service.LedgerService
	InvoiceService   service.InvoiceService
	DirectoryService service.DirectoryService
	ReportService    service.ReportService
	SyncService      service.SyncService
}

// New creates a new App instance, initializing all dependencies.
// It handles:
// 1. Loading config
// 2. Setting up logging
// 3. Getting the API token from the keyring
// 4. Creating the remote client and caches
// 5. Creating services
func New(ctx context.Context) (*App, error) {
	cfg, err := config.LoadDefault()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return NewWithConfig(ctx, cfg)
}

// NewWithConfig creates an App with a provided config (useful for testing)
func NewWithConfig(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	if err := initLogRotator(cfg.Logging.File); err != nil {
		return nil, err
	}
	setLogLevels(cfg.Logging.Level)

	// Get the API token for the remote service
	keyring := crypto.NewKeyring()
	token, err := keyring.GetToken()
	if err != nil {
		// No token stored yet, prompt for one
		fmt.Println("Connecting to the ops service for the first time...")
		token, err = promptForToken()
		if err != nil {
			return nil, fmt.Errorf("failed to read API token: %w", err)
		}
		if err := keyring.SetToken(token); err != nil {
			return nil, fmt.Errorf("failed to store API token: %w", err)
		}
	}

	client := remote.NewClient(cfg.Remote.BaseURL, token, cfg.Remote.RequestTimeout)
	caches := cache.New()

	syncService := service.NewSyncService(client, caches, cfg.Remote.OwnerID)
	timerService := service.NewTimerService(client, syncService)
	ledgerService := service.NewLedgerService(client, caches, syncService)
	invoiceService := service.NewInvoiceService(client, caches, syncService)
	directoryService := service.NewDirectoryService(client, caches, syncService)
	reportService := service.NewReportService(caches)

	appLog.Infof("opsdesk initialized, remote %s", cfg.Remote.BaseURL)

	return &App{
		Config:           cfg,
		Remote:           client,
		Caches:           caches,
		TimerService:     timerService,
		LedgerService:    ledgerService,
		InvoiceService:   invoiceService,
		DirectoryService: directoryService,
		ReportService:    reportService,
		SyncService:      syncService,
	}, nil
}

// Warm performs the initial full refresh of all mirrored collections so
// the UI never renders from empty caches.
func (a *App) Warm(ctx context.Context) error {
	return a.SyncService.SynchronizeAll(ctx)
}

// Close cleanly shuts down the application
func (a *App) Close() error {
	closeLogRotator()
	return nil
}

// SaveConfig saves the current configuration to disk
func (a *App) SaveConfig() error {
	return a.Config.Save(config.DefaultConfigPath())
}

// promptForToken prompts the user for an API token (first run).
// This should be called when the keyring has no stored token.
func promptForToken() (string, error) {
	fmt.Println()
	fmt.Println("An API token is required to talk to the ops service.")
	fmt.Println("It will be stored securely in your system keyring.")
	fmt.Println()
	fmt.Print("Enter your API token: ")

	// Read token securely (no echo)
	token, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}

	if len(token) == 0 {
		return "", fmt.Errorf("token cannot be empty")
	}

	return string(token), nil
}
