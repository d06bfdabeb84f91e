package main

import (
	"fmt"
	"os"

	marketplaceapp "github.com/sellerhub/backend/internal/application/marketplace"
	"github.com/sellerhub/backend/internal/domain/marketplace"
	"github.com/sellerhub/backend/internal/infrastructure/cache"
	"github.com/sellerhub/backend/internal/infrastructure/config"
	"github.com/sellerhub/backend/internal/infrastructure/ecommerce"
	"github.com/sellerhub/backend/internal/infrastructure/logger"
	"github.com/sellerhub/backend/internal/infrastructure/notify"
	"github.com/sellerhub/backend/internal/infrastructure/persistence"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	logLevel        string
	marketplaceFlag string

	app *cliApp
)

// cliApp holds the wired services shared by the sync subcommands.
type cliApp struct {
	cfg          *config.Config
	log          *zap.Logger
	db           *persistence.Database
	integrations marketplace.IntegrationRepository
	orders       *marketplaceapp.OrderService
	supplies     *marketplaceapp.SupplyService
	dictionaries *marketplaceapp.DictionaryService
}

var rootCmd = &cobra.Command{
	Use:   "sync",
	Short: "SellerHub marketplace sync triggers",
	Long: `Console triggers for the marketplace synchronization pipeline.
Each subcommand runs one sync pass for every published integration,
optionally narrowed to a single marketplace via --marketplace.`,
	PersistentPreRunE: persistentPreRun,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if app != nil && app.db != nil {
			return app.db.Close()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&marketplaceFlag, "marketplace", "", "marketplace code (OZON, WILDBERRIES); empty runs all")
}

func persistentPreRun(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "help" || cmd.Name() == "completion" {
		return nil
	}

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}

	integrationRepo := persistence.NewGormIntegrationRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	supplyRepo := persistence.NewGormSupplyRepository(db.DB)
	dictionaryRepo := persistence.NewGormDictionaryRepository(db.DB)

	registry := ecommerce.NewProviderRegistry(cfg.Marketplaces, log)
	dictionaryCache := cache.NewDictionaryCache(cfg.Redis, log)
	notifier := notify.NewLoggerNotifier(log)

	app = &cliApp{
		cfg:          cfg,
		log:          log,
		db:           db,
		integrations: integrationRepo,
		orders:       marketplaceapp.NewOrderService(orderRepo, registry, notifier, log),
		supplies:     marketplaceapp.NewSupplyService(supplyRepo, orderRepo, registry, log),
		dictionaries: marketplaceapp.NewDictionaryService(dictionaryRepo, registry, dictionaryCache, log),
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
