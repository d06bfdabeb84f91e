package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	marketplaceapp "github.com/sellerhub/backend/internal/application/marketplace"
	"github.com/sellerhub/backend/internal/domain/marketplace"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var orderLookback time.Duration

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Sync marketplace categories and attribute taxonomies",
	Example: `  sync categories
  sync categories --marketplace=OZON`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSync("categories", func(ctx context.Context, creds marketplace.Credentials) (*marketplaceapp.SyncReport, error) {
			return app.dictionaries.SyncAttributes(ctx, creds)
		})
	},
}

var orderStatusesCmd = &cobra.Command{
	Use:   "orders-statuses",
	Short: "Refresh statuses of locally known open orders",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSync("orders-statuses", func(ctx context.Context, creds marketplace.Credentials) (*marketplaceapp.SyncReport, error) {
			return app.orders.SyncStatuses(ctx, creds)
		})
	},
}

var suppliesCmd = &cobra.Command{
	Use:   "supplies",
	Short: "Reconcile supplies with the marketplace",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSync("supplies", func(ctx context.Context, creds marketplace.Credentials) (*marketplaceapp.SyncReport, error) {
			return app.supplies.Sync(ctx, creds)
		})
	},
}

var userOrdersCmd = &cobra.Command{
	Use:   "user-orders",
	Short: "Pull new orders created since the lookback window",
	Example: `  sync user-orders --marketplace=WILDBERRIES
  sync user-orders --lookback=72h`,
	RunE: func(cmd *cobra.Command, args []string) error {
		since := time.Now().Add(-orderLookback)
		return runSync("user-orders", func(ctx context.Context, creds marketplace.Credentials) (*marketplaceapp.SyncReport, error) {
			return app.orders.Pull(ctx, creds, since)
		})
	},
}

var warehousesCmd = &cobra.Command{
	Use:   "warehouses",
	Short: "Sync marketplace warehouse lists",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSync("warehouses", func(ctx context.Context, creds marketplace.Credentials) (*marketplaceapp.SyncReport, error) {
			return app.dictionaries.SyncWarehouses(ctx, creds)
		})
	},
}

func init() {
	userOrdersCmd.Flags().DurationVar(&orderLookback, "lookback", 24*time.Hour, "how far back to pull orders")

	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(orderStatusesCmd)
	rootCmd.AddCommand(suppliesCmd)
	rootCmd.AddCommand(userOrdersCmd)
	rootCmd.AddCommand(warehousesCmd)
}

type syncResult struct {
	tenantID    string
	marketplace string
	report      *marketplaceapp.SyncReport
	err         error
}

// runSync resolves the target integrations and executes fn once per
// integration, summarizing the outcome in a table. Integrations without
// configured credentials are skipped rather than failing the run.
func runSync(name string, fn func(context.Context, marketplace.Credentials) (*marketplaceapp.SyncReport, error)) error {
	ctx := context.Background()

	filter := marketplace.IntegrationFilter{}
	if marketplaceFlag != "" {
		code := marketplace.Code(strings.ToUpper(marketplaceFlag))
		if !code.IsValid() || code == marketplace.CodeNone {
			return fmt.Errorf("invalid marketplace code: %s", marketplaceFlag)
		}
		filter.Marketplace = &code
	}

	integrations, err := app.integrations.FindActive(ctx, filter)
	if err != nil {
		return fmt.Errorf("list integrations: %w", err)
	}
	if len(integrations) == 0 {
		app.log.Info("No matching integrations", zap.String("sync", name))
		return nil
	}

	results := make([]syncResult, 0, len(integrations))
	failures := 0
	for i := range integrations {
		integration := &integrations[i]
		creds := integration.Credentials()
		if err := creds.Validate(); err != nil {
			app.log.Warn("Skipping integration without credentials",
				zap.String("tenant_id", integration.TenantID.String()),
				zap.String("marketplace", string(integration.Marketplace)),
			)
			continue
		}

		report, err := fn(ctx, creds)
		if err != nil {
			failures++
			app.log.Error("Sync failed",
				zap.String("sync", name),
				zap.String("tenant_id", integration.TenantID.String()),
				zap.String("marketplace", string(integration.Marketplace)),
				zap.Error(err),
			)
		}
		results = append(results, syncResult{
			tenantID:    integration.TenantID.String(),
			marketplace: string(integration.Marketplace),
			report:      report,
			err:         err,
		})
	}

	printSummary(name, results)
	if failures > 0 {
		return fmt.Errorf("%s: %d of %d integrations failed", name, failures, len(results))
	}
	return nil
}

func printSummary(name string, results []syncResult) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "\n%s summary\n", name)
	fmt.Fprintln(w, "TENANT\tMARKETPLACE\tFETCHED\tCREATED\tUPDATED\tFAILED\tSTATUS")
	for _, r := range results {
		status := "ok"
		if r.err != nil {
			status = "error: " + r.err.Error()
		}
		var fetched, created, updated, failed int
		if r.report != nil {
			fetched = r.report.Fetched
			created = r.report.Created
			updated = r.report.Updated
			failed = r.report.Failed
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
			r.tenantID, r.marketplace, fetched, created, updated, failed, status)
	}
	w.Flush()
}
