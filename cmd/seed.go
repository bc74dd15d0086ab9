package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/shopassist/internal/progress"
	"github.com/ziadkadry99/shopassist/internal/seed"
)

var seedCmd = &cobra.Command{
	Use:   "seed [patterns...]",
	Short: "Load products and orders from YAML files",
	Long: `Reads every YAML file matching the given glob patterns (default ` + seed.DefaultPattern + `),
validates the records and upserts them into the catalog and order tables.
Patterns support ** for recursive matching.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log, err := newLogger(cfg)
		if err != nil {
			return err
		}

		ctx := context.Background()
		a, err := newApp(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer a.Close()

		stores := seed.Stores{Products: a.products, Orders: a.orders}
		if a.cache != nil {
			stores.Cache = a.cache
		}

		res, err := seed.Run(ctx, args, stores, progress.NewReporter(os.Stderr, "Seeding"))
		if err != nil {
			return fmt.Errorf("seeding: %w", err)
		}

		fmt.Fprintf(os.Stderr, "Seeded %d products and %d orders from %d file(s) into %s\n",
			res.Products, res.Orders, len(res.Files), a.db.Path())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
