package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/RoundRobinHood/bynder-taxonomy-sync/bynder"
	"github.com/RoundRobinHood/bynder-taxonomy-sync/config"
	"github.com/RoundRobinHood/bynder-taxonomy-sync/logging"
	"github.com/RoundRobinHood/bynder-taxonomy-sync/sheet"
	"github.com/RoundRobinHood/bynder-taxonomy-sync/syncing"
	"github.com/RoundRobinHood/bynder-taxonomy-sync/types"
	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
)

type options struct {
	csvPath     string
	dryRun      bool
	createPause time.Duration
	linkPause   time.Duration
	verbose     bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "updatemetadata",
		Short:         "Create missing product, shade and SKU options in Bynder and link them",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.csvPath, "csv", "your_file.csv", "sheet with Product, Shade, Product + Shade and SKU columns")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "log what would be created or linked without calling Bynder")
	cmd.Flags().DurationVar(&opts.createPause, "create-pause", syncing.DefaultCreatePause, "wait after each created option")
	cmd.Flags().DurationVar(&opts.linkPause, "link-pause", syncing.DefaultLinkPause, "wait after each linked option")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")
	return cmd
}

func run(ctx context.Context, opts *options) error {
	cfg, err := config.Load[config.UpdateMetadata](nil)
	if err != nil {
		return err
	}
	if opts.verbose {
		cfg.Level = "debug"
	}
	log := logging.New(logging.Config{Level: cfg.Level, Format: cfg.Format})

	cnf := types.ApiConfig{Domain: cfg.Domain}
	httpClient, err := bynder.Authenticate(ctx, cnf, cfg.ClientID, cfg.ClientSecret)
	if err != nil {
		return err
	}
	client := bynder.NewClient(cnf, httpClient, log)

	file, err := os.Open(opts.csvPath)
	if err != nil {
		return fmt.Errorf("failed to open sheet: %w", err)
	}
	rows, err := sheet.ReadRows(file)
	file.Close()
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", opts.csvPath, err)
	}
	log.Info().Str("file", opts.csvPath).Int("rows", len(rows)).Msg("sheet loaded")

	meta := syncing.Metaproperties{
		Product: cfg.ProductMetapropertyID,
		Shade:   cfg.ShadeMetapropertyID,
		SKU:     cfg.SKUMetapropertyID,
	}

	log.Info().Msg("fetching current metaproperty options from Bynder")
	tax := &syncing.Taxonomy{}
	if tax.Products, err = client.GetAllOptions(ctx, meta.Product); err != nil {
		return err
	}
	if tax.Shades, err = client.GetAllOptions(ctx, meta.Shade); err != nil {
		return err
	}
	if tax.SKUs, err = client.GetAllOptions(ctx, meta.SKU); err != nil {
		return err
	}
	log.Info().
		Int("products", len(tax.Products)).
		Int("shades", len(tax.Shades)).
		Int("skus", len(tax.SKUs)).
		Msg("options collected")

	s := &syncing.MetadataSync{
		Store:       client,
		Meta:        meta,
		Log:         log,
		DryRun:      opts.dryRun,
		CreatePause: opts.createPause,
		LinkPause:   opts.linkPause,
		Progress:    true,
	}
	return s.Run(ctx, rows, tax)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "updatemetadata:", err)
		stop()
		os.Exit(1)
	}
}
