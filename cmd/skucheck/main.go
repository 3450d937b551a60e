package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/RoundRobinHood/bynder-taxonomy-sync/bynder"
	"github.com/RoundRobinHood/bynder-taxonomy-sync/config"
	"github.com/RoundRobinHood/bynder-taxonomy-sync/feed"
	"github.com/RoundRobinHood/bynder-taxonomy-sync/logging"
	"github.com/RoundRobinHood/bynder-taxonomy-sync/report"
	"github.com/RoundRobinHood/bynder-taxonomy-sync/sheet"
	"github.com/RoundRobinHood/bynder-taxonomy-sync/syncing"
	"github.com/RoundRobinHood/bynder-taxonomy-sync/types"
	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
)

type options struct {
	feedURL string
	output  string
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "skucheck",
		Short:         "List feed SKUs that are not options of the Bynder SKU metaproperty",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.feedURL, "feed-url", "", "product feed URL (overrides FEED_URL)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "missing_skus.csv", "where to write the missing SKUs")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")
	return cmd
}

func run(ctx context.Context, opts *options) error {
	cfg, err := config.Load[config.SKUCheck](nil)
	if err != nil {
		return err
	}
	if opts.verbose {
		cfg.Level = "debug"
	}
	if opts.feedURL != "" {
		cfg.FeedURL = opts.feedURL
	}
	log := logging.New(logging.Config{Level: cfg.Level, Format: cfg.Format})

	cnf := types.ApiConfig{Domain: cfg.Domain}
	httpClient, err := bynder.Authenticate(ctx, cnf, cfg.ClientID, cfg.ClientSecret)
	if err != nil {
		return err
	}
	client := bynder.NewClient(cnf, httpClient, log)

	existing, err := client.GetAllOptions(ctx, cfg.SKUMetapropertyID)
	if err != nil {
		return err
	}
	log.Info().Int("count", len(existing)).Msg("SKU options collected from Bynder")
	for label := range existing {
		log.Info().Str("sku", label).Msg("example SKU from Bynder")
		break
	}
	if len(existing) == 0 {
		log.Warn().Msg("no SKUs retrieved from Bynder")
	}

	f, err := feed.Fetch(ctx, cfg.FeedURL, nil, log)
	if err != nil {
		return err
	}
	log.Info().Int("items", f.ItemCount).Int("skus", len(f.Items)).Msg("parsed feed")
	if len(f.Items) == 0 {
		log.Warn().Msg("no SKUs retrieved from feed")
	} else {
		log.Info().Str("sku", f.Items[0].SKU).Msg("example SKU from feed")
	}

	missing := syncing.MissingSKUs(f, existing)
	log.Info().Int("count", len(missing)).Msg("SKUs missing in Bynder")
	for _, item := range missing {
		log.Info().Str("sku", item.SKU).Str("title", item.Title).Msg("missing")
	}

	buf := &bytes.Buffer{}
	if err := sheet.WriteMissing(buf, missing); err != nil {
		return fmt.Errorf("failed to render %s: %w", opts.output, err)
	}
	if err := os.WriteFile(opts.output, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", opts.output, err)
	}
	log.Info().Str("file", opts.output).Int("count", len(missing)).Msg("CSV file created")

	if cfg.Bucket == "" {
		return nil
	}
	uploader, err := report.NewS3Uploader(ctx, cfg.Bucket, cfg.Region)
	if err != nil {
		return err
	}
	key := cfg.Key
	if key == "" {
		key = report.DefaultKey("missing_skus", time.Now())
	}
	if err := uploader.Upload(ctx, key, bytes.NewReader(buf.Bytes())); err != nil {
		return err
	}
	log.Info().Str("bucket", cfg.Bucket).Str("key", key).Msg("report uploaded")
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "skucheck:", err)
		stop()
		os.Exit(1)
	}
}
