package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nandanugg/stickerwalk/config"
	"github.com/nandanugg/stickerwalk/module/core"
	"github.com/nandanugg/stickerwalk/module/core/domain"
)

var rootCmd = &cobra.Command{
	Use:   "stickerctl",
	Short: "Inspect the configured walk and the collected stickers",
}

var exportKMLCmd = &cobra.Command{
	Use:   "export-kml",
	Short: "Export the POI file as KML for mapping applications",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		pois, err := config.LoadPOIs(cfg.POIFile)
		if err != nil {
			return err
		}

		out, _ := cmd.Flags().GetString("output")
		name, _ := cmd.Flags().GetString("name")

		var w io.Writer = cmd.OutOrStdout()
		if out != "" && out != "-" {
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			defer func() { _ = f.Close() }()
			w = f
		}
		if err := writeKML(w, name, pois); err != nil {
			return fmt.Errorf("write kml: %w", err)
		}
		log.WithFields(log.Fields{"areas": len(pois.Areas), "stickers": len(pois.Stickers)}).Info("exported")
		return nil
	},
}

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Print per-area progress from the configured store",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		pois, err := config.LoadPOIs(cfg.POIFile)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		set, err := loadCollected(ctx, cfg)
		if err != nil {
			return err
		}
		return printProgress(cmd.OutOrStdout(), pois, set, cfg.CollectibleMin, cfg.CollectibleMax)
	},
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	config.SetupLogging(cfg)
	if poiFile, _ := cmd.Flags().GetString("pois"); poiFile != "" {
		cfg.POIFile = poiFile
	}
	if backend, _ := cmd.Flags().GetString("backend"); backend != "" {
		cfg.StoreBackend = backend
	}
	return cfg, nil
}

func loadCollected(ctx context.Context, cfg *config.Config) (domain.CollectedSet, error) {
	opts := core.StoreOptions{
		Backend:    cfg.StoreBackend,
		Key:        cfg.StoreKey,
		SQLitePath: cfg.SQLitePath,
	}
	switch cfg.StoreBackend {
	case core.BackendRedis:
		client, err := config.NewRedis(cfg)
		if err != nil {
			return nil, err
		}
		defer func() { _ = client.Close() }()
		opts.Redis = client
	case core.BackendPostgres:
		db, err := config.NewPostgres(cfg)
		if err != nil {
			return nil, err
		}
		defer func() { _ = db.Close() }()
		opts.DB = db
	}

	store, closeStore, err := core.OpenStore(ctx, opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = closeStore() }()

	return store.Load(ctx)
}

func printProgress(w io.Writer, pois *config.POIFile, set domain.CollectedSet, min, max int) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "AREA\tPROGRESS\tINDICES")

	seen := map[string]bool{}
	for _, a := range pois.Areas {
		if seen[a.AreaName] {
			continue
		}
		seen[a.AreaName] = true
		fmt.Fprintf(tw, "%s\t%d de %d\t%v\n",
			a.AreaName, set.CountInRange(a.AreaName, min, max), max-min+1, set.Indices(a.AreaName))
	}
	return tw.Flush()
}

func main() {
	rootCmd.PersistentFlags().String("pois", "", "POI file (defaults to POI_FILE)")

	exportKMLCmd.Flags().StringP("output", "o", "-", "output file, - for stdout")
	exportKMLCmd.Flags().String("name", "stickerwalk", "KML document name")

	progressCmd.Flags().String("backend", "", "store backend (defaults to STORE_BACKEND)")

	rootCmd.AddCommand(exportKMLCmd, progressCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
