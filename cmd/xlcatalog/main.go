// Package main provides the CLI entry point for xlcatalog.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ukaji3/xlcatalog/internal/config"
	"github.com/ukaji3/xlcatalog/internal/logger"
	"github.com/ukaji3/xlcatalog/pkg/xlcatalog"
	"github.com/ukaji3/xlcatalog/pkg/xlcatalog/gdrive"
)

var (
	outputPath   string
	imagesDir    string
	sheetName    string
	headerRow    int
	imageColumn  int
	folderID     string
	makePublic   bool
	noUpload     bool
	credentials  string
	tokenFile    string
	concurrency  int
	pretty       bool
	maxImageEdge int
	envFile      string
	logLevel     string
	logJSON      bool
)

// flagKeys maps each flag to the configuration key it overrides.
var flagKeys = map[string]string{
	"output":         "output.catalog_path",
	"images-dir":     "output.images_dir",
	"sheet":          "source.sheet",
	"header-row":     "sheet.header_row",
	"image-column":   "sheet.image_column",
	"folder-id":      "remote.folder_id",
	"public":         "remote.make_public",
	"credentials":    "remote.credentials_file",
	"token":          "remote.token_file",
	"concurrency":    "remote.concurrency",
	"pretty":         "output.pretty",
	"max-image-edge": "output.max_image_edge",
	"log-level":      "log.level",
	"log-json":       "log.json",
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "xlcatalog [input.xlsx]",
		Short: "Build a product catalog from a spreadsheet with embedded images",
		Long: `xlcatalog reads product rows and the pictures anchored to them from an
Excel sheet, saves the pictures locally, uploads them to Google Drive and
writes a catalog JSON document with an image URL per product.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&outputPath, "output", "o", "catalog.json", "Catalog JSON output path")
	flags.StringVar(&imagesDir, "images-dir", "out_images", "Directory for extracted images")
	flags.StringVar(&sheetName, "sheet", "", "Sheet name (default: first sheet)")
	flags.IntVar(&headerRow, "header-row", 4, "1-based header row")
	flags.IntVar(&imageColumn, "image-column", 14, "1-based column the images are anchored to")
	flags.StringVar(&folderID, "folder-id", "", "Drive folder to upload into")
	flags.BoolVar(&makePublic, "public", true, "Grant anyone-with-link read access on uploads")
	flags.BoolVar(&noUpload, "no-upload", false, "Skip uploading; every imageUrl is null")
	flags.StringVar(&credentials, "credentials", "credentials/oauth_client.json", "OAuth client secrets file")
	flags.StringVar(&tokenFile, "token", "credentials/token.json", "Stored OAuth token file")
	flags.IntVar(&concurrency, "concurrency", 1, "Parallel uploads")
	flags.BoolVar(&pretty, "pretty", true, "Pretty-print the catalog JSON")
	flags.IntVar(&maxImageEdge, "max-image-edge", 0, "Downscale images larger than this many pixels (0 keeps originals)")
	flags.StringVar(&envFile, "env-file", ".env", "Optional .env file with XLCATALOG_* settings")
	flags.StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flags.BoolVar(&logJSON, "log-json", false, "Emit JSON logs")

	return rootCmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd.Flags(), args)
	if err != nil {
		return err
	}

	log := logger.Init(&logger.Config{
		Level:      logger.LogLevel(cfg.Log.Level),
		Output:     cmd.ErrOrStderr(),
		JSON:       cfg.Log.JSON,
		TimeFormat: "15:04:05",
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.ContextWithLogger(ctx, log)

	if err := execute(ctx, cfg); err != nil {
		log.Error("Run failed", "error", err)
		return err
	}
	return nil
}

func loadConfig(flags *pflag.FlagSet, args []string) (*config.Config, error) {
	loader := config.NewLoader()
	if err := loader.Load(envFile); err != nil {
		return nil, err
	}

	var setErr error
	flags.Visit(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok || setErr != nil {
			return
		}
		setErr = loader.Set(key, f.Value.String())
	})
	if setErr != nil {
		return nil, setErr
	}
	if noUpload {
		if err := loader.Set("remote.enabled", false); err != nil {
			return nil, err
		}
	}
	if len(args) == 1 {
		if err := loader.Set("source.path", args[0]); err != nil {
			return nil, err
		}
	}

	cfg, err := loader.Config()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func execute(ctx context.Context, cfg *config.Config) error {
	opts := optionsFromConfig(cfg)

	pipelineOpts := []xlcatalog.Option{}
	if cfg.Remote.Enabled {
		store, err := gdrive.NewFromFiles(ctx, cfg.Remote.CredentialsFile, cfg.Remote.TokenFile)
		if err != nil {
			if errors.Is(err, gdrive.ErrNoToken) {
				return fmt.Errorf("%w: authorize once and store the token at %s, or pass --no-upload",
					err, cfg.Remote.TokenFile)
			}
			return fmt.Errorf("drive client: %w", err)
		}
		pipelineOpts = append(pipelineOpts, xlcatalog.WithStore(store))
	}

	if _, err := xlcatalog.New(pipelineOpts...).Run(ctx, opts); err != nil {
		return err
	}
	return nil
}

func optionsFromConfig(cfg *config.Config) xlcatalog.Options {
	opts := xlcatalog.DefaultOptions().WithRetry(cfg.Remote.RetryAttempts, cfg.Remote.RetryStep)
	opts.SourcePath = cfg.Source.Path
	opts.Sheet = cfg.Source.Sheet
	opts.HeaderRow = cfg.Sheet.HeaderRow
	opts.ImageColumn = cfg.Sheet.ImageColumn
	opts.CatalogPath = cfg.Output.CatalogPath
	opts.ImagesDir = cfg.Output.ImagesDir
	opts.Pretty = cfg.Output.Pretty
	opts.MaxImageEdge = cfg.Output.MaxImageEdge
	opts.FolderID = cfg.Remote.FolderID
	opts.MakePublic = cfg.Remote.MakePublic
	opts.Concurrency = cfg.Remote.Concurrency
	return opts
}
