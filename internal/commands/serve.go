package commands

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/crediax/crediax/internal/config"
	"github.com/crediax/crediax/internal/httpapi"
	"github.com/crediax/crediax/internal/importlog"
	"github.com/crediax/crediax/internal/ledger"
	"github.com/crediax/crediax/internal/logger"
	"github.com/crediax/crediax/internal/sheet"
)

func newServeCommand() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Server.Port = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "override server.port")

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config) error {
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	ctx = logger.WithContext(ctx, log)

	if err := os.MkdirAll(cfg.Storage.DataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	importer := newImporter(cfg)
	if l, err := importer.Restore(ctx); err != nil && !errors.Is(err, ledger.ErrNoLedger) {
		log.Warn().Err(err).Msg("could not restore snapshot, starting empty")
	} else if l == nil {
		log.Info().Msg("no data loaded, waiting for upload")
	}

	handler := httpapi.NewRouter(
		httpapi.NewHandler(importer, cfg.Server.MaxUploadBytes),
		httpapi.RouterOptions{
			AllowedOrigins: cfg.Server.AllowedOrigins,
			RatePerSecond:  cfg.Server.RateLimit.PerSecond,
			RateBurst:      cfg.Server.RateLimit.Burst,
		},
		log,
	)

	addr := net.JoinHostPort("", cfg.Server.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return httpapi.Serve(ctx, httpapi.NewServer(addr, handler), ln, log)
}

// newImporter builds the importer every command shares.
func newImporter(cfg *config.Config) *ledger.Importer {
	return ledger.NewImporter(
		ledger.NewStore(),
		sheet.DefaultRegistry(cfg.Import.CSVEncoding),
		ledger.ImporterConfig{
			Options:      cfg.LedgerOptions(),
			SheetName:    cfg.Import.SheetName,
			SnapshotPath: cfg.SnapshotPath(),
			Log:          importlog.New(cfg.Storage.DataDir),
		},
	)
}
