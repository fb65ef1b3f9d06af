package commands

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/teranos/hourgen/config"
	"github.com/teranos/hourgen/generate"
	"github.com/teranos/hourgen/logger"
	"github.com/teranos/hourgen/metrics"
	"github.com/teranos/hourgen/storage"
)

func runGenerate(cmd *cobra.Command, cfg *config.Config) error {
	log := logger.ComponentLogger("hourgen")
	log.Infow("Starting.")

	var datetime *string
	if cmd.Flags().Changed("datetime") {
		d, _ := cmd.Flags().GetString("datetime")
		datetime = &d
	}

	opener := storage.NewOpener(cfg.StorageConfig())
	defer func() {
		if err := opener.Close(); err != nil {
			log.Warnw("Failed to close storage clients", logger.FieldError, err)
		}
	}()

	rec := metrics.NewRecorder()
	if cfg.Metrics.Addr != "" {
		srv, err := metrics.Serve(cfg.Metrics.Addr, rec)
		if err != nil {
			return err
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				log.Warnw("Failed to stop metrics server", logger.FieldError, err)
			}
		}()
	}

	g := generate.New(opener)
	g.Observer = rec

	res, err := g.Run(cmd.Context(), generate.Options{
		Datetime:   datetime,
		Prefix:     cfg.Output.Prefix,
		Quick:      cfg.Output.Quick,
		SchemaPath: cfg.Schema.Path,
	})
	if err != nil {
		return err
	}

	log.Infow("Finished.",
		logger.FieldPath, res.Location.String(),
		logger.FieldCount, res.Summary.Records,
		"elapsed", res.Summary.Elapsed.Round(time.Millisecond).String(),
	)
	return nil
}
