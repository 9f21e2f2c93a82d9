package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/decision-match/internal/server"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve match predictions over HTTP",
	Args:  cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("listen", "l", "", "address to listen on (default is server.listen from the config)")
	viper.BindPFlag("server.listen", serveCmd.Flags().Lookup("listen"))
}

func serve() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, config := setup()

	db := openStore(config, logger)
	if db != nil {
		defer db.Close()
	}

	svc := newService(config, db, logger)

	app := server.New(svc, server.Config{
		Version:          version,
		ArtifactPath:     config.modelPath(),
		ReportPath:       config.reportPath(),
		DefaultThreshold: &config.Predict.Threshold,
		RateLimit:        config.Server.RateLimit,
		Burst:            config.Server.Burst,
	}, logger)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting the server",
			zap.String("listen", config.Server.Listen),
			zap.String("version", version),
			zap.Bool("model_loaded", svc.ModelLoaded()),
		)
		return app.Listen(config.Server.Listen)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down the server")
		return app.ShutdownWithTimeout(shutdownTimeout)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped", zap.Error(err))
		return
	}

	logger.Info("server stopped")
}
