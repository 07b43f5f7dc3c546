package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eduquiz/backend/events"
	"eduquiz/backend/routes"
	"eduquiz/backend/storage"
	"eduquiz/backend/store"
	"eduquiz/backend/thumbnails"
	"eduquiz/backend/utils"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

const thumbnailTTL = 24 * time.Hour

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, db, colors, err := bootstrap(cmd)
		if err != nil {
			return err
		}
		if skip, _ := cmd.Flags().GetBool("skip-migrate"); !skip {
			if err := utils.Migrate(db); err != nil {
				return err
			}
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		blobs, err := storage.New(ctx, cfg, logger)
		if err != nil {
			return err
		}

		publisher, err := events.NewPublisher(cfg.RabbitMQURI, cfg.RabbitMQExchange, logger)
		if err != nil {
			return err
		}
		defer publisher.Close()

		var cache thumbnails.Cache
		if cfg.RedisAddr != "" {
			client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
			defer client.Close()
			if err := client.Ping(ctx).Err(); err != nil {
				logger.Printf("Redis at %s unreachable, thumbnail cache disabled: %v", cfg.RedisAddr, err)
			} else {
				cache = thumbnails.NewRedisCache(client)
			}
		}
		var searcher thumbnails.Searcher
		if cfg.UnsplashKey != "" {
			searcher = thumbnails.NewUnsplash(cfg.UnsplashKey)
		}

		app := routes.NewApp(routes.Deps{
			Store:      store.New(db),
			Cfg:        cfg,
			Blobs:      blobs,
			Pages:      storage.PDFPageCounter{},
			Publisher:  publisher,
			Thumbnails: thumbnails.NewService(searcher, cache, thumbnailTTL, logger),
			Logger:     logger,
		}, colors)

		errc := make(chan error, 1)
		go func() {
			errc <- app.Listen(":" + cfg.ServerPort)
		}()

		select {
		case err := <-errc:
			return err
		case <-ctx.Done():
			logger.Println("Shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return app.ShutdownWithContext(shutdownCtx)
		}
	},
}

func init() {
	serveCmd.Flags().Bool("skip-migrate", false, "Do not migrate the database on start")
}
