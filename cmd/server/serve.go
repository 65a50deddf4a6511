package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/yatube/internal/router"
	"github.com/anonto42/yatube/pkg/config"
	"github.com/anonto42/yatube/pkg/firebase"
	"github.com/anonto42/yatube/pkg/storage"
	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web server",
	Args:  cobra.NoArgs,
	RunE:  serve,
}

func serve(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		return err
	}
	defer db.CloseDB()

	if err := router.Migrate(db.Gorm); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pageCache, closeCache, err := openPageCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeCache()

	media, mediaRoot, err := openMediaStorage(ctx, cfg)
	if err != nil {
		return err
	}

	opts := router.Options{
		DB:        db.Gorm,
		Config:    cfg,
		Images:    storage.NewImageStore(media),
		PageCache: pageCache,
		MediaRoot: mediaRoot,
	}
	if cfg.FirebaseCredentialsPath != "" {
		authClient, err := firebase.NewAuthClient(ctx, cfg.FirebaseCredentialsPath)
		if err != nil {
			return err
		}
		opts.FirebaseAuth = authClient
	}

	e, err := router.New(opts)
	if err != nil {
		return err
	}
	if cfg.IsProduction() {
		e.Logger.SetLevel(log.WARN)
	} else {
		e.Logger.SetLevel(log.INFO)
	}

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
