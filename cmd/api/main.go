package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"printshop/internal/catalog"
	"printshop/internal/config"
	"printshop/internal/db"
	"printshop/internal/httpserver"
	"printshop/internal/importer"
	"printshop/internal/logging"
	orderrepo "printshop/internal/repository/order"
	"printshop/internal/service/invoice"
	ordersvc "printshop/internal/service/order"
	"printshop/internal/service/printing"
	"printshop/internal/service/upload"
	"printshop/internal/storage"
)

func main() {
	app := &cli.App{
		Name:  "printshop-api",
		Usage: "serve the print shop storefront and JSON API",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "port", Usage: "listen port, overrides PORT"},
			&cli.StringFlag{Name: "log-level", Usage: "log level, overrides LOG_LEVEL"},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return errors.Wrap(err, "load config")
	}
	if c.IsSet("port") {
		cfg.Port = c.Int("port")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	logger := logging.New("api", cfg.LogLevel, cfg.LogFormat)

	if err := cfg.EnsureDirs(); err != nil {
		return err
	}
	uploads, err := storage.NewDir(cfg.UploadFolder)
	if err != nil {
		return err
	}
	invoices, err := storage.NewDir(cfg.InvoiceFolder)
	if err != nil {
		return err
	}

	cat := catalog.Default()
	if cfg.CatalogCSV != "" {
		if cat, err = importer.LoadCatalog(cfg.CatalogCSV); err != nil {
			return errors.Wrap(err, "load catalog")
		}
		logger.WithField("services", cat.Len()).Info("catalog loaded from csv")
	}

	deps := httpserver.Deps{
		Catalog:   cat,
		Uploads:   uploads,
		Invoices:  invoices,
		UploadSvc: upload.New(uploads, storage.UniqueName),
		PrintSvc:  printing.New(uploads),
	}

	var ledger orderrepo.Repository
	if cfg.LedgerDSN != "" {
		pool, err := db.Connect(c.Context, cfg.LedgerDSN)
		if err != nil {
			return errors.Wrap(err, "connect ledger")
		}
		defer pool.Close()

		ledger = orderrepo.NewPostgres(pool, logger)
		deps.OrderSvc = ordersvc.New(ledger)
		deps.Ledger = pool
		logger.Info("order ledger enabled")
	}
	deps.InvoiceSvc = invoice.New(invoices, ledger, logger)

	srv, err := httpserver.New(cfg.HTTPAddr(), logger, deps, httpserver.Options{
		SecretKey:      cfg.SecretKey,
		MaxBodyBytes:   cfg.MaxContentLength(),
		AllowedOrigins: cfg.AllowedOrigins(),
	})
	if err != nil {
		return errors.Wrap(err, "init server")
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.WithField("addr", cfg.HTTPAddr()).Info("starting http server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case sig := <-stopCh:
		logger.WithField("signal", sig.String()).Info("shutting down")
	case runErr = <-serverErr:
		logger.WithError(runErr).Error("server error")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Warn("graceful shutdown failed")
	} else {
		logger.Info("server stopped")
	}
	return runErr
}
