package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/invoicer/internal/config"
	"github.com/MrJamesThe3rd/invoicer/internal/database"
	"github.com/MrJamesThe3rd/invoicer/internal/export"
	invoicerHttp "github.com/MrJamesThe3rd/invoicer/internal/http"
	exportHandler "github.com/MrJamesThe3rd/invoicer/internal/http/export"
	invoiceHandler "github.com/MrJamesThe3rd/invoicer/internal/http/invoice"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
	invoiceStore "github.com/MrJamesThe3rd/invoicer/internal/invoice/store"
	"github.com/MrJamesThe3rd/invoicer/internal/logger"
	"github.com/MrJamesThe3rd/invoicer/internal/mail"
	"github.com/MrJamesThe3rd/invoicer/internal/render"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	if err := run(cfg, log); err != nil {
		log.Fatal("server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db); err != nil {
		return err
	}

	opts := []invoice.Option{
		invoice.WithLogger(log),
		invoice.WithBankDetails(cfg.BankDetails()),
		invoice.WithRenderer(render.NewPDF(
			render.Seller{
				Name:          cfg.Seller.Name,
				Address:       cfg.Seller.Address,
				GSTIN:         cfg.Seller.GSTIN,
				Contact:       cfg.Seller.Contact,
				Email:         cfg.Seller.Email,
				PlaceOfSupply: cfg.Seller.PlaceOfSupply,
				Jurisdiction:  cfg.Seller.Jurisdiction,
			},
			render.Assets{LogoPath: cfg.Assets.LogoPath, StampPath: cfg.Assets.StampPath},
		)),
	}

	if cfg.Mail.ResendAPIKey != "" {
		opts = append(opts, invoice.WithMailer(mail.NewMailer(cfg.Mail.ResendAPIKey, cfg.Mail.FromAddress, cfg.Mail.FromName, log)))
	} else {
		log.Warn("RESEND_API_KEY not set, invoice email disabled")
	}

	var (
		invoiceService = invoice.NewService(invoiceStore.New(db), opts...)
		exportService  = export.NewService(invoiceService, invoice.SignatureDigital)
	)

	router := invoicerHttp.New(
		invoicerHttp.Options{AllowedOrigins: cfg.CORS.AllowedOrigins, Timeout: cfg.Server.Timeout},
		invoiceHandler.NewHandler(invoiceService, log),
		exportHandler.NewHandler(exportService, log),
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)

	go func() {
		log.Info("starting server", zap.String("addr", srv.Addr), zap.String("app", cfg.App.Name))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
