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

	"sms_relay_backend/internal/addressbook"
	"sms_relay_backend/internal/email"
	"sms_relay_backend/internal/forwarder"
	apphttp "sms_relay_backend/internal/http"
	"sms_relay_backend/internal/http/router"
	"sms_relay_backend/internal/mailserver"
	"sms_relay_backend/internal/relay"
	"sms_relay_backend/internal/sms"
	"sms_relay_backend/internal/webhook"
	"sms_relay_backend/platform/config"
	"sms_relay_backend/platform/logger"
	"sms_relay_backend/platform/metrics"
	"sms_relay_backend/platform/validator"

	"github.com/emersion/go-smtp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Address Book
	// ========================================================================

	var book *relay.AddressBook
	if err := withRetry(ctx, log, "address book load", 5, 2*time.Second, func() error {
		b, err := addressbook.Load(ctx, cfg, cfg.GetDefaultRegion(), log)
		if err != nil {
			return err
		}
		book = b
		return nil
	}); err != nil {
		log.Error("failed to load address book", "error", err)
		panic("failed to load address book: " + err.Error())
	}
	metrics.AddressBookEntries.Set(float64(book.Len()))
	log.Info("address book loaded", "entries", book.Len())

	if report := relay.Diagnose(cfg.RequiredSettings(), cfg, book); !report.OK() {
		log.Warn("service is not fully configured; see GET / for details",
			"missing", report.Missing,
			"duplicateEmails", len(report.DuplicateEmails),
			"duplicatePhones", len(report.DuplicatePhones))
	}

	// ========================================================================
	// Transports
	// ========================================================================

	mailer, err := email.NewSender(cfg)
	if err != nil {
		log.Error("failed to initialize email sender", "error", err)
		panic("failed to initialize email sender: " + err.Error())
	}

	texter, err := sms.NewSender(cfg)
	if err != nil {
		log.Error("failed to initialize SMS sender", "error", err)
		panic("failed to initialize SMS sender: " + err.Error())
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Shared validator instance for dependency injection
	val := validator.New()

	resolver := relay.NewResolver(book, cfg.GetDefaultRegion())
	fwd := forwarder.NewService(resolver, cfg, mailer, texter, val, log)
	webhookModule := webhook.NewModule(cfg, fwd, book, val, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:      cfg,
		Logger:      log,
		AddressBook: book,
		Modules: []apphttp.Module{
			webhookModule,
		},
	}

	engine := router.New(app)
	srv := &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 2)
	go func() {
		log.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srvErr <- err
		}
	}()

	var smtpSrv *smtp.Server
	if cfg.IsMailServerEnabled() {
		backend := mailserver.NewBackend(fwd, fwd.Codec(), cfg.GetSMTPListenDomain(), log)
		smtpSrv = mailserver.NewServer(cfg, backend)
		go func() {
			log.Info("smtp listener started", "addr", smtpSrv.Addr, "domain", smtpSrv.Domain)
			if err := smtpSrv.ListenAndServe(); err != nil && !errors.Is(err, smtp.ErrServerClosed) {
				srvErr <- fmt.Errorf("smtp listener: %w", err)
			}
		}()
	}

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
	case err := <-srvErr:
		log.Error("server error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if smtpSrv != nil {
		if err := smtpSrv.Shutdown(shutdownCtx); err != nil {
			log.Warn("smtp listener shutdown failed", "error", err)
		}
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http server shutdown failed", "error", err)
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
