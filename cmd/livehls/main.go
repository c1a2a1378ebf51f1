package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/famomatic/livehls/client"
	"github.com/famomatic/livehls/internal/config"
	"github.com/famomatic/livehls/internal/cookies"
	"github.com/famomatic/livehls/internal/httpapi"
	"github.com/famomatic/livehls/internal/session"
)

type stdLogger struct {
	l *log.Logger
}

func (s stdLogger) Warnf(format string, args ...any) { s.l.Printf("WARN "+format, args...) }
func (s stdLogger) Infof(format string, args ...any) { s.l.Printf(format, args...) }

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found")
	}

	addr := flag.String("addr", "", "listen address (overrides PORT)")
	flag.Parse()

	logger := stdLogger{l: log.New(os.Stdout, "", log.LstdFlags)}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	listen := ":" + cfg.Port
	if *addr != "" {
		listen = *addr
	}

	// The bootstrap collaborator must have installed the browser already;
	// resolution never attempts installation itself. A missing binary only
	// disables the rendered-page strategy, so keep running.
	if path, err := session.FindBrowser(cfg.BrowserPath); err != nil {
		logger.Warnf("browser precondition not met, rendered-page strategy will fail closed: %v", err)
	} else {
		logger.Infof("using browser binary %s", path)
	}

	creds, err := cookies.FromEnv(cfg.CookiesBlob, cfg.CookiesFile)
	if err != nil {
		log.Fatalf("credentials: %v", err)
	}
	if len(creds) > 0 {
		logger.Infof("loaded %d authentication cookie(s)", len(creds))
	}

	c := client.New(client.Config{
		Cookies:          creds,
		MetadataTimeout:  cfg.MetadataTimeout,
		RenderTimeout:    cfg.RenderTimeout,
		FetchTimeout:     cfg.FetchTimeout,
		RequestCeiling:   cfg.RequestCeiling,
		FailureThreshold: cfg.FailureThreshold,
		BrowserPath:      cfg.BrowserPath,
		HeadlessOff:      cfg.HeadlessOff,
		Logger:           logger,
	})

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	srv := &http.Server{
		Addr:    listen,
		Handler: httpapi.New(c, reg),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Infof("listening on %s", listen)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Infof("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}
	c.Close(shutdownCtx)
}
