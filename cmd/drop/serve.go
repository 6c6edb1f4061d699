package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/mdp/qrterminal/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	drop "blitznote.com/src/http.drop"
	"blitznote.com/src/http.drop/localaddr"
)

// How long running uploads get to finish once a shutdown has been requested.
const shutdownGracePeriod = 30 * time.Second

func serve(cmd *cobra.Command, opts *options) error {
	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := opts.configuration()
	if err != nil {
		return err
	}
	cfg.Logger = logger

	servers := make(map[net.Listener]*http.Server, 2)
	defer func() {
		for ln := range servers {
			ln.Close()
		}
	}()

	if opts.metricsListen != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		if cfg.Metrics, err = drop.NewMetrics(reg); err != nil {
			return err
		}
		ln, err := net.Listen("tcp", opts.metricsListen)
		if err != nil {
			return err
		}
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		servers[ln] = &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
		logger.Info("Serving metrics", "address", ln.Addr().String())
	}

	uploads, err := drop.NewHandler(cfg, nil)
	if err != nil {
		return err
	}
	ln, err := net.Listen("tcp", net.JoinHostPort("0.0.0.0", strconv.Itoa(opts.port)))
	if err != nil {
		return err
	}
	// Uploads can take long, hence no ReadTimeout or WriteTimeout.
	servers[ln] = &http.Server{Handler: drop.NewRouter(uploads), ReadHeaderTimeout: 10 * time.Second}

	url := serverURL(logger, opts.port)

	// Everything that needs to be opened outside the upload directory has been by now.
	if err := drop.Confine(opts.dir); err != nil {
		return err
	}
	announce(cmd.OutOrStdout(), url, opts.qr)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)
	for ln, srv := range servers {
		ln, srv := ln, srv
		g.Go(func() error {
			if err := srv.Serve(ln); err != http.ErrServerClosed {
				return err
			}
			return nil
		})
	}
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
		defer cancel()
		shutdownAll(shutdownCtx, logger, servers)
		return nil
	})
	return g.Wait()
}

// shutdownAll waits for running requests to finish, until 'ctx' expires.
func shutdownAll(ctx context.Context, logger *slog.Logger, servers map[net.Listener]*http.Server) {
	for ln, srv := range servers {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn("Requests were cut short", "address", ln.Addr().String(), "error", err)
		}
	}
}

// Use ascii blocks to form the QR code.
const (
	blackWhite = "▄"
	blackBlack = " "
	whiteBlack = "▀"
	whiteWhite = "█"
)

// serverURL is where the server can be reached from other machines.
func serverURL(logger *slog.Logger, port int) string {
	host := "0.0.0.0"
	if ip, err := localaddr.Discover(); err != nil {
		logger.Warn("Cannot determine the local network address", "error", err)
	} else {
		host = ip.String()
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(port))
}

// announce tells the operator the server is up.
func announce(w io.Writer, url string, qr bool) {
	fmt.Fprintf(w, "Server running at %s\n", url)

	if qr {
		qrterminal.GenerateWithConfig(url, qrterminal.Config{
			Level:          qrterminal.M,
			Writer:         w,
			HalfBlocks:     true,
			BlackChar:      blackBlack,
			WhiteBlackChar: whiteBlack,
			WhiteChar:      whiteWhite,
			BlackWhiteChar: blackWhite,
			QuietZone:      1,
		})
	}
}
