package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/CodMac/go-treesitter-code-tokenizer/transport"
)

var serveCmd = &cobra.Command{
	Use:   "serve [extractSequence keepImports keepComments keepLiterals [keepUnknownMethodCalls]]",
	Short: "Serve base64 line requests on stdin/stdout",
	Long: `Serve reads one base64 encoded snippet per line from stdin and writes
one base64 encoded result per line to stdout.

__START__ and __END__ are echoed; __END__ ends the session. A snippet
that cannot be parsed, or a line that is not valid base64, is answered
with __ERROR__.

Positional booleans ("true" is true, anything else false) override the
configuration in order. keepLiterals also enables declaration entries.

Examples:
  # extract sequences, keep unknown calls as _UMC_
  codetok serve true false false false true

  # rewrite, keeping comments
  codetok serve false false true false`,
	Args: cobra.MaximumNArgs(5),
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg.ApplyPositional(args)

	proc, mode, err := newProcessor()
	if err != nil {
		return err
	}
	defer proc.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Serve.MetricsAddr != "" {
		srv := startMetricsServer(cfg.Serve.MetricsAddr)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	server := transport.NewServer(func(fragment string) string {
		return proc.Process(mode, fragment)
	})
	slog.Info("serve.ready", "session", server.Session(), "mode", mode, "options", cfg.Options())
	return server.Serve(ctx, os.Stdin, os.Stdout)
}

func startMetricsServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics.server.failed", "addr", addr, "err", err)
		}
	}()
	slog.Info("metrics.server.start", "addr", addr)
	return srv
}
