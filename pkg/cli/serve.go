package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/oasgate/oasgate/pkg/config"
	"github.com/oasgate/oasgate/pkg/engine"
	"github.com/oasgate/oasgate/pkg/logging"
)

// shutdownTimeout is the maximum time to wait for graceful shutdown.
const shutdownTimeout = 30 * time.Second

// serveFlagVals is the package-level instance bound to cobra flags.
var serveFlagVals serveFlags

type serveFlags struct {
	configFile      string
	listen          string
	specFiles       []string
	specURL         string
	upstream        string
	mode            string
	noPayloadChecks bool
	logLevel        string
	logFormat       string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the validation gateway (foreground)",
	Long: `Start the gateway. Requests are validated against the configured
OpenAPI document and either proxied to the upstream (--upstream) or, with
no upstream, answered 204 No Content when accepted.

SIGHUP re-reads the spec sources and atomically swaps the document; a
reload that fails to parse keeps the previous document serving.`,
	Example: `  # Validate against a local spec and proxy to a backend
  oasgate serve --spec api.yaml --upstream http://localhost:9000

  # Merge several spec files, warn instead of rejecting
  oasgate serve --spec base.yaml --spec extra.yaml --mode warn

  # Everything from a config file
  oasgate serve --config oasgate.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context(), serveFlagVals)
	},
}

func init() {
	fs := serveCmd.Flags()
	fs.StringVarP(&serveFlagVals.configFile, "config", "c", "", "config file path")
	fs.StringVar(&serveFlagVals.listen, "listen", "", "listen address (default :8080)")
	fs.StringSliceVarP(&serveFlagVals.specFiles, "spec", "s", nil, "OpenAPI spec file (repeatable; files are merged)")
	fs.StringVar(&serveFlagVals.specURL, "spec-url", "", "OpenAPI spec URL")
	fs.StringVar(&serveFlagVals.upstream, "upstream", "", "upstream URL to proxy accepted requests to")
	fs.StringVar(&serveFlagVals.mode, "mode", "", "validation mode: strict, warn, or permissive (default strict)")
	fs.BoolVar(&serveFlagVals.noPayloadChecks, "no-payload-checks", false, "skip body well-formedness checks")
	fs.StringVar(&serveFlagVals.logLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.StringVar(&serveFlagVals.logFormat, "log-format", "", "log format: text or json")
}

// resolveConfig layers defaults, config file, environment, and flags.
func resolveConfig(flags serveFlags) (*config.Config, error) {
	cfg := config.Default()
	if flags.configFile != "" {
		loaded, err := config.Load(flags.configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	config.FromEnv(cfg)

	if flags.listen != "" {
		cfg.Listen = flags.listen
	}
	if flags.upstream != "" {
		cfg.Upstream = flags.upstream
	}
	if flags.mode != "" {
		cfg.Mode = flags.mode
	}
	if len(flags.specFiles) > 0 {
		cfg.Spec = config.SpecSource{Files: flags.specFiles}
	} else if flags.specURL != "" {
		cfg.Spec = config.SpecSource{URL: flags.specURL}
	}
	if flags.noPayloadChecks {
		cfg.PayloadChecks = false
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	if flags.logFormat != "" {
		cfg.Log.Format = flags.logFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runServe(ctx context.Context, flags serveFlags) error {
	cfg, err := resolveConfig(flags)
	if err != nil {
		return err
	}

	logger := logging.New(logging.Config{
		Level:  logging.ParseLevel(cfg.Log.Level),
		Format: logging.ParseFormat(cfg.Log.Format),
	})

	doc, err := cfg.Spec.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load OpenAPI spec: %w", err)
	}

	eng := engine.New(doc, engine.WithLogger(logger))

	handler, err := upstreamHandler(cfg.Upstream)
	if err != nil {
		return err
	}
	mw := engine.NewMiddleware(handler, eng,
		engine.WithMode(cfg.Mode),
		engine.WithPayloadChecks(cfg.PayloadChecks),
		engine.WithMiddlewareLogger(logger),
	)

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           mw,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go func() {
		for range hup {
			doc, err := cfg.Spec.Load(context.Background())
			if err != nil {
				logger.Error("spec reload failed, keeping previous document", "error", err)
				continue
			}
			eng.Reload(doc)
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	logger.Info("oasgate listening",
		"addr", cfg.Listen, "operations", doc.Len(), "mode", cfg.Mode, "upstream", cfg.Upstream)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// upstreamHandler returns the handler accepted requests are passed to: a
// reverse proxy when an upstream is configured, otherwise 204 No Content.
func upstreamHandler(upstream string) (http.Handler, error) {
	if upstream == "" {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}), nil
	}
	target, err := url.Parse(upstream)
	if err != nil {
		return nil, fmt.Errorf("invalid upstream URL %q: %w", upstream, err)
	}
	return httputil.NewSingleHostReverseProxy(target), nil
}
