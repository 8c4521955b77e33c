package commands

import (
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	stateless "github.com/stateless-solutions/stateless-go"
	"github.com/stateless-solutions/stateless-go/proxy"
)

// ProxyCmd runs a local JSON-RPC server that forwards every request through
// the verifying client, so existing tooling can point at it unchanged.
var ProxyCmd = &cobra.Command{
	Use:   "proxy",
	Short: "Run a local JSON-RPC proxy that verifies every response",
	Long: `Run a local JSON-RPC server that forwards requests to the configured
endpoint and only relays responses that carry enough valid attestations.
Wallets and other tooling can point at the proxy address unchanged.`,
	Example: `  stateless proxy --rpc-url https://rpc.example --identity https://attester.example --laddr tcp://127.0.0.1:8547`,
	RunE:    runProxy,
}

func init() {
	registerClientFlags(ProxyCmd)

	ProxyCmd.Flags().String("laddr", "tcp://127.0.0.1:8547", "serve the proxy on the given address")
	ProxyCmd.Flags().Int("max-open-connections", 0, "maximum number of simultaneous connections (0 means unlimited)")
	ProxyCmd.Flags().StringSlice("cors-allowed-origins", nil, "origins allowed for cross-origin requests")
	ProxyCmd.Flags().Bool("prometheus", false, "serve prometheus metrics")
	ProxyCmd.Flags().String("prometheus-laddr", ":8548", "address for the prometheus metrics server")
}

func runProxy(cmd *cobra.Command, args []string) error {
	metrics := stateless.NopMetrics()
	if viper.GetBool("prometheus") {
		metrics = stateless.PrometheusMetrics("stateless")
		srv := startPrometheusServer(viper.GetString("prometheus-laddr"))
		defer func() { _ = srv.Close() }()
	}

	client, err := buildClient(stateless.WithMetrics(metrics))
	if err != nil {
		return err
	}

	cfg := proxy.DefaultConfig()
	cfg.MaxOpenConnections = viper.GetInt("max-open-connections")
	cfg.CORSAllowedOrigins = viper.GetStringSlice("cors-allowed-origins")

	listener, err := proxy.Listen(viper.GetString("laddr"), cfg.MaxOpenConnections)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	// Serve blocks until the listener closes, so shutdown is a matter of
	// closing it once a signal arrives.
	go func() {
		<-ctx.Done()
		_ = listener.Close()
	}()

	err = proxy.Serve(listener, proxy.NewHandler(client, logger), logger, cfg)
	if ctx.Err() != nil {
		logger.Info("caught signal, proxy shut down")
		return nil
	}
	return err
}

func startPrometheusServer(addr string) *http.Server {
	srv := &http.Server{
		Addr:              addr,
		Handler:           promhttp.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("prometheus metrics server failed", "err", err)
		}
	}()
	return srv
}
