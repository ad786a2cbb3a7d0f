package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Koson7970/wood-strength-prediction-model/internal/logging"
	"github.com/Koson7970/wood-strength-prediction-model/internal/metrics"
	"github.com/Koson7970/wood-strength-prediction-model/internal/server"
)

var (
	serveAddr      string
	serveRateLimit float64
	serveRateBurst int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the sizing HTTP API",
	Long: `Serve sizing runs over HTTP until interrupted.

Endpoints:
  POST /api/size       JSON request, JSON sizing report
  POST /api/size/csv   JSON request, tabular export as text/csv
  GET  /healthz        liveness check
  GET  /metrics        Prometheus metrics

Requests under /api are rate limited per client address.

Examples:
  timbermatch serve --addr :8080
  TIMBERMATCH_RATE_LIMIT=5 timbermatch serve`,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		if flags.Changed("addr") {
			cfg.Addr = serveAddr
		}
		if flags.Changed("rate-limit") {
			cfg.RateLimit = serveRateLimit
		}
		if flags.Changed("rate-burst") {
			cfg.RateBurst = serveRateBurst
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		log, err := logging.NewJSON(cfg.LogLevel)
		if err != nil {
			return err
		}
		defer log.Sync()

		srv := server.New(cfg, log, metrics.New(true))
		return srv.ListenAndServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address")
	serveCmd.Flags().Float64Var(&serveRateLimit, "rate-limit", 1, "Requests per second allowed per client")
	serveCmd.Flags().IntVar(&serveRateBurst, "rate-burst", 3, "Burst size per client")
}
