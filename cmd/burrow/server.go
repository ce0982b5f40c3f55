package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cuemby/burrow/pkg/config"
	"github.com/cuemby/burrow/pkg/kv"
	"github.com/cuemby/burrow/pkg/log"
	"github.com/cuemby/burrow/pkg/metrics"
	"github.com/cuemby/burrow/pkg/pubsub"
	"github.com/cuemby/burrow/pkg/store"
	"github.com/cuemby/burrow/pkg/transport"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the burrow server",
	RunE: func(cmd *cobra.Command, args []string) error {
		enablePubSub, _ := cmd.Flags().GetBool("enable-pubsub")

		cfg, err := config.Load(configPath(cmd))
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}

		st, err := store.Open(store.Config{
			Path:              cfg.DB.Path,
			PageCacheBytes:    cfg.DB.SystemPageCache,
			CompressionFactor: cfg.DB.CompressionFactor,
			Mode:              store.Mode(cfg.DB.Mode),
			Debug:             cfg.DB.Debug,
		})
		if err != nil {
			return fmt.Errorf("opening store: %w", err)
		}
		defer st.Close()

		opts := transport.Options{
			Connection: transport.Connection{
				Kind: transport.Kind(cfg.RPC.Connection.Kind),
				Host: cfg.RPC.Connection.Host,
				Port: cfg.RPC.Connection.Port,
				Path: cfg.RPC.Connection.Path,
			},
			Token:        cfg.RPC.AuthToken,
			EnablePubSub: enablePubSub,
		}

		if cfg.RPC.Connection.Kind == config.ConnectionHTTPS {
			certPEM, err := cfg.CertPEM()
			if err != nil {
				return fmt.Errorf("decoding rpc.tls_cert: %w", err)
			}
			keyPEM, err := cfg.KeyPEM()
			if err != nil {
				return fmt.Errorf("decoding rpc.tls_key: %w", err)
			}
			opts.CertPEM = certPEM
			opts.KeyPEM = keyPEM
		}

		svc := kv.NewService(st)
		broker := pubsub.New()

		srv, err := transport.New(opts, svc, broker)
		if err != nil {
			return fmt.Errorf("creating transport: %w", err)
		}

		errCh := make(chan error, 1)
		go func() {
			if err := srv.Serve(); err != nil {
				errCh <- err
			}
		}()

		metricsAddr, _ := cmd.Flags().GetString("metrics-addr")
		if metricsAddr != "" {
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler())
			go func() {
				if err := http.ListenAndServe(metricsAddr, mux); err != nil {
					log.Logger.Warn().Err(err).Msg("burrow: metrics server stopped")
				}
			}()
			log.Logger.Info().Str("addr", metricsAddr).Msg("burrow: metrics endpoint started")
		}

		log.Logger.Info().Str("addr", cfg.ServerURL()).Bool("pubsub", enablePubSub).Msg("burrow: server started")

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

		select {
		case <-sigCh:
			log.Info("burrow: shutting down")
		case err := <-errCh:
			return fmt.Errorf("serving: %w", err)
		}

		srv.Stop()
		return nil
	},
}

func init() {
	serverCmd.Flags().Bool("enable-pubsub", false, "Register the pub/sub service alongside the key-value store")
	serverCmd.Flags().String("metrics-addr", "127.0.0.1:9090", "Address to serve Prometheus metrics on (empty disables it)")
}
