// Package main is the Neural-Wings server entrypoint.
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/Boshugege/Neural-Wings-server/internal/config"
	"github.com/Boshugege/Neural-Wings-server/internal/net"
	"github.com/Boshugege/Neural-Wings-server/internal/server"
)

var (
	cfgPath  string
	bindAddr string

	rootCmd = &cobra.Command{
		Use:   "gameserver",
		Short: "Neural-Wings authoritative session server.",
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Starts the server and runs the tick loop until interrupted.",
		RunE:  runServe,
	}
)

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := config.Defaults()
	if cfgPath != "" {
		loaded, err := config.Load(cfgPath)
		if err != nil {
			return errors.Wrap(err, "load config failed")
		}
		cfg = loaded
	}
	if bindAddr != "" {
		cfg.Network.BindAddress = bindAddr
	}

	log, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return errors.Wrap(err, "init logger failed")
	}
	defer func() { _ = log.Sync() }()

	tr := net.NewWSTransport(net.WSConfig{
		BindAddress:    cfg.Network.BindAddress,
		InQueueSize:    cfg.Network.InQueueSize,
		OutQueueSize:   cfg.Network.OutQueueSize,
		WriteTimeout:   cfg.Network.WriteTimeout.Std(),
		MaxMessageSize: cfg.Network.MaxMessageSize,
	}, log)

	srv := server.New(cfg, log, tr)
	if err := srv.Start(); err != nil {
		return errors.Wrap(err, "start server failed")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv.Run(ctx)
	return nil
}

func init() {
	serveCmd.Flags().StringVarP(&cfgPath, "config", "c", "", "path to TOML config file")
	serveCmd.Flags().StringVarP(&bindAddr, "bind", "b", "", "listen address override")
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
