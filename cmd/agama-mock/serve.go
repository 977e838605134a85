package main

import (
	"fmt"
	"net"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeffmahoney/agama/internal/discovery"
	"github.com/jeffmahoney/agama/internal/logging"
	"github.com/jeffmahoney/agama/internal/server"
)

// Serve command flags
var (
	host      string
	port      int
	seedPath  string
	certPath  string
	keyPath   string
	logLevel  string
	advertise bool
	instance  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the configuration service",
	Long: `Start serving the configuration API on /api.

Without --seed the service starts with empty network and software areas.
With --cert and --key it serves HTTPS. --advertise announces the service
over mDNS so 'agama-net discover' can find it.`,
	Example: `  # Plain HTTP on port 3000 with sample data
  agama-mock serve --seed testdata/fixture.yaml

  # HTTPS, announced on the local network
  agama-mock serve --port 8443 --cert cert.pem --key key.pem --advertise

  # Debug logging of every request
  agama-mock serve --log-level debug`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&host, "host", "", "Listen address (empty = all interfaces)")
	serveCmd.Flags().IntVar(&port, "port", 3000, "Listen port (0 picks a free port)")
	serveCmd.Flags().StringVar(&seedPath, "seed", "", "YAML fixture with the initial data")
	serveCmd.Flags().StringVar(&certPath, "cert", "", "TLS certificate file")
	serveCmd.Flags().StringVar(&keyPath, "key", "", "TLS private key file")
	serveCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	serveCmd.Flags().BoolVar(&advertise, "advertise", false, "Announce the service over mDNS")
	serveCmd.Flags().StringVar(&instance, "instance", "", "mDNS instance name (default: the hostname)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if (certPath == "") != (keyPath == "") {
		return fmt.Errorf("both --cert and --key must be provided together")
	}

	store, err := newStore(seedPath)
	if err != nil {
		return err
	}

	srv, err := server.New(&server.Config{
		Host:     host,
		Port:     port,
		CertPath: certPath,
		KeyPath:  keyPath,
		LogLevel: logLevel,
	}, store)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	addr, err := srv.Listen()
	if err != nil {
		return err
	}

	if advertise {
		ad, err := startAdvertising(addr)
		if err != nil {
			return err
		}
		defer ad.Shutdown()
	}

	return srv.Start(cmd.Context())
}

func newStore(path string) (*server.Store, error) {
	if path == "" {
		return server.NewStore(server.DefaultLayout())
	}
	f, err := server.LoadFixture(path)
	if err != nil {
		return nil, err
	}
	return server.NewStoreFromFixture(f)
}

func startAdvertising(addr net.Addr) (*discovery.Advertisement, error) {
	tcp, ok := addr.(*net.TCPAddr)
	if !ok {
		return nil, fmt.Errorf("cannot advertise non-TCP address %s", addr)
	}

	name := instance
	if name == "" {
		h, err := os.Hostname()
		if err != nil {
			return nil, fmt.Errorf("failed to get hostname for the mDNS instance: %w", err)
		}
		name = h
	}

	scheme := "http"
	if certPath != "" {
		scheme = "https"
	}
	ad, err := discovery.Advertise(name, tcp.Port, map[string]string{
		"path":    discovery.DefaultAPIPath,
		"scheme":  scheme,
		"version": "1",
	})
	if err != nil {
		return nil, err
	}
	logging.Named("discovery").Info("Advertising service",
		zap.String("instance", name),
		zap.String("type", discovery.ServiceType),
		zap.Int("port", tcp.Port),
	)
	return ad, nil
}
