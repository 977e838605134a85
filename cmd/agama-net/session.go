package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/jeffmahoney/agama/internal/config"
	"github.com/jeffmahoney/agama/internal/discovery"
	"github.com/jeffmahoney/agama/internal/httptransport"
	"github.com/jeffmahoney/agama/internal/logging"
	"github.com/jeffmahoney/agama/internal/ui"
	"github.com/jeffmahoney/agama/internal/version"
)

// cfg is loaded once per invocation by setup
var cfg *config.Config

// errCanceled is returned when the user declines a confirmation
var errCanceled = errors.New("canceled by user")

// setup loads the config file, starts logging and checks the global flags
func setup(cmd *cobra.Command, args []string) error {
	c, err := config.LoadDefault()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg = c

	level := logLevel
	if level == "" {
		level = cfg.Log.Level
	}
	if err := logging.Initialize(level); err != nil {
		return err
	}

	if outputFormat == "" {
		outputFormat = cfg.Preferences.Format
	}
	switch outputFormat {
	case "", "text":
		outputFormat = "text"
	case "json", "yaml":
	default:
		return fmt.Errorf("unknown output format %q (text, json, yaml)", outputFormat)
	}
	return nil
}

// connect resolves the service URL and builds the HTTP transport for it
func connect(ctx context.Context, out io.Writer) (*httptransport.Transport, error) {
	base, err := resolveBaseURL(ctx, out)
	if err != nil {
		return nil, err
	}

	reqTimeout := cfg.API.Timeout
	if timeout > 0 {
		reqTimeout = timeout
	}
	opts := []httptransport.Option{
		httptransport.WithTimeout(reqTimeout),
		httptransport.WithRetry(cfg.API.Retries+1, 0, 0),
		httptransport.WithRateLimit(cfg.API.RateLimit, 1),
		httptransport.WithLogger(logging.Named("http")),
		httptransport.WithHeader("User-Agent", version.UserAgent("agama-net")),
	}
	if cfg.API.Username != "" {
		opts = append(opts, httptransport.WithBasicAuth(cfg.API.Username, config.Password()))
	}

	tr, err := httptransport.New(base, opts...)
	if err != nil {
		return nil, err
	}
	logging.Debug("Using configuration service", zap.String("url", tr.BaseURL()))
	return tr, nil
}

// resolveBaseURL picks the service URL: --api, then mDNS when asked for,
// then the config file (which already holds AGAMA_API_URL).
func resolveBaseURL(ctx context.Context, out io.Writer) (string, error) {
	if apiURL != "" {
		return apiURL, nil
	}
	if !discover && !(cfg.Preferences.AutoDiscover && os.Getenv(config.EnvAPIURL) == "") {
		return cfg.API.URL, nil
	}

	scanner := discovery.NewScanner()
	scanner.Timeout = cfg.Preferences.DiscoverTimeout
	services, err := scanner.Scan(ctx)
	if err != nil {
		return "", fmt.Errorf("discovery failed: %w", err)
	}

	switch len(services) {
	case 0:
		return "", fmt.Errorf("%w; use --api to give the URL", discovery.ErrNotFound)
	case 1:
	default:
		fmt.Fprintf(out, "Found %d services:\n", len(services))
		for i, s := range services {
			fmt.Fprintf(out, "%d. %s\n", i+1, s)
		}
		return "", errors.New("multiple services found; use --api to pick one")
	}

	svc := services[0]
	fmt.Fprintf(out, "Using %s\n\n", svc)
	cfg.RememberServer(svc.Instance, svc.BaseURL())
	if err := cfg.Save(); err != nil {
		logging.Warn("Could not remember discovered service", zap.Error(err))
	}
	return svc.BaseURL(), nil
}

// newPrinter returns a printer for the command's output. Real terminals get
// styled output.
func newPrinter(cmd *cobra.Command) *ui.Printer {
	if w := cmd.OutOrStdout(); w != os.Stdout {
		return ui.NewPrinter(w)
	}
	return ui.NewPrinter(nil)
}

// render writes v as JSON or YAML, or calls text for the text format
func render(cmd *cobra.Command, v any, text func(p *ui.Printer)) error {
	out := cmd.OutOrStdout()
	switch outputFormat {
	case "json":
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	case "yaml":
		return writeYAML(out, v)
	default:
		text(newPrinter(cmd))
		return nil
	}
}

func writeYAML(out io.Writer, v any) error {
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return enc.Close()
}

// readYAMLFile decodes a YAML (or JSON) file into v, rejecting unknown keys
func readYAMLFile(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%s is empty", path)
		}
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}
