package network

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/jeffmahoney/agama/internal/logging"
)

// Settings is the network part of an installation profile.
type Settings struct {
	Connections []Connection `json:"connections" yaml:"connections"`
}

// LoadSettingsFile reads network settings from a YAML (or JSON) file
func LoadSettingsFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse settings %s: %w", path, err)
	}
	return &s, nil
}

// Store moves Settings between a profile and the service.
type Store struct {
	client *Client
	logger *zap.Logger
}

// NewStore creates a store backed by client
func NewStore(client *Client) *Store {
	return &Store{client: client, logger: logging.Named("network")}
}

// Load reads the current connections from the service
func (s *Store) Load(ctx context.Context) (*Settings, error) {
	conns, err := s.client.Connections(ctx)
	if err != nil {
		return nil, err
	}
	return &Settings{Connections: conns}, nil
}

// Store upserts every connection in order and applies once at the end.
// It stops at the first failure; connections written before it stay pending
// on the service and are not applied. A nil settings stores nothing.
func (s *Store) Store(ctx context.Context, settings *Settings) error {
	if settings == nil {
		return nil
	}
	if err := ValidateSettings(settings); err != nil {
		return err
	}

	for _, conn := range settings.Connections {
		outcome, err := s.client.AddOrUpdateConnection(ctx, conn)
		if err != nil {
			return fmt.Errorf("storing connection %q: %w", conn.ID, err)
		}
		s.logger.Info("Connection stored",
			zap.String("id", conn.ID),
			zap.Stringer("outcome", outcome),
		)
	}

	if err := s.client.Apply(ctx); err != nil {
		return fmt.Errorf("applying network settings: %w", err)
	}
	return nil
}
