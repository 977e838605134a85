package software

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/jeffmahoney/agama/internal/logging"
)

// Settings is the software part of an installation profile. Patterns lists
// the names the user selects.
type Settings struct {
	Patterns []string `json:"patterns" yaml:"patterns"`
}

// Store moves Settings between a profile and the service.
type Store struct {
	client *Client
	logger *zap.Logger
}

// NewStore creates a store backed by client
func NewStore(client *Client) *Store {
	return &Store{client: client, logger: logging.Named("software")}
}

// Load returns the patterns currently selected by the user, sorted by name.
// Patterns pulled in by the solver are not part of the profile.
func (s *Store) Load(ctx context.Context) (*Settings, error) {
	patterns, err := s.client.Patterns(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if p.SelectedBy == SelectedByUser {
			names = append(names, p.Name)
		}
	}
	sort.Strings(names)
	return &Settings{Patterns: names}, nil
}

// Store selects the profile patterns and applies the change.
// A nil settings stores nothing.
func (s *Store) Store(ctx context.Context, settings *Settings) error {
	if settings == nil {
		return nil
	}
	changed, err := s.client.SelectPatterns(ctx, settings.Patterns)
	if err != nil {
		return fmt.Errorf("selecting patterns: %w", err)
	}
	s.logger.Info("Patterns selected",
		zap.Strings("patterns", settings.Patterns),
		zap.Int("changed", len(changed)),
	)
	if err := s.client.Apply(ctx); err != nil {
		return fmt.Errorf("applying software settings: %w", err)
	}
	return nil
}
