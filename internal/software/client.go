package software

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jeffmahoney/agama/internal/logging"
	"github.com/jeffmahoney/agama/internal/resource"
)

const (
	// Root is the service root of the software API
	Root = "software"

	// ApplyPath is the commit endpoint below Root
	ApplyPath = "apply"

	// maxConcurrentLookups bounds the existence checks of SelectPatterns
	maxConcurrentLookups = 4
)

// ErrUnknownPattern is returned when a selection names a pattern the service
// does not offer. Patterns are never created by the client.
var ErrUnknownPattern = errors.New("unknown pattern")

// PatternKind describes the patterns collection
var PatternKind = resource.Kind[Pattern]{
	Name:       "pattern",
	Collection: "patterns",
	ID:         func(p Pattern) string { return p.Name },
}

// Client talks to the software part of the configuration service.
type Client struct {
	svc      *resource.Service
	patterns *resource.Client[Pattern]
	logger   *zap.Logger
}

// NewClient creates a software client on top of transport
func NewClient(transport resource.Transport, opts ...resource.ServiceOption) *Client {
	opts = append([]resource.ServiceOption{resource.WithApplyPath(ApplyPath)}, opts...)
	svc := resource.NewService(transport, Root, opts...)
	return &Client{
		svc:      svc,
		patterns: resource.MustNewClient(svc, PatternKind),
		logger:   logging.Named("software"),
	}
}

// Patterns returns every pattern offered by the service
func (c *Client) Patterns(ctx context.Context) ([]Pattern, error) {
	return c.patterns.List(ctx)
}

// Pattern returns the pattern with the given name
func (c *Client) Pattern(ctx context.Context, name string) (Pattern, error) {
	return c.patterns.Get(ctx, name)
}

// SelectedPatterns returns the patterns selected by the user or the solver
func (c *Client) SelectedPatterns(ctx context.Context) ([]Pattern, error) {
	all, err := c.patterns.List(ctx)
	if err != nil {
		return nil, err
	}
	selected := make([]Pattern, 0, len(all))
	for _, p := range all {
		if p.IsSelected() {
			selected = append(selected, p)
		}
	}
	return selected, nil
}

// SelectPatterns makes names the user selection. Every name is checked
// first; if any is unknown or cannot be checked nothing is written. Patterns
// previously selected by the user and missing from names are deselected.
// It returns the names of the patterns that changed, sorted.
func (c *Client) SelectPatterns(ctx context.Context, names []string) ([]string, error) {
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}

	found := make(map[string]Pattern, len(wanted))
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLookups)
	for name := range wanted {
		g.Go(func() error {
			p, state, err := c.patterns.Lookup(gctx, name)
			switch state {
			case resource.Found:
				mu.Lock()
				found[name] = p
				mu.Unlock()
				return nil
			case resource.NotFound:
				return fmt.Errorf("%w %q", ErrUnknownPattern, name)
			default:
				return fmt.Errorf("checking pattern %q: %w", name, err)
			}
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	all, err := c.patterns.List(ctx)
	if err != nil {
		return nil, err
	}

	var changes []Pattern
	for _, p := range found {
		if p.SelectedBy != SelectedByUser {
			p.SelectedBy = SelectedByUser
			changes = append(changes, p)
		}
	}
	for _, p := range all {
		if p.SelectedBy == SelectedByUser && !wanted[p.Name] {
			p.SelectedBy = SelectedByNone
			changes = append(changes, p)
		}
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].Name < changes[j].Name })

	changed := make([]string, 0, len(changes))
	for _, p := range changes {
		if err := c.patterns.Replace(ctx, p); err != nil {
			return changed, err
		}
		c.logger.Debug("Pattern selection changed",
			zap.String("pattern", p.Name),
			zap.String("selected_by", string(p.SelectedBy)),
		)
		changed = append(changed, p.Name)
	}
	return changed, nil
}

// Apply commits the pending software changes
func (c *Client) Apply(ctx context.Context) error {
	return c.svc.Apply(ctx)
}
