package network

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/jeffmahoney/agama/internal/resource"
)

const (
	// Root is the service root of the network API
	Root = "network"

	// ApplyPath is the commit endpoint below Root
	ApplyPath = "system/apply"
)

// DeviceKind describes the devices collection
var DeviceKind = resource.Kind[Device]{
	Name:       "device",
	Collection: "devices",
	ID:         func(d Device) string { return d.Name },
}

// ConnectionKind describes the connections collection
var ConnectionKind = resource.Kind[Connection]{
	Name:       "connection",
	Collection: "connections",
	ID:         func(c Connection) string { return c.ID },
}

// Client talks to the network part of the configuration service.
type Client struct {
	svc         *resource.Service
	devices     *resource.Client[Device]
	connections *resource.Client[Connection]
}

// NewClient creates a network client on top of transport
func NewClient(transport resource.Transport, opts ...resource.ServiceOption) *Client {
	opts = append([]resource.ServiceOption{resource.WithApplyPath(ApplyPath)}, opts...)
	svc := resource.NewService(transport, Root, opts...)
	return &Client{
		svc:         svc,
		devices:     resource.MustNewClient(svc, DeviceKind),
		connections: resource.MustNewClient(svc, ConnectionKind),
	}
}

// Devices returns the network devices
func (c *Client) Devices(ctx context.Context) ([]Device, error) {
	return c.devices.List(ctx)
}

// Connections returns the network connections
func (c *Client) Connections(ctx context.Context) ([]Connection, error) {
	return c.connections.List(ctx)
}

// Connection returns the connection with the given id
func (c *Client) Connection(ctx context.Context, id string) (Connection, error) {
	return c.connections.Get(ctx, id)
}

// LookupConnection reports whether the connection exists. The error is only
// set when the state is resource.Failed.
func (c *Client) LookupConnection(ctx context.Context, id string) (Connection, resource.LookupState, error) {
	return c.connections.Lookup(ctx, id)
}

// AddOrUpdateConnection creates the connection or replaces the one with the
// same id. Nothing is written when the existence check fails.
func (c *Client) AddOrUpdateConnection(ctx context.Context, conn Connection) (resource.UpsertOutcome, error) {
	return c.connections.Upsert(ctx, conn)
}

// Apply commits the pending network changes
func (c *Client) Apply(ctx context.Context) error {
	return c.svc.Apply(ctx)
}

// State is a snapshot of devices and connections
type State struct {
	Devices     []Device
	Connections []Connection
}

// State fetches devices and connections concurrently
func (c *Client) State(ctx context.Context) (*State, error) {
	var state State
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		devices, err := c.devices.List(gctx)
		if err != nil {
			return err
		}
		state.Devices = devices
		return nil
	})
	g.Go(func() error {
		conns, err := c.connections.List(gctx)
		if err != nil {
			return err
		}
		state.Connections = conns
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &state, nil
}
