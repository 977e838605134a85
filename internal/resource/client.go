package resource

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// UpsertOutcome tells the caller which write an upsert performed.
type UpsertOutcome int

const (
	// Created means the record did not exist and was created
	Created UpsertOutcome = iota + 1
	// Replaced means an existing record was replaced
	Replaced
)

// String returns the outcome name
func (o UpsertOutcome) String() string {
	switch o {
	case Created:
		return "created"
	case Replaced:
		return "replaced"
	default:
		return fmt.Sprintf("UpsertOutcome(%d)", int(o))
	}
}

// LookupState is the result of an existence check.
type LookupState int

const (
	// Failed means existence could not be determined
	Failed LookupState = iota
	// Found means the service returned the record
	Found
	// NotFound means the service definitively reported the id as absent
	NotFound
)

// String returns the state name
func (s LookupState) String() string {
	switch s {
	case Found:
		return "found"
	case NotFound:
		return "not found"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("LookupState(%d)", int(s))
	}
}

// Client performs typed operations on one collection of a Service.
//
// Client is stateless: it only holds immutable references to its Service and
// Kind, so one value can be shared by any number of goroutines. It never
// retries; retry policy belongs to the Transport.
type Client[T any] struct {
	svc  *Service
	kind Kind[T]
}

// NewClient creates a collection client for the given kind.
func NewClient[T any](svc *Service, kind Kind[T]) (*Client[T], error) {
	if svc == nil {
		return nil, fmt.Errorf("resource kind %q: nil service", kind.label())
	}
	if err := kind.Validate(); err != nil {
		return nil, err
	}
	return &Client[T]{svc: svc, kind: kind}, nil
}

// MustNewClient is like NewClient but panics on an invalid kind. It is meant
// for package-level kinds whose definition is fixed at compile time.
func MustNewClient[T any](svc *Service, kind Kind[T]) *Client[T] {
	c, err := NewClient(svc, kind)
	if err != nil {
		panic(err)
	}
	return c
}

// Service returns the service this client belongs to
func (c *Client[T]) Service() *Service {
	return c.svc
}

// Kind returns the resource kind of this client
func (c *Client[T]) Kind() Kind[T] {
	return c.kind
}

// List returns every record of the collection, in service order.
func (c *Client[T]) List(ctx context.Context) ([]T, error) {
	const op = "list"
	path := c.collectionPath()

	resp, err := c.svc.do(ctx, op, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	if !resp.IsOK() {
		return nil, newServiceError(op, http.MethodGet, path, resp)
	}

	var items []T
	if err := c.svc.codec.Unmarshal(resp.Body, &items); err != nil {
		return nil, &DecodeError{Op: op, Path: path, Body: resp.Body, Err: err}
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Get returns the record with the given id. A missing record is reported as
// a *ServiceError whose NotFound method returns true.
func (c *Client[T]) Get(ctx context.Context, id string) (T, error) {
	const op = "get"
	var zero T

	if id == "" {
		return zero, ErrEmptyID
	}
	path := c.itemPath(id)

	resp, err := c.svc.do(ctx, op, http.MethodGet, path, nil)
	if err != nil {
		return zero, err
	}
	if !resp.IsOK() {
		return zero, newServiceError(op, http.MethodGet, path, resp)
	}

	var item T
	if err := c.svc.codec.Unmarshal(resp.Body, &item); err != nil {
		return zero, &DecodeError{Op: op, Path: path, Body: resp.Body, Err: err}
	}
	return item, nil
}

// Lookup checks whether a record exists. The error is nil for both Found and
// NotFound; it is set only when the state is Failed.
func (c *Client[T]) Lookup(ctx context.Context, id string) (T, LookupState, error) {
	item, err := c.Get(ctx, id)
	switch {
	case err == nil:
		return item, Found, nil
	case IsNotFound(err):
		var zero T
		return zero, NotFound, nil
	default:
		var zero T
		return zero, Failed, err
	}
}

// Create submits a new record to the collection.
func (c *Client[T]) Create(ctx context.Context, item T) error {
	const op = "create"
	path := c.collectionPath()
	return c.write(ctx, op, http.MethodPost, path, item)
}

// Replace overwrites the record with the same id. The id is never changed.
func (c *Client[T]) Replace(ctx context.Context, item T) error {
	const op = "replace"
	id := c.kind.ID(item)
	if id == "" {
		return ErrEmptyID
	}
	return c.write(ctx, op, http.MethodPut, c.itemPath(id), item)
}

// Upsert creates the record when the service reports its id as absent and
// replaces it when present.
//
// The existence check and the write are two separate calls, so concurrent
// upserts of the same id can both see NotFound and both create; the service's
// own uniqueness check decides and its error is returned as is. A failed
// existence check (anything but a definitive not-found) is returned without
// attempting any write.
func (c *Client[T]) Upsert(ctx context.Context, item T) (UpsertOutcome, error) {
	id := c.kind.ID(item)
	if id == "" {
		return 0, ErrEmptyID
	}

	_, state, err := c.Lookup(ctx, id)
	c.svc.logger.Debug("Upsert existence check",
		zap.String("kind", c.kind.label()),
		zap.String("id", id),
		zap.Stringer("state", state),
	)

	switch state {
	case Found:
		if err := c.Replace(ctx, item); err != nil {
			return 0, err
		}
		return Replaced, nil
	case NotFound:
		if err := c.Create(ctx, item); err != nil {
			return 0, err
		}
		return Created, nil
	default:
		return 0, fmt.Errorf("checking whether %s %q exists: %w", c.kind.label(), id, err)
	}
}

func (c *Client[T]) write(ctx context.Context, op, method, path string, item T) error {
	body, err := c.svc.codec.Marshal(item)
	if err != nil {
		return fmt.Errorf("%s %s: cannot encode %s: %w", op, path, c.kind.label(), err)
	}

	resp, err := c.svc.do(ctx, op, method, path, body)
	if err != nil {
		return err
	}
	if !resp.IsSuccess() {
		return newServiceError(op, method, path, resp)
	}
	return nil
}

func (c *Client[T]) collectionPath() string {
	return joinPath(c.svc.root, c.kind.Collection)
}

func (c *Client[T]) itemPath(id string) string {
	return joinPath(c.svc.root, c.kind.Collection, escapeID(id))
}
