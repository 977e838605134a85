package resource

import (
	"fmt"
	"net/url"
	"strings"
)

// Kind describes one kind of resource: where its collection lives and how to
// read the id of a record. One Kind value exists per resource kind.
type Kind[T any] struct {
	// Name is a singular, human-readable name used in logs (e.g. "connection")
	Name string
	// Collection is the path segment of the collection below the service root
	Collection string
	// ID returns the stable id of a record
	ID func(T) string
}

// Validate checks that the kind is usable.
func (k Kind[T]) Validate() error {
	if strings.Trim(k.Collection, "/") == "" {
		return fmt.Errorf("resource kind %q has no collection", k.Name)
	}
	if k.ID == nil {
		return fmt.Errorf("resource kind %q has no id accessor", k.Name)
	}
	return nil
}

func (k Kind[T]) label() string {
	if k.Name != "" {
		return k.Name
	}
	return strings.Trim(k.Collection, "/")
}

// joinPath joins path segments with single slashes. Segments are expected to be
// escaped already.
func joinPath(segments ...string) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		s = strings.Trim(s, "/")
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "/")
}

// escapeID escapes a resource id so it stays a single path segment.
func escapeID(id string) string {
	return url.PathEscape(id)
}
