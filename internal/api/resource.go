package api

import (
	"context"
	"fmt"
	"net/http"
)

// Resource is a generic client-scoped sub-resource endpoint family:
// GET/POST /api/clients/:id/<name> and DELETE /api/clients/:id/<name>/:subID.
// One instantiation per entity type replaces the per-resource fetch and
// mutation boilerplate.
type Resource[T any] struct {
	client *Client
	name   string
}

// NewResource binds a sub-resource path segment (e.g. "contacts") to an
// entity type.
func NewResource[T any](client *Client, name string) Resource[T] {
	return Resource[T]{client: client, name: name}
}

// Name returns the path segment the resource is bound to.
func (r Resource[T]) Name() string { return r.name }

// List fetches the full collection for one client.
func (r Resource[T]) List(ctx context.Context, clientID string) ([]T, error) {
	var items []T
	path := fmt.Sprintf("/api/clients/%s/%s", clientID, r.name)
	if err := r.client.do(ctx, http.MethodGet, path, nil, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Create posts a new record and returns the server's normalized copy.
func (r Resource[T]) Create(ctx context.Context, clientID string, payload T) (T, error) {
	var created T
	path := fmt.Sprintf("/api/clients/%s/%s", clientID, r.name)
	if err := r.client.do(ctx, http.MethodPost, path, nil, payload, &created); err != nil {
		return created, err
	}
	return created, nil
}

// Delete removes a record by id.
func (r Resource[T]) Delete(ctx context.Context, clientID, id string) error {
	path := fmt.Sprintf("/api/clients/%s/%s/%s", clientID, r.name, id)
	return r.client.do(ctx, http.MethodDelete, path, nil, nil, nil)
}
