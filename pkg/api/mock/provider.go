// Package mock provides a function-field Provider for tests.
package mock

import (
	"context"

	"github.com/netguru/external-dns-webhook-sdk/pkg/endpoint"
	"github.com/netguru/external-dns-webhook-sdk/pkg/plan"
)

// Provider implements provider.Provider through optional function fields.
// Unset fields behave as an empty, always-healthy provider.
type Provider struct {
	InitFn            func(ctx context.Context) (endpoint.DomainFilter, error)
	HealthzFn         func(ctx context.Context) (string, error)
	RecordsFn         func(ctx context.Context) ([]*endpoint.Endpoint, error)
	ApplyChangesFn    func(ctx context.Context, changes []plan.Change) error
	AdjustEndpointsFn func(ctx context.Context, endpoints []*endpoint.Endpoint) ([]*endpoint.Endpoint, error)
}

func (m *Provider) Init(ctx context.Context) (endpoint.DomainFilter, error) {
	if m.InitFn != nil {
		return m.InitFn(ctx)
	}
	return endpoint.DomainFilter{Filters: []string{}}, nil
}

func (m *Provider) Healthz(ctx context.Context) (string, error) {
	if m.HealthzFn != nil {
		return m.HealthzFn(ctx)
	}
	return "ok", nil
}

func (m *Provider) Records(ctx context.Context) ([]*endpoint.Endpoint, error) {
	if m.RecordsFn != nil {
		return m.RecordsFn(ctx)
	}
	return []*endpoint.Endpoint{}, nil
}

func (m *Provider) ApplyChanges(ctx context.Context, changes []plan.Change) error {
	if m.ApplyChangesFn != nil {
		return m.ApplyChangesFn(ctx, changes)
	}
	return nil
}

func (m *Provider) AdjustEndpoints(ctx context.Context, endpoints []*endpoint.Endpoint) ([]*endpoint.Endpoint, error) {
	if m.AdjustEndpointsFn != nil {
		return m.AdjustEndpointsFn(ctx, endpoints)
	}
	return endpoints, nil
}
