// Package provider defines the capability set a webhook backend exposes
// to the server dispatcher.
package provider

import (
	"context"

	"github.com/netguru/external-dns-webhook-sdk/pkg/endpoint"
	"github.com/netguru/external-dns-webhook-sdk/pkg/plan"
)

// Provider is implemented by a DNS backend served over the webhook
// protocol. The dispatcher shares a single Provider across requests;
// implementations guard their own state.
type Provider interface {
	// Init negotiates the session and returns the domain filter the
	// provider is willing to manage.
	Init(ctx context.Context) (endpoint.DomainFilter, error)

	// Healthz reports liveness. A healthy provider returns "ok".
	Healthz(ctx context.Context) (string, error)

	// Records returns the records currently managed by the provider.
	Records(ctx context.Context) ([]*endpoint.Endpoint, error)

	// ApplyChanges applies the given changes to the provider's records.
	ApplyChanges(ctx context.Context, changes []plan.Change) error

	// AdjustEndpoints gives the provider a chance to canonicalize desired
	// endpoints (default TTLs, normalized names) before they are diffed
	// against its records.
	AdjustEndpoints(ctx context.Context, endpoints []*endpoint.Endpoint) ([]*endpoint.Endpoint, error)
}
