// Package memoryprovider is the reference webhook provider: it manages
// records in process memory behind a read-write lock. It exists to host
// the protocol end to end without a cloud backend, in tests and local
// driver development.
package memoryprovider

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/netguru/external-dns-webhook-sdk/pkg/endpoint"
	"github.com/netguru/external-dns-webhook-sdk/pkg/plan"
)

const (
	defaultTTL     = endpoint.TTL(300)
	defaultWorkers = 4
)

// Provider stores records in a map keyed by endpoint identity. All reads
// take the read lock, all mutations the write lock; the dispatcher above
// it assumes nothing about exclusivity.
type Provider struct {
	mu      sync.RWMutex
	records map[endpoint.Key]*endpoint.Endpoint

	logger       *zap.Logger
	domainFilter endpoint.DomainFilter
	dryRun       bool
	ttl          endpoint.TTL
	workers      int
}

// New initializes an empty in-memory provider.
func New(logger *zap.Logger, cfg Config) *Provider {
	ttl := cfg.TTL
	if !ttl.IsConfigured() {
		ttl = defaultTTL
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Provider{
		records:      make(map[endpoint.Key]*endpoint.Endpoint),
		logger:       logger,
		domainFilter: cfg.DomainFilter,
		dryRun:       cfg.DryRun,
		ttl:          ttl,
		workers:      workers,
	}
}

// Init returns the configured domain filter.
func (p *Provider) Init(ctx context.Context) (endpoint.DomainFilter, error) {
	p.logger.Info("Provider initialized",
		zap.Strings("filters", p.domainFilter.Filters))
	return p.domainFilter, nil
}

// Healthz reports liveness.
func (p *Provider) Healthz(ctx context.Context) (string, error) {
	return "ok", nil
}

// Records returns a snapshot of the current record set.
func (p *Provider) Records(ctx context.Context) ([]*endpoint.Endpoint, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	endpoints := make([]*endpoint.Endpoint, 0, len(p.records))
	for _, ep := range p.records {
		endpoints = append(endpoints, ep)
	}

	p.logger.Debug("Listed records", zap.Int("count", len(endpoints)))
	return endpoints, nil
}

// AdjustEndpoints canonicalizes desired endpoints: unsupported record
// types and names outside the domain filter are dropped, missing TTLs get
// the provider default.
func (p *Provider) AdjustEndpoints(ctx context.Context, endpoints []*endpoint.Endpoint) ([]*endpoint.Endpoint, error) {
	adjusted := make([]*endpoint.Endpoint, 0, len(endpoints))
	for _, ep := range endpoints {
		if !supportedRecordType(ep.RecordType) {
			p.logger.Debug("Dropping endpoint with unsupported record type",
				zap.String("dnsName", ep.DNSName),
				zap.String("recordType", ep.RecordType))
			continue
		}
		if !p.domainFilter.Match(ep.DNSName) {
			p.logger.Debug("Dropping endpoint outside domain filter",
				zap.String("dnsName", ep.DNSName))
			continue
		}

		out := *ep
		if !out.RecordTTL.IsConfigured() {
			out.RecordTTL = p.ttl
		}
		adjusted = append(adjusted, &out)
	}

	p.logger.Debug("Adjusted endpoints",
		zap.Int("desired", len(endpoints)),
		zap.Int("adjusted", len(adjusted)))
	return adjusted, nil
}

// Reconcile computes and applies the changes that move the stored record
// set to the desired one.
func (p *Provider) Reconcile(ctx context.Context, desired []*endpoint.Endpoint) error {
	current, err := p.Records(ctx)
	if err != nil {
		return err
	}

	changes := plan.Difference(current, desired)
	p.logger.Info("Reconciling record set",
		zap.Int("current", len(current)),
		zap.Int("desired", len(desired)),
		zap.Int("changes", len(changes)))

	return p.ApplyChanges(ctx, changes)
}

func supportedRecordType(recordType string) bool {
	switch recordType {
	case endpoint.RecordTypeA, endpoint.RecordTypeAAAA, endpoint.RecordTypeCNAME, endpoint.RecordTypeTXT:
		return true
	default:
		return false
	}
}
