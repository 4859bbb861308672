package memoryprovider

import (
	"github.com/netguru/external-dns-webhook-sdk/pkg/endpoint"
)

// Config is used to configure the creation of the Provider.
type Config struct {
	DomainFilter endpoint.DomainFilter
	DryRun       bool
	TTL          endpoint.TTL
	Workers      int
}
