// Package endpoint defines the value types carried over the external-dns
// webhook wire protocol: DNS endpoints, their identity keys, and the
// domain filter negotiated at initialisation.
package endpoint

import (
	"fmt"
	"strings"
)

// Common record types handled by webhook providers.
const (
	RecordTypeA     = "A"
	RecordTypeAAAA  = "AAAA"
	RecordTypeCNAME = "CNAME"
	RecordTypeTXT   = "TXT"
)

// TTL is a record time-to-live in seconds. Zero means "not configured";
// providers substitute their own default.
type TTL int64

// IsConfigured reports whether the TTL carries an explicit value.
func (t TTL) IsConfigured() bool {
	return t > 0
}

// ProviderSpecificProperty is an opaque name/value pair a provider may
// attach to an endpoint. Order is significant on the wire.
type ProviderSpecificProperty struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ProviderSpecific is the ordered set of provider properties on an endpoint.
type ProviderSpecific []ProviderSpecificProperty

// Labels holds endpoint metadata such as ownership markers. Insertion
// order is not significant for equality.
type Labels map[string]string

// Key identifies a record: multiple records may share DNSName and
// RecordType, in which case SetIdentifier disambiguates them (weighted or
// geo routing). The empty SetIdentifier is itself a valid identifier.
type Key struct {
	DNSName       string
	RecordType    string
	SetIdentifier string
}

func (k Key) String() string {
	if k.SetIdentifier == "" {
		return fmt.Sprintf("%s/%s", k.DNSName, k.RecordType)
	}
	return fmt.Sprintf("%s/%s/%s", k.DNSName, k.RecordType, k.SetIdentifier)
}

// Endpoint is one DNS record as exchanged between the external-dns driver
// and a webhook provider.
type Endpoint struct {
	DNSName          string           `json:"dnsName,omitempty"`
	Targets          []string         `json:"targets,omitempty"`
	RecordType       string           `json:"recordType,omitempty"`
	SetIdentifier    string           `json:"setIdentifier,omitempty"`
	RecordTTL        TTL              `json:"recordTTL,omitempty"`
	Labels           Labels           `json:"labels,omitempty"`
	ProviderSpecific ProviderSpecific `json:"providerSpecific,omitempty"`
}

// New returns an endpoint for the given name, record type and targets.
func New(dnsName, recordType string, targets ...string) *Endpoint {
	return NewWithTTL(dnsName, recordType, 0, targets...)
}

// NewWithTTL returns an endpoint with an explicit TTL.
func NewWithTTL(dnsName, recordType string, ttl TTL, targets ...string) *Endpoint {
	return &Endpoint{
		DNSName:    strings.TrimSuffix(dnsName, "."),
		Targets:    targets,
		RecordType: recordType,
		RecordTTL:  ttl,
	}
}

// Key returns the identity of the endpoint. Only DNSName, RecordType and
// SetIdentifier participate; targets, TTL and metadata do not.
func (e *Endpoint) Key() Key {
	return Key{
		DNSName:       e.DNSName,
		RecordType:    e.RecordType,
		SetIdentifier: e.SetIdentifier,
	}
}

// WithSetIdentifier sets the set identifier and returns the endpoint for
// chaining during construction.
func (e *Endpoint) WithSetIdentifier(setIdentifier string) *Endpoint {
	e.SetIdentifier = setIdentifier
	return e
}

// WithProviderSpecific appends a provider property and returns the
// endpoint for chaining.
func (e *Endpoint) WithProviderSpecific(name, value string) *Endpoint {
	e.ProviderSpecific = append(e.ProviderSpecific, ProviderSpecificProperty{Name: name, Value: value})
	return e
}

// Equal reports full-value equality, including non-identity fields.
// Targets and provider properties compare in order; labels do not.
func (e *Endpoint) Equal(other *Endpoint) bool {
	if e == nil || other == nil {
		return e == other
	}
	if e.Key() != other.Key() {
		return false
	}
	if e.RecordTTL != other.RecordTTL {
		return false
	}
	if len(e.Targets) != len(other.Targets) {
		return false
	}
	for i, t := range e.Targets {
		if t != other.Targets[i] {
			return false
		}
	}
	if len(e.ProviderSpecific) != len(other.ProviderSpecific) {
		return false
	}
	for i, p := range e.ProviderSpecific {
		if p != other.ProviderSpecific[i] {
			return false
		}
	}
	if len(e.Labels) != len(other.Labels) {
		return false
	}
	for k, v := range e.Labels {
		if ov, ok := other.Labels[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

func (e *Endpoint) String() string {
	return fmt.Sprintf("%s %d IN %s %s %s %v", e.DNSName, e.RecordTTL, e.RecordType, e.SetIdentifier, strings.Join(e.Targets, ";"), e.ProviderSpecific)
}
