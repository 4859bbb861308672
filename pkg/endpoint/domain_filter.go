package endpoint

import "strings"

// DomainFilter restricts the domains a provider manages. It is returned by
// the negotiation endpoint so the driver only sends changes for names the
// provider will accept. An empty filter matches every domain.
type DomainFilter struct {
	Filters []string `json:"filters"`
}

// NewDomainFilter builds a filter from a list of domain suffixes.
func NewDomainFilter(filters []string) DomainFilter {
	normalized := make([]string, 0, len(filters))
	for _, f := range filters {
		f = strings.ToLower(strings.Trim(strings.TrimSpace(f), "."))
		if f != "" {
			normalized = append(normalized, f)
		}
	}
	return DomainFilter{Filters: normalized}
}

// Match reports whether the given DNS name falls under one of the filter
// domains. A name matches a filter when it equals the filter or is a
// subdomain of it.
func (df DomainFilter) Match(dnsName string) bool {
	if len(df.Filters) == 0 {
		return true
	}
	name := strings.ToLower(strings.TrimSuffix(dnsName, "."))
	for _, f := range df.Filters {
		if name == f || strings.HasSuffix(name, "."+f) {
			return true
		}
	}
	return false
}
