package plan

import "github.com/netguru/external-dns-webhook-sdk/pkg/endpoint"

// Difference computes the changes that transform the current record set
// into the desired one. Records are matched by endpoint key; a key present
// on both sides produces an update only when the two records differ in any
// field, so diffing a state against itself yields nothing.
//
// The result lists all deletes, then all updates, then all creates. Order
// within each group is unspecified. Duplicate keys within one input are
// tolerated, the last occurrence wins.
func Difference(current, desired []*endpoint.Endpoint) []Change {
	currentByKey := indexByKey(current)
	desiredByKey := indexByKey(desired)

	var deletes, updates, creates []Change

	for key, old := range currentByKey {
		new, ok := desiredByKey[key]
		switch {
		case !ok:
			deletes = append(deletes, Delete(old))
		case !old.Equal(new):
			updates = append(updates, Update(old, new))
		}
	}
	for key, ep := range desiredByKey {
		if _, ok := currentByKey[key]; !ok {
			creates = append(creates, Create(ep))
		}
	}

	changes := make([]Change, 0, len(deletes)+len(updates)+len(creates))
	changes = append(changes, deletes...)
	changes = append(changes, updates...)
	changes = append(changes, creates...)
	return changes
}

func indexByKey(endpoints []*endpoint.Endpoint) map[endpoint.Key]*endpoint.Endpoint {
	indexed := make(map[endpoint.Key]*endpoint.Endpoint, len(endpoints))
	for _, ep := range endpoints {
		indexed[ep.Key()] = ep
	}
	return indexed
}
