// Package plan holds the reconciliation types of the webhook protocol:
// the Change operation, the Changes wire batch, and the diff engine that
// computes the changes needed to move one record set to another.
package plan

import (
	"fmt"

	"github.com/netguru/external-dns-webhook-sdk/pkg/endpoint"
)

// Action discriminates the Change union.
type Action string

const (
	ActionCreate Action = "CREATE"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
)

// Change is one atomic operation on a record. For updates, Previous holds
// the old record state and Endpoint the new one; their keys always match.
// For creates and deletes, Previous is nil.
type Change struct {
	Action   Action
	Endpoint *endpoint.Endpoint
	Previous *endpoint.Endpoint
}

// Create returns a change that creates the given endpoint.
func Create(ep *endpoint.Endpoint) Change {
	return Change{Action: ActionCreate, Endpoint: ep}
}

// Delete returns a change that deletes the given endpoint.
func Delete(ep *endpoint.Endpoint) Change {
	return Change{Action: ActionDelete, Endpoint: ep}
}

// Update returns a change that replaces old with new. The two endpoints
// must share an identity key.
func Update(old, new *endpoint.Endpoint) Change {
	return Change{Action: ActionUpdate, Endpoint: new, Previous: old}
}

func (c Change) String() string {
	if c.Action == ActionUpdate {
		return fmt.Sprintf("%s %s -> %s", c.Action, c.Previous, c.Endpoint)
	}
	return fmt.Sprintf("%s %s", c.Action, c.Endpoint)
}

// Changes is the wire shape of a change batch as POSTed to /records.
// UpdateOld and UpdateNew are not paired by index on the wire; entries are
// matched by endpoint key when the batch is unpacked.
type Changes struct {
	Create    []*endpoint.Endpoint `json:"create,omitempty"`
	UpdateOld []*endpoint.Endpoint `json:"updateOld,omitempty"`
	UpdateNew []*endpoint.Endpoint `json:"updateNew,omitempty"`
	Delete    []*endpoint.Endpoint `json:"delete,omitempty"`
}

// Empty reports whether the batch contains no operations at all.
func (c *Changes) Empty() bool {
	if c == nil {
		return true
	}
	return len(c.Create) == 0 && len(c.UpdateOld) == 0 && len(c.UpdateNew) == 0 && len(c.Delete) == 0
}

// Changes unpacks the wire batch into an ordered change list: deletes
// first, then updates, then creates. Each UpdateOld entry is paired with
// the first UpdateNew entry sharing its key; an old entry with no matching
// new entry yields no change.
func (c *Changes) Changes() []Change {
	if c == nil {
		return nil
	}
	changes := make([]Change, 0, len(c.Delete)+len(c.UpdateOld)+len(c.Create))
	for _, ep := range c.Delete {
		changes = append(changes, Delete(ep))
	}
	for _, old := range c.UpdateOld {
		for _, new := range c.UpdateNew {
			if old.Key() == new.Key() {
				changes = append(changes, Update(old, new))
				break
			}
		}
	}
	for _, ep := range c.Create {
		changes = append(changes, Create(ep))
	}
	return changes
}

// NewChanges packs an ordered change list into the wire batch, appending
// to each array in the order the changes were given. An update contributes
// one entry to UpdateOld and UpdateNew at the same index.
func NewChanges(changes []Change) *Changes {
	batch := &Changes{}
	for _, change := range changes {
		switch change.Action {
		case ActionCreate:
			batch.Create = append(batch.Create, change.Endpoint)
		case ActionUpdate:
			batch.UpdateOld = append(batch.UpdateOld, change.Previous)
			batch.UpdateNew = append(batch.UpdateNew, change.Endpoint)
		case ActionDelete:
			batch.Delete = append(batch.Delete, change.Endpoint)
		}
	}
	return batch
}
