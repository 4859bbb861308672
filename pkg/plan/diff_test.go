package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netguru/external-dns-webhook-sdk/pkg/endpoint"
)

func TestDifferenceCreateOnly(t *testing.T) {
	desired := []*endpoint.Endpoint{
		endpoint.New("update.org", endpoint.RecordTypeA, "1.1.1.1"),
	}

	changes := Difference(nil, desired)

	require.Len(t, changes, 1)
	assert.Equal(t, ActionCreate, changes[0].Action)
	assert.Equal(t, "update.org", changes[0].Endpoint.DNSName)
	assert.Nil(t, changes[0].Previous)
}

func TestDifferenceMixed(t *testing.T) {
	current := []*endpoint.Endpoint{
		endpoint.New("update.org", endpoint.RecordTypeA, "1.1.1.1"),
		endpoint.New("delete.org", endpoint.RecordTypeA, "1.1.1.1"),
	}
	desired := []*endpoint.Endpoint{
		endpoint.New("update.org", endpoint.RecordTypeA, "1.1.1.2"),
		endpoint.New("create.org", endpoint.RecordTypeA, "1.1.1.1"),
	}

	changes := Difference(current, desired)

	// Deletes come first, then updates, then creates.
	require.Len(t, changes, 3)
	assert.Equal(t, ActionDelete, changes[0].Action)
	assert.Equal(t, "delete.org", changes[0].Endpoint.DNSName)

	assert.Equal(t, ActionUpdate, changes[1].Action)
	assert.Equal(t, "update.org", changes[1].Endpoint.DNSName)
	assert.Equal(t, []string{"1.1.1.1"}, changes[1].Previous.Targets)
	assert.Equal(t, []string{"1.1.1.2"}, changes[1].Endpoint.Targets)

	assert.Equal(t, ActionCreate, changes[2].Action)
	assert.Equal(t, "create.org", changes[2].Endpoint.DNSName)
}

func TestDifferenceIdempotent(t *testing.T) {
	state := []*endpoint.Endpoint{
		endpoint.NewWithTTL("a.example.com", endpoint.RecordTypeA, 300, "1.1.1.1"),
		endpoint.New("b.example.com", endpoint.RecordTypeCNAME, "target.example.com"),
		endpoint.New("c.example.com", endpoint.RecordTypeA, "1.1.1.1").WithSetIdentifier("weight-1"),
	}

	assert.Empty(t, Difference(state, state))
}

func TestDifferenceEqualValuesDistinctAllocations(t *testing.T) {
	mk := func() []*endpoint.Endpoint {
		ep := endpoint.NewWithTTL("a.example.com", endpoint.RecordTypeA, 300, "1.1.1.1")
		ep.Labels = endpoint.Labels{"owner": "external-dns"}
		return []*endpoint.Endpoint{ep}
	}

	assert.Empty(t, Difference(mk(), mk()))
}

func TestDifferenceCompleteness(t *testing.T) {
	a := []*endpoint.Endpoint{
		endpoint.New("a1.example.com", endpoint.RecordTypeA, "1.1.1.1"),
		endpoint.New("a2.example.com", endpoint.RecordTypeA, "1.1.1.1"),
	}
	b := []*endpoint.Endpoint{
		endpoint.New("b1.example.com", endpoint.RecordTypeA, "1.1.1.1"),
		endpoint.New("b2.example.com", endpoint.RecordTypeA, "1.1.1.1"),
		endpoint.New("b3.example.com", endpoint.RecordTypeA, "1.1.1.1"),
	}

	changes := Difference(a, append(append([]*endpoint.Endpoint{}, a...), b...))

	require.Len(t, changes, len(b))
	created := map[endpoint.Key]bool{}
	for _, change := range changes {
		assert.Equal(t, ActionCreate, change.Action)
		created[change.Endpoint.Key()] = true
	}
	for _, ep := range b {
		assert.True(t, created[ep.Key()], "missing create for %s", ep.DNSName)
	}
}

func TestDifferenceSymmetry(t *testing.T) {
	a := []*endpoint.Endpoint{
		endpoint.New("a.example.com", endpoint.RecordTypeA, "1.1.1.1"),
		endpoint.New("shared.example.com", endpoint.RecordTypeA, "1.1.1.1"),
	}
	b := []*endpoint.Endpoint{
		endpoint.New("b.example.com", endpoint.RecordTypeA, "1.1.1.1"),
		endpoint.New("shared.example.com", endpoint.RecordTypeA, "1.1.1.1"),
	}

	keys := func(changes []Change, action Action) map[endpoint.Key]bool {
		out := map[endpoint.Key]bool{}
		for _, c := range changes {
			if c.Action == action {
				out[c.Endpoint.Key()] = true
			}
		}
		return out
	}

	forward := Difference(a, b)
	backward := Difference(b, a)

	assert.Equal(t, keys(forward, ActionDelete), keys(backward, ActionCreate))
	assert.Equal(t, keys(forward, ActionCreate), keys(backward, ActionDelete))
}

func TestDifferenceDuplicateKeysLastWriteWins(t *testing.T) {
	current := []*endpoint.Endpoint{
		endpoint.New("dup.example.com", endpoint.RecordTypeA, "1.1.1.1"),
		endpoint.New("dup.example.com", endpoint.RecordTypeA, "2.2.2.2"),
	}
	desired := []*endpoint.Endpoint{
		endpoint.New("dup.example.com", endpoint.RecordTypeA, "2.2.2.2"),
	}

	assert.Empty(t, Difference(current, desired))
}

func TestDifferenceUpdateKeysMatch(t *testing.T) {
	current := []*endpoint.Endpoint{
		endpoint.NewWithTTL("a.example.com", endpoint.RecordTypeA, 300, "1.1.1.1"),
	}
	desired := []*endpoint.Endpoint{
		endpoint.NewWithTTL("a.example.com", endpoint.RecordTypeA, 600, "1.1.1.1"),
	}

	changes := Difference(current, desired)

	require.Len(t, changes, 1)
	require.Equal(t, ActionUpdate, changes[0].Action)
	assert.Equal(t, changes[0].Previous.Key(), changes[0].Endpoint.Key())
}
