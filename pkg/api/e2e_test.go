package api

import (
	"context"
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/netguru/external-dns-webhook-sdk/internal/memoryprovider"
	"github.com/netguru/external-dns-webhook-sdk/pkg/api/mock"
	"github.com/netguru/external-dns-webhook-sdk/pkg/client"
	"github.com/netguru/external-dns-webhook-sdk/pkg/endpoint"
	"github.com/netguru/external-dns-webhook-sdk/pkg/errors"
	"github.com/netguru/external-dns-webhook-sdk/pkg/plan"
)

// inProcessTransport routes client requests straight into the fiber app,
// no listener involved.
type inProcessTransport struct {
	app Api
}

func (t inProcessTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.app.Test(req, -1)
}

func newE2EClient(t *testing.T, cfg memoryprovider.Config) *client.Client {
	t.Helper()
	provider := memoryprovider.New(zap.NewNop(), cfg)
	app := New(zap.NewNop(), provider)

	c, err := client.New("http://provider.test/", client.WithHTTPClient(&http.Client{
		Transport: inProcessTransport{app: app},
	}))
	require.NoError(t, err)
	return c
}

func TestEndToEnd(t *testing.T) {
	c := newE2EClient(t, memoryprovider.Config{
		DomainFilter: endpoint.NewDomainFilter([]string{"example.com"}),
	})
	ctx := context.Background()

	status, err := c.Healthz(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ok", status)

	filter, err := c.DomainFilter(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"example.com"}, filter.Filters)

	records, err := c.Records(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)

	adjusted, err := c.AdjustEndpoints(ctx, []*endpoint.Endpoint{
		endpoint.New("app.example.com", endpoint.RecordTypeA, "1.1.1.1"),
	})
	require.NoError(t, err)
	require.Len(t, adjusted, 1)
	assert.True(t, adjusted[0].RecordTTL.IsConfigured())

	require.NoError(t, c.ApplyChanges(ctx, []plan.Change{
		plan.Create(adjusted[0]),
	}))

	records, err = c.Records(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, adjusted[0].Equal(records[0]))
}

func TestEndToEndProviderFailure(t *testing.T) {
	app := New(zap.NewNop(), &mock.Provider{
		RecordsFn: func(ctx context.Context) ([]*endpoint.Endpoint, error) {
			return nil, stderrors.New("zone lookup failed")
		},
	})
	c, err := client.New("http://provider.test/", client.WithHTTPClient(&http.Client{
		Transport: inProcessTransport{app: app},
	}))
	require.NoError(t, err)

	_, err = c.Records(context.Background())

	var remoteErr *errors.RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, http.StatusInternalServerError, remoteErr.StatusCode)
	assert.Equal(t, "zone lookup failed", remoteErr.Body)
}

func TestEndToEndEmptyChangeBatch(t *testing.T) {
	c := newE2EClient(t, memoryprovider.Config{})
	ctx := context.Background()

	require.NoError(t, c.ApplyChanges(ctx, nil))

	records, err := c.Records(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestEndToEndReconcileCycle(t *testing.T) {
	c := newE2EClient(t, memoryprovider.Config{})
	ctx := context.Background()

	desired := []*endpoint.Endpoint{
		endpoint.NewWithTTL("update.org", endpoint.RecordTypeA, 300, "1.1.1.1"),
		endpoint.NewWithTTL("delete.org", endpoint.RecordTypeA, 300, "1.1.1.1"),
	}
	current, err := c.Records(ctx)
	require.NoError(t, err)
	require.NoError(t, c.ApplyChanges(ctx, plan.Difference(current, desired)))

	next := []*endpoint.Endpoint{
		endpoint.NewWithTTL("update.org", endpoint.RecordTypeA, 300, "1.1.1.2"),
		endpoint.NewWithTTL("create.org", endpoint.RecordTypeA, 300, "1.1.1.1"),
	}
	current, err = c.Records(ctx)
	require.NoError(t, err)
	require.NoError(t, c.ApplyChanges(ctx, plan.Difference(current, next)))

	current, err = c.Records(ctx)
	require.NoError(t, err)
	require.Len(t, current, 2)

	byName := map[string][]string{}
	for _, r := range current {
		byName[r.DNSName] = r.Targets
	}
	assert.Equal(t, []string{"1.1.1.2"}, byName["update.org"])
	assert.Equal(t, []string{"1.1.1.1"}, byName["create.org"])

	// Re-diffing the converged state yields nothing to send.
	assert.Empty(t, plan.Difference(current, next))
}
