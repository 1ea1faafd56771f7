package tracker

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	trackerclient "github.com/Apurer/order-tracker/internal/clients/http/tracker"
	"github.com/Apurer/order-tracker/internal/domains/watch/domain"
)

func TestSource_Observe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"meta":{"code":200,"error":"","info":""},"response":[` +
			`{"orderId":2,"orderTrackerLink":"http://localhost:8888/order/2","orderStatusImage":"/webfile?name=order-tracker-cooking.png","timeOrdered":"Tue 19 Sep 2018 15:10:00"}]}`))
	}))
	t.Cleanup(srv.Close)
	client, err := trackerclient.NewClient(srv.URL, srv.Client())
	require.NoError(t, err)

	observations, err := NewSource(client).Observe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Observation{{
		OrderID:     2,
		TrackerLink: "http://localhost:8888/order/2",
		StatusImage: "/webfile?name=order-tracker-cooking.png",
		TimeOrdered: "Tue 19 Sep 2018 15:10:00",
	}}, observations)
}

func TestSource_NotConfigured(t *testing.T) {
	_, err := NewSource(nil).Observe(context.Background())
	require.Error(t, err)
}
