package tracker

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTrackerServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"meta":{"code":200,"error":"","info":""},"response":[` +
			`{"orderId":1,"orderTrackerLink":"http://localhost:8888/order/1","orderStatusImage":"/webfile?name=order-tracker-delivered.png","timeOrdered":"Tue 18 Sep 2018 12:00:00"},` +
			`{"orderId":2,"orderTrackerLink":"http://localhost:8888/order/2","orderStatusImage":"/webfile?name=order-tracker-unknown.png","timeOrdered":"Tue 19 Sep 2018 15:10:00"}]}`))
	})
	mux.HandleFunc("/order/2", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><head></head><body><div id="currentStep">0</div></body></html>`))
	})
	mux.HandleFunc("/order/3", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><p>nothing here</p></body></html>`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestNewClient_RequiresAbsoluteURL(t *testing.T) {
	_, err := NewClient("", nil)
	require.Error(t, err)
	_, err = NewClient("localhost", nil)
	require.Error(t, err)
}

func TestListOrders(t *testing.T) {
	srv := newTrackerServer(t)
	client, err := NewClient(srv.URL, srv.Client())
	require.NoError(t, err)

	orders, err := client.ListOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, Order{
		OrderID:          1,
		OrderTrackerLink: "http://localhost:8888/order/1",
		OrderStatusImage: "/webfile?name=order-tracker-delivered.png",
		TimeOrdered:      "Tue 18 Sep 2018 12:00:00",
	}, orders[0])
	assert.Equal(t, int64(2), orders[1].OrderID)
}

func TestListOrders_StringResponseIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"meta":{"code":500,"error":"lookup failed","info":""},"response":"no orders for that number"}`))
	}))
	t.Cleanup(srv.Close)
	client, err := NewClient(srv.URL, srv.Client())
	require.NoError(t, err)

	_, err = client.ListOrders(context.Background())
	require.ErrorContains(t, err, "lookup failed: no orders for that number")
}

func TestFetchStep(t *testing.T) {
	srv := newTrackerServer(t)
	client, err := NewClient(srv.URL, srv.Client())
	require.NoError(t, err)

	step, err := client.FetchStep(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 0, step)

	_, err = client.FetchStep(context.Background(), 3)
	require.ErrorContains(t, err, "no currentStep element")

	_, err = client.FetchStep(context.Background(), 99)
	require.ErrorIs(t, err, ErrOrderNotFound)
}

func TestParseCurrentStep(t *testing.T) {
	step, err := parseCurrentStep([]byte(`<div><span id="currentStep"> 4 </span></div>`))
	require.NoError(t, err)
	assert.Equal(t, 4, step)

	_, err = parseCurrentStep([]byte(`<div id="currentStep">soon</div>`))
	require.Error(t, err)
}
