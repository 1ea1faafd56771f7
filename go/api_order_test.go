package trackerserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/order-tracker/internal/domains/orders/adapters/memory"
	"github.com/Apurer/order-tracker/internal/domains/orders/adapters/workflows"
	"github.com/Apurer/order-tracker/internal/domains/orders/application"
	ordersdomain "github.com/Apurer/order-tracker/internal/domains/orders/domain"
	ordersports "github.com/Apurer/order-tracker/internal/domains/orders/ports"
	apierrors "github.com/Apurer/order-tracker/internal/shared/errors"
)

type missRand struct{}

func (missRand) IntN(n int) int { return n - 1 }

type failingProgression struct{}

func (failingProgression) AdvanceAll(context.Context) (*ordersdomain.SweepResult, error) {
	return nil, errors.New("temporal unreachable")
}

func newTestService() ordersports.Service {
	return application.NewService(
		memory.NewRepository(ordersdomain.SeedOrders("")...),
		application.WithAdvanceGate(ordersdomain.NewAdvanceGate(missRand{}, ordersdomain.DefaultAdvanceThreshold, 0)),
	)
}

func newTestRouter(api OrderAPI) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouterWithGinEngine(gin.New(), ApiHandleFunctions{OrderAPI: api})
}

func get(router http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func decodeList(t *testing.T, rec *httptest.ResponseRecorder) OrderListResponse {
	t.Helper()
	var body OrderListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestGetOrderStep_DeliveredStaysDelivered(t *testing.T) {
	router := newTestRouter(NewOrderAPI(newTestService(), nil, nil))

	rec := get(router, "/order/1")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `<html><head></head><body><div id="currentStep">5</div></body></html>`, rec.Body.String())
}

func TestGetOrderStep_UnknownResetsToDeferred(t *testing.T) {
	router := newTestRouter(NewOrderAPI(newTestService(), nil, nil))

	assert.Contains(t, get(router, "/order/2").Body.String(), `<div id="currentStep">0</div>`)
	assert.Contains(t, get(router, "/order/2").Body.String(), `<div id="currentStep">1</div>`)
}

func TestGetOrderStep_MissingOrder(t *testing.T) {
	router := newTestRouter(NewOrderAPI(newTestService(), nil, nil))

	for _, path := range []string{"/order/999", "/order/abc"} {
		rec := get(router, path)
		require.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Equal(t, apierrors.ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
		assert.NotContains(t, rec.Body.String(), "currentStep")

		var problem apierrors.ProblemDetail
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
		assert.Equal(t, apierrors.TypeNotFound, problem.Type)
		assert.Equal(t, path, problem.Instance)
	}
}

func TestListOrders_Envelope(t *testing.T) {
	router := newTestRouter(NewOrderAPI(newTestService(), nil, nil))

	rec := get(router, "/")
	require.Equal(t, http.StatusOK, rec.Code)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.Equal(t, map[string]any{"code": float64(200), "error": "", "info": ""}, raw["meta"])

	entries, ok := raw["response"].([]any)
	require.True(t, ok)
	require.Len(t, entries, 2)
	for _, entry := range entries {
		fields := entry.(map[string]any)
		assert.Contains(t, fields, "orderId")
		assert.Contains(t, fields, "orderTrackerLink")
		assert.Contains(t, fields, "orderStatusImage")
		assert.Contains(t, fields, "timeOrdered")
		assert.NotContains(t, fields, "status")
	}

	body := decodeList(t, rec)
	assert.Equal(t, Order{
		OrderId:          1,
		OrderTrackerLink: "http://localhost:8888/order/1",
		OrderStatusImage: "/webfile?name=order-tracker-delivered.png",
		TimeOrdered:      "Tue 18 Sep 2018 12:00:00",
	}, body.Response[0])
}

func TestListOrders_WithoutProgressionIsIdempotent(t *testing.T) {
	router := newTestRouter(NewOrderAPI(newTestService(), nil, nil))

	first := get(router, "/").Body.String()
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, get(router, "/").Body.String())
	}
}

func TestListOrders_ProgressionRunsAfterSnapshot(t *testing.T) {
	svc := newTestService()
	router := newTestRouter(NewOrderAPI(svc, workflows.NewInlineProgression(svc), nil))

	first := decodeList(t, get(router, "/"))
	require.Len(t, first.Response, 2)
	assert.Equal(t, "/webfile?name=order-tracker-unknown.png", first.Response[1].OrderStatusImage)

	second := decodeList(t, get(router, "/"))
	require.Len(t, second.Response, 2)
	assert.Equal(t, first.Response[0].OrderId, second.Response[0].OrderId)
	assert.Equal(t, first.Response[1].OrderId, second.Response[1].OrderId)
	assert.Equal(t, "/webfile?name=order-tracker-deferred.png", second.Response[1].OrderStatusImage)
	assert.Equal(t, "/webfile?name=order-tracker-delivered.png", second.Response[0].OrderStatusImage)
}

func TestListOrders_ProgressionFailureIsLogged(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	router := newTestRouter(NewOrderAPI(newTestService(), failingProgression{}, logger))

	rec := get(router, "/")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeList(t, rec).Response, 2)
	assert.Contains(t, logs.String(), "temporal unreachable")
}

func TestRouter_OnlyTrackerRoutes(t *testing.T) {
	router := newTestRouter(NewOrderAPI(newTestService(), nil, nil))

	assert.Equal(t, http.StatusNotFound, get(router, "/orders").Code)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/order/1", nil))
	assert.NotEqual(t, http.StatusOK, rec.Code)
}
