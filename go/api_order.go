package trackerserver

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	ordermapper "github.com/Apurer/order-tracker/internal/domains/orders/adapters/http/mapper"
	ordersapp "github.com/Apurer/order-tracker/internal/domains/orders/application"
	ordersdomain "github.com/Apurer/order-tracker/internal/domains/orders/domain"
	ordersports "github.com/Apurer/order-tracker/internal/domains/orders/ports"
	apierrors "github.com/Apurer/order-tracker/internal/shared/errors"
)

const stepPageTemplate = `<html><head></head><body><div id="currentStep">%d</div></body></html>`

// OrderAPI wires HTTP transport with the orders bounded context.
type OrderAPI struct {
	service     ordersports.Service
	progression ordersports.ProgressionOrchestrator
	logger      *slog.Logger
}

// NewOrderAPI creates an OrderAPI. A nil progression makes the listing
// side-effect free; otherwise every listing is followed by a sweep.
func NewOrderAPI(service ordersports.Service, progression ordersports.ProgressionOrchestrator, logger *slog.Logger) OrderAPI {
	if logger == nil {
		logger = slog.Default()
	}
	return OrderAPI{service: service, progression: progression, logger: logger}
}

// Get /
// List every tracked order. Not idempotent while progression is wired:
// statuses may move after the snapshot has been sent.
func (api *OrderAPI) ListOrders(c *gin.Context) {
	ctx := c.Request.Context()
	orders, err := api.service.ListOrders(ctx)
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newOrderListResponse(ordermapper.FromDomainOrders(orders)))
	if api.progression == nil {
		return
	}
	c.Writer.Flush()
	if _, err := api.progression.AdvanceAll(ctx); err != nil {
		api.logger.ErrorContext(ctx, "order progression after listing failed", slog.String("error", err.Error()))
	}
}

// Get /order/:id
// Advance one order a single step and render its status ordinal as HTML.
func (api *OrderAPI) GetOrderStep(c *gin.Context) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		respondProblem(c, apierrors.NewNotFoundProblem("order", raw))
		return
	}
	order, err := api.service.AdvanceOrder(c.Request.Context(), id)
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(renderStepPage(order.Status)))
}

func renderStepPage(status ordersdomain.Status) string {
	return fmt.Sprintf(stepPageTemplate, int(status))
}

func newOrderListResponse(orders []ordermapper.Order) OrderListResponse {
	response := make([]Order, 0, len(orders))
	for _, order := range orders {
		response = append(response, Order{
			OrderId:          order.ID,
			OrderTrackerLink: order.TrackerLink,
			OrderStatusImage: order.StatusImage,
			TimeOrdered:      order.TimeOrdered,
		})
	}
	return OrderListResponse{
		Meta:     ResponseMeta{Code: http.StatusOK},
		Response: response,
	}
}

func respondOrderServiceError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	if errors.Is(err, ordersports.ErrNotFound) {
		respondProblem(c, apierrors.ErrNotFound.WithDetail(err.Error()))
		return
	}
	if errors.Is(err, ordersapp.ErrInvalidInput) {
		respondProblem(c, apierrors.ErrValidation.WithDetail(err.Error()))
		return
	}
	apierrors.RespondError(c, err)
}
