package trackerserver

// Order is the public projection of a tracked order.
type Order struct {
	OrderId int64 `json:"orderId"`

	OrderTrackerLink string `json:"orderTrackerLink"`

	OrderStatusImage string `json:"orderStatusImage"`

	TimeOrdered string `json:"timeOrdered"`
}

// ResponseMeta mirrors the legacy envelope; error and info are always empty.
type ResponseMeta struct {
	Code int32 `json:"code"`

	Error string `json:"error"`

	Info string `json:"info"`
}

// OrderListResponse is the body of the list-all route.
type OrderListResponse struct {
	Meta ResponseMeta `json:"meta"`

	Response []Order `json:"response"`
}
