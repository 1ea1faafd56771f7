// Package tracker is an HTTP client for the order tracker API.
package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/oapi-codegen/runtime"
	"golang.org/x/net/html"
)

// ErrOrderNotFound is returned when the tracker answers 404 for an order.
var ErrOrderNotFound = errors.New("tracker order not found")

const currentStepID = "currentStep"

// Order is one entry of the list envelope.
type Order struct {
	OrderID          int64  `json:"orderId"`
	OrderTrackerLink string `json:"orderTrackerLink"`
	OrderStatusImage string `json:"orderStatusImage"`
	TimeOrdered      string `json:"timeOrdered"`
}

// ResponseMeta mirrors the envelope metadata.
type ResponseMeta struct {
	Code  int32  `json:"code"`
	Error string `json:"error"`
	Info  string `json:"info"`
}

type listEnvelope struct {
	Meta     ResponseMeta    `json:"meta"`
	Response json.RawMessage `json:"response"`
}

// Client calls the tracker's list and single-order routes.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

// NewClient instantiates the tracker client with sane defaults.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("tracker base URL is required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse tracker base URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("tracker base URL %q must be absolute", baseURL)
	}
	if !strings.HasSuffix(parsed.Path, "/") {
		parsed.Path += "/"
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	return &Client{baseURL: parsed, httpClient: httpClient}, nil
}

// ListOrders fetches the order list envelope. An envelope whose response is
// a string instead of a list is reported as an error carrying that string.
func (c *Client) ListOrders(ctx context.Context) ([]Order, error) {
	if c == nil || c.httpClient == nil {
		return nil, errors.New("tracker client not configured")
	}
	body, err := c.get(ctx, c.baseURL.String(), "application/json")
	if err != nil {
		return nil, err
	}
	var envelope listEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode tracker list: %w", err)
	}
	var orders []Order
	if err := json.Unmarshal(envelope.Response, &orders); err == nil {
		return orders, nil
	}
	var message string
	if err := json.Unmarshal(envelope.Response, &message); err != nil {
		return nil, fmt.Errorf("decode tracker list response: %w", err)
	}
	if envelope.Meta.Error != "" {
		message = envelope.Meta.Error + ": " + message
	}
	return nil, fmt.Errorf("tracker list error (code %d): %s", envelope.Meta.Code, message)
}

// FetchStep advances the order on the tracker and returns the ordinal it
// rendered in the currentStep element.
func (c *Client) FetchStep(ctx context.Context, id int64) (int, error) {
	if c == nil || c.httpClient == nil {
		return 0, errors.New("tracker client not configured")
	}
	pathParam, err := runtime.StyleParamWithLocation("simple", false, "id", runtime.ParamLocationPath, id)
	if err != nil {
		return 0, fmt.Errorf("style order id: %w", err)
	}
	target := c.baseURL.JoinPath("order", pathParam)
	body, err := c.get(ctx, target.String(), "text/html")
	if err != nil {
		return 0, err
	}
	return parseCurrentStep(body)
}

func (c *Client) get(ctx context.Context, target, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build tracker request: %w", err)
	}
	req.Header.Set("Accept", accept)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call tracker API: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read tracker response: %w", err)
	}
	switch {
	case resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, target)
	default:
		return nil, fmt.Errorf("tracker API unexpected status: %s", resp.Status)
	}
}

func parseCurrentStep(body []byte) (int, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("parse tracker page: %w", err)
	}
	node := findByID(doc, currentStepID)
	if node == nil {
		return 0, fmt.Errorf("tracker page has no %s element", currentStepID)
	}
	var text strings.Builder
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.TextNode {
			text.WriteString(child.Data)
		}
	}
	step, err := strconv.Atoi(strings.TrimSpace(text.String()))
	if err != nil {
		return 0, fmt.Errorf("tracker step %q is not a number", text.String())
	}
	return step, nil
}

func findByID(node *html.Node, id string) *html.Node {
	if node.Type == html.ElementNode {
		for _, attr := range node.Attr {
			if attr.Key == "id" && attr.Val == id {
				return node
			}
		}
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if found := findByID(child, id); found != nil {
			return found
		}
	}
	return nil
}
