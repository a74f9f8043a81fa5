package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/rl1809/order-desk/internal/core/domain"
	"github.com/rl1809/order-desk/internal/core/service"
)

const maxBodyBytes = 1 << 20

type HTTPHandler struct {
	orderService *service.OrderService
	logger       *zap.Logger
}

type OrderItemRequest struct {
	ArticleID string `json:"article_id"`
	Units     int    `json:"units"`
}

type PlaceOrderRequest struct {
	OrderID    string             `json:"order_id"`
	CustomerID *int64             `json:"customer_id"`
	Items      []OrderItemRequest `json:"items"`
}

type ShortageResponse struct {
	ArticleID   string `json:"article_id"`
	Description string `json:"description"`
	Demand      int    `json:"demand"`
	InStore     int    `json:"in_store"`
}

type PlaceOrderResponse struct {
	Success   bool               `json:"success"`
	Message   string             `json:"message"`
	OrderID   string             `json:"order_id,omitempty"`
	Value     int64              `json:"value,omitempty"`
	Tax       int64              `json:"tax,omitempty"`
	Shortages []ShortageResponse `json:"shortages,omitempty"`
}

type RestockRequest struct {
	ArticleID string `json:"article_id"`
	Units     int    `json:"units"`
}

type RestockResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	ArticleID    string `json:"article_id,omitempty"`
	UnitsInStore int    `json:"units_in_store,omitempty"`
}

func NewHTTPHandler(orderService *service.OrderService, logger *zap.Logger) *HTTPHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPHandler{orderService: orderService, logger: logger}
}

// Routes registers every endpoint on a new mux.
func (h *HTTPHandler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", h.HealthCheck)
	mux.HandleFunc("/api/orders", h.PlaceOrder)
	mux.HandleFunc("/api/inventory/restock", h.Restock)
	mux.HandleFunc("/api/reports/inventory", h.InventoryReport)
	mux.HandleFunc("/api/reports/orders", h.OrdersReport)
	return mux
}

func (h *HTTPHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req PlaceOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, PlaceOrderResponse{
			Success: false,
			Message: "invalid request body",
		})
		return
	}

	if req.CustomerID == nil || len(req.Items) == 0 {
		h.writeJSON(w, http.StatusBadRequest, PlaceOrderResponse{
			Success: false,
			Message: "missing required fields",
		})
		return
	}

	lines := make([]service.OrderLine, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, service.OrderLine{ArticleID: item.ArticleID, Units: item.Units})
	}

	order, err := h.orderService.BuildOrder(req.OrderID, *req.CustomerID, lines)
	if err != nil {
		h.writeOrderError(w, req.OrderID, err)
		return
	}

	fulfillment, err := h.orderService.Place(r.Context(), order)
	if err != nil {
		h.writeOrderError(w, order.ID(), err)
		return
	}

	h.writeJSON(w, http.StatusCreated, PlaceOrderResponse{
		Success: true,
		Message: "order placed successfully",
		OrderID: fulfillment.OrderID,
		Value:   fulfillment.Value,
		Tax:     fulfillment.Tax,
	})
}

func (h *HTTPHandler) writeOrderError(w http.ResponseWriter, orderID string, err error) {
	resp := PlaceOrderResponse{Success: false, OrderID: orderID, Message: err.Error()}
	status := http.StatusInternalServerError

	var notFillable *service.NotFillableError
	switch {
	case errors.As(err, &notFillable):
		status = http.StatusUnprocessableEntity
		resp.Message = service.ErrOrderNotFillable.Error()
		for _, s := range notFillable.Shortages {
			resp.Shortages = append(resp.Shortages, ShortageResponse(s))
		}
	case errors.Is(err, service.ErrDuplicateOrder):
		status = http.StatusConflict
		resp.Message = "duplicate order"
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidArgument):
		status = http.StatusBadRequest
	default:
		h.logger.Error("failed to place order", zap.String("order_id", orderID), zap.Error(err))
		resp.Message = "internal error"
	}
	h.writeJSON(w, status, resp)
}

func (h *HTTPHandler) Restock(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req RestockRequest
	if err := decodeJSON(r, &req); err != nil || req.ArticleID == "" {
		h.writeJSON(w, http.StatusBadRequest, RestockResponse{
			Success: false,
			Message: "invalid request body",
		})
		return
	}

	item, err := h.orderService.Restock(r.Context(), req.ArticleID, req.Units)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrNotFound) {
			status = http.StatusNotFound
		} else if errors.Is(err, domain.ErrInvalidArgument) {
			status = http.StatusBadRequest
		}
		h.writeJSON(w, status, RestockResponse{Success: false, Message: err.Error()})
		return
	}

	h.writeJSON(w, http.StatusOK, RestockResponse{
		Success:      true,
		Message:      "restocked",
		ArticleID:    req.ArticleID,
		UnitsInStore: item.UnitsInStore(),
	})
}

func (h *HTTPHandler) InventoryReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.writeText(w, h.orderService.InventoryReport())
}

func (h *HTTPHandler) OrdersReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.writeText(w, h.orderService.OrdersReport())
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// Write errors mean the client went away; the status is already sent.
func (h *HTTPHandler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Debug("write response failed", zap.Int("status", status), zap.Error(err))
	}
}

func (h *HTTPHandler) writeText(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, body); err != nil {
		h.logger.Debug("write response failed", zap.Error(err))
	}
}
