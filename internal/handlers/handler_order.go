package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/stitchdesk/tailor_shop_app/internal/core/ports/services"
	"github.com/stitchdesk/tailor_shop_app/internal/dto"
	"github.com/stitchdesk/tailor_shop_app/internal/platform/storage"
)

// Design reference uploads are images or PDFs from phone cameras; 10MB is
// generous already.
const maxDesignReferenceSize = 10 << 20

// OrderHandler holds dependencies for order lifecycle handlers.
type OrderHandler struct {
	orderService portssvc.OrderSvcFacade
	uploader     storage.Uploader
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(svc portssvc.OrderSvcFacade, uploader storage.Uploader) *OrderHandler {
	return &OrderHandler{orderService: svc, uploader: uploader}
}

// registerOrderRoutes registers order lifecycle routes.
func registerOrderRoutes(rg *gin.RouterGroup, svc portssvc.OrderSvcFacade, uploader storage.Uploader) {
	h := NewOrderHandler(svc, uploader)
	orders := rg.Group("/orders")
	{
		orders.POST("", h.CreateOrder)
		orders.GET("", h.ListOrders)
		orders.GET("/:orderRowID", h.GetOrderByID)
		orders.PUT("/:orderRowID", h.UpdateOrder)
		orders.PUT("/:orderRowID/status", h.TransitionOrder)
		orders.POST("/:orderRowID/charges", h.AddExtraCharge)
		orders.POST("/:orderRowID/design-reference", h.UploadDesignReference)
	}
}

// CreateOrder godoc
// @Summary Place a new order
// @Description Creates an order in state PENDING with a minted human-readable order id. Tailors set customerID to order on a customer's behalf; customers leave it empty.
// @Tags orders
// @Accept json
// @Produce json
// @Param order body dto.CreateOrderRequest true "Order details"
// @Success 201 {object} dto.OrderResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	caller, ok := mustCurrentUser(c)
	if !ok {
		return
	}

	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), caller, req)
	if err != nil {
		respondWithError(c, err, "Failed to create order")
		return
	}

	c.JSON(http.StatusCreated, dto.ToOrderResponse(order, nil, nil, time.Now()))
}

// ListOrders godoc
// @Summary List orders
// @Description Lists caller-visible orders. Customers only ever see their own. Pages are keyed by creation time; pass nextToken from a previous page to continue.
// @Tags orders
// @Produce json
// @Param customer_id query string false "Filter by customer (staff only)"
// @Param status query string false "Filter by status" Enums(PENDING, IN_STITCHING, COMPLETED, COMPLETED_NOT_PICKED, DELIVERED, CANCELLED)
// @Param limit query int false "Page size" default(20)
// @Param next_token query string false "Opaque page cursor"
// @Success 200 {object} dto.ListOrdersResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	caller, ok := mustCurrentUser(c)
	if !ok {
		return
	}

	var params dto.ListOrdersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	orders, nextToken, err := h.orderService.ListOrders(c.Request.Context(), caller, params)
	if err != nil {
		respondWithError(c, err, "Failed to list orders")
		return
	}

	now := time.Now()
	responses := make([]dto.OrderResponse, len(orders))
	for i := range orders {
		responses[i] = dto.ToOrderResponse(&orders[i], nil, nil, now)
	}
	c.JSON(http.StatusOK, dto.ListOrdersResponse{Orders: responses, NextToken: nextToken})
}

// GetOrderByID godoc
// @Summary Get order detail
// @Description Returns the order with its measurement set and extra charge ledger.
// @Tags orders
// @Produce json
// @Param orderRowID path string true "Order row ID"
// @Success 200 {object} dto.OrderResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /orders/{orderRowID} [get]
func (h *OrderHandler) GetOrderByID(c *gin.Context) {
	caller, ok := mustCurrentUser(c)
	if !ok {
		return
	}

	detail, err := h.orderService.GetOrderDetail(c.Request.Context(), caller, c.Param("orderRowID"))
	if err != nil {
		respondWithError(c, err, "Failed to get order")
		return
	}

	c.JSON(http.StatusOK, dto.ToOrderResponse(&detail.Order, detail.Measurement, detail.ExtraCharges, time.Now()))
}

// UpdateOrder godoc
// @Summary Update a pending order
// @Description Replaces descriptive fields and measurements. Only permitted while the order is PENDING.
// @Tags orders
// @Accept json
// @Produce json
// @Param orderRowID path string true "Order row ID"
// @Param order body dto.UpdateOrderRequest true "Fields to update"
// @Success 200 {object} dto.OrderResponse
// @Failure 400 {object} ErrorResponse "Order is past PENDING"
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /orders/{orderRowID} [put]
func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	caller, ok := mustCurrentUser(c)
	if !ok {
		return
	}

	var req dto.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	order, err := h.orderService.UpdateOrder(c.Request.Context(), caller, c.Param("orderRowID"), req)
	if err != nil {
		respondWithError(c, err, "Failed to update order")
		return
	}

	c.JSON(http.StatusOK, dto.ToOrderResponse(order, nil, nil, time.Now()))
}

// TransitionOrder godoc
// @Summary Advance the order lifecycle
// @Description Moves the order to the requested status, validating the transition table and the acting role. Customers may only cancel pending orders.
// @Tags orders
// @Accept json
// @Produce json
// @Param orderRowID path string true "Order row ID"
// @Param transition body dto.TransitionOrderRequest true "Target status"
// @Success 200 {object} dto.OrderResponse
// @Failure 400 {object} ErrorResponse "Transition not allowed from current status"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /orders/{orderRowID}/status [put]
func (h *OrderHandler) TransitionOrder(c *gin.Context) {
	caller, ok := mustCurrentUser(c)
	if !ok {
		return
	}

	var req dto.TransitionOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	order, err := h.orderService.TransitionOrder(c.Request.Context(), caller, c.Param("orderRowID"), req.Status)
	if err != nil {
		respondWithError(c, err, "Failed to change order status")
		return
	}

	c.JSON(http.StatusOK, dto.ToOrderResponse(order, nil, nil, time.Now()))
}

// AddExtraCharge godoc
// @Summary Add an extra charge
// @Description Appends a charge to the order's ledger. The ledger is append-only; the payable amount is derived, never stored.
// @Tags orders
// @Accept json
// @Produce json
// @Param orderRowID path string true "Order row ID"
// @Param charge body dto.AddExtraChargeRequest true "Charge details"
// @Success 201 {object} dto.ExtraChargeResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /orders/{orderRowID}/charges [post]
func (h *OrderHandler) AddExtraCharge(c *gin.Context) {
	caller, ok := mustCurrentUser(c)
	if !ok {
		return
	}

	var req dto.AddExtraChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	charge, err := h.orderService.AddExtraCharge(c.Request.Context(), caller, c.Param("orderRowID"), req)
	if err != nil {
		respondWithError(c, err, "Failed to add charge")
		return
	}

	c.JSON(http.StatusCreated, dto.ToExtraChargeResponse(charge))
}

// UploadDesignReference godoc
// @Summary Upload a design reference
// @Description Stores the uploaded file in blob storage and records its URL on the order.
// @Tags orders
// @Accept multipart/form-data
// @Produce json
// @Param orderRowID path string true "Order row ID"
// @Param file formData file true "Design reference image or PDF"
// @Success 200 {object} dto.OrderResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /orders/{orderRowID}/design-reference [post]
func (h *OrderHandler) UploadDesignReference(c *gin.Context) {
	caller, ok := mustCurrentUser(c)
	if !ok {
		return
	}
	orderRowID := c.Param("orderRowID")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "file form field is required"})
		return
	}
	if fileHeader.Size > maxDesignReferenceSize {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "File exceeds the 10MB limit"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondWithError(c, err, "Failed to read upload")
		return
	}
	defer file.Close()

	key := fmt.Sprintf("design-references/%s/%d%s", orderRowID, time.Now().UnixNano(), filepath.Ext(fileHeader.Filename))
	url, err := h.uploader.Upload(c.Request.Context(), key, fileHeader.Header.Get("Content-Type"), file)
	if err != nil {
		respondWithError(c, err, "Failed to store design reference")
		return
	}

	if err := h.orderService.AttachDesignReference(c.Request.Context(), caller, orderRowID, url); err != nil {
		respondWithError(c, err, "Failed to attach design reference")
		return
	}

	detail, err := h.orderService.GetOrderDetail(c.Request.Context(), caller, orderRowID)
	if err != nil {
		respondWithError(c, err, "Failed to get order")
		return
	}
	c.JSON(http.StatusOK, dto.ToOrderResponse(&detail.Order, detail.Measurement, detail.ExtraCharges, time.Now()))
}
