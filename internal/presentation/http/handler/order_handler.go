package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/tillpoint-api/internal/application/service"
	"github.com/sangkips/tillpoint-api/internal/domain/cart"
	"github.com/sangkips/tillpoint-api/internal/domain/repository"
	"github.com/sangkips/tillpoint-api/internal/presentation/http/dto/request"
	"github.com/sangkips/tillpoint-api/internal/presentation/http/dto/response"
	"github.com/sangkips/tillpoint-api/pkg/pagination"
)

// OrderHandler handles order settlement and history HTTP requests
type OrderHandler struct {
	checkoutService *service.CheckoutService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(checkoutService *service.CheckoutService) *OrderHandler {
	return &OrderHandler{checkoutService: checkoutService}
}

func finalizeInput(cartID uuid.UUID, req *request.CheckoutRequest) service.FinalizeOrderInput {
	return service.FinalizeOrderInput{
		CartID:             cartID,
		DiscountAmount:     req.DiscountAmount,
		DiscountPercentBps: req.DiscountPercentBps,
		PointsUsed:         req.PointsUsed,
		Tender: cart.Tender{
			CashReceived:   req.CashReceived,
			CardAmount:     req.CardAmount,
			TransferAmount: req.TransferAmount,
			DebtAmount:     req.DebtAmount,
		},
	}
}

// Preview handles computing the money breakdown without settling
func (h *OrderHandler) Preview(c *gin.Context) {
	cartID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid cart ID")
		return
	}

	var req request.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	totals, err := h.checkoutService.PreviewTotals(c.Request.Context(), finalizeInput(cartID, &req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Totals calculated successfully", totals)
}

// Checkout handles settling a cart into an order
func (h *OrderHandler) Checkout(c *gin.Context) {
	cartID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid cart ID")
		return
	}

	var req request.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	order, err := h.checkoutService.FinalizeOrder(c.Request.Context(), finalizeInput(cartID, &req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Order settled successfully", order)
}

// Get handles retrieving a settled order with its lines
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	order, err := h.checkoutService.GetOrder(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order retrieved successfully", order)
}

// List handles listing settled orders
func (h *OrderHandler) List(c *gin.Context) {
	params := &repository.OrderFilterParams{
		Pagination: paginationFromQuery(c),
		Search:     c.Query("search"),
	}
	if s := c.Query("shift_id"); s != "" {
		if id, err := uuid.Parse(s); err == nil {
			params.ShiftID = &id
		}
	}
	if s := c.Query("customer_id"); s != "" {
		if id, err := uuid.Parse(s); err == nil {
			params.CustomerID = &id
		}
	}
	if s := c.Query("start_date"); s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			params.StartDate = &t
		}
	}
	if s := c.Query("end_date"); s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			params.EndDate = &t
		}
	}

	orders, total, err := h.checkoutService.ListOrders(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	result := pagination.NewPaginatedResult(orders,
		pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total))
	response.SuccessWithPagination(c, 200, "Orders retrieved successfully", result)
}
