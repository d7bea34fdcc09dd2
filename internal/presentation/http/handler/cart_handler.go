package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/tillpoint-api/internal/application/service"
	"github.com/sangkips/tillpoint-api/internal/domain/cart"
	"github.com/sangkips/tillpoint-api/internal/presentation/http/dto/request"
	"github.com/sangkips/tillpoint-api/internal/presentation/http/dto/response"
)

// CartHandler handles live cart session HTTP requests
type CartHandler struct {
	cartService *service.CartService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// Open handles starting a cart session
func (h *CartHandler) Open(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.OpenCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	snap, err := h.cartService.OpenCart(c.Request.Context(), *userID, req.RegisterID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Cart opened successfully", snap)
}

// Get handles retrieving the current cart snapshot
func (h *CartHandler) Get(c *gin.Context) {
	cartID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid cart ID")
		return
	}

	snap, err := h.cartService.GetCart(c.Request.Context(), cartID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cart retrieved successfully", snap)
}

// Scan handles one scanner event
func (h *CartHandler) Scan(c *gin.Context) {
	cartID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid cart ID")
		return
	}

	var req request.ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	snap, err := h.cartService.Scan(c.Request.Context(), cartID, req.Code)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Scan processed successfully", snap)
}

// SelectCandidate handles resolving an ambiguous scan
func (h *CartHandler) SelectCandidate(c *gin.Context) {
	cartID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid cart ID")
		return
	}

	var req request.SelectCandidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	snap, err := h.cartService.SelectScanCandidate(c.Request.Context(), cartID, req.Index)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Candidate selected successfully", snap)
}

// CancelScan handles discarding a pending ambiguous scan
func (h *CartHandler) CancelScan(c *gin.Context) {
	cartID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid cart ID")
		return
	}

	snap, err := h.cartService.CancelScan(c.Request.Context(), cartID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Scan cancelled", snap)
}

// AddLine handles adding a product to the cart
func (h *CartHandler) AddLine(c *gin.Context) {
	cartID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid cart ID")
		return
	}

	var req request.AddLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	snap, err := h.cartService.AddLine(c.Request.Context(), cartID, req.ProductID, req.UnitID, req.Quantity)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Line added successfully", snap)
}

// ChangeUnit handles moving a line to another selling unit
func (h *CartHandler) ChangeUnit(c *gin.Context) {
	cartID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid cart ID")
		return
	}
	lineID, ok := parseIDParam(c, "lineId")
	if !ok {
		response.BadRequest(c, "Invalid line ID")
		return
	}

	var req request.ChangeUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	snap, err := h.cartService.ChangeUnit(c.Request.Context(), cartID, lineID, req.UnitID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Unit changed successfully", snap)
}

// SetQuantity handles updating a line quantity
func (h *CartHandler) SetQuantity(c *gin.Context) {
	cartID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid cart ID")
		return
	}
	lineID, ok := parseIDParam(c, "lineId")
	if !ok {
		response.BadRequest(c, "Invalid line ID")
		return
	}

	var req request.SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	snap, err := h.cartService.SetQuantity(c.Request.Context(), cartID, lineID, req.Quantity)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Quantity updated successfully", snap)
}

// ApplyDiscount handles a manual line discount
func (h *CartHandler) ApplyDiscount(c *gin.Context) {
	cartID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid cart ID")
		return
	}
	lineID, ok := parseIDParam(c, "lineId")
	if !ok {
		response.BadRequest(c, "Invalid line ID")
		return
	}

	var req request.LineDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	snap, err := h.cartService.ApplyLineDiscount(c.Request.Context(), cartID, lineID,
		cart.DiscountMode(req.Mode), req.Value)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Discount applied successfully", snap)
}

// RemoveLine handles deleting a cart line
func (h *CartHandler) RemoveLine(c *gin.Context) {
	cartID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid cart ID")
		return
	}
	lineID, ok := parseIDParam(c, "lineId")
	if !ok {
		response.BadRequest(c, "Invalid line ID")
		return
	}

	snap, err := h.cartService.RemoveLine(c.Request.Context(), cartID, lineID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Line removed successfully", snap)
}

// SetCustomer handles attaching or detaching a customer
func (h *CartHandler) SetCustomer(c *gin.Context) {
	cartID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid cart ID")
		return
	}

	var req request.SetCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	snap, err := h.cartService.SetCustomer(c.Request.Context(), cartID, req.CustomerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer set successfully", snap)
}
