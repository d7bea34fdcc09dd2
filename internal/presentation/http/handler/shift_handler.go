package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/tillpoint-api/internal/application/service"
	"github.com/sangkips/tillpoint-api/internal/domain/repository"
	"github.com/sangkips/tillpoint-api/internal/presentation/http/dto/request"
	"github.com/sangkips/tillpoint-api/internal/presentation/http/dto/response"
	"github.com/sangkips/tillpoint-api/pkg/pagination"
)

// ShiftHandler handles cash-shift lifecycle HTTP requests
type ShiftHandler struct {
	shiftService *service.ShiftService
}

// NewShiftHandler creates a new shift handler
func NewShiftHandler(shiftService *service.ShiftService) *ShiftHandler {
	return &ShiftHandler{shiftService: shiftService}
}

// ClockIn handles opening a shift
func (h *ShiftHandler) ClockIn(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.ClockInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	shift, err := h.shiftService.ClockIn(c.Request.Context(), service.ClockInInput{
		OperatorID:         *userID,
		RegisterID:         req.RegisterID,
		Mode:               req.Mode,
		OpeningCashCounts:  req.OpeningCashCounts,
		OpeningBankBalance: req.OpeningBankBalance,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Shift opened successfully", shift)
}

// GetActive returns the operator's open shift on a register
func (h *ShiftHandler) GetActive(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	registerID, err := uuid.Parse(c.Query("register_id"))
	if err != nil {
		response.BadRequest(c, "Invalid register ID")
		return
	}

	shift, err := h.shiftService.GetActiveShift(c.Request.Context(), *userID, registerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Active shift retrieved successfully", shift)
}

// Get handles retrieving a shift
func (h *ShiftHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid shift ID")
		return
	}

	shift, err := h.shiftService.GetShift(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Shift retrieved successfully", shift)
}

// List handles listing shifts
func (h *ShiftHandler) List(c *gin.Context) {
	params := &repository.ShiftFilterParams{
		Pagination: paginationFromQuery(c),
	}
	if s := c.Query("operator_id"); s != "" {
		if id, err := uuid.Parse(s); err == nil {
			params.OperatorID = &id
		}
	}
	if s := c.Query("register_id"); s != "" {
		if id, err := uuid.Parse(s); err == nil {
			params.RegisterID = &id
		}
	}

	shifts, total, err := h.shiftService.ListShifts(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	result := pagination.NewPaginatedResult(shifts,
		pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total))
	response.SuccessWithPagination(c, 200, "Shifts retrieved successfully", result)
}

// RecordExpense handles a mid-shift till expense
func (h *ShiftHandler) RecordExpense(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid shift ID")
		return
	}

	var req request.CashMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	shift, err := h.shiftService.RecordExpense(c.Request.Context(), id, req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Expense recorded successfully", shift)
}

// RecordReturn handles a mid-shift cash refund
func (h *ShiftHandler) RecordReturn(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid shift ID")
		return
	}

	var req request.CashMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	shift, err := h.shiftService.RecordReturn(c.Request.Context(), id, req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Return recorded successfully", shift)
}

// RecordDebtCollection handles cash collected against a customer debt
func (h *ShiftHandler) RecordDebtCollection(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid shift ID")
		return
	}

	var req request.DebtCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	shift, err := h.shiftService.RecordDebtCollection(c.Request.Context(), id, req.CustomerID, req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Debt collection recorded successfully", shift)
}

// BeginReconciliation handles freezing the shift with a counted drawer
func (h *ShiftHandler) BeginReconciliation(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid shift ID")
		return
	}

	var req request.BeginReconciliationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.shiftService.BeginReconciliation(c.Request.Context(), id,
		req.CountedCashCounts, req.ClosingBankBalance)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Reconciliation started", result)
}

// CancelReconciliation handles returning a reconciling shift to active
func (h *ShiftHandler) CancelReconciliation(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid shift ID")
		return
	}

	shift, err := h.shiftService.CancelReconciliation(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Reconciliation cancelled", shift)
}

// ConfirmClose handles finalizing a reconciling shift
func (h *ShiftHandler) ConfirmClose(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid shift ID")
		return
	}

	var req request.ConfirmCloseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	shift, err := h.shiftService.ConfirmClose(c.Request.Context(), id, req.Notes)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Shift closed successfully", shift)
}
