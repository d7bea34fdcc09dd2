package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/tillpoint-api/internal/application/service"
	"github.com/sangkips/tillpoint-api/internal/domain/enum"
	"github.com/sangkips/tillpoint-api/internal/presentation/http/dto/request"
	"github.com/sangkips/tillpoint-api/internal/presentation/http/dto/response"
)

// PromotionHandler handles auto-gift rule HTTP requests
type PromotionHandler struct {
	promotionService *service.PromotionService
}

// NewPromotionHandler creates a new promotion handler
func NewPromotionHandler(promotionService *service.PromotionService) *PromotionHandler {
	return &PromotionHandler{promotionService: promotionService}
}

// List handles listing all rules
func (h *PromotionHandler) List(c *gin.Context) {
	promotions, err := h.promotionService.ListPromotions(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Promotions retrieved successfully", promotions)
}

// Get handles retrieving a rule with its triggers and gifts
func (h *PromotionHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid promotion ID")
		return
	}

	promotion, err := h.promotionService.GetPromotion(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Promotion retrieved successfully", promotion)
}

// Create handles creating a rule
func (h *PromotionHandler) Create(c *gin.Context) {
	var req request.CreatePromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	mode := enum.TriggerModeAny
	if req.TriggerMode == "all" {
		mode = enum.TriggerModeAll
	}

	gifts := make([]service.GiftInput, 0, len(req.Gifts))
	for _, g := range req.Gifts {
		gifts = append(gifts, service.GiftInput{ProductID: g.ProductID, Quantity: g.Quantity})
	}

	promotion, err := h.promotionService.CreatePromotion(c.Request.Context(), &service.CreatePromotionInput{
		Name:        req.Name,
		TriggerMode: mode,
		TriggerQty:  req.TriggerQty,
		MaxPerOrder: req.MaxPerOrder,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		TriggerIDs:  req.TriggerIDs,
		Gifts:       gifts,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Promotion created successfully", promotion)
}

// SetActive handles enabling or disabling a rule
func (h *PromotionHandler) SetActive(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid promotion ID")
		return
	}

	var req request.SetPromotionActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	promotion, err := h.promotionService.SetActive(c.Request.Context(), id, *req.Active)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Promotion updated successfully", promotion)
}

// Delete handles deleting a rule
func (h *PromotionHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid promotion ID")
		return
	}

	if err := h.promotionService.DeletePromotion(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
