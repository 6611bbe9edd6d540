package handler

import (
	"errors"
	"net/http"

	"joyeria/internal/middleware"
	"joyeria/internal/service"
	"joyeria/pkg/response"

	"github.com/gin-gonic/gin"
)

type PricingHandler struct {
	pricingService service.PricingService
}

func NewPricingHandler(pricingService service.PricingService) *PricingHandler {
	return &PricingHandler{pricingService: pricingService}
}

func (h *PricingHandler) RegisterRoutes(router *gin.RouterGroup) {
	pricing := router.Group("/pricing")
	pricing.Use(middleware.RequireRole("admin", "manager"))
	{
		pricing.GET("/groups/:id", h.QuoteGroup)
		pricing.POST("/quote", h.QuickQuote)
	}
}

// QuoteGroup prices a group off its stored variables and returns the full
// breakdown, recomputed on every call
func (h *PricingHandler) QuoteGroup(c *gin.Context) {
	breakdown, err := h.pricingService.QuoteGroup(c.Request.Context(), c.Param("id"))
	if err != nil {
		status := statusForLookup(err)
		if errors.Is(err, service.ErrParametersNotLoaded) {
			status = http.StatusConflict
		}
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, breakdown))
}

// QuickQuote runs the calculator on ad-hoc variables without a group record
func (h *PricingHandler) QuickQuote(c *gin.Context) {
	var req service.QuickQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	breakdown, err := h.pricingService.QuickQuote(c.Request.Context(), req)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, service.ErrParametersNotLoaded) {
			status = http.StatusConflict
		}
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, breakdown))
}
