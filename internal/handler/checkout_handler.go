package handler

import (
	"errors"
	"net/http"

	"joyeria/internal/service"
	"joyeria/pkg/response"

	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct {
	checkoutService service.CheckoutService
}

func NewCheckoutHandler(checkoutService service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// RegisterRoutes binds the storefront-facing checkout endpoints. These are
// public: the quote math never exposes cost internals, only the overlay.
func (h *CheckoutHandler) RegisterRoutes(router *gin.RouterGroup) {
	checkout := router.Group("/checkout")
	{
		checkout.GET("/plans", h.Plans)
		checkout.POST("/quote", h.Quote)
		checkout.POST("/pay", h.Pay)
	}
}

// Plans lists the supported installment plans
// @Summary      List installment plans
// @Tags         checkout
// @Produce      json
// @Success      200  {object}  response.Response{data=[]service.PlanResponse}
// @Router       /checkout/plans [get]
func (h *CheckoutHandler) Plans(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.checkoutService.Plans()))
}

// Quote overlays an installment plan on a displayed price
// @Summary      Quote an installment plan
// @Description  Computes the payable total and monthly payment for a displayed price under the chosen plan and currency
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Param        payload  body      service.QuoteRequest  true  "Quote Payload"
// @Success      200      {object}  response.Response{data=service.QuoteResponse}
// @Failure      400      {object}  response.Response
// @Router       /checkout/quote [post]
func (h *CheckoutHandler) Quote(c *gin.Context) {
	var req service.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	quote, err := h.checkoutService.Quote(c.Request.Context(), req)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, service.ErrParametersNotLoaded) {
			status = http.StatusConflict
		}
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, quote))
}

// Pay quotes and captures a payment in one step
// @Summary      Pay
// @Description  Quotes the plan and captures the payable amount through the payment gateway
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Param        payload  body      service.PayRequest  true  "Pay Payload"
// @Success      200      {object}  response.Response{data=service.PayResponse}
// @Failure      400      {object}  response.Response
// @Failure      502      {object}  response.Response
// @Router       /checkout/pay [post]
func (h *CheckoutHandler) Pay(c *gin.Context) {
	var req service.PayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	res, err := h.checkoutService.Pay(c.Request.Context(), req)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, service.ErrParametersNotLoaded) {
			status = http.StatusConflict
		}
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, res))
}
