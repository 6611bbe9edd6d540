package handler

import (
	"errors"
	"net/http"

	"joyeria/internal/middleware"
	"joyeria/internal/service"
	"joyeria/pkg/response"

	"github.com/gin-gonic/gin"
)

type ParamsHandler struct {
	paramsService service.ParamsService
}

func NewParamsHandler(paramsService service.ParamsService) *ParamsHandler {
	return &ParamsHandler{paramsService: paramsService}
}

func (h *ParamsHandler) RegisterRoutes(router *gin.RouterGroup) {
	params := router.Group("/parameters")
	{
		params.GET("", middleware.RequireRole("admin", "manager", "staff"), h.GetParameters)
		params.PUT("", middleware.RequireRole("admin"), h.UpdateParameters)
	}
}

// GetParameters returns the global pricing parameters
// @Summary      Get global parameters
// @Description  Returns the singleton pricing parameter set every calculation reads from
// @Tags         parameters
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=service.ParametersResponse}
// @Failure      409  {object}  response.Response
// @Router       /parameters [get]
func (h *ParamsHandler) GetParameters(c *gin.Context) {
	params, err := h.paramsService.GetParameters(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrParametersNotLoaded) {
			c.JSON(http.StatusConflict, response.Error(http.StatusConflict, err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, params))
}

// UpdateParameters replaces the global pricing parameters
// @Summary      Update global parameters
// @Description  Replaces the full parameter set; all subsequent calculations use the new values
// @Tags         parameters
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.UpdateParametersRequest  true  "New Parameter Values"
// @Success      200      {object}  response.Response{data=service.ParametersResponse}
// @Failure      400      {object}  response.Response
// @Router       /parameters [put]
func (h *ParamsHandler) UpdateParameters(c *gin.Context) {
	var req service.UpdateParametersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	params, err := h.paramsService.UpdateParameters(c.Request.Context(), req, currentUserID(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, params))
}

// currentUserID pulls the authenticated user's id out of the gin context.
// Empty when the route is unauthenticated.
func currentUserID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
