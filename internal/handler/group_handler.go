package handler

import (
	"net/http"
	"strings"

	"joyeria/internal/middleware"
	"joyeria/internal/service"
	"joyeria/pkg/pagination"
	"joyeria/pkg/response"

	"github.com/gin-gonic/gin"
)

type GroupHandler struct {
	groupService service.GroupService
}

func NewGroupHandler(groupService service.GroupService) *GroupHandler {
	return &GroupHandler{groupService: groupService}
}

func (h *GroupHandler) RegisterRoutes(router *gin.RouterGroup) {
	groups := router.Group("/groups")
	groups.Use(middleware.RequireRole("admin", "manager"))
	{
		groups.GET("", h.ListGroups)
		groups.POST("", h.CreateGroup)
		groups.GET("/:id/variables", h.GetVariables)
		groups.PUT("/:id/variables", h.SubmitVariables)
	}
}

// CreateGroup registers a new pricing group with its calculation method
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	var req service.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	group, err := h.groupService.CreateGroup(c.Request.Context(), req, currentUserID(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, group))
}

// ListGroups returns pricing groups ordered by name
func (h *GroupHandler) ListGroups(c *gin.Context) {
	p := pagination.Parse(c)

	groups, total, err := h.groupService.ListGroups(c.Request.Context(), p.Page, p.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"groups": groups,
		"total":  total,
		"page":   p.Page,
		"limit":  p.Limit,
	}))
}

// GetVariables returns the group's cost record, seeding defaults on first read
func (h *GroupHandler) GetVariables(c *gin.Context) {
	vars, err := h.groupService.GetVariables(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusForLookup(err), response.Error(statusForLookup(err), err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, vars))
}

// SubmitVariables accepts a cost record edit. The write is debounced: the
// response acknowledges the edit, the row lands after the quiet window.
func (h *GroupHandler) SubmitVariables(c *gin.Context) {
	var req service.GroupVariablesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	vars, err := h.groupService.SubmitVariables(c.Request.Context(), c.Param("id"), req, currentUserID(c))
	if err != nil {
		c.JSON(statusForLookup(err), response.Error(statusForLookup(err), err.Error()))
		return
	}

	c.JSON(http.StatusAccepted, response.Success(http.StatusAccepted, vars))
}

// statusForLookup distinguishes missing records from bad input in service
// errors that fold both into one return path.
func statusForLookup(err error) int {
	if strings.Contains(err.Error(), "not found") {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}
