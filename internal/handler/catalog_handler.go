package handler

import (
	"net/http"

	"joyeria/internal/middleware"
	"joyeria/internal/service"
	"joyeria/pkg/pagination"
	"joyeria/pkg/response"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	catalogService service.CatalogService
}

func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	products := router.Group("/products")
	products.Use(middleware.RequireRole("admin", "manager", "staff"))
	{
		products.GET("", h.ListProducts)
		products.GET("/:id", h.GetProduct)
		products.GET("/:id/prices", h.VariantPrices)
		products.POST("", middleware.RequireRole("admin", "manager"), h.CreateProduct)
		products.DELETE("/:id", middleware.RequireRole("admin"), h.DeleteProduct)
		products.POST("/apply-price", middleware.RequireRole("admin", "manager"), h.ApplyFinalPrice)
	}
}

// CreateProduct registers a product with its size variants
// @Summary      Create product
// @Description  Creates a product and its variants atomically; the product is bound to a pricing group
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateProductRequest  true  "Create Product Payload"
// @Success      201      {object}  response.Response{data=service.ProductResponse}
// @Failure      400      {object}  response.Response
// @Router       /products [post]
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req service.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	product, err := h.catalogService.CreateProduct(c.Request.Context(), req, currentUserID(c))
	if err != nil {
		c.JSON(statusForLookup(err), response.Error(statusForLookup(err), err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, product))
}

// ListProducts returns a paginated product list with optional name/SKU search
// @Summary      List products
// @Description  Retrieves a paginated product list; search matches name and SKU
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Number of items per page (default 20)"
// @Param        search  query     string  false  "Name or SKU fragment"
// @Success      200     {object}  response.Response{data=object}
// @Failure      500     {object}  response.Response
// @Router       /products [get]
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	p := pagination.Parse(c)
	search := c.Query("search")

	products, total, err := h.catalogService.ListProducts(c.Request.Context(), p.Page, p.Limit, search)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"products": products,
		"total":    total,
		"page":     p.Page,
		"limit":    p.Limit,
	}))
}

// GetProduct fetches one product with its variants
// @Summary      Get product by ID
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  response.Response{data=service.ProductResponse}
// @Failure      404  {object}  response.Response
// @Router       /products/{id} [get]
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	product, err := h.catalogService.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusForLookup(err), response.Error(statusForLookup(err), err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, product))
}

// DeleteProduct soft deletes a product
// @Summary      Delete product
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /products/{id} [delete]
func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	if err := h.catalogService.DeleteProduct(c.Request.Context(), c.Param("id"), currentUserID(c)); err != nil {
		c.JSON(statusForLookup(err), response.Error(statusForLookup(err), err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Product deleted successfully"))
}

// VariantPrices projects current display prices for every variant
// @Summary      Get variant prices
// @Description  Computes display prices for all variants of a product without persisting anything
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  response.Response{data=[]service.VariantPriceResponse}
// @Failure      404  {object}  response.Response
// @Router       /products/{id}/prices [get]
func (h *CatalogHandler) VariantPrices(c *gin.Context) {
	prices, err := h.catalogService.VariantPrices(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusForLookup(err), response.Error(statusForLookup(err), err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, prices))
}

// ApplyFinalPrice persists an admin-confirmed price across selected variants
// @Summary      Apply final price
// @Description  Writes the confirmed price to each selected variant; partial failures are reported per variant, not as a batch abort
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.ApplyPriceRequest  true  "Apply Price Payload"
// @Success      200      {object}  response.Response{data=service.ApplyResult}
// @Success      207      {object}  response.Response{data=service.ApplyResult}
// @Failure      400      {object}  response.Response
// @Router       /products/apply-price [post]
func (h *CatalogHandler) ApplyFinalPrice(c *gin.Context) {
	var req service.ApplyPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.catalogService.ApplyFinalPrice(c.Request.Context(), req, currentUserID(c))
	if err != nil {
		c.JSON(statusForLookup(err), response.Error(statusForLookup(err), err.Error()))
		return
	}

	if len(result.Failed) > 0 {
		c.JSON(http.StatusMultiStatus, response.Partial(http.StatusMultiStatus, result))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}
