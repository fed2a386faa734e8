package http

import (
	"context"
	"errors"
	"net/http"

	"product-catalogue/internal/products"
	"product-catalogue/internal/search"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type SearchService interface {
	FindBySku(ctx context.Context, sku string) (products.Product, error)
	FindByParams(ctx context.Context, params search.Params) ([]products.Product, error)
}

type HealthChecker interface {
	Health() error
}

type Handler struct {
	service SearchService
}

func NewHandler(svc SearchService) *Handler {
	return &Handler{service: svc}
}

type errorResponse struct {
	Error string `json:"error" example:"product not found"`
}

type listProductsResponse struct {
	Items []products.Product `json:"items"`
}

// GetProduct godoc
// @Summary      Find a product by sku
// @Tags         search
// @Produce      json
// @Param        sku  path      string  true  "Product sku"
// @Success      200  {object}  products.Product
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /products/{sku} [get]
func (h *Handler) GetProduct(c *gin.Context) {
	product, err := h.service.FindBySku(c.Request.Context(), c.Param("sku"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// SearchProducts godoc
// @Summary      Search products
// @Description  sku matches exactly, name and description match case-insensitive substrings. Omitted filters match everything.
// @Tags         search
// @Produce      json
// @Param        sku          query     string  false  "Exact sku"
// @Param        name         query     string  false  "Name contains"
// @Param        description  query     string  false  "Description contains"
// @Success      200  {object}  listProductsResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /products [get]
func (h *Handler) SearchProducts(c *gin.Context) {
	params := search.Params{
		SKU:         c.Query("sku"),
		Name:        c.Query("name"),
		Description: c.Query("description"),
	}

	found, err := h.service.FindByParams(c.Request.Context(), params)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, listProductsResponse{Items: found})
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, products.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
	case products.IsValidation(err):
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to search products"})
	}
}

func RegisterRoutes(router *gin.Engine, handler *Handler, checker HealthChecker) {
	router.GET("/products", handler.SearchProducts)
	router.GET("/products/:sku", handler.GetProduct)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/healthz", func(c *gin.Context) {
		if err := checker.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.InstanceName("search")))
}
