package http

import (
	"context"
	"errors"
	"net/http"

	"product-catalogue/internal/products"

	"github.com/gin-gonic/gin"
)

type ProductService interface {
	CreateProduct(ctx context.Context, params products.ProductParams) (products.Product, error)
	GetProduct(ctx context.Context, sku string) (products.Product, error)
	UpdateProduct(ctx context.Context, sku string, params products.ProductParams, expectedVersion *int) (products.Product, error)
	DeleteProduct(ctx context.Context, sku string) error
}

type Handler struct {
	service ProductService
}

func NewHandler(svc ProductService) *Handler {
	return &Handler{service: svc}
}

type priceRequest struct {
	Value           float64 `json:"value" example:"10"`
	DiscountPercent float64 `json:"discount_percent" example:"0"`
}

type inventoryRequest struct {
	Quantity int `json:"quantity" example:"10"`
	Reserved int `json:"reserved" example:"0"`
}

type categoryRequest struct {
	Name string `json:"name" example:"electronics"`
}

type createProductRequest struct {
	SKU         string            `json:"sku" example:"00056789"`
	Name        string            `json:"name" example:"ear phones"`
	Description string            `json:"description" example:"something to put on your ears"`
	ImageURL    string            `json:"image_url" example:"http://example.com"`
	Price       *priceRequest     `json:"price"`
	Inventory   *inventoryRequest `json:"inventory"`
	Category    *categoryRequest  `json:"category"`
}

type updateProductRequest struct {
	Name        string            `json:"name" example:"ear phones"`
	Description string            `json:"description" example:"something to put on your ears"`
	ImageURL    string            `json:"image_url" example:"http://example.com"`
	Price       *priceRequest     `json:"price"`
	Inventory   *inventoryRequest `json:"inventory"`
	Category    *categoryRequest  `json:"category"`
	// Version pins the version the client read. Omit it to update whatever is current.
	Version *int `json:"version,omitempty" example:"0"`
}

type errorResponse struct {
	Error string `json:"error" example:"product not found"`
}

func toParams(sku, name, description, imageURL string, price *priceRequest, inventory *inventoryRequest, category *categoryRequest) products.ProductParams {
	params := products.ProductParams{
		SKU:         sku,
		Name:        name,
		Description: description,
		ImageURL:    imageURL,
	}
	if price != nil {
		params.Price = &products.Price{Value: price.Value, DiscountPercent: price.DiscountPercent}
	}
	if inventory != nil {
		params.Inventory = &products.Inventory{Quantity: inventory.Quantity, Reserved: inventory.Reserved}
	}
	if category != nil {
		params.Category = &products.Category{Name: category.Name}
	}
	return params
}

// CreateProduct godoc
// @Summary      Create a new product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        body  body      createProductRequest  true  "Product data"
// @Success      201   {object}  products.Product
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /products [post]
func (h *Handler) CreateProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	params := toParams(req.SKU, req.Name, req.Description, req.ImageURL, req.Price, req.Inventory, req.Category)
	product, err := h.service.CreateProduct(c.Request.Context(), params)
	if err != nil {
		writeError(c, err, "failed to create product")
		return
	}

	c.JSON(http.StatusCreated, product)
}

// GetProduct godoc
// @Summary      Get a product by sku
// @Tags         products
// @Produce      json
// @Param        sku  path      string  true  "Product sku"
// @Success      200  {object}  products.Product
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /products/{sku} [get]
func (h *Handler) GetProduct(c *gin.Context) {
	product, err := h.service.GetProduct(c.Request.Context(), c.Param("sku"))
	if err != nil {
		writeError(c, err, "failed to get product")
		return
	}

	c.JSON(http.StatusOK, product)
}

// UpdateProduct godoc
// @Summary      Replace a product
// @Description  Every field is replaced. Send the version you read to fail with 409 when someone else updated first.
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        sku   path      string                true  "Product sku"
// @Param        body  body      updateProductRequest  true  "Product data"
// @Success      200   {object}  products.Product
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /products/{sku} [put]
func (h *Handler) UpdateProduct(c *gin.Context) {
	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	sku := c.Param("sku")
	params := toParams(sku, req.Name, req.Description, req.ImageURL, req.Price, req.Inventory, req.Category)
	product, err := h.service.UpdateProduct(c.Request.Context(), sku, params, req.Version)
	if err != nil {
		writeError(c, err, "failed to update product")
		return
	}

	c.JSON(http.StatusOK, product)
}

// DeleteProduct godoc
// @Summary      Delete a product by sku
// @Tags         products
// @Produce      json
// @Param        sku  path      string  true  "Product sku"
// @Success      204
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /products/{sku} [delete]
func (h *Handler) DeleteProduct(c *gin.Context) {
	if err := h.service.DeleteProduct(c.Request.Context(), c.Param("sku")); err != nil {
		writeError(c, err, "failed to delete product")
		return
	}

	c.Status(http.StatusNoContent)
}

func statusFor(err error) int {
	switch {
	case products.IsValidation(err):
		return http.StatusBadRequest
	case products.IsConflict(err):
		return http.StatusConflict
	case errors.Is(err, products.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeError hides infrastructure causes behind the generic message.
func writeError(c *gin.Context, err error, generic string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		c.JSON(status, errorResponse{Error: generic})
		return
	}
	c.JSON(status, errorResponse{Error: err.Error()})
}
