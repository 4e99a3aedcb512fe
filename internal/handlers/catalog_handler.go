package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"catalog-service/internal/catalog"
	"catalog-service/internal/events"
	"catalog-service/internal/models"
	"catalog-service/internal/sku"
)

type CatalogHandler struct {
	service         *catalog.Service
	eventsPublisher *events.Publisher
	logger          *logrus.Entry
}

func NewCatalogHandler(service *catalog.Service, eventsPublisher *events.Publisher, logger *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{
		service:         service,
		eventsPublisher: eventsPublisher,
		logger:          logger.WithField("handler", "catalog"),
	}
}

// respondWithDomainError maps workflow errors onto the HTTP error envelope.
func (h *CatalogHandler) respondWithDomainError(c *gin.Context, err error) {
	var validationErr *catalog.ValidationError
	var duplicateErr *catalog.DuplicateError
	var sortErr *catalog.InvalidSortFieldError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "VALIDATION_ERROR",
				Message: validationErr.Message,
				Field:   validationErr.Field,
			},
		})
	case errors.As(err, &duplicateErr):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "DUPLICATE_PRODUCT",
				Message: duplicateErr.Message,
			},
		})
	case errors.As(err, &sortErr):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INVALID_SORT_FIELD",
				Message: sortErr.Error(),
				Field:   "sort_by",
			},
		})
	case errors.Is(err, catalog.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "NOT_FOUND",
				Message: "Product not found",
			},
		})
	case errors.Is(err, sku.ErrExhausted):
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "SKU_GENERATION_EXHAUSTED",
				Message: "Could not generate a unique SKU",
			},
		})
	default:
		h.logger.WithError(err).Error("Unhandled catalog error")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INTERNAL_ERROR",
				Message: "An internal error occurred",
			},
		})
	}
}

// @Summary List products
// @Description Get products filtered by a case-insensitive substring match on product or brand name
// @Tags Products
// @Produce json
// @Param search query string false "Substring matched against product name or brand name"
// @Param sort_by query string false "Sort field (name, sku_number, description, review, created_at, updated_at)"
// @Success 200 {object} models.ProductListResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /lists/ [get]
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	search := c.Query("search")
	sortBy := c.Query("sort_by")

	products, err := h.service.ListProducts(c.Request.Context(), search, sortBy)
	if err != nil {
		h.respondWithDomainError(c, err)
		return
	}
	if products == nil {
		products = []models.Product{}
	}

	c.JSON(http.StatusOK, models.ProductListResponse{Data: products})
}

// @Summary Create product
// @Description Create a product, resolving or creating its category, brand and color, and generating a unique SKU
// @Tags Products
// @Accept json
// @Produce json
// @Param request body models.CreateProductRequest true "Product data"
// @Success 201 {object} models.CreateProductResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /lists/ [post]
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "VALIDATION_ERROR",
				Message: err.Error(),
			},
		})
		return
	}

	resp, err := h.service.CreateProduct(c.Request.Context(), req)
	if err != nil {
		h.respondWithDomainError(c, err)
		return
	}

	h.eventsPublisher.PublishProductCreated(resp.ProductData)
	c.JSON(http.StatusCreated, resp)
}

// @Summary Update product
// @Description Partially update a product; nested brand/color payloads mutate the shared brand/color entities in place
// @Tags Products
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param request body models.UpdateProductRequest true "Fields to update"
// @Success 200 {object} models.SuccessResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /lists/{id}/ [put]
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "VALIDATION_ERROR",
				Message: "Invalid product ID format",
				Field:   "id",
			},
		})
		return
	}

	var req models.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "VALIDATION_ERROR",
				Message: err.Error(),
			},
		})
		return
	}

	product, err := h.service.UpdateProduct(c.Request.Context(), productID, req.Product)
	if err != nil {
		h.respondWithDomainError(c, err)
		return
	}

	h.eventsPublisher.PublishProductUpdated(product)
	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    product,
	})
}

// @Summary Get product
// @Description Get a product by ID with its category, brand and color
// @Tags Products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} models.SuccessResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /lists/{id}/ [get]
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "VALIDATION_ERROR",
				Message: "Invalid product ID format",
				Field:   "id",
			},
		})
		return
	}

	product, err := h.service.GetProduct(c.Request.Context(), productID)
	if err != nil {
		h.respondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    product,
	})
}

// @Summary Delete product
// @Description Delete a single product by ID
// @Tags Products
// @Param id path string true "Product ID"
// @Success 204 "No Content"
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /lists/{id}/ [delete]
func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "VALIDATION_ERROR",
				Message: "Invalid product ID format",
				Field:   "id",
			},
		})
		return
	}

	if err := h.service.DeleteProduct(c.Request.Context(), productID); err != nil {
		h.respondWithDomainError(c, err)
		return
	}

	h.eventsPublisher.PublishProductDeleted(productID)
	c.Status(http.StatusNoContent)
}

// @Summary Purge catalog
// @Description Delete every product along with all categories, brands and colors
// @Tags Products
// @Success 204 "No Content"
// @Failure 500 {object} models.ErrorResponse
// @Router /lists/ [delete]
func (h *CatalogHandler) PurgeCatalog(c *gin.Context) {
	result, err := h.service.PurgeCatalog(c.Request.Context())
	if err != nil {
		h.respondWithDomainError(c, err)
		return
	}

	h.eventsPublisher.PublishCatalogPurged(result)
	c.Status(http.StatusNoContent)
}
