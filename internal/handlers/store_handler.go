package handlers

import (
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"catalog-service/internal/catalog"
	"catalog-service/internal/models"
	"catalog-service/internal/repository"
)

type StoreHandler struct {
	repo   *repository.StoreRepository
	logger *logrus.Entry
}

func NewStoreHandler(repo *repository.StoreRepository, logger *logrus.Logger) *StoreHandler {
	return &StoreHandler{
		repo:   repo,
		logger: logger.WithField("handler", "stores"),
	}
}

// @Summary Create store
// @Description Create a store depot, resolving or creating its country by dialing code
// @Tags Stores
// @Accept json
// @Produce json
// @Param request body models.CreateStoreRequest true "Store data"
// @Success 201 {object} models.StoreResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /stores/ [post]
func (h *StoreHandler) CreateStore(c *gin.Context) {
	var req models.CreateStoreRequest
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

	name := strings.TrimSpace(req.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "VALIDATION_ERROR",
				Message: "name is required",
				Field:   "name",
			},
		})
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "VALIDATION_ERROR",
				Message: "a valid email is required",
				Field:   "email",
			},
		})
		return
	}
	if strings.TrimSpace(req.Country.Code) == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "VALIDATION_ERROR",
				Message: "country code is required",
				Field:   "country.code",
			},
		})
		return
	}

	country, _, err := h.repo.GetOrCreateCountryByCode(c.Request.Context(), strings.TrimSpace(req.Country.Name), strings.TrimSpace(req.Country.Code))
	if err != nil {
		h.logger.WithError(err).Error("Failed to resolve country")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INTERNAL_ERROR",
				Message: "Failed to resolve country",
			},
		})
		return
	}

	store := &models.Store{
		ID:          uuid.New(),
		Name:        name,
		Address:     req.Address,
		Email:       req.Email,
		CountryID:   country.ID,
		Phone:       req.Phone,
		OpeningTime: req.OpeningTime,
		ClosingTime: req.ClosingTime,
	}
	if err := h.repo.CreateStore(c.Request.Context(), store); err != nil {
		if errors.Is(err, catalog.ErrConflict) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Success: false,
				Error: models.Error{
					Code:    "DUPLICATE_STORE",
					Message: "A store with that email already exists",
					Field:   "email",
				},
			})
			return
		}
		h.logger.WithError(err).Error("Failed to create store")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INTERNAL_ERROR",
				Message: "Failed to create store",
			},
		})
		return
	}
	store.Country = country

	c.JSON(http.StatusCreated, models.StoreResponse{
		Success: true,
		Data:    store,
	})
}

// @Summary List stores
// @Tags Stores
// @Produce json
// @Success 200 {object} models.StoreListResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /stores/ [get]
func (h *StoreHandler) ListStores(c *gin.Context) {
	stores, err := h.repo.GetStores(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list stores")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INTERNAL_ERROR",
				Message: "Failed to list stores",
			},
		})
		return
	}
	if stores == nil {
		stores = []models.Store{}
	}
	c.JSON(http.StatusOK, models.StoreListResponse{Data: stores})
}

// @Summary Get store
// @Tags Stores
// @Produce json
// @Param id path string true "Store ID"
// @Success 200 {object} models.StoreResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /stores/{id}/ [get]
func (h *StoreHandler) GetStore(c *gin.Context) {
	storeID, ok := h.parseID(c)
	if !ok {
		return
	}

	store, err := h.repo.GetStoreByID(c.Request.Context(), storeID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			h.respondNotFound(c, "Store not found")
			return
		}
		h.logger.WithError(err).Error("Failed to get store")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INTERNAL_ERROR",
				Message: "Failed to get store",
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.StoreResponse{Success: true, Data: store})
}

// @Summary Delete store
// @Description Delete a store and its inventory records
// @Tags Stores
// @Produce json
// @Param id path string true "Store ID"
// @Success 200 {object} models.SuccessResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /stores/{id}/ [delete]
func (h *StoreHandler) DeleteStore(c *gin.Context) {
	storeID, ok := h.parseID(c)
	if !ok {
		return
	}

	rows, err := h.repo.DeleteStore(c.Request.Context(), storeID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to delete store")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INTERNAL_ERROR",
				Message: "Failed to delete store",
			},
		})
		return
	}
	if rows == 0 {
		h.respondNotFound(c, "Store not found")
		return
	}

	message := "Store deleted successfully."
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Message: &message})
}

// @Summary Upsert inventory
// @Description Set the quantity and availability of a product at a store. Availability is independent of quantity.
// @Tags Inventory
// @Accept json
// @Produce json
// @Param id path string true "Store ID"
// @Param productId path string true "Product ID"
// @Param request body models.UpsertInventoryRequest true "Inventory data"
// @Success 200 {object} models.SuccessResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /stores/{id}/inventory/{productId}/ [put]
func (h *StoreHandler) UpsertInventory(c *gin.Context) {
	storeID, ok := h.parseID(c)
	if !ok {
		return
	}
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "VALIDATION_ERROR",
				Message: "Invalid product ID format",
				Field:   "productId",
			},
		})
		return
	}

	var req models.UpsertInventoryRequest
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
	if *req.Quantity < 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "VALIDATION_ERROR",
				Message: "quantity must not be negative",
				Field:   "quantity",
			},
		})
		return
	}

	record := &models.InventoryRecord{
		ProductID:   productID,
		StoreID:     storeID,
		Quantity:    *req.Quantity,
		IsAvailable: true,
	}
	if req.IsAvailable != nil {
		record.IsAvailable = *req.IsAvailable
	}

	if err := h.repo.UpsertInventory(c.Request.Context(), record); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			h.respondNotFound(c, "Store or product not found")
			return
		}
		h.logger.WithError(err).Error("Failed to upsert inventory")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INTERNAL_ERROR",
				Message: "Failed to update inventory",
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Data: record})
}

// @Summary List store inventory
// @Tags Inventory
// @Produce json
// @Param id path string true "Store ID"
// @Success 200 {object} models.InventoryListResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /stores/{id}/inventory/ [get]
func (h *StoreHandler) ListInventory(c *gin.Context) {
	storeID, ok := h.parseID(c)
	if !ok {
		return
	}

	records, err := h.repo.GetInventoryByStore(c.Request.Context(), storeID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			h.respondNotFound(c, "Store not found")
			return
		}
		h.logger.WithError(err).Error("Failed to list inventory")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INTERNAL_ERROR",
				Message: "Failed to list inventory",
			},
		})
		return
	}
	if records == nil {
		records = []models.InventoryRecord{}
	}

	c.JSON(http.StatusOK, models.InventoryListResponse{Data: records})
}

func (h *StoreHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "VALIDATION_ERROR",
				Message: "Invalid store ID format",
				Field:   "id",
			},
		})
		return uuid.Nil, false
	}
	return id, true
}

func (h *StoreHandler) respondNotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, models.ErrorResponse{
		Success: false,
		Error: models.Error{
			Code:    "NOT_FOUND",
			Message: message,
		},
	})
}
