package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-service/internal/catalog"
	"catalog-service/internal/events"
	"catalog-service/internal/models"
	"catalog-service/internal/sku"
)

// memStore is a minimal in-memory catalog.Store for HTTP-level tests.
type memStore struct {
	categories []*models.Category
	brands     []*models.Brand
	colors     []*models.Color
	products   []*models.Product
}

func (s *memStore) Transaction(ctx context.Context, fn func(tx catalog.Store) error) error {
	return fn(s)
}

func (s *memStore) GetCategoryByTitle(ctx context.Context, title string) (*models.Category, error) {
	for _, c := range s.categories {
		if strings.EqualFold(c.Title, title) {
			return c, nil
		}
	}
	return nil, catalog.ErrNotFound
}

func (s *memStore) CreateCategory(ctx context.Context, category *models.Category) error {
	s.categories = append(s.categories, category)
	return nil
}

func (s *memStore) GetBrandByName(ctx context.Context, name string) (*models.Brand, error) {
	for _, b := range s.brands {
		if strings.EqualFold(b.Name, name) {
			return b, nil
		}
	}
	return nil, catalog.ErrNotFound
}

func (s *memStore) CreateBrand(ctx context.Context, brand *models.Brand) error {
	s.brands = append(s.brands, brand)
	return nil
}

func (s *memStore) UpdateBrand(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	for _, b := range s.brands {
		if b.ID == id {
			if name, ok := fields["name"].(string); ok {
				b.Name = name
			}
			return nil
		}
	}
	return catalog.ErrNotFound
}

func (s *memStore) GetColorByName(ctx context.Context, name string) (*models.Color, error) {
	for _, c := range s.colors {
		if strings.EqualFold(c.Color, name) {
			return c, nil
		}
	}
	return nil, catalog.ErrNotFound
}

func (s *memStore) CreateColor(ctx context.Context, color *models.Color) error {
	s.colors = append(s.colors, color)
	return nil
}

func (s *memStore) UpdateColor(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	for _, c := range s.colors {
		if c.ID == id {
			if name, ok := fields["color"].(string); ok {
				c.Color = name
			}
			return nil
		}
	}
	return catalog.ErrNotFound
}

func (s *memStore) ProductExistsByNameAndBrand(ctx context.Context, name string, brandID uuid.UUID) (bool, error) {
	for _, p := range s.products {
		if strings.EqualFold(p.Name, name) && p.BrandID == brandID {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) ProductExistsBySKUAndBrand(ctx context.Context, skuVal string, brandID uuid.UUID) (bool, error) {
	for _, p := range s.products {
		if skuVal != "" && p.SKU == skuVal && p.BrandID == brandID {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) SKUExists(ctx context.Context, skuVal string) (bool, error) {
	for _, p := range s.products {
		if p.SKU == skuVal {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) CreateProduct(ctx context.Context, product *models.Product) error {
	s.products = append(s.products, product)
	return nil
}

func (s *memStore) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	for _, p := range s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, catalog.ErrNotFound
}

func (s *memStore) UpdateProduct(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	p, err := s.GetProductByID(ctx, id)
	if err != nil {
		return err
	}
	if name, ok := fields["name"].(string); ok {
		p.Name = name
	}
	if desc, ok := fields["description"].(string); ok {
		p.Description = &desc
	}
	if review, ok := fields["review"].(string); ok {
		p.Review = &review
	}
	return nil
}

func (s *memStore) DeleteProduct(ctx context.Context, id uuid.UUID) (int64, error) {
	for i, p := range s.products {
		if p.ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (s *memStore) ListProducts(ctx context.Context, search, sortBy string) ([]models.Product, error) {
	var out []models.Product
	for _, p := range s.products {
		if search == "" || strings.Contains(strings.ToLower(p.Name), strings.ToLower(search)) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *memStore) PurgeCatalog(ctx context.Context) (*models.PurgeResult, error) {
	result := &models.PurgeResult{
		ProductsDeleted:   int64(len(s.products)),
		CategoriesDeleted: int64(len(s.categories)),
		BrandsDeleted:     int64(len(s.brands)),
		ColorsDeleted:     int64(len(s.colors)),
	}
	s.products, s.categories, s.brands, s.colors = nil, nil, nil, nil
	return result, nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *memStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	store := &memStore{}
	svc, err := catalog.NewService(catalog.Deps{Store: store, SKUGen: sku.New(), Logger: logger})
	require.NoError(t, err)

	publisher, err := events.NewPublisher("", logger)
	require.NoError(t, err)

	handler := NewCatalogHandler(svc, publisher, logger)

	router := gin.New()
	lists := router.Group("/lists")
	{
		lists.GET("/", handler.ListProducts)
		lists.POST("/", handler.CreateProduct)
		lists.DELETE("/", handler.PurgeCatalog)
		lists.GET("/:id/", handler.GetProduct)
		lists.PUT("/:id/", handler.UpdateProduct)
		lists.DELETE("/:id/", handler.DeleteProduct)
	}
	return router, store
}

func doJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func createBody(category, brand, name, color string) models.CreateProductRequest {
	return models.CreateProductRequest{
		Category: models.CategoryInput{Title: category},
		Brand:    models.BrandInput{Name: brand},
		Product:  models.ProductInput{Name: name, Color: color},
	}
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestCreateProductEndpoint(t *testing.T) {
	router, store := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/lists/", createBody("Lighting", "Lumina", "Desk Lamp", "Matte Black"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp models.CreateProductResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "New brand created.", resp.BrandMessage)
	assert.Equal(t, "Lumina", resp.ProductData.BrandName)
	assert.Regexp(t, `^Desk-Lamp-Matte-Black-\d{4}$`, resp.ProductData.SKU)
	assert.Len(t, store.products, 1)
}

func TestCreateProductEndpointMalformedBody(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/lists/", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeError(t, w).Error.Code)
}

func TestCreateProductEndpointDuplicate(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/lists/", createBody("Lighting", "Lumina", "Desk Lamp", "Matte Black"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(router, http.MethodPost, "/lists/", createBody("Lighting", "Lumina", "Desk Lamp", "White"))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "DUPLICATE_PRODUCT", decodeError(t, w).Error.Code)
}

func TestCreateProductEndpointMissingField(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/lists/", createBody("Lighting", "", "Desk Lamp", "White"))
	require.Equal(t, http.StatusBadRequest, w.Code)

	resp := decodeError(t, w)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Equal(t, "brand.name", resp.Error.Field)
}

func TestListProductsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	doJSON(router, http.MethodPost, "/lists/", createBody("Lighting", "Lumina", "Desk Lamp", "Matte Black"))
	doJSON(router, http.MethodPost, "/lists/", createBody("Kitchen", "Brewline", "Mug", "Red"))

	w := doJSON(router, http.MethodGet, "/lists/", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.ProductListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 2)

	w = doJSON(router, http.MethodGet, "/lists/?search=mug", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 1)
}

func TestListProductsEndpointInvalidSortField(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, http.MethodGet, "/lists/?sort_by=price", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	resp := decodeError(t, w)
	assert.Equal(t, "INVALID_SORT_FIELD", resp.Error.Code)
	assert.Equal(t, "sort_by", resp.Error.Field)
}

func TestUpdateProductEndpointNotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	name := "Renamed"
	body := models.UpdateProductRequest{Product: models.ProductUpdate{Name: &name}}
	w := doJSON(router, http.MethodPut, fmt.Sprintf("/lists/%s/", uuid.New()), body)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", decodeError(t, w).Error.Code)
}

func TestUpdateProductEndpointInvalidID(t *testing.T) {
	router, _ := newTestRouter(t)

	name := "Renamed"
	body := models.UpdateProductRequest{Product: models.ProductUpdate{Name: &name}}
	w := doJSON(router, http.MethodPut, "/lists/not-a-uuid/", body)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeError(t, w).Error.Code)
}

func TestUpdateProductEndpoint(t *testing.T) {
	router, store := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/lists/", createBody("Lighting", "Lumina", "Desk Lamp", "Matte Black"))
	require.Equal(t, http.StatusCreated, w.Code)
	var created models.CreateProductResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	name := "Desk Lamp v2"
	brandName := "Lumina Home"
	body := models.UpdateProductRequest{Product: models.ProductUpdate{
		Name:  &name,
		Brand: &models.BrandUpdate{Name: &brandName},
	}}
	w = doJSON(router, http.MethodPut, fmt.Sprintf("/lists/%s/", created.ProductData.ID), body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, "Desk Lamp v2", store.products[0].Name)
	assert.Equal(t, "Lumina Home", store.brands[0].Name)
}

func TestDeleteProductEndpoint(t *testing.T) {
	router, store := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/lists/", createBody("Lighting", "Lumina", "Desk Lamp", "Matte Black"))
	require.Equal(t, http.StatusCreated, w.Code)
	var created models.CreateProductResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(router, http.MethodDelete, fmt.Sprintf("/lists/%s/", created.ProductData.ID), nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Zero(t, w.Body.Len())
	assert.Empty(t, store.products)

	w = doJSON(router, http.MethodDelete, fmt.Sprintf("/lists/%s/", created.ProductData.ID), nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", decodeError(t, w).Error.Code)
}

func TestPurgeCatalogEndpoint(t *testing.T) {
	router, store := newTestRouter(t)

	doJSON(router, http.MethodPost, "/lists/", createBody("Lighting", "Lumina", "Desk Lamp", "Matte Black"))
	doJSON(router, http.MethodPost, "/lists/", createBody("Kitchen", "Brewline", "Mug", "Red"))

	w := doJSON(router, http.MethodDelete, "/lists/", nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Zero(t, w.Body.Len())

	assert.Empty(t, store.products)
	assert.Empty(t, store.categories)
	assert.Empty(t, store.brands)
	assert.Empty(t, store.colors)
}
