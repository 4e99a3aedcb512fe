package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-service/internal/catalog"
	"catalog-service/internal/sku"
)

func newExportRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	store := &memStore{}
	svc, err := catalog.NewService(catalog.Deps{Store: store, SKUGen: sku.New(), Logger: logger})
	require.NoError(t, err)

	catalogHandler := NewCatalogHandler(svc, nil, logger)
	exportHandler := NewExportHandler(svc, logger)

	router := gin.New()
	router.POST("/lists/", catalogHandler.CreateProduct)
	router.GET("/lists/export", exportHandler.ExportProducts)
	return router
}

func TestExportProductsCSV(t *testing.T) {
	router := newExportRouter(t)

	w := doJSON(router, http.MethodPost, "/lists/", createBody("Lighting", "Lumina", "Desk Lamp", "Matte Black"))
	require.Equal(t, http.StatusCreated, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/lists/export?format=csv", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "SKU")
	assert.Contains(t, lines[1], "Desk Lamp")
}

func TestExportProductsXLSX(t *testing.T) {
	router := newExportRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/lists/export?format=xlsx", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")
	assert.NotZero(t, w.Body.Len())
}

func TestExportProductsUnknownFormat(t *testing.T) {
	router := newExportRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/lists/export?format=pdf", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeError(t, w).Error.Code)
}
