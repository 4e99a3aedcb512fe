package handlers

import (
	"encoding/csv"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"catalog-service/internal/catalog"
	"catalog-service/internal/models"
)

var exportColumns = []string{"ID", "Name", "SKU", "Brand", "Category", "Color", "Description", "Review", "Created At"}

// ExportHandler streams the product catalog as a CSV or XLSX download.
type ExportHandler struct {
	service *catalog.Service
	logger  *logrus.Entry
}

func NewExportHandler(service *catalog.Service, logger *logrus.Logger) *ExportHandler {
	return &ExportHandler{
		service: service,
		logger:  logger.WithField("handler", "export"),
	}
}

// @Summary Export products
// @Description Download the full product list as CSV or XLSX
// @Tags Products
// @Produce octet-stream
// @Param format query string false "Export format: csv or xlsx" default(csv)
// @Param search query string false "Substring matched against product name or brand name"
// @Success 200 {file} file
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /lists/export [get]
func (h *ExportHandler) ExportProducts(c *gin.Context) {
	products, err := h.service.ListProducts(c.Request.Context(), c.Query("search"), "name")
	if err != nil {
		h.logger.WithError(err).Error("Failed to load products for export")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INTERNAL_ERROR",
				Message: "Failed to export products",
			},
		})
		return
	}

	switch c.DefaultQuery("format", "csv") {
	case "csv":
		h.writeCSV(c, products)
	case "xlsx":
		h.writeXLSX(c, products)
	default:
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "VALIDATION_ERROR",
				Message: "format must be csv or xlsx",
				Field:   "format",
			},
		})
	}
}

func (h *ExportHandler) writeCSV(c *gin.Context, products []models.Product) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename=products_export.csv")

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write(exportColumns)
	for _, p := range products {
		writer.Write(exportRow(p))
	}
}

func (h *ExportHandler) writeXLSX(c *gin.Context, products []models.Product) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Products"
	f.SetSheetName("Sheet1", sheetName)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	for i, col := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, col)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)

		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 20)
	}

	for rowIdx, p := range products {
		for colIdx, value := range exportRow(p) {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=products_export.xlsx")

	if err := f.Write(c.Writer); err != nil {
		h.logger.WithError(err).Error("Failed to write XLSX export")
	}
}

func exportRow(p models.Product) []string {
	brandName := ""
	if p.Brand != nil {
		brandName = p.Brand.Name
	}
	categoryTitle := ""
	if p.Category != nil {
		categoryTitle = p.Category.Title
	}
	colorName := ""
	if p.Color != nil {
		colorName = p.Color.Color
	}
	description := ""
	if p.Description != nil {
		description = *p.Description
	}
	review := ""
	if p.Review != nil {
		review = *p.Review
	}

	return []string{
		p.ID.String(),
		p.Name,
		p.SKU,
		brandName,
		categoryTitle,
		colorName,
		description,
		review,
		p.CreatedAt.Format(time.RFC3339),
	}
}
