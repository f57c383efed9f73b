package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ecocycle/backend/repository"
)

type ProductController struct {
	catalog repository.CatalogReader
	log     *zap.Logger
}

func NewProductController(catalog repository.CatalogReader, log *zap.Logger) *ProductController {
	return &ProductController{catalog: catalog, log: log}
}

// GetProduct returns a single catalog record.
func (pc *ProductController) GetProduct(c *gin.Context) {
	product, err := pc.catalog.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// ListProducts returns a page of the catalog, optionally filtered by name.
func (pc *ProductController) ListProducts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if limit < 1 {
		limit = 20
	}
	if page < 1 {
		page = 1
	}

	products, err := pc.catalog.Find(c.Request.Context(), repository.ProductFilter{
		Name:  c.Query("name"),
		Limit: limit,
		Skip:  (page - 1) * limit,
	})
	if err != nil {
		pc.log.Error("failed to list products", zap.Error(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products, "page": page, "limit": limit})
}
