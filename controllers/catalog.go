package controllers

import (
	"net/http"

	"beautyconsult-backend/catalog"

	"github.com/gin-gonic/gin"
)

type CatalogController struct {
	catalog *catalog.Catalog
}

func NewCatalogController(c *catalog.Catalog) *CatalogController {
	return &CatalogController{catalog: c}
}

// GetCatalog returns every category with its items and products
func (cc *CatalogController) GetCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": cc.catalog.Entries()})
}

// GetOptions returns the selector choices for a category and item
func (cc *CatalogController) GetOptions(c *gin.Context) {
	sel := catalog.NewSelection()
	sel.Category = c.Query("category")
	sel.Item = c.Query("item")
	c.JSON(http.StatusOK, cc.catalog.OptionsFor(sel))
}
