package controllers

import (
	"net/http"

	"beautyconsult-backend/catalog"
	"beautyconsult-backend/ledger"
	"beautyconsult-backend/utils"

	"github.com/gin-gonic/gin"
)

type MoveRowInput struct {
	From *int `json:"from" binding:"required,min=0"`
	To   *int `json:"to" binding:"required,min=0"`
}

type PickProductsInput struct {
	Indices []int `json:"indices" binding:"required,min=1"`
}

// AddRow appends the draft line to the ledger
func (ic *IntakeController) AddRow(c *gin.Context) {
	f := ic.form(c)
	row, err := f.Add()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"row": row, "summary": f.Summary()})
}

// ListRows returns the filtered and sorted view with the ledger summary
func (ic *IntakeController) ListRows(c *gin.Context) {
	f := ic.form(c)
	rows, err := f.View()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": rows, "summary": f.Summary()})
}

// UpdateRow merges a patch into one row and recomputes its totals
func (ic *IntakeController) UpdateRow(c *gin.Context) {
	var patch ledger.RowPatch
	if !utils.BindAndValidate(c, &patch) {
		return
	}
	f := ic.form(c)
	row, err := f.EditRow(c.Param("key"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"row": row, "summary": f.Summary()})
}

// DeleteRow removes a row. Deleting an unknown key is not an error.
func (ic *IntakeController) DeleteRow(c *gin.Context) {
	f := ic.form(c)
	deleted := f.DeleteRow(c.Param("key"))
	c.JSON(http.StatusOK, gin.H{"deleted": deleted, "summary": f.Summary()})
}

// MoveRow swaps two rows addressed by their positions in the current view
func (ic *IntakeController) MoveRow(c *gin.Context) {
	var input MoveRowInput
	if !utils.BindAndValidate(c, &input) {
		return
	}
	f := ic.form(c)
	moved, err := f.MoveRow(*input.From, *input.To)
	if err != nil {
		respondError(c, err)
		return
	}
	rows, err := f.View()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"moved": moved, "rows": rows})
}

// SetView replaces the filter and sort state
func (ic *IntakeController) SetView(c *gin.Context) {
	var q ledger.Query
	if !utils.BindAndValidate(c, &q) {
		return
	}
	f := ic.form(c)
	if err := f.SetQuery(q); err != nil {
		respondError(c, err)
		return
	}
	ic.ListRows(c)
}

// UploadProducts loads the product picker list from an xlsx upload
func (ic *IntakeController) UploadProducts(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "file is required")
		return
	}
	src, err := file.Open()
	if err != nil {
		utils.RespondInternal(c, err)
		return
	}
	defer src.Close()

	products, err := catalog.ParseProductSheet(src)
	if err != nil {
		respondError(c, err)
		return
	}
	ic.form(c).LoadProducts(products)
	c.JSON(http.StatusOK, gin.H{"count": len(products), "products": catalog.SearchProducts(products, "")})
}

// SearchProducts filters the loaded product list
func (ic *IntakeController) SearchProducts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"products": ic.form(c).SearchProducts(c.Query("q"))})
}

// PickProducts adds one row per picked product
func (ic *IntakeController) PickProducts(c *gin.Context) {
	var input PickProductsInput
	if !utils.BindAndValidate(c, &input) {
		return
	}
	f := ic.form(c)
	rows, err := f.AddPicked(input.Indices)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"rows": rows, "summary": f.Summary()})
}
