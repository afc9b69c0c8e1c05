package controllers

import (
	"bytes"
	"net/http"
	"net/url"
	"time"

	"beautyconsult-backend/export"
	"beautyconsult-backend/intake"
	"beautyconsult-backend/services"
	"beautyconsult-backend/utils"

	"github.com/gin-gonic/gin"
)

// HistoryController is the archive bridge: it saves the caller's session and
// serves the history they are allowed to see.
type HistoryController struct {
	archive  *services.ArchiveService
	forms    *intake.Registry
	loc      *time.Location
	fontPath string
}

func NewHistoryController(archive *services.ArchiveService, forms *intake.Registry, loc *time.Location, fontPath string) *HistoryController {
	if loc == nil {
		loc = time.Local
	}
	return &HistoryController{archive: archive, forms: forms, loc: loc, fontPath: fontPath}
}

func (hc *HistoryController) query(c *gin.Context) (services.HistoryQuery, bool) {
	day, ok := dayQuery(c, "date", hc.loc)
	if !ok {
		return services.HistoryQuery{}, false
	}
	return services.HistoryQuery{
		Customer: c.Query("customer"),
		Category: hc.forms.Catalog().Label(c.Query("category")),
		Date:     day,
	}, true
}

// ListHistory returns the visible history, optionally searched
func (hc *HistoryController) ListHistory(c *gin.Context) {
	q, ok := hc.query(c)
	if !ok {
		return
	}
	records, err := hc.archive.Search(c.Request.Context(), utils.CallerFrom(c), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records, "count": len(records)})
}

// SaveHistory archives a copy of the caller's current session
func (hc *HistoryController) SaveHistory(c *gin.Context) {
	caller := utils.CallerFrom(c)
	draft := hc.forms.Form(caller.UserID).HistoryDraft()

	saved, err := hc.archive.Save(c.Request.Context(), caller, draft)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

// DeleteHistory removes a record and returns the re-listed history
func (hc *HistoryController) DeleteHistory(c *gin.Context) {
	records, err := hc.archive.Delete(c.Request.Context(), utils.CallerFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records, "count": len(records)})
}

// ExportHistory encodes the visible, searched history as xlsx, csv or pdf
func (hc *HistoryController) ExportHistory(c *gin.Context) {
	format := export.Format(c.DefaultQuery("format", string(export.FormatXLSX)))
	switch format {
	case export.FormatXLSX, export.FormatCSV, export.FormatPDF:
	default:
		utils.RespondWithError(c, http.StatusBadRequest, "format must be xlsx, csv or pdf")
		return
	}
	q, ok := hc.query(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := hc.archive.Export(c.Request.Context(), utils.CallerFrom(c), q, format, export.Options{FontPath: hc.fontPath}, &buf); err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(format.FileName()))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

// GetReport returns per-category and per-customer totals of the visible history
func (hc *HistoryController) GetReport(c *gin.Context) {
	q, ok := hc.query(c)
	if !ok {
		return
	}
	rep, err := hc.archive.Report(c.Request.Context(), utils.CallerFrom(c), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}
