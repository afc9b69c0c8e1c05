package controllers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"beautyconsult-backend/services"
	"beautyconsult-backend/utils"

	"github.com/gin-gonic/gin"
)

type VisualController struct {
	visuals *services.VisualService
	loc     *time.Location
}

func NewVisualController(svc *services.VisualService, loc *time.Location) *VisualController {
	if loc == nil {
		loc = time.Local
	}
	return &VisualController{visuals: svc, loc: loc}
}

// CreateVisualDetail accepts multipart "images", "detailImages" and "description"
func (vc *VisualController) CreateVisualDetail(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "multipart form required")
		return
	}
	images, err := readUploads(form.File["images"])
	if err != nil {
		respondError(c, err)
		return
	}
	details, err := readUploads(form.File["detailImages"])
	if err != nil {
		respondError(c, err)
		return
	}

	v, err := vc.visuals.Create(c.Request.Context(), services.VisualInput{
		Images:       images,
		DetailImages: details,
		Description:  c.PostForm("description"),
		CreatedBy:    utils.CallerFrom(c).Username,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, v)
}

func readUploads(files []*multipart.FileHeader) ([]services.Upload, error) {
	out := make([]services.Upload, 0, len(files))
	for _, fh := range files {
		if fh.Size > services.MaxImageBytes {
			return nil, fmt.Errorf("%w: %s", services.ErrImageTooLarge, fh.Filename)
		}
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(io.LimitReader(f, services.MaxImageBytes+1))
		f.Close()
		if err != nil {
			return nil, err
		}
		out = append(out, services.Upload{Name: fh.Filename, Data: data})
	}
	return out, nil
}

// GetVisualDetails lists entries newest first, filtered by q and date
func (vc *VisualController) GetVisualDetails(c *gin.Context) {
	day, ok := dayQuery(c, "date", vc.loc)
	if !ok {
		return
	}
	list, err := vc.visuals.Search(c.Request.Context(), services.VisualQuery{Text: c.Query("q"), Date: day})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": list, "count": len(list)})
}

// DeleteVisualDetail removes an entry and its images
func (vc *VisualController) DeleteVisualDetail(c *gin.Context) {
	if err := vc.visuals.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Visual detail deleted"})
}
