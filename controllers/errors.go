package controllers

import (
	"errors"
	"net/http"
	"time"

	"beautyconsult-backend/catalog"
	"beautyconsult-backend/intake"
	"beautyconsult-backend/ledger"
	"beautyconsult-backend/repositories"
	"beautyconsult-backend/services"
	"beautyconsult-backend/utils"

	"github.com/gin-gonic/gin"
)

var badRequest = []error{
	intake.ErrCustomerIncomplete,
	intake.ErrInvalidVATType,
	intake.ErrInvalidInstallHope,
	intake.ErrProductIndex,
	intake.ErrUnknownAction,
	catalog.ErrUnknownLevel,
	catalog.ErrInvalidSheet,
	ledger.ErrUnknownColumn,
	ledger.ErrInvalidFilter,
	services.ErrInvalidImage,
	services.ErrTooManyImages,
	services.ErrMissingImage,
	services.ErrImageTooLarge,
	services.ErrDescriptionTooLong,
	errInvalidPhone,
}

// respondError maps domain errors to status codes. Anything unknown is a
// remote failure and becomes a 500 with the raw message.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound), errors.Is(err, repositories.ErrNotFound), errors.Is(err, ledger.ErrRowNotFound):
		utils.RespondWithError(c, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, services.ErrForbidden):
		utils.RespondWithError(c, http.StatusForbidden, "you can only manage your own records")
		return
	case errors.Is(err, repositories.ErrDuplicate):
		utils.RespondWithError(c, http.StatusConflict, err.Error())
		return
	}
	for _, target := range badRequest {
		if errors.Is(err, target) {
			utils.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
	}
	utils.RespondInternal(c, err)
}

// dayQuery parses an optional YYYY-MM-DD query parameter.
func dayQuery(c *gin.Context, name string, loc *time.Location) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	d, err := utils.ParseDay(raw, loc)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "invalid "+name+": use YYYY-MM-DD")
		return nil, false
	}
	return &d, true
}
