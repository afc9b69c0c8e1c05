package controllers

import (
	"net/http"

	"beautyconsult-backend/models"
	"beautyconsult-backend/utils"

	"github.com/gin-gonic/gin"
)

type InstallDateInput struct {
	Date string `json:"date" binding:"required"`
}

// UpdateCustomer replaces the customer half of the form
func (ic *IntakeController) UpdateCustomer(c *gin.Context) {
	var input models.CustomerSnapshot
	if !utils.BindAndValidate(c, &input) {
		return
	}
	customer, err := ic.form(c).SetCustomer(input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"customerFormData":   customer,
		"installHopeSummary": customer.InstallHopeSummary(),
	})
}

// AddInstallDate adds a day to the multiple install-hope set
func (ic *IntakeController) AddInstallDate(c *gin.Context) {
	var input InstallDateInput
	if !utils.BindAndValidate(c, &input) {
		return
	}
	d, err := utils.ParseDay(input.Date, ic.loc)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "invalid date: use YYYY-MM-DD")
		return
	}
	f := ic.form(c)
	added := f.AddInstallDate(d)
	ic.respondCustomer(c, gin.H{"added": added})
}

// RemoveInstallDate removes a day from the multiple install-hope set
func (ic *IntakeController) RemoveInstallDate(c *gin.Context) {
	d, ok := dayQuery(c, "date", ic.loc)
	if !ok {
		return
	}
	if d == nil {
		utils.RespondWithError(c, http.StatusBadRequest, "date is required")
		return
	}
	removed := ic.form(c).RemoveInstallDate(*d)
	ic.respondCustomer(c, gin.H{"removed": removed})
}

func (ic *IntakeController) respondCustomer(c *gin.Context, body gin.H) {
	state, err := ic.form(c).State()
	if err != nil {
		respondError(c, err)
		return
	}
	body["customerFormData"] = state.Customer
	body["installHopeSummary"] = state.InstallHope
	c.JSON(http.StatusOK, body)
}
