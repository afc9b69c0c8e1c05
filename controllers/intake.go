package controllers

import (
	"net/http"
	"time"

	"beautyconsult-backend/catalog"
	"beautyconsult-backend/intake"
	"beautyconsult-backend/ledger"
	"beautyconsult-backend/models"
	"beautyconsult-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// IntakeController exposes the caller's live consultation form.
type IntakeController struct {
	forms     *intake.Registry
	snapshots intake.SnapshotStore
	loc       *time.Location
}

func NewIntakeController(forms *intake.Registry, snapshots intake.SnapshotStore, loc *time.Location) *IntakeController {
	if loc == nil {
		loc = time.Local
	}
	return &IntakeController{forms: forms, snapshots: snapshots, loc: loc}
}

func (ic *IntakeController) form(c *gin.Context) *intake.Form {
	return ic.forms.Form(utils.CallerFrom(c).UserID)
}

type Overview struct {
	Customer    models.CustomerSnapshot `json:"customerFormData"`
	InstallHope string                  `json:"installHopeSummary"`
	Consult     models.ConsultLine      `json:"consultFormData"`
	Totals      ledger.Totals           `json:"totals"`
	CanAdd      bool                    `json:"canAdd"`
	Summary     ledger.Summary          `json:"summary"`
}

type SelectInput struct {
	Level  catalog.Level       `json:"level" binding:"required,oneof=category item product"`
	Action intake.SelectAction `json:"action" binding:"required,oneof=choose freeText type commit clear"`
	Value  string              `json:"value"`
}

// GetState returns the whole session: customer, draft, selector, rows and view
func (ic *IntakeController) GetState(c *gin.Context) {
	state, err := ic.form(c).State()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// GetOverview returns the live dashboard figures for the current session
func (ic *IntakeController) GetOverview(c *gin.Context) {
	state, err := ic.form(c).State()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Overview{
		Customer:    state.Customer,
		InstallHope: state.InstallHope,
		Consult:     state.Consult,
		Totals:      state.Totals,
		CanAdd:      state.CanAdd,
		Summary:     state.Summary,
	})
}

// UpdateConsult replaces the editable fields of the draft line
func (ic *IntakeController) UpdateConsult(c *gin.Context) {
	var input intake.ConsultInput
	if !utils.BindAndValidate(c, &input) {
		return
	}
	f := ic.form(c)
	line, err := f.SetConsult(input)
	if err != nil {
		respondError(c, err)
		return
	}
	totals := f.Totals()
	c.JSON(http.StatusOK, gin.H{
		"consultFormData": line,
		"totals":          totals,
		"vatOptions":      ledger.VATOptions(totals.LineTotal),
	})
}

// Select applies one selector command at one level
func (ic *IntakeController) Select(c *gin.Context) {
	var input SelectInput
	if !utils.BindAndValidate(c, &input) {
		return
	}
	f := ic.form(c)
	sel, err := f.Select(input.Level, input.Action, input.Value)
	if err != nil {
		respondError(c, err)
		return
	}
	state, err := f.State()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"selection": sel, "options": state.Options, "consultFormData": state.Consult})
}

// Reset starts a new consultation
func (ic *IntakeController) Reset(c *gin.Context) {
	f := ic.form(c)
	f.Reset()
	ic.GetState(c)
}

// SaveSnapshot writes the session to the local snapshot store
func (ic *IntakeController) SaveSnapshot(c *gin.Context) {
	f := ic.form(c)
	if err := f.RequestSave(c.Request.Context(), ic.snapshots); err != nil {
		respondError(c, err)
		return
	}
	log.Info().Str("owner", f.Owner()).Msg("session snapshot saved")
	c.JSON(http.StatusOK, gin.H{"saved": true})
}

// LoadSnapshot replaces the session with the saved snapshot, if any
func (ic *IntakeController) LoadSnapshot(c *gin.Context) {
	f := ic.form(c)
	loaded, err := f.RequestLoad(c.Request.Context(), ic.snapshots)
	if err != nil {
		respondError(c, err)
		return
	}
	if !loaded {
		c.JSON(http.StatusOK, gin.H{"loaded": false, "message": "no saved state"})
		return
	}
	state, err := f.State()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"loaded": true, "state": state})
}
