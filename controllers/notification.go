package controllers

import (
	"net/http"

	"beautyconsult-backend/models"
	"beautyconsult-backend/services"
	"beautyconsult-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type NotificationController struct {
	notifications *services.NotificationService
}

func NewNotificationController(svc *services.NotificationService) *NotificationController {
	return &NotificationController{notifications: svc}
}

type CreateTemplateInput struct {
	Type     string `json:"type" binding:"required,oneof=history_saved"`
	Message  string `json:"message" binding:"required,max=1000"`
	IsActive *bool  `json:"isActive"`
}

type UpdateTemplateInput struct {
	Message  *string `json:"message" binding:"omitempty,min=1,max=1000"`
	IsActive *bool   `json:"isActive"`
}

// GetTemplates lists the notification templates
func (nc *NotificationController) GetTemplates(c *gin.Context) {
	templates, err := nc.notifications.ListTemplates(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"templates":    templates,
		"placeholders": []string{"[Username]", "[Customer]", "[Salon]", "[Rows]", "[Total]"},
		"default":      services.DefaultHistorySavedMessage,
	})
}

// CreateTemplate adds a template; one per type
func (nc *NotificationController) CreateTemplate(c *gin.Context) {
	var input CreateTemplateInput
	if !utils.BindAndValidate(c, &input) {
		return
	}
	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}
	t, err := nc.notifications.CreateTemplate(c.Request.Context(), input.Type, input.Message, active)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

// UpdateTemplate changes the message or active flag
func (nc *NotificationController) UpdateTemplate(c *gin.Context) {
	id, ok := templateID(c)
	if !ok {
		return
	}
	var input UpdateTemplateInput
	if !utils.BindAndValidate(c, &input) {
		return
	}
	t, err := nc.notifications.UpdateTemplate(c.Request.Context(), id, services.TemplatePatch{
		Message:  input.Message,
		IsActive: input.IsActive,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// DeleteTemplate removes a template
func (nc *NotificationController) DeleteTemplate(c *gin.Context) {
	id, ok := templateID(c)
	if !ok {
		return
	}
	if err := nc.notifications.DeleteTemplate(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Template deleted"})
}

// PreviewTemplate renders a message against a sample record
func (nc *NotificationController) PreviewTemplate(c *gin.Context) {
	var input struct {
		Message string `json:"message" binding:"required"`
	}
	if !utils.BindAndValidate(c, &input) {
		return
	}
	sample := models.NewCustomerSnapshot()
	sample.Salon = "샘플살롱"
	sample.Customer = "홍길동"
	rec := models.NewHistoryRecord(sample, models.NewConsultLine(), []models.LedgerRow{{GrandTotal: 110000}})
	rec.Username = utils.CallerFrom(c).Username
	c.JSON(http.StatusOK, gin.H{"preview": services.RenderHistoryMessage(input.Message, rec)})
}

func templateID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid template ID")
		return uuid.Nil, false
	}
	return id, true
}
