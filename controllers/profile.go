package controllers

import (
	"errors"
	"net/http"
	"strings"

	"beautyconsult-backend/utils"

	"github.com/gin-gonic/gin"
)

var errInvalidPhone = errors.New("invalid phone number format")

type UpdateProfileInput struct {
	Name  *string `json:"name" binding:"omitempty,max=100"`
	Phone *string `json:"phone"`
}

type UpdateNotificationsInput struct {
	Phone        *string `json:"phone"`
	NotifyOnSave *bool   `json:"notifyOnSave" binding:"required"`
}

// normalizeContactPhone keeps E.164 numbers for WhatsApp and formats
// domestic numbers for SMS.
func normalizeContactPhone(phone string) (string, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return "", nil
	}
	if strings.HasPrefix(phone, "+") {
		if !utils.ValidatePhone(phone) {
			return "", errInvalidPhone
		}
		return "+" + utils.DigitsOnly(phone), nil
	}
	formatted := utils.FormatPhone(phone)
	if len(utils.DigitsOnly(formatted)) < 9 {
		return "", errInvalidPhone
	}
	return formatted, nil
}

// GetProfile returns the caller's profile
func (ac *AuthController) GetProfile(c *gin.Context) {
	ac.Me(c)
}

// UpdateProfile updates name and phone
func (ac *AuthController) UpdateProfile(c *gin.Context) {
	var input UpdateProfileInput
	if !utils.BindAndValidate(c, &input) {
		return
	}
	user, ok := ac.currentUser(c)
	if !ok {
		return
	}

	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.Phone != nil {
		phone, err := normalizeContactPhone(*input.Phone)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		user.Phone = phone
	}
	if err := ac.users.Update(c.Request.Context(), user); err != nil {
		utils.RespondInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateNotifications sets whether the caller is told about saved consultations
func (ac *AuthController) UpdateNotifications(c *gin.Context) {
	var input UpdateNotificationsInput
	if !utils.BindAndValidate(c, &input) {
		return
	}
	user, ok := ac.currentUser(c)
	if !ok {
		return
	}

	if input.Phone != nil {
		phone, err := normalizeContactPhone(*input.Phone)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		user.Phone = phone
	}
	if *input.NotifyOnSave && user.Phone == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "a phone number is required to receive notifications")
		return
	}
	user.NotifyOnSave = *input.NotifyOnSave

	if err := ac.users.Update(c.Request.Context(), user); err != nil {
		utils.RespondInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      "Notification settings updated",
		"phone":        user.Phone,
		"notifyOnSave": user.NotifyOnSave,
	})
}
