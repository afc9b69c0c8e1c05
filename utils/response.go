package utils

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

func RespondWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// RespondInternal writes a 500 carrying the raw error message.
func RespondInternal(c *gin.Context, err error) {
	log.Error().Err(err).Str("path", c.FullPath()).Msg("operation failed")
	RespondWithError(c, http.StatusInternalServerError, "operation failed: "+err.Error())
}

// BindAndValidate binds the JSON body and reports field errors as 422.
// It returns false after writing the response.
func BindAndValidate(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make(map[string]string, len(verrs))
			for _, fe := range verrs {
				fields[lowerFirst(fe.Field())] = fe.Tag()
			}
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
				"error":  "validation failed",
				"fields": fields,
			})
			return false
		}
		RespondWithError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
