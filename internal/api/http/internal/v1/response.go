package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token,omitempty"`
} // @name Response

type validationErrorStruct struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"validation_errors"`
} // @name ValidationErrorResponse

func newResponse(c *gin.Context, status int, message string, token string) {
	c.JSON(status, response{Success: true, Message: message, Token: token})
}

func errorResponse(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, response{Success: false, Message: message})
}

func validationErrorResponse(c *gin.Context, err error) {
	var verr validator.ValidationErrors
	if !errors.As(err, &verr) {
		errorResponse(c, http.StatusBadRequest, InvalidBodyMessage)
		return
	}

	out := make([]ValidationError, len(verr))
	for i, ferr := range verr {
		out[i] = ValidationError{ferr.Field(), msgForTag(ferr.Tag(), ferr.Param())}
	}

	c.AbortWithStatusJSON(http.StatusBadRequest, validationErrorStruct{
		Success: false,
		Message: ValidationErrorMessage,
		Errors:  out,
	})
}
