package v1

import (
	"errors"
	"net/http"

	"github.com/vibe-gaming/signup/internal/service"
	"github.com/vibe-gaming/signup/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *Handler) initRegistrationRoutes(api *gin.RouterGroup) {
	api.POST("/register", h.register)
	api.POST("/verify-otp", h.verifyOTP)
	api.POST("/resend-otp", h.resendOTP)
}

type registerInput struct {
	Email    string `json:"email" binding:"required,email,max=120"`
	Username string `json:"username" binding:"required,username"`
	Password string `json:"password" binding:"required,strongpassword"`
}

// @Summary Start registration
// @Tags Registration
// @Description Creates a provisional account and emails a one-time password
// @ModuleID register
// @Accept  json
// @Produce  json
// @Param input body registerInput true "account data"
// @Success 200 {object} response
// @Failure 400 {object} validationErrorStruct
// @Failure 500 {object} response
// @Router /register [post]
func (h *Handler) register(c *gin.Context) {
	var input registerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		validationErrorResponse(c, err)
		return
	}

	session, err := h.services.Registrations.Start(c.Request.Context(), service.StartRegistrationInput{
		Email:    input.Email,
		Username: input.Username,
		Password: input.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailAlreadyRegistered):
			errorResponse(c, http.StatusBadRequest, EmailRegisteredMessage)
		case errors.Is(err, service.ErrUsernameAlreadyRegistered):
			errorResponse(c, http.StatusBadRequest, UsernameRegisteredMessage)
		case errors.Is(err, service.ErrPasswordTooLong):
			errorResponse(c, http.StatusBadRequest, PasswordTooLongMessage)
		case errors.Is(err, service.ErrDeliveryFailed):
			errorResponse(c, http.StatusInternalServerError, DeliveryFailedMessage)
		default:
			logger.Error("start registration failed", zap.Error(err))
			errorResponse(c, http.StatusInternalServerError, InternalErrorMessage)
		}
		return
	}

	newResponse(c, http.StatusOK, OTPSentMessage, session.Token)
}

type verifyInput struct {
	Token string `json:"token" binding:"required"`
	Code  string `json:"code"`
	// OTP is the field name older clients send the code in.
	OTP string `json:"otp"`
}

func (i verifyInput) code() string {
	if i.Code != "" {
		return i.Code
	}
	return i.OTP
}

// @Summary Verify email
// @Tags Registration
// @Description Checks the one-time password and activates the account
// @ModuleID verifyOTP
// @Accept  json
// @Produce  json
// @Param input body verifyInput true "session token and code"
// @Success 201 {object} response
// @Failure 400 {object} response
// @Failure 500 {object} response
// @Router /verify-otp [post]
func (h *Handler) verifyOTP(c *gin.Context) {
	var input verifyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		validationErrorResponse(c, err)
		return
	}

	if input.code() == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, validationErrorStruct{
			Success: false,
			Message: ValidationErrorMessage,
			Errors:  []ValidationError{{FieldKey: "code", ErrorMessage: msgForTag("required", "")}},
		})
		return
	}

	_, err := h.services.Registrations.Verify(c.Request.Context(), input.Token, input.code())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionExpired):
			errorResponse(c, http.StatusBadRequest, TokenExpiredMessage)
		case errors.Is(err, service.ErrInvalidSession):
			errorResponse(c, http.StatusBadRequest, InvalidTokenMessage)
		case errors.Is(err, service.ErrInvalidCode):
			errorResponse(c, http.StatusBadRequest, InvalidOTPMessage)
		case errors.Is(err, service.ErrCodeExpired):
			errorResponse(c, http.StatusBadRequest, OTPExpiredMessage)
		case errors.Is(err, service.ErrAccountNotFound):
			errorResponse(c, http.StatusBadRequest, AccountNotFoundMessage)
		default:
			logger.Error("verify registration failed", zap.Error(err))
			errorResponse(c, http.StatusInternalServerError, VerifyFailedMessage)
		}
		return
	}

	newResponse(c, http.StatusCreated, RegistrationSuccessMessage, "")
}

type resendInput struct {
	Token string `json:"token" binding:"required"`
}

// @Summary Resend code
// @Tags Registration
// @Description Issues a new one-time password and a fresh session token
// @ModuleID resendOTP
// @Accept  json
// @Produce  json
// @Param input body resendInput true "session token"
// @Success 200 {object} response
// @Failure 400 {object} response
// @Failure 500 {object} response
// @Router /resend-otp [post]
func (h *Handler) resendOTP(c *gin.Context) {
	var input resendInput
	if err := c.ShouldBindJSON(&input); err != nil {
		validationErrorResponse(c, err)
		return
	}

	session, err := h.services.Registrations.Resend(c.Request.Context(), input.Token)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionExpired):
			errorResponse(c, http.StatusBadRequest, SessionExpiredMessage)
		case errors.Is(err, service.ErrInvalidSession):
			errorResponse(c, http.StatusBadRequest, InvalidSessionMessage)
		case errors.Is(err, service.ErrDeliveryFailed):
			errorResponse(c, http.StatusInternalServerError, DeliveryFailedMessage)
		default:
			logger.Error("resend verification code failed", zap.Error(err))
			errorResponse(c, http.StatusInternalServerError, ResendFailedMessage)
		}
		return
	}

	newResponse(c, http.StatusOK, OTPResentMessage, session.Token)
}
