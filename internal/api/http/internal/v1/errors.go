package v1

import "fmt"

// User facing messages
const (
	ValidationErrorMessage    = "Validation error"
	InvalidBodyMessage        = "Invalid request body"
	InternalErrorMessage      = "Internal server error"
	DeliveryFailedMessage     = "Failed to send OTP. Please try again."
	OTPSentMessage            = "OTP has been sent to your email!"
	EmailRegisteredMessage    = "This email is already registered."
	UsernameRegisteredMessage = "This username is already registered."
	PasswordTooLongMessage    = "Password must be at most 72 bytes long."

	RegistrationSuccessMessage = "Registration successful!"
	TokenExpiredMessage        = "Token has expired"
	InvalidTokenMessage        = "Invalid token"
	InvalidOTPMessage          = "Invalid OTP"
	OTPExpiredMessage          = "OTP has expired"
	AccountNotFoundMessage     = "User not found or already verified"
	VerifyFailedMessage        = "An error occurred during registration"

	OTPResentMessage      = "OTP has been resent to your email!"
	SessionExpiredMessage = "Session expired. Please start registration again"
	InvalidSessionMessage = "Invalid session. Please start registration again"
	ResendFailedMessage   = "An error occurred while resending OTP"
)

type ValidationError struct {
	FieldKey     string `json:"field_key"`
	ErrorMessage string `json:"error_message"`
}

func msgForTag(tag string, value string) string {
	switch tag {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email address"
	case "min":
		return fmt.Sprintf("Must be at least %v characters long", value)
	case "max":
		return fmt.Sprintf("Must be at most %v characters long", value)
	case "username":
		return "Username must be 3-20 characters long and contain only letters, numbers, underscores, and hyphens"
	case "strongpassword":
		return "Password must be 8 characters to 72 bytes long and contain an uppercase letter, a lowercase letter, a number, and a special character (!@#$%^&*)"
	}
	return tag
}
