package validator

import (
	"log"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/vibe-gaming/signup/pkg/hash"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const passwordSpecials = "!@#$%^&*"

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{3,20}$`)
	registerOnce    sync.Once
)

func RegisterGinValidator() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			Register(v)
		}
	})
}

// Register adds the json tag name func and the custom tags to v.
func Register(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("username", usernameValidator); err != nil {
		log.Fatal("register username validator failed")
	}

	if err := v.RegisterValidation("strongpassword", strongPasswordValidator); err != nil {
		log.Fatal("register strongpassword validator failed")
	}
}

var usernameValidator validator.Func = func(fl validator.FieldLevel) bool {
	return usernamePattern.MatchString(fl.Field().String())
}

// strongPasswordValidator wants at least 8 characters and at most 72 bytes with
// an upper and a lower case letter, a digit and one of !@#$%^&*.
var strongPasswordValidator validator.Func = func(fl validator.FieldLevel) bool {
	return IsStrongPassword(fl.Field().String())
}

func IsStrongPassword(password string) bool {
	if len(password) < 8 || len(password) > hash.MaxPasswordBytes {
		return false
	}

	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		}
	}

	return upper && lower && digit && special
}
