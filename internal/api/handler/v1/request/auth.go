package request

import (
	"errors"

	"github.com/dlclark/regexp2"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/G1ebS/rosatom-nko-sub000/internal/domain"
)

const (
	passwordRegexPattern = `^(?=.*[A-Za-z])(?=.*\d).{8,}$`
	phoneRegexPattern    = `^\+?[0-9 ()-]{6,20}$`
)

var (
	passwordExp = regexp2.MustCompile(passwordRegexPattern, regexp2.None)
	phoneExp    = regexp2.MustCompile(phoneRegexPattern, regexp2.None)
)

var (
	errInvalidPassword         = errors.New("the password must be at least 8 characters and contain 1 letter and 1 number")
	errConfirmPasswordMismatch = errors.New("confirm password doesn't match the password")
	errInvalidPhone            = errors.New("the phone number is not valid")
)

func matches(re *regexp2.Regexp, s string) bool {
	ok, err := re.MatchString(s)
	return err == nil && ok
}

type RegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	City            string `json:"city"`
	Phone           string `json:"phone"`
}

func (req *RegisterRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.Password, validation.Required),
		validation.Field(&req.Username, validation.Length(0, 150)),
		validation.Field(&req.FirstName, validation.Length(0, 150)),
		validation.Field(&req.LastName, validation.Length(0, 150)),
		validation.Field(&req.City, validation.Length(0, 100)),
	)
	if err != nil {
		return err
	}

	if !matches(passwordExp, req.Password) {
		return errInvalidPassword
	}

	if req.PasswordConfirm != "" && req.Password != req.PasswordConfirm {
		return errConfirmPasswordMismatch
	}

	if req.Phone != "" && !matches(phoneExp, req.Phone) {
		return errInvalidPhone
	}

	return nil
}

func (req *RegisterRequest) ToDomain() domain.Registration {
	return domain.Registration{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		City:            req.City,
		Phone:           req.Phone,
	}
}

// LoginRequest takes the e-mail as username, which is what the portal
// registers accounts under.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (req *LoginRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Username, validation.Required),
		validation.Field(&req.Password, validation.Required),
	)
}

type UpdateMeRequest struct {
	Email     *string   `json:"email"`
	FirstName *string   `json:"first_name"`
	LastName  *string   `json:"last_name"`
	City      *string   `json:"city"`
	Phone     *string   `json:"phone"`
	Bio       *string   `json:"bio"`
	Interests *[]string `json:"interests"`
}

func (req *UpdateMeRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Email, validation.NilOrNotEmpty, is.Email),
		validation.Field(&req.City, validation.Length(0, 100)),
		validation.Field(&req.Bio, validation.Length(0, 2000)),
	)
	if err != nil {
		return err
	}

	if req.Phone != nil && *req.Phone != "" && !matches(phoneExp, *req.Phone) {
		return errInvalidPhone
	}

	return nil
}

func (req *UpdateMeRequest) ToDomain() domain.ProfileUpdate {
	return domain.ProfileUpdate{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		City:      req.City,
		Phone:     req.Phone,
		Bio:       req.Bio,
		Interests: req.Interests,
	}
}
