package session

import (
	"unicode/utf8"

	"github.com/dmitrijs2005/recipebook/internal/common"
	"github.com/go-playground/validator/v10"
)

const (
	MsgInvalidEmail  = "E-mail is invalid"
	MsgNameRequired  = "Name is required"
	MsgShortPassword = "Password must be at least 6 characters"
	MsgNotLoggedIn   = "You must be logged in"

	MsgRegisterFailed = "Error occurred while creating an account"
	MsgUserExists     = "User with this email and name already exists"
	MsgLoginFailed    = "Error occurred while logging in"
	MsgLogoutFailed   = "Error occurred while logging out"
)

const (
	FieldEmail    = "email"
	FieldName     = "name"
	FieldPassword = "password"
	FieldToken    = "token"
)

var validate = validator.New()

func validEmail(email string) bool {
	return validate.Var(email, "required,email") == nil
}

func checkEmail(email string) *ValidationFailure {
	if !validEmail(email) {
		return &ValidationFailure{Field: FieldEmail, Message: MsgInvalidEmail}
	}
	return nil
}

func checkName(name string) *ValidationFailure {
	if name == "" {
		return &ValidationFailure{Field: FieldName, Message: MsgNameRequired}
	}
	return nil
}

func checkPassword(password string) *ValidationFailure {
	if utf8.RuneCountInString(password) < common.MinPasswordLength {
		return &ValidationFailure{Field: FieldPassword, Message: MsgShortPassword}
	}
	return nil
}

// firstFailure returns the first non-nil failure in order.
func firstFailure(checks ...*ValidationFailure) *ValidationFailure {
	for _, c := range checks {
		if c != nil {
			return c
		}
	}
	return nil
}
