package service

import (
	"errors"
	"fmt"
)

// Error kinds. Every *Error returned by the services matches exactly one of
// them with errors.Is.
var (
	ErrValidation     = errors.New("validation failed")
	ErrConflict       = errors.New("conflict")
	ErrNotFound       = errors.New("not found")
	ErrExpired        = errors.New("expired")
	ErrMismatch       = errors.New("mismatch")
	ErrInfrastructure = errors.New("infrastructure failure")

	ErrRecordSave = fmt.Errorf("%w: record save", ErrInfrastructure)
	ErrMailSend   = fmt.Errorf("%w: mail send", ErrInfrastructure)
)

// Messages shown to API clients.
const (
	MsgEmptyInputFields   = "Empty Input Fields!"
	MsgInvalidName        = "Invalid name entered"
	MsgInvalidEmail       = "Invalid email entered"
	MsgInvalidDateOfBirth = "Invalid Date Of Birth entered"
	MsgPasswordTooShort   = "Password is too short!"
	MsgPasswordTooLong    = "Password is too long!"
	MsgUserAlreadyExists  = "User with the provided email already exists!"
	MsgCheckExistingUser  = "An error occurred while checking for existing user!"
	MsgHashPassword       = "An error occurred while hashing password!"
	MsgSaveUser           = "An error occurred while saving user account!"

	MsgEmptyCredentials    = "Empty credentials supplied!"
	MsgInvalidCredentials  = "Invalid credentials entered!"
	MsgInvalidPassword     = "Invalid Password entered"
	MsgSigninCheckUser     = "An error occurred while checking for existing user"
	MsgComparePasswords    = "An error occurred while comparing passwords"
	MsgSigninSuccessful    = "Signin Successful"
	MsgIssueToken          = "An error occurred while creating session"
	MsgUserNotFound        = "User not found"
	MsgVerificationPending = "Verification email sent"

	MsgHashUniqueString      = "An error occurred while hashing email data!"
	MsgSaveVerification      = "Couldn't save verification email data"
	MsgVerificationMailFail  = "Verification email Failed"
	MsgResendPrefix          = "Verification Link Resend Error. "
	MsgEmptyUserDetails      = "Empty user details are not allowed"
	MsgAlreadyVerified       = "Account has been verified already. Please log in!"
	MsgRecordMissingOrDone   = "Account record doesn't exist or has been verified already. Please sign up or log in!"
	MsgLinkExpired           = "Link has expired. Please sign up again!"
	MsgInvalidVerification   = "Invalid verification details passed. Check your inbox."
	MsgCheckVerificationFail = "An error occurred while checking for existing user verification record."

	MsgUnknown = "An error occurred"
)

// Error is a classified service failure carrying the message for the client.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func newError(kind error, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Message returns the client-facing text for err.
func Message(err error) string {
	var serr *Error
	if errors.As(err, &serr) {
		return serr.Message
	}
	return MsgUnknown
}
