package validator

import (
	"errors"
	"log"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	TagPersonName  = "personname"
	TagEmailShape  = "emailshape"
	TagDateOfBirth = "dateofbirth"
)

var (
	personNameRegexp = regexp.MustCompile(`^[a-zA-Z ]+$`)
	emailShapeRegexp = regexp.MustCompile(`^[\w\-.]+@([\w-]+\.)+[\w-]{2,4}$`)

	dateOfBirthLayouts = []string{
		"2006-01-02",
		time.RFC3339Nano,
		"Mon Jan 02 2006",
		"01/02/2006",
	}

	ErrInvalidDate = errors.New("invalid date")
)

// New returns a validator with the account field rules registered.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	register(v)
	return v
}

func register(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	rules := map[string]validator.Func{
		TagPersonName:  personNameValidator,
		TagEmailShape:  emailShapeValidator,
		TagDateOfBirth: dateOfBirthValidator,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("register %s validator failed: %s", tag, err)
		}
	}
}

var personNameValidator validator.Func = func(fl validator.FieldLevel) bool {
	return personNameRegexp.MatchString(fl.Field().String())
}

var emailShapeValidator validator.Func = func(fl validator.FieldLevel) bool {
	return emailShapeRegexp.MatchString(fl.Field().String())
}

var dateOfBirthValidator validator.Func = func(fl validator.FieldLevel) bool {
	_, err := ParseDateOfBirth(fl.Field().String())
	return err == nil
}

// ParseDateOfBirth accepts plain dates, RFC 3339 timestamps (what mobile
// clients serialize dates to) and the JavaScript toDateString format.
func ParseDateOfBirth(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateOfBirthLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, ErrInvalidDate
}
