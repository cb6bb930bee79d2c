package main

import (
	"reflect"
	"regexp"
	"strings"
	"time"
	"unicode"

	"uservice/src/types"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var personNamePattern = regexp.MustCompile(`^[\p{L}][\p{L} '\-.]*$`)

var futureDateValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	date, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}
	return date.After(time.Now())
}

var personNameValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	return personNamePattern.MatchString(strings.TrimSpace(fl.Field().String()))
}

var strongPasswordValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	var upper, lower, digit bool
	for _, r := range fl.Field().String() {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}

var calendarDateValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	_, err := time.Parse(types.DATE_FORMAT, fl.Field().String())
	return err == nil
}

// fieldTagName reports fields by their wire name so errors match the request payload.
func fieldTagName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form", "uri"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(fieldTagName)
		v.RegisterValidation("futuredate", futureDateValidatorFunc)
		v.RegisterValidation("personname", personNameValidatorFunc)
		v.RegisterValidation("strongpassword", strongPasswordValidatorFunc)
		v.RegisterValidation("calendardate", calendarDateValidatorFunc)
	}
}
