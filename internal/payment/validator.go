// Package payment validates the checkout form before a simulated charge.
package payment

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Form is the payment form as submitted. Field names match the form inputs.
type Form struct {
	FullName    string `form:"full_name" label:"Full Name" validate:"required"`
	PhoneNumber string `form:"phone_number" validate:"phone"`
	Address     string `form:"address" label:"Street Address" validate:"required"`
	City        string `form:"city" label:"City" validate:"required"`
	PostalCode  string `form:"postal_code" validate:"postal_code"`
	Country     string `form:"country" label:"Country" validate:"required"`
	CardNumber  string `form:"card_number" validate:"card_number"`
	ExpiryDate  string `form:"expiry_date" validate:"expiry_format,expiry_month,expiry_current"`
	CVC         string `form:"cvc" validate:"cvc"`
}

// FieldNames lists the form inputs in display order
var FieldNames = []string{
	"full_name",
	"phone_number",
	"address",
	"city",
	"postal_code",
	"country",
	"card_number",
	"expiry_date",
	"cvc",
}

// Normalize trims text fields and strips whitespace from the card number
func (f Form) Normalize() Form {
	f.FullName = strings.TrimSpace(f.FullName)
	f.PhoneNumber = strings.TrimSpace(f.PhoneNumber)
	f.Address = strings.TrimSpace(f.Address)
	f.City = strings.TrimSpace(f.City)
	f.PostalCode = strings.TrimSpace(f.PostalCode)
	f.Country = strings.TrimSpace(f.Country)
	f.CardNumber = strings.Join(strings.Fields(f.CardNumber), "")
	f.ExpiryDate = strings.TrimSpace(f.ExpiryDate)
	f.CVC = strings.TrimSpace(f.CVC)
	return f
}

// Errors maps form field names to the message shown beside them
type Errors map[string]string

// Valid reports whether no field failed
func (e Errors) Valid() bool {
	return len(e) == 0
}

var (
	cardNumberRe = regexp.MustCompile(`^\d{13,19}$`)
	cvcRe        = regexp.MustCompile(`^\d{3,4}$`)
	postalCodeRe = regexp.MustCompile(`^\d{4,5}$`)
	expiryRe     = regexp.MustCompile(`^(\d{2})\s*/\s*(\d{2})$`)
)

var fixedMessages = map[string]string{
	"card_number":    "Please enter a valid card number.",
	"cvc":            "Enter a valid 3 or 4 digit CVC.",
	"postal_code":    "Enter a valid postal code.",
	"expiry_format":  "Please use MM / YY format.",
	"expiry_month":   "Invalid month.",
	"expiry_current": "Card has expired.",
}

// Validator checks every field of a Form on each call
type Validator struct {
	validate *validator.Validate
	phone    PhoneChecker
	now      func() time.Time
}

// NewValidator builds a validator. now supplies the current month for the
// expiry check.
func NewValidator(phone PhoneChecker, now func() time.Time) *Validator {
	v := &Validator{
		validate: validator.New(),
		phone:    phone,
		now:      now,
	}

	v.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("form")
	})

	v.mustRegister("card_number", matches(cardNumberRe))
	v.mustRegister("cvc", matches(cvcRe))
	v.mustRegister("postal_code", matches(postalCodeRe))
	v.mustRegister("expiry_format", matches(expiryRe))
	v.mustRegister("expiry_month", func(fl validator.FieldLevel) bool {
		month, _, ok := ParseExpiry(fl.Field().String())
		return ok && month >= 1 && month <= 12
	})
	v.mustRegister("expiry_current", func(fl validator.FieldLevel) bool {
		month, year, ok := ParseExpiry(fl.Field().String())
		return ok && !ExpiredAt(month, year, v.now())
	})
	v.mustRegister("phone", func(fl validator.FieldLevel) bool {
		return v.phone != nil && v.phone.IsValidNumber(fl.Field().String())
	})

	return v
}

func (v *Validator) mustRegister(tag string, fn validator.Func) {
	if err := v.validate.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

// Validate normalizes f and runs every field rule. All failing fields are
// reported; nothing short-circuits.
func (v *Validator) Validate(f Form) (Form, Errors) {
	f = f.Normalize()
	errs := Errors{}

	err := v.validate.Struct(f)
	if err == nil {
		return f, errs
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		errs["form"] = "Please check the form and try again."
		return f, errs
	}

	for _, fe := range verrs {
		errs[fe.Field()] = v.message(fe)
	}
	return f, errs
}

func (v *Validator) message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required.", labelFor(fe.StructField()))
	case "phone":
		if v.phone == nil {
			return PhoneMessage(-1)
		}
		value, _ := fe.Value().(string)
		return PhoneMessage(v.phone.ValidationError(value))
	}
	if msg, ok := fixedMessages[fe.Tag()]; ok {
		return msg
	}
	return "Invalid value."
}

var formType = reflect.TypeOf(Form{})

func labelFor(structField string) string {
	if f, ok := formType.FieldByName(structField); ok {
		if label := f.Tag.Get("label"); label != "" {
			return label
		}
	}
	return structField
}

// ParseExpiry reads "MM / YY" (spaces around the slash optional)
func ParseExpiry(s string) (month, year int, ok bool) {
	m := expiryRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, 0, false
	}
	month, _ = strconv.Atoi(m[1])
	year, _ = strconv.Atoi(m[2])
	return month, year, true
}

// ExpiredAt reports whether a card expiring in month/yy is already past at
// now. Only the last two digits of the current year are compared, so in 2099
// a card dated "01 / 00" (January 2100) reads as expired.
func ExpiredAt(month, yy int, now time.Time) bool {
	currentYear := now.Year() % 100
	currentMonth := int(now.Month())
	return yy < currentYear || (yy == currentYear && month < currentMonth)
}
