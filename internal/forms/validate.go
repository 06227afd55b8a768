// Package forms binds, sanitizes and validates the catalog's HTML forms.
//
// Every form struct carries three kinds of tags: `form` for gin binding,
// `validate` for go-playground/validator rules and `msg` for the message shown
// to the user when any rule on that field fails. A `msg_<rule>` tag overrides
// the message for one rule, e.g. `msg_max:"Name is too long"`.
package forms

import (
	"errors"
	"reflect"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// FieldError is a single validation failure.
type FieldError struct {
	Field   string // form field name
	Message string
}

// Errors is an ordered list of validation failures. A nil Errors is valid.
type Errors []FieldError

// Has reports whether field failed validation.
func (e Errors) Has(field string) bool {
	for _, fe := range e {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// Add appends a failure for field.
func (e *Errors) Add(field, message string) {
	*e = append(*e, FieldError{Field: field, Message: message})
}

// Messages returns the messages in field order.
func (e Errors) Messages() []string {
	msgs := make([]string, 0, len(e))
	for _, fe := range e {
		msgs = append(msgs, fe.Message)
	}
	return msgs
}

// Validate runs the struct's validate rules and maps failures to the
// field's msg tag. form must be a struct or a pointer to one.
func Validate(form any) Errors {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Errors{{Message: err.Error()}}
	}

	t := reflect.Indirect(reflect.ValueOf(form)).Type()
	var out Errors
	for _, fe := range verrs {
		field := fe.Field()
		message := fe.Error()
		if sf, ok := t.FieldByName(fe.StructField()); ok {
			if name := sf.Tag.Get("form"); name != "" {
				field = name
			}
			if msg := sf.Tag.Get("msg_" + fe.Tag()); msg != "" {
				message = msg
			} else if msg := sf.Tag.Get("msg"); msg != "" {
				message = msg
			}
		}
		if out.Has(field) {
			continue
		}
		out.Add(field, message)
	}
	return out
}
