// Package validation holds the declarative input rules for contact request
// creation and for every admin mutation. Rules are expressed as
// go-playground/validator struct tags (the same engine gin uses for binding)
// and failures are flattened into a field → messages map.
//
// Validation is pure and synchronous. Malformed but well-typed input never
// panics; it yields an *Error.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalid is the sentinel wrapped by every *Error.
var ErrInvalid = errors.New("validation failed")

// Error is a structured validation failure keyed by field path.
type Error struct {
	Fields map[string][]string
}

func (e *Error) Error() string {
	if len(e.Fields) == 1 {
		for f, msgs := range e.Fields {
			return fmt.Sprintf("validation: %s: %s", f, strings.Join(msgs, "; "))
		}
	}
	return fmt.Sprintf("validation: %s invalid", strings.Join(e.FieldNames(), ", "))
}

func (e *Error) Unwrap() error { return ErrInvalid }

// Add appends a message for field.
func (e *Error) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

// FieldNames returns the invalid field paths in sorted order.
func (e *Error) FieldNames() []string {
	out := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// personNameRE accepts letters (any script), whitespace, hyphens and
// apostrophes. The value is not trimmed first.
var personNameRE = regexp.MustCompile(`^[\p{L}\s'\-]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names so error keys match the wire format.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("personname", func(fl validator.FieldLevel) bool {
		return personNameRE.MatchString(fl.Field().String())
	})
	return v
}

// check runs the struct rules and converts failures into *Error.
func check(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		// InvalidValidationError: a programming error, not bad input.
		return err
	}
	out := &Error{}
	for _, fe := range verrs {
		field := fieldPath(fe)
		out.Add(field, message(field, fe))
	}
	return out
}

// fieldPath strips the root struct name from the namespace, turning
// "CreateInput.attachments[0].url" into "attachments[0].url".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}
