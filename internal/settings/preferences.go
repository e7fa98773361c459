// Package settings stores the user preferences of the dashboard in the
// key-value store.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/image-classifier/internal/results"
	"github.com/jonathan/image-classifier/internal/schemas"
)

// Key is the store key holding the preferences document.
const Key = "preferences"

// Preferences are the user settings.
type Preferences struct {
	Language            string `json:"language" validate:"oneof=es en"`
	DefaultCategory     string `json:"defaultCategory" validate:"required,category"`
	ConfidenceThreshold int    `json:"confidenceThreshold" validate:"min=50,max=95"`
	ItemsPerPage        int    `json:"itemsPerPage" validate:"oneof=10 25 50 100"`
	ExportFormat        string `json:"exportFormat" validate:"oneof=json csv yaml"`
	AutoSave            bool   `json:"autoSave"`
	Notifications       bool   `json:"notifications"`
}

// Defaults returns the preferences of a new user.
func Defaults() Preferences {
	return Preferences{
		Language:            "es",
		DefaultCategory:     results.TypeAnimals,
		ConfidenceThreshold: 70,
		ItemsPerPage:        25,
		ExportFormat:        "json",
		AutoSave:            true,
		Notifications:       true,
	}
}

// FieldError is one rejected preference.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every rejected preference.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return "invalid preferences: " + strings.Join(parts, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	// Registration only fails for an empty tag.
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return results.KnownType(fl.Field().String())
	})
	return v
}

// Validate checks every field.
func (p Preferences) Validate() error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Field() {
	case "language":
		return "Idioma no soportado"
	case "defaultCategory":
		return "Categoría predeterminada no válida"
	case "confidenceThreshold":
		return "El umbral de confianza debe estar entre 50% y 95%"
	case "itemsPerPage":
		return "Elementos por página debe ser 10, 25, 50 o 100"
	case "exportFormat":
		return "Formato de exportación no válido"
	default:
		return fmt.Sprintf("%s no es válido (%s)", fe.Field(), fe.Tag())
	}
}

// decode parses a stored document, checking it against the preferences
// schema first so unknown keys and wrong types are rejected.
func decode(doc []byte) (Preferences, error) {
	if err := schemas.Validate(schemas.Preferences, doc); err != nil {
		return Preferences{}, err
	}
	p := Defaults()
	if err := json.Unmarshal(doc, &p); err != nil {
		return Preferences{}, err
	}
	if err := p.Validate(); err != nil {
		return Preferences{}, err
	}
	return p, nil
}
