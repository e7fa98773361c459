package categories

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Form is what the create and edit dialogs submit.
type Form struct {
	Name                string        `json:"name" validate:"required,min=3"`
	Description         string        `json:"description" validate:"required"`
	Type                string        `json:"type" validate:"required,oneof=animals clothing food vehicles custom"`
	Status              string        `json:"status" validate:"required,oneof=active inactive training"`
	ConfidenceThreshold int           `json:"confidenceThreshold" validate:"min=50,max=95"`
	SampleImages        []SampleImage `json:"sampleImages" validate:"min=3,dive"`
}

// NewForm returns the defaults of the create dialog.
func NewForm() Form {
	return Form{
		Type:                TypeCustom,
		Status:              StatusActive,
		ConfidenceThreshold: DefaultThreshold,
	}
}

// FormFrom fills a form with an existing category, for editing.
func FormFrom(c Category) Form {
	return Form{
		Name:                c.Name,
		Description:         c.Description,
		Type:                c.Type,
		Status:              c.Status,
		ConfidenceThreshold: c.ConfidenceThreshold,
		SampleImages:        append([]SampleImage(nil), c.SampleImages...),
	}
}

// FieldError is one message shown under a form field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every invalid field of a form.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return "invalid category: " + strings.Join(parts, "; ")
}

// Message returns the message for field, if any.
func (e *ValidationError) Message(field string) string {
	for _, f := range e.Fields {
		if f.Field == field {
			return f.Message
		}
	}
	return ""
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
	return v
}

// Validate trims the text fields and checks every rule.
func (f *Form) Validate() error {
	f.Name = strings.TrimSpace(f.Name)
	f.Description = strings.TrimSpace(f.Description)

	err := validate.Struct(f)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &ValidationError{}
	seen := make(map[string]bool)
	for _, fe := range verrs {
		field := topField(fe.Namespace())
		if seen[field] {
			continue
		}
		seen[field] = true
		out.Fields = append(out.Fields, FieldError{Field: field, Message: message(field, fe)})
	}
	return out
}

// topField maps "Form.sampleImages[0].url" to "sampleImages".
func topField(ns string) string {
	_, rest, ok := strings.Cut(ns, ".")
	if !ok {
		return ns
	}
	if i := strings.IndexAny(rest, ".["); i >= 0 {
		return rest[:i]
	}
	return rest
}

func message(field string, fe validator.FieldError) string {
	switch field {
	case "name":
		if fe.Tag() == "required" {
			return "El nombre es requerido"
		}
		return "El nombre debe tener al menos 3 caracteres"
	case "description":
		return "La descripción es requerida"
	case "sampleImages":
		if fe.Tag() == "min" {
			return "Se requieren al menos 3 imágenes de muestra"
		}
		return "Cada imagen de muestra necesita una URL"
	case "confidenceThreshold":
		return "El umbral de confianza debe estar entre 50% y 95%"
	case "type":
		return "Tipo de categoría no válido"
	case "status":
		return "Estado no válido"
	default:
		return fmt.Sprintf("%s no es válido (%s)", field, fe.Tag())
	}
}
