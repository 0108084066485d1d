package schema

import (
	"fmt"

	"github.com/arvel0/canopy/pkg/domain"
)

// Type defines the contract for field validation.
// Implementations determine how values are validated against a type.
type Type interface {
	// Name returns the human-readable name of the type (e.g., "string", "image").
	Name() string
	// Validate checks if a value conforms to this type.
	Validate(value any) error
}

// --- Built-in Type Implementations ---

// StringType validates string values.
type StringType struct{}

func (t *StringType) Name() string { return "string" }

func (t *StringType) Validate(value any) error {
	_, ok := value.(string)
	if !ok {
		return fmt.Errorf("expected string, got %T", value)
	}
	return nil
}

// ImageType validates image payloads.
type ImageType struct{}

func (t *ImageType) Name() string { return "image" }

func (t *ImageType) Validate(value any) error {
	img, ok := value.(*domain.Image)
	if !ok {
		return fmt.Errorf("expected image, got %T", value)
	}
	if len(img.Data) == 0 {
		return fmt.Errorf("image payload is empty")
	}
	return nil
}

// ChoiceType validates strings constrained to a fixed option list.
type ChoiceType struct {
	options []string
}

func (t *ChoiceType) Name() string { return "choice" }

// Options returns the allowed values. Host UIs render these as a dropdown.
func (t *ChoiceType) Options() []string {
	out := make([]string, len(t.options))
	copy(out, t.options)
	return out
}

func (t *ChoiceType) Validate(value any) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("expected string choice, got %T", value)
	}
	for _, opt := range t.options {
		if s == opt {
			return nil
		}
	}
	return fmt.Errorf("value %q is not one of the allowed choices", s)
}

// CustomType applies a user-defined validation function.
type CustomType struct {
	name     string
	validate func(any) error
}

func (t *CustomType) Name() string { return t.name }

func (t *CustomType) Validate(value any) error {
	return t.validate(value)
}

// --- Factory Functions ---

// String creates a string type validator.
func String() Type { return &StringType{} }

// Image creates an image type validator.
func Image() Type { return &ImageType{} }

// Choice creates a validator for a fixed list of string options.
func Choice(options ...string) Type { return &ChoiceType{options: options} }

// Custom creates a custom type validator with a user-defined function.
func Custom(name string, validate func(any) error) Type {
	return &CustomType{name: name, validate: validate}
}
