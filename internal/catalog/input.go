package catalog

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var (
	// ErrMissingTitle indicates a create or update without a title
	ErrMissingTitle = errors.New("title is required")

	// ErrInvalidPrice indicates a missing, zero or negative price
	ErrInvalidPrice = errors.New("price must be greater than zero")

	// ErrMissingCategory indicates a create without a category id
	ErrMissingCategory = errors.New("category is required")

	// ErrMissingImage indicates a create without a first image URL
	ErrMissingImage = errors.New("at least one image URL is required")

	// ErrEmptyUpdate indicates an update that changes nothing
	ErrEmptyUpdate = errors.New("update must set at least one of title, price, description")
)

// ValidationError reports the first field that failed validation.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

// CreateInput is the payload for creating a product. Field order matters:
// validation reports the first failing field in declaration order.
type CreateInput struct {
	Title       string   `json:"title" validate:"required"`
	Price       float64  `json:"price" validate:"gt=0"`
	Description string   `json:"description"`
	CategoryID  int      `json:"categoryId" validate:"gt=0"`
	Images      []string `json:"images" validate:"min=1,dive,required"`
}

// Normalize trims text fields and drops blank image URLs after the first one.
// A blank first image is kept so that validation rejects it.
func (in CreateInput) Normalize() CreateInput {
	out := in
	out.Title = strings.TrimSpace(in.Title)
	out.Description = strings.TrimSpace(in.Description)
	out.Images = nil
	for i, img := range in.Images {
		img = strings.TrimSpace(img)
		if i > 0 && img == "" {
			continue
		}
		out.Images = append(out.Images, img)
	}
	return out
}

// Validate returns a *ValidationError for the first invalid field, checking
// title, price, category and first image in that order.
func (in CreateInput) Validate() error {
	return firstFieldError(validate.Struct(in))
}

// UpdateInput is a partial update. Nil fields are left untouched.
type UpdateInput struct {
	Title       *string  `json:"title,omitempty" validate:"omitnil,notblank"`
	Price       *float64 `json:"price,omitempty" validate:"omitnil,gt=0"`
	Description *string  `json:"description,omitempty"`
}

// Normalize trims the title and description. Nil fields stay nil.
func (in UpdateInput) Normalize() UpdateInput {
	out := in
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		out.Title = &title
	}
	if in.Description != nil {
		description := strings.TrimSpace(*in.Description)
		out.Description = &description
	}
	return out
}

// Validate rejects empty updates, blank titles and non-positive prices.
func (in UpdateInput) Validate() error {
	if in.Title == nil && in.Price == nil && in.Description == nil {
		return &ValidationError{Field: "update", Err: ErrEmptyUpdate}
	}
	return firstFieldError(validate.Struct(in))
}

func firstFieldError(err error) error {
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	field := fieldErrs[0].StructField()
	switch {
	case field == "Title":
		return &ValidationError{Field: "title", Err: ErrMissingTitle}
	case field == "Price":
		return &ValidationError{Field: "price", Err: ErrInvalidPrice}
	case field == "CategoryID":
		return &ValidationError{Field: "categoryId", Err: ErrMissingCategory}
	case strings.HasPrefix(field, "Images"):
		return &ValidationError{Field: "images", Err: ErrMissingImage}
	default:
		return &ValidationError{Field: strings.ToLower(field), Err: fieldErrs[0]}
	}
}
