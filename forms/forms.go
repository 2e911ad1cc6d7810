// Package forms decodes and validates submitted form bodies. It is a pure
// check: nothing here touches the entity store.
package forms

import (
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
	"github.com/gravitational/trace"

	"go-campgrounds/models"
)

var (
	decoder  = newDecoder()
	validate = newValidator()
)

func newDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}

func newValidator() *validator.Validate {
	v := validator.New()
	// report violations under the form field name, not the Go field name
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("schema"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// CampgroundForm is the submitted body for creating or updating a
// campground. The author is never part of the body.
type CampgroundForm struct {
	Title        string   `schema:"title" validate:"required"`
	Price        *float64 `schema:"price" validate:"required,min=0"`
	Description  string   `schema:"description" validate:"required"`
	Location     string   `schema:"location" validate:"required"`
	Longitude    *float64 `schema:"longitude" validate:"required,min=-180,max=180"`
	Latitude     *float64 `schema:"latitude" validate:"required,min=-90,max=90"`
	ImageURLs    []string `schema:"image_url" validate:"-"`
	ImageNames   []string `schema:"image_filename" validate:"-"`
	DeleteImages []string `schema:"delete_images" validate:"-"`
}

// Images pairs up the submitted image URLs and filenames.
func (f *CampgroundForm) Images() []models.Image {
	var images []models.Image
	for i, u := range f.ImageURLs {
		if u == "" {
			continue
		}
		img := models.Image{URL: u}
		if i < len(f.ImageNames) {
			img.Filename = f.ImageNames[i]
		}
		images = append(images, img)
	}
	return images
}

// Update converts the form into the mutable-field set of a campground.
func (f *CampgroundForm) Update() models.CampgroundUpdate {
	return models.CampgroundUpdate{
		Title:        f.Title,
		Price:        *f.Price,
		Description:  f.Description,
		Location:     f.Location,
		Geometry:     models.NewPoint(*f.Longitude, *f.Latitude),
		AddImages:    f.Images(),
		DeleteImages: f.DeleteImages,
	}
}

// ReviewForm is the submitted body for creating a review.
type ReviewForm struct {
	Body   string `schema:"body" validate:"required"`
	Rating int    `schema:"rating" validate:"min=1,max=5"`
}

// RegisterForm is the submitted body for creating an account.
type RegisterForm struct {
	Email    string `schema:"email" validate:"required,email"`
	Username string `schema:"username" validate:"required"`
	Password string `schema:"password" validate:"required,min=6"`
}

// LoginForm is the submitted login credentials.
type LoginForm struct {
	Username string `schema:"username" validate:"required"`
	Password string `schema:"password" validate:"required"`
}

// DecodeCampground parses and validates a campground form body.
func DecodeCampground(values url.Values) (*CampgroundForm, error) {
	var f CampgroundForm
	if err := decodeAndValidate(&f, values); err != nil {
		return nil, trace.Wrap(err)
	}
	return &f, nil
}

// DecodeReview parses and validates a review form body.
func DecodeReview(values url.Values) (*ReviewForm, error) {
	var f ReviewForm
	if err := decodeAndValidate(&f, values); err != nil {
		return nil, trace.Wrap(err)
	}
	return &f, nil
}

// DecodeRegister parses and validates a registration form body.
func DecodeRegister(values url.Values) (*RegisterForm, error) {
	var f RegisterForm
	if err := decodeAndValidate(&f, values); err != nil {
		return nil, trace.Wrap(err)
	}
	return &f, nil
}

// DecodeLogin parses and validates a login form body.
func DecodeLogin(values url.Values) (*LoginForm, error) {
	var f LoginForm
	if err := decodeAndValidate(&f, values); err != nil {
		return nil, trace.Wrap(err)
	}
	return &f, nil
}

func decodeAndValidate(dst interface{}, values url.Values) error {
	if err := decoder.Decode(dst, values); err != nil {
		return trace.BadParameter("invalid form body")
	}
	if err := validate.Struct(dst); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return trace.BadParameter("invalid form body")
		}
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fieldMessage(fe))
		}
		return trace.BadParameter("%s", strings.Join(msgs, ", "))
	}
	return nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
