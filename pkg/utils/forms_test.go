package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type sampleForm struct {
	Title  string `form:"title" validate:"required,max=10"`
	Email  string `form:"email" validate:"omitempty,email"`
	Rating int    `form:"rating" validate:"required,min=1,max=5"`
}

func TestValidateForm_Valid(t *testing.T) {
	errs := ValidateForm(sampleForm{Title: "ok", Rating: 3})
	assert.Nil(t, errs)
}

func TestValidateForm_UsesFormFieldNames(t *testing.T) {
	errs := ValidateForm(sampleForm{Email: "nope", Rating: 9})

	assert.Equal(t, []string{"This field is required."}, errs["title"])
	assert.Equal(t, []string{"Enter a valid email address."}, errs["email"])
	assert.Equal(t, []string{"Ensure this value is less than or equal to 5."}, errs["rating"])
}

func TestValidateForm_MaxLengthMessageCountsRunes(t *testing.T) {
	errs := ValidateForm(sampleForm{Title: strings.Repeat("é", 11), Rating: 1})

	assert.True(t, errs.Has("title"))
	assert.Equal(t, "Ensure this value has at most 10 characters (it has 11).", errs["title"][0])
}
