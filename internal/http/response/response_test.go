package response

import (
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOK(t *testing.T) {
	resp := OK("book returned successfully")

	assert.True(t, resp.Success)
	assert.Equal(t, "book returned successfully", resp.Message)
	assert.Nil(t, resp.Data)
}

func TestOKWithData(t *testing.T) {
	data := map[string]any{"uid": "8d3a6f2e"}
	resp := OKWithData("user registered successfully", data)

	assert.True(t, resp.Success)
	assert.Equal(t, "user registered successfully", resp.Message)
	assert.Equal(t, data, resp.Data)
}

func TestError(t *testing.T) {
	resp := Error("book not found")

	assert.False(t, resp.Success)
	assert.Equal(t, "book not found", resp.Message)
	assert.Nil(t, resp.Data)
}

func TestValidationError(t *testing.T) {
	type payload struct {
		Name     string `validate:"required"`
		Email    string `validate:"required,email"`
		Quantity int    `validate:"gt=0"`
	}

	v := validator.New()
	err := v.Struct(payload{Email: "not-an-email"})
	require.Error(t, err)

	verrs, ok := err.(validator.ValidationErrors)
	require.True(t, ok)

	resp := ValidationError(verrs)

	assert.False(t, resp.Success)
	assert.Contains(t, resp.Message, "field Name is a required field")
	assert.Contains(t, resp.Message, "field Email must be a valid email")
	assert.Contains(t, resp.Message, "field Quantity must be greater than 0")
}
