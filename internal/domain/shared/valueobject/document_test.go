package valueobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocumentShape(t *testing.T) {
	assert.True(t, ValidDocumentShape("12.345.678/0001-90"))
	assert.True(t, ValidDocumentShape("12345678000190"))
	assert.True(t, ValidDocumentShape("123.456.789-09"))
	assert.False(t, ValidDocumentShape("12.345.678/0001"))
	assert.False(t, ValidDocumentShape("12.345.678/0001-9X"))
}

func TestFormatDocument(t *testing.T) {
	assert.Equal(t, "12.345.678/0001-90", FormatDocument("12345678000190"))
	assert.Equal(t, "123.456.789-09", FormatDocument("12345678909"))
	assert.Equal(t, "abc", FormatDocument(" abc "))
}

func TestDocumentCheckDigitsValid(t *testing.T) {
	t.Run("valid cnpj", func(t *testing.T) {
		assert.True(t, DocumentCheckDigitsValid("12.345.678/0001-95"))
	})
	t.Run("wrong cnpj check digits", func(t *testing.T) {
		assert.False(t, DocumentCheckDigitsValid("12.345.678/0001-90"))
	})
	t.Run("valid cpf", func(t *testing.T) {
		assert.True(t, DocumentCheckDigitsValid("123.456.789-09"))
	})
	t.Run("repeated digits", func(t *testing.T) {
		assert.False(t, DocumentCheckDigitsValid("11.111.111/1111-11"))
	})
	t.Run("wrong length", func(t *testing.T) {
		assert.False(t, DocumentCheckDigitsValid("1234"))
	})
}

func TestValidState(t *testing.T) {
	assert.True(t, ValidState("sp"))
	assert.True(t, ValidState(" RS "))
	assert.False(t, ValidState("XX"))
}
