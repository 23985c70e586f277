package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestCreatePayloadRejectsWhitespaceOnlyName(t *testing.T) {
	payload := CreateProductPayload{Name: "   "}
	payload.normalize()

	assert.Error(t, Validate.Struct(payload))
}

func TestCreatePayloadTrimsNameAndBrand(t *testing.T) {
	payload := CreateProductPayload{
		Name:  "  Hyaluronic Serum  ",
		Brand: strPtr("  The Ordinary  "),
	}
	payload.normalize()

	require.NoError(t, Validate.Struct(payload))
	assert.Equal(t, "Hyaluronic Serum", payload.Name)
	require.NotNil(t, payload.Brand)
	assert.Equal(t, "The Ordinary", *payload.Brand)
}

func TestCreatePayloadBlankBrandBecomesAbsent(t *testing.T) {
	payload := CreateProductPayload{
		Name:  "Cleanser",
		Brand: strPtr("   "),
	}
	payload.normalize()

	require.NoError(t, Validate.Struct(payload))
	assert.Nil(t, payload.Brand)
}

func TestUpdatePayloadRejectsEmptyName(t *testing.T) {
	for _, name := range []string{"", "   "} {
		payload := UpdateProductPayload{Name: strPtr(name)}
		assert.Error(t, payload.normalize(), "name %q must not pass", name)
	}
}

func TestUpdatePayloadTrimsName(t *testing.T) {
	payload := UpdateProductPayload{Name: strPtr("  Retinol Cream  ")}

	require.NoError(t, payload.normalize())
	require.NotNil(t, payload.Name)
	assert.Equal(t, "Retinol Cream", *payload.Name)
}

func TestUpdatePayloadBlankBrandMeansClear(t *testing.T) {
	payload := UpdateProductPayload{Brand: strPtr("   ")}

	require.NoError(t, payload.normalize())
	require.NotNil(t, payload.Brand)
	assert.Equal(t, "", *payload.Brand)
}

func TestPhotoURLRequiresHTTPScheme(t *testing.T) {
	for _, bad := range []string{
		"ftp://cdn.example.com/photo.jpg",
		"data:image/png;base64,AAAA",
		"file:///etc/passwd",
	} {
		payload := CreateProductPayload{Name: "Toner", PhotoURL: strPtr(bad)}
		payload.normalize()
		assert.Error(t, Validate.Struct(payload), "url %q must not pass", bad)
	}

	payload := CreateProductPayload{
		Name:     "Toner",
		PhotoURL: strPtr("https://cdn.example.com/product-photos/7/photo.jpg"),
	}
	payload.normalize()
	assert.NoError(t, Validate.Struct(payload))

	update := UpdateProductPayload{PhotoURL: strPtr("ftp://cdn.example.com/photo.jpg")}
	require.NoError(t, update.normalize())
	assert.Error(t, Validate.Struct(update))
}
