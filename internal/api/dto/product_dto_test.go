package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProductPatch(t *testing.T) {
	t.Parallel()

	patch, problems, err := ParseProductPatch([]byte(`{"quantity": 7, "description": null, "unknown": true}`))
	require.NoError(t, err)
	assert.Nil(t, problems)
	require.NotNil(t, patch.Quantity)
	assert.Equal(t, int64(7), *patch.Quantity)
	assert.True(t, patch.ClearDescription)
	assert.Nil(t, patch.Name)
	assert.Nil(t, patch.SKU)
	assert.Nil(t, patch.Price)
	assert.Nil(t, patch.Category)

	patch, problems, err = ParseProductPatch([]byte(`{"name": "Gadget", "price": 1.5, "description": "red"}`))
	require.NoError(t, err)
	assert.Nil(t, problems)
	assert.Equal(t, "Gadget", *patch.Name)
	assert.Equal(t, 1.5, *patch.Price)
	assert.Equal(t, "red", *patch.Description)
	assert.False(t, patch.ClearDescription)

	patch, problems, err = ParseProductPatch([]byte(`{}`))
	require.NoError(t, err)
	assert.Nil(t, problems)
	assert.Nil(t, patch.Quantity)
}

func TestParseProductPatchProblems(t *testing.T) {
	t.Parallel()

	_, problems, err := ParseProductPatch([]byte(`{"quantity": -1, "price": "free", "name": "", "sku": null, "description": 3}`))
	require.NoError(t, err)
	assert.Contains(t, problems, "quantity")
	assert.Contains(t, problems, "price")
	assert.Contains(t, problems, "name")
	assert.Contains(t, problems, "sku")
	assert.Contains(t, problems, "description")

	_, problems, err = ParseProductPatch([]byte(`{"quantity": 1.5}`))
	require.NoError(t, err)
	assert.Contains(t, problems, "quantity")

	for _, body := range []string{``, `[]`, `null`, `"x"`, `{`} {
		_, _, err := ParseProductPatch([]byte(body))
		assert.ErrorIs(t, err, ErrMalformedBody, body)
	}
}

func TestProductCreateRequestValidate(t *testing.T) {
	t.Parallel()

	qty, price := int64(5), 9.99
	ok := ProductCreateRequest{Name: "Widget", SKU: "W1", Quantity: &qty, Price: &price}
	assert.Nil(t, ok.Validate())

	negQty, negPrice := int64(-1), -0.5
	bad := ProductCreateRequest{Name: " ", Quantity: &negQty, Price: &negPrice}
	problems := bad.Validate()
	assert.Len(t, problems, 4)

	missing := ProductCreateRequest{Name: "Widget", SKU: "W1"}
	assert.Equal(t, map[string]any{"quantity": "required", "price": "required"}, missing.Validate())
}

func TestUserRegisterRequestValidate(t *testing.T) {
	t.Parallel()

	req := UserRegisterRequest{Username: " alice ", Email: "a@x.io", Password: "pw"}
	assert.Nil(t, req.Validate())
	assert.Equal(t, "alice", req.Username)

	bad := UserRegisterRequest{Email: "nope", Password: string([]byte{0xff})}
	problems := bad.Validate()
	assert.Equal(t, "required", problems["username"])
	assert.Equal(t, "must be an email address", problems["email"])
	assert.Equal(t, "must be valid UTF-8", problems["password"])
}
