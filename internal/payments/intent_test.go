package payments

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeIntentRoundTrip(t *testing.T) {
	items := []CartItem{
		{ProductID: "prod-a", Product: ProductSnapshot{Name: "Coffee", Price: 1000, Description: "whole beans", ImageURL: "https://img/a.png"}, Quantity: 2},
		{ProductID: "prod-b", Product: ProductSnapshot{Name: "Mug", Price: 2500}, Quantity: 1},
		{ProductID: "prod-c", Product: ProductSnapshot{Name: "Filter", Price: 300}, Quantity: 5},
	}

	metadata, err := EncodeIntentMetadata(items, "user-42")
	require.NoError(t, err)

	intent, err := DecodeIntent(metadata)
	require.NoError(t, err)

	require.Len(t, intent.Items, len(items))
	assert.Equal(t, "user-42", intent.UserID)
	for i, item := range items {
		assert.Equal(t, item.ProductID, intent.Items[i].ProductID)
		assert.Equal(t, item.Quantity, intent.Items[i].Quantity)
		assert.Equal(t, item.Product.Price, intent.Items[i].UnitPrice)
	}
}

func TestEncodeIntentMetadataKeepsOnlyMinimalFields(t *testing.T) {
	items := []CartItem{
		{ProductID: "prod-a", Product: ProductSnapshot{Name: "Coffee", Price: 1000, Description: "long description", ImageURL: "https://img/a.png"}, Quantity: 1},
	}

	metadata, err := EncodeIntentMetadata(items, "")
	require.NoError(t, err)

	// Descriptions and images must not leak into metadata: the values have
	// to fit the provider's size limits.
	assert.NotContains(t, metadata[MetadataItemsKey], "description")
	assert.NotContains(t, metadata[MetadataItemsKey], "img")
	assert.NotContains(t, metadata, MetadataUserIDKey)
}

func TestEncodeIntentMetadataRejectsEmptyCart(t *testing.T) {
	_, err := EncodeIntentMetadata(nil, "user-1")
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestEncodeIntentMetadataRejectsZeroQuantity(t *testing.T) {
	items := []CartItem{
		{ProductID: "prod-a", Product: ProductSnapshot{Name: "Coffee", Price: 1000}, Quantity: 0},
	}
	_, err := EncodeIntentMetadata(items, "")
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestDecodeIntentMissingMetadata(t *testing.T) {
	_, err := DecodeIntent(map[string]string{})
	assert.ErrorIs(t, err, ErrNoIntent)

	_, err = DecodeIntent(map[string]string{MetadataItemsKey: ""})
	assert.ErrorIs(t, err, ErrNoIntent)
}

func TestDecodeIntentUnparsableItems(t *testing.T) {
	_, err := DecodeIntent(map[string]string{MetadataItemsKey: "{not json"})
	assert.Error(t, err)
}

func TestDecodeIntentEmptyItemList(t *testing.T) {
	_, err := DecodeIntent(map[string]string{MetadataItemsKey: "[]"})
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestDecodeIntentRejectsNonPositiveQuantity(t *testing.T) {
	_, err := DecodeIntent(map[string]string{MetadataItemsKey: `[{"id":"p","quantity":0,"price":100}]`})
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}
