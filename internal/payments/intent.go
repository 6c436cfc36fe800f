package payments

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Metadata keys attached to the provider-held checkout session. The session
// metadata is the only storage the order intent has until the webhook fires,
// and the only place the materialized order id is linked back to.
const (
	MetadataItemsKey   = "items"
	MetadataUserIDKey  = "userId"
	MetadataOrderIDKey = "orderId"
)

var (
	ErrEmptyCart       = errors.New("cart has no items")
	ErrInvalidQuantity = errors.New("item quantity must be at least 1")
	ErrNoIntent        = errors.New("session metadata carries no order intent")
)

// ProductSnapshot is the client-held view of a product at the moment it was
// put in the cart. Price is in minor currency units.
type ProductSnapshot struct {
	Name        string `json:"name" binding:"required"`
	Price       int64  `json:"price" binding:"required"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
}

// CartItem is one entry of the client-owned cart. It has no backend identity
// until checkout turns the cart into a session.
type CartItem struct {
	ProductID string          `json:"productId" binding:"required"`
	Product   ProductSnapshot `json:"product" binding:"required"`
	Quantity  int64           `json:"quantity" binding:"required,min=1"`
}

// IntentItem is the minimal per-item payload that survives the provider's
// metadata size limits: no names, descriptions or images, just what the
// materializer needs to rebuild order rows.
type IntentItem struct {
	ProductID string `json:"id"`
	Quantity  int64  `json:"quantity"`
	UnitPrice int64  `json:"price"`
}

// CheckoutIntent is the order intent reconstructed from session metadata
// when the provider reports the session completed.
type CheckoutIntent struct {
	Items  []IntentItem
	UserID string // empty means guest
}

// EncodeIntentMetadata serializes the cart into session metadata values.
func EncodeIntentMetadata(items []CartItem, userID string) (map[string]string, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	intentItems := make([]IntentItem, 0, len(items))
	for _, item := range items {
		if item.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
		intentItems = append(intentItems, IntentItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.Product.Price,
		})
	}

	encoded, err := json.Marshal(intentItems)
	if err != nil {
		return nil, fmt.Errorf("encode intent items: %w", err)
	}

	metadata := map[string]string{MetadataItemsKey: string(encoded)}
	if userID != "" {
		metadata[MetadataUserIDKey] = userID
	}
	return metadata, nil
}

// DecodeIntent rebuilds the checkout intent from session metadata. Absent,
// unparsable or empty item payloads all come back as errors; the caller on
// the webhook path drops those without failing the delivery, since the
// provider cannot fix metadata it did not produce.
func DecodeIntent(metadata map[string]string) (CheckoutIntent, error) {
	raw, ok := metadata[MetadataItemsKey]
	if !ok || raw == "" {
		return CheckoutIntent{}, ErrNoIntent
	}

	var items []IntentItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return CheckoutIntent{}, fmt.Errorf("decode intent items: %w", err)
	}
	if len(items) == 0 {
		return CheckoutIntent{}, ErrEmptyCart
	}
	for _, item := range items {
		if item.Quantity < 1 {
			return CheckoutIntent{}, ErrInvalidQuantity
		}
	}

	return CheckoutIntent{
		Items:  items,
		UserID: metadata[MetadataUserIDKey],
	}, nil
}
