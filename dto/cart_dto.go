package dto

type AddCartItemDTO struct {
	ProductID string            `json:"productId" binding:"required"`
	Quantity  int               `json:"quantity" binding:"required,min=1"`
	Options   map[string]string `json:"options"`
}

// UpdateCartItemDTO changes the quantity, the option selection or both.
type UpdateCartItemDTO struct {
	Quantity *int              `json:"quantity"`
	Options  map[string]string `json:"options"`
}
