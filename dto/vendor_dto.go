package dto

import "github.com/dryp/marketplace/models"

// RegisterVendorDTO creates the user account and its store in one call.
type RegisterVendorDTO struct {
	OwnerName   string         `json:"ownerName" binding:"required"`
	Email       string         `json:"email" binding:"required,email"`
	Password    string         `json:"password" binding:"required,min=6"`
	VendorName  string         `json:"vendorName" binding:"required"`
	Description string         `json:"description"`
	Phone       string         `json:"phone"`
	Website     string         `json:"website"`
	Address     models.Address `json:"address"`
}

type UpdateVendorDTO struct {
	Name        *string         `json:"name,omitempty"`
	Description *string         `json:"description,omitempty"`
	Phone       *string         `json:"phone,omitempty"`
	Website     *string         `json:"website,omitempty"`
	Address     *models.Address `json:"address,omitempty"`
	Logo        *models.Image   `json:"logo,omitempty"`
}
