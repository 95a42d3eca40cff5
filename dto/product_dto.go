package dto

import "github.com/dryp/marketplace/models"

// ProductDTO is the create payload and the body of a draft validation.
type ProductDTO struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Brand       string           `json:"brand"`
	Category    string           `json:"category"`
	Tags        []string         `json:"tags"`
	BasePrice   float64          `json:"basePrice"`
	SKU         string           `json:"sku"`
	Stock       int              `json:"stock"`
	Options     []models.Option  `json:"options"`
	Variants    []models.Variant `json:"variants"`
	Images      []models.Image   `json:"images"`
	IsActive    *bool            `json:"isActive"`
}

// Product builds the document. Products are active unless told otherwise.
func (d ProductDTO) Product() models.Product {
	active := true
	if d.IsActive != nil {
		active = *d.IsActive
	}
	return models.Product{
		Name:        d.Name,
		Description: d.Description,
		Brand:       d.Brand,
		Category:    d.Category,
		Tags:        d.Tags,
		BasePrice:   d.BasePrice,
		SKU:         d.SKU,
		Stock:       d.Stock,
		Options:     d.Options,
		Variants:    d.Variants,
		Images:      d.Images,
		IsActive:    active,
	}
}

// UpdateProductDTO fields are optional; nil leaves the value unchanged.
type UpdateProductDTO struct {
	Name        *string           `json:"name,omitempty"`
	Description *string           `json:"description,omitempty"`
	Brand       *string           `json:"brand,omitempty"`
	Category    *string           `json:"category,omitempty"`
	Tags        *[]string         `json:"tags,omitempty"`
	BasePrice   *float64          `json:"basePrice,omitempty"`
	SKU         *string           `json:"sku,omitempty"`
	Stock       *int              `json:"stock,omitempty"`
	Options     *[]models.Option  `json:"options,omitempty"`
	Variants    *[]models.Variant `json:"variants,omitempty"`
	Images      *[]models.Image   `json:"images,omitempty"`
	IsActive    *bool             `json:"isActive,omitempty"`
}

// Apply copies the provided fields onto p and returns the images, product
// or variant level, that p no longer references.
func (d UpdateProductDTO) Apply(p *models.Product) []models.Image {
	before := p.AllImages()
	if d.Name != nil {
		p.Name = *d.Name
	}
	if d.Description != nil {
		p.Description = *d.Description
	}
	if d.Brand != nil {
		p.Brand = *d.Brand
	}
	if d.Category != nil {
		p.Category = *d.Category
	}
	if d.Tags != nil {
		p.Tags = *d.Tags
	}
	if d.BasePrice != nil {
		p.BasePrice = *d.BasePrice
	}
	if d.SKU != nil {
		p.SKU = *d.SKU
	}
	if d.Stock != nil {
		p.Stock = *d.Stock
	}
	if d.Options != nil {
		p.Options = *d.Options
	}
	if d.Variants != nil {
		p.Variants = *d.Variants
	}
	if d.Images != nil {
		p.Images = *d.Images
	}
	if d.IsActive != nil {
		p.IsActive = *d.IsActive
	}

	kept := make(map[string]bool)
	for _, img := range p.AllImages() {
		kept[img.PublicID] = true
	}
	var removed []models.Image
	for _, img := range before {
		if img.PublicID == "" || kept[img.PublicID] {
			continue
		}
		kept[img.PublicID] = true // report each id once
		removed = append(removed, img)
	}
	return removed
}
