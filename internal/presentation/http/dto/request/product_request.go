package request

// CreateProductRequest represents a product creation request
type CreateProductRequest struct {
	Name               string  `json:"name" binding:"required,min=2,max=255"`
	SKU                string  `json:"sku" binding:"omitempty,max=100"`
	Barcode            *string `json:"barcode" binding:"omitempty,max=100"`
	BaseUnit           string  `json:"base_unit" binding:"omitempty,max=50"`
	SellingPrice       int64   `json:"selling_price" binding:"min=0"`
	Taxable            bool    `json:"taxable"`
	Quantity           int     `json:"quantity" binding:"min=0"`
	QuantityAlert      int     `json:"quantity_alert" binding:"min=0"`
	AllowNegativeStock bool    `json:"allow_negative_stock"`
}

// UpdateProductRequest represents a product update request
type UpdateProductRequest struct {
	Name               *string `json:"name" binding:"omitempty,min=2,max=255"`
	Barcode            *string `json:"barcode" binding:"omitempty,max=100"`
	SellingPrice       *int64  `json:"selling_price" binding:"omitempty,min=0"`
	Taxable            *bool   `json:"taxable"`
	QuantityAlert      *int    `json:"quantity_alert" binding:"omitempty,min=0"`
	AllowNegativeStock *bool   `json:"allow_negative_stock"`
}

// AddUnitRequest represents a conversion unit creation request
type AddUnitRequest struct {
	Name           string  `json:"name" binding:"required,min=1,max=50"`
	ConversionRate int     `json:"conversion_rate" binding:"required,min=1"`
	Price          *int64  `json:"price" binding:"omitempty,min=0"`
	Barcode        *string `json:"barcode" binding:"omitempty,max=100"`
}

// AdjustStockRequest represents a manual stock correction
type AdjustStockRequest struct {
	Delta int `json:"delta" binding:"required"`
}
