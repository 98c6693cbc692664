package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// prices go over the wire as JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true
}

// Product represents a product in the store.
type Product struct {
	ID              string          `json:"id" gorm:"primaryKey;type:varchar(36)" bson:"_id"`
	ProductName     string          `json:"productName" gorm:"type:varchar(255);not null" bson:"productName"`
	ProductImage    string          `json:"productImage" gorm:"type:text;not null" bson:"productImage"`
	Price           decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null" bson:"price"`
	Description     string          `json:"description" gorm:"type:text" bson:"description"`
	OptionalDetails string          `json:"optionalDetails,omitempty" gorm:"type:text" bson:"optionalDetails,omitempty"`
	CreatedAt       time.Time       `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt" bson:"updatedAt"`
}
