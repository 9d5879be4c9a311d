package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductAttribute một thuộc tính động của sản phẩm (màu sắc, kích cỡ...).
type ProductAttribute struct {
	Key   string `json:"key" bson:"key"`
	Value string `json:"value" bson:"value"`
}

// Product định nghĩa mô hình sản phẩm.
// Text index có trọng số (name > description > tags) được tạo riêng trong database.CreateShopAdditionalIndexes
// vì tag index không biểu diễn được trọng số.
type Product struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Price       float64            `json:"price" bson:"price"`
	Stock       int64              `json:"stock" bson:"stock"`
	CategoryID  primitive.ObjectID `json:"categoryId,omitempty" bson:"categoryId,omitempty" index:"single"`
	Tags        []string           `json:"tags" bson:"tags" index:"single"`
	Attributes  []ProductAttribute `json:"attributes" bson:"attributes"`
	Images      []string           `json:"images,omitempty" bson:"images,omitempty"`
	IsActive    bool               `json:"isActive" bson:"isActive"`
	IsDeleted   bool               `json:"-" bson:"isDeleted"`
	CreatedAt   int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt   int64              `json:"updatedAt" bson:"updatedAt"`
}
