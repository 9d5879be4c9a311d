// Package models - các model thuộc domain catalog (Category, Product).
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category định nghĩa mô hình danh mục sản phẩm.
// ParentID trỏ tới danh mục cha (NilObjectID nếu là danh mục gốc).
// Ancestors chứa chuỗi ID từ gốc đến cha trực tiếp, phục vụ truy vấn cây danh mục.
type Category struct {
	ID          primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Name        string               `json:"name" bson:"name" index:"single"`
	Description string               `json:"description,omitempty" bson:"description,omitempty"`
	ParentID    primitive.ObjectID   `json:"parentId,omitempty" bson:"parentId,omitempty" index:"single"`
	Ancestors   []primitive.ObjectID `json:"ancestors" bson:"ancestors"`
	IsActive    bool                 `json:"isActive" bson:"isActive"`
	IsDeleted   bool                 `json:"-" bson:"isDeleted"`
	CreatedAt   int64                `json:"createdAt" bson:"createdAt"`
	UpdatedAt   int64                `json:"updatedAt" bson:"updatedAt"`
}
