// Package database - Index bổ sung cho shop (text index có trọng số, compound) không thể định nghĩa qua model tags.
package database

import (
	"context"
	"strings"

	"shop_commerce/internal/global"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateShopAdditionalIndexes tạo các index bổ sung cho shop.
// Gọi sau CreateIndexes cho từng collection.
func CreateShopAdditionalIndexes(ctx context.Context, db *mongo.Database) error {
	// catalog_products: text index có trọng số trên name/description/tags — tìm kiếm sản phẩm
	// Tên khớp được xếp hạng cao hơn mô tả, mô tả cao hơn tags
	products := db.Collection(global.MongoDB_ColNames.Products)
	if _, err := products.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "name", Value: "text"},
			{Key: "description", Value: "text"},
			{Key: "tags", Value: "text"},
		},
		Options: options.Index().
			SetName("product_search_text").
			SetWeights(bson.D{
				{Key: "name", Value: 10},
				{Key: "description", Value: 5},
				{Key: "tags", Value: 1},
			}),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// catalog_products: (categoryId, isActive, isDeleted) — duyệt sản phẩm theo danh mục
	if _, err := products.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "categoryId", Value: 1},
			{Key: "isActive", Value: 1},
			{Key: "isDeleted", Value: 1},
		},
		Options: options.Index().SetName("product_category_active"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// shop_orders: (userId, createdAt) — danh sách đơn của user mới nhất trước
	orders := db.Collection(global.MongoDB_ColNames.Orders)
	if _, err := orders.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "userId", Value: 1},
			{Key: "createdAt", Value: -1},
		},
		Options: options.Index().SetName("order_user_created"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// notification_queue: (status, createdAt) — worker lấy batch pending cũ nhất
	notifications := db.Collection(global.MongoDB_ColNames.NotificationQueue)
	if _, err := notifications.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "status", Value: 1},
			{Key: "createdAt", Value: 1},
		},
		Options: options.Index().SetName("notification_status_created"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	return nil
}

func isIndexExistsError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "already exists") || strings.Contains(s, "duplicate")
}
