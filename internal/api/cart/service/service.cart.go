// Package cartsvc - service giỏ hàng.
package cartsvc

import (
	"context"
	"errors"
	"fmt"
	"time"

	basesvc "shop_commerce/internal/api/base/service"
	cartmodels "shop_commerce/internal/api/cart/models"
	"shop_commerce/internal/common"
	"shop_commerce/internal/global"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CartService là cấu trúc chứa các phương thức liên quan đến giỏ hàng.
// Các thao tác thêm/gỡ hàng dùng update atomic trên document giỏ để an toàn
// khi nhiều request của cùng một user chạy song song.
type CartService struct {
	*basesvc.BaseServiceMongoImpl[cartmodels.Cart]
}

// NewCartService tạo mới CartService
func NewCartService() (*CartService, error) {
	collection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Carts)
	if !exist {
		return nil, fmt.Errorf("failed to get carts collection: %v", common.ErrNotFound)
	}
	return &CartService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[cartmodels.Cart](collection),
	}, nil
}

// GetCart trả về giỏ hàng của user. User chưa có giỏ sẽ nhận giỏ rỗng (không tạo document).
func (s *CartService) GetCart(ctx context.Context, userID primitive.ObjectID) (*cartmodels.Cart, error) {
	cart, err := s.BaseServiceMongoImpl.FindOne(ctx, bson.M{"userId": userID}, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return &cartmodels.Cart{
				UserID: userID,
				Items:  []cartmodels.CartItem{},
			}, nil
		}
		return nil, err
	}
	if cart.Items == nil {
		cart.Items = []cartmodels.CartItem{}
	}
	return &cart, nil
}

// AddToCart thêm một sản phẩm vào giỏ. Nếu sản phẩm đã có trong giỏ thì cộng dồn quantity.
// Không kiểm tra sản phẩm với catalog ở đây; tồn kho và trạng thái bán chỉ được
// xác thực tại thời điểm checkout.
//
// Thực hiện bằng hai bước atomic:
//  1. $inc quantity trên dòng hàng đã có (positional match trên items.productId)
//  2. Nếu chưa có dòng hàng: $push item mới với upsert, filter loại trừ productId
//     để hai request song song không tạo hai dòng cho cùng một sản phẩm
//
// Unique index trên userId chặn việc upsert song song tạo hai giỏ cho cùng user;
// gặp duplicate key thì retry lại từ bước 1.
func (s *CartService) AddToCart(ctx context.Context, userID primitive.ObjectID, productID primitive.ObjectID, quantity int64) (*cartmodels.Cart, error) {
	if quantity <= 0 {
		return nil, common.NewError(common.ErrCodeValidationInput, "Số lượng phải lớn hơn 0", common.StatusBadRequest, nil)
	}

	// Thử tối đa 2 lần để xử lý race giữa $inc và upsert
	for attempt := 0; attempt < 2; attempt++ {
		nowMilli := time.Now().UnixMilli()

		// Bước 1: cộng dồn quantity nếu dòng hàng đã có
		result, err := s.Collection().UpdateOne(ctx,
			bson.M{"userId": userID, "items.productId": productID},
			bson.M{
				"$inc": bson.M{"items.$.quantity": quantity},
				"$set": bson.M{"updatedAt": nowMilli},
			})
		if err != nil {
			return nil, common.ConvertMongoError(err)
		}
		if result.MatchedCount > 0 {
			return s.GetCart(ctx, userID)
		}

		// Bước 2: push dòng hàng mới (tạo giỏ nếu chưa có)
		_, err = s.Collection().UpdateOne(ctx,
			bson.M{
				"userId":          userID,
				"items.productId": bson.M{"$ne": productID},
			},
			bson.M{
				"$push":        bson.M{"items": cartmodels.CartItem{ProductID: productID, Quantity: quantity}},
				"$set":         bson.M{"updatedAt": nowMilli},
				"$setOnInsert": bson.M{"createdAt": nowMilli},
			},
			options.Update().SetUpsert(true))
		if err != nil {
			// Duplicate key: một request song song vừa tạo giỏ (hoặc giỏ đã có dòng hàng
			// nên filter không match và upsert đụng unique index userId) → retry bước 1
			if mongo.IsDuplicateKeyError(err) {
				continue
			}
			return nil, common.ConvertMongoError(err)
		}
		return s.GetCart(ctx, userID)
	}

	return s.GetCart(ctx, userID)
}

// RemoveFromCart gỡ toàn bộ dòng hàng của một sản phẩm khỏi giỏ.
// Gỡ sản phẩm không có trong giỏ là no-op.
func (s *CartService) RemoveFromCart(ctx context.Context, userID primitive.ObjectID, productID primitive.ObjectID) (*cartmodels.Cart, error) {
	_, err := s.Collection().UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{
			"$pull": bson.M{"items": bson.M{"productId": productID}},
			"$set":  bson.M{"updatedAt": time.Now().UnixMilli()},
		})
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	return s.GetCart(ctx, userID)
}

// ClearCart xóa toàn bộ giỏ hàng của user (xóa document). User chưa có giỏ là no-op.
func (s *CartService) ClearCart(ctx context.Context, userID primitive.ObjectID) error {
	err := s.BaseServiceMongoImpl.DeleteOne(ctx, bson.M{"userId": userID})
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return err
	}
	return nil
}
