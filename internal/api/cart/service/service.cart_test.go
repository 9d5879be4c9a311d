// Package cartsvc - Test guard đầu vào của service giỏ hàng.
package cartsvc

import (
	"context"
	"errors"
	"testing"

	basesvc "shop_commerce/internal/api/base/service"
	cartmodels "shop_commerce/internal/api/cart/models"
	"shop_commerce/internal/common"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Quantity không dương phải bị chặn trước khi chạm tới database.
func TestAddToCart_QuantityKhongDuongBiTuChoi(t *testing.T) {
	svc := &CartService{BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[cartmodels.Cart](nil)}

	for _, quantity := range []int64{0, -1} {
		_, err := svc.AddToCart(context.Background(), primitive.NewObjectID(), primitive.NewObjectID(), quantity)
		if err == nil {
			t.Fatalf("quantity %d phải trả lỗi", quantity)
		}

		var customErr *common.Error
		if !errors.As(err, &customErr) {
			t.Fatalf("phải trả về *common.Error, nhận được %T", err)
		}
		if customErr.StatusCode != common.StatusBadRequest {
			t.Errorf("StatusCode = %d, muốn %d", customErr.StatusCode, common.StatusBadRequest)
		}
	}
}
