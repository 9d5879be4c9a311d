// Test tích hợp giỏ hàng trên MongoDB thật.
// Chạy khi biến môi trường MONGODB_TEST_URI trỏ tới một MongoDB khả dụng,
// ngược lại các test này được bỏ qua.
package cartsvc

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"shop_commerce/internal/global"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// setupCartService kết nối MongoDB test, tạo database riêng cho test với
// collection carts (unique index trên userId) và trả về CartService.
func setupCartService(t *testing.T) *CartService {
	t.Helper()
	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("Bỏ qua test tích hợp: chưa đặt MONGODB_TEST_URI")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("Kết nối MongoDB thất bại: %v", err)
	}

	db := client.Database(fmt.Sprintf("shop_commerce_test_%d", time.Now().UnixNano()))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		db.Drop(ctx)
		client.Disconnect(ctx)
	})

	collection := db.Collection("carts")
	_, err = collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		t.Fatalf("Tạo unique index userId thất bại: %v", err)
	}

	global.MongoDB_ColNames.Carts = "carts"
	if _, err := global.RegistryCollections.Register(global.MongoDB_ColNames.Carts, collection); err != nil {
		t.Fatalf("Đăng ký collection carts thất bại: %v", err)
	}

	svc, err := NewCartService()
	if err != nil {
		t.Fatalf("Tạo CartService thất bại: %v", err)
	}
	return svc
}

// Thêm cùng sản phẩm nhiều lần phải cộng dồn quantity vào một dòng duy nhất.
func TestAddToCart_CongDonCungSanPham(t *testing.T) {
	svc := setupCartService(t)
	ctx := context.Background()
	userID := primitive.NewObjectID()
	productA := primitive.NewObjectID()
	productB := primitive.NewObjectID()

	if _, err := svc.AddToCart(ctx, userID, productA, 2); err != nil {
		t.Fatalf("AddToCart lần 1 thất bại: %v", err)
	}
	if _, err := svc.AddToCart(ctx, userID, productA, 3); err != nil {
		t.Fatalf("AddToCart lần 2 thất bại: %v", err)
	}
	cart, err := svc.AddToCart(ctx, userID, productB, 1)
	if err != nil {
		t.Fatalf("AddToCart sản phẩm thứ hai thất bại: %v", err)
	}

	if len(cart.Items) != 2 {
		t.Fatalf("giỏ phải có 2 dòng hàng, nhận được %d", len(cart.Items))
	}
	for _, item := range cart.Items {
		switch item.ProductID {
		case productA:
			if item.Quantity != 5 {
				t.Errorf("sản phẩm A phải có quantity 5, nhận được %d", item.Quantity)
			}
		case productB:
			if item.Quantity != 1 {
				t.Errorf("sản phẩm B phải có quantity 1, nhận được %d", item.Quantity)
			}
		default:
			t.Errorf("dòng hàng lạ trong giỏ: %s", item.ProductID.Hex())
		}
	}
}

// Nhiều request song song thêm cùng sản phẩm vẫn chỉ tạo một giỏ, một dòng hàng.
func TestAddToCart_SongSongVanMotDong(t *testing.T) {
	svc := setupCartService(t)
	ctx := context.Background()
	userID := primitive.NewObjectID()
	productID := primitive.NewObjectID()

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.AddToCart(ctx, userID, productID, 1); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("AddToCart song song thất bại: %v", err)
	}

	cart, err := svc.GetCart(ctx, userID)
	if err != nil {
		t.Fatalf("GetCart thất bại: %v", err)
	}
	if len(cart.Items) != 1 {
		t.Fatalf("giỏ phải có đúng 1 dòng hàng, nhận được %d", len(cart.Items))
	}
	if cart.Items[0].Quantity != workers {
		t.Errorf("quantity = %d, muốn %d", cart.Items[0].Quantity, workers)
	}

	count, err := svc.Collection().CountDocuments(ctx, bson.M{"userId": userID})
	if err != nil {
		t.Fatalf("CountDocuments thất bại: %v", err)
	}
	if count != 1 {
		t.Errorf("user phải có đúng 1 document giỏ hàng, nhận được %d", count)
	}
}

// Gỡ sản phẩm không có trong giỏ (kể cả gỡ lặp lại) là no-op, không trả lỗi.
func TestRemoveFromCart_GoLapLaiVanOn(t *testing.T) {
	svc := setupCartService(t)
	ctx := context.Background()
	userID := primitive.NewObjectID()
	productA := primitive.NewObjectID()
	productB := primitive.NewObjectID()

	if _, err := svc.AddToCart(ctx, userID, productA, 2); err != nil {
		t.Fatalf("AddToCart thất bại: %v", err)
	}
	if _, err := svc.AddToCart(ctx, userID, productB, 1); err != nil {
		t.Fatalf("AddToCart thất bại: %v", err)
	}

	cart, err := svc.RemoveFromCart(ctx, userID, productA)
	if err != nil {
		t.Fatalf("RemoveFromCart thất bại: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].ProductID != productB {
		t.Fatalf("giỏ phải còn đúng sản phẩm B, nhận được %+v", cart.Items)
	}

	// Gỡ lại sản phẩm đã gỡ: không lỗi, giỏ không đổi
	cart, err = svc.RemoveFromCart(ctx, userID, productA)
	if err != nil {
		t.Fatalf("RemoveFromCart lặp lại phải là no-op, nhận được lỗi: %v", err)
	}
	if len(cart.Items) != 1 {
		t.Errorf("giỏ phải còn 1 dòng hàng sau khi gỡ lặp lại, nhận được %d", len(cart.Items))
	}
}

// Clear giỏ xong thì GetCart trả về giỏ rỗng; clear giỏ không tồn tại là no-op.
func TestClearCart_RoiGetTraGioRong(t *testing.T) {
	svc := setupCartService(t)
	ctx := context.Background()
	userID := primitive.NewObjectID()

	if _, err := svc.AddToCart(ctx, userID, primitive.NewObjectID(), 3); err != nil {
		t.Fatalf("AddToCart thất bại: %v", err)
	}
	if err := svc.ClearCart(ctx, userID); err != nil {
		t.Fatalf("ClearCart thất bại: %v", err)
	}

	cart, err := svc.GetCart(ctx, userID)
	if err != nil {
		t.Fatalf("GetCart sau clear thất bại: %v", err)
	}
	if len(cart.Items) != 0 {
		t.Errorf("giỏ sau clear phải rỗng, nhận được %d dòng hàng", len(cart.Items))
	}

	if err := svc.ClearCart(ctx, userID); err != nil {
		t.Errorf("ClearCart giỏ không tồn tại phải là no-op, nhận được lỗi: %v", err)
	}
}
