// Test tích hợp đơn hàng trên MongoDB thật.
// Chạy khi biến môi trường MONGODB_TEST_URI trỏ tới một MongoDB khả dụng,
// ngược lại các test này được bỏ qua.
package ordersvc

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	catalogdto "shop_commerce/internal/api/catalog/dto"
	catalogsvc "shop_commerce/internal/api/catalog/service"
	orderdto "shop_commerce/internal/api/order/dto"
	"shop_commerce/internal/common"
	"shop_commerce/internal/global"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// khongCoEmail là userEmailFinder cho test: không có email thì service bỏ qua
// bước đưa email xác nhận vào hàng đợi.
type khongCoEmail struct{}

func (khongCoEmail) FindEmailByID(ctx context.Context, userID primitive.ObjectID) (string, error) {
	return "", nil
}

// setupOrderService kết nối MongoDB test, tạo database riêng cho test với đủ
// các collection mà OrderService cần và trả về OrderService + ProductService.
func setupOrderService(t *testing.T) (*OrderService, *catalogsvc.ProductService) {
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

	global.MongoDB_ColNames.Categories = "categories"
	global.MongoDB_ColNames.Products = "products"
	global.MongoDB_ColNames.Carts = "carts"
	global.MongoDB_ColNames.Orders = "orders"
	global.MongoDB_ColNames.NotificationQueue = "notification_queue"
	for _, name := range []string{"categories", "products", "carts", "orders", "notification_queue"} {
		if _, err := global.RegistryCollections.Register(name, db.Collection(name)); err != nil {
			t.Fatalf("Đăng ký collection %s thất bại: %v", name, err)
		}
	}

	orderService, err := NewOrderService(khongCoEmail{})
	if err != nil {
		t.Fatalf("Tạo OrderService thất bại: %v", err)
	}
	productService, err := catalogsvc.NewProductService()
	if err != nil {
		t.Fatalf("Tạo ProductService thất bại: %v", err)
	}
	return orderService, productService
}

// Đặt hàng sản phẩm đã xóa mềm phải trả 404, không trừ kho, không tạo đơn.
func TestCreateOrder_SanPhamDaXoaTra404(t *testing.T) {
	orderService, productService := setupOrderService(t)
	ctx := context.Background()

	product, err := productService.Create(ctx, &catalogdto.ProductCreateInput{
		Name: "Áo khoác", Price: 500000, Stock: 3,
	})
	if err != nil {
		t.Fatalf("Tạo sản phẩm thất bại: %v", err)
	}
	if err := productService.Delete(ctx, product.ID); err != nil {
		t.Fatalf("Xóa mềm sản phẩm thất bại: %v", err)
	}

	_, err = orderService.CreateOrder(ctx, primitive.NewObjectID(), &orderdto.OrderCreateInput{
		Items: []orderdto.OrderItemInput{{ProductID: product.ID.Hex(), Quantity: 1}},
	})
	var customErr *common.Error
	if !errors.As(err, &customErr) {
		t.Fatalf("phải trả về *common.Error, nhận được %v", err)
	}
	if customErr.StatusCode != common.StatusNotFound {
		t.Errorf("StatusCode = %d, muốn %d", customErr.StatusCode, common.StatusNotFound)
	}

	count, err := orderService.Collection().CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("CountDocuments thất bại: %v", err)
	}
	if count != 0 {
		t.Errorf("không được tạo đơn nào, nhận được %d", count)
	}
}

// Hai đơn hàng song song tranh đơn vị tồn kho cuối cùng: đúng một đơn thành công,
// đơn còn lại nhận lỗi hết hàng và kho không bị âm.
func TestCreateOrder_TranhDonViTonKhoCuoi(t *testing.T) {
	orderService, productService := setupOrderService(t)
	ctx := context.Background()

	product, err := productService.Create(ctx, &catalogdto.ProductCreateInput{
		Name: "Mũ lưỡi trai", Price: 120000, Stock: 1,
	})
	if err != nil {
		t.Fatalf("Tạo sản phẩm thất bại: %v", err)
	}

	input := &orderdto.OrderCreateInput{
		Items: []orderdto.OrderItemInput{{ProductID: product.ID.Hex(), Quantity: 1}},
	}

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := orderService.CreateOrder(ctx, primitive.NewObjectID(), input)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var succeeded, outOfStock int
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		var customErr *common.Error
		if !errors.As(err, &customErr) || customErr.StatusCode != common.StatusConflict {
			t.Fatalf("đơn thua phải nhận lỗi hết hàng 409, nhận được %v", err)
		}
		outOfStock++
	}
	if succeeded != 1 || outOfStock != 1 {
		t.Fatalf("phải có đúng 1 đơn thành công và 1 đơn hết hàng, nhận được %d/%d", succeeded, outOfStock)
	}

	refreshed, err := productService.FindOne(ctx, bson.M{"_id": product.ID}, nil)
	if err != nil {
		t.Fatalf("Đọc lại sản phẩm thất bại: %v", err)
	}
	if refreshed.Stock != 0 {
		t.Errorf("tồn kho sau hai đơn tranh nhau phải là 0, nhận được %d", refreshed.Stock)
	}

	count, err := orderService.Collection().CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("CountDocuments thất bại: %v", err)
	}
	if count != 1 {
		t.Errorf("phải có đúng 1 đơn hàng được tạo, nhận được %d", count)
	}
}
