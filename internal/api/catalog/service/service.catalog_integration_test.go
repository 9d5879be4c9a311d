// Test tích hợp catalog trên MongoDB thật.
// Chạy khi biến môi trường MONGODB_TEST_URI trỏ tới một MongoDB khả dụng,
// ngược lại các test này được bỏ qua.
package catalogsvc

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	catalogdto "shop_commerce/internal/api/catalog/dto"
	"shop_commerce/internal/common"
	"shop_commerce/internal/global"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// setupCatalogServices kết nối MongoDB test, tạo database riêng cho test và
// trả về CategoryService + ProductService trỏ vào database đó.
func setupCatalogServices(t *testing.T) (*CategoryService, *ProductService) {
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
	if _, err := global.RegistryCollections.Register(global.MongoDB_ColNames.Categories, db.Collection("categories")); err != nil {
		t.Fatalf("Đăng ký collection categories thất bại: %v", err)
	}
	if _, err := global.RegistryCollections.Register(global.MongoDB_ColNames.Products, db.Collection("products")); err != nil {
		t.Fatalf("Đăng ký collection products thất bại: %v", err)
	}

	categoryService, err := NewCategoryService()
	if err != nil {
		t.Fatalf("Tạo CategoryService thất bại: %v", err)
	}
	productService, err := NewProductService()
	if err != nil {
		t.Fatalf("Tạo ProductService thất bại: %v", err)
	}
	return categoryService, productService
}

// Sản phẩm xóa mềm không được xuất hiện trong danh sách và tra cứu theo id.
func TestProductDelete_LoaiKhoiTruyVan(t *testing.T) {
	_, productService := setupCatalogServices(t)
	ctx := context.Background()

	live, err := productService.Create(ctx, &catalogdto.ProductCreateInput{
		Name: "Áo sơ mi", Price: 250000, Stock: 10,
	})
	if err != nil {
		t.Fatalf("Tạo sản phẩm thất bại: %v", err)
	}
	deleted, err := productService.Create(ctx, &catalogdto.ProductCreateInput{
		Name: "Quần jean", Price: 400000, Stock: 5,
	})
	if err != nil {
		t.Fatalf("Tạo sản phẩm thất bại: %v", err)
	}

	if err := productService.Delete(ctx, deleted.ID); err != nil {
		t.Fatalf("Xóa mềm sản phẩm thất bại: %v", err)
	}

	page, err := productService.FindAll(ctx, &catalogdto.ProductListInput{}, 1, 10)
	if err != nil {
		t.Fatalf("FindAll thất bại: %v", err)
	}
	if page.Total != 1 {
		t.Fatalf("danh sách phải còn 1 sản phẩm, nhận được %d", page.Total)
	}
	if page.Items[0].ID != live.ID {
		t.Errorf("sản phẩm còn lại phải là %s, nhận được %s", live.ID.Hex(), page.Items[0].ID.Hex())
	}

	// Xóa mềm lần hai phải báo không tìm thấy
	if err := productService.Delete(ctx, deleted.ID); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("xóa sản phẩm đã xóa phải trả ErrNotFound, nhận được %v", err)
	}
}

// Đổi cha một danh mục phải tính lại ancestors cho toàn bộ cây con của nó.
func TestCategoryUpdate_DoiChaTinhLaiAncestorsConChau(t *testing.T) {
	categoryService, _ := setupCatalogServices(t)
	ctx := context.Background()

	rootA, err := categoryService.Create(ctx, &catalogdto.CategoryCreateInput{Name: "Thời trang"})
	if err != nil {
		t.Fatalf("Tạo danh mục gốc thất bại: %v", err)
	}
	rootB, err := categoryService.Create(ctx, &catalogdto.CategoryCreateInput{Name: "Khuyến mãi"})
	if err != nil {
		t.Fatalf("Tạo danh mục gốc thất bại: %v", err)
	}
	mid, err := categoryService.Create(ctx, &catalogdto.CategoryCreateInput{
		Name: "Áo", ParentID: rootA.ID.Hex(),
	})
	if err != nil {
		t.Fatalf("Tạo danh mục con thất bại: %v", err)
	}
	leaf, err := categoryService.Create(ctx, &catalogdto.CategoryCreateInput{
		Name: "Áo thun", ParentID: mid.ID.Hex(),
	})
	if err != nil {
		t.Fatalf("Tạo danh mục cháu thất bại: %v", err)
	}

	// Chuyển nhánh "Áo" từ "Thời trang" sang "Khuyến mãi"
	moved, err := categoryService.Update(ctx, mid.ID, &catalogdto.CategoryUpdateInput{
		ParentID: rootB.ID.Hex(),
	})
	if err != nil {
		t.Fatalf("Đổi cha danh mục thất bại: %v", err)
	}
	if len(moved.Ancestors) != 1 || moved.Ancestors[0] != rootB.ID {
		t.Fatalf("ancestors của danh mục vừa chuyển phải là [%s], nhận được %v", rootB.ID.Hex(), moved.Ancestors)
	}

	// Cháu phải được tính lại theo nhánh mới: [rootB, mid]
	refreshed, err := categoryService.FindByID(ctx, leaf.ID)
	if err != nil {
		t.Fatalf("FindByID danh mục cháu thất bại: %v", err)
	}
	want := []primitive.ObjectID{rootB.ID, mid.ID}
	if len(refreshed.Ancestors) != len(want) {
		t.Fatalf("ancestors của cháu = %v, muốn %v", refreshed.Ancestors, want)
	}
	for i := range want {
		if refreshed.Ancestors[i] != want[i] {
			t.Fatalf("ancestors của cháu = %v, muốn %v", refreshed.Ancestors, want)
		}
	}
}
