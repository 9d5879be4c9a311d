// Package ordersvc - Test gộp dòng hàng, snapshot và tính tổng tiền đơn hàng.
package ordersvc

import (
	"errors"
	"testing"

	catalogmodels "shop_commerce/internal/api/catalog/models"
	orderdto "shop_commerce/internal/api/order/dto"
	models "shop_commerce/internal/api/order/models"
	"shop_commerce/internal/common"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMergeOrderLines_MergesDuplicates(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()

	lines, err := MergeOrderLines([]orderdto.OrderItemInput{
		{ProductID: a.Hex(), Quantity: 2},
		{ProductID: b.Hex(), Quantity: 1},
		{ProductID: a.Hex(), Quantity: 3},
	})
	if err != nil {
		t.Fatalf("MergeOrderLines trả lỗi: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("phải gộp thành 2 dòng, nhận được %d", len(lines))
	}
	if lines[0].productID != a || lines[0].quantity != 5 {
		t.Errorf("dòng đầu phải là sản phẩm a với quantity 5, nhận được %v/%d", lines[0].productID.Hex(), lines[0].quantity)
	}
	if lines[1].productID != b || lines[1].quantity != 1 {
		t.Errorf("dòng thứ hai phải là sản phẩm b với quantity 1, nhận được %v/%d", lines[1].productID.Hex(), lines[1].quantity)
	}
}

func TestMergeOrderLines_InvalidProductID(t *testing.T) {
	_, err := MergeOrderLines([]orderdto.OrderItemInput{
		{ProductID: "xyz", Quantity: 1},
	})
	if err == nil {
		t.Fatal("productId sai định dạng phải trả lỗi")
	}
}

func TestMergeOrderLines_NonPositiveQuantity(t *testing.T) {
	_, err := MergeOrderLines([]orderdto.OrderItemInput{
		{ProductID: primitive.NewObjectID().Hex(), Quantity: 0},
	})
	if err == nil {
		t.Fatal("quantity <= 0 phải trả lỗi")
	}
}

func TestSnapshotOrderItem_CopiesProductData(t *testing.T) {
	product := &catalogmodels.Product{
		ID:    primitive.NewObjectID(),
		Name:  "Áo thun",
		Price: 150000,
		Attributes: []catalogmodels.ProductAttribute{
			{Key: "size", Value: "L"},
		},
	}

	item := SnapshotOrderItem(product, 2)
	if item.ProductID != product.ID {
		t.Error("snapshot phải giữ productId")
	}
	if item.Name != "Áo thun" || item.Price != 150000 || item.Quantity != 2 {
		t.Errorf("snapshot sai: %+v", item)
	}

	// Snapshot không được chia sẻ slice attributes với sản phẩm gốc
	product.Attributes[0].Value = "XL"
	if item.Attributes[0].Value != "L" {
		t.Error("attributes của snapshot phải độc lập với sản phẩm gốc")
	}
}

// Dòng hàng tham chiếu sản phẩm không tồn tại hoặc đã ngừng bán phải trả 404.
func TestErrProductUnavailable_Tra404(t *testing.T) {
	err := errProductUnavailable(primitive.NewObjectID())

	var customErr *common.Error
	if !errors.As(err, &customErr) {
		t.Fatalf("phải trả về *common.Error, nhận được %T", err)
	}
	if customErr.StatusCode != common.StatusNotFound {
		t.Errorf("StatusCode = %d, muốn %d", customErr.StatusCode, common.StatusNotFound)
	}
}

func TestComputeTotal(t *testing.T) {
	if got := ComputeTotal(nil); got != 0 {
		t.Errorf("đơn không có dòng hàng phải có tổng 0, nhận được %v", got)
	}

	items := []models.OrderItem{
		{Price: 100000, Quantity: 2},
		{Price: 55000, Quantity: 1},
	}
	if got := ComputeTotal(items); got != 255000 {
		t.Errorf("ComputeTotal = %v, muốn 255000", got)
	}
}
