// Package catalogsvc - Test dựng filter danh sách sản phẩm.
package catalogsvc

import (
	"testing"

	catalogdto "shop_commerce/internal/api/catalog/dto"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBuildListFilter_NilInput(t *testing.T) {
	filter, err := BuildListFilter(nil)
	if err != nil {
		t.Fatalf("BuildListFilter(nil) trả lỗi: %v", err)
	}
	if filter["isDeleted"] != false {
		t.Error("filter luôn phải loại các sản phẩm đã xóa mềm")
	}
	if len(filter) != 1 {
		t.Errorf("input nil chỉ được có điều kiện isDeleted, nhận được: %v", filter)
	}
}

func TestBuildListFilter_AllFields(t *testing.T) {
	categoryID := primitive.NewObjectID()
	active := true
	filter, err := BuildListFilter(&catalogdto.ProductListInput{
		CategoryID: categoryID.Hex(),
		Tags:       []string{"sale", "new"},
		Search:     "áo khoác",
		IsActive:   &active,
	})
	if err != nil {
		t.Fatalf("BuildListFilter trả lỗi: %v", err)
	}

	if filter["categoryId"] != categoryID {
		t.Errorf("categoryId phải được parse thành ObjectID, nhận được %v", filter["categoryId"])
	}
	tags, ok := filter["tags"].(bson.M)
	if !ok {
		t.Fatalf("tags phải là bson.M với $in, nhận được %T", filter["tags"])
	}
	in, ok := tags["$in"].([]string)
	if !ok || len(in) != 2 {
		t.Errorf("tags $in sai: %v", tags)
	}
	if filter["isActive"] != true {
		t.Error("isActive phải được truyền vào filter")
	}
	text, ok := filter["$text"].(bson.M)
	if !ok || text["$search"] != "áo khoác" {
		t.Errorf("$text $search sai: %v", filter["$text"])
	}
}

func TestBuildListFilter_InvalidCategoryID(t *testing.T) {
	_, err := BuildListFilter(&catalogdto.ProductListInput{CategoryID: "not-an-oid"})
	if err == nil {
		t.Fatal("categoryId sai định dạng phải trả lỗi")
	}
}

func TestBuildListFilter_OmitsEmptyConditions(t *testing.T) {
	filter, err := BuildListFilter(&catalogdto.ProductListInput{})
	if err != nil {
		t.Fatalf("BuildListFilter trả lỗi: %v", err)
	}
	for _, key := range []string{"categoryId", "tags", "isActive", "$text"} {
		if _, ok := filter[key]; ok {
			t.Errorf("điều kiện %q không được thêm khi input rỗng", key)
		}
	}
}
