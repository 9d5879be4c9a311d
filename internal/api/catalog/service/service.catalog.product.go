package catalogsvc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	basemodels "shop_commerce/internal/api/base/models"
	basesvc "shop_commerce/internal/api/base/service"
	catalogdto "shop_commerce/internal/api/catalog/dto"
	models "shop_commerce/internal/api/catalog/models"
	"shop_commerce/internal/common"
	"shop_commerce/internal/global"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// minSearchTermLength độ dài tối thiểu của từ khóa tìm kiếm full-text
const minSearchTermLength = 2

// ProductService là cấu trúc chứa các phương thức liên quan đến sản phẩm
type ProductService struct {
	*basesvc.BaseServiceMongoImpl[models.Product]
	categoryService *CategoryService
}

// NewProductService tạo mới ProductService
func NewProductService() (*ProductService, error) {
	collection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Products)
	if !exist {
		return nil, fmt.Errorf("failed to get products collection: %v", common.ErrNotFound)
	}
	categoryService, err := NewCategoryService()
	if err != nil {
		return nil, err
	}
	return &ProductService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Product](collection),
		categoryService:      categoryService,
	}, nil
}

// BuildListFilter dựng filter MongoDB từ input lọc danh sách sản phẩm.
// Luôn loại các sản phẩm đã xóa mềm; các điều kiện khác chỉ thêm khi được truyền lên.
func BuildListFilter(input *catalogdto.ProductListInput) (bson.M, error) {
	filter := bson.M{"isDeleted": false}
	if input == nil {
		return filter, nil
	}

	if input.CategoryID != "" {
		categoryID, err := primitive.ObjectIDFromHex(input.CategoryID)
		if err != nil {
			return nil, common.NewError(common.ErrCodeValidationFormat, "categoryId không đúng định dạng ObjectID", common.StatusBadRequest, err)
		}
		filter["categoryId"] = categoryID
	}

	if len(input.Tags) > 0 {
		filter["tags"] = bson.M{"$in": input.Tags}
	}

	if input.IsActive != nil {
		filter["isActive"] = *input.IsActive
	}

	if input.Search != "" {
		filter["$text"] = bson.M{"$search": input.Search}
	}

	return filter, nil
}

// FindAll trả về danh sách sản phẩm theo filter với phân trang, sắp xếp mới nhất trước.
func (s *ProductService) FindAll(ctx context.Context, input *catalogdto.ProductListInput, page, limit int64) (*basemodels.PaginateResult[models.Product], error) {
	filter, err := BuildListFilter(input)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return s.BaseServiceMongoImpl.FindWithPagination(ctx, filter, page, limit, opts)
}

// SearchProducts tìm kiếm full-text theo từ khóa, kết quả sắp xếp theo độ liên quan (textScore).
// Chỉ tìm trong các sản phẩm đang hoạt động; từ khóa phải có ít nhất minSearchTermLength ký tự.
func (s *ProductService) SearchProducts(ctx context.Context, term string, limit int64) ([]models.Product, error) {
	term = strings.TrimSpace(term)
	if len([]rune(term)) < minSearchTermLength {
		return nil, common.NewError(
			common.ErrCodeValidationInput,
			fmt.Sprintf("Từ khóa tìm kiếm phải có ít nhất %d ký tự", minSearchTermLength),
			common.StatusBadRequest,
			nil,
		)
	}
	if limit <= 0 {
		limit = 20
	}

	filter := bson.M{
		"isDeleted": false,
		"isActive":  true,
		"$text":     bson.M{"$search": term},
	}
	opts := options.Find().
		SetProjection(bson.M{"score": bson.M{"$meta": "textScore"}}).
		SetSort(bson.D{{Key: "score", Value: bson.M{"$meta": "textScore"}}}).
		SetLimit(limit)

	return s.BaseServiceMongoImpl.Find(ctx, filter, opts)
}

// FindByCategory trả về các sản phẩm đang hoạt động thuộc một danh mục, có phân trang.
func (s *ProductService) FindByCategory(ctx context.Context, categoryID primitive.ObjectID, page, limit int64) (*basemodels.PaginateResult[models.Product], error) {
	filter := bson.M{
		"categoryId": categoryID,
		"isDeleted":  false,
		"isActive":   true,
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return s.BaseServiceMongoImpl.FindWithPagination(ctx, filter, page, limit, opts)
}

// FindByTags trả về các sản phẩm đang hoạt động có ít nhất một tag trong danh sách, có phân trang.
func (s *ProductService) FindByTags(ctx context.Context, tags []string, page, limit int64) (*basemodels.PaginateResult[models.Product], error) {
	if len(tags) == 0 {
		return nil, common.NewError(common.ErrCodeValidationInput, "Danh sách tags không được rỗng", common.StatusBadRequest, nil)
	}
	filter := bson.M{
		"tags":      bson.M{"$in": tags},
		"isDeleted": false,
		"isActive":  true,
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return s.BaseServiceMongoImpl.FindWithPagination(ctx, filter, page, limit, opts)
}

// Create tạo sản phẩm mới. Tên sản phẩm không được trùng trong số các sản phẩm chưa xóa.
func (s *ProductService) Create(ctx context.Context, input *catalogdto.ProductCreateInput) (*models.Product, error) {
	if err := s.checkDuplicateName(ctx, input.Name, primitive.NilObjectID); err != nil {
		return nil, err
	}

	product := models.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		Tags:        input.Tags,
		Images:      input.Images,
		Attributes:  toAttributes(input.Attributes),
		IsActive:    true,
		IsDeleted:   false,
	}
	if product.Tags == nil {
		product.Tags = []string{}
	}
	if product.Attributes == nil {
		product.Attributes = []models.ProductAttribute{}
	}

	if input.CategoryID != "" {
		categoryID, err := s.resolveCategory(ctx, input.CategoryID)
		if err != nil {
			return nil, err
		}
		product.CategoryID = categoryID
	}

	created, err := s.BaseServiceMongoImpl.InsertOne(ctx, product)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Update cập nhật sản phẩm, chỉ các field được gửi lên.
func (s *ProductService) Update(ctx context.Context, id primitive.ObjectID, input *catalogdto.ProductUpdateInput) (*models.Product, error) {
	product, err := s.BaseServiceMongoImpl.FindOne(ctx, bson.M{"_id": id, "isDeleted": false}, nil)
	if err != nil {
		return nil, err
	}

	set := make(map[string]interface{})
	if input.Name != "" && input.Name != product.Name {
		if err := s.checkDuplicateName(ctx, input.Name, id); err != nil {
			return nil, err
		}
		set["name"] = input.Name
	}
	if input.Description != "" {
		set["description"] = input.Description
	}
	if input.Price != nil {
		set["price"] = *input.Price
	}
	if input.Stock != nil {
		set["stock"] = *input.Stock
	}
	if input.Tags != nil {
		set["tags"] = input.Tags
	}
	if input.Attributes != nil {
		set["attributes"] = toAttributes(input.Attributes)
	}
	if input.Images != nil {
		set["images"] = input.Images
	}
	if input.IsActive != nil {
		set["isActive"] = *input.IsActive
	}
	if input.CategoryID != "" {
		categoryID, err := s.resolveCategory(ctx, input.CategoryID)
		if err != nil {
			return nil, err
		}
		set["categoryId"] = categoryID
	}

	if len(set) == 0 {
		return &product, nil
	}

	updated, err := s.BaseServiceMongoImpl.UpdateById(ctx, id, &basesvc.UpdateData{Set: set})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete xóa mềm sản phẩm: đánh dấu isDeleted và tắt isActive.
// Thao tác trực tiếp trên collection vì filter isDeleted:false không còn khớp sau update.
func (s *ProductService) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.Collection().UpdateOne(ctx,
		bson.M{"_id": id, "isDeleted": false},
		bson.M{"$set": bson.M{
			"isDeleted": true,
			"isActive":  false,
			"updatedAt": time.Now().UnixMilli(),
		}})
	if err != nil {
		return common.ConvertMongoError(err)
	}
	if result.MatchedCount == 0 {
		return common.ErrNotFound
	}
	return nil
}

/// DecrementStock trừ kho có điều kiện: chỉ thành công khi sản phẩm đang hoạt động
// và còn đủ hàng (stock >= quantity). Filter + $inc trong một lệnh nên an toàn
// khi nhiều đơn hàng cùng trừ kho một sản phẩm.
func (s *ProductService) DecrementStock(ctx context.Context, productID primitive.ObjectID, quantity int64) error {
	if quantity <= 0 {
		return common.NewError(common.ErrCodeValidationInput, "Số lượng trừ kho phải lớn hơn 0", common.StatusBadRequest, nil)
	}

	result, err := s.Collection().UpdateOne(ctx,
		bson.M{
			"_id":       productID,
			"isDeleted": false,
			"isActive":  true,
			"stock":     bson.M{"$gte": quantity},
		},
		bson.M{
			"$inc": bson.M{"stock": -quantity},
			"$set": bson.M{"updatedAt": time.Now().UnixMilli()},
		})
	if err != nil {
		return common.ConvertMongoError(err)
	}
	if result.MatchedCount == 0 {
		return common.ErrInsufficientStock
	}
	return nil
}

// RestoreStock hoàn kho (dùng khi tạo đơn thất bại giữa chừng hoặc hủy đơn).
func (s *ProductService) RestoreStock(ctx context.Context, productID primitive.ObjectID, quantity int64) error {
	if quantity <= 0 {
		return nil
	}
	_, err := s.Collection().UpdateOne(ctx,
		bson.M{"_id": productID},
		bson.M{
			"$inc": bson.M{"stock": quantity},
			"$set": bson.M{"updatedAt": time.Now().UnixMilli()},
		})
	if err != nil {
		return common.ConvertMongoError(err)
	}
	return nil
}

// resolveCategory parse và kiểm tra danh mục tồn tại (chưa xóa).
func (s *ProductService) resolveCategory(ctx context.Context, categoryIDHex string) (primitive.ObjectID, error) {
	categoryID, err := primitive.ObjectIDFromHex(categoryIDHex)
	if err != nil {
		return primitive.NilObjectID, common.NewError(common.ErrCodeValidationFormat, "categoryId không đúng định dạng ObjectID", common.StatusBadRequest, err)
	}
	if _, err := s.categoryService.findNotDeletedByID(ctx, categoryID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return primitive.NilObjectID, common.NewError(common.ErrCodeValidationInput, "Danh mục không tồn tại", common.StatusBadRequest, nil)
		}
		return primitive.NilObjectID, err
	}
	return categoryID, nil
}

// checkDuplicateName kiểm tra trùng tên trong số các sản phẩm chưa xóa (bỏ qua excludeID khi update).
func (s *ProductService) checkDuplicateName(ctx context.Context, name string, excludeID primitive.ObjectID) error {
	filter := bson.M{"name": name, "isDeleted": false}
	if !excludeID.IsZero() {
		filter["_id"] = bson.M{"$ne": excludeID}
	}
	exists, err := s.BaseServiceMongoImpl.DocumentExists(ctx, filter)
	if err != nil {
		return err
	}
	if exists {
		return common.NewError(common.ErrCodeDatabaseQuery, "Tên sản phẩm đã tồn tại", common.StatusConflict, nil)
	}
	return nil
}

// toAttributes chuyển DTO attributes sang model attributes.
func toAttributes(inputs []catalogdto.ProductAttributeInput) []models.ProductAttribute {
	if inputs == nil {
		return nil
	}
	attributes := make([]models.ProductAttribute, 0, len(inputs))
	for _, a := range inputs {
		attributes = append(attributes, models.ProductAttribute{Key: a.Key, Value: a.Value})
	}
	return attributes
}
