// Package catalogsvc - service danh mục và sản phẩm thuộc domain catalog.
package catalogsvc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	catalogdto "shop_commerce/internal/api/catalog/dto"
	models "shop_commerce/internal/api/catalog/models"
	basesvc "shop_commerce/internal/api/base/service"
	"shop_commerce/internal/common"
	"shop_commerce/internal/global"
	"shop_commerce/internal/logger"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CategoryService là cấu trúc chứa các phương thức liên quan đến danh mục sản phẩm
type CategoryService struct {
	*basesvc.BaseServiceMongoImpl[models.Category]
}

// NewCategoryService tạo mới CategoryService
func NewCategoryService() (*CategoryService, error) {
	collection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Categories)
	if !exist {
		return nil, fmt.Errorf("failed to get categories collection: %v", common.ErrNotFound)
	}
	return &CategoryService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Category](collection),
	}, nil
}

// Create tạo danh mục mới. Tên danh mục không được trùng trong số các danh mục chưa xóa.
func (s *CategoryService) Create(ctx context.Context, input *catalogdto.CategoryCreateInput) (*models.Category, error) {
	if err := s.checkDuplicateName(ctx, input.Name, primitive.NilObjectID); err != nil {
		return nil, err
	}

	category := models.Category{
		Name:        input.Name,
		Description: input.Description,
		Ancestors:   []primitive.ObjectID{},
		IsActive:    true,
		IsDeleted:   false,
	}

	if input.ParentID != "" {
		parentID, err := primitive.ObjectIDFromHex(input.ParentID)
		if err != nil {
			return nil, common.NewError(common.ErrCodeValidationFormat, "parentId không đúng định dạng ObjectID", common.StatusBadRequest, err)
		}
		ancestors, err := s.buildAncestors(ctx, parentID)
		if err != nil {
			return nil, err
		}
		category.ParentID = parentID
		category.Ancestors = ancestors
	}

	created, err := s.BaseServiceMongoImpl.InsertOne(ctx, category)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Update cập nhật danh mục. Nếu đổi parent thì tính lại ancestors cho danh mục
// và toàn bộ con cháu của nó, đồng thời chặn vòng lặp cây.
func (s *CategoryService) Update(ctx context.Context, id primitive.ObjectID, input *catalogdto.CategoryUpdateInput) (*models.Category, error) {
	category, err := s.findNotDeletedByID(ctx, id)
	if err != nil {
		return nil, err
	}

	set := make(map[string]interface{})
	if input.Name != "" && input.Name != category.Name {
		if err := s.checkDuplicateName(ctx, input.Name, id); err != nil {
			return nil, err
		}
		set["name"] = input.Name
	}
	if input.Description != "" {
		set["description"] = input.Description
	}
	if input.IsActive != nil {
		set["isActive"] = *input.IsActive
	}

	if input.ParentID != "" {
		parentID, err := primitive.ObjectIDFromHex(input.ParentID)
		if err != nil {
			return nil, common.NewError(common.ErrCodeValidationFormat, "parentId không đúng định dạng ObjectID", common.StatusBadRequest, err)
		}
		if parentID == id {
			return nil, common.NewError(common.ErrCodeValidationInput, "Danh mục không thể là cha của chính nó", common.StatusBadRequest, nil)
		}
		ancestors, err := s.buildAncestors(ctx, parentID)
		if err != nil {
			return nil, err
		}
		// Parent mới không được là con cháu của danh mục đang sửa
		for _, ancestorID := range ancestors {
			if ancestorID == id {
				return nil, common.NewError(common.ErrCodeValidationInput, "Không thể chuyển danh mục vào danh mục con của chính nó", common.StatusBadRequest, nil)
			}
		}
		set["parentId"] = parentID
		set["ancestors"] = ancestors
	}

	if len(set) == 0 {
		return &category, nil
	}

	updated, err := s.BaseServiceMongoImpl.UpdateById(ctx, id, &basesvc.UpdateData{Set: set})
	if err != nil {
		return nil, err
	}

	// Đổi cha làm ancestors của mọi con cháu cũ trở nên sai, phải tính lại
	if _, ok := set["parentId"]; ok {
		if err := s.refreshDescendantAncestors(ctx, updated); err != nil {
			return nil, err
		}
	}
	return &updated, nil
}

// refreshDescendantAncestors tính lại ancestors cho toàn bộ cây con của một
// danh mục vừa đổi cha. Đi theo từng tầng: ancestors của con = ancestors của
// cha + id cha. Cập nhật cả danh mục con đã xóa mềm để cây luôn nhất quán.
func (s *CategoryService) refreshDescendantAncestors(ctx context.Context, parent models.Category) error {
	children, err := s.BaseServiceMongoImpl.Find(ctx, bson.M{"parentId": parent.ID}, nil)
	if err != nil {
		return err
	}

	childAncestors := append(append([]primitive.ObjectID{}, parent.Ancestors...), parent.ID)
	for _, child := range children {
		_, err := s.Collection().UpdateOne(ctx,
			bson.M{"_id": child.ID},
			bson.M{"$set": bson.M{
				"ancestors": childAncestors,
				"updatedAt": time.Now().UnixMilli(),
			}})
		if err != nil {
			return common.ConvertMongoError(err)
		}
		child.Ancestors = childAncestors
		if err := s.refreshDescendantAncestors(ctx, child); err != nil {
			return err
		}
	}
	return nil
}

// Delete xóa mềm danh mục: đánh dấu isDeleted và tắt isActive, không xóa document.
// Thao tác trực tiếp trên collection vì filter isDeleted:false không còn khớp sau update.
func (s *CategoryService) Delete(ctx context.Context, id primitive.ObjectID) error {
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

// FindByID trả về danh mục theo ID, chỉ chấp nhận danh mục chưa xóa.
func (s *CategoryService) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	category, err := s.findNotDeletedByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// FindAllActive trả về tất cả danh mục đang hoạt động (chưa xóa).
func (s *CategoryService) FindAllActive(ctx context.Context) ([]models.Category, error) {
	return s.BaseServiceMongoImpl.Find(ctx, bson.M{"isDeleted": false, "isActive": true}, nil)
}

// FindChildren trả về các danh mục con trực tiếp của một danh mục cha.
func (s *CategoryService) FindChildren(ctx context.Context, parentID primitive.ObjectID) ([]models.Category, error) {
	return s.BaseServiceMongoImpl.Find(ctx, bson.M{
		"parentId":  parentID,
		"isDeleted": false,
	}, nil)
}

// buildAncestors tính chuỗi ancestors cho một danh mục con của parentID.
// Dùng visited set để chặn vòng lặp nếu dữ liệu cây bị hỏng.
func (s *CategoryService) buildAncestors(ctx context.Context, parentID primitive.ObjectID) ([]primitive.ObjectID, error) {
	visited := make(map[primitive.ObjectID]bool)
	ancestors := make([]primitive.ObjectID, 0)

	currentID := parentID
	for !currentID.IsZero() {
		if visited[currentID] {
			logger.GetErrorLogger().WithFields(logrus.Fields{
				"category_id": currentID.Hex(),
			}).Error("Phát hiện vòng lặp trong cây danh mục")
			return nil, common.NewError(common.ErrCodeBusinessState, "Cây danh mục chứa vòng lặp", common.StatusInternalServerError, nil)
		}
		visited[currentID] = true

		current, err := s.BaseServiceMongoImpl.FindOne(ctx, bson.M{"_id": currentID, "isDeleted": false}, nil)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return nil, common.NewError(common.ErrCodeValidationInput, "Danh mục cha không tồn tại", common.StatusBadRequest, nil)
			}
			return nil, err
		}

		// Prepend: ancestors theo thứ tự từ gốc xuống cha trực tiếp
		ancestors = append([]primitive.ObjectID{current.ID}, ancestors...)
		currentID = current.ParentID
	}

	return ancestors, nil
}

// checkDuplicateName kiểm tra trùng tên trong số các danh mục chưa xóa (bỏ qua excludeID khi update).
func (s *CategoryService) checkDuplicateName(ctx context.Context, name string, excludeID primitive.ObjectID) error {
	filter := bson.M{"name": name, "isDeleted": false}
	if !excludeID.IsZero() {
		filter["_id"] = bson.M{"$ne": excludeID}
	}
	exists, err := s.BaseServiceMongoImpl.DocumentExists(ctx, filter)
	if err != nil {
		return err
	}
	if exists {
		return common.NewError(common.ErrCodeDatabaseQuery, "Tên danh mục đã tồn tại", common.StatusConflict, nil)
	}
	return nil
}

// findNotDeletedByID tìm danh mục theo ID, chỉ chấp nhận danh mục chưa xóa.
func (s *CategoryService) findNotDeletedByID(ctx context.Context, id primitive.ObjectID) (models.Category, error) {
	return s.BaseServiceMongoImpl.FindOne(ctx, bson.M{"_id": id, "isDeleted": false}, nil)
}

// taxonomyNode một node trong file taxonomy tĩnh.
type taxonomyNode struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Children    []taxonomyNode `json:"children"`
}

// ImportCategories import cây danh mục con từ file taxonomy tĩnh vào dưới một danh mục cha.
// Các danh mục trùng tên với danh mục đã có (chưa xóa) được bỏ qua.
func (s *CategoryService) ImportCategories(ctx context.Context, input *catalogdto.CategoryImportInput) ([]models.Category, error) {
	parentID, err := primitive.ObjectIDFromHex(input.ParentID)
	if err != nil {
		return nil, common.NewError(common.ErrCodeValidationFormat, "parentId không đúng định dạng ObjectID", common.StatusBadRequest, err)
	}

	// Parent phải tồn tại
	if _, err := s.findNotDeletedByID(ctx, parentID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NewError(common.ErrCodeValidationInput, "Danh mục cha không tồn tại", common.StatusBadRequest, nil)
		}
		return nil, err
	}

	nodes, err := loadTaxonomy()
	if err != nil {
		return nil, err
	}

	created := make([]models.Category, 0)
	if err := s.importNodes(ctx, nodes, parentID, &created); err != nil {
		return nil, err
	}

	logger.GetAppLogger().WithFields(logrus.Fields{
		"parent_id": parentID.Hex(),
		"created":   len(created),
	}).Info("Import taxonomy danh mục hoàn tất")

	return created, nil
}

// importNodes tạo đệ quy các danh mục từ taxonomy dưới parentID.
func (s *CategoryService) importNodes(ctx context.Context, nodes []taxonomyNode, parentID primitive.ObjectID, created *[]models.Category) error {
	for _, node := range nodes {
		if node.Name == "" {
			continue
		}

		var category models.Category
		existing, err := s.BaseServiceMongoImpl.FindOne(ctx, bson.M{"name": node.Name, "parentId": parentID, "isDeleted": false}, nil)
		if err == nil {
			category = existing
		} else if errors.Is(err, common.ErrNotFound) {
			ancestors, ancErr := s.buildAncestors(ctx, parentID)
			if ancErr != nil {
				return ancErr
			}
			category, err = s.BaseServiceMongoImpl.InsertOne(ctx, models.Category{
				Name:        node.Name,
				Description: node.Description,
				ParentID:    parentID,
				Ancestors:   ancestors,
				IsActive:    true,
				IsDeleted:   false,
			})
			if err != nil {
				return err
			}
			*created = append(*created, category)
		} else {
			return err
		}

		if len(node.Children) > 0 {
			if err := s.importNodes(ctx, node.Children, category.ID, created); err != nil {
				return err
			}
		}
	}
	return nil
}

// loadTaxonomy đọc file taxonomy tĩnh. Tìm file theo các thư mục cha giống cách tìm file env.
func loadTaxonomy() ([]taxonomyNode, error) {
	path, err := findTaxonomyPath()
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, common.NewError(common.ErrCodeInternalServer, fmt.Sprintf("Không đọc được file taxonomy: %v", err), common.StatusInternalServerError, err)
	}

	var nodes []taxonomyNode
	if err := json.Unmarshal(raw, &nodes); err != nil {
		return nil, common.NewError(common.ErrCodeInternalServer, fmt.Sprintf("File taxonomy không đúng định dạng JSON: %v", err), common.StatusInternalServerError, err)
	}
	return nodes, nil
}

// findTaxonomyPath tìm file config/data/category-taxonomy.json từ thư mục hiện tại đi ngược lên.
func findTaxonomyPath() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(dir, "config", "data", "category-taxonomy.json")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", common.NewError(common.ErrCodeInternalServer, "Không tìm thấy file config/data/category-taxonomy.json", common.StatusInternalServerError, nil)
		}
		dir = parent
	}
}
