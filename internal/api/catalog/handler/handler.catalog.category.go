// Package cataloghdl - các Fiber handler thuộc domain catalog.
package cataloghdl

import (
	"fmt"

	basehdl "shop_commerce/internal/api/base/handler"
	catalogdto "shop_commerce/internal/api/catalog/dto"
	models "shop_commerce/internal/api/catalog/models"
	catalogsvc "shop_commerce/internal/api/catalog/service"
	"shop_commerce/internal/common"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CategoryHandler xử lý các request quản lý danh mục sản phẩm
type CategoryHandler struct {
	*basehdl.BaseHandler[models.Category, catalogdto.CategoryCreateInput, catalogdto.CategoryUpdateInput]
	categoryService *catalogsvc.CategoryService
}

// NewCategoryHandler tạo instance mới của CategoryHandler
func NewCategoryHandler() (*CategoryHandler, error) {
	categoryService, err := catalogsvc.NewCategoryService()
	if err != nil {
		return nil, fmt.Errorf("failed to create category service: %v", err)
	}
	baseHandler := basehdl.NewBaseHandler[models.Category, catalogdto.CategoryCreateInput, catalogdto.CategoryUpdateInput](categoryService)
	return &CategoryHandler{
		BaseHandler:     baseHandler,
		categoryService: categoryService,
	}, nil
}

// HandleCreate tạo danh mục mới
func (h *CategoryHandler) HandleCreate(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input catalogdto.CategoryCreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		category, err := h.categoryService.Create(c.Context(), &input)
		h.HandleResponse(c, category, err)
		return nil
	})
}

// HandleUpdate cập nhật danh mục theo ID
func (h *CategoryHandler) HandleUpdate(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.parseIDParam(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		var input catalogdto.CategoryUpdateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		category, err := h.categoryService.Update(c.Context(), id, &input)
		h.HandleResponse(c, category, err)
		return nil
	})
}

// HandleDelete xóa mềm danh mục theo ID
func (h *CategoryHandler) HandleDelete(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.parseIDParam(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		err = h.categoryService.Delete(c.Context(), id)
		h.HandleResponse(c, nil, err)
		return nil
	})
}

// HandleListActive trả về tất cả danh mục đang hoạt động
func (h *CategoryHandler) HandleListActive(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		categories, err := h.categoryService.FindAllActive(c.Context())
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if categories == nil {
			categories = []models.Category{}
		}
		h.HandleResponse(c, categories, nil)
		return nil
	})
}

// HandleGetById trả về chi tiết một danh mục chưa xóa
func (h *CategoryHandler) HandleGetById(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.parseIDParam(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		category, err := h.categoryService.FindByID(c.Context(), id)
		h.HandleResponse(c, category, err)
		return nil
	})
}

// HandleChildren trả về các danh mục con trực tiếp của một danh mục cha.
// Path giữ tên by-partner/:partnerId để tương thích với client cũ; param
// được hiểu là id của danh mục cha.
func (h *CategoryHandler) HandleChildren(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		parentID, err := h.parseObjectIDParam(c, "partnerId")
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		children, err := h.categoryService.FindChildren(c.Context(), parentID)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if children == nil {
			children = []models.Category{}
		}
		h.HandleResponse(c, children, nil)
		return nil
	})
}

// HandleImport import cây danh mục từ taxonomy tĩnh vào dưới một danh mục cha
func (h *CategoryHandler) HandleImport(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input catalogdto.CategoryImportInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		created, err := h.categoryService.ImportCategories(c.Context(), &input)
		h.HandleResponse(c, created, err)
		return nil
	})
}

// parseIDParam parse và validate ObjectID từ param :id
func (h *CategoryHandler) parseIDParam(c fiber.Ctx) (primitive.ObjectID, error) {
	return h.parseObjectIDParam(c, "id")
}

// parseObjectIDParam parse và validate ObjectID từ URI params theo tên param
func (h *CategoryHandler) parseObjectIDParam(c fiber.Ctx, name string) (primitive.ObjectID, error) {
	id := c.Params(name)
	if !primitive.IsValidObjectID(id) {
		return primitive.NilObjectID, common.NewError(
			common.ErrCodeValidationFormat,
			fmt.Sprintf("%s '%s' không đúng định dạng MongoDB ObjectID (phải là chuỗi hex 24 ký tự)", name, id),
			common.StatusBadRequest,
			nil,
		)
	}
	objID, _ := primitive.ObjectIDFromHex(id)
	return objID, nil
}
