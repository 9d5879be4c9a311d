package cataloghdl

import (
	"fmt"
	"strconv"
	"strings"

	basehdl "shop_commerce/internal/api/base/handler"
	catalogdto "shop_commerce/internal/api/catalog/dto"
	models "shop_commerce/internal/api/catalog/models"
	catalogsvc "shop_commerce/internal/api/catalog/service"
	"shop_commerce/internal/common"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductHandler xử lý các request quản lý và tra cứu sản phẩm
type ProductHandler struct {
	*basehdl.BaseHandler[models.Product, catalogdto.ProductCreateInput, catalogdto.ProductUpdateInput]
	productService *catalogsvc.ProductService
}

// NewProductHandler tạo instance mới của ProductHandler
func NewProductHandler() (*ProductHandler, error) {
	productService, err := catalogsvc.NewProductService()
	if err != nil {
		return nil, fmt.Errorf("failed to create product service: %v", err)
	}
	baseHandler := basehdl.NewBaseHandler[models.Product, catalogdto.ProductCreateInput, catalogdto.ProductUpdateInput](productService)
	return &ProductHandler{
		BaseHandler:    baseHandler,
		productService: productService,
	}, nil
}

// HandleCreate tạo sản phẩm mới
func (h *ProductHandler) HandleCreate(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input catalogdto.ProductCreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		product, err := h.productService.Create(c.Context(), &input)
		h.HandleResponse(c, product, err)
		return nil
	})
}

// HandleUpdate cập nhật sản phẩm theo ID
func (h *ProductHandler) HandleUpdate(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.parseIDParam(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		var input catalogdto.ProductUpdateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		product, err := h.productService.Update(c.Context(), id, &input)
		h.HandleResponse(c, product, err)
		return nil
	})
}

// HandleDelete xóa mềm sản phẩm theo ID
func (h *ProductHandler) HandleDelete(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.parseIDParam(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		err = h.productService.Delete(c.Context(), id)
		h.HandleResponse(c, nil, err)
		return nil
	})
}

// HandleList trả về danh sách sản phẩm có phân trang.
// Query params: categoryId, tags (cách nhau bởi dấu phẩy), search, isActive, page, limit
func (h *ProductHandler) HandleList(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		input := &catalogdto.ProductListInput{
			CategoryID: c.Query("categoryId", ""),
			Search:     c.Query("search", ""),
		}
		if tagsStr := c.Query("tags", ""); tagsStr != "" {
			input.Tags = strings.Split(tagsStr, ",")
		}
		if isActiveStr := c.Query("isActive", ""); isActiveStr != "" {
			isActive, err := strconv.ParseBool(isActiveStr)
			if err != nil {
				h.HandleResponse(c, nil, common.NewError(
					common.ErrCodeValidationFormat,
					"isActive phải là true hoặc false",
					common.StatusBadRequest,
					err,
				))
				return nil
			}
			input.IsActive = &isActive
		}

		page, limit := h.ParsePagination(c)
		result, err := h.productService.FindAll(c.Context(), input, page, limit)
		h.HandleResponse(c, result, err)
		return nil
	})
}

// HandleSearch tìm kiếm full-text theo từ khóa q, sắp xếp theo độ liên quan
func (h *ProductHandler) HandleSearch(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		term := c.Query("q", "")
		limit, err := strconv.ParseInt(c.Query("limit", "20"), 10, 64)
		if err != nil {
			limit = 20
		}
		products, err := h.productService.SearchProducts(c.Context(), term, limit)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if products == nil {
			products = []models.Product{}
		}
		h.HandleResponse(c, products, nil)
		return nil
	})
}

// HandleGetById trả về chi tiết một sản phẩm chưa xóa
func (h *ProductHandler) HandleGetById(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.parseIDParam(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		product, err := h.productService.BaseServiceMongoImpl.FindOne(c.Context(), bson.M{"_id": id, "isDeleted": false}, nil)
		h.HandleResponse(c, product, err)
		return nil
	})
}

// HandleByCategory trả về các sản phẩm đang hoạt động thuộc danh mục :categoryId, có phân trang
func (h *ProductHandler) HandleByCategory(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		categoryID, err := h.parseObjectIDParam(c, "categoryId")
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		page, limit := h.ParsePagination(c)
		result, err := h.productService.FindByCategory(c.Context(), categoryID, page, limit)
		h.HandleResponse(c, result, err)
		return nil
	})
}

// HandleByTags trả về các sản phẩm đang hoạt động có tag trong danh sách (tags truyền qua body), có phân trang
func (h *ProductHandler) HandleByTags(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input catalogdto.ProductTagsInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		page, limit := h.ParsePagination(c)
		result, err := h.productService.FindByTags(c.Context(), input.Tags, page, limit)
		h.HandleResponse(c, result, err)
		return nil
	})
}

// parseIDParam parse và validate ObjectID từ param :id
func (h *ProductHandler) parseIDParam(c fiber.Ctx) (primitive.ObjectID, error) {
	return h.parseObjectIDParam(c, "id")
}

// parseObjectIDParam parse và validate ObjectID từ URI params theo tên param
func (h *ProductHandler) parseObjectIDParam(c fiber.Ctx, name string) (primitive.ObjectID, error) {
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
