// Package catalogdto - các DTO đầu vào của domain catalog.
package catalogdto

// CategoryCreateInput đầu vào tạo danh mục.
type CategoryCreateInput struct {
	Name        string `json:"name" validate:"required,no_xss" maxLength:"100"`
	Description string `json:"description" validate:"omitempty,no_xss" maxLength:"500"`
	ParentID    string `json:"parentId" validate:"omitempty"`
}

// CategoryUpdateInput đầu vào cập nhật danh mục.
type CategoryUpdateInput struct {
	Name        string `json:"name" validate:"omitempty,no_xss" maxLength:"100"`
	Description string `json:"description" validate:"omitempty,no_xss" maxLength:"500"`
	ParentID    string `json:"parentId" validate:"omitempty"`
	IsActive    *bool  `json:"isActive"`
}

// CategoryImportInput đầu vào import danh mục con từ taxonomy tĩnh cho một danh mục cha.
type CategoryImportInput struct {
	ParentID string `json:"parentId" validate:"required"`
}
