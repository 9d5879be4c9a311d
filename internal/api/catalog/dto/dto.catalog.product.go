package catalogdto

// ProductAttributeInput một thuộc tính động của sản phẩm.
type ProductAttributeInput struct {
	Key   string `json:"key" validate:"required" maxLength:"50"`
	Value string `json:"value" validate:"required" maxLength:"200"`
}

// ProductCreateInput đầu vào tạo sản phẩm.
type ProductCreateInput struct {
	Name        string                  `json:"name" validate:"required,no_xss" maxLength:"200"`
	Description string                  `json:"description" validate:"omitempty,no_xss" maxLength:"2000"`
	Price       float64                 `json:"price" validate:"required,gt=0"`
	Stock       int64                   `json:"stock" validate:"gte=0"`
	CategoryID  string                  `json:"categoryId" validate:"omitempty"`
	Tags        []string                `json:"tags"`
	Attributes  []ProductAttributeInput `json:"attributes"`
	Images      []string                `json:"images"`
}

// ProductUpdateInput đầu vào cập nhật sản phẩm. Chỉ các field khác zero được cập nhật.
type ProductUpdateInput struct {
	Name        string                  `json:"name" validate:"omitempty,no_xss" maxLength:"200"`
	Description string                  `json:"description" validate:"omitempty,no_xss" maxLength:"2000"`
	Price       *float64                `json:"price" validate:"omitempty,gt=0"`
	Stock       *int64                  `json:"stock" validate:"omitempty,gte=0"`
	CategoryID  string                  `json:"categoryId" validate:"omitempty"`
	Tags        []string                `json:"tags"`
	Attributes  []ProductAttributeInput `json:"attributes"`
	Images      []string                `json:"images"`
	IsActive    *bool                   `json:"isActive"`
}

// ProductTagsInput đầu vào tra cứu sản phẩm theo danh sách tag.
type ProductTagsInput struct {
	Tags []string `json:"tags" validate:"required,min=1"`
}

// ProductListInput đầu vào lọc danh sách sản phẩm (truyền qua query string).
type ProductListInput struct {
	CategoryID string   `json:"categoryId"`
	Tags       []string `json:"tags"`
	Search     string   `json:"search"`
	IsActive   *bool    `json:"isActive"`
}
