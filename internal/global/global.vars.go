package global

import (
	"shop_commerce/config"
	"shop_commerce/internal/registry"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
)

// ShopCollectionName chứa tên các collection trong MongoDB
type ShopCollectionName struct {
	Users             string // Tên collection cho người dùng
	Categories        string // Tên collection cho danh mục sản phẩm
	Products          string // Tên collection cho sản phẩm
	Carts             string // Tên collection cho giỏ hàng (mỗi user một document)
	Orders            string // Tên collection cho đơn hàng
	NotificationQueue string // Tên collection cho hàng đợi gửi email
}

// Các biến toàn cục
var Validate *validator.Validate                              // Biến để xác thực dữ liệu
var MongoDB_Session *mongo.Client                             // Phiên kết nối tới MongoDB
var MongoDB_ServerConfig *config.Configuration                // Cấu hình của server
var MongoDB_ColNames ShopCollectionName = ShopCollectionName{} // Tên các collection

// Các Registry
var RegistryCollections = registry.NewRegistry[*mongo.Collection]() // Registry chứa các collections
var RegistryDatabase = registry.NewRegistry[*mongo.Database]()      // Registry chứa các databases
