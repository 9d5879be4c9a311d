// Package ordersvc - service nghiệp vụ đơn hàng: tạo đơn, checkout từ giỏ,
// máy trạng thái và hoàn kho khi hủy.
package ordersvc

import (
	"context"
	"errors"
	"fmt"
	"time"

	basemodels "shop_commerce/internal/api/base/models"
	basesvc "shop_commerce/internal/api/base/service"
	cartsvc "shop_commerce/internal/api/cart/service"
	catalogmodels "shop_commerce/internal/api/catalog/models"
	catalogsvc "shop_commerce/internal/api/catalog/service"
	notificationsvc "shop_commerce/internal/api/notification/service"
	orderdto "shop_commerce/internal/api/order/dto"
	models "shop_commerce/internal/api/order/models"
	"shop_commerce/internal/common"
	"shop_commerce/internal/global"
	"shop_commerce/internal/logger"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// OrderService là cấu trúc chứa các phương thức nghiệp vụ đơn hàng
type OrderService struct {
	*basesvc.BaseServiceMongoImpl[models.Order]
	productService      *catalogsvc.ProductService
	cartService         *cartsvc.CartService
	notificationService *notificationsvc.NotificationService
	userService         userEmailFinder
}

// userEmailFinder tách riêng phần OrderService cần từ domain auth
// để không phụ thuộc cả UserService.
type userEmailFinder interface {
	FindEmailByID(ctx context.Context, userID primitive.ObjectID) (string, error)
}

// NewOrderService tạo mới OrderService
func NewOrderService(userService userEmailFinder) (*OrderService, error) {
	collection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Orders)
	if !exist {
		return nil, fmt.Errorf("failed to get orders collection: %v", common.ErrNotFound)
	}
	productService, err := catalogsvc.NewProductService()
	if err != nil {
		return nil, err
	}
	cartService, err := cartsvc.NewCartService()
	if err != nil {
		return nil, err
	}
	notificationService, err := notificationsvc.NewNotificationService()
	if err != nil {
		return nil, err
	}
	return &OrderService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Order](collection),
		productService:       productService,
		cartService:          cartService,
		notificationService:  notificationService,
		userService:          userService,
	}, nil
}

// orderLine một dòng hàng đã gộp trùng, dùng nội bộ khi dựng đơn.
type orderLine struct {
	productID primitive.ObjectID
	quantity  int64
}

// MergeOrderLines gộp các dòng hàng trùng productId thành một dòng,
// giữ nguyên thứ tự xuất hiện đầu tiên. ProductId không parse được trả lỗi ngay.
func MergeOrderLines(items []orderdto.OrderItemInput) ([]orderLine, error) {
	merged := make([]orderLine, 0, len(items))
	position := make(map[primitive.ObjectID]int)
	for _, item := range items {
		productID, err := primitive.ObjectIDFromHex(item.ProductID)
		if err != nil {
			return nil, common.NewError(common.ErrCodeValidationFormat, "productId không đúng định dạng ObjectID", common.StatusBadRequest, err)
		}
		if item.Quantity <= 0 {
			return nil, common.NewError(common.ErrCodeValidationInput, "Số lượng mỗi dòng hàng phải lớn hơn 0", common.StatusBadRequest, nil)
		}
		if idx, ok := position[productID]; ok {
			merged[idx].quantity += item.Quantity
			continue
		}
		position[productID] = len(merged)
		merged = append(merged, orderLine{productID: productID, quantity: item.Quantity})
	}
	return merged, nil
}

// CreateOrder tạo đơn hàng từ danh sách dòng hàng.
//
// Trình tự: gộp dòng trùng -> load sản phẩm active và snapshot name/price/attributes
// -> trừ kho từng dòng (DecrementStock có điều kiện) -> insert đơn ở trạng thái pending.
// Bất kỳ bước trừ kho hay insert nào thất bại đều hoàn lại kho các dòng đã trừ.
func (s *OrderService) CreateOrder(ctx context.Context, userID primitive.ObjectID, input *orderdto.OrderCreateInput) (*models.Order, error) {
	lines, err := MergeOrderLines(input.Items)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, common.NewError(common.ErrCodeValidationInput, "Đơn hàng phải có ít nhất một dòng hàng", common.StatusBadRequest, nil)
	}

	orderItems := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		product, err := s.productService.FindOne(ctx, bson.M{
			"_id":       line.productID,
			"isDeleted": false,
			"isActive":  true,
		}, nil)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return nil, errProductUnavailable(line.productID)
			}
			return nil, err
		}
		orderItems = append(orderItems, SnapshotOrderItem(&product, line.quantity))
	}
	totalAmount := ComputeTotal(orderItems)

	// Trừ kho từng dòng, lỗi giữa chừng thì hoàn lại các dòng đã trừ
	decremented := make([]models.OrderItem, 0, len(orderItems))
	for _, item := range orderItems {
		if err := s.productService.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			s.restoreStockForItems(ctx, decremented)
			if errors.Is(err, common.ErrInsufficientStock) {
				return nil, common.NewError(common.ErrCodeBusinessStock,
					fmt.Sprintf("Sản phẩm %s không đủ tồn kho", item.Name),
					common.StatusConflict, nil)
			}
			return nil, err
		}
		decremented = append(decremented, item)
	}

	order := models.Order{
		UserID:          userID,
		Items:           orderItems,
		TotalAmount:     totalAmount,
		Status:          models.OrderStatusPending,
		PaymentMethod:   input.PaymentMethod,
		ShippingAddress: input.ShippingAddress,
		Note:            input.Note,
	}
	created, err := s.BaseServiceMongoImpl.InsertOne(ctx, order)
	if err != nil {
		s.restoreStockForItems(ctx, decremented)
		return nil, err
	}

	logger.GetAuditLogger().WithFields(logrus.Fields{
		"event":       "order_created",
		"orderId":     created.ID.Hex(),
		"userId":      userID.Hex(),
		"totalAmount": created.TotalAmount,
		"itemCount":   len(created.Items),
	}).Info("Tạo đơn hàng thành công")

	s.enqueueOrderConfirmation(ctx, &created)
	return &created, nil
}

// CheckoutFromCart tạo đơn hàng từ toàn bộ giỏ hàng hiện tại của user,
// tạo đơn thành công thì xóa giỏ.
func (s *OrderService) CheckoutFromCart(ctx context.Context, userID primitive.ObjectID, input *orderdto.OrderCheckoutInput) (*models.Order, error) {
	cart, err := s.cartService.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, common.NewError(common.ErrCodeBusinessState, "Giỏ hàng đang trống", common.StatusBadRequest, nil)
	}

	items := make([]orderdto.OrderItemInput, 0, len(cart.Items))
	for _, cartItem := range cart.Items {
		items = append(items, orderdto.OrderItemInput{
			ProductID: cartItem.ProductID.Hex(),
			Quantity:  cartItem.Quantity,
		})
	}

	order, err := s.CreateOrder(ctx, userID, &orderdto.OrderCreateInput{
		Items:           items,
		PaymentMethod:   input.PaymentMethod,
		ShippingAddress: input.ShippingAddress,
		Note:            input.Note,
	})
	if err != nil {
		return nil, err
	}

	// Đơn đã tạo xong, giỏ không xóa được cũng không hủy đơn
	if err := s.cartService.ClearCart(ctx, userID); err != nil {
		logger.GetErrorLogger().WithFields(logrus.Fields{
			"userId":  userID.Hex(),
			"orderId": order.ID.Hex(),
			"error":   err.Error(),
		}).Error("Xóa giỏ hàng sau checkout thất bại")
	}
	return order, nil
}

// UpdateStatus chuyển trạng thái đơn hàng theo máy trạng thái.
// Chuyển sang cancelled sẽ hoàn lại kho toàn bộ dòng hàng của đơn.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID primitive.ObjectID, newStatus string) (*models.Order, error) {
	if !models.IsValidStatus(newStatus) {
		return nil, common.ErrInvalidState
	}

	order, err := s.findExisting(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !models.CanTransition(order.Status, newStatus) {
		return nil, common.NewError(common.ErrCodeBusinessState,
			fmt.Sprintf("Không thể chuyển đơn hàng từ %s sang %s", order.Status, newStatus),
			common.StatusBadRequest, nil)
	}

	// Filter kèm trạng thái cũ: hai request chuyển trạng thái song song
	// chỉ một request thắng. Thao tác trực tiếp trên collection vì filter
	// không còn khớp sau update.
	result, err := s.Collection().UpdateOne(ctx,
		bson.M{"_id": orderID, "status": order.Status, "isDeleted": false},
		bson.M{"$set": bson.M{
			"status":    newStatus,
			"updatedAt": time.Now().UnixMilli(),
		}})
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	if result.MatchedCount == 0 {
		return nil, common.NewError(common.ErrCodeBusinessState, "Trạng thái đơn hàng đã thay đổi, vui lòng thử lại", common.StatusConflict, nil)
	}

	if newStatus == models.OrderStatusCancelled {
		s.restoreStockForItems(ctx, order.Items)
	}

	logger.GetAuditLogger().WithFields(logrus.Fields{
		"event":   "order_status_changed",
		"orderId": orderID.Hex(),
		"from":    order.Status,
		"to":      newStatus,
	}).Info("Chuyển trạng thái đơn hàng")

	order.Status = newStatus
	return order, nil
}

// ListByUser trả về danh sách đơn hàng của một user, mới nhất trước.
func (s *OrderService) ListByUser(ctx context.Context, userID primitive.ObjectID, page, limit int64) (*basemodels.PaginateResult[models.Order], error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return s.BaseServiceMongoImpl.FindWithPagination(ctx,
		bson.M{"userId": userID, "isDeleted": false}, page, limit, opts)
}

// FindByID trả về đơn hàng chưa xóa theo id.
func (s *OrderService) FindByID(ctx context.Context, orderID primitive.ObjectID) (*models.Order, error) {
	order, err := s.findExisting(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Delete xóa mềm đơn hàng.
func (s *OrderService) Delete(ctx context.Context, orderID primitive.ObjectID) error {
	result, err := s.Collection().UpdateOne(ctx,
		bson.M{"_id": orderID, "isDeleted": false},
		bson.M{"$set": bson.M{
			"isDeleted": true,
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

// SnapshotOrderItem chụp lại name/price/attributes của sản phẩm tại thời điểm đặt.
func SnapshotOrderItem(product *catalogmodels.Product, quantity int64) models.OrderItem {
	attributes := make([]catalogmodels.ProductAttribute, len(product.Attributes))
	copy(attributes, product.Attributes)
	return models.OrderItem{
		ProductID:  product.ID,
		Name:       product.Name,
		Price:      product.Price,
		Quantity:   quantity,
		Attributes: attributes,
	}
}

// ComputeTotal tính tổng tiền của các dòng hàng đã snapshot.
func ComputeTotal(items []models.OrderItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// errProductUnavailable lỗi 404 khi dòng hàng tham chiếu sản phẩm
// không tồn tại, đã xóa mềm hoặc đã ngừng bán.
func errProductUnavailable(productID primitive.ObjectID) error {
	return common.NewError(common.ErrCodeDatabaseQuery,
		fmt.Sprintf("Sản phẩm %s không tồn tại hoặc đã ngừng bán", productID.Hex()),
		common.StatusNotFound, nil)
}

// findExisting load đơn hàng chưa xóa theo id.
func (s *OrderService) findExisting(ctx context.Context, orderID primitive.ObjectID) (*models.Order, error) {
	order, err := s.BaseServiceMongoImpl.FindOne(ctx, bson.M{"_id": orderID, "isDeleted": false}, nil)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// restoreStockForItems hoàn kho các dòng hàng, lỗi từng dòng chỉ ghi log.
func (s *OrderService) restoreStockForItems(ctx context.Context, items []models.OrderItem) {
	for _, item := range items {
		if err := s.productService.RestoreStock(ctx, item.ProductID, item.Quantity); err != nil {
			logger.GetErrorLogger().WithFields(logrus.Fields{
				"productId": item.ProductID.Hex(),
				"quantity":  item.Quantity,
				"error":     err.Error(),
			}).Error("Hoàn kho thất bại")
		}
	}
}

// enqueueOrderConfirmation đưa email xác nhận đơn vào hàng đợi, lỗi chỉ ghi log.
func (s *OrderService) enqueueOrderConfirmation(ctx context.Context, order *models.Order) {
	email, err := s.userService.FindEmailByID(ctx, order.UserID)
	if err != nil || email == "" {
		return
	}

	subject := fmt.Sprintf("Xác nhận đơn hàng #%s", order.ID.Hex())
	body := fmt.Sprintf(
		"<p>Đơn hàng <b>#%s</b> của bạn đã được tạo lúc %s.</p><p>Tổng tiền: <b>%.2f</b> (%d sản phẩm).</p><p>Địa chỉ giao hàng: %s</p>",
		order.ID.Hex(),
		time.UnixMilli(order.CreatedAt).Format("02/01/2006 15:04"),
		order.TotalAmount,
		len(order.Items),
		order.ShippingAddress,
	)
	if _, err := s.notificationService.Enqueue(ctx, email, subject, body); err != nil {
		logger.GetErrorLogger().WithFields(logrus.Fields{
			"orderId": order.ID.Hex(),
			"error":   err.Error(),
		}).Error("Đưa email xác nhận đơn vào hàng đợi thất bại")
	}
}
