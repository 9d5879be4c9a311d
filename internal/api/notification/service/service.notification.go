// Package notificationsvc - service hàng đợi thông báo email.
package notificationsvc

import (
	"context"
	"fmt"

	basesvc "shop_commerce/internal/api/base/service"
	models "shop_commerce/internal/api/notification/models"
	"shop_commerce/internal/common"
	"shop_commerce/internal/global"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NotificationService là cấu trúc chứa các phương thức thao tác với hàng đợi email
type NotificationService struct {
	*basesvc.BaseServiceMongoImpl[models.EmailNotification]
}

// NewNotificationService tạo mới NotificationService
func NewNotificationService() (*NotificationService, error) {
	collection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.NotificationQueue)
	if !exist {
		return nil, fmt.Errorf("failed to get notification queue collection: %v", common.ErrNotFound)
	}
	return &NotificationService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.EmailNotification](collection),
	}, nil
}

// Enqueue thêm một email vào hàng đợi chờ worker gửi.
func (s *NotificationService) Enqueue(ctx context.Context, to, subject, body string) (*models.EmailNotification, error) {
	notification := models.EmailNotification{
		To:      to,
		Subject: subject,
		Body:    body,
		Status:  models.NotificationStatusPending,
	}
	created, err := s.BaseServiceMongoImpl.InsertOne(ctx, notification)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// FetchPending lấy các email pending cũ nhất để gửi.
func (s *NotificationService) FetchPending(ctx context.Context, limit int64) ([]models.EmailNotification, error) {
	if limit <= 0 {
		limit = 10
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: 1}}).
		SetLimit(limit)
	return s.BaseServiceMongoImpl.Find(ctx, bson.M{"status": models.NotificationStatusPending}, opts)
}

// MarkSent đánh dấu email đã gửi thành công.
func (s *NotificationService) MarkSent(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.BaseServiceMongoImpl.UpdateById(ctx, id, &basesvc.UpdateData{
		Set: map[string]interface{}{
			"status":    models.NotificationStatusSent,
			"lastError": "",
		},
		Inc: map[string]interface{}{
			"attempts": 1,
		},
	})
	return err
}

// MarkFailed ghi nhận một lần gửi thất bại.
// Quá MaxSendAttempts lần thì chuyển hẳn sang failed, ngược lại giữ pending để thử lại.
func (s *NotificationService) MarkFailed(ctx context.Context, notification *models.EmailNotification, sendErr error) error {
	status := models.NotificationStatusPending
	if notification.Attempts+1 >= models.MaxSendAttempts {
		status = models.NotificationStatusFailed
	}
	_, err := s.BaseServiceMongoImpl.UpdateById(ctx, notification.ID, &basesvc.UpdateData{
		Set: map[string]interface{}{
			"status":    status,
			"lastError": sendErr.Error(),
		},
		Inc: map[string]interface{}{
			"attempts": 1,
		},
	})
	return err
}
