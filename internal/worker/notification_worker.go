package worker

import (
	"context"
	"time"

	notificationsvc "shop_commerce/internal/api/notification/service"
	"shop_commerce/internal/logger"
)

// NotificationWorker worker gửi email: đọc các thông báo pending trong hàng đợi,
// gửi qua SMTP rồi đánh dấu sent/failed. Chạy định kỳ (mặc định 30 giây),
// mỗi lần gửi tối đa batchSize email.
type NotificationWorker struct {
	notificationService *notificationsvc.NotificationService
	emailSender         *notificationsvc.EmailSender
	interval            time.Duration // Khoảng thời gian giữa các lần chạy
	batchSize           int64         // Số email tối đa mỗi lần (vd: 20)
}

// NewNotificationWorker tạo mới NotificationWorker.
// Tham số:
//   - interval: Khoảng thời gian giữa các lần chạy (mặc định: 30 giây)
//   - batchSize: Số email tối đa mỗi lần (mặc định: 20)
func NewNotificationWorker(interval time.Duration, batchSize int64) (*NotificationWorker, error) {
	notificationService, err := notificationsvc.NewNotificationService()
	if err != nil {
		return nil, err
	}
	if interval < time.Second {
		interval = 30 * time.Second
	}
	if batchSize <= 0 {
		batchSize = 20
	}
	return &NotificationWorker{
		notificationService: notificationService,
		emailSender:         notificationsvc.NewEmailSender(),
		interval:            interval,
		batchSize:           batchSize,
	}, nil
}

// Start chạy worker trong vòng lặp: mỗi interval đọc batch email pending,
// gửi từng email rồi cập nhật trạng thái.
func (w *NotificationWorker) Start(ctx context.Context) {
	log := logger.GetAppLogger()

	if !w.emailSender.Enabled() {
		log.Warn("📧 [NOTIFICATION] SMTP chưa được cấu hình, worker gửi email không khởi động")
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.WithFields(map[string]interface{}{
		"interval":  w.interval.String(),
		"batchSize": w.batchSize,
	}).Info("📧 [NOTIFICATION] Starting Notification Worker...")

	for {
		select {
		case <-ctx.Done():
			log.Info("📧 [NOTIFICATION] Notification Worker stopped")
			return
		case <-ticker.C:
			func() {
				defer func() {
					if r := recover(); r != nil {
						log.WithFields(map[string]interface{}{
							"panic": r,
						}).Error("📧 [NOTIFICATION] Panic khi gửi email, sẽ tiếp tục ở lần chạy tiếp theo")
					}
				}()

				batchCtx := ctx
				pending, err := w.notificationService.FetchPending(batchCtx, w.batchSize)
				if err != nil {
					log.WithError(err).Error("📧 [NOTIFICATION] Lỗi lấy danh sách email pending")
					return
				}
				if len(pending) == 0 {
					return
				}

				sent := 0
				for i := range pending {
					notification := &pending[i]
					if err := w.emailSender.Send(notification.To, notification.Subject, notification.Body); err != nil {
						log.WithError(err).WithFields(map[string]interface{}{
							"notificationId": notification.ID.Hex(),
							"to":             notification.To,
							"attempts":       notification.Attempts + 1,
						}).Warn("📧 [NOTIFICATION] Gửi email thất bại")
						if markErr := w.notificationService.MarkFailed(batchCtx, notification, err); markErr != nil {
							log.WithError(markErr).Warn("📧 [NOTIFICATION] MarkFailed thất bại")
						}
						continue
					}
					if err := w.notificationService.MarkSent(batchCtx, notification.ID); err != nil {
						log.WithError(err).Warn("📧 [NOTIFICATION] MarkSent thất bại")
						continue
					}
					sent++
				}

				if sent > 0 {
					log.WithFields(map[string]interface{}{
						"sent":  sent,
						"total": len(pending),
					}).Info("📧 [NOTIFICATION] Đã gửi email trong hàng đợi")
				}
			}()
		}
	}
}
