// Package models - model hàng đợi thông báo email thuộc domain notification.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Các trạng thái của một thông báo trong hàng đợi.
const (
	NotificationStatusPending = "pending"
	NotificationStatusSent    = "sent"
	NotificationStatusFailed  = "failed"
)

// maxSendAttempts số lần gửi tối đa trước khi đánh dấu failed hẳn
const MaxSendAttempts = 3

// EmailNotification một email chờ gửi trong hàng đợi.
// Worker nền đọc các document pending, gửi qua SMTP và cập nhật trạng thái.
type EmailNotification struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	To        string             `json:"to" bson:"to"`
	Subject   string             `json:"subject" bson:"subject"`
	Body      string             `json:"body" bson:"body"`
	Status    string             `json:"status" bson:"status" index:"single"`
	Attempts  int                `json:"attempts" bson:"attempts"`
	LastError string             `json:"lastError,omitempty" bson:"lastError,omitempty"`
	CreatedAt int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64              `json:"updatedAt" bson:"updatedAt"`
}
