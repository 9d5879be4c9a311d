package notificationsvc

import (
	"fmt"

	"shop_commerce/internal/global"

	"gopkg.in/gomail.v2"
)

// EmailSender gửi email qua SMTP với cấu hình từ server config.
type EmailSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewEmailSender tạo EmailSender từ cấu hình server.
func NewEmailSender() *EmailSender {
	cfg := global.MongoDB_ServerConfig
	return &EmailSender{
		host:      cfg.SMTPHost,
		port:      cfg.SMTPPort,
		username:  cfg.SMTPUsername,
		password:  cfg.SMTPPassword,
		fromName:  cfg.SMTPFromName,
		fromEmail: cfg.SMTPFromEmail,
	}
}

// Enabled kiểm tra SMTP đã được cấu hình chưa. Chưa cấu hình thì worker bỏ qua việc gửi.
func (e *EmailSender) Enabled() bool {
	return e.host != "" && e.fromEmail != ""
}

// Send gửi một email HTML.
func (e *EmailSender) Send(recipient, subject, htmlContent string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", fmt.Sprintf("%s <%s>", e.fromName, e.fromEmail))
	msg.SetHeader("To", recipient)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlContent)

	dialer := gomail.NewDialer(e.host, e.port, e.username, e.password)
	return dialer.DialAndSend(msg)
}
