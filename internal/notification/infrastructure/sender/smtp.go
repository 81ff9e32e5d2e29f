package sender

import (
	"context"
	"log/slog"

	"github.com/wyfcoding/recruitment/internal/notification/domain"
)

// SMTPSender SMTP 邮件发送器
type SMTPSender struct {
	host     string
	port     string
	username string
	password string
	from     string
}

// NewSMTPSender 创建 SMTP 邮件发送器
func NewSMTPSender(host, port, username, password, from string) domain.EmailSender {
	return &SMTPSender{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

// Send 发送邮件
func (s *SMTPSender) Send(ctx context.Context, to, subject, text, html string) error {
	slog.InfoContext(ctx, "sending email", "to", to, "subject", subject)

	// 企业级实现通常使用 gomail 或直接使用 net/smtp
	// 此处演示标准 SMTP 协议交互
	body := text
	if html != "" {
		body = html
	}
	msg := []byte("From: " + s.from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"\r\n" +
		body + "\r\n")

	// auth := smtp.PlainAuth("", s.username, s.password, s.host)
	// addr := fmt.Sprintf("%s:%s", s.host, s.port)

	// 在模拟环境中，我们通过日志输出模拟发送，防止 Auth 失败
	slog.DebugContext(ctx, "SMTP Raw Message", "msg", string(msg))

	// return smtp.SendMail(addr, auth, s.from, []string{to}, msg)
	return nil // 模拟环境中始终返回成功
}
