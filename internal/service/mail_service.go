package service

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/antisocialnet/antisocialnet/internal/config"
	"github.com/antisocialnet/antisocialnet/internal/logger"
	"github.com/antisocialnet/antisocialnet/internal/model"
	"go.uber.org/zap"
)

// MailService 邮件服务
// Suppress 打开时只记日志不外发，测试与本地开发用
type MailService struct {
	log *zap.SugaredLogger
}

// NewMailService 创建邮件服务
func NewMailService() *MailService {
	return &MailService{log: logger.GetSugaredLogger()}
}

// SendPasswordReset 发送密码重置邮件
func (s *MailService) SendPasswordReset(user *model.User, token string) error {
	cfg := config.GetConfig().Mail
	subject := "密码重置"
	body := fmt.Sprintf("你好 %s：\n\n点击以下链接重置密码（1小时内有效）：\n\n/reset-password?token=%s\n\n如果这不是你的操作，请忽略本邮件。",
		user.Username, token)
	return s.send(cfg, user.Email, subject, body)
}

func (s *MailService) send(cfg config.MailConfig, to, subject, body string) error {
	if cfg.Suppress {
		s.log.Infof("邮件已抑制: to=%s subject=%s", to, subject)
		return nil
	}

	msg := strings.Join([]string{
		"From: " + cfg.From,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=UTF-8",
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return smtp.SendMail(addr, auth, cfg.From, []string{to}, []byte(msg))
}
