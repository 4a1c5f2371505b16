package notifier

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"jobboard/internal/model"
)

// EmailConfig 邮件配置。
type EmailConfig struct {
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
	From     string `yaml:"from" json:"from"`
	Subject  string `yaml:"subject" json:"subject"`
}

// Enabled 是否配置了 SMTP 服务器。
func (c EmailConfig) Enabled() bool {
	return strings.TrimSpace(c.Host) != ""
}

// EmailMessage 表示一封邮件。
type EmailMessage struct {
	From    string
	To      []string
	Subject string
	Body    string
}

// EmailSender 抽象发送接口，便于测试替换。
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// SMTPClient 封装 SMTP 发送。
type SMTPClient struct {
	addr string
	auth smtp.Auth
}

func NewSMTPClient(cfg EmailConfig) *SMTPClient {
	port := cfg.Port
	if port == 0 {
		port = 587
	}
	addr := fmt.Sprintf("%s:%d", cfg.Host, port)
	var auth smtp.Auth
	if cfg.Username != "" && cfg.Password != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &SMTPClient{addr: addr, auth: auth}
}

func (c *SMTPClient) Send(ctx context.Context, msg EmailMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(msg.To) == 0 {
		return fmt.Errorf("send mail: no recipients")
	}
	data := buildEmailData(msg)
	if err := smtp.SendMail(c.addr, c.auth, msg.From, msg.To, []byte(data)); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

// EmailNotifier 把新职位摘要发送给单个收件人。
type EmailNotifier struct {
	cfg    EmailConfig
	sender EmailSender
}

// NewEmailNotifier 创建 EmailNotifier。
func NewEmailNotifier(cfg EmailConfig, sender EmailSender) *EmailNotifier {
	if sender == nil {
		sender = NewSMTPClient(cfg)
	}
	if cfg.Subject == "" {
		cfg.Subject = "New jobs on the board"
	}
	return &EmailNotifier{cfg: cfg, sender: sender}
}

// Notify 发送职位摘要，若列表为空则跳过。
func (n EmailNotifier) Notify(ctx context.Context, to string, jobs []model.JobPosting) error {
	if len(jobs) == 0 {
		return nil
	}

	msg := EmailMessage{
		From:    n.cfg.From,
		To:      []string{to},
		Subject: n.cfg.Subject,
		Body:    buildBody(jobs),
	}
	return n.sender.Send(ctx, msg)
}

func buildBody(jobs []model.JobPosting) string {
	var b strings.Builder
	b.WriteString("New jobs:\n")
	for _, j := range jobs {
		company := ""
		if j.Company != nil {
			company = j.Company.Name
		}
		b.WriteString(fmt.Sprintf("- %s", j.Title))
		if company != "" {
			b.WriteString(fmt.Sprintf(" at %s", company))
		}
		if j.Location != "" {
			b.WriteString(fmt.Sprintf(" (%s)", j.Location))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func buildEmailData(msg EmailMessage) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("From: %s\r\n", msg.From))
	b.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(msg.To, ",")))
	b.WriteString(fmt.Sprintf("Subject: %s\r\n", msg.Subject))
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(msg.Body)
	return b.String()
}
