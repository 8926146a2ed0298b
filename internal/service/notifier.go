package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/infra/mail"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/model"
	"github.com/RoyceAzure/lab/storefront/internal/util"
	"github.com/rs/zerolog"
)

type INotifier interface {
	// SendOrderConfirmation 寄送訂單確認信給客戶，內含依付款方式不同的付款說明
	SendOrderConfirmation(ctx context.Context, order *model.Order) error
	// SendAdminNewOrderNotification 依序寄送同一封新訂單通知給每個管理員
	// 單一地址失敗只記錄，仍會嘗試下一個，回傳合併後的錯誤
	SendAdminNewOrderNotification(ctx context.Context, order *model.Order) error
	SendPaymentConfirmation(ctx context.Context, order *model.Order) error
	SendShipmentNotification(ctx context.Context, order *model.Order) error
	SendInvoice(ctx context.Context, order *model.Order) error
	SendPasswordReset(ctx context.Context, email, name, resetURL string) error
	SendWelcome(ctx context.Context, email, name string) error
	SendPromotional(ctx context.Context, email, subject, content string) error
}

type Notifier struct {
	sender      mail.Sender
	settings    db.ISettingsRepository
	adminEmails []string
	frontendURL string
	logger      *zerolog.Logger
}

func NewNotifier(sender mail.Sender, settings db.ISettingsRepository, adminEmails []string, frontendURL string, logger *zerolog.Logger) *Notifier {
	if util.IsNil(sender) {
		panic("notifier initialization failed: sender cannot be nil")
	}
	if util.IsNil(settings) {
		panic("notifier initialization failed: settings repository cannot be nil")
	}
	if logger == nil {
		l := zerolog.Nop()
		logger = &l
	}
	return &Notifier{
		sender:      sender,
		settings:    settings,
		adminEmails: adminEmails,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		logger:      logger,
	}
}

type emailData struct {
	Store       model.StoreSettings
	Order       *model.Order
	Name        string
	URL         string
	Content     template.HTML
	FrontendURL string
	Year        int
	PaymentURL  string
}

func (n *Notifier) storeSettings(ctx context.Context) model.StoreSettings {
	s, err := n.settings.GetStoreSettings(ctx)
	if err != nil || s == nil {
		return model.DefaultStoreSettings()
	}
	return *s
}

func (n *Notifier) newData(ctx context.Context, order *model.Order) emailData {
	d := emailData{
		Store:       n.storeSettings(ctx),
		Order:       order,
		FrontendURL: n.frontendURL,
		Year:        time.Now().Year(),
	}
	if order != nil {
		d.Name = order.UserName
		_, d.PaymentURL = order.PaymentReference()
	}
	return d
}

func (n *Notifier) render(name string, data emailData) (string, error) {
	var buf bytes.Buffer
	if err := emailTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", &mail.SendError{Kind: mail.KindTemplate, Err: fmt.Errorf("render %s: %w", name, err)}
	}
	return buf.String(), nil
}

func (n *Notifier) send(ctx context.Context, to, subject, tmpl string, data emailData) error {
	html, err := n.render(tmpl, data)
	if err != nil {
		return err
	}
	if err := n.sender.Send(ctx, mail.Message{To: []string{to}, Subject: subject, HTML: html}); err != nil {
		n.logger.Error().Err(err).Str("recipient", to).Str("template", tmpl).Msg("send email failed")
		return err
	}
	return nil
}

func (n *Notifier) SendOrderConfirmation(ctx context.Context, order *model.Order) error {
	data := n.newData(ctx, order)
	subject := fmt.Sprintf("%s - Order Confirmation #%s", data.Store.StoreName, order.OrderNumber)
	return n.send(ctx, order.UserEmail, subject, "order_confirmation", data)
}

func (n *Notifier) SendAdminNewOrderNotification(ctx context.Context, order *model.Order) error {
	data := n.newData(ctx, order)
	html, err := n.render("admin_new_order", data)
	if err != nil {
		return err
	}
	subject := fmt.Sprintf("New Order #%s - %s %.2f", order.OrderNumber, order.Currency, order.Total)

	var errs []error
	for _, addr := range n.adminEmails {
		if err := n.sender.Send(ctx, mail.Message{To: []string{addr}, Subject: subject, HTML: html}); err != nil {
			n.logger.Error().Err(err).Str("recipient", addr).Str("order_id", order.ID).Msg("send admin notification failed")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (n *Notifier) SendPaymentConfirmation(ctx context.Context, order *model.Order) error {
	data := n.newData(ctx, order)
	subject := fmt.Sprintf("%s - Payment Received #%s", data.Store.StoreName, order.OrderNumber)
	return n.send(ctx, order.UserEmail, subject, "payment_confirmation", data)
}

func (n *Notifier) SendShipmentNotification(ctx context.Context, order *model.Order) error {
	data := n.newData(ctx, order)
	subject := fmt.Sprintf("%s - Your order #%s has shipped", data.Store.StoreName, order.OrderNumber)
	return n.send(ctx, order.UserEmail, subject, "shipment", data)
}

func (n *Notifier) SendInvoice(ctx context.Context, order *model.Order) error {
	data := n.newData(ctx, order)
	subject := fmt.Sprintf("%s - Invoice #%s", data.Store.StoreName, order.OrderNumber)
	return n.send(ctx, order.UserEmail, subject, "invoice", data)
}

func (n *Notifier) SendPasswordReset(ctx context.Context, email, name, resetURL string) error {
	data := n.newData(ctx, nil)
	data.Name = name
	data.URL = resetURL
	return n.send(ctx, email, data.Store.StoreName+" - Reset your password", "password_reset", data)
}

func (n *Notifier) SendWelcome(ctx context.Context, email, name string) error {
	data := n.newData(ctx, nil)
	data.Name = name
	return n.send(ctx, email, "Welcome to "+data.Store.StoreName, "welcome", data)
}

// SendPromotional content 由後台管理員輸入，允許 html
func (n *Notifier) SendPromotional(ctx context.Context, email, subject, content string) error {
	data := n.newData(ctx, nil)
	data.Content = template.HTML(content)
	return n.send(ctx, email, subject, "promotional", data)
}
