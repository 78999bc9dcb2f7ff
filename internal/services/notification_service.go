// internal/services/notification_service.go
package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"
	"sync"
	texttemplate "text/template"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/prolance/prolance-backend/internal/config"
	"github.com/prolance/prolance-backend/internal/models"
	"github.com/prolance/prolance-backend/internal/store"
)

const notificationTimeout = 30 * time.Second

// NotificationService emails participants about marketplace events. Every
// notification is sent in the background; failures are logged.
type NotificationService struct {
	users  store.UserStore
	config *config.Config
	send   func(to, subject, body string) error
	wg     sync.WaitGroup
}

type EmailTemplate struct {
	Subject string
	Body    string
}

func NewNotificationService(users store.UserStore, config *config.Config) *NotificationService {
	s := &NotificationService{
		users:  users,
		config: config,
	}
	s.send = s.sendEmail
	return s
}

// Wait blocks until every in-flight notification has finished.
func (s *NotificationService) Wait() {
	s.wg.Wait()
}

func (s *NotificationService) UserRegistered(user *models.User) {
	recipient := *user
	s.dispatch("welcome", func(ctx context.Context) error {
		return s.deliver(&recipient, "welcome", map[string]interface{}{
			"Name":         recipient.Name,
			"PlatformName": s.config.Email.FromName,
			"BrowseURL":    s.config.Frontend.BaseURL,
		})
	})
}

func (s *NotificationService) OrderPlaced(order *models.Order, gig *models.Gig) {
	o, g := *order, *gig
	s.dispatch("order_placed", func(ctx context.Context) error {
		seller, err := s.users.GetUser(ctx, g.SellerID)
		if err != nil {
			return fmt.Errorf("failed to load seller: %w", err)
		}
		return s.deliver(seller, "order_placed", map[string]interface{}{
			"Name":     seller.Name,
			"GigTitle": g.Title,
			"Price":    formatPrice(o.Price),
			"OrderURL": s.orderURL(o.ID),
		})
	})
}

func (s *NotificationService) OrderStatusChanged(order *models.Order, gig *models.Gig, actorID uuid.UUID) {
	o, g := *order, *gig
	s.dispatch("order_status", func(ctx context.Context) error {
		recipient, err := s.counterpart(ctx, &o, &g, actorID)
		if err != nil {
			return err
		}
		return s.deliver(recipient, "order_status", map[string]interface{}{
			"Name":     recipient.Name,
			"GigTitle": g.Title,
			"Status":   string(o.Status),
			"OrderURL": s.orderURL(o.ID),
		})
	})
}

func (s *NotificationService) MessagePosted(order *models.Order, gig *models.Gig, message *models.Message) {
	o, g, m := *order, *gig, *message
	s.dispatch("message_posted", func(ctx context.Context) error {
		recipient, err := s.counterpart(ctx, &o, &g, m.SenderID)
		if err != nil {
			return err
		}
		return s.deliver(recipient, "message_posted", map[string]interface{}{
			"Name":     recipient.Name,
			"GigTitle": g.Title,
			"Preview":  preview(m.Content, 200),
			"OrderURL": s.orderURL(o.ID),
		})
	})
}

// Helper methods
func (s *NotificationService) dispatch(kind string, fn func(ctx context.Context) error) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), notificationTimeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			logrus.WithError(err).WithField("notification", kind).Warn("Failed to send notification")
		}
	}()
}

// counterpart returns the participant of the order who is not actorID.
func (s *NotificationService) counterpart(ctx context.Context, order *models.Order, gig *models.Gig, actorID uuid.UUID) (*models.User, error) {
	recipientID := order.BuyerID
	if actorID == order.BuyerID {
		recipientID = gig.SellerID
	}
	user, err := s.users.GetUser(ctx, recipientID)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipient: %w", err)
	}
	return user, nil
}

func (s *NotificationService) deliver(user *models.User, templateType string, data map[string]interface{}) error {
	tmpl := s.getEmailTemplate(templateType)

	subject, err := renderSubject(tmpl.Subject, data)
	if err != nil {
		return fmt.Errorf("failed to render email subject: %w", err)
	}
	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.send(user.Email, subject, body)
}

func (s *NotificationService) sendEmail(to, subject, body string) error {
	if s.config.Email.SMTPHost == "" {
		// Email not configured, just log
		logrus.WithFields(logrus.Fields{
			"to":      to,
			"subject": subject,
		}).Info("Email not configured, skipping send")
		return nil
	}

	auth := smtp.PlainAuth("", s.config.Email.SMTPUsername, s.config.Email.SMTPPassword, s.config.Email.SMTPHost)

	from := fmt.Sprintf("%s <%s>", s.config.Email.FromName, s.config.Email.FromEmail)
	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s", from, to, subject, body))

	addr := fmt.Sprintf("%s:%s", s.config.Email.SMTPHost, s.config.Email.SMTPPort)
	return smtp.SendMail(addr, auth, s.config.Email.FromEmail, []string{to}, msg)
}

func (s *NotificationService) renderTemplate(templateStr string, data interface{}) (string, error) {
	tmpl, err := template.New("email").Parse(templateStr)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// renderSubject uses text/template; headers must not be HTML-escaped.
func renderSubject(templateStr string, data interface{}) (string, error) {
	tmpl, err := texttemplate.New("subject").Parse(templateStr)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return strings.NewReplacer("\r", " ", "\n", " ").Replace(buf.String()), nil
}

func (s *NotificationService) orderURL(orderID uuid.UUID) string {
	return fmt.Sprintf("%s/orders/%s", s.config.Frontend.BaseURL, orderID)
}

func (s *NotificationService) getEmailTemplate(templateType string) EmailTemplate {
	templates := map[string]EmailTemplate{
		"welcome": {
			Subject: "Welcome to {{.PlatformName}}",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Welcome {{.Name}}!</h2>
	<p>Your account is ready. Browse services or publish your first gig.</p>
	<a href="{{.BrowseURL}}">Explore gigs</a>
</body>
</html>`,
		},
		"order_placed": {
			Subject: "New order: {{.GigTitle}}",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>You have a new order</h2>
	<p>Hello {{.Name}},</p>
	<p>A buyer ordered "{{.GigTitle}}" for {{.Price}}.</p>
	<a href="{{.OrderURL}}">View order</a>
</body>
</html>`,
		},
		"order_status": {
			Subject: "Order update: {{.GigTitle}}",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<p>Hello {{.Name}},</p>
	<p>The order for "{{.GigTitle}}" is now <strong>{{.Status}}</strong>.</p>
	<a href="{{.OrderURL}}">View order</a>
</body>
</html>`,
		},
		"message_posted": {
			Subject: "New message about {{.GigTitle}}",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<p>Hello {{.Name}},</p>
	<blockquote>{{.Preview}}</blockquote>
	<a href="{{.OrderURL}}">Reply</a>
</body>
</html>`,
		},
	}

	if template, exists := templates[templateType]; exists {
		return template
	}

	return EmailTemplate{
		Subject: "Notification",
		Body:    "<p>{{.Message}}</p>",
	}
}

func formatPrice(minor int64) string {
	return fmt.Sprintf("$%d.%02d", minor/100, minor%100)
}

func preview(content string, max int) string {
	runes := []rune(content)
	if len(runes) <= max {
		return content
	}
	return string(runes[:max]) + "…"
}
