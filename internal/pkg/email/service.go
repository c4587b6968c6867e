// internal/pkg/email/service.go
package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/pokemart/storefront/internal/config"
	"github.com/pokemart/storefront/internal/domain/identity"
	"github.com/pokemart/storefront/internal/domain/order"
	"github.com/sirupsen/logrus"
)

// Service sends transactional email over SMTP
type Service struct {
	cfg    *config.Config
	users  *identity.Service
	logger *logrus.Logger
}

// NewService creates a new email service
func NewService(cfg *config.Config, users *identity.Service, logger *logrus.Logger) *Service {
	return &Service{
		cfg:    cfg,
		users:  users,
		logger: logger,
	}
}

var confirmationTemplate = template.Must(template.New("confirmation").Parse(`
<html>
<body>
<h2>Thanks for your order!</h2>
<p>Order #{{.OrderID}} is confirmed.</p>
<table>
{{range .Items}}<tr><td>{{.Name}}</td><td>x{{.Quantity}}</td><td>{{printf "$%.2f" .Price}}</td></tr>
{{end}}
</table>
<p><strong>Total: {{printf "$%.2f" .Total}}</strong></p>
<p>Your pokemon are on their way.</p>
</body>
</html>
`))

type confirmationData struct {
	OrderID uint
	Items   []confirmationItem
	Total   float64
}

type confirmationItem struct {
	Name     string
	Quantity int
	Price    float64
}

// SendOrderConfirmation emails the order receipt to the buyer. Guest
// orders have no address on file and are skipped.
func (s *Service) SendOrderConfirmation(ctx context.Context, o *order.Order) error {
	if o.UserID == nil {
		return nil
	}
	if s.cfg.Email.SMTPHost == "" {
		s.logger.Debug("SMTP not configured, skipping order confirmation")
		return nil
	}

	user, err := s.users.GetByID(ctx, *o.UserID)
	if err != nil {
		return err
	}
	if user.Email == "" {
		return nil
	}

	data := confirmationData{
		OrderID: o.ID,
		Total:   float64(o.TotalAmount) / 100,
	}
	for _, item := range o.Items {
		data.Items = append(data.Items, confirmationItem{
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    float64(item.UnitPrice*int64(item.Quantity)) / 100,
		})
	}

	var body bytes.Buffer
	if err := confirmationTemplate.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render confirmation email: %w", err)
	}

	subject := fmt.Sprintf("Order #%d confirmed", o.ID)
	return s.send(user.Email, subject, body.String())
}

func (s *Service) send(to, subject, htmlBody string) error {
	from := fmt.Sprintf("%s <%s>", s.cfg.Email.FromName, s.cfg.Email.FromEmail)
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		from, to, subject, htmlBody)

	addr := fmt.Sprintf("%s:%d", s.cfg.Email.SMTPHost, s.cfg.Email.SMTPPort)
	var a smtp.Auth
	if s.cfg.Email.SMTPUser != "" {
		a = smtp.PlainAuth("", s.cfg.Email.SMTPUser, s.cfg.Email.SMTPPass, s.cfg.Email.SMTPHost)
	}

	if err := smtp.SendMail(addr, a, s.cfg.Email.FromEmail, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.WithField("to", to).Info("Email sent")
	return nil
}
