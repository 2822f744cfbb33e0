package utils

import (
	"fmt"
	"log"
	"os"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"ecommerce-platform/models"
)

// EmailService sends transactional mail through SendGrid. A nil service is
// valid and sends nothing, so callers can pass it through unconditionally.
type EmailService struct {
	client     *sendgrid.Client
	senderName string
	senderMail string
}

// NewEmailService returns nil when SENDGRID_API_KEY is not set; mail is
// simply disabled in that case.
func NewEmailService() *EmailService {
	apiKey := os.Getenv("SENDGRID_API_KEY")
	if apiKey == "" {
		log.Println("⏳ SENDGRID_API_KEY not set, email notifications disabled")
		return nil
	}
	sender := os.Getenv("EMAIL_SENDER")
	if sender == "" {
		sender = "no-reply@localhost"
	}
	return &EmailService{
		client:     sendgrid.NewSendClient(apiKey),
		senderName: "Store Notifications",
		senderMail: sender,
	}
}

// SendEmail sends a single HTML email to the given recipient.
func (es *EmailService) SendEmail(toEmail, subject, htmlContent string) error {
	if es == nil {
		return nil
	}
	from := mail.NewEmail(es.senderName, es.senderMail)
	to := mail.NewEmail("", toEmail)
	message := mail.NewSingleEmail(from, subject, to, htmlContent, htmlContent)

	resp, err := es.client.Send(message)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("send email: sendgrid returned %d", resp.StatusCode)
	}
	return nil
}

// SendOrderConfirmation mails the buyer after a successful checkout.
// Failures are logged, not propagated; checkout already committed.
func (es *EmailService) SendOrderConfirmation(toEmail string, order *models.Order) {
	if es == nil {
		return
	}
	subject := "Order Confirmation"
	htmlContent := fmt.Sprintf(
		"<strong>Thank you for your purchase!</strong><br><br>Your order <strong>%s</strong> has been placed.<br>Total: <strong>%s</strong><br>Shipping to: %s",
		order.OrderRef,
		order.TotalAmount.StringFixed(2),
		order.ShippingAddress,
	)
	if err := es.SendEmail(toEmail, subject, htmlContent); err != nil {
		log.Printf("❌ Order confirmation mail for %s failed: %v", order.OrderRef, err)
	}
}

// SendShipmentNotice mails the buyer when a shipment is created for an order.
func (es *EmailService) SendShipmentNotice(toEmail string, order *models.Order, shipment *models.Shipping) {
	if es == nil {
		return
	}
	subject := "Your Order Has Shipped"
	htmlContent := fmt.Sprintf(
		"<strong>Good news!</strong><br><br>Your order <strong>%s</strong> is on its way via %s.<br>Tracking number: <strong>%s</strong>",
		order.OrderRef,
		shipment.CourierName,
		shipment.TrackingNumber,
	)
	if err := es.SendEmail(toEmail, subject, htmlContent); err != nil {
		log.Printf("❌ Shipment notice mail for %s failed: %v", order.OrderRef, err)
	}
}
