package utils

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"os"
	"path/filepath"

	"github.com/medikart/medikart-api/models"
)

type OrderEmailData struct {
	Name     string
	OrderRef string
	Total    float64
	Items    []models.OrderItem
	LogoURL  string
}

// SendOrderConfirmation mails the customer a receipt once their payment has
// been captured. Callers treat failures as non-fatal.
func SendOrderConfirmation(emailTo string, order *models.Order) error {
	data := OrderEmailData{
		Name:     order.CustomerName(),
		OrderRef: order.OrderRef,
		Total:    order.TotalAmount,
		Items:    order.CartItems.Data(),
		LogoURL:  os.Getenv("LOGO_URL"),
	}

	templatePath := filepath.Join("templates", "order_confirmation.html")
	return SendEmail(emailTo, "Your MediKart order is confirmed", data, templatePath)
}

func SendEmail(emailTo string, emailSubject string, data any, templatePath string) error {
	tmpl, err := template.ParseFiles(templatePath)
	if err != nil {
		return fmt.Errorf("template parse error: %w", err)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("template execution error: %w", err)
	}

	message := fmt.Sprintf(
		"From: %s\r\nSubject: %s\r\nMIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n\r\n%s",
		os.Getenv("FROM_EMAIL"),
		emailSubject,
		body.String(),
	)

	auth := smtp.PlainAuth(
		"",
		os.Getenv("FROM_EMAIL"),
		os.Getenv("FROM_EMAIL_PASSWORD"),
		os.Getenv("FROM_EMAIL_SMTP"),
	)

	if err := smtp.SendMail(os.Getenv("SMTP_ADDRESS"), auth, os.Getenv("FROM_EMAIL"), []string{emailTo}, []byte(message)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
