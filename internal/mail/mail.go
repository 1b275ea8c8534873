package mail

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

type emailSender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// Mailer sends rendered invoices through Resend.
type Mailer struct {
	emails   emailSender
	log      *zap.Logger
	fromAddr string
	fromName string
}

func NewMailer(apiKey, fromAddr, fromName string, log *zap.Logger) *Mailer {
	return &Mailer{
		emails:   resend.NewClient(apiKey).Emails,
		log:      log,
		fromAddr: fromAddr,
		fromName: fromName,
	}
}

func (m *Mailer) SendInvoice(ctx context.Context, to string, inv *invoice.Invoice, document []byte) error {
	sent, err := m.emails.SendWithContext(ctx, m.buildRequest(to, inv, document))
	if err != nil {
		m.log.Error("failed to send invoice email",
			zap.Error(err),
			zap.String("to", to),
			zap.String("invoice_no", inv.Number))

		return fmt.Errorf("sending email: %w", err)
	}

	m.log.Info("invoice email sent",
		zap.String("email_id", sent.Id),
		zap.String("to", to),
		zap.String("invoice_no", inv.Number))

	return nil
}

func (m *Mailer) buildRequest(to string, inv *invoice.Invoice, document []byte) *resend.SendEmailRequest {
	return &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", m.fromName, m.fromAddr),
		To:      []string{to},
		Subject: fmt.Sprintf("%s - %s", inv.Category, inv.Number),
		Text:    fmt.Sprintf("Dear %s,\n\nPlease find attached invoice.\n\nRegards,\n%s", inv.Buyer.Name, m.fromName),
		Attachments: []*resend.Attachment{
			{
				Content:  document,
				Filename: inv.Number + ".pdf",
			},
		},
		Tags: []resend.Tag{
			{Name: "category", Value: "invoice"},
		},
	}
}
