package mail

import (
	"context"
	"errors"
	"testing"

	"github.com/resend/resend-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

type fakeSender struct {
	got *resend.SendEmailRequest
	err error
}

func (f *fakeSender) SendWithContext(_ context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	f.got = params
	if f.err != nil {
		return nil, f.err
	}

	return &resend.SendEmailResponse{Id: "email-1"}, nil
}

func testInvoice() *invoice.Invoice {
	return &invoice.Invoice{
		Number:   "MGE-26004",
		Category: invoice.CategoryTax,
		Buyer:    invoice.Buyer{Name: "Acme Solar"},
	}
}

func TestMailer_SendInvoice(t *testing.T) {
	sender := &fakeSender{}
	m := &Mailer{emails: sender, log: zap.NewNop(), fromAddr: "billing@example.com", fromName: "Meetra Green Energy"}

	err := m.SendInvoice(context.Background(), "buyer@example.com", testInvoice(), []byte("%PDF-1.3"))
	require.NoError(t, err)

	req := sender.got
	require.NotNil(t, req)
	assert.Equal(t, "Meetra Green Energy <billing@example.com>", req.From)
	assert.Equal(t, []string{"buyer@example.com"}, req.To)
	assert.Equal(t, "Tax Invoice - MGE-26004", req.Subject)
	assert.Equal(t, "Dear Acme Solar,\n\nPlease find attached invoice.\n\nRegards,\nMeetra Green Energy", req.Text)

	require.Len(t, req.Attachments, 1)
	assert.Equal(t, "MGE-26004.pdf", req.Attachments[0].Filename)
	assert.Equal(t, []byte("%PDF-1.3"), req.Attachments[0].Content)
}

func TestMailer_SendInvoice_Error(t *testing.T) {
	sender := &fakeSender{err: errors.New("rate limited")}
	m := &Mailer{emails: sender, log: zap.NewNop()}

	err := m.SendInvoice(context.Background(), "buyer@example.com", testInvoice(), nil)
	assert.ErrorContains(t, err, "rate limited")
}
