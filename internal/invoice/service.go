package invoice

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/invoicer/internal/share"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=invoice
type Repository interface {
	CreateInvoice(ctx context.Context, inv *Invoice) error
	GetInvoice(ctx context.Context, id uuid.UUID) (*Invoice, error)
	ListInvoices(ctx context.Context, filter ListFilter) ([]*Invoice, error)
	DeleteInvoice(ctx context.Context, id uuid.UUID) error

	// LatestNumber returns the number of the most recently created invoice of
	// the category whose number starts with prefix, or "" if there is none.
	LatestNumber(ctx context.Context, prefix string, category Category) (string, error)
	MonthlyTotals(ctx context.Context, category Category, start, end time.Time) (map[time.Month]decimal.Decimal, error)
}

// Renderer turns an invoice into a printable document.
type Renderer interface {
	Render(inv *Invoice, mode SignatureMode) ([]byte, error)
}

// Mailer delivers a rendered invoice to a recipient.
type Mailer interface {
	SendInvoice(ctx context.Context, to string, inv *Invoice, document []byte) error
}

type Service struct {
	repo     Repository
	renderer Renderer
	mailer   Mailer
	bank     BankDetails
	now      func() time.Time
	log      *zap.Logger
}

type Option func(*Service)

func WithRenderer(r Renderer) Option {
	return func(s *Service) { s.renderer = r }
}

func WithMailer(m Mailer) Option {
	return func(s *Service) { s.mailer = m }
}

func WithBankDetails(b BankDetails) Option {
	return func(s *Service) { s.bank = b }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.log = l }
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo: repo,
		bank: DefaultBankDetails,
		now:  time.Now,
		log:  zap.NewNop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

type CreateParams struct {
	Number   string
	Category Category
	Buyer    Buyer
	Items    []LineItem
}

type EmailParams struct {
	CreateParams
	To        string
	Signature SignatureMode
}

type ListFilter struct {
	Category  *Category
	StartDate *time.Time
	EndDate   *time.Time
}

// NormalizeCategory maps an empty category to the tax invoice and rejects
// anything that is not a known category.
func NormalizeCategory(c Category) (Category, error) {
	switch c {
	case "":
		return CategoryTax, nil
	case CategoryTax, CategoryProforma:
		return c, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, c)
}

// NextNumber suggests the next invoice number of the category for the current
// year. Nothing is reserved: two callers asking before either invoice is
// stored get the same answer.
func (s *Service) NextNumber(ctx context.Context, category Category) (string, error) {
	category, err := NormalizeCategory(category)
	if err != nil {
		return "", err
	}

	year := s.now().Year()

	latest, err := s.repo.LatestNumber(ctx, Prefix(category, year), category)
	if err != nil {
		return "", fmt.Errorf("compute next number: %w", err)
	}

	next, err := nextNumber(category, year, latest)
	if err != nil {
		return "", fmt.Errorf("compute next number: %w", err)
	}

	return next, nil
}

// Create assembles and stores a new invoice. When no number is supplied the
// next one in the sequence is used.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Invoice, error) {
	inv, err := s.assemble(ctx, params)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateInvoice(ctx, inv); err != nil {
		return nil, err
	}

	s.log.Info("invoice created",
		zap.String("invoice_id", inv.ID.String()),
		zap.String("invoice_no", inv.Number),
		zap.String("category", string(inv.Category)),
		zap.String("grand_total", inv.GrandTotal.StringFixed(2)))

	return inv, nil
}

func (s *Service) assemble(ctx context.Context, params CreateParams) (*Invoice, error) {
	category, err := NormalizeCategory(params.Category)
	if err != nil {
		return nil, err
	}

	number := params.Number
	if number == "" {
		number, err = s.NextNumber(ctx, category)
		if err != nil {
			return nil, err
		}
	}

	return Assemble(AssembleParams{
		Number:   number,
		Category: category,
		Buyer:    params.Buyer,
		Items:    params.Items,
		Bank:     s.bank,
		Now:      s.now(),
	})
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	return s.repo.GetInvoice(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Invoice, error) {
	return s.repo.ListInvoices(ctx, filter)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteInvoice(ctx, id); err != nil {
		return err
	}

	s.log.Info("invoice deleted", zap.String("invoice_id", id.String()))

	return nil
}

// MonthlyTotals returns the tax invoice turnover of each month of year,
// January first. Months without invoices are zero.
func (s *Service) MonthlyTotals(ctx context.Context, year int) ([]MonthlyTotal, error) {
	loc := s.now().Location()
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	end := start.AddDate(1, 0, 0)

	sums, err := s.repo.MonthlyTotals(ctx, CategoryTax, start, end)
	if err != nil {
		return nil, fmt.Errorf("monthly totals: %w", err)
	}

	totals := make([]MonthlyTotal, 12)
	for i := range totals {
		month := time.Month(i + 1)
		totals[i] = MonthlyTotal{
			Month:    month,
			Name:     month.String()[:3],
			Turnover: sums[month],
		}
	}

	return totals, nil
}

// Now is the current time by the service clock.
func (s *Service) Now() time.Time {
	return s.now()
}

// Render produces the printable document of an invoice.
func (s *Service) Render(inv *Invoice, mode SignatureMode) ([]byte, error) {
	if s.renderer == nil {
		return nil, ErrDeliveryUnavailable
	}

	doc, err := s.renderer.Render(inv, mode)
	if err != nil {
		return nil, fmt.Errorf("render invoice %s: %w", inv.Number, err)
	}

	return doc, nil
}

// Email assembles an invoice, renders it and mails it to params.To.
// The invoice is not stored.
func (s *Service) Email(ctx context.Context, params EmailParams) (*Invoice, error) {
	if s.mailer == nil || s.renderer == nil {
		return nil, ErrDeliveryUnavailable
	}

	inv, err := s.assemble(ctx, params.CreateParams)
	if err != nil {
		return nil, err
	}

	doc, err := s.Render(inv, params.Signature)
	if err != nil {
		return nil, err
	}

	if err := s.mailer.SendInvoice(ctx, params.To, inv, doc); err != nil {
		return nil, fmt.Errorf("send invoice %s: %w", inv.Number, err)
	}

	s.log.Info("invoice emailed",
		zap.String("invoice_no", inv.Number),
		zap.String("to", params.To))

	return inv, nil
}

// ShareLink returns a chat link that opens a conversation with the buyer.
func (s *Service) ShareLink(ctx context.Context, id uuid.UUID) (string, error) {
	inv, err := s.repo.GetInvoice(ctx, id)
	if err != nil {
		return "", err
	}

	return share.WhatsAppURL(inv.Buyer.Phone, inv.Number)
}
