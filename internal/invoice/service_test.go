package invoice_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

func fixedClock() time.Time {
	return issuedAt
}

func TestService_NextNumber(t *testing.T) {
	type testCase struct {
		name      string
		category  invoice.Category
		setupMock func(m *invoice.MockRepository)
		want      string
		wantErr   error
	}

	tests := []testCase{
		{
			name:     "FirstTaxInvoiceOfYear",
			category: invoice.CategoryTax,
			setupMock: func(m *invoice.MockRepository) {
				m.EXPECT().LatestNumber(gomock.Any(), "MGE-26", invoice.CategoryTax).Return("", nil)
			},
			want: "MGE-26001",
		},
		{
			name:     "FirstProformaOfYear",
			category: invoice.CategoryProforma,
			setupMock: func(m *invoice.MockRepository) {
				m.EXPECT().LatestNumber(gomock.Any(), "PI-26-", invoice.CategoryProforma).Return("", nil)
			},
			want: "PI-26-001",
		},
		{
			name:     "IncrementsTax",
			category: invoice.CategoryTax,
			setupMock: func(m *invoice.MockRepository) {
				m.EXPECT().LatestNumber(gomock.Any(), "MGE-26", invoice.CategoryTax).Return("MGE-26004", nil)
			},
			want: "MGE-26005",
		},
		{
			name:     "IncrementsProforma",
			category: invoice.CategoryProforma,
			setupMock: func(m *invoice.MockRepository) {
				m.EXPECT().LatestNumber(gomock.Any(), "PI-26-", invoice.CategoryProforma).Return("PI-26-007", nil)
			},
			want: "PI-26-008",
		},
		{
			name:     "EmptyCategoryIsTax",
			category: "",
			setupMock: func(m *invoice.MockRepository) {
				m.EXPECT().LatestNumber(gomock.Any(), "MGE-26", invoice.CategoryTax).Return("MGE-26010", nil)
			},
			want: "MGE-26011",
		},
		{
			name:     "GrowsPast999",
			category: invoice.CategoryTax,
			setupMock: func(m *invoice.MockRepository) {
				m.EXPECT().LatestNumber(gomock.Any(), "MGE-26", invoice.CategoryTax).Return("MGE-26999", nil)
			},
			want: "MGE-261000",
		},
		{
			name:     "MalformedStoredNumber",
			category: invoice.CategoryProforma,
			setupMock: func(m *invoice.MockRepository) {
				m.EXPECT().LatestNumber(gomock.Any(), "PI-26-", invoice.CategoryProforma).Return("PI-26-X1", nil)
			},
			wantErr: invoice.ErrMalformedNumber,
		},
		{
			name:      "UnknownCategory",
			category:  "Credit Note",
			setupMock: nil,
			wantErr:   invoice.ErrUnknownCategory,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := invoice.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := invoice.NewService(repo, invoice.WithClock(fixedClock))
			got, err := svc.NextNumber(context.Background(), tt.category)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_NextNumber_RepoError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := invoice.NewMockRepository(ctrl)
	repo.EXPECT().LatestNumber(gomock.Any(), gomock.Any(), gomock.Any()).Return("", errors.New("connection refused"))

	svc := invoice.NewService(repo, invoice.WithClock(fixedClock))
	_, err := svc.NextNumber(context.Background(), invoice.CategoryTax)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "compute next number")
}

func TestService_Create(t *testing.T) {
	items := []invoice.LineItem{
		{Description: "Installation", HSN: "995461", Quantity: "3", Rate: "1000", TaxRate: "18"},
	}

	type testCase struct {
		name      string
		params    invoice.CreateParams
		setupMock func(m *invoice.MockRepository)
		wantNo    string
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "SuppliedNumber",
			params: invoice.CreateParams{
				Number:   "MGE-26077",
				Category: invoice.CategoryTax,
				Buyer:    invoice.Buyer{Name: "Acme Solar"},
				Items:    items,
			},
			setupMock: func(m *invoice.MockRepository) {
				m.EXPECT().
					CreateInvoice(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, inv *invoice.Invoice) error {
						inv.ID = uuid.New()
						inv.CreatedAt = time.Now()
						return nil
					})
			},
			wantNo: "MGE-26077",
		},
		{
			name: "AllocatedNumber",
			params: invoice.CreateParams{
				Category: invoice.CategoryProforma,
				Items:    items,
			},
			setupMock: func(m *invoice.MockRepository) {
				m.EXPECT().LatestNumber(gomock.Any(), "PI-26-", invoice.CategoryProforma).Return("PI-26-002", nil)
				m.EXPECT().CreateInvoice(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantNo: "PI-26-003",
		},
		{
			name: "RepoError",
			params: invoice.CreateParams{
				Number: "MGE-26001",
				Items:  items,
			},
			setupMock: func(m *invoice.MockRepository) {
				m.EXPECT().CreateInvoice(gomock.Any(), gomock.Any()).Return(errors.New("db error"))
			},
			wantErr: true,
		},
		{
			name: "UnknownCategory",
			params: invoice.CreateParams{
				Number:   "X-1",
				Category: "Receipt",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := invoice.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := invoice.NewService(repo, invoice.WithClock(fixedClock))
			got, err := svc.Create(context.Background(), tt.params)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantNo, got.Number)
			assert.Equal(t, "3540.00", got.GrandTotal.StringFixed(2))
			assert.Equal(t, issuedAt, got.Date)
		})
	}
}

func TestService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	missing := uuid.New()

	repo := invoice.NewMockRepository(ctrl)
	repo.EXPECT().DeleteInvoice(gomock.Any(), missing).Return(invoice.ErrNotFound)

	svc := invoice.NewService(repo)
	err := svc.Delete(context.Background(), missing)

	assert.ErrorIs(t, err, invoice.ErrNotFound)
}

func TestService_MonthlyTotals(t *testing.T) {
	type testCase struct {
		name      string
		sums      map[time.Month]decimal.Decimal
		wantMarch string
		wantTotal string
	}

	tests := []testCase{
		{
			name:      "NoInvoices",
			sums:      map[time.Month]decimal.Decimal{},
			wantMarch: "0.00",
			wantTotal: "0.00",
		},
		{
			name: "SomeMonths",
			sums: map[time.Month]decimal.Decimal{
				time.March:    decimal.NewFromInt(3540),
				time.December: decimal.NewFromInt(1000),
			},
			wantMarch: "3540.00",
			wantTotal: "4540.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
			end := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

			repo := invoice.NewMockRepository(ctrl)
			repo.EXPECT().MonthlyTotals(gomock.Any(), invoice.CategoryTax, start, end).Return(tt.sums, nil)

			svc := invoice.NewService(repo, invoice.WithClock(fixedClock))
			got, err := svc.MonthlyTotals(context.Background(), 2025)
			require.NoError(t, err)

			require.Len(t, got, 12)

			var total decimal.Decimal
			for i, m := range got {
				assert.Equal(t, time.Month(i+1), m.Month)
				total = total.Add(m.Turnover)
			}

			assert.Equal(t, "Jan", got[0].Name)
			assert.Equal(t, "Dec", got[11].Name)
			assert.Equal(t, tt.wantMarch, got[2].Turnover.StringFixed(2))
			assert.Equal(t, tt.wantTotal, total.StringFixed(2))
		})
	}
}

func TestService_Email(t *testing.T) {
	params := invoice.EmailParams{
		CreateParams: invoice.CreateParams{
			Number:   "MGE-26009",
			Category: invoice.CategoryTax,
			Buyer:    invoice.Buyer{Name: "Acme Solar"},
			Items:    []invoice.LineItem{{HSN: "995461", Quantity: "1", Rate: "100", TaxRate: "18"}},
		},
		To:        "accounts@acme.example",
		Signature: invoice.SignatureDigital,
	}

	t.Run("SendsWithoutStoring", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := invoice.NewMockRepository(ctrl)
		renderer := invoice.NewMockRenderer(ctrl)
		mailer := invoice.NewMockMailer(ctrl)

		doc := []byte("%PDF-1.3")
		renderer.EXPECT().Render(gomock.Any(), invoice.SignatureDigital).Return(doc, nil)
		mailer.EXPECT().SendInvoice(gomock.Any(), "accounts@acme.example", gomock.Any(), doc).Return(nil)

		svc := invoice.NewService(repo,
			invoice.WithRenderer(renderer),
			invoice.WithMailer(mailer),
			invoice.WithClock(fixedClock))

		got, err := svc.Email(context.Background(), params)
		require.NoError(t, err)
		assert.Equal(t, "MGE-26009", got.Number)
		assert.Equal(t, "118.00", got.GrandTotal.StringFixed(2))
	})

	t.Run("MailerError", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		renderer := invoice.NewMockRenderer(ctrl)
		mailer := invoice.NewMockMailer(ctrl)

		renderer.EXPECT().Render(gomock.Any(), gomock.Any()).Return([]byte("pdf"), nil)
		mailer.EXPECT().SendInvoice(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("rate limited"))

		svc := invoice.NewService(invoice.NewMockRepository(ctrl),
			invoice.WithRenderer(renderer),
			invoice.WithMailer(mailer))

		_, err := svc.Email(context.Background(), params)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "send invoice MGE-26009")
	})

	t.Run("NotConfigured", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc := invoice.NewService(invoice.NewMockRepository(ctrl))

		_, err := svc.Email(context.Background(), params)
		assert.ErrorIs(t, err, invoice.ErrDeliveryUnavailable)
	})
}

func TestService_ShareLink(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()

	repo := invoice.NewMockRepository(ctrl)
	repo.EXPECT().GetInvoice(gomock.Any(), id).Return(&invoice.Invoice{
		ID:     id,
		Number: "MGE-26004",
		Buyer:  invoice.Buyer{Phone: "9876543210"},
	}, nil)

	svc := invoice.NewService(repo)
	got, err := svc.ShareLink(context.Background(), id)

	require.NoError(t, err)
	assert.Contains(t, got, "phone=919876543210")
	assert.Contains(t, got, "MGE-26004")
}
