package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

type itemRecord struct {
	Description string          `json:"description"`
	HSN         string          `json:"hsn"`
	Unit        string          `json:"unit"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	TaxRate     decimal.Decimal `json:"taxRate"`
	Amount      decimal.Decimal `json:"amount"`
}

type breakdownRecord struct {
	HSN        string          `json:"hsn"`
	Taxable    decimal.Decimal `json:"taxable"`
	Rate       decimal.Decimal `json:"rate"`
	CGSTAmount decimal.Decimal `json:"cgstAmount"`
	SGSTAmount decimal.Decimal `json:"sgstAmount"`
}

const selectInvoiceColumns = `
	id, invoice_no, category, issued_at, due_at,
	buyer_name, buyer_address, buyer_state_code, buyer_gstin, buyer_phone,
	bank_name, bank_ifsc, bank_account_no, bank_branch,
	items, taxable_value, total_cgst, total_sgst, round_off, grand_total,
	amount_in_words, tax_breakdown, created_at
`

// scanInvoice reads an invoice row in selectInvoiceColumns order.
func scanInvoice(s scanner) (*invoice.Invoice, error) {
	var inv invoice.Invoice

	var category string

	var itemsJSON, breakdownJSON []byte

	if err := s.Scan(
		&inv.ID, &inv.Number, &category, &inv.Date, &inv.DueDate,
		&inv.Buyer.Name, &inv.Buyer.Address, &inv.Buyer.StateCode, &inv.Buyer.GSTIN, &inv.Buyer.Phone,
		&inv.Bank.BankName, &inv.Bank.IFSC, &inv.Bank.AccountNo, &inv.Bank.Branch,
		&itemsJSON, &inv.TaxableValue, &inv.TotalCGST, &inv.TotalSGST, &inv.RoundOff, &inv.GrandTotal,
		&inv.AmountInWords, &breakdownJSON, &inv.CreatedAt,
	); err != nil {
		return nil, err
	}

	inv.Category = invoice.Category(category)

	var items []itemRecord
	if err := json.Unmarshal(itemsJSON, &items); err != nil {
		return nil, fmt.Errorf("decoding items: %w", err)
	}

	inv.Items = make([]invoice.ComputedLineItem, len(items))
	for i, it := range items {
		inv.Items[i] = invoice.ComputedLineItem(it)
	}

	var breakdown []breakdownRecord
	if err := json.Unmarshal(breakdownJSON, &breakdown); err != nil {
		return nil, fmt.Errorf("decoding tax breakdown: %w", err)
	}

	inv.TaxBreakdown = make([]invoice.TaxBreakdownEntry, len(breakdown))
	for i, b := range breakdown {
		inv.TaxBreakdown[i] = invoice.TaxBreakdownEntry(b)
	}

	return &inv, nil
}

func encodeDetails(inv *invoice.Invoice) (string, string, error) {
	items := make([]itemRecord, len(inv.Items))
	for i, it := range inv.Items {
		items[i] = itemRecord(it)
	}

	breakdown := make([]breakdownRecord, len(inv.TaxBreakdown))
	for i, b := range inv.TaxBreakdown {
		breakdown[i] = breakdownRecord(b)
	}

	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return "", "", fmt.Errorf("encoding items: %w", err)
	}

	breakdownJSON, err := json.Marshal(breakdown)
	if err != nil {
		return "", "", fmt.Errorf("encoding tax breakdown: %w", err)
	}

	return string(itemsJSON), string(breakdownJSON), nil
}

func (s *Store) CreateInvoice(ctx context.Context, inv *invoice.Invoice) error {
	itemsJSON, breakdownJSON, err := encodeDetails(inv)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO invoices (
			invoice_no, category, issued_at, due_at,
			buyer_name, buyer_address, buyer_state_code, buyer_gstin, buyer_phone,
			bank_name, bank_ifsc, bank_account_no, bank_branch,
			items, taxable_value, total_cgst, total_sgst, round_off, grand_total,
			amount_in_words, tax_breakdown, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, NOW())
		RETURNING id, created_at
	`

	err = s.db.QueryRowContext(ctx, query,
		inv.Number,
		inv.Category,
		inv.Date,
		inv.DueDate,
		inv.Buyer.Name,
		inv.Buyer.Address,
		inv.Buyer.StateCode,
		inv.Buyer.GSTIN,
		inv.Buyer.Phone,
		inv.Bank.BankName,
		inv.Bank.IFSC,
		inv.Bank.AccountNo,
		inv.Bank.Branch,
		itemsJSON,
		inv.TaxableValue,
		inv.TotalCGST,
		inv.TotalSGST,
		inv.RoundOff,
		inv.GrandTotal,
		inv.AmountInWords,
		breakdownJSON,
	).Scan(&inv.ID, &inv.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating invoice: %w", err)
	}

	return nil
}

func (s *Store) GetInvoice(ctx context.Context, id uuid.UUID) (*invoice.Invoice, error) {
	query := `SELECT ` + selectInvoiceColumns + ` FROM invoices WHERE id = $1`

	inv, err := scanInvoice(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, invoice.ErrNotFound
		}

		return nil, fmt.Errorf("getting invoice: %w", err)
	}

	return inv, nil
}

func (s *Store) ListInvoices(ctx context.Context, filter invoice.ListFilter) ([]*invoice.Invoice, error) {
	query := `SELECT ` + selectInvoiceColumns + ` FROM invoices WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.Category != nil {
		query += fmt.Sprintf(" AND category = $%d", argIdx)

		args = append(args, *filter.Category)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND issued_at >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND issued_at <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	query += " ORDER BY issued_at DESC, created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}
	defer rows.Close()

	var invoices []*invoice.Invoice

	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning invoice: %w", err)
		}

		invoices = append(invoices, inv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating invoice rows: %w", err)
	}

	return invoices, nil
}

func (s *Store) DeleteInvoice(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting invoice: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting invoice: %w", err)
	}

	if n == 0 {
		return invoice.ErrNotFound
	}

	return nil
}

// LatestNumber finds the newest invoice of the category whose number starts with prefix.
func (s *Store) LatestNumber(ctx context.Context, prefix string, category invoice.Category) (string, error) {
	query := `
		SELECT invoice_no
		FROM invoices
		WHERE invoice_no LIKE $1 AND category = $2
		ORDER BY created_at DESC
		LIMIT 1
	`

	var number string

	err := s.db.QueryRowContext(ctx, query, likePrefix(prefix), category).Scan(&number)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}

		return "", fmt.Errorf("finding latest invoice number: %w", err)
	}

	return number, nil
}

// MonthlyTotals sums grand totals per calendar month of issue in [start, end).
// Months are taken in the location of start, not the database session's.
func (s *Store) MonthlyTotals(ctx context.Context, category invoice.Category, start, end time.Time) (map[time.Month]decimal.Decimal, error) {
	query := `
		SELECT issued_at, grand_total
		FROM invoices
		WHERE category = $1 AND issued_at >= $2 AND issued_at < $3
	`

	rows, err := s.db.QueryContext(ctx, query, category, start, end)
	if err != nil {
		return nil, fmt.Errorf("aggregating monthly totals: %w", err)
	}
	defer rows.Close()

	loc := start.Location()
	totals := make(map[time.Month]decimal.Decimal, 12)

	for rows.Next() {
		var (
			issuedAt time.Time
			amount   decimal.Decimal
		)

		if err := rows.Scan(&issuedAt, &amount); err != nil {
			return nil, fmt.Errorf("scanning monthly total: %w", err)
		}

		month := issuedAt.In(loc).Month()
		totals[month] = totals[month].Add(amount)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating monthly totals: %w", err)
	}

	return totals, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePrefix(prefix string) string {
	return likeEscaper.Replace(prefix) + "%"
}
