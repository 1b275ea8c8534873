package view

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/invoicer/internal/export"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

type createState int

const (
	createStateType createState = iota
	createStateNumber
	createStateBuyer
	createStateItem
	createStatePreview
	createStateSaving
	createStateResult
)

// invoiceDraft holds the form bindings. It lives behind a pointer so the
// bindings survive the model being copied between updates.
type invoiceDraft struct {
	category   invoice.Category
	number     string
	buyer      invoice.Buyer
	items      []invoice.LineItem
	item       invoice.LineItem
	addAnother bool
	signature  invoice.SignatureMode
	savePDF    bool
	confirm    bool
}

type CreateModel struct {
	CommonModel
	svc *invoice.Service

	state   createState
	draft   *invoiceDraft
	form    *huh.Form
	preview *invoice.Invoice
	spinner spinner.Model

	saved   *invoice.Invoice
	pdfPath string
	err     error
}

func NewCreateModel(svc *invoice.Service) CreateModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := CreateModel{
		svc:     svc,
		state:   createStateType,
		draft:   &invoiceDraft{category: invoice.CategoryTax, signature: invoice.SignatureDigital, savePDF: true},
		spinner: s,
	}
	m.form = m.typeForm()

	return m
}

func (m CreateModel) Title() string { return "New Invoice" }

func (m CreateModel) ShortHelp() string {
	if m.state == createStateResult {
		return "Esc: back to menu"
	}

	return "Esc: back | Enter: next"
}

func (m CreateModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m CreateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case nextNumberMsg:
		if msg.err != nil {
			// Fall back to manual entry.
			m.err = msg.err
		}

		m.draft.number = msg.number
		m.state = createStateBuyer
		m.form = m.buyerForm()

		return m, m.form.Init()

	case createResultMsg:
		m.state = createStateResult
		m.saved = msg.inv
		m.pdfPath = msg.pdfPath
		m.err = msg.err

		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc && m.state != createStateSaving {
			return m, Back
		}
	}

	switch m.state {
	case createStateNumber, createStateSaving:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	case createStateResult:
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m.advance()
}

// advance moves to the next step once the current form is complete.
func (m CreateModel) advance() (tea.Model, tea.Cmd) {
	switch m.state {
	case createStateType:
		m.state = createStateNumber
		return m, tea.Batch(m.spinner.Tick, m.nextNumberCmd(m.draft.category))

	case createStateBuyer:
		m.state = createStateItem
		m.form = m.itemForm()

		return m, m.form.Init()

	case createStateItem:
		m.draft.items = append(m.draft.items, m.draft.item)
		m.draft.item = invoice.LineItem{}

		if m.draft.addAnother {
			m.form = m.itemForm()
			return m, m.form.Init()
		}

		preview, err := invoice.Assemble(invoice.AssembleParams{
			Number:   m.draft.number,
			Category: m.draft.category,
			Buyer:    m.draft.buyer,
			Items:    m.draft.items,
			Now:      time.Now(),
		})
		if err != nil {
			m.state = createStateResult
			m.err = err

			return m, nil
		}

		m.preview = preview
		m.state = createStatePreview
		m.form = m.confirmForm()

		return m, m.form.Init()

	case createStatePreview:
		if !m.draft.confirm {
			return m, Back
		}

		m.state = createStateSaving

		return m, tea.Batch(m.spinner.Tick, m.saveCmd(*m.draft))
	}

	return m, nil
}

func (m CreateModel) typeForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[invoice.Category]().
				Key("type").
				Title("Invoice Type").
				Options(
					huh.NewOption("Tax Invoice", invoice.CategoryTax),
					huh.NewOption("Proforma Invoice", invoice.CategoryProforma),
				).
				Value(&m.draft.category),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m CreateModel) buyerForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("number").
				Title("Invoice No").
				Description("Suggested from the last invoice, edit if needed").
				Value(&m.draft.number).
				Validate(required("invoice number")),

			huh.NewInput().
				Key("name").
				Title("Buyer Name").
				Value(&m.draft.buyer.Name).
				Validate(required("buyer name")),

			huh.NewText().
				Key("address").
				Title("Address").
				Lines(3).
				Value(&m.draft.buyer.Address),

			huh.NewInput().
				Key("gstin").
				Title("GSTIN").
				CharLimit(15).
				Value(&m.draft.buyer.GSTIN),

			huh.NewInput().
				Key("state_code").
				Title("State Code").
				Placeholder("24").
				Value(&m.draft.buyer.StateCode),

			huh.NewInput().
				Key("phone").
				Title("Phone").
				Value(&m.draft.buyer.Phone),
		),
	).WithWidth(60).WithShowHelp(false)
}

func (m CreateModel) itemForm() *huh.Form {
	m.draft.item.Unit = invoice.DefaultUnit
	m.draft.item.TaxRate = "18"
	m.draft.addAnother = false

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("description").
				Title(fmt.Sprintf("Item %d Description", len(m.draft.items)+1)).
				Value(&m.draft.item.Description).
				Validate(required("description")),

			huh.NewInput().
				Key("hsn").
				Title("HSN/SAC").
				Value(&m.draft.item.HSN).
				Validate(required("HSN/SAC code")),

			huh.NewInput().
				Key("quantity").
				Title("Quantity").
				Value(&m.draft.item.Quantity).
				Validate(validateNumber),

			huh.NewInput().
				Key("unit").
				Title("Unit").
				Value(&m.draft.item.Unit),

			huh.NewInput().
				Key("rate").
				Title("Rate").
				Value(&m.draft.item.Rate).
				Validate(validateNumber),

			huh.NewSelect[string]().
				Key("tax_rate").
				Title("GST %").
				Options(huh.NewOptions("0", "5", "12", "18", "28")...).
				Value(&m.draft.item.TaxRate),

			huh.NewConfirm().
				Key("add_another").
				Title("Add another item?").
				Affirmative("Yes").
				Negative("No").
				Value(&m.draft.addAnother),
		),
	).WithWidth(60).WithShowHelp(false)
}

func (m CreateModel) confirmForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[invoice.SignatureMode]().
				Key("signature").
				Title("Signature").
				Options(
					huh.NewOption("Digital (stamp)", invoice.SignatureDigital),
					huh.NewOption("Physical (blank box)", invoice.SignaturePhysical),
				).
				Value(&m.draft.signature),

			huh.NewConfirm().
				Key("save_pdf").
				Title("Save PDF to current directory?").
				Value(&m.draft.savePDF),

			huh.NewConfirm().
				Key("confirm").
				Title("Save invoice?").
				Affirmative("Save").
				Negative("Discard").
				Value(&m.draft.confirm),
		),
	).WithWidth(50).WithShowHelp(false)
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", field)
		}

		return nil
	}
}

func validateNumber(s string) error {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return errors.New("enter a number")
	}

	if d.IsNegative() {
		return errors.New("must not be negative")
	}

	return nil
}

func (m CreateModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	switch m.state {
	case createStateNumber:
		return style.Render(fmt.Sprintf("%s Looking up the next invoice number...", m.spinner.View()))

	case createStateSaving:
		return style.Render(fmt.Sprintf("%s Saving invoice...", m.spinner.View()))

	case createStateResult:
		return style.Render(m.viewResult())

	case createStatePreview:
		return style.Render(lipgloss.JoinHorizontal(lipgloss.Top,
			m.viewPreview(),
			lipgloss.NewStyle().PaddingLeft(4).Render(m.form.View()),
		))
	}

	content := m.form.View()
	if m.err != nil && m.state == createStateBuyer {
		content = errorStyle.Render(fmt.Sprintf("Could not suggest a number: %v", m.err)) + "\n\n" + content
	}

	return style.Render(content)
}

func (m CreateModel) viewPreview() string {
	inv := m.preview

	lines := []string{
		lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("%s %s", inv.Category, inv.Number)),
		"Buyer: " + inv.Buyer.Name,
		"",
	}

	for i, it := range inv.Items {
		lines = append(lines, fmt.Sprintf("%d. %s  %s %s x %s = %s",
			i+1, it.Description, it.Quantity, it.Unit, it.Rate.StringFixed(2), it.Amount.StringFixed(2)))
	}

	lines = append(lines,
		"",
		"Taxable:   "+FormatAmount(inv.TaxableValue),
		"CGST:      "+FormatAmount(inv.TotalCGST),
		"SGST:      "+FormatAmount(inv.TotalSGST),
		"Round Off: "+FormatAmount(inv.RoundOff),
		activeStyle("Total:     "+FormatAmount(inv.GrandTotal)),
		"",
		lipgloss.NewStyle().Italic(true).Width(50).Render(inv.AmountInWords+" Only"),
	)

	return lipgloss.NewStyle().
		Padding(1, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m CreateModel) viewResult() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	}

	s := successText.Render(fmt.Sprintf("Saved %s for %s", m.saved.Number, FormatAmount(m.saved.GrandTotal)))
	if m.pdfPath != "" {
		s += "\n\nPDF written to " + m.pdfPath
	}

	return s
}

// Messages

type nextNumberMsg struct {
	number string
	err    error
}

type createResultMsg struct {
	inv     *invoice.Invoice
	pdfPath string
	err     error
}

func (m CreateModel) nextNumberCmd(category invoice.Category) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		number, err := m.svc.NextNumber(ctx, category)

		return nextNumberMsg{number: number, err: err}
	}
}

func (m CreateModel) saveCmd(draft invoiceDraft) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		inv, err := m.svc.Create(ctx, invoice.CreateParams{
			Number:   strings.TrimSpace(draft.number),
			Category: draft.category,
			Buyer:    draft.buyer,
			Items:    draft.items,
		})
		if err != nil {
			return createResultMsg{err: err}
		}

		if !draft.savePDF {
			return createResultMsg{inv: inv}
		}

		doc, err := m.svc.Render(inv, draft.signature)
		if err != nil {
			return createResultMsg{inv: inv, err: err}
		}

		path := export.Filename(inv)
		if err := os.WriteFile(path, doc, 0o644); err != nil {
			return createResultMsg{inv: inv, err: err}
		}

		return createResultMsg{inv: inv, pdfPath: path}
	}
}
