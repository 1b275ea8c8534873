package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/MrJamesThe3rd/invoicer/internal/config"
	"github.com/MrJamesThe3rd/invoicer/internal/database"
	"github.com/MrJamesThe3rd/invoicer/internal/export"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice/store"
	"github.com/MrJamesThe3rd/invoicer/internal/logger"
	"github.com/MrJamesThe3rd/invoicer/internal/render"
)

type env struct {
	cfg *config.Config
	db  *sql.DB
	svc *invoice.Service
}

func (e *env) Close() error {
	return e.db.Close()
}

func setup(c *cli.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(c.String("log-level"), "console")
	if err != nil {
		return nil, err
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		return nil, err
	}

	renderer := render.NewPDF(render.Seller{
		Name:          cfg.Seller.Name,
		Address:       cfg.Seller.Address,
		GSTIN:         cfg.Seller.GSTIN,
		Contact:       cfg.Seller.Contact,
		Email:         cfg.Seller.Email,
		PlaceOfSupply: cfg.Seller.PlaceOfSupply,
		Jurisdiction:  cfg.Seller.Jurisdiction,
	}, render.Assets{LogoPath: cfg.Assets.LogoPath, StampPath: cfg.Assets.StampPath})

	svc := invoice.NewService(store.New(db),
		invoice.WithLogger(log),
		invoice.WithBankDetails(cfg.BankDetails()),
		invoice.WithRenderer(renderer))

	return &env{cfg: cfg, db: db, svc: svc}, nil
}

var typeFlag = &cli.StringFlag{
	Name:    "type",
	Aliases: []string{"t"},
	Usage:   `"Tax Invoice" or "Proforma Invoice"`,
	Value:   string(invoice.CategoryTax),
}

func signatureFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "signature",
		Usage: `"Physical" or "Digital"`,
		Value: string(invoice.SignatureDigital),
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "create the invoice tables",
		Action: func(c *cli.Context) error {
			e, err := setup(c)
			if err != nil {
				return err
			}
			defer e.Close()

			if err := database.Migrate(c.Context, e.db); err != nil {
				return err
			}

			fmt.Fprintln(c.App.Writer, "schema up to date")

			return nil
		},
	}
}

func nextNumberCommand() *cli.Command {
	return &cli.Command{
		Name:  "next-number",
		Usage: "print the next invoice number of a type",
		Flags: []cli.Flag{typeFlag},
		Action: func(c *cli.Context) error {
			e, err := setup(c)
			if err != nil {
				return err
			}
			defer e.Close()

			next, err := e.svc.NextNumber(c.Context, invoice.Category(c.String("type")))
			if err != nil {
				return err
			}

			fmt.Fprintln(c.App.Writer, next)

			return nil
		},
	}
}

func listFilter(c *cli.Context) (invoice.ListFilter, error) {
	var filter invoice.ListFilter

	if s := c.String("type"); s != "" {
		category, err := invoice.NormalizeCategory(invoice.Category(s))
		if err != nil {
			return filter, err
		}

		filter.Category = new(category)
	}

	if ts := c.Timestamp("from"); ts != nil {
		filter.StartDate = new(*ts)
	}

	if ts := c.Timestamp("to"); ts != nil {
		filter.EndDate = new(ts.AddDate(0, 0, 1).Add(-time.Nanosecond))
	}

	return filter, nil
}

func rangeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "type", Aliases: []string{"t"}, Usage: "only invoices of this type"},
		&cli.TimestampFlag{Name: "from", Layout: time.DateOnly, Usage: "first issue date (YYYY-MM-DD)"},
		&cli.TimestampFlag{Name: "to", Layout: time.DateOnly, Usage: "last issue date (YYYY-MM-DD)"},
	}
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "list stored invoices, newest first",
		Flags: rangeFlags(),
		Action: func(c *cli.Context) error {
			e, err := setup(c)
			if err != nil {
				return err
			}
			defer e.Close()

			filter, err := listFilter(c)
			if err != nil {
				return err
			}

			invs, err := e.svc.List(c.Context, filter)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNUMBER\tTYPE\tDATE\tBUYER\tTOTAL")

			for _, inv := range invs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					inv.ID, inv.Number, inv.Category, inv.Date.Format(time.DateOnly), inv.Buyer.Name, inv.GrandTotal.StringFixed(2))
			}

			return tw.Flush()
		},
	}
}

func deleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "delete an invoice",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			id, err := uuid.Parse(c.Args().First())
			if err != nil {
				return fmt.Errorf("invalid id %q: %w", c.Args().First(), err)
			}

			e, err := setup(c)
			if err != nil {
				return err
			}
			defer e.Close()

			if err := e.svc.Delete(c.Context, id); err != nil {
				return err
			}

			fmt.Fprintln(c.App.Writer, "deleted", id)

			return nil
		},
	}
}

func dashboardCommand() *cli.Command {
	return &cli.Command{
		Name:  "dashboard",
		Usage: "print monthly tax invoice turnover",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "year", Value: time.Now().Year()},
		},
		Action: func(c *cli.Context) error {
			e, err := setup(c)
			if err != nil {
				return err
			}
			defer e.Close()

			totals, err := e.svc.MonthlyTotals(c.Context, c.Int("year"))
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', tabwriter.AlignRight)
			for _, m := range totals {
				fmt.Fprintf(tw, "%s\t%s\t\n", m.Name, m.Turnover.StringFixed(2))
			}

			return tw.Flush()
		},
	}
}

func renderCommand() *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     "write the PDF of a stored invoice",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			signatureFlag(),
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output file, defaults to <number>.pdf"},
		},
		Action: func(c *cli.Context) error {
			id, err := uuid.Parse(c.Args().First())
			if err != nil {
				return fmt.Errorf("invalid id %q: %w", c.Args().First(), err)
			}

			e, err := setup(c)
			if err != nil {
				return err
			}
			defer e.Close()

			inv, err := e.svc.Get(c.Context, id)
			if err != nil {
				return err
			}

			doc, err := e.svc.Render(inv, invoice.ParseSignatureMode(c.String("signature")))
			if err != nil {
				return err
			}

			out := c.String("out")
			if out == "" {
				out = export.Filename(inv)
			}

			if err := os.WriteFile(out, doc, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", out, err)
			}

			fmt.Fprintln(c.App.Writer, out)

			return nil
		},
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "render a range of invoices into a directory with a summary",
		Flags: append(rangeFlags(),
			signatureFlag(),
			&cli.StringFlag{Name: "dir", Aliases: []string{"d"}, Value: "export"},
		),
		Action: func(c *cli.Context) error {
			e, err := setup(c)
			if err != nil {
				return err
			}
			defer e.Close()

			filter, err := listFilter(c)
			if err != nil {
				return err
			}

			exporter := export.NewService(e.svc, invoice.ParseSignatureMode(c.String("signature")))

			items, err := exporter.Export(c.Context, filter, c.String("dir"))
			if err != nil {
				return err
			}

			summary := exporter.GenerateSummary(items)
			if err := os.WriteFile(filepath.Join(c.String("dir"), "summary.txt"), []byte(summary), 0o644); err != nil {
				return fmt.Errorf("writing summary: %w", err)
			}

			fmt.Fprint(c.App.Writer, summary)

			return nil
		},
	}
}
