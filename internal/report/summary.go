// Package report builds the run summary shown after consolidation: overall
// price, VAT and grand totals plus a subtotal per receiving business.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ginjaninja78/invoice-consolidator/internal/consolidator"
	"github.com/ginjaninja78/invoice-consolidator/internal/types"
)

// ReceiverTotal is the subtotal for one TaxTitle_get value.
type ReceiverTotal struct {
	Title    string
	Invoices int
	Price    decimal.Decimal
	VAT      decimal.Decimal
}

// Total returns price plus VAT.
func (r ReceiverTotal) Total() decimal.Decimal {
	return r.Price.Add(r.VAT)
}

// Summary aggregates a consolidated output table.
type Summary struct {
	Invoices   int
	PriceTotal decimal.Decimal
	VATTotal   decimal.Decimal

	// Receivers are in first-seen order.
	Receivers []ReceiverTotal
}

// GrandTotal returns the price total plus the VAT total.
func (s *Summary) GrandTotal() decimal.Decimal {
	return s.PriceTotal.Add(s.VATTotal)
}

// Summarize totals price_sum and VAT_sum over an output table. Cells that do
// not parse count as zero.
func Summarize(table *types.Table) *Summary {
	s := &Summary{
		Invoices:   table.Len(),
		PriceTotal: decimal.Zero,
		VATTotal:   decimal.Zero,
	}

	index := make(map[string]int)
	for row := 0; row < table.Len(); row++ {
		price := amountOrZero(table.Value(row, consolidator.ColPriceSum))
		vat := amountOrZero(table.Value(row, consolidator.ColVATSum))
		s.PriceTotal = s.PriceTotal.Add(price)
		s.VATTotal = s.VATTotal.Add(vat)

		title := table.Value(row, consolidator.ColTaxTitleGet)
		i, ok := index[title]
		if !ok {
			i = len(s.Receivers)
			index[title] = i
			s.Receivers = append(s.Receivers, ReceiverTotal{Title: title, Price: decimal.Zero, VAT: decimal.Zero})
		}
		s.Receivers[i].Invoices++
		s.Receivers[i].Price = s.Receivers[i].Price.Add(price)
		s.Receivers[i].VAT = s.Receivers[i].VAT.Add(vat)
	}
	return s
}

func amountOrZero(v string) decimal.Decimal {
	d, err := consolidator.ParseAmount(v)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// FormatAmount renders the integer part of d with thousands separators.
func FormatAmount(d decimal.Decimal) string {
	return message.NewPrinter(language.Korean).Sprintf("%d", d.IntPart())
}

// Write prints the summary with Korean thousands separators.
func (s *Summary) Write(w io.Writer) error {
	p := message.NewPrinter(language.Korean)

	var sb strings.Builder
	sb.WriteString(p.Sprintf("Invoices:     %d\n", s.Invoices))
	sb.WriteString(p.Sprintf("Price total:  %d\n", s.PriceTotal.IntPart()))
	sb.WriteString(p.Sprintf("VAT total:    %d\n", s.VATTotal.IntPart()))
	sb.WriteString(p.Sprintf("Grand total:  %d\n", s.GrandTotal().IntPart()))

	if len(s.Receivers) > 0 {
		sb.WriteString("\nBy receiver:\n")
		for _, r := range s.Receivers {
			title := r.Title
			if title == "" {
				title = "(blank)"
			}
			sb.WriteString(p.Sprintf("  %-24s %4d  %15d  %13d  %15d\n",
				title, r.Invoices, r.Price.IntPart(), r.VAT.IntPart(), r.Total().IntPart()))
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// String returns the formatted summary.
func (s *Summary) String() string {
	var sb strings.Builder
	if err := s.Write(&sb); err != nil {
		return fmt.Sprintf("summary: %v", err)
	}
	return sb.String()
}
