package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/malcano/flea-market-kiosk/internal/domain"
	"github.com/malcano/flea-market-kiosk/internal/money"
)

// buildWorkbook writes a single-sheet workbook with the given rows.
func buildWorkbook(t *testing.T, rows [][]interface{}) *bytes.Reader {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		for j, v := range row {
			name, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := f.SetCellValue("Sheet1", name, v); err != nil {
				t.Fatalf("set cell: %v", err)
			}
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return bytes.NewReader(buf.Bytes())
}

func TestParseProducts(t *testing.T) {
	t.Parallel()

	t.Run("template round trip", func(t *testing.T) {
		var buf bytes.Buffer
		if err := WriteTemplate(&buf); err != nil {
			t.Fatalf("write template: %v", err)
		}

		products, err := ParseProducts(bytes.NewReader(buf.Bytes()))
		if err != nil {
			t.Fatalf("parse products: %v", err)
		}
		if len(products) != 2 {
			t.Fatalf("expected 2 sample rows, got %d", len(products))
		}
		if products[0].ID != "P001" || products[0].Name != "Sample Product 1" {
			t.Fatalf("unexpected first row: %+v", products[0])
		}
		if !products[0].Price.Equal(money.FromInt(1000)) {
			t.Fatalf("expected price 1000, got %s", products[0].Price)
		}
	})

	t.Run("fills missing id, category and price", func(t *testing.T) {
		r := buildWorkbook(t, [][]interface{}{
			{"ID", "Name", "Category", "Price"},
			{"", "Widget", "", "not a number"},
		})
		products, err := ParseProducts(r)
		if err != nil {
			t.Fatalf("parse products: %v", err)
		}
		if len(products) != 1 {
			t.Fatalf("expected 1 row, got %d", len(products))
		}
		p := products[0]
		if p.ID == "" {
			t.Fatalf("expected a generated id")
		}
		if p.Category != domain.DefaultCategory {
			t.Fatalf("expected default category, got %q", p.Category)
		}
		if !p.Price.IsZero() {
			t.Fatalf("expected zero price for a bad cell, got %s", p.Price)
		}
	})

	t.Run("blank rows are skipped", func(t *testing.T) {
		r := buildWorkbook(t, [][]interface{}{
			{"ID", "Name", "Category", "Price"},
			{"", "", "", ""},
			{"P1", "Widget", "Toys", 1000},
		})
		products, err := ParseProducts(r)
		if err != nil {
			t.Fatalf("parse products: %v", err)
		}
		if len(products) != 1 || products[0].Name != "Widget" {
			t.Fatalf("expected only the widget row, got %+v", products)
		}
	})

	t.Run("a nameless row rejects the import", func(t *testing.T) {
		r := buildWorkbook(t, [][]interface{}{
			{"ID", "Name", "Category", "Price"},
			{"P1", "Widget", "Toys", 1000},
			{"P2", "   ", "Toys", 2000},
		})
		_, err := ParseProducts(r)
		if !errors.Is(err, domain.ErrImportParse) {
			t.Fatalf("expected ErrImportParse, got %v", err)
		}
		if !strings.Contains(err.Error(), "row 3") {
			t.Fatalf("expected the row number in the error, got %v", err)
		}
	})

	t.Run("missing name column rejects the import", func(t *testing.T) {
		r := buildWorkbook(t, [][]interface{}{
			{"ID", "Price"},
			{"P1", 1000},
		})
		if _, err := ParseProducts(r); !errors.Is(err, domain.ErrImportParse) {
			t.Fatalf("expected ErrImportParse, got %v", err)
		}
	})

	t.Run("garbage bytes reject the import", func(t *testing.T) {
		if _, err := ParseProducts(strings.NewReader("not a workbook")); !errors.Is(err, domain.ErrImportParse) {
			t.Fatalf("expected ErrImportParse, got %v", err)
		}
	})
}

func TestParseSales(t *testing.T) {
	t.Parallel()

	t.Run("restores the flat backup layout", func(t *testing.T) {
		r := buildWorkbook(t, [][]interface{}{
			{"ID", "Time", "Method", "Total", "Received", "Change"},
			{"s1", "2025-06-14 10:00:00", "cash", 2000, 5000, 3000},
			{"s2", "", "card", 4000, "", ""},
		})
		sales, err := ParseSales(r)
		if err != nil {
			t.Fatalf("parse sales: %v", err)
		}
		if len(sales) != 2 {
			t.Fatalf("expected 2 sales, got %d", len(sales))
		}

		first := sales[0]
		if first.ID != "s1" || first.PaymentMethod != domain.PaymentCash {
			t.Fatalf("unexpected first sale: %+v", first)
		}
		want := time.Date(2025, 6, 14, 10, 0, 0, 0, time.UTC)
		if !first.Timestamp.Equal(want) {
			t.Fatalf("expected timestamp %v, got %v", want, first.Timestamp)
		}
		if !first.Change.Equal(money.FromInt(3000)) {
			t.Fatalf("expected change 3000, got %s", first.Change)
		}

		// Received defaults to the total when the column is blank.
		second := sales[1]
		if !second.AmountReceived.Equal(money.FromInt(4000)) {
			t.Fatalf("expected received 4000, got %s", second.AmountReceived)
		}
		if !second.Change.IsZero() {
			t.Fatalf("expected zero change, got %s", second.Change)
		}
	})

	t.Run("unknown method rejects the import", func(t *testing.T) {
		r := buildWorkbook(t, [][]interface{}{
			{"ID", "Method", "Total"},
			{"s1", "barter", 2000},
		})
		if _, err := ParseSales(r); !errors.Is(err, domain.ErrImportParse) {
			t.Fatalf("expected ErrImportParse, got %v", err)
		}
	})

	t.Run("missing required column rejects the import", func(t *testing.T) {
		r := buildWorkbook(t, [][]interface{}{
			{"ID", "Total"},
			{"s1", 2000},
		})
		if _, err := ParseSales(r); !errors.Is(err, domain.ErrImportParse) {
			t.Fatalf("expected ErrImportParse, got %v", err)
		}
	})
}

func TestWriteSalesReport(t *testing.T) {
	t.Parallel()

	widget := domain.Product{ID: "p1", Name: "Widget", Category: "Toys", Price: money.FromInt(1000)}
	mug := domain.Product{ID: "p2", Name: "Mug", Category: "Kitchen", Price: money.FromInt(4000)}

	sales := []domain.Sale{
		{
			ID:        "aaaaaaaa-1111",
			Timestamp: time.Date(2025, 6, 14, 10, 0, 0, 0, time.UTC),
			Items: []domain.CartItem{
				{Product: widget, Quantity: 2},
				{Product: mug, Quantity: 1},
			},
			Total:          money.FromInt(6000),
			PaymentMethod:  domain.PaymentCash,
			AmountReceived: money.FromInt(10000),
			Change:         money.FromInt(4000),
		},
		{
			ID:             "bbbbbbbb-2222",
			Timestamp:      time.Date(2025, 6, 14, 11, 0, 0, 0, time.UTC),
			Items:          []domain.CartItem{{Product: mug, Quantity: 1}},
			Total:          money.FromInt(4000),
			PaymentMethod:  domain.PaymentCard,
			AmountReceived: money.FromInt(4000),
			Change:         money.Zero(),
		},
	}

	var buf bytes.Buffer
	if err := WriteSalesReport(&buf, sales, money.FromInt(30000)); err != nil {
		t.Fatalf("write report: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("reopen report: %v", err)
	}
	defer f.Close()

	cellValue := func(sheet, ref string) string {
		t.Helper()
		v, err := f.GetCellValue(sheet, ref)
		if err != nil {
			t.Fatalf("get cell %s!%s: %v", sheet, ref, err)
		}
		return v
	}

	t.Run("all four sheets are present", func(t *testing.T) {
		sheets := f.GetSheetList()
		for _, want := range []string{"Summary", "Sales Detail", "By Product", "By Category"} {
			found := false
			for _, got := range sheets {
				if got == want {
					found = true
					break
				}
			}
			if !found {
				t.Fatalf("missing sheet %q in %v", want, sheets)
			}
		}
	})

	t.Run("summary figures", func(t *testing.T) {
		if got := cellValue("Summary", "B2"); got != "30000" {
			t.Fatalf("expected starting cash 30000, got %q", got)
		}
		if got := cellValue("Summary", "B3"); got != "6000" {
			t.Fatalf("expected cash revenue 6000, got %q", got)
		}
		if got := cellValue("Summary", "B4"); got != "4000" {
			t.Fatalf("expected card revenue 4000, got %q", got)
		}
		if got := cellValue("Summary", "B5"); got != "10000" {
			t.Fatalf("expected total revenue 10000, got %q", got)
		}
		if got := cellValue("Summary", "B6"); got != "36000" {
			t.Fatalf("expected ending cash 36000, got %q", got)
		}
		if got := cellValue("Summary", "B7"); got != "2" {
			t.Fatalf("expected 2 sales, got %q", got)
		}
	})

	t.Run("detail rows attribute totals once per sale", func(t *testing.T) {
		// Row 2: first item of the cash sale carries total and received.
		if got := cellValue("Sales Detail", "A2"); got != "aaaaaaaa" {
			t.Fatalf("expected truncated sale id, got %q", got)
		}
		if got := cellValue("Sales Detail", "J2"); got != "6000" {
			t.Fatalf("expected sale total on the first row, got %q", got)
		}
		if got := cellValue("Sales Detail", "K2"); got != "10000" {
			t.Fatalf("expected received on the first row, got %q", got)
		}
		if got := cellValue("Sales Detail", "L2"); got != "0" {
			t.Fatalf("expected change withheld until the last row, got %q", got)
		}
		// Row 3: last item of the cash sale carries the change only.
		if got := cellValue("Sales Detail", "J3"); got != "0" {
			t.Fatalf("expected no repeated sale total, got %q", got)
		}
		if got := cellValue("Sales Detail", "L3"); got != "4000" {
			t.Fatalf("expected change on the last row, got %q", got)
		}
		// Row 4: single-item card sale carries everything at once.
		if got := cellValue("Sales Detail", "J4"); got != "4000" {
			t.Fatalf("expected card sale total, got %q", got)
		}
	})

	t.Run("product and category breakdowns sort by revenue", func(t *testing.T) {
		// Mug revenue 8000 beats Widget 2000.
		if got := cellValue("By Product", "A2"); got != "Mug" {
			t.Fatalf("expected Mug first, got %q", got)
		}
		if got := cellValue("By Product", "D2"); got != "8000" {
			t.Fatalf("expected Mug revenue 8000, got %q", got)
		}
		if got := cellValue("By Product", "A3"); got != "Widget" {
			t.Fatalf("expected Widget second, got %q", got)
		}
		if got := cellValue("By Category", "A2"); got != "Kitchen" {
			t.Fatalf("expected Kitchen first, got %q", got)
		}
		if got := cellValue("By Category", "B2"); got != "8000" {
			t.Fatalf("expected Kitchen revenue 8000, got %q", got)
		}
	})
}
