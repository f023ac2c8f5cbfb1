// Package report is the spreadsheet collaborator: catalog bulk import and
// the four-sheet sales report.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/malcano/flea-market-kiosk/internal/domain"
	"github.com/malcano/flea-market-kiosk/internal/money"
)

const (
	sheetProducts   = "Products"
	sheetSummary    = "Summary"
	sheetDetail     = "Sales Detail"
	sheetByProduct  = "By Product"
	sheetByCategory = "By Category"

	timeLayout = "2006-01-02 15:04:05"
)

// ParseProducts reads the first sheet of a product workbook into a catalog
// list. Rows are keyed by a header line of ID / Name / Category / Price.
// A missing ID gets a fresh one, a missing category gets the default label
// and an unparsable price becomes zero; a row without a name rejects the
// whole import.
func ParseProducts(r io.Reader) ([]domain.Product, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrImportParse, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", domain.ErrImportParse)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrImportParse, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: missing header row", domain.ErrImportParse)
	}

	cols := headerIndex(rows[0])
	if _, ok := cols["name"]; !ok {
		return nil, fmt.Errorf("%w: missing Name column", domain.ErrImportParse)
	}

	products := make([]domain.Product, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if blankRow(row) {
			continue
		}

		name := strings.TrimSpace(cell(row, cols, "name"))
		if name == "" {
			return nil, fmt.Errorf("%w: row %d has no name", domain.ErrImportParse, i+2)
		}

		id := strings.TrimSpace(cell(row, cols, "id"))
		if id == "" {
			id = uuid.NewString()
		}
		category := strings.TrimSpace(cell(row, cols, "category"))
		if category == "" {
			category = domain.DefaultCategory
		}

		price, err := money.Parse(cell(row, cols, "price"))
		if err != nil || price.IsNegative() {
			price = money.Zero()
		}

		products = append(products, domain.Product{
			ID:       id,
			Name:     name,
			Category: category,
			Price:    price,
		})
	}
	return products, nil
}

// ParseSales restores sales from the flat backup layout: ID / Time /
// Method / Total / Received / Change on the first sheet. Item detail is not
// reconstructed.
func ParseSales(r io.Reader) ([]domain.Sale, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrImportParse, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", domain.ErrImportParse)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrImportParse, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: missing header row", domain.ErrImportParse)
	}

	cols := headerIndex(rows[0])
	for _, required := range []string{"id", "method", "total"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%w: missing %s column", domain.ErrImportParse, required)
		}
	}

	sales := make([]domain.Sale, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if blankRow(row) {
			continue
		}

		id := strings.TrimSpace(cell(row, cols, "id"))
		if id == "" {
			return nil, fmt.Errorf("%w: row %d has no id", domain.ErrImportParse, i+2)
		}
		method := domain.PaymentMethod(strings.TrimSpace(cell(row, cols, "method")))
		if !method.Valid() {
			return nil, fmt.Errorf("%w: row %d has unknown method %q", domain.ErrImportParse, i+2, method)
		}
		total, err := money.Parse(cell(row, cols, "total"))
		if err != nil {
			return nil, fmt.Errorf("%w: row %d has bad total", domain.ErrImportParse, i+2)
		}

		received := total
		if v := strings.TrimSpace(cell(row, cols, "received")); v != "" {
			if received, err = money.Parse(v); err != nil {
				return nil, fmt.Errorf("%w: row %d has bad received amount", domain.ErrImportParse, i+2)
			}
		}
		change := money.Zero()
		if v := strings.TrimSpace(cell(row, cols, "change")); v != "" {
			if change, err = money.Parse(v); err != nil {
				return nil, fmt.Errorf("%w: row %d has bad change amount", domain.ErrImportParse, i+2)
			}
		}

		ts := time.Time{}
		if v := strings.TrimSpace(cell(row, cols, "time")); v != "" {
			for _, layout := range []string{timeLayout, time.RFC3339} {
				if parsed, perr := time.Parse(layout, v); perr == nil {
					ts = parsed
					break
				}
			}
		}

		sales = append(sales, domain.Sale{
			ID:             id,
			Timestamp:      ts,
			Total:          total,
			PaymentMethod:  method,
			AmountReceived: received,
			Change:         change,
		})
	}
	return sales, nil
}

// WriteTemplate emits a sample product workbook for operators to fill in.
func WriteTemplate(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheetProducts)
	setRow(f, sheetProducts, 1, "ID", "Name", "Category", "Price")
	setRow(f, sheetProducts, 2, "P001", "Sample Product 1", "Category 1", 1000)
	setRow(f, sheetProducts, 3, "P002", "Sample Product 2", "Category 2", 2000)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write template: %w", err)
	}
	return nil
}

// WriteSalesReport builds the four-sheet accounting report: overall
// summary, one row per sold item, per-product totals and per-category
// totals. In the detail sheet the sale total and received amount appear
// only on the first row of each sale and the change only on the last, so a
// naive column sum never double-counts a sale.
func WriteSalesReport(w io.Writer, sales []domain.Sale, initialCash money.Money) error {
	f := excelize.NewFile()
	defer f.Close()

	type productAgg struct {
		category string
		quantity int
		revenue  money.Money
	}
	productStats := make(map[string]*productAgg)
	categoryStats := make(map[string]money.Money)

	f.SetSheetName("Sheet1", sheetSummary)
	if _, err := f.NewSheet(sheetDetail); err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}

	setRow(f, sheetDetail, 1,
		"Sale ID", "Item #", "Time", "Method", "Product", "Category",
		"Unit Price", "Quantity", "Subtotal", "Sale Total", "Received", "Change")

	detailRow := 2
	cashRevenue := money.Zero()
	cardRevenue := money.Zero()
	for _, sale := range sales {
		if sale.PaymentMethod == domain.PaymentCash {
			cashRevenue = cashRevenue.Add(sale.Total)
		} else {
			cardRevenue = cardRevenue.Add(sale.Total)
		}

		for i, item := range sale.Items {
			revenue := item.Subtotal()

			agg, ok := productStats[item.Name]
			if !ok {
				agg = &productAgg{category: item.Category, revenue: money.Zero()}
				productStats[item.Name] = agg
			}
			agg.quantity += item.Quantity
			agg.revenue = agg.revenue.Add(revenue)

			cat, ok := categoryStats[item.Category]
			if !ok {
				cat = money.Zero()
			}
			categoryStats[item.Category] = cat.Add(revenue)

			saleTotal, received, change := 0.0, 0.0, 0.0
			if i == 0 {
				saleTotal = sale.Total.Float64()
				received = sale.AmountReceived.Float64()
			}
			if i == len(sale.Items)-1 {
				change = sale.Change.Float64()
			}

			setRow(f, sheetDetail, detailRow,
				shortID(sale.ID), i+1, sale.Timestamp.Format(timeLayout),
				string(sale.PaymentMethod), item.Name, item.Category,
				item.Price.Float64(), item.Quantity, revenue.Float64(),
				saleTotal, received, change)
			detailRow++
		}
	}
	_ = f.SetColWidth(sheetDetail, "A", "L", 14)

	totalRevenue := cashRevenue.Add(cardRevenue)
	endingCash := initialCash.Add(cashRevenue)

	setRow(f, sheetSummary, 1, "Item", "Amount")
	setRow(f, sheetSummary, 2, "Starting Cash", initialCash.Float64())
	setRow(f, sheetSummary, 3, "Cash Revenue", cashRevenue.Float64())
	setRow(f, sheetSummary, 4, "Card Revenue", cardRevenue.Float64())
	setRow(f, sheetSummary, 5, "Total Revenue", totalRevenue.Float64())
	setRow(f, sheetSummary, 6, "Projected Ending Cash", endingCash.Float64())
	setRow(f, sheetSummary, 7, "Sale Count", len(sales))

	if _, err := f.NewSheet(sheetByProduct); err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}
	setRow(f, sheetByProduct, 1, "Product", "Category", "Quantity", "Revenue")
	names := make([]string, 0, len(productStats))
	for name := range productStats {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := productStats[names[i]], productStats[names[j]]
		if cmp := a.revenue.Cmp(b.revenue); cmp != 0 {
			return cmp > 0
		}
		return names[i] < names[j]
	})
	for i, name := range names {
		agg := productStats[name]
		setRow(f, sheetByProduct, i+2, name, agg.category, agg.quantity, agg.revenue.Float64())
	}

	if _, err := f.NewSheet(sheetByCategory); err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}
	setRow(f, sheetByCategory, 1, "Category", "Revenue")
	categories := make([]string, 0, len(categoryStats))
	for category := range categoryStats {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool {
		if cmp := categoryStats[categories[i]].Cmp(categoryStats[categories[j]]); cmp != 0 {
			return cmp > 0
		}
		return categories[i] < categories[j]
	})
	for i, category := range categories {
		setRow(f, sheetByCategory, i+2, category, categoryStats[category].Float64())
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values ...interface{}) {
	for i, v := range values {
		name, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			continue
		}
		_ = f.SetCellValue(sheet, name, v)
	}
}

func headerIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		if name != "" {
			cols[name] = i
		}
	}
	return cols
}

func cell(row []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

func blankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
