package render

import (
	"bytes"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"expensetracker/internal/core"
	"expensetracker/internal/report"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func sample() []core.Expense {
	return []core.Expense{
		{ID: 2, Amount: decimal.RequireFromString("50"), Category: "Food", Date: core.NewDate(2024, 2, 1), Description: "groceries, weekly"},
		{ID: 3, Amount: decimal.RequireFromString("30.25"), Category: "Transport", Date: core.NewDate(2024, 1, 20)},
		{ID: 1, Amount: decimal.RequireFromString("100"), Category: "Food", Date: core.NewDate(2024, 1, 15), Description: "dinner"},
	}
}

func TestCategoryChart(t *testing.T) {
	png, err := CategoryChart(report.ByCategory(nil))
	if err != nil || png != nil {
		t.Fatalf("empty input should be absent, got %d bytes err=%v", len(png), err)
	}

	png, err = CategoryChart(report.ByCategory(sample()))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(png, pngMagic) {
		t.Fatal("expected PNG output")
	}
}

func TestCategoryChartNonPositiveIsAbsent(t *testing.T) {
	tot := report.NewTotals()
	tot.Add("Refund", decimal.NewFromInt(-10))
	png, err := CategoryChart(tot)
	if err != nil || png != nil {
		t.Fatalf("expected absent chart, got %d bytes err=%v", len(png), err)
	}
}

func TestTrendChart(t *testing.T) {
	png, err := TrendChart(nil, nil, "₹")
	if err != nil || png != nil {
		t.Fatalf("empty input should be absent, got %d bytes err=%v", len(png), err)
	}

	if _, err := TrendChart([]string{"2024-01"}, nil, "₹"); !errors.Is(err, ErrSeriesMismatch) {
		t.Fatalf("expected ErrSeriesMismatch, got %v", err)
	}

	// A single month must still render.
	png, err = TrendChart([]string{"2024-01"}, []decimal.Decimal{decimal.NewFromInt(130)}, "₹")
	if err != nil || !bytes.HasPrefix(png, pngMagic) {
		t.Fatalf("single point: err=%v", err)
	}

	d := report.Build(sample())
	png, err = TrendChart(d.Months, d.MonthValues, "₹")
	if err != nil || !bytes.HasPrefix(png, pngMagic) {
		t.Fatalf("render: err=%v", err)
	}
}

func TestTrendChartSingleMonth(t *testing.T) {
	for _, v := range []int64{130, 0, -20} {
		png, err := TrendChart([]string{"2024-03"}, []decimal.Decimal{decimal.NewFromInt(v)}, "₹")
		if err != nil || !bytes.HasPrefix(png, pngMagic) {
			t.Fatalf("value %d: err=%v", v, err)
		}
	}
}

func TestMonthTicks(t *testing.T) {
	ticks := monthTicks([]string{"2024-01"})
	if len(ticks) != 3 {
		t.Fatalf("expected 3 ticks, got %d", len(ticks))
	}
	if ticks[0].Value != -0.5 || ticks[2].Value != 0.5 {
		t.Fatalf("single month range should be [-0.5, 0.5], got [%v, %v]", ticks[0].Value, ticks[2].Value)
	}
	if ticks[1].Label != "2024-01" || ticks[0].Label != "" || ticks[2].Label != "" {
		t.Fatalf("unexpected labels %+v", ticks)
	}

	ticks = monthTicks([]string{"2024-01", "2024-02", "2024-03"})
	if first, last := ticks[0].Value, ticks[len(ticks)-1].Value; first != -0.5 || last != 2.5 {
		t.Fatalf("range should be [-0.5, 2.5], got [%v, %v]", first, last)
	}
}

func TestEncodeBase64(t *testing.T) {
	if EncodeBase64(nil) != "" {
		t.Fatal("nil should encode to empty")
	}
	got := EncodeBase64([]byte("abc"))
	if got != base64.StdEncoding.EncodeToString([]byte("abc")) {
		t.Fatalf("unexpected encoding %q", got)
	}
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil, "₹"); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := buf.String(); got != "Date,Category,Description,Amount (₹)\n" {
		t.Fatalf("unexpected csv %q", got)
	}
}

func TestWriteCSVRowsInCallerOrder(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sample(), "₹"); err != nil {
		t.Fatalf("write: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	want := []string{
		"Date,Category,Description,Amount (₹)",
		`2024-02-01,Food,"groceries, weekly",50`,
		"2024-01-20,Transport,,30.25",
		"2024-01-15,Food,dinner,100",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines: %q", len(lines), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestHeaderWithoutCurrency(t *testing.T) {
	if got := Header("")[3]; got != "Amount" {
		t.Fatalf("header = %q", got)
	}
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, sample(), "€"); err != nil {
		t.Fatalf("write: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(xlsxSheet)
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}
	if rows[0][3] != "Amount (€)" {
		t.Fatalf("header = %v", rows[0])
	}
	if rows[1][0] != "2024-02-01" || rows[1][1] != "Food" {
		t.Fatalf("first row = %v", rows[1])
	}
	if rows[2][3] != "30.25" {
		t.Fatalf("amount cell = %q", rows[2][3])
	}
}
