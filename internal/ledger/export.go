package ledger

import (
	"encoding/csv"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"voicetracker-backend/internal/voice"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatHTML Format = "html"
)

const bom = "\uFEFF"

var (
	expenseHeaders = []string{"Tarih/Saat", "Miktar", "Ürün", "Tedarikçi/Şirket", "Fiyat (TL)", "Ödeme Yöntemi"}
	incomeHeaders  = []string{"Tarih", "Gelir Kaynağı", "Müşteri/Şirket", "Tutar (TL)", "Ödeme Yöntemi", "Açıklama"}
)

// Rows renders entries as export rows, header first. Dates are shown in
// Istanbul time.
func Rows(kind Kind, entries []Entry) [][]string {
	if kind == KindIncome {
		rows := [][]string{incomeHeaders}
		for _, e := range entries {
			rows = append(rows, []string{
				e.CreatedAt.In(voice.Istanbul).Format("02.01.2006 15:04:05"),
				e.Product,
				e.Company,
				e.Price.String(),
				e.PaymentMethod.Label(),
				e.Description,
			})
		}
		return rows
	}
	rows := [][]string{expenseHeaders}
	for _, e := range entries {
		rows = append(rows, []string{
			e.CreatedAt.In(voice.Istanbul).Format("02.01.2006 15:04"),
			strconv.Itoa(e.Quantity),
			e.Product,
			e.Company,
			FormatLira(e.Price),
			e.PaymentMethod.Label(),
		})
	}
	return rows
}

// FormatLira formats an amount the Turkish way: 1.234,50.
func FormatLira(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteByte(',')
	b.WriteString(frac)
	return b.String()
}

// Filename is the download name for an export made at now.
func Filename(kind Kind, format Format, now time.Time) string {
	ext := "csv"
	if format == FormatHTML {
		ext = "xls"
	}
	now = now.In(voice.Istanbul)
	if kind == KindIncome {
		return fmt.Sprintf("gelir_kayitlari_%s.%s", now.Format("2006-01-02"), ext)
	}
	return fmt.Sprintf("gider_kayitlari_%s.%s", now.Format("2006_01_02"), ext)
}

// WriteCSV writes a UTF-8 CSV with a byte order mark so spreadsheet
// applications detect the encoding.
func WriteCSV(w io.Writer, kind Kind, entries []Entry) error {
	if _, err := io.WriteString(w, bom); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(Rows(kind, entries)); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

var tableTmpl = template.Must(template.New("table").Parse(`<html><head><meta charset="utf-8"></head><body>
<table border="1">
<tr>{{range index . 0}}<th>{{.}}</th>{{end}}</tr>
{{range slice . 1}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</table>
</body></html>
`))

// WriteHTML writes an HTML table that spreadsheet applications open as a
// workbook. Cell text is escaped.
func WriteHTML(w io.Writer, kind Kind, entries []Entry) error {
	if err := tableTmpl.Execute(w, Rows(kind, entries)); err != nil {
		return fmt.Errorf("write html: %w", err)
	}
	return nil
}
