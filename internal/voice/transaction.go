package voice

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is an expense extracted from a transcript.
type Transaction struct {
	Quantity      int
	Product       string
	Company       string
	Price         decimal.Decimal
	PaymentMethod PaymentMethod
	// PaymentDetail is the payment text as spoken.
	PaymentDetail string
	Timestamp     time.Time
}

// "<quantity> <product> <company> geldi ... fiyat ... <amount> tl ... ödeme ... <method>".
// The gaps between segments are non-greedy; on ambiguous input the company
// may absorb extra words.
var expensePattern = regexp.MustCompile(
	`(?s)(\d+)\s+(.+?)\s+(.+?)\s+geldi.*?fiyat.*?(\d+(?:[.,]\d+)?)\s*tl.*?ödeme(?:\s+yöntemi)?\s*:?\s*(.+)`,
)

// ParseTransaction extracts an expense as a whole: any missing or invalid
// segment yields a single *TransactionParseError.
func ParseTransaction(transcript string, now time.Time) (Transaction, error) {
	text, err := Normalize(transcript)
	if err != nil {
		return Transaction{}, err
	}
	fail := &TransactionParseError{RawInput: transcript}

	m := expensePattern.FindStringSubmatch(text)
	if m == nil {
		return Transaction{}, fail
	}

	quantity, err := strconv.Atoi(m[1])
	if err != nil || quantity < 1 {
		return Transaction{}, fail
	}
	price, err := decimal.NewFromString(strings.Replace(m[4], ",", ".", 1))
	if err != nil || !price.IsPositive() {
		return Transaction{}, fail
	}
	product := strings.TrimSpace(m[2])
	company := strings.TrimSpace(m[3])
	detail := strings.Trim(strings.TrimSpace(m[5]), " .,;:!?")
	if product == "" || company == "" || detail == "" {
		return Transaction{}, fail
	}

	return Transaction{
		Quantity:      quantity,
		Product:       product,
		Company:       company,
		Price:         price,
		PaymentMethod: MatchPaymentMethod(detail),
		PaymentDetail: detail,
		Timestamp:     now,
	}, nil
}
