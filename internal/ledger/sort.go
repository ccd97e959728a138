package ledger

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortFields are the columns List can order by.
var SortFields = []string{"created_at", "quantity", "product", "company", "price", "payment_method"}

func ValidSortField(f string) bool {
	for _, s := range SortFields {
		if s == f {
			return true
		}
	}
	return false
}

// Sort orders entries in place by field, ascending unless desc. Text
// columns use Turkish collation. Ties keep their creation order.
func Sort(entries []Entry, field string, desc bool) {
	col := collate.New(language.Turkish, collate.IgnoreCase)
	cmp := func(a, b Entry) int {
		switch field {
		case "quantity":
			return a.Quantity - b.Quantity
		case "product":
			return col.CompareString(a.Product, b.Product)
		case "company":
			return col.CompareString(a.Company, b.Company)
		case "price":
			return a.Price.Cmp(b.Price)
		case "payment_method":
			return col.CompareString(a.PaymentMethod.Label(), b.PaymentMethod.Label())
		default:
			return a.CreatedAt.Compare(b.CreatedAt)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		c := cmp(entries[i], entries[j])
		if c == 0 {
			return entries[i].CreatedAt.Before(entries[j].CreatedAt)
		}
		if desc {
			return c > 0
		}
		return c < 0
	})
}
