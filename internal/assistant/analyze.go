package assistant

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// İstemci, asistan sorusuyla birlikte kendi uygulama verisini gönderir.
// Burada bu veri özetlenir; modele ham kayıt listesi değil özet gider.

type SaleRecord struct {
	Date        string          `json:"date"` // "2025-12-09"
	TotalPrice  decimal.Decimal `json:"total_price"`
	Description string          `json:"description"`
}

type ExpenseRecord struct {
	Date     string          `json:"date"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

type AppData struct {
	Sales    []SaleRecord    `json:"sales"`
	Expenses []ExpenseRecord `json:"expenses"`
}

type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
}

type MonthTotal struct {
	Month    string // "2025-12"
	Sales    decimal.Decimal
	Expenses decimal.Decimal
}

type Analysis struct {
	TotalSales      decimal.Decimal
	TotalExpenses   decimal.Decimal
	Net             decimal.Decimal
	ByCategory      []CategoryTotal
	ByMonth         []MonthTotal
	TrendLastMonths string
}

func monthOf(date string) string {
	if len(date) >= 7 {
		return date[:7]
	}
	return date
}

// AnalyzeAppData - Satış/gider kayıtlarını kategori ve ay bazında toplar.
func AnalyzeAppData(data AppData) Analysis {
	a := Analysis{
		TotalSales:    decimal.Zero,
		TotalExpenses: decimal.Zero,
	}

	byCat := make(map[string]decimal.Decimal)
	byMonth := make(map[string]*MonthTotal)

	for _, s := range data.Sales {
		a.TotalSales = a.TotalSales.Add(s.TotalPrice)
		m := monthOf(s.Date)
		mt, ok := byMonth[m]
		if !ok {
			mt = &MonthTotal{Month: m, Sales: decimal.Zero, Expenses: decimal.Zero}
			byMonth[m] = mt
		}
		mt.Sales = mt.Sales.Add(s.TotalPrice)
	}

	for _, e := range data.Expenses {
		a.TotalExpenses = a.TotalExpenses.Add(e.Amount)
		cat := strings.TrimSpace(e.Category)
		if cat == "" {
			cat = "Diğer"
		}
		byCat[cat] = byCat[cat].Add(e.Amount)

		m := monthOf(e.Date)
		mt, ok := byMonth[m]
		if !ok {
			mt = &MonthTotal{Month: m, Sales: decimal.Zero, Expenses: decimal.Zero}
			byMonth[m] = mt
		}
		mt.Expenses = mt.Expenses.Add(e.Amount)
	}

	a.Net = a.TotalSales.Sub(a.TotalExpenses)

	for cat, total := range byCat {
		a.ByCategory = append(a.ByCategory, CategoryTotal{Category: cat, Total: total})
	}
	sort.Slice(a.ByCategory, func(i, j int) bool {
		if !a.ByCategory[i].Total.Equal(a.ByCategory[j].Total) {
			return a.ByCategory[i].Total.GreaterThan(a.ByCategory[j].Total)
		}
		return a.ByCategory[i].Category < a.ByCategory[j].Category
	})

	for _, mt := range byMonth {
		a.ByMonth = append(a.ByMonth, *mt)
	}
	sort.Slice(a.ByMonth, func(i, j int) bool {
		return a.ByMonth[i].Month < a.ByMonth[j].Month
	})

	a.TrendLastMonths = trend(a.ByMonth)

	return a
}

// trend - Son iki ayın satışlarını kıyaslayıp kısa bir yön cümlesi üretir.
func trend(months []MonthTotal) string {
	if len(months) < 2 {
		return "tek aylık veri, kıyas yok"
	}

	prev := months[len(months)-2]
	last := months[len(months)-1]

	switch {
	case last.Sales.GreaterThan(prev.Sales):
		return fmt.Sprintf("satışlar %s ayına göre arttı (%s -> %s)",
			prev.Month, prev.Sales.StringFixed(2), last.Sales.StringFixed(2))
	case last.Sales.LessThan(prev.Sales):
		return fmt.Sprintf("satışlar %s ayına göre düştü (%s -> %s)",
			prev.Month, prev.Sales.StringFixed(2), last.Sales.StringFixed(2))
	default:
		return "satışlar son iki ayda aynı seviyede"
	}
}

// BuildPrompt - Özet + kullanıcı sorusundan model girdisini kurar.
func BuildPrompt(message string, a Analysis) string {
	var b strings.Builder

	b.WriteString("Sen küçük bir işletmenin muhasebe asistanısın. ")
	b.WriteString("Aşağıdaki özet verilere dayanarak soruyu kısa ve net yanıtla. ")
	b.WriteString("Tutarlar işletmenin yerel para birimindedir.\n\n")

	b.WriteString("VERİ ÖZETİ:\n")
	fmt.Fprintf(&b, "- Toplam satış: %s\n", a.TotalSales.StringFixed(2))
	fmt.Fprintf(&b, "- Toplam gider: %s\n", a.TotalExpenses.StringFixed(2))
	fmt.Fprintf(&b, "- Net: %s\n", a.Net.StringFixed(2))

	if len(a.ByCategory) > 0 {
		b.WriteString("- Gider dağılımı:\n")
		for _, ct := range a.ByCategory {
			fmt.Fprintf(&b, "  * %s: %s\n", ct.Category, ct.Total.StringFixed(2))
		}
	}

	if len(a.ByMonth) > 0 {
		b.WriteString("- Aylık seyir:\n")
		for _, mt := range a.ByMonth {
			fmt.Fprintf(&b, "  * %s: satış %s, gider %s\n",
				mt.Month, mt.Sales.StringFixed(2), mt.Expenses.StringFixed(2))
		}
	}

	fmt.Fprintf(&b, "- Eğilim: %s\n", a.TrendLastMonths)

	b.WriteString("\nSORU: ")
	b.WriteString(strings.TrimSpace(message))

	return b.String()
}
