package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/order-desk/internal/core/domain"
)

func mustArticle(t *testing.T, id, description string, price int64, category domain.TaxCategory) *domain.Article {
	t.Helper()
	a, err := domain.NewArticle(id, description, price, category)
	require.NoError(t, err)
	return a
}

func mustOrder(t *testing.T, id string, customer *domain.Customer, lines ...any) *domain.Order {
	t.Helper()
	o, err := domain.NewOrder(customer)
	require.NoError(t, err)
	require.NoError(t, o.SetID(id))
	for i := 0; i < len(lines); i += 2 {
		require.NoError(t, o.AddItem(lines[i].(*domain.Article), lines[i+1].(int)))
	}
	return o
}

const wantInventory = `+----------+-----------------------------+---------+-----------+-----------+
|Inv.-Id   |Article / Unit               |     Unit|      Units|      Value|
|          |                             |    Price|   in-Stock|     (in €)|
+----------+-----------------------------+---------+-----------+-----------+
|SKU-693856|Mug                          |    2.49€|        428|  1,065.72€|
|SKU-278530|Book "Java"                  |   49.90€|          0|      0.00€|
+----------+-----------------------------+---------+-----------+-----------+
 >>>>>>>>>>                                              Value:|  1,065.72€|
                                                               +===========+
`

const wantOrders = `+----------+-----------------------------------------------+----------+----------+
|Order-Id  |Orders                           VAT      Price|       VAT|     Total|
+----------+-----------------------------------------------+----------+----------+
|8592356245|Eric's order:                                  |          |          |
|          | - 4 Plate, 4x 6.49€           4.14€     25.96€|          |          |
|          | - 8 Mug, 8x 2.49€             3.18€     19.92€|          |          |
|          | - 1 Book "OOP"                5.23€*    79.95€|          |          |
|          | - 4 Cup, 4x 2.99€             1.91€     11.96€|    14.46€|   137.79€|
+----------+-----------------------------------------------+----------+----------+
|3563561357|Anne's order:                                  |          |          |
|          | - 2 Plate, 2x 6.49€           2.07€     12.98€|          |          |
|          | - 2 Cup, 2x 2.99€             0.95€      5.98€|     3.02€|    18.96€|
+----------+-----------------------------------------------+----------+----------+
 >>>>>>>>>>                                          Total:|    17.48€|   156.75€|
                                                           +==========+==========+
`

func TestFormatter_Price(t *testing.T) {
	f := NewFormatter("")
	tests := []struct {
		cents int64
		want  string
	}{
		{0, "0.00€"},
		{5, "0.05€"},
		{249, "2.49€"},
		{106572, "1,065.72€"},
		{2088103, "20,881.03€"},
		{123456789, "1,234,567.89€"},
		{-1999, "-19.99€"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, f.Price(tt.cents), "cents %d", tt.cents)
	}

	assert.Equal(t, "1.00$", NewFormatter("$").Price(100))
}

func TestFormatter_NameAndDate(t *testing.T) {
	f := NewFormatter(DefaultCurrency)
	assert.Equal(t, "Meyer, Eric", f.Name("Eric", "Meyer"))
	assert.Equal(t, "Meyer", f.Name("", "Meyer"))
	assert.Equal(t, "Eric", f.Name(" Eric ", ""))

	ts := time.Date(2022, 5, 16, 8, 16, 42, 0, time.UTC)
	assert.Equal(t, "2022-05-16 08:16:42", f.Date(ts))
}

func TestPrintInventory(t *testing.T) {
	inv := domain.NewInventory()
	_, err := inv.Add(mustArticle(t, "SKU-693856", "Mug", 249, domain.StandardVAT), 428)
	require.NoError(t, err)
	_, err = inv.Add(mustArticle(t, "SKU-278530", `Book "Java"`, 4990, domain.ReducedVAT), 0)
	require.NoError(t, err)

	p := NewPrinter(nil)
	var b strings.Builder
	p.PrintInventory(p.InventoryTable(&b), inv.Items())

	assert.Equal(t, wantInventory, b.String())
}

func TestPrintOrders(t *testing.T) {
	plate := mustArticle(t, "SKU-638035", "Plate", 649, domain.StandardVAT)
	mug := mustArticle(t, "SKU-693856", "Mug", 249, domain.StandardVAT)
	book := mustArticle(t, "SKU-425378", `Book "OOP"`, 7995, domain.ReducedVAT)
	cup := mustArticle(t, "SKU-458362", "Cup", 299, domain.StandardVAT)

	eric := domain.NewCustomer("Eric", "Meyer")
	anne := domain.NewCustomer("Anne", "Bayer")
	orders := []*domain.Order{
		mustOrder(t, "8592356245", eric, plate, 4, mug, 8, book, 1, cup, 4),
		mustOrder(t, "3563561357", anne, plate, 2, cup, 2),
	}

	p := NewPrinter(NewFormatter(DefaultCurrency))
	var b strings.Builder
	p.PrintOrders(p.OrdersTable(&b), orders)

	assert.Equal(t, wantOrders, b.String())
}

func TestPrintOrders_Idempotent(t *testing.T) {
	cup := mustArticle(t, "SKU-458362", "Cup", 299, domain.StandardVAT)
	orders := []*domain.Order{mustOrder(t, "1", domain.NewCustomer("Anne", "Bayer"), cup, 3)}
	p := NewPrinter(nil)

	render := func() string {
		var b strings.Builder
		p.PrintOrders(p.OrdersTable(&b), orders)
		return b.String()
	}
	first := render()
	assert.Equal(t, first, render())
	assert.Contains(t, first, " - 3 Cup, 3x 2.99€")
}

func TestPrintOrder_NilIgnored(t *testing.T) {
	p := NewPrinter(nil)
	var b strings.Builder
	table := p.OrdersTable(&b)
	before := b.String()
	p.PrintOrder(table, nil)
	assert.Equal(t, before, b.String())
}

func TestPrintArticlesCustomersAndOrderList(t *testing.T) {
	java := mustArticle(t, "SKU-278530", `Book "Java"`, 4990, domain.ReducedVAT)
	cup := mustArticle(t, "SKU-458362", "Cup", 299, domain.StandardVAT)

	anne := domain.NewCustomer("Anne", "Bayer")
	require.NoError(t, anne.SetID(643270))
	require.NoError(t, anne.AddContact("anne24@yahoo.de"))
	require.NoError(t, anne.AddContact("(030) 3481-23352"))

	order := mustOrder(t, "3563561357", anne, cup, 2)
	order.SetCreatedAt(time.Date(2022, 5, 16, 8, 16, 42, 0, time.UTC))

	p := NewPrinter(nil)

	var b strings.Builder
	p.PrintArticles(p.ArticlesTable(&b), []*domain.Article{java, nil, cup})
	assert.Contains(t, b.String(), "|SKU-278530  |Book \"Java\"                  |     49.90€|   7% VAT|\n")
	assert.Contains(t, b.String(), "|  19% VAT|\n")

	b.Reset()
	p.PrintCustomers(p.CustomersTable(&b), []*domain.Customer{anne, domain.NewCustomer("Nobody", "")})
	assert.Contains(t, b.String(), "|  643270|Bayer, Anne")
	assert.Contains(t, b.String(), "anne24@yahoo.de, (030) 3481-23352")
	assert.Contains(t, b.String(), "|        |Nobody")

	b.Reset()
	p.PrintOrderList(p.OrderListTable(&b), []*domain.Order{order})
	assert.Contains(t, b.String(), "|3563561357  |Bayer, Anne")
	assert.Contains(t, b.String(), "|  1 items|created: 2022-05-16 08:16:42 |\n")
}
