package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rl1809/order-desk/internal/core/domain"
	"github.com/rl1809/order-desk/internal/core/tax"
)

var (
	inventoryLayout = mustLayout(NewLayout().
		Column("|L", 11).  // id
		Column("|L", 30).  // description
		Column("|R", 10).  // unit price
		Column("|R", 12).  // units in store
		Column("||R", 13)) // value

	ordersLayout = mustLayout(NewLayout().
		Column("|L", 11).  // order id
		Column("|L", 30).  // item line
		Column("R", 7).    // line VAT
		Column("L", 1).    // reduced VAT marker
		Column("R", 10).   // line price
		Column("|R", 11).  // order VAT
		Column("||R", 12)) // order total

	articlesLayout = mustLayout(NewLayout().
		Column("|L", 13).
		Column("|L", 30).
		Column("|R", 12).
		Column("||R", 11))

	customersLayout = mustLayout(NewLayout().
		Column("|R", 9).
		Column("|L", 32).
		Column("||L", 47))

	orderListLayout = mustLayout(NewLayout().
		Column("|L", 13).
		Column("|L", 30).
		Column("|R", 10).
		Column("||L", 31))
)

const reducedMarker = "*"

// Printer lays out domain objects in report tables.
type Printer struct {
	format *Formatter
}

func NewPrinter(format *Formatter) *Printer {
	if format == nil {
		format = NewFormatter(DefaultCurrency)
	}
	return &Printer{format: format}
}

func (p *Printer) Formatter() *Formatter { return p.format }

// InventoryTable starts an inventory table in out and writes its header.
func (p *Printer) InventoryTable(out *strings.Builder) *Table {
	return NewTable(out, inventoryLayout).
		Line().
		Row("Inv.-Id", "Article / Unit", "Unit", "Units", "Value").
		Row("", "", "Price", "in-Stock", "(in "+p.format.Currency()+")").
		Line()
}

// PrintInventory writes one row per item followed by the total value.
func (p *Printer) PrintInventory(t *Table, items []*domain.InventoryItem) *Table {
	var total int64
	for _, item := range items {
		if item == nil {
			continue
		}
		a := item.Article()
		total += item.Value()
		t.Row(
			a.ID(),
			a.Description(),
			p.format.Price(a.UnitPrice()),
			strconv.Itoa(item.UnitsInStore()),
			p.format.Price(item.Value()),
		)
	}
	return t.Line().
		Row("@>   |", "", "", "", "Value:", p.format.Price(total)).
		Line("@    =")
}

func (p *Printer) OrdersTable(out *strings.Builder) *Table {
	return NewTable(out, ordersLayout).
		Line().
		Row("Order-Id", "Orders", "VAT", "", "Price", "VAT", "Total").
		Line()
}

// PrintOrder writes a header row and one row per item. The last item row
// also carries the tax and total of the order.
func (p *Printer) PrintOrder(t *Table, order *domain.Order) *Table {
	if order == nil {
		return t
	}
	t.Row(order.ID(), order.Customer().FirstName()+"'s order:")

	items := order.Items()
	value, vat := tax.ValueAndTax(order)
	for i, item := range items {
		a := item.Article()
		units := item.UnitsOrdered()

		line := fmt.Sprintf(" - %d %s", units, a.Description())
		if units > 1 {
			line += fmt.Sprintf(", %dx %s", units, p.format.Price(a.UnitPrice()))
		}
		marker := ""
		if a.Tax() == domain.ReducedVAT {
			marker = reducedMarker
		}
		values := []string{
			"",
			line,
			p.format.Price(tax.IncludedVAT(item.Price(), a.Tax())),
			marker,
			p.format.Price(item.Price()),
		}
		if i == len(items)-1 {
			values = append(values, p.format.Price(vat), p.format.Price(value))
		}
		t.Row(values...)
	}
	return t
}

// PrintOrders writes every order followed by a separator and the grand total.
func (p *Printer) PrintOrders(t *Table, orders []*domain.Order) *Table {
	var value, vat int64
	for _, order := range orders {
		if order == nil {
			continue
		}
		v, x := tax.ValueAndTax(order)
		value += v
		vat += x
		p.PrintOrder(t, order).Line()
	}
	return t.
		Row("@>    ||", "", "", "", "", "Total:", p.format.Price(vat), p.format.Price(value)).
		Line("@     ==")
}

func (p *Printer) ArticlesTable(out *strings.Builder) *Table {
	return NewTable(out, articlesLayout).
		Line().
		Row("Article-Id", "Description", "Unit Price", "VAT").
		Line()
}

func (p *Printer) PrintArticles(t *Table, articles []*domain.Article) *Table {
	for _, a := range articles {
		if a == nil {
			continue
		}
		t.Row(a.ID(), a.Description(), p.format.Price(a.UnitPrice()), tax.Rate(a.Tax()).String()+"% VAT")
	}
	return t.Line()
}

func (p *Printer) CustomersTable(out *strings.Builder) *Table {
	return NewTable(out, customersLayout).
		Line().
		Row("Id", "Name", "Contacts").
		Line()
}

// PrintCustomers writes one row per customer. Customers without id show an
// empty id cell.
func (p *Printer) PrintCustomers(t *Table, customers []*domain.Customer) *Table {
	for _, c := range customers {
		if c == nil {
			continue
		}
		id := ""
		if v, ok := c.ID(); ok {
			id = strconv.FormatInt(v, 10)
		}
		t.Row(id, p.format.Name(c.FirstName(), c.LastName()), strings.Join(c.Contacts(), ", "))
	}
	return t.Line()
}

func (p *Printer) OrderListTable(out *strings.Builder) *Table {
	return NewTable(out, orderListLayout).
		Line().
		Row("Order-Id", "Customer", "Items", "Created").
		Line()
}

func (p *Printer) PrintOrderList(t *Table, orders []*domain.Order) *Table {
	for _, o := range orders {
		if o == nil {
			continue
		}
		c := o.Customer()
		t.Row(
			o.ID(),
			p.format.Name(c.FirstName(), c.LastName()),
			fmt.Sprintf("%d items", o.ItemsCount()),
			"created: "+p.format.Date(o.CreatedAt()),
		)
	}
	return t.Line()
}
