// Package catalog loads articles, customers, stock and pending orders from
// YAML files.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rl1809/order-desk/internal/adapter/storage"
	"github.com/rl1809/order-desk/internal/core/domain"
)

//go:embed sample.yaml
var sample []byte

type File struct {
	Articles  []ArticleEntry  `yaml:"articles"`
	Customers []CustomerEntry `yaml:"customers"`
	Orders    []OrderEntry    `yaml:"orders"`
}

type ArticleEntry struct {
	ID           string `yaml:"id"`
	Description  string `yaml:"description"`
	UnitPrice    int64  `yaml:"unit_price"`
	Tax          string `yaml:"tax"`
	UnitsInStore int    `yaml:"units_in_store"`
}

type CustomerEntry struct {
	ID        int64    `yaml:"id"`
	FirstName string   `yaml:"first_name"`
	LastName  string   `yaml:"last_name"`
	Contacts  []string `yaml:"contacts"`
}

type OrderEntry struct {
	ID         string      `yaml:"id"`
	CustomerID int64       `yaml:"customer_id"`
	CreatedAt  *time.Time  `yaml:"created_at"`
	Items      []ItemEntry `yaml:"items"`
}

type ItemEntry struct {
	ArticleID string `yaml:"article_id"`
	Units     int    `yaml:"units"`
}

// Sample returns the embedded sample catalog.
func Sample() (*File, error) {
	return Parse(sample)
}

func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse rejects unknown fields.
func Parse(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return &f, nil
}

// Catalog is a loaded file turned into domain objects.
type Catalog struct {
	Inventory *domain.Inventory
	Articles  *storage.MemoryRepository[domain.Article, string]
	Customers *storage.MemoryRepository[domain.Customer, int64]
	// Orders are pending, in file order.
	Orders []*domain.Order
}

// Build validates every entry through the domain constructors.
func (f *File) Build() (*Catalog, error) {
	c := &Catalog{
		Inventory: domain.NewInventory(),
		Articles:  storage.NewArticleRepository(),
		Customers: storage.NewCustomerRepository(),
	}

	for _, e := range f.Articles {
		category, err := domain.ParseTaxCategory(e.Tax)
		if err != nil {
			return nil, fmt.Errorf("article %s: %w", e.ID, err)
		}
		article, err := domain.NewArticle(e.ID, e.Description, e.UnitPrice, category)
		if err != nil {
			return nil, err
		}
		if c.Articles.ExistsByID(article.ID()) {
			return nil, domain.NewInvalidArgument("article %s listed twice", article.ID())
		}
		if _, err := c.Articles.Save(article); err != nil {
			return nil, err
		}
		if _, err := c.Inventory.Add(article, e.UnitsInStore); err != nil {
			return nil, err
		}
	}

	for _, e := range f.Customers {
		customer := domain.NewCustomer(e.FirstName, e.LastName)
		if err := customer.SetID(e.ID); err != nil {
			return nil, err
		}
		if c.Customers.ExistsByID(e.ID) {
			return nil, domain.NewInvalidArgument("customer %d listed twice", e.ID)
		}
		for _, contact := range e.Contacts {
			if err := customer.AddContact(contact); err != nil {
				return nil, fmt.Errorf("customer %d: %w", e.ID, err)
			}
		}
		if _, err := c.Customers.Save(customer); err != nil {
			return nil, err
		}
	}

	// Orders without created_at are stamped in file order.
	loadedAt := time.Now().UTC().Truncate(time.Second)
	for i, e := range f.Orders {
		order, err := c.buildOrder(e, loadedAt.Add(time.Duration(i)*time.Millisecond))
		if err != nil {
			return nil, fmt.Errorf("order %s: %w", e.ID, err)
		}
		c.Orders = append(c.Orders, order)
	}
	return c, nil
}

func (c *Catalog) buildOrder(e OrderEntry, createdAt time.Time) (*domain.Order, error) {
	customer, ok := c.Customers.FindByID(e.CustomerID)
	if !ok {
		return nil, fmt.Errorf("customer %d: %w", e.CustomerID, domain.ErrNotFound)
	}
	order, err := domain.NewOrder(customer)
	if err != nil {
		return nil, err
	}
	if err := order.SetID(e.ID); err != nil {
		return nil, err
	}
	if e.CreatedAt != nil {
		createdAt = *e.CreatedAt
	}
	order.SetCreatedAt(createdAt)
	for _, item := range e.Items {
		article, ok := c.Articles.FindByID(item.ArticleID)
		if !ok {
			return nil, fmt.Errorf("article %s: %w", item.ArticleID, domain.ErrNotFound)
		}
		if err := order.AddItem(article, item.Units); err != nil {
			return nil, err
		}
	}
	return order, nil
}
