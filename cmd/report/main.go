// Command report runs one batch over a catalog: it prints the inventory,
// fills every pending order it can, prints the accepted orders and prints
// the inventory again.
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/rl1809/order-desk/internal/adapter/catalog"
	"github.com/rl1809/order-desk/internal/adapter/storage"
	"github.com/rl1809/order-desk/internal/config"
	"github.com/rl1809/order-desk/internal/core/domain"
	"github.com/rl1809/order-desk/internal/core/report"
	"github.com/rl1809/order-desk/internal/core/service"
)

func main() {
	configPath := pflag.String("config", "", "path to the YAML configuration file")
	catalogPath := pflag.String("catalog", "", "path to the YAML catalog (default: embedded sample)")
	listings := pflag.Bool("listings", false, "also print articles, customers and pending orders")
	pflag.Parse()

	if err := run(*configPath, *catalogPath, *listings, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "report:", err)
		os.Exit(1)
	}
}

func run(configPath, catalogPath string, listings bool, stdout, stderr io.Writer) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if catalogPath != "" {
		cfg.Catalog.Path = catalogPath
	}
	// Rejections go to stderr in plain text, so the logger stays quiet.
	cfg.Log.Level = "warn"
	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()

	var f *catalog.File
	if cfg.Catalog.Path == "" {
		f, err = catalog.Sample()
	} else {
		f, err = catalog.Load(cfg.Catalog.Path)
	}
	if err != nil {
		return err
	}
	c, err := f.Build()
	if err != nil {
		return err
	}

	printer := report.NewPrinter(report.NewFormatter(cfg.Catalog.Currency))
	svc, err := service.NewOrderService(c.Inventory, service.Repositories{
		Accepted:  storage.NewOrderRepository(),
		Articles:  c.Articles,
		Customers: c.Customers,
	}, 0, logger, service.WithPrinter(printer))
	if err != nil {
		return err
	}
	defer svc.Close()

	if listings {
		fmt.Fprint(stdout, renderListings(printer, c))
	}

	fmt.Fprintf(stdout, "Inventory (%d articles):\n", c.Inventory.Count())
	fmt.Fprint(stdout, svc.InventoryReport())

	result := svc.PlaceAll(context.Background(), c.Orders)
	for _, r := range result.Rejected {
		var nf *service.NotFillableError
		if errors.As(r.Err, &nf) {
			fmt.Fprintln(stderr, nf.Error())
			continue
		}
		fmt.Fprintf(stderr, "order %s rejected: %v\n", r.OrderID, r.Err)
	}
	logger.Info("batch done", zap.String("run_id", result.RunID))

	fmt.Fprintf(stdout, "\nAccepted orders (%d of %d):\n", len(result.Accepted), len(c.Orders))
	fmt.Fprint(stdout, svc.OrdersReport())

	fmt.Fprintf(stdout, "\nInventory after fulfillment:\n")
	fmt.Fprint(stdout, svc.InventoryReport())
	return nil
}

func renderListings(p *report.Printer, c *catalog.Catalog) string {
	articles := c.Articles.FindAll()
	slices.SortFunc(articles, func(a, b *domain.Article) int { return cmp.Compare(a.ID(), b.ID()) })
	customers := c.Customers.FindAll()
	slices.SortFunc(customers, func(a, b *domain.Customer) int {
		x, _ := a.ID()
		y, _ := b.ID()
		return cmp.Compare(x, y)
	})

	var b strings.Builder
	b.WriteString("Articles:\n")
	p.PrintArticles(p.ArticlesTable(&b), articles)
	b.WriteString("\nCustomers:\n")
	p.PrintCustomers(p.CustomersTable(&b), customers)
	b.WriteString("\nPending orders:\n")
	p.PrintOrderList(p.OrderListTable(&b), c.Orders)
	b.WriteString("\n")
	return b.String()
}
