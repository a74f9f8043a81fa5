package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/go-sql-driver/mysql"

	"github.com/rl1809/order-desk/internal/core/domain"
	"github.com/rl1809/order-desk/internal/port"
)

const mysqlDuplicateEntry = 1062

var _ port.LedgerRepository = (*MySQLAdapter)(nil)

var ledgerSchema = []string{
	`CREATE TABLE IF NOT EXISTS accepted_orders (
		order_id     VARCHAR(64) NOT NULL PRIMARY KEY,
		customer_id  BIGINT      NOT NULL,
		created_at   DATETIME(6) NOT NULL,
		filled_at    DATETIME(6) NOT NULL,
		value_cents  BIGINT      NOT NULL,
		tax_cents    BIGINT      NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS accepted_order_items (
		order_id         VARCHAR(64)  NOT NULL,
		line_no          INT          NOT NULL,
		article_id       VARCHAR(64)  NOT NULL,
		description      VARCHAR(255) NOT NULL,
		units            INT          NOT NULL,
		unit_price_cents BIGINT       NOT NULL,
		line_price_cents BIGINT       NOT NULL,
		line_tax_cents   BIGINT       NOT NULL,
		PRIMARY KEY (order_id, line_no)
	)`,
	`CREATE TABLE IF NOT EXISTS stock_levels (
		article_id VARCHAR(64) NOT NULL PRIMARY KEY,
		units      INT         NOT NULL,
		version    BIGINT      NOT NULL DEFAULT 0,
		updated_at DATETIME    NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
}

// MySQLAdapter is the ledger of accepted orders and stock levels.
type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

// EnsureSchema creates the ledger tables if they do not exist.
func (m *MySQLAdapter) EnsureSchema(ctx context.Context) error {
	for _, stmt := range ledgerSchema {
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func (m *MySQLAdapter) ExportOrder(ctx context.Context, f domain.Fulfillment) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = squirrel.Insert("accepted_orders").
		Columns("order_id", "customer_id", "created_at", "filled_at", "value_cents", "tax_cents").
		Values(f.OrderID, f.CustomerID, f.CreatedAt, f.FilledAt, f.Value, f.Tax).
		RunWith(tx).
		ExecContext(ctx)
	if isDuplicateEntry(err) {
		return fmt.Errorf("order %s: %w", f.OrderID, port.ErrAlreadyExported)
	}
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	if len(f.Lines) > 0 {
		insert := squirrel.Insert("accepted_order_items").
			Columns("order_id", "line_no", "article_id", "description", "units",
				"unit_price_cents", "line_price_cents", "line_tax_cents")
		for i, line := range f.Lines {
			insert = insert.Values(f.OrderID, i+1, line.ArticleID, line.Description, line.Units,
				line.UnitPrice, line.LinePrice, line.LineTax)
		}
		if _, err := insert.RunWith(tx).ExecContext(ctx); err != nil {
			return fmt.Errorf("insert order items: %w", err)
		}
	}

	return tx.Commit()
}

func (m *MySQLAdapter) UpsertStock(ctx context.Context, articleID string, units int) error {
	_, err := squirrel.Insert("stock_levels").
		Columns("article_id", "units").
		Values(articleID, units).
		Suffix("ON DUPLICATE KEY UPDATE units = VALUES(units), version = version + 1, updated_at = NOW()").
		RunWith(m.db).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("upsert stock %s: %w", articleID, err)
	}
	return nil
}

func isDuplicateEntry(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}
