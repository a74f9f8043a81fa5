package storage

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/order-desk/internal/core/domain"
	"github.com/rl1809/order-desk/internal/port"
)

func newMockDB(t *testing.T) (*MySQLAdapter, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewMySQLAdapter(db), mock
}

func testFulfillment() domain.Fulfillment {
	created := time.Date(2022, 5, 16, 8, 16, 42, 0, time.UTC)
	return domain.Fulfillment{
		OrderID:    "3563561357",
		CustomerID: 643270,
		CreatedAt:  created,
		FilledAt:   created.Add(time.Second),
		Lines: []domain.FulfilledLine{
			{ArticleID: "SKU-638035", Description: "Plate", Units: 2, UnitPrice: 649, LinePrice: 1298, LineTax: 207, StockAfter: 23},
			{ArticleID: "SKU-458362", Description: "Cup", Units: 2, UnitPrice: 299, LinePrice: 598, LineTax: 95, StockAfter: 135},
		},
		Value: 1896,
		Tax:   302,
	}
}

func TestExportOrder_Success(t *testing.T) {
	adapter, mock := newMockDB(t)
	f := testFulfillment()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO accepted_orders (order_id,customer_id,created_at,filled_at,value_cents,tax_cents) VALUES (?,?,?,?,?,?)")).
		WithArgs(f.OrderID, f.CustomerID, f.CreatedAt, f.FilledAt, f.Value, f.Tax).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO accepted_order_items")).
		WithArgs(
			f.OrderID, 1, "SKU-638035", "Plate", 2, int64(649), int64(1298), int64(207),
			f.OrderID, 2, "SKU-458362", "Cup", 2, int64(299), int64(598), int64(95),
		).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	require.NoError(t, adapter.ExportOrder(context.Background(), f))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExportOrder_WithoutLines(t *testing.T) {
	adapter, mock := newMockDB(t)
	f := testFulfillment()
	f.Lines = nil

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO accepted_orders")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, adapter.ExportOrder(context.Background(), f))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExportOrder_AlreadyExported(t *testing.T) {
	adapter, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO accepted_orders")).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry '3563561357' for key 'PRIMARY'"})
	mock.ExpectRollback()

	err := adapter.ExportOrder(context.Background(), testFulfillment())
	assert.ErrorIs(t, err, port.ErrAlreadyExported)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExportOrder_ItemsFailRollsBack(t *testing.T) {
	adapter, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO accepted_orders")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO accepted_order_items")).
		WillReturnError(errors.New("lock wait timeout"))
	mock.ExpectRollback()

	err := adapter.ExportOrder(context.Background(), testFulfillment())
	require.Error(t, err)
	assert.NotErrorIs(t, err, port.ErrAlreadyExported)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExportOrder_BeginFails(t *testing.T) {
	adapter, mock := newMockDB(t)
	mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

	err := adapter.ExportOrder(context.Background(), testFulfillment())
	assert.ErrorContains(t, err, "begin tx")
}

func TestUpsertStock(t *testing.T) {
	adapter, mock := newMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO stock_levels (article_id,units) VALUES (?,?) ON DUPLICATE KEY UPDATE units = VALUES(units), version = version + 1")).
		WithArgs("SKU-638035", 23).
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, adapter.UpsertStock(context.Background(), "SKU-638035", 23))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertStock_Error(t *testing.T) {
	adapter, mock := newMockDB(t)
	mock.ExpectExec("INSERT INTO stock_levels").WillReturnError(errors.New("read-only"))

	err := adapter.UpsertStock(context.Background(), "SKU-638035", 23)
	assert.ErrorContains(t, err, "upsert stock SKU-638035")
}

func TestEnsureSchema(t *testing.T) {
	adapter, mock := newMockDB(t)
	for _, table := range []string{"accepted_orders", "accepted_order_items", "stock_levels"} {
		mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS " + table + " (")).
			WillReturnResult(sqlmock.NewResult(0, 0))
	}

	require.NoError(t, adapter.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
