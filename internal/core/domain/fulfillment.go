package domain

import "time"

// Fulfillment records an accepted order for downstream export.
type Fulfillment struct {
	OrderID    string
	CustomerID int64
	CreatedAt  time.Time
	FilledAt   time.Time
	Lines      []FulfilledLine
	Value      int64
	Tax        int64
}

type FulfilledLine struct {
	ArticleID   string
	Description string
	Units       int
	UnitPrice   int64
	LinePrice   int64
	LineTax     int64
	StockAfter  int
}
