package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrOrderNotFillable = errors.New("order not fillable")
	ErrDuplicateOrder   = errors.New("duplicate order")
)

// Shortage is one article whose aggregated demand exceeds the stock.
type Shortage struct {
	ArticleID   string
	Description string
	Demand      int
	InStore     int
}

// NotFillableError lists every shortage of a rejected order. It matches
// ErrOrderNotFillable with errors.Is.
type NotFillableError struct {
	OrderID   string
	Shortages []Shortage
}

func (e *NotFillableError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "order %s: %s", e.OrderID, ErrOrderNotFillable)
	for _, s := range e.Shortages {
		fmt.Fprintf(&b, "\n - item: %dx %q (%s) exceeds inventory of %d", s.Demand, s.Description, s.ArticleID, s.InStore)
	}
	return b.String()
}

func (e *NotFillableError) Is(target error) bool {
	return target == ErrOrderNotFillable
}
