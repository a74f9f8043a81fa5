package domain

import "strings"

type TaxCategory string

const (
	TaxFree     TaxCategory = "TAX_FREE"
	StandardVAT TaxCategory = "STANDARD_VAT"
	ReducedVAT  TaxCategory = "REDUCED_VAT"
)

func (c TaxCategory) Valid() bool {
	switch c {
	case TaxFree, StandardVAT, ReducedVAT:
		return true
	}
	return false
}

func (c TaxCategory) String() string { return string(c) }

// ParseTaxCategory accepts the category names case-insensitively.
func ParseTaxCategory(s string) (TaxCategory, error) {
	c := TaxCategory(strings.ToUpper(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", NewInvalidArgument("unknown tax category %q", s)
	}
	return c, nil
}

// Article is immutable once built.
type Article struct {
	id          string
	description string
	unitPrice   int64
	tax         TaxCategory
}

func NewArticle(id, description string, unitPrice int64, tax TaxCategory) (*Article, error) {
	if strings.TrimSpace(id) == "" {
		return nil, NewInvalidArgument("article id is empty")
	}
	if unitPrice < 0 {
		return nil, NewInvalidArgument("article %s: negative unit price %d", id, unitPrice)
	}
	if !tax.Valid() {
		return nil, NewInvalidArgument("article %s: unknown tax category %q", id, tax)
	}
	return &Article{
		id:          id,
		description: description,
		unitPrice:   unitPrice,
		tax:         tax,
	}, nil
}

func (a *Article) ID() string          { return a.id }
func (a *Article) Description() string { return a.description }
func (a *Article) UnitPrice() int64    { return a.unitPrice }
func (a *Article) Tax() TaxCategory    { return a.tax }
