package cart

import (
	"github.com/google/uuid"
	"github.com/sangkips/tillpoint-api/internal/domain/entity"
	"github.com/sangkips/tillpoint-api/pkg/apperror"
)

// Match is one (product, unit) candidate for a scanned code. UnitID nil
// means the product's base unit.
type Match struct {
	ProductID      uuid.UUID  `json:"product_id"`
	UnitID         *uuid.UUID `json:"unit_id,omitempty"`
	ProductName    string     `json:"product_name"`
	UnitName       string     `json:"unit_name"`
	ConversionRate int        `json:"conversion_rate"`
	UnitPrice      int64      `json:"unit_price"`
	Taxable        bool       `json:"taxable"`
}

// LineSpec converts a resolved match into an insertable cart line.
func (m Match) LineSpec(quantity int) LineSpec {
	return LineSpec{
		ProductID:      m.ProductID,
		UnitID:         m.UnitID,
		ProductName:    m.ProductName,
		UnitName:       m.UnitName,
		ConversionRate: m.ConversionRate,
		UnitPrice:      m.UnitPrice,
		Taxable:        m.Taxable,
		Quantity:       quantity,
	}
}

func baseMatch(p *entity.Product) Match {
	return Match{
		ProductID:      p.ID,
		ProductName:    p.Name,
		UnitName:       p.BaseUnit,
		ConversionRate: 1,
		UnitPrice:      p.SellingPrice,
		Taxable:        p.Taxable,
	}
}

func unitMatch(p *entity.Product, u *entity.ProductUnit) Match {
	unitID := u.ID
	return Match{
		ProductID:      p.ID,
		UnitID:         &unitID,
		ProductName:    p.Name,
		UnitName:       u.Name,
		ConversionRate: u.ConversionRate,
		UnitPrice:      u.UnitPrice(p.SellingPrice),
		Taxable:        p.Taxable,
	}
}

// ResolveBarcode maps a scanned code to its (product, unit) candidates over a
// catalog snapshot. Base-unit matches (product barcode or SKU) come first,
// then conversion-unit barcode matches, both in catalog order, so identical
// snapshots always resolve identically.
//
// Zero matches is a not-found error. More than one is an ambiguity error
// carrying the full candidate list; the caller must obtain an explicit
// selection rather than silently picking a price/unit.
func ResolveBarcode(code string, products []entity.Product) ([]Match, error) {
	if code == "" {
		return nil, apperror.NewFieldValidationError("code", "scanned code must not be empty")
	}

	var matches []Match
	for i := range products {
		p := &products[i]
		if (p.Barcode != nil && *p.Barcode == code) || p.SKU == code {
			matches = append(matches, baseMatch(p))
		}
	}
	for i := range products {
		p := &products[i]
		for j := range p.Units {
			u := &p.Units[j]
			if u.Barcode != nil && *u.Barcode == code {
				matches = append(matches, unitMatch(p, u))
			}
		}
	}

	switch len(matches) {
	case 0:
		return nil, apperror.NewNotFoundError("Product with code " + code)
	case 1:
		return matches, nil
	default:
		return matches, apperror.NewAmbiguityError("Scanned code matches multiple products or units", matches)
	}
}
