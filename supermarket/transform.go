// Package supermarket normalizes the supermarket sales dataset into
// branches, product lines, products and sales.
package supermarket

import (
	"github.com/pilosa/relkit"
)

// Name identifies the domain.
const Name = "supermarket"

type productKey struct {
	line  string
	price float64
}

// Domain implements relkit.Domain for supermarket sales.
type Domain struct {
	branches     *relkit.Cache[string, *Branch]
	productLines *relkit.Cache[string, *ProductLine]
	products     *relkit.Cache[productKey, *Product]

	graph *relkit.Graph
	log   relkit.Logger
}

// NewDomain returns a Domain with empty caches.
func NewDomain(log relkit.Logger) *Domain {
	if log == nil {
		log = relkit.NopLogger{}
	}
	return &Domain{
		branches:     relkit.NewCache[string, *Branch](),
		productLines: relkit.NewCache[string, *ProductLine](),
		products:     relkit.NewCache[productKey, *Product](),
		graph: relkit.NewGraph().
			Declare(relkit.Reference, Branches, ProductLines, Products).
			Declare(relkit.Fact, Sales),
		log: log,
	}
}

func (d *Domain) Name() string            { return Name }
func (d *Domain) Tables() []*relkit.Table { return Tables() }
func (d *Domain) NewRecord() interface{}  { return &Record{} }
func (d *Domain) Graph() *relkit.Graph    { return d.graph }

// Transform implements relkit.Domain. The branch's city is taken from the
// first row naming the branch.
func (d *Domain) Transform(line int, rec interface{}) error {
	r, err := rec.(*Record).decode()
	if err != nil {
		return relkit.AtLine(line, err)
	}
	if r.badTime {
		d.log.Printf("line %d: can't parse time %q, storing NULL", line, rec.(*Record).Time)
	}

	b, created := d.branches.Resolve(r.branch, func() *Branch {
		return &Branch{Code: r.branch, City: r.city}
	})
	if created {
		d.graph.Add(b)
	}
	pl, created := d.productLines.Resolve(r.productLine, func() *ProductLine {
		return &ProductLine{Name: r.productLine}
	})
	if created {
		d.graph.Add(pl)
	}
	p, created := d.products.Resolve(productKey{r.productLine, r.unitPrice}, func() *Product {
		return &Product{Line: pl, UnitPrice: r.unitPrice}
	})
	if created {
		d.graph.Add(p)
	}

	d.graph.Add(&Sale{
		InvoiceID:   r.invoiceID,
		Branch:      b,
		Product:     p,
		Quantity:    r.quantity,
		Date:        r.date,
		Time:        r.time,
		Payment:     r.payment,
		Total:       r.total,
		Tax:         r.tax,
		COGS:        r.cogs,
		GrossIncome: r.grossIncome,
		Rating:      r.rating,
	})
	return nil
}
