// Package ecommerce normalizes the Pakistan e-commerce orders dataset into
// customers, categories, products, orders and order items.
package ecommerce

import (
	"github.com/pilosa/relkit"
)

// Name is the domain name used in logs, metrics and run stats.
const Name = "ecommerce"

// Domain implements relkit.Domain.
type Domain struct {
	customers  *relkit.Cache[string, *Customer]
	categories *relkit.Cache[string, *Category]
	products   *relkit.Cache[string, *Product]

	graph *relkit.Graph
	log   relkit.Logger
}

// NewDomain returns a Domain with empty caches. A nil log discards output.
func NewDomain(log relkit.Logger) *Domain {
	if log == nil {
		log = relkit.NopLogger{}
	}
	return &Domain{
		customers:  relkit.NewCache[string, *Customer](),
		categories: relkit.NewCache[string, *Category](),
		products:   relkit.NewCache[string, *Product](),
		graph: relkit.NewGraph().
			Declare(relkit.Reference, Customers, Categories, Products).
			Declare(relkit.Fact, Orders, OrderItems),
		log: log,
	}
}

func (d *Domain) Name() string            { return Name }
func (d *Domain) Tables() []*relkit.Table { return Tables() }
func (d *Domain) NewRecord() interface{}  { return &Record{} }
func (d *Domain) Graph() *relkit.Graph    { return d.graph }

func (d *Domain) Transform(line int, rec interface{}) error {
	r, err := rec.(*Record).decode()
	if err != nil {
		return relkit.AtLine(line, err)
	}

	c, created := d.customers.Resolve(r.customerID, func() *Customer {
		return &Customer{CustomerID: r.customerID, CustomerSince: r.customerSince}
	})
	if created {
		d.graph.Add(c)
	}
	cat, created := d.categories.Resolve(r.category, func() *Category {
		return &Category{Name: r.category}
	})
	if created {
		d.graph.Add(cat)
	}
	p, created := d.products.Resolve(r.sku, func() *Product {
		return &Product{SKU: r.sku, Category: cat, Price: r.productPrice}
	})
	if created {
		d.graph.Add(p)
	}

	o := &Order{
		IncrementID:         r.incrementID,
		Customer:            c,
		Status:              r.status,
		CreatedAt:           r.createdAt,
		PaymentMethod:       r.paymentMethod,
		GrandTotal:          r.grandTotal,
		DiscountAmount:      r.discountAmount,
		SalesCommissionCode: r.salesCommissionCode,
		BIStatus:            r.biStatus,
	}
	d.graph.Add(o, &OrderItem{
		Order:      o,
		Product:    p,
		QtyOrdered: r.qty,
		Price:      r.itemPrice,
	})
	return nil
}
