package supermarket

import (
	"database/sql"
	"time"

	"github.com/pilosa/relkit"
)

// Tables of the supermarket schema, parents first.
var (
	Branches = &relkit.Table{
		Name:    "branches",
		Key:     "id",
		AutoKey: true,
		Columns: []relkit.Column{
			{Name: "id", Type: relkit.Int, PrimaryKey: true},
			{Name: "branch_code", Type: relkit.Text, NotNull: true, Unique: true},
			{Name: "city", Type: relkit.Text, NotNull: true},
		},
	}
	ProductLines = &relkit.Table{
		Name:    "product_lines",
		Key:     "id",
		AutoKey: true,
		Columns: []relkit.Column{
			{Name: "id", Type: relkit.Int, PrimaryKey: true},
			{Name: "name", Type: relkit.Text, NotNull: true, Unique: true},
		},
	}
	Products = &relkit.Table{
		Name:    "products",
		Key:     "id",
		AutoKey: true,
		Columns: []relkit.Column{
			{Name: "id", Type: relkit.Int, PrimaryKey: true},
			{Name: "product_line_id", Type: relkit.Int, NotNull: true, References: "product_lines(id)"},
			{Name: "unit_price", Type: relkit.Float, NotNull: true},
		},
	}
	Sales = &relkit.Table{
		Name:    "sales",
		Key:     "id",
		AutoKey: true,
		Columns: []relkit.Column{
			{Name: "id", Type: relkit.Int, PrimaryKey: true},
			{Name: "invoice_id", Type: relkit.Text, NotNull: true, Unique: true},
			{Name: "branch_id", Type: relkit.Int, NotNull: true, References: "branches(id)"},
			{Name: "product_id", Type: relkit.Int, NotNull: true, References: "products(id)"},
			{Name: "quantity", Type: relkit.Int, NotNull: true},
			{Name: "date", Type: relkit.Date, NotNull: true},
			{Name: "time", Type: relkit.Time},
			{Name: "payment_method", Type: relkit.Text},
			{Name: "total", Type: relkit.Float, NotNull: true},
			{Name: "tax", Type: relkit.Float},
			{Name: "cogs", Type: relkit.Float},
			{Name: "gross_income", Type: relkit.Float},
			{Name: "rating", Type: relkit.Float},
		},
	}
)

// Tables returns the schema in dependency order.
func Tables() []*relkit.Table {
	return []*relkit.Table{Branches, ProductLines, Products, Sales}
}

// Branch is a store, identified by its code.
type Branch struct {
	id   int64
	Code string
	City string
}

func (b *Branch) Table() *relkit.Table  { return Branches }
func (b *Branch) Values() []interface{} { return []interface{}{b.Code, b.City} }
func (b *Branch) ID() int64             { return b.id }
func (b *Branch) SetID(id int64)        { b.id = id }

// ProductLine is a product category.
type ProductLine struct {
	id   int64
	Name string
}

func (p *ProductLine) Table() *relkit.Table  { return ProductLines }
func (p *ProductLine) Values() []interface{} { return []interface{}{p.Name} }
func (p *ProductLine) ID() int64             { return p.id }
func (p *ProductLine) SetID(id int64)        { p.id = id }

// Product is a product line at one unit price. The dataset has no product
// identifier, so the pair is the natural key.
type Product struct {
	id        int64
	lineID    int64
	Line      *ProductLine
	UnitPrice float64
}

func (p *Product) Table() *relkit.Table { return Products }
func (p *Product) Values() []interface{} {
	return []interface{}{p.lineID, p.UnitPrice}
}
func (p *Product) ID() int64      { return p.id }
func (p *Product) SetID(id int64) { p.id = id }

// BindKeys implements relkit.Binder.
func (p *Product) BindKeys() (err error) {
	p.lineID, err = relkit.KeyOf(p.Line)
	return err
}

// Sale is one invoice line.
type Sale struct {
	branchID  int64
	productID int64

	InvoiceID   string
	Branch      *Branch
	Product     *Product
	Quantity    int64
	Date        time.Time
	Time        sql.NullString
	Payment     sql.NullString
	Total       float64
	Tax         sql.NullFloat64
	COGS        sql.NullFloat64
	GrossIncome sql.NullFloat64
	Rating      sql.NullFloat64
}

func (s *Sale) Table() *relkit.Table { return Sales }
func (s *Sale) Values() []interface{} {
	return []interface{}{
		s.InvoiceID, s.branchID, s.productID, s.Quantity,
		s.Date.Format(dateLayout), s.Time, s.Payment,
		s.Total, s.Tax, s.COGS, s.GrossIncome, s.Rating,
	}
}

// BindKeys implements relkit.Binder.
func (s *Sale) BindKeys() (err error) {
	if s.branchID, err = relkit.KeyOf(s.Branch); err != nil {
		return err
	}
	s.productID, err = relkit.KeyOf(s.Product)
	return err
}
