package ecommerce

import (
	"database/sql"

	"github.com/pilosa/relkit"
)

// Tables of the e-commerce schema.
var (
	Customers = &relkit.Table{
		Name: "customers",
		Key:  "customer_id",
		Columns: []relkit.Column{
			{Name: "customer_id", Type: relkit.Text, PrimaryKey: true},
			{Name: "customer_since", Type: relkit.Text},
		},
	}
	Categories = &relkit.Table{
		Name:    "categories",
		Key:     "category_id",
		AutoKey: true,
		Columns: []relkit.Column{
			{Name: "category_id", Type: relkit.Int, PrimaryKey: true},
			{Name: "name", Type: relkit.Text, NotNull: true, Unique: true},
		},
	}
	Products = &relkit.Table{
		Name:    "products",
		Key:     "product_id",
		AutoKey: true,
		Columns: []relkit.Column{
			{Name: "product_id", Type: relkit.Int, PrimaryKey: true},
			{Name: "sku", Type: relkit.Text, NotNull: true, Unique: true},
			{Name: "category_id", Type: relkit.Int, References: "categories(category_id)"},
			{Name: "price", Type: relkit.Float, NotNull: true},
		},
	}
	Orders = &relkit.Table{
		Name:    "orders",
		Key:     "order_id",
		AutoKey: true,
		Columns: []relkit.Column{
			{Name: "order_id", Type: relkit.Int, PrimaryKey: true},
			{Name: "increment_id", Type: relkit.Text},
			{Name: "customer_id", Type: relkit.Text, References: "customers(customer_id)"},
			{Name: "status", Type: relkit.Text},
			{Name: "created_at", Type: relkit.Text},
			{Name: "payment_method", Type: relkit.Text},
			{Name: "grand_total", Type: relkit.Float},
			{Name: "discount_amount", Type: relkit.Float, Default: "0"},
			{Name: "sales_commission_code", Type: relkit.Text},
			{Name: "bi_status", Type: relkit.Text},
		},
	}
	OrderItems = &relkit.Table{
		Name:    "order_items",
		Key:     "order_item_id",
		AutoKey: true,
		Columns: []relkit.Column{
			{Name: "order_item_id", Type: relkit.Int, PrimaryKey: true},
			{Name: "order_id", Type: relkit.Int, References: "orders(order_id)"},
			{Name: "product_id", Type: relkit.Int, References: "products(product_id)"},
			{Name: "qty_ordered", Type: relkit.Int, NotNull: true},
			{Name: "price", Type: relkit.Float, NotNull: true},
		},
	}
)

// Tables returns the schema in dependency order.
func Tables() []*relkit.Table {
	return []*relkit.Table{Customers, Categories, Products, Orders, OrderItems}
}

// Customer is keyed by the dataset's own customer id.
type Customer struct {
	CustomerID    string
	CustomerSince sql.NullString
}

func (c *Customer) Table() *relkit.Table  { return Customers }
func (c *Customer) Values() []interface{} { return []interface{}{c.CustomerID, c.CustomerSince} }

// Category is deduplicated by name and gets a surrogate key.
type Category struct {
	id   int64
	Name string
}

func (c *Category) Table() *relkit.Table  { return Categories }
func (c *Category) Values() []interface{} { return []interface{}{c.Name} }
func (c *Category) ID() int64             { return c.id }
func (c *Category) SetID(id int64)        { c.id = id }

// Product is keyed by SKU. Its price and category are those of the first
// row naming the SKU.
type Product struct {
	id         int64
	categoryID int64

	SKU      string
	Category *Category
	Price    float64
}

func (p *Product) Table() *relkit.Table { return Products }
func (p *Product) Values() []interface{} {
	return []interface{}{p.SKU, p.categoryID, p.Price}
}
func (p *Product) ID() int64      { return p.id }
func (p *Product) SetID(id int64) { p.id = id }

func (p *Product) BindKeys() (err error) {
	p.categoryID, err = relkit.KeyOf(p.Category)
	return err
}

// Order is one row's order header. The dataset repeats the header on every
// item row, and each row gets its own order.
type Order struct {
	id int64

	IncrementID         sql.NullString
	Customer            *Customer
	Status              sql.NullString
	CreatedAt           sql.NullString
	PaymentMethod       sql.NullString
	GrandTotal          float64
	DiscountAmount      float64
	SalesCommissionCode sql.NullString
	BIStatus            sql.NullString
}

func (o *Order) Table() *relkit.Table { return Orders }
func (o *Order) Values() []interface{} {
	return []interface{}{
		o.IncrementID, o.Customer.CustomerID, o.Status, o.CreatedAt,
		o.PaymentMethod, o.GrandTotal, o.DiscountAmount,
		o.SalesCommissionCode, o.BIStatus,
	}
}
func (o *Order) ID() int64      { return o.id }
func (o *Order) SetID(id int64) { o.id = id }

// OrderItem is the line of an order naming one product.
type OrderItem struct {
	orderID   int64
	productID int64

	Order      *Order
	Product    *Product
	QtyOrdered int64
	Price      float64
}

func (i *OrderItem) Table() *relkit.Table { return OrderItems }
func (i *OrderItem) Values() []interface{} {
	return []interface{}{i.orderID, i.productID, i.QtyOrdered, i.Price}
}

func (i *OrderItem) BindKeys() (err error) {
	if i.orderID, err = relkit.KeyOf(i.Order); err != nil {
		return err
	}
	i.productID, err = relkit.KeyOf(i.Product)
	return err
}
