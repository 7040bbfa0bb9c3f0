package ecommerce

import (
	"database/sql"

	"github.com/pilosa/relkit"
)

// Record is one row of the Pakistan e-commerce dataset. Columns the schema
// doesn't store (item_id, MV, Year, ...) are not mapped.
type Record struct {
	Status              string `csv:"status"`
	CreatedAt           string `csv:"created_at"`
	SKU                 string `csv:"sku"`
	Price               string `csv:"price"`
	QtyOrdered          string `csv:"qty_ordered"`
	GrandTotal          string `csv:"grand_total"`
	IncrementID         string `csv:"increment_id"`
	Category            string `csv:"category_name_1"`
	SalesCommissionCode string `csv:"sales_commission_code"`
	DiscountAmount      string `csv:"discount_amount"`
	PaymentMethod       string `csv:"payment_method"`
	BIStatus            string `csv:"BI Status"`
	CustomerSince       string `csv:"Customer Since"`
	CustomerID          string `csv:"Customer ID"`
}

type row struct {
	customerID    string
	customerSince sql.NullString
	category      string
	sku           string
	productPrice  float64

	incrementID         sql.NullString
	status              sql.NullString
	createdAt           sql.NullString
	paymentMethod       sql.NullString
	grandTotal          float64
	discountAmount      float64
	salesCommissionCode sql.NullString
	biStatus            sql.NullString

	qty       int64
	itemPrice float64
}

// decode fails only when one of the natural keys is missing. Every numeric
// field falls back to a default.
func (r *Record) decode() (w row, err error) {
	if w.customerID, err = relkit.ParseString("Customer ID", r.CustomerID); err != nil {
		return w, err
	}
	if w.sku, err = relkit.ParseString("sku", r.SKU); err != nil {
		return w, err
	}
	if w.category, err = relkit.ParseString("category_name_1", r.Category); err != nil {
		return w, err
	}
	w.customerSince = relkit.NullString(r.CustomerSince)
	w.productPrice = relkit.FloatOr(r.Price, 0)

	w.incrementID = relkit.NullString(r.IncrementID)
	w.status = relkit.NullString(r.Status)
	w.createdAt = relkit.NullString(r.CreatedAt)
	w.paymentMethod = relkit.NullString(r.PaymentMethod)
	w.grandTotal = relkit.FloatOr(r.GrandTotal, 0)
	w.discountAmount = relkit.FloatOr(r.DiscountAmount, 0)
	w.salesCommissionCode = relkit.NullString(r.SalesCommissionCode)
	w.biStatus = relkit.NullString(r.BIStatus)

	// quantity and item price fall back together
	qty, qerr := relkit.ParseInt("qty_ordered", r.QtyOrdered)
	price, perr := relkit.ParseFloat("price", r.Price)
	if qerr != nil || perr != nil {
		qty, price = 1, 0
	}
	w.qty, w.itemPrice = qty, price
	return w, nil
}
