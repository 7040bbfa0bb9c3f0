// Package report summarizes loaded datasets with read-only SQL over the
// normalized tables.
package report

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/jmoiron/sqlx"
	"github.com/pilosa/relkit"
	"github.com/pkg/errors"
)

// TableCount is the number of rows in one table.
type TableCount struct {
	Table string
	Rows  int64
}

// Counts returns the row count of each table, in order.
func Counts(ctx context.Context, db *sqlx.DB, tables []*relkit.Table) ([]TableCount, error) {
	ret := make([]TableCount, 0, len(tables))
	for _, t := range tables {
		var n int64
		if err := db.GetContext(ctx, &n, `SELECT COUNT(*) FROM "`+t.Name+`"`); err != nil {
			return nil, errors.Wrapf(err, "counting %s", t.Name)
		}
		ret = append(ret, TableCount{Table: t.Name, Rows: n})
	}
	return ret, nil
}

// WriteCounts writes counts as an aligned two column table.
func WriteCounts(w io.Writer, counts []TableCount) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	for _, c := range counts {
		fmt.Fprintf(tw, "%s\t%s\t\n", c.Table, humanize.Comma(c.Rows))
	}
	return tw.Flush()
}

// Share is the number of orders with one value of a column.
type Share struct {
	Value  string  `db:"value"`
	Orders int64   `db:"orders"`
	Rate   float64 `db:"rate"`
}

// Ecommerce is the summary of an e-commerce load.
type Ecommerce struct {
	Orders         int64   `db:"orders"`
	Revenue        float64 `db:"revenue"`
	MeanOrderValue float64 `db:"mean_order_value"`
	Categories     int64   `db:"categories"`
	Customers      int64   `db:"customers"`
	CompletionRate float64 `db:"completion_rate"`

	ByStatus  []Share
	ByPayment []Share
}

const ecommerceQuery = `
SELECT
	(SELECT COUNT(*) FROM orders) AS orders,
	(SELECT COALESCE(SUM(grand_total), 0) FROM orders) AS revenue,
	(SELECT COALESCE(AVG(grand_total), 0) FROM orders) AS mean_order_value,
	(SELECT COUNT(DISTINCT category_id) FROM products) AS categories,
	(SELECT COUNT(DISTINCT customer_id) FROM orders) AS customers,
	(SELECT COALESCE(AVG(CASE WHEN status = 'complete' THEN 1.0 ELSE 0.0 END), 0) FROM orders) AS completion_rate`

// shareQuery counts orders by column, largest first. column is always one of
// our own identifiers.
func shareQuery(column string) string {
	return `SELECT COALESCE(` + column + `, '') AS value, COUNT(*) AS orders,
	COUNT(*) * 1.0 / (SELECT COUNT(*) FROM orders) AS rate
FROM orders GROUP BY ` + column + ` ORDER BY orders DESC, value`
}

// EcommerceSummary computes the order statistics of an e-commerce store.
func EcommerceSummary(ctx context.Context, db *sqlx.DB) (*Ecommerce, error) {
	s := &Ecommerce{}
	if err := db.GetContext(ctx, s, ecommerceQuery); err != nil {
		return nil, errors.Wrap(err, "summarizing orders")
	}
	if err := db.SelectContext(ctx, &s.ByStatus, shareQuery("status")); err != nil {
		return nil, errors.Wrap(err, "grouping by status")
	}
	if err := db.SelectContext(ctx, &s.ByPayment, shareQuery("payment_method")); err != nil {
		return nil, errors.Wrap(err, "grouping by payment method")
	}
	return s, nil
}

// WriteTo writes the summary as text.
func (s *Ecommerce) WriteTo(w io.Writer) (int64, error) {
	cw := &countWriter{w: w}
	tw := tabwriter.NewWriter(cw, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "orders\t%s\n", humanize.Comma(s.Orders))
	fmt.Fprintf(tw, "revenue\t%s\n", humanize.CommafWithDigits(s.Revenue, 2))
	fmt.Fprintf(tw, "mean order value\t%s\n", humanize.CommafWithDigits(s.MeanOrderValue, 2))
	fmt.Fprintf(tw, "categories\t%s\n", humanize.Comma(s.Categories))
	fmt.Fprintf(tw, "customers\t%s\n", humanize.Comma(s.Customers))
	fmt.Fprintf(tw, "completion rate\t%.1f%%\n", s.CompletionRate*100)
	writeShares(tw, "status", s.ByStatus)
	writeShares(tw, "payment method", s.ByPayment)
	err := tw.Flush()
	return cw.n, err
}

func writeShares(w io.Writer, title string, shares []Share) {
	if len(shares) == 0 {
		return
	}
	fmt.Fprintf(w, "\nby %s\n", title)
	for _, sh := range shares {
		v := sh.Value
		if v == "" {
			v = "(none)"
		}
		fmt.Fprintf(w, "  %s\t%s\t%.1f%%\n", v, humanize.Comma(sh.Orders), sh.Rate*100)
	}
}

type countWriter struct {
	w io.Writer
	n int64
}

func (c *countWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
