package supermarket

import (
	"database/sql"
	"time"

	"github.com/pilosa/relkit"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// Date layouts accepted in the source, tried in order.
var dateLayouts = []string{"1/2/2006", dateLayout}

// Record is one row of supermarket_sales.csv as it appears in the file.
type Record struct {
	InvoiceID   string `csv:"Invoice ID"`
	Branch      string `csv:"Branch"`
	City        string `csv:"City"`
	ProductLine string `csv:"Product line"`
	UnitPrice   string `csv:"Unit price"`
	Quantity    string `csv:"Quantity"`
	Tax         string `csv:"Tax 5%"`
	Total       string `csv:"Total"`
	Date        string `csv:"Date"`
	Time        string `csv:"Time"`
	Payment     string `csv:"Payment"`
	COGS        string `csv:"cogs"`
	GrossIncome string `csv:"gross income"`
	Rating      string `csv:"Rating"`
}

// row is a decoded Record.
type row struct {
	invoiceID   string
	branch      string
	city        string
	productLine string
	unitPrice   float64
	quantity    int64
	tax         sql.NullFloat64
	total       float64
	date        time.Time
	time        sql.NullString
	badTime     bool
	payment     sql.NullString
	cogs        sql.NullFloat64
	grossIncome sql.NullFloat64
	rating      sql.NullFloat64
}

func (r *Record) decode() (w row, err error) {
	if w.invoiceID, err = relkit.ParseString("Invoice ID", r.InvoiceID); err != nil {
		return w, err
	}
	if w.branch, err = relkit.ParseString("Branch", r.Branch); err != nil {
		return w, err
	}
	if w.city, err = relkit.ParseString("City", r.City); err != nil {
		return w, err
	}
	if w.productLine, err = relkit.ParseString("Product line", r.ProductLine); err != nil {
		return w, err
	}
	if w.unitPrice, err = relkit.ParseFloat("Unit price", r.UnitPrice); err != nil {
		return w, err
	}
	if w.quantity, err = relkit.ParseInt("Quantity", r.Quantity); err != nil {
		return w, err
	}
	if w.total, err = relkit.ParseFloat("Total", r.Total); err != nil {
		return w, err
	}
	if w.date, err = relkit.ParseTime("Date", r.Date, dateLayouts...); err != nil {
		return w, err
	}
	if w.tax, err = relkit.NullFloat("Tax 5%", r.Tax); err != nil {
		return w, err
	}
	if w.cogs, err = relkit.NullFloat("cogs", r.COGS); err != nil {
		return w, err
	}
	if w.grossIncome, err = relkit.NullFloat("gross income", r.GrossIncome); err != nil {
		return w, err
	}
	if w.rating, err = relkit.NullFloat("Rating", r.Rating); err != nil {
		return w, err
	}
	w.payment = relkit.NullString(r.Payment)

	// a time which doesn't parse is stored as NULL
	if t, terr := relkit.ParseTime("Time", r.Time, timeLayout); terr == nil {
		w.time = sql.NullString{String: t.Format(timeLayout), Valid: true}
	} else {
		w.badTime = true
	}
	return w, nil
}
