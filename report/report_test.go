package report_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/pilosa/relkit/ecommerce"
	"github.com/pilosa/relkit/mock"
	"github.com/pilosa/relkit/report"
	"github.com/pilosa/relkit/store"
	"github.com/pilosa/relkit/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = `item_id,status,created_at,sku,price,qty_ordered,grand_total,increment_id,category_name_1,sales_commission_code,discount_amount,payment_method,Working Date,BI Status, MV ,Year,Month,Customer Since,M-Y,FY,Customer ID`

func loadEcommerce(t *testing.T) (*store.Gateway, string) {
	t.Helper()
	m := ecommerce.NewMain()
	m.Path = test.WriteCSV(t, ecommerce.DefaultFile, header,
		`1,complete,7/1/2016,a,1000,1,1000,100,Mobiles,,0,cod,,Gross,,,,2016-7,,,C1`,
		`2,canceled,7/1/2016,b,500,1,500,101,Books,,0,cod,,Gross,,,,2016-7,,,C1`,
		`3,complete,7/2/2016,a,1000,2,2000,102,Mobiles,,0,Easypay,,Net,,,,2016-7,,,C2`,
		`4,complete,7/2/2016,c,1500,1,1500,103,Mobiles,,0,cod,,Net,,,,2016-7,,,C3`,
	)
	m.DSN = test.SQLitePath(t, "ecommerce.db")
	m.LogOut = &bytes.Buffer{}
	m.Stats = mock.NewRecordingStatter()
	_, err := m.RunContext(context.Background())
	require.NoError(t, err)

	gw, err := store.Open(context.Background(), m.DSN)
	require.NoError(t, err)
	t.Cleanup(func() { gw.Close() })
	return gw, m.DSN
}

func TestEcommerceSummary(t *testing.T) {
	gw, _ := loadEcommerce(t)
	s, err := report.EcommerceSummary(context.Background(), gw.DB())
	require.NoError(t, err)

	assert.EqualValues(t, 4, s.Orders)
	assert.InDelta(t, 5000, s.Revenue, 1e-9)
	assert.InDelta(t, 1250, s.MeanOrderValue, 1e-9)
	assert.EqualValues(t, 2, s.Categories)
	assert.EqualValues(t, 3, s.Customers)
	assert.InDelta(t, 0.75, s.CompletionRate, 1e-9)

	require.Len(t, s.ByStatus, 2)
	assert.Equal(t, "complete", s.ByStatus[0].Value)
	assert.EqualValues(t, 3, s.ByStatus[0].Orders)
	require.Len(t, s.ByPayment, 2)
	assert.Equal(t, "cod", s.ByPayment[0].Value)

	var buf bytes.Buffer
	n, err := s.WriteTo(&buf)
	require.NoError(t, err)
	assert.EqualValues(t, buf.Len(), n)
	assert.Contains(t, buf.String(), "5,000")
	assert.Contains(t, buf.String(), "75.0%")
	assert.Contains(t, buf.String(), "by payment method")
}

func TestCounts(t *testing.T) {
	gw, _ := loadEcommerce(t)
	counts, err := report.Counts(context.Background(), gw.DB(), ecommerce.Tables())
	require.NoError(t, err)
	assert.Equal(t, []report.TableCount{
		{Table: "customers", Rows: 3},
		{Table: "categories", Rows: 2},
		{Table: "products", Rows: 3},
		{Table: "orders", Rows: 4},
		{Table: "order_items", Rows: 4},
	}, counts)

	var buf bytes.Buffer
	require.NoError(t, report.WriteCounts(&buf, counts))
	assert.Contains(t, buf.String(), "order_items")
}

func TestSummaryOfEmptyStore(t *testing.T) {
	gw, err := store.Open(context.Background(), test.SQLitePath(t, "empty.db"))
	require.NoError(t, err)
	defer gw.Close()
	require.NoError(t, gw.CreateSchema(context.Background(), ecommerce.Tables()))

	s, err := report.EcommerceSummary(context.Background(), gw.DB())
	require.NoError(t, err)
	assert.EqualValues(t, 0, s.Orders)
	assert.Equal(t, 0.0, s.CompletionRate)
	assert.Empty(t, s.ByStatus)
}

func TestSummaryCommand(t *testing.T) {
	_, dsn := loadEcommerce(t)
	var buf bytes.Buffer
	m := report.NewMain()
	m.DSN = dsn
	m.Out = &buf
	require.NoError(t, m.Run())
	assert.Contains(t, buf.String(), "order_items")
	assert.Contains(t, buf.String(), "completion rate")

	m.Dataset = "weather"
	assert.Error(t, m.Run())
}
