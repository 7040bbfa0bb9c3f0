package userbehavior_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/pilosa/relkit"
	"github.com/pilosa/relkit/mock"
	"github.com/pilosa/relkit/store"
	"github.com/pilosa/relkit/test"
	"github.com/pilosa/relkit/userbehavior"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "User ID,Device Model,Operating System,App Usage Time (min/day),Screen On Time (hours/day),Battery Drain (mAh/day),Number of Apps Installed,Data Usage (MB/day),Age,Gender,User Behavior Class"

var rows = []string{
	"1,Google Pixel 5,Android,393,6.4,1872,67,1122,40,Male,4",
	"2,OnePlus 9,Android,268,4.7,1331,42,944,47,Female,3",
	"3,Xiaomi Mi 11,Android,154,4.0,761,32,322,42,Male,2",
	"4,Google Pixel 5,Android,239,4.8,1676,56,871,20,Male,3",
	"5,iPhone 12,iOS,187,4.3,1367,58,988,31,Female,3",
}

func run(t *testing.T, dsn string, lines ...string) (*relkit.RunStats, error) {
	t.Helper()
	m := userbehavior.NewMain()
	m.Path = test.WriteCSV(t, userbehavior.DefaultFile, append([]string{header}, lines...)...)
	m.DSN = dsn
	m.LogOut = &bytes.Buffer{}
	m.Stats = mock.NewRecordingStatter()
	m.BatchSize = 2
	return m.RunContext(context.Background())
}

func open(t *testing.T, dsn string) *store.Gateway {
	t.Helper()
	gw, err := store.Open(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { gw.Close() })
	return gw
}

func TestLoad(t *testing.T) {
	dsn := test.SQLitePath(t, "user_behavior.db")
	rs, err := run(t, dsn, rows...)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"devices": 4, "os": 2, "users": 5, "user_behaviors": 5}, rs.Inserted)

	gw := open(t, dsn)
	type behavior struct {
		UserID int64   `db:"user_id"`
		Model  string  `db:"device_model"`
		OS     string  `db:"operating_system"`
		Usage  float64 `db:"app_usage_time"`
		Apps   int64   `db:"num_apps_installed"`
		Class  int64   `db:"behavior_class"`
		Age    int64   `db:"age"`
		Gender string  `db:"gender"`
	}
	var got []behavior
	require.NoError(t, gw.DB().Select(&got, `
		SELECT b.user_id, d.device_model, o.operating_system, b.app_usage_time,
			b.num_apps_installed, b.behavior_class, u.age, u.gender
		FROM user_behaviors b
		JOIN users u ON u.user_id = b.user_id
		JOIN devices d ON d.device_id = b.device_id
		JOIN os o ON o.os_id = b.os_id
		ORDER BY b.user_id`))
	require.Len(t, got, 5)
	assert.Equal(t, behavior{1, "Google Pixel 5", "Android", 393, 67, 4, 40, "Male"}, got[0])
	assert.Equal(t, behavior{5, "iPhone 12", "iOS", 187, 58, 3, 31, "Female"}, got[4])

	var devices []int64
	require.NoError(t, gw.DB().Select(&devices, "SELECT device_id FROM user_behaviors WHERE user_id IN (1, 4)"))
	require.Len(t, devices, 2)
	assert.Equal(t, devices[0], devices[1])
}

func TestMalformedFieldAbortsRun(t *testing.T) {
	dsn := test.SQLitePath(t, "user_behavior.db")
	bad := "6,iPhone 12,iOS,lots,4.3,1367,58,988,31,Female,3"
	_, err := run(t, dsn, append(rows, bad)...)
	var re *relkit.RowError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, 7, re.Line)
	assert.Equal(t, "App Usage Time (min/day)", re.Column)
}

func TestDuplicateUserRollsBack(t *testing.T) {
	dsn := test.SQLitePath(t, "user_behavior.db")
	_, err := run(t, dsn, append(rows, "3,iPhone 12,iOS,100,4.3,1367,58,988,31,Female,3")...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading users")

	gw := open(t, dsn)
	var n int
	require.NoError(t, gw.DB().Get(&n, "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table'"))
	assert.Equal(t, 0, n, "schema creation rolls back with the rows")
}
