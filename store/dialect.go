package store

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pilosa/relkit"
	"github.com/pkg/errors"
)

// ErrUnknownDialect is returned by Open for a DSN it can't map to a driver.
const ErrUnknownDialect = relkit.Error("unknown storage dialect")

// dialect holds what differs between the supported databases. syncKeys moves
// the key sequence of a table, given its quoted name, key column and the last
// key in use. It is empty if the database tracks explicitly inserted keys
// itself.
type dialect struct {
	name      string
	driver    string
	bind      int
	maxParams int
	autoKey   string
	syncKeys  string
	types     map[relkit.Type]string
}

// Dates and times are ISO 8601 text in SQLite. The driver would turn DATE
// columns into time.Time on the way out.
var sqlite = &dialect{
	name:      "sqlite",
	driver:    "sqlite",
	bind:      sqlx.QUESTION,
	maxParams: 32766,
	autoKey:   "INTEGER PRIMARY KEY AUTOINCREMENT",
	types: map[relkit.Type]string{
		relkit.Int:   "INTEGER",
		relkit.Float: "REAL",
		relkit.Text:  "TEXT",
		relkit.Bool:  "BOOLEAN",
		relkit.Date:  "TEXT",
		relkit.Time:  "TEXT",
	},
}

var postgres = &dialect{
	name:      "postgres",
	driver:    "pgx",
	bind:      sqlx.DOLLAR,
	maxParams: 65535,
	autoKey:   "BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY",
	syncKeys:  "SELECT setval(pg_get_serial_sequence($1, $2), $3)",
	types: map[relkit.Type]string{
		relkit.Int:   "BIGINT",
		relkit.Float: "DOUBLE PRECISION",
		relkit.Text:  "TEXT",
		relkit.Bool:  "BOOLEAN",
		relkit.Date:  "DATE",
		relkit.Time:  "TIME",
	},
}

// parseDSN picks a dialect for dsn and returns the data source name to hand
// to its driver.
//
//	sqlite://path/to.db, file:to.db, to.db, :memory:  -> SQLite
//	postgres://..., postgresql://...                   -> Postgres
func parseDSN(dsn string) (*dialect, string, error) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return postgres, dsn, nil
	case strings.HasPrefix(dsn, "sqlite://"):
		return sqlite, sqliteDSN(strings.TrimPrefix(dsn, "sqlite://")), nil
	case strings.HasPrefix(dsn, "file:"):
		return sqlite, sqliteDSN(strings.TrimPrefix(dsn, "file:")), nil
	case dsn == ":memory:":
		return sqlite, sqliteDSN(dsn), nil
	case dsn == "", strings.Contains(dsn, "://"):
		return nil, "", errors.Wrapf(ErrUnknownDialect, "%q", dsn)
	}
	return sqlite, sqliteDSN(dsn), nil
}

// sqliteDSN turns a path into a modernc.org/sqlite DSN with foreign keys
// enforced. Any query parameters on path are kept.
func sqliteDSN(path string) string {
	q := url.Values{}
	if i := strings.IndexByte(path, '?'); i >= 0 {
		q, _ = url.ParseQuery(path[i+1:])
		path = path[:i]
	}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "busy_timeout(5000)")
	return "file:" + path + "?" + q.Encode()
}

func quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

// createTable returns the CREATE TABLE statement for t.
func (d *dialect) createTable(t *relkit.Table) (string, error) {
	defs := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		if t.AutoKey && c.Name == t.Key {
			defs = append(defs, quote(c.Name)+" "+d.autoKey)
			continue
		}
		typ, ok := d.types[c.Type]
		if !ok {
			return "", errors.Errorf("%s.%s: no %s type for %v", t.Name, c.Name, d.name, c.Type)
		}
		def := quote(c.Name) + " " + typ
		if c.PrimaryKey || c.Name == t.Key {
			def += " PRIMARY KEY"
		}
		if c.NotNull {
			def += " NOT NULL"
		}
		if c.Unique {
			def += " UNIQUE"
		}
		if c.Default != "" {
			def += " DEFAULT " + c.Default
		}
		if c.References != "" {
			ref, err := references(c.References)
			if err != nil {
				return "", errors.Wrapf(err, "%s.%s", t.Name, c.Name)
			}
			def += " REFERENCES " + ref
		}
		defs = append(defs, def)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", quote(t.Name), strings.Join(defs, ",\n\t")), nil
}

// references quotes "table(column)".
func references(ref string) (string, error) {
	lp, rp := strings.IndexByte(ref, '('), strings.LastIndexByte(ref, ')')
	if lp <= 0 || rp != len(ref)-1 || rp-lp < 2 {
		return "", errors.Errorf("malformed reference %q", ref)
	}
	return quote(ref[:lp]) + "(" + quote(ref[lp+1:rp]) + ")", nil
}

func (d *dialect) dropTable(t *relkit.Table) string {
	return "DROP TABLE IF EXISTS " + quote(t.Name)
}

func columnList(cols []relkit.Column) string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = quote(c.Name)
	}
	return strings.Join(names, ", ")
}

func (d *dialect) maxKey(t *relkit.Table) string {
	return fmt.Sprintf("SELECT COALESCE(MAX(%s), 0) FROM %s", quote(t.Key), quote(t.Name))
}

// insertReturning builds a single row INSERT which returns t's key.
func (d *dialect) insertReturning(t *relkit.Table) string {
	cols := t.InsertColumns()
	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s RETURNING %s",
		quote(t.Name), columnList(cols), placeholders(len(cols)), quote(t.Key))
	return sqlx.Rebind(d.bind, q)
}

// insertBatch builds an INSERT of n rows.
func (d *dialect) insertBatch(t *relkit.Table, n int) string {
	cols := t.InsertColumns()
	row := placeholders(len(cols))
	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (%s) VALUES ", quote(t.Name), columnList(cols))
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(row)
	}
	return sqlx.Rebind(d.bind, b.String())
}

func placeholders(n int) string {
	return "(" + strings.TrimSuffix(strings.Repeat("?, ", n), ", ") + ")"
}
