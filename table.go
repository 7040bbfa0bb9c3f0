package relkit

import (
	"github.com/pkg/errors"
)

// Type is the logical type of a column. Each storage dialect maps it onto a
// concrete SQL type.
type Type int

// Logical column types.
const (
	Int Type = iota
	Float
	Text
	Bool
	Date
	Time
)

func (t Type) String() string {
	switch t {
	case Int:
		return "int"
	case Float:
		return "float"
	case Text:
		return "text"
	case Bool:
		return "bool"
	case Date:
		return "date"
	case Time:
		return "time"
	}
	return "unknown"
}

// Column describes a single column of a Table.
type Column struct {
	Name       string
	Type       Type
	PrimaryKey bool
	NotNull    bool
	Unique     bool
	// References is "table(column)" for foreign key columns.
	References string
	// Default is a literal SQL default, e.g. "0".
	Default string
}

// Table describes a relational table. Key names the primary key column. If
// AutoKey is set, the key is a surrogate assigned by storage at insert time
// and is not part of the inserted values.
type Table struct {
	Name    string
	Key     string
	AutoKey bool
	Columns []Column
}

// InsertColumns returns the columns which are supplied on insert, in
// declaration order. Row.Values must follow the same order.
func (t *Table) InsertColumns() []Column {
	cols := make([]Column, 0, len(t.Columns))
	for _, c := range t.Columns {
		if t.AutoKey && c.Name == t.Key {
			continue
		}
		cols = append(cols, c)
	}
	return cols
}

// WithKey returns a copy of t whose key column is supplied on insert like any
// other column, for inserting rows whose keys were reserved up front.
func (t *Table) WithKey() *Table {
	c := *t
	c.AutoKey = false
	return &c
}

// keyIndex returns the position of the key among t's columns, or -1.
func (t *Table) keyIndex() int {
	for i, c := range t.Columns {
		if c.Name == t.Key {
			return i
		}
	}
	return -1
}

// Column returns the named column.
func (t *Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Validate checks that the table is internally consistent.
func (t *Table) Validate() error {
	if t.Name == "" {
		return errors.New("table has no name")
	}
	if len(t.Columns) == 0 {
		return errors.Errorf("table %s has no columns", t.Name)
	}
	seen := make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		if c.Name == "" {
			return errors.Errorf("table %s: column %d has no name", t.Name, i)
		}
		if pos, ok := seen[c.Name]; ok {
			return errors.Errorf("table %s: %s appeared at both %d and %d", t.Name, c.Name, pos, i)
		}
		seen[c.Name] = i
	}
	if t.Key != "" {
		if _, ok := seen[t.Key]; !ok {
			return errors.Errorf("table %s: key column %s not declared", t.Name, t.Key)
		}
	} else if t.AutoKey {
		return errors.Errorf("table %s: AutoKey set without a Key column", t.Name)
	}
	return nil
}

// Row is a single entity bound for a Table.
type Row interface {
	Table() *Table
	// Values returns the value of each of Table().InsertColumns(), in order.
	Values() []interface{}
}

// Keyed is implemented by rows of AutoKey tables. SetID is called with the
// surrogate key once the row is inserted.
type Keyed interface {
	Row
	ID() int64
	SetID(id int64)
}

// Binder is implemented by rows which refer to other entities by handle. BindKeys
// copies the referenced entities' keys into the row's foreign key fields and
// must fail with ErrKeyNotAssigned if a referenced entity has not been
// inserted yet.
type Binder interface {
	BindKeys() error
}

// KeyOf returns the surrogate key of k, or ErrKeyNotAssigned if k has not
// been inserted.
func KeyOf(k Keyed) (int64, error) {
	if k == nil {
		return 0, errors.Wrap(ErrKeyNotAssigned, "nil reference")
	}
	if k.ID() == 0 {
		return 0, errors.Wrapf(ErrKeyNotAssigned, "%s row", k.Table().Name)
	}
	return k.ID(), nil
}
