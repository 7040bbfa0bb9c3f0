package movies

import (
	"database/sql"

	"github.com/pilosa/relkit"
)

// Tables of the movies schema.
var (
	Types = &relkit.Table{
		Name:    "types",
		Key:     "id",
		AutoKey: true,
		Columns: []relkit.Column{
			{Name: "id", Type: relkit.Int, PrimaryKey: true},
			{Name: "type", Type: relkit.Text, NotNull: true, Unique: true},
		},
	}
	Movies = &relkit.Table{
		Name: "movies",
		Key:  "imdb_id",
		Columns: append([]relkit.Column{
			{Name: "imdb_id", Type: relkit.Text, PrimaryKey: true},
			{Name: "title", Type: relkit.Text, NotNull: true},
			{Name: "type_id", Type: relkit.Int, References: "types(id)"},
			{Name: "release_year", Type: relkit.Int},
			{Name: "imdb_average_rating", Type: relkit.Float},
			{Name: "imdb_num_votes", Type: relkit.Int},
		}, flagColumns()...),
	}
)

// Tables returns the schema in dependency order.
func Tables() []*relkit.Table {
	return []*relkit.Table{Types, Movies}
}

// Type is "movie" or "tv".
type Type struct {
	id   int64
	Name string
}

func (t *Type) Table() *relkit.Table  { return Types }
func (t *Type) Values() []interface{} { return []interface{}{t.Name} }
func (t *Type) ID() int64             { return t.id }
func (t *Type) SetID(id int64)        { t.id = id }

// Movie is one title. Flags holds one indicator per Flags() column, in
// order. A missing indicator is stored as NULL.
type Movie struct {
	typeID int64

	IMDbID        string
	Title         string
	Type          *Type
	ReleaseYear   sql.NullInt64
	AverageRating sql.NullFloat64
	NumVotes      sql.NullInt64
	Flags         []sql.NullBool
}

func (m *Movie) Table() *relkit.Table { return Movies }

func (m *Movie) Values() []interface{} {
	vals := make([]interface{}, 0, 6+len(m.Flags))
	vals = append(vals, m.IMDbID, m.Title, m.typeID, m.ReleaseYear, m.AverageRating, m.NumVotes)
	for _, f := range m.Flags {
		vals = append(vals, f)
	}
	return vals
}

func (m *Movie) BindKeys() (err error) {
	m.typeID, err = relkit.KeyOf(m.Type)
	return err
}
