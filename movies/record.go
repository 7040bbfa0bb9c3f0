package movies

import (
	"database/sql"

	"github.com/pilosa/relkit"
)

// Record is one row of netflix_processed.csv. The indicator columns are
// collected by UnmarshalCSVRow.
type Record struct {
	IMDbID        string `csv:"imdbId"`
	Title         string `csv:"title"`
	Type          string `csv:"type"`
	ReleaseYear   string `csv:"releaseYear"`
	AverageRating string `csv:"imdbAverageRating"`
	NumVotes      string `csv:"imdbNumVotes"`

	flags map[string]string
}

// Columns implements csv.Columner.
func (r *Record) Columns() []string { return Flags() }

// UnmarshalCSVRow implements csv.RowUnmarshaler.
func (r *Record) UnmarshalCSVRow(header, row []string) error {
	r.flags = make(map[string]string, len(Genres)+len(Countries))
	for i, h := range header {
		r.flags[h] = row[i]
	}
	return nil
}

type row struct {
	imdbID      string
	title       string
	kind        string
	releaseYear sql.NullInt64
	rating      sql.NullFloat64
	votes       sql.NullInt64
	flags       []sql.NullBool
}

func (r *Record) decode() (w row, err error) {
	if w.imdbID, err = relkit.ParseString("imdbId", r.IMDbID); err != nil {
		return w, err
	}
	if w.title, err = relkit.ParseString("title", r.Title); err != nil {
		return w, err
	}
	if w.kind, err = relkit.ParseString("type", r.Type); err != nil {
		return w, err
	}
	if w.releaseYear, err = relkit.NullInt("releaseYear", r.ReleaseYear); err != nil {
		return w, err
	}
	if w.rating, err = relkit.NullFloat("imdbAverageRating", r.AverageRating); err != nil {
		return w, err
	}
	if w.votes, err = relkit.NullInt("imdbNumVotes", r.NumVotes); err != nil {
		return w, err
	}
	flags := Flags()
	w.flags = make([]sql.NullBool, len(flags))
	for i, f := range flags {
		if w.flags[i], err = relkit.NullBool(f, r.flags[f]); err != nil {
			return w, err
		}
	}
	return w, nil
}
