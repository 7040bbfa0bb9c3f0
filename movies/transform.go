// Package movies normalizes the processed Netflix catalogue into title types
// and movies with genre and country indicators.
package movies

import (
	"github.com/pilosa/relkit"
)

// Name identifies the domain.
const Name = "movies"

// Domain implements relkit.Domain.
type Domain struct {
	types *relkit.Cache[string, *Type]
	graph *relkit.Graph
	log   relkit.Logger
}

// NewDomain returns a Domain whose type cache is empty.
func NewDomain(log relkit.Logger) *Domain {
	if log == nil {
		log = relkit.NopLogger{}
	}
	return &Domain{
		types: relkit.NewCache[string, *Type](),
		graph: relkit.NewGraph().
			Declare(relkit.Reference, Types).
			Declare(relkit.Fact, Movies),
		log: log,
	}
}

func (d *Domain) Name() string            { return Name }
func (d *Domain) Tables() []*relkit.Table { return Tables() }
func (d *Domain) NewRecord() interface{}  { return &Record{} }
func (d *Domain) Graph() *relkit.Graph    { return d.graph }

func (d *Domain) Transform(line int, rec interface{}) error {
	r, err := rec.(*Record).decode()
	if err != nil {
		return relkit.AtLine(line, err)
	}
	t, created := d.types.Resolve(r.kind, func() *Type {
		return &Type{Name: r.kind}
	})
	if created {
		d.log.Debugf("new type %q at line %d", r.kind, line)
		d.graph.Add(t)
	}
	d.graph.Add(&Movie{
		IMDbID:        r.imdbID,
		Title:         r.title,
		Type:          t,
		ReleaseYear:   r.releaseYear,
		AverageRating: r.rating,
		NumVotes:      r.votes,
		Flags:         r.flags,
	})
	return nil
}
