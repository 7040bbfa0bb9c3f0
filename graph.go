package relkit

// Kind says which side of the surrogate key boundary a Wave belongs to.
type Kind int

const (
	// Reference waves hold entities which are looked up by natural key and
	// referenced by facts. They are all written before any fact.
	Reference Kind = iota
	// Fact waves hold one or more entities per source row.
	Fact
)

// Wave is an ordered set of rows for one table.
type Wave struct {
	Kind  Kind
	Table *Table
	Rows  []Row
}

// Graph is the output of a transform: waves in the order they must be
// written. References come before the facts pointing at them, and within each
// kind waves are ordered parent first.
type Graph struct {
	waves []*Wave
	index map[*Table]*Wave
}

// NewGraph creates an empty Graph.
func NewGraph() *Graph {
	return &Graph{
		index: make(map[*Table]*Wave),
	}
}

// Declare adds an empty wave of the given kind for each table, in order.
// Declaring a table twice is a no-op.
func (g *Graph) Declare(kind Kind, tables ...*Table) *Graph {
	for _, t := range tables {
		if _, ok := g.index[t]; ok {
			continue
		}
		w := &Wave{Kind: kind, Table: t}
		g.waves = append(g.waves, w)
		g.index[t] = w
	}
	return g
}

// Add appends rows to the waves of their tables. It panics if a row's table
// wasn't declared, which is a programming error in the domain.
func (g *Graph) Add(rows ...Row) {
	for _, r := range rows {
		w, ok := g.index[r.Table()]
		if !ok {
			panic("relkit: row for undeclared table " + r.Table().Name)
		}
		w.Rows = append(w.Rows, r)
	}
}

// Waves returns every wave of the given kind in write order.
func (g *Graph) Waves(kind Kind) []*Wave {
	ret := make([]*Wave, 0, len(g.waves))
	for _, w := range g.waves {
		if w.Kind == kind {
			ret = append(ret, w)
		}
	}
	return ret
}

// Len returns the number of rows in the graph.
func (g *Graph) Len() int {
	n := 0
	for _, w := range g.waves {
		n += len(w.Rows)
	}
	return n
}

// Counts returns the number of rows queued per table.
func (g *Graph) Counts() map[string]int {
	ret := make(map[string]int, len(g.waves))
	for _, w := range g.waves {
		ret[w.Table.Name] += len(w.Rows)
	}
	return ret
}
