package relkit_test

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pilosa/relkit"
)

// In-memory schema and storage used by the root package tests.

var (
	groups = &relkit.Table{
		Name:    "groups",
		Key:     "id",
		AutoKey: true,
		Columns: []relkit.Column{
			{Name: "id", Type: relkit.Int, PrimaryKey: true},
			{Name: "name", Type: relkit.Text, NotNull: true, Unique: true},
		},
	}
	members = &relkit.Table{
		Name: "members",
		Key:  "member_id",
		Columns: []relkit.Column{
			{Name: "member_id", Type: relkit.Text, PrimaryKey: true},
			{Name: "group_id", Type: relkit.Int, References: "groups(id)"},
			{Name: "score", Type: relkit.Float},
		},
	}
)

type group struct {
	id   int64
	name string
}

func (g *group) Table() *relkit.Table  { return groups }
func (g *group) Values() []interface{} { return []interface{}{g.name} }
func (g *group) ID() int64             { return g.id }
func (g *group) SetID(id int64)        { g.id = id }

type member struct {
	id      string
	group   *group
	groupID int64
	score   float64
}

func (m *member) Table() *relkit.Table { return members }
func (m *member) Values() []interface{} {
	return []interface{}{m.id, m.groupID, m.score}
}
func (m *member) BindKeys() (err error) {
	m.groupID, err = relkit.KeyOf(m.group)
	return err
}

type memberRecord struct {
	ID    string
	Group string
	Score string
}

// memberDomain turns memberRecords into groups and members.
type memberDomain struct {
	groups *relkit.Cache[string, *group]
	graph  *relkit.Graph
}

func newMemberDomain() *memberDomain {
	return &memberDomain{
		groups: relkit.NewCache[string, *group](),
		graph:  relkit.NewGraph().Declare(relkit.Reference, groups).Declare(relkit.Fact, members),
	}
}

func (d *memberDomain) Name() string            { return "members" }
func (d *memberDomain) Tables() []*relkit.Table { return []*relkit.Table{groups, members} }
func (d *memberDomain) NewRecord() interface{}  { return &memberRecord{} }
func (d *memberDomain) Graph() *relkit.Graph    { return d.graph }

func (d *memberDomain) Transform(line int, rec interface{}) error {
	r := rec.(*memberRecord)
	name, err := relkit.ParseString("group", r.Group)
	if err != nil {
		return err
	}
	score, err := relkit.ParseFloat("score", r.Score)
	if err != nil {
		return err
	}
	g, created := d.groups.Resolve(name, func() *group { return &group{name: name} })
	if created {
		d.graph.Add(g)
	}
	d.graph.Add(&member{id: r.ID, group: g, score: score})
	return nil
}

// sliceSource yields records from pipe separated lines: id|group|score.
type sliceSource struct {
	lines []string
	pos   int
}

func (s *sliceSource) Next(v interface{}) (int, error) {
	if s.pos >= len(s.lines) {
		return 0, io.EOF
	}
	f := strings.Split(s.lines[s.pos], "|")
	s.pos++
	r := v.(*memberRecord)
	r.ID, r.Group, r.Score = f[0], f[1], f[2]
	return s.pos + 1, nil
}

func (s *sliceSource) Close() error { return nil }
func (s *sliceSource) Blank() int   { return 0 }

// memTx records inserts. It fails the insert with number failAt (1 based)
// if failAt is set.
type memTx struct {
	storage   *memStorage
	nextID    int64
	rows      map[string][][]interface{}
	batches   map[string]int
	returning map[string]int
	inserts   int
	failAt    int
}

func newMemTx() *memTx {
	return &memTx{
		rows:      make(map[string][][]interface{}),
		batches:   make(map[string]int),
		returning: make(map[string]int),
	}
}

func (tx *memTx) tick() error {
	tx.inserts++
	if tx.failAt > 0 && tx.inserts == tx.failAt {
		return fmt.Errorf("insert %d failed", tx.inserts)
	}
	return nil
}

func (tx *memTx) CreateSchema(ctx context.Context, tables []*relkit.Table) error {
	if tx.storage != nil {
		tx.storage.creates++
	}
	return nil
}

func (tx *memTx) ResetSchema(ctx context.Context, tables []*relkit.Table) error {
	if tx.storage != nil {
		tx.storage.resets++
	}
	return nil
}

func (tx *memTx) InsertReturning(ctx context.Context, t *relkit.Table, values []interface{}) (int64, error) {
	if err := tx.tick(); err != nil {
		return 0, err
	}
	tx.nextID++
	tx.returning[t.Name]++
	tx.rows[t.Name] = append(tx.rows[t.Name], values)
	return tx.nextID, nil
}

func (tx *memTx) InsertBatch(ctx context.Context, t *relkit.Table, rows [][]interface{}) error {
	if err := tx.tick(); err != nil {
		return err
	}
	tx.batches[t.Name]++
	for _, r := range rows {
		cp := make([]interface{}, len(r))
		copy(cp, r)
		tx.rows[t.Name] = append(tx.rows[t.Name], cp)
	}
	return nil
}

// reservingTx is a memTx which hands out keys in blocks starting at base.
type reservingTx struct {
	*memTx
	base     int64
	reserved map[string]int
}

func newReservingTx(base int64) *reservingTx {
	return &reservingTx{memTx: newMemTx(), base: base, reserved: make(map[string]int)}
}

func (tx *reservingTx) ReserveKeys(ctx context.Context, t *relkit.Table, n int) (int64, error) {
	first := tx.base
	tx.base += int64(n)
	tx.reserved[t.Name] += n
	return first, nil
}

// memStorage commits a memTx only if the session function succeeds, which
// includes its schema changes.
type memStorage struct {
	committed map[string][][]interface{}
	resets    int
	creates   int
	failAt    int
}

func (s *memStorage) InSession(ctx context.Context, fn func(tx relkit.Tx) error) error {
	tx := newMemTx()
	tx.storage = s
	tx.failAt = s.failAt
	if err := fn(tx); err != nil {
		return err
	}
	s.committed = tx.rows
	return nil
}
