package relkit_test

import (
	"testing"

	"github.com/pilosa/relkit"
)

func TestGraphWaves(t *testing.T) {
	g := relkit.NewGraph().
		Declare(relkit.Reference, groups).
		Declare(relkit.Fact, members).
		Declare(relkit.Fact, groups) // already declared

	refs := g.Waves(relkit.Reference)
	facts := g.Waves(relkit.Fact)
	if len(refs) != 1 || refs[0].Table != groups {
		t.Fatalf("unexpected reference waves: %v", refs)
	}
	if len(facts) != 1 || facts[0].Table != members {
		t.Fatalf("unexpected fact waves: %v", facts)
	}

	a := &group{name: "a"}
	g.Add(a, &member{id: "1", group: a}, &member{id: "2", group: a})
	if g.Len() != 3 {
		t.Fatalf("expected 3 rows, got %d", g.Len())
	}
	counts := g.Counts()
	if counts["groups"] != 1 || counts["members"] != 2 {
		t.Fatalf("unexpected counts: %v", counts)
	}
}

func TestGraphAddUndeclared(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	relkit.NewGraph().Declare(relkit.Fact, members).Add(&group{name: "x"})
}

func TestTableInsertColumns(t *testing.T) {
	cols := groups.InsertColumns()
	if len(cols) != 1 || cols[0].Name != "name" {
		t.Fatalf("auto key should not be inserted: %v", cols)
	}
	if len(members.InsertColumns()) != 3 {
		t.Fatalf("natural key should be inserted")
	}
	if err := groups.Validate(); err != nil {
		t.Fatalf("validating: %v", err)
	}
	bad := &relkit.Table{Name: "bad", Key: "id", Columns: []relkit.Column{{Name: "a"}, {Name: "a"}}}
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected duplicate column error")
	}
}

func TestPolicy(t *testing.T) {
	tests := []struct {
		in     string
		exp    relkit.RowFailurePolicy
		expErr bool
	}{
		{in: "abort", exp: relkit.Abort},
		{in: "Skip", exp: relkit.Skip},
		{in: " skip-row ", exp: relkit.Skip},
		{in: "retry", expErr: true},
	}
	for _, tst := range tests {
		p, err := relkit.ParsePolicy(tst.in)
		if tst.expErr {
			if err == nil {
				t.Fatalf("%q: expected error", tst.in)
			}
			continue
		}
		if err != nil || p != tst.exp {
			t.Fatalf("%q: got %v, %v", tst.in, p, err)
		}
		if p.String() != tst.exp.String() {
			t.Fatalf("%q: String mismatch", tst.in)
		}
	}
}
