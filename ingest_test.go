package relkit_test

import (
	"context"
	"strings"
	"testing"

	"github.com/pilosa/relkit"
	"github.com/pilosa/relkit/mock"
)

func TestIngesterRun(t *testing.T) {
	storage := &memStorage{}
	stats := mock.NewRecordingStatter()
	n := relkit.NewIngester(storage, relkit.NewLoader())
	n.Stats = stats
	n.Reset = true

	src := &sliceSource{lines: []string{
		"m1|red|1.5",
		"m2|blue|2",
		"m3|red|3",
	}}
	rs, err := n.Run(context.Background(), src, newMemberDomain())
	if err != nil {
		t.Fatalf("running: %v", err)
	}
	if rs.Read != 3 || rs.Skipped != 0 {
		t.Fatalf("unexpected stats: %+v", rs)
	}
	if rs.Inserted["groups"] != 2 || rs.Inserted["members"] != 3 {
		t.Fatalf("unexpected inserted counts: %v", rs.Inserted)
	}
	if storage.resets != 1 || storage.creates != 0 {
		t.Fatalf("expected a reset, got %d resets %d creates", storage.resets, storage.creates)
	}
	if len(rs.RunID) != 36 {
		t.Fatalf("expected a uuid run id, got %q", rs.RunID)
	}
	// m1 and m3 share the same group
	ms := storage.committed["members"]
	if ms[0][1] != ms[2][1] || ms[0][1] == ms[1][1] {
		t.Fatalf("unexpected group keys: %v", ms)
	}
	if got := stats.Total("rows_read"); got != 3 {
		t.Fatalf("expected rows_read 3, got %d", got)
	}
}

func TestIngesterAbort(t *testing.T) {
	storage := &memStorage{}
	n := relkit.NewIngester(storage, relkit.NewLoader())
	src := &sliceSource{lines: []string{
		"m1|red|1.5",
		"m2||2",
		"m3|red|3",
	}}
	rs, err := n.Run(context.Background(), src, newMemberDomain())
	if err == nil {
		t.Fatalf("expected error")
	}
	re, ok := errCause(err).(*relkit.RowError)
	if !ok || re.Line != 3 || re.Column != "group" {
		t.Fatalf("expected row error at line 3 column group, got %#v", err)
	}
	if storage.committed != nil || storage.creates != 0 {
		t.Fatalf("storage touched by an aborted run")
	}
	if rs.Read != 2 {
		t.Fatalf("expected to stop after 2 rows, read %d", rs.Read)
	}
}

func TestIngesterSkip(t *testing.T) {
	storage := &memStorage{}
	log := mock.NewRecordingLogger()
	n := relkit.NewIngester(storage, relkit.NewLoader())
	n.Policy = relkit.Skip
	n.Log = log
	src := &sliceSource{lines: []string{
		"m1|red|1.5",
		"m2|blue|lots",
		"m3|red|3",
	}}
	rs, err := n.Run(context.Background(), src, newMemberDomain())
	if err != nil {
		t.Fatalf("running: %v", err)
	}
	if rs.Skipped != 1 || rs.Read != 3 {
		t.Fatalf("unexpected stats: %+v", rs)
	}
	// the bad row must not leave its group behind
	if rs.Inserted["groups"] != 1 || rs.Inserted["members"] != 2 {
		t.Fatalf("unexpected inserted counts: %v", rs.Inserted)
	}
	found := false
	for _, l := range log.Lines() {
		if strings.Contains(l, "skipping row") && strings.Contains(l, "line 3") {
			found = true
		}
	}
	if !found {
		t.Fatalf("skipped row not logged: %v", log.Lines())
	}
}

func TestIngesterStorageFailure(t *testing.T) {
	storage := &memStorage{failAt: 3}
	n := relkit.NewIngester(storage, relkit.NewLoader())
	src := &sliceSource{lines: []string{"m1|red|1", "m2|blue|2"}}
	rs, err := n.Run(context.Background(), src, newMemberDomain())
	if err == nil {
		t.Fatalf("expected storage error")
	}
	if storage.committed != nil {
		t.Fatalf("rows committed despite failure: %v", storage.committed)
	}
	if rs.Inserted != nil {
		t.Fatalf("inserted counts reported for a failed run")
	}
	if storage.creates != 1 {
		t.Fatalf("expected schema to be ensured once, got %d", storage.creates)
	}
}

func TestIngesterFailedResetKeepsStore(t *testing.T) {
	storage := &memStorage{}
	n := relkit.NewIngester(storage, relkit.NewLoader())
	n.Reset = true
	if _, err := n.Run(context.Background(), &sliceSource{lines: []string{"m1|red|1"}}, newMemberDomain()); err != nil {
		t.Fatalf("first run: %v", err)
	}
	before := storage.committed

	storage.failAt = 2
	_, err := n.Run(context.Background(), &sliceSource{lines: []string{"m2|blue|2", "m3|green|3"}}, newMemberDomain())
	if err == nil {
		t.Fatalf("expected storage error")
	}
	if storage.resets != 2 {
		t.Fatalf("expected the second run to reset inside its session, got %d resets", storage.resets)
	}
	if len(storage.committed["members"]) != 1 || storage.committed["members"][0][0] != before["members"][0][0] {
		t.Fatalf("failed run changed the store: %v", storage.committed)
	}
}

func errCause(err error) error {
	type causer interface{ Cause() error }
	for {
		if _, ok := err.(*relkit.RowError); ok {
			return err
		}
		c, ok := err.(causer)
		if !ok {
			return err
		}
		err = c.Cause()
	}
}
