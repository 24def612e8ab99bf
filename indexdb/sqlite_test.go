package indexdb

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/beka-birhanu/vinom-arena-server/service/i"
)

func TestSQLiteIndex_StartAndEnd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index", "matches.sqlite")
	var writeErrs []error
	idx, err := OpenSQLite(path, func(err error) { writeErrs = append(writeErrs, err) })
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	started := time.UnixMilli(1_700_000_000_000)
	idx.RecordStart(i.MatchRecord{
		ID:                  "a1",
		Seed:                42,
		Strategy:            "spider_bomb",
		Width:               15,
		Height:              13,
		BrickDensityPercent: 40,
		Players:             2,
		StartedAt:           started,
	})
	idx.RecordEnd("a1", started.Add(90*time.Second), 1800, 512)
	if err := idx.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if len(writeErrs) != 0 {
		t.Fatalf("writer errors: %v", writeErrs)
	}

	idx, err = OpenSQLite(path, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer idx.Close()

	row, err := idx.Match(context.Background(), "a1")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if row.Seed != 42 || row.Strategy != "spider_bomb" || row.Width != 15 || row.Players != 2 {
		t.Fatalf("row: %+v", row)
	}
	if !row.StartedAt.Equal(started) || !row.EndedAt.Equal(started.Add(90*time.Second)) {
		t.Fatalf("times: %v %v", row.StartedAt, row.EndedAt)
	}
	if row.Ticks != 1800 || row.Events != 512 {
		t.Fatalf("counters: %+v", row)
	}

	if _, err := idx.Match(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteIndex_WritesAfterCloseAreIgnored(t *testing.T) {
	idx, err := OpenSQLite(filepath.Join(t.TempDir(), "m.sqlite"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := idx.Close(); err != nil {
		t.Fatal(err)
	}
	idx.RecordStart(i.MatchRecord{ID: "late"})
	if err := idx.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}
