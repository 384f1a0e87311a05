package snapshot

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/erauner12/catalogview/internal/catalog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type fakeRow struct {
	data    []byte
	takenAt time.Time
	err     error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*[]byte) = r.data
	*dest[1].(*time.Time) = r.takenAt
	return nil
}

type fakeDB struct {
	execSQL  []string
	execArgs [][]any
	row      fakeRow
	execErr  error
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execSQL = append(f.execSQL, sql)
	f.execArgs = append(f.execArgs, args)
	return pgconn.CommandTag{}, f.execErr
}

func (f *fakeDB) QueryRow(context.Context, string, ...any) pgx.Row {
	return f.row
}

func TestStore_SaveEncodesJSON(t *testing.T) {
	fdb := &fakeDB{}
	store := NewStore(fdb)

	err := store.Save(context.Background(), []catalog.Product{{ID: 4, Title: "Lamp", Price: 12}})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if len(fdb.execArgs) != 1 {
		t.Fatalf("expected one Exec, got %d", len(fdb.execArgs))
	}
	payload, _ := fdb.execArgs[0][0].(string)
	if !strings.Contains(payload, `"title":"Lamp"`) {
		t.Errorf("unexpected payload %q", payload)
	}
	if fdb.execArgs[0][1] != 1 {
		t.Errorf("expected record count 1, got %v", fdb.execArgs[0][1])
	}
}

func TestStore_SaveError(t *testing.T) {
	store := NewStore(&fakeDB{execErr: errors.New("connection reset")})
	if err := store.Save(context.Background(), nil); err == nil || !strings.Contains(err.Error(), "save snapshot") {
		t.Errorf("expected wrapped save error, got %v", err)
	}
}

func TestStore_LoadMapsNoRows(t *testing.T) {
	store := NewStore(&fakeDB{row: fakeRow{err: pgx.ErrNoRows}})
	if _, err := store.Load(context.Background()); !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("expected ErrNoSnapshot, got %v", err)
	}
}

func TestStore_LoadDecodes(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	store := NewStore(&fakeDB{row: fakeRow{data: []byte(`[{"id":9,"title":"Mug","price":4.5,"images":[]}]`), takenAt: now}})

	snap, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(snap.Products) != 1 || snap.Products[0].Title != "Mug" || !snap.TakenAt.Equal(now) {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
}

func TestStore_LoadCorrupt(t *testing.T) {
	store := NewStore(&fakeDB{row: fakeRow{data: []byte(`{`)}})
	if _, err := store.Load(context.Background()); err == nil {
		t.Error("expected decode error")
	}
}
