package credentials

import (
	"errors"
	"path/filepath"
	"testing"
)

func openTemp(t *testing.T) (*BoltStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "credentials.db")
	store, err := OpenBolt(path)
	if err != nil {
		t.Fatalf("OpenBolt returned error: %v", err)
	}
	return store, path
}

func TestBoltStoreRoundTrip(t *testing.T) {
	store, _ := openTemp(t)
	defer func() { _ = store.Close() }()

	if got, err := store.GetItem("library_token"); err != nil || got != "" {
		t.Fatalf("GetItem(missing) = %q, %v; want empty, nil", got, err)
	}
	if err := store.SetItem("library_token", "abc"); err != nil {
		t.Fatalf("SetItem returned error: %v", err)
	}
	if got, _ := store.GetItem("library_token"); got != "abc" {
		t.Fatalf("GetItem = %q, want abc", got)
	}
	if err := store.RemoveItem("library_token"); err != nil {
		t.Fatalf("RemoveItem returned error: %v", err)
	}
	if got, _ := store.GetItem("library_token"); got != "" {
		t.Fatalf("GetItem after remove = %q, want empty", got)
	}
	if err := store.RemoveItem("never-set"); err != nil {
		t.Fatalf("RemoveItem(missing) returned error: %v", err)
	}
}

func TestBoltStorePersistsAcrossReopen(t *testing.T) {
	store, path := openTemp(t)
	if err := store.SetItem("library_user", `{"id":1}`); err != nil {
		t.Fatalf("SetItem returned error: %v", err)
	}
	if store.Path() != path {
		t.Fatalf("Path = %q, want %q", store.Path(), path)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	reopened, err := OpenBolt(path)
	if err != nil {
		t.Fatalf("reopen returned error: %v", err)
	}
	defer func() { _ = reopened.Close() }()
	if got, _ := reopened.GetItem("library_user"); got != `{"id":1}` {
		t.Fatalf("GetItem after reopen = %q", got)
	}
}

func TestBoltStoreClosed(t *testing.T) {
	store, _ := openTemp(t)
	if err := store.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("second Close returned error: %v", err)
	}
	if _, err := store.GetItem("k"); !errors.Is(err, ErrClosed) {
		t.Fatalf("GetItem after close = %v, want ErrClosed", err)
	}
	if err := store.SetItem("k", "v"); !errors.Is(err, ErrClosed) {
		t.Fatalf("SetItem after close = %v, want ErrClosed", err)
	}
}

func TestOpenBoltEmptyPath(t *testing.T) {
	if _, err := OpenBolt(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

type failingStore struct {
	*Memory
	failSet string
}

func (f failingStore) SetItem(key, value string) error {
	if key == f.failSet {
		return errors.New("disk full")
	}
	return f.Memory.SetItem(key, value)
}

func TestSlotsSaveLoadClear(t *testing.T) {
	slots := Slots{TokenKey: "tk", UserInfoKey: "ui"}
	store := NewMemory()

	if err := slots.Save(store, "jwt", `{"username":"amy"}`); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	token, user, err := slots.Load(store)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if token != "jwt" || user != `{"username":"amy"}` {
		t.Fatalf("Load = %q, %q", token, user)
	}

	if err := slots.Clear(store); err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}
	token, user, _ = slots.Load(store)
	if token != "" || user != "" {
		t.Fatalf("Load after Clear = %q, %q; want empty", token, user)
	}
}

func TestSlotsSaveRollsBackToken(t *testing.T) {
	slots := Slots{TokenKey: "tk", UserInfoKey: "ui"}
	store := failingStore{Memory: NewMemory(), failSet: "ui"}

	if err := slots.Save(store, "jwt", "{}"); err == nil {
		t.Fatalf("expected error from Save")
	}
	if got, _ := store.GetItem("tk"); got != "" {
		t.Fatalf("token slot = %q after failed save, want empty", got)
	}
}
