package localstate

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()
	redis := miniredis.RunT(t)
	file, err := NewFileStore(filepath.Join(t.TempDir(), "state.json"))
	if err != nil {
		t.Fatalf("file store: %v", err)
	}
	sqlite, err := NewSQLiteStore(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("sqlite store: %v", err)
	}
	return map[string]Store{
		"memory": NewMemoryStore(),
		"file":   file,
		"sqlite": sqlite,
		"redis":  NewRedisStore(redis.Addr(), ""),
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			defer store.Close()

			if _, ok, err := store.Get(ctx, "missing"); err != nil || ok {
				t.Fatalf("missing key: ok=%v err=%v", ok, err)
			}
			if err := store.Set(ctx, KeyAuthToken, "tok-1"); err != nil {
				t.Fatalf("set: %v", err)
			}
			if err := store.Set(ctx, KeyAuthToken, "tok-2"); err != nil {
				t.Fatalf("overwrite: %v", err)
			}
			v, ok, err := store.Get(ctx, KeyAuthToken)
			if err != nil || !ok || v != "tok-2" {
				t.Fatalf("get after overwrite: %q ok=%v err=%v", v, ok, err)
			}
			if err := store.Delete(ctx, KeyAuthToken); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if _, ok, _ := store.Get(ctx, KeyAuthToken); ok {
				t.Fatal("key survived delete")
			}
			// Deleting an absent key is not an error.
			if err := store.Delete(ctx, KeyAuthToken); err != nil {
				t.Fatalf("delete absent: %v", err)
			}
		})
	}
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.json")
	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := store.Set(ctx, ChapterViewsKey("s1", 3), "7"); err != nil {
		t.Fatalf("set: %v", err)
	}

	reopened, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	v, ok, err := reopened.Get(ctx, ChapterViewsKey("s1", 3))
	if err != nil || !ok || v != "7" {
		t.Fatalf("reopened get: %q ok=%v err=%v", v, ok, err)
	}
}

func TestFileStoreDiscardsCorruptState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{broken"), 0o600); err != nil {
		t.Fatalf("write corrupt state: %v", err)
	}
	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("open corrupt: %v", err)
	}
	if _, ok, _ := store.Get(context.Background(), KeyAuthToken); ok {
		t.Fatal("corrupt state should read as empty")
	}
}

func TestOpenRejectsUnknownBackend(t *testing.T) {
	if _, err := Open(Config{Backend: "bolt"}); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestKeyFormats(t *testing.T) {
	if got := ChapterViewsKey("abc", 4); got != "chapter_abc_4_views" {
		t.Fatalf("views key = %q", got)
	}
	if got := StoryRatingKey("abc"); got != "rating_story_abc" {
		t.Fatalf("story rating key = %q", got)
	}
	if got := ChapterRatingKey("abc", 2); got != "rating_chapter_abc_2" {
		t.Fatalf("chapter rating key = %q", got)
	}
}
