package knowledge

import (
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"pm-assistant/internal/confluence"
)

func init() {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func record(id, title, content string) confluence.PageRecord {
	return confluence.PageRecord{
		ID:      id,
		Title:   title,
		Content: content,
		URL:     "https://wiki.example.com/pages/viewpage.action?pageId=" + id,
	}
}

func TestStore_PutGet(t *testing.T) {
	store := NewStore()
	rec := record("1", "Onboarding", "Welcome aboard")
	rec.Ancestors = []confluence.Ancestor{{ID: "0", Title: "Home"}}

	store.Put(rec)

	got, ok := store.Get("1")
	if !ok {
		t.Fatal("Get() ok = false, want true")
	}
	if diff := cmp.Diff(rec, got); diff != "" {
		t.Errorf("Get() mismatch (-want +got):\n%s", diff)
	}

	if _, ok := store.Get("missing"); ok {
		t.Error("Get(missing) ok = true, want false")
	}
}

func TestStore_PutOverwrites(t *testing.T) {
	store := NewStore()
	store.Put(record("1", "Old", "old"))
	store.Put(record("1", "New", "new"))

	if store.Size() != 1 {
		t.Errorf("Size() = %d, want 1", store.Size())
	}
	got, _ := store.Get("1")
	if got.Title != "New" {
		t.Errorf("Title = %q, want New", got.Title)
	}
}

func TestStore_Clear(t *testing.T) {
	store := NewStore()
	store.Put(record("1", "Root", ""))
	store.Put(record("2", "Child", ""))
	store.LinkChild("1", "2")

	store.Clear()

	if store.Size() != 0 {
		t.Errorf("Size() after Clear = %d, want 0", store.Size())
	}
	if got := store.Descendants("1"); len(got) != 0 {
		t.Errorf("Descendants() after Clear = %v, want empty", got)
	}
	if got := store.All(); len(got) != 0 {
		t.Errorf("All() after Clear returned %d records", len(got))
	}
}

func TestStore_LinkChildIsSet(t *testing.T) {
	store := NewStore()
	store.LinkChild("root", "a")
	store.LinkChild("root", "b")
	store.LinkChild("root", "a")

	want := []string{"a", "b"}
	if diff := cmp.Diff(want, store.Descendants("root")); diff != "" {
		t.Errorf("Descendants() mismatch (-want +got):\n%s", diff)
	}
	if got := store.Descendants("unknown"); len(got) != 0 {
		t.Errorf("Descendants(unknown) = %v, want empty", got)
	}
}

func TestStore_Replace(t *testing.T) {
	live := NewStore()
	live.Put(record("old", "Old page", ""))
	live.LinkChild("old", "gone")

	staging := NewStore()
	staging.Put(record("new", "New page", ""))
	staging.Put(record("child", "Child page", ""))
	staging.LinkChild("new", "child")

	live.Replace(staging)

	if live.Size() != 2 {
		t.Errorf("Size() = %d, want 2", live.Size())
	}
	if _, ok := live.Get("old"); ok {
		t.Error("old page still present after Replace")
	}
	if got := live.Descendants("old"); len(got) != 0 {
		t.Errorf("old hierarchy still present: %v", got)
	}
	if diff := cmp.Diff([]string{"child"}, live.Descendants("new")); diff != "" {
		t.Errorf("Descendants(new) mismatch (-want +got):\n%s", diff)
	}
	if staging.Size() != 0 {
		t.Errorf("staging Size() = %d, want 0", staging.Size())
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	store := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			id := string(rune('a' + i))
			store.Put(record(id, "Page "+id, "content"))
			store.LinkChild("root", id)
		}(i)
		go func() {
			defer wg.Done()
			_ = store.All()
			_ = Search(store, "page content", "")
		}()
	}
	wg.Wait()

	if store.Size() != 8 {
		t.Errorf("Size() = %d, want 8", store.Size())
	}
	if got := len(store.Descendants("root")); got != 8 {
		t.Errorf("len(Descendants) = %d, want 8", got)
	}
}
