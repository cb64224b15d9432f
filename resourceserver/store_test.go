package resourceserver

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
)

func TestCollection_InsertAssignsIDAndVersion(t *testing.T) {
	c := newCollection("customers", false)

	saved, err := c.Insert(Document{"Name": "Ada"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	id, ok := KeyOf(saved)
	if !ok || len(id) != 36 {
		t.Errorf("expected a uuid key, got %q", id)
	}
	if saved[FieldVersion] != int64(1) {
		t.Errorf("expected Version 1, got %v", saved[FieldVersion])
	}

	if _, err := c.Insert(Document{"ID": id}); err == nil {
		t.Error("expected duplicate insert to fail")
	}
}

func TestCollection_ListKeepsInsertionOrder(t *testing.T) {
	c := newCollection("customers", false)
	for _, id := range []float64{3, 1, 2} {
		if _, err := c.Insert(Document{"ID": id}); err != nil {
			t.Fatal(err)
		}
	}
	if err := c.Delete("1"); err != nil {
		t.Fatal(err)
	}

	list := c.List()
	if len(list) != 2 || list[0]["ID"] != float64(3) || list[1]["ID"] != float64(2) {
		t.Errorf("unexpected order %v", list)
	}
}

func TestCollection_Update(t *testing.T) {
	c := newCollection("customers", false)
	if _, err := c.Insert(Document{"ID": "a", "Name": "Ada"}); err != nil {
		t.Fatal(err)
	}

	saved, err := c.Update("a", Document{"Name": "Grace", "Version": float64(1)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved["Version"] != int64(2) || saved["ID"] != "a" || saved["Name"] != "Grace" {
		t.Errorf("unexpected document %v", saved)
	}

	tests := []struct {
		name   string
		id     string
		doc    Document
		status int
	}{
		{"stale version", "a", Document{"Version": float64(1)}, 409},
		{"missing", "b", Document{"Name": "x"}, 404},
		{"key mismatch", "a", Document{"ID": "z"}, 400},
		{"bad version", "a", Document{"Version": "two"}, 400},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.Update(tc.id, tc.doc)
			se, ok := err.(*storeError)
			if !ok || se.status != tc.status {
				t.Errorf("expected status %d, got %v", tc.status, err)
			}
		})
	}

	if _, err := c.Update("a", Document{"Name": "no version"}); err != nil {
		t.Errorf("update without Version should succeed, got %v", err)
	}
}

func TestCollection_ConcurrentUpdatesOfOneVersion(t *testing.T) {
	c := newCollection("customers", false)
	if _, err := c.Insert(Document{"ID": "a"}); err != nil {
		t.Fatal(err)
	}

	const writers = 32
	var won, conflicts atomic.Int32
	var wg sync.WaitGroup
	for i := range writers {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := c.Update("a", Document{"Name": fmt.Sprint(n), "Version": int64(1)})
			switch se, _ := err.(*storeError); {
			case err == nil:
				won.Add(1)
			case se != nil && se.status == 409:
				conflicts.Add(1)
			default:
				t.Errorf("unexpected error %v", err)
			}
		}(i)
		// Readers and unrelated writers run alongside.
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, _ = c.Get("a")
			_ = c.List()
			if _, err := c.Insert(Document{"ID": fmt.Sprintf("b%d", n)}); err != nil {
				t.Errorf("insert b%d: %v", n, err)
			}
		}(i)
	}
	wg.Wait()

	if won.Load() != 1 || conflicts.Load() != writers-1 {
		t.Errorf("won=%d conflicts=%d, want 1 and %d", won.Load(), conflicts.Load(), writers-1)
	}
	got, _ := c.Get("a")
	if got[FieldVersion] != int64(2) {
		t.Errorf("expected Version 2 after one accepted update, got %v", got[FieldVersion])
	}
	if c.Len() != writers+1 {
		t.Errorf("expected %d documents, got %d", writers+1, c.Len())
	}
}

func TestCollection_ReturnsCopies(t *testing.T) {
	c := newCollection("customers", false)
	saved, _ := c.Insert(Document{"ID": "a"})
	saved["Name"] = "mutated"

	got, _ := c.Get("a")
	if _, ok := got["Name"]; ok {
		t.Error("callers must not be able to mutate stored documents")
	}
}

func TestKeyOf(t *testing.T) {
	tests := []struct {
		doc  Document
		want string
		ok   bool
	}{
		{Document{"ID": "x"}, "x", true},
		{Document{"id": float64(7)}, "7", true},
		{Document{"ID": int64(9)}, "9", true},
		{Document{"ID": ""}, "", false},
		{Document{"Name": "n"}, "", false},
	}
	for _, tc := range tests {
		got, ok := KeyOf(tc.doc)
		if got != tc.want || ok != tc.ok {
			t.Errorf("KeyOf(%v) = %q, %v; want %q, %v", tc.doc, got, ok, tc.want, tc.ok)
		}
	}
}

func TestVersionOf(t *testing.T) {
	for _, v := range []any{3, int64(3), uint64(3), float64(3), "3"} {
		if n, ok := versionOf(v); !ok || n != 3 {
			t.Errorf("versionOf(%T) = %d, %v", v, n, ok)
		}
	}
	if _, ok := versionOf(1.5); ok {
		t.Error("fractional versions are invalid")
	}
}

func TestStore(t *testing.T) {
	s := NewStore("products")
	if !s.Collection("products").ReadOnly() || s.Collection("customers").ReadOnly() {
		t.Error("read-only flags not applied")
	}
	if s.Collection("customers") != s.Collection("customers") {
		t.Error("collections should be created once")
	}
	if err := s.Seed("products", Document{"ID": "p1"}, Document{"ID": "p2"}); err != nil {
		t.Fatal(err)
	}

	h := s.CheckHealth(context.Background())
	if h.Details["products"] != "2 (read-only)" || h.Details["customers"] != "0" {
		t.Errorf("unexpected health details %v", h.Details)
	}
}
