package store

import (
	"testing"

	"github.com/google/uuid"

	"github.com/lssb2003/university-forum/internal/errs"
	"github.com/lssb2003/university-forum/internal/models"
)

func TestThreadCreateRequiresCategory(t *testing.T) {
	db := testDB(t)
	s := NewThreadStore(db)

	author := newTestUser(t, db, models.RoleUser)
	if _, err := s.Create(uuid.New(), author.ID, "title", "content"); !errs.IsNotFound(err) {
		t.Errorf("missing category: expected not found, got %v", err)
	}
}

func TestThreadUpdateEditedMarker(t *testing.T) {
	db := testDB(t)
	s := NewThreadStore(db)

	author := newTestUser(t, db, models.RoleUser)
	category := newTestCategory(t, db, nil)
	thread := newTestThread(t, db, category.ID, author.ID)
	if thread.EditedAt != nil {
		t.Fatal("new thread must not carry an edited marker")
	}

	// Saving unchanged values is not an edit.
	same, err := s.Update(thread.ID, thread.Title, thread.Content)
	if err != nil {
		t.Fatalf("Update (no change): %v", err)
	}
	if same.EditedAt != nil {
		t.Error("identical values must not set the edited marker")
	}
	if !same.UpdatedAt.Equal(thread.UpdatedAt) {
		t.Error("editing must not move the activity timestamp")
	}

	changed, err := s.Update(thread.ID, "New title", thread.Content)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if changed.EditedAt == nil {
		t.Error("title change must set the edited marker")
	}
	if !changed.UpdatedAt.Equal(thread.UpdatedAt) {
		t.Error("editing must not move the activity timestamp")
	}
}

func TestThreadLockUnlock(t *testing.T) {
	db := testDB(t)
	s := NewThreadStore(db)

	author := newTestUser(t, db, models.RoleUser)
	category := newTestCategory(t, db, nil)
	thread := newTestThread(t, db, category.ID, author.ID)

	locked, err := s.SetLocked(thread.ID, true)
	if err != nil {
		t.Fatalf("SetLocked: %v", err)
	}
	if !locked.IsLocked {
		t.Error("expected locked thread")
	}
	if locked.EditedAt != nil {
		t.Error("locking is not a content edit")
	}

	unlocked, err := s.SetLocked(thread.ID, false)
	if err != nil {
		t.Fatalf("SetLocked: %v", err)
	}
	if unlocked.IsLocked {
		t.Error("expected unlocked thread")
	}

	if _, err := s.SetLocked(uuid.New(), true); !errs.IsNotFound(err) {
		t.Errorf("missing thread: expected not found, got %v", err)
	}
}

func TestThreadMove(t *testing.T) {
	db := testDB(t)
	s := NewThreadStore(db)

	author := newTestUser(t, db, models.RoleUser)
	from := newTestCategory(t, db, nil)
	to := newTestCategory(t, db, nil)
	thread := newTestThread(t, db, from.ID, author.ID)

	moved, err := s.Move(thread.ID, to.ID)
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if moved.CategoryID != to.ID {
		t.Errorf("category: got %s, want %s", moved.CategoryID, to.ID)
	}
	if moved.EditedAt != nil {
		t.Error("moving is not a content edit")
	}
}

func TestThreadDeleteCascadesPosts(t *testing.T) {
	db := testDB(t)
	threads := NewThreadStore(db)
	posts := NewPostStore(db)

	author := newTestUser(t, db, models.RoleUser)
	category := newTestCategory(t, db, nil)
	thread := newTestThread(t, db, category.ID, author.ID)
	post, err := posts.Create(thread.ID, author.ID, "going down with the ship", nil)
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	if err := threads.Delete(thread.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := posts.FindByID(post.ID); !errs.IsNotFound(err) {
		t.Errorf("post should cascade away, got %v", err)
	}
	if err := threads.Delete(thread.ID); !errs.IsNotFound(err) {
		t.Errorf("second delete: expected not found, got %v", err)
	}
}

func TestThreadListByCategoryActivityOrder(t *testing.T) {
	db := testDB(t)
	threads := NewThreadStore(db)
	posts := NewPostStore(db)

	author := newTestUser(t, db, models.RoleUser)
	category := newTestCategory(t, db, nil)
	older := newTestThread(t, db, category.ID, author.ID)
	newer := newTestThread(t, db, category.ID, author.ID)

	list, err := threads.ListByCategory(category.ID)
	if err != nil {
		t.Fatalf("ListByCategory: %v", err)
	}
	if len(list) != 2 || list[0].ID != newer.ID {
		t.Fatalf("expected newest-first listing, got %v", ids(list))
	}

	// Activity in the older thread pulls it to the top.
	if _, err := posts.Create(older.ID, author.ID, "bump", nil); err != nil {
		t.Fatalf("create post: %v", err)
	}
	list, err = threads.ListByCategory(category.ID)
	if err != nil {
		t.Fatalf("ListByCategory: %v", err)
	}
	if list[0].ID != older.ID {
		t.Errorf("expected replied-to thread first, got %v", ids(list))
	}
	if list[0].Author == nil || list[0].Author.Email == "" {
		t.Error("authors must be attached")
	}
}

func ids(threads []models.Thread) []uuid.UUID {
	out := make([]uuid.UUID, len(threads))
	for i, t := range threads {
		out[i] = t.ID
	}
	return out
}
