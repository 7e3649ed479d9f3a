package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/lssb2003/university-forum/internal/authz"
	"github.com/lssb2003/university-forum/internal/errs"
	"github.com/lssb2003/university-forum/internal/middleware"
	"github.com/lssb2003/university-forum/internal/store"
)

type Threads struct {
	threadStore   *store.ThreadStore
	categoryStore *store.CategoryStore
	resolver      *authz.Resolver
}

func NewThreads(threadStore *store.ThreadStore, categoryStore *store.CategoryStore, resolver *authz.Resolver) *Threads {
	return &Threads{threadStore: threadStore, categoryStore: categoryStore, resolver: resolver}
}

type threadInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Index lists a category's threads, most recently active first.
func (t *Threads) Index(w http.ResponseWriter, r *http.Request) {
	categoryID, err := pathID(r, "categoryID")
	if err != nil {
		writeError(w, err)
		return
	}
	threads, err := t.threadStore.ListByCategory(categoryID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, threads)
}

func (t *Threads) Show(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "threadID")
	if err != nil {
		writeError(w, err)
		return
	}
	thread, err := t.threadStore.FindByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, thread)
}

func (t *Threads) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	if !authz.CanCreateContent(user) {
		writeError(w, errs.BannedErr())
		return
	}

	categoryID, err := pathID(r, "categoryID")
	if err != nil {
		writeError(w, err)
		return
	}
	var in threadInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}
	if msgs := validateThread(in.Title, in.Content); len(msgs) > 0 {
		writeError(w, errs.Validation(msgs...))
		return
	}

	thread, err := t.threadStore.Create(categoryID, user.ID, in.Title, in.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, thread)
}

func (t *Threads) Update(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())

	id, err := pathID(r, "threadID")
	if err != nil {
		writeError(w, err)
		return
	}
	thread, err := t.threadStore.FindByID(id)
	if err != nil {
		writeError(w, err)
		return
	}

	allowed, err := t.resolver.CanModifyThread(user, thread)
	if err != nil {
		writeError(w, err)
		return
	}
	if !allowed {
		writeError(w, errs.Unauthorized())
		return
	}

	var in threadInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}
	if msgs := validateThread(in.Title, in.Content); len(msgs) > 0 {
		writeError(w, errs.Validation(msgs...))
		return
	}

	updated, err := t.threadStore.Update(id, in.Title, in.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (t *Threads) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())

	id, err := pathID(r, "threadID")
	if err != nil {
		writeError(w, err)
		return
	}
	thread, err := t.threadStore.FindByID(id)
	if err != nil {
		writeError(w, err)
		return
	}

	allowed, err := t.resolver.CanModifyThread(user, thread)
	if err != nil {
		writeError(w, err)
		return
	}
	if !allowed {
		writeError(w, errs.Unauthorized())
		return
	}

	if err := t.threadStore.Delete(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "thread deleted"})
}

// Lock and Unlock are moderation actions; thread authorship grants no
// right here.
func (t *Threads) Lock(w http.ResponseWriter, r *http.Request) {
	t.setLocked(w, r, true)
}

func (t *Threads) Unlock(w http.ResponseWriter, r *http.Request) {
	t.setLocked(w, r, false)
}

func (t *Threads) setLocked(w http.ResponseWriter, r *http.Request, locked bool) {
	user := middleware.UserFromCtx(r.Context())

	id, err := pathID(r, "threadID")
	if err != nil {
		writeError(w, err)
		return
	}
	thread, err := t.threadStore.FindByID(id)
	if err != nil {
		writeError(w, err)
		return
	}

	allowed, err := t.resolver.CanLockOrMoveThread(user, thread)
	if err != nil {
		writeError(w, err)
		return
	}
	if !allowed {
		writeError(w, errs.Unauthorized())
		return
	}

	updated, err := t.threadStore.SetLocked(id, locked)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Move relocates a thread to another category. The actor must hold
// moderation rights over both the source and the destination.
func (t *Threads) Move(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())

	id, err := pathID(r, "threadID")
	if err != nil {
		writeError(w, err)
		return
	}
	var in struct {
		CategoryID uuid.UUID `json:"category_id"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	thread, err := t.threadStore.FindByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if _, err := t.categoryStore.FindByID(in.CategoryID); err != nil {
		writeError(w, err)
		return
	}

	fromOK, err := t.resolver.CanLockOrMoveThread(user, thread)
	if err != nil {
		writeError(w, err)
		return
	}
	toOK, err := t.resolver.CanModerate(user, in.CategoryID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !fromOK || !toOK {
		writeError(w, errs.Unauthorized())
		return
	}

	updated, err := t.threadStore.Move(id, in.CategoryID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
