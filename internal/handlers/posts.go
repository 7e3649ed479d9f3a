package handlers

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/lssb2003/university-forum/internal/authz"
	"github.com/lssb2003/university-forum/internal/errs"
	"github.com/lssb2003/university-forum/internal/middleware"
	"github.com/lssb2003/university-forum/internal/models"
	"github.com/lssb2003/university-forum/internal/posttree"
	"github.com/lssb2003/university-forum/internal/store"
)

type Posts struct {
	postStore   *store.PostStore
	threadStore *store.ThreadStore
	resolver    *authz.Resolver
}

func NewPosts(postStore *store.PostStore, threadStore *store.ThreadStore, resolver *authz.Resolver) *Posts {
	return &Posts{postStore: postStore, threadStore: threadStore, resolver: resolver}
}

type postInput struct {
	Content  string     `json:"content"`
	ParentID *uuid.UUID `json:"parent_id"`
}

// Index returns the thread's posts as a nested tree. A `limit` query
// parameter caps replies per level; `highlight` forces a post and its
// ancestor chain into the result even past that cap.
func (p *Posts) Index(w http.ResponseWriter, r *http.Request) {
	threadID, err := pathID(r, "threadID")
	if err != nil {
		writeError(w, err)
		return
	}
	if _, err := p.threadStore.FindByID(threadID); err != nil {
		writeError(w, err)
		return
	}

	posts, err := p.postStore.ListByThread(threadID)
	if err != nil {
		writeError(w, err)
		return
	}

	opts := posttree.Options{}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			opts.PerLevelLimit = n
		}
	}
	if raw := r.URL.Query().Get("highlight"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			opts.Highlight = &id
		}
	}

	writeJSON(w, http.StatusOK, posttree.Build(posts, opts))
}

// Create adds a reply to a thread. Locked threads accept posts only
// from actors with moderation rights over the thread's category. Reply
// depth is validated inside the store together with the parent lookup.
func (p *Posts) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	if !authz.CanCreateContent(user) {
		writeError(w, errs.BannedErr())
		return
	}

	threadID, err := pathID(r, "threadID")
	if err != nil {
		writeError(w, err)
		return
	}
	thread, err := p.threadStore.FindByID(threadID)
	if err != nil {
		writeError(w, err)
		return
	}
	if thread.IsLocked {
		allowed, err := p.resolver.CanModerate(user, thread.CategoryID)
		if err != nil {
			writeError(w, err)
			return
		}
		if !allowed {
			writeError(w, errs.Unauthorized())
			return
		}
	}

	var in postInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}
	if msgs := validatePost(in.Content); len(msgs) > 0 {
		writeError(w, errs.Validation(msgs...))
		return
	}

	post, err := p.postStore.Create(threadID, user.ID, in.Content, in.ParentID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, postView(post))
}

func (p *Posts) Update(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())

	post, thread, err := p.lookup(r)
	if err != nil {
		writeError(w, err)
		return
	}

	allowed, err := p.resolver.CanModifyPost(user, post, thread.CategoryID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !allowed {
		writeError(w, errs.Unauthorized())
		return
	}
	if post.Deleted() {
		writeError(w, errs.Validation("deleted posts cannot be edited"))
		return
	}

	var in postInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}
	if msgs := validatePost(in.Content); len(msgs) > 0 {
		writeError(w, errs.Validation(msgs...))
		return
	}

	updated, err := p.postStore.Update(post.ID, in.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, postView(updated))
}

// Delete soft-deletes a post. The post keeps its place in the tree and
// renders as a placeholder; replies beneath it stay visible.
func (p *Posts) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())

	post, thread, err := p.lookup(r)
	if err != nil {
		writeError(w, err)
		return
	}

	allowed, err := p.resolver.CanModifyPost(user, post, thread.CategoryID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !allowed {
		writeError(w, errs.Unauthorized())
		return
	}

	if err := p.postStore.SoftDelete(post.ID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "post deleted"})
}

// Restore undoes a soft delete. The same actors who may delete a post
// may restore it: admins, the author, and moderators of the category.
func (p *Posts) Restore(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())

	post, thread, err := p.lookup(r)
	if err != nil {
		writeError(w, err)
		return
	}

	allowed, err := p.resolver.CanModifyPost(user, post, thread.CategoryID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !allowed {
		writeError(w, errs.Unauthorized())
		return
	}

	restored, err := p.postStore.Restore(post.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, postView(restored))
}

func (p *Posts) lookup(r *http.Request) (*models.Post, *models.Thread, error) {
	postID, err := pathID(r, "postID")
	if err != nil {
		return nil, nil, err
	}
	post, err := p.postStore.FindByID(postID)
	if err != nil {
		return nil, nil, err
	}
	thread, err := p.threadStore.FindByID(post.ThreadID)
	if err != nil {
		return nil, nil, err
	}
	return post, thread, nil
}

// postView wraps a single post the same way the tree does, so stored
// content of deleted posts never reaches the client.
func postView(post *models.Post) *posttree.Node {
	return &posttree.Node{Post: *post, Content: post.VisibleContent(), Replies: []*posttree.Node{}}
}
