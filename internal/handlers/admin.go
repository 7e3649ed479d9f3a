package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/lssb2003/university-forum/internal/errs"
	"github.com/lssb2003/university-forum/internal/middleware"
	"github.com/lssb2003/university-forum/internal/models"
	"github.com/lssb2003/university-forum/internal/store"
)

// Admin groups the admin-only user and moderator management handlers.
// The router mounts the whole group behind RequireAdmin.
type Admin struct {
	userStore      *store.UserStore
	moderatorStore *store.ModeratorStore
}

func NewAdmin(userStore *store.UserStore, moderatorStore *store.ModeratorStore) *Admin {
	return &Admin{userStore: userStore, moderatorStore: moderatorStore}
}

func (a *Admin) Users(w http.ResponseWriter, r *http.Request) {
	users, err := a.userStore.List()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// UpdateRole changes a user's role. Moving a user away from the
// moderator role drops all of their category assignments in the same
// transaction. Admins cannot change their own role.
func (a *Admin) UpdateRole(w http.ResponseWriter, r *http.Request) {
	actor := middleware.UserFromCtx(r.Context())

	id, err := pathID(r, "userID")
	if err != nil {
		writeError(w, err)
		return
	}
	if id == actor.ID {
		writeError(w, errs.Validation("you cannot change your own role"))
		return
	}

	var in struct {
		Role models.Role `json:"role"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}
	if !models.ValidRole(in.Role) {
		writeError(w, errs.Validation("role must be user, moderator or admin"))
		return
	}

	user, err := a.userStore.UpdateRole(id, in.Role)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (a *Admin) Ban(w http.ResponseWriter, r *http.Request) {
	actor := middleware.UserFromCtx(r.Context())

	id, err := pathID(r, "userID")
	if err != nil {
		writeError(w, err)
		return
	}
	if id == actor.ID {
		writeError(w, errs.Validation("you cannot ban yourself"))
		return
	}

	var in struct {
		Reason string `json:"reason"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	user, err := a.userStore.Ban(id, in.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (a *Admin) Unban(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "userID")
	if err != nil {
		writeError(w, err)
		return
	}
	user, err := a.userStore.Unban(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// CreateModerator assigns a user to moderate a category, promoting them
// to the moderator role when they are still a plain user.
func (a *Admin) CreateModerator(w http.ResponseWriter, r *http.Request) {
	var in struct {
		UserID     uuid.UUID `json:"user_id"`
		CategoryID uuid.UUID `json:"category_id"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	moderator, err := a.moderatorStore.Create(in.UserID, in.CategoryID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, moderator)
}

// DeleteModerator removes a single assignment. The user keeps the
// moderator role even when this was their last category.
func (a *Admin) DeleteModerator(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "moderatorID")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := a.moderatorStore.Delete(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "moderator removed"})
}
