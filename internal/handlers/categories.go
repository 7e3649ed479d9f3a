package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/lssb2003/university-forum/internal/errs"
	"github.com/lssb2003/university-forum/internal/store"
)

// Categories serves the category tree. Reads are public; writes are
// admin-only and guarded by the router.
type Categories struct {
	categoryStore *store.CategoryStore
}

func NewCategories(categoryStore *store.CategoryStore) *Categories {
	return &Categories{categoryStore: categoryStore}
}

type categoryInput struct {
	Name             string     `json:"name"`
	Description      string     `json:"description"`
	ParentCategoryID *uuid.UUID `json:"parent_category_id"`
}

// Index returns all top-level categories with their subcategories and
// moderator assignments nested in.
func (c *Categories) Index(w http.ResponseWriter, r *http.Request) {
	categories, err := c.categoryStore.List()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (c *Categories) Show(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "categoryID")
	if err != nil {
		writeError(w, err)
		return
	}
	category, err := c.categoryStore.FindByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

func (c *Categories) Create(w http.ResponseWriter, r *http.Request) {
	var in categoryInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}
	if msgs := validateCategory(in.Name, in.Description); len(msgs) > 0 {
		writeError(w, errs.Validation(msgs...))
		return
	}

	category, err := c.categoryStore.Create(in.Name, in.Description, in.ParentCategoryID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, category)
}

func (c *Categories) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "categoryID")
	if err != nil {
		writeError(w, err)
		return
	}
	var in categoryInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}
	if msgs := validateCategory(in.Name, in.Description); len(msgs) > 0 {
		writeError(w, errs.Validation(msgs...))
		return
	}

	category, err := c.categoryStore.Update(id, in.Name, in.Description, in.ParentCategoryID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

// Delete removes a category and everything under it in one transaction:
// moderator assignments are detached, subcategories become top-level,
// and the category's threads go with it.
func (c *Categories) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "categoryID")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := c.categoryStore.Delete(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "category deleted"})
}
