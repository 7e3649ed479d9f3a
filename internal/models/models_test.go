package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestValidRole(t *testing.T) {
	for _, role := range []Role{RoleUser, RoleModerator, RoleAdmin} {
		if !ValidRole(role) {
			t.Errorf("ValidRole(%q) = false, want true", role)
		}
	}
	for _, role := range []Role{"", "superadmin", "Admin", "mod"} {
		if ValidRole(role) {
			t.Errorf("ValidRole(%q) = true, want false", role)
		}
	}
}

func TestUserRoleHelpers(t *testing.T) {
	admin := &User{Role: RoleAdmin}
	mod := &User{Role: RoleModerator}
	plain := &User{Role: RoleUser}

	if !admin.IsAdmin() || admin.IsModerator() {
		t.Error("admin role helpers wrong")
	}
	if !mod.IsModerator() || mod.IsAdmin() {
		t.Error("moderator role helpers wrong")
	}
	if plain.IsAdmin() || plain.IsModerator() {
		t.Error("plain user role helpers wrong")
	}
}

func TestUserBanBlocksCreationOnly(t *testing.T) {
	now := time.Now()
	banned := &User{Role: RoleUser, BannedAt: &now}

	if !banned.Banned() {
		t.Error("expected Banned() = true")
	}
	if banned.CanCreateContent() {
		t.Error("banned user must not create content")
	}

	active := &User{Role: RoleUser}
	if active.Banned() {
		t.Error("expected Banned() = false")
	}
	if !active.CanCreateContent() {
		t.Error("active user must be able to create content")
	}
}

func TestPostVisibleContent(t *testing.T) {
	post := &Post{Content: "original text"}
	if got := post.VisibleContent(); got != "original text" {
		t.Errorf("VisibleContent: got %q", got)
	}

	now := time.Now()
	post.DeletedAt = &now
	if !post.Deleted() {
		t.Error("expected Deleted() = true")
	}
	if got := post.VisibleContent(); got != DeletedPlaceholder {
		t.Errorf("VisibleContent after delete: got %q, want %q", got, DeletedPlaceholder)
	}
	// Soft deletion is a read-time transform only.
	if post.Content != "original text" {
		t.Error("stored content must survive soft deletion")
	}
}

func TestReplyDepth(t *testing.T) {
	if d := ReplyDepth(nil); d != 0 {
		t.Errorf("root depth: got %d, want 0", d)
	}
	parent := &Post{Depth: 2}
	if d := ReplyDepth(parent); d != 3 {
		t.Errorf("reply depth: got %d, want 3", d)
	}
	// Depth MaxReplyDepth+1 is what the store rejects.
	deepest := &Post{Depth: MaxReplyDepth}
	if d := ReplyDepth(deepest); d != MaxReplyDepth+1 {
		t.Errorf("reply under deepest: got %d, want %d", d, MaxReplyDepth+1)
	}
}

func TestCategoryNesting(t *testing.T) {
	top := &Category{Name: "Top"}
	if top.Subcategory() || top.NestingLevel() != 0 {
		t.Error("top-level category helpers wrong")
	}

	parentID := uuid.New()
	sub := &Category{Name: "Sub", ParentCategoryID: &parentID}
	if !sub.Subcategory() || sub.NestingLevel() != 1 {
		t.Error("subcategory helpers wrong")
	}
	if sub.NestingLevel() > MaxCategoryNesting {
		t.Error("subcategory level must not exceed the nesting cap")
	}
}
