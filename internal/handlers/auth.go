package handlers

import (
	"encoding/base64"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/lssb2003/university-forum/internal/authz"
	"github.com/lssb2003/university-forum/internal/errs"
	"github.com/lssb2003/university-forum/internal/middleware"
	"github.com/lssb2003/university-forum/internal/models"
	"github.com/lssb2003/university-forum/internal/notify"
	"github.com/lssb2003/university-forum/internal/reset"
	"github.com/lssb2003/university-forum/internal/store"
	"github.com/lssb2003/university-forum/internal/token"
)

// Auth groups all authentication-related HTTP handlers.
type Auth struct {
	userStore *store.UserStore
	tokens    *token.Issuer
	resets    *reset.Store
	notifier  notify.Notifier
	resolver  *authz.Resolver
}

// NewAuth creates a new Auth handler group.
func NewAuth(userStore *store.UserStore, tokens *token.Issuer, resets *reset.Store, notifier notify.Notifier, resolver *authz.Resolver) *Auth {
	return &Auth{
		userStore: userStore,
		tokens:    tokens,
		resets:    resets,
		notifier:  notifier,
		resolver:  resolver,
	}
}

type credentialsInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	OTPCode  string `json:"otp_code"`
}

// sessionResponse is the payload returned on register and login.
type sessionResponse struct {
	Token               string       `json:"token"`
	User                *models.User `json:"user"`
	ModeratedCategories []uuid.UUID  `json:"moderated_categories,omitempty"`
}

// Register creates a new account and signs the caller in.
func (a *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var in credentialsInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}
	if msgs := validateCredentials(in.Email, in.Password); len(msgs) > 0 {
		writeError(w, errs.Validation(msgs...))
		return
	}

	user, err := a.userStore.Create(in.Email, in.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	signed, err := a.tokens.Issue(user.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{Token: signed, User: user})
}

// Login verifies credentials (and the TOTP code when the account has 2FA
// enabled) and returns a bearer token. Moderators also get their
// resolved moderation scope for the client to cache.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var in credentialsInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	user, err := a.userStore.FindByEmail(in.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	if user == nil || !a.userStore.CheckPassword(user, in.Password) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		return
	}

	if user.TOTPEnabled {
		if user.TOTPSecret == nil || !totp.Validate(in.OTPCode, *user.TOTPSecret) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid two-factor code"})
			return
		}
	}

	signed, err := a.tokens.Issue(user.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := sessionResponse{Token: signed, User: user}
	if user.IsModerator() {
		ids, err := a.resolver.ModeratedCategoryIDs(user)
		if err != nil {
			writeError(w, err)
			return
		}
		for id := range ids {
			resp.ModeratedCategories = append(resp.ModeratedCategories, id)
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Logout acknowledges sign-out. Tokens are stateless; the client simply
// discards its copy.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "successfully logged out"})
}

// ForgotPassword generates a temporary password for the account, records
// the reset window, and hands the credential to the notifier. Delivery
// is the notifier's problem.
func (a *Auth) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	user, err := a.userStore.FindByEmail(in.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	if user == nil {
		writeError(w, errs.NotFound("email"))
		return
	}

	tempPassword, err := a.resets.Begin(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := a.userStore.SetTemporaryPassword(user.ID, tempPassword); err != nil {
		writeError(w, err)
		return
	}
	if err := a.notifier.PasswordReset(user, tempPassword); err != nil {
		slog.Error("password reset notification failed", "error", err, "user_id", user.ID)
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "password reset instructions sent to your email"})
}

// ResetPassword lets an authenticated user replace their password after
// confirming the current one (the temporary one, after a reset).
func (a *Auth) ResetPassword(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())

	var in struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	if !a.userStore.CheckPassword(user, in.CurrentPassword) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "current password is incorrect"})
		return
	}
	if msgs := validateCredentials(user.Email, in.NewPassword); len(msgs) > 0 {
		writeError(w, errs.Validation(msgs...))
		return
	}

	if err := a.userStore.SetPassword(user.ID, in.NewPassword); err != nil {
		writeError(w, err)
		return
	}
	if err := a.resets.Clear(r.Context(), user.ID); err != nil {
		slog.Error("clear reset marker failed", "error", err, "user_id", user.ID)
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "password successfully updated"})
}

// ModeratedCategories returns the category IDs the caller may moderate,
// assignments plus their direct subcategories. Admins get every
// category implicitly and an empty list here.
func (a *Auth) ModeratedCategories(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())

	ids := []uuid.UUID{}
	if user.IsModerator() {
		resolved, err := a.resolver.ModeratedCategoryIDs(user)
		if err != nil {
			writeError(w, err)
			return
		}
		for id := range resolved {
			ids = append(ids, id)
		}
	}
	writeJSON(w, http.StatusOK, map[string][]uuid.UUID{"category_ids": ids})
}

// TwoFASetup generates a TOTP secret for the account and returns it with
// a QR code for authenticator apps. 2FA activates on first verification.
func (a *Auth) TwoFASetup(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "University Forum",
		AccountName: user.Email,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	if err := a.userStore.SetTOTPSecret(user.ID, key.Secret()); err != nil {
		writeError(w, err)
		return
	}

	qrPNG, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"secret":  key.Secret(),
		"qr_code": base64.StdEncoding.EncodeToString(qrPNG),
	})
}

// TwoFAVerify validates a TOTP code and enables 2FA for the account.
func (a *Auth) TwoFAVerify(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())

	var in struct {
		Code string `json:"code"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	if user.TOTPSecret == nil {
		writeError(w, errs.Validation("two-factor setup has not been started"))
		return
	}
	if !totp.Validate(in.Code, *user.TOTPSecret) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid two-factor code"})
		return
	}

	if err := a.userStore.EnableTOTP(user.ID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "two-factor authentication enabled"})
}
