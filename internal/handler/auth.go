package handler

import (
	"context"      // bounded contexts for DB calls
	"database/sql" // sentinel sql errors
	"net/http"     // HTTP status codes
	"strings"      // input normalization
	"time"         // DB call timeouts

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing

	"github.com/tsering10/OP-Final-Project/internal/config"     // app configuration
	"github.com/tsering10/OP-Final-Project/internal/mailer"     // outgoing e-mail
	"github.com/tsering10/OP-Final-Project/internal/model"      // domain roles
	"github.com/tsering10/OP-Final-Project/internal/repository" // DB repositories
	"github.com/tsering10/OP-Final-Project/internal/utils"      // hashing and token issuing
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Chefs  *repository.ChefRepo
	Tokens *repository.TokenRepo
	Mail   *mailer.Mailer
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, ch *repository.ChefRepo,
	t *repository.TokenRepo, m *mailer.Mailer) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Chefs: ch, Tokens: t, Mail: m}
}

// linkTokenTTL bounds how long activation and password-reset links stay
// valid.
const linkTokenTTL = 48 * time.Hour

// ----- DTOs -----

type registerReq struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type registerChefReq struct {
	registerReq
	ChefName string `json:"chef_name"`
	Bio      string `json:"bio"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type forgotPasswordReq struct {
	Email string `json:"email"`
}

type resetPasswordReq struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type userPart struct {
	ID        uint64 `json:"id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}
type authResp struct {
	User    userPart  `json:"user"`
	Access  tokenPart `json:"access"`
	Refresh tokenPart `json:"refresh"`
}

func (h *AuthHandler) reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

// sendActivationMail builds the purpose-scoped activation link and mails
// it.  Failures are logged inside the mailer; registration still
// succeeds so the user can request a fresh link via forgot-password.
func (h *AuthHandler) sendActivationMail(email, firstName string, uid uint64) {
	tok, err := utils.NewLinkToken(h.Cfg.JWTSecret, uid, utils.PurposeActivate, linkTokenTTL)
	if err != nil {
		return
	}
	link := h.Cfg.BaseURL + "/v1/auth/activate/" + tok
	_ = h.Mail.SendAccountLink(email, firstName,
		"Activate your account",
		"Welcome! Follow the link below to activate your account.",
		link)
}

// Register creates an inactive customer account and mails the activation
// link.  No tokens are issued until the link is followed.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := h.reqCtx(c)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.Email, req.Password, model.RoleCustomer,
		strings.TrimSpace(req.FirstName), strings.TrimSpace(req.LastName), h.Cfg.BcryptCost)
	if err != nil {
		if err == repository.ErrEmailExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	h.sendActivationMail(req.Email, req.FirstName, uid)

	return c.JSON(http.StatusCreated, echo.Map{
		"id":      uid,
		"email":   req.Email,
		"message": "account created, check your inbox for the activation link",
	})
}

// RegisterChef creates the user row and the chef profile in one
// transaction, so a half-registered chef can never exist.
func (h *AuthHandler) RegisterChef(c echo.Context) error {
	var req registerChefReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.ChefName = strings.TrimSpace(req.ChefName)
	if req.Email == "" || req.Password == "" || req.ChefName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password/chef_name required"})
	}

	ctx, cancel := h.reqCtx(c)
	defer cancel()

	tx, err := h.Users.DB.BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "begin tx failed"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	uid, err := h.Users.CreateTx(ctx, tx, req.Email, req.Password, model.RoleChef,
		strings.TrimSpace(req.FirstName), strings.TrimSpace(req.LastName), h.Cfg.BcryptCost)
	if err != nil {
		if err == repository.ErrEmailExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	chef := repository.Chef{UserID: uid, ChefName: req.ChefName, Bio: strings.TrimSpace(req.Bio)}
	if err := h.Chefs.CreateTx(ctx, tx, &chef); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create chef profile failed"})
	}

	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	h.sendActivationMail(req.Email, req.FirstName, uid)

	return c.JSON(http.StatusCreated, echo.Map{
		"id":        uid,
		"chef_id":   chef.ID,
		"email":     req.Email,
		"chef_name": chef.ChefName,
		"message":   "chef account created, check your inbox for the activation link",
	})
}

// Activate validates an activation link token and flips the account to
// active.  Re-using a link is harmless.
func (h *AuthHandler) Activate(c echo.Context) error {
	raw := c.Param("token")
	uid, err := utils.ParseLinkToken(h.Cfg.JWTSecret, raw, utils.PurposeActivate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid or expired activation link"})
	}

	ctx, cancel := h.reqCtx(c)
	defer cancel()

	if err := h.Users.Activate(ctx, uid); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "activation failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "account activated, you can log in now"})
}

// Login verifies credentials and returns a token pair.  Accounts that
// never followed their activation link are rejected with 403 so the
// client can offer a resend.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := h.reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	if !u.IsActive {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "account not activated"})
	}

	return h.issuePair(c, ctx, u, http.StatusOK)
}

// Refresh validates the presented refresh token by hash, revokes it and
// issues a fresh pair (rotation).
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}
	hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

	ctx, cancel := h.reqCtx(c)
	defer cancel()

	userID, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
	}
	_ = h.Tokens.RevokeByHash(ctx, hash)

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	if !u.IsActive {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "account not activated"})
	}

	return h.issuePair(c, ctx, u, http.StatusOK)
}

// issuePair mints the access/refresh pair, stores the refresh hash and
// writes the standard auth response.
func (h *AuthHandler) issuePair(c echo.Context, ctx context.Context, u repository.User, status int) error {
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue refresh failed"})
	}
	if err := h.Tokens.StoreRefresh(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save refresh failed"})
	}
	return c.JSON(status, authResp{
		User:    userPart{ID: u.ID, Email: u.Email, Role: u.Role, FirstName: u.FirstName, LastName: u.LastName},
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp}, // raw back to client
	})
}

// Logout revokes the presented refresh token.  With a valid session and
// no token in the body, every session of the user is revoked instead.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	_ = c.Bind(&req)
	raw := strings.TrimSpace(req.RefreshToken)

	ctx, cancel := h.reqCtx(c)
	defer cancel()

	if raw != "" {
		hash := utils.HashRefreshRaw(raw)
		if _, err := h.Tokens.ValidateRefresh(ctx, hash); err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
		}
		if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
		}
		return c.NoContent(http.StatusNoContent)
	}

	uid, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "provide refresh_token or Authorization header"})
	}
	if err := h.Tokens.RevokeAllForUser(ctx, uid); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ForgotPassword mails a reset link.  The response is the same whether
// or not the address exists, so the endpoint cannot be used to probe
// for accounts.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email required"})
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	ctx, cancel := h.reqCtx(c)
	defer cancel()

	if u, err := h.Users.GetByEmail(ctx, email); err == nil {
		if tok, err := utils.NewLinkToken(h.Cfg.JWTSecret, u.ID, utils.PurposeResetPassword, linkTokenTTL); err == nil {
			link := h.Cfg.BaseURL + "/v1/auth/reset-password?token=" + tok
			_ = h.Mail.SendAccountLink(u.Email, u.FirstName,
				"Reset your password",
				"Follow the link below to choose a new password.",
				link)
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "if the address exists, a reset link has been sent"})
}

// ResetPassword consumes a reset link token and replaces the password.
// All standing sessions are revoked.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordReq
	if err := c.Bind(&req); err != nil || req.Token == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "token/password required"})
	}
	uid, err := utils.ParseLinkToken(h.Cfg.JWTSecret, req.Token, utils.PurposeResetPassword)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid or expired reset link"})
	}

	ctx, cancel := h.reqCtx(c)
	defer cancel()

	if err := h.Users.UpdatePassword(ctx, uid, req.Password, h.Cfg.BcryptCost); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid or expired reset link"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reset failed"})
	}
	_ = h.Tokens.RevokeAllForUser(ctx, uid)

	return c.JSON(http.StatusOK, echo.Map{"message": "password updated, log in with the new password"})
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c echo.Context) error {
	uid, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := h.reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	resp := echo.Map{
		"id":         u.ID,
		"email":      u.Email,
		"role":       u.Role,
		"first_name": u.FirstName,
		"last_name":  u.LastName,
	}
	if u.Role == model.RoleChef {
		if chef, err := h.Chefs.GetByUserID(ctx, u.ID); err == nil {
			resp["chef_id"] = chef.ID
			resp["chef_name"] = chef.ChefName
			resp["bio"] = chef.Bio
		}
	}
	return c.JSON(http.StatusOK, resp)
}
