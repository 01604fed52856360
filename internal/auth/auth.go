package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gdg-garage/eventhub-api/internal/apierror"
	"github.com/gdg-garage/eventhub-api/internal/config"
	"github.com/gdg-garage/eventhub-api/internal/database"
	"github.com/gdg-garage/eventhub-api/internal/i18n"
	"github.com/gdg-garage/eventhub-api/internal/logging"
	"github.com/gdg-garage/eventhub-api/internal/models"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

type Handler struct {
	db     *gorm.DB
	cfg    *config.Config
	tokens *Tokens
	log    logging.Logger
	tr     *i18n.Translator

	oauthConfig      *oauth2.Config
	discordUserURL   string
	discordGuildsURL string
}

func NewHandler(cfg *config.Config, db *gorm.DB, log logging.Logger, tr *i18n.Translator) *Handler {
	h := &Handler{
		db:     db,
		cfg:    cfg,
		tokens: NewTokens(cfg.JWTSecret, cfg.TokenDuration),
		log:    log.With("component", "auth"),
		tr:     tr,
	}
	if cfg.DiscordLoginEnabled() {
		h.oauthConfig = newDiscordOAuthConfig(cfg)
		h.discordUserURL = DiscordUserAPI
		h.discordGuildsURL = DiscordUserGuildsAPI
	}
	return h
}

func (h *Handler) Tokens() *Tokens {
	return h.tokens
}

func (h *Handler) fail(ctx context.Context, status int, key string) error {
	return apierror.New(status, h.tr.Tc(ctx, key, nil), strings.ReplaceAll(key, ".", "_"))
}

type RegisterInput struct {
	Body struct {
		Ad    string `json:"ad,omitempty" doc:"First name"`
		Soyad string `json:"soyad,omitempty" doc:"Last name"`
		Email string `json:"email,omitempty" doc:"Email address, used to log in"`
		Sifre string `json:"sifre,omitempty" doc:"Password"`
	}
}

type RegisterOutput struct {
	Body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		ID      uint   `json:"id"`
	}
}

func (h *Handler) HandleRegister(ctx context.Context, input *RegisterInput) (*RegisterOutput, error) {
	b := input.Body
	email := models.NormalizeEmail(b.Email)
	if strings.TrimSpace(b.Ad) == "" || strings.TrimSpace(b.Soyad) == "" || email == "" || b.Sifre == "" {
		return nil, h.fail(ctx, http.StatusBadRequest, "auth.register_required")
	}

	var count int64
	if err := h.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		h.log.Error(ctx, "register lookup failed", "error", err)
		return nil, h.fail(ctx, http.StatusInternalServerError, "server.error")
	}
	if count > 0 {
		return nil, h.fail(ctx, http.StatusConflict, "auth.email_taken")
	}

	hash, err := HashPassword(b.Sifre)
	if err != nil {
		h.log.Error(ctx, "hash password failed", "error", err)
		return nil, h.fail(ctx, http.StatusInternalServerError, "server.error")
	}

	user := models.User{
		Ad:           strings.TrimSpace(b.Ad),
		Soyad:        strings.TrimSpace(b.Soyad),
		Email:        email,
		PasswordHash: hash,
		Rol:          models.RoleUser,
	}
	if err := h.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(database.Classify(err), database.ErrDuplicate) {
			return nil, h.fail(ctx, http.StatusConflict, "auth.email_taken")
		}
		h.log.Error(ctx, "create user failed", "error", err)
		return nil, h.fail(ctx, http.StatusInternalServerError, "server.error")
	}

	h.log.Info(ctx, "user registered", "user_id", user.ID)

	res := &RegisterOutput{}
	res.Body.Success = true
	res.Body.Message = h.tr.Tc(ctx, "auth.registered", nil)
	res.Body.ID = user.ID
	return res, nil
}

type LoginInput struct {
	Body struct {
		Email string `json:"email,omitempty"`
		Sifre string `json:"sifre,omitempty" doc:"Password"`
	}
}

type LoginOutput struct {
	SetCookie []http.Cookie `header:"Set-Cookie"`
	Body      struct {
		Success bool        `json:"success"`
		Message string      `json:"message"`
		Token   string      `json:"token"`
		User    models.User `json:"user"`
	}
}

func (h *Handler) HandleLogin(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	email := models.NormalizeEmail(input.Body.Email)
	if email == "" || input.Body.Sifre == "" {
		return nil, h.fail(ctx, http.StatusBadRequest, "auth.login_required")
	}

	var user models.User
	if err := h.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, h.fail(ctx, http.StatusUnauthorized, "auth.invalid_credentials")
		}
		h.log.Error(ctx, "login lookup failed", "error", err)
		return nil, h.fail(ctx, http.StatusInternalServerError, "server.error")
	}

	if err := CheckPassword(user.PasswordHash, input.Body.Sifre); err != nil {
		if !errors.Is(err, ErrInvalidCredentials) {
			h.log.Error(ctx, "password check failed", "error", err)
		}
		return nil, h.fail(ctx, http.StatusUnauthorized, "auth.invalid_credentials")
	}

	token, err := h.tokens.Issue(user.ID, user.Email, user.Rol)
	if err != nil {
		h.log.Error(ctx, "issue token failed", "error", err)
		return nil, h.fail(ctx, http.StatusInternalServerError, "server.error")
	}

	res := &LoginOutput{}
	if h.cfg.SessionCookieEnabled {
		res.SetCookie = []http.Cookie{h.sessionCookie(token)}
	}
	res.Body.Success = true
	res.Body.Message = h.tr.Tc(ctx, "auth.login_success", nil)
	res.Body.Token = token
	res.Body.User = user
	return res, nil
}

type MeOutput struct {
	Body struct {
		Success bool        `json:"success"`
		User    models.User `json:"user"`
	}
}

func (h *Handler) HandleMe(ctx context.Context, _ *struct{}) (*MeOutput, error) {
	id, err := RequireUser(ctx)
	if err != nil {
		return nil, h.fail(ctx, http.StatusUnauthorized, "auth.unauthorized")
	}

	var user models.User
	if err := h.db.WithContext(ctx).First(&user, id.UserID).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, h.fail(ctx, http.StatusUnauthorized, "auth.unauthorized")
		}
		h.log.Error(ctx, "me lookup failed", "error", err)
		return nil, h.fail(ctx, http.StatusInternalServerError, "server.error")
	}

	res := &MeOutput{}
	res.Body.Success = true
	res.Body.User = user
	return res, nil
}

type LogoutOutput struct {
	SetCookie []http.Cookie `header:"Set-Cookie"`
	Body      struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
}

// HandleLogout clears the session cookie. Bearer tokens stay valid until
// they expire.
func (h *Handler) HandleLogout(ctx context.Context, _ *struct{}) (*LogoutOutput, error) {
	res := &LogoutOutput{SetCookie: []http.Cookie{expiredSessionCookie()}}
	res.Body.Success = true
	res.Body.Message = h.tr.Tc(ctx, "auth.logged_out", nil)
	return res, nil
}
