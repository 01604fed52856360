package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/gdg-garage/eventhub-api/internal/config"
	"github.com/gdg-garage/eventhub-api/internal/database"
	"github.com/gdg-garage/eventhub-api/internal/models"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

const (
	DiscordAuthorizeEndpoint = "https://discord.com/api/oauth2/authorize"
	DiscordTokenEndpoint     = "https://discord.com/api/oauth2/token"
	DiscordUserAPI           = "https://discord.com/api/users/@me"
	DiscordUserGuildsAPI     = "https://discord.com/api/users/@me/guilds"

	stateCookieName = "oauth_state"
)

func newDiscordOAuthConfig(cfg *config.Config) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.DiscordClientID,
		ClientSecret: cfg.DiscordClientSecret,
		RedirectURL:  cfg.DiscordRedirectURL,
		Scopes:       []string{"identify", "email", "guilds"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  DiscordAuthorizeEndpoint,
			TokenURL: DiscordTokenEndpoint,
		},
	}
}

type RedirectOutput struct {
	Status    int
	Location  string        `header:"Location"`
	SetCookie []http.Cookie `header:"Set-Cookie"`
}

func (h *Handler) HandleDiscordLogin(ctx context.Context, _ *struct{}) (*RedirectOutput, error) {
	if h.oauthConfig == nil {
		return nil, h.fail(ctx, http.StatusNotFound, "auth.discord_disabled")
	}

	state := uuid.NewString()
	return &RedirectOutput{
		Status:   http.StatusTemporaryRedirect,
		Location: h.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOnline),
		SetCookie: []http.Cookie{{
			Name:     stateCookieName,
			Value:    state,
			Path:     "/",
			Expires:  time.Now().Add(10 * time.Minute),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		}},
	}, nil
}

type DiscordCallbackInput struct {
	Code        string `query:"code"`
	State       string `query:"state"`
	StateCookie string `cookie:"oauth_state"`
}

// HandleDiscordCallback finishes the OAuth flow, links or creates the user
// and redirects to the frontend with a session.
func (h *Handler) HandleDiscordCallback(ctx context.Context, input *DiscordCallbackInput) (*RedirectOutput, error) {
	if h.oauthConfig == nil {
		return nil, h.fail(ctx, http.StatusNotFound, "auth.discord_disabled")
	}
	if input.State == "" || input.StateCookie == "" || input.State != input.StateCookie {
		return nil, h.fail(ctx, http.StatusBadRequest, "auth.discord_state")
	}
	if input.Code == "" {
		return nil, h.fail(ctx, http.StatusBadRequest, "auth.discord_failed")
	}

	token, err := h.oauthConfig.Exchange(ctx, input.Code)
	if err != nil {
		h.log.Warn(ctx, "discord token exchange failed", "error", err)
		return nil, h.fail(ctx, http.StatusBadGateway, "auth.discord_failed")
	}
	client := h.oauthConfig.Client(ctx, token)

	if h.cfg.DiscordGuildID != "" {
		var guilds []*discordgo.UserGuild
		if err := getJSON(client, h.discordGuildsURL, &guilds); err != nil {
			h.log.Warn(ctx, "discord guild lookup failed", "error", err)
			return nil, h.fail(ctx, http.StatusBadGateway, "auth.discord_failed")
		}
		if !memberOf(guilds, h.cfg.DiscordGuildID) {
			return nil, h.fail(ctx, http.StatusForbidden, "auth.discord_guild")
		}
	}

	var du discordgo.User
	if err := getJSON(client, h.discordUserURL, &du); err != nil {
		h.log.Warn(ctx, "discord user lookup failed", "error", err)
		return nil, h.fail(ctx, http.StatusBadGateway, "auth.discord_failed")
	}
	if du.Email == "" || !du.Verified {
		return nil, h.fail(ctx, http.StatusForbidden, "auth.discord_email")
	}

	user, err := h.upsertDiscordUser(ctx, &du)
	if err != nil {
		h.log.Error(ctx, "discord user upsert failed", "error", err)
		return nil, h.fail(ctx, http.StatusInternalServerError, "server.error")
	}

	jwtToken, err := h.tokens.Issue(user.ID, user.Email, user.Rol)
	if err != nil {
		h.log.Error(ctx, "issue token failed", "error", err)
		return nil, h.fail(ctx, http.StatusInternalServerError, "server.error")
	}

	h.log.Info(ctx, "discord login", "user_id", user.ID)

	clearState := http.Cookie{Name: stateCookieName, Path: "/", MaxAge: -1, Expires: time.Unix(0, 0), HttpOnly: true}
	cookies := []http.Cookie{clearState}
	if h.cfg.SessionCookieEnabled {
		cookies = append(cookies, h.sessionCookie(jwtToken))
	}

	return &RedirectOutput{
		Status:    http.StatusTemporaryRedirect,
		Location:  strings.TrimRight(h.cfg.FrontendURL, "/") + "/auth/callback#token=" + url.QueryEscape(jwtToken),
		SetCookie: cookies,
	}, nil
}

// upsertDiscordUser finds the account by Discord id, then by email, and
// creates it when neither exists.
func (h *Handler) upsertDiscordUser(ctx context.Context, du *discordgo.User) (*models.User, error) {
	email := models.NormalizeEmail(du.Email)
	var user models.User

	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("discord_id = ?", du.ID).First(&user).Error
		if database.IsNotFound(err) {
			err = tx.Where("email = ?", email).First(&user).Error
		}
		switch {
		case err == nil:
		case database.IsNotFound(err):
			name := du.GlobalName
			if name == "" {
				name = du.Username
			}
			user = models.User{Ad: name, Email: email, Rol: models.RoleUser}
		default:
			return err
		}

		discordID := du.ID
		user.DiscordID = &discordID
		if du.Avatar != "" {
			user.Avatar = du.AvatarURL("")
		}
		return tx.Save(&user).Error
	})
	if err != nil {
		return nil, database.Classify(err)
	}
	return &user, nil
}

func memberOf(guilds []*discordgo.UserGuild, guildID string) bool {
	for _, g := range guilds {
		if g != nil && g.ID == guildID {
			return true
		}
	}
	return false
}

func getJSON(client *http.Client, endpoint string, v any) error {
	resp, err := client.Get(endpoint)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: unexpected status %d", endpoint, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
