package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/oauth2"

	"github.com/spainrp/awards/internal/models"
)

// Discord OAuth2 endpoints
var DiscordEndpoint = oauth2.Endpoint{
	AuthURL:   "https://discord.com/oauth2/authorize",
	TokenURL:  "https://discord.com/api/oauth2/token",
	AuthStyle: oauth2.AuthStyleInParams,
}

var ErrMissingCode = errors.New("missing authorization code")

const userFetchTimeout = 10 * time.Second

// Authenticator exchanges an OAuth2 authorization code for the Discord user.
type Authenticator interface {
	Exchange(ctx context.Context, code string) (*models.User, error)
}

// DiscordOAuth implements Authenticator with the "identify" scope.
type DiscordOAuth struct {
	config    *oauth2.Config
	fetchUser func(ctx context.Context, accessToken string) (*models.User, error)
}

// NewDiscordOAuth creates a DiscordOAuth for the given application
func NewDiscordOAuth(clientID, clientSecret, redirectURL string) *DiscordOAuth {
	return NewDiscordOAuthWithEndpoint(clientID, clientSecret, redirectURL, DiscordEndpoint)
}

// NewDiscordOAuthWithEndpoint allows pointing the token exchange elsewhere
func NewDiscordOAuthWithEndpoint(clientID, clientSecret, redirectURL string, endpoint oauth2.Endpoint) *DiscordOAuth {
	return &DiscordOAuth{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"identify"},
			Endpoint:     endpoint,
		},
		fetchUser: fetchDiscordUser,
	}
}

// AuthCodeURL returns the consent page URL for state
func (d *DiscordOAuth) AuthCodeURL(state string) string {
	return d.config.AuthCodeURL(state)
}

func (d *DiscordOAuth) Exchange(ctx context.Context, code string) (*models.User, error) {
	if code == "" {
		return nil, ErrMissingCode
	}
	tok, err := d.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}
	return d.fetchUser(ctx, tok.AccessToken)
}

func fetchDiscordUser(_ context.Context, accessToken string) (*models.User, error) {
	dg, err := discordgo.New("Bearer " + accessToken)
	if err != nil {
		return nil, err
	}
	dg.Client = &http.Client{Timeout: userFetchTimeout}
	u, err := dg.User("@me")
	if err != nil {
		return nil, fmt.Errorf("fetch discord user: %w", err)
	}
	return &models.User{ID: u.ID, Username: u.Username, AvatarURL: u.AvatarURL("128")}, nil
}
