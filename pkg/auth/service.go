// Package auth runs the Google OAuth2 flow: building the consent URL,
// exchanging authorization codes for a token pair, persisting the pair on
// the user record, and issuing session credentials.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/oauth2"

	"calendareventservice/pkg/apperr"
	"calendareventservice/pkg/models"
	"calendareventservice/pkg/repository"
)

const defaultUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

type Service struct {
	users       repository.UserStore
	oauth       *oauth2.Config
	tokens      *TokenIssuer
	logger      *slog.Logger
	userInfoURL string
}

func NewService(users repository.UserStore, oauth *oauth2.Config, tokens *TokenIssuer, logger *slog.Logger) *Service {
	return &Service{
		users:       users,
		oauth:       oauth,
		tokens:      tokens,
		logger:      logger,
		userInfoURL: defaultUserInfoURL,
	}
}

// WithUserInfoURL overrides the userinfo endpoint. Used by tests.
func (s *Service) WithUserInfoURL(url string) *Service {
	s.userInfoURL = url
	return s
}

// AuthURL builds the provider authorization URL. Offline access makes the
// provider issue a refresh token; forced consent makes it do so even for
// returning users.
func (s *Service) AuthURL() string {
	return s.oauth.AuthCodeURL("state-token", oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

type userInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// HandleCallback exchanges the authorization code for a token pair, upserts
// the user record keyed by email, and returns a signed session credential
// for that user.
func (s *Service) HandleCallback(ctx context.Context, code string) (string, error) {
	if code == "" {
		return "", &apperr.AuthError{Reason: "Authorization code not provided by Google."}
	}

	token, err := s.oauth.Exchange(ctx, code)
	if err != nil || token.AccessToken == "" {
		s.logger.Error("token exchange failed", "err", err)
		return "", &apperr.AuthError{Reason: "Failed to obtain access token from Google."}
	}

	info, err := s.fetchUserInfo(ctx, token)
	if err != nil || info.Email == "" {
		s.logger.Error("userinfo lookup failed", "err", err)
		return "", &apperr.AuthError{Reason: "Failed to retrieve user information from Google."}
	}

	user, err := s.upsertUser(ctx, info, token)
	if err != nil {
		return "", err
	}

	credential, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", err
	}
	s.logger.Info("user authenticated", "userID", user.ID, "email", user.Email)
	return credential, nil
}

func (s *Service) fetchUserInfo(ctx context.Context, token *oauth2.Token) (*userInfo, error) {
	client := s.oauth.Client(ctx, token)
	resp, err := client.Get(s.userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("userinfo request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo request returned status %d", resp.StatusCode)
	}
	var info userInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode userinfo response: %w", err)
	}
	return &info, nil
}

// upsertUser creates the user on first login and refreshes the stored token
// pair on later logins. The access token is always replaced; the refresh
// token only when the provider actually returned a new one, so a consent
// round that omits it does not wipe the stored value.
func (s *Service) upsertUser(ctx context.Context, info *userInfo, token *oauth2.Token) (*models.User, error) {
	user, err := s.users.ByEmail(ctx, info.Email)
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		user = &models.User{
			Email:        info.Email,
			Name:         info.Name,
			GoogleID:     info.ID,
			AccessToken:  token.AccessToken,
			RefreshToken: token.RefreshToken,
			TokenExpiry:  token.Expiry,
		}
	case err != nil:
		return nil, err
	default:
		user.AccessToken = token.AccessToken
		user.TokenExpiry = token.Expiry
		if token.RefreshToken != "" {
			user.RefreshToken = token.RefreshToken
		}
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to store user tokens: %w", err)
	}
	return user, nil
}
