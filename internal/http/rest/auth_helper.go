package rest

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/breatheclean/breatheclean_api/internal/model"
	"github.com/breatheclean/breatheclean_api/util"
	"github.com/breatheclean/breatheclean_api/util/values"
	"github.com/golang-jwt/jwt"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	goauth "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

type TokenClaims struct {
	UserID string `json:"sub"`
	Type   string `json:"typ"`
	Exp    int64  `json:"exp"`
}

func (api *API) createToken(id string) (string, time.Time, error) {
	exp_time, err := time.ParseDuration(api.Config.JwtExpires)
	if err != nil {
		return "", time.Time{}, err
	}
	expiresAt := time.Now().Add(exp_time)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": id, // subject (user ID)
		"exp": expiresAt.Unix(),
		"iat": time.Now().Unix(),
		"typ": "access",
	})

	tokenString, err := token.SignedString([]byte(api.Config.JwtSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

func (api *API) createRefreshToken(id string) (string, time.Time, error) {
	exp_time, err := time.ParseDuration(api.Config.RefreshExpiry)
	if err != nil {
		return "", time.Time{}, err
	}
	expiresAt := time.Now().Add(exp_time)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": id, // subject (user ID)
		"exp": expiresAt.Unix(),
		"iat": time.Now().Unix(),
		"typ": "refresh",
	})

	tokenString, err := token.SignedString([]byte(api.Config.RefreshSecret))
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

func (api *API) googleOAuth() *oauth2.Config {
	endpoint := google.Endpoint
	if api.OAuthEndpoint != nil {
		endpoint = *api.OAuthEndpoint
	}
	return &oauth2.Config{
		ClientID:     api.Config.GoogleClientID,
		ClientSecret: api.Config.GoogleClientSecret,
		RedirectURL:  api.Config.GoogleRedirectURL,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: endpoint,
	}
}

func (api *API) fetchGoogleProfile(ctx context.Context, token *oauth2.Token) (*model.GoogleProfile, error) {
	opts := []option.ClientOption{
		option.WithTokenSource(api.googleOAuth().TokenSource(ctx, token)),
	}
	if api.UserInfoBaseURL != "" {
		opts = append(opts, option.WithEndpoint(api.UserInfoBaseURL))
	}

	svc, err := goauth.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}

	info, err := svc.Userinfo.Get().Do()
	if err != nil {
		return nil, err
	}

	profile := &model.GoogleProfile{
		Subject: info.Id,
		Email:   info.Email,
		Name:    info.Name,
		Picture: info.Picture,
	}
	if info.VerifiedEmail != nil {
		profile.VerifiedEmail = *info.VerifiedEmail
	}
	return profile, nil
}

// upsertGoogleUser mirrors the provider avatar into our media store before
// persisting, falling back to the provider URL when the mirror fails.
func (api *API) upsertGoogleUser(ctx context.Context, profile *model.GoogleProfile) (model.User, error) {
	avatar := profile.Picture
	if avatar != "" && api.Deps != nil && api.Deps.Cloudinary != nil {
		hosted, err := api.Deps.Cloudinary.MirrorAvatar(ctx, avatar, profile.Subject)
		if err != nil {
			log.Printf("unable to mirror avatar for %s: %v", profile.Subject, err)
		} else {
			avatar = hosted
		}
	}

	user := model.User{
		ID:           util.GenerateUUID(),
		GoogleID:     profile.Subject,
		Email:        profile.Email,
		AuthProvider: "google",
		IsVerified:   profile.VerifiedEmail,
	}
	if profile.Name != "" {
		user.Name = &profile.Name
	}
	if avatar != "" {
		user.AvatarURL = &avatar
	}

	return api.Users.UpsertGoogleUser(ctx, user)
}

func (api *API) setSessionCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     values.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (api *API) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     values.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}
