package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"inkwell/internal/handler/http/middleware"
	"inkwell/internal/handler/http/respond"
	"inkwell/internal/observability/logging"
	authservice "inkwell/internal/service/auth"
	"inkwell/internal/usecase/activity"
)

type loginRequest struct {
	Username string `json:"username" example:"admin"`
	Password string `json:"password" example:"your_password"`
}

// TokenDTO is returned by a successful login.
type TokenDTO struct {
	Token     string     `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	ExpiresAt time.Time  `json:"expires_at"`
	User      ProfileDTO `json:"user"`
}

// LoginHandler authenticates the admin account and issues a JWT.
type LoginHandler struct {
	Svc      *authservice.AuthService
	Activity *activity.Service
}

// ServeHTTP 管理者ログイン
// @Summary      管理者ログイン
// @Description  ユーザー名とパスワードで認証し、24時間有効な JWT を発行します
// @Tags         admin-auth
// @Accept       json
// @Produce      json
// @Param        request body loginRequest true "ログイン情報"
// @Success      200 {object} respond.Envelope{data=TokenDTO} "JWT トークン"
// @Failure      400 {object} respond.ErrorBody "リクエストが不正"
// @Failure      401 {object} respond.ErrorBody "認証失敗"
// @Failure      429 {object} respond.ErrorBody "Too many requests"
// @Failure      500 {object} respond.ErrorBody "トークン生成失敗"
// @Router       /admin/auth/login [post]
func (h LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	logger := logging.WithRequestID(ctx, logging.FromContext(ctx))

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
		RecordAuthRequest("failure", time.Since(start).Seconds())
		respond.Error(w, http.StatusBadRequest, "username and password are required")
		return
	}

	token, claims, err := h.Svc.Login(ctx, authservice.Credentials{Username: req.Username, Password: req.Password})
	if err != nil {
		RecordAuthRequest("failure", time.Since(start).Seconds())
		if errors.Is(err, authservice.ErrInvalidCredentials) {
			logger.Warn("authentication failed", slog.String("reason", "invalid_credentials"))
			respond.Error(w, http.StatusUnauthorized, "invalid username or password")
			return
		}
		respond.FailWithStatus(w, r, http.StatusInternalServerError, err)
		return
	}

	RecordAuthRequest("success", time.Since(start).Seconds())
	logger.Info("authentication successful",
		slog.String("user", claims.Subject),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))
	h.Activity.Log(ctx, activity.Entry{
		Action:       activity.ActionLogin,
		ResourceType: "admin",
		Actor:        claims.Subject,
		IPAddress:    middleware.RequestIP(r),
		UserAgent:    r.UserAgent(),
	})

	respond.OK(w, http.StatusOK, TokenDTO{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		User:      ProfileDTO{Username: claims.Subject, Role: claims.Role, ExpiresAt: claims.ExpiresAt.Time},
	})
}

// ProfileHandler echoes the claims of the current token.
type ProfileHandler struct{}

// ServeHTTP 管理者プロフィール
// @Summary      ログイン中の管理者
// @Tags         admin-auth
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} respond.Envelope{data=ProfileDTO}
// @Failure      401 {object} respond.ErrorBody
// @Router       /admin/auth/profile [get]
func (ProfileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "missing bearer token")
		return
	}
	out := ProfileDTO{Username: claims.Subject, Role: claims.Role}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	respond.OK(w, http.StatusOK, out)
}
