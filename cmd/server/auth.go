package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-pkgz/auth/v2/token"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/icco/pokejournal"
	"go.uber.org/zap"
)

// Define context key type to avoid collisions
type contextKey string

const (
	userContextKey   contextKey = "user"
	claimsContextKey contextKey = "claims"

	sessionCookie   = "tokenPokemonJournal"
	sessionDuration = 30 * 24 * time.Hour
	tokenIssuer     = "pokejournal"
)

var errTokenExpired = errors.New("token expired")

type authenticator struct {
	tokens  *token.Service
	revoker Revoker
	store   *pokejournal.Store
}

func newAuthenticator(store *pokejournal.Store, secret string, secureCookies bool, revoker Revoker) *authenticator {
	tokens := token.NewService(token.Opts{
		SecretReader:   token.SecretFunc(func(aud string) (string, error) { return secret, nil }),
		TokenDuration:  sessionDuration,
		CookieDuration: sessionDuration,
		Issuer:         tokenIssuer,
		JWTCookieName:  sessionCookie,
		SecureCookies:  secureCookies,
		DisableXSRF:    true, // the SPA only sends the cookie
	})

	return &authenticator{tokens: tokens, revoker: revoker, store: store}
}

func (a *authenticator) routes() http.Handler {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		// Allow 10 requests in flight, with a short backlog, for credential checks.
		r.Use(middleware.ThrottleBacklog(10, 50, 60*time.Second))
		r.Post("/signup", a.signupHandler)
		r.Post("/login", a.loginHandler)
	})

	r.Group(func(r chi.Router) {
		r.Use(a.middleware)
		r.Get("/me", a.meHandler)
		r.Post("/logout", a.logoutHandler)
	})

	return r
}

// SignupRequest is a new account.
type SignupRequest struct {
	Email     string `json:"email" example:"ash@example.com"`
	Password  string `json:"password" example:"pikachu1"`
	FirstName string `json:"firstName" example:"Ash"`
	LastName  string `json:"lastName" example:"Ketchum"`
}

// LoginRequest holds credentials.
type LoginRequest struct {
	Email    string `json:"email" example:"ash@example.com"`
	Password string `json:"password" example:"pikachu1"`
}

// UserResponse wraps a user.
type UserResponse struct {
	Message string            `json:"message,omitempty"`
	User    *pokejournal.User `json:"user"`
}

// LoginResponse carries the session token for clients that cannot use the
// cookie.
type LoginResponse struct {
	Message string            `json:"message"`
	Token   string            `json:"token"`
	User    *pokejournal.User `json:"user"`
}

// @Summary Sign up
// @Description Create an account with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param user body SignupRequest true "New account"
// @Success 201 {object} UserResponse
// @Failure 400 {object} MessageResponse
// @Failure 500 {object} MessageResponse
// @Router /api/auth/signup [post]
func (a *authenticator) signupHandler(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := a.store.Signup(r.Context(), pokejournal.SignupInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		var ve *pokejournal.ValidationError
		if errors.As(err, &ve) {
			log.Warnw("signup rejected", "reason", ve.Message, "remote_addr", r.RemoteAddr)
			renderMessage(w, http.StatusBadRequest, ve.Message)
			return
		}
		log.Errorw("failed to create user", "remote_addr", r.RemoteAddr, zap.Error(err))
		renderMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	log.Infow("user registered successfully", "user_id", user.ID, "remote_addr", r.RemoteAddr)
	renderJSON(w, http.StatusCreated, UserResponse{Message: "User created successfully", User: user})
}

// @Summary Log in
// @Description Log in with email and password. Sets the session cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param user body LoginRequest true "Credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} MessageResponse
// @Failure 500 {object} MessageResponse
// @Router /api/auth/login [post]
func (a *authenticator) loginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := a.store.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		var ve *pokejournal.ValidationError
		if errors.As(err, &ve) {
			log.Warnw("login rejected", "remote_addr", r.RemoteAddr)
			renderMessage(w, http.StatusBadRequest, ve.Message)
			return
		}
		log.Errorw("failed to authenticate", zap.Error(err))
		renderMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	tkn, err := a.startSession(w, user)
	if err != nil {
		log.Errorw("failed to generate token", zap.Error(err))
		renderMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	log.Infow("user logged in successfully", "user_id", user.ID, "remote_addr", r.RemoteAddr)
	renderJSON(w, http.StatusOK, LoginResponse{Message: "Login successful", Token: tkn, User: user})
}

// @Summary Current user
// @Description Returns the user owning the session
// @Tags auth
// @Produce json
// @Security CookieAuth
// @Success 200 {object} UserResponse
// @Failure 401 {object} MessageResponse
// @Router /api/auth/me [get]
func (a *authenticator) meHandler(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, http.StatusOK, UserResponse{User: getMustUserFromContext(r)})
}

// @Summary Log out
// @Description Clears the session cookie and revokes the token
// @Tags auth
// @Produce json
// @Security CookieAuth
// @Success 200 {object} MessageResponse
// @Failure 500 {object} MessageResponse
// @Router /api/auth/logout [post]
func (a *authenticator) logoutHandler(w http.ResponseWriter, r *http.Request) {
	if claims, ok := r.Context().Value(claimsContextKey).(token.Claims); ok && claims.ID != "" {
		until := time.Now().Add(sessionDuration)
		if claims.ExpiresAt != nil {
			until = claims.ExpiresAt.Time
		}
		if err := a.revoker.Revoke(r.Context(), claims.ID, until); err != nil {
			log.Errorw("failed to revoke session", zap.Error(err))
			renderMessage(w, http.StatusInternalServerError, "Internal server error")
			return
		}
	}

	a.tokens.Reset(w)
	renderMessage(w, http.StatusOK, "Logout successful")
}

// startSession sets the session cookie for user and returns the token.
func (a *authenticator) startSession(w http.ResponseWriter, user *pokejournal.User) (string, error) {
	now := time.Now()
	id := strconv.FormatInt(user.ID, 10)
	claims := token.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    tokenIssuer,
			Subject:   id,
			Audience:  []string{tokenIssuer},
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionDuration)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		User: &token.User{
			ID:    id,
			Name:  user.Username,
			Email: user.Email,
		},
	}

	if _, err := a.tokens.Set(w, claims); err != nil {
		return "", fmt.Errorf("set session cookie: %w", err)
	}
	return a.tokens.Token(claims)
}

// sessionClaims reads the token from an Authorization bearer header or the
// session cookie.
func (a *authenticator) sessionClaims(r *http.Request) (token.Claims, error) {
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return a.tokens.Parse(strings.TrimPrefix(header, "Bearer "))
	}
	claims, _, err := a.tokens.Get(r)
	return claims, err
}

func (a *authenticator) currentUser(r *http.Request) (*pokejournal.User, token.Claims, error) {
	claims, err := a.sessionClaims(r)
	if err != nil {
		return nil, claims, err
	}
	if claims.ExpiresAt == nil || !claims.ExpiresAt.After(time.Now()) {
		return nil, claims, errTokenExpired
	}
	if claims.User == nil {
		return nil, claims, fmt.Errorf("token has no user")
	}

	revoked, err := a.revoker.IsRevoked(r.Context(), claims.ID)
	if err != nil {
		return nil, claims, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, claims, fmt.Errorf("token %s was revoked", claims.ID)
	}

	userID, err := strconv.ParseInt(claims.User.ID, 10, 64)
	if err != nil {
		return nil, claims, fmt.Errorf("bad user id in token: %w", err)
	}
	user, err := a.store.GetUser(r.Context(), userID)
	if err != nil {
		return nil, claims, err
	}
	return user, claims, nil
}

// middleware rejects requests without a live session.
func (a *authenticator) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, claims, err := a.currentUser(r)
		if err != nil {
			if !pokejournal.IsNotFound(err) && !errors.Is(err, errTokenExpired) {
				log.Warnw("authentication failed", "path", r.URL.Path, "error", err.Error())
			}
			renderMessage(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		ctx = context.WithValue(ctx, claimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Helper to get user from request context
func getUserFromContext(r *http.Request) *pokejournal.User {
	if user, ok := r.Context().Value(userContextKey).(*pokejournal.User); ok && user != nil {
		return user
	}
	return nil
}

// Helper to get user from request context with panic on nil (for protected routes)
func getMustUserFromContext(r *http.Request) *pokejournal.User {
	user := getUserFromContext(r)
	if user == nil {
		panic("user is nil in protected route - auth middleware failed")
	}
	return user
}
