// Copyright (c) 2026 360Lateral. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth manages the lifecycle of one authenticated session against the
360Lateral backend: login, registration, profile retrieval and logout.

# State Machine

	anonymous -> authenticating -> authenticated -> logging out -> anonymous

The state is not stored as an enum. "Authenticated" means the [session.TokenStore]
holds a usable access token.

# Concurrency

  - Concurrent logins for the same email share one backend round-trip and
    one outcome (singleflight keyed by the normalized email).
  - Concurrent profile fetches share one round-trip.
  - A logout latch makes a second concurrent logout a silent no-op.

A [Service] serves exactly one session. The portal builds one per browser
session; the CLI builds one per process.
*/
package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/apperr"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/constants"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/httpclient"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/ratelimit"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/sec"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/validate"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/session"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/users/account"
)

// # Contracts & Types

// LoginPolicy bounds failed login attempts per email.
type LoginPolicy struct {
	MaxAttempts int
	Window      time.Duration
}

// DefaultLoginPolicy allows five failures per fifteen minutes.
func DefaultLoginPolicy() LoginPolicy {
	return LoginPolicy{
		MaxAttempts: constants.DefaultLoginMaxAttempts,
		Window:      constants.DefaultLoginWindow,
	}
}

// Credentials identify a user at login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Email           string
	Password        string
	PasswordConfirm string
	FirstName       string
	LastName        string
	Phone           string
	Role            sec.Role
}

// Result is the outcome of a successful login or registration.
type Result struct {
	Message string        `json:"message,omitempty"`
	User    *account.User `json:"user"`
	// RedirectTo is the dashboard of the user's role.
	RedirectTo string `json:"redirect_to"`
	// Authenticated is false after a registration that did not open a session.
	Authenticated bool `json:"authenticated"`
}

// authResponse is the backend body of /auth/login/ and /auth/register/.
type authResponse struct {
	Message string        `json:"message"`
	User    *account.User `json:"user"`
	Tokens  *session.Pair `json:"tokens"`
}

// Service is the session manager of one session.
type Service struct {
	client  *httpclient.Client
	tokens  *session.TokenStore
	limiter *ratelimit.Limiter
	policy  LoginPolicy
	logger  *slog.Logger

	inflight   singleflight.Group
	loggingOut atomic.Bool
}

/*
NewService constructs the session manager for tokens.

Parameters:
  - client: *httpclient.Client (rebound to tokens)
  - tokens: *session.TokenStore
  - limiter: *ratelimit.Limiter (shared between sessions, may be nil)
  - policy: LoginPolicy (zero value selects [DefaultLoginPolicy])
  - logger: *slog.Logger

Returns:
  - *Service
*/
func NewService(
	client *httpclient.Client,
	tokens *session.TokenStore,
	limiter *ratelimit.Limiter,
	policy LoginPolicy,
	logger *slog.Logger,
) *Service {
	if policy.MaxAttempts < 1 || policy.Window <= 0 {
		policy = DefaultLoginPolicy()
	}

	return &Service{
		client:  client.WithTokens(tokens),
		tokens:  tokens,
		limiter: limiter,
		policy:  policy,
		logger:  logger,
	}
}

// Client returns the backend client bound to this session's tokens.
func (service *Service) Client() *httpclient.Client { return service.client }

// IsAuthenticated reports whether a usable access token is stored.
func (service *Service) IsAuthenticated(ctx context.Context) bool {
	return service.tokens.UsableAccessToken(ctx) != ""
}

// # Authentication Flow

/*
Login authenticates against the backend and establishes the session.

Concurrent calls for the same email share one backend request and one
outcome. On failure, stored tokens are left untouched.

Parameters:
  - ctx: context.Context
  - credentials: Credentials

Returns:
  - *Result: user and dashboard redirect
  - error: Validation, RateLimited, HTTP, Network, Timeout or MalformedResponse
*/
func (service *Service) Login(ctx context.Context, credentials Credentials) (*Result, error) {

	// ── 1. Local validation ──
	validator := &validate.Validator{}
	validator.Required(FieldEmail, credentials.Email).
		Required(FieldPassword, credentials.Password)

	if strings.TrimSpace(credentials.Email) != "" {
		validator.Email(FieldEmail, strings.TrimSpace(credentials.Email))
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	email := normalizeEmail(credentials.Email)

	// ── 2. Single flight per email ──
	// The flight outlives a cancelled first caller; the client timeout bounds it.
	flightCtx := context.WithoutCancel(ctx)
	value, err, shared := service.inflight.Do(flightLoginPrefix+email, func() (any, error) {
		return service.login(flightCtx, email, credentials.Password)
	})
	if shared {
		service.logger.DebugContext(ctx, "login_request_shared", slog.String("email", email))
	}
	if err != nil {
		return nil, err
	}

	return value.(*Result), nil
}

// login performs the throttled backend round-trip of [Service.Login].
func (service *Service) login(ctx context.Context, email, password string) (*Result, error) {
	rateKey := constants.LoginRateKeyPrefix + email

	// ── 1. Throttle ──
	if blocked, wait := service.loginBlocked(ctx, rateKey); blocked {
		return nil, apperr.RateLimited(int(wait.Round(time.Second).Seconds()))
	}

	// ── 2. Backend call ──
	var response authResponse
	err := service.client.Post(ctx, constants.PathLogin,
		Credentials{Email: email, Password: password}, &response, httpclient.WithoutAuth())

	if err != nil {
		if rejectedCredentials(err) {
			service.recordFailure(ctx, rateKey)
		}
		service.logger.InfoContext(ctx, "login_failed", slog.String("email", email), slog.Any("error", err))
		return nil, err
	}

	// ── 3. Accept only complete answers ──
	if response.Tokens == nil || !response.Tokens.Complete() || response.User == nil {
		return nil, apperr.MalformedResponse("Login response is missing tokens or user", nil)
	}

	if err := service.tokens.Establish(ctx, *response.Tokens, response.User); err != nil {
		return nil, apperr.Internal(err)
	}

	service.resetFailures(ctx, rateKey)
	service.logger.InfoContext(ctx, "login_succeeded",
		slog.String("user_id", response.User.ID.String()),
		slog.String("role", string(response.User.Role)),
	)

	return newResult(response), nil
}

/*
Register creates an account. When the backend answers with tokens the new
session is established right away.

Parameters:
  - ctx: context.Context
  - input: RegisterInput

Returns:
  - *Result
  - error
*/
func (service *Service) Register(ctx context.Context, input RegisterInput) (*Result, error) {

	// ── 1. Local validation ──
	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, MinPasswordLength).
		Custom(FieldPasswordConfirm, input.Password != input.PasswordConfirm, "Passwords do not match").
		Required(FieldFirstName, input.FirstName).
		Required(FieldLastName, input.LastName).
		OneOf(FieldRole, string(input.Role), string(sec.RoleOwner), string(sec.RoleDeveloper))

	if strings.TrimSpace(input.Email) != "" {
		validator.Email(FieldEmail, strings.TrimSpace(input.Email))
	}
	if input.Phone != "" {
		validator.Phone(FieldPhone, input.Phone)
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	// ── 2. Backend call ──
	payload := map[string]any{
		FieldEmail:           normalizeEmail(input.Email),
		FieldPassword:        input.Password,
		FieldPasswordConfirm: input.PasswordConfirm,
		FieldFirstName:       strings.TrimSpace(input.FirstName),
		FieldLastName:        strings.TrimSpace(input.LastName),
		FieldRole:            input.Role.BackendName(),
	}
	if input.Phone != "" {
		payload[FieldPhone] = input.Phone
	}

	var response authResponse
	if err := service.client.Post(ctx, constants.PathRegister, payload, &response, httpclient.WithoutAuth()); err != nil {
		return nil, err
	}

	if response.User == nil {
		return nil, apperr.MalformedResponse("Registration response is missing the user", nil)
	}

	// ── 3. Open the session if the backend logged us in ──
	if response.Tokens == nil || !response.Tokens.Complete() {
		result := newResult(response)
		result.Authenticated = false
		return result, nil
	}

	if err := service.tokens.Establish(ctx, *response.Tokens, response.User); err != nil {
		return nil, apperr.Internal(err)
	}

	service.logger.InfoContext(ctx, "registration_succeeded", slog.String("user_id", response.User.ID.String()))
	return newResult(response), nil
}

// # Profile

/*
Profile fetches the authenticated user's profile and caches it.

Without a usable access token it fails with Unauthenticated and makes no
network call. Concurrent calls share one request.
*/
func (service *Service) Profile(ctx context.Context) (*account.User, error) {
	if !service.IsAuthenticated(ctx) {
		return nil, apperr.Unauthenticated("Authentication required")
	}

	flightCtx := context.WithoutCancel(ctx)
	value, err, _ := service.inflight.Do(flightProfile, func() (any, error) {
		var user account.User
		if err := service.client.Get(flightCtx, constants.PathProfile, &user); err != nil {
			return nil, err
		}
		if user.ID == "" {
			return nil, apperr.MalformedResponse("Profile response is missing the user id", nil)
		}

		if err := service.tokens.SetCachedUser(flightCtx, &user); err != nil {
			service.logger.WarnContext(flightCtx, "profile_cache_failed", slog.Any("error", err))
		}
		return &user, nil
	})
	if err != nil {
		return nil, err
	}

	return value.(*account.User), nil
}

// CurrentUser returns the cached profile, fetching it when absent.
//
// The cache is only consulted while the access token is usable.
func (service *Service) CurrentUser(ctx context.Context) (*account.User, error) {
	if !service.IsAuthenticated(ctx) {
		return nil, apperr.Unauthenticated("Authentication required")
	}

	if cached := service.tokens.CachedUser(ctx); cached != nil {
		return cached, nil
	}

	return service.Profile(ctx)
}

// UpdateCachedUser replaces the cached profile, e.g. after a self-edit.
func (service *Service) UpdateCachedUser(ctx context.Context, user *account.User) error {
	return service.tokens.SetCachedUser(ctx, user)
}

// # Logout

/*
Logout ends the session.

The backend logout is best-effort: its failure is logged and swallowed. Local
state is always cleared. A call made while another logout is running returns
immediately without side effects.
*/
func (service *Service) Logout(ctx context.Context) error {
	if !service.loggingOut.CompareAndSwap(false, true) {
		service.logger.DebugContext(ctx, "logout_already_running")
		return nil
	}
	defer service.loggingOut.Store(false)

	// ── 1. Best-effort backend logout ──
	if service.IsAuthenticated(ctx) {
		body := map[string]string{"refresh": service.tokens.RefreshToken(ctx)}
		if err := service.client.Post(ctx, constants.PathLogout, body, nil); err != nil {
			service.logger.WarnContext(ctx, "backend_logout_failed", slog.Any("error", err))
		}
	}

	// ── 2. Local cleanup ──
	if err := service.tokens.Clear(ctx); err != nil {
		return apperr.Internal(err)
	}

	service.logger.InfoContext(ctx, "logout_completed")
	return nil
}

// # Helpers

func newResult(response authResponse) *Result {
	return &Result{
		Message:       response.Message,
		User:          response.User,
		RedirectTo:    response.User.Role.DashboardPath(),
		Authenticated: true,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// rejectedCredentials reports whether the backend refused the credentials,
// as opposed to being unreachable or failing internally.
func rejectedCredentials(err error) bool {
	appErr := apperr.As(err)
	if appErr == nil || appErr.Kind != apperr.KindHTTP {
		return false
	}
	return appErr.HTTPStatus >= http.StatusBadRequest && appErr.HTTPStatus < http.StatusInternalServerError
}

// loginBlocked consults the limiter. Limiter failures let the attempt through.
func (service *Service) loginBlocked(ctx context.Context, key string) (bool, time.Duration) {
	if service.limiter == nil {
		return false, 0
	}

	blocked, err := service.limiter.IsBlocked(ctx, key, service.policy.MaxAttempts, service.policy.Window)
	if err != nil {
		service.logger.WarnContext(ctx, "login_rate_check_failed", slog.Any("error", err))
		return false, 0
	}
	if !blocked {
		return false, 0
	}

	wait, err := service.limiter.RemainingTime(ctx, key, service.policy.Window)
	if err != nil {
		wait = service.policy.Window
	}
	return true, wait
}

func (service *Service) recordFailure(ctx context.Context, key string) {
	if service.limiter == nil {
		return
	}
	if err := service.limiter.RecordAttempt(ctx, key, service.policy.Window); err != nil {
		service.logger.WarnContext(ctx, "login_rate_record_failed", slog.Any("error", err))
	}
}

func (service *Service) resetFailures(ctx context.Context, key string) {
	if service.limiter == nil {
		return
	}
	if err := service.limiter.Reset(ctx, key); err != nil {
		service.logger.WarnContext(ctx, "login_rate_reset_failed", slog.Any("error", err))
	}
}
