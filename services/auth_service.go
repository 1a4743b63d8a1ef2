package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/anjiri1684/agriconnect/apperror"
	"github.com/anjiri1684/agriconnect/models"
	"github.com/anjiri1684/agriconnect/repository"
	"github.com/anjiri1684/agriconnect/revocation"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthEventType string

const (
	AuthSignedUp  AuthEventType = "signed_up"
	AuthSignedIn  AuthEventType = "signed_in"
	AuthSignedOut AuthEventType = "signed_out"
)

type AuthEvent struct {
	Type    AuthEventType
	User    *models.User
	Session *models.Session
}

type AuthOptions struct {
	Secret   []byte
	TokenTTL time.Duration
	Now      func() time.Time
}

type AuthService struct {
	users    repository.UserRepository
	denylist revocation.Denylist
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
	logger   *slog.Logger

	mu          sync.RWMutex
	nextSubID   int
	subscribers map[int]func(AuthEvent)
}

func NewAuthService(users repository.UserRepository, denylist revocation.Denylist, logger *slog.Logger, opts AuthOptions) *AuthService {
	ttl := opts.TokenTTL
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	return &AuthService{
		users:       users,
		denylist:    denylist,
		secret:      opts.Secret,
		ttl:         ttl,
		now:         systemClock(opts.Now),
		logger:      logger,
		subscribers: make(map[int]func(AuthEvent)),
	}
}

// Secret is the HS256 signing key, shared with the JWT middleware.
func (s *AuthService) Secret() []byte { return s.secret }

// Subscribe registers fn for session changes and returns a function removing it.
func (s *AuthService) Subscribe(fn func(AuthEvent)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

func (s *AuthService) emit(ev AuthEvent) {
	s.mu.RLock()
	fns := make([]func(AuthEvent), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
}

func (s *AuthService) SignUp(ctx context.Context, email, password string, meta models.UserMetadata) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	meta.FullName = strings.TrimSpace(meta.FullName)
	if meta.Role == "" {
		meta.Role = models.RoleFarmer
	}

	switch {
	case email == "" || !strings.Contains(email, "@"):
		return nil, apperror.Validation("a valid email is required")
	case len(password) < 6:
		return nil, apperror.Validation("password must be at least 6 characters")
	case meta.FullName == "":
		return nil, apperror.Validation("full name is required")
	case !meta.Role.SelfService():
		return nil, apperror.Validation("user type must be farmer or expert")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Collaborator("Failed to hash password", err)
	}

	user := &models.User{
		FullName:  meta.FullName,
		Email:     email,
		Password:  string(hashed),
		Role:      meta.Role,
		AvatarURL: meta.AvatarURL,
		Location:  meta.Location,
		FarmType:  meta.FarmType,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.Conflict("Email already exists")
		}
		return nil, storeFailure("Failed to create user", err)
	}

	s.logger.Info("user signed up", "user_id", user.ID, "role", user.Role)
	s.emit(AuthEvent{Type: AuthSignedUp, User: user})
	return user, nil
}

func (s *AuthService) SignIn(ctx context.Context, email, password string) (string, *models.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	invalid := apperror.Unauthenticated("Invalid email or password")

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return "", nil, invalid
	}
	if err != nil {
		return "", nil, storeFailure("Failed to load user", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, invalid
	}

	now := s.now()
	session := &models.Session{
		UserID:    user.ID,
		Email:     user.Email,
		Metadata:  user.Metadata(),
		TokenID:   uuid.NewString(),
		ExpiresAt: now.Add(s.ttl),
	}

	claims := jwt.MapClaims{
		"user_id":   user.ID.String(),
		"email":     user.Email,
		"role":      string(user.Role),
		"full_name": user.FullName,
		"jti":       session.TokenID,
		"iat":       now.Unix(),
		"exp":       session.ExpiresAt.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, apperror.Collaborator("Failed to create token", err)
	}

	s.logger.Info("user signed in", "user_id", user.ID)
	s.emit(AuthEvent{Type: AuthSignedIn, User: user, Session: session})
	return token, session, nil
}

// SignOut revokes the session's token until it would have expired anyway.
func (s *AuthService) SignOut(ctx context.Context, session *models.Session) error {
	if session == nil {
		return errUnauthenticated()
	}
	if err := s.denylist.Revoke(ctx, session.TokenID, session.ExpiresAt); err != nil {
		return apperror.Collaborator("Failed to sign out", err)
	}
	s.logger.Info("user signed out", "user_id", session.UserID)
	s.emit(AuthEvent{Type: AuthSignedOut, Session: session})
	return nil
}

func (s *AuthService) CurrentUser(ctx context.Context, session *models.Session) (*models.User, error) {
	if session == nil {
		return nil, nil
	}
	user, err := s.users.FindByID(ctx, session.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.NotFound("User not found")
	}
	if err != nil {
		return nil, storeFailure("Failed to load user", err)
	}
	return user, nil
}

// ProfileUpdate carries the editable profile fields. Nil fields are left unchanged.
type ProfileUpdate struct {
	FullName  *string
	AvatarURL *string
	Location  *string
	FarmType  *string
}

func (s *AuthService) UpdateProfile(ctx context.Context, session *models.Session, upd ProfileUpdate) (*models.User, error) {
	user, err := s.CurrentUser(ctx, session)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errUnauthenticated()
	}

	if upd.FullName != nil {
		name := strings.TrimSpace(*upd.FullName)
		if name == "" {
			return nil, apperror.Validation("full name cannot be empty")
		}
		user.FullName = name
	}
	if upd.AvatarURL != nil {
		user.AvatarURL = emptyToNil(*upd.AvatarURL)
	}
	if upd.Location != nil {
		user.Location = emptyToNil(*upd.Location)
	}
	if upd.FarmType != nil {
		user.FarmType = emptyToNil(*upd.FarmType)
	}

	if err := s.users.UpdateProfile(ctx, user); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, storeFailure("Failed to update profile", err)
	}
	return user, nil
}

func emptyToNil(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

// ParseToken verifies a raw bearer token and returns its session.
func (s *AuthService) ParseToken(ctx context.Context, raw string) (*models.Session, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperror.Unauthenticated("Invalid or expired JWT")
	}
	return s.Authorize(ctx, token)
}

// Authorize turns an already verified token into a session, rejecting revoked tokens.
func (s *AuthService) Authorize(ctx context.Context, token *jwt.Token) (*models.Session, error) {
	session, err := sessionFromClaims(token)
	if err != nil {
		return nil, err
	}
	revoked, err := s.denylist.Revoked(ctx, session.TokenID)
	if err != nil {
		return nil, apperror.Collaborator("Failed to check token", err)
	}
	if revoked {
		return nil, apperror.Unauthenticated("Token has been revoked")
	}
	return session, nil
}

func sessionFromClaims(token *jwt.Token) (*models.Session, error) {
	bad := apperror.Unauthenticated("Invalid or expired JWT")

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, bad
	}
	rawID, _ := claims["user_id"].(string)
	userID, err := uuid.Parse(rawID)
	if err != nil {
		return nil, bad
	}
	jti, _ := claims["jti"].(string)
	if jti == "" {
		return nil, bad
	}
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	name, _ := claims["full_name"].(string)

	session := &models.Session{
		UserID:  userID,
		Email:   email,
		TokenID: jti,
		Metadata: models.UserMetadata{
			FullName: name,
			Role:     models.Role(role),
		},
	}
	if exp, ok := claims["exp"].(float64); ok {
		session.ExpiresAt = time.Unix(int64(exp), 0)
	}
	return session, nil
}
