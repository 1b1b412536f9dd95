package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	kvRepo "platter/database/repository/kv"
	"platter/models"
	"platter/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const sessionKeyPrefix = "session:"

var (
	// ErrSessionNotFound is returned when a console token points at no stored session.
	ErrSessionNotFound = errors.New("session not found")
	// ErrUnknownRole is returned for a login with a role that cannot sign in.
	ErrUnknownRole = errors.New("unknown role")
)

// Key is the store key of a console session.
func Key(id string) string { return sessionKeyPrefix + id }

// CustomerAuth is the customer slice of the backend the store signs in against.
type CustomerAuth interface {
	Profile(ctx context.Context) (*models.Customer, error)
	Login(ctx context.Context, creds models.Credentials) (*models.Customer, error)
	Logout(ctx context.Context) error
}

// RestaurantAuth is the restaurant slice of the backend.
type RestaurantAuth interface {
	Profile(ctx context.Context) (*models.RestaurantProfile, error)
	Login(ctx context.Context, creds models.Credentials) (*models.RestaurantProfile, error)
	Logout(ctx context.Context) error
}

// AdminAuth is the admin slice of the backend.
type AdminAuth interface {
	Profile(ctx context.Context) (*models.Actor, error)
	Login(ctx context.Context, creds models.Credentials) (*models.Actor, error)
	Logout(ctx context.Context) error
}

// Backends groups the role APIs. They are tried in field order.
type Backends struct {
	Customer   CustomerAuth
	Restaurant RestaurantAuth
	Admin      AdminAuth
}

// Client describes where a console session was opened from.
type Client struct {
	DeviceID string `json:"deviceId,omitempty"`
	IP       string `json:"ip,omitempty"`
}

// Session is a console session: who is signed in and from where.
type Session struct {
	ID            string       `json:"id"`
	Actor         models.Actor `json:"actor"`
	Client        Client       `json:"client"`
	CreatedAt     time.Time    `json:"createdAt"`
	LastUpdatedAt time.Time    `json:"lastUpdatedAt"`
}

// Authenticated reports whether the session carries a signed-in actor.
func (s Session) Authenticated() bool {
	return s.Actor.Role.Valid()
}

// Result is a session plus the console token that refers to it.
type Result struct {
	Session   Session   `json:"session"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Store is the application's auth context. Only Bootstrap, Login and Logout
// change who is signed in.
type Store struct {
	backends Backends
	cache    kvRepo.Store
	ttl      time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

func NewStore(backends Backends, cache kvRepo.Store, ttl time.Duration, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		backends: backends,
		cache:    cache,
		ttl:      ttl,
		logger:   logger.Named("session"),
		now:      time.Now,
	}
}

// Get loads a stored session.
func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	var sess Session
	err := s.cache.Get(ctx, Key(id), &sess)
	if errors.Is(err, kvRepo.ErrNotFound) || errors.Is(err, kvRepo.ErrVersionMismatch) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return &sess, nil
}

// Bootstrap resolves who the caller is. A still-valid session is returned as
// is; otherwise the backend is tried customer, restaurant, then admin and the
// first profile that answers wins. No answer leaves the session anonymous.
func (s *Store) Bootstrap(ctx context.Context, existingID string, client Client) (*Result, error) {
	if existingID != "" {
		sess, err := s.Get(ctx, existingID)
		if err == nil {
			return s.issue(*sess)
		}
		if !errors.Is(err, ErrSessionNotFound) {
			return nil, err
		}
	}

	actor := s.detect(ctx)
	now := s.now()
	sess := Session{ID: uuid.NewString(), Actor: actor, Client: client, CreatedAt: now, LastUpdatedAt: now}
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}
	s.logger.Info("Console session bootstrapped", zap.String("sessionID", sess.ID), zap.String("role", string(actor.Role)))
	return s.issue(sess)
}

func (s *Store) detect(ctx context.Context) models.Actor {
	if s.backends.Customer != nil {
		c, err := s.backends.Customer.Profile(ctx)
		if err == nil {
			return customerActor(c)
		}
		s.logger.Debug("Customer lookup failed", zap.Error(err))
	}
	if s.backends.Restaurant != nil {
		r, err := s.backends.Restaurant.Profile(ctx)
		if err == nil {
			return restaurantActor(r)
		}
		s.logger.Debug("Restaurant lookup failed", zap.Error(err))
	}
	if s.backends.Admin != nil {
		a, err := s.backends.Admin.Profile(ctx)
		if err == nil {
			return adminActor(a)
		}
		s.logger.Debug("Admin lookup failed", zap.Error(err))
	}
	return models.Actor{Role: models.RoleAnonymous}
}

// Login signs in with role. On success the session under existingID, if any,
// is replaced by a new one.
func (s *Store) Login(ctx context.Context, existingID string, role models.Role, creds models.Credentials, client Client) (*Result, error) {
	var actor models.Actor
	switch role {
	case models.RoleCustomer:
		c, err := s.backends.Customer.Login(ctx, creds)
		if err != nil {
			return nil, err
		}
		actor = customerActor(c)
	case models.RoleRestaurant:
		r, err := s.backends.Restaurant.Login(ctx, creds)
		if err != nil {
			return nil, err
		}
		actor = restaurantActor(r)
	case models.RoleAdmin:
		a, err := s.backends.Admin.Login(ctx, creds)
		if err != nil {
			return nil, err
		}
		actor = adminActor(a)
	default:
		return nil, ErrUnknownRole
	}

	if existingID != "" {
		if err := s.cache.Delete(ctx, Key(existingID)); err != nil {
			s.logger.Warn("Failed to drop previous session", zap.String("sessionID", existingID), zap.Error(err))
		}
	}
	now := s.now()
	sess := Session{ID: uuid.NewString(), Actor: actor, Client: client, CreatedAt: now, LastUpdatedAt: now}
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}
	s.logger.Info("Console login", zap.String("sessionID", sess.ID), zap.String("role", string(role)), zap.String("actorID", actor.ID))
	return s.issue(sess)
}

// Logout ends the session. The local session is always removed; a backend
// logout failure is returned after that.
func (s *Store) Logout(ctx context.Context, id string) error {
	sess, err := s.Get(ctx, id)
	if errors.Is(err, ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	var backendErr error
	switch sess.Actor.Role {
	case models.RoleCustomer:
		backendErr = s.backends.Customer.Logout(ctx)
	case models.RoleRestaurant:
		backendErr = s.backends.Restaurant.Logout(ctx)
	case models.RoleAdmin:
		backendErr = s.backends.Admin.Logout(ctx)
	}

	if err := s.cache.Delete(ctx, Key(id)); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if backendErr != nil {
		s.logger.Warn("Backend logout failed", zap.String("sessionID", id), zap.Error(backendErr))
		return backendErr
	}
	return nil
}

func (s *Store) save(ctx context.Context, sess Session) error {
	if err := s.cache.Set(ctx, Key(sess.ID), sess); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *Store) issue(sess Session) (*Result, error) {
	token, err := utils.GenerateToken(sess.ID, string(sess.Actor.Role), s.ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to sign console token: %w", err)
	}
	return &Result{Session: sess, Token: token, ExpiresAt: s.now().Add(s.ttl)}, nil
}

func customerActor(c *models.Customer) models.Actor {
	return models.Actor{ID: c.ID, Name: c.Name, Email: c.Email, Role: models.RoleCustomer}
}

func restaurantActor(r *models.RestaurantProfile) models.Actor {
	return models.Actor{ID: r.ID, Name: r.Name, Email: r.Email, Role: models.RoleRestaurant}
}

func adminActor(a *models.Actor) models.Actor {
	out := *a
	out.Role = models.RoleAdmin
	return out
}
