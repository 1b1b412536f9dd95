package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	kvRepo "platter/database/repository/kv"
	"platter/models"

	"go.uber.org/zap"
)

const (
	stateKeyPrefix      = "dashboard:"
	loginDraftKeyPrefix = "login-draft:"
)

// ErrInvalidTab is returned when a saved state names a tab the dashboard lacks.
var ErrInvalidTab = errors.New("invalid dashboard tab")

// Admin tabs.
const (
	TabRestaurants = "restaurants"
	TabPending     = "pending"
	TabCustomers   = "customers"
)

// Restaurant tabs.
const (
	TabOrders  = "orders"
	TabMenu    = "menu"
	TabProfile = "profile"
)

var (
	adminTabs      = []string{TabRestaurants, TabPending, TabCustomers}
	restaurantTabs = []string{TabOrders, TabMenu, TabProfile}
)

// StateKey is the store key of an actor's dashboard selection.
func StateKey(actorID string) string { return stateKeyPrefix + actorID }

// LoginDraftKey is the store key of a device's pending login form.
func LoginDraftKey(deviceID string) string { return loginDraftKeyPrefix + deviceID }

type AdminBackend interface {
	Restaurants(ctx context.Context) ([]models.RestaurantSummary, error)
	Customers(ctx context.Context) ([]models.Customer, error)
	VerifyRestaurant(ctx context.Context, id string, verified bool) (string, error)
}

type RestaurantBackend interface {
	Profile(ctx context.Context) (*models.RestaurantProfile, error)
	Orders(ctx context.Context) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID, status string) (string, error)
}

// Service serves the admin and restaurant dashboards. Fetched restaurant lists
// are cached per admin so a verification decision can re-filter without a
// refetch.
type Service struct {
	admin      AdminBackend
	restaurant RestaurantBackend
	store      kvRepo.Store
	logger     *zap.Logger

	mu          sync.Mutex
	restaurants map[string][]models.RestaurantSummary
}

func NewService(admin AdminBackend, restaurant RestaurantBackend, store kvRepo.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		admin:       admin,
		restaurant:  restaurant,
		store:       store,
		logger:      logger.Named("dashboard"),
		restaurants: make(map[string][]models.RestaurantSummary),
	}
}

// Unverified is the pending-verification view of list.
func Unverified(list []models.RestaurantSummary) []models.RestaurantSummary {
	out := make([]models.RestaurantSummary, 0)
	for _, r := range list {
		if !r.Verified {
			out = append(out, r)
		}
	}
	return out
}

func validTab(tab string, tabs []string) bool {
	for _, t := range tabs {
		if t == tab {
			return true
		}
	}
	return false
}

// LoadState restores an actor's selection. A missing or unreadable state
// yields the empty state with defaultTab.
func (s *Service) LoadState(ctx context.Context, actorID, defaultTab string) models.DashboardState {
	var state models.DashboardState
	err := s.store.Get(ctx, StateKey(actorID), &state)
	if err != nil {
		if !errors.Is(err, kvRepo.ErrNotFound) {
			s.logger.Warn("Failed to restore dashboard state", zap.String("actorID", actorID), zap.Error(err))
		}
		state = models.DashboardState{}
	}
	if state.ActiveTab == "" {
		state.ActiveTab = defaultTab
	}
	return state
}

// SaveState persists an actor's selection.
func (s *Service) SaveState(ctx context.Context, actor models.Actor, state models.DashboardState) error {
	tabs := adminTabs
	if actor.Role == models.RoleRestaurant {
		tabs = restaurantTabs
	}
	if state.ActiveTab != "" && !validTab(state.ActiveTab, tabs) {
		return ErrInvalidTab
	}
	if err := s.store.Set(ctx, StateKey(actor.ID), state); err != nil {
		return fmt.Errorf("failed to save dashboard state: %w", err)
	}
	return nil
}

// LoadLoginDraft restores a device's pending login form.
func (s *Service) LoadLoginDraft(ctx context.Context, deviceID string) (models.LoginDraft, error) {
	var draft models.LoginDraft
	err := s.store.Get(ctx, LoginDraftKey(deviceID), &draft)
	if errors.Is(err, kvRepo.ErrNotFound) || errors.Is(err, kvRepo.ErrVersionMismatch) {
		return models.LoginDraft{}, nil
	}
	if err != nil {
		return models.LoginDraft{}, fmt.Errorf("failed to load login draft: %w", err)
	}
	return draft, nil
}

// SaveLoginDraft persists a device's pending login form. Only role and email
// are kept.
func (s *Service) SaveLoginDraft(ctx context.Context, deviceID string, draft models.LoginDraft) error {
	if err := s.store.Set(ctx, LoginDraftKey(deviceID), models.LoginDraft{Role: draft.Role, Email: draft.Email}); err != nil {
		return fmt.Errorf("failed to save login draft: %w", err)
	}
	return nil
}

// ClearLoginDraft drops a device's login draft, typically after a successful login.
func (s *Service) ClearLoginDraft(ctx context.Context, deviceID string) error {
	return s.store.Delete(ctx, LoginDraftKey(deviceID))
}
