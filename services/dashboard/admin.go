package dashboard

import (
	"context"
	"fmt"

	"platter/models"

	"go.uber.org/zap"
)

// AdminView is the admin dashboard with the restored selection resolved
// against the fetched lists.
type AdminView struct {
	State              models.DashboardState      `json:"state"`
	Restaurants        []models.RestaurantSummary `json:"restaurants"`
	Unverified         []models.RestaurantSummary `json:"unverified"`
	Customers          []models.Customer          `json:"customers"`
	SelectedRestaurant *models.RestaurantSummary  `json:"selectedRestaurant"`
	SelectedCustomer   *models.Customer           `json:"selectedCustomer"`
}

// Decision is the outcome of a verification decision.
type Decision struct {
	Message    string                     `json:"message"`
	Unverified []models.RestaurantSummary `json:"unverified"`
}

// Admin loads both lists and resolves the actor's saved selection. A selected
// id that is no longer listed resolves to nothing.
func (s *Service) Admin(ctx context.Context, actor models.Actor) (*AdminView, error) {
	restaurants, err := s.admin.Restaurants(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load restaurants: %w", err)
	}
	customers, err := s.admin.Customers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load customers: %w", err)
	}
	if restaurants == nil {
		restaurants = []models.RestaurantSummary{}
	}
	if customers == nil {
		customers = []models.Customer{}
	}

	s.mu.Lock()
	s.restaurants[actor.ID] = restaurants
	s.mu.Unlock()

	view := &AdminView{
		State:       s.LoadState(ctx, actor.ID, TabRestaurants),
		Restaurants: restaurants,
		Unverified:  Unverified(restaurants),
		Customers:   customers,
	}
	for i := range restaurants {
		if restaurants[i].ID == view.State.SelectedRestaurantID {
			view.SelectedRestaurant = &restaurants[i]
			break
		}
	}
	for i := range customers {
		if customers[i].ID == view.State.SelectedCustomerID {
			view.SelectedCustomer = &customers[i]
			break
		}
	}
	return view, nil
}

// Decide submits a verification decision and re-filters the admin's cached
// list: an approved restaurant becomes verified, a rejected one is dropped.
func (s *Service) Decide(ctx context.Context, actor models.Actor, restaurantID string, verified bool) (*Decision, error) {
	msg, err := s.admin.VerifyRestaurant(ctx, restaurantID, verified)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	list, ok := s.restaurants[actor.ID]
	if ok {
		updated := make([]models.RestaurantSummary, 0, len(list))
		for _, r := range list {
			if r.ID == restaurantID {
				if !verified {
					continue
				}
				r.Verified = true
			}
			updated = append(updated, r)
		}
		s.restaurants[actor.ID] = updated
		list = updated
	}
	s.mu.Unlock()

	if !ok {
		list, err = s.admin.Restaurants(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to reload restaurants: %w", err)
		}
		s.mu.Lock()
		s.restaurants[actor.ID] = list
		s.mu.Unlock()
	}

	s.logger.Info("Verification decision recorded",
		zap.String("actorID", actor.ID), zap.String("restaurantID", restaurantID), zap.Bool("verified", verified))
	return &Decision{Message: msg, Unverified: Unverified(list)}, nil
}
