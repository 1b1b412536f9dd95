package dashboard

import (
	"context"
	"fmt"

	"platter/models"
)

// RestaurantView is the partner dashboard.
type RestaurantView struct {
	State         models.DashboardState     `json:"state"`
	Profile       *models.RestaurantProfile `json:"profile"`
	Orders        []models.Order            `json:"orders"`
	SelectedOrder *models.Order             `json:"selectedOrder"`
}

func (s *Service) Restaurant(ctx context.Context, actor models.Actor) (*RestaurantView, error) {
	profile, err := s.restaurant.Profile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load restaurant profile: %w", err)
	}
	orders, err := s.restaurant.Orders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}
	if orders == nil {
		orders = []models.Order{}
	}

	view := &RestaurantView{
		State:   s.LoadState(ctx, actor.ID, TabOrders),
		Profile: profile,
		Orders:  orders,
	}
	for i := range orders {
		if orders[i].ID == view.State.SelectedOrderID {
			view.SelectedOrder = &orders[i]
			break
		}
	}
	return view, nil
}

// UpdateOrderStatus forwards a status change for one of the restaurant's orders.
func (s *Service) UpdateOrderStatus(ctx context.Context, orderID, status string) (string, error) {
	return s.restaurant.UpdateOrderStatus(ctx, orderID, status)
}
