package models

// DashboardState is the master-detail selection restored when a dashboard reloads.
type DashboardState struct {
	ActiveTab            string `json:"activeTab"`
	SelectedRestaurantID string `json:"selectedRestaurantId,omitempty"`
	SelectedCustomerID   string `json:"selectedCustomerId,omitempty"`
	SelectedOrderID      string `json:"selectedOrderId,omitempty"`
}

// LoginDraft is a pending login form. The password is never kept.
type LoginDraft struct {
	Role  Role   `json:"role"`
	Email string `json:"email"`
}
