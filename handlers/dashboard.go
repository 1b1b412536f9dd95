package handlers

import (
	"net/http"

	"platter/middleware"
	"platter/models"
	"platter/services/dashboard"
	"platter/utils"

	"github.com/gin-gonic/gin"
)

// DashboardHandler serves the admin and restaurant dashboards.
type DashboardHandler struct {
	Dashboard *dashboard.Service
}

func NewDashboardHandler(dash *dashboard.Service) *DashboardHandler {
	return &DashboardHandler{Dashboard: dash}
}

// AdminRestaurants returns the restaurant list with its pending view.
func (h *DashboardHandler) AdminRestaurants(c *gin.Context) {
	view, err := h.Dashboard.Admin(c.Request.Context(), middleware.CurrentActor(c))
	if err != nil {
		respondError(c, err, "Failed to load restaurants")
		return
	}
	respondJSON(c, http.StatusOK, gin.H{
		"restaurants": view.Restaurants,
		"unverified":  view.Unverified,
		"selected":    view.SelectedRestaurant,
		"state":       view.State,
	})
}

func (h *DashboardHandler) AdminCustomers(c *gin.Context) {
	view, err := h.Dashboard.Admin(c.Request.Context(), middleware.CurrentActor(c))
	if err != nil {
		respondError(c, err, "Failed to load customers")
		return
	}
	respondJSON(c, http.StatusOK, gin.H{
		"customers": view.Customers,
		"selected":  view.SelectedCustomer,
		"state":     view.State,
	})
}

type verificationRequest struct {
	Verified *bool `json:"verified" binding:"required"`
}

// Verify submits an approve or reject decision for a restaurant.
func (h *DashboardHandler) Verify(c *gin.Context) {
	var req verificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "A verification decision is required", err.Error())
		return
	}
	decision, err := h.Dashboard.Decide(c.Request.Context(), middleware.CurrentActor(c), c.Param("id"), *req.Verified)
	if err != nil {
		respondError(c, err, "Failed to update verification status")
		return
	}
	respondJSON(c, http.StatusOK, decision)
}

func (h *DashboardHandler) GetState(c *gin.Context) {
	actor := middleware.CurrentActor(c)
	defaultTab := dashboard.TabRestaurants
	if actor.Role == models.RoleRestaurant {
		defaultTab = dashboard.TabOrders
	}
	c.JSON(http.StatusOK, h.Dashboard.LoadState(c.Request.Context(), actor.ID, defaultTab))
}

func (h *DashboardHandler) PutState(c *gin.Context) {
	var state models.DashboardState
	if err := c.ShouldBindJSON(&state); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid dashboard state", err.Error())
		return
	}
	if err := h.Dashboard.SaveState(c.Request.Context(), middleware.CurrentActor(c), state); err != nil {
		respondError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, state)
}

// RestaurantDashboard returns the partner's profile, orders and selection.
func (h *DashboardHandler) RestaurantDashboard(c *gin.Context) {
	view, err := h.Dashboard.Restaurant(c.Request.Context(), middleware.CurrentActor(c))
	if err != nil {
		respondError(c, err, "Failed to load dashboard")
		return
	}
	respondJSON(c, http.StatusOK, view)
}

type orderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *DashboardHandler) UpdateOrderStatus(c *gin.Context) {
	var req orderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "A status is required", err.Error())
		return
	}
	msg, err := h.Dashboard.UpdateOrderStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err, "Failed to update order")
		return
	}
	respondJSON(c, http.StatusOK, gin.H{"message": msg})
}
