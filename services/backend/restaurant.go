package backend

import (
	"bytes"
	"context"
	"net/http"
	"net/url"

	"platter/models"

	"github.com/go-resty/resty/v2"
)

// RestaurantAPI is the partner side: signup, profile and incoming orders.
type RestaurantAPI struct {
	c *Client
}

func NewRestaurantAPI(c *Client) *RestaurantAPI {
	return &RestaurantAPI{c: c}
}

// registrationForm flattens a draft into multipart form values. Nested fields
// use dotted names and cuisines repeat.
func registrationForm(d models.RestaurantDraft) url.Values {
	form := url.Values{}
	form.Set("restaurantName", d.RestaurantName)
	form.Set("description", d.Description)
	for _, c := range d.Cuisines {
		form.Add("cuisines", c)
	}
	form.Set("email", d.Email)
	form.Set("password", d.Password)
	form.Set("phone", d.Phone)
	form.Set("address.street", d.Address.Street)
	form.Set("address.city", d.Address.City)
	form.Set("address.state", d.Address.State)
	form.Set("address.pincode", d.Address.Pincode)
	if d.Address.GeoLocation.IsSet() {
		form.Set("address.geoLocation.lat", formatFloat(*d.Address.GeoLocation.Lat))
		form.Set("address.geoLocation.lng", formatFloat(*d.Address.GeoLocation.Lng))
	}
	form.Set("licenseNumber.fssai", d.LicenseNumber.FSSAI)
	form.Set("licenseNumber.gst", d.LicenseNumber.GST)
	form.Set("openingTime", d.OpeningTime)
	form.Set("closingTime", d.ClosingTime)
	form.Set("bankDetails.accountHolderName", d.BankDetails.AccountHolderName)
	form.Set("bankDetails.accountNumber", d.BankDetails.AccountNumber)
	form.Set("bankDetails.IFSC", d.BankDetails.IFSC)
	form.Set("bankDetails.bankName", d.BankDetails.BankName)
	if d.BankDetails.UPIID != "" {
		form.Set("bankDetails.upi_id", d.BankDetails.UPIID)
	}
	return form
}

// Register submits a completed signup as one multipart request: the flattened
// draft, every image under "images" and each document under its slot name.
func (a *RestaurantAPI) Register(ctx context.Context, draft models.RestaurantDraft, files models.RegistrationFiles) (*models.RegistrationResult, error) {
	result, msg, err := send[models.RegistrationResult](ctx, a.c, "restaurant", "register", http.MethodPost, "/restaurant/register",
		func(r *resty.Request) {
			r.SetFormDataFromValues(registrationForm(draft))
			for _, img := range files.Images {
				r.SetMultipartField("images", img.Name, img.ContentType, bytes.NewReader(img.Data))
			}
			for _, slot := range models.DocumentSlots {
				if doc, ok := files.Documents[slot]; ok {
					r.SetMultipartField(string(slot), doc.Name, doc.ContentType, bytes.NewReader(doc.Data))
				}
			}
		})
	if err != nil {
		return nil, err
	}
	if result.Message == "" {
		result.Message = msg
	}
	return &result, nil
}

func (a *RestaurantAPI) Profile(ctx context.Context) (*models.RestaurantProfile, error) {
	profile, _, err := send[models.RestaurantProfile](ctx, a.c, "restaurant", "profile", http.MethodGet, "/restaurant/profile", nil)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (a *RestaurantAPI) Login(ctx context.Context, creds models.Credentials) (*models.RestaurantProfile, error) {
	profile, _, err := send[models.RestaurantProfile](ctx, a.c, "restaurant", "login", http.MethodPost, "/restaurant/login",
		func(r *resty.Request) { r.SetBody(creds) })
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (a *RestaurantAPI) Logout(ctx context.Context) error {
	_, _, err := send[none](ctx, a.c, "restaurant", "logout", http.MethodPost, "/restaurant/logout", nil)
	return err
}

func (a *RestaurantAPI) Orders(ctx context.Context) ([]models.Order, error) {
	list, _, err := send[[]models.Order](ctx, a.c, "restaurant", "orders", http.MethodGet, "/restaurant/orders", nil)
	return list, err
}

func (a *RestaurantAPI) UpdateOrderStatus(ctx context.Context, orderID, status string) (string, error) {
	_, msg, err := send[none](ctx, a.c, "restaurant", "update_order_status", http.MethodPatch, "/restaurant/orders/{id}/status",
		func(r *resty.Request) {
			r.SetPathParam("id", orderID)
			r.SetBody(map[string]string{"status": status})
		})
	return msg, err
}
