package backend

// API bundles every backend module over one shared Client.
type API struct {
	Client     *Client
	Customer   *CustomerAPI
	Restaurant *RestaurantAPI
	Admin      *AdminAPI
	Home       *HomeAPI
	Cart       *CartAPI
}

func NewAPI(c *Client) *API {
	return &API{
		Client:     c,
		Customer:   NewCustomerAPI(c),
		Restaurant: NewRestaurantAPI(c),
		Admin:      NewAdminAPI(c),
		Home:       NewHomeAPI(c),
		Cart:       NewCartAPI(c),
	}
}
