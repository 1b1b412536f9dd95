package models

// Role tags the kind of actor signed in to the console.
type Role string

const (
	RoleAnonymous  Role = ""
	RoleCustomer   Role = "customer"
	RoleRestaurant Role = "restaurant"
	RoleAdmin      Role = "admin"
)

// Valid reports whether r is one of the signed-in roles.
func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleRestaurant || r == RoleAdmin
}

// Actor is the signed-in principal of a console session.
type Actor struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Customer is the profile the backend returns for a signed-in customer.
type Customer struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Phone      string   `json:"phone,omitempty"`
	Favourites []string `json:"favourites,omitempty"`
	CreatedAt  string   `json:"createdAt,omitempty"`
}

// Credentials are a role login form submission.
type Credentials struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
