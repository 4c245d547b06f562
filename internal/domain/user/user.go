package user

import "github.com/marketplace/backend/internal/domain/cart"

// Address is the canonical shipping address shape. Legacy field names
// (cc, postal_code, number) are mapped onto this shape at the API boundary.
type Address struct {
	CountryCode       string `json:"countryCode"`
	PostalCode        string `json:"postalCode"`
	City              string `json:"city"`
	Street            string `json:"street"`
	HouseNumber       string `json:"houseNumber"`
	HouseNumberSuffix string `json:"houseNumberSuffix,omitempty"`
	Region            string `json:"region,omitempty"`
	Phone             string `json:"phone,omitempty"`
}

// IsComplete reports whether the address carries every field required to
// fetch rates and create shipments. Completeness gates both operations.
func (a Address) IsComplete() bool {
	return a.CountryCode != "" &&
		a.PostalCode != "" &&
		a.City != "" &&
		a.Street != "" &&
		a.HouseNumber != "" &&
		a.Phone != ""
}

// ProtectedData is profile data visible to the operator and the user.
type ProtectedData struct {
	ShippingAddress *Address `json:"shippingAddress,omitempty"`
}

// PrivateData is profile data visible only to the user, including the
// authenticated identity's cart.
type PrivateData struct {
	Cart cart.Cart `json:"cart,omitempty"`
}

// Profile holds the user profile fields this core reads and patches.
type Profile struct {
	DisplayName   string        `json:"displayName"`
	ProtectedData ProtectedData `json:"protectedData"`
	PrivateData   PrivateData   `json:"privateData"`
}

// User is a marketplace party record as served by the user store.
type User struct {
	ID      string  `json:"id"`
	Email   string  `json:"email"`
	Profile Profile `json:"profile"`
}

// ShippingAddress returns the user's shipping address, or nil when none is
// stored.
func (u *User) ShippingAddress() *Address {
	if u == nil {
		return nil
	}
	return u.Profile.ProtectedData.ShippingAddress
}
