package models

import (
	"strings"
	"time"
)

// GeoLocation holds coordinates captured during signup. Both are nil until a
// location request succeeds; after that both are set.
type GeoLocation struct {
	Lat *float64 `json:"lat" bson:"lat"`
	Lng *float64 `json:"lng" bson:"lng"`
}

// IsSet reports whether both coordinates are present.
func (g GeoLocation) IsSet() bool {
	return g.Lat != nil && g.Lng != nil
}

// Set writes both coordinates.
func (g *GeoLocation) Set(lat, lng float64) {
	g.Lat = &lat
	g.Lng = &lng
}

type RestaurantAddress struct {
	Street      string      `json:"street" bson:"street"`
	City        string      `json:"city" bson:"city"`
	State       string      `json:"state" bson:"state"`
	Pincode     string      `json:"pincode" bson:"pincode"`
	GeoLocation GeoLocation `json:"geoLocation" bson:"geoLocation"`
}

type LicenseNumbers struct {
	FSSAI string `json:"fssai" bson:"fssai"` // 14 digits, first digit 1-5
	GST   string `json:"gst" bson:"gst"`     // 15 character GSTIN
}

type BankDetails struct {
	AccountHolderName string `json:"accountHolderName" bson:"accountHolderName"`
	AccountNumber     string `json:"accountNumber" bson:"accountNumber"`
	IFSC              string `json:"IFSC" bson:"IFSC"`
	BankName          string `json:"bankName" bson:"bankName"`
	UPIID             string `json:"upi_id,omitempty" bson:"upi_id,omitempty"` // optional
}

// RestaurantDraft is the in-progress signup payload. Files are not part of it;
// they live on the wizard mount only.
type RestaurantDraft struct {
	RestaurantName string            `json:"restaurantName" bson:"restaurantName"`
	Description    string            `json:"description" bson:"description"`
	Cuisines       []string          `json:"cuisines" bson:"cuisines"` // insertion order, no duplicates
	Email          string            `json:"email" bson:"email"`
	Password       string            `json:"password" bson:"password"`
	Address        RestaurantAddress `json:"address" bson:"address"`
	Phone          string            `json:"phone" bson:"phone"`
	LicenseNumber  LicenseNumbers    `json:"licenseNumber" bson:"licenseNumber"`
	OpeningTime    string            `json:"openingTime" bson:"openingTime"` // HH:MM
	ClosingTime    string            `json:"closingTime" bson:"closingTime"` // HH:MM
	BankDetails    BankDetails       `json:"bankDetails" bson:"bankDetails"`
}

// NewRestaurantDraft returns the empty draft a fresh signup starts from.
func NewRestaurantDraft() RestaurantDraft {
	return RestaurantDraft{Cuisines: []string{}}
}

// AddCuisine appends a trimmed cuisine unless it is blank or already present.
func (d *RestaurantDraft) AddCuisine(cuisine string) bool {
	cuisine = strings.TrimSpace(cuisine)
	if cuisine == "" {
		return false
	}
	for _, c := range d.Cuisines {
		if c == cuisine {
			return false
		}
	}
	d.Cuisines = append(d.Cuisines, cuisine)
	return true
}

// RemoveCuisine drops a cuisine, keeping the order of the rest.
func (d *RestaurantDraft) RemoveCuisine(cuisine string) bool {
	for i, c := range d.Cuisines {
		if c == cuisine {
			d.Cuisines = append(d.Cuisines[:i:i], d.Cuisines[i+1:]...)
			return true
		}
	}
	return false
}

// Clone returns a deep copy safe to hand out of a locked section.
func (d RestaurantDraft) Clone() RestaurantDraft {
	out := d
	out.Cuisines = append([]string{}, d.Cuisines...)
	if d.Address.GeoLocation.Lat != nil {
		lat := *d.Address.GeoLocation.Lat
		out.Address.GeoLocation.Lat = &lat
	}
	if d.Address.GeoLocation.Lng != nil {
		lng := *d.Address.GeoLocation.Lng
		out.Address.GeoLocation.Lng = &lng
	}
	return out
}

// DocumentSlot names one of the compliance documents collected on step 4.
type DocumentSlot string

const (
	DocumentFSSAILicense   DocumentSlot = "fssaiLicense"
	DocumentGSTCertificate DocumentSlot = "gstCertificate"
	DocumentPANCard        DocumentSlot = "panCard"
)

// DocumentSlots lists the compliance documents in the order they are validated.
var DocumentSlots = []DocumentSlot{DocumentFSSAILicense, DocumentGSTCertificate, DocumentPANCard}

// Valid reports whether s is a known document slot.
func (s DocumentSlot) Valid() bool {
	for _, slot := range DocumentSlots {
		if s == slot {
			return true
		}
	}
	return false
}

// UploadedFile is a file held in memory on a wizard mount until submit.
type UploadedFile struct {
	Name        string    `json:"name"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	Data        []byte    `json:"-"`
	AddedAt     time.Time `json:"addedAt"`
}

// RegistrationResult is what the backend returns after a successful signup.
type RegistrationResult struct {
	RestaurantID string `json:"restaurantId"`
	Message      string `json:"message"`
}

// RegistrationFiles are the files submitted alongside a draft.
type RegistrationFiles struct {
	Images    []UploadedFile
	Documents map[DocumentSlot]UploadedFile
}
