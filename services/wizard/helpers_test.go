package wizard

import (
	"context"

	"platter/models"

	"github.com/stretchr/testify/mock"
)

var (
	pngBytes  = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)
	jpegBytes = append([]byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00"), make([]byte, 64)...)
	pdfBytes  = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\n%%EOF\n")
)

func validDraft() models.RestaurantDraft {
	return models.RestaurantDraft{
		RestaurantName: "Spice Route",
		Description:    "Coastal kitchen",
		Cuisines:       []string{"Indian", "Seafood"},
		Email:          "owner@spiceroute.in",
		Password:       "Valid1Pass!",
		Address: models.RestaurantAddress{
			Street:  "12 MG Road",
			City:    "Bengaluru",
			State:   "Karnataka",
			Pincode: "560001",
		},
		Phone:         "9876543210",
		LicenseNumber: models.LicenseNumbers{FSSAI: "12345678901234", GST: "27ABCDE1234F1Z5"},
		OpeningTime:   "09:00",
		ClosingTime:   "23:00",
		BankDetails: models.BankDetails{
			AccountHolderName: "Asha Rao",
			AccountNumber:     "123456789012",
			IFSC:              "HDFC0001234",
			BankName:          "HDFC Bank",
			UPIID:             "asha@okhdfc",
		},
	}
}

func pngFile(name string) models.UploadedFile {
	return models.UploadedFile{Name: name, ContentType: "image/png", Size: int64(len(pngBytes)), Data: pngBytes}
}

func pdfFile(name string) models.UploadedFile {
	return models.UploadedFile{Name: name, ContentType: "application/pdf", Size: int64(len(pdfBytes)), Data: pdfBytes}
}

// fullFiles is a FileSet holding one image and every document.
func fullFiles() *FileSet {
	fs := newFileSet()
	fs.images = append(fs.images, pngFile("front.png"))
	for _, slot := range models.DocumentSlots {
		fs.documents[slot] = pdfFile(string(slot) + ".pdf")
	}
	return fs
}

// draftPatch turns a draft into the field map the page would send.
func draftPatch(d models.RestaurantDraft) DraftPatch {
	return DraftPatch{
		Fields: map[string]string{
			"restaurantName":                d.RestaurantName,
			"description":                   d.Description,
			"email":                         d.Email,
			"password":                      d.Password,
			"address.street":                d.Address.Street,
			"address.city":                  d.Address.City,
			"address.state":                 d.Address.State,
			"address.pincode":               d.Address.Pincode,
			"phone":                         d.Phone,
			"licenseNumber.fssai":           d.LicenseNumber.FSSAI,
			"licenseNumber.gst":             d.LicenseNumber.GST,
			"openingTime":                   d.OpeningTime,
			"closingTime":                   d.ClosingTime,
			"bankDetails.accountHolderName": d.BankDetails.AccountHolderName,
			"bankDetails.accountNumber":     d.BankDetails.AccountNumber,
			"bankDetails.IFSC":              d.BankDetails.IFSC,
			"bankDetails.bankName":          d.BankDetails.BankName,
			"bankDetails.upi_id":            d.BankDetails.UPIID,
		},
		AddCuisines: d.Cuisines,
	}
}

type mockRegistrar struct {
	mock.Mock
}

func (m *mockRegistrar) Register(ctx context.Context, draft models.RestaurantDraft, files models.RegistrationFiles) (*models.RegistrationResult, error) {
	args := m.Called(ctx, draft, files)
	res, _ := args.Get(0).(*models.RegistrationResult)
	return res, args.Error(1)
}

type serverError struct {
	msg string
}

func (e serverError) Error() string         { return "backend: " + e.msg }
func (e serverError) ServerMessage() string { return e.msg }

type countingLocator struct {
	supported bool
	calls     int
	coords    models.Coordinates
}

func (l *countingLocator) Supported() bool { return l.supported }

func (l *countingLocator) Locate(context.Context) (models.Coordinates, error) {
	l.calls++
	return l.coords, nil
}
