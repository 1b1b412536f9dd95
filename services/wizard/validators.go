package wizard

import (
	"platter/models"
	"platter/utils"
)

// FieldError is one failing draft field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldErrors are kept in a fixed field-priority order: the order the fields
// appear on the step's form. The first entry is the one surfaced to the user.
type FieldErrors []FieldError

func (e *FieldErrors) add(field, message string) {
	if message != "" {
		*e = append(*e, FieldError{Field: field, Message: message})
	}
}

// First returns the surfaced error.
func (e FieldErrors) First() (FieldError, bool) {
	if len(e) == 0 {
		return FieldError{}, false
	}
	return e[0], true
}

// Get returns the message for field, if any.
func (e FieldErrors) Get(field string) (string, bool) {
	for _, fe := range e {
		if fe.Field == field {
			return fe.Message, true
		}
	}
	return "", false
}

// Response converts the list for utils.JSONValidationError.
func (e FieldErrors) Response() []utils.FieldError {
	out := make([]utils.FieldError, len(e))
	for i, fe := range e {
		out[i] = utils.FieldError{Field: fe.Field, Message: fe.Message}
	}
	return out
}

// FileView exposes the presence of files held on a mount.
type FileView interface {
	ImageCount() int
	HasDocument(slot models.DocumentSlot) bool
}

type noFiles struct{}

func (noFiles) ImageCount() int                      { return 0 }
func (noFiles) HasDocument(models.DocumentSlot) bool { return false }

type stepValidator func(d models.RestaurantDraft, files FileView) FieldErrors

var validators = map[Step]stepValidator{
	StepBasicInfo:   validateBasicInfo,
	StepAddress:     validateAddress,
	StepImages:      validateImages,
	StepDocuments:   validateDocuments,
	StepHours:       validateHours,
	StepBankDetails: validateBankDetails,
}

// Validate runs the validation bound to step. An empty result means the step passes.
func Validate(step Step, draft models.RestaurantDraft, files FileView) FieldErrors {
	if files == nil {
		files = noFiles{}
	}
	v, ok := validators[step]
	if !ok {
		return nil
	}
	return v(draft, files)
}

func validateBasicInfo(d models.RestaurantDraft, _ FileView) FieldErrors {
	var errs FieldErrors
	errs.add("restaurantName", checkRequired(d.RestaurantName, "Restaurant name is required"))
	errs.add("email", checkEmail(d.Email))
	errs.add("password", checkPassword(d.Password))
	if len(d.Cuisines) == 0 {
		errs.add("cuisines", "Please add at least one cuisine")
	}
	return errs
}

func validateAddress(d models.RestaurantDraft, _ FileView) FieldErrors {
	var errs FieldErrors
	a := d.Address
	errs.add("address.street", checkRequired(a.Street, "Street address is required"))
	errs.add("address.city", checkRequired(a.City, "City is required"))
	errs.add("address.state", checkRequired(a.State, "State is required"))
	errs.add("address.pincode", checkPattern(a.Pincode, pincodeRe,
		"Pincode is required", "Pincode must be exactly 6 digits"))
	errs.add("phone", checkPattern(d.Phone, phoneRe,
		"Phone number is required", "Please enter a valid 10-digit mobile number"))
	return errs
}

func validateImages(_ models.RestaurantDraft, files FileView) FieldErrors {
	var errs FieldErrors
	if files.ImageCount() == 0 {
		errs.add("images", "Please upload at least one restaurant image")
	}
	return errs
}

var documentMessages = map[models.DocumentSlot]string{
	models.DocumentFSSAILicense:   "FSSAI license document is required",
	models.DocumentGSTCertificate: "GST certificate is required",
	models.DocumentPANCard:        "PAN card is required",
}

func validateDocuments(d models.RestaurantDraft, files FileView) FieldErrors {
	var errs FieldErrors
	errs.add("licenseNumber.fssai", checkPattern(d.LicenseNumber.FSSAI, fssaiRe,
		"FSSAI license number is required", "FSSAI number must be 14 digits starting with 1-5"))
	errs.add("licenseNumber.gst", checkPattern(d.LicenseNumber.GST, gstinRe,
		"GST number is required", "Please enter a valid 15-character GSTIN"))
	for _, slot := range models.DocumentSlots {
		if !files.HasDocument(slot) {
			errs.add("documents."+string(slot), documentMessages[slot])
		}
	}
	return errs
}

// validateHours compares same-day clock times; a closing time past midnight
// cannot be expressed and fails.
func validateHours(d models.RestaurantDraft, _ FileView) FieldErrors {
	var errs FieldErrors
	opening, openOK := parseClock(d.OpeningTime)
	closing, closeOK := parseClock(d.ClosingTime)
	switch {
	case blank(d.OpeningTime):
		errs.add("openingTime", "Opening time is required")
	case !openOK:
		errs.add("openingTime", "Please enter a valid opening time")
	}
	switch {
	case blank(d.ClosingTime):
		errs.add("closingTime", "Closing time is required")
	case !closeOK:
		errs.add("closingTime", "Please enter a valid closing time")
	case openOK && !closing.After(opening):
		errs.add("closingTime", "Closing time must be after opening time")
	}
	return errs
}

func validateBankDetails(d models.RestaurantDraft, _ FileView) FieldErrors {
	var errs FieldErrors
	b := d.BankDetails
	errs.add("bankDetails.accountHolderName", checkRequired(b.AccountHolderName, "Account holder name is required"))
	errs.add("bankDetails.accountNumber", checkPattern(b.AccountNumber, accountRe,
		"Account number is required", "Account number must be 9 to 18 digits"))
	errs.add("bankDetails.IFSC", checkPattern(b.IFSC, ifscRe,
		"IFSC code is required", "Please enter a valid IFSC code"))
	errs.add("bankDetails.bankName", checkRequired(b.BankName, "Bank name is required"))
	if !blank(b.UPIID) && !upiRe.MatchString(b.UPIID) {
		errs.add("bankDetails.upi_id", "Please enter a valid UPI ID")
	}
	return errs
}
