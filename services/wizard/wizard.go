package wizard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	kvRepo "platter/database/repository/kv"
	"platter/metrics"
	"platter/models"

	"go.uber.org/zap"
)

const (
	draftKeyPrefix = "registration:draft:"
	stepKeyPrefix  = "registration:step:"

	// DefaultSubmitFailure is shown when the backend gives no message.
	DefaultSubmitFailure = "Registration failed. Please try again."
	defaultSubmitSuccess = "Registration successful! Redirecting to your dashboard..."
)

// DraftKey is the store key of the persisted draft for owner.
func DraftKey(owner string) string { return draftKeyPrefix + owner }

// StepKey is the store key of the persisted step index for owner.
func StepKey(owner string) string { return stepKeyPrefix + owner }

// Registrar submits a completed registration to the backend.
type Registrar interface {
	Register(ctx context.Context, draft models.RestaurantDraft, files models.RegistrationFiles) (*models.RegistrationResult, error)
}

// serverMessenger is implemented by backend errors that carry a message for the user.
type serverMessenger interface {
	ServerMessage() string
}

func submitMessage(err error) string {
	var m serverMessenger
	if errors.As(err, &m) && m.ServerMessage() != "" {
		return m.ServerMessage()
	}
	return DefaultSubmitFailure
}

// State is a snapshot of a mount for the page.
type State struct {
	MountID    string                 `json:"mountId"`
	Step       int                    `json:"step"`
	Steps      []StepInfo             `json:"steps"`
	Draft      models.RestaurantDraft `json:"draft"`
	Files      FilesSummary           `json:"files"`
	Submitting bool                   `json:"submitting"`
}

// DraftPatch is a batch of field edits applied as one mutation.
type DraftPatch struct {
	Fields         map[string]string `json:"fields"`
	AddCuisines    []string          `json:"addCuisines"`
	RemoveCuisines []string          `json:"removeCuisines"`
}

// SubmitResult tells the page where to go after a successful registration.
type SubmitResult struct {
	RestaurantID    string `json:"restaurantId"`
	Message         string `json:"message"`
	RedirectTo      string `json:"redirectTo"`
	RedirectAfterMs int64  `json:"redirectAfterMs"`
}

// Wizard is one mounted signup wizard. Text fields and the step index are
// written through to the store on every change; files stay in memory.
type Wizard struct {
	id    string
	owner string

	mu       sync.Mutex
	draft    models.RestaurantDraft
	step     Step
	files    *FileSet
	closed   bool
	lastSeen time.Time

	submitting atomic.Bool

	store     kvRepo.Store
	registrar Registrar
	opts      Options
	logger    *zap.Logger
	onClose   func(id string)
}

// ID is the mount id.
func (w *Wizard) ID() string { return w.id }

// Owner is the device the draft belongs to.
func (w *Wizard) Owner() string { return w.owner }

// lock acquires the mount and fails if it has been closed by a submission.
func (w *Wizard) lock() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrMountNotFound
	}
	w.lastSeen = time.Now()
	return nil
}

// State returns the current snapshot.
func (w *Wizard) State() (State, error) {
	if err := w.lock(); err != nil {
		return State{}, err
	}
	defer w.mu.Unlock()
	return w.stateLocked(), nil
}

func (w *Wizard) stateLocked() State {
	return State{
		MountID:    w.id,
		Step:       int(w.step),
		Steps:      Steps(),
		Draft:      w.draft.Clone(),
		Files:      w.files.summary(),
		Submitting: w.submitting.Load(),
	}
}

// Step returns the current step.
func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

func (w *Wizard) persistDraftLocked(ctx context.Context) error {
	if err := w.store.Set(ctx, DraftKey(w.owner), w.draft); err != nil {
		metrics.StoreErrors.WithLabelValues("set").Inc()
		w.logger.Error("Failed to persist draft", zap.String("owner", w.owner), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return nil
}

func (w *Wizard) persistStepLocked(ctx context.Context) error {
	if err := w.store.Set(ctx, StepKey(w.owner), int(w.step)); err != nil {
		metrics.StoreErrors.WithLabelValues("set").Inc()
		w.logger.Error("Failed to persist step", zap.String("owner", w.owner), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return nil
}

// Update applies a patch and re-persists the whole draft. Unknown field names
// reject the patch before anything changes.
func (w *Wizard) Update(ctx context.Context, patch DraftPatch) error {
	for name := range patch.Fields {
		if _, ok := draftFields[name]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownField, name)
		}
	}
	if err := w.lock(); err != nil {
		return err
	}
	defer w.mu.Unlock()

	for name, value := range patch.Fields {
		draftFields[name](&w.draft, value)
	}
	for _, c := range patch.AddCuisines {
		w.draft.AddCuisine(c)
	}
	for _, c := range patch.RemoveCuisines {
		w.draft.RemoveCuisine(c)
	}
	return w.persistDraftLocked(ctx)
}

// Advance validates the current step and moves to the next one.
func (w *Wizard) Advance(ctx context.Context) (Step, error) {
	if err := w.lock(); err != nil {
		return 0, err
	}
	defer w.mu.Unlock()

	if w.step == LastStep {
		return w.step, ErrUseSubmit
	}
	if verr := validateSteps(w.opts.Policy.RequiredValidations(w.step, w.step+1), w.draft, w.files); verr != nil {
		metrics.WizardTransitions.WithLabelValues("advance", "invalid").Inc()
		return w.step, verr
	}
	w.step++
	metrics.WizardTransitions.WithLabelValues("advance", "ok").Inc()
	return w.step, w.persistStepLocked(ctx)
}

// Retreat moves one step back without validating.
func (w *Wizard) Retreat(ctx context.Context) (Step, error) {
	if err := w.lock(); err != nil {
		return 0, err
	}
	defer w.mu.Unlock()

	if w.step <= FirstStep {
		metrics.WizardTransitions.WithLabelValues("retreat", "noop").Inc()
		return w.step, nil
	}
	w.step--
	metrics.WizardTransitions.WithLabelValues("retreat", "ok").Inc()
	return w.step, w.persistStepLocked(ctx)
}

// JumpTo moves directly to target. Backward jumps never validate; forward
// jumps run the validations the jump policy requires.
func (w *Wizard) JumpTo(ctx context.Context, target Step) (Step, error) {
	if !target.Valid() {
		return 0, ErrInvalidStep
	}
	if err := w.lock(); err != nil {
		return 0, err
	}
	defer w.mu.Unlock()

	if target == w.step {
		metrics.WizardTransitions.WithLabelValues("jump", "noop").Inc()
		return w.step, nil
	}
	if verr := validateSteps(w.opts.Policy.RequiredValidations(w.step, target), w.draft, w.files); verr != nil {
		metrics.WizardTransitions.WithLabelValues("jump", "invalid").Inc()
		return w.step, verr
	}
	w.step = target
	metrics.WizardTransitions.WithLabelValues("jump", "ok").Inc()
	return w.step, w.persistStepLocked(ctx)
}

// SetDocument checks f and puts it in slot, replacing any previous file.
// A rejected file leaves the slot untouched.
func (w *Wizard) SetDocument(slot models.DocumentSlot, f models.UploadedFile) error {
	if !slot.Valid() {
		return ErrUnknownDocument
	}
	if err := w.opts.FileRules.CheckDocument("documents."+string(slot), f); err != nil {
		return err
	}
	if err := w.lock(); err != nil {
		return err
	}
	defer w.mu.Unlock()
	f.AddedAt = time.Now()
	w.files.documents[slot] = f
	return nil
}

// RemoveDocument clears slot.
func (w *Wizard) RemoveDocument(slot models.DocumentSlot) error {
	if !slot.Valid() {
		return ErrUnknownDocument
	}
	if err := w.lock(); err != nil {
		return err
	}
	defer w.mu.Unlock()
	delete(w.files.documents, slot)
	return nil
}

// AddImage checks f and appends it to the gallery.
func (w *Wizard) AddImage(f models.UploadedFile) error {
	return w.AddImages(f)
}

// AddImages checks every file before appending any of them, so a rejected
// file leaves the image list as it was.
func (w *Wizard) AddImages(files ...models.UploadedFile) error {
	for _, f := range files {
		if err := w.opts.FileRules.CheckImage("images", f); err != nil {
			return err
		}
	}
	if err := w.lock(); err != nil {
		return err
	}
	defer w.mu.Unlock()
	now := time.Now()
	for _, f := range files {
		f.AddedAt = now
		w.files.images = append(w.files.images, f)
	}
	return nil
}

// RemoveImage drops the image at index, keeping the order of the rest.
func (w *Wizard) RemoveImage(index int) error {
	if err := w.lock(); err != nil {
		return err
	}
	defer w.mu.Unlock()
	if index < 0 || index >= len(w.files.images) {
		return ErrImageIndex
	}
	w.files.images = append(w.files.images[:index:index], w.files.images[index+1:]...)
	return nil
}

// Locate asks loc for a position and writes it into the draft. An unsupported
// locator fails before any request is made. There is no retry.
func (w *Wizard) Locate(ctx context.Context, loc Locator) (*GeolocationResult, error) {
	if !loc.Supported() {
		return nil, &GeolocationError{Code: GeoUnsupported}
	}
	coords, err := loc.Locate(ctx)
	if err != nil {
		var gerr *GeolocationError
		if errors.As(err, &gerr) {
			return nil, gerr
		}
		return nil, &GeolocationError{Code: GeoUnknown, Err: err}
	}

	if err := w.lock(); err != nil {
		return nil, err
	}
	defer w.mu.Unlock()
	w.draft.Address.GeoLocation.Set(coords.Lat, coords.Lng)
	if err := w.persistDraftLocked(ctx); err != nil {
		return nil, err
	}
	return &GeolocationResult{Lat: coords.Lat, Lng: coords.Lng, Message: geoSuccessMessage}, nil
}

// Submit re-validates the last step and registers the restaurant. Only one
// submission runs per mount at a time. On success both persisted snapshots
// are cleared and the mount is closed; on failure nothing changes.
func (w *Wizard) Submit(ctx context.Context) (*SubmitResult, error) {
	if !w.submitting.CompareAndSwap(false, true) {
		metrics.WizardSubmissions.WithLabelValues("in_flight").Inc()
		return nil, ErrSubmitInFlight
	}
	defer w.submitting.Store(false)

	if err := w.lock(); err != nil {
		return nil, err
	}
	if w.step != LastStep {
		w.mu.Unlock()
		return nil, ErrNotFinalStep
	}
	if errs := Validate(LastStep, w.draft, w.files); len(errs) > 0 {
		w.mu.Unlock()
		metrics.WizardSubmissions.WithLabelValues("invalid").Inc()
		return nil, &ValidationError{Step: LastStep, Errors: errs}
	}
	draft := w.draft.Clone()
	files := models.RegistrationFiles{Images: w.files.Images(), Documents: w.files.Documents()}
	w.mu.Unlock()

	res, err := w.registrar.Register(ctx, draft, files)
	if err != nil {
		metrics.WizardSubmissions.WithLabelValues("rejected").Inc()
		w.logger.Warn("Registration rejected", zap.String("mountID", w.id), zap.Error(err))
		return nil, &SubmitError{Message: submitMessage(err), Err: err}
	}
	metrics.WizardSubmissions.WithLabelValues("success").Inc()

	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()

	// The registration already exists; a failed cleanup only leaves a stale draft behind.
	if err := w.store.Delete(ctx, DraftKey(w.owner), StepKey(w.owner)); err != nil {
		metrics.StoreErrors.WithLabelValues("delete").Inc()
		w.logger.Error("Failed to clear submitted draft", zap.String("owner", w.owner), zap.Error(err))
	}
	if w.onClose != nil {
		w.onClose(w.id)
	}

	result := &SubmitResult{
		Message:         defaultSubmitSuccess,
		RedirectTo:      w.opts.RedirectTo,
		RedirectAfterMs: w.opts.RedirectAfter.Milliseconds(),
	}
	if res != nil {
		result.RestaurantID = res.RestaurantID
		if res.Message != "" {
			result.Message = res.Message
		}
	}
	w.logger.Info("Restaurant registered", zap.String("mountID", w.id), zap.String("restaurantID", result.RestaurantID))
	return result, nil
}

// draftFields maps the wire field names to setters on the draft.
var draftFields = map[string]func(d *models.RestaurantDraft, v string){
	"restaurantName":                func(d *models.RestaurantDraft, v string) { d.RestaurantName = v },
	"description":                   func(d *models.RestaurantDraft, v string) { d.Description = v },
	"email":                         func(d *models.RestaurantDraft, v string) { d.Email = v },
	"password":                      func(d *models.RestaurantDraft, v string) { d.Password = v },
	"address.street":                func(d *models.RestaurantDraft, v string) { d.Address.Street = v },
	"address.city":                  func(d *models.RestaurantDraft, v string) { d.Address.City = v },
	"address.state":                 func(d *models.RestaurantDraft, v string) { d.Address.State = v },
	"address.pincode":               func(d *models.RestaurantDraft, v string) { d.Address.Pincode = v },
	"phone":                         func(d *models.RestaurantDraft, v string) { d.Phone = v },
	"licenseNumber.fssai":           func(d *models.RestaurantDraft, v string) { d.LicenseNumber.FSSAI = v },
	"licenseNumber.gst":             func(d *models.RestaurantDraft, v string) { d.LicenseNumber.GST = v },
	"openingTime":                   func(d *models.RestaurantDraft, v string) { d.OpeningTime = v },
	"closingTime":                   func(d *models.RestaurantDraft, v string) { d.ClosingTime = v },
	"bankDetails.accountHolderName": func(d *models.RestaurantDraft, v string) { d.BankDetails.AccountHolderName = v },
	"bankDetails.accountNumber":     func(d *models.RestaurantDraft, v string) { d.BankDetails.AccountNumber = v },
	"bankDetails.IFSC":              func(d *models.RestaurantDraft, v string) { d.BankDetails.IFSC = v },
	"bankDetails.bankName":          func(d *models.RestaurantDraft, v string) { d.BankDetails.BankName = v },
	"bankDetails.upi_id":            func(d *models.RestaurantDraft, v string) { d.BankDetails.UPIID = v },
}
