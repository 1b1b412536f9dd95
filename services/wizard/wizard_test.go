package wizard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	kvRepo "platter/database/repository/kv"
	"platter/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const owner = "device-1"

func newTestManager(t *testing.T, reg Registrar, policy JumpPolicy) (*Manager, *kvRepo.MemoryStore) {
	t.Helper()
	store := kvRepo.NewMemoryStore(0)
	m := NewManager(store, reg, Options{
		Policy:        policy,
		FileRules:     DefaultFileRules(),
		RedirectTo:    "/restaurant/dashboard",
		RedirectAfter: 2 * time.Second,
	}, zap.NewNop())
	return m, store
}

func mountWith(t *testing.T, m *Manager, d models.RestaurantDraft) *Wizard {
	t.Helper()
	w, err := m.Mount(context.Background(), owner)
	require.NoError(t, err)
	require.NoError(t, w.Update(context.Background(), draftPatch(d)))
	return w
}

func TestAdvance_InvalidStaysOnStep(t *testing.T) {
	m, _ := newTestManager(t, &mockRegistrar{}, ValidateCurrentOnly)
	d := validDraft()
	d.Email = "bad@domain..com"
	w := mountWith(t, m, d)

	step, err := w.Advance(context.Background())
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, StepBasicInfo, step)
	assert.Equal(t, "Please enter a valid email address", verr.Error())
	assert.Equal(t, StepBasicInfo, w.Step())
}

func TestAdvanceRetreat_PersistStep(t *testing.T) {
	ctx := context.Background()
	m, store := newTestManager(t, &mockRegistrar{}, ValidateCurrentOnly)
	w := mountWith(t, m, validDraft())

	step, err := w.Advance(ctx)
	require.NoError(t, err)
	assert.Equal(t, StepAddress, step)

	var persisted int
	require.NoError(t, store.Get(ctx, StepKey(owner), &persisted))
	assert.Equal(t, 2, persisted)

	step, err = w.Retreat(ctx)
	require.NoError(t, err)
	assert.Equal(t, StepBasicInfo, step)

	step, err = w.Retreat(ctx)
	require.NoError(t, err)
	assert.Equal(t, StepBasicInfo, step)
}

func TestAdvance_ImagesStepNeedsAFile(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, &mockRegistrar{}, ValidateCurrentOnly)
	w := mountWith(t, m, validDraft())

	_, err := w.JumpTo(ctx, StepImages)
	require.NoError(t, err)

	_, err = w.Advance(ctx)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "images", verr.Errors[0].Field)

	require.NoError(t, w.AddImage(pngFile("front.png")))
	step, err := w.Advance(ctx)
	require.NoError(t, err)
	assert.Equal(t, StepDocuments, step)
}

func TestJumpTo_PermissiveSkip(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, &mockRegistrar{}, ValidateCurrentOnly)
	d := models.NewRestaurantDraft()
	d.RestaurantName = "Test"
	d.Email = "owner@test.in"
	d.Password = "Valid1Pass!"
	d.Cuisines = []string{"Indian"}
	w := mountWith(t, m, d)

	step, err := w.JumpTo(ctx, StepDocuments)
	require.NoError(t, err)
	assert.Equal(t, StepDocuments, step)

	// Backward jumps never validate, even though step 4 is incomplete.
	step, err = w.JumpTo(ctx, StepAddress)
	require.NoError(t, err)
	assert.Equal(t, StepAddress, step)
}

func TestJumpTo_StrictPolicyValidatesIntermediateSteps(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, &mockRegistrar{}, ValidateIntermediate)
	d := validDraft()
	d.Address.City = ""
	w := mountWith(t, m, d)

	step, err := w.JumpTo(ctx, StepDocuments)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, StepAddress, verr.Step)
	assert.Equal(t, StepBasicInfo, step)
}

func TestJumpTo_OutOfRange(t *testing.T) {
	m, _ := newTestManager(t, &mockRegistrar{}, ValidateCurrentOnly)
	w := mountWith(t, m, validDraft())
	_, err := w.JumpTo(context.Background(), Step(7))
	assert.ErrorIs(t, err, ErrInvalidStep)
}

func TestAdvance_LastStepIsSubmit(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, &mockRegistrar{}, ValidateCurrentOnly)
	w := mountWith(t, m, validDraft())
	_, err := w.JumpTo(ctx, LastStep)
	require.NoError(t, err)

	_, err = w.Advance(ctx)
	assert.ErrorIs(t, err, ErrUseSubmit)
}

func TestUpdate_UnknownFieldChangesNothing(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, &mockRegistrar{}, ValidateCurrentOnly)
	w := mountWith(t, m, validDraft())

	err := w.Update(ctx, DraftPatch{Fields: map[string]string{"restaurantName": "Other", "nope": "x"}})
	assert.ErrorIs(t, err, ErrUnknownField)

	state, err := w.State()
	require.NoError(t, err)
	assert.Equal(t, "Spice Route", state.Draft.RestaurantName)
}

func TestUpdate_Cuisines(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, &mockRegistrar{}, ValidateCurrentOnly)
	w, err := m.Mount(ctx, owner)
	require.NoError(t, err)

	require.NoError(t, w.Update(ctx, DraftPatch{AddCuisines: []string{"Thai", "Indian", "Thai", " "}}))
	require.NoError(t, w.Update(ctx, DraftPatch{AddCuisines: []string{"Chinese"}, RemoveCuisines: []string{"Thai"}}))

	state, err := w.State()
	require.NoError(t, err)
	assert.Equal(t, []string{"Indian", "Chinese"}, state.Draft.Cuisines)
}

func TestRemount_RestoresTextAndStepButNotFiles(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, &mockRegistrar{}, ValidateCurrentOnly)
	w := mountWith(t, m, validDraft())
	require.NoError(t, w.AddImage(pngFile("front.png")))
	require.NoError(t, w.SetDocument(models.DocumentPANCard, pdfFile("pan.pdf")))
	_, err := w.JumpTo(ctx, StepHours)
	require.NoError(t, err)
	_, err = w.Locate(ctx, DeviceReport{Coordinates: &models.Coordinates{Lat: 12.97, Lng: 77.59}})
	require.NoError(t, err)

	again, err := m.Mount(ctx, owner)
	require.NoError(t, err)
	state, err := again.State()
	require.NoError(t, err)

	want := validDraft()
	want.Address.GeoLocation.Set(12.97, 77.59)
	assert.Equal(t, want, state.Draft)
	assert.Equal(t, int(StepHours), state.Step)
	assert.Empty(t, state.Files.Images)
	assert.Nil(t, state.Files.Documents[models.DocumentPANCard])
	assert.NotEqual(t, w.ID(), again.ID())
}

func TestMount_DiscardsStaleSchema(t *testing.T) {
	ctx := context.Background()
	m, store := newTestManager(t, &mockRegistrar{}, ValidateCurrentOnly)
	store.SetRaw(DraftKey(owner), []byte(`{"v":0,"data":{"restaurantName":"Old"}}`))
	store.SetRaw(StepKey(owner), []byte(`{"v":1,"data":9}`))

	w, err := m.Mount(ctx, owner)
	require.NoError(t, err)
	state, err := w.State()
	require.NoError(t, err)
	assert.Empty(t, state.Draft.RestaurantName)
	assert.Equal(t, []string{}, state.Draft.Cuisines)
	assert.Equal(t, int(FirstStep), state.Step)
}

func TestManager_GetChecksOwner(t *testing.T) {
	m, _ := newTestManager(t, &mockRegistrar{}, ValidateCurrentOnly)
	w, err := m.Mount(context.Background(), owner)
	require.NoError(t, err)

	got, err := m.Get(w.ID(), owner)
	require.NoError(t, err)
	assert.Same(t, w, got)

	_, err = m.Get(w.ID(), "someone-else")
	assert.ErrorIs(t, err, ErrMountNotFound)

	m.Unmount(w.ID())
	_, err = m.Get(w.ID(), owner)
	assert.ErrorIs(t, err, ErrMountNotFound)
}

func TestFiles_RejectedFileKeepsPrevious(t *testing.T) {
	m, _ := newTestManager(t, &mockRegistrar{}, ValidateCurrentOnly)
	w, err := m.Mount(context.Background(), owner)
	require.NoError(t, err)

	require.NoError(t, w.SetDocument(models.DocumentFSSAILicense, pdfFile("fssai.pdf")))

	oversized := pdfFile("big.pdf")
	oversized.Size = DefaultMaxUploadBytes + 1
	var ferr *FileConstraintError
	require.ErrorAs(t, w.SetDocument(models.DocumentFSSAILicense, oversized), &ferr)
	assert.Equal(t, "File size must be less than 5MB", ferr.Message)

	wrongType := models.UploadedFile{Name: "notes.txt", Size: 5, Data: []byte("hello")}
	require.ErrorAs(t, w.SetDocument(models.DocumentFSSAILicense, wrongType), &ferr)

	disguised := models.UploadedFile{Name: "fake.pdf", Size: 5, Data: []byte("hello")}
	require.ErrorAs(t, w.SetDocument(models.DocumentFSSAILicense, disguised), &ferr)

	state, err := w.State()
	require.NoError(t, err)
	require.NotNil(t, state.Files.Documents[models.DocumentFSSAILicense])
	assert.Equal(t, "fssai.pdf", state.Files.Documents[models.DocumentFSSAILicense].Name)

	// Acceptance replaces the slot.
	jpg := models.UploadedFile{Name: "fssai.jpg", Size: int64(len(jpegBytes)), Data: jpegBytes}
	require.NoError(t, w.SetDocument(models.DocumentFSSAILicense, jpg))
	state, _ = w.State()
	assert.Equal(t, "fssai.jpg", state.Files.Documents[models.DocumentFSSAILicense].Name)

	require.NoError(t, w.RemoveDocument(models.DocumentFSSAILicense))
	state, _ = w.State()
	assert.Nil(t, state.Files.Documents[models.DocumentFSSAILicense])

	assert.ErrorIs(t, w.SetDocument("aadhaar", pdfFile("a.pdf")), ErrUnknownDocument)
}

func TestFiles_Images(t *testing.T) {
	m, _ := newTestManager(t, &mockRegistrar{}, ValidateCurrentOnly)
	w, err := m.Mount(context.Background(), owner)
	require.NoError(t, err)

	require.NoError(t, w.AddImage(pngFile("a.png")))
	require.NoError(t, w.AddImage(pngFile("b.png")))
	require.NoError(t, w.AddImage(pngFile("c.png")))

	var ferr *FileConstraintError
	require.ErrorAs(t, w.AddImage(pdfFile("menu.pdf")), &ferr)

	require.NoError(t, w.RemoveImage(1))
	assert.ErrorIs(t, w.RemoveImage(5), ErrImageIndex)

	state, _ := w.State()
	require.Len(t, state.Files.Images, 2)
	assert.Equal(t, "a.png", state.Files.Images[0].Name)
	assert.Equal(t, "c.png", state.Files.Images[1].Name)
}

func TestFiles_ImageBatchIsAllOrNothing(t *testing.T) {
	m, _ := newTestManager(t, &mockRegistrar{}, ValidateCurrentOnly)
	w, err := m.Mount(context.Background(), owner)
	require.NoError(t, err)

	var ferr *FileConstraintError
	require.ErrorAs(t, w.AddImages(pngFile("front.png"), pdfFile("menu.pdf")), &ferr)
	state, _ := w.State()
	assert.Empty(t, state.Files.Images)

	require.NoError(t, w.AddImages(pngFile("front.png"), pngFile("inside.png")))
	state, _ = w.State()
	assert.Len(t, state.Files.Images, 2)
}

func TestLocate_Outcomes(t *testing.T) {
	ctx := context.Background()
	m, store := newTestManager(t, &mockRegistrar{}, ValidateCurrentOnly)
	w, err := m.Mount(ctx, owner)
	require.NoError(t, err)

	messages := map[string]bool{}
	for _, code := range []GeolocationCode{GeoPermissionDenied, GeoPositionUnavailable, GeoTimeout, GeoUnknown} {
		_, err := w.Locate(ctx, DeviceReport{Code: code})
		var gerr *GeolocationError
		require.ErrorAs(t, err, &gerr)
		assert.Equal(t, code, gerr.Code)
		messages[gerr.Error()] = true
	}
	assert.Len(t, messages, 4, "each failure code has its own message")

	state, _ := w.State()
	assert.False(t, state.Draft.Address.GeoLocation.IsSet())

	loc := &countingLocator{supported: false}
	_, err = w.Locate(ctx, loc)
	var gerr *GeolocationError
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, GeoUnsupported, gerr.Code)
	assert.Zero(t, loc.calls)

	res, err := w.Locate(ctx, &countingLocator{supported: true, coords: models.Coordinates{Lat: 19.07, Lng: 72.87}})
	require.NoError(t, err)
	assert.Equal(t, 19.07, res.Lat)

	var persisted models.RestaurantDraft
	require.NoError(t, store.Get(ctx, DraftKey(owner), &persisted))
	require.True(t, persisted.Address.GeoLocation.IsSet())
	assert.Equal(t, 72.87, *persisted.Address.GeoLocation.Lng)
}

func readyToSubmit(t *testing.T, m *Manager) *Wizard {
	t.Helper()
	w := mountWith(t, m, validDraft())
	require.NoError(t, w.AddImage(pngFile("front.png")))
	for _, slot := range models.DocumentSlots {
		require.NoError(t, w.SetDocument(slot, pdfFile(string(slot)+".pdf")))
	}
	_, err := w.JumpTo(context.Background(), LastStep)
	require.NoError(t, err)
	return w
}

func TestSubmit_NotOnLastStep(t *testing.T) {
	m, _ := newTestManager(t, &mockRegistrar{}, ValidateCurrentOnly)
	w := mountWith(t, m, validDraft())
	_, err := w.Submit(context.Background())
	assert.ErrorIs(t, err, ErrNotFinalStep)
}

func TestSubmit_InvalidBankDetails(t *testing.T) {
	reg := &mockRegistrar{}
	m, _ := newTestManager(t, reg, ValidateCurrentOnly)
	w := readyToSubmit(t, m)
	require.NoError(t, w.Update(context.Background(), DraftPatch{Fields: map[string]string{"bankDetails.IFSC": "bad"}}))

	_, err := w.Submit(context.Background())
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "bankDetails.IFSC", verr.Errors[0].Field)
	reg.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmit_SuccessClearsSnapshots(t *testing.T) {
	ctx := context.Background()
	reg := &mockRegistrar{}
	reg.On("Register", mock.Anything, mock.MatchedBy(func(d models.RestaurantDraft) bool {
		return d.RestaurantName == "Spice Route"
	}), mock.MatchedBy(func(f models.RegistrationFiles) bool {
		return len(f.Images) == 1 && len(f.Documents) == 3
	})).Return(&models.RegistrationResult{RestaurantID: "r-42"}, nil).Once()

	m, store := newTestManager(t, reg, ValidateCurrentOnly)
	w := readyToSubmit(t, m)

	res, err := w.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, "r-42", res.RestaurantID)
	assert.Equal(t, "/restaurant/dashboard", res.RedirectTo)
	assert.Equal(t, int64(2000), res.RedirectAfterMs)

	var d models.RestaurantDraft
	assert.ErrorIs(t, store.Get(ctx, DraftKey(owner), &d), kvRepo.ErrNotFound)
	var step int
	assert.ErrorIs(t, store.Get(ctx, StepKey(owner), &step), kvRepo.ErrNotFound)

	_, err = m.Get(w.ID(), owner)
	assert.ErrorIs(t, err, ErrMountNotFound)
	_, err = w.State()
	assert.ErrorIs(t, err, ErrMountNotFound)
	reg.AssertExpectations(t)
}

func TestSubmit_FailureKeepsDraft(t *testing.T) {
	ctx := context.Background()
	reg := &mockRegistrar{}
	reg.On("Register", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, serverError{msg: "Email already registered"}).Once()
	reg.On("Register", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("connection refused")).Once()

	m, store := newTestManager(t, reg, ValidateCurrentOnly)
	w := readyToSubmit(t, m)

	_, err := w.Submit(ctx)
	var serr *SubmitError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "Email already registered", serr.Message)

	_, err = w.Submit(ctx)
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, DefaultSubmitFailure, serr.Message)

	state, err := w.State()
	require.NoError(t, err)
	assert.Equal(t, int(LastStep), state.Step)
	assert.Len(t, state.Files.Images, 1)

	var d models.RestaurantDraft
	require.NoError(t, store.Get(ctx, DraftKey(owner), &d))
	assert.Equal(t, "Spice Route", d.RestaurantName)
	reg.AssertExpectations(t)
}

func TestSubmit_InFlightGuard(t *testing.T) {
	release := make(chan struct{})
	reg := &mockRegistrar{}
	reg.On("Register", mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { <-release }).
		Return(&models.RegistrationResult{RestaurantID: "r-1"}, nil).Once()

	m, _ := newTestManager(t, reg, ValidateCurrentOnly)
	w := readyToSubmit(t, m)

	var wg sync.WaitGroup
	wg.Add(1)
	var firstErr error
	go func() {
		defer wg.Done()
		_, firstErr = w.Submit(context.Background())
	}()

	require.Eventually(t, w.submitting.Load, time.Second, 5*time.Millisecond)
	_, err := w.Submit(context.Background())
	assert.ErrorIs(t, err, ErrSubmitInFlight)

	close(release)
	wg.Wait()
	require.NoError(t, firstErr)
	reg.AssertNumberOfCalls(t, "Register", 1)
}
