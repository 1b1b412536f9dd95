package handlers

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"platter/middleware"
	"platter/models"
	"platter/services/wizard"
	"platter/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WizardHandler serves the partner signup wizard. Every mount belongs to the
// device that created it.
type WizardHandler struct {
	Manager    *wizard.Manager
	MaxUpload  int64
	GeoTimeout time.Duration
}

func NewWizardHandler(manager *wizard.Manager, maxUpload int64, geoTimeout time.Duration) *WizardHandler {
	if maxUpload <= 0 {
		maxUpload = wizard.DefaultMaxUploadBytes
	}
	return &WizardHandler{Manager: manager, MaxUpload: maxUpload, GeoTimeout: geoTimeout}
}

func (h *WizardHandler) mount(c *gin.Context) (*wizard.Wizard, bool) {
	w, err := h.Manager.Get(c.Param("id"), middleware.DeviceID(c))
	if err != nil {
		respondError(c, err, "")
		return nil, false
	}
	return w, true
}

func (h *WizardHandler) writeState(c *gin.Context, w *wizard.Wizard, status int) {
	state, err := w.State()
	if err != nil {
		respondError(c, err, "")
		return
	}
	c.JSON(status, state)
}

// removalResponse tells the page to clear its file input after a removal.
type removalResponse struct {
	wizard.State
	ResetInput bool `json:"resetInput"`
}

func (h *WizardHandler) writeRemoval(c *gin.Context, w *wizard.Wizard) {
	state, err := w.State()
	if err != nil {
		respondError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, removalResponse{State: state, ResetInput: true})
}

// Mount opens a wizard for the caller's device, restoring its saved draft.
func (h *WizardHandler) Mount(c *gin.Context) {
	w, err := h.Manager.Mount(c.Request.Context(), middleware.DeviceID(c))
	if err != nil {
		respondError(c, err, "")
		return
	}
	h.writeState(c, w, http.StatusCreated)
}

func (h *WizardHandler) State(c *gin.Context) {
	if w, ok := h.mount(c); ok {
		h.writeState(c, w, http.StatusOK)
	}
}

// Unmount drops the mount and its files. The saved draft stays for next time.
func (h *WizardHandler) Unmount(c *gin.Context) {
	w, ok := h.mount(c)
	if !ok {
		return
	}
	h.Manager.Unmount(w.ID())
	c.Status(http.StatusNoContent)
}

func (h *WizardHandler) UpdateDraft(c *gin.Context) {
	w, ok := h.mount(c)
	if !ok {
		return
	}
	var patch wizard.DraftPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid draft update", err.Error())
		return
	}
	if err := w.Update(c.Request.Context(), patch); err != nil {
		respondError(c, err, "")
		return
	}
	h.writeState(c, w, http.StatusOK)
}

func (h *WizardHandler) Advance(c *gin.Context) {
	w, ok := h.mount(c)
	if !ok {
		return
	}
	if _, err := w.Advance(c.Request.Context()); err != nil {
		respondError(c, err, "")
		return
	}
	h.writeState(c, w, http.StatusOK)
}

func (h *WizardHandler) Retreat(c *gin.Context) {
	w, ok := h.mount(c)
	if !ok {
		return
	}
	if _, err := w.Retreat(c.Request.Context()); err != nil {
		respondError(c, err, "")
		return
	}
	h.writeState(c, w, http.StatusOK)
}

type jumpRequest struct {
	Step int `json:"step" binding:"required"`
}

func (h *WizardHandler) Jump(c *gin.Context) {
	w, ok := h.mount(c)
	if !ok {
		return
	}
	var req jumpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid jump request", err.Error())
		return
	}
	if _, err := w.JumpTo(c.Request.Context(), wizard.Step(req.Step)); err != nil {
		respondError(c, err, "")
		return
	}
	h.writeState(c, w, http.StatusOK)
}

// readUpload loads a multipart file into memory. Oversized files are not read
// past the limit; the size check rejects them from the header size.
func (h *WizardHandler) readUpload(fh *multipart.FileHeader) (models.UploadedFile, error) {
	out := models.UploadedFile{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
	}
	if fh.Size > h.MaxUpload {
		return out, nil
	}
	f, err := fh.Open()
	if err != nil {
		return out, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, h.MaxUpload+1))
	if err != nil {
		return out, fmt.Errorf("failed to read upload: %w", err)
	}
	out.Data = data
	out.Size = int64(len(data))
	return out, nil
}

// PutDocument fills a document slot from the "file" form field.
func (h *WizardHandler) PutDocument(c *gin.Context) {
	w, ok := h.mount(c)
	if !ok {
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "A file is required", err.Error())
		return
	}
	upload, err := h.readUpload(fh)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Could not read the uploaded file", err.Error())
		return
	}
	if err := w.SetDocument(models.DocumentSlot(c.Param("slot")), upload); err != nil {
		respondError(c, err, "")
		return
	}
	h.writeState(c, w, http.StatusOK)
}

func (h *WizardHandler) DeleteDocument(c *gin.Context) {
	w, ok := h.mount(c)
	if !ok {
		return
	}
	if err := w.RemoveDocument(models.DocumentSlot(c.Param("slot"))); err != nil {
		respondError(c, err, "")
		return
	}
	h.writeRemoval(c, w)
}

// AddImages appends every file of the "images" form field. One rejected file
// rejects the whole batch.
func (h *WizardHandler) AddImages(c *gin.Context) {
	w, ok := h.mount(c)
	if !ok {
		return
	}
	form, err := c.MultipartForm()
	if err != nil || len(form.File["images"]) == 0 {
		utils.JSONError(c, http.StatusBadRequest, "At least one image is required", "")
		return
	}
	uploads := make([]models.UploadedFile, 0, len(form.File["images"]))
	for _, fh := range form.File["images"] {
		upload, err := h.readUpload(fh)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Could not read the uploaded file", err.Error())
			return
		}
		uploads = append(uploads, upload)
	}
	if err := w.AddImages(uploads...); err != nil {
		respondError(c, err, "")
		return
	}
	h.writeState(c, w, http.StatusOK)
}

func (h *WizardHandler) DeleteImage(c *gin.Context) {
	w, ok := h.mount(c)
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		respondError(c, wizard.ErrImageIndex, "")
		return
	}
	if err := w.RemoveImage(index); err != nil {
		respondError(c, err, "")
		return
	}
	h.writeRemoval(c, w)
}

// geolocationRequest is either the browser's own result (coordinates or a
// failure code) or a request to locate by client IP.
type geolocationRequest struct {
	Source string                 `json:"source"`
	Lat    *float64               `json:"lat"`
	Lng    *float64               `json:"lng"`
	Code   wizard.GeolocationCode `json:"code"`
}

func (h *WizardHandler) Geolocation(c *gin.Context) {
	w, ok := h.mount(c)
	if !ok {
		return
	}
	var req geolocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid geolocation request", err.Error())
		return
	}

	var loc wizard.Locator
	switch req.Source {
	case "ip":
		if l, found := middleware.Locator(c); found {
			loc = l
		} else {
			loc = wizard.DeviceReport{Code: wizard.GeoUnsupported}
		}
	default:
		report := wizard.DeviceReport{Code: req.Code}
		if req.Lat != nil && req.Lng != nil {
			report.Coordinates = &models.Coordinates{Lat: *req.Lat, Lng: *req.Lng}
		}
		loc = report
	}

	ctx := c.Request.Context()
	if h.GeoTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.GeoTimeout)
		defer cancel()
	}
	result, err := w.Locate(ctx, loc)
	if err != nil {
		respondError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, result)
}

// Submit registers the restaurant from the last step.
func (h *WizardHandler) Submit(c *gin.Context) {
	w, ok := h.mount(c)
	if !ok {
		return
	}
	result, err := w.Submit(c.Request.Context())
	if err != nil {
		respondError(c, err, wizard.DefaultSubmitFailure)
		return
	}
	getLogger(c).Info("Partner signup submitted", zap.String("restaurantID", result.RestaurantID))
	respondJSON(c, http.StatusOK, result)
}
