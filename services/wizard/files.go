package wizard

import (
	"fmt"
	"path/filepath"
	"strings"

	"platter/models"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultMaxUploadBytes caps any single selected file.
const DefaultMaxUploadBytes int64 = 5 * 1024 * 1024

var (
	documentTypes = map[string][]string{
		".pdf":  {"application/pdf"},
		".jpeg": {"image/jpeg"},
		".jpg":  {"image/jpeg"},
		".png":  {"image/png"},
	}
	imageTypes = map[string][]string{
		".jpeg": {"image/jpeg"},
		".jpg":  {"image/jpeg"},
		".png":  {"image/png"},
	}
)

// FileRules are the selection-time constraints on uploads.
type FileRules struct {
	MaxBytes int64
}

// DefaultFileRules returns the 5 MB limit.
func DefaultFileRules() FileRules {
	return FileRules{MaxBytes: DefaultMaxUploadBytes}
}

func (r FileRules) maxBytes() int64 {
	if r.MaxBytes <= 0 {
		return DefaultMaxUploadBytes
	}
	return r.MaxBytes
}

// CheckDocument accepts PDF, JPEG, JPG and PNG files within the size limit.
func (r FileRules) CheckDocument(field string, f models.UploadedFile) error {
	return r.check(field, f, documentTypes, "Only PDF, JPEG, JPG and PNG files are allowed")
}

// CheckImage accepts JPEG, JPG and PNG files within the size limit.
func (r FileRules) CheckImage(field string, f models.UploadedFile) error {
	return r.check(field, f, imageTypes, "Only JPEG, JPG and PNG images are allowed")
}

func (r FileRules) check(field string, f models.UploadedFile, allowed map[string][]string, typeMessage string) error {
	ext := strings.ToLower(filepath.Ext(f.Name))
	mimes, ok := allowed[ext]
	if !ok {
		return &FileConstraintError{Field: field, Message: typeMessage}
	}
	size := f.Size
	if size < int64(len(f.Data)) {
		size = int64(len(f.Data))
	}
	if size > r.maxBytes() {
		return &FileConstraintError{
			Field:   field,
			Message: fmt.Sprintf("File size must be less than %dMB", r.maxBytes()/(1024*1024)),
		}
	}
	detected := mimetype.Detect(f.Data)
	for _, m := range mimes {
		if detected.Is(m) {
			return nil
		}
	}
	return &FileConstraintError{Field: field, Message: typeMessage}
}

// FileSet is the in-memory file map of one mount. It is never persisted.
type FileSet struct {
	images    []models.UploadedFile
	documents map[models.DocumentSlot]models.UploadedFile
}

func newFileSet() *FileSet {
	return &FileSet{documents: make(map[models.DocumentSlot]models.UploadedFile)}
}

func (f *FileSet) ImageCount() int {
	return len(f.images)
}

func (f *FileSet) HasDocument(slot models.DocumentSlot) bool {
	_, ok := f.documents[slot]
	return ok
}

// Images returns the images in upload order.
func (f *FileSet) Images() []models.UploadedFile {
	return append([]models.UploadedFile(nil), f.images...)
}

// Documents returns a copy of the filled document slots.
func (f *FileSet) Documents() map[models.DocumentSlot]models.UploadedFile {
	out := make(map[models.DocumentSlot]models.UploadedFile, len(f.documents))
	for k, v := range f.documents {
		out[k] = v
	}
	return out
}

// FileMeta describes a held file without its contents.
type FileMeta struct {
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

func metaOf(f models.UploadedFile) FileMeta {
	return FileMeta{Name: f.Name, ContentType: f.ContentType, Size: f.Size}
}

// FilesSummary is the file map as shown to the page.
type FilesSummary struct {
	Images    []FileMeta                        `json:"images"`
	Documents map[models.DocumentSlot]*FileMeta `json:"documents"`
}

func (f *FileSet) summary() FilesSummary {
	out := FilesSummary{
		Images:    make([]FileMeta, 0, len(f.images)),
		Documents: make(map[models.DocumentSlot]*FileMeta, len(models.DocumentSlots)),
	}
	for _, img := range f.images {
		out.Images = append(out.Images, metaOf(img))
	}
	for _, slot := range models.DocumentSlots {
		if doc, ok := f.documents[slot]; ok {
			m := metaOf(doc)
			out.Documents[slot] = &m
		} else {
			out.Documents[slot] = nil
		}
	}
	return out
}
