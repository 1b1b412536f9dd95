package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"platter/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var (
	pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)
	pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\n%%EOF\n")
)

const testDevice = "device-1"

func doJSON(t *testing.T, r http.Handler, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type upload struct {
	field, name, contentType string
	data                     []byte
}

func doMultipart(t *testing.T, r http.Handler, method, path string, files []upload, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+f.field+`"; filename="`+f.name+`"`)
		h.Set("Content-Type", f.contentType)
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst))
}

type mockRegistrar struct{ mock.Mock }

func (m *mockRegistrar) Register(ctx context.Context, draft models.RestaurantDraft, files models.RegistrationFiles) (*models.RegistrationResult, error) {
	args := m.Called(ctx, draft, files)
	res, _ := args.Get(0).(*models.RegistrationResult)
	return res, args.Error(1)
}

func validFields() map[string]string {
	return map[string]string{
		"restaurantName":                "Spice Route",
		"description":                   "Coastal kitchen",
		"email":                         "owner@spiceroute.in",
		"password":                      "Valid1Pass!",
		"address.street":                "12 MG Road",
		"address.city":                  "Bengaluru",
		"address.state":                 "Karnataka",
		"address.pincode":               "560001",
		"phone":                         "9876543210",
		"licenseNumber.fssai":           "12345678901234",
		"licenseNumber.gst":             "27ABCDE1234F1Z5",
		"openingTime":                   "09:00",
		"closingTime":                   "23:00",
		"bankDetails.accountHolderName": "Asha Rao",
		"bankDetails.accountNumber":     "123456789012",
		"bankDetails.IFSC":              "HDFC0001234",
		"bankDetails.bankName":          "HDFC Bank",
	}
}
