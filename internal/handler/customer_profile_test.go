package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func (f *bookingFixture) putProfile(t *testing.T, userID uint64, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/v1/customer/profile", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", float64(userID))
	c.Set("role", "CUSTOMER")
	if err := f.handler.UpdateProfile(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec
}

func TestCustomerProfileUpdate(t *testing.T) {
	f := newBookingFixture(t, 1)

	rec := f.putProfile(t, f.customerID, `{"first_name":"  Nora ","last_name":"Okafor"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var first, last string
	if err := f.db.QueryRow("SELECT first_name, last_name FROM users WHERE id=?", f.customerID).Scan(&first, &last); err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if first != "Nora" || last != "Okafor" {
		t.Fatalf("names = %q %q, want trimmed Nora Okafor", first, last)
	}
}

func TestCustomerProfileUpdateRequiresFirstName(t *testing.T) {
	f := newBookingFixture(t, 1)

	rec := f.putProfile(t, f.customerID, `{"first_name":"   ","last_name":"Okafor"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var last string
	if err := f.db.QueryRow("SELECT last_name FROM users WHERE id=?", f.customerID).Scan(&last); err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if last != "" {
		t.Fatalf("last_name = %q, rejected request must not write", last)
	}
}
