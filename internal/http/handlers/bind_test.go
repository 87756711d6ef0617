package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/ferrante/taskhub/internal/http/handlers"
	"github.com/gin-gonic/gin"
)

type validationBody struct {
	Message string                `json:"message"`
	Errors  []handlers.FieldError `json:"errors"`
}

func bindingRoute(out func() interface{}) *gin.Engine {
	return setupRouter(http.MethodPost, "/bind", func(c *gin.Context) {
		dst := out()

		if !handlers.BindJSON(c, dst) {
			return
		}

		c.Status(http.StatusNoContent)
	})
}

func decodeValidation(t *testing.T, raw []byte) validationBody {
	t.Helper()

	var body validationBody

	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("bad error body: %s", raw)
	}

	return body
}

func TestBindJSONFieldNamesFollowJSONTags(t *testing.T) {
	r := bindingRoute(func() interface{} { return &handlers.RegisterRequest{} })

	w := doJSON(r, http.MethodPost, "/bind", `{"email":"not-an-email","password":"x"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	body := decodeValidation(t, w.Body.Bytes())

	if body.Message != "Validation failed" {
		t.Errorf("got message %q", body.Message)
	}

	byField := map[string]handlers.FieldError{}

	for _, fe := range body.Errors {
		byField[fe.Field] = fe
	}

	email, ok := byField["email"]

	if !ok {
		t.Fatalf("no error reported for field email: %+v", body.Errors)
	}

	if email.Rule != "email" || email.Message != "must be a valid email address" {
		t.Errorf("unexpected email error: %+v", email)
	}

	password, ok := byField["password"]

	if !ok {
		t.Fatalf("no error reported for field password: %+v", body.Errors)
	}

	if password.Rule != "min" || password.Message != "must be at least 6 characters" {
		t.Errorf("unexpected password error: %+v", password)
	}
}

func TestBindJSONEqfieldNamesTheJSONField(t *testing.T) {
	r := bindingRoute(func() interface{} { return &handlers.ChangePasswordRequest{} })

	w := doJSON(r, http.MethodPost, "/bind", `{"currentPassword":"old-pass","newPassword":"new-pass-1","confirmPassword":"different"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	body := decodeValidation(t, w.Body.Bytes())

	if len(body.Errors) != 1 {
		t.Fatalf("got %d errors, want 1: %+v", len(body.Errors), body.Errors)
	}

	fe := body.Errors[0]

	if fe.Field != "confirmPassword" || fe.Rule != "eqfield" {
		t.Errorf("unexpected error: %+v", fe)
	}

	if fe.Message != "must match newPassword" {
		t.Errorf("got message %q, want %q", fe.Message, "must match newPassword")
	}
}

func TestBindJSONTypeMismatch(t *testing.T) {
	r := bindingRoute(func() interface{} { return &handlers.RegisterRequest{} })

	w := doJSON(r, http.MethodPost, "/bind", `{"email":123,"password":"secret1"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	body := decodeValidation(t, w.Body.Bytes())

	if len(body.Errors) != 1 || body.Errors[0].Rule != "type" {
		t.Fatalf("unexpected errors: %+v", body.Errors)
	}
}

func TestBindJSONMalformedBody(t *testing.T) {
	r := bindingRoute(func() interface{} { return &handlers.RegisterRequest{} })

	w := doJSON(r, http.MethodPost, "/bind", `{"email": "t@example.com",`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	body := decodeValidation(t, w.Body.Bytes())

	if len(body.Errors) != 1 || body.Errors[0].Field != "body" {
		t.Fatalf("unexpected errors: %+v", body.Errors)
	}
}
