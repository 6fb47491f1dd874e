package apierror

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
)

func fakeResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Status:     fmt.Sprintf("%d %s", status, http.StatusText(status)),
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestFromResponseParsesJSONMessage(t *testing.T) {
	err := FromResponse(fakeResponse(403, `{"message":"not your story"}`))
	if err.Message != "not your story" {
		t.Fatalf("message = %q", err.Message)
	}
	if !IsForbidden(err) {
		t.Fatal("expected forbidden")
	}
}

func TestFromResponsePrefersErrorField(t *testing.T) {
	err := FromResponse(fakeResponse(500, `{"error":"boom","code":"internal"}`))
	if err.Message != "boom" || err.Code != "internal" {
		t.Fatalf("got %q code %q", err.Message, err.Code)
	}
}

func TestFromResponseFallsBackToStatusText(t *testing.T) {
	err := FromResponse(fakeResponse(404, "<html>not json</html>"))
	if err.Message != "404 Not Found" {
		t.Fatalf("message = %q", err.Message)
	}
	if !IsNotFound(err) {
		t.Fatal("expected not found")
	}
}

func TestStatusHelpersSeeThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("load story: %w", FromResponse(fakeResponse(401, `{}`)))
	if !IsUnauthorized(wrapped) {
		t.Fatal("expected unauthorized through wrapping")
	}
	if IsUnauthorized(errors.New("plain")) {
		t.Fatal("plain error should not match")
	}
}

func TestValidation(t *testing.T) {
	err := Validation("title is required")
	if !IsValidation(err) {
		t.Fatal("expected validation error")
	}
	if IsValidation(FromResponse(fakeResponse(400, `{}`))) {
		t.Fatal("http 400 is not a client-side validation failure")
	}
}
