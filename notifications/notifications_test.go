package notifications

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	config "github.com/anjiri1684/agriconnect/configs"
	"github.com/anjiri1684/agriconnect/models"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBrevoSend(t *testing.T) {
	var got brevoPayload
	var apiKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey = r.Header.Get("api-key")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	s := NewBrevo("key-123", "noreply@agriconnect.ng", "AgriConnect", quietLogger())
	s.endpoint = srv.URL

	err := s.Send(context.Background(), Message{ToEmail: "ada@farm.ng", Subject: "Hi", HTML: "<p>x</p>"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if apiKey != "key-123" {
		t.Fatalf("expected api key header, got %q", apiKey)
	}
	if got.To[0]["name"] != "ada" {
		t.Fatalf("expected name derived from email, got %q", got.To[0]["name"])
	}
}

func TestBrevoSendRejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	s := NewBrevo("k", "a@b.c", "n", quietLogger())
	s.endpoint = srv.URL
	if err := s.Send(context.Background(), Message{ToEmail: "x@y.z"}); err == nil {
		t.Fatalf("expected error for non-201 response")
	}
}

func TestInvalidRecipient(t *testing.T) {
	s := NewBrevo("k", "a@b.c", "n", quietLogger())
	if err := s.Send(context.Background(), Message{ToEmail: "not-an-email"}); err == nil {
		t.Fatalf("expected invalid recipient error")
	}
}

func TestNewFallsBackToNoop(t *testing.T) {
	n := New(config.EmailConfig{Provider: "brevo"}, quietLogger())
	if _, ok := n.(Noop); !ok {
		t.Fatalf("expected Noop when Brevo is unconfigured, got %T", n)
	}
	if _, ok := New(config.EmailConfig{Provider: "smtp", SMTPHost: "smtp.example.com", SMTPUser: "u"}, quietLogger()).(*SMTPService); !ok {
		t.Fatalf("expected SMTP notifier")
	}
}

func TestTemplatesEscapeInput(t *testing.T) {
	expert := &models.Expert{FullName: "Dr. Bello", Email: "bello@example.com"}
	b := &models.Booking{
		FarmerName:         "<script>",
		BookingTime:        "10:00",
		DurationMinutes:    models.Duration60,
		ConsultationReason: "cassava & yam",
	}
	msg := BookingRequested(expert, b)
	if strings.Contains(msg.HTML, "<script>") {
		t.Fatalf("farmer name must be escaped: %s", msg.HTML)
	}
	if !strings.Contains(msg.HTML, "cassava &amp; yam") {
		t.Fatalf("reason must be escaped: %s", msg.HTML)
	}
}
