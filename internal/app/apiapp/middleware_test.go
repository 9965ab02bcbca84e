package apiapp

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func TestRequestLoggerPassesThrough(t *testing.T) {
	mw := requestLogger(zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusNoContent)
	}
}

func TestApplyMiddlewaresRecoversFromPanic(t *testing.T) {
	r := chi.NewRouter()
	ApplyMiddlewares(r, zap.NewNop())
	r.Get("/boom", func(http.ResponseWriter, *http.Request) {
		panic("handler blew up")
	})

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusInternalServerError)
	}
}

func TestRegisterRoutesServesHealth(t *testing.T) {
	r := chi.NewRouter()
	RegisterRoutes(r, Dependencies{Logger: zap.NewNop()})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusOK)
	}
}
