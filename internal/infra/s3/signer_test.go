package s3

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

func newBackendForTest(t *testing.T, handler http.HandlerFunc) *EvidenceStore {
	t.Helper()

	// The minio client prefixes bucket operations with a GET ?location
	// region probe and fails on an empty body, so answer it here instead
	// of forwarding it to the per-test handler.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && r.URL.Query().Has("location") {
			w.Header().Set("Content-Type", "application/xml")
			_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?><LocationConstraint xmlns="http://s3.amazonaws.com/doc/2006-03-01/">us-east-1</LocationConstraint>`))
			return
		}
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{
		Endpoint:  strings.TrimPrefix(srv.URL, "http://"),
		AccessKey: "test-access",
		SecretKey: "test-secret",
	})
	if err != nil {
		t.Fatalf("create s3 client: %v", err)
	}
	return NewEvidenceStore(client, "moderation-evidence")
}

func TestEnsureBucketCreatesMissingBucketOnce(t *testing.T) {
	var mu sync.Mutex
	var methods []string

	store := newBackendForTest(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		methods = append(methods, r.Method)
		mu.Unlock()

		switch r.Method {
		case http.MethodHead:
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusOK)
		}
	})

	if err := store.EnsureBucket(context.Background()); err != nil {
		t.Fatalf("ensure bucket: %v", err)
	}

	mu.Lock()
	seen := len(methods)
	sawPut := false
	for _, m := range methods {
		if m == http.MethodPut {
			sawPut = true
		}
	}
	mu.Unlock()

	if !sawPut {
		t.Fatalf("expected a bucket creation request, saw %v", methods)
	}

	if err := store.EnsureBucket(context.Background()); err != nil {
		t.Fatalf("repeat ensure bucket: %v", err)
	}

	mu.Lock()
	after := len(methods)
	mu.Unlock()
	if after != seen {
		t.Fatalf("repeat ensure must not hit the backend: %d -> %d requests", seen, after)
	}
}

func TestEnsureBucketSkipsCreationWhenBucketExists(t *testing.T) {
	var mu sync.Mutex
	var methods []string

	store := newBackendForTest(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		methods = append(methods, r.Method)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	})

	if err := store.EnsureBucket(context.Background()); err != nil {
		t.Fatalf("ensure bucket: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	for _, m := range methods {
		if m == http.MethodPut {
			t.Fatalf("existing bucket must not be re-created, saw %v", methods)
		}
	}
}

func TestEnsureBucketRequiresClientAndBucket(t *testing.T) {
	if err := NewEvidenceStore(nil, "moderation-evidence").EnsureBucket(context.Background()); err == nil {
		t.Fatal("expected error for nil client")
	}

	store := newBackendForTest(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	store.bucket = ""
	if err := store.EnsureBucket(context.Background()); err == nil {
		t.Fatal("expected error for empty bucket")
	}
}

func TestPresignGetSignsObjectKey(t *testing.T) {
	store := newBackendForTest(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	url, err := store.PresignGet(context.Background(), "evidence/report-1/shot.png", 5*time.Minute)
	if err != nil {
		t.Fatalf("presign: %v", err)
	}
	if !strings.Contains(url, "moderation-evidence/evidence/report-1/shot.png") {
		t.Fatalf("signed url missing object path: %s", url)
	}
	if !strings.Contains(url, "X-Amz-Signature=") {
		t.Fatalf("signed url missing signature: %s", url)
	}
}
