package storage

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// fakeS3 is a minimal path-style S3 endpoint covering Get, Head, Put and
// Delete.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (f *fakeS3) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	// Path style: /bucket/key
	_, key, _ := strings.Cut(strings.TrimPrefix(req.URL.Path, "/"), "/")
	respond := func(code int, body []byte) *http.Response {
		h := http.Header{}
		h.Set("Content-Length", strconv.Itoa(len(body)))
		return &http.Response{StatusCode: code, Header: h, Body: io.NopCloser(bytes.NewReader(body)), Request: req}
	}

	switch req.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(req.Body)
		if dec, ok := decodeChunked(body); ok {
			body = dec
		}
		f.objects[key] = body
		return respond(http.StatusOK, nil), nil
	case http.MethodGet:
		b, ok := f.objects[key]
		if !ok {
			return respond(http.StatusNotFound, []byte(`<Error><Code>NoSuchKey</Code></Error>`)), nil
		}
		return respond(http.StatusOK, b), nil
	case http.MethodHead:
		b, ok := f.objects[key]
		if !ok {
			return respond(http.StatusNotFound, nil), nil
		}
		resp := respond(http.StatusOK, nil)
		resp.Header.Set("Content-Length", strconv.Itoa(len(b)))
		return resp, nil
	case http.MethodDelete:
		delete(f.objects, key)
		return respond(http.StatusNoContent, nil), nil
	}
	return respond(http.StatusNotImplemented, nil), nil
}

// decodeChunked unwraps a single-chunk aws-chunked payload.
func decodeChunked(b []byte) ([]byte, bool) {
	parts := strings.Split(string(b), "\r\n")
	if len(parts) < 3 || parts[2] != "0" {
		return nil, false
	}
	n, err := strconv.ParseInt(parts[0], 16, 64)
	if err != nil || int64(len(parts[1])) != n {
		return nil, false
	}
	return []byte(parts[1]), true
}

func TestS3Store(t *testing.T) {
	fake := &fakeS3{objects: make(map[string][]byte)}
	s, err := NewS3(context.Background(), S3Config{
		Bucket:          "saves",
		Endpoint:        "https://s3.test.local",
		PathStyle:       true,
		Prefix:          "campaign",
		AccessKeyID:     "AKIA",
		SecretAccessKey: "SECRET",
		HTTPClient:      &http.Client{Transport: fake},
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	exerciseStore(t, s)

	if err := s.WriteAll(context.Background(), "slot_4.json", []byte("{}")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, ok := fake.objects["campaign/slot_4.json"]; !ok {
		t.Fatalf("prefix not applied: %v", fake.objects)
	}
}
