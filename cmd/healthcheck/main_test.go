package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAddr(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "", want: "127.0.0.1:8080"},
		{raw: "garbage", want: "127.0.0.1:8080"},
		{raw: ":9090", want: "127.0.0.1:9090"},
		{raw: "0.0.0.0:8080", want: "127.0.0.1:8080"},
		{raw: "[::]:8080", want: "127.0.0.1:8080"},
		{raw: "10.0.0.5:8080", want: "10.0.0.5:8080"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeAddr(tt.raw))
		})
	}
}

func TestProbe(t *testing.T) {
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/health" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer healthy.Close()

	unhealthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer unhealthy.Close()

	assert.Equal(t, 0, probe(strings.TrimPrefix(healthy.URL, "http://")))
	assert.Equal(t, 1, probe(strings.TrimPrefix(unhealthy.URL, "http://")))
}
