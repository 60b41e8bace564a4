package report

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(Te *testing.T) {
	Te.Setenv("FOLDY_OPERATOR", "")
	assert.Equal(Te, DefaultAddress, NewClient("").Address)
	Te.Setenv("FOLDY_OPERATOR", "op:1234")
	C := NewClient("")
	assert.Equal(Te, "op:1234", C.Address)
	assert.Equal(Te, "http://op:1234/error", C.url("/error", nil))
	assert.Equal(Te, "https://x/complete", NewClient("https://x/").url("/complete", nil))
}

func TestError(Te *testing.T) {
	var got ErrorReport
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(Te, "/error", r.URL.Path)
		assert.Equal(Te, http.MethodPost, r.Method)
		assert.NoError(Te, json.NewDecoder(r.Body).Decode(&got))
	}))
	defer srv.Close()
	C := NewClient(srv.URL)
	require.NoError(Te, C.Error(context.Background(), "abc", "pdb '9xyz' not found"))
	assert.Equal(Te, ErrorReport{Msg: "pdb '9xyz' not found", CorrelationID: "abc"}, got)
}

func TestErrorStatus(Te *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("missing msg\n"))
	}))
	defer srv.Close()
	err := NewClient(srv.URL).Error(context.Background(), "abc", "")
	require.Error(Te, err)
	assert.Equal(Te, "report error: expected status code 200 from /error, got 500: missing msg", err.Error())
}

func TestComplete(Te *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(Te, "/complete", r.URL.Path)
		assert.Equal(Te, "abc", r.URL.Query().Get("correlation_id"))
		f, h, err := r.FormFile("data")
		if !assert.NoError(Te, err) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer f.Close()
		assert.Equal(Te, "1aki_minim.tar.gz", h.Filename)
		data, _ := io.ReadAll(f)
		assert.Equal(Te, "bundle", string(data))
	}))
	defer srv.Close()
	require.NoError(Te, NewClient(srv.URL).Complete(context.Background(), "abc", "1aki_minim.tar.gz", strings.NewReader("bundle")))
}
