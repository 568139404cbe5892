package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/florianilch/claudine-genkit/internal/genkitadapter"
	"github.com/florianilch/claudine-genkit/internal/genkitadapter/types"
)

func TestAPIKeyAuth(t *testing.T) {
	policy := APIKeyAuth("k1", "", "k2")

	tests := []struct {
		name    string
		headers map[string]string
		wantErr bool
	}{
		{"bearer", map[string]string{"Authorization": "Bearer k1"}, false},
		{"header", map[string]string{"X-API-Key": "k2"}, false},
		{"wrong key", map[string]string{"Authorization": "Bearer nope"}, true},
		{"basic scheme", map[string]string{"Authorization": "Basic k1"}, true},
		{"missing", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/flows/generate", nil)
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			err := policy.Authorize(r)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnauthorized)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGenerate_AuthPolicy(t *testing.T) {
	adapter := &stubAdapter{resp: &genkitadapter.GenerateResponse{Message: &types.Message{}}}
	ts := newTestServer(t, adapter, Options{Auth: APIKeyAuth("secret")})

	resp := postGenerate(t, ts, helloRequest, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, genkitadapter.ErrorTypeAuthentication, decodeError(t, resp).Type)

	resp = postGenerate(t, ts, helloRequest, map[string]string{"Authorization": "Bearer secret"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRecovery(t *testing.T) {
	h := Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestApplyMiddlewares_Order(t *testing.T) {
	var order []string
	mw := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := applyMiddlewares(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}), mw("outer"), mw("inner"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}
