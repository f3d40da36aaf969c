package request

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCallDecodesResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Write([]byte(`{"bitcoin":{"usd":43210.99}}`))
	}))
	defer server.Close()

	req, err := http.NewRequest("GET", server.URL, nil)
	assert.NoError(t, err)

	var response map[string]map[string]float64
	_, err = Call(req, &response)
	assert.NoError(t, err)
	assert.Equal(t, 43210.99, response["bitcoin"]["usd"])
}

func TestCallRejectsErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	req, err := http.NewRequest("GET", server.URL, nil)
	assert.NoError(t, err)

	var response map[string]interface{}
	_, err = Call(req, &response)
	assert.Error(t, err)
}

func TestToJsonReq(t *testing.T) {
	buf, err := ToJsonReq(map[string]string{"symbol": "btc"})
	assert.NoError(t, err)
	assert.JSONEq(t, `{"symbol":"btc"}`, buf.String())
}
