package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/reachly/leadmatch/internal/engine"
	"github.com/reachly/leadmatch/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopSender struct{}

func (nopSender) Send(context.Context, string, string, string) error { return nil }

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))
	t.Cleanup(func() { _ = store.Close() })

	eng := engine.New(store, nopSender{}, engine.Config{AdminEmail: "admin@example.com"})
	ts := httptest.NewServer(NewServer(eng).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func vendorPayload(email string) map[string]any {
	return map[string]any{
		"email":              email,
		"companyName":        "Acme Growth",
		"firstName":          "Ada",
		"lastName":           "Lovelace",
		"agreeToTerms":       true,
		"selectedIndustries": []string{"SaaS"},
		"selectedServices":   []string{"Marketing"},
	}
}

func buyerPayload(email string) map[string]any {
	return map[string]any{
		"email":       email,
		"companyName": "Northwind",
		"firstName":   "Grace",
		"lastName":    "Hopper",
		"industries":  []string{"SaaS"},
		"services": []map[string]any{
			{"service": "Marketing", "timeframe": "1-3 months", "budget": "$5k-$10k"},
		},
	}
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)

	resp, body := doJSON(t, http.MethodGet, ts.URL+"/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
}

func TestSubmitVendor(t *testing.T) {
	ts := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/lead/vendor", vendorPayload("vendor@example.com"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Vendor profile submitted successfully", body["message"])

	// Duplicate submission is a client error with a readable message.
	resp, body = doJSON(t, http.MethodPost, ts.URL+"/lead/vendor", vendorPayload("vendor@example.com"))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "already registered")
}

func TestSubmitVendor_InvalidJSON(t *testing.T) {
	ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/lead/vendor", bytes.NewBufferString("{nope"))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMatchFlow(t *testing.T) {
	ts := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/lead/vendor", vendorPayload("vendor@example.com"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/lead/buyer", buyerPayload("buyer@example.com"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Accepting without leads fails up front.
	resp, body := doJSON(t, http.MethodPut,
		ts.URL+"/lead/vendor/vendor@example.com/match/buyer@example.com",
		map[string]any{"status": "accepted"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "no remaining leads")

	resp, body = doJSON(t, http.MethodPost, ts.URL+"/lead/addLeads/vendor@example.com",
		map[string]any{"leads": 2})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(2), body["leads"])

	resp, body = doJSON(t, http.MethodPut,
		ts.URL+"/lead/vendor/vendor@example.com/match/buyer@example.com",
		map[string]any{"status": "accepted"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["remainingLeads"])

	resp, body = doJSON(t, http.MethodGet, ts.URL+"/lead/leads/vendor@example.com", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["leads"])

	// The vendor sees the accepted buyer in its match list.
	resp, body = doJSON(t, http.MethodGet, ts.URL+"/lead/vendor/vendor@example.com/matches", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	matched, ok := body["matchedBuyers"].([]any)
	require.True(t, ok)
	require.Len(t, matched, 1)
}

func TestVendorNotFound(t *testing.T) {
	ts := newTestServer(t)

	resp, _ := doJSON(t, http.MethodGet, ts.URL+"/lead/vendor/ghost@example.com", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/lead/leads/ghost@example.com", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateBuyerServicesAndToggle(t *testing.T) {
	ts := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/lead/buyer", buyerPayload("buyer@example.com"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, http.MethodPut, ts.URL+"/lead/buyer/services/email/buyer@example.com",
		map[string]any{"services": []map[string]any{
			{"service": "SEO", "timeframe": "ASAP", "budget": "$1k-$5k"},
		}})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	buyer, ok := body["buyer"].(map[string]any)
	require.True(t, ok)
	services, ok := buyer["services"].([]any)
	require.True(t, ok)
	require.Len(t, services, 1)
	serviceID, _ := services[0].(map[string]any)["id"].(string)
	require.NotEmpty(t, serviceID)

	url := fmt.Sprintf("%s/lead/buyer/buyer@example.com/services/%s", ts.URL, serviceID)
	resp, body = doJSON(t, http.MethodPatch, url, map[string]any{"active": false})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	svc, ok := body["service"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, false, svc["active"])

	// A malformed replacement list is rejected with the validation message.
	resp, body = doJSON(t, http.MethodPut, ts.URL+"/lead/buyer/services/email/buyer@example.com",
		map[string]any{"services": []map[string]any{{"service": "SEO"}}})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Each service must include service name, timeframe, and budget", body["error"])
}

func TestUpdateVendorAndReport(t *testing.T) {
	ts := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/lead/vendor", vendorPayload("vendor@example.com"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/lead/buyer", buyerPayload("buyer@example.com"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, http.MethodPut, ts.URL+"/lead/updateVendor/vendor@example.com",
		map[string]any{"companyName": "Acme Rebranded"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	vendor, ok := body["vendor"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Acme Rebranded", vendor["companyName"])

	resp, body = doJSON(t, http.MethodGet, ts.URL+"/lead/getdata", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	vendorSide, ok := body["vendor"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1), vendorSide["totalMatches"])

	resp, body = doJSON(t, http.MethodGet, ts.URL+"/lead/getAllVendors", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	vendors, ok := body["vendors"].([]any)
	require.True(t, ok)
	assert.Len(t, vendors, 1)

	resp, body = doJSON(t, http.MethodGet, ts.URL+"/lead/getAllBuyers", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	buyers, ok := body["buyers"].([]any)
	require.True(t, ok)
	assert.Len(t, buyers, 1)
}
