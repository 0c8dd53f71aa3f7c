package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budgeteer/internal/core"
	"budgeteer/internal/services"
	"budgeteer/internal/store/memory"
)

func newTestRouter(t *testing.T) (*services.Ledger, http.Handler) {
	t.Helper()
	clock := func() time.Time {
		return time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)
	}
	ledger, err := services.NewWithClock(memory.New(), clock)
	require.NoError(t, err)
	return ledger, NewRouter(NewHandler(ledger), nil)
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload), "body: %s", rec.Body.String())
	return rec, payload
}

func TestGetBucketsEmpty(t *testing.T) {
	_, router := newTestRouter(t)

	rec, payload := doJSON(t, router, http.MethodGet, "/buckets", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", payload["status"])
	assert.Empty(t, payload["buckets"])
}

func TestAddBucketAndList(t *testing.T) {
	_, router := newTestRouter(t)

	rec, payload := doJSON(t, router, http.MethodPost, "/bucket", `{"name":"Food","budget":"200"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", payload["status"])

	_, payload = doJSON(t, router, http.MethodGet, "/buckets", "")
	buckets := payload["buckets"].(map[string]any)
	require.Contains(t, buckets, "Food")
	assert.Equal(t, 200.0, buckets["Food"].(map[string]any)["budget"])
}

func TestAddBucketAcceptsNumericBudget(t *testing.T) {
	_, router := newTestRouter(t)

	rec, payload := doJSON(t, router, http.MethodPost, "/bucket", `{"name":"Food","budget":200.5}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", payload["status"])

	_, payload = doJSON(t, router, http.MethodGet, "/buckets", "")
	buckets := payload["buckets"].(map[string]any)
	assert.Equal(t, 200.5, buckets["Food"].(map[string]any)["budget"])
}

func TestAddBucketValidation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"missing name", `{"budget":"200"}`, "Please include a name"},
		{"missing budget", `{"name":"Food"}`, "Please include a budget"},
		{"garbage budget", `{"name":"Food","budget":"abc"}`, "Invalid budget"},
		{"zero budget", `{"name":"Food","budget":"0"}`, "Invalid budget"},
		{"negative budget", `{"name":"Food","budget":-5}`, "Invalid budget"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, router := newTestRouter(t)
			rec, payload := doJSON(t, router, http.MethodPost, "/bucket", tt.body)
			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			assert.Equal(t, "failure", payload["status"])
			assert.Equal(t, tt.message, payload["message"])
		})
	}
}

func TestMalformedBody(t *testing.T) {
	_, router := newTestRouter(t)

	rec, payload := doJSON(t, router, http.MethodPost, "/bucket", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "failure", payload["status"])
	assert.Equal(t, "Invalid request body", payload["message"])
}

func TestAddDuplicateBucket(t *testing.T) {
	_, router := newTestRouter(t)

	doJSON(t, router, http.MethodPost, "/bucket", `{"name":"Food","budget":"200"}`)
	rec, payload := doJSON(t, router, http.MethodPost, "/bucket", `{"name":"Food","budget":"300"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "A bucket with that name already exists", payload["message"])
}

func TestUpdateBucketRename(t *testing.T) {
	_, router := newTestRouter(t)

	doJSON(t, router, http.MethodPost, "/bucket", `{"name":"Food","budget":"200"}`)
	rec, payload := doJSON(t, router, http.MethodPut, "/bucket", `{"oldName":"Food","name":"Groceries","budget":"250"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", payload["status"])

	_, payload = doJSON(t, router, http.MethodGet, "/buckets", "")
	buckets := payload["buckets"].(map[string]any)
	assert.NotContains(t, buckets, "Food")
	require.Contains(t, buckets, "Groceries")
	assert.Equal(t, 250.0, buckets["Groceries"].(map[string]any)["budget"])
}

func TestUpdateMissingBucket(t *testing.T) {
	_, router := newTestRouter(t)

	rec, payload := doJSON(t, router, http.MethodPut, "/bucket", `{"oldName":"Ghost","name":"Groceries"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "That bucket does not exist", payload["message"])
}

func TestDeleteBucket(t *testing.T) {
	_, router := newTestRouter(t)

	doJSON(t, router, http.MethodPost, "/bucket", `{"name":"Food","budget":"200"}`)
	rec, payload := doJSON(t, router, http.MethodDelete, "/bucket", `{"name":"Food"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", payload["status"])

	_, payload = doJSON(t, router, http.MethodGet, "/buckets", "")
	assert.Empty(t, payload["buckets"])
}

func TestAssignExpenseLifecycle(t *testing.T) {
	ledger, router := newTestRouter(t)

	r := core.RawExpense{Date: "3/2/2024", Type: "Debit", Description: "GROCER", Amount: 42.5, Status: "Posted"}
	_, err := ledger.MergeIngested([]core.RawExpense{r})
	require.NoError(t, err)
	doJSON(t, router, http.MethodPost, "/bucket", `{"name":"Food","budget":"200"}`)

	rec, payload := doJSON(t, router, http.MethodPost, "/assign",
		`{"expenseHash":"`+r.Hash()+`","bucketName":"Food"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", payload["status"])

	_, payload = doJSON(t, router, http.MethodGet, "/expenses", "")
	expenses := payload["expenses"].(map[string]any)
	require.Contains(t, expenses, r.Hash())
	assert.Equal(t, "Food", expenses[r.Hash()].(map[string]any)["bucket"])

	// Null bucketName unassigns.
	rec, payload = doJSON(t, router, http.MethodPost, "/assign",
		`{"expenseHash":"`+r.Hash()+`","bucketName":null}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", payload["status"])

	_, payload = doJSON(t, router, http.MethodGet, "/expenses", "")
	expenses = payload["expenses"].(map[string]any)
	assert.Nil(t, expenses[r.Hash()].(map[string]any)["bucket"])
}

func TestAssignErrors(t *testing.T) {
	ledger, router := newTestRouter(t)

	r := core.RawExpense{Date: "3/2/2024", Type: "Debit", Description: "GROCER", Amount: 42.5, Status: "Posted"}
	_, err := ledger.MergeIngested([]core.RawExpense{r})
	require.NoError(t, err)

	rec, payload := doJSON(t, router, http.MethodPost, "/assign",
		`{"expenseHash":"deadbeef","bucketName":null}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "That expense does not exist", payload["message"])

	rec, payload = doJSON(t, router, http.MethodPost, "/assign",
		`{"expenseHash":"`+r.Hash()+`","bucketName":"Ghost"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "That bucket does not exist", payload["message"])
}

func TestHealthEndpoints(t *testing.T) {
	_, router := newTestRouter(t)

	rec, payload := doJSON(t, router, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", payload["status"])

	rec, payload = doJSON(t, router, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "3--2024", payload["month"])
}

func TestFlexStringUnmarshal(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{`"200"`, "200", true},
		{`200`, "200", true},
		{`42.5`, "42.5", true},
		{`null`, "", true},
		{`true`, "", false},
		{`["200"]`, "", false},
	}
	for _, tt := range tests {
		var s flexString
		err := json.Unmarshal([]byte(tt.in), &s)
		if tt.ok {
			require.NoError(t, err, "input %s", tt.in)
			assert.Equal(t, tt.want, string(s), "input %s", tt.in)
		} else {
			assert.Error(t, err, "input %s", tt.in)
		}
	}
}
