package http

import (
	"net/http"

	"budgeteer/internal/services"
)

// Handler holds the dependencies shared by all endpoints.
type Handler struct {
	ledger *services.Ledger
}

func NewHandler(ledger *services.Ledger) *Handler {
	return &Handler{ledger: ledger}
}

// GetExpenses lists the active month's expenses keyed by identity hash.
func (h *Handler) GetExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.ledger.Expenses()
	if err != nil {
		writeActionResult(w, r, err)
		return
	}
	writeSuccess(w, map[string]any{"expenses": expenses})
}

// GetBuckets lists the active month's buckets keyed by name.
func (h *Handler) GetBuckets(w http.ResponseWriter, r *http.Request) {
	buckets, err := h.ledger.Buckets()
	if err != nil {
		writeActionResult(w, r, err)
		return
	}
	writeSuccess(w, map[string]any{"buckets": buckets})
}

// AddBucket creates a bucket from {"name", "budget"}.
func (h *Handler) AddBucket(w http.ResponseWriter, r *http.Request) {
	var req bucketRequest
	if err := decodeBody(r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	writeActionResult(w, r, h.ledger.AddBucket(req.Name, string(req.Budget)))
}

// UpdateBucket renames and/or rebudgets the bucket named by "oldName".
func (h *Handler) UpdateBucket(w http.ResponseWriter, r *http.Request) {
	var req bucketRequest
	if err := decodeBody(r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	writeActionResult(w, r, h.ledger.UpdateBucket(req.OldName, req.Name, string(req.Budget)))
}

// DeleteBucket removes the bucket named by "name".
func (h *Handler) DeleteBucket(w http.ResponseWriter, r *http.Request) {
	var req bucketRequest
	if err := decodeBody(r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	writeActionResult(w, r, h.ledger.DeleteBucket(req.Name))
}

// AssignExpense points an expense at a bucket, or unassigns it when
// bucketName is null.
func (h *Handler) AssignExpense(w http.ResponseWriter, r *http.Request) {
	var req assignRequest
	if err := decodeBody(r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	writeActionResult(w, r, h.ledger.AssignExpense(req.ExpenseHash, req.BucketName))
}

// Healthz reports process liveness.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, nil)
}

// Readyz reports whether the ledger resolved its active month.
func (h *Handler) Readyz(w http.ResponseWriter, r *http.Request) {
	if h.ledger.ActiveKey() == "" {
		writeFailure(w, http.StatusServiceUnavailable, "Ledger not ready")
		return
	}
	writeSuccess(w, map[string]any{"month": h.ledger.ActiveKey().String()})
}
