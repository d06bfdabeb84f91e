package reconcile

// RecordError reports one rejected batch record, tagged with its
// original batch index so integrators can correlate failures.
type RecordError struct {
	Index   int                 `json:"index"`
	Errors  map[string][]string `json:"errors"`
	Payload any                 `json:"payload,omitempty"`
}

// Result is the aggregate outcome of one reconciliation batch. The
// shape is surfaced verbatim to API callers and is part of the
// integration contract.
type Result struct {
	All            int           `json:"all"`
	Created        int           `json:"created"`
	Updated        int           `json:"updated"`
	Deleted        int           `json:"deleted"`
	AdditionalInfo []RecordError `json:"additionalInfo"`
}

// NewResult creates a result for a batch of the given size.
func NewResult(all int) *Result {
	return &Result{All: all, AdditionalInfo: make([]RecordError, 0)}
}

// Reject records a failed record with its field-level errors.
func (r *Result) Reject(index int, errs map[string][]string, payload any) {
	r.AdditionalInfo = append(r.AdditionalInfo, RecordError{
		Index:   index,
		Errors:  errs,
		Payload: payload,
	})
}

// RejectField records a failed record with a single field error.
func (r *Result) RejectField(index int, field, message string, payload any) {
	r.Reject(index, map[string][]string{field: {message}}, payload)
}
