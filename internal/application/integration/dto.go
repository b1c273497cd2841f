package integration

import "time"

// OrderSyncResult summarizes one order sync leg. Imported counts orders
// created or updated; Skipped counts orders rejected before any write
// attempt; Errored counts orders that failed during the write attempt.
type OrderSyncResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
	Errored  int `json:"errored"`
}

// ProductSyncResult summarizes one product sync leg
type ProductSyncResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
	Errored int `json:"errored"`
}

// OrderLegReport is the outcome of the order leg: a result when the leg
// ran, or the failure that prevented it from running.
type OrderLegReport struct {
	Result *OrderSyncResult `json:"result,omitempty"`
	Error  string           `json:"error,omitempty"`
}

// Failed reports whether the leg failed before producing a result
func (r OrderLegReport) Failed() bool {
	return r.Error != ""
}

// ProductLegReport is the outcome of the product leg
type ProductLegReport struct {
	Result *ProductSyncResult `json:"result,omitempty"`
	Error  string             `json:"error,omitempty"`
}

// Failed reports whether the leg failed before producing a result
func (r ProductLegReport) Failed() bool {
	return r.Error != ""
}

// RunReport describes one full orchestrator run. Both legs always report
// independently; a failure in one never hides the outcome of the other.
type RunReport struct {
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt time.Time        `json:"finished_at"`
	Orders     OrderLegReport   `json:"orders"`
	Products   ProductLegReport `json:"products"`
}
