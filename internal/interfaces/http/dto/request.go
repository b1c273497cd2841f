package dto

import (
	"time"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

// RangeRequest is the date window shared by the analytics endpoints.
// Both bounds are optional; the default window is the trailing 30 days.
type RangeRequest struct {
	From string `form:"from"`
	To   string `form:"to"`
}

// Window resolves the request into concrete bounds. The upper bound is
// pushed to end of day so "to=2025-06-05" includes that day's orders.
func (r RangeRequest) Window(now time.Time) (time.Time, time.Time, error) {
	from := now.AddDate(0, 0, -30)
	to := now

	if r.From != "" {
		parsed, err := time.ParseInLocation(dateLayout, r.From, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = parsed
	}
	if r.To != "" {
		parsed, err := time.ParseInLocation(dateLayout, r.To, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = parsed.Add(24*time.Hour - time.Nanosecond)
	}
	return from, to, nil
}

// BindRange binds the from/to query parameters
func BindRange(c *gin.Context) (RangeRequest, error) {
	var req RangeRequest
	err := c.ShouldBindQuery(&req)
	return req, err
}

// CreateExpenseRequest is the payload for recording an expense
type CreateExpenseRequest struct {
	Category  string  `json:"category" binding:"required"`
	Amount    string  `json:"amount" binding:"required"`
	Date      string  `json:"date" binding:"required"`
	Comment   string  `json:"comment"`
	ProductID *string `json:"product_id"`
}
