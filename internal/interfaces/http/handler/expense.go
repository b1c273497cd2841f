package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/pharmadash/backend/internal/domain/finance"
	"github.com/pharmadash/backend/internal/interfaces/http/dto"
)

// ExpenseHandler exposes the expense records feeding analytics allocation
type ExpenseHandler struct {
	BaseHandler
	expenses finance.ExpenseRepository
	logger   *zap.Logger
}

// NewExpenseHandler creates an expense handler
func NewExpenseHandler(expenses finance.ExpenseRepository, logger *zap.Logger) *ExpenseHandler {
	return &ExpenseHandler{
		expenses: expenses,
		logger:   logger.Named("expense_handler"),
	}
}

// List returns expenses within the requested window.
// GET /api/expenses?from=2025-06-01&to=2025-06-30
func (h *ExpenseHandler) List(c *gin.Context) {
	req, err := dto.BindRange(c)
	if err != nil {
		h.BadRequest(c, "invalid query parameters")
		return
	}
	from, to, err := req.Window(time.Now())
	if err != nil {
		h.BadRequest(c, "dates must be in YYYY-MM-DD format")
		return
	}

	expenses, err := h.expenses.FindInRange(c.Request.Context(), from, to)
	if err != nil {
		h.logger.Error("Failed to list expenses", zap.Error(err))
		h.InternalError(c, "failed to list expenses")
		return
	}
	h.Success(c, expenses)
}

// Create records a new expense.
// POST /api/expenses
func (h *ExpenseHandler) Create(c *gin.Context) {
	var req dto.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "invalid request body")
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		h.BadRequest(c, "amount must be a decimal string")
		return
	}
	date, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
	if err != nil {
		h.BadRequest(c, "date must be in YYYY-MM-DD format")
		return
	}

	var productID *uuid.UUID
	if req.ProductID != nil && *req.ProductID != "" {
		parsed, err := uuid.Parse(*req.ProductID)
		if err != nil {
			h.BadRequest(c, "product_id must be a valid UUID")
			return
		}
		productID = &parsed
	}

	expense, err := finance.NewExpense(req.Category, amount, date)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	expense.Comment = req.Comment
	expense.ProductID = productID

	if err := h.expenses.Create(c.Request.Context(), expense); err != nil {
		h.logger.Error("Failed to create expense", zap.Error(err))
		h.InternalError(c, "failed to create expense")
		return
	}
	h.Created(c, expense)
}

// Delete removes an expense by ID.
// DELETE /api/expenses/:id
func (h *ExpenseHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "id must be a valid UUID")
		return
	}

	if err := h.expenses.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
