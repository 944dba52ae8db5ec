package payments

import (
	"net/http"

	"nontonin-api/database"
	"nontonin-api/internal/app/http/middleware"
	"nontonin-api/internal/domain/billing"
	"nontonin-api/internal/domain/payments"

	"github.com/gin-gonic/gin"
)

// QRISHandler serves the sandbox QRIS dialog. Sessions live in the
// registry; the countdown completes them and runs fulfilment.
type QRISHandler struct {
	registry *payments.Registry
}

func NewQRISHandler(registry *payments.Registry) *QRISHandler {
	return &QRISHandler{registry: registry}
}

type SessionDTO struct {
	ID            string       `json:"id"`
	Status        string       `json:"status"`
	Remaining     int          `json:"remaining"`
	Kind          billing.Kind `json:"kind"`
	Amount        int64        `json:"amount"`
	Description   string       `json:"description"`
	TransactionID *string      `json:"transaction_id"`
	Error         *string      `json:"error"`
}

func toSessionDTO(s *payments.Session) SessionDTO {
	dto := SessionDTO{
		ID:          s.ID,
		Status:      string(s.Status()),
		Remaining:   s.Remaining(),
		Kind:        s.Intent.Kind,
		Amount:      s.Intent.Amount,
		Description: s.Intent.Description,
	}
	tx, err := s.Result()
	if tx != nil {
		dto.TransactionID = &tx.ID
	}
	if err != nil {
		msg := "Payment could not be recorded"
		dto.Error = &msg
	}
	return dto
}

// ------------------------------
// POST /payments/qris
// ------------------------------
func (h *QRISHandler) Start(c *gin.Context) {
	profile, ok := middleware.CurrentProfile(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	key := idempotencyKey(c, profile.ID)
	in, _, err := resolveIntent(c.Request.Context(), database.DB, profile, req, billing.MethodQRIS, key)
	if err != nil {
		respondPaymentError(c, err)
		return
	}

	s, created, err := h.registry.Start(in)
	if err != nil {
		respondPaymentError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, toSessionDTO(s))
}

// ------------------------------
// GET /payments/qris/:id
// ------------------------------
func (h *QRISHandler) Status(c *gin.Context) {
	s, ok := h.ownedSession(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toSessionDTO(s))
}

// ------------------------------
// DELETE /payments/qris/:id
// ------------------------------
func (h *QRISHandler) Close(c *gin.Context) {
	s, ok := h.ownedSession(c)
	if !ok {
		return
	}
	if _, err := h.registry.Close(s.ID); err != nil {
		respondPaymentError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionDTO(s))
}

func (h *QRISHandler) ownedSession(c *gin.Context) (*payments.Session, bool) {
	profile, ok := middleware.CurrentProfile(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil, false
	}
	s, err := h.registry.Get(c.Param("id"))
	if err != nil {
		respondPaymentError(c, err)
		return nil, false
	}
	// Someone else's session is reported as missing.
	if s.Intent.UserID != profile.ID {
		c.JSON(http.StatusNotFound, gin.H{"error": payments.ErrSessionNotFound.Error()})
		return nil, false
	}
	return s, true
}
