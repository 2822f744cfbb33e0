package paymentControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"ecommerce-platform/middleware"
	"ecommerce-platform/models"
)

// -------- Request Structs --------

type RecordPaymentRequest struct {
	Method        string          `json:"method" binding:"required"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status" binding:"required"`
	TransactionID string          `json:"transaction_id"`
}

// -------- Core Logic --------

// RecordPayment stores the outcome of a payment attempt against an order.
// The amount must equal the order total exactly. A completed payment is
// final; a pending or failed attempt may be overwritten by a retry. Order
// status is never touched here, marking the order paid is a separate
// transition call.
func RecordPayment(db *gorm.DB, orderID uint, method string, amount decimal.Decimal, status models.PaymentStatus, transactionID string) (*models.Payment, error) {
	var payment models.Payment
	err := db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrOrderNotFound
			}
			return err
		}
		if !amount.Equal(order.TotalAmount) {
			return models.ErrAmountMismatch
		}

		var existing models.Payment
		err := tx.Where("order_id = ?", orderID).First(&existing).Error
		switch {
		case err == nil:
			if existing.Status == models.PaymentStatusCompleted {
				return models.ErrPaymentAlreadyRecorded
			}
			existing.Method = method
			existing.Amount = amount
			existing.Status = status
			existing.TransactionID = transactionID
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
			payment = existing
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			payment = models.Payment{
				OrderID:       orderID,
				Method:        method,
				Amount:        amount,
				Status:        status,
				TransactionID: transactionID,
			}
			return tx.Create(&payment).Error
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// GetPayment returns the payment recorded for an order, if any.
func GetPayment(db *gorm.DB, orderID uint) (*models.Payment, error) {
	var payment models.Payment
	if err := db.Where("order_id = ?", orderID).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrPaymentNotFound
		}
		return nil, err
	}
	return &payment, nil
}

// -------- Handlers --------

// POST /user/orders/:orderID/payment
func RecordPaymentHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := parseOrderID(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
			return
		}

		var req RecordPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		status, err := models.ParsePaymentStatus(req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if !authorizedForOrder(c, db, orderID) {
			return
		}

		payment, err := RecordPayment(db, orderID, req.Method, req.Amount, status, req.TransactionID)
		if err != nil {
			c.JSON(models.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, payment)
	}
}

// GET /user/orders/:orderID/payment
func GetPaymentHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := parseOrderID(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
			return
		}

		if !authorizedForOrder(c, db, orderID) {
			return
		}

		payment, err := GetPayment(db, orderID)
		if err != nil {
			c.JSON(models.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, payment)
	}
}

// authorizedForOrder writes the error response itself and reports whether the
// caller may proceed.
func authorizedForOrder(c *gin.Context, db *gorm.DB, orderID uint) bool {
	var order models.Order
	if err := db.Select("id", "user_id").First(&order, "id = ?", orderID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": models.ErrOrderNotFound.Error()})
		return false
	}
	if order.UserID != middleware.PrincipalID(c) && !middleware.IsAdmin(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": models.ErrForbidden.Error()})
		return false
	}
	return true
}

func parseOrderID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("orderID"), 10, 64)
	return uint(id), err
}
