package orderControllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"ecommerce-platform/middleware"
	"ecommerce-platform/models"
	"ecommerce-platform/utils"
)

// -------- Request Structs --------

type CheckoutItemInput struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

type CheckoutRequest struct {
	ShippingAddress string `json:"shipping_address" binding:"required"`
	// Optional explicit lines; the user's cart is used when omitted.
	Items []CheckoutItemInput `json:"items"`
	// Optional client-side total. The order total is always computed
	// server-side; a supplied value that disagrees fails the checkout.
	TotalAmount *decimal.Decimal `json:"total_amount"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// -------- Core Logic --------

// Generate unique order reference
func generateOrderRef() string {
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()
}

// Checkout converts the user's cart (or an explicit line list) into an
// immutable order. Everything happens in one transaction: per-line stock is
// checked and decremented with a single conditional UPDATE, prices are
// snapshotted into order items, the order is created and the source cart is
// cleared. Any failing line rolls the whole thing back, so an order never
// exists without its stock decrement and vice versa.
func Checkout(db *gorm.DB, userID uint, req CheckoutRequest) (*models.Order, error) {
	lines := make([]CheckoutItemInput, len(req.Items))
	copy(lines, req.Items)

	fromCart := len(lines) == 0
	var cartID uint
	if fromCart {
		var cart models.Cart
		if err := db.Preload("Items").Where("user_id = ?", userID).First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, models.ErrCartEmpty
			}
			return nil, err
		}
		if len(cart.Items) == 0 {
			return nil, models.ErrCartEmpty
		}
		cartID = cart.ID
		for _, item := range cart.Items {
			lines = append(lines, CheckoutItemInput{ProductID: item.ProductID, Quantity: item.Quantity})
		}
	}

	var order models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		total := decimal.Zero
		var orderItems []models.OrderItem

		for _, line := range lines {
			if line.Quantity < 1 {
				return models.ErrInvalidQuantity
			}

			var product models.Product
			if err := tx.First(&product, "id = ?", line.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return models.ErrProductNotFound
				}
				return err
			}
			if !product.IsActive {
				return models.ErrProductNotFound
			}

			// Check-and-decrement in one statement; the stock_qty guard
			// makes concurrent checkouts of the same product serialize
			// correctly instead of both passing a stale read.
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock_qty >= ?", line.ProductID, line.Quantity).
				Update("stock_qty", gorm.Expr("stock_qty - ?", line.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return &models.InsufficientStockError{
					ProductID:   product.ID,
					ProductName: product.Name,
					Requested:   line.Quantity,
					Available:   product.StockQty,
				}
			}

			subtotal := product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
			total = total.Add(subtotal)

			orderItems = append(orderItems, models.OrderItem{
				ProductID:   product.ID,
				ProductName: product.Name,
				Quantity:    line.Quantity,
				UnitPrice:   product.Price,
				Subtotal:    subtotal,
			})
		}

		if req.TotalAmount != nil && !req.TotalAmount.Equal(total) {
			return models.ErrTotalMismatch
		}

		order = models.Order{
			OrderRef:        generateOrderRef(),
			UserID:          userID,
			Status:          models.OrderStatusPending,
			TotalAmount:     total,
			ShippingAddress: req.ShippingAddress,
			OrderDate:       time.Now(),
			Items:           orderItems,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		if fromCart {
			if err := tx.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// TransitionStatus moves an order along the status machine. The write is
// conditional on the status it validated against, so concurrent transitions
// cannot both apply.
func TransitionStatus(db *gorm.DB, orderID uint, next models.OrderStatus) (*models.Order, error) {
	var order models.Order
	if err := db.First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrOrderNotFound
		}
		return nil, err
	}

	if !order.Status.CanTransitionTo(next) {
		return nil, &models.InvalidTransitionError{From: string(order.Status), To: string(next)}
	}

	res := db.Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, order.Status).
		Update("status", next)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Lost a concurrent transition; report against the fresh status.
		if err := db.First(&order, "id = ?", orderID).Error; err != nil {
			return nil, err
		}
		return nil, &models.InvalidTransitionError{From: string(order.Status), To: string(next)}
	}

	order.Status = next
	return &order, nil
}

// GetOrder loads an order with its items, payment, and shipment.
func GetOrder(db *gorm.DB, orderID uint) (*models.Order, error) {
	var order models.Order
	err := db.
		Preload("Items").
		Preload("Payment").
		Preload("Shipping").
		First(&order, "id = ?", orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// ListOrdersForUser returns the user's orders, newest first.
func ListOrdersForUser(db *gorm.DB, userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := db.
		Where("user_id = ?", userID).
		Preload("Items").
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

// -------- Handlers --------

// POST /user/checkout
func CheckoutHandler(db *gorm.DB, mailer *utils.EmailService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.PrincipalID(c)

		var req CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		order, err := Checkout(db, userID, req)
		if err != nil {
			c.JSON(models.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}

		broadcastOrderEvent("order_created", order)
		notifyOrderPlaced(db, mailer, order)

		c.JSON(http.StatusCreated, order)
	}
}

// GET /user/orders
func ListUserOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.PrincipalID(c)

		orders, err := ListOrdersForUser(db, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /user/orders/:orderID
func GetOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := parseOrderID(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
			return
		}

		order, err := GetOrder(db, orderID)
		if err != nil {
			c.JSON(models.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}
		if order.UserID != middleware.PrincipalID(c) && !middleware.IsAdmin(c) {
			c.JSON(http.StatusForbidden, gin.H{"error": models.ErrForbidden.Error()})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// POST /user/orders/:orderID/cancel
func CancelOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := parseOrderID(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
			return
		}

		var order models.Order
		if err := db.First(&order, "id = ?", orderID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": models.ErrOrderNotFound.Error()})
			return
		}
		if order.UserID != middleware.PrincipalID(c) && !middleware.IsAdmin(c) {
			c.JSON(http.StatusForbidden, gin.H{"error": models.ErrForbidden.Error()})
			return
		}

		updated, err := TransitionStatus(db, orderID, models.OrderStatusCancelled)
		if err != nil {
			c.JSON(models.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}

		broadcastOrderEvent("order_status", updated)
		c.JSON(http.StatusOK, updated)
	}
}

// GET /admin/orders
func ListAllOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.
			Preload("Items").
			Preload("Payment").
			Preload("Shipping").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// PUT /admin/orders/:orderID/status
func UpdateOrderStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := parseOrderID(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
			return
		}

		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		next, err := models.ParseOrderStatus(req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		updated, err := TransitionStatus(db, orderID, next)
		if err != nil {
			c.JSON(models.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}

		broadcastOrderEvent("order_status", updated)
		c.JSON(http.StatusOK, updated)
	}
}

func notifyOrderPlaced(db *gorm.DB, mailer *utils.EmailService, order *models.Order) {
	if mailer == nil {
		return
	}
	var user models.User
	if err := db.First(&user, "id = ?", order.UserID).Error; err != nil {
		log.Printf("❌ Order %s: could not load user for confirmation mail: %v", order.OrderRef, err)
		return
	}
	go mailer.SendOrderConfirmation(user.Email, order)
}

func parseOrderID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("orderID"), 10, 64)
	return uint(id), err
}
