package shippingControllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"ecommerce-platform/middleware"
	"ecommerce-platform/models"
	"ecommerce-platform/utils"
)

// -------- Request Structs --------

type CreateShipmentRequest struct {
	CourierName       string     `json:"courier_name" binding:"required"`
	TrackingNumber    string     `json:"tracking_number"`
	EstimatedDelivery *time.Time `json:"estimated_delivery"`
}

type UpdateShipmentStatusRequest struct {
	Status         string `json:"status" binding:"required"`
	TrackingNumber string `json:"tracking_number"`
}

// -------- Core Logic --------

// CreateShipment records the single shipment for an order. The order must
// have been paid (or be further along); one shipment per order.
func CreateShipment(db *gorm.DB, orderID uint, req CreateShipmentRequest) (*models.Shipping, error) {
	var shipment models.Shipping
	err := db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrOrderNotFound
			}
			return err
		}
		if !order.Status.AtLeastPaid() {
			return models.ErrOrderNotPaid
		}

		var count int64
		if err := tx.Model(&models.Shipping{}).Where("order_id = ?", orderID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return models.ErrShipmentAlreadyExists
		}

		shipment = models.Shipping{
			OrderID:           orderID,
			CourierName:       req.CourierName,
			TrackingNumber:    req.TrackingNumber,
			Status:            models.ShippingStatusPending,
			EstimatedDelivery: req.EstimatedDelivery,
		}
		if err := tx.Create(&shipment).Error; err != nil {
			// Unique index on order_id backs the count check under races.
			return models.ErrShipmentAlreadyExists
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &shipment, nil
}

// UpdateShipmentStatus advances a shipment. Status only moves forward
// (pending, in_transit, delivered); reaching delivered stamps DeliveredAt.
func UpdateShipmentStatus(db *gorm.DB, shipmentID uint, next models.ShippingStatus, trackingNumber string) (*models.Shipping, error) {
	var shipment models.Shipping
	if err := db.First(&shipment, "id = ?", shipmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrShipmentNotFound
		}
		return nil, err
	}

	if next.Rank() < shipment.Status.Rank() {
		return nil, &models.InvalidTransitionError{From: string(shipment.Status), To: string(next)}
	}

	updates := map[string]interface{}{"status": next}
	if trackingNumber != "" {
		updates["tracking_number"] = trackingNumber
	}
	if next == models.ShippingStatusDelivered && shipment.DeliveredAt == nil {
		now := time.Now()
		updates["delivered_at"] = &now
	}

	if err := db.Model(&shipment).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &shipment, nil
}

// GetShipment returns the shipment recorded for an order, if any.
func GetShipment(db *gorm.DB, orderID uint) (*models.Shipping, error) {
	var shipment models.Shipping
	if err := db.Where("order_id = ?", orderID).First(&shipment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrShipmentNotFound
		}
		return nil, err
	}
	return &shipment, nil
}

// -------- Handlers --------

// POST /admin/orders/:orderID/shipment
func CreateShipmentHandler(db *gorm.DB, mailer *utils.EmailService) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := parseIDParam(c, "orderID")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
			return
		}

		var req CreateShipmentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		shipment, err := CreateShipment(db, orderID, req)
		if err != nil {
			c.JSON(models.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}

		notifyShipmentCreated(db, mailer, shipment)
		c.JSON(http.StatusCreated, shipment)
	}
}

// PUT /admin/shipments/:shipmentID/status
func UpdateShipmentStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		shipmentID, err := parseIDParam(c, "shipmentID")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid shipment ID"})
			return
		}

		var req UpdateShipmentStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		next, err := models.ParseShippingStatus(req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		shipment, err := UpdateShipmentStatus(db, shipmentID, next, req.TrackingNumber)
		if err != nil {
			c.JSON(models.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, shipment)
	}
}

// GET /user/orders/:orderID/shipment
func GetShipmentHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := parseIDParam(c, "orderID")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
			return
		}

		var order models.Order
		if err := db.Select("id", "user_id").First(&order, "id = ?", orderID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": models.ErrOrderNotFound.Error()})
			return
		}
		if order.UserID != middleware.PrincipalID(c) && !middleware.IsAdmin(c) {
			c.JSON(http.StatusForbidden, gin.H{"error": models.ErrForbidden.Error()})
			return
		}

		shipment, err := GetShipment(db, orderID)
		if err != nil {
			c.JSON(models.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, shipment)
	}
}

func notifyShipmentCreated(db *gorm.DB, mailer *utils.EmailService, shipment *models.Shipping) {
	if mailer == nil {
		return
	}
	var order models.Order
	if err := db.First(&order, "id = ?", shipment.OrderID).Error; err != nil {
		log.Printf("❌ Shipment %d: could not load order for notice mail: %v", shipment.ID, err)
		return
	}
	var user models.User
	if err := db.First(&user, "id = ?", order.UserID).Error; err != nil {
		log.Printf("❌ Shipment %d: could not load user for notice mail: %v", shipment.ID, err)
		return
	}
	go mailer.SendShipmentNotice(user.Email, &order, shipment)
}

func parseIDParam(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return uint(id), err
}
