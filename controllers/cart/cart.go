package cartControllers

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

type AddItemInput struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

type SetQuantityInput struct {
	// Pointer so zero survives binding; zero or below removes the line.
	Quantity *int `json:"quantity" binding:"required"`
}

// -------- Core Logic --------

// GetOrCreateCart returns the user's single cart, creating an empty one on
// first access. Safe to call concurrently: the unique index on user_id turns
// a racing create into a retryable lookup.
func GetOrCreateCart(db *gorm.DB, userID uint) (*models.Cart, error) {
	var cart models.Cart
	err := db.Where("user_id = ?", userID).First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cart = models.Cart{UserID: userID}
	if createErr := db.Create(&cart).Error; createErr != nil {
		// Lost the creation race; the other request's cart is ours too.
		if lookupErr := db.Where("user_id = ?", userID).First(&cart).Error; lookupErr != nil {
			return nil, createErr
		}
	}
	return &cart, nil
}

// AddItem puts quantity of a product into the user's cart. An existing line
// for the product is merged with an atomic in-place increment, so two
// concurrent adds never lose an update. Stock is deliberately not checked
// here; checkout is the single point of stock truth.
func AddItem(db *gorm.DB, userID, productID uint, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, models.ErrInvalidQuantity
	}

	var product models.Product
	if err := db.Select("id").First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrProductNotFound
		}
		return nil, err
	}

	cart, err := GetOrCreateCart(db, userID)
	if err != nil {
		return nil, err
	}

	if err := mergeOrInsertItem(db, cart.ID, productID, quantity); err != nil {
		return nil, err
	}

	var item models.CartItem
	if err := db.Where("cart_id = ? AND product_id = ?", cart.ID, productID).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// mergeOrInsertItem increments the existing line or inserts a new one. The
// increment runs as a single UPDATE so concurrent merges serialize in the
// database; when the insert loses a concurrent-first-add race against the
// (cart_id, product_id) unique index, one retry of the increment settles it.
func mergeOrInsertItem(db *gorm.DB, cartID, productID uint, quantity int) error {
	increment := func() (int64, error) {
		res := db.Model(&models.CartItem{}).
			Where("cart_id = ? AND product_id = ?", cartID, productID).
			Update("quantity", gorm.Expr("quantity + ?", quantity))
		return res.RowsAffected, res.Error
	}

	rows, err := increment()
	if err != nil {
		return err
	}
	if rows > 0 {
		return nil
	}

	item := models.CartItem{CartID: cartID, ProductID: productID, Quantity: quantity}
	if err := db.Create(&item).Error; err != nil {
		rows, retryErr := increment()
		if retryErr == nil && rows > 0 {
			return nil
		}
		return err
	}
	return nil
}

// RemoveItem deletes the cart line for a product. Absent lines (or an absent
// cart) are a no-op, not an error.
func RemoveItem(db *gorm.DB, userID, productID uint) error {
	var cart models.Cart
	if err := db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	return db.Where("cart_id = ? AND product_id = ?", cart.ID, productID).
		Delete(&models.CartItem{}).Error
}

// SetItemQuantity overwrites the quantity of an existing line. Zero or
// negative quantity removes the line instead.
func SetItemQuantity(db *gorm.DB, userID, productID uint, quantity int) error {
	if quantity <= 0 {
		return RemoveItem(db, userID, productID)
	}

	var cart models.Cart
	if err := db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ErrCartItemNotFound
		}
		return err
	}

	res := db.Model(&models.CartItem{}).
		Where("cart_id = ? AND product_id = ?", cart.ID, productID).
		Update("quantity", quantity)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.ErrCartItemNotFound
	}
	return nil
}

// ClearCart removes every line from the user's cart.
func ClearCart(db *gorm.DB, userID uint) error {
	var cart models.Cart
	if err := db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	return db.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error
}

// CartTotal sums live price × quantity over the cart. The total is a
// preview: prices are read at call time, not frozen, so it can drift until
// checkout snapshots them.
func CartTotal(db *gorm.DB, userID uint) (decimal.Decimal, error) {
	total := decimal.Zero

	var cart models.Cart
	if err := db.Preload("Items.Product").Where("user_id = ?", userID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return total, nil
		}
		return total, err
	}

	for _, item := range cart.Items {
		if item.Product == nil {
			continue
		}
		total = total.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total, nil
}

// -------- Handlers --------

// GET /user/cart
func GetCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.PrincipalID(c)

		cart, err := GetOrCreateCart(db, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}
		if err := db.Preload("Items.Product").First(cart, cart.ID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart items"})
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

// GET /user/cart/total
func GetCartTotal(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.PrincipalID(c)

		total, err := CartTotal(db, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute cart total"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"total": total})
	}
}

// POST /user/cart/items
func AddCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.PrincipalID(c)

		var input AddItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		item, err := AddItem(db, userID, input.ProductID, input.Quantity)
		if err != nil {
			c.JSON(models.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, item)
	}
}

// PUT /user/cart/items/:product_id
func UpdateCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.PrincipalID(c)

		productID, err := parseProductID(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}

		var input SetQuantityInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		if err := SetItemQuantity(db, userID, productID, *input.Quantity); err != nil {
			c.JSON(models.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart item updated"})
	}
}

// DELETE /user/cart/items/:product_id
func DeleteCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.PrincipalID(c)

		productID, err := parseProductID(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}

		if err := RemoveItem(db, userID, productID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart item removed"})
	}
}

// DELETE /user/cart
func ClearUserCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.PrincipalID(c)

		if err := ClearCart(db, userID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}

func parseProductID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
	return uint(id), err
}
