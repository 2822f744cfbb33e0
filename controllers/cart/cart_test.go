package cartControllers

import (
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"ecommerce-platform/models"
)

var testDB *gorm.DB

func setupTestDB() (*gorm.DB, error) {
	dbConn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	sqlDB, err := dbConn.DB()
	if err != nil {
		return nil, err
	}
	// One connection keeps the in-memory database alive and serializes
	// concurrent statements.
	sqlDB.SetMaxOpenConns(1)

	if err := dbConn.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
	); err != nil {
		return nil, err
	}
	return dbConn, nil
}

func TestMain(m *testing.M) {
	var err error
	testDB, err = setupTestDB()
	if err != nil {
		panic("failed to open test database: " + err.Error())
	}
	m.Run()
}

func createTestUser(t *testing.T, email string) *models.User {
	t.Helper()
	user := models.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: "irrelevant",
		Role:         models.RoleCustomer,
		IsActive:     true,
	}
	require.NoError(t, testDB.Create(&user).Error)
	return &user
}

func createTestProduct(t *testing.T, name, price string, stock int) *models.Product {
	t.Helper()
	product := models.Product{
		Name:     name,
		Price:    decimal.RequireFromString(price),
		StockQty: stock,
		IsActive: true,
	}
	require.NoError(t, testDB.Create(&product).Error)
	return &product
}

func TestGetOrCreateCartReturnsSameCart(t *testing.T) {
	user := createTestUser(t, "cart-idempotent@example.com")

	first, err := GetOrCreateCart(testDB, user.ID)
	require.NoError(t, err)
	second, err := GetOrCreateCart(testDB, user.ID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
}

func TestAddItemMergesQuantities(t *testing.T) {
	user := createTestUser(t, "cart-merge@example.com")
	product := createTestProduct(t, "Merge Widget", "9.99", 50)

	_, err := AddItem(testDB, user.ID, product.ID, 2)
	require.NoError(t, err)
	item, err := AddItem(testDB, user.ID, product.ID, 3)
	require.NoError(t, err)

	assert.Equal(t, 5, item.Quantity)

	cart, err := GetOrCreateCart(testDB, user.ID)
	require.NoError(t, err)
	var count int64
	require.NoError(t, testDB.Model(&models.CartItem{}).
		Where("cart_id = ? AND product_id = ?", cart.ID, product.ID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count, "merged adds must keep a single line")
}

func TestConcurrentAddsDoNotLoseUpdates(t *testing.T) {
	user := createTestUser(t, "cart-concurrent@example.com")
	product := createTestProduct(t, "Race Widget", "4.50", 50)

	var wg sync.WaitGroup
	quantities := []int{2, 3}
	errs := make([]error, len(quantities))
	for i, q := range quantities {
		wg.Add(1)
		go func(i, q int) {
			defer wg.Done()
			_, errs[i] = AddItem(testDB, user.ID, product.ID, q)
		}(i, q)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	cart, err := GetOrCreateCart(testDB, user.ID)
	require.NoError(t, err)
	var item models.CartItem
	require.NoError(t, testDB.Where("cart_id = ? AND product_id = ?", cart.ID, product.ID).First(&item).Error)
	assert.Equal(t, 5, item.Quantity)
}

func TestAddItemValidation(t *testing.T) {
	user := createTestUser(t, "cart-validation@example.com")
	product := createTestProduct(t, "Valid Widget", "1.00", 10)

	_, err := AddItem(testDB, user.ID, product.ID, 0)
	assert.ErrorIs(t, err, models.ErrInvalidQuantity)

	_, err = AddItem(testDB, user.ID, 999999, 1)
	assert.ErrorIs(t, err, models.ErrProductNotFound)
}

func TestSetItemQuantity(t *testing.T) {
	user := createTestUser(t, "cart-setqty@example.com")
	product := createTestProduct(t, "Qty Widget", "2.00", 10)

	_, err := AddItem(testDB, user.ID, product.ID, 2)
	require.NoError(t, err)

	require.NoError(t, SetItemQuantity(testDB, user.ID, product.ID, 7))

	cart, err := GetOrCreateCart(testDB, user.ID)
	require.NoError(t, err)
	var item models.CartItem
	require.NoError(t, testDB.Where("cart_id = ? AND product_id = ?", cart.ID, product.ID).First(&item).Error)
	assert.Equal(t, 7, item.Quantity)

	// Zero removes the line.
	require.NoError(t, SetItemQuantity(testDB, user.ID, product.ID, 0))
	var count int64
	require.NoError(t, testDB.Model(&models.CartItem{}).
		Where("cart_id = ? AND product_id = ?", cart.ID, product.ID).
		Count(&count).Error)
	assert.EqualValues(t, 0, count)

	// Setting an absent line is an error, unlike removing one.
	err = SetItemQuantity(testDB, user.ID, product.ID, 3)
	assert.ErrorIs(t, err, models.ErrCartItemNotFound)
}

func TestRemoveItemAbsentIsNoop(t *testing.T) {
	user := createTestUser(t, "cart-remove@example.com")
	product := createTestProduct(t, "Gone Widget", "3.00", 10)

	assert.NoError(t, RemoveItem(testDB, user.ID, product.ID))

	_, err := AddItem(testDB, user.ID, product.ID, 1)
	require.NoError(t, err)
	assert.NoError(t, RemoveItem(testDB, user.ID, product.ID))
	assert.NoError(t, RemoveItem(testDB, user.ID, product.ID))
}

func TestClearCart(t *testing.T) {
	user := createTestUser(t, "cart-clear@example.com")
	a := createTestProduct(t, "Clear A", "1.00", 10)
	b := createTestProduct(t, "Clear B", "2.00", 10)

	_, err := AddItem(testDB, user.ID, a.ID, 1)
	require.NoError(t, err)
	_, err = AddItem(testDB, user.ID, b.ID, 2)
	require.NoError(t, err)

	require.NoError(t, ClearCart(testDB, user.ID))

	cart, err := GetOrCreateCart(testDB, user.ID)
	require.NoError(t, err)
	var count int64
	require.NoError(t, testDB.Model(&models.CartItem{}).Where("cart_id = ?", cart.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestCartTotalFollowsCurrentPrices(t *testing.T) {
	user := createTestUser(t, "cart-total@example.com")
	a := createTestProduct(t, "Total A", "10.00", 10)
	b := createTestProduct(t, "Total B", "5.00", 10)

	_, err := AddItem(testDB, user.ID, a.ID, 2)
	require.NoError(t, err)
	_, err = AddItem(testDB, user.ID, b.ID, 1)
	require.NoError(t, err)

	total, err := CartTotal(testDB, user.ID)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("25.00")), "total = %s", total)

	// Cart totals are a live preview; a price change shows up immediately.
	require.NoError(t, testDB.Model(&models.Product{}).Where("id = ?", a.ID).
		Update("price", decimal.RequireFromString("12.00")).Error)

	total, err = CartTotal(testDB, user.ID)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("29.00")), "total = %s", total)
}

func TestCartTotalEmptyCartIsZero(t *testing.T) {
	user := createTestUser(t, "cart-empty-total@example.com")

	total, err := CartTotal(testDB, user.ID)
	require.NoError(t, err)
	assert.True(t, total.IsZero())
}
