package productcontroller

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
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
	sqlDB.SetMaxOpenConns(1)

	if err := dbConn.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Review{},
	); err != nil {
		return nil, err
	}
	return dbConn, nil
}

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	var err error
	testDB, err = setupTestDB()
	if err != nil {
		panic("failed to open test database: " + err.Error())
	}
	m.Run()
}

func newRouter() *gin.Engine {
	r := gin.New()
	r.GET("/products", GetProducts(testDB))
	r.GET("/products/:id", GetProductByID(testDB))
	r.POST("/admin/products", CreateProduct(testDB))
	r.PUT("/admin/products/:id", UpdateProduct(testDB))
	r.DELETE("/admin/products/:id", DeleteProduct(testDB))
	r.POST("/admin/categories", CreateCategory(testDB))
	r.DELETE("/admin/categories/:id", DeleteCategory(testDB))
	return r
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

func createCategory(t *testing.T, name string) *models.Category {
	t.Helper()
	category := models.Category{Name: name}
	require.NoError(t, testDB.Create(&category).Error)
	return &category
}

func createProduct(t *testing.T, name, price string, categoryID *uint, active bool) *models.Product {
	t.Helper()
	product := models.Product{
		Name:       name,
		Price:      decimal.RequireFromString(price),
		StockQty:   10,
		CategoryID: categoryID,
		IsActive:   active,
	}
	require.NoError(t, testDB.Create(&product).Error)
	return &product
}

func TestDeleteCategoryBlockedWhileProductsExist(t *testing.T) {
	r := newRouter()
	category := createCategory(t, "Blocked Category")
	product := createProduct(t, "Category Member", "1.00", &category.ID, true)

	w := doJSON(r, http.MethodDelete, fmt.Sprintf("/admin/categories/%d", category.ID), "")
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())

	var still models.Category
	assert.NoError(t, testDB.First(&still, "id = ?", category.ID).Error)

	// Detach the product and the delete goes through.
	require.NoError(t, testDB.Model(product).Update("category_id", nil).Error)
	w = doJSON(r, http.MethodDelete, fmt.Sprintf("/admin/categories/%d", category.ID), "")
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	err := testDB.First(&still, "id = ?", category.ID).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDeleteProductReferencedByOrdersDeactivates(t *testing.T) {
	r := newRouter()
	product := createProduct(t, "Ordered Product", "10.00", nil, true)

	order := models.Order{
		OrderRef:        uuid.NewString(),
		UserID:          1,
		Status:          models.OrderStatusPending,
		TotalAmount:     decimal.RequireFromString("10.00"),
		ShippingAddress: "1 Test Lane",
		OrderDate:       time.Now(),
		Items: []models.OrderItem{{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    1,
			UnitPrice:   product.Price,
			Subtotal:    product.Price,
		}},
	}
	require.NoError(t, testDB.Create(&order).Error)

	cart := models.Cart{UserID: 101}
	require.NoError(t, testDB.Create(&cart).Error)
	require.NoError(t, testDB.Create(&models.CartItem{CartID: cart.ID, ProductID: product.ID, Quantity: 2}).Error)

	w := doJSON(r, http.MethodDelete, fmt.Sprintf("/admin/products/%d", product.ID), "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var reloaded models.Product
	require.NoError(t, testDB.First(&reloaded, "id = ?", product.ID).Error,
		"product row must survive while orders reference it")
	assert.False(t, reloaded.IsActive)

	var cartLines int64
	require.NoError(t, testDB.Model(&models.CartItem{}).Where("product_id = ?", product.ID).Count(&cartLines).Error)
	assert.EqualValues(t, 0, cartLines, "cart lines must not keep pointing at a removed product")

	// Gone from the public catalog either way.
	w = doJSON(r, http.MethodGet, fmt.Sprintf("/products/%d", product.ID), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteProductUnreferencedHardDeletes(t *testing.T) {
	r := newRouter()
	product := createProduct(t, "Fresh Product", "2.00", nil, true)
	require.NoError(t, testDB.Create(&models.Review{UserID: 1, ProductID: product.ID, Rating: 4}).Error)

	w := doJSON(r, http.MethodDelete, fmt.Sprintf("/admin/products/%d", product.ID), "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var reloaded models.Product
	err := testDB.First(&reloaded, "id = ?", product.ID).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var reviews int64
	require.NoError(t, testDB.Model(&models.Review{}).Where("product_id = ?", product.ID).Count(&reviews).Error)
	assert.EqualValues(t, 0, reviews)
}

func TestGetProductsFilters(t *testing.T) {
	r := newRouter()
	category := createCategory(t, "Filter Category")

	cheap := createProduct(t, "Filter Cheap alphafil", "5.00", &category.ID, true)
	pricey := createProduct(t, "Filter Pricey betafil", "50.00", &category.ID, true)
	createProduct(t, "Filter Hidden gammafil", "5.00", &category.ID, false)

	decode := func(w *httptest.ResponseRecorder) []models.Product {
		var products []models.Product
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &products))
		return products
	}

	w := doJSON(r, http.MethodGet, fmt.Sprintf("/products?category_id=%d", category.ID), "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, decode(w), 2, "inactive products stay out of listings")

	w = doJSON(r, http.MethodGet, fmt.Sprintf("/products?category_id=%d&min_price=10", category.ID), "")
	require.Equal(t, http.StatusOK, w.Code)
	products := decode(w)
	require.Len(t, products, 1)
	assert.Equal(t, pricey.ID, products[0].ID)

	w = doJSON(r, http.MethodGet, "/products?search=ALPHAFIL", "")
	require.Equal(t, http.StatusOK, w.Code)
	products = decode(w)
	require.Len(t, products, 1, "search must be case-insensitive")
	assert.Equal(t, cheap.ID, products[0].ID)

	w = doJSON(r, http.MethodGet, "/products?sort_by=drop+table", "")
	assert.Equal(t, http.StatusBadRequest, w.Code, "sort column must come from the whitelist")
}

func TestCreateProductValidatesCategory(t *testing.T) {
	r := newRouter()

	w := doJSON(r, http.MethodPost, "/admin/products",
		`{"name":"Orphan Product","price":"3.50","stock_qty":5,"category_id":999999}`)
	assert.Equal(t, http.StatusNotFound, w.Code, w.Body.String())

	category := createCategory(t, "Create Category")
	w = doJSON(r, http.MethodPost, "/admin/products",
		fmt.Sprintf(`{"name":"Valid Product","price":"3.50","stock_qty":5,"category_id":%d}`, category.ID))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created models.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.True(t, created.IsActive)
	assert.True(t, created.Price.Equal(decimal.RequireFromString("3.50")))
}

func TestUpdateProductPatch(t *testing.T) {
	r := newRouter()
	product := createProduct(t, "Patch Product", "9.00", nil, true)

	w := doJSON(r, http.MethodPut, fmt.Sprintf("/admin/products/%d", product.ID),
		`{"stock_qty":42}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var reloaded models.Product
	require.NoError(t, testDB.First(&reloaded, "id = ?", product.ID).Error)
	assert.Equal(t, 42, reloaded.StockQty)
	assert.True(t, reloaded.Price.Equal(decimal.RequireFromString("9.00")), "untouched fields keep their values")

	w = doJSON(r, http.MethodPut, fmt.Sprintf("/admin/products/%d", product.ID),
		`{"stock_qty":-1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
