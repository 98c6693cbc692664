package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/app"
	"storefront/internal/repositories"
	"storefront/pkg/utils"
)

// setupApp builds the full server on a private in-memory SQLite database.
func setupApp(t *testing.T) (*fiber.App, *repositories.Store) {
	t.Helper()
	ctx := context.Background()

	db, err := repositories.OpenGORM(utils.DatabaseConfig{
		Driver: utils.DriverSQLite,
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
	}, zap.NewNop())
	require.NoError(t, err)

	store := repositories.NewGORMStore(db)
	require.NoError(t, store.Migrate(ctx))
	t.Cleanup(func() { _ = store.Close(ctx) })

	server := app.NewServer(app.Options{
		AppName:    "storefront-test",
		Store:      store,
		BcryptCost: bcrypt.MinCost,
		Log:        zap.NewNop(),
	})
	return server, store
}

// doJSON sends body (nil for none) and decodes the JSON response.
func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			encoded, err := json.Marshal(body)
			require.NoError(t, err)
			raw = string(encoded)
		}
		reader = bytes.NewReader([]byte(raw))
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1) // -1 for no timeout
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(data) > 0 {
		_ = json.Unmarshal(data, &decoded)
	}
	return resp.StatusCode, decoded
}

func registerUser(t *testing.T, app *fiber.App, username string) map[string]interface{} {
	t.Helper()
	status, body := doJSON(t, app, http.MethodPost, "/api/userRegister", map[string]string{
		"fullName": "Test User",
		"username": username,
		"email":    username + "@example.com",
		"mobile":   "0811111111",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, status, body)
	return body["user"].(map[string]interface{})
}

func createProduct(t *testing.T, app *fiber.App, name string) map[string]interface{} {
	t.Helper()
	status, body := doJSON(t, app, http.MethodPost, "/api/products/create", map[string]interface{}{
		"productName":     name,
		"productImage":    "https://cdn.example.com/" + name + ".png",
		"price":           12.5,
		"description":     "A " + name,
		"optionalDetails": "limited",
	})
	require.Equal(t, http.StatusCreated, status, body)
	return body["product"].(map[string]interface{})
}

func TestRootRoutes(t *testing.T) {
	app, _ := setupApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	text, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "Hello World", string(text))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api", nil), -1)
	require.NoError(t, err)
	text, _ = io.ReadAll(resp.Body)
	assert.Equal(t, "Hello Postman APIs", string(text))

	status, body := doJSON(t, app, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "healthy", body["status"])

	status, body = doJSON(t, app, http.MethodGet, "/api/nope", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, false, body["success"])
}

func TestUserRegisterAndLogin(t *testing.T) {
	app, _ := setupApp(t)

	user := registerUser(t, app, "testuser")
	assert.Equal(t, "testuser", user["username"])
	assert.NotContains(t, user, "password")
	assert.NotEmpty(t, user["id"])

	// Duplicate registration
	status, body := doJSON(t, app, http.MethodPost, "/api/userRegister", map[string]string{
		"fullName": "Other",
		"username": "testuser",
		"email":    "other@example.com",
		"mobile":   "0899999999",
		"password": "password123",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Username already exists.", body["message"])
	assert.Equal(t, false, body["success"])

	// Successful login
	status, body = doJSON(t, app, http.MethodPost, "/api/userLogin", map[string]string{
		"username": "testuser",
		"password": "password123",
	})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.NotContains(t, body["user"], "password")

	// Wrong password
	status, body = doJSON(t, app, http.MethodPost, "/api/userLogin", map[string]string{
		"username": "testuser",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid credentials.", body["message"])

	// Unknown user
	status, body = doJSON(t, app, http.MethodPost, "/api/userLogin", map[string]string{
		"username": "ghost",
		"password": "password123",
	})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "User not found.", body["message"])

	// Missing password
	status, _ = doJSON(t, app, http.MethodPost, "/api/userLogin", map[string]string{"username": "testuser"})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestUserRegister_Validation(t *testing.T) {
	app, _ := setupApp(t)

	status, body := doJSON(t, app, http.MethodPost, "/api/userRegister", map[string]string{
		"username": "testuser",
		"email":    "not-an-email",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	errs, ok := body["errors"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, errs, "fullName")
	assert.Contains(t, errs, "mobile")
	assert.Contains(t, errs, "password")
	assert.Equal(t, "Invalid email format", errs["email"])

	status, body = doJSON(t, app, http.MethodPost, "/api/userRegister", `{"username": "broken"`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid request body", body["message"])
}

func TestUserRegister_ConcurrentDuplicates(t *testing.T) {
	app, _ := setupApp(t)

	const attempts = 2
	statuses := make([]int, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			statuses[i], _ = doJSON(t, app, http.MethodPost, "/api/userRegister", map[string]string{
				"fullName": "Racer",
				"username": "racer",
				"email":    fmt.Sprintf("racer%d@example.com", i),
				"mobile":   "0811111111",
				"password": "password123",
			})
		}(i)
	}
	wg.Wait()

	assert.ElementsMatch(t, []int{http.StatusCreated, http.StatusConflict}, statuses)
}

func TestUserUpdate(t *testing.T) {
	app, _ := setupApp(t)
	user := registerUser(t, app, "testuser")
	path := "/api/userUpdate/" + user["id"].(string)

	// Empty mobile keeps the stored value
	status, body := doJSON(t, app, http.MethodPatch, path, map[string]string{
		"fullName": "Renamed User",
		"mobile":   "",
	})
	require.Equal(t, http.StatusOK, status, body)
	updated := body["user"].(map[string]interface{})
	assert.Equal(t, "Renamed User", updated["fullName"])
	assert.Equal(t, "0811111111", updated["mobile"])

	// Empty body changes nothing but updatedAt
	status, body = doJSON(t, app, http.MethodPatch, path, nil)
	require.Equal(t, http.StatusOK, status, body)
	unchanged := body["user"].(map[string]interface{})
	for _, field := range []string{"id", "fullName", "username", "email", "mobile", "createdAt"} {
		assert.Equal(t, updated[field], unchanged[field], field)
	}

	// New password works for login
	status, _ = doJSON(t, app, http.MethodPatch, path, map[string]string{"password": "newpassword"})
	require.Equal(t, http.StatusOK, status)
	status, _ = doJSON(t, app, http.MethodPost, "/api/userLogin", map[string]string{"username": "testuser", "password": "newpassword"})
	assert.Equal(t, http.StatusOK, status)

	// Taking another user's username conflicts
	registerUser(t, app, "otheruser")
	status, _ = doJSON(t, app, http.MethodPatch, path, map[string]string{"username": "otheruser"})
	assert.Equal(t, http.StatusConflict, status)

	status, _ = doJSON(t, app, http.MethodPatch, "/api/userUpdate/"+uuid.NewString(), map[string]string{"fullName": "x"})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestUserDelete(t *testing.T) {
	app, _ := setupApp(t)
	user := registerUser(t, app, "testuser")

	status, _ := doJSON(t, app, http.MethodDelete, "/api/userDelete/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = doJSON(t, app, http.MethodPost, "/api/userLogin", map[string]string{"username": "testuser", "password": "password123"})
	assert.Equal(t, http.StatusOK, status, "a missed delete leaves the user in place")

	status, body := doJSON(t, app, http.MethodDelete, "/api/userDelete/"+user["id"].(string), nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, map[string]interface{}{
		"id":       user["id"],
		"username": "testuser",
		"email":    "testuser@example.com",
	}, body["user"])

	status, _ = doJSON(t, app, http.MethodDelete, "/api/userDelete/"+user["id"].(string), nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAdminLifecycle(t *testing.T) {
	app, _ := setupApp(t)

	register := func(adminID int, username string) (int, map[string]interface{}) {
		return doJSON(t, app, http.MethodPost, "/api/adminRegister", map[string]interface{}{
			"Name":          "Root Admin",
			"AdminID":       adminID,
			"adminUsername": username,
			"email":         username + "@example.com",
			"mobile":        "0822222222",
			"password":      "adminpass",
		})
	}

	status, body := register(1001, "root")
	require.Equal(t, http.StatusCreated, status, body)
	admin := body["admin"].(map[string]interface{})
	assert.EqualValues(t, 1001, admin["AdminID"])
	assert.NotContains(t, admin, "password")

	status, body = register(1002, "root")
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Admin username already exists.", body["message"])

	status, body = register(1001, "other")
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Admin ID already exists.", body["message"])

	status, _ = register(0, "zero")
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = doJSON(t, app, http.MethodPost, "/api/adminLogin", map[string]string{"adminUsername": "root", "password": "adminpass"})
	assert.Equal(t, http.StatusOK, status)
	status, _ = doJSON(t, app, http.MethodPost, "/api/adminLogin", map[string]string{"adminUsername": "root", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, status)
	status, body = doJSON(t, app, http.MethodPost, "/api/adminLogin", map[string]string{"adminUsername": "ghost", "password": "adminpass"})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Admin not found.", body["message"])

	id := admin["id"].(string)
	status, body = doJSON(t, app, http.MethodPatch, "/api/adminUpdate/"+id, map[string]interface{}{"AdminID": 0, "mobile": "0833333333"})
	require.Equal(t, http.StatusOK, status, body)
	updated := body["admin"].(map[string]interface{})
	assert.EqualValues(t, 1001, updated["AdminID"])
	assert.Equal(t, "0833333333", updated["mobile"])

	status, body = doJSON(t, app, http.MethodDelete, "/api/adminDelete/"+id, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "root", body["admin"].(map[string]interface{})["adminUsername"])

	status, _ = doJSON(t, app, http.MethodDelete, "/api/adminDelete/"+id, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAdminDelete_UnknownID(t *testing.T) {
	app, _ := setupApp(t)

	status, body := doJSON(t, app, http.MethodPost, "/api/adminRegister", map[string]interface{}{
		"Name":          "Root Admin",
		"AdminID":       1001,
		"adminUsername": "root",
		"email":         "root@example.com",
		"mobile":        "0822222222",
		"password":      "adminpass",
	})
	require.Equal(t, http.StatusCreated, status, body)

	status, body = doJSON(t, app, http.MethodDelete, "/api/adminDelete/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Admin not found", body["message"])

	status, _ = doJSON(t, app, http.MethodPost, "/api/adminLogin", map[string]string{"adminUsername": "root", "password": "adminpass"})
	assert.Equal(t, http.StatusOK, status, "an unknown id leaves existing admins in place")
}

func TestProductLifecycle(t *testing.T) {
	app, store := setupApp(t)

	product := createProduct(t, app, "kopi")
	assert.EqualValues(t, 12.5, product["price"])
	assert.Equal(t, "limited", product["optionalDetails"])
	id := product["id"].(string)

	status, body := doJSON(t, app, http.MethodGet, "/api/products", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["products"], 1)

	status, body = doJSON(t, app, http.MethodGet, "/api/products/"+id, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "kopi", body["product"].(map[string]interface{})["productName"])

	// Explicit empty description clears it
	status, body = doJSON(t, app, http.MethodPatch, "/api/products/update/"+id, map[string]interface{}{"description": "", "price": 15})
	require.Equal(t, http.StatusOK, status, body)
	updated := body["product"].(map[string]interface{})
	assert.Equal(t, "", updated["description"])
	assert.EqualValues(t, 15, updated["price"])
	assert.Equal(t, "kopi", updated["productName"])

	stored, err := store.Products.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Empty(t, stored.Description)

	status, body = doJSON(t, app, http.MethodPatch, "/api/products/update/not-an-id", map[string]interface{}{"description": "x"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid product ID", body["message"])

	status, _ = doJSON(t, app, http.MethodPatch, "/api/products/update/"+uuid.NewString(), map[string]interface{}{"description": "x"})
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = doJSON(t, app, http.MethodGet, "/api/products/not-an-id", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = doJSON(t, app, http.MethodDelete, "/api/products/delete/not-an-id", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = doJSON(t, app, http.MethodDelete, "/api/products/delete/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, status)

	products, err := store.Products.GetAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 1, "a missed delete leaves the collection unchanged")

	status, _ = doJSON(t, app, http.MethodDelete, "/api/products/delete/"+id, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = doJSON(t, app, http.MethodGet, "/api/products/"+id, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestProductCreate_Validation(t *testing.T) {
	app, _ := setupApp(t)

	status, body := doJSON(t, app, http.MethodPost, "/api/products/create", map[string]interface{}{
		"productName": "kopi",
		"price":       -1,
	})
	assert.Equal(t, http.StatusBadRequest, status)
	errs := body["errors"].(map[string]interface{})
	assert.Contains(t, errs, "productImage")
	assert.Contains(t, errs, "description")
	assert.Equal(t, "Must be greater than 0", errs["price"])
}

func TestCartAddAccumulates(t *testing.T) {
	app, _ := setupApp(t)
	user := registerUser(t, app, "shopper")
	product := createProduct(t, app, "kopi")
	userID, productID := user["id"].(string), product["id"].(string)

	status, body := doJSON(t, app, http.MethodPost, "/api/cart/add", map[string]interface{}{"userId": userID, "productId": productID, "quantity": 2})
	require.Equal(t, http.StatusOK, status, body)

	status, body = doJSON(t, app, http.MethodPost, "/api/cart/add", map[string]interface{}{"userId": userID, "productId": productID, "quantity": 3})
	require.Equal(t, http.StatusOK, status, body)

	cart := body["cart"].(map[string]interface{})
	assert.Equal(t, userID, cart["userId"])
	items := cart["items"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, productID, items[0].(map[string]interface{})["productId"])
	assert.EqualValues(t, 5, items[0].(map[string]interface{})["quantity"])

	// Omitted quantity adds one; a second product is appended after the first
	other := createProduct(t, app, "teh")
	status, body = doJSON(t, app, http.MethodPost, "/api/cart/add", map[string]interface{}{"userId": userID, "productId": other["id"]})
	require.Equal(t, http.StatusOK, status, body)
	items = body["cart"].(map[string]interface{})["items"].([]interface{})
	require.Len(t, items, 2)
	assert.Equal(t, productID, items[0].(map[string]interface{})["productId"])
	assert.Equal(t, other["id"], items[1].(map[string]interface{})["productId"])
	assert.EqualValues(t, 1, items[1].(map[string]interface{})["quantity"])

	status, body = doJSON(t, app, http.MethodGet, "/api/cart/"+userID, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["cart"].(map[string]interface{})["items"], 2)
}

func TestCartAdd_Rejected(t *testing.T) {
	app, store := setupApp(t)
	product := createProduct(t, app, "kopi")

	status, body := doJSON(t, app, http.MethodPost, "/api/cart/add", map[string]interface{}{"userId": "u1", "productId": uuid.NewString(), "quantity": 1})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Product not found", body["message"])

	_, err := store.Carts.GetByUserID(context.Background(), "u1")
	assert.ErrorIs(t, err, repositories.ErrNotFound, "no cart is created for an unknown product")

	status, _ = doJSON(t, app, http.MethodPost, "/api/cart/add", map[string]interface{}{"productId": product["id"]})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = doJSON(t, app, http.MethodPost, "/api/cart/add", map[string]interface{}{"userId": "u1", "productId": product["id"], "quantity": -2})
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = doJSON(t, app, http.MethodGet, "/api/cart/u1", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Cart not found", body["message"])
}

func TestCartAdd_QuantityLimit(t *testing.T) {
	app, _ := setupApp(t)
	productID := createProduct(t, app, "kopi")["id"]

	status, body := doJSON(t, app, http.MethodPost, "/api/cart/add", map[string]interface{}{"userId": "u1", "productId": productID, "quantity": int64(math.MaxInt64)})
	assert.Equal(t, http.StatusBadRequest, status, body)

	status, body = doJSON(t, app, http.MethodPost, "/api/cart/add", map[string]interface{}{"userId": "u1", "productId": productID, "quantity": 10000})
	require.Equal(t, http.StatusOK, status, body)

	status, body = doJSON(t, app, http.MethodPost, "/api/cart/add", map[string]interface{}{"userId": "u1", "productId": productID, "quantity": 1})
	assert.Equal(t, http.StatusBadRequest, status, body)

	status, body = doJSON(t, app, http.MethodGet, "/api/cart/u1", nil)
	require.Equal(t, http.StatusOK, status)
	items := body["cart"].(map[string]interface{})["items"].([]interface{})
	require.Len(t, items, 1)
	assert.EqualValues(t, 10000, items[0].(map[string]interface{})["quantity"])
}

func TestProductDelete_RemovesCartItems(t *testing.T) {
	app, _ := setupApp(t)
	user := registerUser(t, app, "shopper")
	kopi := createProduct(t, app, "kopi")
	teh := createProduct(t, app, "teh")
	userID := user["id"].(string)

	for _, p := range []map[string]interface{}{kopi, teh} {
		status, body := doJSON(t, app, http.MethodPost, "/api/cart/add", map[string]interface{}{"userId": userID, "productId": p["id"]})
		require.Equal(t, http.StatusOK, status, body)
	}

	status, _ := doJSON(t, app, http.MethodDelete, "/api/products/delete/"+kopi["id"].(string), nil)
	require.Equal(t, http.StatusOK, status)

	status, body := doJSON(t, app, http.MethodGet, "/api/cart/"+userID, nil)
	require.Equal(t, http.StatusOK, status)
	items := body["cart"].(map[string]interface{})["items"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, teh["id"], items[0].(map[string]interface{})["productId"])
}
