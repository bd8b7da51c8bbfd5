package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"katalog/internal/handlers"
	"katalog/internal/models"
	"katalog/internal/repositories"
	"katalog/internal/services"
	"katalog/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupApp builds the full Fiber app against a test-scoped in-memory SQLite
// database and a temporary upload directory, wired exactly like main.
func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	dbName := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", dbName)), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&models.Product{}, &models.Category{}, &models.User{}))

	imageStore := storage.NewImageStore(filepath.Join(t.TempDir(), "uploads"))

	productRepo := repositories.NewGORMProductRepository(db)
	categoryRepo := repositories.NewGORMCategoryRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)

	productService := services.NewProductService(productRepo, imageStore, nil)
	categoryService := services.NewCategoryService(categoryRepo)
	userService := services.NewUserService(userRepo)

	productHandler := handlers.NewProductHandler(productService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	userHandler := handlers.NewUserHandler(userService)

	app := fiber.New()
	app.Static("/uploads", imageStore.Dir())

	api := app.Group("/api")
	productHandler.RegisterRoutes(api)
	categoryHandler.RegisterRoutes(api)
	userHandler.RegisterRoutes(api)

	return app
}

// upload is a single image part for multipart product requests.
type upload struct {
	name    string
	content string
}

// newProductRequest builds a multipart POST /api/products request from
// form fields and image parts.
func newProductRequest(t *testing.T, fields map[string]string, uploads []upload) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for key, value := range fields {
		assert.NoError(t, w.WriteField(key, value))
	}
	for _, u := range uploads {
		part, err := w.CreateFormFile("images", u.name)
		assert.NoError(t, err)
		_, err = part.Write([]byte(u.content))
		assert.NoError(t, err)
	}
	assert.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/products", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func decodeProduct(t *testing.T, resp *http.Response) models.Product {
	t.Helper()
	var product models.Product
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&product))
	resp.Body.Close()
	return product
}

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func TestProductLifecycleWithImage(t *testing.T) {
	app := setupApp(t)

	// Create with one image part.
	imageBytes := "png-bytes-of-a-mug"
	resp, err := app.Test(newProductRequest(t,
		map[string]string{"name": "Mug", "price": "9.99"},
		[]upload{{name: "mug.png", content: imageBytes}},
	), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	created := decodeProduct(t, resp)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Mug", created.Name)
	assert.Equal(t, 9.99, created.Price)
	assert.Len(t, created.Images, 1)
	assert.True(t, strings.HasSuffix(created.Images[0], "-mug.png"))

	// The stored file is served verbatim under the public prefix.
	req := httptest.NewRequest(http.MethodGet, "/uploads/"+created.Images[0], nil)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	served, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)
	assert.Equal(t, imageBytes, string(served))
	resp.Body.Close()

	// A zero price is treated as "not supplied" and keeps the stored value.
	body, _ := json.Marshal(map[string]interface{}{"price": 0})
	req = httptest.NewRequest(http.MethodPut, "/api/products/"+created.ID, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	afterZero := decodeProduct(t, resp)
	assert.Equal(t, 9.99, afterZero.Price)

	// Supplied fields overwrite, omitted fields and images are kept.
	body, _ = json.Marshal(map[string]interface{}{"name": "Big Mug", "price": 12.5})
	req = httptest.NewRequest(http.MethodPut, "/api/products/"+created.ID, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	merged := decodeProduct(t, resp)
	assert.Equal(t, "Big Mug", merged.Name)
	assert.Equal(t, 12.5, merged.Price)
	assert.Equal(t, created.Images, merged.Images)

	// Delete returns the record's final state.
	req = httptest.NewRequest(http.MethodDelete, "/api/products/"+created.ID, nil)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	deleted := decodeProduct(t, resp)
	assert.Equal(t, merged, deleted)

	// Gone afterwards.
	req = httptest.NewRequest(http.MethodGet, "/api/products/"+created.ID, nil)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestProductCreateWithMultipleImages(t *testing.T) {
	app := setupApp(t)

	uploads := []upload{
		{name: "a.png", content: "aaa"},
		{name: "b.png", content: "bbb"},
		{name: "c.png", content: "ccc"},
	}
	resp, err := app.Test(newProductRequest(t, map[string]string{"name": "Gallery"}, uploads), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	created := decodeProduct(t, resp)
	assert.Len(t, created.Images, 3)
	for i, u := range uploads {
		assert.True(t, strings.HasSuffix(created.Images[i], "-"+u.name), "images must keep upload order")

		req := httptest.NewRequest(http.MethodGet, "/uploads/"+created.Images[i], nil)
		fileResp, err := app.Test(req, -1)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, fileResp.StatusCode)
		served, _ := io.ReadAll(fileResp.Body)
		assert.Equal(t, u.content, string(served))
		fileResp.Body.Close()
	}
}

func TestProductCreateWithoutImages(t *testing.T) {
	app := setupApp(t)

	resp, err := app.Test(newProductRequest(t, map[string]string{"name": "Plain", "code": "P-1"}, nil), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	created := decodeProduct(t, resp)
	assert.NotEmpty(t, created.ID)
	assert.Empty(t, created.Images)
}

func TestProductCreateRejectsTooManyImages(t *testing.T) {
	app := setupApp(t)

	var uploads []upload
	for i := 0; i < 11; i++ {
		uploads = append(uploads, upload{name: fmt.Sprintf("img-%d.png", i), content: "x"})
	}
	resp, err := app.Test(newProductRequest(t, nil, uploads), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestProductListAll(t *testing.T) {
	app := setupApp(t)

	for _, name := range []string{"First", "Second"} {
		resp, err := app.Test(newProductRequest(t, map[string]string{"name": name}, nil), -1)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var products []models.Product
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&products))
	resp.Body.Close()
	assert.Len(t, products, 2)

	names := []string{products[0].Name, products[1].Name}
	assert.ElementsMatch(t, []string{"First", "Second"}, names)
}

func TestProductUpdateMissing(t *testing.T) {
	app := setupApp(t)

	body, _ := json.Marshal(map[string]interface{}{"name": "Ghost"})
	req := httptest.NewRequest(http.MethodPut, "/api/products/no-such-id", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// No record appeared as a side effect.
	req = httptest.NewRequest(http.MethodGet, "/api/products", nil)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	var products []models.Product
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&products))
	resp.Body.Close()
	assert.Empty(t, products)
}

func TestProductGetAndDeleteMissing(t *testing.T) {
	app := setupApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/products/no-such-id", nil)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	req = httptest.NewRequest(http.MethodDelete, "/api/products/no-such-id", nil)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestCategoryEndpoints(t *testing.T) {
	app := setupApp(t)

	body, _ := json.Marshal(map[string]interface{}{
		"name":          "Kitchen",
		"subcategories": []string{"Mugs", "Plates"},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/categories", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.Category
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Kitchen", created.Name)
	assert.Equal(t, []string{"Mugs", "Plates"}, created.Subcategories)

	req = httptest.NewRequest(http.MethodGet, "/api/categories", nil)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var categories []models.Category
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&categories))
	resp.Body.Close()
	assert.Len(t, categories, 1)
	assert.Equal(t, created.ID, categories[0].ID)
	assert.Equal(t, []string{"Mugs", "Plates"}, categories[0].Subcategories)
}

func TestUserRegisterLoginAndFetch(t *testing.T) {
	app := setupApp(t)

	// Register
	body, _ := json.Marshal(map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "secret",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/users/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var registered models.User
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&registered))
	resp.Body.Close()
	assert.NotEmpty(t, registered.ID)
	assert.Empty(t, registered.Password, "the password must not be echoed back")

	// Login with matching credentials
	body, _ = json.Marshal(map[string]string{"email": "alice@example.com", "password": "secret"})
	req = httptest.NewRequest(http.MethodPost, "/api/users/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var loginResp map[string]string
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&loginResp))
	resp.Body.Close()
	assert.Equal(t, registered.ID, loginResp["userId"])

	// Login with a wrong password
	body, _ = json.Marshal(map[string]string{"email": "alice@example.com", "password": "nope"})
	req = httptest.NewRequest(http.MethodPost, "/api/users/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// Fetch the username by ID
	req = httptest.NewRequest(http.MethodGet, "/api/users/"+registered.ID, nil)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var fetched map[string]string
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&fetched))
	resp.Body.Close()
	assert.Equal(t, map[string]string{"username": "alice"}, fetched)

	// Unknown user
	req = httptest.NewRequest(http.MethodGet, "/api/users/no-such-user", nil)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestUserRegisterMissingField(t *testing.T) {
	app := setupApp(t)

	body, _ := json.Marshal(map[string]string{"username": "bob", "email": "bob@example.com"})
	req := httptest.NewRequest(http.MethodPost, "/api/users/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}
