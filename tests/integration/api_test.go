package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	assetapp "github.com/itam/backend/internal/application/asset"
	identityapp "github.com/itam/backend/internal/application/identity"
	importexportapp "github.com/itam/backend/internal/application/importexport"
	orgapp "github.com/itam/backend/internal/application/org"
	"github.com/itam/backend/internal/domain/identity"
	"github.com/itam/backend/internal/infrastructure/auth"
	"github.com/itam/backend/internal/infrastructure/config"
	"github.com/itam/backend/internal/infrastructure/persistence"
	"github.com/itam/backend/internal/interfaces/http/handler"
	"github.com/itam/backend/internal/interfaces/http/middleware"
	"github.com/itam/backend/internal/interfaces/http/router"
)

// TestServer wires the full HTTP stack over a test database
type TestServer struct {
	DB     *persistence.Database
	Engine *gin.Engine
}

// APIResponse mirrors the standard response envelope
type APIResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

const adminPassword = "integration-pass-1"

// NewTestServer builds the same dependency graph as the server binary,
// seeded with a single admin user
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	gin.SetMode(gin.TestMode)
	db := NewTestDB(t)

	assetRepo := persistence.NewGormAssetRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	subcategoryRepo := persistence.NewGormSubcategoryRepository(db.DB)
	locationRepo := persistence.NewGormLocationRepository(db.DB)
	vendorRepo := persistence.NewGormVendorRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	settingRepo := persistence.NewGormSettingRepository(db.DB)

	assetService := assetapp.NewService(assetRepo, categoryRepo, locationRepo, settingRepo)
	categoryService := orgapp.NewCategoryService(categoryRepo, subcategoryRepo)
	locationService := orgapp.NewLocationService(locationRepo)
	vendorService := orgapp.NewVendorService(vendorRepo)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:          "integration-test-secret-0123456789abcdef",
		TokenExpiration: time.Hour,
		Issuer:          "inventory-test",
	})
	authService := identityapp.NewAuthService(userRepo, jwtService, nil)
	userService := identityapp.NewUserService(userRepo)

	assetImport := importexportapp.NewAssetImportService(
		assetRepo, categoryRepo, subcategoryRepo, locationRepo, vendorService, 50, nil,
	)
	categoryImport := importexportapp.NewCategoryImportService(categoryRepo, subcategoryRepo, 50, nil)
	exportService := importexportapp.NewExportService(
		assetRepo, categoryRepo, subcategoryRepo, locationRepo, vendorRepo,
	)

	middleware.SetupValidator()
	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.DefaultJWTConfig(jwtService)))

	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(handler.NewAuthHandler(authService)).
		Register(handler.NewAssetHandler(assetService)).
		Register(handler.NewOrgHandler(categoryService, locationService, vendorService)).
		Register(handler.NewAdminHandler(userService, settingRepo)).
		Register(handler.NewImportExportHandler(assetImport, categoryImport, exportService, 1<<20)).
		Setup()

	admin, err := identity.NewUser("admin", adminPassword, true)
	require.NoError(t, err)
	require.NoError(t, userRepo.Save(context.Background(), admin))

	return &TestServer{DB: db, Engine: engine}
}

// Request performs a JSON request against the test server
func (ts *TestServer) Request(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		data, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	ts.Engine.ServeHTTP(w, req)
	return w
}

// Upload posts csvData as a multipart "file" field
func (ts *TestServer) Upload(path, csvData, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("file", "upload.csv")
	_, _ = fw.Write([]byte(csvData))
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	ts.Engine.ServeHTTP(w, req)
	return w
}

// Login authenticates and returns the bearer token
func (ts *TestServer) Login(t *testing.T, username, password string) string {
	t.Helper()

	w := ts.Request(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"username": username,
		"password": password,
	}, "")
	require.Equal(t, http.StatusOK, w.Code, "login failed: %s", w.Body.String())

	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	var data struct {
		Token struct {
			AccessToken string `json:"access_token"`
		} `json:"token"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	require.NotEmpty(t, data.Token.AccessToken)
	return data.Token.AccessToken
}

func decode(t *testing.T, w *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// createOrg creates a location and category, returning their IDs
func createOrg(t *testing.T, ts *TestServer, token string) (locationID, categoryID string) {
	t.Helper()

	w := ts.Request(http.MethodPost, "/api/v1/locations", map[string]string{
		"code": "HQ", "name": "Headquarters",
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var loc struct {
		ID string `json:"ID"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &loc))

	w = ts.Request(http.MethodPost, "/api/v1/categories", map[string]string{
		"code": "COMP", "name": "Computers",
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var cat struct {
		ID string `json:"ID"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &cat))

	return loc.ID, cat.ID
}

func TestAuthAPI(t *testing.T) {
	ts := NewTestServer(t)

	t.Run("requests without a token are rejected", func(t *testing.T) {
		w := ts.Request(http.MethodGet, "/api/v1/assets", nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("bad credentials are rejected", func(t *testing.T) {
		w := ts.Request(http.MethodPost, "/api/v1/auth/login", map[string]string{
			"username": "admin", "password": "definitely-wrong",
		}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		resp := decode(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "ERR_UNAUTHORIZED", resp.Error.Code)
	})

	t.Run("login issues a usable token", func(t *testing.T) {
		token := ts.Login(t, "admin", adminPassword)

		w := ts.Request(http.MethodGet, "/api/v1/auth/me", nil, token)
		require.Equal(t, http.StatusOK, w.Code)

		var me struct {
			Username string `json:"username"`
			IsAdmin  bool   `json:"is_admin"`
		}
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &me))
		assert.Equal(t, "admin", me.Username)
		assert.True(t, me.IsAdmin)
	})
}

func TestAssetAPI_Lifecycle(t *testing.T) {
	ts := NewTestServer(t)
	token := ts.Login(t, "admin", adminPassword)
	locationID, categoryID := createOrg(t, ts, token)

	var assetID, assetTag string

	t.Run("create with generated tag", func(t *testing.T) {
		w := ts.Request(http.MethodPost, "/api/v1/assets", map[string]interface{}{
			"name":        "MacBook Pro",
			"status":      "InStock",
			"location_id": locationID,
			"category_id": categoryID,
			"cost":        2499.00,
		}, token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var a struct {
			ID       string `json:"ID"`
			AssetTag string `json:"AssetTag"`
			Status   string `json:"Status"`
		}
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &a))
		assetID = a.ID
		assetTag = a.AssetTag
		assert.Equal(t, "InStock", a.Status)
		assert.Contains(t, assetTag, fmt.Sprintf("ESS-HQ-COMP-%d-", time.Now().Year()))
	})

	t.Run("assign and repair round trip", func(t *testing.T) {
		w := ts.Request(http.MethodPost, "/api/v1/assets/"+assetID+"/assign", map[string]string{
			"assignee": "Dana Smith", "department": "Engineering",
		}, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = ts.Request(http.MethodPost, "/api/v1/assets/"+assetID+"/repair", map[string]string{
			"vendor": "FixIt Co",
		}, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = ts.Request(http.MethodPost, "/api/v1/assets/"+assetID+"/repair/complete", nil, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var a struct {
			Status     string `json:"Status"`
			AssignedTo string `json:"AssignedTo"`
		}
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &a))
		assert.Equal(t, "InStock", a.Status)
		assert.Empty(t, a.AssignedTo)
	})

	t.Run("history records every transition", func(t *testing.T) {
		w := ts.Request(http.MethodGet, "/api/v1/assets/"+assetID+"/events", nil, token)
		require.Equal(t, http.StatusOK, w.Code)

		var events []json.RawMessage
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &events))
		// created, assigned, repair opened, repair completed
		assert.Len(t, events, 4)
	})

	t.Run("lookup by tag", func(t *testing.T) {
		w := ts.Request(http.MethodGet, "/api/v1/assets/by-tag/"+assetTag, nil, token)
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("disposed assets reject lifecycle actions", func(t *testing.T) {
		w := ts.Request(http.MethodPost, "/api/v1/assets/"+assetID+"/dispose", nil, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = ts.Request(http.MethodPost, "/api/v1/assets/"+assetID+"/assign", map[string]string{
			"assignee": "Someone Else",
		}, token)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		resp := decode(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "ERR_INVALID_STATE", resp.Error.Code)
	})
}

func TestAdminAPI(t *testing.T) {
	ts := NewTestServer(t)
	adminToken := ts.Login(t, "admin", adminPassword)

	t.Run("admin creates a regular user", func(t *testing.T) {
		w := ts.Request(http.MethodPost, "/api/v1/admin/users", map[string]interface{}{
			"username":     "jordan",
			"password":     "another-pass-12",
			"display_name": "Jordan",
			"is_admin":     false,
		}, adminToken)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	})

	t.Run("regular users cannot reach admin routes", func(t *testing.T) {
		userToken := ts.Login(t, "jordan", "another-pass-12")
		w := ts.Request(http.MethodGet, "/api/v1/admin/users", nil, userToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("settings update normalizes the tag prefix", func(t *testing.T) {
		w := ts.Request(http.MethodPut, "/api/v1/admin/settings", map[string]string{
			"asset_tag_prefix": "ACME",
		}, adminToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var values map[string]string
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &values))
		assert.Equal(t, "ACME-", values["asset_tag_prefix"])
	})
}

func TestImportExportAPI(t *testing.T) {
	ts := NewTestServer(t)
	token := ts.Login(t, "admin", adminPassword)
	createOrg(t, ts, token)

	header := "asset_tag,name,status,category_code,subcategory_name,location_code,vendor_name," +
		"serial_number,purchase_date,warranty_expiry_date,cost,description,notes"

	t.Run("import creates assets and reports bad rows", func(t *testing.T) {
		csvData := strings.Join([]string{
			header,
			"ESS-0001,MacBook Pro,InStock,COMP,Laptops,HQ,Apple Inc,C02X,2024-03-15,2027-03-15,2499.00,,",
			"ESS-0002,Broken Row,InStock,NOPE,,HQ,,,,,199.00,,",
		}, "\n")

		w := ts.Upload("/api/v1/import/assets", csvData, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var result struct {
			Created    int `json:"created"`
			FailedRows int `json:"failed_rows"`
			Errors     []struct {
				Row    int    `json:"row"`
				Column string `json:"column"`
				Code   string `json:"code"`
			} `json:"errors"`
		}
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &result))
		assert.Equal(t, 1, result.Created)
		assert.Equal(t, 1, result.FailedRows)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, 3, result.Errors[0].Row)
		assert.Equal(t, "category_code", result.Errors[0].Column)
	})

	t.Run("export round trips the imported asset", func(t *testing.T) {
		w := ts.Request(http.MethodGet, "/api/v1/export/assets", nil, token)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
		assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
		assert.Contains(t, w.Body.String(), "ESS-0001,MacBook Pro,InStock,COMP,Laptops,HQ,Apple Inc")
	})

	t.Run("imports are admin only", func(t *testing.T) {
		createUser := ts.Request(http.MethodPost, "/api/v1/admin/users", map[string]interface{}{
			"username": "viewer", "password": "viewer-pass-12",
		}, token)
		require.Equal(t, http.StatusCreated, createUser.Code)

		viewerToken := ts.Login(t, "viewer", "viewer-pass-12")
		w := ts.Upload("/api/v1/import/assets", header, viewerToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
