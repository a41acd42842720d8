// Package integration provides end-to-end tests for the catalog API.
// Tests run against both PostgreSQL and MySQL databases and skip when they are unreachable.
package integration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/catalog/internal/app"
	"github.com/allisson/catalog/internal/cache"
	catalogDomain "github.com/allisson/catalog/internal/catalog/domain"
	catalogHTTP "github.com/allisson/catalog/internal/catalog/http"
	"github.com/allisson/catalog/internal/catalog/http/dto"
	"github.com/allisson/catalog/internal/config"
	"github.com/allisson/catalog/internal/featureflag"
	"github.com/allisson/catalog/internal/testutil"
)

// integrationTestContext holds all dependencies and state for integration testing.
type integrationTestContext struct {
	container *app.Container
	db        *sql.DB
	server    *httptest.Server
	dbDriver  string
}

// makeRequest performs an HTTP request and returns the response and body.
func (ctx *integrationTestContext) makeRequest(
	t *testing.T,
	method, path string,
	body any,
) (*http.Response, []byte) {
	t.Helper()

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		require.NoError(t, err, "failed to marshal request body")
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequest(method, ctx.server.URL+path, bodyReader)
	require.NoError(t, err, "failed to create request")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{Timeout: 10 * time.Second}
	//nolint:gosec // controlled test environment with localhost URLs
	resp, err := client.Do(req)
	require.NoError(t, err, "failed to perform request")

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")
	if closeErr := resp.Body.Close(); closeErr != nil {
		t.Logf("Warning: failed to close response body: %v", closeErr)
	}

	return resp, respBody
}

// setupIntegrationTest wires the container against a real database with the memory cache
// enabled and event publishing disabled.
func setupIntegrationTest(t *testing.T, dbDriver string) *integrationTestContext {
	t.Helper()

	gin.SetMode(gin.TestMode)

	t.Setenv(featureflag.EnvVarName(catalogDomain.FlagEnableRedisCaching), "true")
	t.Setenv(featureflag.EnvVarName(catalogDomain.FlagEnableKafkaPublishing), "false")

	var db *sql.DB
	var dsn string
	if dbDriver == "postgres" {
		db = testutil.SetupPostgresDB(t)
		dsn = testutil.GetPostgresTestDSN()
	} else {
		db = testutil.SetupMySQLDB(t)
		dsn = testutil.GetMySQLTestDSN()
	}

	cfg := &config.Config{
		DBDriver:             dbDriver,
		DBConnectionString:   dsn,
		DBMaxOpenConnections: 10,
		DBMaxIdleConnections: 5,
		DBConnMaxLifetime:    time.Hour,
		ServerHost:           "localhost",
		ServerPort:           8080,
		LogLevel:             "error",
		CacheBackend:         cache.BackendMemory,
		KafkaBrokers:         "localhost:9092",
		KafkaTopic:           "catalog-items",
		KafkaGroupID:         "catalog-integration",
		KafkaWriteTimeout:    time.Second,
	}

	container := app.NewContainer(cfg)

	httpSrv, err := container.HTTPServer()
	require.NoError(t, err, "failed to get HTTP server")

	handler := httpSrv.GetHandler()
	require.NotNil(t, handler, "handler should not be nil after SetupRouter")

	return &integrationTestContext{
		container: container,
		db:        db,
		server:    httptest.NewServer(handler),
		dbDriver:  dbDriver,
	}
}

// teardownIntegrationTest cleans up all resources.
func teardownIntegrationTest(t *testing.T, ctx *integrationTestContext) {
	t.Helper()

	if ctx.server != nil {
		ctx.server.Close()
	}

	if ctx.container != nil {
		if err := ctx.container.Shutdown(context.Background()); err != nil {
			t.Logf("Warning: container shutdown error: %v", err)
		}
	}

	if ctx.db != nil {
		testutil.TeardownDB(t, ctx.db)
	}
}

var databases = []struct {
	name     string
	dbDriver string
}{
	{"PostgreSQL", "postgres"},
	{"MySQL", "mysql"},
}

func TestIntegration_Health_BasicChecks(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	for _, tc := range databases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := setupIntegrationTest(t, tc.dbDriver)
			defer teardownIntegrationTest(t, ctx)

			t.Run("01_Liveness", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodGet, "/health/live", nil)
				assert.Equal(t, http.StatusOK, resp.StatusCode)

				var response map[string]string
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Equal(t, "healthy", response["status"])
			})

			t.Run("02_Readiness", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodGet, "/health/ready", nil)
				assert.Equal(t, http.StatusOK, resp.StatusCode)

				var response map[string]any
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Equal(t, "ready", response["status"])
			})
		})
	}
}

func TestIntegration_Catalog_CompleteFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	for _, tc := range databases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := setupIntegrationTest(t, tc.dbDriver)
			defer teardownIntegrationTest(t, ctx)

			var createdID string

			t.Run("01_ListEmpty", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodGet, "/api/catalog-items", nil)
				assert.Equal(t, http.StatusOK, resp.StatusCode)
				assert.JSONEq(t, `[]`, string(body))
			})

			t.Run("02_Seed", func(t *testing.T) {
				seedUseCase, err := ctx.container.SeedUseCase()
				require.NoError(t, err)

				inserted, err := seedUseCase.Seed(context.Background())
				require.NoError(t, err)
				assert.Equal(t, 3, inserted)

				inserted, err = seedUseCase.Seed(context.Background())
				require.NoError(t, err)
				assert.Equal(t, 0, inserted)
			})

			t.Run("03_ListServedFromCache", func(t *testing.T) {
				// The seed bypasses invalidation, so the cached empty list is still served.
				resp, body := ctx.makeRequest(t, http.MethodGet, "/api/catalog-items", nil)
				assert.Equal(t, http.StatusOK, resp.StatusCode)
				assert.JSONEq(t, `[]`, string(body))
			})

			t.Run("04_Create", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodPost, "/api/catalog-items", map[string]any{
					"name":              "Acme Widget",
					"description":       "A widget",
					"category":          "Tools",
					"price":             "12.50",
					"quantity_in_stock": 7,
				})
				require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

				var item dto.CatalogItemResponse
				require.NoError(t, json.Unmarshal(body, &item))
				assert.Equal(t, "Acme Widget", item.Name)
				assert.Equal(t, "12.5", item.Price.String())
				assert.Equal(t, "/api/catalog-items/"+item.ID, resp.Header.Get("Location"))
				assert.Empty(t, resp.Header.Get(catalogHTTP.EventPublishedHeader))
				createdID = item.ID
			})

			t.Run("05_ListAfterInvalidation", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodGet, "/api/catalog-items", nil)
				assert.Equal(t, http.StatusOK, resp.StatusCode)

				var items []dto.CatalogItemResponse
				require.NoError(t, json.Unmarshal(body, &items))
				require.Len(t, items, 4)

				names := make([]string, 0, len(items))
				for _, item := range items {
					names = append(names, item.Name)
				}
				assert.Equal(t, []string{
					"Acme Widget",
					"Ergonomic Desk Chair",
					"Noise Cancelling Headphones",
					"Premium Notebook Set",
				}, names)
			})

			t.Run("06_Get", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodGet, "/api/catalog-items/"+createdID, nil)
				assert.Equal(t, http.StatusOK, resp.StatusCode)

				var item dto.CatalogItemResponse
				require.NoError(t, json.Unmarshal(body, &item))
				assert.Equal(t, createdID, item.ID)
				assert.Equal(t, 7, item.QuantityInStock)
			})

			t.Run("07_GetNotFound", func(t *testing.T) {
				resp, _ := ctx.makeRequest(
					t, http.MethodGet, "/api/catalog-items/0190a6e1-7f2b-7c3d-8e4f-5a6b7c8d9e0f", nil,
				)
				assert.Equal(t, http.StatusNotFound, resp.StatusCode)
			})

			t.Run("08_GetInvalidID", func(t *testing.T) {
				resp, _ := ctx.makeRequest(t, http.MethodGet, "/api/catalog-items/not-a-uuid", nil)
				assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
			})

			t.Run("09_CreateInvalid", func(t *testing.T) {
				resp, _ := ctx.makeRequest(t, http.MethodPost, "/api/catalog-items", map[string]any{
					"name":              "  ",
					"category":          "Tools",
					"price":             "-1",
					"quantity_in_stock": 1,
				})
				assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
			})
		})
	}
}
