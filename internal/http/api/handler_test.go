package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"winsbygroup.com/reviewserver/internal/backup"
	"winsbygroup.com/reviewserver/internal/customer"
	"winsbygroup.com/reviewserver/internal/events"
	"winsbygroup.com/reviewserver/internal/graph"
	"winsbygroup.com/reviewserver/internal/http/api"
	"winsbygroup.com/reviewserver/internal/item"
	"winsbygroup.com/reviewserver/internal/review"
	"winsbygroup.com/reviewserver/internal/testutil"
)

// recorder is a Publisher that keeps every event it is given.
type recorder struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (r *recorder) Publish(_ context.Context, ev events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return r.err
}

func (r *recorder) IsHealthy() bool { return true }
func (r *recorder) Close() error    { return nil }

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.EventType
	}
	return out
}

type counter struct {
	ok, failed int
}

func (c *counter) EventPublished(_ string, err error) {
	if err != nil {
		c.failed++
		return
	}
	c.ok++
}

type fixture struct {
	e   *echo.Echo
	db  *sqlx.DB
	pub *recorder
	cnt *counter
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "reviews.db")
	db := testutil.NewTestDBAt(t, dbPath)

	customers := customer.NewService(db)
	items := item.NewService(db)
	reviews := review.NewService(db)
	pub := &recorder{}
	cnt := &counter{}

	svc := api.NewService(
		customers,
		items,
		reviews,
		graph.NewService(customers, items, reviews),
		backup.NewService(db, dbPath),
		pub,
		cnt,
		zap.NewNop(),
	)

	e := echo.New()
	api.RegisterRoutes(e.Group("/api/v1"), api.NewHandler(svc))

	return &fixture{e: e, db: db, pub: pub, cnt: cnt}
}

func (f *fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) seed(t *testing.T) {
	t.Helper()
	testutil.Exec(t, f.db, `
		INSERT INTO customers (id, name) VALUES (1, 'Ana');
		INSERT INTO items (id, name, price) VALUES (1, 'Mug', 9.99);
		INSERT INTO reviews (id, comment, customer_id, item_id) VALUES (1, 'Nice', 1, 1);
	`)
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var out api.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out.Error
}

func TestGetSerializedEntities(t *testing.T) {
	f := newFixture(t)
	f.seed(t)

	t.Run("review includes both parents", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/v1/reviews/1", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{
			"id": 1,
			"comment": "Nice",
			"customer_id": 1,
			"item_id": 1,
			"customer": {"id": 1, "name": "Ana"},
			"item": {"id": 1, "name": "Mug", "price": 9.99}
		}`, rec.Body.String())
	})

	t.Run("customer lists items without their reviews", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/v1/customers/1", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"id":1,"name":"Ana","items":[{"id":1,"name":"Mug","price":9.99}]}`, rec.Body.String())
	})

	t.Run("item lists reviews with their customer", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/v1/items/1", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{
			"id": 1,
			"name": "Mug",
			"price": 9.99,
			"reviews": [{
				"id": 1,
				"comment": "Nice",
				"customer_id": 1,
				"item_id": 1,
				"customer": {"id": 1, "name": "Ana"}
			}]
		}`, rec.Body.String())
	})

	t.Run("lists", func(t *testing.T) {
		for _, path := range []string{"/api/v1/customers", "/api/v1/items", "/api/v1/reviews"} {
			rec := f.do(t, http.MethodGet, path, nil)
			require.Equal(t, http.StatusOK, rec.Code, path)

			var out []map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
			assert.Len(t, out, 1, path)
		}
	})
}

func TestCustomerItems(t *testing.T) {
	f := newFixture(t)
	f.seed(t)
	testutil.Exec(t, f.db, `
		INSERT INTO items (id, name, price) VALUES (2, 'Pen', 1.5), (3, 'Lamp', 20);
		INSERT INTO reviews (comment, customer_id, item_id) VALUES ('Again', 1, 1), ('Ok', 1, 2);
	`)

	rec := f.do(t, http.MethodGet, "/api/v1/customers/1/items", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[
		{"id": 1, "name": "Mug", "price": 9.99},
		{"id": 2, "name": "Pen", "price": 1.5}
	]`, rec.Body.String())

	// same set as the items embedded in the customer
	var embedded struct {
		Items []item.Item `json:"items"`
	}
	rec = f.do(t, http.MethodGet, "/api/v1/customers/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &embedded))
	assert.ElementsMatch(t, []item.Item{{ID: 1, Name: "Mug", Price: 9.99}, {ID: 2, Name: "Pen", Price: 1.5}}, embedded.Items)

	t.Run("customer without reviews", func(t *testing.T) {
		testutil.Exec(t, f.db, `INSERT INTO customers (id, name) VALUES (2, 'Ben')`)
		rec := f.do(t, http.MethodGet, "/api/v1/customers/2/items", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})

	t.Run("unknown customer", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/v1/customers/99/items", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestExists(t *testing.T) {
	f := newFixture(t)
	f.seed(t)

	cases := map[string]bool{
		"/api/v1/customers/1/exists":  true,
		"/api/v1/customers/99/exists": false,
		"/api/v1/items/1/exists":      true,
		"/api/v1/items/99/exists":     false,
	}
	for path, want := range cases {
		rec := f.do(t, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, rec.Code, path)

		var out api.ExistsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		assert.Equal(t, want, out.Exists, path)
	}

	rec := f.do(t, http.MethodGet, "/api/v1/items/abc/exists", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEmptyListsAreArrays(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/reviews", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestCustomerCRUD(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/customers", api.CustomerRequest{Name: " Ana "})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "Ana", created["name"])
	assert.Equal(t, []any{}, created["items"])

	rec = f.do(t, http.MethodPut, "/api/v1/customers/1", api.CustomerRequest{Name: "Ana Maria"})
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/customers/1", nil)
	assert.Contains(t, rec.Body.String(), "Ana Maria")

	rec = f.do(t, http.MethodDelete, "/api/v1/customers/1", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/customers/1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	assert.Equal(t, []string{"customer.created", "customer.updated", "customer.deleted"}, f.pub.types())
	assert.Equal(t, 3, f.cnt.ok)
}

func TestItemCRUD(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/items", api.ItemRequest{Name: "Mug", Price: 9.99})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":1,"name":"Mug","price":9.99,"reviews":[]}`, rec.Body.String())

	rec = f.do(t, http.MethodPut, "/api/v1/items/1", api.ItemRequest{Name: "Mug", Price: 12})
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodPut, "/api/v1/items/1", api.ItemRequest{Name: "Mug", Price: -1})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = f.do(t, http.MethodDelete, "/api/v1/items/1", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodDelete, "/api/v1/items/1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateReview(t *testing.T) {
	f := newFixture(t)
	f.seed(t)

	t.Run("valid parents", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/api/v1/reviews", api.ReviewRequest{Comment: "Again", CustomerID: 1, ItemID: 1})
		require.Equal(t, http.StatusCreated, rec.Code)

		var out map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		assert.Equal(t, "Again", out["comment"])
		assert.Equal(t, "Ana", out["customer"].(map[string]any)["name"])
	})

	t.Run("dangling item is rejected and nothing is written", func(t *testing.T) {
		before := testutil.Count(t, f.db, `SELECT COUNT(*) FROM reviews`)

		rec := f.do(t, http.MethodPost, "/api/v1/reviews", api.ReviewRequest{Comment: "x", CustomerID: 1, ItemID: 99})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, errorBody(t, rec), "item 99 not found")

		assert.Equal(t, before, testutil.Count(t, f.db, `SELECT COUNT(*) FROM reviews`))
	})

	t.Run("missing customer id", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/api/v1/reviews", api.ReviewRequest{Comment: "x", ItemID: 1})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, errorBody(t, rec), "customer_id")
	})
}

func TestCascadeThroughAPI(t *testing.T) {
	f := newFixture(t)
	f.seed(t)

	rec := f.do(t, http.MethodDelete, "/api/v1/items/1", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/reviews/1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/customers/1", nil)
	assert.JSONEq(t, `{"id":1,"name":"Ana","items":[]}`, rec.Body.String())
}

func TestBadRequests(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"non numeric id", http.MethodGet, "/api/v1/customers/abc", nil, http.StatusBadRequest},
		{"zero id", http.MethodGet, "/api/v1/items/0", nil, http.StatusBadRequest},
		{"malformed json", http.MethodPost, "/api/v1/items", `{"name":`, http.StatusBadRequest},
		{"wrong type", http.MethodPost, "/api/v1/items", `{"name":"Mug","price":"cheap"}`, http.StatusBadRequest},
		{"blank name", http.MethodPost, "/api/v1/customers", api.CustomerRequest{Name: "   "}, http.StatusUnprocessableEntity},
		{"missing review", http.MethodPut, "/api/v1/reviews/5", api.ReviewRequest{CustomerID: 1, ItemID: 1}, http.StatusNotFound},
		{"review without parents", http.MethodPost, "/api/v1/reviews", api.ReviewRequest{Comment: "x"}, http.StatusUnprocessableEntity},
		{"missing customer", http.MethodDelete, "/api/v1/customers/7", nil, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, rec.Code)
			assert.NotEmpty(t, errorBody(t, rec))
		})
	}
}

func TestFailedPublishDoesNotFailWrite(t *testing.T) {
	f := newFixture(t)
	f.pub.err = errors.New("broker unavailable")

	rec := f.do(t, http.MethodPost, "/api/v1/customers", api.CustomerRequest{Name: "Ana"})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, testutil.Count(t, f.db, `SELECT COUNT(*) FROM customers`))
	assert.Equal(t, 1, f.cnt.failed)
}

func TestSuppressions(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/schema/suppressions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"customer": ["-items.reviews"],
		"item": ["-reviews.customer.items", "-reviews.item"],
		"review": ["-customer.items", "-item.reviews"]
	}`, rec.Body.String())
}

func TestBackupEndpoint(t *testing.T) {
	f := newFixture(t)
	f.seed(t)

	rec := f.do(t, http.MethodPost, "/api/v1/backup", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var out backup.BackupResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Contains(t, out.Filename, "_reviewdump.sql.gz")
	assert.FileExists(t, out.Path)
	assert.Positive(t, out.Size)
}
