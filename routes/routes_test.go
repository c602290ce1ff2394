package routes

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"atelier-backend/config"
	"atelier-backend/controllers"
	"atelier-backend/models"
	"atelier-backend/services"
	"atelier-backend/testutil"
	"atelier-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.DB(t)
	log := utils.NopLogger()
	caps := config.ProbeCapabilities(db, log)
	cfg := config.Config{
		CORSAllowedOrigins: []string{"http://localhost:3000"},
		Numbering: config.NumberingConfig{
			DefaultPad: 4,
			Prefixes:   map[string]string{"invoice": "FA-"},
		},
		ProfileCacheTTL: time.Minute,
	}

	catalog := services.NewCatalogService(db, caps, config.CatalogConfig{LookupRetries: 1}, log)
	lines := services.NewLineStore(db, caps, log)
	tickets := services.NewTicketStore(db)

	r := SetupRouter(Dependencies{
		Config: cfg,
		Log:    log,
		Tickets: &controllers.TicketController{
			Aggregator: services.NewLineAggregator(catalog, lines, tickets, log),
			Lines:      lines,
			Tickets:    tickets,
			Log:        log,
		},
		Sequence: &controllers.SequenceController{
			Numbering: services.NewNumberingService(db, cfg.Numbering, log),
		},
		Catalog: &controllers.CatalogController{Catalog: catalog},
		Profile: &controllers.CompanyProfileController{
			Profiles: services.NewCompanyProfileCache(db, cfg.ProfileCacheTTL, log),
		},
	})
	return r, db
}

func do(r *gin.Engine, method, target, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func brakeForm() string {
	return url.Values{
		"prest_id[]":  {"PREST_AB12", "PREST_UNKNOWN"},
		"qty[]":       {"1", "1"},
		"piece_qty[]": {"2", "1"},
	}.Encode()
}

type mergeResponse struct {
	Merge  services.MergeResult `json:"merge"`
	Totals models.Totals        `json:"totals"`
}

func TestMergeLinesFromForm(t *testing.T) {
	r, db := newTestRouter(t)
	ticket := testutil.SeedTicket(t, db)
	testutil.SeedCatalogEntry(t, db, testutil.Brakes())
	path := fmt.Sprintf("/api/tickets/%d/lines", ticket.ID)

	w := do(r, http.MethodPost, path, "application/x-www-form-urlencoded", brakeForm())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(config.RequestIDHeader))

	var resp mergeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, services.MergeResult{Inserted: 2, Skipped: 1}, resp.Merge)
	assert.Equal(t, "49.00", resp.Totals.Combined.StringFixed(2))

	w = do(r, http.MethodPost, path, "application/x-www-form-urlencoded", brakeForm())
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, services.MergeResult{Incremented: 2, Skipped: 1}, resp.Merge)
	assert.Equal(t, "50.00", resp.Totals.ServiceSum.StringFixed(2))
	assert.Equal(t, "48.00", resp.Totals.PartSum.StringFixed(2))
	assert.Equal(t, "98.00", resp.Totals.Combined.StringFixed(2))

	w = do(r, http.MethodGet, path, "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var listed map[string][]models.OrderLine
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed["service"], 1)
	require.Len(t, listed["part"], 1)
	assert.Equal(t, 2, listed["service"][0].Quantity)
	assert.Equal(t, 4, listed["part"][0].Quantity)
}

func TestMergeLinesFromJSON(t *testing.T) {
	r, db := newTestRouter(t)
	ticket := testutil.SeedTicket(t, db)
	testutil.SeedCatalogEntry(t, db, testutil.Brakes())

	body := `{"selections":[{"catalogId":"PREST_AB12","serviceQty":1,"servicePriceOverride":"30","partQty":0,"partPriceOverride":"9.5"}]}`
	w := do(r, http.MethodPost, fmt.Sprintf("/api/tickets/%d/lines", ticket.ID), "application/json", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp mergeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "30.00", resp.Totals.ServiceSum.StringFixed(2))
	assert.Equal(t, "9.50", resp.Totals.PartSum.StringFixed(2))
	assert.Equal(t, "39.50", resp.Totals.Combined.StringFixed(2))
}

func TestMergeLinesErrors(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodPost, "/api/tickets/abc/lines", "application/x-www-form-urlencoded", brakeForm())
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/api/tickets/999/lines", "application/x-www-form-urlencoded", brakeForm())
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodPost, "/api/tickets/1/lines", "application/json", `{"selections":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodGet, "/api/tickets/999/totals", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteAndClearLines(t *testing.T) {
	r, db := newTestRouter(t)
	ticket := testutil.SeedTicket(t, db)
	other := testutil.SeedTicket(t, db)
	testutil.SeedCatalogEntry(t, db, testutil.Brakes())
	base := fmt.Sprintf("/api/tickets/%d", ticket.ID)

	w := do(r, http.MethodPost, base+"/lines", "application/x-www-form-urlencoded", brakeForm())
	require.Equal(t, http.StatusOK, w.Code)

	var line models.OrderLine
	require.NoError(t, db.Table(models.PartLine.Table()).Where("ticket_id = ?", ticket.ID).Take(&line).Error)

	w = do(r, http.MethodDelete, fmt.Sprintf("/api/tickets/%d/lines/part/%d", other.ID, line.ID), "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodDelete, fmt.Sprintf("%s/lines/labour/%d", base, line.ID), "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodDelete, fmt.Sprintf("%s/lines/part/%d", base, line.ID), "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var totals models.Totals
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &totals))
	assert.Equal(t, "25.00", totals.Combined.StringFixed(2))

	w = do(r, http.MethodDelete, base+"/lines", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &totals))
	assert.True(t, totals.Combined.IsZero())

	w = do(r, http.MethodGet, base+"/totals", "", "")
	require.Equal(t, http.StatusOK, w.Code)
}

func TestSequenceRoutes(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodGet, "/api/sequences/invoice", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodPost, "/api/sequences/invoice/next", "", "")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"sequence":"invoice","number":"FA-0001"}`, w.Body.String())

	w = do(r, http.MethodPost, "/api/sequences/invoice/next?pad=6", "", "")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"sequence":"invoice","number":"FA-000002"}`, w.Body.String())

	w = do(r, http.MethodPost, "/api/sequences/invoice/next?pad=-2", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodGet, "/api/sequences/invoice", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"name":"invoice","lastNumber":2}`, w.Body.String())
}

func TestCatalogRoutes(t *testing.T) {
	r, db := newTestRouter(t)
	testutil.SeedCatalogEntry(t, db, testutil.Brakes())

	w := do(r, http.MethodGet, "/api/catalog", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var groups []models.CatalogGroup
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &groups))
	require.Len(t, groups, 1)
	assert.Equal(t, "Freinage", groups[0].Category)

	w = do(r, http.MethodGet, "/api/catalog/PREST_AB12", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/api/catalog/PREST_NONE", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCompanyProfileRoutes(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodGet, "/api/company-profile", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var p models.CompanyProfile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, "L'atelier vélo", p.Name)

	w = do(r, http.MethodPut, "/api/company-profile", "application/json", `{"email":"not-an-email"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPut, "/api/company-profile", "application/json", `{"name":"Vélo Station","phone":"call me"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPut, "/api/company-profile", "application/json",
		`{"name":"Vélo Station","city":"Roubaix","phone":"03 20 00 00 00"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(r, http.MethodGet, "/api/company-profile", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, "Vélo Station", p.Name)
	assert.Equal(t, "Roubaix", p.City)

	w = do(r, http.MethodPost, "/api/company-profile/invalidate", "", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)
	do(r, http.MethodGet, "/api/sequences/none", "", "")

	w := do(r, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "atelier_http_request_duration_seconds")
}
