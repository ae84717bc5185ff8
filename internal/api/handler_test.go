package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/almamiraa/KP-PTPN/internal/confstore"
	"github.com/almamiraa/KP-PTPN/internal/converter"
	"github.com/almamiraa/KP-PTPN/internal/model"
	"github.com/almamiraa/KP-PTPN/internal/store"
)

func newTestRouter(t *testing.T) (*gin.Engine, *store.Store, *confstore.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	st, err := store.New(filepath.Join(dir, "konverta.db"))
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	confs := confstore.New(dir)
	for _, module := range []model.ModuleKind{model.ModuleWorkforce, model.ModuleCost} {
		if err := confs.Ensure(module); err != nil {
			t.Fatalf("ensure config: %v", err)
		}
	}

	coord := converter.NewCoordinator(st, confs, converter.Policy{Workers: 1, PersistOnFailed: true})
	h := NewHandler(st, confs, coord, dir)

	r := gin.New()
	apiGroup := r.Group("/api")
	h.RegisterRoutes(apiGroup)
	return r, st, confs
}

func TestGetStatus_Empty(t *testing.T) {
	t.Parallel()

	r, _, _ := newTestRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/status", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status: %d %s", w.Code, w.Body.String())
	}
	var resp StatusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Initialized || resp.TotalRuns != 0 {
		t.Fatalf("response: %+v", resp)
	}
}

func TestConfigRoundTrip(t *testing.T) {
	t.Parallel()

	r, _, _ := newTestRouter(t)

	cfg := model.ConversionConfig{
		Module: model.ModuleWorkforce,
		Companies: []model.CompanyConfig{
			{Key: "ptpn1", Name: "PTPN I", Code: "P1", SheetName: "PTPN I"},
		},
		Mapping: model.MappingSpec{
			Kind: model.MappingFixedLayout,
			Fixed: &model.FixedLayout{StatusGroups: []model.StatusGroupMapping{{
				Status: "PERMANENT",
				SubGroups: []model.SubGroupMapping{{Name: "KARPIM", Levels: []model.LevelMapping{{
					Name: "BOD-1",
					Dimensions: []model.DimensionMapping{{
						Dimension:  model.DimensionGender,
						Categories: []model.CategoryCell{{Category: "L", Cell: "B2"}},
					}},
				}}}},
			}}},
		},
	}
	body, _ := json.Marshal(cfg)
	req := httptest.NewRequest(http.MethodPut, "/api/config/workforce", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("update: %d %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/config/workforce", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("get: %d %s", w.Code, w.Body.String())
	}
	var got model.ConversionConfig
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Companies) != 1 || got.Companies[0].Key != "ptpn1" {
		t.Fatalf("config: %+v", got)
	}
}

func TestUpdateConfig_RejectsInvalid(t *testing.T) {
	t.Parallel()

	r, _, _ := newTestRouter(t)

	cfg := model.ConversionConfig{
		Module:  model.ModuleWorkforce,
		Mapping: model.MappingSpec{Kind: "nonsense"},
	}
	body, _ := json.Marshal(cfg)
	req := httptest.NewRequest(http.MethodPut, "/api/config/workforce", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid config accepted: %d %s", w.Code, w.Body.String())
	}
}

func TestGetConfig_UnknownModule(t *testing.T) {
	t.Parallel()

	r, _, _ := newTestRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/config/payroll", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("unknown module: %d", w.Code)
	}
}

func TestHistoryEndpoints(t *testing.T) {
	t.Parallel()

	r, st, _ := newTestRouter(t)

	id, err := st.CreateConversion("workforce", "demografi.xlsx", "2025-02")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := st.BatchInsertRows(id, []model.DatasetRow{{
		CompanyKey: "ptpn1", CompanyCode: "P1", CompanyName: "PTPN I", Holding: "PTPN III",
		Period: "2025-02", Dimension: model.DimensionGender, Category: "LAKI-LAKI",
		Value: 5, Origin: model.OriginObserved,
	}}); err != nil {
		t.Fatalf("insert rows: %v", err)
	}
	if err := st.CompleteConversion(id, &model.ConversionRecord{Status: "success", TotalRows: 1, RowsPersisted: true}); err != nil {
		t.Fatalf("complete: %v", err)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/history", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("list: %d %s", w.Code, w.Body.String())
	}
	var list struct {
		History []model.ConversionRecord `json:"history"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list.History) != 1 || list.History[0].ID != id {
		t.Fatalf("history: %+v", list.History)
	}

	idStr := strconv.FormatInt(id, 10)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/history/"+idStr+"/rows", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("rows: %d %s", w.Code, w.Body.String())
	}
	var rows struct {
		Total int `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &rows); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rows.Total != 1 {
		t.Fatalf("rows: %+v", rows)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/history/"+idStr, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("delete: %d", w.Code)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/history/"+idStr, nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("deleted record still served: %d", w.Code)
	}
}

func TestExportAndDownload(t *testing.T) {
	t.Parallel()

	r, st, _ := newTestRouter(t)

	id, err := st.CreateConversion("workforce", "demografi.xlsx", "2025-02")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := st.BatchInsertRows(id, []model.DatasetRow{{
		CompanyKey: "ptpn1", CompanyCode: "P1", CompanyName: "PTPN I", Holding: "PTPN III",
		Period: "2025-02", Dimension: model.DimensionGender, Category: "LAKI-LAKI",
		Value: 5, Origin: model.OriginObserved,
	}}); err != nil {
		t.Fatalf("insert rows: %v", err)
	}
	if err := st.CompleteConversion(id, &model.ConversionRecord{Status: "success", TotalRows: 1, RowsPersisted: true}); err != nil {
		t.Fatalf("complete: %v", err)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/export/"+strconv.FormatInt(id, 10), nil))
	if w.Code != http.StatusOK {
		t.Fatalf("export: %d %s", w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
		URL   string `json:"url"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, resp.URL, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("download: %d", w.Code)
	}
	if w.Body.Len() == 0 {
		t.Fatalf("empty download body")
	}

	// Tokens are single-use.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, resp.URL, nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("token reuse: %d", w.Code)
	}
}
