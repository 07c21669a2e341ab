package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

// setupPreviewTest creates a Gin engine with the DB-free preview and
// rehydration endpoints registered. No database and no auth — these handlers
// compute everything from the request.
func setupPreviewTest() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := &Handler{}
	router := gin.New()
	router.POST("/api/targets/preview", h.previewDayTargets)
	router.POST("/api/cut-score/preview", h.previewCutScore)
	router.GET("/api/rehydration", h.getRehydration)
	return router
}

// doJSONRequest sends a request with a JSON body and returns the recorder.
func doJSONRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestTargetsPreview_FourDaysOut(t *testing.T) {
	router := setupPreviewTest()

	w := doJSONRequest(router, "POST", "/api/targets/preview",
		`{"current_weight_lbs":140,"weight_class_lbs":133,"protocol":"weekly","days_until_weigh_in":4}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp dayTargets
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}

	if resp.WaterOz != 210 {
		t.Errorf("water_oz = %d, want 210", resp.WaterOz)
	}
	if resp.WeightTarget.Base != 141 {
		t.Errorf("weight_target.base = %d, want 141", resp.WeightTarget.Base)
	}
	if !resp.WeightTarget.HasWaterLoad || resp.WeightTarget.LoadRangeMin != 143 || resp.WeightTarget.LoadRangeMax != 145 {
		t.Errorf("load range = [%d,%d], want [143,145]", resp.WeightTarget.LoadRangeMin, resp.WeightTarget.LoadRangeMax)
	}
	if resp.Macros.Carbs != (GramRange{325, 450}) {
		t.Errorf("carbs = %+v, want {325 450}", resp.Macros.Carbs)
	}
	if resp.Macros.Protein != (GramRange{0, 0}) {
		t.Errorf("protein = %+v, want {0 0}", resp.Macros.Protein)
	}
	if !resp.FoodPhase.FructoseOnly {
		t.Errorf("food_phase = %+v, want fructose_only", resp.FoodPhase)
	}
	if resp.Sodium.Label != "salt loading" {
		t.Errorf("sodium label = %q, want %q", resp.Sodium.Label, "salt loading")
	}
	// Zero protein day: zero protein slices, and no veg without protein.
	if resp.Slices != (SliceEquivalents{0, 15, 0}) {
		t.Errorf("slices = %+v, want {0 15 0}", resp.Slices)
	}
}

func TestTargetsPreview_BehindScheduleWarning(t *testing.T) {
	router := setupPreviewTest()

	// 140 lb one day out from a 133 weigh-in: 3 lb over the 137 day target.
	w := doJSONRequest(router, "POST", "/api/targets/preview",
		`{"current_weight_lbs":140,"weight_class_lbs":133,"protocol":"weekly","days_until_weigh_in":1}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp dayTargets
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Macros.Warning != "moderate reduction" {
		t.Errorf("warning = %q, want %q", resp.Macros.Warning, "moderate reduction")
	}
	if resp.Macros.Carbs != (GramRange{45, 100}) {
		t.Errorf("carbs = %+v, want {45 100}", resp.Macros.Carbs)
	}
}

func TestTargetsPreview_SparSlices(t *testing.T) {
	router := setupPreviewTest()

	w := doJSONRequest(router, "POST", "/api/targets/preview",
		`{"current_weight_lbs":165,"weight_class_lbs":165,"protocol":"spar","days_until_weigh_in":30,
		  "sex":"male","age":20,"height_cm":175,"activity_level":"sedentary","weekly_goal":"maintain"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp dayTargets
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Spar == nil {
		t.Fatal("spar targets missing for a spar-protocol preview")
	}
	if resp.Spar.ProteinSlices != 7 || resp.Spar.CarbSlices != 7 || resp.Spar.VegSlices != 10 {
		t.Errorf("spar slices = %d/%d/%d, want 7/7/10", resp.Spar.ProteinSlices, resp.Spar.CarbSlices, resp.Spar.VegSlices)
	}
	// Spar never water-loads and never sees restrictive phases.
	if resp.WeightTarget.HasWaterLoad || resp.FoodPhase.FructoseOnly || resp.FoodPhase.GlucoseOnly {
		t.Errorf("spar preview carries cutting artifacts: %+v %+v", resp.WeightTarget, resp.FoodPhase)
	}
}

func TestTargetsPreview_BadInput(t *testing.T) {
	router := setupPreviewTest()

	cases := []struct {
		name string
		body string
	}{
		{"unknown protocol", `{"current_weight_lbs":140,"weight_class_lbs":133,"protocol":"crash","days_until_weigh_in":4}`},
		{"missing weight", `{"weight_class_lbs":133,"protocol":"weekly","days_until_weigh_in":4}`},
		{"malformed json", `{"current_weight_lbs":`},
	}
	for _, tc := range cases {
		if w := doJSONRequest(router, "POST", "/api/targets/preview", tc.body); w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d: %s", tc.name, w.Code, w.Body.String())
		}
	}
}

func TestCutScorePreview_WeightOnly(t *testing.T) {
	router := setupPreviewTest()

	w := doJSONRequest(router, "POST", "/api/cut-score/preview",
		`{"weight":{"current_weight":140,"target_weight":133,"days_until_weigh_in":3}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp CutScoreResult
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Score != 30 || resp.Label != "Behind" {
		t.Errorf("score = %d %q, want 30 \"Behind\"", resp.Score, resp.Label)
	}
	if resp.Weight.Weight != 1.0 || resp.Recovery.HasData || resp.Protocol.HasData {
		t.Errorf("pillar details = %+v / %+v / %+v, want weight-only", resp.Weight, resp.Recovery, resp.Protocol)
	}
}

func TestCutScorePreview_FullInput(t *testing.T) {
	router := setupPreviewTest()

	w := doJSONRequest(router, "POST", "/api/cut-score/preview", `{
		"weight":{"projected_weight":132.5,"target_weight":133,"days_until_weigh_in":2},
		"recovery":{"basic":{"sleep_hours":[8,8,8]}},
		"protocol":{"basic":{"food_compliance":1.0,"water_compliance":1.0}},
		"as_of_hour":18
	}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp CutScoreResult
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	// 100×0.60 + 75×0.25 + 90×0.15 = 92.25 → 92.
	if resp.Score != 92 || resp.Label != "Dialed In" || resp.Zone != zoneGreen {
		t.Errorf("score = %d %q %s, want 92 \"Dialed In\" green", resp.Score, resp.Label, resp.Zone)
	}
}

func TestRehydration_Endpoint(t *testing.T) {
	router := setupPreviewTest()

	w := doJSONRequest(router, "GET", "/api/rehydration?lost_lbs=3.5", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp RehydrationPlan
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp != (RehydrationPlan{FluidMinOz: 56, FluidMaxOz: 84, SodiumMinMg: 1750, SodiumMaxMg: 2450}) {
		t.Errorf("plan = %+v, want 56-84 oz / 1750-2450 mg", resp)
	}

	// Made weight without a cut: all zeros.
	w = doJSONRequest(router, "GET", "/api/rehydration?lost_lbs=-1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp != (RehydrationPlan{}) {
		t.Errorf("negative loss: plan = %+v, want zeros", resp)
	}
}

func TestRehydration_BadInput(t *testing.T) {
	router := setupPreviewTest()

	if w := doJSONRequest(router, "GET", "/api/rehydration", ""); w.Code != http.StatusBadRequest {
		t.Errorf("missing param: expected 400, got %d", w.Code)
	}
	if w := doJSONRequest(router, "GET", "/api/rehydration?lost_lbs=abc", ""); w.Code != http.StatusBadRequest {
		t.Errorf("non-numeric param: expected 400, got %d", w.Code)
	}
}
