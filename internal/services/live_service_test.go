package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"mining-engine/backend-go/internal/config"
)

func testConfig(baseURL string, window int) config.Config {
	return config.Config{
		MempoolBaseURL:  baseURL,
		LiveCacheTTL:    60 * time.Second,
		FeeWindowBlocks: window,
		FetchTimeout:    2 * time.Second,
	}
}

func newTestService(baseURL string, store SnapshotStore, window int) *LiveService {
	cfg := testConfig(baseURL, window)
	return NewLiveService(cfg, store, NewMempoolClient(cfg), nil)
}

// healthyMempool serves all four endpoints with consistent data and counts
// requests.
func healthyMempool(requests *atomic.Int64) *httptest.Server {
	mux := http.NewServeMux()
	count := func(h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if requests != nil {
				requests.Add(1)
			}
			h(w, r)
		}
	}
	mux.HandleFunc("/api/v1/prices", count(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]float64{"USD": 95000.50, "EUR": 88000.25})
	}))
	mux.HandleFunc("/api/v1/fees/recommended", count(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]int64{
			"fastestFee": 20, "halfHourFee": 15, "hourFee": 10, "economyFee": 5, "minimumFee": 1,
		})
	}))
	mux.HandleFunc("/api/blocks/tip/height", count(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "825000")
	}))
	mux.HandleFunc("/api/v1/blocks", count(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"difficulty": 6e13, "extras": map[string]any{"totalFees": 25000000}},
			{"difficulty": 6e13, "extras": map[string]any{"totalFees": 30000000}},
			{"difficulty": 6e13, "extras": map[string]any{"totalFees": 28000000}},
		})
	}))
	return httptest.NewServer(mux)
}

func countNotes(notes []string, substr string) int {
	n := 0
	for _, note := range notes {
		if strings.Contains(note, substr) {
			n++
		}
	}
	return n
}

func TestGetLiveDataFullCycle(t *testing.T) {
	srv := healthyMempool(nil)
	defer srv.Close()

	svc := newTestService(srv.URL, NewMemoryStore(), 24)
	snap := svc.GetLiveData(context.Background())

	if snap.Source != "mempool.space" {
		t.Fatalf("unexpected source %q", snap.Source)
	}
	if snap.BtcPriceUsd == nil || *snap.BtcPriceUsd != 95000.50 {
		t.Fatalf("unexpected usd price %v", snap.BtcPriceUsd)
	}
	if snap.BtcPriceEur == nil || *snap.BtcPriceEur != 88000.25 {
		t.Fatalf("unexpected eur price %v", snap.BtcPriceEur)
	}
	if snap.BlockHeight == nil || *snap.BlockHeight != 825000 {
		t.Fatalf("unexpected height %v", snap.BlockHeight)
	}
	// 825000 / 210000 = 3 halvings, 50 / 2^3 = 6.25
	if snap.BlockSubsidyBtc == nil || *snap.BlockSubsidyBtc != 6.25 {
		t.Fatalf("unexpected subsidy %v", snap.BlockSubsidyBtc)
	}
	if snap.FeesRecommended.FastestFee == nil || *snap.FeesRecommended.FastestFee != 20 {
		t.Fatalf("unexpected fastest fee %v", snap.FeesRecommended.FastestFee)
	}
	if snap.Difficulty == nil || *snap.Difficulty != 6e13 {
		t.Fatalf("unexpected difficulty %v", snap.Difficulty)
	}
	wantHashrate := math.Round(6e13*math.Pow(2, 32)/600/1e18*100) / 100
	if snap.NetworkHashrateEhS == nil || *snap.NetworkHashrateEhS != wantHashrate {
		t.Fatalf("expected hashrate %v, got %v", wantHashrate, snap.NetworkHashrateEhS)
	}
	wantAvg := math.Round((0.25+0.30+0.28)/3*1e8) / 1e8
	if snap.AvgFeesBtcPerBlock == nil || *snap.AvgFeesBtcPerBlock != wantAvg {
		t.Fatalf("expected avg block fee %v, got %v", wantAvg, snap.AvgFeesBtcPerBlock)
	}
	if snap.FeeWindowBlocks == nil || *snap.FeeWindowBlocks != 3 {
		t.Fatalf("expected fee window 3, got %v", snap.FeeWindowBlocks)
	}
	if snap.HashpriceUsdPerThDay == nil || *snap.HashpriceUsdPerThDay <= 0 {
		t.Fatalf("expected positive usd hashprice, got %v", snap.HashpriceUsdPerThDay)
	}
	if snap.HashpriceEurPerThDay == nil || *snap.HashpriceEurPerThDay <= 0 {
		t.Fatalf("expected positive eur hashprice, got %v", snap.HashpriceEurPerThDay)
	}
	if countNotes(snap.Notes, "Block subsidy computed") != 1 {
		t.Fatalf("expected subsidy note, got %v", snap.Notes)
	}
	if countNotes(snap.Notes, "Hashprice includes avg tx fees (last 3 blocks)") != 1 {
		t.Fatalf("expected fee-inclusive hashprice note, got %v", snap.Notes)
	}
	if got := countNotes(snap.Notes, "Converted fees from satoshis to BTC"); got != 1 {
		t.Fatalf("expected exactly one sats conversion note, got %d: %v", got, snap.Notes)
	}
}

func TestGetLiveDataServesFreshCacheWithoutUpstreamCalls(t *testing.T) {
	var requests atomic.Int64
	srv := healthyMempool(&requests)
	defer srv.Close()

	svc := newTestService(srv.URL, NewMemoryStore(), 24)
	first := svc.GetLiveData(context.Background())
	after := requests.Load()

	second := svc.GetLiveData(context.Background())
	if requests.Load() != after {
		t.Fatalf("expected zero upstream calls on fresh cache, got %d extra", requests.Load()-after)
	}
	if second.UpdatedAt != first.UpdatedAt {
		t.Fatalf("expected identical snapshot, got %q vs %q", second.UpdatedAt, first.UpdatedAt)
	}
}

func TestGetLiveDataStaleCacheFallback(t *testing.T) {
	srv := healthyMempool(nil)
	store := NewMemoryStore()
	svc := newTestService(srv.URL, store, 24)
	primed := svc.GetLiveData(context.Background())
	srv.Close()

	// Same store, upstream gone, cache expired.
	dead := newTestService("http://127.0.0.1:1", store, 24)
	dead.now = func() time.Time { return time.Now().Add(2 * time.Minute) }

	snap := dead.GetLiveData(context.Background())
	if snap.BtcPriceUsd == nil || *snap.BtcPriceUsd != *primed.BtcPriceUsd {
		t.Fatalf("expected cached usd price, got %v", snap.BtcPriceUsd)
	}
	if snap.BlockHeight == nil || *snap.BlockHeight != *primed.BlockHeight {
		t.Fatalf("expected cached height, got %v", snap.BlockHeight)
	}
	if len(snap.Notes) != 1 {
		t.Fatalf("expected exactly one note, got %v", snap.Notes)
	}
	if !strings.Contains(snap.Notes[0], primed.UpdatedAt) || !strings.Contains(snap.Notes[0], "mempool temporarily unavailable") {
		t.Fatalf("unexpected fallback note %q", snap.Notes[0])
	}

	// The cache slot itself must be untouched.
	stored, _, ok := store.Get(context.Background())
	if !ok {
		t.Fatal("expected cache slot to survive the fallback")
	}
	if len(stored.Notes) == 1 && strings.Contains(stored.Notes[0], "temporarily unavailable") {
		t.Fatal("fallback note leaked into the cache slot")
	}
}

func TestGetLiveDataNoCacheTotalFailure(t *testing.T) {
	svc := newTestService("http://127.0.0.1:1", NewMemoryStore(), 24)
	snap := svc.GetLiveData(context.Background())

	if snap.BtcPriceUsd != nil || snap.BtcPriceEur != nil || snap.BlockHeight != nil ||
		snap.BlockSubsidyBtc != nil || snap.Difficulty != nil || snap.NetworkHashrateEhS != nil ||
		snap.AvgFeesBtcPerBlock != nil || snap.HashpriceUsdPerThDay != nil {
		t.Fatalf("expected all fields absent, got %+v", snap)
	}
	if countNotes(snap.Notes, "No cached data available") != 1 {
		t.Fatalf("expected no-cache note, got %v", snap.Notes)
	}
	if countNotes(snap.Notes, "Failed to fetch prices") != 1 ||
		countNotes(snap.Notes, "Failed to fetch fees") != 1 ||
		countNotes(snap.Notes, "Failed to fetch tip height") != 1 ||
		countNotes(snap.Notes, "Failed to fetch recent blocks") != 1 {
		t.Fatalf("expected one note per failed source, got %v", snap.Notes)
	}
}

func TestGetLiveDataClearCache(t *testing.T) {
	srv := healthyMempool(nil)
	defer srv.Close()

	store := NewMemoryStore()
	svc := newTestService(srv.URL, store, 24)
	svc.GetLiveData(context.Background())
	if err := svc.ClearCache(context.Background()); err != nil {
		t.Fatalf("clear cache: %v", err)
	}
	if _, _, ok := store.Get(context.Background()); ok {
		t.Fatal("expected empty store after clear")
	}
}

func TestBlockSubsidyBtc(t *testing.T) {
	if got := blockSubsidyBtc(nil); got != nil {
		t.Fatalf("expected nil subsidy for missing height, got %v", *got)
	}
	h := int64(825000)
	got := blockSubsidyBtc(&h)
	if got == nil || *got != 6.25 {
		t.Fatalf("expected 6.25 at height 825000, got %v", got)
	}
	h = 8_400_000 // 40 halvings, past the precision floor
	got = blockSubsidyBtc(&h)
	if got == nil || *got != 0.0 {
		t.Fatalf("expected exactly 0.0 at height 8400000, got %v", got)
	}
}

func TestEstimateHashrateEhS(t *testing.T) {
	if got := estimateHashrateEhS(nil); got != nil {
		t.Fatalf("expected nil hashrate for missing difficulty, got %v", *got)
	}
	d := 6e13
	want := math.Round(6e13*math.Pow(2, 32)/600/1e18*100) / 100
	got := estimateHashrateEhS(&d)
	if got == nil || *got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestSampleRecentBlocksUnitHeuristic(t *testing.T) {
	blocks := []map[string]any{
		{"difficulty": 6e13, "extras": map[string]any{"totalFees": float64(25000000)}},
		{"difficulty": 6e13, "totalFees": float64(31000000)},
		{"difficulty": 6e13, "fee": 0.21}, // already BTC, below threshold
		{"difficulty": 6e13},              // no fee field, skipped
	}
	difficulty, avg, window, notes := sampleRecentBlocks(blocks, 24)
	if difficulty == nil || *difficulty != 6e13 {
		t.Fatalf("expected difficulty from first block, got %v", difficulty)
	}
	if window == nil || *window != 3 {
		t.Fatalf("expected 3 usable samples, got %v", window)
	}
	want := math.Round((0.25+0.31+0.21)/3*1e8) / 1e8
	if avg == nil || *avg != want {
		t.Fatalf("expected avg %v, got %v", want, avg)
	}
	if got := countNotes(notes, "Converted fees from satoshis to BTC"); got != 1 {
		t.Fatalf("expected exactly one conversion note, got %d: %v", got, notes)
	}
}

func TestSampleRecentBlocksFlatFeeField(t *testing.T) {
	blocks := []map[string]any{
		{"difficulty": 75502165623893.72, "fee": float64(25000000)},
		{"difficulty": 75502165623893.72, "fee": float64(30000000)},
		{"difficulty": 75502165623893.72, "fee": float64(28000000)},
	}
	_, avg, window, notes := sampleRecentBlocks(blocks, 24)
	if window == nil || *window != 3 {
		t.Fatalf("expected 3 usable samples from flat fee field, got %v", window)
	}
	want := math.Round((0.25+0.30+0.28)/3*1e8) / 1e8
	if avg == nil || *avg != want {
		t.Fatalf("expected avg %v, got %v", want, avg)
	}
	if got := countNotes(notes, "Converted fees from satoshis to BTC"); got != 1 {
		t.Fatalf("expected exactly one conversion note, got %d: %v", got, notes)
	}
}

func TestSampleRecentBlocksNegativeWindow(t *testing.T) {
	blocks := []map[string]any{
		{"difficulty": 6e13, "fee": 0.2},
	}
	difficulty, avg, window, _ := sampleRecentBlocks(blocks, -1)
	if difficulty == nil {
		t.Fatal("expected difficulty present")
	}
	if avg != nil || window != nil {
		t.Fatalf("expected no fee samples with negative window, got avg=%v window=%v", avg, window)
	}
}

func TestSampleRecentBlocksNoUsableFees(t *testing.T) {
	blocks := []map[string]any{
		{"difficulty": 6e13},
		{"height": float64(1)},
	}
	difficulty, avg, window, notes := sampleRecentBlocks(blocks, 24)
	if difficulty == nil {
		t.Fatal("expected difficulty present")
	}
	if avg != nil || window != nil {
		t.Fatalf("expected absent fee average, got avg=%v window=%v", avg, window)
	}
	if len(notes) != 0 {
		t.Fatalf("expected no notes, got %v", notes)
	}
}

func TestSampleRecentBlocksMissingDifficulty(t *testing.T) {
	difficulty, _, _, notes := sampleRecentBlocks([]map[string]any{{"height": float64(1)}}, 24)
	if difficulty != nil {
		t.Fatalf("expected nil difficulty, got %v", *difficulty)
	}
	if countNotes(notes, "Difficulty field not found") != 1 {
		t.Fatalf("expected difficulty note, got %v", notes)
	}
}

func TestSampleRecentBlocksRespectsWindow(t *testing.T) {
	blocks := make([]map[string]any, 10)
	for i := range blocks {
		blocks[i] = map[string]any{"difficulty": 6e13, "fee": 0.2}
	}
	_, _, window, _ := sampleRecentBlocks(blocks, 4)
	if window == nil || *window != 4 {
		t.Fatalf("expected window capped at 4, got %v", window)
	}
}

func TestComputeHashpriceRequiresSubsidyAndDifficulty(t *testing.T) {
	price := 95000.0
	diff := 6e13
	sub := 6.25
	usd, eur, _ := computeHashprice(nil, &price, &price, &diff, nil, nil)
	if usd != nil || eur != nil {
		t.Fatal("expected nil hashprice without subsidy")
	}
	usd, eur, _ = computeHashprice(&sub, &price, &price, nil, nil, nil)
	if usd != nil || eur != nil {
		t.Fatal("expected nil hashprice without difficulty")
	}
}

func TestComputeHashpriceZeroSubsidy(t *testing.T) {
	price := 95000.0
	diff := 6e13
	zero := 0.0
	usd, _, notes := computeHashprice(&zero, &price, nil, &diff, nil, nil)
	if usd == nil || *usd != 0.0 {
		t.Fatalf("expected hashprice exactly 0.0 at zero subsidy, got %v", usd)
	}
	if countNotes(notes, "excludes tx fees") != 1 {
		t.Fatalf("expected fee-exclusive note, got %v", notes)
	}
}
