package services

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"go.uber.org/zap"

	"mining-engine/backend-go/internal/config"
	"mining-engine/backend-go/internal/models"
)

const (
	liveSource        = "mempool.space"
	initialSubsidyBtc = 50.0
	halvingInterval   = 210_000
	// Past 34 halvings the subsidy is below satoshi precision.
	maxHalvings = 34
	// Fee totals above this are assumed to be sats rather than BTC.
	satsThreshold  = 1000.0
	blocksPerDay   = 144.0
	targetBlockSec = 600.0
)

// Candidate field names for a block's total fees, tried in order. The nested
// extras form is what mempool.space serves; the flat names cover compatible
// explorers.
var flatFeeFields = []string{"totalFees", "fee"}

// LiveService aggregates live network data from four independent upstream
// calls and keeps the latest snapshot in a single-slot store.
type LiveService struct {
	cfg    config.Config
	store  SnapshotStore
	client *MempoolClient
	log    *zap.Logger
	now    func() time.Time
}

func NewLiveService(cfg config.Config, store SnapshotStore, client *MempoolClient, log *zap.Logger) *LiveService {
	if log == nil {
		log = zap.NewNop()
	}
	return &LiveService{
		cfg:    cfg,
		store:  store,
		client: client,
		log:    log,
		now:    time.Now,
	}
}

// GetLiveData returns the cached snapshot while it is fresh, otherwise runs a
// refresh cycle. Every upstream failure is absorbed into a note and an absent
// field; the call always returns a snapshot. Concurrent refreshes on an
// expired cache are not serialized; the writes are idempotent and the last
// writer wins.
func (s *LiveService) GetLiveData(ctx context.Context) models.LiveSnapshot {
	now := s.now()
	cached, cachedAt, hasCached := s.store.Get(ctx)
	if hasCached && now.Sub(cachedAt) < s.cfg.LiveCacheTTL {
		liveCacheHits.Inc()
		return cached
	}

	liveRefreshTotal.Inc()
	notes := []string{}

	var priceUsd, priceEur *float64
	prices, err := s.client.Prices(ctx)
	if err != nil {
		liveUpstreamErrors.WithLabelValues("prices").Inc()
		notes = append(notes, "Failed to fetch prices: "+err.Error())
	} else {
		if v, ok := prices["USD"]; ok {
			priceUsd = ptr(v)
		} else {
			notes = append(notes, "USD price not available from mempool")
		}
		if v, ok := prices["EUR"]; ok {
			priceEur = ptr(v)
		} else {
			notes = append(notes, "EUR price not available from mempool")
		}
	}

	fees, err := s.client.RecommendedFees(ctx)
	if err != nil {
		liveUpstreamErrors.WithLabelValues("fees").Inc()
		fees = models.RecommendedFees{}
		notes = append(notes, "Failed to fetch fees: "+err.Error())
	}

	var height *int64
	if h, err := s.client.TipHeight(ctx); err != nil {
		liveUpstreamErrors.WithLabelValues("tip_height").Inc()
		notes = append(notes, "Failed to fetch tip height: "+err.Error())
	} else {
		height = ptr(h)
	}

	var difficulty, avgBlockFee *float64
	var feeWindow *int
	blocks, err := s.client.RecentBlocks(ctx)
	if err != nil {
		liveUpstreamErrors.WithLabelValues("blocks").Inc()
		notes = append(notes, "Failed to fetch recent blocks: "+err.Error())
	} else {
		var blockNotes []string
		difficulty, avgBlockFee, feeWindow, blockNotes = sampleRecentBlocks(blocks, s.cfg.FeeWindowBlocks)
		notes = append(notes, blockNotes...)
	}

	hasAnyData := priceUsd != nil || priceEur != nil || height != nil ||
		difficulty != nil || avgBlockFee != nil ||
		fees.FastestFee != nil || fees.HalfHourFee != nil || fees.HourFee != nil ||
		fees.EconomyFee != nil || fees.MinimumFee != nil

	if !hasAnyData {
		if hasCached {
			// Per-response override only; the cache slot itself is left as-is.
			liveStaleFallbacks.Inc()
			s.log.Warn("live refresh failed, serving cached snapshot",
				zap.String("cached_at", cached.UpdatedAt))
			out := cached
			out.Notes = []string{fmt.Sprintf("Using cached data from %s (mempool temporarily unavailable)", cached.UpdatedAt)}
			return out
		}
		notes = append(notes, "No cached data available; mempool.space is unreachable")
	}

	subsidy := blockSubsidyBtc(height)
	if subsidy != nil {
		notes = append(notes, "Block subsidy computed from current block height")
	}

	hashrateEhS := estimateHashrateEhS(difficulty)

	hashpriceUsd, hashpriceEur, hashpriceNotes := computeHashprice(subsidy, priceUsd, priceEur, difficulty, avgBlockFee, feeWindow)
	notes = append(notes, hashpriceNotes...)

	snap := models.LiveSnapshot{
		Source:               liveSource,
		UpdatedAt:            now.UTC().Format(time.RFC3339),
		BtcPriceUsd:          priceUsd,
		BtcPriceEur:          priceEur,
		BlockHeight:          height,
		BlockSubsidyBtc:      subsidy,
		FeesRecommended:      fees,
		Difficulty:           difficulty,
		NetworkHashrateEhS:   hashrateEhS,
		AvgFeesBtcPerBlock:   avgBlockFee,
		FeeWindowBlocks:      feeWindow,
		HashpriceUsdPerThDay: hashpriceUsd,
		HashpriceEurPerThDay: hashpriceEur,
		Notes:                notes,
	}

	if err := s.store.Set(ctx, snap, now); err != nil {
		s.log.Error("store live snapshot", zap.Error(err))
	}
	s.log.Info("live snapshot refreshed",
		zap.Bool("has_data", hasAnyData),
		zap.Int("notes", len(notes)))
	return snap
}

// ClearCache empties the snapshot slot. Test and ops hook.
func (s *LiveService) ClearCache(ctx context.Context) error {
	return s.store.Clear(ctx)
}

// sampleRecentBlocks reads difficulty from the first (most recent) block and
// averages per-block total fees over up to window blocks. Fee values above the
// sats threshold are normalized to BTC, with a single note per cycle no matter
// how many blocks needed converting. Blocks without a recognizable fee field
// are skipped and do not count toward the window.
func sampleRecentBlocks(blocks []map[string]any, window int) (difficulty *float64, avgFee *float64, feeWindow *int, notes []string) {
	if len(blocks) == 0 {
		notes = append(notes, "Difficulty field not found in recent blocks response")
		return nil, nil, nil, notes
	}

	if d, ok := toFloat(blocks[0]["difficulty"]); ok {
		difficulty = ptr(d)
	} else {
		notes = append(notes, "Difficulty field not found in recent blocks response")
	}

	if window < 0 {
		window = 0
	}
	if window > len(blocks) {
		window = len(blocks)
	}
	var sum float64
	var count int
	converted := false
	for _, b := range blocks[:window] {
		fee, ok := blockFeeValue(b)
		if !ok {
			continue
		}
		if fee > satsThreshold {
			fee /= 1e8
			if !converted {
				notes = append(notes, "Converted fees from satoshis to BTC")
				converted = true
			}
		}
		sum += fee
		count++
	}
	if count > 0 {
		avgFee = ptr(roundTo(sum/float64(count), 8))
		feeWindow = ptr(count)
	}
	return difficulty, avgFee, feeWindow, notes
}

// blockFeeValue tries the fee-field candidates in fixed order: nested
// extras.totalFees first, then the flat fallbacks.
func blockFeeValue(block map[string]any) (float64, bool) {
	if extras, ok := block["extras"].(map[string]any); ok {
		if v, ok := toFloat(extras["totalFees"]); ok {
			return v, true
		}
	}
	for _, field := range flatFeeFields {
		if v, ok := toFloat(block[field]); ok {
			return v, true
		}
	}
	return 0, false
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case string:
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// blockSubsidyBtc derives the current block subsidy from the chain height:
// 50 BTC halved every 210,000 blocks, pinned to exactly 0 from the 34th
// halving on.
func blockSubsidyBtc(height *int64) *float64 {
	if height == nil {
		return nil
	}
	halvings := *height / halvingInterval
	if halvings >= maxHalvings {
		return ptr(0.0)
	}
	subsidy := initialSubsidyBtc / math.Pow(2, float64(halvings))
	return ptr(roundTo(subsidy, 8))
}

// estimateHashrateEhS estimates network hashrate from difficulty using the
// standard approximation difficulty * 2^32 / 600.
func estimateHashrateEhS(difficulty *float64) *float64 {
	if difficulty == nil {
		return nil
	}
	hashrateHs := *difficulty * math.Pow(2, 32) / targetBlockSec
	return ptr(roundTo(hashrateHs/1e18, 2))
}

// computeHashprice estimates daily revenue per TH/s from network economics.
// Average block fees are folded in when a positive recent sample exists.
func computeHashprice(subsidy, priceUsd, priceEur, difficulty, avgBlockFee *float64, feeWindow *int) (usd *float64, eur *float64, notes []string) {
	if difficulty == nil || subsidy == nil {
		return nil, nil, nil
	}

	btcPerBlock := *subsidy
	if avgBlockFee != nil && *avgBlockFee > 0 {
		btcPerBlock += *avgBlockFee
		window := 0
		if feeWindow != nil {
			window = *feeWindow
		}
		notes = append(notes, fmt.Sprintf("Hashprice includes avg tx fees (last %d blocks)", window))
	} else if avgBlockFee != nil {
		notes = append(notes, "Hashprice excludes tx fees (non-positive fee average)")
	} else {
		notes = append(notes, "Hashprice excludes tx fees (no recent fee samples)")
	}

	networkThS := *difficulty * math.Pow(2, 32) / targetBlockSec / 1e12
	btcPerThDay := btcPerBlock * blocksPerDay / networkThS

	if priceUsd != nil {
		usd = ptr(roundTo(btcPerThDay**priceUsd, 4))
	}
	if priceEur != nil {
		eur = ptr(roundTo(btcPerThDay**priceEur, 4))
	}
	return usd, eur, notes
}

func roundTo(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(v*scale) / scale
}

func ptr[T any](v T) *T {
	return &v
}
