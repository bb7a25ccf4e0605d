package engine

import (
	"math"

	"mining-engine/backend-go/internal/models"
)

const (
	blockRewardBtc = 3.125
	blocksPerDay   = 144
)

// DailyEnergyKwh returns the fleet's daily energy consumption in kWh.
func DailyEnergyKwh(minersCount int, minerPowerW int, uptime float64) float64 {
	return float64(minersCount) * float64(minerPowerW) * 24 / 1000 * uptime
}

func DailyEnergyCostEur(dailyEnergyKwh, electricityEurPerKwh float64) float64 {
	return dailyEnergyKwh * electricityEurPerKwh
}

// DailyBtcMined estimates BTC mined per day as the fleet's share of network
// hashrate applied to the daily subsidy emission, after pool fees and uptime.
func DailyBtcMined(minersCount int, minerHashrateTh, networkHashrateEh, poolFee, uptime float64) float64 {
	btcPerDay := float64(blocksPerDay) * blockRewardBtc
	fleetHashrateHs := float64(minersCount) * minerHashrateTh * 1e12
	networkHashrateHs := networkHashrateEh * 1e18
	share := fleetHashrateHs / networkHashrateHs
	return btcPerDay * share * (1 - poolFee) * uptime
}

func DailyRevenueEur(dailyBtcMined, btcPriceEur float64) float64 {
	return dailyBtcMined * btcPriceEur
}

func DailyProfitEur(dailyRevenueEur, dailyEnergyCostEur, opexEurMonth float64) float64 {
	return dailyRevenueEur - dailyEnergyCostEur - opexEurMonth/30
}

// BreakevenDays returns the days to recover capex, or nil when the operation
// never breaks even.
func BreakevenDays(capexEur, dailyProfitEur float64) *int {
	if dailyProfitEur <= 0 {
		return nil
	}
	days := int(math.Ceil(capexEur / dailyProfitEur))
	return &days
}

// Calculate runs the full economics model for a validated request. When the
// request names a miner from the catalog, the catalog's power and hashrate
// override the request's explicit fields.
func Calculate(req models.CalculationRequest) models.CalculationResponse {
	effectivePowerW := req.MinerPowerW
	effectiveHashrateTh := req.MinerHashrateTh
	if req.MinerID != "" {
		if m, ok := models.MinerByID(req.MinerID); ok {
			effectivePowerW = m.PowerW
			effectiveHashrateTh = m.HashrateTh
		}
	}

	dailyEnergyKwh := DailyEnergyKwh(req.MinersCount, effectivePowerW, req.Uptime)
	dailyEnergyCostEur := DailyEnergyCostEur(dailyEnergyKwh, req.ElectricityEurPerKwh)
	dailyBtcMined := DailyBtcMined(req.MinersCount, effectiveHashrateTh, req.NetworkHashrateEh, req.PoolFee, req.Uptime)
	dailyRevenueEur := DailyRevenueEur(dailyBtcMined, req.BtcPriceEur)
	dailyProfitEur := DailyProfitEur(dailyRevenueEur, dailyEnergyCostEur, req.OpexEurMonth)
	breakevenDays := BreakevenDays(req.CapexEur, dailyProfitEur)

	version := req.AssumptionsVersion
	if version == "" {
		version = models.AssumptionsVersion
	}

	return models.CalculationResponse{
		AssumptionsVersion: version,
		DailyEnergyKwh:     dailyEnergyKwh,
		DailyEnergyCostEur: dailyEnergyCostEur,
		DailyBtcMined:      dailyBtcMined,
		DailyRevenueEur:    dailyRevenueEur,
		DailyProfitEur:     dailyProfitEur,
		BreakevenDays:      breakevenDays,
		Notes: []string{
			"Transaction fees not included in mining revenue",
			"Constant block subsidy (3.125 BTC) - halving events not modeled",
			"Network hashrate assumed constant at input value",
			"Difficulty adjustments approximated through hashrate",
			"First-order approximation suitable for initial analysis",
		},
		InputsEcho: map[string]any{
			"miners_count":            req.MinersCount,
			"miner_power_w":           effectivePowerW,
			"miner_hashrate_th":       effectiveHashrateTh,
			"electricity_eur_per_kwh": req.ElectricityEurPerKwh,
			"uptime":                  req.Uptime,
			"btc_price_eur":           req.BtcPriceEur,
			"network_hashrate_eh":     req.NetworkHashrateEh,
			"pool_fee":                req.PoolFee,
			"capex_eur":               req.CapexEur,
			"opex_eur_month":          req.OpexEurMonth,
			"horizon_days":            req.HorizonDays,
		},
	}
}
