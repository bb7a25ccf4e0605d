package models

// RecommendedFees holds the mempool fee tiers in sat/vB. Each tier is
// independently nullable; a missing tier is normal, not an error.
type RecommendedFees struct {
	FastestFee  *int64 `json:"fastest_fee"`
	HalfHourFee *int64 `json:"half_hour_fee"`
	HourFee     *int64 `json:"hour_fee"`
	EconomyFee  *int64 `json:"economy_fee"`
	MinimumFee  *int64 `json:"minimum_fee"`
}

// LiveSnapshot is the artifact of one live-data fetch cycle. Every derived
// field is nil unless all of its direct inputs were obtained; nothing is
// silently zeroed except the block subsidy past 34 halvings.
type LiveSnapshot struct {
	Source               string          `json:"source"`
	UpdatedAt            string          `json:"updated_at"`
	BtcPriceUsd          *float64        `json:"btc_price_usd"`
	BtcPriceEur          *float64        `json:"btc_price_eur"`
	BlockHeight          *int64          `json:"block_height"`
	BlockSubsidyBtc      *float64        `json:"block_subsidy_btc"`
	FeesRecommended      RecommendedFees `json:"fees_recommended"`
	Difficulty           *float64        `json:"difficulty"`
	NetworkHashrateEhS   *float64        `json:"network_hashrate_eh_s"`
	AvgFeesBtcPerBlock   *float64        `json:"avg_fees_btc_per_block"`
	FeeWindowBlocks      *int            `json:"fee_window_blocks"`
	HashpriceUsdPerThDay *float64        `json:"hashprice_usd_per_th_day"`
	HashpriceEurPerThDay *float64        `json:"hashprice_eur_per_th_day"`
	Notes                []string        `json:"notes"`
}

type CalculationRequest struct {
	AssumptionsVersion   string  `json:"assumptions_version,omitempty"`
	MinersCount          int     `json:"miners_count"`
	MinerID              string  `json:"miner_id,omitempty"`
	MinerPowerW          int     `json:"miner_power_w"`
	MinerHashrateTh      float64 `json:"miner_hashrate_th"`
	ElectricityEurPerKwh float64 `json:"electricity_eur_per_kwh"`
	Uptime               float64 `json:"uptime"`
	BtcPriceEur          float64 `json:"btc_price_eur"`
	NetworkHashrateEh    float64 `json:"network_hashrate_eh"`
	PoolFee              float64 `json:"pool_fee"`
	CapexEur             float64 `json:"capex_eur"`
	OpexEurMonth         float64 `json:"opex_eur_month"`
	HorizonDays          int     `json:"horizon_days"`
}

// ApplyDefaults fills the optional fields a client may omit.
func (r *CalculationRequest) ApplyDefaults() {
	if r.AssumptionsVersion == "" {
		r.AssumptionsVersion = AssumptionsVersion
	}
	if r.HorizonDays == 0 {
		r.HorizonDays = 365
	}
}

// Validate checks all field constraints at once and returns a field->message
// map, empty when the request is valid.
func (r CalculationRequest) Validate() map[string]string {
	errs := map[string]string{}
	if r.MinersCount <= 0 {
		errs["miners_count"] = "must be greater than 0"
	}
	if r.MinerPowerW <= 0 {
		errs["miner_power_w"] = "must be greater than 0"
	}
	if r.MinerHashrateTh <= 0 {
		errs["miner_hashrate_th"] = "must be greater than 0"
	}
	if r.ElectricityEurPerKwh <= 0 {
		errs["electricity_eur_per_kwh"] = "must be greater than 0"
	}
	if r.Uptime < 0 || r.Uptime > 1 {
		errs["uptime"] = "must be between 0 and 1"
	}
	if r.BtcPriceEur <= 0 {
		errs["btc_price_eur"] = "must be greater than 0"
	}
	if r.NetworkHashrateEh <= 0 {
		errs["network_hashrate_eh"] = "must be greater than 0"
	}
	if r.PoolFee < 0 || r.PoolFee > 1 {
		errs["pool_fee"] = "must be between 0 and 1"
	}
	if r.CapexEur < 0 {
		errs["capex_eur"] = "must be greater than or equal to 0"
	}
	if r.OpexEurMonth < 0 {
		errs["opex_eur_month"] = "must be greater than or equal to 0"
	}
	if r.HorizonDays <= 0 {
		errs["horizon_days"] = "must be greater than 0"
	}
	return errs
}

type CalculationResponse struct {
	AssumptionsVersion string         `json:"assumptions_version"`
	DailyEnergyKwh     float64        `json:"daily_energy_kwh"`
	DailyEnergyCostEur float64        `json:"daily_energy_cost_eur"`
	DailyBtcMined      float64        `json:"daily_btc_mined"`
	DailyRevenueEur    float64        `json:"daily_revenue_eur"`
	DailyProfitEur     float64        `json:"daily_profit_eur"`
	BreakevenDays      *int           `json:"breakeven_days"`
	Notes              []string       `json:"notes"`
	InputsEcho         map[string]any `json:"inputs_echo"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}
