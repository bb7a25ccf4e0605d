package models

// Preset is a predefined calculation scenario.
type Preset struct {
	ID                   string  `json:"id"`
	Name                 string  `json:"name"`
	Description          string  `json:"description"`
	MinersCount          int     `json:"miners_count"`
	MinerID              string  `json:"miner_id"`
	ElectricityEurPerKwh float64 `json:"electricity_eur_per_kwh"`
	Uptime               float64 `json:"uptime"`
	BtcPriceEur          float64 `json:"btc_price_eur"`
	NetworkHashrateEh    float64 `json:"network_hashrate_eh"`
	PoolFee              float64 `json:"pool_fee"`
	CapexEur             float64 `json:"capex_eur"`
	OpexEurMonth         float64 `json:"opex_eur_month"`
	HorizonDays          int     `json:"horizon_days"`
}

var presetLibrary = []Preset{
	{
		ID:                   "home_miner",
		Name:                 "Home Miner",
		Description:          "Small-scale home mining setup with a few units",
		MinersCount:          5,
		MinerID:              "antminer_s21_200th_air",
		ElectricityEurPerKwh: 0.10,
		Uptime:               0.90,
		BtcPriceEur:          40000.0,
		NetworkHashrateEh:    500.0,
		PoolFee:              0.02,
		CapexEur:             25000.0,
		OpexEurMonth:         300.0,
		HorizonDays:          365,
	},
	{
		ID:                   "hydro_1mw",
		Name:                 "1 MW Hydro Facility",
		Description:          "Medium-scale facility with renewable hydro power",
		MinersCount:          280,
		MinerID:              "antminer_s21_pro_234th_air",
		ElectricityEurPerKwh: 0.04,
		Uptime:               0.97,
		BtcPriceEur:          40000.0,
		NetworkHashrateEh:    500.0,
		PoolFee:              0.015,
		CapexEur:             1500000.0,
		OpexEurMonth:         15000.0,
		HorizonDays:          730,
	},
}

func PresetLibrary() []Preset {
	out := make([]Preset, len(presetLibrary))
	copy(out, presetLibrary)
	return out
}

func PresetByID(id string) (Preset, bool) {
	for _, p := range presetLibrary {
		if p.ID == id {
			return p, true
		}
	}
	return Preset{}, false
}
