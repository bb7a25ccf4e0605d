package models

// AssumptionsVersion identifies the current calculation methodology.
const AssumptionsVersion = "2026.01.0"

// Assumptions lists the default constants and known simplifications of the
// economics model.
type Assumptions struct {
	AssumptionsVersion string   `json:"assumptions_version"`
	BlockRewardBtc     float64  `json:"block_reward_btc"`
	BlocksPerDay       int      `json:"blocks_per_day"`
	Simplifications    []string `json:"simplifications"`
}

func DefaultAssumptions() Assumptions {
	return Assumptions{
		AssumptionsVersion: AssumptionsVersion,
		BlockRewardBtc:     3.125,
		BlocksPerDay:       144,
		Simplifications: []string{
			"Transaction fees not included in revenue",
			"Constant block subsidy (halving events not modeled)",
			"Network hashrate provided as fixed input",
			"Difficulty adjustments approximated through hashrate",
			"First-order approximation for initial analysis",
		},
	}
}
