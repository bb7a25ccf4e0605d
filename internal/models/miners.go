package models

// Miner describes one catalog entry of mining hardware. EfficiencyJTh is
// derived from power and hashrate when the catalog is served.
type Miner struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	HashrateTh    float64 `json:"hashrate_th"`
	PowerW        int     `json:"power_w"`
	Cooling       string  `json:"cooling"`
	Notes         string  `json:"notes,omitempty"`
	EfficiencyJTh float64 `json:"efficiency_j_th"`
}

var minerLibrary = []Miner{
	{
		ID:         "antminer_s21_200th_air",
		Name:       "Antminer S21 (200 TH/s)",
		HashrateTh: 200.0,
		PowerW:     3500,
		Cooling:    "air",
		Notes:      "Standard air-cooled configuration",
	},
	{
		ID:         "antminer_s21_pro_234th_air",
		Name:       "Antminer S21 Pro (234 TH/s)",
		HashrateTh: 234.0,
		PowerW:     3510,
		Cooling:    "air",
		Notes:      "Pro model with enhanced performance",
	},
	{
		ID:         "whatsminer_m60_186th_air",
		Name:       "Whatsminer M60 (186 TH/s)",
		HashrateTh: 186.0,
		PowerW:     3400,
		Cooling:    "air",
		Notes:      "Efficient air-cooled option",
	},
}

// MinerLibrary returns the hardware catalog with the efficiency field filled.
func MinerLibrary() []Miner {
	out := make([]Miner, len(minerLibrary))
	for i, m := range minerLibrary {
		m.EfficiencyJTh = float64(m.PowerW) / m.HashrateTh
		out[i] = m
	}
	return out
}

func MinerByID(id string) (Miner, bool) {
	for _, m := range minerLibrary {
		if m.ID == id {
			m.EfficiencyJTh = float64(m.PowerW) / m.HashrateTh
			return m, true
		}
	}
	return Miner{}, false
}
