package rfm

// Record is one customer's recency/frequency/monetary profile with quintile
// scores. Scores are always in [1,5] and RFMScore in [111,555].
type Record struct {
	CustomerID string  `json:"customer_id"`
	Recency    int     `json:"recency"`
	Frequency  int     `json:"frequency"`
	Monetary   float64 `json:"monetary"`
	RScore     int     `json:"r_score"`
	FScore     int     `json:"f_score"`
	MScore     int     `json:"m_score"`
	RFMScore   int     `json:"rfm_score"`
}
