package usage

// UsageResponse reports today's consumption of the metered chat
// feature. Limit is -1 for unlimited tiers.
type UsageResponse struct {
	Used  int    `json:"used"`
	Limit int    `json:"limit"`
	Tier  string `json:"tier"`
}
