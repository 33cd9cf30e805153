package domain

// RankingTask is one unit of fire-and-forget ranking maintenance: recompute
// a single courier's ranking score, optionally scoped to a postal code.
// Context is a free-text label carried only for logs and audit.
type RankingTask struct {
	CourierID  string
	PostalCode *string
	Context    string
}

// RankingScore is a postal-code-scoped ranking value for a courier, upserted
// on each recompute.
type RankingScore struct {
	CourierID  string  `bson:"courier_id"`
	PostalCode string  `bson:"postal_code"`
	Score      float64 `bson:"score"`
	Reviews    int     `bson:"reviews"`
}
