package domain

// Badge is the coarse reputation tier shown next to a courier. It is derived
// purely from the trust score and must never be stored separately from it.
type Badge string

const (
	BadgeExcellent Badge = "excellent"
	BadgeVeryGood  Badge = "very_good"
	BadgeGood      Badge = "good"
	BadgeAverage   Badge = "average"
)

// BadgeForTrustScore maps a trust score to its badge tier. Boundaries are
// inclusive on the lower bound of each tier.
func BadgeForTrustScore(trustScore float64) Badge {
	switch {
	case trustScore >= 4.5:
		return BadgeExcellent
	case trustScore >= 4.0:
		return BadgeVeryGood
	case trustScore >= 3.5:
		return BadgeGood
	default:
		return BadgeAverage
	}
}

// Courier is a shaped, coerced courier row ready for the public contract.
type Courier struct {
	CourierID        string
	CourierName      string
	TrustScore       float64
	TotalReviews     int
	AvgDeliveryTime  float64
	OnTimePercentage float64
	Badge            Badge
}

// MerchantCourierRow is a raw merchant_couriers document. The numeric fields
// arrive as decimal strings, mirroring how the upstream store serializes its
// numeric types; they are coerced by the courier service, and a coercion
// failure is an internal error rather than a silent zero.
type MerchantCourierRow struct {
	MerchantID       string `bson:"merchant_id"`
	CourierID        string `bson:"courier_id"`
	CourierName      string `bson:"courier_name"`
	TrustScore       string `bson:"trust_score"`
	TotalReviews     int    `bson:"total_reviews"`
	AvgDeliveryTime  string `bson:"avg_delivery_time"`
	OnTimePercentage string `bson:"on_time_percentage"`
	Rank             int    `bson:"rank"`
}
