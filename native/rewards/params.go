package rewards

const (
	// BpsDenominator defines the scaling factor used for basis point math
	// when computing swap point entitlements.
	BpsDenominator = 10_000
	// PointsRateBps configures the flat accrual rate expressed in basis
	// points (20% of the native spend).
	PointsRateBps = 2_000
	// SecondsPerDay is the fixed length of the daily rate-limit window.
	SecondsPerDay = 86_400
)
