package effort

// Matching tolerances. A candidate must pass every gate; any single
// failure disqualifies the bundle.
const (
	// StartEndToleranceMeters is the radius around the fingerprint's
	// start and end points a candidate must begin and finish within.
	StartEndToleranceMeters = 50.0

	// CentroidToleranceMeters is the looser radius around the
	// fingerprint's centroid.
	CentroidToleranceMeters = 500.0

	// DistanceTolerance is the allowed relative deviation from the
	// fingerprint's reference distance.
	DistanceTolerance = 0.20
)

// DefaultMinDistanceMeters is the short-activity floor below which an
// activity is not fingerprinted at all.
const DefaultMinDistanceMeters = 500.0

// Insight tuning. These are empirically chosen bands, exposed as
// constants rather than buried in the generators.
const (
	// paceNotabilityPct is the pace delta (percent) below which two
	// efforts count as the same pace.
	paceNotabilityPct = 0.2

	// hrNotabilityBPM is the heart-rate delta below which a change is
	// reported as steady rather than up or down.
	hrNotabilityBPM = 2.0

	// hrMeaningfulDropBPM is the drop that signals lower cardiac cost
	// in the overall synthesis.
	hrMeaningfulDropBPM = 3.0

	// cadenceNotabilitySPM is the steps-per-minute increase worth
	// calling out.
	cadenceNotabilitySPM = 2.0

	// minEffortsForHRAverage is how many prior efforts with heart-rate
	// data are needed before comparing against the route average.
	minEffortsForHRAverage = 4
)
