package effort

import (
	"math"

	"github.com/stridelab/stridelab/pkg/geo"
)

// MatchBundle finds the bundle whose fingerprint the candidate route
// matches, or nil. A bundle matches only when all four gates pass: start
// point, end point, relative distance and centroid. The first bundle to
// satisfy all gates wins; there is no best-match scoring.
func MatchBundle(coords []geo.Coordinate, distanceMeters float64, bundles []*Bundle) *Bundle {
	if len(coords) < 2 {
		return nil
	}

	start := coords[0]
	end := coords[len(coords)-1]
	centroid := geo.Centroid(coords)

	for _, b := range bundles {
		fp := b.Fingerprint

		if geo.Haversine(start, fp.StartCoordinate()) > StartEndToleranceMeters {
			continue
		}
		if geo.Haversine(end, fp.EndCoordinate()) > StartEndToleranceMeters {
			continue
		}
		if fp.ReferenceDistanceMeters <= 0 {
			continue
		}
		if math.Abs(distanceMeters-fp.ReferenceDistanceMeters)/fp.ReferenceDistanceMeters > DistanceTolerance {
			continue
		}
		if geo.Haversine(centroid, fp.CentroidCoordinate()) > CentroidToleranceMeters {
			continue
		}

		return b
	}

	return nil
}

// AssignTier maps an effort's pace rank and the bundle size to an
// achievement tier. Gold and silver require at least two recorded
// efforts, bronze at least three.
func AssignTier(rank, total int) Tier {
	switch {
	case rank == 1 && total >= 2:
		return TierGold
	case rank == 2 && total >= 2:
		return TierSilver
	case rank == 3 && total >= 3:
		return TierBronze
	default:
		return TierNone
	}
}

// paceRank returns the 1-based rank of the given activity's pace among
// all efforts with a valid pace, ascending (rank 1 is fastest), and the
// count of efforts with valid pace. Rank 0 means the activity has no
// valid pace.
func paceRank(efforts []EffortRecord, activityID int64) (rank, valid int) {
	var target *EffortRecord
	for i := range efforts {
		if efforts[i].PaceMinPerUnit <= 0 {
			continue
		}
		valid++
		if efforts[i].ActivityID == activityID {
			target = &efforts[i]
		}
	}
	if target == nil {
		return 0, valid
	}

	rank = 1
	for i := range efforts {
		if efforts[i].PaceMinPerUnit <= 0 || efforts[i].ActivityID == activityID {
			continue
		}
		if efforts[i].PaceMinPerUnit < target.PaceMinPerUnit {
			rank++
		}
	}
	return rank, valid
}
