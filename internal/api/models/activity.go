package models

import (
	"github.com/stridelab/stridelab/internal/activity"
)

// ProcessActivitiesRequest is the batch ingest payload: a list of
// tracker-exported activities to run through effort recognition and
// split analysis.
type ProcessActivitiesRequest struct {
	Activities []activity.Activity `json:"activities"`
}

// ProcessActivitiesResponse summarizes a batch ingest.
type ProcessActivitiesResponse struct {
	// Activities is the total number of activities submitted.
	Activities int `json:"activities"`

	// Runs is the number classified as running activities.
	Runs int `json:"runs"`

	// Recognized is the number of runs matched or fingerprinted into a
	// route bundle.
	Recognized int `json:"recognized"`

	// SplitAnalyses is the number of runs that produced a split analysis.
	SplitAnalyses int `json:"splitAnalyses"`
}
