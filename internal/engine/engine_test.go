package engine_test

import (
	"time"

	"owners-health-api/internal/model"
	"owners-health-api/internal/profile"
)

var testNow = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

func ago(d time.Duration) *time.Time {
	ts := testNow.Add(-d)
	return &ts
}

func days(n int) time.Duration {
	return time.Duration(n) * 24 * time.Hour
}

func fullEntity() *model.Entity {
	return &model.Entity{
		ID:        1,
		Name:      "Corner Bistro",
		Category:  profile.CategoryOther,
		Address:   "12 Market St",
		Signature: "Braised short rib",
		Strengths: "Quiet, late hours",
		Keywords:  "#bistro #late",
		ReviewURL: "https://reviews.example.com/corner",
		InstaURL:  "https://insta.example.com/corner",
	}
}

func defaultProfile() profile.Profile {
	return profile.NewResolver(nil).Resolve(profile.CategoryOther, "")
}
