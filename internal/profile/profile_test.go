package profile_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"owners-health-api/internal/model"
	"owners-health-api/internal/profile"
)

func Test_Resolve_Unknown_Category_Returns_Default(t *testing.T) {
	t.Parallel()

	r := profile.NewResolver(nil)
	got := r.Resolve("Bookshop", "Used")
	want := profile.BuiltinCatalog().Default

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("profile mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 15, got.Weights.Get(profile.WeightReview))
	assert.Equal(t, 8, got.Weights.Get(profile.WeightSyncStale))
}

func Test_Resolve_Layers_Category_Then_Subcategory(t *testing.T) {
	t.Parallel()

	r := profile.NewResolver(nil)
	cat := r.Resolve(profile.CategoryFoodCafe, "")
	bbq := r.Resolve(profile.CategoryFoodCafe, "BBQ")

	assert.Equal(t, 18, cat.Weights.Get(profile.WeightReview))
	assert.Equal(t, 20, bbq.Weights.Get(profile.WeightReview))
	assert.Equal(t, 14, bbq.Weights.Get(profile.WeightSignature))
	// Keys the subcategory leaves alone come from the category layer.
	assert.Equal(t, 12, bbq.Weights.Get(profile.WeightReviewURL))
	assert.Equal(t, 10, bbq.Weights.Get(profile.WeightAddress))

	require.Len(t, bbq.TodoRules, 3+len(cat.TodoRules))
	assert.Equal(t, profile.TodoRule{Condition: profile.MissingSignature, Text: "Define 3 signature cuts or sets"}, bbq.TodoRules[0])
	assert.Equal(t, cat.TodoRules, bbq.TodoRules[3:])
}

func Test_Resolve_Trims_Names(t *testing.T) {
	t.Parallel()

	r := profile.NewResolver(nil)
	want := r.Resolve(profile.CategoryFoodCafe, "BBQ")
	got := r.Resolve("  "+profile.CategoryFoodCafe+" ", " BBQ ")

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("profile mismatch (-want +got):\n%s", diff)
	}
}

func Test_Resolve_Result_Does_Not_Alias_Catalog(t *testing.T) {
	t.Parallel()

	r := profile.NewResolver(nil)
	first := r.Resolve(profile.CategoryFoodCafe, "Pub/Bar")
	first.Weights[profile.WeightReview] = 999
	first.TodoRules[0].Text = "changed"
	first.Templates["Notices"][0].Title = "changed"

	second := r.Resolve(profile.CategoryFoodCafe, "Pub/Bar")
	assert.Equal(t, 18, second.Weights.Get(profile.WeightReview))
	assert.NotEqual(t, "changed", second.TodoRules[0].Text)
	assert.NotEqual(t, "changed", second.Templates["Notices"][0].Title)
}

func Test_Merge_Empty_Override_Returns_Base(t *testing.T) {
	t.Parallel()

	base := profile.BuiltinCatalog().Default
	got := profile.Merge(base, profile.Profile{})

	if diff := cmp.Diff(base, got); diff != "" {
		t.Fatalf("profile mismatch (-want +got):\n%s", diff)
	}
}

func Test_Merge_Drops_Only_Exact_Duplicate_Rules(t *testing.T) {
	t.Parallel()

	base := profile.Profile{
		TodoRules: []profile.TodoRule{
			{Condition: profile.MissingKeywords, Text: "add keywords"},
			{Condition: profile.NoReviewActivity, Text: "reply once"},
		},
	}
	override := profile.Profile{
		TodoRules: []profile.TodoRule{
			{Condition: profile.NoReviewActivity, Text: "reply once"},
			{Condition: profile.MissingKeywords, Text: "add five keywords"},
		},
	}

	got := profile.Merge(base, override)

	want := []profile.TodoRule{
		{Condition: profile.NoReviewActivity, Text: "reply once"},
		{Condition: profile.MissingKeywords, Text: "add five keywords"},
		{Condition: profile.MissingKeywords, Text: "add keywords"},
	}
	if diff := cmp.Diff(want, got.TodoRules); diff != "" {
		t.Fatalf("rules mismatch (-want +got):\n%s", diff)
	}
}

func Test_Merge_Prepends_Templates_And_Keeps_Base_Groups(t *testing.T) {
	t.Parallel()

	base := profile.Profile{
		Weights: profile.Weights{profile.WeightAddress: 10, profile.WeightBlog: 7},
		Templates: map[string][]profile.Template{
			"Notices": {{Title: "closed", Body: "closed today"}},
			"Reviews": {{Title: "thanks", Body: "thank you"}},
		},
	}
	override := profile.Profile{
		Weights: profile.Weights{profile.WeightBlog: 3},
		Templates: map[string][]profile.Template{
			"Notices": {{Title: "sold out", Body: "sold out early"}},
			"Events":  {{Title: "happy hour", Body: "5 to 7"}},
		},
	}

	got := profile.Merge(base, override)

	want := profile.Profile{
		Weights:   profile.Weights{profile.WeightAddress: 10, profile.WeightBlog: 3},
		TodoRules: []profile.TodoRule{},
		Templates: map[string][]profile.Template{
			"Notices": {{Title: "sold out", Body: "sold out early"}, {Title: "closed", Body: "closed today"}},
			"Reviews": {{Title: "thanks", Body: "thank you"}},
			"Events":  {{Title: "happy hour", Body: "5 to 7"}},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("profile mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 7, base.Weights.Get(profile.WeightBlog), "base must not change")
}

func Test_Condition_Names_Round_Trip(t *testing.T) {
	t.Parallel()

	for _, c := range []profile.Condition{
		profile.MissingKeywords, profile.MissingReviewURL, profile.MissingInstaURL,
		profile.MissingStrengths, profile.MissingSignature, profile.NoReviewActivity,
		profile.NoInstaActivity, profile.NoBlogActivity, profile.NoEventActivity,
	} {
		parsed, err := profile.ParseCondition(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, parsed)
		assert.NotEmpty(t, c.Group())
		assert.NotEmpty(t, c.Target())
	}

	_, err := profile.ParseCondition("missing_parking")
	require.Error(t, err)
}

func Test_Condition_Holds(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	e := &model.Entity{Keywords: "  ", ReviewURL: "https://r.example.com", Signature: "ribs"}
	ck := &model.ChecklistRecord{LastReviewReplyAt: &now}

	assert.True(t, profile.MissingKeywords.Holds(e, ck))
	assert.False(t, profile.MissingReviewURL.Holds(e, ck))
	assert.True(t, profile.MissingInstaURL.Holds(e, ck))
	assert.False(t, profile.MissingSignature.Holds(e, ck))
	assert.False(t, profile.NoReviewActivity.Holds(e, ck))
	assert.True(t, profile.NoInstaActivity.Holds(e, ck))
	assert.Equal(t, "keywords", profile.MissingKeywords.Group())
	assert.Equal(t, profile.TargetReview, profile.NoReviewActivity.Target())
}

const catalogYAML = `
categories:
  Bakery:
    score_weights:
      activity_insta: 20
    todo_rules:
      - condition: no_insta_activity
        text: Post the morning bake
subcategories:
  - category: Bakery
    subcategory: Bagels
    score_weights:
      signature: 25
    templates:
      Notices:
        - title: Sold out
          body: All bagels are gone for today.
`

func Test_ParseCatalog_Layers_Over_Builtin_Default(t *testing.T) {
	t.Parallel()

	catalog, err := profile.ParseCatalog([]byte(catalogYAML))
	require.NoError(t, err)

	got := profile.NewResolver(catalog).Resolve("Bakery", "Bagels")

	assert.Equal(t, 20, got.Weights.Get(profile.WeightInsta))
	assert.Equal(t, 25, got.Weights.Get(profile.WeightSignature))
	assert.Equal(t, 10, got.Weights.Get(profile.WeightAddress))
	require.NotEmpty(t, got.TodoRules)
	assert.Equal(t, profile.TodoRule{Condition: profile.NoInstaActivity, Text: "Post the morning bake"}, got.TodoRules[0])
	require.NotEmpty(t, got.Templates["Notices"])
	assert.Equal(t, "Sold out", got.Templates["Notices"][0].Title)
}

func Test_ParseCatalog_Rejects_Bad_Input(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
	}{
		{"unknown condition", "categories:\n  Bakery:\n    todo_rules:\n      - condition: missing_parking\n        text: x\n"},
		{"negative weight", "categories:\n  Bakery:\n    score_weights:\n      address: -1\n"},
		{"subcategory without category", "subcategories:\n  - subcategory: Bagels\n"},
		{"not yaml", "categories: [\n"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := profile.ParseCatalog([]byte(tt.doc))
			require.Error(t, err)
		})
	}
}

func Test_LoadCatalogFile_Reads_From_Disk(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(catalogYAML), 0o600))

	catalog, err := profile.LoadCatalogFile(path)
	require.NoError(t, err)
	assert.Contains(t, catalog.Categories, "Bakery")

	_, err = profile.LoadCatalogFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
