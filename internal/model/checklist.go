package model

import "time"

// UnknownCount marks an unreplied-review count that was never reported
// or could not be parsed.
const UnknownCount = -1

// ChecklistRecord is the per-entity state consumed by scoring. It is
// created on first access and never deleted independently of its Entity.
type ChecklistRecord struct {
	EntityID int64 `json:"entity_id" db:"entity_id"`

	HasKeywords     bool `json:"has_keywords" db:"has_keywords"`
	HasReviewURL    bool `json:"has_review_url" db:"has_review_url"`
	HasInstaURL     bool `json:"has_insta_url" db:"has_insta_url"`
	HasPlaceDesc    bool `json:"has_place_desc" db:"has_place_desc"`
	HasMenuGuide    bool `json:"has_menu_guide" db:"has_menu_guide"`
	HasWayGuide     bool `json:"has_way_guide" db:"has_way_guide"`
	HasParkingGuide bool `json:"has_parking_guide" db:"has_parking_guide"`
	HasHours        bool `json:"has_hours" db:"has_hours"`
	HasPhone        bool `json:"has_phone" db:"has_phone"`
	HasAddress      bool `json:"has_address" db:"has_address"`
	HasNews         bool `json:"has_news" db:"has_news"`

	LastReviewReplyAt  *time.Time `json:"last_review_reply_at" db:"last_review_reply_at"`
	LastInstaCaptionAt *time.Time `json:"last_insta_caption_at" db:"last_insta_caption_at"`
	LastBlogPostAt     *time.Time `json:"last_blog_post_at" db:"last_blog_post_at"`
	LastEventPlanAt    *time.Time `json:"last_event_plan_at" db:"last_event_plan_at"`
	LastPlaceQAAt      *time.Time `json:"last_place_qa_at" db:"last_place_qa_at"`
	LastAdAnalysisAt   *time.Time `json:"last_ad_analysis_at" db:"last_ad_analysis_at"`
	LastPlaceNewsAt    *time.Time `json:"last_place_news_at" db:"last_place_news_at"`
	LastScanAt         *time.Time `json:"last_scan_at" db:"last_scan_at"`

	ReviewSyncStatus     SyncStatus `json:"review_sync_status" db:"review_sync_status"`
	ReviewSyncAt         *time.Time `json:"review_sync_at" db:"review_sync_at"`
	ReviewUnrepliedCount int        `json:"review_unreplied_count" db:"review_unreplied_count"`
	ReviewSyncNonce      string     `json:"-" db:"review_sync_nonce"`

	ScanSyncStatus SyncStatus `json:"scan_sync_status" db:"scan_sync_status"`
	ScanSyncAt     *time.Time `json:"scan_sync_at" db:"scan_sync_at"`
	ScanSyncNonce  string     `json:"-" db:"scan_sync_nonce"`
}

// NewChecklistRecord returns a fully initialized record with nothing done yet.
func NewChecklistRecord(entityID int64) *ChecklistRecord {
	return &ChecklistRecord{
		EntityID:             entityID,
		ReviewUnrepliedCount: UnknownCount,
	}
}

// Activity is a timestamped operator activity tracked on the checklist.
type Activity string

const (
	ActivityReviewReply  Activity = "review_reply"
	ActivityInstaCaption Activity = "insta_caption"
	ActivityBlogPost     Activity = "blog_post"
	ActivityEventPlan    Activity = "event_plan"
	ActivityPlaceQA      Activity = "place_qa"
	ActivityPlaceNews    Activity = "place_news"
	ActivityAdAnalysis   Activity = "ad_analysis"
)

var activityColumns = map[Activity]string{
	ActivityReviewReply:  "last_review_reply_at",
	ActivityInstaCaption: "last_insta_caption_at",
	ActivityBlogPost:     "last_blog_post_at",
	ActivityEventPlan:    "last_event_plan_at",
	ActivityPlaceQA:      "last_place_qa_at",
	ActivityPlaceNews:    "last_place_news_at",
	ActivityAdAnalysis:   "last_ad_analysis_at",
}

// Column returns the checklist column backing the activity and whether
// the activity is known.
func (a Activity) Column() (string, bool) {
	col, ok := activityColumns[a]
	return col, ok
}

// Flag is a boolean content-presence flag on the checklist.
type Flag string

const (
	FlagKeywords     Flag = "has_keywords"
	FlagReviewURL    Flag = "has_review_url"
	FlagInstaURL     Flag = "has_insta_url"
	FlagPlaceDesc    Flag = "has_place_desc"
	FlagMenuGuide    Flag = "has_menu_guide"
	FlagWayGuide     Flag = "has_way_guide"
	FlagParkingGuide Flag = "has_parking_guide"
	FlagHours        Flag = "has_hours"
	FlagPhone        Flag = "has_phone"
	FlagAddress      Flag = "has_address"
	FlagNews         Flag = "has_news"
)

var knownFlags = map[Flag]bool{
	FlagKeywords: true, FlagReviewURL: true, FlagInstaURL: true,
	FlagPlaceDesc: true, FlagMenuGuide: true, FlagWayGuide: true,
	FlagParkingGuide: true, FlagHours: true, FlagPhone: true,
	FlagAddress: true, FlagNews: true,
}

// Valid reports whether f names a checklist column.
func (f Flag) Valid() bool {
	return knownFlags[f]
}

// ScanReport carries the content flags found by the external profile scanner.
type ScanReport struct {
	HasPlaceDesc    bool `json:"has_place_desc"`
	HasMenuGuide    bool `json:"has_menu_guide"`
	HasKeywords     bool `json:"has_keywords"`
	HasParkingGuide bool `json:"has_parking_guide"`
	HasWayGuide     bool `json:"has_way_guide"`
	HasHours        bool `json:"has_hours"`
	HasPhone        bool `json:"has_phone"`
	HasAddress      bool `json:"has_address"`
	HasNews         bool `json:"has_news"`
}
