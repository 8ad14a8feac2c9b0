package profile

// Category names offered to operators.
const (
	CategoryFoodCafe  = "Restaurant/Cafe"
	CategoryBeauty    = "Beauty"
	CategoryFitness   = "Fitness/Pilates"
	CategoryEducation = "Academy/Education"
	CategoryOther     = "Other"
)

// Categories lists the main categories in display order.
var Categories = []string{
	CategoryFoodCafe,
	CategoryBeauty,
	CategoryFitness,
	CategoryEducation,
	CategoryOther,
}

// FoodCafeSubcategories lists the subcategories offered under Restaurant/Cafe.
var FoodCafeSubcategories = []string{
	"Cafe/Dessert",
	"Korean",
	"Chinese",
	"Japanese",
	"BBQ",
	"Pub/Bar",
	"Delivery/Takeout",
	"Other (custom)",
}

// SubcategoryKey identifies a subcategory override.
type SubcategoryKey struct {
	Category    string
	Subcategory string
}

// Catalog is the static configuration the resolver composes from.
type Catalog struct {
	Default       Profile
	Categories    map[string]Profile
	Subcategories map[SubcategoryKey]Profile
}

// BuiltinCatalog returns the catalog shipped with the service.
func BuiltinCatalog() *Catalog {
	return &Catalog{
		Default: defaultProfile(),
		Categories: map[string]Profile{
			CategoryFoodCafe: foodCafeProfile(),
		},
		Subcategories: map[SubcategoryKey]Profile{
			{CategoryFoodCafe, "Cafe/Dessert"}: {
				TodoRules: []TodoRule{
					{MissingKeywords, "Create 5 place keywords (#cafe #dessert #mood #takeout)"},
					{NoInstaActivity, "Write an Instagram caption for one dessert or drink photo"},
					{NoReviewActivity, "Reply to at least one review"},
				},
				Templates: map[string][]Template{
					"Notices": {
						{"Takeout available", "Takeout is available. Order in store and we will have it ready."},
						{"Desserts selling out", "Today's desserts may sell out early. Please ask before visiting."},
					},
				},
			},
			{CategoryFoodCafe, "BBQ"}: {
				Weights: Weights{
					WeightReview:    20,
					WeightSignature: 14,
				},
				TodoRules: []TodoRule{
					{MissingSignature, "Define 3 signature cuts or sets"},
					{NoEventActivity, "Plan one promotion for company dinners or groups"},
					{NoReviewActivity, "Reply to at least one review"},
				},
				Templates: map[string][]Template{
					"Reservations/Waiting": {
						{"Group dinner inquiry", "Group reservations are available. Tell us the headcount, time and budget and we will get back to you quickly."},
						{"Seats and rooms", "Seat and private room availability depends on the time. Please ask before visiting."},
					},
					"Notices": {
						{"Corkage policy", "Our corkage policy follows {rule}. Please ask for details."},
					},
				},
			},
			{CategoryFoodCafe, "Pub/Bar"}: {
				TodoRules: []TodoRule{
					{MissingKeywords, "Create 5 place keywords (#bar #snacks #second-round #mood #groups)"},
					{NoEventActivity, "Plan one weekday or time-based event (e.g. happy hour)"},
				},
				Templates: map[string][]Template{
					"Notices": {
						{"ID check", "We may ask for ID when you order alcohol. Thank you for understanding."},
						{"Last order", "Last order is at {last_order}. Please check before visiting."},
					},
				},
			},
			{CategoryFoodCafe, "Delivery/Takeout"}: {
				TodoRules: []TodoRule{
					{MissingSignature, "Define 3 best-selling delivery items"},
					{MissingKeywords, "Create 5 place keywords (#delivery #takeout #quick-pickup #menu)"},
					{NoInstaActivity, "Write a caption for a signature takeout item photo"},
				},
				Templates: map[string][]Template{
					"Notices": {
						{"Takeout wait time", "Takeout can take about {minutes} minutes depending on orders. Thank you for your patience."},
						{"Delivery delay", "Orders are piling up and delivery may be delayed. We are preparing as fast as we can."},
					},
				},
			},
		},
	}
}

func defaultProfile() Profile {
	return Profile{
		Weights: Weights{
			WeightAddress:    10,
			WeightSignature:  10,
			WeightStrengths:  10,
			WeightKeywords:   10,
			WeightReviewURL:  10,
			WeightInstaURL:   10,
			WeightReview:     15,
			WeightInsta:      10,
			WeightBlog:       7,
			WeightEvent:      8,
			WeightReviewSync: 10,
			WeightSyncStale:  8,
		},
		TodoRules: []TodoRule{
			{MissingKeywords, "Create and register 5 place keywords"},
			{MissingReviewURL, "Enter the review page URL (makes reply management easier)"},
			{NoReviewActivity, "Reply to at least one review (builds trust and conversion)"},
			{NoInstaActivity, "Prepare a caption for one Instagram post"},
			{MissingStrengths, "Summarize your strengths in 3 lines (improves the description)"},
			{NoEventActivity, "Come up with one event idea for this month"},
		},
		Templates: map[string][]Template{
			"Reservations/Inquiries": {
				{"Phone inquiry", "Hello, this is {store_name}. How can we help you?"},
				{"Opening hours", "We are open {hours}. Please check before visiting."},
				{"Group reservations", "Group reservations follow {rule}. Tell us the headcount and time and we will confirm."},
			},
			"Reviews/Complaints": {
				{"Thank you (basic)", "Thank you for visiting. We will be ready to satisfy you again next time."},
				{"Complaint reply", "We are sorry for the inconvenience. We will check and improve what you pointed out. If you can share more details we can act more precisely."},
				{"Invite back", "Thank you for your feedback. We will make your next visit even better."},
			},
			"Notices": {
				{"Sold out / closing early", "We are closing early today because ingredients ran out. Sorry for the inconvenience, see you next business day."},
				{"Closed days", "We are closed on {closed_days}. Please check before visiting."},
				{"Waiting", "There may be a wait right now. Register on site and we will call you in order."},
			},
		},
	}
}

func foodCafeProfile() Profile {
	weights := defaultProfile().Weights
	weights[WeightReviewSync] = 10
	weights[WeightSignature] = 12
	weights[WeightReviewURL] = 12
	weights[WeightReview] = 18
	weights[WeightInsta] = 8

	return Profile{
		Weights: weights,
		TodoRules: []TodoRule{
			{MissingKeywords, "Create and register 5 place keywords (#area #menu #mood)"},
			{MissingReviewURL, "Enter the review page URL (required for reply management)"},
			{NoReviewActivity, "Reply to reviews (at least one)"},
			{MissingSignature, "Define 3 signature menu items clearly"},
			{NoEventActivity, "Plan one promotion this month (lunch, company dinner, groups)"},
			{NoInstaActivity, "Write an Instagram caption for one menu photo"},
		},
		Templates: map[string][]Template{
			"Reservations/Waiting": {
				{"Group reservations", "Group reservations follow {rule}. Tell us the headcount and time and we will confirm."},
				{"Waiting", "There may be a wait right now. Register on site and we will call you in order."},
				{"Last order", "Last order is at {last_order}. Please check before visiting."},
			},
			"Notices": {
				{"Sold out / closing early", "We are closing early today because ingredients ran out. Sorry for the inconvenience, see you next business day."},
				{"Menu changes", "Some menu items may change depending on ingredient supply. Thank you for understanding."},
				{"No parking", "We do not have parking. Please use a nearby paid parking lot."},
			},
			"Reviews/Complaints": {
				{"Thank you (menu)", "Thank you for visiting. We will take your comments on {signature} into account and be ready for your next visit."},
				{"Complaint reply (waiting/service)", "We are sorry for the inconvenience. We will check how waiting and service were handled. If you share the time and situation we can act more precisely."},
			},
		},
	}
}
