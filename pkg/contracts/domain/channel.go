package domain

// Channel is one channel's statistics row after cleaning.
// Whole-number statistics are int64; rates, earnings and coordinates are float64.
type Channel struct {
	Index int `json:"index"`

	Youtuber     string `json:"youtuber"`
	Title        string `json:"title"`
	Category     string `json:"category"`
	Country      string `json:"country"`
	Abbreviation string `json:"abbreviation"`
	ChannelType  string `json:"channel_type"`
	CreatedMonth string `json:"created_month"`

	Subscribers           int64 `json:"subscribers"`
	VideoViews            int64 `json:"video_views"`
	Uploads               int64 `json:"uploads"`
	VideoViewsRank        int64 `json:"video_views_rank"`
	CountryRank           int64 `json:"country_rank"`
	ChannelTypeRank       int64 `json:"channel_type_rank"`
	VideoViewsLast30Days  int64 `json:"video_views_for_the_last_30_days"`
	SubscribersLast30Days int64 `json:"subscribers_for_last_30_days"`
	CreatedYear           int64 `json:"created_year"`
	Population            int64 `json:"population"`
	UrbanPopulation       int64 `json:"urban_population"`

	LowestMonthlyEarnings            float64 `json:"lowest_monthly_earnings"`
	HighestMonthlyEarnings           float64 `json:"highest_monthly_earnings"`
	LowestYearlyEarnings             float64 `json:"lowest_yearly_earnings"`
	HighestYearlyEarnings            float64 `json:"highest_yearly_earnings"`
	CreatedDate                      float64 `json:"created_date"`
	GrossTertiaryEducationEnrollment float64 `json:"gross_tertiary_education_enrollment"`
	UnemploymentRate                 float64 `json:"unemployment_rate"`
	Latitude                         float64 `json:"latitude"`
	Longitude                        float64 `json:"longitude"`
}

// UnknownCategory replaces missing categorical values.
const UnknownCategory = "Unknown"
