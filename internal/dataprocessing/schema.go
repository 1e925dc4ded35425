package dataprocessing

import (
	"strconv"
	"strings"
	"unicode"

	"ytstats/pkg/contracts/domain"
)

// Kind classifies a column for cleaning and querying
type Kind int

const (
	// KindCategorical columns hold free text; missing cells become "Unknown"
	KindCategorical Kind = iota
	// KindNumeric columns hold numbers; missing cells become 0
	KindNumeric
)

// String returns the lower-case kind name
func (k Kind) String() string {
	switch k {
	case KindCategorical:
		return "categorical"
	case KindNumeric:
		return "numeric"
	default:
		return "unknown"
	}
}

// Column names in their normalized form
const (
	FieldYoutuber                         = "Youtuber"
	FieldSubscribers                      = "Subscribers"
	FieldVideoViews                       = "Video Views"
	FieldCategory                         = "Category"
	FieldTitle                            = "Title"
	FieldUploads                          = "Uploads"
	FieldCountry                          = "Country"
	FieldAbbreviation                     = "Abbreviation"
	FieldChannelType                      = "Channel Type"
	FieldVideoViewsRank                   = "Video Views Rank"
	FieldCountryRank                      = "Country Rank"
	FieldChannelTypeRank                  = "Channel Type Rank"
	FieldVideoViewsLast30Days             = "Video Views For The Last 30 Days"
	FieldLowestMonthlyEarnings            = "Lowest Monthly Earnings"
	FieldHighestMonthlyEarnings           = "Highest Monthly Earnings"
	FieldLowestYearlyEarnings             = "Lowest Yearly Earnings"
	FieldHighestYearlyEarnings            = "Highest Yearly Earnings"
	FieldSubscribersLast30Days            = "Subscribers For Last 30 Days"
	FieldCreatedYear                      = "Created Year"
	FieldCreatedMonth                     = "Created Month"
	FieldCreatedDate                      = "Created Date"
	FieldGrossTertiaryEducationEnrollment = "Gross Tertiary Education Enrollment"
	FieldPopulation                       = "Population"
	FieldUnemploymentRate                 = "Unemployment Rate"
	FieldUrbanPopulation                  = "Urban Population"
	FieldLatitude                         = "Latitude"
	FieldLongitude                        = "Longitude"

	// RankColumn is the ordinal column of the source file. It is dropped on load.
	RankColumn = "Rank"
)

// Field describes one column of the statistics table and how it maps onto
// domain.Channel.
type Field struct {
	Name string
	Kind Kind
	// Whole marks numeric columns stored as integers; fractional source
	// values are truncated toward zero.
	Whole bool
	// Aliases are other normalized headers accepted for this column
	Aliases []string

	str func(*domain.Channel) *string
	i64 func(*domain.Channel) *int64
	f64 func(*domain.Channel) *float64
}

// IsNumeric reports whether the field holds numbers
func (f Field) IsNumeric() bool {
	return f.Kind == KindNumeric
}

// SourceHeader is the underscore spelling used in the published file
func (f Field) SourceHeader() string {
	return strings.ReplaceAll(strings.ToLower(f.Name), " ", "_")
}

// Number returns the numeric value of the field for c. Categorical fields
// return 0.
func (f Field) Number(c *domain.Channel) float64 {
	switch {
	case f.i64 != nil:
		return float64(*f.i64(c))
	case f.f64 != nil:
		return *f.f64(c)
	default:
		return 0
	}
}

// Text returns the value of the field for c as a string. Numbers are
// rendered in plain decimal notation so they can serve as group keys.
func (f Field) Text(c *domain.Channel) string {
	switch {
	case f.str != nil:
		return *f.str(c)
	case f.i64 != nil:
		return strconv.FormatInt(*f.i64(c), 10)
	default:
		return strconv.FormatFloat(*f.f64(c), 'f', -1, 64)
	}
}

func (f Field) setText(c *domain.Channel, v string) {
	if f.str != nil {
		*f.str(c) = v
	}
}

func (f Field) setNumber(c *domain.Channel, v float64) {
	switch {
	case f.i64 != nil:
		*f.i64(c) = int64(v)
	case f.f64 != nil:
		*f.f64(c) = v
	}
}

func categorical(name string, get func(*domain.Channel) *string) Field {
	return Field{Name: name, Kind: KindCategorical, str: get}
}

func whole(name string, get func(*domain.Channel) *int64) Field {
	return Field{Name: name, Kind: KindNumeric, Whole: true, i64: get}
}

func decimal(name string, get func(*domain.Channel) *float64) Field {
	return Field{Name: name, Kind: KindNumeric, f64: get}
}

// schema lists every required column in source order
var schema = []Field{
	categorical(FieldYoutuber, func(c *domain.Channel) *string { return &c.Youtuber }),
	whole(FieldSubscribers, func(c *domain.Channel) *int64 { return &c.Subscribers }),
	whole(FieldVideoViews, func(c *domain.Channel) *int64 { return &c.VideoViews }),
	categorical(FieldCategory, func(c *domain.Channel) *string { return &c.Category }),
	categorical(FieldTitle, func(c *domain.Channel) *string { return &c.Title }),
	whole(FieldUploads, func(c *domain.Channel) *int64 { return &c.Uploads }),
	categorical(FieldCountry, func(c *domain.Channel) *string { return &c.Country }),
	categorical(FieldAbbreviation, func(c *domain.Channel) *string { return &c.Abbreviation }),
	categorical(FieldChannelType, func(c *domain.Channel) *string { return &c.ChannelType }),
	whole(FieldVideoViewsRank, func(c *domain.Channel) *int64 { return &c.VideoViewsRank }),
	whole(FieldCountryRank, func(c *domain.Channel) *int64 { return &c.CountryRank }),
	whole(FieldChannelTypeRank, func(c *domain.Channel) *int64 { return &c.ChannelTypeRank }),
	whole(FieldVideoViewsLast30Days, func(c *domain.Channel) *int64 { return &c.VideoViewsLast30Days }),
	decimal(FieldLowestMonthlyEarnings, func(c *domain.Channel) *float64 { return &c.LowestMonthlyEarnings }),
	decimal(FieldHighestMonthlyEarnings, func(c *domain.Channel) *float64 { return &c.HighestMonthlyEarnings }),
	decimal(FieldLowestYearlyEarnings, func(c *domain.Channel) *float64 { return &c.LowestYearlyEarnings }),
	decimal(FieldHighestYearlyEarnings, func(c *domain.Channel) *float64 { return &c.HighestYearlyEarnings }),
	whole(FieldSubscribersLast30Days, func(c *domain.Channel) *int64 { return &c.SubscribersLast30Days }),
	whole(FieldCreatedYear, func(c *domain.Channel) *int64 { return &c.CreatedYear }),
	categorical(FieldCreatedMonth, func(c *domain.Channel) *string { return &c.CreatedMonth }),
	decimal(FieldCreatedDate, func(c *domain.Channel) *float64 { return &c.CreatedDate }),
	withAliases(
		decimal(FieldGrossTertiaryEducationEnrollment, func(c *domain.Channel) *float64 { return &c.GrossTertiaryEducationEnrollment }),
		"Gross Tertiary Education Enrollment (%)",
	),
	whole(FieldPopulation, func(c *domain.Channel) *int64 { return &c.Population }),
	decimal(FieldUnemploymentRate, func(c *domain.Channel) *float64 { return &c.UnemploymentRate }),
	whole(FieldUrbanPopulation, func(c *domain.Channel) *int64 { return &c.UrbanPopulation }),
	decimal(FieldLatitude, func(c *domain.Channel) *float64 { return &c.Latitude }),
	decimal(FieldLongitude, func(c *domain.Channel) *float64 { return &c.Longitude }),
}

func withAliases(f Field, aliases ...string) Field {
	f.Aliases = aliases
	return f
}

var fieldIndex = func() map[string]int {
	m := make(map[string]int, len(schema)*2)
	for i, f := range schema {
		m[f.Name] = i
		for _, a := range f.Aliases {
			m[a] = i
		}
	}
	return m
}()

// Fields returns the schema in source column order
func Fields() []Field {
	out := make([]Field, len(schema))
	copy(out, schema)
	return out
}

// LookupField resolves a column name. Source spellings such as
// "video_views" or "created year" are accepted.
func LookupField(name string) (Field, bool) {
	i, ok := fieldIndex[NormalizeHeader(strings.TrimSpace(name))]
	if !ok {
		return Field{}, false
	}
	return schema[i], true
}

// NormalizeHeader turns a source header into its canonical column name:
// underscores become spaces, a letter is upper-cased when it does not
// follow another letter, every other letter is lower-cased.
//
//	video_views_for_the_last_30_days -> Video Views For The Last 30 Days
func NormalizeHeader(h string) string {
	var b strings.Builder
	b.Grow(len(h))

	prevLetter := false
	for _, r := range strings.ReplaceAll(h, "_", " ") {
		if unicode.IsLetter(r) {
			if prevLetter {
				r = unicode.ToLower(r)
			} else {
				r = unicode.ToUpper(r)
			}
			prevLetter = true
		} else {
			prevLetter = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
