package testutil

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/text/encoding/charmap"

	"ytstats/pkg/contracts/domain"
)

// SourceHeader is the header row of the published statistics file, spelled
// exactly as the file spells it.
var SourceHeader = []string{
	"rank", "Youtuber", "subscribers", "video views", "category", "Title", "uploads",
	"Country", "Abbreviation", "channel_type", "video_views_rank", "country_rank",
	"channel_type_rank", "video_views_for_the_last_30_days", "lowest_monthly_earnings",
	"highest_monthly_earnings", "lowest_yearly_earnings", "highest_yearly_earnings",
	"subscribers_for_last_30_days", "created_year", "created_month", "created_date",
	"Gross tertiary education enrollment (%)", "Population", "Unemployment rate",
	"Urban_population", "Latitude", "Longitude",
}

// SourceRecord is one raw row keyed by SourceHeader names
type SourceRecord map[string]string

// With returns a copy of the record with key set to value
func (r SourceRecord) With(key, value string) SourceRecord {
	out := make(SourceRecord, len(r)+1)
	for k, v := range r {
		out[k] = v
	}
	out[key] = value
	return out
}

// NewSourceRecord returns a complete, valid raw row for youtuber
func NewSourceRecord(youtuber string) SourceRecord {
	return SourceRecord{
		"rank":                                    "1",
		"Youtuber":                                youtuber,
		"subscribers":                             "245000000",
		"video views":                             "228000000000",
		"category":                                "Music",
		"Title":                                   youtuber,
		"uploads":                                 "20082",
		"Country":                                 "India",
		"Abbreviation":                            "IN",
		"channel_type":                            "Music",
		"video_views_rank":                        "1",
		"country_rank":                            "1",
		"channel_type_rank":                       "1",
		"video_views_for_the_last_30_days":        "2258000000",
		"lowest_monthly_earnings":                 "564600",
		"highest_monthly_earnings":                "9000000",
		"lowest_yearly_earnings":                  "6800000",
		"highest_yearly_earnings":                 "108400000",
		"subscribers_for_last_30_days":            "2000000",
		"created_year":                            "2006",
		"created_month":                           "Mar",
		"created_date":                            "13",
		"Gross tertiary education enrollment (%)": "28.1",
		"Population":                              "1366417754",
		"Unemployment rate":                       "5.36",
		"Urban_population":                        "471031528",
		"Latitude":                                "20.593684",
		"Longitude":                               "78.96288",
	}
}

// SourceCSV renders records under SourceHeader. Keys missing from a record
// are written as empty cells.
func SourceCSV(t *testing.T, records ...SourceRecord) string {
	t.Helper()

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(SourceHeader); err != nil {
		t.Fatalf("write header: %v", err)
	}
	for _, rec := range records {
		row := make([]string, len(SourceHeader))
		for i, h := range SourceHeader {
			row[i] = rec[h]
		}
		if err := w.Write(row); err != nil {
			t.Fatalf("write row: %v", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		t.Fatalf("flush csv: %v", err)
	}
	return buf.String()
}

// WriteLatin1File encodes content as ISO-8859-1 and writes it under dir
func WriteLatin1File(t *testing.T, dir, name, content string) string {
	t.Helper()

	encoded, err := charmap.ISO8859_1.NewEncoder().String(content)
	if err != nil {
		t.Fatalf("encode %s as latin-1: %v", name, err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(encoded), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// ScenarioChannels is the three-channel dataset used across query tests,
// already in canonical order.
func ScenarioChannels() []domain.Channel {
	return []domain.Channel{
		{Index: 0, Youtuber: "Alpha", Title: "Alpha", Country: "US", Abbreviation: "US", Category: "Music",
			ChannelType: "Music", Subscribers: 100, VideoViews: 1000, Uploads: 10, CreatedYear: 2010, CreatedMonth: "Jan"},
		{Index: 1, Youtuber: "Gamma", Title: "Gamma", Country: "IN", Abbreviation: "IN", Category: "Music",
			ChannelType: "Music", Subscribers: 70, VideoViews: 3000, Uploads: 30, CreatedYear: 2012, CreatedMonth: "Mar"},
		{Index: 2, Youtuber: "Beta", Title: "Beta", Country: "US", Abbreviation: "US", Category: "Gaming",
			ChannelType: "Games", Subscribers: 50, VideoViews: 2000, Uploads: 20, CreatedYear: 2010, CreatedMonth: "Feb"},
	}
}

// SampleChannels is a larger canonical dataset with repeated keys in every
// dimension and a subscriber tie.
func SampleChannels() []domain.Channel {
	rows := []domain.Channel{
		{Youtuber: "T-Series", Country: "India", Category: "Music", Subscribers: 245000000, VideoViews: 228000000000, CreatedYear: 2006},
		{Youtuber: "MrBeast", Country: "United States", Category: "Entertainment", Subscribers: 166000000, VideoViews: 28368841870, CreatedYear: 2012},
		{Youtuber: "Cocomelon", Country: "United States", Category: "Education", Subscribers: 162000000, VideoViews: 164000000000, CreatedYear: 2006},
		{Youtuber: "SET India", Country: "India", Category: "Shows", Subscribers: 159000000, VideoViews: 148000000000, CreatedYear: 2006},
		{Youtuber: "Music", Country: "Unknown", Category: "Unknown", Subscribers: 119000000, VideoViews: 1, CreatedYear: 2013},
		{Youtuber: "Kids Diana Show", Country: "United States", Category: "People & Blogs", Subscribers: 112000000, VideoViews: 93247040539, CreatedYear: 2015},
		{Youtuber: "PewDiePie", Country: "Japan", Category: "Gaming", Subscribers: 111000000, VideoViews: 29058044447, CreatedYear: 2010},
		{Youtuber: "Like Nastya", Country: "Russia", Category: "People & Blogs", Subscribers: 106000000, VideoViews: 90479060027, CreatedYear: 2016},
		{Youtuber: "Vlad and Niki", Country: "United States", Category: "Entertainment", Subscribers: 98900000, VideoViews: 77180169894, CreatedYear: 2018},
		{Youtuber: "Zee Music Company", Country: "India", Category: "Music", Subscribers: 96700000, VideoViews: 57856289381, CreatedYear: 2014},
		{Youtuber: "WWE", Country: "United States", Category: "Sports", Subscribers: 96000000, VideoViews: 77428473662, CreatedYear: 2007},
		{Youtuber: "Goldmines", Country: "India", Category: "Film & Animation", Subscribers: 96000000, VideoViews: 24118230580, CreatedYear: 2012},
	}
	for i := range rows {
		rows[i].Index = i
		rows[i].Title = rows[i].Youtuber
		rows[i].ChannelType = rows[i].Category
		rows[i].CreatedMonth = "Jan"
		rows[i].Abbreviation = "XX"
	}
	return rows
}
