package report

import (
	"testing"
	"time"

	"github.com/CadenFinley/web-scraper/internal/models"
	"github.com/CadenFinley/web-scraper/internal/similarity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hymn(code, name, title string, total int, id int64) models.Hymn {
	return models.Hymn{
		HymnalCode:   code,
		HymnalName:   name,
		Denomination: "Baptist",
		HymnTotal:    total,
		HymnNumber:   "1",
		Hymn:         title,
		HymnNoBlanks: models.TitleKey(title),
		HymnID:       id,
	}
}

func sample() []models.Hymn {
	return []models.Hymn{
		hymn("ZB", "Zion Book", "Amazing Grace", 2, 1),
		hymn("ZB", "Zion Book", "Rock of Ages", 2, 2),
		hymn("AB", "Alpha Book", "Amazing Grace", 3, 3),
		hymn("AB", "Alpha Book", "Amazing Grace", 3, 4),
		hymn("AB", "Alpha Renamed", "Be Thou My Vision", 3, 5),
	}
}

func TestHymnTable(t *testing.T) {
	table := HymnTable(sample()[:1])

	assert.Equal(t, HymnFields, table.Fields)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, map[string]string{
		"Hymnal_Code":    "ZB",
		"Hymnal_Name":    "Zion Book",
		"Denomination":   "Baptist",
		"Hymn_Total":     "2",
		"Hymn_Number":    "1",
		"Hymn":           "Amazing Grace",
		"Hymn_No_Blanks": "Amazing_Grace",
		"Hymn_ID":        "1",
	}, table.Rows[0])
}

func TestSummarizeSortedFirstSeen(t *testing.T) {
	summaries := Summarize(sample())

	assert.Equal(t, []HymnalSummary{
		{Code: "AB", Name: "Alpha Book", Denomination: "Baptist", Total: 3},
		{Code: "ZB", Name: "Zion Book", Denomination: "Baptist", Total: 2},
	}, summaries)

	table := HymnalTable(sample())
	assert.Equal(t, []string{"Hymnal_Code", "Hymnal_Name", "Denomination", "Hymn_Total"}, table.Fields)
	assert.Equal(t, "AB", table.Rows[0]["Hymnal_Code"])
}

func TestBookDataTable(t *testing.T) {
	table := BookDataTable(sample())

	assert.Equal(t, []string{"Hymn", "Hymn_No_Blanks", "AB", "ZB", "Total"}, table.Fields)
	require.Len(t, table.Rows, 4)

	assert.Equal(t, map[string]string{
		"Hymn": "Amazing Grace", "Hymn_No_Blanks": "Amazing_Grace", "AB": "2", "ZB": "1", "Total": "3",
	}, table.Rows[0])
	assert.Equal(t, "Be Thou My Vision", table.Rows[1]["Hymn"])
	assert.Equal(t, "Rock of Ages", table.Rows[2]["Hymn"])
	assert.Equal(t, map[string]string{
		"Hymn": "TOTAL", "Hymn_No_Blanks": "TOTAL", "AB": "3", "ZB": "2", "Total": "5",
	}, table.Rows[3])
}

func TestBookDataTableKeepsRawTitles(t *testing.T) {
	hymns := []models.Hymn{
		hymn("AB", "Alpha", "Amazing Grace", 2, 1),
		hymn("AB", "Alpha", "Amazing Grace ", 2, 2),
	}

	table := BookDataTable(hymns)
	require.Len(t, table.Rows, 3)
	assert.Equal(t, "Amazing Grace", table.Rows[0]["Hymn"])
	assert.Equal(t, "Amazing Grace ", table.Rows[1]["Hymn"])
}

func TestSimilarityTable(t *testing.T) {
	base := hymn("AB", "Alpha", "Amazing Grace", 2, 1)
	rows := []similarity.Row{{
		Base: base,
		Matches: []similarity.Match{
			{Hymn: hymn("ZB", "Zion", "Amazing Grace!", 1, 2), Score: 0.96},
			{Hymn: hymn("AB", "Alpha", "Amazing Grace ", 2, 3), Score: 1},
		},
	}}

	table := SimilarityTable(rows)
	assert.Equal(t, SimilarityFields, table.Fields)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "Amazing Grace! [ZB] (0.96); Amazing Grace  [AB] (1.00)",
		table.Rows[0]["Similar_Hymns"])
	assert.Equal(t, "2", table.Rows[0]["Similar_Hymn_Count"])
	assert.Equal(t, "Alpha", table.Rows[0]["Base_Hymnal_Name"])
}

func TestFilesFor(t *testing.T) {
	at := time.Date(2024, time.March, 7, 15, 0, 0, 0, time.UTC)
	files := FilesFor("out", at)

	assert.Equal(t, "out/hymnal_data_03-07-2024.csv", files.Hymns)
	assert.Equal(t, "out/hymnal_data_03-07-2024.parquet", files.HymnsParquet)
	assert.Equal(t, "out/hymnals_03-07-2024.csv", files.Hymnals)
	assert.Equal(t, "out/book_data_03-07-2024.csv", files.BookData)
	assert.Equal(t, "out/hymn_similarity_03-07-2024.csv", files.Similarity)
	assert.Equal(t, "out/run_03-07-2024.yaml", files.Manifest)
	assert.Len(t, files.Tables(), 4)
}
