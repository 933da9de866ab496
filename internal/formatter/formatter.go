// package formatter provides functions to export keyword and ranking data to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/manisai28/vseo/internal/models"
	"github.com/manisai28/vseo/internal/shared"
)

// csvHeaders are the columns of a keyword export.
var csvHeaders = []string{"Keyword", "Rank", "Search Volume", "Competition"}

// ExportToCSV converts a video's ranking results to CSV.
//
// One row per ranking entry; missing search volume and competition are
// rendered as "N/A". Refuses to export when the video has no rankings.
func ExportToCSV(rankings []models.RankingEntry) ([]byte, error) {
	if len(rankings) == 0 {
		return nil, fmt.Errorf("%w: no rankings to export", shared.ErrKeywordsNotFound)
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(csvHeaders); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, entry := range rankings {
		record := []string{entry.Keyword, formatRank(entry.Rank), "N/A", "N/A"}
		if entry.SearchVolume != nil {
			record[2] = strconv.Itoa(*entry.SearchVolume)
		}
		if entry.Competition != nil {
			record[3] = strconv.FormatFloat(*entry.Competition, 'f', 2, 64)
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a video record to a Markdown report
func ExportToMarkdown(record *models.VideoRecord) ([]byte, error) {
	var buf bytes.Buffer

	title := record.Title
	if title == "" {
		title = record.ID
	}
	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("**Keywords**: %d\n", len(record.Keywords)))
	buf.WriteString(fmt.Sprintf("**Processed**: %t\n\n", record.Processed))

	if len(record.Keywords) > 0 {
		buf.WriteString("## Keywords\n\n")
		for i, keyword := range record.Keywords {
			buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, keyword))
		}
		buf.WriteString("\n")
	}

	if len(record.Rankings) > 0 {
		buf.WriteString("## Rankings\n\n")
		buf.WriteString("| Keyword | Rank | Search Volume | Competition |\n")
		buf.WriteString("| --- | --- | --- | --- |\n")
		for _, entry := range record.Rankings {
			volume := "N/A"
			if entry.SearchVolume != nil {
				volume = strconv.Itoa(*entry.SearchVolume)
			}
			competition := "N/A"
			if entry.Competition != nil {
				competition = strconv.FormatFloat(*entry.Competition, 'f', 2, 64)
			}
			buf.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n", entry.Keyword, formatRank(entry.Rank), volume, competition))
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts a video record to plain text
func ExportToText(record *models.VideoRecord) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Video: %s\n", record.Title))
	buf.WriteString(fmt.Sprintf("Keywords: %d\n\n", len(record.Keywords)))

	for i, keyword := range record.Keywords {
		buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, keyword))
	}

	return buf.Bytes(), nil
}

// ToRecordJSON generates a JSON representation of a video record
func ToRecordJSON(record *models.VideoRecord) ([]byte, error) {
	return shared.MarshalJSON(record, true)
}

// WriteCSVExport writes a video's ranking CSV to disk.
//
// The filename defaults to seo_keywords_{video id}.csv in the current
// directory.
func WriteCSVExport(record *models.VideoRecord, filepath string) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("seo_keywords_%s.csv", record.ID)
	}

	csvData, err := ExportToCSV(record.Rankings)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(filepath, csvData, 0644); err != nil {
		return "", fmt.Errorf("failed to write CSV file: %w", err)
	}

	return filepath, nil
}

// formatRank renders whole ranks without a decimal point.
func formatRank(rank float64) string {
	if rank == float64(int64(rank)) {
		return strconv.FormatInt(int64(rank), 10)
	}
	return strconv.FormatFloat(rank, 'f', 1, 64)
}
