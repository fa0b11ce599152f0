// package formatter provides functions to export chunk and segment plan data to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/tandemreader/tandem/internal/models"
	"github.com/tandemreader/tandem/internal/plan"
	"github.com/tandemreader/tandem/internal/shared"
)

// chunkMetadata is the JSON shape written next to tabular exports.
type chunkMetadata struct {
	ID                  string  `json:"id"`
	Title               string  `json:"title,omitempty"`
	SentenceCount       int     `json:"sentence_count"`
	SegmentCount        int     `json:"segment_count"`
	OriginalDuration    float64 `json:"original_duration,omitempty"`
	TranslationDuration float64 `json:"translation_duration,omitempty"`
}

// ExportToCSV converts a segment plan to CSV format with columns: Index, Sentence, Track, Start, End, Duration
func ExportToCSV(p *plan.Plan) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Index", "Sentence", "Track", "Start", "End", "Duration"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, segment := range p.Segments() {
		record := []string{
			strconv.Itoa(i),
			strconv.Itoa(segment.SentenceIndex),
			segment.Track.String(),
			strconv.FormatFloat(segment.Start, 'f', 3, 64),
			strconv.FormatFloat(segment.End, 'f', 3, 64),
			strconv.FormatFloat(segment.Duration(), 'f', 3, 64),
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

// ExportToMarkdown converts a chunk and its segment plan to Markdown format
func ExportToMarkdown(chunk *models.Chunk, p *plan.Plan) ([]byte, error) {
	var buf bytes.Buffer

	title := chunk.Title
	if title == "" {
		title = chunk.ID
	}
	buf.WriteString(fmt.Sprintf("# %s\n\n", title))

	buf.WriteString(fmt.Sprintf("**Sentences**: %d\n", len(chunk.Sentences)))
	if chunk.OriginalDuration > 0 {
		buf.WriteString(fmt.Sprintf("**Original track**: %s\n", shared.FormatSeconds(chunk.OriginalDuration)))
	}
	if chunk.TranslationDuration > 0 {
		buf.WriteString(fmt.Sprintf("**Translation track**: %s\n", shared.FormatSeconds(chunk.TranslationDuration)))
	}
	buf.WriteString("\n## Segments\n\n")

	for i, segment := range p.Segments() {
		buf.WriteString(fmt.Sprintf("%d. %s %s – %s (sentence %d)\n",
			i+1,
			segment.Track,
			shared.FormatSeconds(segment.Start),
			shared.FormatSeconds(segment.End),
			segment.SentenceIndex+1,
		))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a chunk and its segment plan to plain text format
func ExportToText(chunk *models.Chunk, p *plan.Plan) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Chunk: %s\n", chunk.ID))
	if chunk.Title != "" {
		buf.WriteString(fmt.Sprintf("Title: %s\n", chunk.Title))
	}
	buf.WriteString(fmt.Sprintf("Sentences: %d\n", len(chunk.Sentences)))
	buf.WriteString(fmt.Sprintf("Segments: %d\n\n", p.Len()))

	for i, segment := range p.Segments() {
		buf.WriteString(fmt.Sprintf("%d. sentence %d %s [%.3f, %.3f]\n",
			i+1, segment.SentenceIndex, segment.Track, segment.Start, segment.End))
	}

	return buf.Bytes(), nil
}

// ToMetadataJSON generates a JSON representation of chunk metadata (without sentence text)
func ToMetadataJSON(chunk *models.Chunk, p *plan.Plan) ([]byte, error) {
	meta := chunkMetadata{
		ID:                  chunk.ID,
		Title:               chunk.Title,
		SentenceCount:       len(chunk.Sentences),
		SegmentCount:        p.Len(),
		OriginalDuration:    chunk.OriginalDuration,
		TranslationDuration: chunk.TranslationDuration,
	}
	return shared.MarshalJSON(meta, true)
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	SegmentsFile string
	MetadataFile string
}

// WriteCSVExport exports a segment plan to CSV format with an accompanying metadata JSON file.
//
// Defaults to chunk ID as the base filename & creates {base}_segments.csv and {base}_metadata.json
func WriteCSVExport(chunk *models.Chunk, p *plan.Plan, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = chunk.ID
	}

	csvData, err := ExportToCSV(p)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	segmentsFile := baseFilepath + "_segments.csv"
	if err := os.WriteFile(segmentsFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadataJSON, err := ToMetadataJSON(chunk, p)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := baseFilepath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{
		SegmentsFile: segmentsFile,
		MetadataFile: metadataFile,
	}, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory string
	Files     []string
}

// WriteMarkdownExport exports a chunk's segment plan to Markdown format in a dedicated directory.
//
// Directory name defaults to the chunk ID. Creates {dir}/README.md.
func WriteMarkdownExport(chunk *models.Chunk, p *plan.Plan, outputDir string) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = chunk.ID
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	mdData, err := ExportToMarkdown(chunk, p)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := fmt.Sprintf("%s/README.md", outputDir)
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}

	return &MarkdownExportResult{
		Directory: outputDir,
		Files:     []string{mdFile},
	}, nil
}

// WriteTextExport exports a chunk's segment plan to plain text format.
//
// Defaults to {chunk.ID}_segments.txt as the filename.
func WriteTextExport(chunk *models.Chunk, p *plan.Plan, filepath string) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("%s_segments.txt", chunk.ID)
	}

	textData, err := ExportToText(chunk, p)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(filepath, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return filepath, nil
}
