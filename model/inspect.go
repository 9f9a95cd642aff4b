package model

import "fmt"

// Engine identifies a metadata extraction backend.
type Engine string

const (
	// EngineMediaInfo is the mediainfo command line tool.
	EngineMediaInfo Engine = "mediainfo"
)

// ParseEngine resolves an engine name from config or CLI flags.
func ParseEngine(s string) (Engine, error) {
	switch s {
	case "", "mediainfo":
		return EngineMediaInfo, nil
	default:
		return "", fmt.Errorf("unsupported engine: %q", s)
	}
}

// InfoFormat is the report format requested from the extraction tool.
type InfoFormat string

const (
	FormatJSON InfoFormat = "json"
	FormatHTML InfoFormat = "html"
	FormatXML  InfoFormat = "xml"
)

// ParseInfoFormat resolves a format name. The empty string defaults to JSON.
func ParseInfoFormat(s string) (InfoFormat, error) {
	switch s {
	case "", "json", "JSON":
		return FormatJSON, nil
	case "html", "HTML":
		return FormatHTML, nil
	case "xml", "XML":
		return FormatXML, nil
	default:
		return "", fmt.Errorf("unsupported format: %q", s)
	}
}

// Extension returns the file extension used for report files of this format.
func (f InfoFormat) Extension() string {
	switch f {
	case FormatHTML:
		return ".html"
	case FormatXML:
		return ".xml"
	default:
		return ".json"
	}
}

// ContentType returns the MIME type used when a report is served inline.
func (f InfoFormat) ContentType() string {
	switch f {
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatXML:
		return "text/xml; charset=utf-8"
	default:
		return "application/json"
	}
}

// InfoRequest describes one metadata extraction run.
type InfoRequest struct {
	// Input is the path of the media file to analyze.
	Input string `json:"input"`
	// Format selects the report format. The zero value means JSON.
	Format InfoFormat `json:"format,omitempty"`
	// Full requests the complete metadata report. When nil it defaults to true.
	Full *bool `json:"full,omitempty"`
	// OutputFile is the report file stem. When nil the report is returned
	// inline; when empty a random stem is generated.
	OutputFile *string `json:"output_file,omitempty"`
}

// InfoOutput describes where the report of a run ended up.
type InfoOutput struct {
	// File is the written report path, present only when a file was requested.
	File *string `json:"file"`
}

// InfoResponse is the result of a successful extraction run.
type InfoResponse struct {
	Output InfoOutput `json:"output"`
}
