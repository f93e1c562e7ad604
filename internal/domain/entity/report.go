package entity

import "time"

// ReportSection is one table of a closing report.
type ReportSection struct {
	Title  string   `json:"title"`
	Header []string `json:"header"`
	Rows   [][]any  `json:"rows"`
}

// Report is the renderer-neutral description of a closing report.
type Report struct {
	Title    string          `json:"title"`
	Subtitle string          `json:"subtitle"`
	Date     time.Time       `json:"date"`
	Sections []ReportSection `json:"sections"`
	Note     string          `json:"note,omitempty"`
}

// Artifact is a rendered report ready to be stored or downloaded.
type Artifact struct {
	Name        string
	ContentType string
	Data        []byte
}
