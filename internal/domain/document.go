package domain

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// Document is one uploaded or downloaded source file. Content is never
// modified after the document is read.
type Document struct {
	Filename string `json:"filename"`
	Content  []byte `json:"-"`
	DocType  string `json:"doc_type"`
}

// Validate checks that the document can enter the contract pipeline.
func (d Document) Validate() error {
	if strings.TrimSpace(d.Filename) == "" {
		return &ValidationError{Field: "filename", Message: "filename is required"}
	}
	if !IsSupportedFile(d.Filename) {
		return &ValidationError{Field: "filename", Message: "unsupported file type: " + d.Filename}
	}
	if len(d.Content) == 0 {
		return &ValidationError{Field: "content", Message: "file is empty"}
	}
	return nil
}

// FileRef points at a remote source file (typically a presigned object URL).
type FileRef struct {
	URL      string `json:"url"`
	Filename string `json:"filename,omitempty"`
	DocType  string `json:"doc_type"`
}

// Name returns the explicit filename, or the last path segment of the URL.
func (f FileRef) Name() string {
	if name := strings.TrimSpace(f.Filename); name != "" {
		return name
	}
	u, err := url.Parse(f.URL)
	if err != nil {
		return ""
	}
	base := path.Base(u.Path)
	if base == "." || base == "/" {
		return ""
	}
	return base
}

// Validate checks the reference before anything is downloaded.
func (f FileRef) Validate() error {
	u, err := url.Parse(f.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &ValidationError{Field: "url", Message: fmt.Sprintf("invalid url %q", f.URL)}
	}
	if strings.TrimSpace(f.DocType) == "" {
		return &ValidationError{Field: "doc_type", Message: "doc_type is required"}
	}
	return nil
}

// PageText is the OCR output of a single page. PageNumber is 1-based per file.
type PageText struct {
	DocType    string `json:"doc_type"`
	File       string `json:"file"`
	PageNumber int    `json:"page"`
	Text       string `json:"text"`
}

// PageSummary is the model-extracted key fields of a single page.
type PageSummary struct {
	DocType    string `json:"doc_type"`
	File       string `json:"file"`
	PageNumber int    `json:"page"`
	Summary    string `json:"summary"`
}

// ContractState is the value threaded through the easy-contract stages.
// Each stage returns a new value; none of the slices are shared with the caller.
type ContractState struct {
	CaseID        int64
	Documents     []Document
	PageTexts     []PageText
	PageSummaries []PageSummary
	Markdown      string
}
