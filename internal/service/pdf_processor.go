package service

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"dojangkok-ai/internal/domain"

	"github.com/gen2brain/go-fitz"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

const defaultPageTimeout = 90 * time.Second

// PDFProcessor rasterizes PDF pages for OCR.
type PDFProcessor struct {
	logger      domain.Logger
	dpi         float64
	pageTimeout time.Duration
}

// NewPDFProcessor creates a new PDF processor rendering at domain.RenderDPI.
func NewPDFProcessor(logger domain.Logger) *PDFProcessor {
	api.DisableConfigDir()
	return &PDFProcessor{
		logger:      logger,
		dpi:         domain.RenderDPI,
		pageTimeout: defaultPageTimeout,
	}
}

// RenderPages returns one PNG per page, in page order. MuPDF decides whether a
// document is usable and repairs broken cross-reference tables on its own.
// Any error means the document cannot be processed.
func (p *PDFProcessor) RenderPages(pdfBytes []byte) ([][]byte, error) {
	doc, err := fitz.NewFromMemory(pdfBytes)
	if err != nil {
		if errors.Is(err, fitz.ErrNeedsPassword) && doc != nil {
			doc.Close()
		}
		return nil, p.diagnose(pdfBytes, fmt.Errorf("failed to open PDF: %w", err))
	}
	closeDoc := true
	defer func() {
		if closeDoc {
			doc.Close()
		}
	}()

	numPages := doc.NumPage()
	if numPages <= 0 {
		return nil, p.diagnose(pdfBytes, domain.ErrPDFHasNoPages)
	}

	type pageResult struct {
		png []byte
		err error
	}

	pages := make([][]byte, 0, numPages)
	for pageNum := 0; pageNum < numPages; pageNum++ {
		p.logger.Debug("PDF rendering page", "page", pageNum+1, "total", numPages)
		resultCh := make(chan pageResult, 1)
		go func(idx int) {
			b, e := doc.ImagePNG(idx, p.dpi)
			resultCh <- pageResult{png: b, err: e}
		}(pageNum)

		select {
		case res := <-resultCh:
			if res.err != nil {
				return nil, p.diagnose(pdfBytes, fmt.Errorf("failed to render page %d: %w", pageNum+1, res.err))
			}
			pages = append(pages, res.png)
		case <-time.After(p.pageTimeout):
			p.logger.Warn("PDF page render timeout", "page", pageNum+1, "total", numPages, "timeout_sec", int(p.pageTimeout.Seconds()))
			// the renderer still holds the document; close it once the page returns
			closeDoc = false
			go func() {
				<-resultCh
				doc.Close()
			}()
			return nil, fmt.Errorf("failed to render page %d: timeout after %v", pageNum+1, p.pageTimeout)
		}
	}

	return pages, nil
}

// diagnose labels a MuPDF failure using pdfcpu's reading of the same bytes.
func (p *PDFProcessor) diagnose(pdfBytes []byte, renderErr error) error {
	if errors.Is(renderErr, fitz.ErrNeedsPassword) {
		return fmt.Errorf("pdf is encrypted: %w", renderErr)
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	_, err := api.PageCount(bytes.NewReader(pdfBytes), conf)
	switch {
	case err == nil:
		return renderErr
	case errors.Is(err, pdfcpu.ErrWrongPassword):
		return fmt.Errorf("pdf is encrypted: %w", renderErr)
	default:
		p.logger.Debug("PDF structure check failed", "error", err.Error())
		return fmt.Errorf("pdf is corrupt: %w (structure: %v)", renderErr, err)
	}
}
