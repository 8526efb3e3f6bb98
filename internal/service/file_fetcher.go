package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"dojangkok-ai/internal/domain"
	"dojangkok-ai/internal/infra/httpclient"
	apperrors "dojangkok-ai/pkg/errors"

	"github.com/go-resty/resty/v2"
	"golang.org/x/sync/errgroup"
)

// HTTPFileFetcher downloads source files from presigned URLs.
type HTTPFileFetcher struct {
	http        *resty.Client
	maxSize     int64
	concurrency int
	logger      domain.Logger
}

// NewHTTPFileFetcher creates a fetcher that downloads at most concurrency
// files at once and rejects files larger than maxSize bytes.
func NewHTTPFileFetcher(hc *http.Client, maxSize int64, concurrency int, logger domain.Logger) *HTTPFileFetcher {
	if concurrency <= 0 {
		concurrency = 1
	}
	client := httpclient.NewResty(hc, "").SetHeader("Accept", "*/*")
	if maxSize > 0 {
		// resty stops reading the body once the limit is crossed
		client.SetResponseBodyLimit(int(maxSize))
	}
	return &HTTPFileFetcher{
		http:        client,
		maxSize:     maxSize,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Fetch downloads every reference and returns documents in input order. Any
// failure cancels the remaining downloads and is reported as DOWNLOAD_FAILED.
func (f *HTTPFileFetcher) Fetch(ctx context.Context, refs []domain.FileRef) ([]domain.Document, error) {
	docs := make([]domain.Document, len(refs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.concurrency)
	for i, ref := range refs {
		g.Go(func() error {
			body, err := f.download(gctx, ref.URL)
			if err != nil {
				return fmt.Errorf("download %s: %w", ref.Name(), err)
			}
			docs[i] = domain.Document{Filename: ref.Name(), Content: body, DocType: ref.DocType}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		f.logger.Error("File download failed", err, "files", len(refs))
		return nil, apperrors.NewDownloadFailed(domain.MsgDownloadFailed, err)
	}
	return docs, nil
}

func (f *HTTPFileFetcher) download(ctx context.Context, url string) ([]byte, error) {
	start := time.Now()
	resp, err := f.http.R().SetContext(ctx).Get(url)
	if err != nil {
		if errors.Is(err, resty.ErrResponseBodyTooLarge) {
			return nil, fmt.Errorf("file exceeds %d bytes: %w", f.maxSize, err)
		}
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("non-2xx status: %d", resp.StatusCode())
	}

	body := resp.Body()
	f.logger.Debug("File downloaded", "bytes", len(body), "elapsed_ms", time.Since(start).Milliseconds())
	return body, nil
}
