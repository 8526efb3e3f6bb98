package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"

	"dojangkok-ai/internal/domain"
	apperrors "dojangkok-ai/pkg/errors"

	"github.com/gorilla/mux"
)

const (
	multipartMemory     = 32 << 20
	markdownContentType = "text/markdown; charset=utf-8"
)

type contractAcceptedResponse struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

type contractURLRequest struct {
	Files []domain.FileRef `json:"files"`
}

// ContractHandler handles easy-contract HTTP requests
type ContractHandler struct {
	generator   domain.ContractGenerator
	dispatcher  domain.JobDispatcher
	runner      domain.TaskRunner
	fetcher     domain.FileFetcher
	maxFiles    int
	maxFileSize int64
	logger      domain.Logger
}

// NewContractHandler creates a new easy-contract handler
func NewContractHandler(
	generator domain.ContractGenerator,
	dispatcher domain.JobDispatcher,
	runner domain.TaskRunner,
	fetcher domain.FileFetcher,
	maxFiles int,
	maxFileSize int64,
	logger domain.Logger,
) *ContractHandler {
	return &ContractHandler{
		generator:   generator,
		dispatcher:  dispatcher,
		runner:      runner,
		fetcher:     fetcher,
		maxFiles:    maxFiles,
		maxFileSize: maxFileSize,
		logger:      logger,
	}
}

// CreateSync runs the pipeline inside the request and returns the markdown.
func (h *ContractHandler) CreateSync(w http.ResponseWriter, r *http.Request) {
	docs, err := h.readDocuments(w, r)
	if err != nil {
		h.logFailure(r, "Easy contract request rejected", err)
		writeAppError(w, err, domain.MsgEasyContractFailed)
		return
	}

	md, err := h.generator.Generate(r.Context(), -1, docs)
	if err != nil {
		h.logFailure(r, "Easy contract generation failed", err)
		writeAppError(w, err, domain.MsgEasyContractFailed)
		return
	}

	w.Header().Set("Content-Type", markdownContentType)
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, md)
}

// CreateAsync validates the documents, answers 202 and delivers the result
// by callback.
func (h *ContractHandler) CreateAsync(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, apperrors.KindInvalidInput.Code(), domain.MsgInvalidID)
		return
	}

	docs, err := h.readDocuments(w, r)
	if err != nil {
		h.logFailure(r, "Easy contract request rejected", err, "case_id", id)
		writeAppError(w, err, domain.MsgEasyContractFailed)
		return
	}

	h.runner.Go(r.Context(), "easy_contract", func(ctx context.Context) {
		h.dispatcher.RunEasyContract(ctx, id, docs)
	})
	h.logger.Info("Easy contract request accepted", "case_id", id, "files", len(docs), "request_id", requestID(r))

	writeJSON(w, http.StatusAccepted, contractAcceptedResponse{ID: id, Message: domain.MsgAccepted})
}

// logFailure logs rejected input as a warning and everything else as an error.
func (h *ContractHandler) logFailure(r *http.Request, msg string, err error, fields ...interface{}) {
	fields = append(fields, "request_id", requestID(r))
	if apperrors.KindOf(err).IsValidation() {
		h.logger.Warn(msg, append(fields, "error", err.Error())...)
		return
	}
	h.logger.Error(msg, err, fields...)
}

// readDocuments accepts either a multipart upload (files + doc_types) or a
// JSON list of presigned URLs.
func (h *ContractHandler) readDocuments(w http.ResponseWriter, r *http.Request) ([]domain.Document, error) {
	var (
		docs []domain.Document
		err  error
	)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		docs, err = h.readURLDocuments(w, r)
	} else {
		docs, err = h.readUploadedDocuments(w, r)
	}
	if err != nil {
		return nil, err
	}
	if err := validateDocuments(docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// validateDocuments is the last check before the pipeline: every document
// needs a supported name and content.
func validateDocuments(docs []domain.Document) error {
	for _, d := range docs {
		err := d.Validate()
		if err == nil {
			continue
		}
		var verr *domain.ValidationError
		if errors.As(err, &verr) && verr.Field == "content" {
			return apperrors.NewInvalidInput(domain.MsgEmptyFile, d.Filename)
		}
		return apperrors.NewUnsupportedFileType(domain.MsgUnsupportedFileType)
	}
	return nil
}

func (h *ContractHandler) readUploadedDocuments(w http.ResponseWriter, r *http.Request) ([]domain.Document, error) {
	r.Body = http.MaxBytesReader(w, r.Body, int64(h.maxFiles)*h.maxFileSize+maxJSONBodyBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, apperrors.NewInvalidInput(domain.MsgFileTooLarge)
		}
		return nil, apperrors.NewInvalidInput(domain.FileCountMessage(h.maxFiles), err.Error())
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	files := r.MultipartForm.File["files"]
	docTypes := r.MultipartForm.Value["doc_types"]

	if len(files) < 1 || len(files) > h.maxFiles {
		return nil, apperrors.NewInvalidInput(domain.FileCountMessage(h.maxFiles))
	}
	if len(docTypes) != len(files) {
		return nil, apperrors.NewDocTypesMismatch(domain.MsgDocTypesMismatch)
	}
	for _, fh := range files {
		if !domain.IsSupportedFile(fh.Filename) {
			return nil, apperrors.NewUnsupportedFileType(domain.MsgUnsupportedFileType)
		}
	}

	docs := make([]domain.Document, 0, len(files))
	for i, fh := range files {
		content, err := h.readPart(fh)
		if err != nil {
			return nil, err
		}
		docs = append(docs, domain.Document{Filename: fh.Filename, Content: content, DocType: docTypes[i]})
	}
	return docs, nil
}

func (h *ContractHandler) readPart(fh *multipart.FileHeader) ([]byte, error) {
	if fh.Size > h.maxFileSize {
		return nil, apperrors.NewInvalidInput(domain.MsgFileTooLarge, fh.Filename)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, apperrors.NewInvalidInput(domain.MsgEmptyFile, err.Error())
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, h.maxFileSize+1))
	if err != nil {
		return nil, apperrors.NewInvalidInput(domain.MsgEmptyFile, err.Error())
	}
	if int64(len(content)) > h.maxFileSize {
		return nil, apperrors.NewInvalidInput(domain.MsgFileTooLarge, fh.Filename)
	}
	if len(content) == 0 {
		return nil, apperrors.NewInvalidInput(domain.MsgEmptyFile, fh.Filename)
	}
	return content, nil
}

func (h *ContractHandler) readURLDocuments(w http.ResponseWriter, r *http.Request) ([]domain.Document, error) {
	var req contractURLRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)).Decode(&req); err != nil {
		return nil, apperrors.NewInvalidInput(domain.MsgInvalidBody, err.Error())
	}

	if len(req.Files) < 1 || len(req.Files) > h.maxFiles {
		return nil, apperrors.NewInvalidInput(domain.FileCountMessage(h.maxFiles))
	}
	for _, ref := range req.Files {
		if err := ref.Validate(); err != nil {
			var verr *domain.ValidationError
			if errors.As(err, &verr) && verr.Field == "doc_type" {
				return nil, apperrors.NewInvalidInput(domain.MsgMissingDocType, err.Error())
			}
			return nil, apperrors.NewInvalidInput(domain.MsgInvalidURL, err.Error())
		}
		if !domain.IsSupportedFile(ref.Name()) {
			return nil, apperrors.NewUnsupportedFileType(domain.MsgUnsupportedFileType)
		}
	}

	return h.fetcher.Fetch(r.Context(), req.Files)
}
