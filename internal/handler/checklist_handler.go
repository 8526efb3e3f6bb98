// Package handler provides HTTP handlers for the API.
package handler

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"dojangkok-ai/internal/domain"
	apperrors "dojangkok-ai/pkg/errors"

	"github.com/gorilla/mux"
	"github.com/tidwall/gjson"
)

const maxJSONBodyBytes = 1 << 20

type checklistSyncResponse struct {
	Checklists []string `json:"checklists"`
}

type checklistAcceptedResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// ChecklistHandler handles checklist HTTP requests
type ChecklistHandler struct {
	generator  domain.ChecklistGenerator
	dispatcher domain.JobDispatcher
	runner     domain.TaskRunner
	logger     domain.Logger
}

// NewChecklistHandler creates a new checklist handler
func NewChecklistHandler(
	generator domain.ChecklistGenerator,
	dispatcher domain.JobDispatcher,
	runner domain.TaskRunner,
	logger domain.Logger,
) *ChecklistHandler {
	return &ChecklistHandler{
		generator:  generator,
		dispatcher: dispatcher,
		runner:     runner,
		logger:     logger,
	}
}

// CreateSync generates a checklist and returns it in the response.
func (h *ChecklistHandler) CreateSync(w http.ResponseWriter, r *http.Request) {
	keywords, err := readKeywords(w, r)
	if err != nil {
		writeAppError(w, err, domain.MsgChecklistFailed)
		return
	}

	items, err := h.generator.Generate(r.Context(), "sync", keywords)
	if err != nil {
		h.logger.Error("Checklist generation failed", err, "request_id", requestID(r))
		writeAppError(w, err, domain.MsgChecklistFailed)
		return
	}

	writeJSON(w, http.StatusOK, checklistSyncResponse{Checklists: items})
}

// CreateAsync accepts the request and delivers the checklist by callback.
func (h *ChecklistHandler) CreateAsync(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	keywords, err := readKeywords(w, r)
	if err != nil {
		writeAppError(w, err, domain.MsgChecklistFailed)
		return
	}

	h.runner.Go(r.Context(), "checklist", func(ctx context.Context) {
		h.dispatcher.RunChecklist(ctx, id, keywords)
	})
	h.logger.Info("Checklist request accepted", "case_id", id, "keywords", len(keywords), "request_id", requestID(r))

	writeJSON(w, http.StatusOK, checklistAcceptedResponse{ID: id, Message: domain.MsgAccepted})
}

// readKeywords accepts {"keywords": [...]}, with null, a missing field or an
// empty body meaning no keywords.
func readKeywords(w http.ResponseWriter, r *http.Request) ([]string, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBodyBytes))
	if err != nil {
		return nil, apperrors.NewInvalidInput(domain.MsgInvalidBody, err.Error())
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return []string{}, nil
	}
	if !gjson.ValidBytes(body) {
		return nil, apperrors.NewInvalidInput(domain.MsgInvalidBody)
	}

	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return nil, apperrors.NewInvalidInput(domain.MsgInvalidBody)
	}

	field := doc.Get("keywords")
	if !field.Exists() || field.Type == gjson.Null {
		return []string{}, nil
	}
	if !field.IsArray() {
		return nil, apperrors.NewInvalidInput(domain.MsgKeywordsNotStrings)
	}

	keywords := make([]string, 0, len(field.Array()))
	valid := true
	field.ForEach(func(_, v gjson.Result) bool {
		if v.Type != gjson.String {
			valid = false
			return false
		}
		keywords = append(keywords, v.String())
		return true
	})
	if !valid {
		return nil, apperrors.NewInvalidInput(domain.MsgKeywordsNotStrings)
	}
	return keywords, nil
}
