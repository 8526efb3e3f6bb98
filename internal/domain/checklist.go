package domain

// ChecklistState is the value threaded through the checklist stages.
type ChecklistState struct {
	CaseID   string
	Keywords []string
	Items    []string
}

// ErrorBody is the {code, message} pair used in HTTP error responses and
// error callbacks.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps ErrorBody as {"error": {...}}.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ChecklistCallback is delivered to the backend when a checklist run ends.
// Exactly one of Checklists or Error is set.
type ChecklistCallback struct {
	Checklists []string   `json:"checklists,omitempty"`
	Error      *ErrorBody `json:"error,omitempty"`
}

// ChecklistSucceeded builds the success callback payload.
func ChecklistSucceeded(items []string) ChecklistCallback {
	return ChecklistCallback{Checklists: items}
}

// ChecklistFailed builds the error callback payload.
func ChecklistFailed(code, message string) ChecklistCallback {
	return ChecklistCallback{Error: &ErrorBody{Code: code, Message: message}}
}
