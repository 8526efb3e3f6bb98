package domain

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrNoDocuments           = errors.New("no documents to process")
	ErrEmptyMarkdown         = errors.New("easy contract generation returned empty markdown")
	ErrPDFHasNoPages         = errors.New("pdf has no pages")
	ErrCallbackNotConfigured = errors.New("callback base url not configured")
)

// User-facing messages attached to error responses and error callbacks.
const (
	MsgChecklistFailed       = "체크리스트 생성 중 오류가 발생하였습니다."
	MsgEasyContractFailed    = "쉬운 계약서 생성 중 오류가 발생하였습니다."
	MsgUnprocessableDocument = "문서를 처리할 수 없습니다. 파일이 손상되었거나 암호화되어 있을 수 있습니다."
	MsgDownloadFailed        = "파일을 다운로드할 수 없습니다."
	MsgKeywordsNotStrings    = "keywords는 문자열 배열이어야 합니다."
	MsgInvalidBody           = "요청 본문이 올바른 JSON 형식이 아닙니다."
	MsgDocTypesMismatch      = "doc_types 길이는 files 길이와 같아야 합니다."
	MsgUnsupportedFileType   = "pdf/png/jpg 파일만 업로드할 수 있습니다."
	MsgEmptyFile             = "비어있는 파일은 업로드할 수 없습니다."
	MsgFileTooLarge          = "업로드할 수 있는 파일 크기를 초과했습니다."
	MsgInvalidID             = "id는 정수여야 합니다."
	MsgMissingDocType        = "doc_type은 필수입니다."
	MsgInvalidURL            = "url 형식이 올바르지 않습니다."
	MsgAccepted              = "요청이 접수되었습니다."
)

// FileCountMessage is the file-count error for the configured upload limit.
func FileCountMessage(maxFiles int) string {
	return fmt.Sprintf("files는 1개 이상 %d개 이하로 업로드해야 합니다.", maxFiles)
}

// ValidationError represents a validation error with field and message information.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}
