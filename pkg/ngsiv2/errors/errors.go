package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

var ErrAlreadyExists = fmt.Errorf("already exists")
var ErrInternal = fmt.Errorf("internal error")
var ErrNotFound = fmt.Errorf("not found")
var ErrRequest = fmt.Errorf("request error")
var ErrBadRequest = fmt.Errorf("bad request")
var ErrBadResponse = fmt.Errorf("bad response")
var ErrTypeMismatch = fmt.Errorf("entity type mismatch")

type myError struct {
	msg    string
	target error
}

func (m myError) Error() string        { return m.msg }
func (m myError) Is(target error) bool { return target == m.target }

func NewAlreadyExistsError(msg string) error {
	return &myError{
		msg:    msg,
		target: ErrAlreadyExists,
	}
}

func NewBadRequestDataError(msg string) error {
	return &myError{
		msg:    msg,
		target: ErrBadRequest,
	}
}

func NewBadResponseError(msg string) error {
	return &myError{
		msg:    msg,
		target: ErrBadResponse,
	}
}

func NewNotFoundError(msg string) error {
	return &myError{
		msg:    msg,
		target: ErrNotFound,
	}
}

func NewInternalError(msg string) error {
	return &myError{
		msg:    msg,
		target: ErrInternal,
	}
}

// NewTypeMismatchError returns an error that matches ErrTypeMismatch. Callers
// that convert wire data into typed entities treat it as a recoverable signal
// and filter the offending entity instead of failing.
func NewTypeMismatchError(expected, actual string) error {
	return &myError{
		msg:    fmt.Sprintf("entity type mismatch: expected \"%s\" but got \"%s\"", expected, actual),
		target: ErrTypeMismatch,
	}
}

// NewErrorFromServiceResponse maps a non-2xx response from an NGSI-v2 service
// to one of the error categories in this package. Bodies are expected to be
// error documents on the form {"error": ..., "description": ...} but missing
// or malformed bodies are tolerated and mapped on status code alone.
func NewErrorFromServiceResponse(code int, body []byte) error {
	report := &struct {
		Error       string `json:"error"`
		Description string `json:"description"`
	}{}

	// best effort decode, Orion is known to return text/plain on some paths
	json.Unmarshal(body, report)

	detail := report.Description
	if detail == "" {
		detail = strings.TrimSpace(string(body))
	}

	name := strings.ToLower(strings.ReplaceAll(report.Error, " ", ""))

	if code == http.StatusNotFound || name == "notfound" {
		return NewNotFoundError(detail)
	}

	if name == "badrequest" || name == "parseerror" {
		return NewBadRequestDataError(detail)
	}

	if name == "unprocessable" && strings.Contains(report.Description, "Already Exists") {
		return NewAlreadyExistsError(detail)
	}

	if code == http.StatusBadRequest {
		return NewBadRequestDataError(detail)
	}

	return NewInternalError(
		fmt.Sprintf("[code: %d] unexpected error \"%s\" with description \"%s\" received",
			code, report.Error, report.Description,
		),
	)
}

//ErrorReport is the error document returned by NGSI-v2 services, holding an
//error name and a human readable description
type ErrorReport struct {
	err         string
	description string
	code        int
}

const (
	//ErrorReportContentType is used when returning NGSI-v2 error documents
	ErrorReportContentType string = "application/json"
)

//NewParseError creates an ErrorReport for requests with a malformed payload
func NewParseError(description string) *ErrorReport {
	return &ErrorReport{
		err:         "ParseError",
		description: description,
		code:        http.StatusBadRequest,
	}
}

//ReportParseError creates a ParseError report and sends it to the supplied http.ResponseWriter
func ReportParseError(w http.ResponseWriter, description string) {
	pe := NewParseError(description)
	pe.WriteResponse(w)
}

//NewBadRequest creates an ErrorReport for syntactically valid but unprocessable requests
func NewBadRequest(description string) *ErrorReport {
	return &ErrorReport{
		err:         "BadRequest",
		description: description,
		code:        http.StatusBadRequest,
	}
}

//ReportBadRequest creates a BadRequest report and sends it to the supplied http.ResponseWriter
func ReportBadRequest(w http.ResponseWriter, description string) {
	br := NewBadRequest(description)
	br.WriteResponse(w)
}

//NewNotFound creates an ErrorReport for requests that address a nonexisting resource
func NewNotFound(description string) *ErrorReport {
	return &ErrorReport{
		err:         "NotFound",
		description: description,
		code:        http.StatusNotFound,
	}
}

//ReportNotFound creates a NotFound report and sends it to the supplied http.ResponseWriter
func ReportNotFound(w http.ResponseWriter, description string) {
	nf := NewNotFound(description)
	nf.WriteResponse(w)
}

//NewUnauthorized creates an ErrorReport for requests that fail the access policy
func NewUnauthorized(description string) *ErrorReport {
	return &ErrorReport{
		err:         "Unauthorized",
		description: description,
		code:        http.StatusUnauthorized,
	}
}

//ReportUnauthorized creates an Unauthorized report and sends it to the supplied http.ResponseWriter
func ReportUnauthorized(w http.ResponseWriter, description string) {
	ur := NewUnauthorized(description)
	ur.WriteResponse(w)
}

//NewInternalServerError creates an ErrorReport for errors during operation execution
func NewInternalServerError(description string) *ErrorReport {
	return &ErrorReport{
		err:         "InternalServerError",
		description: description,
		code:        http.StatusInternalServerError,
	}
}

//ReportInternalServerError creates an InternalServerError report and sends it to the supplied http.ResponseWriter
func ReportInternalServerError(w http.ResponseWriter, description string) {
	ise := NewInternalServerError(description)
	ise.WriteResponse(w)
}

//MarshalJSON is called when an ErrorReport instance should be serialized to JSON
func (e *ErrorReport) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Error       string `json:"error"`
		Description string `json:"description"`
	}{
		Error:       e.err,
		Description: e.description,
	})
}

//ResponseCode returns the HTTP response code to be used when returning a specific report
func (e *ErrorReport) ResponseCode() int {
	if e.code != 0 {
		return e.code
	}

	return http.StatusBadRequest
}

//WriteResponse writes the contents of this instance to a http.ResponseWriter
func (e *ErrorReport) WriteResponse(w http.ResponseWriter) {
	w.Header().Add("Content-Type", ErrorReportContentType)
	w.WriteHeader(e.ResponseCode())

	body, err := json.Marshal(e)
	if err == nil {
		w.Write(body)
	}
}
