package remote

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
)

const (
	ErrorListing        = "error listing resources"
	ErrorGetting        = "error getting resource"
	ErrorCreating       = "error creating resource"
	ErrorUpdating       = "error updating resource"
	ErrorDeleting       = "error deleting resource"
	ErrorSettingStatus  = "error setting resource status"
	ErrorUploading      = "error uploading media"
	ErrorAuthenticating = "error authenticating"
)

// ErrorKind classifies a failed call.
type ErrorKind int

const (
	TransportError ErrorKind = iota + 1 // No response was received
	ClientError                         // 4xx, usually a validation or business error
	ServerError                         // 5xx or an unusable success response
)

var errorKindNames = [...]string{"transport", "client", "server"}

func (k ErrorKind) String() string {
	if k < TransportError || int(k) > len(errorKindNames) {
		return "unknown"
	}
	return errorKindNames[k-1]
}

// Error is the failure of a call to the API.
type Error struct {
	Kind       ErrorKind
	StatusCode int    // 0 for transport errors
	Message    string // Server supplied message when present
	cause      error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s error (%d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// MessageOf returns the message to show for err: the server message of an Error, err.Error() otherwise.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var rerr *Error
	if stderrors.As(err, &rerr) {
		return rerr.Message
	}
	return err.Error()
}

// errorBody is the body of a failed response.
type errorBody struct {
	Message string `json:"message"`
}

// checkResponse turns a resty outcome into an *Error, or nil if the call succeeded.
func checkResponse(response *resty.Response, err error) error {
	if response == nil || response.RawResponse == nil {
		if err == nil {
			err = fmt.Errorf("no response")
		}
		return &Error{Kind: TransportError, Message: err.Error(), cause: err}
	}

	statusCode := response.StatusCode()
	if !response.IsSuccess() {
		e := &Error{Kind: ClientError, StatusCode: statusCode, cause: err}
		if statusCode >= http.StatusInternalServerError {
			e.Kind = ServerError
		}
		if body, ok := response.Error().(*errorBody); ok && body != nil && body.Message != "" {
			e.Message = body.Message
		} else {
			e.Message = http.StatusText(statusCode)
		}
		return e
	}

	// A success status with a body that could not be decoded.
	if err != nil {
		return &Error{Kind: ServerError, StatusCode: statusCode, Message: "invalid response body", cause: err}
	}

	return nil
}
