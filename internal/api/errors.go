package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Status int
	Data   ErrorData
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, http.StatusText(e.Status))
}

// ErrorData is the error payload the backend sends with validation failures.
type ErrorData struct {
	Errors []struct {
		RailsDetails json.RawMessage `json:"rails_details"`
	} `json:"errors"`
	Error  int      `json:"error"`
	Stdtst []string `json:"stdtst"`
}

// ResponseError is a 2xx answer that still carries an errors payload.
type ResponseError struct {
	Errors json.RawMessage
}

func (e *ResponseError) Error() string {
	return "api: response carries errors: " + string(e.Errors)
}

// Notification is what the editor shows after a failed save.
type Notification struct {
	Status   string
	Title    string
	Output   string
	Messages []string
	Button   string
}

// NotificationFromError builds a notification out of a 422 validation
// failure. Other errors report false and should be surfaced as they are.
func NotificationFromError(err error, isNew bool) (Notification, bool) {
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnprocessableEntity {
		return Notification{}, false
	}

	n := Notification{
		Status:   "error",
		Title:    "Failed to save the longread",
		Messages: []string{},
		Button:   "Close",
	}
	if isNew {
		n.Title = "Failed to create a new longread"
	}
	if len(apiErr.Data.Errors) > 0 {
		n.Messages = railsDetails(apiErr.Data.Errors[0].RailsDetails)
	}
	if len(apiErr.Data.Stdtst) > 0 {
		n.Output = strings.Join(apiErr.Data.Stdtst, "\n")
	}
	return n, true
}

// railsDetails flattens a string, a list of strings or a map of field name
// to messages. Map entries come out in key order.
func railsDetails(raw json.RawMessage) []string {
	out := []string{}
	add := func(msgs ...string) {
		for _, m := range msgs {
			if m != "" {
				out = append(out, m)
			}
		}
	}

	var s string
	if json.Unmarshal(raw, &s) == nil {
		add(s)
		return out
	}
	var list []string
	if json.Unmarshal(raw, &list) == nil {
		add(list...)
		return out
	}
	var byField map[string]json.RawMessage
	if json.Unmarshal(raw, &byField) == nil {
		keys := make([]string, 0, len(byField))
		for k := range byField {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			add(railsDetails(byField[k])...)
		}
	}
	return out
}
