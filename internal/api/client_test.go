package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/longread/internal/model"
)

type captured struct {
	Method string
	Path   string
	Auth   string
	Body   map[string]any
}

func serve(t *testing.T, status int, reply string) (*httptest.Server, *captured) {
	t.Helper()
	got := &captured{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.Method = r.Method
		got.Path = r.URL.Path
		got.Auth = r.Header.Get("Authorization")
		b, _ := io.ReadAll(r.Body)
		if len(b) > 0 {
			assert.NoError(t, json.Unmarshal(b, &got.Body))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)
	return srv, got
}

func sampleDoc() model.Document {
	minutes := 12
	imgID := 42
	return model.Document{
		Title:                   "Longread",
		Version:                 1,
		InternalDescription:     "internal",
		ApproximateProgressTime: &minutes,
		ReusableContentEnabled:  true,
		Elements: []model.Element{
			{ID: "t", Type: model.ElementText, Value: "<p>hi</p>"},
			{ID: "i", Type: model.ElementImage, Images: []model.Image{{URL: "u", ID: &imgID}}},
		},
	}
}

func TestFetch(t *testing.T) {
	srv, got := serve(t, http.StatusOK, `{
		"longread": {
			"id": 7,
			"title": "Remote",
			"description": "desc",
			"approximate_progress_time": 5,
			"reusable": true,
			"is_google_link_updated": false,
			"content": {"version": 1, "elements": [{"id": "t", "type": "text", "settings": {"indent": 24}, "value": "x"}]}
		},
		"images": []
	}`)

	doc, err := New(srv.URL, "tok").Fetch(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, http.MethodGet, got.Method)
	assert.Equal(t, "/backend/admin/api/lesson_resources/longreads/7", got.Path)
	assert.Equal(t, "Bearer tok", got.Auth)

	assert.Equal(t, "Remote", doc.Title)
	assert.Equal(t, "desc", doc.InternalDescription)
	require.NotNil(t, doc.ApproximateProgressTime)
	assert.Equal(t, 5, *doc.ApproximateProgressTime)
	assert.True(t, doc.ReusableContentEnabled)
	assert.Equal(t, 7, doc.RemoteID)
	require.Len(t, doc.Elements, 1)
	assert.Equal(t, "x", doc.Elements[0].Value)
}

func TestCreate_WireShape(t *testing.T) {
	srv, got := serve(t, http.StatusCreated, `{"longread": {"id": 99, "title": "Longread", "content": {"version": 1, "elements": []}}}`)
	lesson := 3

	resp, err := New(srv.URL, "").Create(context.Background(), &lesson, sampleDoc())
	require.NoError(t, err)
	assert.Equal(t, 99, resp.Longread.ID)

	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "/backend/admin/api/lesson_resources/longreads", got.Path)
	assert.Empty(t, got.Auth)
	assert.EqualValues(t, 3, got.Body["lesson_id"])

	lr := got.Body["longread"].(map[string]any)
	assert.Equal(t, "Longread", lr["title"])
	assert.Equal(t, "internal", lr["description"])
	assert.EqualValues(t, 12, lr["approximate_progress_time"])
	assert.Equal(t, true, lr["reusable"])
	assert.Equal(t, false, lr["is_google_link_updated"])
	assert.Equal(t, []any{float64(42)}, lr["image_ids"])
	content := lr["content"].(map[string]any)
	assert.EqualValues(t, 1, content["version"])
	assert.Len(t, content["elements"], 2)
}

func TestUpdate(t *testing.T) {
	srv, got := serve(t, http.StatusOK, `{"longread": {"id": 5}}`)
	_, err := New(srv.URL+"/", "tok").Update(context.Background(), 5, sampleDoc())
	require.NoError(t, err)
	assert.Equal(t, http.MethodPatch, got.Method)
	assert.Equal(t, "/backend/admin/api/lesson_resources/longreads/5", got.Path)
	_, hasLesson := got.Body["lesson_id"]
	assert.False(t, hasLesson)
}

func TestUpdate_SendsEmptyImageIDs(t *testing.T) {
	srv, got := serve(t, http.StatusOK, `{"longread": {"id": 5}}`)
	doc := sampleDoc()
	doc.Elements = doc.Elements[:1]

	_, err := New(srv.URL, "tok").Update(context.Background(), 5, doc)
	require.NoError(t, err)
	lr := got.Body["longread"].(map[string]any)
	ids, ok := lr["image_ids"]
	require.True(t, ok, "image_ids must be sent so removed images get detached")
	assert.Equal(t, []any{}, ids)
}

func TestResponseWithErrors(t *testing.T) {
	srv, _ := serve(t, http.StatusOK, `{"longread": {}, "errors": ["boom"]}`)
	_, err := New(srv.URL, "").Update(context.Background(), 1, sampleDoc())
	var respErr *ResponseError
	require.True(t, errors.As(err, &respErr))
	assert.Contains(t, err.Error(), "boom")
}

func TestUnprocessable_Notification(t *testing.T) {
	tests := []struct {
		name     string
		details  string
		messages []string
	}{
		{"string", `"Title is taken"`, []string{"Title is taken"}},
		{"list", `["a", "", "b"]`, []string{"a", "b"}},
		{"map", `{"title": ["too long"], "content": ["broken"]}`, []string{"broken", "too long"}},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			reply := `{"errors": [{"rails_details": ` + tc.details + `}], "stdtst": ["line 1", "line 2"]}`
			srv, _ := serve(t, http.StatusUnprocessableEntity, reply)

			_, err := New(srv.URL, "").Create(context.Background(), nil, sampleDoc())
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)

			n, ok := NotificationFromError(err, true)
			require.True(t, ok)
			assert.Equal(t, "error", n.Status)
			assert.Equal(t, "Failed to create a new longread", n.Title)
			assert.Equal(t, tc.messages, n.Messages)
			assert.Equal(t, "line 1\nline 2", n.Output)
		})
	}
}

func TestNotificationFromError_OtherErrors(t *testing.T) {
	_, ok := NotificationFromError(&APIError{Status: http.StatusInternalServerError}, false)
	assert.False(t, ok)
	_, ok = NotificationFromError(errors.New("boom"), false)
	assert.False(t, ok)

	n, ok := NotificationFromError(&APIError{Status: http.StatusUnprocessableEntity}, false)
	require.True(t, ok)
	assert.Equal(t, "Failed to save the longread", n.Title)
	assert.Empty(t, n.Messages)
}

func TestWithDebug_DumpsTraffic(t *testing.T) {
	srv, _ := serve(t, http.StatusOK, `{"longread": {"id": 1, "content": {"version": 1, "elements": []}}}`)
	var buf bytes.Buffer

	_, err := New(srv.URL, "", WithDebug(&buf)).Fetch(context.Background(), 1)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "/backend/admin/api/lesson_resources/longreads/1")
}
