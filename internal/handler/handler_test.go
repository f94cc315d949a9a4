package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dukerupert/ecotrack/internal/gamify"
)

func TestNumberUnmarshal(t *testing.T) {
	tests := []struct {
		in    string
		set   bool
		value string
	}{
		{`{"n": 4.5}`, true, "4.5"},
		{`{"n": "12.25"}`, true, "12.25"},
		{`{"n": " 3 "}`, true, "3"},
		{`{"n": -1.5}`, true, "-1.5"},
		{`{"n": null}`, false, "0"},
		{`{"n": ""}`, false, "0"},
		{`{}`, false, "0"},
	}
	for _, tt := range tests {
		var v struct {
			N number `json:"n"`
		}
		if err := json.Unmarshal([]byte(tt.in), &v); err != nil {
			t.Errorf("%s: unexpected error: %v", tt.in, err)
			continue
		}
		if v.N.Set != tt.set {
			t.Errorf("%s: Set = %v, want %v", tt.in, v.N.Set, tt.set)
		}
		if got := v.N.Decimal().String(); got != tt.value {
			t.Errorf("%s: Decimal() = %s, want %s", tt.in, got, tt.value)
		}
		if (v.N.Float() != nil) != tt.set {
			t.Errorf("%s: Float() nil-ness mismatch", tt.in)
		}
	}
}

func TestNumberUnmarshalRejectsText(t *testing.T) {
	var v struct {
		N number `json:"n"`
	}
	if err := json.Unmarshal([]byte(`{"n": "lots"}`), &v); err == nil {
		t.Error("expected error for non-numeric string")
	}
}

func TestWriteServiceError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"validation", &gamify.ValidationError{Msg: "category is required"}, http.StatusBadRequest, "category is required"},
		{"wrapped validation", fmt.Errorf("create: %w", &gamify.ValidationError{Msg: "bad date"}), http.StatusBadRequest, "bad date"},
		{"not found", fmt.Errorf("delete: %w", gamify.ErrNotFound), http.StatusNotFound, "activity not found"},
		{"other", errors.New("disk full"), http.StatusInternalServerError, "disk full"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("DELETE", "/api/activities/1", nil)
			writeServiceError(rec, logger, req, tt.err, "activity not found")

			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			var body map[string]any
			json.NewDecoder(rec.Body).Decode(&body)
			if body["success"] != false || body["error"] != tt.msg {
				t.Errorf("body = %v", body)
			}
		})
	}
}

func TestParseIDParam(t *testing.T) {
	mux := http.NewServeMux()
	var got int64
	var gotErr error
	mux.HandleFunc("GET /x/{id}", func(w http.ResponseWriter, r *http.Request) {
		got, gotErr = parseIDParam(r)
	})

	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/x/42", nil))
	if gotErr != nil || got != 42 {
		t.Errorf("parseIDParam = %d, %v", got, gotErr)
	}
	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/x/abc", nil))
	if gotErr == nil {
		t.Error("expected error for non-numeric id")
	}
}

func TestNumberID(t *testing.T) {
	tests := []struct {
		in   string
		id   int64
		want bool
	}{
		{`{"n": 5}`, 5, true},
		{`{"n": "5"}`, 5, true},
		{`{"n": 0}`, 0, false},
		{`{"n": -3}`, 0, false},
		{`{"n": 2.5}`, 0, false},
		{`{}`, 0, false},
	}
	for _, tt := range tests {
		var v struct {
			N number `json:"n"`
		}
		if err := json.Unmarshal([]byte(tt.in), &v); err != nil {
			t.Fatalf("%s: %v", tt.in, err)
		}
		id, ok := v.N.ID()
		if id != tt.id || ok != tt.want {
			t.Errorf("%s: ID() = %d, %v; want %d, %v", tt.in, id, ok, tt.id, tt.want)
		}
	}
}

func TestActivityRequestSubtype(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`{"subtype": "bicycle"}`, "bicycle"},
		{`{"type": "walk"}`, "walk"},
		{`{"subtype": "vegan", "type": "meat"}`, "vegan"},
		{`{"subtype": "", "type": "recycle"}`, "recycle"},
		{`{}`, ""},
	}
	for _, tt := range tests {
		var req activityRequest
		if err := json.Unmarshal([]byte(tt.in), &req); err != nil {
			t.Fatalf("%s: %v", tt.in, err)
		}
		got := ""
		if s := req.subtype(); s != nil {
			got = *s
		}
		if got != tt.want {
			t.Errorf("%s: subtype() = %q, want %q", tt.in, got, tt.want)
		}
	}
}
