package responseformat

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

type payload struct {
	Moisture float64 `json:"moisture"`
	Label    string  `json:"label"`
}

func TestWriteResponseJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/emc", nil)

	env := Envelope{RunID: "abc", Data: payload{Moisture: 7.5, Label: "Period 1"}}
	if err := NewFormatter(false).WriteResponse(rec, req, http.StatusOK, env); err != nil {
		t.Fatalf("WriteResponse: %v", err)
	}

	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("CORS header set while disabled")
	}
	var got struct {
		RunID string  `json:"run_id"`
		Data  payload `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.RunID != "abc" || got.Data.Moisture != 7.5 || got.Data.Label != "Period 1" {
		t.Errorf("decoded %+v", got)
	}
}

func TestWriteResponseMsgPack(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/emc?format=msgpack", nil)

	err := NewFormatter(true).WriteResponse(rec, req, http.StatusBadRequest, Envelope{RunID: "x", Error: "bad"})
	if err != nil {
		t.Fatalf("WriteResponse: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/x-msgpack" {
		t.Errorf("Content-Type = %q", ct)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("CORS header missing")
	}

	var got map[string]any
	if err := msgpack.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["run_id"] != "x" || got["error"] != "bad" {
		t.Errorf("decoded %v", got)
	}
	if _, ok := got["data"]; ok {
		t.Error("empty data should be omitted")
	}
}
