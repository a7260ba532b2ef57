package responseformat

import (
	"encoding/json"
	"net/http"

	"github.com/vmihailenco/msgpack/v5"
)

// Formatter handles encoding and writing responses in JSON or MessagePack format
type Formatter struct {
	enableCORS bool
}

// NewFormatter creates a new response formatter. With enableCORS every
// response allows any origin.
func NewFormatter(enableCORS bool) *Formatter {
	return &Formatter{enableCORS: enableCORS}
}

// Envelope wraps every API payload with the ID of the run that produced it
type Envelope struct {
	RunID string `json:"run_id"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

// WriteResponse writes data with the given status code. JSON is the default
// format; MessagePack is used when the request carries format=msgpack.
func (f *Formatter) WriteResponse(w http.ResponseWriter, req *http.Request, status int, data any) error {
	if f.enableCORS {
		w.Header().Set("Access-Control-Allow-Origin", "*")
	}

	if WantsMsgPack(req) {
		w.Header().Set("Content-Type", "application/x-msgpack")
		w.WriteHeader(status)
		encoder := msgpack.NewEncoder(w)
		encoder.SetCustomStructTag("json") // Use json tags for MessagePack
		return encoder.Encode(data)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// WantsMsgPack reports whether the client asked for MessagePack
func WantsMsgPack(req *http.Request) bool {
	return req.URL.Query().Get("format") == "msgpack"
}
