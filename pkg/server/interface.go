/*
Package server implements msgpack IPC for next word prediction.

Clients write msgpack encoded requests to stdin and read msgpack encoded responses from
stdout. Messages are not delimited: each one is a single msgpack map, decoded back to back.
Requests are handled one at a time, in order, and every response carries the request id.

# IPC

Right after start the server writes

	{"status": "ready"}

A prediction request names the text typed so far. The action may be omitted:

	{"id": "r1", "a": "predict", "i": "never gonna "}

The response has the kind of continuation, its text, whether anything was found, and the
time spent in microseconds:

	{"id": "r1", "k": "word", "s": "give", "f": true, "t": 12}

Inside a word the suggestion completes it ("k": "partial"). A miss is "k": "", "f": false.

When learning is enabled, clients can teach the chain committed text:

	{"id": "r2", "a": "learn", "t": "never gonna let you down"}
	{"id": "r2", "status": "ok", "n": 5}

"stats" returns the chain size and "health" returns {"status": "ok"}.

Failures are reported as

	{"id": "r3", "e": "unknown action: foo", "c": 400}

with code 400 for bad requests, 403 for learning while it is disabled and 500 for internal
errors. End of input shuts the server down cleanly.
*/
package server

// Action names.
const (
	ActionPredict = "predict"
	ActionLearn   = "learn"
	ActionStats   = "stats"
	ActionHealth  = "health"
)

// Request is any client message. Fields unused by the action are ignored.
type Request struct {
	ID     string `msgpack:"id"`
	Action string `msgpack:"a,omitempty"`
	Input  string `msgpack:"i,omitempty"`
	Text   string `msgpack:"t,omitempty"`
}

// PredictResponse answers a predict request.
type PredictResponse struct {
	ID         string `msgpack:"id"`
	Kind       string `msgpack:"k"`
	Suggestion string `msgpack:"s"`
	Found      bool   `msgpack:"f"`
	TimeTaken  int64  `msgpack:"t"`
}

// LearnResponse answers a learn request.
type LearnResponse struct {
	ID     string `msgpack:"id"`
	Status string `msgpack:"status"`
	Words  int    `msgpack:"n"`
}

// StatsResponse answers a stats request.
type StatsResponse struct {
	ID          string `msgpack:"id"`
	Nodes       int    `msgpack:"nodes"`
	Entries     int    `msgpack:"entries"`
	TotalWeight uint64 `msgpack:"total_weight"`
	MaxDepth    int    `msgpack:"max_depth"`
	Depth       int    `msgpack:"depth"`
	Requests    int    `msgpack:"requests"`
	Learning    bool   `msgpack:"learning"`
}

// StatusResponse is the ready and health message.
type StatusResponse struct {
	ID     string `msgpack:"id,omitempty"`
	Status string `msgpack:"status"`
}

// ErrorResponse reports a failed request.
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
