package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bastiangx/yosoku/internal/logger"
	"github.com/bastiangx/yosoku/pkg/chain"
	"github.com/bastiangx/yosoku/pkg/predict"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// ErrLearningDisabled is reported for learn requests when learning is off.
var ErrLearningDisabled = errors.New("learning is disabled")

// Predictor suggests a continuation of typed text.
type Predictor interface {
	Predict(input string) (predict.Prediction, bool)
	Depth() int
}

// Learner adds committed text to the chain.
type Learner interface {
	Learn(text string) int
}

// StatsSource reports chain size.
type StatsSource interface {
	Stats() chain.Stats
}

// Server answers IPC requests. It handles one request at a time.
type Server struct {
	predictor Predictor
	stats     StatsSource
	learner   Learner
	requests  int
	log       *log.Logger
}

// NewServer creates a server. A nil learner disables the learn action and a nil stats
// source reports zeros.
func NewServer(p Predictor, stats StatsSource, learner Learner) *Server {
	return &Server{
		predictor: p,
		stats:     stats,
		learner:   learner,
		log:       logger.New("server"),
	}
}

// Start serves stdin/stdout until stdin is closed.
func (s *Server) Start() error {
	return s.Serve(os.Stdin, os.Stdout)
}

// Serve reads requests from r and writes responses to w until r is exhausted.
func (s *Server) Serve(r io.Reader, w io.Writer) error {
	s.log.Debug("Starting server")
	dec := msgpack.NewDecoder(bufio.NewReader(r))
	out := bufio.NewWriter(w)
	enc := msgpack.NewEncoder(out)

	send := func(v any) error {
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode response: %w", err)
		}
		return out.Flush()
	}

	if err := send(StatusResponse{Status: "ready"}); err != nil {
		return err
	}

	for {
		// Each message is read raw first so a request of the wrong shape is
		// rejected without losing our place in the stream.
		var raw msgpack.RawMessage
		if err := dec.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				s.log.Debug("Client disconnected (EOF)", "requests", s.requests)
				return nil
			}
			s.log.Errorf("Reading request: %v", err)
			return err
		}
		s.requests++

		var req Request
		var resp any
		if err := msgpack.Unmarshal(raw, &req); err != nil {
			s.log.Debugf("Malformed request: %v", err)
			resp = ErrorResponse{Error: "malformed request", Code: 400}
		} else {
			resp = s.Handle(req)
		}
		if err := send(resp); err != nil {
			return err
		}
	}
}

// Handle answers a single request.
func (s *Server) Handle(req Request) any {
	switch req.Action {
	case "", ActionPredict:
		return s.handlePredict(req)
	case ActionLearn:
		return s.handleLearn(req)
	case ActionStats:
		return s.handleStats(req)
	case ActionHealth:
		return StatusResponse{ID: req.ID, Status: "ok"}
	default:
		return ErrorResponse{ID: req.ID, Error: fmt.Sprintf("unknown action: %s", req.Action), Code: 400}
	}
}

func (s *Server) handlePredict(req Request) any {
	if s.predictor == nil {
		return ErrorResponse{ID: req.ID, Error: "no predictor loaded", Code: 500}
	}

	start := time.Now()
	p, ok := s.predictor.Predict(req.Input)
	elapsed := time.Since(start)

	resp := PredictResponse{ID: req.ID, Found: ok, TimeTaken: elapsed.Microseconds()}
	if ok {
		resp.Kind = p.Kind.String()
		resp.Suggestion = p.Text
	}
	s.log.Debugf("predict %q -> %s in %v", req.Input, p, elapsed)
	return resp
}

func (s *Server) handleLearn(req Request) any {
	if s.learner == nil {
		return ErrorResponse{ID: req.ID, Error: ErrLearningDisabled.Error(), Code: 403}
	}
	if req.Text == "" {
		return ErrorResponse{ID: req.ID, Error: "missing 't' parameter", Code: 400}
	}
	n := s.learner.Learn(req.Text)
	return LearnResponse{ID: req.ID, Status: "ok", Words: n}
}

func (s *Server) handleStats(req Request) any {
	resp := StatsResponse{ID: req.ID, Requests: s.requests, Learning: s.learner != nil}
	if s.predictor != nil {
		resp.Depth = s.predictor.Depth()
	}
	if s.stats != nil {
		st := s.stats.Stats()
		resp.Nodes = st.Nodes
		resp.Entries = st.Entries
		resp.TotalWeight = uint64(st.TotalWeight)
		resp.MaxDepth = st.MaxDepth
	}
	return resp
}
