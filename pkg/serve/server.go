// Package serve classifies lines sent as NDJSON requests, one response per
// request, for callers that keep a classifier process alive.
package serve

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/praetorian-inc/sift/pkg/matcher"
	"github.com/praetorian-inc/sift/pkg/types"
)

// Version is the server protocol version
const Version = "1.0.0"

// Server manages a streaming classification session
type Server struct {
	matcher *matcher.Matcher
	encoder *json.Encoder
	decoder *json.Decoder
	next    int // index of the next line received
}

// NewServer creates a new streaming server
func NewServer(m *matcher.Matcher, in io.Reader, out io.Writer) *Server {
	return &Server{
		matcher: m,
		encoder: json.NewEncoder(out),
		decoder: json.NewDecoder(bufio.NewReader(in)),
	}
}

// Run starts the server main loop. It returns nil when input ends or a close
// request arrives.
func (s *Server) Run(ctx context.Context) error {
	s.sendReady()

	reqChan := make(chan Request, 1)
	errChan := make(chan error, 1)

	go func() {
		for {
			var req Request
			if err := s.decoder.Decode(&req); err != nil {
				errChan <- err
				return
			}
			select {
			case reqChan <- req:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errChan:
			// Drain any pending requests before handling EOF
			for {
				select {
				case req := <-reqChan:
					if s.processRequest(req) {
						return nil
					}
				default:
					if err == io.EOF {
						return nil
					}
					s.sendError("decode", err.Error())
					return nil
				}
			}
		case req := <-reqChan:
			if s.processRequest(req) {
				return nil
			}
		}
	}
}

// processRequest handles a single request and returns true if the server should exit
func (s *Server) processRequest(req Request) bool {
	switch req.Type {
	case "classify":
		s.handleClassify(req.Payload)
	case "classify_batch":
		s.handleClassifyBatch(req.Payload)
	case "close":
		return true
	default:
		s.sendError("unknown", "unknown request type: "+req.Type)
	}
	return false
}

func (s *Server) sendReady() {
	active := s.matcher.Selection().Types()
	names := make([]string, len(active))
	for i, t := range active {
		names[i] = t.String()
	}
	data, _ := json.Marshal(ReadyData{Version: Version, Types: names})
	s.encoder.Encode(Response{
		Success: true,
		Type:    "ready",
		Data:    data,
	})
}

func (s *Server) handleClassify(payload json.RawMessage) {
	var p ClassifyPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.sendError("classify", err.Error())
		return
	}
	s.sendResult("classify", s.classify([]string{p.Line}))
}

func (s *Server) handleClassifyBatch(payload json.RawMessage) {
	var p ClassifyBatchPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.sendError("classify_batch", err.Error())
		return
	}
	s.sendResult("classify_batch", s.classify(p.Lines))
}

func (s *Server) classify(lines []string) ClassifyResult {
	res := ClassifyResult{Matches: []types.Match{}}
	for _, line := range lines {
		res.Matches = append(res.Matches, s.matcher.Classify(strings.TrimSuffix(line, "\r"), s.next)...)
		s.next++
	}
	return res
}

func (s *Server) sendResult(reqType string, res ClassifyResult) {
	data, _ := json.Marshal(res)
	s.encoder.Encode(Response{
		Success: true,
		Type:    reqType,
		Data:    data,
	})
}

func (s *Server) sendError(reqType, msg string) {
	s.encoder.Encode(Response{
		Success: false,
		Type:    reqType,
		Error:   msg,
	})
}
