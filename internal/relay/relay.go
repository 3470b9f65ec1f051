package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/kailas-cloud/talentrag/internal/usecase/chat"
)

// defaultQuery substitutes for job requests that arrive without one.
const defaultQuery = "Tell me about this job"

// Conn is the subset of the NATS connection the relay uses. Satisfied
// by *nats.Conn.
type Conn interface {
	Subscribe(subject string, handler nats.MsgHandler) (*nats.Subscription, error)
	Publish(subject string, data []byte) error
}

// QueryHandler answers relayed job queries. Satisfied by the chat service.
type QueryHandler interface {
	HandleQuery(ctx context.Context, query string) (chat.Answer, error)
}

// Connect dials NATS with bounded reconnection.
func Connect(url string) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(5),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	return nc, nil
}

// JobRequest is an asynchronous job question arriving on the request subject.
type JobRequest struct {
	RequestID string `json:"request_id"`
	JobID     string `json:"job_id,omitempty"`
	Query     string `json:"query,omitempty"`
}

// JobResponse is published on the response subject for every request,
// success or failure.
type JobResponse struct {
	RequestID string `json:"request_id"`
	JobID     string `json:"job_id,omitempty"`
	Status    string `json:"status"`
	Response  string `json:"response,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Service relays job questions from a request subject through the query
// pipeline and publishes answers to a response subject. Every message
// produces exactly one response; per-message failures are published and
// logged, never fatal to the worker.
type Service struct {
	conn        Conn
	handler     QueryHandler
	reqSubject  string
	respSubject string
	timeout     time.Duration
	logger      *zap.Logger
}

// New creates a relay service.
func New(conn Conn, handler QueryHandler, reqSubject, respSubject string, logger *zap.Logger) *Service {
	return &Service{
		conn:        conn,
		handler:     handler,
		reqSubject:  reqSubject,
		respSubject: respSubject,
		timeout:     60 * time.Second,
		logger:      logger,
	}
}

// WithTimeout overrides the per-request processing deadline.
func (s *Service) WithTimeout(d time.Duration) *Service {
	s.timeout = d
	return s
}

// Run subscribes to the request subject and blocks until ctx is done.
func (s *Service) Run(ctx context.Context) error {
	sub, err := s.conn.Subscribe(s.reqSubject, func(msg *nats.Msg) {
		s.handleMessage(ctx, msg)
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", s.reqSubject, err)
	}
	defer func() { _ = sub.Unsubscribe() }()

	s.logger.Info("relay listening",
		zap.String("request_subject", s.reqSubject),
		zap.String("response_subject", s.respSubject),
	)

	<-ctx.Done()
	return nil
}

func (s *Service) handleMessage(ctx context.Context, msg *nats.Msg) {
	var req JobRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		s.logger.Error("undecodable job request", zap.Error(err))
		s.publish(JobResponse{Status: "error", Error: "malformed request: " + err.Error()})
		return
	}

	s.logger.Info("processing job request",
		zap.String("request_id", req.RequestID),
		zap.String("job_id", req.JobID),
	)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	ans, err := s.handler.HandleQuery(ctx, s.queryFor(req))
	if err != nil {
		s.logger.Error("job request failed",
			zap.String("request_id", req.RequestID),
			zap.Error(err),
		)
		s.publish(JobResponse{
			RequestID: req.RequestID,
			JobID:     req.JobID,
			Status:    "error",
			Error:     err.Error(),
		})
		return
	}

	s.publish(JobResponse{
		RequestID: req.RequestID,
		JobID:     req.JobID,
		Status:    "success",
		Response:  ans.Response,
	})
}

// queryFor builds the pipeline query, anchoring it to the job id when one
// is given so retrieval favors that posting.
func (s *Service) queryFor(req JobRequest) string {
	q := req.Query
	if q == "" {
		q = defaultQuery
	}
	if req.JobID != "" {
		q = fmt.Sprintf("Regarding job %s: %s", req.JobID, q)
	}
	return q
}

func (s *Service) publish(resp JobResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		s.logger.Error("marshal job response", zap.Error(err))
		return
	}
	if err := s.conn.Publish(s.respSubject, data); err != nil {
		s.logger.Error("publish job response",
			zap.String("request_id", resp.RequestID),
			zap.Error(err),
		)
		return
	}
	s.logger.Info("job response published",
		zap.String("request_id", resp.RequestID),
		zap.String("status", resp.Status),
	)
}
