package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
	"github.com/lucasrivera/shoppulse-backend/internal/insights"
	"github.com/lucasrivera/shoppulse-backend/internal/transactions"
	pkgerrors "github.com/lucasrivera/shoppulse-backend/pkg/errors"
	"github.com/lucasrivera/shoppulse-backend/pkg/logger"
)

const (
	consumerName   = "insights"
	idempotencyTTL = 24 * time.Hour
)

// ImportEvent is the payload published when a merchant upload lands. Rows
// are optional; events without rows only trigger a snapshot refresh.
type ImportEvent struct {
	EventID    string                   `json:"event_id"`
	MerchantID string                   `json:"merchant_id"`
	UploadID   string                   `json:"upload_id,omitempty"`
	Filename   string                   `json:"filename,omitempty"`
	Rows       []transactions.ImportRow `json:"rows,omitempty"`
}

type idempotencyStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	ConsumerKey(consumer, eventID string) string
}

// Service consumes import events and warms the snapshot cache.
type Service struct {
	subscription *gcppubsub.Subscriber
	txs          transactions.Service
	insights     insights.Service
	store        idempotencyStore
	logg         *logger.Logger
}

// NewService creates the import worker.
func NewService(subscription *gcppubsub.Subscriber, txs transactions.Service, insightsSvc insights.Service, store idempotencyStore, logg *logger.Logger) (*Service, error) {
	if subscription == nil {
		return nil, errors.New("imports subscription is required")
	}
	if txs == nil {
		return nil, errors.New("transactions service is required")
	}
	if insightsSvc == nil {
		return nil, errors.New("insights service is required")
	}
	if store == nil {
		return nil, errors.New("idempotency store is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}

	return &Service{
		subscription: subscription,
		txs:          txs,
		insights:     insightsSvc,
		store:        store,
		logg:         logg,
	}, nil
}

type processResult struct {
	nack bool
}

// Run consumes import events until the context is canceled.
func (s *Service) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	return s.subscription.Receive(ctx, func(innerCtx context.Context, msg *gcppubsub.Message) {
		if s.process(innerCtx, msg).nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

func (s *Service) process(ctx context.Context, msg *gcppubsub.Message) processResult {
	logCtx := s.logg.WithField(ctx, "message_id", msg.ID)

	event, err := s.buildEvent(msg)
	if err != nil {
		s.logg.Warn(s.logg.WithField(logCtx, "error", err.Error()), "invalid import event")
		return processResult{}
	}

	logCtx = s.logg.WithFields(logCtx, map[string]any{
		"event_id":    event.EventID,
		"merchant_id": event.MerchantID,
		"upload_id":   event.UploadID,
	})

	scope, err := s.buildScope(event)
	if err != nil {
		s.logg.Warn(s.logg.WithField(logCtx, "error", err.Error()), "unroutable import event")
		return processResult{}
	}

	idempotencyKey := s.store.ConsumerKey(consumerName, event.EventID)
	fresh, err := s.store.SetNX(logCtx, idempotencyKey, "1", idempotencyTTL)
	if err != nil {
		s.logg.Error(logCtx, "idempotency check failed", err)
		return processResult{nack: true}
	}
	if !fresh {
		s.logg.Info(logCtx, "event already processed")
		return processResult{}
	}

	if len(event.Rows) > 0 {
		input := transactions.ImportBatchInput{
			MerchantID: scope.MerchantID,
			UploadID:   scope.UploadID,
			Filename:   event.Filename,
			Rows:       event.Rows,
		}
		imported, err := s.txs.ImportBatch(logCtx, input)
		if err != nil {
			if permanent(err) {
				s.logg.Warn(s.logg.WithField(logCtx, "error", err.Error()), "import rejected")
				return processResult{}
			}
			s.logg.Error(logCtx, "import failed", err)
			_ = s.store.Del(logCtx, idempotencyKey)
			return processResult{nack: true}
		}
		logCtx = s.logg.WithField(logCtx, "imported_rows", imported)
	}

	if err := s.insights.Invalidate(logCtx, scope); err != nil {
		s.logg.Warn(s.logg.WithField(logCtx, "error", err.Error()), "snapshot invalidation failed")
	}
	if _, err := s.insights.Generate(logCtx, scope, insights.Params{}); err != nil {
		if permanent(err) {
			s.logg.Warn(s.logg.WithField(logCtx, "error", err.Error()), "scope not analyzable yet")
			return processResult{}
		}
		s.logg.Error(logCtx, "snapshot warm failed", err)
		_ = s.store.Del(logCtx, idempotencyKey)
		return processResult{nack: true}
	}

	s.logg.Info(logCtx, "import event handled")
	return processResult{}
}

func (s *Service) buildEvent(msg *gcppubsub.Message) (*ImportEvent, error) {
	var event ImportEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		return nil, fmt.Errorf("decode import event: %w", err)
	}

	if strings.TrimSpace(event.EventID) == "" {
		event.EventID = strings.TrimSpace(msg.Attributes["event_id"])
	}
	if event.EventID == "" {
		return nil, errors.New("event_id missing")
	}
	if strings.TrimSpace(event.MerchantID) == "" {
		return nil, errors.New("merchant_id missing")
	}
	return &event, nil
}

func (s *Service) buildScope(event *ImportEvent) (transactions.Scope, error) {
	merchantID, err := uuid.Parse(event.MerchantID)
	if err != nil {
		return transactions.Scope{}, fmt.Errorf("merchant_id: %w", err)
	}

	scope := transactions.Scope{MerchantID: merchantID}
	if trimmed := strings.TrimSpace(event.UploadID); trimmed != "" {
		uploadID, err := uuid.Parse(trimmed)
		if err != nil {
			return transactions.Scope{}, fmt.Errorf("upload_id: %w", err)
		}
		scope.UploadID = uploadID
	}
	return scope, nil
}

// permanent reports whether retrying the event could never succeed.
func permanent(err error) bool {
	appErr := pkgerrors.As(err)
	if appErr == nil {
		return false
	}
	switch appErr.Code() {
	case pkgerrors.CodeValidation, pkgerrors.CodeInsufficientData, pkgerrors.CodeInvalidClusterCount:
		return true
	default:
		return false
	}
}
