package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/yashrajoria/checkout-service/errors"
	"github.com/yashrajoria/checkout-service/logger"
	"github.com/yashrajoria/checkout-service/models"
	aws_pkg "github.com/yashrajoria/checkout-service/pkg/aws"
	"github.com/yashrajoria/checkout-service/processors"
	"github.com/yashrajoria/checkout-service/repository"
)

const paymentProcessedEvent = "payment_processed"

var errNoResult = errors.New("processor returned no result")

// MetricsRecorder is the part of the CloudWatch client the service needs.
type MetricsRecorder interface {
	RecordCount(ctx context.Context, metricName string, dimensions map[string]string) error
}

// CheckoutService validates a payment request and hands it to the
// processor registered for its mode.
type CheckoutService interface {
	Checkout(ctx context.Context, mode models.PaymentMode, rawAmount any) (*models.PaymentResult, error)
	SupportedModes() []models.PaymentMode
	// RegisterProcessor replaces any processor already registered for mode.
	// A nil processor is ignored.
	RegisterProcessor(mode models.PaymentMode, processor processors.Processor)
	UnregisterProcessor(mode models.PaymentMode)
	TransactionHistory(ctx context.Context) ([]models.TransactionRecord, error)
	ClearTransactionHistory(ctx context.Context) error
}

// Dependencies are the optional collaborators of the checkout service.
// Nil members are skipped.
type Dependencies struct {
	History     repository.TransactionRepository
	SNSClient   aws_pkg.SNSPublisher
	SNSTopicArn string
	Metrics     MetricsRecorder
}

type checkoutServiceImpl struct {
	mu         sync.RWMutex
	processors map[models.PaymentMode]processors.Processor

	history     repository.TransactionRepository
	snsClient   aws_pkg.SNSPublisher
	snsTopicArn string
	metrics     MetricsRecorder
	logger      *zap.Logger
}

// NewCheckoutService creates a CheckoutService with procs registered under
// their own modes.
func NewCheckoutService(procs []processors.Processor, deps Dependencies, logger *zap.Logger) CheckoutService {
	if logger == nil {
		logger = zap.NewNop()
	}
	history := deps.History
	if history == nil {
		history = repository.NewMemoryTransactionRepo(0)
	}

	s := &checkoutServiceImpl{
		processors:  make(map[models.PaymentMode]processors.Processor, len(procs)),
		history:     history,
		snsClient:   deps.SNSClient,
		snsTopicArn: deps.SNSTopicArn,
		metrics:     deps.Metrics,
		logger:      logger,
	}
	for _, p := range procs {
		if p == nil {
			continue
		}
		s.processors[p.Mode()] = p
	}

	logger.Info("CheckoutService initialized", zap.Stringers("processors", s.SupportedModes()))
	return s
}

// Checkout validates mode and rawAmount, then runs the registered processor.
// Processor results and errors are returned unchanged.
func (s *checkoutServiceImpl) Checkout(ctx context.Context, mode models.PaymentMode, rawAmount any) (*models.PaymentResult, error) {
	log := logger.With(ctx, s.logger)

	if !mode.IsValid() {
		log.Warn("Invalid payment mode attempted", zap.String("mode", mode.String()))
		return nil, apperrors.InvalidPaymentMode(mode.String(), models.PaymentModeNames())
	}

	amount, err := models.ValidateAmount(rawAmount)
	if err != nil {
		log.Warn("Invalid payment amount", zap.String("mode", mode.String()), zap.Any("amount", rawAmount))
		return nil, err
	}

	processor, err := s.processorFor(mode)
	if err != nil {
		log.Error("No processor registered", zap.String("mode", mode.String()))
		return nil, err
	}

	log.Info("Processing payment", zap.String("mode", mode.String()), zap.String("amount", amount.Format()))
	s.recordMetric(ctx, aws_pkg.MetricCheckoutRequests, mode)

	result, err := processor.Process(ctx, amount)
	if err != nil {
		log.Error("Payment processing failed", zap.String("mode", mode.String()), zap.Error(err))
		s.recordMetric(ctx, aws_pkg.MetricPaymentFailed, mode)
		return nil, err
	}
	if result == nil {
		err := apperrors.PaymentProcessingFailed(processor.Name(), errNoResult)
		log.Error("Payment processing failed", zap.String("mode", mode.String()), zap.Error(err))
		s.recordMetric(ctx, aws_pkg.MetricPaymentFailed, mode)
		return nil, err
	}

	if result.Success {
		s.recordMetric(ctx, aws_pkg.MetricPaymentSucceeded, mode)
		s.recordTransaction(ctx, mode, processor.Name(), amount, result)
	} else {
		s.recordMetric(ctx, aws_pkg.MetricPaymentFailed, mode)
	}
	return result, nil
}

func (s *checkoutServiceImpl) processorFor(mode models.PaymentMode) (processors.Processor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.processors[mode]
	if !ok {
		return nil, apperrors.ProcessorNotFound(mode.String())
	}
	return p, nil
}

// SupportedModes lists the modes that currently have a processor, in
// declaration order.
func (s *checkoutServiceImpl) SupportedModes() []models.PaymentMode {
	s.mu.RLock()
	defer s.mu.RUnlock()

	modes := make([]models.PaymentMode, 0, len(s.processors))
	for _, m := range models.AllPaymentModes() {
		if _, ok := s.processors[m]; ok {
			modes = append(modes, m)
		}
	}
	return modes
}

func (s *checkoutServiceImpl) RegisterProcessor(mode models.PaymentMode, processor processors.Processor) {
	if processor == nil {
		s.logger.Warn("Ignoring nil processor", zap.String("mode", mode.String()))
		return
	}

	s.mu.Lock()
	s.processors[mode] = processor
	s.mu.Unlock()

	s.logger.Info("Added processor", zap.String("mode", mode.String()), zap.String("processor", processor.Name()))
}

func (s *checkoutServiceImpl) UnregisterProcessor(mode models.PaymentMode) {
	s.mu.Lock()
	delete(s.processors, mode)
	s.mu.Unlock()

	s.logger.Info("Removed processor", zap.String("mode", mode.String()))
}

func (s *checkoutServiceImpl) TransactionHistory(ctx context.Context) ([]models.TransactionRecord, error) {
	return s.history.List(ctx)
}

func (s *checkoutServiceImpl) ClearTransactionHistory(ctx context.Context) error {
	if err := s.history.Clear(ctx); err != nil {
		return err
	}
	logger.With(ctx, s.logger).Info("Transaction history cleared")
	return nil
}

// recordTransaction stores the result and announces it. Neither step can
// fail the checkout.
func (s *checkoutServiceImpl) recordTransaction(ctx context.Context, mode models.PaymentMode, processorName string, amount models.Amount, result *models.PaymentResult) {
	now := time.Now().UTC()
	record := models.TransactionRecord{
		TransactionID: result.TransactionID,
		Mode:          mode,
		Processor:     processorName,
		Amount:        amount,
		Message:       result.Message,
		ProcessedAt:   now,
	}
	if err := s.history.Append(ctx, record); err != nil {
		logger.With(ctx, s.logger).Error("Failed to record transaction", zap.String("transaction_id", result.TransactionID), zap.Error(err))
	}

	s.publishPaymentProcessedEvent(ctx, models.PaymentProcessedEvent{
		EventType:     paymentProcessedEvent,
		TransactionID: result.TransactionID,
		Mode:          mode,
		Processor:     processorName,
		Amount:        amount,
		AmountCents:   amount.Cents(),
		Timestamp:     now,
	})
}

// publishPaymentProcessedEvent publishes a payment_processed event to SNS.
func (s *checkoutServiceImpl) publishPaymentProcessedEvent(ctx context.Context, event models.PaymentProcessedEvent) {
	log := logger.With(ctx, s.logger)
	if s.snsClient == nil || s.snsTopicArn == "" {
		log.Debug("SNS client not configured, skipping payment_processed event")
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		log.Error("Failed to marshal payment_processed event", zap.Error(err))
		return
	}

	if err := s.snsClient.Publish(ctx, s.snsTopicArn, payload); err != nil {
		log.Error("Failed to publish payment_processed event",
			zap.String("transaction_id", event.TransactionID),
			zap.Error(err),
		)
		return
	}

	log.Info("Published payment_processed event",
		zap.String("transaction_id", event.TransactionID),
		zap.String("mode", event.Mode.String()),
	)
}

func (s *checkoutServiceImpl) recordMetric(ctx context.Context, name string, mode models.PaymentMode) {
	if s.metrics == nil {
		return
	}
	dims := map[string]string{"Service": "checkout-service", "PaymentMode": mode.String()}
	if err := s.metrics.RecordCount(ctx, name, dims); err != nil {
		logger.With(ctx, s.logger).Warn("Failed to record metric", zap.String("metric", name), zap.Error(err))
	}
}
