package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	apperrors "github.com/yashrajoria/checkout-service/errors"
	"github.com/yashrajoria/checkout-service/models"
	aws_pkg "github.com/yashrajoria/checkout-service/pkg/aws"
	"github.com/yashrajoria/checkout-service/processors"
	"github.com/yashrajoria/checkout-service/repository"
	"github.com/yashrajoria/checkout-service/services"
)

const testTopic = "arn:aws:sns:us-east-1:000000000000:payment-events"

// --- Mocks ---

type MockSNSPublisher struct{ mock.Mock }

func (m *MockSNSPublisher) Publish(ctx context.Context, topicArn string, message []byte) error {
	args := m.Called(ctx, topicArn, message)
	return args.Error(0)
}

type MockMetrics struct{ mock.Mock }

func (m *MockMetrics) RecordCount(ctx context.Context, metricName string, dimensions map[string]string) error {
	args := m.Called(ctx, metricName, dimensions)
	return args.Error(0)
}

// stubProcessor returns a canned result for one mode.
type stubProcessor struct {
	mode   models.PaymentMode
	result *models.PaymentResult
	err    error
	calls  int
}

func (s *stubProcessor) Name() string             { return "Stub" }
func (s *stubProcessor) Mode() models.PaymentMode { return s.mode }
func (s *stubProcessor) Timeout() time.Duration   { return 0 }
func (s *stubProcessor) Process(_ context.Context, _ models.Amount) (*models.PaymentResult, error) {
	s.calls++
	return s.result, s.err
}

// --- Helpers ---

func newTestService(deps services.Dependencies) services.CheckoutService {
	logger, _ := zap.NewDevelopment()
	ids := processors.NewSequenceIDGenerator(0)
	return services.NewCheckoutService(processors.DefaultProcessors(ids, nil, logger), deps, logger)
}

// --- Tests ---

func TestCheckout_AllModesSucceed(t *testing.T) {
	svc := newTestService(services.Dependencies{})

	cases := []struct {
		mode    models.PaymentMode
		name    string
		idRegex string
	}{
		{models.PaymentModePayPal, "PayPal", `^PP_\d{5}$`},
		{models.PaymentModeGooglePay, "GooglePay", `^GP_\d{5}$`},
		{models.PaymentModeCreditCard, "Credit Card", `^CC_\d{5}$`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := svc.Checkout(context.Background(), tc.mode, 150.75)
			assert.NoError(t, err)
			assert.True(t, result.Success)
			assert.Equal(t, "Successfully processed "+tc.name+" payment of $150.75", result.Message)
			assert.Regexp(t, tc.idRegex, result.TransactionID)
		})
	}
}

func TestCheckout_RoundsAmount(t *testing.T) {
	svc := newTestService(services.Dependencies{})

	result, err := svc.Checkout(context.Background(), models.PaymentModePayPal, "99.999")
	assert.NoError(t, err)
	assert.Contains(t, result.Message, "$100.00")
}

func TestCheckout_InvalidMode(t *testing.T) {
	svc := newTestService(services.Dependencies{})

	result, err := svc.Checkout(context.Background(), models.PaymentMode("BITCOIN"), 10)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrInvalidPaymentMode)
	assert.Contains(t, err.Error(), "BITCOIN")
	assert.Contains(t, err.Error(), "PAYPAL, GOOGLEPAY, CREDITCARD")
}

func TestCheckout_InvalidAmount(t *testing.T) {
	svc := newTestService(services.Dependencies{})

	for _, raw := range []any{-5, 0, "invalid", 1000000, nil, 0.001} {
		result, err := svc.Checkout(context.Background(), models.PaymentModePayPal, raw)
		assert.Nil(t, result)
		assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)
	}
}

func TestCheckout_ModeCheckedBeforeAmount(t *testing.T) {
	svc := newTestService(services.Dependencies{})

	_, err := svc.Checkout(context.Background(), models.PaymentMode("BITCOIN"), -5)
	assert.ErrorIs(t, err, apperrors.ErrInvalidPaymentMode)
}

func TestCheckout_ProcessorNotFoundAfterUnregister(t *testing.T) {
	svc := newTestService(services.Dependencies{})
	svc.UnregisterProcessor(models.PaymentModeGooglePay)

	_, err := svc.Checkout(context.Background(), models.PaymentModeGooglePay, 10)
	assert.ErrorIs(t, err, apperrors.ErrProcessorNotFound)
	assert.Equal(t, "No processor found for payment mode: GOOGLEPAY", err.Error())

	assert.Equal(t, []models.PaymentMode{models.PaymentModePayPal, models.PaymentModeCreditCard}, svc.SupportedModes())
}

func TestRegisterProcessor_Replaces(t *testing.T) {
	svc := newTestService(services.Dependencies{})
	stub := &stubProcessor{
		mode:   models.PaymentModePayPal,
		result: &models.PaymentResult{Success: true, Message: "stubbed", TransactionID: "ST_00042"},
	}
	svc.RegisterProcessor(models.PaymentModePayPal, stub)

	result, err := svc.Checkout(context.Background(), models.PaymentModePayPal, 25)
	assert.NoError(t, err)
	assert.Equal(t, "stubbed", result.Message)
	assert.Equal(t, 1, stub.calls)
	assert.Len(t, svc.SupportedModes(), 3)
}

func TestCheckout_ProcessorErrorPropagates(t *testing.T) {
	svc := newTestService(services.Dependencies{})
	failure := apperrors.PaymentProcessingFailed("Stub", errors.New("gateway down"))
	svc.RegisterProcessor(models.PaymentModeCreditCard, &stubProcessor{mode: models.PaymentModeCreditCard, err: failure})

	result, err := svc.Checkout(context.Background(), models.PaymentModeCreditCard, 25)
	assert.Nil(t, result)
	assert.Same(t, failure, err)

	history, _ := svc.TransactionHistory(context.Background())
	assert.Empty(t, history)
}

func TestCheckout_ProcessorReturnsNoResult(t *testing.T) {
	metrics := new(MockMetrics)
	metrics.On("RecordCount", mock.Anything, aws_pkg.MetricCheckoutRequests, mock.Anything).Return(nil).Once()
	metrics.On("RecordCount", mock.Anything, aws_pkg.MetricPaymentFailed, mock.Anything).Return(nil).Once()

	svc := newTestService(services.Dependencies{Metrics: metrics})
	svc.RegisterProcessor(models.PaymentModePayPal, &stubProcessor{mode: models.PaymentModePayPal})

	var (
		result *models.PaymentResult
		err    error
	)
	assert.NotPanics(t, func() {
		result, err = svc.Checkout(context.Background(), models.PaymentModePayPal, 10)
	})
	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrProcessingFailed)
	assert.Equal(t, "Stub payment failed: processor returned no result", err.Error())

	history, _ := svc.TransactionHistory(context.Background())
	assert.Empty(t, history)
	metrics.AssertExpectations(t)
}

func TestRegisterProcessor_IgnoresNil(t *testing.T) {
	svc := newTestService(services.Dependencies{})

	assert.NotPanics(t, func() {
		svc.RegisterProcessor(models.PaymentModePayPal, nil)
	})

	result, err := svc.Checkout(context.Background(), models.PaymentModePayPal, 10)
	assert.NoError(t, err)
	assert.True(t, result.Success)
	assert.Len(t, svc.SupportedModes(), 3)
}

func TestNewCheckoutService_SkipsNilProcessors(t *testing.T) {
	svc := services.NewCheckoutService([]processors.Processor{nil, processors.NewGooglePayProcessor(nil, nil)}, services.Dependencies{}, nil)

	assert.Equal(t, []models.PaymentMode{models.PaymentModeGooglePay}, svc.SupportedModes())
}

func TestCheckout_CancelledContext(t *testing.T) {
	svc := newTestService(services.Dependencies{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Checkout(ctx, models.PaymentModePayPal, 10)
	assert.ErrorIs(t, err, apperrors.ErrProcessingFailed)
}

func TestTransactionHistory(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(services.Dependencies{History: repository.NewMemoryTransactionRepo(2)})

	_, _ = svc.Checkout(ctx, models.PaymentModePayPal, 10)
	_, _ = svc.Checkout(ctx, models.PaymentModeGooglePay, 20)
	_, _ = svc.Checkout(ctx, models.PaymentModeCreditCard, 30)
	_, _ = svc.Checkout(ctx, models.PaymentModePayPal, -1)

	history, err := svc.TransactionHistory(ctx)
	assert.NoError(t, err)
	assert.Len(t, history, 2)
	assert.Equal(t, models.PaymentModeGooglePay, history[0].Mode)
	assert.Equal(t, "Credit Card", history[1].Processor)
	assert.Equal(t, "30.00", history[1].Amount.String())
	assert.False(t, history[1].ProcessedAt.IsZero())

	assert.NoError(t, svc.ClearTransactionHistory(ctx))
	history, _ = svc.TransactionHistory(ctx)
	assert.Empty(t, history)
}

func TestCheckout_PublishesEvent(t *testing.T) {
	sns := new(MockSNSPublisher)
	sns.On("Publish", mock.Anything, testTopic, mock.MatchedBy(func(b []byte) bool {
		var event models.PaymentProcessedEvent
		if err := json.Unmarshal(b, &event); err != nil {
			return false
		}
		return event.EventType == "payment_processed" &&
			event.Mode == models.PaymentModePayPal &&
			event.AmountCents == 15075 &&
			event.TransactionID == "PP_00001"
	})).Return(nil).Once()

	svc := newTestService(services.Dependencies{SNSClient: sns, SNSTopicArn: testTopic})

	_, err := svc.Checkout(context.Background(), models.PaymentModePayPal, "150.75")
	assert.NoError(t, err)
	sns.AssertExpectations(t)
}

func TestCheckout_PublishFailureDoesNotFailCheckout(t *testing.T) {
	sns := new(MockSNSPublisher)
	sns.On("Publish", mock.Anything, testTopic, mock.Anything).Return(errors.New("throttled")).Once()

	svc := newTestService(services.Dependencies{SNSClient: sns, SNSTopicArn: testTopic})

	result, err := svc.Checkout(context.Background(), models.PaymentModeGooglePay, 5)
	assert.NoError(t, err)
	assert.True(t, result.Success)
	sns.AssertExpectations(t)
}

func TestCheckout_NoEventWithoutTopic(t *testing.T) {
	sns := new(MockSNSPublisher)
	svc := newTestService(services.Dependencies{SNSClient: sns})

	_, err := svc.Checkout(context.Background(), models.PaymentModeGooglePay, 5)
	assert.NoError(t, err)
	sns.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckout_RecordsMetrics(t *testing.T) {
	metrics := new(MockMetrics)
	dims := map[string]string{"Service": "checkout-service", "PaymentMode": "CREDITCARD"}
	metrics.On("RecordCount", mock.Anything, aws_pkg.MetricCheckoutRequests, dims).Return(nil).Once()
	metrics.On("RecordCount", mock.Anything, aws_pkg.MetricPaymentSucceeded, dims).Return(nil).Once()

	svc := newTestService(services.Dependencies{Metrics: metrics})

	_, err := svc.Checkout(context.Background(), models.PaymentModeCreditCard, 12)
	assert.NoError(t, err)
	metrics.AssertExpectations(t)
}

func TestCheckout_RecordsFailureMetric(t *testing.T) {
	metrics := new(MockMetrics)
	metrics.On("RecordCount", mock.Anything, aws_pkg.MetricCheckoutRequests, mock.Anything).Return(nil).Once()
	metrics.On("RecordCount", mock.Anything, aws_pkg.MetricPaymentFailed, mock.Anything).Return(errors.New("cloudwatch down")).Once()

	svc := newTestService(services.Dependencies{Metrics: metrics})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Checkout(ctx, models.PaymentModePayPal, 12)
	assert.ErrorIs(t, err, apperrors.ErrProcessingFailed)
	metrics.AssertExpectations(t)
}

func TestCheckout_Concurrent(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(services.Dependencies{})

	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			mode := models.AllPaymentModes()[i%3]
			result, err := svc.Checkout(ctx, mode, 10+i)
			assert.NoError(t, err)
			assert.True(t, result.Success)
		}(i)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		svc.RegisterProcessor(models.PaymentModePayPal, processors.NewPayPalProcessor(nil, nil))
	}()
	wg.Wait()

	history, _ := svc.TransactionHistory(ctx)
	assert.Len(t, history, 30)
}
