package config

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/yashrajoria/checkout-service/models"
)

type MockSecretGetter struct{ mock.Mock }

func (m *MockSecretGetter) GetSecretMap(ctx context.Context, name string) (map[string]string, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	assert.NoError(t, err)

	assert.Equal(t, "8091", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 45*time.Second, cfg.ProcessorTimeouts[models.PaymentModePayPal])
	assert.Equal(t, 30*time.Second, cfg.ProcessorTimeouts[models.PaymentModeGooglePay])
	assert.Equal(t, 60*time.Second, cfg.ProcessorTimeouts[models.PaymentModeCreditCard])
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, time.Second, cfg.RetryDelay)
	assert.Equal(t, 1000, cfg.HistoryLimit)
	assert.Equal(t, "random", cfg.TxIDStrategy)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.CloudWatchEnabled)
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("PAYPAL_TIMEOUT", "10")
	t.Setenv("GOOGLEPAY_TIMEOUT", "1500ms")
	t.Setenv("HISTORY_LIMIT", "5")
	t.Setenv("TXID_STRATEGY", "sequence")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://shop.example.com, https://admin.example.com,")
	t.Setenv("CLOUDWATCH_ENABLED", "true")

	cfg, err := LoadConfig()
	assert.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 10*time.Second, cfg.ProcessorTimeouts[models.PaymentModePayPal])
	assert.Equal(t, 1500*time.Millisecond, cfg.ProcessorTimeouts[models.PaymentModeGooglePay])
	assert.Equal(t, 5, cfg.HistoryLimit)
	assert.Equal(t, "sequence", cfg.TxIDStrategy)
	assert.Equal(t, []string{"https://shop.example.com", "https://admin.example.com"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.CloudWatchEnabled)
}

func TestLoadConfig_Invalid(t *testing.T) {
	cases := map[string][2]string{
		"non-numeric retries": {"MAX_RETRIES", "many"},
		"negative retries":    {"MAX_RETRIES", "-1"},
		"bad duration":        {"CREDITCARD_TIMEOUT", "soon"},
		"zero timeout":        {"PAYPAL_TIMEOUT", "0"},
		"zero rate limit":     {"RATE_LIMIT_RPM", "0"},
		"unknown strategy":    {"TXID_STRATEGY", "hash"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestApplySecrets(t *testing.T) {
	t.Run("Disabled", func(t *testing.T) {
		sm := new(MockSecretGetter)
		cfg := &Config{UseSecrets: false}
		assert.NoError(t, cfg.ApplySecrets(context.Background(), sm))
		sm.AssertNotCalled(t, "GetSecretMap", mock.Anything, mock.Anything)
	})

	t.Run("Overrides present keys", func(t *testing.T) {
		sm := new(MockSecretGetter)
		sm.On("GetSecretMap", mock.Anything, "checkout/CONFIG").Return(map[string]string{
			"PAYMENT_SNS_TOPIC_ARN": "arn:aws:sns:us-east-1:000000000000:payments",
		}, nil).Once()

		cfg := &Config{UseSecrets: true, SecretName: "checkout/CONFIG", CloudWatchNamespace: "Checkout"}
		assert.NoError(t, cfg.ApplySecrets(context.Background(), sm))
		assert.Equal(t, "arn:aws:sns:us-east-1:000000000000:payments", cfg.PaymentSNSTopicARN)
		assert.Equal(t, "Checkout", cfg.CloudWatchNamespace)
		sm.AssertExpectations(t)
	})

	t.Run("Propagates errors", func(t *testing.T) {
		sm := new(MockSecretGetter)
		sm.On("GetSecretMap", mock.Anything, "checkout/CONFIG").Return(nil, errors.New("access denied")).Once()

		cfg := &Config{UseSecrets: true, SecretName: "checkout/CONFIG"}
		assert.Error(t, cfg.ApplySecrets(context.Background(), sm))
	})
}
