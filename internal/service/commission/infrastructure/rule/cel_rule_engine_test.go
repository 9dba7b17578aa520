package rule

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"affiliatehub/internal/service/commission/domain"
)

func TestCELQualificationEngine(t *testing.T) {
	engine, err := NewCELQualificationEngine(map[string]string{
		"bovada":     "deposit_amount >= 20.0 && verified",
		"chalkboard": "days_active >= 3",
	})
	require.NoError(t, err)
	ctx := context.Background()

	ok, err := engine.Evaluate(ctx, domain.PlatformActivityEvent{Platform: domain.PlatformBovada, DepositAmount: "25.00", Verified: true})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = engine.Evaluate(ctx, domain.PlatformActivityEvent{Platform: domain.PlatformBovada, DepositAmount: "19.99", Verified: true})
	require.NoError(t, err)
	assert.False(t, ok)

	// 非法金额按 0 处理
	ok, err = engine.Evaluate(ctx, domain.PlatformActivityEvent{Platform: domain.PlatformBovada, DepositAmount: "abc", Verified: true})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = engine.Evaluate(ctx, domain.PlatformActivityEvent{Platform: domain.PlatformChalkboard, DaysActive: 3})
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = engine.Evaluate(ctx, domain.PlatformActivityEvent{Platform: "unknown"})
	assert.ErrorIs(t, err, domain.ErrInvalidPlatform)
}

func TestCELQualificationEngineMissingRule(t *testing.T) {
	engine, err := NewCELQualificationEngine(map[string]string{"bovada": "true"})
	require.NoError(t, err)

	ok, err := engine.Evaluate(context.Background(), domain.PlatformActivityEvent{Platform: domain.PlatformChalkboard, DaysActive: 100})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCELQualificationEngineRejectsBadRules(t *testing.T) {
	_, err := NewCELQualificationEngine(map[string]string{"bovada": "deposit_amount +"})
	assert.Error(t, err)

	_, err = NewCELQualificationEngine(map[string]string{"bovada": "deposit_amount * 2.0"})
	assert.Error(t, err)

	_, err = NewCELQualificationEngine(map[string]string{"draftkings": "true"})
	assert.ErrorIs(t, err, domain.ErrInvalidPlatform)
}
