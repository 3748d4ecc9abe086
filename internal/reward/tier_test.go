package reward

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/josphatwangui51-hash/survey-market/internal/domain"
)

func TestTierTable(t *testing.T) {
	assert.Equal(t, int64(100), TierPrice(domain.TierBasic))
	assert.Equal(t, int64(300), TierPrice(domain.TierStandard))
	assert.Equal(t, int64(500), TierPrice(domain.TierElite))
	assert.Equal(t, int64(0), TierPrice(domain.TierNone))

	assert.Equal(t, 5, QuestionCap(domain.TierBasic))
	assert.Equal(t, 7, QuestionCap(domain.TierStandard))
	assert.Equal(t, Unlimited, QuestionCap(domain.TierElite))
}

func TestAllowsQuestionCount(t *testing.T) {
	assert.True(t, AllowsQuestionCount(domain.TierBasic, 5))
	assert.False(t, AllowsQuestionCount(domain.TierBasic, 6))
	assert.True(t, AllowsQuestionCount(domain.TierStandard, 7))
	assert.False(t, AllowsQuestionCount(domain.TierStandard, 10))
	assert.True(t, AllowsQuestionCount(domain.TierElite, 1000))
	assert.True(t, AllowsQuestionCount(domain.TierNone, 10))
}
