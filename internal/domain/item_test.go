package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/johan198205/lekia-translations-sub000/internal/domain"
)

func TestCanTransition(t *testing.T) {
	tests := map[string]struct {
		from domain.Status
		to   domain.Status
		exp  bool
	}{
		"pending enters optimizing":           {domain.StatusPending, domain.StatusOptimizing, true},
		"pending enters translating directly": {domain.StatusPending, domain.StatusTranslating, true},
		"pending enters processing":           {domain.StatusPending, domain.StatusProcessing, true},
		"optimizing completes to optimized":   {domain.StatusOptimizing, domain.StatusOptimized, true},
		"optimizing can fail":                 {domain.StatusOptimizing, domain.StatusError, true},
		"optimized enters translating":        {domain.StatusOptimized, domain.StatusTranslating, true},
		"optimized closes without translate":  {domain.StatusOptimized, domain.StatusCompleted, true},
		"translating completes":               {domain.StatusTranslating, domain.StatusCompleted, true},
		"translating can fail":                {domain.StatusTranslating, domain.StatusError, true},
		"processing completes":                {domain.StatusProcessing, domain.StatusCompleted, true},
		"processing can fail":                 {domain.StatusProcessing, domain.StatusError, true},

		"no backward completed to pending": {domain.StatusCompleted, domain.StatusPending, false},
		"no backward optimized to pending": {domain.StatusOptimized, domain.StatusPending, false},
		"pending cannot complete directly": {domain.StatusPending, domain.StatusCompleted, false},
		"pending cannot fail":              {domain.StatusPending, domain.StatusError, false},
		"error is terminal":                {domain.StatusError, domain.StatusTranslating, false},
		"completed is terminal":            {domain.StatusCompleted, domain.StatusOptimizing, false},
		"optimizing skips optimized":       {domain.StatusOptimizing, domain.StatusCompleted, false},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.exp, domain.CanTransition(test.from, test.to))
		})
	}
}

func TestCanReenter(t *testing.T) {
	assert.False(t, domain.CanReenter(domain.StatusPending))
	assert.False(t, domain.CanReenter(""))
	for _, s := range []domain.Status{
		domain.StatusOptimizing, domain.StatusOptimized, domain.StatusTranslating,
		domain.StatusProcessing, domain.StatusCompleted, domain.StatusError,
	} {
		assert.True(t, domain.CanReenter(s), string(s))
	}
}

func TestStatusPredicates(t *testing.T) {
	assert.True(t, domain.StatusCompleted.Terminal())
	assert.True(t, domain.StatusError.Terminal())
	assert.False(t, domain.StatusTranslating.Terminal())

	assert.True(t, domain.StatusOptimizing.InFlight())
	assert.True(t, domain.StatusProcessing.InFlight())
	assert.False(t, domain.StatusPending.InFlight())
	assert.False(t, domain.StatusCompleted.InFlight())
}

func TestItemAttributes(t *testing.T) {
	tests := map[string]struct {
		raw string
		exp map[string]string
	}{
		"empty":           {"", nil},
		"json object":     {`{"color":"red","size":"M"}`, map[string]string{"color": "red", "size": "M"}},
		"key value pairs": {"color=red; size=M", map[string]string{"color": "red", "size": "M"}},
		"garbage":         {"not attributes", nil},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			it := domain.Item{AttributesRaw: test.raw}
			assert.Equal(t, test.exp, it.Attributes())
		})
	}
}
