package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePaymentPayload(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		wantDays int
		wantOK   bool
	}{
		{name: "week", payload: "sub_7d", wantDays: 7, wantOK: true},
		{name: "month", payload: "sub_30d", wantDays: 30, wantOK: true},
		{name: "year", payload: "sub_365d", wantDays: 365, wantOK: true},
		// повреждённый payload падает на документированный дефолт, без паники
		{name: "garbage", payload: "garbage", wantDays: DefaultPaymentDays, wantOK: false},
		{name: "empty", payload: "", wantDays: DefaultPaymentDays, wantOK: false},
		{name: "missing suffix", payload: "sub_30", wantDays: DefaultPaymentDays, wantOK: false},
		{name: "not a number", payload: "sub_xxd", wantDays: DefaultPaymentDays, wantOK: false},
		{name: "negative", payload: "sub_-5d", wantDays: DefaultPaymentDays, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days, ok := ParsePaymentPayload(tt.payload)
			assert.Equal(t, tt.wantDays, days)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestParsePlanCallback(t *testing.T) {
	days, ok := ParsePlanCallback("sub30")
	assert.True(t, ok)
	assert.Equal(t, 30, days)

	_, ok = ParsePlanCallback("unsub30")
	assert.False(t, ok)

	_, ok = ParsePlanCallback("subxx")
	assert.False(t, ok)
}

func TestPlanRoundTrip(t *testing.T) {
	for _, plan := range DefaultPlans() {
		days, ok := ParsePaymentPayload(plan.InvoicePayload())
		assert.True(t, ok)
		assert.Equal(t, plan.Days, days)
	}
}
