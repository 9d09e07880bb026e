package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSampleRatio(t *testing.T) {
	assert.Equal(t, defaultSampleRatio, parseSampleRatio(""))
	assert.Equal(t, defaultSampleRatio, parseSampleRatio("half"))
	assert.Equal(t, 0.0, parseSampleRatio("-2"))
	assert.Equal(t, 1.0, parseSampleRatio("7"))
	assert.Equal(t, 0.25, parseSampleRatio(" 0.25 "))
}

func TestParseHeaders(t *testing.T) {
	assert.Nil(t, parseHeaders(""))
	assert.Nil(t, parseHeaders("novalue, =x"))
	assert.Equal(t, map[string]string{"api-key": "abc", "tenant": "t=1"}, parseHeaders("api-key=abc, tenant=t=1,broken"))
}

func TestInitOTelDisabledIsNoop(t *testing.T) {
	shutdown := InitOTel(context.Background(), nil, OtelConfig{Enabled: false})
	assert.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}
