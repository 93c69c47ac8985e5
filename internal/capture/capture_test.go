package capture

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calgrid/internal/config"
)

func TestFromConfig(t *testing.T) {
	o := FromConfig(config.CaptureConfig{Output: "out.png", Width: 800}, "http://127.0.0.1:8080/calendar")
	assert.Equal(t, "http://127.0.0.1:8080/calendar", o.URL)
	assert.Equal(t, "out.png", o.OutputPath)

	o = FromConfig(config.CaptureConfig{URL: "http://x/calendar"}, "http://fallback")
	assert.Equal(t, "http://x/calendar", o.URL)
}

func TestNormalize(t *testing.T) {
	o := Options{URL: "http://x"}
	require.NoError(t, o.normalize())
	assert.Equal(t, DefaultWidth, o.Width)
	assert.Equal(t, DefaultHeight, o.Height)
	assert.Equal(t, DefaultTimeout, o.Timeout)
}

func TestCapture_RequiresURLAndOutput(t *testing.T) {
	_, err := CapturePNG(context.Background(), Options{})
	assert.ErrorIs(t, err, ErrNoURL)

	err = CaptureToFile(context.Background(), Options{URL: "http://x"})
	assert.ErrorIs(t, err, ErrNoOutput)
}
