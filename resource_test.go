package pagegrade_test

import (
	"testing"

	"github.com/fwojciec/pagegrade"
	"github.com/stretchr/testify/assert"
)

func TestTypeFromPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, pagegrade.ResourceCSS, pagegrade.TypeFromPath("https://ex.com/a/style.css"))
	assert.Equal(t, pagegrade.ResourceCSS, pagegrade.TypeFromPath("/static/MAIN.CSS?v=2"))
	assert.Equal(t, pagegrade.ResourceJS, pagegrade.TypeFromPath("app.js#x"))
	assert.Equal(t, pagegrade.ResourceJS, pagegrade.TypeFromPath("/modules/entry.mjs"))
	assert.Equal(t, pagegrade.ResourceUnknown, pagegrade.TypeFromPath("/data/config.json"))
	assert.Equal(t, pagegrade.ResourceUnknown, pagegrade.TypeFromPath("/loader"))
}

func TestThreshold_Sufficient(t *testing.T) {
	t.Parallel()

	th := pagegrade.DefaultThreshold

	assert.False(t, th.Sufficient(0, 0))
	assert.False(t, th.Sufficient(1, 15))
	assert.True(t, th.Sufficient(2, 30), "file count alone is enough")
	assert.True(t, th.Sufficient(1, 10000), "byte count alone is enough")

	t.Run("zero field disables criterion", func(t *testing.T) {
		t.Parallel()

		bytesOnly := pagegrade.Threshold{MinBytes: 100}
		assert.False(t, bytesOnly.Sufficient(50, 99))
		assert.True(t, bytesOnly.Sufficient(0, 100))

		assert.False(t, pagegrade.Threshold{}.Sufficient(1000, 1000000))
	})
}

func TestTypeFromContentType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ct   string
		want pagegrade.ResourceType
	}{
		{"text/css", pagegrade.ResourceCSS},
		{"Text/CSS; charset=utf-8", pagegrade.ResourceCSS},
		{"application/javascript", pagegrade.ResourceJS},
		{"text/ecmascript", pagegrade.ResourceJS},
		{"application/json", pagegrade.ResourceJS},
		{"text/html", pagegrade.ResourceUnknown},
		{"", pagegrade.ResourceUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.ct, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, pagegrade.TypeFromContentType(tt.ct))
		})
	}
}
