package shared

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{in: "0", want: 0},
		{in: "0d", want: 0},
		{in: "2d", want: 48 * time.Hour},
		{in: " 6h ", want: 6 * time.Hour},
		{in: "15m", want: 15 * time.Minute},
		{in: "30s", want: 30 * time.Second},
		{in: "1 h", want: time.Hour},
		{in: "", wantErr: true},
		{in: "1w", wantErr: true},
		{in: "-1h", wantErr: true},
		{in: "1.5h", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDuration(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
