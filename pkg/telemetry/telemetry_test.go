package telemetry

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Format(&buf, 220, 1.23456))
	assert.Equal(t, "Voltage: 220 V | Current (Irms): 1.235 A\n", buf.String())

	buf.Reset()
	require.NoError(t, Format(&buf, 0, 0))
	assert.Equal(t, "Voltage: 0 V | Current (Irms): 0.000 A\n", buf.String())
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    Reading
		wantErr bool
	}{
		{
			name: "valid 110V",
			line: "Voltage: 110 V | Current (Irms): 0.512 A",
			want: Reading{Volts: 110, Irms: 0.512},
		},
		{
			name: "valid off with trailing newline",
			line: "Voltage: 0 V | Current (Irms): 0.000 A\r\n",
			want: Reading{Volts: 0, Irms: 0},
		},
		{
			name: "extra spacing",
			line: "Voltage:   220 V  |  Current (Irms):  12.500 A",
			want: Reading{Volts: 220, Irms: 12.5},
		},
		{
			name:    "invalid voltage",
			line:    "Voltage: abc V | Current (Irms): 0.512 A",
			wantErr: true,
		},
		{
			name:    "missing current",
			line:    "Voltage: 110 V",
			wantErr: true,
		},
		{
			name:    "invalid current",
			line:    "Voltage: 110 V | Current (Irms): x A",
			wantErr: true,
		},
		{
			name:    "wrong current label",
			line:    "Voltage: 110 V | Power: 1.0 W",
			wantErr: true,
		},
		{
			name:    "negative current",
			line:    "Voltage: 110 V | Current (Irms): -1.0 A",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.line)
			if tt.wantErr {
				assert.Error(t, err)
				assert.NotErrorIs(t, err, ErrNotTelemetry)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want.Volts, got.Volts)
			assert.InDelta(t, tt.want.Irms, got.Irms, 1e-9)
		})
	}
}

func TestParse_NotTelemetry(t *testing.T) {
	lines := []string{
		"",
		"Button pressed. New voltage: 220 V",
		"Connecting to Wi-Fi home",
		"IP: 192.168.1.10",
	}
	for _, line := range lines {
		_, err := Parse(line)
		assert.ErrorIs(t, err, ErrNotTelemetry, line)
	}
}

func TestFormatParse_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Format(&buf, 220, 3.25))

	got, err := Parse(buf.String())
	require.NoError(t, err)
	assert.Equal(t, 220, got.Volts)
	assert.InDelta(t, 3.25, got.Irms, 1e-9)
}
