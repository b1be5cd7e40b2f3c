package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		allowedFlags []string
		want         []string
	}{
		{
			name:         "short flag with separate value",
			args:         []string{"-c", "vault.json", "-d", "/tmp/v"},
			allowedFlags: []string{"-c", "-config"},
			want:         []string{"-c", "vault.json"},
		},
		{
			name:         "flag with equals",
			args:         []string{"-config=alt.json", "-d", "/tmp/v"},
			allowedFlags: []string{"-c", "-config"},
			want:         []string{"-config=alt.json"},
		},
		{
			name:         "unknown flags and positionals ignored",
			args:         []string{"-x", "1", "--y=2", "positional"},
			allowedFlags: []string{"-c"},
			want:         []string{},
		},
		{
			name:         "flag without value at end is kept",
			args:         []string{"-d"},
			allowedFlags: []string{"-d"},
			want:         []string{"-d"},
		},
		{
			name:         "next dash-prefixed token is not a value",
			args:         []string{"-d", "-l", "debug"},
			allowedFlags: []string{"-d", "-l"},
			want:         []string{"-d", "-l", "debug"},
		},
		{
			name:         "repeated flag preserved in order",
			args:         []string{"-r", "30", "-r", "90"},
			allowedFlags: []string{"-r"},
			want:         []string{"-r", "30", "-r", "90"},
		},
		{
			name:         "empty args",
			args:         nil,
			allowedFlags: []string{"-c"},
			want:         []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowedFlags))
		})
	}
}

func TestConfigPath(t *testing.T) {
	assert.Equal(t, "/etc/short.json", ConfigPath([]string{"-c", "/etc/short.json"}))
	assert.Equal(t, "/etc/long.json", ConfigPath([]string{"-d", "/tmp", "-config", "/etc/long.json"}))
	assert.Equal(t, "/etc/2.json", ConfigPath([]string{"-c", "/etc/1.json", "-config=/etc/2.json"}))
	assert.Empty(t, ConfigPath([]string{"-x", "1"}))
}
