package logimport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
		want string
	}{
		{"plain utf-8", []byte("[MAIN]\nLOCATOR=JO70FD"), "[MAIN]\nLOCATOR=JO70FD"},
		{"utf-8 with bom", append([]byte{0xEF, 0xBB, 0xBF}, "QSO:"...), "QSO:"},
		{"utf-8 czech", []byte("Dvořák"), "Dvořák"},
		{"windows-1250", []byte("PName=Dvo\xf8\xe1k \x9aum"), "PName=Dvořák šum"},
		{"empty", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decode(tt.raw))
		})
	}
}

func TestClassifyMode(t *testing.T) {
	tests := []struct {
		mode string
		want ModeClass
	}{
		{"CW", ModeCW},
		{" cw ", ModeCW},
		{"CWREV", ModeUnknown},
		{"SSB", ModePhone},
		{"PH", ModePhone},
		{"fm", ModePhone},
		{"FT8", ModeDigital},
		{"RY", ModeDigital},
		{"DG", ModeDigital},
		{"psk31", ModeDigital},
		{"", ModeUnknown},
		{"HELL", ModeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyMode(tt.mode))
		})
	}
}
