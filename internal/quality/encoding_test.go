package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodingBounds(t *testing.T) {
	assert.Equal(t, byte('!'), Phred33.Floor())
	assert.Equal(t, byte('J'), Phred33.Ceiling())
	assert.Equal(t, byte('@'), Phred64.Floor())
	assert.Equal(t, byte('h'), Phred64.Ceiling())
}

func TestEncodingString(t *testing.T) {
	assert.Equal(t, "PHRED_33", Phred33.String())
	assert.Equal(t, "PHRED_64", Phred64.String())
	assert.Equal(t, "NONE", EncodingNone.String())
}

func TestValidatorCheck(t *testing.T) {
	tests := []struct {
		name    string
		v       Validator
		char    byte
		wantErr bool
	}{
		{name: "phred33 floor", v: Validator{Encoding: Phred33}, char: '!'},
		{name: "phred33 ceiling", v: Validator{Encoding: Phred33}, char: 'J'},
		{name: "phred33 below floor", v: Validator{Encoding: Phred33}, char: ' ', wantErr: true},
		{name: "phred33 above ceiling", v: Validator{Encoding: Phred33}, char: 'K', wantErr: true},
		{name: "phred64 floor", v: Validator{Encoding: Phred64}, char: '@'},
		{name: "phred64 below floor", v: Validator{Encoding: Phred64}, char: '?', wantErr: true},
		{name: "max char raises the ceiling", v: Validator{Encoding: Phred33, MaxChar: 'h'}, char: 'K'},
		{name: "max char is enforced", v: Validator{Encoding: Phred33, MaxChar: 'h'}, char: 'i', wantErr: true},
		{name: "none accepts anything", v: Validator{Encoding: EncodingNone}, char: 0x01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.v.Check(tt.char, 7)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)

			var rangeErr *RangeError
			require.ErrorAs(t, err, &rangeErr)
			assert.Equal(t, tt.char, rangeErr.Char)
			assert.Equal(t, 7, rangeErr.Position)
		})
	}
}

func TestRangeErrorMessage(t *testing.T) {
	v := Validator{Encoding: Phred33}
	err := v.Check('K', 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "position 3")
	assert.Contains(t, err.Error(), "PHRED_33")
}
