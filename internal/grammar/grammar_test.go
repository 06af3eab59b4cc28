package grammar

import (
	"errors"
	"io"
	"testing"

	"github.com/seqwell/fastqparse/internal/quality"
	"github.com/seqwell/fastqparse/internal/scanner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, input string, cfg Config) *Engine {
	t.Helper()
	state, err := NewState(cfg)
	require.NoError(t, err)
	return NewEngine(scanner.New([]byte(input)), state)
}

func parseAll(t *testing.T, input string, cfg Config) []*Record {
	t.Helper()
	e := newTestEngine(t, input, cfg)
	var records []*Record
	for {
		rec, err := e.NextRecord()
		if errors.Is(err, io.EOF) {
			return records
		}
		require.NoError(t, err)
		records = append(records, rec)
	}
}

func TestLegacyReadNumbers(t *testing.T) {
	input := "@NAME/1\nACGT\n+\nIIII\n@NAME/2\nACGT\n+\nIIII\n"
	records := parseAll(t, input, Config{PhredOffset: 33})
	require.Len(t, records, 2)

	assert.Equal(t, "NAME", records[0].Name)
	assert.Equal(t, 1, records[0].ReadNumber)
	assert.Equal(t, "NAME", records[1].Name)
	assert.Equal(t, 2, records[1].ReadNumber)
	assert.Equal(t, "ACGT", records[0].Read)
	assert.Equal(t, "IIII", records[0].Quality)
}

func TestReadNumberResolution(t *testing.T) {
	t.Run("zero means unknown", func(t *testing.T) {
		records := parseAll(t, "@NAME/0\nACGT\n+\nIIII\n", Config{PhredOffset: 33})
		require.Len(t, records, 1)
		assert.Equal(t, 0, records[0].ReadNumber)
	})

	t.Run("multi-digit is not a read number", func(t *testing.T) {
		records := parseAll(t, "@NAME/12\nACGT\n+\nIIII\n", Config{PhredOffset: 33})
		require.Len(t, records, 1)
		assert.Equal(t, "NAME", records[0].Name)
		assert.Equal(t, 0, records[0].ReadNumber)
	})

	t.Run("any secondary digit maps to 2", func(t *testing.T) {
		input := "@A/3\nACGT\n+\nIIII\n@B/3\nACGT\n+\nIIII\n"
		records := parseAll(t, input, Config{PhredOffset: 33})
		require.Len(t, records, 2)
		assert.Equal(t, 2, records[0].ReadNumber)
		assert.Equal(t, 2, records[1].ReadNumber)
	})

	t.Run("inconsistent secondary digit is fatal", func(t *testing.T) {
		input := "@A/2\nACGT\n+\nIIII\n@B/3\nACGT\n+\nIIII\n"
		e := newTestEngine(t, input, Config{PhredOffset: 33})

		rec, err := e.NextRecord()
		require.NoError(t, err)
		assert.Equal(t, 2, rec.ReadNumber)

		_, err = e.NextRecord()
		require.Error(t, err)
		var conflict *ReadNumberConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, byte('3'), conflict.Got)
		assert.Equal(t, byte('2'), conflict.Want)

		require.Error(t, e.State().Err())

		_, err = e.NextRecord()
		assert.ErrorIs(t, err, ErrSessionAborted)
	})
}

func TestCasavaTagline(t *testing.T) {
	t.Run("full tagline", func(t *testing.T) {
		records := parseAll(t, "@FC1 1:Y:0:ACGT\nACGT\n+\nIIII\n", Config{PhredOffset: 33})
		require.Len(t, records, 1)

		rec := records[0]
		assert.Equal(t, "FC1 1:Y:0:ACGT", rec.Name)
		assert.Equal(t, 1, rec.ReadNumber)
		assert.True(t, rec.LowQuality)
		assert.Equal(t, "ACGT", rec.SpotGroup)
	})

	t.Run("filter flag N", func(t *testing.T) {
		records := parseAll(t, "@FC1 2:N:0:ATCACG\nACGT\n+\nIIII\n", Config{PhredOffset: 33})
		require.Len(t, records, 1)

		rec := records[0]
		assert.False(t, rec.LowQuality)
		assert.Equal(t, 2, rec.ReadNumber)
		assert.Equal(t, "ATCACG", rec.SpotGroup)
		assert.Equal(t, "FC1 2:N:0:ATCACG", rec.Name)
	})

	t.Run("empty index sequence", func(t *testing.T) {
		records := parseAll(t, "@FC1 1:N:0:\nACGT\n+\nIIII\n", Config{PhredOffset: 33})
		require.Len(t, records, 1)

		rec := records[0]
		assert.Equal(t, "FC1 1:N:0:", rec.Name)
		assert.Empty(t, rec.SpotGroup)
	})

	t.Run("numeric index of 0 records no group", func(t *testing.T) {
		records := parseAll(t, "@FC1 1:N:0:0\nACGT\n+\nIIII\n", Config{PhredOffset: 33})
		require.Len(t, records, 1)

		rec := records[0]
		assert.Equal(t, "FC1 1:N:0:0", rec.Name)
		assert.Empty(t, rec.SpotGroup)
	})

	t.Run("full coordinate name", func(t *testing.T) {
		input := "@EAS139:136:FC706VJ:2:2104:15343:197393 1:N:18:ATCACG\nACGT\n+\nIIII\n"
		records := parseAll(t, input, Config{PhredOffset: 33})
		require.Len(t, records, 1)

		rec := records[0]
		assert.Equal(t, "EAS139:136:FC706VJ:2:2104:15343:197393 1:N:18:ATCACG", rec.Name)
		assert.Equal(t, 1, rec.ReadNumber)
		assert.Equal(t, "ATCACG", rec.SpotGroup)
	})
}

func TestPacBioNames(t *testing.T) {
	cfg := Config{PhredOffset: 33, DefaultReadNumber: PacBioReadNumber}

	t.Run("slashes stay in the name", func(t *testing.T) {
		records := parseAll(t, "@m140415_s1_p0/553/0_16\nACGTACGTACGTACGT\n+\nIIIIIIIIIIIIIIII\n", cfg)
		require.Len(t, records, 1)

		rec := records[0]
		assert.Equal(t, "m140415_s1_p0/553/0_16", rec.Name)
		assert.Equal(t, 0, rec.ReadNumber)
	})

	t.Run("single-digit suffix is not a read number", func(t *testing.T) {
		records := parseAll(t, "@m1/2\nACGT\n+\nIIII\n@m2/3\nACGT\n+\nIIII\n", cfg)
		require.Len(t, records, 2)
		assert.Equal(t, "m1/2", records[0].Name)
		assert.Equal(t, "m2/3", records[1].Name)
		assert.Equal(t, 0, records[0].ReadNumber)
		assert.Equal(t, 0, records[1].ReadNumber)
	})
}

func TestSpotGroup(t *testing.T) {
	t.Run("group joins the name", func(t *testing.T) {
		records := parseAll(t, "@NAME#ATCACG/2\nACGT\n+\nIIII\n", Config{PhredOffset: 33})
		require.Len(t, records, 1)

		rec := records[0]
		assert.Equal(t, "NAME#ATCACG", rec.Name)
		assert.Equal(t, "ATCACG", rec.SpotGroup)
		assert.Equal(t, 2, rec.ReadNumber)
	})

	t.Run("group 0 is ignored but still grows the name", func(t *testing.T) {
		records := parseAll(t, "@HWUSI-EAS100R:6:73:941:1973#0/1\nACGT\n+\nIIII\n", Config{PhredOffset: 33})
		require.Len(t, records, 1)

		rec := records[0]
		assert.Equal(t, "HWUSI-EAS100R:6:73:941:1973#0", rec.Name)
		assert.Empty(t, rec.SpotGroup)
		assert.Equal(t, 1, rec.ReadNumber)
	})

	t.Run("hash without a group token", func(t *testing.T) {
		e := newTestEngine(t, "@NAME#\nACGT\n+\nIIII\n", Config{PhredOffset: 33})
		_, err := e.NextRecord()
		var syntaxErr *SyntaxError
		require.ErrorAs(t, err, &syntaxErr)
	})
}

func TestDescriptiveTail(t *testing.T) {
	records := parseAll(t, "@NAME length=36 extra\nACGT\n+\nIIII\n", Config{PhredOffset: 33})
	require.Len(t, records, 1)
	assert.Equal(t, "NAME length=36 extra", records[0].Name)
	assert.Equal(t, 0, records[0].ReadNumber)
}

func TestSequenceLines(t *testing.T) {
	t.Run("multi-line read", func(t *testing.T) {
		records := parseAll(t, "@r\nACGT\nTTAA\n+\nIIIIIIII\n", Config{PhredOffset: 33})
		require.Len(t, records, 1)
		assert.Equal(t, "ACGTTTAA", records[0].Read)
	})

	t.Run("ambiguity codes are bases", func(t *testing.T) {
		records := parseAll(t, "@r\nACGTNRYSWK\n+\nIIIIIIIIII\n", Config{PhredOffset: 33})
		require.Len(t, records, 1)
		assert.False(t, records[0].IsColorspace)
	})

	t.Run("colorspace read", func(t *testing.T) {
		records := parseAll(t, "@r\nT01230\n+\nIIIIII\n", Config{PhredOffset: 33})
		require.Len(t, records, 1)
		assert.True(t, records[0].IsColorspace)
		assert.Equal(t, "T01230", records[0].Read)
	})

	t.Run("colorspace header marker", func(t *testing.T) {
		records := parseAll(t, ">r1/1\nT0123\n+\nIIIII\n", Config{PhredOffset: 33})
		require.Len(t, records, 1)
		assert.True(t, records[0].IsColorspace)
		assert.Equal(t, "r1", records[0].Name)
		assert.Equal(t, 1, records[0].ReadNumber)
	})

	t.Run("base payload contradicts the colorspace marker", func(t *testing.T) {
		e := newTestEngine(t, ">r2/1\nACGT\n+\nIIII\n", Config{PhredOffset: 33})
		_, err := e.NextRecord()
		var syntaxErr *SyntaxError
		require.ErrorAs(t, err, &syntaxErr)
		assert.NoError(t, e.State().Err())
	})

	t.Run("mixing base and colorspace lines", func(t *testing.T) {
		e := newTestEngine(t, "@r\nACGT\nT0123\n+\nIIIIIIIII\n", Config{PhredOffset: 33})
		_, err := e.NextRecord()
		var syntaxErr *SyntaxError
		require.ErrorAs(t, err, &syntaxErr)
		assert.NoError(t, e.State().Err())
	})

	t.Run("missing sequence line", func(t *testing.T) {
		e := newTestEngine(t, "@r\n+\nIIII\n", Config{PhredOffset: 33})
		_, err := e.NextRecord()
		var syntaxErr *SyntaxError
		require.ErrorAs(t, err, &syntaxErr)
	})
}

func TestQualityValidation(t *testing.T) {
	t.Run("valid phred33", func(t *testing.T) {
		records := parseAll(t, "@r\nACGT\n+\n!5IJ\n", Config{PhredOffset: 33})
		require.Len(t, records, 1)
		assert.Equal(t, "!5IJ", records[0].Quality)
	})

	t.Run("below the floor is fatal", func(t *testing.T) {
		e := newTestEngine(t, "@r\nACGT\n+\nII I\n", Config{PhredOffset: 33})
		_, err := e.NextRecord()
		require.Error(t, err)

		var rangeErr *quality.RangeError
		require.ErrorAs(t, err, &rangeErr)
		assert.Equal(t, byte(' '), rangeErr.Char)
		assert.Equal(t, 2, rangeErr.Position)

		_, err = e.NextRecord()
		assert.ErrorIs(t, err, ErrSessionAborted)
	})

	t.Run("above the ceiling is fatal", func(t *testing.T) {
		e := newTestEngine(t, "@r\nACGT\n+\nIIKI\n", Config{PhredOffset: 33})
		_, err := e.NextRecord()
		var rangeErr *quality.RangeError
		require.ErrorAs(t, err, &rangeErr)
		assert.Equal(t, byte('K'), rangeErr.Char)
	})

	t.Run("max phred raises the ceiling", func(t *testing.T) {
		records := parseAll(t, "@r\nACGT\n+\nIIKh\n", Config{PhredOffset: 33, MaxPhred: 'h'})
		require.Len(t, records, 1)
		assert.Equal(t, "IIKh", records[0].Quality)
	})

	t.Run("phred64 bounds", func(t *testing.T) {
		records := parseAll(t, "@r\nACGT\n+\n@Vgh\n", Config{PhredOffset: 64})
		require.Len(t, records, 1)

		e := newTestEngine(t, "@r\nACGT\n+\n?@@@\n", Config{PhredOffset: 64})
		_, err := e.NextRecord()
		var rangeErr *quality.RangeError
		require.ErrorAs(t, err, &rangeErr)
		assert.Equal(t, byte('?'), rangeErr.Char)
		assert.Equal(t, 0, rangeErr.Position)
	})

	t.Run("offset zero disables validation", func(t *testing.T) {
		records := parseAll(t, "@r\nACGT\n+\nI~ !\n", Config{})
		require.Len(t, records, 1)
		assert.Equal(t, "I~ !", records[0].Quality)
	})

	t.Run("multi-line quality", func(t *testing.T) {
		records := parseAll(t, "@r\nACGTACGT\n+\nIIII\nJJJJ\n", Config{PhredOffset: 33})
		require.Len(t, records, 1)
		assert.Equal(t, "IIIIJJJJ", records[0].Quality)
	})

	t.Run("quality longer than the read is recoverable", func(t *testing.T) {
		e := newTestEngine(t, "@r\nACGT\n+\nIIIII\n", Config{PhredOffset: 33})
		_, err := e.NextRecord()
		var syntaxErr *SyntaxError
		require.ErrorAs(t, err, &syntaxErr)
		assert.NoError(t, e.State().Err())
	})

	t.Run("quality ends at end of input", func(t *testing.T) {
		e := newTestEngine(t, "@r\nACGT\n+\nIIII", Config{PhredOffset: 33})
		rec, err := e.NextRecord()
		require.NoError(t, err)
		assert.Equal(t, "IIII", rec.Quality)

		_, err = e.NextRecord()
		assert.ErrorIs(t, err, io.EOF)
	})
}

func TestQualityHeaderRepeatsName(t *testing.T) {
	records := parseAll(t, "@SEQ_1/1\nACGT\n+SEQ_1/1\nIIII\n", Config{PhredOffset: 33})
	require.Len(t, records, 1)
	assert.Equal(t, "SEQ_1", records[0].Name)
}

func TestResync(t *testing.T) {
	input := "@good1\nACGT\n+\nIIII\n@bad\n????\n+\nIIII\n@good2\nTTTT\n+\nJJJJ\n"
	e := newTestEngine(t, input, Config{PhredOffset: 33})

	rec, err := e.NextRecord()
	require.NoError(t, err)
	assert.Equal(t, "good1", rec.Name)

	_, err = e.NextRecord()
	var syntaxErr *SyntaxError
	require.ErrorAs(t, err, &syntaxErr)

	require.NoError(t, e.Resync())

	rec, err = e.NextRecord()
	require.NoError(t, err)
	assert.Equal(t, "good2", rec.Name)
	assert.Equal(t, "TTTT", rec.Read)

	_, err = e.NextRecord()
	assert.ErrorIs(t, err, io.EOF)
}

func TestResyncAtEndOfInput(t *testing.T) {
	e := newTestEngine(t, "@bad\n????\n", Config{PhredOffset: 33})
	_, err := e.NextRecord()
	var syntaxErr *SyntaxError
	require.ErrorAs(t, err, &syntaxErr)

	assert.ErrorIs(t, e.Resync(), io.EOF)
}

func TestInputEdges(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		e := newTestEngine(t, "", Config{PhredOffset: 33})
		_, err := e.NextRecord()
		assert.ErrorIs(t, err, io.EOF)
	})

	t.Run("blank lines between records", func(t *testing.T) {
		records := parseAll(t, "@a/1\nACGT\n+\nIIII\n\n\n@b/1\nTTTT\n+\nIIII\n", Config{PhredOffset: 33})
		require.Len(t, records, 2)
		assert.Equal(t, "a", records[0].Name)
		assert.Equal(t, "b", records[1].Name)
	})

	t.Run("crlf line endings", func(t *testing.T) {
		records := parseAll(t, "@a/1\r\nACGT\r\n+\r\nIIII\r\n", Config{PhredOffset: 33})
		require.Len(t, records, 1)
		assert.Equal(t, "a", records[0].Name)
		assert.Equal(t, "ACGT", records[0].Read)
		assert.Equal(t, "IIII", records[0].Quality)
	})

	t.Run("missing header marker", func(t *testing.T) {
		e := newTestEngine(t, "NAME/1\nACGT\n+\nIIII\n", Config{PhredOffset: 33})
		_, err := e.NextRecord()
		var syntaxErr *SyntaxError
		require.ErrorAs(t, err, &syntaxErr)
		assert.Equal(t, 1, syntaxErr.Line)
	})

	t.Run("empty name before slash", func(t *testing.T) {
		e := newTestEngine(t, "@/1\nACGT\n+\nIIII\n", Config{PhredOffset: 33})
		_, err := e.NextRecord()
		var syntaxErr *SyntaxError
		require.ErrorAs(t, err, &syntaxErr)
	})

	t.Run("header line numbers", func(t *testing.T) {
		records := parseAll(t, "@a/1\nACGT\n+\nIIII\n@b/1\nTTTT\n+\nIIII\n", Config{PhredOffset: 33})
		require.Len(t, records, 2)
		assert.Equal(t, 1, records[0].Line)
		assert.Equal(t, 5, records[1].Line)
	})
}

func TestDetectionIsDeterministic(t *testing.T) {
	input := "@EAS139:136:FC706VJ:2:2104:15343:197393 1:N:0:ATCACG\nACGT\n+\nIIII\n" +
		"@HWUSI-EAS100R:6:73:941:1973#0/1\nTTTT\n+\nJJJJ\n"

	first := parseAll(t, input, Config{PhredOffset: 33})
	second := parseAll(t, input, Config{PhredOffset: 33})
	assert.Equal(t, first, second)
}
