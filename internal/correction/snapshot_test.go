package correction

import (
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullOutput = `{"fixedText":"They're going to the store.","explanation":"Fixed \"their\" and \"too\"."}`

func TestParsePartial(t *testing.T) {
	tests := []struct {
		name         string
		data         string
		want         Result
		wantComplete bool
	}{
		{"empty", ``, Result{}, false},
		{"open brace", `{`, Result{}, false},
		{"partial key", `{"fixed`, Result{}, false},
		{"key no value", `{"fixedText":`, Result{}, false},
		{"partial value", `{"fixedText":"They`, Result{FixedText: "They"}, false},
		{"held back escape", `{"fixedText":"a\`, Result{FixedText: "a"}, false},
		{"held back unicode escape", `{"fixedText":"a\u00`, Result{FixedText: "a"}, false},
		{"unicode escape", `{"fixedText":"caf\u00e9`, Result{FixedText: "café"}, false},
		{"surrogate pair", `{"fixedText":"\ud83d\ude00"`, Result{FixedText: "😀"}, false},
		{"held back surrogate pair", `{"fixedText":"x\ud83d\ude`, Result{FixedText: "x"}, false},
		{"escapes", `{"fixedText":"a\nb\t\"c\"\\/"`, Result{FixedText: "a\nb\t\"c\"\\/"}, false},
		{"second field", `{"fixedText":"a","explanation":"b`, Result{FixedText: "a", Explanation: "b"}, false},
		{"complete", fullOutput, Result{FixedText: "They're going to the store.", Explanation: `Fixed "their" and "too".`}, true},
		{"whitespace", " {\n \"fixedText\" : \"a\" ,\n \"explanation\" : \"b\" }\n", Result{FixedText: "a", Explanation: "b"}, true},
		{"unknown keys skipped", `{"n":[1,{"x":"}"}],"fixedText":"a","t":true}`, Result{FixedText: "a"}, true},
		{"empty object", `{}`, Result{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, complete, err := ParsePartial([]byte(tt.data))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantComplete, complete)
		})
	}
}

func TestParsePartial_HoldsBackPartialUTF8(t *testing.T) {
	data := []byte(`{"fixedText":"caf` + "é")
	got, _, err := ParsePartial(data[:len(data)-1])
	require.NoError(t, err)
	assert.Equal(t, "caf", got.FixedText)

	got, _, err = ParsePartial(data)
	require.NoError(t, err)
	assert.Equal(t, "café", got.FixedText)
}

func TestParsePartial_Malformed(t *testing.T) {
	for _, data := range []string{
		`hello`,
		`[1,2]`,
		`{fixedText:"a"}`,
		`{"fixedText" "a"}`,
		`{"fixedText":"a" "explanation":"b"}`,
		`{"fixedText":"\x"}`,
		`{"a":1},`,
		`{"fixedText":"a",}`,
	} {
		_, _, err := ParsePartial([]byte(data))
		assert.ErrorIs(t, err, ErrMalformed, data)
	}
}

// Every byte-level prefix of the output must yield a snapshot that extends
// the one before it.
func TestParsePartial_PrefixesAreMonotonic(t *testing.T) {
	data := []byte(`{"fixedText":"Ünïcødé é 😀 \"q\"","explanation":"ok\n"}`)

	var prev Result
	for i := 0; i <= len(data); i++ {
		got, _, err := ParsePartial(data[:i])
		require.NoError(t, err, "prefix %d", i)
		require.True(t, got.extends(prev), "prefix %d: %+v after %+v", i, got, prev)
		prev = got
	}
	assert.Equal(t, "Ünïcødé é 😀 \"q\"", prev.FixedText)
	assert.Equal(t, "ok\n", prev.Explanation)
}

func TestAccumulator(t *testing.T) {
	var acc Accumulator

	changed, err := acc.Write([]byte(`{"fixedText":`))
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = acc.Write([]byte(`"Hel`))
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "Hel", acc.Snapshot().FixedText)

	_, err = acc.Final()
	assert.ErrorIs(t, err, ErrIncomplete)

	changed, err = acc.Write([]byte(`lo","explanation":"none"}`))
	require.NoError(t, err)
	assert.True(t, changed)
	assert.True(t, acc.Complete())

	res, err := acc.Final()
	require.NoError(t, err)
	assert.Equal(t, Result{FixedText: "Hello", Explanation: "none"}, res)
}

func TestAccumulator_RejectsRetraction(t *testing.T) {
	var acc Accumulator
	_, err := acc.Write([]byte(`{"fixedText":"abc",`))
	require.NoError(t, err)

	_, err = acc.Write([]byte(`"fixedText":"x`))
	assert.ErrorIs(t, err, ErrNotMonotonic)
	assert.Equal(t, "abc", acc.Snapshot().FixedText)
}

func TestAccumulator_FinalChecksSchema(t *testing.T) {
	var acc Accumulator
	_, err := acc.Write([]byte(`{"fixedText":"a"}`))
	require.NoError(t, err)
	assert.True(t, acc.Complete())

	_, err = acc.Final()
	assert.ErrorIs(t, err, ErrNonConforming)
}

func TestSnapshotReader(t *testing.T) {
	sr := NewSnapshotReader(iotest.OneByteReader(strings.NewReader(fullOutput)))

	var snapshots []Result
	for sr.Next() {
		snapshots = append(snapshots, sr.Snapshot())
	}
	require.NoError(t, sr.Err())
	require.NotEmpty(t, snapshots)

	for i := 1; i < len(snapshots); i++ {
		assert.True(t, snapshots[i].extends(snapshots[i-1]))
	}

	res, err := sr.Final()
	require.NoError(t, err)
	assert.Equal(t, "They're going to the store.", res.FixedText)
	assert.Equal(t, `Fixed "their" and "too".`, res.Explanation)
}

func TestSnapshotReader_TruncatedStream(t *testing.T) {
	sr := NewSnapshotReader(strings.NewReader(fullOutput[:30]))
	_, err := sr.Final()
	assert.ErrorIs(t, err, ErrIncomplete)
	assert.NoError(t, sr.Err())
}

func TestSnapshotReader_BrokenStream(t *testing.T) {
	r := io.MultiReader(strings.NewReader(fullOutput[:30]), iotest.ErrReader(io.ErrUnexpectedEOF))
	sr := NewSnapshotReader(r)

	for sr.Next() {
	}
	assert.True(t, errors.Is(sr.Err(), io.ErrUnexpectedEOF))
	assert.NotEmpty(t, sr.Snapshot().FixedText)

	_, err := sr.Final()
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestSnapshotReader_Malformed(t *testing.T) {
	sr := NewSnapshotReader(strings.NewReader(`I'm sorry, I can't help with that.`))
	assert.False(t, sr.Next())
	assert.ErrorIs(t, sr.Err(), ErrMalformed)
}
