package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/gitsr/pkg/expression"
)

func mustCompile(t *testing.T, list ...string) []*expression.Expression {
	t.Helper()
	exprs, err := expression.Compile(list)
	require.NoError(t, err)
	return exprs
}

func TestLineIndex(t *testing.T) {
	idx := NewLineIndex("one\ntwo\r\nthree")

	tests := []struct {
		name   string
		offset int
		line   int
		text   string
	}{
		{name: "first_byte", offset: 0, line: 0, text: "one\n"},
		{name: "newline_belongs_to_its_line", offset: 3, line: 0, text: "one\n"},
		{name: "second_line", offset: 4, line: 1, text: "two\r\n"},
		{name: "carriage_return_stays_inside", offset: 7, line: 1, text: "two\r\n"},
		{name: "last_line_without_newline", offset: 11, line: 2, text: "three"},
		{name: "negative_offset_clamps", offset: -5, line: 0, text: "one\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := idx.LineOf(tt.offset)
			assert.Equal(t, tt.line, line)
			assert.Equal(t, tt.text, idx.Line(line))
		})
	}

	assert.Equal(t, "", idx.Line(3))
	assert.Equal(t, "", idx.Line(-1))
	assert.Equal(t, 3, idx.Len())
}

func TestLineIndexTrailingNewline(t *testing.T) {
	idx := NewLineIndex("a\n")
	assert.Equal(t, 2, idx.Len())
	assert.Equal(t, "a\n", idx.Line(0))
	assert.Equal(t, "", idx.Line(1))
}

func TestTransform(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		list     []string
		mode     Mode
		want     string
		wantHits []Match
	}{
		{
			name: "fix_single_line",
			text: "hello world\n",
			list: []string{"world", "galaxy"},
			mode: ModeFix,
			want: "hello galaxy\n",
			wantHits: []Match{
				{Expression: 0, Line: 1, Before: "hello world\n", After: "hello galaxy\n", Old: "world", New: "galaxy"},
			},
		},
		{
			name: "search_leaves_after_empty",
			text: "a\nb world\n",
			list: []string{"world", "galaxy"},
			mode: ModeSearch,
			want: "a\nb galaxy\n",
			wantHits: []Match{
				{Expression: 0, Line: 2, Before: "b world\n", Old: "world"},
			},
		},
		{
			name: "chained_expressions_see_previous_output",
			text: "cat\n",
			list: []string{"cat", "dog", "dog", "wolf"},
			mode: ModeFix,
			want: "wolf\n",
			wantHits: []Match{
				{Expression: 0, Line: 1, Before: "cat\n", After: "dog\n", Old: "cat", New: "dog"},
				{Expression: 1, Line: 1, Before: "dog\n", After: "wolf\n", Old: "dog", New: "wolf"},
			},
		},
		{
			name: "no_match",
			text: "nothing here\n",
			list: []string{"zzz", "y"},
			mode: ModeFix,
			want: "nothing here\n",
		},
		{
			name: "after_line_uses_same_index_when_lines_grow",
			text: "x\ny\n",
			list: []string{"x", "x\nx"},
			mode: ModeFix,
			want: "x\nx\ny\n",
			wantHits: []Match{
				{Expression: 0, Line: 1, Before: "x\n", After: "x\n", Old: "x", New: "x\nx"},
			},
		},
		{
			name: "multiple_matches_on_one_line",
			text: "aa\n",
			list: []string{"a", "b"},
			mode: ModeFix,
			want: "bb\n",
			wantHits: []Match{
				{Expression: 0, Line: 1, Before: "aa\n", After: "bb\n", Old: "a", New: "b"},
				{Expression: 0, Line: 1, Before: "aa\n", After: "bb\n", Old: "a", New: "b"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Transform(tt.text, mustCompile(t, tt.list...), expression.StageContent, tt.mode)
			require.NoError(t, err)
			assert.Equal(t, tt.text, res.Original)
			assert.Equal(t, tt.want, res.Modified)
			assert.Equal(t, tt.want != tt.text, res.Changed())
			assert.Equal(t, tt.wantHits, res.Matches)
		})
	}
}

func TestTransformEvaluationError(t *testing.T) {
	_, err := Transform("abc", mustCompile(t, "b", `\G{m(4)}`), expression.StageContent, ModeFix)
	require.Error(t, err)
	assert.ErrorIs(t, err, expression.ErrEvaluation)
}

func TestResultByExpression(t *testing.T) {
	res := &Result{Matches: []Match{
		{Expression: 1, Line: 1},
		{Expression: 0, Line: 2},
		{Expression: 1, Line: 3},
	}}

	groups := res.ByExpression()
	require.Len(t, groups, 2)
	assert.Equal(t, []Match{{Expression: 1, Line: 1}, {Expression: 1, Line: 3}}, groups[0])
	assert.Equal(t, []Match{{Expression: 0, Line: 2}}, groups[1])
}

func TestSubstitutePathStage(t *testing.T) {
	exprs := mustCompile(t, "old_([a-z]+)", `new\G{sep}\1`)

	got, err := Substitute("dir/old_name.go", exprs, expression.StagePath)
	require.NoError(t, err)
	assert.Equal(t, "dir/new/name.go", got)

	got, err = Substitute("unrelated.go", exprs, expression.StagePath)
	require.NoError(t, err)
	assert.Equal(t, "unrelated.go", got)
}

func TestEncodingRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		raw     []byte
		want    string
		wantEnc Encoding
	}{
		{name: "ascii", raw: []byte("plain\n"), want: "plain\n", wantEnc: UTF8},
		{name: "utf8", raw: []byte("caf\xc3\xa9\n"), want: "café\n", wantEnc: UTF8},
		{name: "latin1", raw: []byte("caf\xe9\n"), want: "café\n", wantEnc: Latin1},
		{name: "latin1_high_bytes", raw: []byte{0xff, 0xfe, 'x'}, want: "ÿþx", wantEnc: Latin1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, enc, err := Decode(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, s)
			assert.Equal(t, tt.wantEnc, enc)

			out, err := Encode(s, enc)
			require.NoError(t, err)
			assert.Equal(t, tt.raw, out)
		})
	}
}

func TestEncodeLatin1ReplacesUnsupported(t *testing.T) {
	out, err := Encode("a€b", Latin1)
	require.NoError(t, err)
	assert.Len(t, out, 3)
	assert.Equal(t, byte('a'), out[0])
	assert.Equal(t, byte('b'), out[2])
}
