package component

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olxtools/olx2lia/internal/olx"
)

func problemFS(t *testing.T, id, xml string) fstest.MapFS {
	t.Helper()
	return fstest.MapFS{
		"problem/" + id + ".xml": &fstest.MapFile{Data: []byte(xml)},
	}
}

func parseProblem(t *testing.T, xml string) *Problem {
	t.Helper()
	ir, err := ParseProblem(problemFS(t, "q1", xml), "q1")
	require.NoError(t, err)
	p, ok := ir.(*Problem)
	require.True(t, ok)
	return p
}

func TestDetectProblemType(t *testing.T) {
	tests := []struct {
		name string
		xml  string
		want ProblemType
	}{
		{"multiple choice", `<problem><multiplechoiceresponse/></problem>`, MultipleChoice},
		{"checkbox is multiple choice", `<problem><choiceresponse><checkboxgroup/></choiceresponse></problem>`, MultipleChoice},
		{"radio is single choice", `<problem><choiceresponse><choicegroup/></choiceresponse></problem>`, Choice},
		{"dropdown", `<problem><optionresponse/></problem>`, Selection},
		{"text input", `<problem><stringresponse/></problem>`, TextInput},
		{"number input", `<problem><numericalresponse/></problem>`, NumberInput},
		{"formula", `<problem><formularesponse/></problem>`, Formula},
		{"code", `<problem><coderesponse/></problem>`, Code},
		{"nothing recognized", `<problem><p>just text</p></problem>`, UnknownProblem},
		{"multiplechoice wins over string", `<problem><multiplechoiceresponse/><stringresponse/></problem>`, MultipleChoice},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := olx.ParseNode(strings.NewReader(tt.xml))
			require.NoError(t, err)
			assert.Equal(t, tt.want, DetectProblemType(root))
		})
	}
}

func TestRenderMultipleChoice(t *testing.T) {
	p := parseProblem(t, `<problem display_name="Quiz">
  <multiplechoiceresponse>
    <label>Pick the right one.</label>
    <choicegroup type="MultipleChoice">
      <choice correct="false">A</choice>
      <choice correct="true">B</choice>
      <choice correct="false">C</choice>
    </choicegroup>
  </multiplechoiceresponse>
</problem>`)

	out := p.Render()
	assert.Equal(t, 1, strings.Count(out, "- [[X]] B"))
	assert.Equal(t, 2, strings.Count(out, "- [[ ]] "))

	// Source order preserved.
	lines := strings.Split(out, "\n")
	var bullets []string
	for _, l := range lines {
		if strings.HasPrefix(l, "- [[") {
			bullets = append(bullets, l)
		}
	}
	require.Equal(t, []string{"- [[ ]] A", "- [[X]] B", "- [[ ]] C"}, bullets)
	assert.Contains(t, out, "Pick the right one.")
}

func TestRenderCheckboxMultiCorrect(t *testing.T) {
	p := parseProblem(t, `<problem>
  <choiceresponse>
    <checkboxgroup>
      <choice correct="true">First</choice>
      <choice correct="true">Second</choice>
      <choice correct="false">Third</choice>
    </checkboxgroup>
  </choiceresponse>
</problem>`)

	out := p.Render()
	assert.Contains(t, out, "- [[X]] First")
	assert.Contains(t, out, "- [[X]] Second")
	assert.Contains(t, out, "- [[ ]] Third")
}

func TestRenderSingleChoice(t *testing.T) {
	p := parseProblem(t, `<problem>
  <choiceresponse>
    <choicegroup>
      <choice correct="false">Red</choice>
      <choice correct="true">Green</choice>
    </choicegroup>
  </choiceresponse>
</problem>`)

	out := p.Render()
	assert.Contains(t, out, "- [( )] Red")
	assert.Contains(t, out, "- [(X)] Green")
	assert.NotContains(t, out, "[[X]]")
}

func TestRenderSelection(t *testing.T) {
	p := parseProblem(t, `<problem>
  <optionresponse>
    <optioninput>
      <option correct="False">Barometer</option>
      <option correct="True">Anemometer</option>
      <option correct="False">Hygrometer</option>
      <option correct="False">Thermometer</option>
    </optioninput>
  </optionresponse>
</problem>`)

	assert.Contains(t, p.Render(),
		"[[ Barometer | ( Anemometer ) | Hygrometer | Thermometer ]]")
}

func TestRenderTextInput(t *testing.T) {
	p := parseProblem(t, `<problem>
  <stringresponse answer="52">
    <additional_answer answer="fifty-two"/>
    <additional_answer answer=""/>
  </stringresponse>
</problem>`)
	assert.Contains(t, p.Render(), "    [[52 | fifty-two]]")

	empty := parseProblem(t, `<problem><stringresponse/></problem>`)
	assert.Contains(t, empty.Render(), "    [[ ]]")
}

func TestRenderNumberInput(t *testing.T) {
	p := parseProblem(t, `<problem>
  <numericalresponse answer="42">
    <responseparam type="tolerance" default="5%"/>
  </numericalresponse>
</problem>`)

	out := p.Render()
	assert.Contains(t, out, "    [[Enter a number]]")
	// The accepted value and tolerance are not encoded.
	assert.NotContains(t, out, "42")
}

func TestRenderUnsupportedTypes(t *testing.T) {
	for _, tt := range []struct {
		xml  string
		want string
	}{
		{`<problem><p>Solve it.</p><formularesponse/></problem>`, "formula"},
		{`<problem><p>Write code.</p><coderesponse/></problem>`, "code"},
		{`<problem><p>Mystery.</p></problem>`, "unknown"},
	} {
		p := parseProblem(t, tt.xml)
		out := p.Render()
		assert.Contains(t, out, "not supported")
		assert.Contains(t, out, tt.want)
	}
}

func TestRenderHints(t *testing.T) {
	p := parseProblem(t, `<problem>
  <stringresponse answer="Paris">
    <hint>It is in France.</hint>
    <demotedhint>Not Lyon.</demotedhint>
    <description>Capital city.</description>
  </stringresponse>
</problem>`)

	out := p.Render()
	lines := strings.Split(out, "\n")
	var hints []string
	for _, l := range lines {
		if strings.HasPrefix(l, "- [[?]] ") {
			hints = append(hints, l)
		}
	}
	require.Equal(t, []string{
		"- [[?]] It is in France.",
		"- [[?]] Not Lyon.",
		"- [[?]] Capital city.",
	}, hints)

	// Hints come right after the answer body.
	assert.Greater(t, strings.Index(out, "- [[?]]"), strings.Index(out, "[[Paris]]"))
}

func TestRenderHintsOnUnsupportedType(t *testing.T) {
	p := parseProblem(t, `<problem>
  <formularesponse/>
  <hint>Still shown.</hint>
</problem>`)

	out := p.Render()
	assert.Contains(t, out, "not supported")
	assert.Contains(t, out, "- [[?]] Still shown.")
}

func TestRenderPromptParagraphs(t *testing.T) {
	p := parseProblem(t, `<problem>
  <p>Background text.</p>
  <stringresponse answer="x">
    <label>The actual question?</label>
  </stringresponse>
</problem>`)

	out := p.Render()
	idx1 := strings.Index(out, "Background text.")
	idx2 := strings.Index(out, "The actual question?")
	require.GreaterOrEqual(t, idx1, 0)
	require.Greater(t, idx2, idx1)
	assert.Contains(t, out, "Background text.\n\nThe actual question?")
}

func TestParseProblemErrors(t *testing.T) {
	_, err := ParseProblem(fstest.MapFS{}, "nope")
	require.Error(t, err)

	_, err = ParseProblem(problemFS(t, "bad", `<vertical/>`), "bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected root element")
}
