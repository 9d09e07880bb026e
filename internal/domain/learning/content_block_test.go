package learning

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleContent = `[
  {"__component":"coursecontent.text","data":"Welcome"},
  {"__component":"coursecontent.pagebreaker","unit_uuid":"u-1"},
  {"__component":"coursecontent.quiz","question":"Q?","options":["a","b"],"correctAnswer":"a"},
  {"__component":"coursecontent.pagebreaker","nextbutton":false},
  {"__component":"coursecontent.audio","src":"x.mp3"}
]`

func TestContentBlocksDecodeVariants(t *testing.T) {
	var blocks ContentBlocks
	require.NoError(t, json.Unmarshal([]byte(sampleContent), &blocks))
	require.Len(t, blocks, 5)

	assert.Equal(t, TextBlock{Data: "Welcome"}, blocks[0])
	assert.IsType(t, QuizBlock{}, blocks[2])
	raw, ok := blocks[4].(RawBlock)
	require.True(t, ok)
	assert.Equal(t, "coursecontent.audio", raw.Component())

	pbs := blocks.PageBreaks()
	require.Len(t, pbs, 2)
	assert.Equal(t, "u-1", pbs[0].UnitUUID)
	assert.True(t, pbs[0].BackButton)
	assert.Equal(t, "", pbs[1].UnitUUID)
	assert.False(t, pbs[1].NextButton)
}

func TestContentBlocksKeepUnknownComponentsOnWrite(t *testing.T) {
	var blocks ContentBlocks
	require.NoError(t, json.Unmarshal([]byte(sampleContent), &blocks))
	blocks.PageBreaks()[1].UnitUUID = "u-2"

	out, err := json.Marshal(blocks)
	require.NoError(t, err)

	var again ContentBlocks
	require.NoError(t, json.Unmarshal(out, &again))
	pbs := again.PageBreaks()
	require.Len(t, pbs, 2)
	assert.Equal(t, "u-2", pbs[1].UnitUUID)
	assert.Contains(t, string(out), `"src":"x.mp3"`)
	assert.Contains(t, string(out), `"__component":"coursecontent.pagebreaker"`)
}

func TestCourseBlocksEmptyContent(t *testing.T) {
	c := &Course{}
	blocks, err := c.Blocks()
	require.NoError(t, err)
	assert.Empty(t, blocks)

	require.NoError(t, c.SetBlocks(nil))
	assert.JSONEq(t, `[]`, string(c.Content))
}
