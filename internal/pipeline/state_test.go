package pipeline

import (
	"testing"

	"github.com/stretchr/testify/require"

	"blogsmith/internal/genapi"
	"blogsmith/internal/publish"
)

func fullState() State {
	st := NewState(site)
	st.Topic = &genapi.TopicResult{Topic: "t"}
	st.Plan = &genapi.Plan{Title: "p"}
	st.Outline = &genapi.Outline{Outline: "# h"}
	st.Content = &genapi.Content{HTML: "<p>c</p>"}
	st.Images = &genapi.Images{}
	st.Publish = &publish.Result{Success: true, PostID: 1}
	return st
}

func TestClearFromResetsDownstream(t *testing.T) {
	for stage := StageTopic; stage < stageCount; stage++ {
		st := fullState()
		st.Errs[StagePublish] = "old publish error"

		out := st.ClearFrom(stage)
		for later := stage; later < stageCount; later++ {
			require.Falsef(t, out.Has(later), "stage %s should be cleared when clearing from %s", later, stage)
			require.Emptyf(t, out.Err(later), "stage %s error should be cleared", later)
		}
		for earlier := StageTopic; earlier < stage; earlier++ {
			require.Truef(t, out.Has(earlier), "stage %s should survive clearing from %s", earlier, stage)
		}
	}
}

func TestClearFromDoesNotShareErrMap(t *testing.T) {
	st := fullState()
	out := st.ClearFrom(StageContent)
	out.Errs[StageTopic] = "new"
	require.Empty(t, st.Err(StageTopic))
}

func TestCanRunFollowsChain(t *testing.T) {
	st := NewState(site)
	require.True(t, st.CanRun(StageTopic))
	require.False(t, st.CanRun(StagePlan))
	require.False(t, st.CanRun(StagePublish))

	st.Topic = &genapi.TopicResult{Topic: "t"}
	require.True(t, st.CanRun(StagePlan))
	require.False(t, st.CanRun(StageOutline))

	st.Plan = &genapi.Plan{Title: "p"}
	require.True(t, st.CanRun(StageOutline))
	// Images depend on the plan, not the outline.
	require.True(t, st.CanRun(StageImages))
	require.False(t, st.CanRun(StageContent))

	st.Outline = &genapi.Outline{}
	require.True(t, st.CanRun(StageContent))

	st.Content = &genapi.Content{}
	require.True(t, st.CanRun(StagePublish))
}

func TestLoadingDisablesEveryStage(t *testing.T) {
	st := fullState()
	loading := StageOutline
	st.Loading = &loading
	for stage := StageTopic; stage < stageCount; stage++ {
		require.Falsef(t, st.CanRun(stage), "stage %s must be disabled while loading", stage)
	}
}

func TestStageString(t *testing.T) {
	require.Equal(t, "topic", StageTopic.String())
	require.Equal(t, "publish", StagePublish.String())
	require.Equal(t, "unknown", Stage(99).String())
}
