package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLuckyRunCompletesAllStages(t *testing.T) {
	gen := newFakeGen()
	pub := newFakePub()
	hist := newFakeHistory()
	r := &LuckyRunner{Gen: gen, Pub: pub, History: hist}

	st, err := r.Run(context.Background(), site)
	require.NoError(t, err)

	for stage := StageTopic; stage <= StagePublish; stage++ {
		if stage == StageImages {
			continue // lucky path generates no images
		}
		require.Truef(t, st.Has(stage), "stage %s should be populated", stage)
	}
	// No explicit outline stage ran; the placeholder carries the final
	// word count.
	require.NotContains(t, gen.calls, "outline")
	require.Equal(t, st.Content.WordCount, st.Outline.EstimatedWordCount)

	require.True(t, pub.requests[0].PublishNow)
	recent, _ := hist.RecentTopics(context.Background(), site.ID, 5)
	require.Equal(t, []string{"fresh topic"}, recent)
}

func TestLuckyFailureLeavesNoPartialState(t *testing.T) {
	for _, failStage := range []string{"topic", "plan", "content"} {
		gen := newFakeGen()
		gen.failAt[failStage] = errors.New("boom")
		r := &LuckyRunner{Gen: gen, Pub: newFakePub()}

		st, err := r.Run(context.Background(), site)
		var re *RunError
		require.ErrorAs(t, err, &re)
		require.Equal(t, "lucky", re.Op)

		for stage := StageTopic; stage < stageCount; stage++ {
			require.Falsef(t, st.Has(stage), "stage %s must be empty after failing at %s", stage, failStage)
		}
	}
}

func TestLuckyPublishFailureIsAggregate(t *testing.T) {
	pub := newFakePub()
	pub.failPub = errors.New("wp down")
	r := &LuckyRunner{Gen: newFakeGen(), Pub: pub}

	st, err := r.Run(context.Background(), site)
	var re *RunError
	require.ErrorAs(t, err, &re)
	require.False(t, st.Has(StageContent))
	require.False(t, st.Has(StagePublish))
}
