package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"survey_wizard/internal/model"
	"survey_wizard/internal/util"
	"survey_wizard/internal/wizard"
)

func sampleState() wizard.State {
	s := wizard.NewState("abc")
	s.Phase = wizard.PhaseInProgress
	s.Questions = []model.Question{
		{ID: 1, Title: "Overall", Type: model.QuestionRating, Order: 1},
		{ID: 2, Title: "Return?", Type: model.QuestionYesNo, Order: 2},
	}
	s.Participation = model.Participation{SentFlag: true}
	s.QuestionsFetch = wizard.Fetch{Status: wizard.FetchResolved}
	s.Step = 1
	s.Answers = map[int]model.Answer{0: {Value: "1", Comment: "slow service"}}
	s.Draft = model.Answer{Value: "0"}
	return s
}

func TestMemoryWizardRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryWizardRepository(time.Minute)

	_, err := repo.Find(ctx, "abc")
	assert.ErrorIs(t, err, util.ErrSessionNotFound)

	require.NoError(t, repo.Save(ctx, sampleState()))
	got, err := repo.Find(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, sampleState(), got)
	assert.Equal(t, 1, repo.Len())
}

func TestMemoryWizardRepositoryExpiry(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryWizardRepository(time.Minute)
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }

	require.NoError(t, repo.Save(ctx, sampleState()))
	now = now.Add(2 * time.Minute)

	_, err := repo.Find(ctx, "abc")
	assert.ErrorIs(t, err, util.ErrSessionNotFound)
	assert.Equal(t, 1, repo.Sweep())
	assert.Equal(t, 0, repo.Len())
}

func TestRedisWizardRepository(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	repo := NewRedisWizardRepository(rdb, 30*time.Minute)
	require.NoError(t, repo.Ping(ctx))

	_, err := repo.Find(ctx, "abc")
	assert.ErrorIs(t, err, util.ErrSessionNotFound)

	require.NoError(t, repo.Save(ctx, sampleState()))
	assert.True(t, mr.Exists("survey:wizard:abc"))
	assert.Equal(t, 30*time.Minute, mr.TTL("survey:wizard:abc"))

	got, err := repo.Find(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, sampleState(), got)

	mr.FastForward(31 * time.Minute)
	_, err = repo.Find(ctx, "abc")
	assert.ErrorIs(t, err, util.ErrSessionNotFound)
}

func TestRedisWizardRepositoryCorruptState(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	require.NoError(t, mr.Set("survey:wizard:abc", "{not json"))
	_, err := NewRedisWizardRepository(rdb, time.Minute).Find(ctx, "abc")
	require.Error(t, err)
	assert.NotErrorIs(t, err, util.ErrSessionNotFound)
}
