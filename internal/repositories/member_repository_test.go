package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	dbm "tripvote/internal/models/db_models"
	"tripvote/internal/testsupport"
)

func TestMemberRepository(t *testing.T) {
	repo := NewMemberRepository(testsupport.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, &dbm.Member{Username: "alice", Email: "alice@example.com", Preferences: dbm.StringList{"museum"}}))
	require.NoError(t, repo.Insert(ctx, &dbm.Member{Username: "bob", Email: "bob@example.com"}))
	assert.Error(t, repo.Insert(ctx, &dbm.Member{Username: "alice", Email: "other@example.com"}))

	m, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, []string{"museum"}, []string(m.Preferences))

	m, err = repo.FindByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Empty(t, m.Preferences)

	m, err = repo.FindByUsername(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, m)

	require.NoError(t, repo.UpdatePreferences(ctx, "bob", dbm.StringList{"park", "cafe"}))
	assert.ErrorIs(t, repo.UpdatePreferences(ctx, "nobody", nil), gorm.ErrRecordNotFound)

	members, err := repo.FindByUsernames(ctx, []string{"bob", "alice", "ghost"})
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "bob", members[1].Username)
	assert.Equal(t, []string{"park", "cafe"}, []string(members[1].Preferences))
}
