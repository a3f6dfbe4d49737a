package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSoloProfileKeepsAllTags(t *testing.T) {
	p := BuildGroupProfile([]MemberPreferences{
		{Username: "solo", Tags: []string{"Museum", "park ", "food,museum"}},
	})

	assert.Equal(t, 1, p.Size)
	assert.Equal(t, []string{"food", "museum", "park"}, p.Tags())
	for _, tag := range p.Tags() {
		assert.Equal(t, 1.0, p.Support[tag])
	}
}

func TestThreeMemberPairwiseProfile(t *testing.T) {
	p := BuildGroupProfile([]MemberPreferences{
		{Username: "a", Tags: []string{"museum", "park"}},
		{Username: "b", Tags: []string{"museum", "food"}},
		{Username: "c", Tags: []string{"park", "food"}},
	})

	assert.Equal(t, []string{"food", "museum", "park"}, p.Tags())
	assert.InDelta(t, 2.0/3.0, p.MinSupport, 1e-9)
	assert.InDelta(t, 2.0/3.0, p.Support["museum"], 1e-9)
}

func TestThresholdIsTwoMembersNotHalf(t *testing.T) {
	// 2 of 6 members is below 0.5 but still meets 2/n.
	members := []MemberPreferences{
		{Username: "a", Tags: []string{"zoo", "beach"}},
		{Username: "b", Tags: []string{"zoo"}},
		{Username: "c", Tags: []string{"mall"}},
		{Username: "d"},
		{Username: "e"},
		{Username: "f"},
	}
	p := BuildGroupProfile(members)

	assert.Equal(t, 6, p.Size)
	assert.True(t, p.Contains("zoo"))
	assert.InDelta(t, 2.0/6.0, p.Support["zoo"], 1e-9)
	assert.False(t, p.Contains("beach"))
	assert.False(t, p.Contains("mall"))
}

func TestDuplicateMembersAndTagsCountOnce(t *testing.T) {
	p := BuildGroupProfile([]MemberPreferences{
		{Username: "a", Tags: []string{"park", "PARK"}},
		{Username: "a", Tags: []string{"park"}},
		{Username: "b", Tags: []string{"cafe"}},
	})

	assert.Equal(t, 2, p.Size)
	assert.True(t, p.IsEmpty())
}

func TestEmptyPreferencesYieldEmptyProfile(t *testing.T) {
	assert.True(t, BuildGroupProfile(nil).IsEmpty())
	assert.True(t, BuildGroupProfile([]MemberPreferences{{Username: "a"}, {Username: "b"}}).IsEmpty())
}

func TestNormalizeTags(t *testing.T) {
	assert.Equal(t, []string{"art", "night club", "cafe"}, NormalizeTags([]string{" Art", "night club, ,cafe", "art"}))
	assert.Empty(t, NormalizeTags([]string{"", " , "}))
}
