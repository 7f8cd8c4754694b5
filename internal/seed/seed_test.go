package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artemis/internal/models"
)

func dryRunFactory() *Factory {
	return NewFactory(nil, Options{DryRun: true})
}

func TestBuildProfileDefaults(t *testing.T) {
	f := dryRunFactory()

	for i := 0; i < 50; i++ {
		p := f.BuildProfile()
		assert.NotEmpty(t, p.ID)
		assert.NotEmpty(t, p.DisplayName)
		assert.True(t, p.Preferences.ColorScheme.Valid())
		if p.Anonymous {
			assert.Empty(t, p.Email, "anonymous profiles never carry an email")
		} else {
			assert.NotEmpty(t, p.Email)
			assert.NotEmpty(t, p.PasswordHash)
		}
	}
}

func TestBuildPostCarriesValidFlag(t *testing.T) {
	f := dryRunFactory()
	author := f.BuildProfile()

	for i := 0; i < 50; i++ {
		post := f.BuildPost(author)
		assert.NotEmpty(t, post.Title)
		assert.True(t, post.Flag.Valid())
		assert.Equal(t, author.ID, post.UserID)
		assert.Equal(t, author.DisplayName, post.AuthorName)
		assert.GreaterOrEqual(t, post.Upvotes, 0)
	}
}

func TestBuildPostOverride(t *testing.T) {
	f := dryRunFactory()
	author := f.BuildProfile()

	post := f.BuildPost(author, func(p *models.Post) {
		p.Flag = models.FlagTip
		p.Title = "Fix it, don't bin it"
	})

	assert.Equal(t, models.FlagTip, post.Flag)
	assert.Equal(t, "Fix it, don't bin it", post.Title)
}

func TestCreateRepostsPointAtOriginals(t *testing.T) {
	f := dryRunFactory()

	profiles, err := f.CreateProfiles(5)
	require.NoError(t, err)
	posts, err := f.CreatePosts(profiles, 200)
	require.NoError(t, err)

	reposts, err := f.CreateReposts(profiles, posts)
	require.NoError(t, err)

	originals := make(map[uint]*models.Post, len(posts))
	for _, p := range posts {
		originals[p.ID] = p
	}
	for _, rp := range reposts {
		require.NotNil(t, rp.RepostOfID)
		source, ok := originals[*rp.RepostOfID]
		require.True(t, ok, "repost must reference a seeded post")
		assert.Nil(t, source.RepostOfID, "repost references never chain")
	}
}

func TestCreateCommentsBelongToTheirPost(t *testing.T) {
	f := dryRunFactory()

	profiles, err := f.CreateProfiles(3)
	require.NoError(t, err)
	posts, err := f.CreatePosts(profiles, 20)
	require.NoError(t, err)

	comments, err := f.CreateComments(profiles, posts)
	require.NoError(t, err)

	valid := make(map[uint]bool, len(posts))
	for _, p := range posts {
		valid[p.ID] = true
	}
	for _, c := range comments {
		assert.True(t, valid[c.PostID])
		assert.NotEmpty(t, c.Content)
		assert.NotEmpty(t, c.AuthorName)
	}
}

func TestTopicDetection(t *testing.T) {
	f := dryRunFactory()
	author := f.BuildProfile()

	post := f.BuildPost(author)
	_, ok := Topic(post.Title)
	assert.True(t, ok, "generated titles mention a seeded topic")

	_, ok = Topic("completely unrelated")
	assert.False(t, ok)
}
