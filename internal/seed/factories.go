package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"artemis/internal/identity"
	"artemis/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ecoTopics = []string{
	"community solar", "balcony gardening", "repair cafe", "bike commuting",
	"rainwater harvesting", "native plants", "zero waste kitchen", "composting",
	"heat pump retrofit", "secondhand electronics", "beach cleanup",
	"urban beekeeping", "food sharing", "insulation upgrades",
}

var titleTemplates = []string{
	"How do you get started with %s?",
	"My first month of %s",
	"Local %s meetup recap",
	"Why %s is easier than you think",
	"Looking for advice on %s",
	"What I learned from %s this year",
}

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by Seed and by the seed CLI.
type Factory struct {
	db   *gorm.DB
	opts Options
	r    *rand.Rand
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	//nolint:gosec // weak randomness is fine for seeding
	return &Factory{
		db:     db,
		opts:   opts,
		r:      rand.New(rand.NewSource(time.Now().UnixNano())),
		nextID: 1000,
	}
}

// BuildProfile constructs a profile without persisting it. Roughly two thirds
// of generated profiles are anonymous, matching real traffic.
func (f *Factory) BuildProfile(overrides ...func(*models.UserProfile)) *models.UserProfile {
	profile := &models.UserProfile{
		ID:          uuid.NewString(),
		DisplayName: identity.AnonymousName(),
		Anonymous:   true,
		Preferences: models.DefaultPreferences(),
	}

	if f.r.Float32() < 0.35 {
		profile.Anonymous = false
		profile.DisplayName = gofakeit.FirstName()
		profile.Email = gofakeit.Email()
		if f.opts.DryRun {
			profile.PasswordHash = "unhashed"
		} else {
			hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
			profile.PasswordHash = string(hashed)
		}
	}

	for _, override := range overrides {
		override(profile)
	}
	return profile
}

// CreateProfiles builds and persists count profiles.
func (f *Factory) CreateProfiles(count int) ([]*models.UserProfile, error) {
	profiles := make([]*models.UserProfile, 0, count)
	for i := 0; i < count; i++ {
		profile := f.BuildProfile()
		if f.opts.DryRun {
			profiles = append(profiles, profile)
			continue
		}
		if err := f.db.Create(profile).Error; err != nil {
			log.Printf("Failed to create profile %s: %v", profile.DisplayName, err)
			continue
		}
		profiles = append(profiles, profile)
	}
	return profiles, nil
}

// BuildPost constructs a post authored by the given profile without
// persisting it.
func (f *Factory) BuildPost(author *models.UserProfile, overrides ...func(*models.Post)) *models.Post {
	topic := ecoTopics[f.r.Intn(len(ecoTopics))]
	flags := models.PostFlags()

	post := &models.Post{
		Title:      fmt.Sprintf(titleTemplates[f.r.Intn(len(titleTemplates))], topic),
		Content:    gofakeit.Paragraph(1, 3, 8, "\n"),
		Flag:       flags[f.r.Intn(len(flags))],
		Upvotes:    f.r.Intn(120),
		UserID:     author.ID,
		AuthorName: author.DisplayName,
	}

	if f.r.Float32() < 0.4 {
		post.ImageURL = fmt.Sprintf("https://picsum.photos/seed/%s/800/600", gofakeit.UUID())
	}

	// realistic created_at spread over the last 90 days
	daysBack := f.r.Intn(90)
	hoursBack := f.r.Intn(24)
	post.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)

	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreatePosts builds and persists count posts spread across the profiles.
func (f *Factory) CreatePosts(profiles []*models.UserProfile, count int) ([]*models.Post, error) {
	posts := make([]*models.Post, 0, count)
	for i := 0; i < count; i++ {
		post := f.BuildPost(pickProfile(f.r, profiles))
		if f.opts.DryRun {
			f.nextID++
			post.ID = f.nextID
			posts = append(posts, post)
			continue
		}
		if err := f.db.Create(post).Error; err != nil {
			return nil, err
		}
		posts = append(posts, post)

		if i > 0 && i%100 == 0 {
			log.Printf("Created %d posts...", i)
		}
	}
	return posts, nil
}

// CreateReposts republishes roughly one in ten posts under another profile.
// Repost references always point at an original, never at another repost.
func (f *Factory) CreateReposts(profiles []*models.UserProfile, posts []*models.Post) ([]*models.Post, error) {
	reposts := make([]*models.Post, 0, len(posts)/10)
	for _, source := range posts {
		if f.r.Float32() >= 0.1 {
			continue
		}
		author := pickProfile(f.r, profiles)
		sourceID := source.ID
		if source.RepostOfID != nil {
			sourceID = *source.RepostOfID
		}

		repost := &models.Post{
			Title:      source.Title,
			Content:    source.Content,
			ImageURL:   source.ImageURL,
			Flag:       source.Flag,
			RepostOfID: &sourceID,
			UserID:     author.ID,
			AuthorName: author.DisplayName,
			CreatedAt:  source.CreatedAt.Add(time.Duration(f.r.Intn(48)+1) * time.Hour),
		}

		if f.opts.DryRun {
			f.nextID++
			repost.ID = f.nextID
			reposts = append(reposts, repost)
			continue
		}
		if err := f.db.Create(repost).Error; err != nil {
			return nil, err
		}
		reposts = append(reposts, repost)
	}
	return reposts, nil
}

// BuildComment constructs a comment on the given post without persisting it.
func (f *Factory) BuildComment(author *models.UserProfile, post *models.Post, overrides ...func(*models.Comment)) *models.Comment {
	comment := &models.Comment{
		PostID:     post.ID,
		Content:    gofakeit.Sentence(f.r.Intn(15) + 4),
		UserID:     author.ID,
		AuthorName: author.DisplayName,
		CreatedAt:  post.CreatedAt.Add(time.Duration(f.r.Intn(72)+1) * time.Hour),
	}
	for _, override := range overrides {
		override(comment)
	}
	return comment
}

// CreateComments attaches zero to six comments to each post.
func (f *Factory) CreateComments(profiles []*models.UserProfile, posts []*models.Post) ([]*models.Comment, error) {
	var comments []*models.Comment
	for _, post := range posts {
		n := f.r.Intn(7)
		for i := 0; i < n; i++ {
			comment := f.BuildComment(pickProfile(f.r, profiles), post)
			if f.opts.DryRun {
				f.nextID++
				comment.ID = f.nextID
				comments = append(comments, comment)
				continue
			}
			if err := f.db.Create(comment).Error; err != nil {
				return nil, err
			}
			comments = append(comments, comment)
		}
	}
	return comments, nil
}

// Topic reports whether the title mentions one of the seeded eco topics.
// Used by tests and the seed CLI's summary output.
func Topic(title string) (string, bool) {
	lower := strings.ToLower(title)
	for _, topic := range ecoTopics {
		if strings.Contains(lower, topic) {
			return topic, true
		}
	}
	return "", false
}
