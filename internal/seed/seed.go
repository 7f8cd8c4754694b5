// Package seed populates the database with demo data for development and
// testing. Not intended for production use.
package seed

import (
	"fmt"
	"log"
	"math/rand"

	"artemis/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumProfiles int
	NumPosts    int
	ShouldClean bool
	// DryRun builds entities and assigns synthetic IDs without touching
	// the database.
	DryRun bool
}

// Seed populates the database with demo profiles, posts, and comments.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("🌱 Starting database seeding with %d profiles and %d posts...", opts.NumProfiles, opts.NumPosts)

	if opts.ShouldClean && !opts.DryRun {
		if err := clearData(db); err != nil {
			log.Println("⚠️  Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	f := NewFactory(db, opts)

	profiles, err := f.CreateProfiles(opts.NumProfiles)
	if err != nil {
		return fmt.Errorf("failed to create profiles: %w", err)
	}
	log.Printf("✓ %d profiles created", len(profiles))

	posts, err := f.CreatePosts(profiles, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("✓ %d posts created", len(posts))

	reposts, err := f.CreateReposts(profiles, posts)
	if err != nil {
		return fmt.Errorf("failed to create reposts: %w", err)
	}
	log.Printf("✓ %d reposts created", len(reposts))

	comments, err := f.CreateComments(profiles, posts)
	if err != nil {
		return fmt.Errorf("failed to create comments: %w", err)
	}
	log.Printf("✓ %d comments created", len(comments))

	log.Println("🎉 Database seeding completed successfully!")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("🗑️  Clearing existing data...")
	sql := `TRUNCATE TABLE comments, posts, user_profiles RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}

func pickProfile(r *rand.Rand, profiles []*models.UserProfile) *models.UserProfile {
	return profiles[r.Intn(len(profiles))]
}
