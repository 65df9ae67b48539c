// Package seed imports sample data into the database from CSV files.
package seed

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"warbler/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seeder loads CSV fixtures into the database.
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a Seeder bound to the given database.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// ClearAll removes every row the seeder manages, children first so foreign
// keys never dangle.
func (s *Seeder) ClearAll() error {
	for _, table := range []string{"likes", "follows", "messages", "users"} {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	return nil
}

// ImportDir loads users.csv, messages.csv and follows.csv from dir, in that
// order so references resolve.
func (s *Seeder) ImportDir(dir string) (users, messages, follows int, err error) {
	users, err = s.ImportUsers(filepath.Join(dir, "users.csv"))
	if err != nil {
		return
	}
	messages, err = s.ImportMessages(filepath.Join(dir, "messages.csv"))
	if err != nil {
		return
	}
	follows, err = s.ImportFollows(filepath.Join(dir, "follows.csv"))
	return
}

// ImportUsers loads users from a CSV with a header row. Recognized columns:
// username, email, password, image_url, header_image_url, bio, location.
// Passwords are stored hashed.
func (s *Seeder) ImportUsers(path string) (int, error) {
	count := 0
	err := s.forEachRecord(path, func(rec map[string]string) error {
		password := rec["password"]
		if password == "" {
			password = "password123"
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		user := models.User{
			Username:       rec["username"],
			Email:          rec["email"],
			Password:       string(hashed),
			ImageURL:       rec["image_url"],
			HeaderImageURL: rec["header_image_url"],
			Bio:            rec["bio"],
			Location:       rec["location"],
		}
		if user.ImageURL == "" {
			user.ImageURL = models.DefaultImageURL
		}
		if user.HeaderImageURL == "" {
			user.HeaderImageURL = models.DefaultHeaderImageURL
		}

		if err := s.db.Create(&user).Error; err != nil {
			return fmt.Errorf("user %q: %w", user.Username, err)
		}
		count++
		return nil
	})
	return count, err
}

// ImportMessages loads warbles from a CSV with columns user_id and text.
func (s *Seeder) ImportMessages(path string) (int, error) {
	count := 0
	err := s.forEachRecord(path, func(rec map[string]string) error {
		userID, err := strconv.ParseUint(rec["user_id"], 10, 32)
		if err != nil {
			return fmt.Errorf("bad user_id %q: %w", rec["user_id"], err)
		}

		message := models.Message{
			UserID: uint(userID),
			Text:   rec["text"],
		}
		if err := s.db.Create(&message).Error; err != nil {
			return fmt.Errorf("message for user %d: %w", userID, err)
		}
		count++
		return nil
	})
	return count, err
}

// ImportFollows loads follow edges from a CSV with columns follower_id and
// followee_id. Duplicate edges in the file are skipped.
func (s *Seeder) ImportFollows(path string) (int, error) {
	count := 0
	err := s.forEachRecord(path, func(rec map[string]string) error {
		followerID, err := strconv.ParseUint(rec["follower_id"], 10, 32)
		if err != nil {
			return fmt.Errorf("bad follower_id %q: %w", rec["follower_id"], err)
		}
		followeeID, err := strconv.ParseUint(rec["followee_id"], 10, 32)
		if err != nil {
			return fmt.Errorf("bad followee_id %q: %w", rec["followee_id"], err)
		}

		result := s.db.Exec(
			`INSERT INTO follows (follower_id, followee_id, created_at)
			 VALUES (?, ?, CURRENT_TIMESTAMP)
			 ON CONFLICT (follower_id, followee_id) DO NOTHING`,
			followerID, followeeID,
		)
		if result.Error != nil {
			return fmt.Errorf("follow %d -> %d: %w", followerID, followeeID, result.Error)
		}
		count += int(result.RowsAffected)
		return nil
	})
	return count, err
}

// forEachRecord streams a header-keyed CSV file, invoking fn per row.
func (s *Seeder) forEachRecord(path string, fn func(map[string]string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("reading header of %s: %w", path, err)
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		rec := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(row) {
				rec[col] = row[i]
			}
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
}
