package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"warbler/internal/models"
)

func TestLikeIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	message := createTestMessage(t, db, bob.ID, "hello")

	if err := repo.Like(ctx, alice.ID, message.ID); err != nil {
		t.Fatalf("first like failed: %v", err)
	}
	if err := repo.Like(ctx, alice.ID, message.ID); err != nil {
		t.Fatalf("second like failed: %v", err)
	}

	var count int64
	if err := db.Model(&models.Like{}).Count(&count).Error; err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one like row, got %d", count)
	}
}

func TestLikeAnnotations(t *testing.T) {
	db := newTestDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")
	message := createTestMessage(t, db, bob.ID, "hello")

	for _, id := range []uint{alice.ID, carol.ID} {
		if err := repo.Like(ctx, id, message.ID); err != nil {
			t.Fatal(err)
		}
	}

	got, err := repo.GetByID(ctx, message.ID, alice.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.LikesCount != 2 {
		t.Fatalf("expected likes_count 2, got %d", got.LikesCount)
	}
	if !got.Liked {
		t.Fatal("alice liked the message, liked flag should be true")
	}
	if got.User.Username != "bob" {
		t.Fatalf("author not preloaded: %+v", got.User)
	}

	got, err = repo.GetByID(ctx, message.ID, bob.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Liked {
		t.Fatal("bob did not like his own message, liked flag should be false")
	}

	if err := repo.Unlike(ctx, alice.ID, message.ID); err != nil {
		t.Fatal(err)
	}
	got, err = repo.GetByID(ctx, message.ID, alice.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.LikesCount != 1 || got.Liked {
		t.Fatalf("unlike not reflected: count=%d liked=%v", got.LikesCount, got.Liked)
	}
}

func TestDeleteRemovesLikes(t *testing.T) {
	db := newTestDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	message := createTestMessage(t, db, bob.ID, "hello")

	if err := repo.Like(ctx, alice.ID, message.ID); err != nil {
		t.Fatal(err)
	}
	if err := repo.Delete(ctx, message.ID); err != nil {
		t.Fatal(err)
	}

	var likes int64
	if err := db.Model(&models.Like{}).Count(&likes).Error; err != nil {
		t.Fatal(err)
	}
	if likes != 0 {
		t.Fatalf("expected likes to go with the message, found %d", likes)
	}

	if _, err := repo.GetByID(ctx, message.ID, alice.ID); err == nil {
		t.Fatal("deleted message should not be found")
	}
}

func TestFeedSourcesAndOrder(t *testing.T) {
	db := newTestDB(t)
	messageRepo := NewMessageRepository(db)
	followRepo := NewFollowRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	// alice follows bob, not carol.
	if err := followRepo.Add(ctx, alice.ID, bob.ID); err != nil {
		t.Fatal(err)
	}

	base := time.Now().Add(-time.Hour)
	createAt := func(userID uint, text string, offset time.Duration) {
		m := &models.Message{UserID: userID, Text: text, CreatedAt: base.Add(offset)}
		if err := db.Create(m).Error; err != nil {
			t.Fatal(err)
		}
	}

	createAt(alice.ID, "from alice", 1*time.Minute)
	createAt(bob.ID, "from bob", 2*time.Minute)
	createAt(carol.ID, "from carol", 3*time.Minute)
	createAt(bob.ID, "newest from bob", 4*time.Minute)

	feed, err := messageRepo.Feed(ctx, alice.ID, 100)
	if err != nil {
		t.Fatal(err)
	}

	if len(feed) != 3 {
		t.Fatalf("expected 3 feed messages, got %d", len(feed))
	}
	for _, m := range feed {
		if m.UserID == carol.ID {
			t.Fatal("feed must not contain messages from unfollowed users")
		}
	}
	// Newest first.
	if feed[0].Text != "newest from bob" || feed[1].Text != "from bob" || feed[2].Text != "from alice" {
		t.Fatalf("feed out of order: %q, %q, %q", feed[0].Text, feed[1].Text, feed[2].Text)
	}
}

func TestFeedHonorsLimit(t *testing.T) {
	db := newTestDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 7; i++ {
		m := &models.Message{
			UserID:    alice.ID,
			Text:      fmt.Sprintf("warble %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := db.Create(m).Error; err != nil {
			t.Fatal(err)
		}
	}

	feed, err := repo.Feed(ctx, alice.ID, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(feed) != 5 {
		t.Fatalf("expected limit of 5, got %d", len(feed))
	}
	if feed[0].Text != "warble 6" {
		t.Fatalf("limit must keep the newest messages, got %q first", feed[0].Text)
	}
}

func TestLikedByUserOrdersByLikeTime(t *testing.T) {
	db := newTestDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	first := createTestMessage(t, db, bob.ID, "first warble")
	second := createTestMessage(t, db, bob.ID, "second warble")

	// Like the newer message first, then the older one.
	base := time.Now().Add(-time.Hour)
	for i, messageID := range []uint{second.ID, first.ID} {
		like := &models.Like{UserID: alice.ID, MessageID: messageID, CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		if err := db.Create(like).Error; err != nil {
			t.Fatal(err)
		}
	}

	liked, err := repo.LikedByUser(ctx, alice.ID, 50, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(liked) != 2 {
		t.Fatalf("expected 2 liked messages, got %d", len(liked))
	}
	if liked[0].ID != first.ID || liked[1].ID != second.ID {
		t.Fatalf("liked messages out of order: %d, %d", liked[0].ID, liked[1].ID)
	}
	if !liked[0].Liked || !liked[1].Liked {
		t.Fatal("liked flag should be set on the user's liked messages")
	}
}
