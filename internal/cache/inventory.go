package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix         = "user:%d"
	MessageKeyPrefix      = "message:%d"
	ConfirmTokenKeyPrefix = "confirm_token:%s"
	BlacklistKeyPrefix    = "blacklist:%s"
)

const (
	UserTTL    = 5 * time.Minute
	MessageTTL = 10 * time.Minute
	// ConfirmTokenTTL bounds how long an issued state-changing token stays valid.
	ConfirmTokenTTL = 10 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func MessageKey(messageID uint) string {
	return fmt.Sprintf(MessageKeyPrefix, messageID)
}

func ConfirmTokenKey(token string) string {
	return fmt.Sprintf(ConfirmTokenKeyPrefix, token)
}

func BlacklistKey(jti string) string {
	return fmt.Sprintf(BlacklistKeyPrefix, jti)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidateMessage(ctx context.Context, messageID uint) {
	Invalidate(ctx, MessageKey(messageID))
}
