package cache

import (
	"strconv"
	"strings"
)

const (
	UserStatusKeyPrefix = "api-cache:user:"
	PlansKey            = "api-cache:plans"
)

func UserStatusKey(tgChatID int64) string {
	return UserStatusKeyPrefix + strconv.FormatInt(tgChatID, 10)
}

// resource names the cached resource for metrics labels.
func resource(key string) string {
	switch {
	case key == PlansKey:
		return "plans"
	case strings.HasPrefix(key, UserStatusKeyPrefix):
		return "user"
	}
	return "other"
}
