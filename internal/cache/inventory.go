package cache

import (
	"fmt"
	"time"
)

const (
	UserKeyPrefix     = "user:%d"
	WSTicketKeyPrefix = "ws_ticket:%s"
)

const (
	UserTTL     = 5 * time.Minute
	WSTicketTTL = 60 * time.Second
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func WSTicketKey(ticket string) string {
	return fmt.Sprintf(WSTicketKeyPrefix, ticket)
}
