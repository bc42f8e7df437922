package usecase

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/githunt/githunt"
	"github.com/githunt/githunt/internal/domain"
)

// Feed cursors are keyset positions, not offsets, so pages stay stable under
// concurrent inserts. The encoded form is base64("rank:id") where rank is the
// last entry's score (HOT) or createdAt in unix nanos (NEW) and id breaks
// ties.

func encodeCursor(feed githunt.FeedType, last githunt.Entry) string {
	var rank int64
	if feed == githunt.FeedNew {
		rank = last.CreatedAt.UnixNano()
	} else {
		rank = int64(last.Score)
	}
	raw := fmt.Sprintf("%d:%d", rank, last.ID)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

func decodeCursor(s string) (*domain.FeedCursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}

	rankStr, idStr, found := strings.Cut(string(raw), ":")
	if !found {
		return nil, fmt.Errorf("malformed cursor")
	}

	rank, err := strconv.ParseInt(rankStr, 10, 64)
	if err != nil {
		return nil, err
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return nil, err
	}

	return &domain.FeedCursor{Rank: rank, ID: id}, nil
}
