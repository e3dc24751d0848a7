package blockchan

import (
	"sort"
	"time"

	"github.com/mr-tron/base58"

	"github.com/blockchan/blockchan-server/pkg/solana/board"
)

// Post is a decoded post record.
type Post struct {
	ID           string
	Creator      string
	Title        string
	Content      string
	Votes        int32
	CommentCount uint32
	CreatedAt    time.Time
}

// Comment is a decoded comment record.
type Comment struct {
	ID        string
	PostID    string
	Creator   string
	Content   string
	CreatedAt time.Time
}

// ScanStats reports how a program account scan went. Program accounts that
// are too small, or whose data does not decode as the requested record
// type, are skipped rather than failing the scan.
type ScanStats struct {
	Total   int
	Decoded int
	Skipped int
}

// SortOrder determines how scanned posts are returned.
type SortOrder uint8

const (
	// SortByRecent orders posts newest first.
	SortByRecent SortOrder = iota

	// SortByVotes orders posts most voted first.
	SortByVotes
)

func (c *Client) scanPosts(filter func(*board.PostAccount) bool, order SortOrder) ([]Post, ScanStats, error) {
	accounts, err := c.solana.GetProgramAccounts(c.conf.Program)
	if err != nil {
		return nil, ScanStats{}, &NetworkError{Operation: "getProgramAccounts", Cause: err}
	}

	var stats ScanStats
	posts := make([]Post, 0, len(accounts))

	for _, account := range accounts {
		stats.Total++

		var record board.PostAccount
		if err := record.Unmarshal(account.Data); err != nil {
			stats.Skipped++
			continue
		}
		stats.Decoded++

		if filter != nil && !filter(&record) {
			continue
		}

		posts = append(posts, Post{
			ID:           base58.Encode(account.PubKey),
			Creator:      base58.Encode(record.Creator),
			Title:        record.Title,
			Content:      record.Content,
			Votes:        record.Votes,
			CommentCount: record.CommentCount,
			CreatedAt:    time.Unix(int64(record.CreatedAt), 0),
		})
	}

	switch order {
	case SortByVotes:
		sort.SliceStable(posts, func(i, j int) bool {
			return posts[i].Votes > posts[j].Votes
		})
	default:
		sort.SliceStable(posts, func(i, j int) bool {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		})
	}

	c.log.WithFields(map[string]interface{}{
		"total":   stats.Total,
		"decoded": stats.Decoded,
		"skipped": stats.Skipped,
	}).Debug("scanned post records")

	return posts, stats, nil
}

func (c *Client) scanComments(postID string) ([]Comment, ScanStats, error) {
	accounts, err := c.solana.GetProgramAccounts(c.conf.Program)
	if err != nil {
		return nil, ScanStats{}, &NetworkError{Operation: "getProgramAccounts", Cause: err}
	}

	var stats ScanStats
	var comments []Comment

	for _, account := range accounts {
		stats.Total++

		var record board.CommentAccount
		if err := record.Unmarshal(account.Data); err != nil {
			stats.Skipped++
			continue
		}
		stats.Decoded++

		if record.PostID != postID {
			continue
		}

		comments = append(comments, Comment{
			ID:        base58.Encode(account.PubKey),
			PostID:    record.PostID,
			Creator:   base58.Encode(record.Creator),
			Content:   record.Content,
			CreatedAt: time.Unix(int64(record.CreatedAt), 0),
		})
	}

	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].CreatedAt.After(comments[j].CreatedAt)
	})

	return comments, stats, nil
}
