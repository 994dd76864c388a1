package i

import "context"

// Standing is one entry of a leaderboard.
type Standing struct {
	Member string
	Score  float64
}

// Leaderboard keeps the best score of every member of named boards.
type Leaderboard interface {
	// Submit records score for member unless member already has a better one.
	Submit(ctx context.Context, board, member string, score float64) error
	// Top returns up to amount standings, best first.
	Top(ctx context.Context, board string, amount int64) ([]Standing, error)
	// Rank returns the zero based rank of member, best first.
	Rank(ctx context.Context, board, member string) (int64, error)
}
