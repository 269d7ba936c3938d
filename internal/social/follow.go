package social

import (
	"context"

	"github.com/MendeIT/django-blog-project/internal/auth"
	"github.com/MendeIT/django-blog-project/internal/db"

	"github.com/google/uuid"
)

// Follow subscribes actor to username's posts. Following yourself or
// following twice changes nothing and is not an error.
func (s *Service) Follow(ctx context.Context, actor auth.Identity, username string) error {
	author, err := s.AuthorByUsername(ctx, username)
	if err != nil {
		return err
	}
	if author.ID == actor.UserID {
		return nil
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO follows (id, user_id, author_id)
		VALUES ($1,$2,$3)
		ON CONFLICT (user_id, author_id) DO NOTHING
	`, uuid.NewString(), actor.UserID, author.ID)
	if db.IsUniqueViolation(err) {
		return nil
	}
	return err
}

// Unfollow removes the subscription if there is one.
func (s *Service) Unfollow(ctx context.Context, actor auth.Identity, username string) error {
	author, err := s.AuthorByUsername(ctx, username)
	if err != nil {
		return err
	}
	if author.ID == actor.UserID {
		return nil
	}

	_, err = s.db.Exec(ctx, `DELETE FROM follows WHERE user_id = $1 AND author_id = $2`, actor.UserID, author.ID)
	return err
}

func (s *Service) isFollowing(ctx context.Context, userID, authorID string) (bool, error) {
	var following bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM follows WHERE user_id = $1 AND author_id = $2)`,
		userID, authorID).Scan(&following)
	return following, err
}
