package social

import (
	"context"
	"fmt"

	"github.com/MendeIT/django-blog-project/internal/auth"
	"github.com/MendeIT/django-blog-project/internal/db"
	"github.com/MendeIT/django-blog-project/internal/paginate"

	"github.com/jackc/pgx/v5"
)

const postSelect = `
		SELECT p.id, p.text, p.created_at, p.image, u.id, u.username, u.full_name, g.id, g.slug, g.title
		FROM posts p
		JOIN users u ON u.id = p.author_id
		LEFT JOIN groups g ON g.id = p.group_id`

const followedAuthors = `SELECT author_id FROM follows WHERE user_id = $1`

func (s *Service) GlobalFeed(ctx context.Context, rawPage string) (FeedPage, error) {
	return s.feed(ctx, `SELECT COUNT(*) FROM posts`, "", rawPage)
}

func (s *Service) GroupFeed(ctx context.Context, slug, rawPage string) (GroupFeed, error) {
	group, err := s.GroupBySlug(ctx, slug)
	if err != nil {
		return GroupFeed{}, err
	}

	page, err := s.feed(ctx,
		`SELECT COUNT(*) FROM posts WHERE group_id = $1`,
		` WHERE p.group_id = $1`,
		rawPage, group.ID)
	if err != nil {
		return GroupFeed{}, err
	}
	return GroupFeed{Group: group, Page: page}, nil
}

// AuthorFeed lists one author's posts. Following is only resolved for a
// signed-in viewer.
func (s *Service) AuthorFeed(ctx context.Context, username string, viewer *auth.Identity, rawPage string) (AuthorFeed, error) {
	author, err := s.AuthorByUsername(ctx, username)
	if err != nil {
		return AuthorFeed{}, err
	}

	page, err := s.feed(ctx,
		`SELECT COUNT(*) FROM posts WHERE author_id = $1`,
		` WHERE p.author_id = $1`,
		rawPage, author.ID)
	if err != nil {
		return AuthorFeed{}, err
	}

	out := AuthorFeed{Author: author, Page: page, PostCount: page.Count}
	if viewer != nil {
		following, err := s.isFollowing(ctx, viewer.UserID, author.ID)
		if err != nil {
			return AuthorFeed{}, err
		}
		out.Following = &following
	}
	return out, nil
}

func (s *Service) FollowFeed(ctx context.Context, viewer auth.Identity, rawPage string) (FeedPage, error) {
	return s.feed(ctx,
		`SELECT COUNT(*) FROM posts WHERE author_id IN (`+followedAuthors+`)`,
		` WHERE p.author_id IN (`+followedAuthors+`)`,
		rawPage, viewer.UserID)
}

// feed counts the filtered set, resolves the requested page against that
// count and loads only that page's rows.
func (s *Service) feed(ctx context.Context, countSQL, where, rawPage string, args ...any) (FeedPage, error) {
	var total int
	if err := s.db.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return FeedPage{}, fmt.Errorf("count posts: %w", err)
	}

	page := paginate.New(total, rawPage)
	posts := []Post{}
	if total > 0 {
		var err error
		posts, err = s.listPosts(ctx, where, page, args...)
		if err != nil {
			return FeedPage{}, err
		}
	}
	return FeedPage{Page: page, Posts: posts}, nil
}

func (s *Service) listPosts(ctx context.Context, where string, page paginate.Page, args ...any) ([]Post, error) {
	n := len(args)
	query := fmt.Sprintf("%s%s ORDER BY p.created_at DESC, p.id DESC LIMIT $%d OFFSET $%d", postSelect, where, n+1, n+2)
	args = append(args, page.PerPage, page.Offset())

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts := []Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

func scanPost(row pgx.Row) (Post, error) {
	var (
		p                              Post
		groupID, groupSlug, groupTitle *string
	)
	err := row.Scan(&p.ID, &p.Text, &p.CreatedAt, &p.Image,
		&p.Author.ID, &p.Author.Username, &p.Author.FullName,
		&groupID, &groupSlug, &groupTitle)
	if err != nil {
		return Post{}, err
	}
	if groupID != nil {
		p.Group = &GroupRef{ID: *groupID}
		if groupSlug != nil {
			p.Group.Slug = *groupSlug
		}
		if groupTitle != nil {
			p.Group.Title = *groupTitle
		}
	}
	return p, nil
}

func (s *Service) GroupBySlug(ctx context.Context, slug string) (Group, error) {
	var g Group
	err := s.db.QueryRow(ctx, `
		SELECT id, title, slug, description
		FROM groups WHERE slug = $1
	`, slug).Scan(&g.ID, &g.Title, &g.Slug, &g.Description)
	if db.IsNoRows(err) {
		return Group{}, ErrNotFound
	}
	return g, err
}

func (s *Service) AuthorByUsername(ctx context.Context, username string) (Author, error) {
	var a Author
	err := s.db.QueryRow(ctx, `
		SELECT id, username, full_name
		FROM users WHERE username = $1
	`, username).Scan(&a.ID, &a.Username, &a.FullName)
	if db.IsNoRows(err) {
		return Author{}, ErrNotFound
	}
	return a, err
}
