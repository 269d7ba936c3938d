package social

import (
	"context"
	"fmt"

	"github.com/MendeIT/django-blog-project/internal/auth"
	"github.com/MendeIT/django-blog-project/internal/db"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Publisher fans a freshly created post out to live subscribers of its author.
type Publisher interface {
	Publish(author string, payload []byte)
}

type Service struct {
	db        db.Querier
	publisher Publisher
}

func NewService(db db.Querier, publisher Publisher) *Service {
	return &Service{db: db, publisher: publisher}
}

func (s *Service) CreatePost(ctx context.Context, actor auth.Identity, input PostInput) (Post, error) {
	if err := validateInput(input); err != nil {
		return Post{}, err
	}
	group, err := s.resolveGroup(ctx, input.GroupID)
	if err != nil {
		return Post{}, err
	}

	post := Post{
		ID:     uuid.NewString(),
		Text:   input.Text,
		Image:  input.Image,
		Author: Author{ID: actor.UserID, Username: actor.Username},
		Group:  group,
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO posts (id, text, image, author_id, group_id)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at
	`, post.ID, post.Text, post.Image, actor.UserID, groupIDArg(group))
	if err := row.Scan(&post.CreatedAt); err != nil {
		return Post{}, fmt.Errorf("insert post: %w", err)
	}

	s.publish(post)
	return post, nil
}

func (s *Service) GetPost(ctx context.Context, id string) (PostDetail, error) {
	post, err := s.loadPost(ctx, id)
	if err != nil {
		return PostDetail{}, err
	}

	var count int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM posts WHERE author_id = $1`, post.Author.ID).Scan(&count); err != nil {
		return PostDetail{}, fmt.Errorf("count author posts: %w", err)
	}

	comments, err := s.listComments(ctx, post.ID)
	if err != nil {
		return PostDetail{}, err
	}
	return PostDetail{Post: post, PostCount: count, Comments: comments}, nil
}

// PostForEdit loads a post the actor is about to edit. For anyone but the
// author it returns the post together with ErrNotOwner.
func (s *Service) PostForEdit(ctx context.Context, actor auth.Identity, id string) (Post, error) {
	post, err := s.loadPost(ctx, id)
	if err != nil {
		return Post{}, err
	}
	if post.Author.ID != actor.UserID {
		return post, ErrNotOwner
	}
	return post, nil
}

// EditPost updates text, group and image. The author and creation time
// never change. An empty input.Image keeps the current image. On
// ErrNotOwner or a validation error the stored post is returned unchanged.
func (s *Service) EditPost(ctx context.Context, actor auth.Identity, id string, input PostInput) (Post, error) {
	post, err := s.PostForEdit(ctx, actor, id)
	if err != nil {
		return post, err
	}
	if err := validateInput(input); err != nil {
		return post, err
	}
	group, err := s.resolveGroup(ctx, input.GroupID)
	if err != nil {
		return post, err
	}

	image := post.Image
	if input.Image != "" {
		image = input.Image
	}

	_, err = s.db.Exec(ctx, `
		UPDATE posts
		SET text=$2, group_id=$3, image=$4
		WHERE id=$1 AND author_id=$5
	`, post.ID, input.Text, groupIDArg(group), image, actor.UserID)
	if err != nil {
		return post, fmt.Errorf("update post: %w", err)
	}

	post.Text = input.Text
	post.Group = group
	post.Image = image
	return post, nil
}

func (s *Service) AddComment(ctx context.Context, actor auth.Identity, postID string, input CommentInput) (Comment, error) {
	if err := s.ensurePost(ctx, postID); err != nil {
		return Comment{}, err
	}
	if err := validateInput(input); err != nil {
		return Comment{}, err
	}

	comment := Comment{
		ID:     uuid.NewString(),
		PostID: postID,
		Text:   input.Text,
		Author: Author{ID: actor.UserID, Username: actor.Username},
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO comments (id, post_id, author_id, text)
		VALUES ($1,$2,$3,$4)
		RETURNING created_at
	`, comment.ID, postID, actor.UserID, comment.Text)
	if err := row.Scan(&comment.CreatedAt); err != nil {
		return Comment{}, fmt.Errorf("insert comment: %w", err)
	}
	return comment, nil
}

func (s *Service) CreateGroup(ctx context.Context, input GroupInput) (Group, error) {
	if err := validateInput(input); err != nil {
		return Group{}, err
	}

	group := Group{
		ID:          uuid.NewString(),
		Title:       input.Title,
		Slug:        input.Slug,
		Description: input.Description,
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO groups (id, title, slug, description)
		VALUES ($1,$2,$3,$4)
	`, group.ID, group.Title, group.Slug, group.Description)
	if db.IsUniqueViolation(err) {
		return Group{}, newValidationError("slug", "Group with this slug already exists.")
	}
	if err != nil {
		return Group{}, fmt.Errorf("insert group: %w", err)
	}
	return group, nil
}

func (s *Service) ListGroups(ctx context.Context) ([]Group, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, title, slug, description
		FROM groups ORDER BY title
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := []Group{}
	for rows.Next() {
		var g Group
		if err := rows.Scan(&g.ID, &g.Title, &g.Slug, &g.Description); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func (s *Service) loadPost(ctx context.Context, id string) (Post, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Post{}, ErrNotFound
	}
	post, err := scanPost(s.db.QueryRow(ctx, postSelect+` WHERE p.id = $1`, id))
	if db.IsNoRows(err) {
		return Post{}, ErrNotFound
	}
	return post, err
}

func (s *Service) ensurePost(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	var exists bool
	if err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM posts WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return nil
}

func (s *Service) listComments(ctx context.Context, postID string) ([]Comment, error) {
	rows, err := s.db.Query(ctx, `
		SELECT c.id, c.post_id, c.text, c.created_at, u.id, u.username, u.full_name
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.post_id = $1
		ORDER BY c.created_at, c.id
	`, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	comments := []Comment{}
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.Text, &c.CreatedAt, &c.Author.ID, &c.Author.Username, &c.Author.FullName); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// resolveGroup turns an optional group id from a form into a reference,
// rejecting ids that do not exist.
func (s *Service) resolveGroup(ctx context.Context, id string) (*GroupRef, error) {
	if id == "" {
		return nil, nil
	}
	var g GroupRef
	err := s.db.QueryRow(ctx, `SELECT id, slug, title FROM groups WHERE id = $1`, id).Scan(&g.ID, &g.Slug, &g.Title)
	if db.IsNoRows(err) {
		return nil, newValidationError("group", "Select a valid choice.")
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *Service) publish(post Post) {
	if s.publisher == nil {
		return
	}
	payload, err := json.Marshal(post)
	if err != nil {
		log.Error().Err(err).Str("post_id", post.ID).Msg("encode post for stream")
		return
	}
	s.publisher.Publish(post.Author.Username, payload)
}

func groupIDArg(g *GroupRef) *string {
	if g == nil {
		return nil
	}
	return &g.ID
}
