package social

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MendeIT/django-blog-project/internal/auth"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
)

const (
	aliceID = "0b6f3a52-6d0c-4f59-9d55-2f9a7d0a0001"
	bobID   = "0b6f3a52-6d0c-4f59-9d55-2f9a7d0a0002"
	carolID = "0b6f3a52-6d0c-4f59-9d55-2f9a7d0a0003"
	postID  = "7d1e0c4b-1c3a-4a53-8f0e-5b7a2c9e0001"
	catsID  = "5a9c2f10-3e4d-4b8a-9f61-0c2d7e8a0001"
	dogsID  = "5a9c2f10-3e4d-4b8a-9f61-0c2d7e8a0002"
)

var (
	alice = auth.Identity{UserID: aliceID, Username: "alice"}
	bob   = auth.Identity{UserID: bobID, Username: "bob"}
	carol = auth.Identity{UserID: carolID, Username: "carol"}
)

var postColumns = []string{"id", "text", "created_at", "image", "author_id", "username", "full_name", "group_id", "group_slug", "group_title"}

type recordingPublisher struct {
	authors  []string
	payloads [][]byte
}

func (p *recordingPublisher) Publish(author string, payload []byte) {
	p.authors = append(p.authors, author)
	p.payloads = append(p.payloads, payload)
}

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func strPtr(s string) *string { return &s }

func addPostRow(rows *pgxmock.Rows, id, text string, author auth.Identity, group *GroupRef) *pgxmock.Rows {
	if group == nil {
		return rows.AddRow(id, text, time.Now(), "", author.UserID, author.Username, "", nil, nil, nil)
	}
	return rows.AddRow(id, text, time.Now(), "", author.UserID, author.Username, "",
		strPtr(group.ID), strPtr(group.Slug), strPtr(group.Title))
}

func expectAuthorLookup(mock pgxmock.PgxPoolIface, who auth.Identity) {
	mock.ExpectQuery(`FROM users WHERE username = \$1`).
		WithArgs(who.Username).
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "full_name"}).
			AddRow(who.UserID, who.Username, ""))
}

func expectLoadPost(mock pgxmock.PgxPoolIface, id string, author auth.Identity, group *GroupRef) {
	mock.ExpectQuery(`LEFT JOIN groups g ON g.id = p.group_id WHERE p.id = \$1`).
		WithArgs(id).
		WillReturnRows(addPostRow(pgxmock.NewRows(postColumns), id, "original", author, group))
}

func TestGlobalFeedPaginates(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM posts`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(23))
	rows := pgxmock.NewRows(postColumns)
	for i := 0; i < 3; i++ {
		addPostRow(rows, postID, "post", alice, nil)
	}
	mock.ExpectQuery(`ORDER BY p.created_at DESC, p.id DESC LIMIT \$1 OFFSET \$2`).
		WithArgs(10, 20).
		WillReturnRows(rows)

	svc := NewService(mock, nil)
	page, err := svc.GlobalFeed(context.Background(), "3")
	if err != nil {
		t.Fatalf("global feed: %v", err)
	}
	if page.Number != 3 || page.NumPages != 3 || page.HasNext || !page.HasPrevious {
		t.Fatalf("unexpected page %+v", page.Page)
	}
	if len(page.Posts) != 3 {
		t.Fatalf("expected 3 posts, got %d", len(page.Posts))
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGlobalFeedOutOfRangeFallsBackToLastPage(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM posts`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery(`ORDER BY p.created_at DESC, p.id DESC LIMIT \$1 OFFSET \$2`).
		WithArgs(10, 10).
		WillReturnRows(addPostRow(addPostRow(pgxmock.NewRows(postColumns), postID, "a", alice, nil), postID, "b", bob, nil))

	page, err := NewService(mock, nil).GlobalFeed(context.Background(), "99")
	if err != nil {
		t.Fatalf("global feed: %v", err)
	}
	if page.Number != 2 || len(page.Posts) != 2 {
		t.Fatalf("expected last page with 2 posts, got %d/%d", page.Number, len(page.Posts))
	}
}

func TestGlobalFeedEmpty(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM posts`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))

	page, err := NewService(mock, nil).GlobalFeed(context.Background(), "")
	if err != nil {
		t.Fatalf("global feed: %v", err)
	}
	if page.Posts == nil || len(page.Posts) != 0 {
		t.Fatalf("expected empty non-nil posts")
	}
	if page.NumPages != 1 || page.Number != 1 {
		t.Fatalf("expected a single empty page, got %+v", page.Page)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGroupFeedUnknownSlug(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`FROM groups WHERE slug = \$1`).
		WithArgs("nope").
		WillReturnError(pgx.ErrNoRows)

	_, err := NewService(mock, nil).GroupFeed(context.Background(), "nope", "")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAuthorFeedFollowingFlag(t *testing.T) {
	mock := newMock(t)
	svc := NewService(mock, nil)

	expectAuthorLookup(mock, bob)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM posts WHERE author_id = \$1`).
		WithArgs(bobID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`WHERE p.author_id = \$1 ORDER BY p.created_at DESC, p.id DESC LIMIT \$2 OFFSET \$3`).
		WithArgs(bobID, 10, 0).
		WillReturnRows(addPostRow(pgxmock.NewRows(postColumns), postID, "hi", bob, nil))
	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM follows`).
		WithArgs(aliceID, bobID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	feed, err := svc.AuthorFeed(context.Background(), "bob", &alice, "")
	if err != nil {
		t.Fatalf("author feed: %v", err)
	}
	if feed.PostCount != 1 || feed.Following == nil || !*feed.Following {
		t.Fatalf("unexpected author feed %+v", feed)
	}

	expectAuthorLookup(mock, bob)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM posts WHERE author_id = \$1`).
		WithArgs(bobID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))

	feed, err = svc.AuthorFeed(context.Background(), "bob", nil, "")
	if err != nil {
		t.Fatalf("anonymous author feed: %v", err)
	}
	if feed.Following != nil {
		t.Fatalf("expected no following flag for anonymous viewer")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAuthorFeedUnknownUser(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`FROM users WHERE username = \$1`).
		WithArgs("ghost").
		WillReturnError(pgx.ErrNoRows)

	_, err := NewService(mock, nil).AuthorFeed(context.Background(), "ghost", nil, "")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

// Alice follows Bob only; Bob and Carol each have a post. Alice's follow
// feed holds Bob's post, Carol's is empty.
func TestFollowFeedScenario(t *testing.T) {
	mock := newMock(t)
	svc := NewService(mock, nil)

	expectAuthorLookup(mock, bob)
	mock.ExpectExec(`INSERT INTO follows`).
		WithArgs(pgxmock.AnyArg(), aliceID, bobID).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	if err := svc.Follow(context.Background(), alice, "bob"); err != nil {
		t.Fatalf("follow: %v", err)
	}

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM posts WHERE author_id IN \(SELECT author_id FROM follows WHERE user_id = \$1\)`).
		WithArgs(aliceID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`WHERE p.author_id IN \(SELECT author_id FROM follows WHERE user_id = \$1\) ORDER BY`).
		WithArgs(aliceID, 10, 0).
		WillReturnRows(addPostRow(pgxmock.NewRows(postColumns), postID, "bob's post", bob, nil))

	feed, err := svc.FollowFeed(context.Background(), alice, "")
	if err != nil {
		t.Fatalf("alice follow feed: %v", err)
	}
	if len(feed.Posts) != 1 || feed.Posts[0].Author.Username != "bob" {
		t.Fatalf("expected bob's post in alice's feed, got %+v", feed.Posts)
	}

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM posts WHERE author_id IN`).
		WithArgs(carolID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))

	feed, err = svc.FollowFeed(context.Background(), carol, "")
	if err != nil {
		t.Fatalf("carol follow feed: %v", err)
	}
	if len(feed.Posts) != 0 {
		t.Fatalf("expected empty feed for carol")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFollowIsIdempotent(t *testing.T) {
	mock := newMock(t)
	svc := NewService(mock, nil)

	expectAuthorLookup(mock, bob)
	mock.ExpectExec(`INSERT INTO follows`).
		WithArgs(pgxmock.AnyArg(), aliceID, bobID).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	expectAuthorLookup(mock, bob)
	mock.ExpectExec(`INSERT INTO follows`).
		WithArgs(pgxmock.AnyArg(), aliceID, bobID).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))
	expectAuthorLookup(mock, bob)
	mock.ExpectExec(`INSERT INTO follows`).
		WithArgs(pgxmock.AnyArg(), aliceID, bobID).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})

	for i := 0; i < 3; i++ {
		if err := svc.Follow(context.Background(), alice, "bob"); err != nil {
			t.Fatalf("follow #%d: %v", i+1, err)
		}
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFollowSelfIsNoop(t *testing.T) {
	mock := newMock(t)
	expectAuthorLookup(mock, alice)

	if err := NewService(mock, nil).Follow(context.Background(), alice, "alice"); err != nil {
		t.Fatalf("self follow: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected statements: %v", err)
	}
}

func TestUnfollowIsIdempotent(t *testing.T) {
	mock := newMock(t)
	svc := NewService(mock, nil)

	expectAuthorLookup(mock, bob)
	mock.ExpectExec(`DELETE FROM follows WHERE user_id = \$1 AND author_id = \$2`).
		WithArgs(aliceID, bobID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	expectAuthorLookup(mock, bob)
	mock.ExpectExec(`DELETE FROM follows WHERE user_id = \$1 AND author_id = \$2`).
		WithArgs(aliceID, bobID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	for i := 0; i < 2; i++ {
		if err := svc.Unfollow(context.Background(), alice, "bob"); err != nil {
			t.Fatalf("unfollow #%d: %v", i+1, err)
		}
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreatePostPublishes(t *testing.T) {
	mock := newMock(t)
	pub := &recordingPublisher{}
	svc := NewService(mock, pub)

	mock.ExpectQuery(`SELECT id, slug, title FROM groups WHERE id = \$1`).
		WithArgs(catsID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "slug", "title"}).AddRow(catsID, "cats", "Cats"))
	mock.ExpectQuery(`INSERT INTO posts`).
		WithArgs(pgxmock.AnyArg(), "hello", "posts/a.png", aliceID, strPtr(catsID)).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	post, err := svc.CreatePost(context.Background(), alice, PostInput{Text: "hello", GroupID: catsID, Image: "posts/a.png"})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	if post.CreatedAt.IsZero() || post.Group == nil || post.Group.Slug != "cats" {
		t.Fatalf("unexpected post %+v", post)
	}
	if len(pub.authors) != 1 || pub.authors[0] != "alice" {
		t.Fatalf("expected one publish for alice, got %v", pub.authors)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreatePostValidation(t *testing.T) {
	mock := newMock(t)
	svc := NewService(mock, nil)

	_, err := svc.CreatePost(context.Background(), alice, PostInput{})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Fields["text"] == "" {
		t.Fatalf("expected text validation error, got %v", err)
	}

	_, err = svc.CreatePost(context.Background(), alice, PostInput{Text: "x", GroupID: "not-a-uuid"})
	if !errors.As(err, &verr) || verr.Fields["group"] == "" {
		t.Fatalf("expected group validation error, got %v", err)
	}

	mock.ExpectQuery(`SELECT id, slug, title FROM groups WHERE id = \$1`).
		WithArgs(dogsID).
		WillReturnError(pgx.ErrNoRows)
	_, err = svc.CreatePost(context.Background(), alice, PostInput{Text: "x", GroupID: dogsID})
	if !errors.As(err, &verr) || verr.Fields["group"] != "Select a valid choice." {
		t.Fatalf("expected unknown group error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected statements: %v", err)
	}
}

func TestCreatePostAcceptsWhitespaceText(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`INSERT INTO posts`).
		WithArgs(pgxmock.AnyArg(), "   ", "", aliceID, pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	if _, err := NewService(mock, nil).CreatePost(context.Background(), alice, PostInput{Text: "   "}); err != nil {
		t.Fatalf("create post: %v", err)
	}
}

func TestGetPost(t *testing.T) {
	mock := newMock(t)

	expectLoadPost(mock, postID, alice, nil)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM posts WHERE author_id = \$1`).
		WithArgs(aliceID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(4))
	mock.ExpectQuery(`FROM comments c`).
		WithArgs(postID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "post_id", "text", "created_at", "author_id", "username", "full_name"}).
			AddRow("c1", postID, "nice", time.Now(), bobID, "bob", ""))

	detail, err := NewService(mock, nil).GetPost(context.Background(), postID)
	if err != nil {
		t.Fatalf("get post: %v", err)
	}
	if detail.PostCount != 4 || len(detail.Comments) != 1 || detail.Comments[0].Author.Username != "bob" {
		t.Fatalf("unexpected detail %+v", detail)
	}
}

func TestGetPostNotFound(t *testing.T) {
	mock := newMock(t)
	svc := NewService(mock, nil)

	if _, err := svc.GetPost(context.Background(), "42"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found for malformed id, got %v", err)
	}

	mock.ExpectQuery(`WHERE p.id = \$1`).
		WithArgs(postID).
		WillReturnError(pgx.ErrNoRows)
	if _, err := svc.GetPost(context.Background(), postID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestEditPostMovesGroup(t *testing.T) {
	mock := newMock(t)
	cats := &GroupRef{ID: catsID, Slug: "cats", Title: "Cats"}

	expectLoadPost(mock, postID, alice, cats)
	mock.ExpectQuery(`SELECT id, slug, title FROM groups WHERE id = \$1`).
		WithArgs(dogsID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "slug", "title"}).AddRow(dogsID, "dogs", "Dogs"))
	mock.ExpectExec(`UPDATE posts`).
		WithArgs(postID, "edited", strPtr(dogsID), "", aliceID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	svc := NewService(mock, nil)
	post, err := svc.EditPost(context.Background(), alice, postID, PostInput{Text: "edited", GroupID: dogsID})
	if err != nil {
		t.Fatalf("edit post: %v", err)
	}
	if post.Group == nil || post.Group.Slug != "dogs" || post.Author.ID != aliceID {
		t.Fatalf("unexpected edited post %+v", post)
	}

	// The old group no longer lists the post.
	mock.ExpectQuery(`FROM groups WHERE slug = \$1`).
		WithArgs("cats").
		WillReturnRows(pgxmock.NewRows([]string{"id", "title", "slug", "description"}).AddRow(catsID, "Cats", "cats", ""))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM posts WHERE group_id = \$1`).
		WithArgs(catsID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))

	feed, err := svc.GroupFeed(context.Background(), "cats", "")
	if err != nil {
		t.Fatalf("group feed: %v", err)
	}
	if len(feed.Page.Posts) != 0 {
		t.Fatalf("expected the old group to be empty")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEditPostByStrangerChangesNothing(t *testing.T) {
	mock := newMock(t)
	expectLoadPost(mock, postID, alice, nil)

	post, err := NewService(mock, nil).EditPost(context.Background(), bob, postID, PostInput{Text: "hijacked"})
	if !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected not owner, got %v", err)
	}
	if post.Text != "original" || post.ID != postID {
		t.Fatalf("expected unchanged post, got %+v", post)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected statements: %v", err)
	}
}

func TestEditPostKeepsImage(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`WHERE p.id = \$1`).
		WithArgs(postID).
		WillReturnRows(pgxmock.NewRows(postColumns).
			AddRow(postID, "original", time.Now(), "posts/old.png", aliceID, "alice", "", nil, nil, nil))
	mock.ExpectExec(`UPDATE posts`).
		WithArgs(postID, "new text", pgxmock.AnyArg(), "posts/old.png", aliceID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	post, err := NewService(mock, nil).EditPost(context.Background(), alice, postID, PostInput{Text: "new text"})
	if err != nil {
		t.Fatalf("edit post: %v", err)
	}
	if post.Image != "posts/old.png" || post.Group != nil {
		t.Fatalf("unexpected post %+v", post)
	}
}

func TestAddComment(t *testing.T) {
	mock := newMock(t)
	svc := NewService(mock, nil)

	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM posts WHERE id = \$1\)`).
		WithArgs(postID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(`INSERT INTO comments`).
		WithArgs(pgxmock.AnyArg(), postID, bobID, "nice").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	comment, err := svc.AddComment(context.Background(), bob, postID, CommentInput{Text: "nice"})
	if err != nil {
		t.Fatalf("add comment: %v", err)
	}
	if comment.Author.Username != "bob" || comment.CreatedAt.IsZero() {
		t.Fatalf("unexpected comment %+v", comment)
	}

	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM posts WHERE id = \$1\)`).
		WithArgs(postID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	_, err = svc.AddComment(context.Background(), bob, postID, CommentInput{})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}

	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM posts WHERE id = \$1\)`).
		WithArgs(postID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	if _, err := svc.AddComment(context.Background(), bob, postID, CommentInput{Text: "x"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateGroup(t *testing.T) {
	mock := newMock(t)
	svc := NewService(mock, nil)

	mock.ExpectExec(`INSERT INTO groups`).
		WithArgs(pgxmock.AnyArg(), "Cats", "cats", "all about cats").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	group, err := svc.CreateGroup(context.Background(), GroupInput{Title: "Cats", Slug: "cats", Description: "all about cats"})
	if err != nil {
		t.Fatalf("create group: %v", err)
	}
	if group.ID == "" {
		t.Fatalf("expected group id")
	}

	mock.ExpectExec(`INSERT INTO groups`).
		WithArgs(pgxmock.AnyArg(), "Cats", "cats", "again").
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})
	_, err = svc.CreateGroup(context.Background(), GroupInput{Title: "Cats", Slug: "cats", Description: "again"})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Fields["slug"] == "" {
		t.Fatalf("expected duplicate slug error, got %v", err)
	}

	_, err = svc.CreateGroup(context.Background(), GroupInput{Title: "Bad", Slug: "has spaces", Description: "d"})
	if !errors.As(err, &verr) || verr.Fields["slug"] == "" {
		t.Fatalf("expected slug format error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{"text": "empty", "group": "bad"}}
	if err.Error() != "invalid input: group: bad; text: empty" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
