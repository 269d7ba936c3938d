package social

import (
	"time"

	"github.com/MendeIT/django-blog-project/internal/paginate"
)

type Group struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

// GroupRef is the part of a group embedded in every listed post.
type GroupRef struct {
	ID    string `json:"id"`
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

type Author struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
}

type Post struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	Image     string    `json:"image,omitempty"`
	Author    Author    `json:"author"`
	Group     *GroupRef `json:"group,omitempty"`
}

type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	Author    Author    `json:"author"`
}

// FeedPage is one page of a post listing, newest first.
type FeedPage struct {
	paginate.Page
	Posts []Post `json:"object_list"`
}

type GroupFeed struct {
	Group Group
	Page  FeedPage
}

type AuthorFeed struct {
	Author    Author
	Page      FeedPage
	PostCount int
	// Following is nil for anonymous viewers.
	Following *bool
}

type PostDetail struct {
	Post      Post
	PostCount int
	Comments  []Comment
}

type PostInput struct {
	Text    string `json:"text" form:"text" validate:"required"`
	GroupID string `json:"group" form:"group" validate:"omitempty,uuid"`
	Image   string `json:"image,omitempty" form:"-"`
}

type CommentInput struct {
	Text string `json:"text" form:"text" validate:"required"`
}

type GroupInput struct {
	Title       string `json:"title" form:"title" validate:"required,max=200"`
	Slug        string `json:"slug" form:"slug" validate:"required,max=50,slug"`
	Description string `json:"description" form:"description" validate:"required"`
}
