package social

import (
	"errors"
	"mime/multipart"

	"github.com/MendeIT/django-blog-project/internal/auth"
	"github.com/MendeIT/django-blog-project/internal/paginate"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// ImageSaver stores an uploaded post image and returns its relative path.
// Delete removes a stored image again when its form is rejected.
type ImageSaver interface {
	SaveImage(fh *multipart.FileHeader) (string, error)
	Delete(path string) error
}

// RegisterRoutes mounts the blog pages. requireLogin guards every action
// that needs a signed-in user; indexCache wraps the global feed only.
func RegisterRoutes(r fiber.Router, svc *Service, images ImageSaver, requireLogin, indexCache fiber.Handler) {
	r.Get("/", indexCache, func(c *fiber.Ctx) error {
		page, err := svc.GlobalFeed(c.Context(), c.Query("page"))
		if err != nil {
			return httpError(err)
		}
		return c.JSON(fiber.Map{"page_obj": page})
	})

	r.Get("/group/:slug", func(c *fiber.Ctx) error {
		feed, err := svc.GroupFeed(c.Context(), c.Params("slug"), c.Query("page"))
		if err != nil {
			return httpError(err)
		}
		return c.JSON(fiber.Map{"group": feed.Group, "page_obj": feed.Page})
	})

	r.Get("/profile/:username", func(c *fiber.Ctx) error {
		feed, err := svc.AuthorFeed(c.Context(), c.Params("username"), auth.Viewer(c), c.Query("page"))
		if err != nil {
			return httpError(err)
		}
		body := fiber.Map{
			"author":     feed.Author,
			"page_obj":   feed.Page,
			"post_count": feed.PostCount,
		}
		if feed.Following != nil {
			body["following"] = *feed.Following
		}
		return c.JSON(body)
	})

	r.Get("/posts/:id", func(c *fiber.Ctx) error {
		detail, err := svc.GetPost(c.Context(), c.Params("id"))
		if err != nil {
			return httpError(err)
		}
		return c.JSON(fiber.Map{
			"post":       detail.Post,
			"post_count": detail.PostCount,
			"comments":   detail.Comments,
			"form":       CommentInput{},
		})
	})

	r.Get("/create", requireLogin, func(c *fiber.Ctx) error {
		return renderPostForm(c, svc, PostInput{}, nil, nil)
	})

	r.Post("/create", requireLogin, func(c *fiber.Ctx) error {
		actor, _ := auth.CurrentIdentity(c)
		input, verr := parsePostForm(c, images)
		if verr != nil {
			return renderPostForm(c, svc, input, verr, nil)
		}

		_, err := svc.CreatePost(c.Context(), actor, input)
		if err != nil {
			input = discardImage(images, input)
		}
		if errors.As(err, &verr) {
			return renderPostForm(c, svc, input, verr, nil)
		}
		if err != nil {
			return httpError(err)
		}
		return c.Redirect(profilePath(actor.Username), fiber.StatusFound)
	})

	r.Get("/posts/:id/edit", requireLogin, func(c *fiber.Ctx) error {
		actor, _ := auth.CurrentIdentity(c)
		post, err := svc.PostForEdit(c.Context(), actor, c.Params("id"))
		if errors.Is(err, ErrNotOwner) {
			return c.Redirect(postPath(post.ID), fiber.StatusFound)
		}
		if err != nil {
			return httpError(err)
		}
		return renderPostForm(c, svc, formFromPost(post), nil, &post)
	})

	r.Post("/posts/:id/edit", requireLogin, func(c *fiber.Ctx) error {
		actor, _ := auth.CurrentIdentity(c)
		post, err := svc.PostForEdit(c.Context(), actor, c.Params("id"))
		if errors.Is(err, ErrNotOwner) {
			return c.Redirect(postPath(post.ID), fiber.StatusFound)
		}
		if err != nil {
			return httpError(err)
		}

		input, verr := parsePostForm(c, images)
		if verr != nil {
			return renderPostForm(c, svc, input, verr, &post)
		}

		post, err = svc.EditPost(c.Context(), actor, post.ID, input)
		if err != nil {
			input = discardImage(images, input)
		}
		switch {
		case errors.Is(err, ErrNotOwner):
			return c.Redirect(postPath(post.ID), fiber.StatusFound)
		case errors.As(err, &verr):
			return renderPostForm(c, svc, input, verr, &post)
		case err != nil:
			return httpError(err)
		}
		return c.Redirect(postPath(post.ID), fiber.StatusFound)
	})

	r.Post("/posts/:id/comment", requireLogin, func(c *fiber.Ctx) error {
		actor, _ := auth.CurrentIdentity(c)
		var input CommentInput
		_ = c.BodyParser(&input)

		postID := c.Params("id")
		_, err := svc.AddComment(c.Context(), actor, postID, input)
		var verr *ValidationError
		if err != nil && !errors.As(err, &verr) {
			return httpError(err)
		}
		// An invalid comment is dropped and the reader lands back on the post.
		return c.Redirect(postPath(postID), fiber.StatusFound)
	})

	r.Get("/follow", requireLogin, func(c *fiber.Ctx) error {
		actor, _ := auth.CurrentIdentity(c)
		page, err := svc.FollowFeed(c.Context(), actor, c.Query("page"))
		if err != nil {
			return httpError(err)
		}
		return c.JSON(fiber.Map{"page_obj": page})
	})

	r.Get("/profile/:username/follow", requireLogin, func(c *fiber.Ctx) error {
		actor, _ := auth.CurrentIdentity(c)
		username := c.Params("username")
		if err := svc.Follow(c.Context(), actor, username); err != nil {
			return httpError(err)
		}
		return c.Redirect(profilePath(username), fiber.StatusFound)
	})

	r.Get("/profile/:username/unfollow", requireLogin, func(c *fiber.Ctx) error {
		actor, _ := auth.CurrentIdentity(c)
		username := c.Params("username")
		if err := svc.Unfollow(c.Context(), actor, username); err != nil {
			return httpError(err)
		}
		return c.Redirect(profilePath(username), fiber.StatusFound)
	})

	r.Get("/groups", func(c *fiber.Ctx) error {
		groups, err := svc.ListGroups(c.Context())
		if err != nil {
			return httpError(err)
		}
		page := paginate.New(len(groups), c.Query("page"))
		return c.JSON(fiber.Map{"page_obj": fiber.Map{
			"number":       page.Number,
			"num_pages":    page.NumPages,
			"count":        page.Count,
			"has_next":     page.HasNext,
			"has_previous": page.HasPrevious,
			"object_list":  paginate.Slice(groups, page),
		}})
	})

	r.Post("/groups", requireLogin, func(c *fiber.Ctx) error {
		var input GroupInput
		_ = c.BodyParser(&input)

		group, err := svc.CreateGroup(c.Context(), input)
		var verr *ValidationError
		if errors.As(err, &verr) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"form": input, "errors": verr.Fields})
		}
		if err != nil {
			return httpError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(group)
	})
}

// parsePostForm reads text and group from any supported body encoding and
// stores an uploaded image when the request is multipart.
func parsePostForm(c *fiber.Ctx, images ImageSaver) (PostInput, *ValidationError) {
	var input PostInput
	_ = c.BodyParser(&input)
	input.Image = ""

	form, err := c.MultipartForm()
	if err != nil || images == nil {
		return input, nil
	}
	files := form.File["image"]
	if len(files) == 0 {
		return input, nil
	}
	path, err := images.SaveImage(files[0])
	if err != nil {
		return input, newValidationError("image", err.Error())
	}
	input.Image = path
	return input, nil
}

// discardImage removes an image saved for a form that was not stored.
func discardImage(images ImageSaver, input PostInput) PostInput {
	if input.Image == "" || images == nil {
		return input
	}
	if err := images.Delete(input.Image); err != nil {
		log.Warn().Err(err).Str("image", input.Image).Msg("remove rejected upload")
	}
	input.Image = ""
	return input
}

// renderPostForm answers with the form state the page would be drawn
// from: the submitted values, per-field errors and the group choices.
func renderPostForm(c *fiber.Ctx, svc *Service, input PostInput, verr *ValidationError, post *Post) error {
	groups, err := svc.ListGroups(c.Context())
	if err != nil {
		return httpError(err)
	}
	body := fiber.Map{"form": input, "groups": groups}
	if verr != nil {
		body["errors"] = verr.Fields
	}
	if post != nil {
		body["post"] = post
		body["is_edit"] = true
	}
	return c.JSON(body)
}

func formFromPost(p Post) PostInput {
	input := PostInput{Text: p.Text, Image: p.Image}
	if p.Group != nil {
		input.GroupID = p.Group.ID
	}
	return input
}

func httpError(err error) error {
	if errors.Is(err, ErrNotFound) {
		return fiber.ErrNotFound
	}
	return fiber.NewError(fiber.StatusInternalServerError, err.Error())
}

func profilePath(username string) string {
	return "/profile/" + username + "/"
}

func postPath(id string) string {
	return "/posts/" + id + "/"
}
