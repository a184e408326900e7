package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"bookbuddy/pkg/domain"
)

// ListBlogs returns all blog posts.
func (c *Client) ListBlogs(ctx context.Context) ([]domain.Blog, error) {
	var blogs []domain.Blog
	if err := c.get(ctx, "/blog", nil, &blogs); err != nil {
		return nil, err
	}
	return blogs, nil
}

// BlogDetails returns one blog post.
func (c *Client) BlogDetails(ctx context.Context, id string) (domain.Blog, error) {
	var blog domain.Blog
	if err := c.get(ctx, "/blog/"+url.PathEscape(id), nil, &blog); err != nil {
		return domain.Blog{}, err
	}
	return blog, nil
}

// CreateBlog posts a new blog entry; the optional image travels under the
// "file" part.
func (c *Client) CreateBlog(ctx context.Context, title, description string, image *FormFile) (domain.Blog, error) {
	fields := map[string]string{
		"title":       title,
		"description": description,
	}
	var files []FormFile
	if image != nil {
		img := *image
		img.Field = "file"
		files = append(files, img)
	}

	var blog domain.Blog
	if err := c.doMultipart(ctx, http.MethodPost, "/blog", fields, files, &blog); err != nil {
		return domain.Blog{}, err
	}
	return blog, nil
}
