package apiclient

import "context"

// GetAs is Get returning a typed value. An empty success body yields the zero T.
func GetAs[T any](ctx context.Context, c *Client, path string) (T, error) {
	var out T
	err := c.Get(ctx, path, &out)
	return out, err
}

func PostAs[T any](ctx context.Context, c *Client, path string, in any) (T, error) {
	var out T
	err := c.Post(ctx, path, in, &out)
	return out, err
}

func PutAs[T any](ctx context.Context, c *Client, path string, in any) (T, error) {
	var out T
	err := c.Put(ctx, path, in, &out)
	return out, err
}

func PatchAs[T any](ctx context.Context, c *Client, path string, in any) (T, error) {
	var out T
	err := c.Patch(ctx, path, in, &out)
	return out, err
}

func DeleteAs[T any](ctx context.Context, c *Client, path string) (T, error) {
	var out T
	err := c.Delete(ctx, path, &out)
	return out, err
}

func UploadAs[T any](ctx context.Context, c *Client, path string, form *Form) (T, error) {
	var out T
	err := c.Upload(ctx, path, form, &out)
	return out, err
}

func UploadPatchAs[T any](ctx context.Context, c *Client, path string, form *Form) (T, error) {
	var out T
	err := c.UploadPatch(ctx, path, form, &out)
	return out, err
}
