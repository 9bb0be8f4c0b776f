package client

import (
	"context"
	"net/url"
	"strconv"

	"github.com/nostalgic/widgets/internal/domain"
)

// GetPage fetches one page of a board
func (c *Client) GetPage(ctx context.Context, id string, page int) (*domain.BoardSnapshot, error) {
	if page < 1 {
		page = 1
	}
	params := url.Values{}
	params.Set("id", id)
	params.Set("page", strconv.Itoa(page))

	var data domain.BBSPage
	if err := c.call(ctx, domain.KindBBS, "get", params, &data); err != nil {
		return nil, err
	}
	return data.ToSnapshot(page), nil
}

// Post creates a new message
func (c *Client) Post(ctx context.Context, id string, in domain.DraftInput) error {
	params := draftParams(id, in)
	return c.call(ctx, domain.KindBBS, "post", params, nil)
}

// Update edits a message. Ownership is checked server-side against the caller's
// identity stamp.
func (c *Client) Update(ctx context.Context, id, messageID string, in domain.DraftInput) error {
	params := draftParams(id, in)
	params.Set("messageId", messageID)
	return c.call(ctx, domain.KindBBS, "update", params, nil)
}

// Remove deletes a message
func (c *Client) Remove(ctx context.Context, id, messageID string) error {
	params := url.Values{}
	params.Set("id", id)
	params.Set("messageId", messageID)
	return c.call(ctx, domain.KindBBS, "remove", params, nil)
}

func draftParams(id string, in domain.DraftInput) url.Values {
	params := url.Values{}
	params.Set("id", id)
	params.Set("author", in.Author)
	params.Set("message", in.Body)
	if in.Aux.Standard != "" {
		params.Set("standardValue", in.Aux.Standard)
	}
	if in.Aux.Incremental != "" {
		params.Set("incrementalValue", in.Aux.Incremental)
	}
	if in.Aux.Emote != "" {
		params.Set("emoteValue", in.Aux.Emote)
	}
	return params
}
