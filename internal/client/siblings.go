package client

import (
	"context"
	"net/url"
	"strconv"

	"github.com/nostalgic/widgets/internal/domain"
)

func idParams(id string) url.Values {
	params := url.Values{}
	params.Set("id", id)
	return params
}

// IncrementCounter counts one visit and returns the updated stats
func (c *Client) IncrementCounter(ctx context.Context, id string) (*domain.CounterStats, error) {
	var stats domain.CounterStats
	if err := c.call(ctx, domain.KindCounter, "increment", idParams(id), &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// CounterStats returns the stats without counting a visit
func (c *Client) CounterStats(ctx context.Context, id string) (*domain.CounterStats, error) {
	params := idParams(id)
	params.Set("format", domain.FormatJSON)
	var stats domain.CounterStats
	if err := c.call(ctx, domain.KindCounter, "display", params, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// CounterImageURL returns the URL of the server-rendered counter image
func (c *Client) CounterImageURL(id, counterType, theme string, digits int) string {
	params := idParams(id)
	params.Set("type", counterType)
	params.Set("format", domain.FormatImage)
	if theme != "" {
		params.Set("theme", theme)
	}
	if digits > 0 {
		params.Set("digits", strconv.Itoa(digits))
	}
	return c.URL(domain.KindCounter, "display", params)
}

// GetLike returns the like state for the calling visitor
func (c *Client) GetLike(ctx context.Context, id string) (*domain.LikeState, error) {
	var state domain.LikeState
	if err := c.call(ctx, domain.KindLike, "get", idParams(id), &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// ToggleLike flips the calling visitor's like
func (c *Client) ToggleLike(ctx context.Context, id string) (*domain.LikeState, error) {
	var state domain.LikeState
	if err := c.call(ctx, domain.KindLike, "toggle", idParams(id), &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// GetRanking returns the top entries of a ranking board
func (c *Client) GetRanking(ctx context.Context, id string, limit int) (*domain.RankingBoard, error) {
	params := idParams(id)
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	var board domain.RankingBoard
	if err := c.call(ctx, domain.KindRanking, "get", params, &board); err != nil {
		return nil, err
	}
	return &board, nil
}

// GetYokoso returns the welcome message
func (c *Client) GetYokoso(ctx context.Context, id string) (*domain.YokosoMessage, error) {
	var msg domain.YokosoMessage
	if err := c.call(ctx, domain.KindYokoso, "get", idParams(id), &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
