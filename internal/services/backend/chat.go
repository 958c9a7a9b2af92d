package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	apperrors "github.com/louisbranch/familyhub/internal/platform/errors"
	"github.com/louisbranch/familyhub/internal/services/shared/validate"
)

// ChatHistory returns the raw stored messages of a room. The chat client
// owns parsing since history and live frames share one message shape.
func (c *Client) ChatHistory(ctx context.Context, roomID string) (json.RawMessage, error) {
	roomID = strings.TrimSpace(roomID)
	if err := validate.Required(apperrors.CodeRoomRequired, "room", roomID); err != nil {
		return nil, err
	}
	var out json.RawMessage
	err := c.do(ctx, request{
		method: http.MethodGet,
		route:  "/chat/{roomId}",
		path:   "/chat/" + url.PathEscape(roomID),
		gated:  true,
	}, &out)
	return out, err
}
