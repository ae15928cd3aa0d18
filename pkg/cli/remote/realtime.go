/* Copyright (C) 2024, 2025 Driftnote contributors
 *
 * This file is part of Driftnote.
 *
 * Driftnote is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * Driftnote is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with Driftnote.  If not, see <https://www.gnu.org/licenses/>.
 */

package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/driftnote/driftnote/pkg/cli/log"
	"github.com/pkg/errors"
)

// realtimeReadLimit bounds the size of a single change message
const realtimeReadLimit = 1 << 20

func (h *HTTP) realtimeURL(collection, id string) (string, error) {
	u, err := url.Parse(h.endpoint(fmt.Sprintf("/realtime/v1/%s/%s", collection, url.PathEscape(id))))
	if err != nil {
		return "", errors.Wrap(err, "parsing the remote url")
	}

	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}

	return u.String(), nil
}

// Subscribe streams changes to the row with the given id. The channel is
// closed when ctx is done or the connection drops.
func (h *HTTP) Subscribe(ctx context.Context, collection, id string) (<-chan Change, error) {
	endpoint, err := h.realtimeURL(collection, id)
	if err != nil {
		return nil, err
	}

	header := http.Header{}
	header.Set("apikey", h.creds.Key)
	if tok := h.token(); tok != "" {
		header.Set("Authorization", "Bearer "+tok)
	}

	conn, res, err := websocket.Dial(ctx, endpoint, &websocket.DialOptions{HTTPHeader: header})
	if err != nil {
		if res != nil && res.StatusCode == http.StatusUnauthorized {
			return nil, errors.Wrap(ErrUnauthenticated, "subscribing")
		}
		return nil, errors.Wrapf(err, "subscribing to %s %s", collection, id)
	}
	conn.SetReadLimit(realtimeReadLimit)

	ch := make(chan Change)
	go func() {
		defer close(ch)
		defer conn.Close(websocket.StatusNormalClosure, "")

		for {
			var c Change
			if err := wsjson.Read(ctx, conn, &c); err != nil {
				if ctx.Err() == nil && !isNormalClosure(err) {
					log.Debug("realtime subscription ended: %s\n", err.Error())
				}
				return
			}

			select {
			case ch <- c:
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch, nil
}

func isNormalClosure(err error) bool {
	status := websocket.CloseStatus(err)
	if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
		return true
	}

	return strings.Contains(err.Error(), "EOF")
}
