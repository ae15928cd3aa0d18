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

package daemon

import (
	stdcontext "context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/driftnote/driftnote/pkg/assert"
	"github.com/driftnote/driftnote/pkg/cli/context"
	"github.com/driftnote/driftnote/pkg/cli/remote"
	"github.com/driftnote/driftnote/pkg/cli/testutils"
)

func TestProbe(t *testing.T) {
	testCases := []struct {
		svc      remote.Service
		expected bool
	}{
		{
			svc:      remote.Null{},
			expected: false,
		},
		{
			svc:      testutils.NewMemoryRemote(),
			expected: true,
		},
	}

	for idx, tc := range testCases {
		ctx := context.InitTestCtx(t, tc.svc)
		got := probe(ctx)(stdcontext.Background())
		assert.Equal(t, got, tc.expected, fmt.Sprintf("test case %d", idx))
	}
}

func TestMetricsRoute(t *testing.T) {
	rem := testutils.NewMemoryRemote()
	ctx := context.InitTestCtx(t, rem)
	testutils.Login(t, ctx.DB, "user-1", "alice@example.com")

	reconcile(ctx)(stdcontext.Background(), "manual")

	ts := httptest.NewServer(newRouter(ctx))
	defer ts.Close()

	res, err := http.Get(ts.URL + "/metrics")
	assert.Nil(t, err, "requesting metrics")
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	assert.Nil(t, err, "reading body")

	assert.Equal(t, res.StatusCode, http.StatusOK, "status code mismatch")
	assert.Equal(t, strings.Contains(string(body), `driftnote_sync_cycles_total{status="success"} 1`), true, "cycle counter missing")
}
