// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rbeach94/spark-dashboard-nest-87/internal/appcontext"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/sse"
)

// HeartbeatInterval keeps idle streams open through proxies.
var HeartbeatInterval = 30 * time.Second

// Events streams server-sent events to the signed-in browser tab.
func (h *Handlers) Events(c echo.Context) error {
	cc := appcontext.From(c)
	if cc == nil || cc.Session == nil || !cc.IsAuthenticated() {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}

	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set(echo.HeaderCacheControl, "no-cache")
	w.Header().Set(echo.HeaderConnection, "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	ch := h.hub.Register(cc.Session.SessionID, cc.UserID(), cc.IsAdmin())
	defer h.hub.Unregister(cc.Session.SessionID, cc.UserID(), ch)

	if _, err := w.Write([]byte(sse.FormatEvent("connected", "ok"))); err != nil {
		return nil
	}
	w.Flush()

	ticker := time.NewTicker(HeartbeatInterval)
	defer ticker.Stop()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := w.Write([]byte(sse.Heartbeat)); err != nil {
				return nil
			}
			w.Flush()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			if _, err := w.Write([]byte(msg)); err != nil {
				return nil
			}
			w.Flush()
		}
	}
}
