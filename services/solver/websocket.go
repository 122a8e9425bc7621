// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package solver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/AleutianAI/AleutianSudoku/services/solver/strategy"
)

// SolveStreamRequest is a solve request sent over the websocket.
type SolveStreamRequest struct {
	Grid        string `json:"grid"`
	Parallelism int    `json:"parallelism,omitempty"`
}

// SolveStreamMessage is a message sent to the websocket client.
//
// Type is one of "ready", "step", "result", or "error". Pass and Step
// are set on "step" messages, Result on "result" messages, and Error
// on "error" messages.
type SolveStreamMessage struct {
	Type   string         `json:"type"`
	Pass   int            `json:"pass,omitempty"`
	Step   *StepInfo      `json:"step,omitempty"`
	Result *SolveResponse `json:"result,omitempty"`
	Error  string         `json:"error,omitempty"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  4 * 1024,
	WriteBufferSize: 4 * 1024,
}

func sendJSON(ws *websocket.Conn, v interface{}) error {
	err := ws.WriteJSON(v)
	if err != nil {
		slog.Warn("Failed to write WebSocket JSON", "error", err)
	}
	return err
}

// HandleSolveStream handles GET /v1/solver/solve/ws.
//
// Description:
//
//	Upgrades the connection to a websocket and solves grids sent by the
//	client, streaming each step as it is applied. The server sends a
//	"ready" message on connect, then for each SolveStreamRequest it
//	sends zero or more "step" messages followed by a single "result"
//	or "error" message. The connection stays open for further requests.
func (h *Handlers) HandleSolveStream(c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Error("failed to upgrade the websocket", "error", err)
		return
	}
	defer ws.Close()
	slog.Info("Websocket client connected", "remote", c.ClientIP())

	if err := sendJSON(ws, SolveStreamMessage{Type: "ready"}); err != nil {
		return // Close if we can't even send the first message
	}

	for {
		var req SolveStreamRequest
		if err := ws.ReadJSON(&req); err != nil {
			slog.Info("Websocket client disconnected", "error", err.Error())
			break
		}

		ctx, cancel := context.WithCancel(c.Request.Context())

		// The hook runs synchronously in this goroutine, so peerGone
		// and the writes below cannot race.
		peerGone := false
		onStep := func(pass int, step strategy.Step) {
			info := newStepInfo(step)
			if err := sendJSON(ws, SolveStreamMessage{
				Type: "step",
				Pass: pass,
				Step: &info,
			}); err != nil {
				peerGone = true
				cancel() // Peer is gone; stop the solve.
			}
		}

		resp, err := h.svc.StreamSolve(ctx, req.Grid, req.Parallelism, onStep)
		cancel()
		if peerGone {
			return
		}
		if err != nil {
			if sendErr := sendJSON(ws, SolveStreamMessage{
				Type:  "error",
				Error: err.Error(),
			}); sendErr != nil {
				return
			}
			continue
		}

		slog.Info("Streamed solve complete",
			"status", resp.Status,
			"steps", len(resp.Steps),
			"passes", resp.Passes)

		if err := sendJSON(ws, SolveStreamMessage{Type: "result", Result: resp}); err != nil {
			return
		}
	}
}
