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
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AleutianAI/AleutianSudoku/services/solver/grid"
	"github.com/AleutianAI/AleutianSudoku/services/solver/storage/badger"
)

// ServiceVersion is the solver service version.
const ServiceVersion = "0.1.0"

// Handlers contains the HTTP handlers for the solver service.
type Handlers struct {
	svc *Service
}

// NewHandlers creates handlers for the given service.
func NewHandlers(svc *Service) *Handlers {
	return &Handlers{svc: svc}
}

// HandleSolve handles POST /v1/solver/solve.
//
// Description:
//
//	Runs the full deduction loop on the submitted grid and returns the
//	final grid with the ordered step trace.
//
// Request Body:
//
//	SolveRequest
//
// Response:
//
//	200 OK: SolveResponse
//	400 Bad Request: Malformed grid
//	504 Gateway Timeout: Solve exceeded the configured limit
//	500 Internal Server Error: Processing error
func (h *Handlers) HandleSolve(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleSolve")

	var req SolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	resp, err := h.svc.Solve(c.Request.Context(), req.Grid, req.Parallelism)
	if err != nil {
		statusCode := http.StatusInternalServerError
		errCode := "SOLVE_FAILED"

		if errors.Is(err, grid.ErrMalformedGrid) {
			statusCode = http.StatusBadRequest
			errCode = "INVALID_GRID"
		} else if errors.Is(err, ErrSolveTimeout) {
			statusCode = http.StatusGatewayTimeout
			errCode = "SOLVE_TIMEOUT"
		}

		if statusCode == http.StatusInternalServerError {
			logger.Error("Solve failed", "error", err)
		} else {
			logger.Warn("Solve rejected", "error", err)
		}
		c.JSON(statusCode, ErrorResponse{
			Error: err.Error(),
			Code:  errCode,
		})
		return
	}

	logger.Info("Solve complete",
		"status", resp.Status,
		"steps", len(resp.Steps),
		"passes", resp.Passes,
		"solve_time_ms", resp.SolveTimeMs)

	c.JSON(http.StatusOK, resp)
}

// HandleHint handles POST /v1/solver/hint.
//
// Description:
//
//	Returns the first step the strategy catalog finds on the submitted
//	grid, without applying it.
//
// Request Body:
//
//	HintRequest
//
// Response:
//
//	200 OK: HintResponse
//	400 Bad Request: Malformed grid
//	500 Internal Server Error: Processing error
func (h *Handlers) HandleHint(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleHint")

	var req HintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	resp, err := h.svc.Hint(c.Request.Context(), req.Grid)
	if err != nil {
		statusCode := http.StatusInternalServerError
		errCode := "HINT_FAILED"

		if errors.Is(err, grid.ErrMalformedGrid) {
			statusCode = http.StatusBadRequest
			errCode = "INVALID_GRID"
		}

		if statusCode == http.StatusInternalServerError {
			logger.Error("Hint failed", "error", err)
		} else {
			logger.Warn("Hint rejected", "error", err)
		}
		c.JSON(statusCode, ErrorResponse{
			Error: err.Error(),
			Code:  errCode,
		})
		return
	}

	logger.Info("Hint complete", "valid", resp.Valid, "found", resp.Found)

	c.JSON(http.StatusOK, resp)
}

// HandleValidate handles POST /v1/solver/validate.
//
// Description:
//
//	Reports validity and completeness of the submitted grid.
//
// Request Body:
//
//	ValidateRequest
//
// Response:
//
//	200 OK: ValidateResponse
//	400 Bad Request: Malformed grid
//	500 Internal Server Error: Processing error
func (h *Handlers) HandleValidate(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleValidate")

	var req ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	resp, err := h.svc.Validate(c.Request.Context(), req.Grid)
	if err != nil {
		statusCode := http.StatusInternalServerError
		errCode := "VALIDATE_FAILED"

		if errors.Is(err, grid.ErrMalformedGrid) {
			statusCode = http.StatusBadRequest
			errCode = "INVALID_GRID"
		}

		if statusCode == http.StatusInternalServerError {
			logger.Error("Validate failed", "error", err)
		} else {
			logger.Warn("Validate rejected", "error", err)
		}
		c.JSON(statusCode, ErrorResponse{
			Error: err.Error(),
			Code:  errCode,
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// HandleSavePuzzle handles POST /v1/solver/puzzles.
//
// Description:
//
//	Stores a new puzzle in the library and returns the stored record.
//
// Request Body:
//
//	SavePuzzleRequest
//
// Response:
//
//	201 Created: PuzzleResponse
//	400 Bad Request: Malformed grid or name
//	503 Service Unavailable: Puzzle store not configured
//	500 Internal Server Error: Store error
func (h *Handlers) HandleSavePuzzle(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleSavePuzzle")

	var req SavePuzzleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	p, err := h.svc.SavePuzzle(c.Request.Context(), req.Name, req.Grid)
	if err != nil {
		statusCode := http.StatusInternalServerError
		errCode := "SAVE_FAILED"

		if errors.Is(err, ErrStoreDisabled) {
			statusCode = http.StatusServiceUnavailable
			errCode = "STORE_NOT_CONFIGURED"
		} else if errors.Is(err, grid.ErrMalformedGrid) {
			statusCode = http.StatusBadRequest
			errCode = "INVALID_GRID"
		}

		if statusCode == http.StatusInternalServerError {
			logger.Error("Save puzzle failed", "error", err)
		} else {
			logger.Warn("Save puzzle rejected", "error", err)
		}
		c.JSON(statusCode, ErrorResponse{
			Error: err.Error(),
			Code:  errCode,
		})
		return
	}

	logger.Info("Saved puzzle", "puzzle_id", p.ID, "name", p.Name)

	c.JSON(http.StatusCreated, PuzzleResponse{Puzzle: *p})
}

// HandleGetPuzzle handles GET /v1/solver/puzzles/:id.
//
// Description:
//
//	Loads a stored puzzle, including any persisted solution and trace.
//
// Path Parameters:
//
//	id: Puzzle ID (required)
//
// Response:
//
//	200 OK: PuzzleResponse
//	404 Not Found: Puzzle not found
//	503 Service Unavailable: Puzzle store not configured
func (h *Handlers) HandleGetPuzzle(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleGetPuzzle")

	puzzleID := c.Param("id")
	if puzzleID == "" {
		logger.Warn("Missing puzzle id")
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "puzzle id is required",
			Code:  "MISSING_PARAMETER",
		})
		return
	}

	p, err := h.svc.GetPuzzle(c.Request.Context(), puzzleID)
	if err != nil {
		statusCode := http.StatusInternalServerError
		errCode := "GET_FAILED"

		if errors.Is(err, ErrStoreDisabled) {
			statusCode = http.StatusServiceUnavailable
			errCode = "STORE_NOT_CONFIGURED"
		} else if errors.Is(err, badger.ErrPuzzleNotFound) {
			statusCode = http.StatusNotFound
			errCode = "PUZZLE_NOT_FOUND"
		}

		if statusCode == http.StatusInternalServerError {
			logger.Error("Get puzzle failed", "error", err)
		} else {
			logger.Warn("Get puzzle rejected", "error", err)
		}
		c.JSON(statusCode, ErrorResponse{
			Error: err.Error(),
			Code:  errCode,
		})
		return
	}

	c.JSON(http.StatusOK, PuzzleResponse{Puzzle: *p})
}

// HandleListPuzzles handles GET /v1/solver/puzzles.
//
// Description:
//
//	Lists stored puzzle metadata, newest first.
//
// Response:
//
//	200 OK: ListPuzzlesResponse
//	503 Service Unavailable: Puzzle store not configured
func (h *Handlers) HandleListPuzzles(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleListPuzzles")

	metas, err := h.svc.ListPuzzles(c.Request.Context())
	if err != nil {
		statusCode := http.StatusInternalServerError
		errCode := "LIST_FAILED"

		if errors.Is(err, ErrStoreDisabled) {
			statusCode = http.StatusServiceUnavailable
			errCode = "STORE_NOT_CONFIGURED"
		}

		if statusCode == http.StatusInternalServerError {
			logger.Error("List puzzles failed", "error", err)
		} else {
			logger.Warn("List puzzles rejected", "error", err)
		}
		c.JSON(statusCode, ErrorResponse{
			Error: err.Error(),
			Code:  errCode,
		})
		return
	}

	c.JSON(http.StatusOK, ListPuzzlesResponse{Puzzles: metas, Count: len(metas)})
}

// HandleDeletePuzzle handles DELETE /v1/solver/puzzles/:id.
//
// Description:
//
//	Permanently deletes a stored puzzle by its ID.
//
// Path Parameters:
//
//	id: Puzzle ID (required)
//
// Response:
//
//	204 No Content: Successfully deleted
//	404 Not Found: Puzzle not found
//	503 Service Unavailable: Puzzle store not configured
func (h *Handlers) HandleDeletePuzzle(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleDeletePuzzle")

	puzzleID := c.Param("id")
	if puzzleID == "" {
		logger.Warn("Missing puzzle id")
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "puzzle id is required",
			Code:  "MISSING_PARAMETER",
		})
		return
	}

	err := h.svc.DeletePuzzle(c.Request.Context(), puzzleID)
	if err != nil {
		statusCode := http.StatusInternalServerError
		errCode := "DELETE_FAILED"

		if errors.Is(err, ErrStoreDisabled) {
			statusCode = http.StatusServiceUnavailable
			errCode = "STORE_NOT_CONFIGURED"
		} else if errors.Is(err, badger.ErrPuzzleNotFound) {
			statusCode = http.StatusNotFound
			errCode = "PUZZLE_NOT_FOUND"
		}

		if statusCode == http.StatusInternalServerError {
			logger.Error("Delete puzzle failed", "error", err)
		} else {
			logger.Warn("Delete puzzle rejected", "error", err)
		}
		c.JSON(statusCode, ErrorResponse{
			Error: err.Error(),
			Code:  errCode,
		})
		return
	}

	logger.Info("Deleted puzzle", "puzzle_id", puzzleID)

	c.Status(http.StatusNoContent)
}

// HandleSolvePuzzle handles POST /v1/solver/puzzles/:id/solve.
//
// Description:
//
//	Loads a stored puzzle, solves it, and (when configured) persists
//	the solution and step trace back to the record.
//
// Path Parameters:
//
//	id: Puzzle ID (required)
//
// Request Body:
//
//	SolveStoredRequest (optional)
//
// Response:
//
//	200 OK: SolvePuzzleResponse
//	404 Not Found: Puzzle not found
//	503 Service Unavailable: Puzzle store not configured
//	504 Gateway Timeout: Solve exceeded the configured limit
func (h *Handlers) HandleSolvePuzzle(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleSolvePuzzle")

	puzzleID := c.Param("id")
	if puzzleID == "" {
		logger.Warn("Missing puzzle id")
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "puzzle id is required",
			Code:  "MISSING_PARAMETER",
		})
		return
	}

	// Body is optional; an empty POST solves with service defaults.
	var req SolveStoredRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Warn("Invalid request body", "error", err)
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: "Invalid request body",
				Code:  "INVALID_REQUEST",
			})
			return
		}
	}

	resp, err := h.svc.SolvePuzzle(c.Request.Context(), puzzleID, req.Parallelism)
	if err != nil {
		statusCode := http.StatusInternalServerError
		errCode := "SOLVE_FAILED"

		if errors.Is(err, ErrStoreDisabled) {
			statusCode = http.StatusServiceUnavailable
			errCode = "STORE_NOT_CONFIGURED"
		} else if errors.Is(err, badger.ErrPuzzleNotFound) {
			statusCode = http.StatusNotFound
			errCode = "PUZZLE_NOT_FOUND"
		} else if errors.Is(err, ErrSolveTimeout) {
			statusCode = http.StatusGatewayTimeout
			errCode = "SOLVE_TIMEOUT"
		}

		if statusCode == http.StatusInternalServerError {
			logger.Error("Solve puzzle failed", "error", err)
		} else {
			logger.Warn("Solve puzzle rejected", "error", err)
		}
		c.JSON(statusCode, ErrorResponse{
			Error: err.Error(),
			Code:  errCode,
		})
		return
	}

	logger.Info("Solved stored puzzle",
		"puzzle_id", puzzleID,
		"status", resp.Status,
		"steps", len(resp.Steps))

	c.JSON(http.StatusOK, resp)
}

// HandleHealth handles GET /v1/solver/health.
//
// Response:
//
//	200 OK: HealthResponse
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "healthy",
		Version: ServiceVersion,
	})
}

// getOrCreateRequestID returns the request ID from the X-Request-ID
// header, generating one if absent, and echoes it on the response.
func getOrCreateRequestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Header("X-Request-ID", requestID)
	return requestID
}
