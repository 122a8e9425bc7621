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
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all solver routes with the router.
//
// Description:
//
//	Registers all /v1/solver/* endpoints with the given Gin router group.
//	The router group should already have any required middleware applied.
//
// Inputs:
//
//	rg - Gin router group (typically /v1)
//	handlers - The handlers instance
//
// Solve Endpoints:
//
//	POST /v1/solver/solve - Solve a grid and return the step trace
//	GET  /v1/solver/solve/ws - Solve over a websocket, streaming steps
//	POST /v1/solver/hint - Find the next step without applying it
//	POST /v1/solver/validate - Check grid validity and completeness
//
// Puzzle Library Endpoints:
//
//	GET    /v1/solver/puzzles - List stored puzzles
//	POST   /v1/solver/puzzles - Store a new puzzle
//	GET    /v1/solver/puzzles/:id - Get a stored puzzle
//	DELETE /v1/solver/puzzles/:id - Delete a stored puzzle
//	POST   /v1/solver/puzzles/:id/solve - Solve a stored puzzle
//
// Health Endpoints:
//
//	GET /v1/solver/health - Health check
//
// Example:
//
//	service := solver.NewService(solver.DefaultServiceConfig())
//	handlers := solver.NewHandlers(service)
//
//	v1 := router.Group("/v1")
//	solver.RegisterRoutes(v1, handlers)
func RegisterRoutes(rg *gin.RouterGroup, handlers *Handlers) {
	solverGroup := rg.Group("/solver")
	{
		// Solving
		solverGroup.POST("/solve", handlers.HandleSolve)
		solverGroup.GET("/solve/ws", handlers.HandleSolveStream)
		solverGroup.POST("/hint", handlers.HandleHint)
		solverGroup.POST("/validate", handlers.HandleValidate)

		// Puzzle library
		puzzles := solverGroup.Group("/puzzles")
		{
			puzzles.GET("", handlers.HandleListPuzzles)
			puzzles.POST("", handlers.HandleSavePuzzle)
			puzzles.GET("/:id", handlers.HandleGetPuzzle)
			puzzles.DELETE("/:id", handlers.HandleDeletePuzzle)
			puzzles.POST("/:id/solve", handlers.HandleSolvePuzzle)
		}

		// Health check
		solverGroup.GET("/health", handlers.HandleHealth)
	}
}
