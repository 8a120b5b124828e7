// Copyright 2025 The GeoBel Authors
// SPDX-License-Identifier: Apache-2.0

// Package web exposes the resolution engine over HTTP: a one-shot geocoding
// endpoint and a batch endpoint that accepts a spreadsheet and returns the
// completed copy.
package web

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tvervier/geobel/batch"
	"github.com/tvervier/geobel/resolve"
)

type Server struct {
	resolver batch.RecordResolver
	store    resolve.CacheRepository
	options  *batch.Options
}

// NewServer wires the resolution engine into the HTTP surface. store may be
// nil when no persistent cache is configured; the stats endpoint then
// answers 404. options configures batch uploads (the Quiet flag is forced).
func NewServer(resolver batch.RecordResolver, store resolve.CacheRepository, options *batch.Options) *Server {
	if options == nil {
		options = &batch.Options{AddressColumn: "Adresse"}
	}

	options.Quiet = true

	return &Server{
		resolver: resolver,
		store:    store,
		options:  options,
	}
}

func (s *Server) Run(addr string) error {
	r := gin.Default()
	s.registerRoutes(r)

	return r.Run(addr)
}

func (s *Server) registerRoutes(r *gin.Engine) {
	r.GET("/health", s.health)
	r.POST("/api/geocode", s.geocodeOne)
	r.POST("/api/batch", s.geocodeBatch)
	r.GET("/api/cache/stats", s.cacheStats)
}

func (s *Server) health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type GeocodeRequest struct {
	Address string `json:"adresse"`
	Company string `json:"entreprise"`
}

func (s *Server) geocodeOne(ctx *gin.Context) {
	var req GeocodeRequest
	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	if req.Address == "" && req.Company == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "le champ 'adresse' est requis"})

		return
	}

	// An address nothing could resolve is still a 200: the outcome is in
	// the source field, not the status code.
	ctx.JSON(http.StatusOK, s.resolver.ResolveRecord(req.Address, req.Company))
}

type BatchResponse struct {
	Rows     int `json:"lignes"`
	Geocoded int `json:"resolues"`
	Failures int `json:"echecs"`
}

func (s *Server) geocodeBatch(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("fichier")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "le fichier 'fichier' est requis"})

		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}
	defer f.Close()

	wb, err := batch.ReadWorkbook(f)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	options := *s.options
	if col := ctx.PostForm("colonne_adresse"); col != "" {
		options.AddressColumn = col
	}

	if col := ctx.PostForm("colonne_entreprise"); col != "" {
		options.CompanyColumn = col
	}

	processor := batch.NewProcessor(s.resolver, &options)

	result, err := processor.Process(ctx.Request.Context(), wb)
	if err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})

		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "geocode_"+fileHeader.Filename))
	ctx.Header("X-Geocode-Rows", fmt.Sprintf("%d", result.Metrics.Rows))
	ctx.Header("X-Geocode-Resolved", fmt.Sprintf("%d", result.Metrics.Geocoded))
	ctx.Header("X-Geocode-Failures", fmt.Sprintf("%d", result.Metrics.Failures))
	ctx.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Status(http.StatusOK)

	if err := result.File.Write(ctx.Writer); err != nil {
		// Headers are already out; all we can do is log through gin's
		// error list.
		_ = ctx.Error(err)
	}
}

func (s *Server) cacheStats(ctx *gin.Context) {
	if s.store == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "aucun cache persistant configuré"})

		return
	}

	stats, err := s.store.Stats()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	ctx.JSON(http.StatusOK, stats)
}
