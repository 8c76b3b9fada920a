package controllers

import (
	"github.com/KienPC1234/TerraSync-sub000/ingest"
	"github.com/KienPC1234/TerraSync-sub000/query"
	"github.com/KienPC1234/TerraSync-sub000/store"
)

// API bundles the handlers' dependencies. The store handle is
// constructed at startup and passed in; handlers never reach for
// globals.
type API struct {
	pipeline *ingest.Pipeline
	queries  *query.Service
	store    *store.Store
}

func NewAPI(pipeline *ingest.Pipeline, queries *query.Service, st *store.Store) *API {
	return &API{pipeline: pipeline, queries: queries, store: st}
}
