package api

import (
	"github.com/starford/herbscope/internal/herb"
	"github.com/starford/herbscope/internal/recommend"
)

// HerbListResponse wraps a filtered herb listing.
type HerbListResponse struct {
	Herbs []herb.Record `json:"herbs" validate:"required"`
	Total int           `json:"total" example:"30" validate:"required"`
}

// SymptomRequest is the body of the recommend and diagnose endpoints.
type SymptomRequest struct {
	Symptoms []string `json:"symptoms" example:"limb-convulsion,phlegm-rale"`
}

// SymptomListResponse lists the observation vocabulary.
type SymptomListResponse struct {
	Symptoms []recommend.Term `json:"symptoms" validate:"required"`
}

// SurfaceResponse is the interaction surface plus its peak and range.
type SurfaceResponse struct {
	HerbA  string       `json:"herb_a" example:"Shichangpu"`
	HerbB  string       `json:"herb_b" example:"Quanxie"`
	Model  string       `json:"model" example:"synergy"`
	Factor float64      `json:"factor" example:"1.05"`
	X      []float64    `json:"x"`
	Y      []float64    `json:"y"`
	Z      [][]float64  `json:"z"`
	Peak   SurfacePoint `json:"peak"`
	Range  [2]float64   `json:"range"`
}

// SurfacePoint is one grid sample.
type SurfacePoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}
