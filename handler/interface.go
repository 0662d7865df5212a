package handler

import (
	"context"

	"github.com/ONSdigital/dp-covid-area-stats/cases"
)

//go:generate moq -out mock/cases_provider.go -pkg mock . CasesProvider

// CasesProvider returns the unified UK cases dataset
type CasesProvider interface {
	CasesData(ctx context.Context, opts cases.Options) (*cases.Matrix, error)
}
