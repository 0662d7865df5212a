package cases

import (
	"context"

	"github.com/ONSdigital/dp-covid-area-stats/fetcher"
)

//go:generate moq -out mock/fetcher.go -pkg mock . Fetcher

// Fetcher downloads a remote CSV document as a raw table
type Fetcher interface {
	GetCSV(ctx context.Context, url string, lenient bool) (*fetcher.Table, error)
}
