package cron

import "context"

const CatalogRefreshJobName = "coupon_catalog_refresh"

type catalogRefresher interface {
	Refresh(ctx context.Context) error
}

// CatalogRefreshJob reloads the coupon catalog from its backend source.
type CatalogRefreshJob struct {
	catalog catalogRefresher
}

func NewCatalogRefreshJob(catalog catalogRefresher) *CatalogRefreshJob {
	return &CatalogRefreshJob{catalog: catalog}
}

func (j *CatalogRefreshJob) Name() string { return CatalogRefreshJobName }

func (j *CatalogRefreshJob) Run(ctx context.Context) error {
	return j.catalog.Refresh(ctx)
}
