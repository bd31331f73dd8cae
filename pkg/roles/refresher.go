package roles

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Refresher keeps a catalog warm by reading it on a cron schedule, so
// interactive checks rarely pay the refetch latency after a TTL expiry. It is
// optional: the catalog is correct without it, just colder.
type Refresher struct {
	catalog *Catalog
	cron    *cron.Cron
	log     *logrus.Logger
}

// NewRefresher schedules a catalog read on the given cron expression
// (for example "@every 2m"). The schedule should be shorter than the catalog
// TTL to be useful.
func NewRefresher(catalog *Catalog, schedule string, log *logrus.Logger) (*Refresher, error) {
	if log == nil {
		log = logrus.New()
	}

	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		if got := catalog.Roles(context.Background()); len(got) == 0 {
			log.Debug("Scheduled role catalog refresh returned no roles")
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to schedule role catalog refresh: %w", err)
	}

	return &Refresher{catalog: catalog, cron: c, log: log}, nil
}

// Start begins the refresh schedule.
func (r *Refresher) Start() {
	r.cron.Start()
}

// Stop halts the schedule and waits for an in-flight refresh to finish.
func (r *Refresher) Stop() {
	<-r.cron.Stop().Done()
}
