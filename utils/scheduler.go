package utils

import (
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// StartScheduler runs job on the given cron spec until the returned cron is
// stopped.
func StartScheduler(name, spec string, job func()) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddFunc(spec, job); err != nil {
		return nil, err
	}
	c.Start()
	log.Info().Str("job", name).Str("schedule", spec).Msg("scheduler started")
	return c, nil
}
