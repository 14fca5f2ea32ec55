package clinicapi

import (
	"context"
	"time"

	"github.com/jrsteele09/clinic-console/clinicmodel"
	"golang.org/x/sync/errgroup"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Dashboard is the landing view: headline statistics, the day's schedule and
// the most recently listed patients.
type Dashboard struct {
	Stats             clinicmodel.Stats
	TodayAppointments clinicmodel.AppointmentsResponse
	RecentPatients    clinicmodel.PatientsResponse
}

// Dashboard loads the three dashboard panels concurrently. The first failure
// cancels the others.
func (c *Client) Dashboard(ctx context.Context) (Dashboard, error) {
	var out Dashboard
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		stats, err := c.LatestStats(ctx)
		out.Stats = stats
		return err
	})
	g.Go(func() error {
		today := NowTimeFunc().Format(time.DateOnly)
		appts, err := c.AppointmentsByDate(ctx, today, ListOptions{Limit: 20})
		out.TodayAppointments = appts
		return err
	})
	g.Go(func() error {
		patients, err := c.Patients(ctx, ListOptions{Limit: 5}, "")
		out.RecentPatients = patients
		return err
	})

	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}
	return out, nil
}
