package cli

import (
	"context"
	"fmt"
	"time"
)

type StatsCmd struct {
	Substance string `short:"s" help:"Substance to report on. Defaults to the tracked one."`
}

func (c *StatsCmd) Run(ctx *Context) error {
	if err := ctx.RequireLogin(); err != nil {
		return err
	}
	prefs, err := ctx.Prefs()
	if err != nil {
		return err
	}

	substance := c.Substance
	if substance == "" {
		substance = prefs.TargetSubstance
	}

	client := ctx.Consumption()
	today, _ := client.TodayCount(context.Background(), substance)
	weekly, _ := client.WeeklyStats(context.Background(), substance)

	fmt.Printf("Stats for %s\n", substance)
	fmt.Printf("  Today:            %d\n", today)
	fmt.Printf("  Weekly average:   %.2f/day\n", weekly.Current)
	fmt.Printf("  Previous week:    %.2f/day\n", weekly.Previous)

	if prefs.QuitDate != nil {
		days := int(time.Since(*prefs.QuitDate).Hours() / 24)
		if days > 0 {
			fmt.Printf("  Days since quit:  %d\n", days)
		}
	}
	if delta := weekly.Previous - weekly.Current; delta > 0 {
		fmt.Printf("  Saved this week:  %.2f\n", delta*prefs.CostPerUnit*7)
	}
	return nil
}
