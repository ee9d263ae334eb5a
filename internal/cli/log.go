package cli

import (
	"context"
	"fmt"

	"github.com/pichane/iquit-cli/internal/constants"
)

type LogCmd struct {
	Substance string   `short:"s" help:"Substance to log. Defaults to the tracked one."`
	Quantity  float64  `short:"q" help:"Quantity consumed." default:"1"`
	Unit      string   `short:"u" help:"Unit of measure. Defaults to the preferred one."`
	Cost      *float64 `short:"c" help:"Cost of this consumption. Defaults to the per-unit cost; zero is a valid cost."`
}

func (c *LogCmd) Validate() error {
	if c.Quantity <= 0 {
		return fmt.Errorf("quantity must be greater than zero")
	}
	if c.Cost != nil && *c.Cost < 0 {
		return fmt.Errorf("cost cannot be negative")
	}
	if c.Substance != "" {
		found := false
		for _, s := range constants.Substances {
			if s == c.Substance {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("unknown substance %q", c.Substance)
		}
	}
	return nil
}

func (c *LogCmd) Run(ctx *Context) error {
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
	unit := c.Unit
	if unit == "" {
		unit = prefs.UnitType
	}
	// A nil flag means unset; an explicit zero is a free consumption.
	cost := prefs.CostPerUnit * c.Quantity
	if c.Cost != nil {
		cost = *c.Cost
	}

	client := ctx.Consumption()
	if err := client.LogConsumption(context.Background(), substance, c.Quantity, unit, cost); err != nil {
		return err
	}

	count, _ := client.TodayCount(context.Background(), substance)
	fmt.Printf("Logged %.4g %s of %s. Today: %d.\n", c.Quantity, unit, substance, count)
	return nil
}

type TodayCmd struct {
	Substance string `short:"s" help:"Substance to report on. Defaults to the tracked one."`
}

func (c *TodayCmd) Run(ctx *Context) error {
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

	count, _ := ctx.Consumption().TodayCount(context.Background(), substance)
	fmt.Printf("%s today: %d\n", substance, count)
	return nil
}
