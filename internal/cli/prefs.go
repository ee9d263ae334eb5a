package cli

import (
	"fmt"

	"github.com/charmbracelet/huh"
)

type PrefsCmd struct {
	Show  PrefsShowCmd  `cmd:"" help:"Show current preferences." default:"1"`
	Reset PrefsResetCmd `cmd:"" help:"Reset onboarding and clear preferences."`
}

type PrefsShowCmd struct{}

func (c *PrefsShowCmd) Run(ctx *Context) error {
	if err := ctx.RequireLogin(); err != nil {
		return err
	}
	prefs, err := ctx.Prefs()
	if err != nil {
		return err
	}

	fmt.Printf("Email:          %s\n", prefs.Email)
	fmt.Printf("Substance:      %s\n", prefs.TargetSubstance)
	fmt.Printf("Daily goal:     %.4g %s\n", prefs.DailyGoal, prefs.UnitType)
	fmt.Printf("Cost per unit:  %.2f\n", prefs.CostPerUnit)
	if prefs.QuitDate != nil {
		fmt.Printf("Quit date:      %s\n", prefs.QuitDate.Format("2006-01-02"))
	} else {
		fmt.Printf("Quit date:      (not set)\n")
	}
	fmt.Printf("Language:       %s\n", prefs.Language)
	fmt.Printf("Notifications:  %t\n", prefs.NotificationsEnabled)
	if prefs.IsDebugMode {
		fmt.Println("Mode:           debug")
	}
	return nil
}

type PrefsResetCmd struct {
	Force bool `short:"f" help:"Skip the confirmation prompt."`
}

func (c *PrefsResetCmd) Run(ctx *Context) error {
	if err := ctx.RequireLogin(); err != nil {
		return err
	}

	if !c.Force {
		confirmed := false
		if err := huh.NewConfirm().
			Title("Reset onboarding?").
			Description("Preferences will be cleared and onboarding will run again on next launch.").
			Value(&confirmed).
			Run(); err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	if err := ctx.Session.ResetOnboarding(); err != nil {
		return err
	}
	fmt.Println("Onboarding reset.")
	return nil
}
