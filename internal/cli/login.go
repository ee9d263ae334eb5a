package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/pichane/iquit-cli/internal/logger"
)

type LoginCmd struct {
	Email    string `arg:"" optional:"" help:"Account email address."`
	Password string `short:"p" help:"Account password. Prompted when omitted."`
	Signup   bool   `help:"Create a new account instead of logging in."`
}

func (c *LoginCmd) Run(ctx *Context) error {
	if c.Email == "" {
		if err := huh.NewInput().
			Title("Email").
			Value(&c.Email).
			Run(); err != nil {
			return err
		}
	}
	if c.Password == "" {
		if err := huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&c.Password).
			Run(); err != nil {
			return err
		}
	}

	var (
		debug bool
		err   error
	)
	if c.Signup {
		debug, err = ctx.Session.Auth.Signup(context.Background(), c.Email, c.Password)
	} else {
		debug, err = ctx.Session.Auth.Login(context.Background(), c.Email, c.Password)
	}
	if err != nil {
		return err
	}

	logger.Info("logged in", "email", c.Email, "debug", debug)
	if debug {
		fmt.Println("Logged in (debug session, no data leaves this machine).")
	} else {
		fmt.Printf("Logged in as %s.\n", c.Email)
	}
	return nil
}

type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx *Context) error {
	if !ctx.Session.Auth.IsLoggedIn() {
		fmt.Println("Not logged in.")
		return nil
	}
	ctx.Session.Logout(context.Background())
	fmt.Println("Logged out.")
	return nil
}
