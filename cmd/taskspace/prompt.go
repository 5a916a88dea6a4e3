package main

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/nhle/taskspace/internal/tree"
)

// promptPassword asks for a password on the terminal. With confirm set the
// user must type it twice.
func promptPassword(title string, confirm bool) (string, error) {
	var pw, again string

	fields := []huh.Field{
		huh.NewInput().
			Title(title).
			EchoMode(huh.EchoModePassword).
			Value(&pw).
			Validate(func(s string) error {
				if len(s) < tree.MinPasswordLength {
					return fmt.Errorf("must be at least %d characters", tree.MinPasswordLength)
				}
				return nil
			}),
	}
	if confirm {
		fields = append(fields, huh.NewInput().
			Title("Confirm password").
			EchoMode(huh.EchoModePassword).
			Value(&again).
			Validate(func(s string) error {
				if s != pw {
					return errors.New("passwords do not match")
				}
				return nil
			}))
	}

	if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", errCancelled
		}
		return "", err
	}
	return pw, nil
}
