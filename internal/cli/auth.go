package cli

import (
	"context"
	"time"

	"github.com/dmitrijs2005/vaultkeeper/internal/common"
)

// readSecret prompts for a secret and returns it as a string, wiping the
// byte slice read from the terminal.
func (a *App) readSecret(prompt string) (string, error) {
	b, err := getPassword(a.out, prompt)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(b)
	return string(b), nil
}

// readNewSecret asks twice and insists both entries match.
func (a *App) readNewSecret(prompt string) (string, error) {
	first, err := a.readSecret(prompt)
	if err != nil {
		return "", err
	}
	second, err := a.readSecret("Confirm")
	if err != nil {
		return "", err
	}
	if first != second {
		return "", usage("the two entries do not match")
	}
	return first, nil
}

func (a *App) Signup(ctx context.Context, _ []string) error {
	username, err := getSimpleText(a.reader, "Choose a username", a.out)
	if err != nil {
		return err
	}
	password, err := a.readNewSecret("Choose a master password")
	if err != nil {
		return err
	}
	if err := a.vault.Signup(ctx, username, password); err != nil {
		return err
	}
	a.printf("Account created. Use 'login' to open the vault.\n")
	return nil
}

func (a *App) Login(ctx context.Context, _ []string) error {
	username, err := getSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}
	password, err := a.readSecret("Master password")
	if err != nil {
		return err
	}
	info, err := a.vault.Login(ctx, username, password)
	if err != nil {
		return err
	}
	a.printf("Logged in. Session locks after %s of inactivity.\n", info.Timeout)
	return nil
}

func (a *App) Logout(ctx context.Context, _ []string) error {
	a.vault.Logout(ctx)
	a.printf("Logged out.\n")
	return nil
}

func (a *App) ChangeMaster(ctx context.Context, _ []string) error {
	current, err := a.readSecret("Current master password")
	if err != nil {
		return err
	}
	next, err := a.readNewSecret("New master password")
	if err != nil {
		return err
	}
	if err := a.vault.ChangeMasterPassword(ctx, current, next); err != nil {
		return err
	}
	a.printf("Master password changed.\n")
	return nil
}

func (a *App) Status(ctx context.Context, _ []string) error {
	if err := a.vault.RefreshSession(ctx); err != nil {
		return err
	}
	n, err := a.vault.CountCredentials(ctx)
	if err != nil {
		return err
	}
	s := a.vault.Session()
	a.printf("identity: %s\nsession:  %s\nstarted:  %s\nexpires:  %s (in %s)\nstored:   %d credential(s)\n",
		s.Identity, s.ID, s.StartedAt.Format(time.RFC3339), s.ExpiresAt.Format(time.RFC3339),
		s.Remaining(a.clock.Now()).Round(time.Second), n)
	return nil
}
