package cli

import (
	"context"
	"sort"
	"strings"

	"github.com/dmitrijs2005/vaultkeeper/internal/passwords"
)

func siteArg(args []string, cmd string) (string, error) {
	if len(args) != 1 {
		return "", usage("%s <website>", cmd)
	}
	return args[0], nil
}

func (a *App) Add(ctx context.Context, args []string) error {
	website, err := siteArg(args, "add")
	if err != nil {
		return err
	}
	username, err := getSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}
	password, err := a.readSecret("Password (empty to generate)")
	if err != nil {
		return err
	}
	if password == "" {
		generated, err := passwords.NewGenerator().Generate(passwords.DefaultOptions())
		if err != nil {
			return err
		}
		password = generated
		a.printf("Generated password: %s\n", password)
	}

	created, err := a.vault.AddCredential(ctx, website, username, password)
	if err != nil {
		return err
	}
	an := a.vault.AnalyzePassword(password)
	if created {
		a.printf("Saved %s (strength: %s).\n", website, an.Level)
	} else {
		a.printf("Updated %s (strength: %s).\n", website, an.Level)
	}
	return nil
}

func (a *App) Get(ctx context.Context, args []string) error {
	website, err := siteArg(args, "get")
	if err != nil {
		return err
	}
	r, err := a.vault.GetCredential(ctx, website)
	if err != nil {
		return err
	}
	a.printf("website:  %s\nusername: %s\npassword: %s\n", r.Website, r.Username, r.Password)
	return nil
}

func (a *App) Update(ctx context.Context, args []string) error {
	website, err := siteArg(args, "update")
	if err != nil {
		return err
	}
	password, err := a.readSecret("New password")
	if err != nil {
		return err
	}
	if err := a.vault.UpdatePassword(ctx, website, password); err != nil {
		return err
	}
	a.printf("Password for %s updated.\n", website)
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	website, err := siteArg(args, "delete")
	if err != nil {
		return err
	}
	if err := a.vault.DeleteCredential(ctx, website); err != nil {
		return err
	}
	a.printf("Deleted %s.\n", website)
	return nil
}

func (a *App) List(ctx context.Context, _ []string) error {
	sites, err := a.vault.Websites(ctx)
	if err != nil {
		return err
	}
	if len(sites) == 0 {
		a.printf("The vault is empty.\n")
		return nil
	}
	for _, s := range sites {
		a.printf("  %s\n", s)
	}
	a.printf("%d credential(s)\n", len(sites))
	return nil
}

func (a *App) Hygiene(ctx context.Context, _ []string) error {
	r, err := a.vault.HygieneReport(ctx)
	if err != nil {
		return err
	}
	a.printf("credentials: %d\nreused:      %d\n", r.Total, r.Reused)
	for _, l := range passwords.Levels {
		a.printf("  %-12s %d\n", string(l)+":", r.ByLevel[string(l)])
	}
	if len(r.WeakSites) > 0 {
		weak := append([]string(nil), r.WeakSites...)
		sort.Strings(weak)
		a.printf("weak:        %s\n", strings.Join(weak, ", "))
	}
	return nil
}
