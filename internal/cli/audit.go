package cli

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/dmitrijs2005/vaultkeeper/internal/models"
)

const defaultAuditLimit = 20

func (a *App) Audit(ctx context.Context, args []string) error {
	if len(args) > 2 {
		return usage("audit [limit] [action]")
	}
	f := models.AuditFilter{Limit: defaultAuditLimit}
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return usage("audit [limit] [action]")
		}
		f.Limit = n
	}
	if len(args) == 2 {
		f.ActionType = models.ActionType(args[1])
	}

	events, err := a.vault.AuditQuery(ctx, f)
	if err != nil {
		return err
	}
	for _, e := range events {
		status := "ok"
		if !e.Success {
			status = "FAILED"
		}
		target := ""
		if e.TargetResource != nil {
			target = " " + *e.TargetResource
		}
		a.printf("%s %-24s %-6s %s%s\n", e.CreatedAt.Local().Format(time.DateTime), e.ActionType, status, e.Description, target)
	}
	return nil
}

func (a *App) Stats(ctx context.Context, args []string) error {
	days := 30
	if len(args) > 1 {
		return usage("stats [days]")
	}
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return usage("stats [days]")
		}
		days = n
	}

	s, err := a.vault.AuditStats(ctx, days)
	if err != nil {
		return err
	}
	a.printf("since %s: %d event(s), %d ok, %d failed\n", s.Since.Local().Format(time.DateTime), s.Total, s.Successes, s.Failures)

	actions := make([]string, 0, len(s.ByAction))
	for act := range s.ByAction {
		actions = append(actions, string(act))
	}
	sort.Strings(actions)
	for _, act := range actions {
		a.printf("  %-24s %d\n", act, s.ByAction[models.ActionType(act)])
	}
	return nil
}

func (a *App) Cleanup(ctx context.Context, args []string) error {
	days := a.config.AuditRetentionDays
	if len(args) > 1 {
		return usage("cleanup [days]")
	}
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return usage("cleanup [days]")
		}
		days = n
	}

	n, err := a.vault.AuditCleanup(ctx, days)
	if err != nil {
		return err
	}
	a.printf("Deleted %d audit event(s) older than %d day(s).\n", n, days)
	return nil
}

func (a *App) AuditExport(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return usage("auditexport <file|-> [json|yaml]")
	}
	format, err := a.formatFor(args[0], args[1:])
	if err != nil {
		return err
	}
	data, err := a.vault.AuditExport(ctx, nil, nil, format)
	if err != nil {
		return err
	}
	return a.writeOut(args[0], data)
}
