package cli

import (
	"context"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/vaultkeeper/internal/passwords"
	"github.com/dmitrijs2005/vaultkeeper/internal/vault"
)

const generateUsage = "generate [random|memorable|pronounceable] [length or word count]"

func (a *App) Generate(ctx context.Context, args []string) error {
	if len(args) > 2 {
		return usage(generateUsage)
	}
	kind := vault.KindRandom
	if len(args) > 0 {
		kind = vault.GeneratorKind(strings.ToLower(args[0]))
	}
	req := vault.DefaultGenerateRequest(kind)

	if len(args) == 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return usage(generateUsage)
		}
		req.Random.Length = n
		req.Memorable.WordCount = n
		req.Pronounceable.Length = n
	}

	pw, an, err := a.vault.GeneratePassword(ctx, req)
	if err != nil {
		return err
	}
	a.printf("%s\n", pw)
	a.printAnalysis(an)
	return nil
}

// Analyze rates a password typed without echo. It needs no login.
func (a *App) Analyze(_ context.Context, _ []string) error {
	pw, err := a.readSecret("Password to analyze")
	if err != nil {
		return err
	}
	a.printAnalysis(a.vault.AnalyzePassword(pw))
	return nil
}

func (a *App) printAnalysis(an passwords.Analysis) {
	a.printf("strength: %s (%d/100), entropy %.2f bits, %d characters\n", an.Level, an.Score, an.Entropy, an.Length)
	for _, s := range an.Issues {
		a.printf("  issue: %s\n", s)
	}
	for _, s := range an.Suggestions {
		a.printf("  tip:   %s\n", s)
	}
	for _, s := range an.Patterns {
		a.printf("  pattern: %s\n", s)
	}
}
