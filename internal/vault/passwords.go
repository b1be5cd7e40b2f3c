package vault

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/vaultkeeper/internal/common"
	"github.com/dmitrijs2005/vaultkeeper/internal/models"
	"github.com/dmitrijs2005/vaultkeeper/internal/passwords"
	"github.com/dmitrijs2005/vaultkeeper/internal/session"
)

type GeneratorKind string

const (
	KindRandom        GeneratorKind = "random"
	KindMemorable     GeneratorKind = "memorable"
	KindPronounceable GeneratorKind = "pronounceable"
)

// GenerateRequest selects a generator; only the options of that kind are
// read.
type GenerateRequest struct {
	Kind          GeneratorKind
	Random        passwords.Options
	Memorable     passwords.MemorableOptions
	Pronounceable passwords.PronounceableOptions
}

func DefaultGenerateRequest(kind GeneratorKind) GenerateRequest {
	return GenerateRequest{
		Kind:          kind,
		Random:        passwords.DefaultOptions(),
		Memorable:     passwords.DefaultMemorableOptions(),
		Pronounceable: passwords.DefaultPronounceableOptions(),
	}
}

// GeneratePassword returns a new password with its strength analysis. The
// password itself never reaches the audit log.
func (v *Vault) GeneratePassword(ctx context.Context, req GenerateRequest) (string, passwords.Analysis, error) {
	var pw string
	err := v.guarded(ctx, models.ActionPasswordGenerate, "password generated",
		func(_ session.Info, e *models.AuditEvent) error {
			*e = e.WithExtra("kind", string(req.Kind))
			var err error
			switch req.Kind {
			case KindRandom, "":
				pw, err = v.gen.Generate(req.Random)
			case KindMemorable:
				pw, err = v.gen.GenerateMemorable(req.Memorable)
			case KindPronounceable:
				pw, err = v.gen.GeneratePronounceable(req.Pronounceable)
			default:
				err = fmt.Errorf("%w: unknown generator %q", common.ErrInvalidOptions, req.Kind)
			}
			return err
		})
	if err != nil {
		return "", passwords.Analysis{}, err
	}
	return pw, passwords.Analyze(pw), nil
}

// AnalyzePassword needs no session; it touches no stored data.
func (v *Vault) AnalyzePassword(password string) passwords.Analysis {
	return passwords.Analyze(password)
}
