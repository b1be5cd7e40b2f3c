package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/vaultkeeper/internal/common"
	"github.com/dmitrijs2005/vaultkeeper/internal/dbx"
	"github.com/dmitrijs2005/vaultkeeper/internal/models"
	"github.com/dmitrijs2005/vaultkeeper/internal/passwords"
	"github.com/dmitrijs2005/vaultkeeper/internal/repositories/repomanager"
	"github.com/dmitrijs2005/vaultkeeper/internal/snapshot"
	"github.com/dmitrijs2005/vaultkeeper/internal/timex"
)

// CredentialService stores website credentials. Usernames and passwords
// are encrypted before they reach the repository; websites are kept clear.
type CredentialService interface {
	Upsert(ctx context.Context, website, username, password string) (created bool, err error)
	Get(ctx context.Context, website string) (*models.Record, error)
	SoftDelete(ctx context.Context, website string) error
	UpdatePassword(ctx context.Context, website, newPassword string) error
	ListActive(ctx context.Context) ([]models.Record, error)
	CountActive(ctx context.Context) (int, error)
	Websites(ctx context.Context) ([]string, error)
	Export(ctx context.Context, format snapshot.Format) ([]byte, error)
	Import(ctx context.Context, data []byte, format snapshot.Format) (models.ImportReport, error)
	HygieneReport(ctx context.Context) (models.HygieneReport, error)
}

type credentialService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	cipher Encryptor
	clock  timex.Clock
}

func NewCredentialService(db *sql.DB, repos repomanager.RepositoryManager, cipher Encryptor, clock timex.Clock) CredentialService {
	return &credentialService{db: db, repos: repos, cipher: cipher, clock: clock}
}

func normalizeWebsite(website string) (string, error) {
	w := strings.TrimSpace(website)
	if w == "" {
		return "", fmt.Errorf("%w: website must not be empty", common.ErrInvalidInput)
	}
	return w, nil
}

// Upsert inserts or overwrites the credential for website; a soft-deleted
// entry becomes active again.
func (s *credentialService) Upsert(ctx context.Context, website, username, password string) (bool, error) {
	website, err := normalizeWebsite(website)
	if err != nil {
		return false, err
	}
	encUser, err := s.cipher.Encrypt(username)
	if err != nil {
		return false, fmt.Errorf("encrypt username: %w", err)
	}
	encPass, err := s.cipher.Encrypt(password)
	if err != nil {
		return false, fmt.Errorf("encrypt password: %w", err)
	}

	var created bool
	err = withTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		created, err = s.repos.Credentials(tx).Upsert(ctx, website, encUser, encPass, s.clock.Now())
		return err
	})
	return created, err
}

func (s *credentialService) Get(ctx context.Context, website string) (*models.Record, error) {
	website, err := normalizeWebsite(website)
	if err != nil {
		return nil, err
	}
	var c *models.Credential
	err = retry(ctx, func() error {
		var err error
		c, err = s.repos.Credentials(s.db).GetActive(ctx, website)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.decrypt(c)
}

func (s *credentialService) SoftDelete(ctx context.Context, website string) error {
	website, err := normalizeWebsite(website)
	if err != nil {
		return err
	}
	return withTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repos.Credentials(tx).SoftDelete(ctx, website, s.clock.Now())
	})
}

func (s *credentialService) UpdatePassword(ctx context.Context, website, newPassword string) error {
	website, err := normalizeWebsite(website)
	if err != nil {
		return err
	}
	encPass, err := s.cipher.Encrypt(newPassword)
	if err != nil {
		return fmt.Errorf("encrypt password: %w", err)
	}
	return withTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repos.Credentials(tx).UpdatePassword(ctx, website, encPass, s.clock.Now())
	})
}

// ListActive decrypts every active credential. One undecryptable row fails
// the whole call so corrupt data is never mistaken for a short list.
func (s *credentialService) ListActive(ctx context.Context) ([]models.Record, error) {
	var rows []models.Credential
	err := retry(ctx, func() error {
		var err error
		rows, err = s.repos.Credentials(s.db).ListActive(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	out := make([]models.Record, 0, len(rows))
	for i := range rows {
		r, err := s.decrypt(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, nil
}

func (s *credentialService) CountActive(ctx context.Context) (int, error) {
	var n int
	err := retry(ctx, func() error {
		var err error
		n, err = s.repos.Credentials(s.db).CountActive(ctx)
		return err
	})
	return n, err
}

func (s *credentialService) Websites(ctx context.Context) ([]string, error) {
	var sites []string
	err := retry(ctx, func() error {
		var err error
		sites, err = s.repos.Credentials(s.db).Websites(ctx)
		return err
	})
	return sites, err
}

// Export returns all active credentials in plaintext. The caller is
// responsible for protecting the output.
func (s *credentialService) Export(ctx context.Context, format snapshot.Format) ([]byte, error) {
	records, err := s.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return snapshot.Encode(records, format)
}

// Import upserts every entry independently. Only an unreadable snapshot is
// an error; per-entry failures are collected in the report.
func (s *credentialService) Import(ctx context.Context, data []byte, format snapshot.Format) (models.ImportReport, error) {
	var report models.ImportReport

	records, err := snapshot.Decode[models.Record](data, format)
	if err != nil {
		return report, err
	}

	for i, r := range records {
		if _, err := s.Upsert(ctx, r.Website, r.Username, r.Password); err != nil {
			report.Failed = append(report.Failed, models.ImportFailure{Index: i, Website: r.Website, Reason: err.Error()})
			continue
		}
		report.Imported++
	}
	return report, nil
}

// HygieneReport rates every active password and counts reuse.
func (s *credentialService) HygieneReport(ctx context.Context) (models.HygieneReport, error) {
	records, err := s.ListActive(ctx)
	if err != nil {
		return models.HygieneReport{}, err
	}

	report := models.HygieneReport{Total: len(records), ByLevel: map[string]int{}, WeakSites: []string{}}
	for _, l := range passwords.Levels {
		report.ByLevel[string(l)] = 0
	}

	uses := map[string]int{}
	for _, r := range records {
		level := passwords.Analyze(r.Password).Level
		report.ByLevel[string(level)]++
		if level == passwords.VeryWeak || level == passwords.Weak {
			report.WeakSites = append(report.WeakSites, r.Website)
		}
		uses[r.Password]++
	}
	for _, n := range uses {
		if n > 1 {
			report.Reused += n
		}
	}
	return report, nil
}

func (s *credentialService) decrypt(c *models.Credential) (*models.Record, error) {
	user, err := s.cipher.Decrypt(c.EncryptedUsername)
	if err != nil {
		return nil, fmt.Errorf("credential %q username: %w", c.Website, err)
	}
	pass, err := s.cipher.Decrypt(c.EncryptedPassword)
	if err != nil {
		return nil, fmt.Errorf("credential %q password: %w", c.Website, err)
	}
	return &models.Record{Website: c.Website, Username: user, Password: pass}, nil
}
