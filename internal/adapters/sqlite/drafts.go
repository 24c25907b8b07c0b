package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/csg33k/ldpr-reports/internal/domain"
	"github.com/csg33k/ldpr-reports/internal/ports"
)

// Each persisted value lives under its own fixed key.
const (
	KeyDraft      = "ldpr_report_draft"
	KeyStep       = "ldpr_report_step"
	KeyInteracted = "ldpr_report_interacted"
	KeySubmitted  = "ldpr_report_submitted"
	KeyPDFURL     = "ldpr_report_pdf_url"
)

// DraftRepository is the draft storage of one user.
type DraftRepository struct {
	db     *sql.DB
	userID int64
}

var _ ports.DraftRepository = (*DraftRepository)(nil)

// Drafts returns the draft repository scoped to userID.
func (s *Store) Drafts(userID int64) *DraftRepository {
	return &DraftRepository{db: s.db, userID: userID}
}

// ── Draft ─────────────────────────────────────────────────────────────────────

func (r *DraftRepository) Save(ctx context.Context, d ports.Draft) error {
	snap := d.Snapshot
	if snap == nil {
		snap = domain.NewSnapshot()
	}
	values := map[string]any{
		KeyDraft:      snap,
		KeyStep:       int(d.Step),
		KeyInteracted: d.Interacted.Slice(),
	}
	return r.put(ctx, values)
}

// Load returns the stored draft. Missing keys fall back to defaults. A value
// that cannot be decoded also falls back to its default; the returned error
// then names the broken key while the draft is still usable.
func (r *DraftRepository) Load(ctx context.Context) (ports.Draft, error) {
	d := ports.Draft{Snapshot: domain.NewSnapshot(), Step: domain.StepGeneral}

	values, err := r.get(ctx, KeyDraft, KeyStep, KeyInteracted)
	if err != nil {
		return d, err
	}

	var errs []error
	if v, ok := values[KeyDraft]; ok {
		snap := domain.NewSnapshot()
		if err := json.Unmarshal([]byte(v), snap); err != nil {
			errs = append(errs, fmt.Errorf("decode %s: %w", KeyDraft, err))
		} else {
			snap.Normalize()
			d.Snapshot = snap
		}
	}
	if v, ok := values[KeyStep]; ok {
		var step int
		if err := json.Unmarshal([]byte(v), &step); err != nil {
			errs = append(errs, fmt.Errorf("decode %s: %w", KeyStep, err))
		} else if domain.Step(step).Valid() {
			d.Step = domain.Step(step)
		}
	}
	if v, ok := values[KeyInteracted]; ok {
		var flags []bool
		if err := json.Unmarshal([]byte(v), &flags); err != nil {
			errs = append(errs, fmt.Errorf("decode %s: %w", KeyInteracted, err))
		} else {
			d.Interacted = domain.StepFlagsFrom(flags)
		}
	}
	return d, errors.Join(errs...)
}

func (r *DraftRepository) Clear(ctx context.Context) error {
	return r.delete(ctx, KeyDraft, KeyStep, KeyInteracted, KeySubmitted, KeyPDFURL)
}

// ── Submission state ──────────────────────────────────────────────────────────

func (r *DraftRepository) MarkSubmitted(ctx context.Context, artifactURL string) error {
	return r.put(ctx, map[string]any{
		KeySubmitted: true,
		KeyPDFURL:    artifactURL,
	})
}

func (r *DraftRepository) Submission(ctx context.Context) (ports.SubmissionState, error) {
	var st ports.SubmissionState
	values, err := r.get(ctx, KeySubmitted, KeyPDFURL)
	if err != nil {
		return st, err
	}
	if v, ok := values[KeySubmitted]; ok {
		if err := json.Unmarshal([]byte(v), &st.Submitted); err != nil {
			return ports.SubmissionState{}, fmt.Errorf("decode %s: %w", KeySubmitted, err)
		}
	}
	if v, ok := values[KeyPDFURL]; ok {
		if err := json.Unmarshal([]byte(v), &st.ArtifactURL); err != nil {
			return ports.SubmissionState{}, fmt.Errorf("decode %s: %w", KeyPDFURL, err)
		}
	}
	return st, nil
}

func (r *DraftRepository) ClearSubmission(ctx context.Context) error {
	return r.delete(ctx, KeySubmitted, KeyPDFURL)
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func (r *DraftRepository) put(ctx context.Context, values map[string]any) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now()
	for key, v := range values {
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO drafts (user_id, key, value, updated_at) VALUES (?,?,?,?)
			ON CONFLICT(user_id, key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at`,
			r.userID, key, string(b), now,
		); err != nil {
			return fmt.Errorf("store %s: %w", key, err)
		}
	}
	return tx.Commit()
}

func (r *DraftRepository) get(ctx context.Context, keys ...string) (map[string]string, error) {
	out := make(map[string]string, len(keys))
	for _, key := range keys {
		var v string
		err := r.db.QueryRowContext(ctx,
			`SELECT value FROM drafts WHERE user_id=? AND key=?`, r.userID, key).Scan(&v)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", key, err)
		}
		out[key] = v
	}
	return out, nil
}

func (r *DraftRepository) delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		if _, err := r.db.ExecContext(ctx,
			`DELETE FROM drafts WHERE user_id=? AND key=?`, r.userID, key); err != nil {
			return fmt.Errorf("delete %s: %w", key, err)
		}
	}
	return nil
}
