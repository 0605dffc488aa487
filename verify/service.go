// Package verify runs the screenshot verification flow: a user begins
// verification, submits a screenshot, the oracle reads it and the configured
// role is granted when the guild's marker is found.
package verify

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/cufee/botto-verify/database"
	"github.com/cufee/botto-verify/media"
	"github.com/cufee/botto-verify/oracle"
	"github.com/cufee/botto-verify/pending"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// GuildLookup reads guild settings.
type GuildLookup interface {
	Get(guildID string) (database.GuildConfig, error)
}

// Fetcher downloads an attachment.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (media.Image, error)
}

// RoleGranter adds a role to a guild member.
type RoleGranter interface {
	GrantRole(ctx context.Context, guildID, userID, roleID string) error
}

// Outcome is the result of a screenshot submission.
type Outcome int

const (
	// OutcomeIgnored means the user had no pending verification.
	OutcomeIgnored Outcome = iota
	// OutcomeNeedImage means no usable image was attached; the entry is kept.
	OutcomeNeedImage
	// OutcomeReadFailed means the download or text extraction failed.
	OutcomeReadFailed
	// OutcomeRejected means the marker was not found.
	OutcomeRejected
	// OutcomeGrantFailed means the marker matched but the role could not be added.
	OutcomeGrantFailed
	// OutcomeVerified means the role was granted.
	OutcomeVerified
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeNeedImage:
		return "need_image"
	case OutcomeReadFailed:
		return "read_failed"
	case OutcomeRejected:
		return "rejected"
	case OutcomeGrantFailed:
		return "grant_failed"
	case OutcomeVerified:
		return "verified"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Attachment is the part of an uploaded file the flow needs.
type Attachment struct {
	URL         string
	Filename    string
	ContentType string
}

// Submission is a DM sent by a user.
type Submission struct {
	UserID      string
	Attachments []Attachment
}

// Result describes what happened to a submission.
type Result struct {
	Outcome      Outcome
	Verification pending.Verification
	AttemptID    string
	Err          error
}

// Deps are the collaborators of a Service.
type Deps struct {
	Pending   *pending.Table
	Guilds    GuildLookup
	Fetcher   Fetcher
	Oracle    oracle.Extractor
	Granter   RoleGranter
	Logger    *zap.Logger
	PerMinute int
	Burst     int
}

// Service owns the pending table and drives verification attempts.
type Service struct {
	pending  *pending.Table
	guilds   GuildLookup
	fetcher  Fetcher
	oracle   oracle.Extractor
	granter  RoleGranter
	logger   *zap.Logger
	throttle *throttle
}

// NewService wires a Service.
func NewService(d Deps) *Service {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		pending:  d.Pending,
		guilds:   d.Guilds,
		fetcher:  d.Fetcher,
		oracle:   d.Oracle,
		granter:  d.Granter,
		logger:   logger,
		throttle: newThrottle(d.PerMinute, d.Burst),
	}
}

// Begin moves the user to AwaitingScreenshot for guildID, replacing any
// earlier pending verification.
func (s *Service) Begin(userID, guildID string) (pending.Verification, error) {
	gc, err := s.guilds.Get(guildID)
	if err != nil {
		return pending.Verification{}, err
	}
	if !s.throttle.allow(userID) {
		return pending.Verification{}, ErrThrottled
	}
	v := s.pending.Begin(userID, guildID, gc.RoleID, gc.ExpectedMarker)
	s.logger.Info("verification started",
		zap.String("user", userID),
		zap.String("guild", guildID),
		zap.String("role", gc.RoleID))
	return v, nil
}

// Cancel drops the user's pending verification.
func (s *Service) Cancel(userID string) {
	s.pending.Drop(userID)
}

// Awaiting reports whether the user has a pending verification.
func (s *Service) Awaiting(userID string) bool {
	_, ok := s.pending.Peek(userID)
	return ok
}

// Pending counts users awaiting a screenshot.
func (s *Service) Pending() int {
	return s.pending.Len()
}

// Submit handles a message from a user. Missing or non-image attachments
// keep the pending entry; every other outcome removes it.
func (s *Service) Submit(ctx context.Context, sub Submission) Result {
	v, ok := s.pending.Peek(sub.UserID)
	if !ok {
		return Result{Outcome: OutcomeIgnored}
	}
	if len(sub.Attachments) == 0 {
		return Result{Outcome: OutcomeNeedImage, Verification: v, Err: ErrNoAttachment}
	}

	att, ok := firstImage(sub.Attachments)
	if !ok {
		return Result{Outcome: OutcomeNeedImage, Verification: v, Err: ErrNotImage}
	}

	// Only one concurrent submission gets past this point
	v, ok = s.pending.Consume(sub.UserID)
	if !ok {
		return Result{Outcome: OutcomeIgnored}
	}

	res := Result{
		Verification: v,
		AttemptID:    ulid.MustNew(ulid.Now(), rand.Reader).String(),
	}
	log := s.logger.With(
		zap.String("attempt", res.AttemptID),
		zap.String("user", v.UserID),
		zap.String("guild", v.GuildID))
	started := time.Now()

	img, err := s.fetcher.Fetch(ctx, att.URL)
	if err != nil {
		log.Warn("screenshot download failed", zap.Error(err))
		res.Outcome, res.Err = OutcomeReadFailed, fmt.Errorf("%w: %w", ErrFetch, err)
		return res
	}

	text, err := s.oracle.ExtractText(ctx, img.Data, img.MimeType)
	if err != nil {
		log.Warn("text extraction failed", zap.String("oracle", s.oracle.Name()), zap.Error(err))
		res.Outcome, res.Err = OutcomeReadFailed, fmt.Errorf("%w: %w", ErrExtract, err)
		return res
	}

	if !Decide(text, v.ExpectedMarker) {
		log.Info("marker not found",
			zap.String("marker", v.ExpectedMarker),
			zap.Int("text_len", len(text)),
			zap.Duration("took", time.Since(started)))
		res.Outcome = OutcomeRejected
		return res
	}

	if err := s.granter.GrantRole(ctx, v.GuildID, v.UserID, v.RoleID); err != nil {
		log.Error("role grant failed", zap.String("role", v.RoleID), zap.Error(err))
		res.Outcome, res.Err = OutcomeGrantFailed, err
		return res
	}

	log.Info("verified", zap.String("role", v.RoleID), zap.Duration("took", time.Since(started)))
	res.Outcome = OutcomeVerified
	return res
}

// MarkerFromImage derives a marker from an example screenshot.
func (s *Service) MarkerFromImage(ctx context.Context, url string) (string, error) {
	img, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrFetch, err)
	}
	text, err := s.oracle.ExtractText(ctx, img.Data, img.MimeType)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrExtract, err)
	}
	return MarkerFromText(text), nil
}

// Run sweeps expired pending entries and idle rate limiters until ctx is done.
func (s *Service) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := s.pending.Sweep(); n > 0 {
				s.logger.Debug("expired pending verifications", zap.Int("count", n))
			}
			s.throttle.sweep(10 * time.Minute)
		}
	}
}

func firstImage(atts []Attachment) (Attachment, bool) {
	for _, a := range atts {
		if media.IsImageAttachment(a.ContentType, a.Filename) {
			return a, true
		}
	}
	return Attachment{}, false
}
